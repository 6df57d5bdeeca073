package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// echoHub answers join-scene with user-count and reports every frame it reads.
func echoHub(t *testing.T, frames chan<- Envelope) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			_, frame, err := conn.ReadMessage()
			if err != nil {
				close(frames)
				return
			}
			env, err := Decode(frame)
			if err != nil {
				continue
			}
			frames <- env
			if env.Event == EventJoinScene {
				reply, _ := Encode(EventUserCount, UserCount{Count: 1})
				_ = conn.WriteMessage(websocket.TextMessage, reply)
			}
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestWSChannelRoundTrip(t *testing.T) {
	frames := make(chan Envelope, 8)
	srv := echoHub(t, frames)

	ch := NewWSChannel(WithKeepalive(time.Second, 100*time.Millisecond))
	connected := make(chan struct{}, 1)
	counts := make(chan int, 1)
	disconnected := make(chan struct{})
	ch.On(EventConnect, func(json.RawMessage) { connected <- struct{}{} })
	ch.On(EventUserCount, func(data json.RawMessage) {
		p, err := DecodeData[UserCount](data)
		if err == nil {
			counts <- p.Count
		}
	})
	ch.On(EventDisconnect, func(json.RawMessage) { close(disconnected) })

	require.NoError(t, ch.Connect(context.Background(), wsURL(srv)))
	<-connected
	assert.ErrorIs(t, ch.Connect(context.Background(), wsURL(srv)), ErrAlreadyConnected)

	require.NoError(t, ch.Emit(EventJoinScene, ScenePayload{SceneID: "store-1"}))
	select {
	case env := <-frames:
		assert.Equal(t, EventJoinScene, env.Event)
		p, err := DecodeData[ScenePayload](env.Data)
		require.NoError(t, err)
		assert.Equal(t, "store-1", p.SceneID)
	case <-time.After(2 * time.Second):
		t.Fatal("hub did not receive join-scene")
	}

	select {
	case n := <-counts:
		assert.Equal(t, 1, n)
	case <-time.After(2 * time.Second):
		t.Fatal("no user-count received")
	}

	require.NoError(t, ch.Emit(EventLeaveScene, ScenePayload{SceneID: "store-1"}))
	require.NoError(t, ch.Disconnect())
	require.NoError(t, ch.Disconnect())

	var events []string
	for env := range frames {
		events = append(events, env.Event)
	}
	assert.Equal(t, []string{EventLeaveScene}, events)

	select {
	case <-disconnected:
	case <-time.After(2 * time.Second):
		t.Fatal("disconnect event not raised")
	}
	assert.ErrorIs(t, ch.Emit(EventPositionUpdate, nil), ErrClosed)
}

func TestWSChannelConnectError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	ch := NewWSChannel()
	var reason string
	ch.On(EventConnectError, func(data json.RawMessage) {
		p, _ := DecodeData[ErrorPayload](data)
		reason = p.Message
	})

	err := ch.Connect(context.Background(), wsURL(srv))
	require.Error(t, err)
	assert.NotEmpty(t, reason)
	assert.ErrorIs(t, ch.Emit(EventJoinScene, nil), ErrNotConnected)
}

func TestEncodeDecode(t *testing.T) {
	frame, err := Encode(EventPositionChanged, PositionChanged{ModelID: "m1"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"event":"position-changed","data":{"modelId":"m1","position":{"x":0,"y":0,"z":0}}}`, string(frame))

	_, err = Decode([]byte(`{"data":{}}`))
	assert.ErrorIs(t, err, ErrMissingEvent)
	_, err = Decode([]byte(`not json`))
	assert.Error(t, err)
}
