package hub

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-storefront/common"
	"github.com/Carmen-Shannon/oxy-storefront/realtime"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type viewer struct {
	t    *testing.T
	conn *websocket.Conn
}

func dial(t *testing.T, srv *httptest.Server) *viewer {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return &viewer{t: t, conn: conn}
}

func (v *viewer) send(event string, payload any) {
	v.t.Helper()
	frame, err := realtime.Encode(event, payload)
	require.NoError(v.t, err)
	require.NoError(v.t, v.conn.WriteMessage(websocket.TextMessage, frame))
}

func (v *viewer) next() realtime.Envelope {
	v.t.Helper()
	require.NoError(v.t, v.conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, frame, err := v.conn.ReadMessage()
	require.NoError(v.t, err)
	env, err := realtime.Decode(frame)
	require.NoError(v.t, err)
	return env
}

func (v *viewer) expectCount(n int) {
	v.t.Helper()
	env := v.next()
	require.Equal(v.t, realtime.EventUserCount, env.Event)
	p, err := realtime.DecodeData[realtime.UserCount](env.Data)
	require.NoError(v.t, err)
	assert.Equal(v.t, n, p.Count)
}

func (v *viewer) join(sceneID string, max, count int) {
	v.t.Helper()
	v.send(realtime.EventJoinScene, realtime.ScenePayload{SceneID: sceneID})
	env := v.next()
	require.Equal(v.t, realtime.EventMaxUsers, env.Event)
	p, err := realtime.DecodeData[realtime.MaxUsers](env.Data)
	require.NoError(v.t, err)
	assert.Equal(v.t, max, p.Max)
	v.expectCount(count)
}

func TestHubRoomLifecycle(t *testing.T) {
	h := NewHub(WithMaxUsers(2))
	srv := httptest.NewServer(NewRouter(h))
	defer srv.Close()

	a := dial(t, srv)
	b := dial(t, srv)
	c := dial(t, srv)

	a.join("store-1", 2, 1)
	b.join("store-1", 2, 2)
	a.expectCount(2)

	c.send(realtime.EventJoinScene, realtime.ScenePayload{SceneID: "store-1"})
	full := c.next()
	assert.Equal(t, realtime.EventSceneFull, full.Event)
	msg, err := realtime.DecodeData[realtime.SceneFull](full.Data)
	require.NoError(t, err)
	assert.Contains(t, msg.Message, "2")

	a.send(realtime.EventPositionUpdate, realtime.PositionUpdate{
		SceneID:  "store-1",
		ModelID:  "m1",
		Position: common.Position{X: 3, Y: 1, Z: 2},
	})
	moved := b.next()
	require.Equal(t, realtime.EventPositionChanged, moved.Event)
	p, err := realtime.DecodeData[realtime.PositionChanged](moved.Data)
	require.NoError(t, err)
	assert.Equal(t, realtime.PositionChanged{ModelID: "m1", Position: common.Position{X: 3, Y: 1, Z: 2}}, p)

	a.send(realtime.EventLeaveScene, realtime.ScenePayload{SceneID: "store-1"})
	b.expectCount(1)

	count, err := h.Occupancy(context.Background(), "store-1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// The freed seat can be taken.
	c.join("store-1", 2, 2)
	b.expectCount(2)
}

func TestHubDisconnectFreesSeat(t *testing.T) {
	h := NewHub(WithMaxUsers(2))
	srv := httptest.NewServer(NewRouter(h))
	defer srv.Close()

	a := dial(t, srv)
	b := dial(t, srv)
	a.join("store-1", 2, 1)
	b.join("store-1", 2, 2)
	a.expectCount(2)

	require.NoError(t, b.conn.Close())
	a.expectCount(1)
}

func TestOccupancyEndpoint(t *testing.T) {
	h := NewHub(WithMaxUsers(1))
	srv := httptest.NewServer(NewRouter(h))
	defer srv.Close()

	a := dial(t, srv)
	a.join("store-9", 1, 1)

	resp, err := http.Get(srv.URL + "/api/v1/scenes/store-9/occupancy")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body OccupancyResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, OccupancyResponse{SceneID: "store-9", Count: 1, MaxUsers: 1, Full: true}, body)
}

func TestHealthz(t *testing.T) {
	srv := httptest.NewServer(NewRouter(NewHub()))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp2, err := http.Post(srv.URL+"/healthz", "text/plain", nil)
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp2.StatusCode)
}

func TestMemoryStoreCapacity(t *testing.T) {
	checkStoreCapacity(t, NewMemoryStore(), "s")
}

// checkStoreCapacity exercises an empty room through join, rejoin, capacity and leave.
func checkStoreCapacity(t *testing.T, s OccupancyStore, scene string) {
	t.Helper()
	ctx := context.Background()

	n, ok, err := s.Join(ctx, scene, "a", 2)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, n)

	n, ok, _ = s.Join(ctx, scene, "a", 2)
	assert.True(t, ok)
	assert.Equal(t, 1, n)

	_, ok, _ = s.Join(ctx, scene, "b", 2)
	assert.True(t, ok)
	n, ok, _ = s.Join(ctx, scene, "c", 2)
	assert.False(t, ok)
	assert.Equal(t, 2, n)

	n, err = s.Count(ctx, scene)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = s.Leave(ctx, scene, "a")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	n, _ = s.Leave(ctx, scene, "b")
	assert.Zero(t, n)
	n, _ = s.Count(ctx, scene)
	assert.Zero(t, n)
}
