package realtime

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-storefront/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type emitted struct {
	event   string
	payload any
}

// fakeChannel records emits and lets tests fire inbound events by hand.
type fakeChannel struct {
	mu           sync.Mutex
	handlers     map[string][]Handler
	emits        []emitted
	connects     chan string
	disconnected bool
}

func newFakeChannel() *fakeChannel {
	return &fakeChannel{handlers: make(map[string][]Handler), connects: make(chan string, 1)}
}

func (f *fakeChannel) Connect(_ context.Context, url string) error {
	f.connects <- url
	return nil
}

func (f *fakeChannel) Emit(event string, payload any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.emits = append(f.emits, emitted{event, payload})
	return nil
}

func (f *fakeChannel) On(event string, h Handler) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[event] = append(f.handlers[event], h)
}

func (f *fakeChannel) Disconnect() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.disconnected = true
	return nil
}

func (f *fakeChannel) fire(t *testing.T, event string, payload any) {
	t.Helper()
	var data json.RawMessage
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		data = raw
	}
	f.mu.Lock()
	handlers := append([]Handler(nil), f.handlers[event]...)
	f.mu.Unlock()
	for _, h := range handlers {
		h(data)
	}
}

func (f *fakeChannel) sent() []emitted {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]emitted(nil), f.emits...)
}

// channels hands out a new fakeChannel per Enter.
type channels struct {
	list []*fakeChannel
}

func (c *channels) factory() Channel {
	ch := newFakeChannel()
	c.list = append(c.list, ch)
	return ch
}

func (c *channels) last() *fakeChannel {
	return c.list[len(c.list)-1]
}

func enterConnected(t *testing.T, sceneID string) (Client, *channels) {
	t.Helper()
	chs := &channels{}
	c := NewClient("ws://hub/ws", WithChannelFactory(chs.factory))
	c.Enter(context.Background(), sceneID)
	ch := chs.last()
	select {
	case url := <-ch.connects:
		assert.Equal(t, "ws://hub/ws", url)
	case <-time.After(time.Second):
		t.Fatal("Connect was not called")
	}
	ch.fire(t, EventConnect, nil)
	return c, chs
}

func TestEnterJoinsOnConnect(t *testing.T) {
	chs := &channels{}
	c := NewClient("ws://hub/ws", WithChannelFactory(chs.factory))
	assert.Equal(t, Disconnected, c.State())
	assert.Equal(t, DefaultMaxUsers, c.Occupancy().MaxUsers)

	c.Enter(context.Background(), "store-1")
	assert.Equal(t, Connecting, c.State())
	assert.Equal(t, "store-1", c.SceneID())
	<-chs.last().connects

	chs.last().fire(t, EventConnect, nil)
	assert.Equal(t, Connected, c.State())
	assert.True(t, c.Occupancy().Connected)
	assert.Equal(t, []emitted{{EventJoinScene, ScenePayload{SceneID: "store-1"}}}, chs.last().sent())
}

func TestEmitPositionRequiresConnection(t *testing.T) {
	chs := &channels{}
	c := NewClient("ws://hub/ws", WithChannelFactory(chs.factory))
	assert.False(t, c.EmitPosition("m1", common.Position{X: 1}))

	c.Enter(context.Background(), "store-1")
	<-chs.last().connects
	assert.False(t, c.EmitPosition("m1", common.Position{X: 1}))

	chs.last().fire(t, EventConnect, nil)
	require.True(t, c.EmitPosition("m1", common.Position{X: 3, Y: 1, Z: 2}))

	sent := chs.last().sent()
	require.Len(t, sent, 2)
	assert.Equal(t, emitted{EventPositionUpdate, PositionUpdate{
		SceneID:  "store-1",
		ModelID:  "m1",
		Position: common.Position{X: 3, Y: 1, Z: 2},
	}}, sent[1])
}

func TestOccupancyMessages(t *testing.T) {
	c, chs := enterConnected(t, "store-1")
	var seen []OccupancyState
	c.OnOccupancy(func(s OccupancyState) { seen = append(seen, s) })

	ch := chs.last()
	ch.fire(t, EventMaxUsers, MaxUsers{Max: 4})
	ch.fire(t, EventUserCount, UserCount{Count: 2})
	ch.fire(t, EventUserCount, UserCount{Count: 2})
	ch.fire(t, EventSceneFull, SceneFull{Message: "full"})

	assert.Equal(t, OccupancyState{Connected: true, UserCount: 2, MaxUsers: 4, Full: true}, c.Occupancy())
	assert.Len(t, seen, 3)
}

func TestPositionChangedReachesObservers(t *testing.T) {
	c, chs := enterConnected(t, "store-1")
	type move struct {
		id  string
		pos common.Position
	}
	var moves []move
	c.OnPositionChanged(func(id string, pos common.Position) { moves = append(moves, move{id, pos}) })

	chs.last().fire(t, EventPositionChanged, PositionChanged{ModelID: "m1", Position: common.Position{X: 3, Y: 1, Z: 2}})
	chs.last().fire(t, EventPositionChanged, map[string]any{"position": map[string]float32{"x": 1}})

	assert.Equal(t, []move{{"m1", common.Position{X: 3, Y: 1, Z: 2}}}, moves)
}

func TestLeaveAnnouncesThenDisconnects(t *testing.T) {
	c, chs := enterConnected(t, "store-1")
	ch := chs.last()

	c.Leave()
	c.Leave()

	sent := ch.sent()
	require.Len(t, sent, 2)
	assert.Equal(t, emitted{EventLeaveScene, ScenePayload{SceneID: "store-1"}}, sent[1])
	assert.True(t, ch.disconnected)
	assert.Equal(t, Disconnected, c.State())
	assert.Empty(t, c.SceneID())
	assert.False(t, c.Occupancy().Connected)

	ch.fire(t, EventUserCount, UserCount{Count: 9})
	assert.Zero(t, c.Occupancy().UserCount)
}

func TestEnterOtherSceneLeavesFirst(t *testing.T) {
	c, chs := enterConnected(t, "store-1")
	first := chs.last()

	c.Enter(context.Background(), "store-1")
	assert.Len(t, chs.list, 1)

	c.Enter(context.Background(), "store-2")
	require.Len(t, chs.list, 2)
	assert.True(t, first.disconnected)
	assert.Equal(t, "store-2", c.SceneID())
	assert.Equal(t, Connecting, c.State())

	first.fire(t, EventConnect, nil)
	assert.Equal(t, Connecting, c.State())
}

func TestDisconnectEventDropsConnection(t *testing.T) {
	c, chs := enterConnected(t, "store-1")
	chs.last().fire(t, EventDisconnect, nil)

	assert.Equal(t, Disconnected, c.State())
	assert.False(t, c.Occupancy().Connected)
	assert.False(t, c.EmitPosition("m1", common.Position{}))
}

func TestInboundEventsGoThroughPoster(t *testing.T) {
	var queued []func()
	chs := &channels{}
	c := NewClient("ws://hub/ws",
		WithChannelFactory(chs.factory),
		WithPoster(PosterFunc(func(fn func()) { queued = append(queued, fn) })),
	)
	c.Enter(context.Background(), "store-1")
	<-chs.last().connects

	chs.last().fire(t, EventConnect, nil)
	assert.Equal(t, Connecting, c.State())
	require.Len(t, queued, 1)

	queued[0]()
	assert.Equal(t, Connected, c.State())
}
