package hub

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-storefront/realtime"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Hub relays positions between the viewers of each scene and enforces room capacity.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*connection]struct{}
	conns map[string]*connection

	store        OccupancyStore
	maxUsers     int
	storeTimeout time.Duration
	upgrader     websocket.Upgrader
}

// NewHub creates a Hub. Without WithStore it counts occupancy in memory.
//
// Parameters:
//   - options: functional options to configure the hub
//
// Returns:
//   - *Hub: the hub
func NewHub(options ...HubBuilderOption) *Hub {
	h := &Hub{
		rooms:        make(map[string]map[*connection]struct{}),
		conns:        make(map[string]*connection),
		maxUsers:     realtime.DefaultMaxUsers,
		storeTimeout: 2 * time.Second,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
	for _, option := range options {
		option(h)
	}
	if h.store == nil {
		h.store = NewMemoryStore()
	}
	return h
}

// MaxUsers returns the room capacity.
func (h *Hub) MaxUsers() int {
	return h.maxUsers
}

// Occupancy returns the member count of a scene room as the store sees it.
func (h *Hub) Occupancy(ctx context.Context, sceneID string) (int, error) {
	return h.store.Count(ctx, sceneID)
}

// Connections returns how many sockets are attached to this hub instance.
func (h *Hub) Connections() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// ServeWS upgrades the request and runs the connection until it closes.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[Hub] upgrade failed: %v", err)
		return
	}
	c := &connection{
		id:   uuid.NewString(),
		hub:  h,
		ws:   ws,
		send: make(chan []byte, sendBuffer),
		done: make(chan struct{}),
	}
	h.mu.Lock()
	h.conns[c.id] = c
	h.mu.Unlock()
	log.Printf("[Hub] %s connected from %s", c.id, r.RemoteAddr)

	go c.writePump()
	c.readPump()
}

// Close disconnects every connection and releases the store.
func (h *Hub) Close() error {
	h.mu.Lock()
	conns := make([]*connection, 0, len(h.conns))
	for _, c := range h.conns {
		conns = append(conns, c)
	}
	h.mu.Unlock()
	for _, c := range conns {
		c.close()
	}
	return h.store.Close()
}

func (h *Hub) handle(c *connection, env realtime.Envelope) {
	switch env.Event {
	case realtime.EventJoinScene:
		p, err := realtime.DecodeData[realtime.ScenePayload](env.Data)
		if err != nil || p.SceneID == "" {
			log.Printf("[Hub] bad join-scene from %s: %v", c.id, err)
			return
		}
		h.join(c, p.SceneID)
	case realtime.EventLeaveScene:
		h.leave(c)
	case realtime.EventPositionUpdate:
		p, err := realtime.DecodeData[realtime.PositionUpdate](env.Data)
		if err != nil || p.ModelID == "" {
			log.Printf("[Hub] bad position-update from %s: %v", c.id, err)
			return
		}
		h.relay(c, p)
	default:
		log.Printf("[Hub] unknown event %q from %s", env.Event, c.id)
	}
}

func (h *Hub) join(c *connection, sceneID string) {
	if c.sceneID == sceneID {
		return
	}
	if c.sceneID != "" {
		h.leave(c)
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.storeTimeout)
	defer cancel()
	count, ok, err := h.store.Join(ctx, sceneID, c.id, h.maxUsers)
	if err != nil {
		log.Printf("[Hub] %v", err)
		return
	}
	if !ok {
		log.Printf("[Hub] %s refused: scene %q is full (%d/%d)", c.id, sceneID, count, h.maxUsers)
		c.emit(realtime.EventSceneFull, realtime.SceneFull{
			Message: fmt.Sprintf("Scene is full. Maximum %d users allowed.", h.maxUsers),
		})
		return
	}

	h.mu.Lock()
	room := h.rooms[sceneID]
	if room == nil {
		room = make(map[*connection]struct{})
		h.rooms[sceneID] = room
	}
	room[c] = struct{}{}
	c.sceneID = sceneID
	h.mu.Unlock()

	log.Printf("[Hub] %s joined scene %q (%d/%d)", c.id, sceneID, count, h.maxUsers)
	c.emit(realtime.EventMaxUsers, realtime.MaxUsers{Max: h.maxUsers})
	h.broadcast(sceneID, nil, realtime.EventUserCount, realtime.UserCount{Count: count})
}

func (h *Hub) leave(c *connection) {
	h.mu.Lock()
	sceneID := c.sceneID
	if sceneID == "" {
		h.mu.Unlock()
		return
	}
	c.sceneID = ""
	if room := h.rooms[sceneID]; room != nil {
		delete(room, c)
		if len(room) == 0 {
			delete(h.rooms, sceneID)
		}
	}
	h.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), h.storeTimeout)
	defer cancel()
	count, err := h.store.Leave(ctx, sceneID, c.id)
	if err != nil {
		log.Printf("[Hub] %v", err)
		return
	}
	log.Printf("[Hub] %s left scene %q (%d/%d)", c.id, sceneID, count, h.maxUsers)
	h.broadcast(sceneID, nil, realtime.EventUserCount, realtime.UserCount{Count: count})
}

func (h *Hub) relay(from *connection, p realtime.PositionUpdate) {
	h.mu.RLock()
	sceneID := from.sceneID
	h.mu.RUnlock()
	if sceneID == "" || (p.SceneID != "" && p.SceneID != sceneID) {
		log.Printf("[Hub] position-update from %s outside its scene dropped", from.id)
		return
	}
	h.broadcast(sceneID, from, realtime.EventPositionChanged, realtime.PositionChanged{
		ModelID:  p.ModelID,
		Position: p.Position,
	})
}

// broadcast sends one event to every member of a room except skip.
func (h *Hub) broadcast(sceneID string, skip *connection, event string, payload any) {
	h.mu.RLock()
	members := make([]*connection, 0, len(h.rooms[sceneID]))
	for c := range h.rooms[sceneID] {
		if c != skip {
			members = append(members, c)
		}
	}
	h.mu.RUnlock()
	for _, c := range members {
		c.emit(event, payload)
	}
}

// disconnect runs once per connection when its socket closes.
func (h *Hub) disconnect(c *connection) {
	h.leave(c)
	h.mu.Lock()
	delete(h.conns, c.id)
	h.mu.Unlock()
	log.Printf("[Hub] %s disconnected", c.id)
}
