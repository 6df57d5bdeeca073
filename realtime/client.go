package realtime

import (
	"context"
	"encoding/json"
	"log"
	"slices"
	"sync"

	"github.com/Carmen-Shannon/oxy-storefront/common"
)

// ConnectionState is the lifecycle of a Client.
type ConnectionState int

const (
	Disconnected ConnectionState = iota
	Connecting
	Connected

	keepState ConnectionState = -1
)

func (s ConnectionState) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	default:
		return "disconnected"
	}
}

// OccupancyState is what the hub has told this viewer about its room.
type OccupancyState struct {
	Connected bool
	UserCount int
	MaxUsers  int
	Full      bool
}

// ChannelFactory creates a fresh channel for each scene the client enters.
type ChannelFactory func() Channel

// clientImpl is the implementation of the Client interface.
type clientImpl struct {
	mu sync.Mutex

	url     string
	factory ChannelFactory
	poster  Poster

	channel   Channel
	sceneID   string
	state     ConnectionState
	occupancy OccupancyState
	// generation invalidates events from channels of scenes already left.
	generation uint64

	onPosition  []func(objectID string, pos common.Position)
	onOccupancy []func(OccupancyState)
}

// Client joins one scene room at a time, sends committed positions and applies what other viewers send.
//
// Inbound events are handed to the Poster, so observers run on the scene thread.
type Client interface {
	// Enter leaves the current room, if any, and starts connecting to sceneID's room.
	// join-scene is sent once the channel reports connect. Entering the current scene again is a no-op
	// unless the channel has dropped.
	//
	// Parameters:
	//   - ctx: bounds the dial
	//   - sceneID: the room to join
	Enter(ctx context.Context, sceneID string)

	// Leave sends leave-scene when connected and closes the channel.
	Leave()

	// EmitPosition sends a committed object position to the room.
	// Dropped with a warning unless connected.
	//
	// Parameters:
	//   - objectID: the moved object
	//   - pos: its new position
	//
	// Returns:
	//   - bool: true if the update was queued
	EmitPosition(objectID string, pos common.Position) bool

	// State returns the connection lifecycle state.
	State() ConnectionState

	// SceneID returns the room entered last, or "" after Leave.
	SceneID() string

	// Occupancy returns the latest occupancy state.
	Occupancy() OccupancyState

	// OnPositionChanged registers fn for positions committed by other viewers.
	OnPositionChanged(fn func(objectID string, pos common.Position))

	// OnOccupancy registers fn to receive the occupancy state after every change.
	OnOccupancy(fn func(OccupancyState))
}

var _ Client = &clientImpl{}

// NewClient creates a disconnected Client for the hub at url.
//
// Parameters:
//   - url: the hub websocket endpoint
//   - options: functional options to configure the client
//
// Returns:
//   - Client: the client
func NewClient(url string, options ...ClientBuilderOption) Client {
	c := &clientImpl{
		url:       url,
		factory:   func() Channel { return NewWSChannel() },
		poster:    immediatePoster{},
		occupancy: OccupancyState{MaxUsers: DefaultMaxUsers},
	}
	for _, option := range options {
		option(c)
	}
	return c
}

func (c *clientImpl) Enter(ctx context.Context, sceneID string) {
	c.mu.Lock()
	if c.channel != nil && c.sceneID == sceneID && c.state != Disconnected {
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()
	c.Leave()

	ch := c.factory()
	c.mu.Lock()
	c.generation++
	gen := c.generation
	c.channel = ch
	c.sceneID = sceneID
	c.state = Connecting
	c.occupancy = OccupancyState{MaxUsers: DefaultMaxUsers}
	snapshot := c.occupancy
	c.mu.Unlock()

	c.register(ch, gen, sceneID)
	c.notifyOccupancy(snapshot)
	log.Printf("[Realtime] connecting to %s for scene %q", c.url, sceneID)

	go func() {
		if err := ch.Connect(ctx, c.url); err != nil {
			log.Printf("[Realtime] %v", err)
		}
	}()
}

// register wires the channel's events to the client. Every handler re-checks gen on the scene thread.
func (c *clientImpl) register(ch Channel, gen uint64, sceneID string) {
	on := func(event string, fn func(data []byte)) {
		ch.On(event, func(data json.RawMessage) {
			c.poster.Post(func() {
				c.mu.Lock()
				current := c.generation == gen
				c.mu.Unlock()
				if current {
					fn(data)
				}
			})
		})
	}

	on(EventConnect, func([]byte) {
		c.update(func(s *OccupancyState) { s.Connected = true }, Connected)
		log.Printf("[Realtime] connected, joining scene %q", sceneID)
		if err := ch.Emit(EventJoinScene, ScenePayload{SceneID: sceneID}); err != nil {
			log.Printf("[Realtime] join-scene failed: %v", err)
		}
	})
	on(EventDisconnect, func([]byte) {
		c.update(func(s *OccupancyState) { s.Connected = false }, Disconnected)
		log.Printf("[Realtime] disconnected from scene %q", sceneID)
	})
	on(EventConnectError, func(data []byte) {
		p, _ := DecodeData[ErrorPayload](data)
		c.update(func(s *OccupancyState) { s.Connected = false }, Disconnected)
		log.Printf("[Realtime] connection error: %s", p.Message)
	})
	on(EventUserCount, func(data []byte) {
		p, err := DecodeData[UserCount](data)
		if err != nil {
			log.Printf("[Realtime] bad user-count: %v", err)
			return
		}
		c.update(func(s *OccupancyState) { s.UserCount = p.Count }, keepState)
	})
	on(EventMaxUsers, func(data []byte) {
		p, err := DecodeData[MaxUsers](data)
		if err != nil {
			log.Printf("[Realtime] bad max-users: %v", err)
			return
		}
		c.update(func(s *OccupancyState) { s.MaxUsers = p.Max }, keepState)
	})
	on(EventSceneFull, func(data []byte) {
		p, _ := DecodeData[SceneFull](data)
		log.Printf("[Realtime] scene %q is full: %s", sceneID, p.Message)
		c.update(func(s *OccupancyState) { s.Full = true }, keepState)
	})
	on(EventPositionChanged, func(data []byte) {
		p, err := DecodeData[PositionChanged](data)
		if err != nil || p.ModelID == "" {
			log.Printf("[Realtime] bad position-changed: %v", err)
			return
		}
		c.mu.Lock()
		observers := slices.Clone(c.onPosition)
		c.mu.Unlock()
		for _, fn := range observers {
			fn(p.ModelID, p.Position)
		}
	})
}

// update applies mutate to the occupancy state and, unless next is keepState, moves the lifecycle.
// Observers are told only when the occupancy actually changed.
func (c *clientImpl) update(mutate func(*OccupancyState), next ConnectionState) {
	c.mu.Lock()
	before := c.occupancy
	mutate(&c.occupancy)
	if next != keepState {
		c.state = next
	}
	after := c.occupancy
	c.mu.Unlock()

	if after != before {
		c.notifyOccupancy(after)
	}
}

func (c *clientImpl) notifyOccupancy(s OccupancyState) {
	c.mu.Lock()
	observers := slices.Clone(c.onOccupancy)
	c.mu.Unlock()
	for _, fn := range observers {
		fn(s)
	}
}

func (c *clientImpl) Leave() {
	c.mu.Lock()
	ch := c.channel
	if ch == nil {
		c.mu.Unlock()
		return
	}
	sceneID := c.sceneID
	wasConnected := c.state == Connected
	c.generation++
	c.channel = nil
	c.sceneID = ""
	c.state = Disconnected
	before := c.occupancy
	c.occupancy.Connected = false
	after := c.occupancy
	c.mu.Unlock()

	if wasConnected {
		if err := ch.Emit(EventLeaveScene, ScenePayload{SceneID: sceneID}); err != nil {
			log.Printf("[Realtime] leave-scene failed: %v", err)
		}
	}
	if err := ch.Disconnect(); err != nil {
		log.Printf("[Realtime] disconnect failed: %v", err)
	}
	log.Printf("[Realtime] left scene %q", sceneID)
	if after != before {
		c.notifyOccupancy(after)
	}
}

func (c *clientImpl) EmitPosition(objectID string, pos common.Position) bool {
	c.mu.Lock()
	ch := c.channel
	sceneID := c.sceneID
	connected := c.state == Connected
	c.mu.Unlock()

	if !connected || ch == nil || sceneID == "" {
		log.Printf("[Realtime] position for %q dropped: not connected", objectID)
		return false
	}
	if err := ch.Emit(EventPositionUpdate, PositionUpdate{SceneID: sceneID, ModelID: objectID, Position: pos}); err != nil {
		log.Printf("[Realtime] position-update for %q failed: %v", objectID, err)
		return false
	}
	return true
}

func (c *clientImpl) State() ConnectionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *clientImpl) SceneID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sceneID
}

func (c *clientImpl) Occupancy() OccupancyState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.occupancy
}

func (c *clientImpl) OnPositionChanged(fn func(objectID string, pos common.Position)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onPosition = append(c.onPosition, fn)
}

func (c *clientImpl) OnOccupancy(fn func(OccupancyState)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onOccupancy = append(c.onOccupancy, fn)
}
