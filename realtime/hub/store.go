package hub

import (
	"context"
	"sync"
)

// OccupancyStore counts the members of each scene room. Shared stores let several hubs enforce one capacity.
type OccupancyStore interface {
	// Join adds connID to sceneID's room unless the room already holds max members.
	// Joining a room the connection is already in succeeds without changing the count.
	//
	// Parameters:
	//   - ctx: bounds the store call
	//   - sceneID: the room
	//   - connID: the joining connection
	//   - max: the room capacity
	//
	// Returns:
	//   - int: the member count after the call
	//   - bool: false if the room was full
	//   - error: error if the store is unavailable
	Join(ctx context.Context, sceneID, connID string, max int) (int, bool, error)

	// Leave removes connID from sceneID's room and returns the remaining count.
	Leave(ctx context.Context, sceneID, connID string) (int, error)

	// Count returns the member count of sceneID's room.
	Count(ctx context.Context, sceneID string) (int, error)

	// Close releases the store's connections.
	Close() error
}

// memoryStore is the in-process OccupancyStore.
type memoryStore struct {
	mu    sync.Mutex
	rooms map[string]map[string]struct{}
}

var _ OccupancyStore = &memoryStore{}

// NewMemoryStore creates an OccupancyStore local to this process.
func NewMemoryStore() OccupancyStore {
	return &memoryStore{rooms: make(map[string]map[string]struct{})}
}

func (s *memoryStore) Join(_ context.Context, sceneID, connID string, max int) (int, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room := s.rooms[sceneID]
	if room == nil {
		room = make(map[string]struct{})
		s.rooms[sceneID] = room
	}
	if _, ok := room[connID]; ok {
		return len(room), true, nil
	}
	if len(room) >= max {
		return len(room), false, nil
	}
	room[connID] = struct{}{}
	return len(room), true, nil
}

func (s *memoryStore) Leave(_ context.Context, sceneID, connID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room := s.rooms[sceneID]
	delete(room, connID)
	if len(room) == 0 {
		delete(s.rooms, sceneID)
		return 0, nil
	}
	return len(room), nil
}

func (s *memoryStore) Count(_ context.Context, sceneID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rooms[sceneID]), nil
}

func (s *memoryStore) Close() error {
	return nil
}
