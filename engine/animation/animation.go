package animation

import (
	"sync"
	"time"
)

// Animation is a unit of time-driven work advanced by a Scheduler.
type Animation interface {
	// Update advances the animation to now.
	//
	// Parameters:
	//   - now: the tick timestamp
	//
	// Returns:
	//   - bool: true once the animation has finished and can be dropped
	Update(now time.Time) bool

	// Cancel stops the animation where it is. A cancelled animation never writes to its target again.
	Cancel()
}

// schedulerImpl is the implementation of the Scheduler interface.
type schedulerImpl struct {
	mu         sync.Mutex
	animations map[string]Animation
	order      []string
}

// Scheduler owns every running animation of a scene, keyed so callers can cancel them individually.
// It is advanced once per render tick, after the camera and before drawing.
type Scheduler interface {
	// Schedule registers a under key, cancelling any animation already registered there.
	//
	// Parameters:
	//   - key: the owner of the animation, usually an object id
	//   - a: the animation
	Schedule(key string, a Animation)

	// Cancel stops and removes the animation registered under key.
	//
	// Parameters:
	//   - key: the animation owner
	//
	// Returns:
	//   - bool: true if an animation was cancelled
	Cancel(key string) bool

	// CancelAll stops and removes every animation.
	CancelAll()

	// Advance updates every animation in registration order and drops the finished ones.
	//
	// Parameters:
	//   - now: the tick timestamp
	Advance(now time.Time)

	// Active reports whether an animation is registered under key.
	Active(key string) bool

	// Len returns how many animations are registered.
	Len() int
}

var _ Scheduler = &schedulerImpl{}

// NewScheduler creates an empty Scheduler.
//
// Returns:
//   - Scheduler: the scheduler
func NewScheduler() Scheduler {
	return &schedulerImpl{animations: make(map[string]Animation)}
}

func (s *schedulerImpl) Schedule(key string, a Animation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.animations[key]; ok {
		prev.Cancel()
	} else {
		s.order = append(s.order, key)
	}
	s.animations[key] = a
}

func (s *schedulerImpl) Cancel(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.animations[key]
	if !ok {
		return false
	}
	a.Cancel()
	s.remove(key)
	return true
}

func (s *schedulerImpl) CancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.animations {
		a.Cancel()
	}
	clear(s.animations)
	s.order = nil
}

func (s *schedulerImpl) Advance(now time.Time) {
	s.mu.Lock()
	keys := append([]string(nil), s.order...)
	s.mu.Unlock()

	// Completion callbacks may schedule or cancel, so the lock is not held while updating.
	for _, key := range keys {
		s.mu.Lock()
		a, ok := s.animations[key]
		s.mu.Unlock()
		if !ok {
			continue
		}
		if !a.Update(now) {
			continue
		}
		s.mu.Lock()
		if s.animations[key] == a {
			s.remove(key)
		}
		s.mu.Unlock()
	}
}

func (s *schedulerImpl) Active(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.animations[key]
	return ok
}

func (s *schedulerImpl) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.animations)
}

// remove drops key from the table and the ordering. Caller must hold the mutex.
func (s *schedulerImpl) remove(key string) {
	delete(s.animations, key)
	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}
