package progress

import (
	"slices"
	"sync"
)

// LoadingState is a snapshot of the loading counters. Counters only ever grow within a session.
type LoadingState struct {
	BackgroundLoaded bool
	ModelsTotal      int
	ModelsLoaded     int
}

// Fraction returns (background + loaded) / (1 + total), the value shown by the progress bar.
func (s LoadingState) Fraction() float32 {
	done := s.ModelsLoaded
	if s.BackgroundLoaded {
		done++
	}
	return float32(done) / float32(1+s.ModelsTotal)
}

// Loading reports whether the backdrop or any counted model is still outstanding.
func (s LoadingState) Loading() bool {
	return !s.BackgroundLoaded || s.ModelsLoaded < s.ModelsTotal
}

// trackerImpl is the implementation of the Tracker interface.
type trackerImpl struct {
	mu        sync.Mutex
	state     LoadingState
	observers []func(LoadingState)
}

// Tracker aggregates backdrop and model completion into one progress signal.
type Tracker interface {
	// MarkBackground records that the backdrop finished loading, successfully or not.
	// Only the first call has an effect.
	MarkBackground()

	// AddModels grows the number of models to wait for. Non-positive n is ignored.
	//
	// Parameters:
	//   - n: count of newly seen model URLs
	AddModels(n int)

	// MarkModel records one finished model load, cache hit or failure included.
	MarkModel()

	// Snapshot returns the current counters.
	Snapshot() LoadingState

	// Fraction returns the current progress in [0, 1].
	Fraction() float32

	// Loading reports whether anything is still outstanding.
	Loading() bool

	// OnChange registers fn to receive the new state after every change.
	//
	// Parameters:
	//   - fn: the observer, called synchronously by the goroutine that made the change
	OnChange(fn func(LoadingState))
}

var _ Tracker = &trackerImpl{}

// NewTracker creates a Tracker with nothing loaded and nothing expected.
func NewTracker() Tracker {
	return &trackerImpl{}
}

func (t *trackerImpl) MarkBackground() {
	t.update(func(s *LoadingState) bool {
		if s.BackgroundLoaded {
			return false
		}
		s.BackgroundLoaded = true
		return true
	})
}

func (t *trackerImpl) AddModels(n int) {
	if n <= 0 {
		return
	}
	t.update(func(s *LoadingState) bool {
		s.ModelsTotal += n
		return true
	})
}

func (t *trackerImpl) MarkModel() {
	t.update(func(s *LoadingState) bool {
		s.ModelsLoaded++
		return true
	})
}

func (t *trackerImpl) Snapshot() LoadingState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

func (t *trackerImpl) Fraction() float32 {
	return t.Snapshot().Fraction()
}

func (t *trackerImpl) Loading() bool {
	return t.Snapshot().Loading()
}

func (t *trackerImpl) OnChange(fn func(LoadingState)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.observers = append(t.observers, fn)
}

// update applies mutate and notifies observers outside the lock when it reports a change.
func (t *trackerImpl) update(mutate func(*LoadingState) bool) {
	t.mu.Lock()
	if !mutate(&t.state) {
		t.mu.Unlock()
		return
	}
	state := t.state
	observers := slices.Clone(t.observers)
	t.mu.Unlock()

	for _, fn := range observers {
		fn(state)
	}
}
