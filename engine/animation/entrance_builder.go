package animation

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

// EntranceBuilderOption is a functional option for configuring an entrance animation.
type EntranceBuilderOption func(*entranceImpl)

// WithSpawn sets where the object appears before flying in.
//
// Parameters:
//   - from: the spawn position
//
// Returns:
//   - EntranceBuilderOption: a function that applies the spawn option
func WithSpawn(from mgl32.Vec3) EntranceBuilderOption {
	return func(e *entranceImpl) {
		e.from = from
	}
}

// WithStartScale sets the scale the object starts at.
func WithStartScale(s mgl32.Vec3) EntranceBuilderOption {
	return func(e *entranceImpl) {
		e.startScale = s
	}
}

// WithDelay holds the object at its spawn pose for d before moving.
// Objects in a list use index × 500ms to stagger their arrival.
//
// Parameters:
//   - d: delay measured from the start time
//
// Returns:
//   - EntranceBuilderOption: a function that applies the delay option
func WithDelay(d time.Duration) EntranceBuilderOption {
	return func(e *entranceImpl) {
		e.delay = d
	}
}

// WithDuration sets how long the flight takes once the delay has passed.
func WithDuration(d time.Duration) EntranceBuilderOption {
	return func(e *entranceImpl) {
		e.duration = d
	}
}

// WithOnComplete registers fn to run once when the entrance reaches its final pose.
// It does not run for cancelled entrances.
func WithOnComplete(fn func()) EntranceBuilderOption {
	return func(e *entranceImpl) {
		e.onComplete = fn
	}
}

// StaggerDelay returns the entrance delay for the object at index in its list.
func StaggerDelay(index int) time.Duration {
	return time.Duration(index) * 500 * time.Millisecond
}
