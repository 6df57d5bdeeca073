package game_object

import "github.com/go-gl/mathgl/mgl32"

// GameObjectBuilderOption is a functional option for configuring a GameObject during construction.
type GameObjectBuilderOption func(*gameObject)

// WithPosition sets the configured resting position of the GameObject.
//
// Parameters:
//   - p: the position in scene space
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the position
func WithPosition(p mgl32.Vec3) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.targetPosition = p
	}
}

// WithSize sets the uniform target scale of the GameObject.
//
// Parameters:
//   - size: the scale the entrance animation grows to
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the size
func WithSize(size float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.targetScale = size
	}
}

// WithEnabled sets whether the GameObject is drawn and hit-testable.
//
// Parameters:
//   - enabled: true to render the object, false to hide it
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the Enabled state
func WithEnabled(enabled bool) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.enabled.Store(enabled)
	}
}

// WithEntranceComplete marks the object as already entered, e.g. when it is placed without animation.
func WithEntranceComplete() GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.entered.Store(true)
	}
}
