package camera

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

// CameraControllerOption is a functional option for configuring a CameraController.
type CameraControllerOption func(*cameraControllerImpl)

// WithEntrance sets the scripted entrance path.
//
// Parameters:
//   - start: where the camera starts, outside the storefront
//   - end: where the entrance ends and free flight begins
//   - duration: how long the entrance takes (0 = skip straight to free flight on the first tick)
//
// Returns:
//   - CameraControllerOption: functional option to set the entrance
func WithEntrance(start, end mgl32.Vec3, duration time.Duration) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.state = Entering{Start: start, End: end, Duration: duration}
	}
}

// WithMoveSpeed sets the free-flight target speed in world units per tick.
//
// Parameters:
//   - speed: units per tick at full acceleration
//
// Returns:
//   - CameraControllerOption: functional option to set the move speed
func WithMoveSpeed(speed float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.moveSpeed = speed
	}
}

// WithDamping sets how fast velocity approaches its target while keys are held and how fast it decays after.
//
// Parameters:
//   - blend: lerp factor toward the target velocity per tick
//   - friction: multiplier applied per tick with no key held
//
// Returns:
//   - CameraControllerOption: functional option to set the damping
func WithDamping(blend, friction float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.blend = blend
		cc.friction = friction
	}
}

// WithLookSensitivity sets the radians of yaw/pitch per pixel of look movement.
func WithLookSensitivity(s float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.lookSensitivity = s
	}
}

// WithBounds sets the walkable box the camera is clamped to after every move.
//
// Parameters:
//   - min: lower corner
//   - max: upper corner
//
// Returns:
//   - CameraControllerOption: functional option to set the bounds
func WithBounds(min, max mgl32.Vec3) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.boundsMin = min
		cc.boundsMax = max
	}
}
