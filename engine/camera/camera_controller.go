package camera

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

// CameraController owns the camera pose and advances it once per tick.
//
// It starts in Entering, interpolating from the street to the shop floor with a cubic
// ease-out, then switches to FreeFlight where held keys drive a smoothed velocity and the
// look gesture turns the view.
type CameraController interface {
	// Position returns the camera's world-space position.
	//
	// Returns:
	//   - mgl32.Vec3: world-space camera position
	Position() mgl32.Vec3

	// Orientation returns the current yaw and pitch in radians.
	//
	// Returns:
	//   - yaw: rotation around Y, unbounded
	//   - pitch: rotation around X, clamped to ±π/2
	Orientation() (yaw, pitch float32)

	// Velocity returns the per-tick free-flight velocity.
	Velocity() mgl32.Vec3

	// State returns a snapshot of the current mode.
	//
	// Returns:
	//   - CameraState: Entering or FreeFlight
	State() CameraState

	// EntranceComplete reports whether the controller has reached FreeFlight.
	EntranceComplete() bool

	// Update advances the controller by one tick.
	// The first call during Entering stamps the entrance start time.
	//
	// Parameters:
	//   - now: the tick timestamp
	Update(now time.Time)

	// KeyDown records a held movement key. Presses during the entrance are ignored.
	//
	// Parameters:
	//   - key: the key code (see common.MovementKeys)
	//
	// Returns:
	//   - bool: true if the key was recorded
	KeyDown(key uint32) bool

	// KeyUp releases a held key. Always accepted.
	//
	// Parameters:
	//   - key: the key code
	KeyUp(key uint32)

	// ReleaseKeys clears every held key, e.g. when the host surface loses focus.
	ReleaseKeys()

	// Look applies a pointer delta to yaw and pitch. Ignored during the entrance.
	//
	// Parameters:
	//   - dx, dy: pointer movement in pixels since the last look event
	Look(dx, dy float32)

	// OnEntranceComplete registers fn to run once when the controller switches to FreeFlight.
	OnEntranceComplete(fn func())
}
