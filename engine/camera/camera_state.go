package camera

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

// CameraState is the controller mode: exactly one of Entering or FreeFlight.
// Entering moves to FreeFlight once, when scripted progress completes, and never back.
type CameraState interface {
	isCameraState()
}

// Entering is the scripted fly-in from outside the storefront.
type Entering struct {
	Start mgl32.Vec3
	End   mgl32.Vec3
	// StartTime is zero until the first Update, which stamps it.
	StartTime time.Time
	Duration  time.Duration
}

// FreeFlight is interactive first-person movement.
type FreeFlight struct {
	Yaw      float32
	Pitch    float32
	Velocity mgl32.Vec3
}

func (Entering) isCameraState()   {}
func (FreeFlight) isCameraState() {}

// Progress returns the linear entrance progress at now, clamped to [0, 1].
// A zero duration is complete immediately.
func (e Entering) Progress(now time.Time) float32 {
	if e.Duration <= 0 {
		return 1
	}
	if e.StartTime.IsZero() {
		return 0
	}
	p := float32(now.Sub(e.StartTime)) / float32(e.Duration)
	return mgl32.Clamp(p, 0, 1)
}
