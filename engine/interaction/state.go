package interaction

import "github.com/go-gl/mathgl/mgl32"

// State is the pointer gesture in progress: exactly one of Idle, Dragging, Rotating or LookActive.
type State interface {
	isState()
}

// Idle means no gesture is active. Pointer moves only update the hover cursor.
type Idle struct{}

// Dragging moves an object across the drag plane.
type Dragging struct {
	ObjectID string
	// GrabOffset is object position minus the drag-plane point under the pointer at press time.
	GrabOffset mgl32.Vec3
}

// Rotating turns an object by pointer travel since the press.
type Rotating struct {
	ObjectID     string
	StartPointer mgl32.Vec2
	StartPitch   float32
	StartYaw     float32
}

// LookActive forwards pointer travel to the camera.
type LookActive struct {
	LastPointer mgl32.Vec2
}

func (Idle) isState()       {}
func (Dragging) isState()   {}
func (Rotating) isState()   {}
func (LookActive) isState() {}
