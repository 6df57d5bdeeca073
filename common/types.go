// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Position is the wire and document form of a point in scene space.
// It is what the realtime channel, the scene document and the commit callback exchange.
type Position struct {
	// X is the horizontal offset; positive is to the right of the backdrop centre.
	X float32 `json:"x" yaml:"x" toml:"x"`
	// Y is the height above the floor.
	Y float32 `json:"y" yaml:"y" toml:"y"`
	// Z is the depth; the backdrop sits at z = -1 and the camera enters from positive z.
	Z float32 `json:"z" yaml:"z" toml:"z"`
}

// PositionFromVec3 converts an engine vector to its wire form.
func PositionFromVec3(v mgl32.Vec3) Position {
	return Position{X: v[0], Y: v[1], Z: v[2]}
}

// Vec3 converts the position into an engine vector.
func (p Position) Vec3() mgl32.Vec3 {
	return mgl32.Vec3{p.X, p.Y, p.Z}
}

func (p Position) String() string {
	return fmt.Sprintf("(%.3f, %.3f, %.3f)", p.X, p.Y, p.Z)
}

// Cursor names the pointer affordance the host surface should display.
type Cursor int

const (
	// CursorDefault is the platform arrow.
	CursorDefault Cursor = iota
	// CursorGrab signals that the object under the pointer can be dragged.
	CursorGrab
	// CursorGrabbing is shown while an object is being dragged.
	CursorGrabbing
	// CursorMove is shown while an object is being rotated.
	CursorMove
	// CursorCrosshair is shown while the look gesture is active.
	CursorCrosshair
)

func (c Cursor) String() string {
	switch c {
	case CursorGrab:
		return "grab"
	case CursorGrabbing:
		return "grabbing"
	case CursorMove:
		return "move"
	case CursorCrosshair:
		return "crosshair"
	default:
		return "default"
	}
}
