package common

// Virtual key codes for cross-platform input handling.
// These values match GLFW key codes which use ASCII values for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeyW     = 87  // W key (ASCII), move forward
	KeyA     = 65  // A key (ASCII), strafe left
	KeyS     = 83  // S key (ASCII), move back
	KeyD     = 68  // D key (ASCII), strafe right
	KeyQ     = 81  // Q key (ASCII), descend
	KeyE     = 69  // E key (ASCII), ascend
	KeySpace = 32  // Spacebar (ASCII)
	KeyEsc   = 256 // Escape key (GLFW)
)

// Additional non-printable keys
const (
	KeyLeftShift  = 340 // Left Shift (GLFW)
	KeyRightShift = 344 // Right Shift (GLFW)
)

// MouseButton identifies a pointer button independent of the windowing backend.
type MouseButton int

const (
	// MouseButtonPrimary is the left button; it starts drag and rotate gestures.
	MouseButtonPrimary MouseButton = iota
	// MouseButtonSecondary is the right button; it starts the look gesture.
	MouseButtonSecondary
	// MouseButtonMiddle is unused by the storefront but reported by the host.
	MouseButtonMiddle
)

// MovementKeys lists every key the free-flight camera reacts to.
var MovementKeys = []uint32{KeyW, KeyA, KeyS, KeyD, KeyQ, KeyE}

// IsMovementKey reports whether key drives free-flight movement.
func IsMovementKey(key uint32) bool {
	for _, k := range MovementKeys {
		if k == key {
			return true
		}
	}
	return false
}
