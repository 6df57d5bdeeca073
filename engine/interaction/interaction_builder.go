package interaction

import "github.com/Carmen-Shannon/oxy-storefront/common"

// ControllerBuilderOption is a functional option for configuring a Controller.
type ControllerBuilderOption func(*controllerImpl)

// WithCommit registers the callback invoked once per finished drag with the object's final position.
//
// Parameters:
//   - fn: receives the object id and its position
//
// Returns:
//   - ControllerBuilderOption: functional option to set the commit callback
func WithCommit(fn func(objectID string, pos common.Position)) ControllerBuilderOption {
	return func(c *controllerImpl) {
		c.onCommit = fn
	}
}

// WithCursor registers the callback that applies cursor affordances to the host surface.
func WithCursor(fn func(common.Cursor)) ControllerBuilderOption {
	return func(c *controllerImpl) {
		c.onCursor = fn
	}
}

// WithDragPlane replaces the drag surface, by default the plane z = 0.
func WithDragPlane(p common.Plane) ControllerBuilderOption {
	return func(c *controllerImpl) {
		c.dragPlane = p
	}
}

// WithRotateSpeed sets the radians of rotation per pixel of pointer travel.
func WithRotateSpeed(speed float32) ControllerBuilderOption {
	return func(c *controllerImpl) {
		c.rotateSpeed = speed
	}
}

// WithSurfaceSize sets the initial surface size.
func WithSurfaceSize(width, height int) ControllerBuilderOption {
	return func(c *controllerImpl) {
		c.width = width
		c.height = height
	}
}
