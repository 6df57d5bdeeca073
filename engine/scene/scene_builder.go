package scene

import "time"

// SessionBuilderOption is a functional option for configuring a Session.
type SessionBuilderOption func(*session)

// WithRendererFactory sets how each session creates its render surface.
// Without it (or when the factory returns nil) sessions run headless.
//
// Parameters:
//   - f: the factory, called once per Initialize
//
// Returns:
//   - SessionBuilderOption: option function to apply
func WithRendererFactory(f RendererFactory) SessionBuilderOption {
	return func(s *session) {
		s.factory = f
	}
}

// WithClock overrides the time source used to start entrance animations.
func WithClock(clock func() time.Time) SessionBuilderOption {
	return func(s *session) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithSurfaceSize sets the initial surface size in pixels.
//
// Parameters:
//   - width, height: the surface size; non-positive values are ignored
//
// Returns:
//   - SessionBuilderOption: option function to apply
func WithSurfaceSize(width, height int) SessionBuilderOption {
	return func(s *session) {
		if width > 0 && height > 0 {
			s.width, s.height = width, height
		}
	}
}

// WithCameraEntrance overrides the duration of the camera fly-in.
func WithCameraEntrance(d time.Duration) SessionBuilderOption {
	return func(s *session) {
		if d > 0 {
			s.entrance = d
		}
	}
}
