package storefront

import (
	"time"

	"github.com/Carmen-Shannon/oxy-storefront/engine"
	"github.com/Carmen-Shannon/oxy-storefront/engine/loader"
	"github.com/Carmen-Shannon/oxy-storefront/engine/scene"
	"github.com/Carmen-Shannon/oxy-storefront/realtime"
)

// ViewerBuilderOption is a functional option for configuring a Viewer via NewViewer.
type ViewerBuilderOption func(*Viewer)

// WithEngine is an option builder that runs the viewer on e instead of a new headless engine.
// A window attached to e receives the viewer's input bindings.
//
// Parameters:
//   - e: the engine loop
//
// Returns:
//   - ViewerBuilderOption: a function that applies the engine option to a viewer
func WithEngine(e engine.Engine) ViewerBuilderOption {
	return func(v *Viewer) {
		v.engine = e
	}
}

// WithLoader is an option builder that shares l instead of creating a loader posting to the engine.
// The viewer does not close a loader it was given.
func WithLoader(l loader.Loader) ViewerBuilderOption {
	return func(v *Viewer) {
		v.loader = l
	}
}

// WithSocketURL is an option builder that syncs positions through the hub at url.
// The client posts its events to the viewer's engine.
func WithSocketURL(url string) ViewerBuilderOption {
	return func(v *Viewer) {
		v.socketURL = url
	}
}

// WithClient is an option builder that syncs positions through c. It takes precedence over WithSocketURL.
func WithClient(c realtime.Client) ViewerBuilderOption {
	return func(v *Viewer) {
		v.client = c
	}
}

// WithRendererFactory is an option builder that sets the render surface factory of every session.
// Without one the viewer runs headless.
func WithRendererFactory(f scene.RendererFactory) ViewerBuilderOption {
	return func(v *Viewer) {
		v.factory = f
	}
}

// WithClock is an option builder that replaces time.Now for entrance animation timing.
func WithClock(clock func() time.Time) ViewerBuilderOption {
	return func(v *Viewer) {
		v.clock = clock
	}
}

// WithSurfaceSize is an option builder that sets the surface size used without a window.
//
// Parameters:
//   - width, height: surface size in pixels
//
// Returns:
//   - ViewerBuilderOption: a function that applies the size option to a viewer
func WithSurfaceSize(width, height int) ViewerBuilderOption {
	return func(v *Viewer) {
		v.width = width
		v.height = height
	}
}

// WithWatch is an option builder that reloads the document whenever the file changes on disk.
//
// Parameters:
//   - debounce: quiet period after the last change before reloading
//
// Returns:
//   - ViewerBuilderOption: a function that applies the watch option to a viewer
func WithWatch(debounce time.Duration) ViewerBuilderOption {
	return func(v *Viewer) {
		v.watch = true
		if debounce > 0 {
			v.debounce = debounce
		}
	}
}

// WithSessionOptions is an option builder that passes extra options to the scene session.
func WithSessionOptions(options ...scene.SessionBuilderOption) ViewerBuilderOption {
	return func(v *Viewer) {
		v.sessionOptions = append(v.sessionOptions, options...)
	}
}
