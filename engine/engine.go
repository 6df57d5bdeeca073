package engine

import (
	"log"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-storefront/engine/profiler"
	"github.com/Carmen-Shannon/oxy-storefront/engine/window"
)

// engine implements the Engine interface.
// Everything that touches the scene runs on the thread that calls Run (or Step).
type engine struct {
	mu      sync.Mutex
	pending []func()

	quitChannel chan struct{}
	quitOnce    sync.Once

	window window.Window

	profiler         *profiler.Profiler
	profilingEnabled bool

	tickCallback func(now time.Time, deltaTime float32)
	lastTick     time.Time

	frameLimit time.Duration // minimum frame duration; 0 = uncapped
}

// Engine is the cooperative main loop of the storefront.
//
// Other goroutines (asset workers, the realtime reader) never touch the scene directly.
// They Post closures, and the loop drains them at the start of every frame before the tick callback runs.
type Engine interface {
	// Window returns the underlying window, or nil for a headless engine.
	Window() window.Window

	// Post queues fn to run on the loop thread at the start of the next frame.
	// Safe to call from any goroutine. Closures posted after Quit are dropped.
	//
	// Parameters:
	//   - fn: the closure to run
	Post(fn func())

	// Step runs one frame: posted closures in order, then the tick callback.
	//
	// Parameters:
	//   - now: the frame timestamp
	Step(now time.Time)

	// SetTickCallback registers the per-frame callback.
	//
	// Parameters:
	//   - callback: receives the frame time and the seconds elapsed since the previous frame
	SetTickCallback(callback func(now time.Time, deltaTime float32))

	// SetFrameLimit caps the frame rate. Pass 0 to uncap.
	SetFrameLimit(fps float64)

	// Profiler returns the frame profiler.
	Profiler() *profiler.Profiler

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// Run pumps window messages and steps one frame per iteration. Blocks until the window closes or Quit is called.
	Run()

	// Quit stops the loop. Safe to call multiple times and from any goroutine.
	Quit()

	// Done is closed once Quit has been called.
	Done() <-chan struct{}
}

var _ Engine = &engine{}

// NewEngine creates a new Engine instance with the provided options.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		quitChannel: make(chan struct{}),
		profiler:    profiler.NewProfiler(time.Second),
	}

	for _, opt := range options {
		opt(e)
	}

	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Post(fn func()) {
	if fn == nil {
		return
	}
	select {
	case <-e.quitChannel:
		return
	default:
	}
	e.mu.Lock()
	e.pending = append(e.pending, fn)
	e.mu.Unlock()
}

func (e *engine) Step(now time.Time) {
	e.mu.Lock()
	batch := e.pending
	e.pending = nil
	e.mu.Unlock()

	for _, fn := range batch {
		fn()
	}

	var dt float32
	if !e.lastTick.IsZero() {
		dt = float32(now.Sub(e.lastTick).Seconds())
	}
	e.lastTick = now

	if e.tickCallback != nil {
		e.tickCallback(now, dt)
	}

	if e.profilingEnabled && e.profiler != nil {
		e.profiler.Tick(now)
	}
}

func (e *engine) SetTickCallback(callback func(now time.Time, deltaTime float32)) {
	e.tickCallback = callback
}

func (e *engine) SetFrameLimit(fps float64) {
	if fps <= 0 {
		e.frameLimit = 0
		return
	}
	e.frameLimit = time.Duration(float64(time.Second) / fps)
}

func (e *engine) Profiler() *profiler.Profiler {
	return e.profiler
}

func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

func (e *engine) Run() {
	if e.window == nil {
		log.Printf("[Engine] Run called without a window")
		return
	}
	e.window.SetUpdateCallback(func() {
		select {
		case <-e.quitChannel:
			_ = e.window.Close()
			return
		default:
		}
		start := time.Now()
		e.Step(start)
		if e.frameLimit > 0 {
			if remaining := e.frameLimit - time.Since(start); remaining > 0 {
				time.Sleep(remaining)
			}
		}
	})
	e.window.ProcessMessages()
	e.Quit()
}

func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
		e.mu.Lock()
		e.pending = nil
		e.mu.Unlock()
	})
}

func (e *engine) Done() <-chan struct{} {
	return e.quitChannel
}
