package realtime

import (
	"context"
	"encoding/json"
	"errors"
)

var (
	// ErrMissingEvent is returned when a frame has no event name.
	ErrMissingEvent = errors.New("frame has no event")
	// ErrAlreadyConnected is returned by Connect on a channel that is already open.
	ErrAlreadyConnected = errors.New("channel already connected")
	// ErrNotConnected is returned by Emit before Connect succeeds.
	ErrNotConnected = errors.New("channel not connected")
	// ErrClosed is returned by Emit after Disconnect.
	ErrClosed = errors.New("channel closed")
	// ErrSendBufferFull is returned by Emit when the write pump cannot keep up.
	ErrSendBufferFull = errors.New("send buffer full")
)

// Handler receives the data field of an inbound event.
type Handler func(data json.RawMessage)

// Channel is a bidirectional, event-named message channel to the realtime hub.
//
// Handlers run on the channel's own goroutine. The lifecycle events connect, disconnect
// and connect_error are delivered through the same On mechanism as hub messages.
type Channel interface {
	// Connect opens the channel. It blocks until the connection is established or fails.
	//
	// Parameters:
	//   - ctx: bounds the dial
	//   - url: the hub endpoint
	//
	// Returns:
	//   - error: error if the connection could not be opened
	Connect(ctx context.Context, url string) error

	// Emit queues one event for sending.
	//
	// Parameters:
	//   - event: the event name
	//   - payload: any JSON-serializable value
	//
	// Returns:
	//   - error: error if the channel is not open or the payload cannot be encoded
	Emit(event string, payload any) error

	// On registers handler for event. Several handlers may be registered for one event.
	On(event string, handler Handler)

	// Disconnect closes the channel. Safe to call more than once.
	Disconnect() error
}

// Poster runs a closure on the thread that owns the scene.
type Poster interface {
	Post(fn func())
}

// PosterFunc adapts a function to the Poster interface.
type PosterFunc func(fn func())

// Post calls f(fn).
func (f PosterFunc) Post(fn func()) {
	f(fn)
}

// immediatePoster runs closures on the calling goroutine.
type immediatePoster struct{}

func (immediatePoster) Post(fn func()) { fn() }
