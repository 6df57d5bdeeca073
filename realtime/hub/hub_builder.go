package hub

import (
	"net/http"
	"time"
)

// HubBuilderOption is a functional option for configuring a Hub.
type HubBuilderOption func(*Hub)

// WithMaxUsers sets the room capacity. Values below 1 are ignored.
//
// Parameters:
//   - n: the maximum number of viewers per scene
//
// Returns:
//   - HubBuilderOption: option function to apply
func WithMaxUsers(n int) HubBuilderOption {
	return func(h *Hub) {
		if n > 0 {
			h.maxUsers = n
		}
	}
}

// WithStore sets where occupancy is counted.
func WithStore(s OccupancyStore) HubBuilderOption {
	return func(h *Hub) {
		h.store = s
	}
}

// WithStoreTimeout bounds every store call.
func WithStoreTimeout(d time.Duration) HubBuilderOption {
	return func(h *Hub) {
		if d > 0 {
			h.storeTimeout = d
		}
	}
}

// WithCheckOrigin sets the websocket origin check. The default only accepts same-host origins.
func WithCheckOrigin(fn func(r *http.Request) bool) HubBuilderOption {
	return func(h *Hub) {
		h.upgrader.CheckOrigin = fn
	}
}
