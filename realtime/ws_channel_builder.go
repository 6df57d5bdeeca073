package realtime

import (
	"time"

	"github.com/gorilla/websocket"
)

// WSChannelBuilderOption is a functional option for configuring a websocket Channel.
type WSChannelBuilderOption func(*wsChannel)

// WithDialer replaces the default websocket dialer, e.g. to set a proxy or TLS config.
func WithDialer(d *websocket.Dialer) WSChannelBuilderOption {
	return func(c *wsChannel) {
		if d != nil {
			c.dialer = d
		}
	}
}

// WithKeepalive sets how long the channel waits for a pong and how often it pings.
//
// Parameters:
//   - pongWait: read deadline extended by every pong
//   - pingPeriod: ping interval; must be shorter than pongWait, otherwise 90% of pongWait is used
//
// Returns:
//   - WSChannelBuilderOption: option function to apply
func WithKeepalive(pongWait, pingPeriod time.Duration) WSChannelBuilderOption {
	return func(c *wsChannel) {
		if pongWait > 0 {
			c.pongWait = pongWait
		}
		c.pingPeriod = pingPeriod
	}
}

// WithWriteWait sets the deadline of each write.
func WithWriteWait(d time.Duration) WSChannelBuilderOption {
	return func(c *wsChannel) {
		if d > 0 {
			c.writeWait = d
		}
	}
}

// WithSendBuffer sets how many outbound frames may queue before Emit fails.
func WithSendBuffer(n int) WSChannelBuilderOption {
	return func(c *wsChannel) {
		if n > 0 {
			c.sendBuffer = n
		}
	}
}
