package realtime

// ClientBuilderOption is a functional option for configuring a Client.
type ClientBuilderOption func(*clientImpl)

// WithPoster sets where inbound events are handled. The storefront passes its engine loop.
//
// Parameters:
//   - p: the poster; nil keeps handling on the channel goroutine
//
// Returns:
//   - ClientBuilderOption: option function to apply
func WithPoster(p Poster) ClientBuilderOption {
	return func(c *clientImpl) {
		if p != nil {
			c.poster = p
		}
	}
}

// WithChannelFactory replaces the websocket channel, mainly for tests.
func WithChannelFactory(f ChannelFactory) ClientBuilderOption {
	return func(c *clientImpl) {
		if f != nil {
			c.factory = f
		}
	}
}
