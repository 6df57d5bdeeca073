package loader

import (
	"time"

	"github.com/Carmen-Shannon/oxy-storefront/engine/cache"
	"github.com/Carmen-Shannon/oxy-storefront/engine/graph"
)

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithModelCache is an option builder that replaces the process-wide model cache.
//
// Parameters:
//   - c: the cache to read and fill
//
// Returns:
//   - LoaderBuilderOption: a function that applies the cache option to a loader
func WithModelCache(c cache.Cache[*graph.Node]) LoaderBuilderOption {
	return func(l *loader) {
		l.models = c
	}
}

// WithTextureCache is an option builder that replaces the process-wide texture cache.
//
// Parameters:
//   - c: the cache to read and fill
//
// Returns:
//   - LoaderBuilderOption: a function that applies the cache option to a loader
func WithTextureCache(c cache.Cache[*graph.Texture]) LoaderBuilderOption {
	return func(l *loader) {
		l.textures = c
	}
}

// WithFetcher is an option builder that replaces the default HTTP/filesystem fetcher.
func WithFetcher(f Fetcher) LoaderBuilderOption {
	return func(l *loader) {
		l.fetcher = f
	}
}

// WithPoster is an option builder that routes completion callbacks through p.
// Without a poster, callbacks for cache misses run on the worker goroutine.
func WithPoster(p Poster) LoaderBuilderOption {
	return func(l *loader) {
		l.poster = p
	}
}

// WithWorkers is an option builder that sets the worker pool size.
//
// Parameters:
//   - n: number of concurrent fetch/decode workers (values < 1 become 1)
//
// Returns:
//   - LoaderBuilderOption: a function that applies the worker option to a loader
func WithWorkers(n int) LoaderBuilderOption {
	return func(l *loader) {
		l.workers = n
	}
}

// WithTimeout is an option builder that bounds each fetch.
func WithTimeout(d time.Duration) LoaderBuilderOption {
	return func(l *loader) {
		if d > 0 {
			l.timeout = d
		}
	}
}
