package loader

import (
	"context"
	"errors"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/oxy-storefront/engine/cache"
	"github.com/Carmen-Shannon/oxy-storefront/engine/graph"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"golang.org/x/sync/singleflight"
)

// ErrClosed is reported to loads requested after Close.
var ErrClosed = errors.New("loader closed")

// Poster schedules a callback onto the thread that owns the scene. The engine loop implements it.
type Poster interface {
	Post(fn func())
}

// PosterFunc adapts a plain function to Poster.
type PosterFunc func(fn func())

// Post calls f(fn).
func (f PosterFunc) Post(fn func()) {
	f(fn)
}

// ModelResult is delivered once per LoadModel call.
type ModelResult struct {
	// URL is the requested source URL.
	URL string
	// Model is the shared cached graph. Clone it before adding it to a scene.
	Model *graph.Node
	// FromCache is true when the model was already cached at request time.
	FromCache bool
	// Err is non-nil when the fetch or decode failed.
	Err error
}

// ImageResult is delivered once per LoadImage call.
type ImageResult struct {
	URL       string
	Texture   *graph.Texture
	FromCache bool
	Err       error
}

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.Mutex

	models   cache.Cache[*graph.Node]
	textures cache.Cache[*graph.Texture]

	fetcher Fetcher
	poster  Poster
	timeout time.Duration

	workers int
	pool    worker.DynamicWorkerPool

	// flights coalesces concurrent first loads of the same URL into one fetch.
	flights singleflight.Group

	ctx    context.Context
	cancel context.CancelFunc

	nextTaskID atomic.Int64
	fetches    atomic.Int64
	closed     atomic.Bool
}

// Loader fetches and decodes models and images off the scene thread and hands results back through a Poster.
// Cache hits are answered synchronously on the calling thread; misses run on a worker pool.
type Loader interface {
	// LoadModel resolves a glTF/GLB model by URL.
	// The callback runs exactly once, on the calling thread for cache hits and via the Poster otherwise.
	// Failures are reported in the result and never retried.
	//
	// Parameters:
	//   - url: the model source URL
	//   - cb: receives the result
	LoadModel(url string, cb func(ModelResult))

	// LoadImage resolves a PNG, JPEG or WebP image by URL with the same delivery rules as LoadModel.
	//
	// Parameters:
	//   - url: the image source URL
	//   - cb: receives the result
	LoadImage(url string, cb func(ImageResult))

	// Models returns the model cache this loader reads and fills.
	Models() cache.Cache[*graph.Node]

	// Textures returns the texture cache this loader reads and fills.
	Textures() cache.Cache[*graph.Texture]

	// FetchCount returns how many network or disk fetches the loader has started.
	FetchCount() int64

	// Close cancels in-flight fetches and stops the worker pool. Running loads fire their callbacks
	// with an error, loads still queued are dropped and later cache misses fail with ErrClosed.
	// Safe to call repeatedly.
	Close()
}

var _ Loader = &loader{}

// NewLoader creates a Loader with the process-wide caches unless options inject others.
//
// Parameters:
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new Loader
func NewLoader(options ...LoaderBuilderOption) Loader {
	l := &loader{
		models:   cache.Models(),
		textures: cache.Textures(),
		timeout:  30 * time.Second,
		workers:  4,
	}

	for _, option := range options {
		option(l)
	}

	if l.fetcher == nil {
		l.fetcher = NewHTTPFetcher(l.timeout)
	}
	l.ctx, l.cancel = context.WithCancel(context.Background())
	l.pool = worker.NewDynamicWorkerPool(max(l.workers, 1), 256, 1*time.Second)
	return l
}

func (l *loader) Models() cache.Cache[*graph.Node] {
	return l.models
}

func (l *loader) Textures() cache.Cache[*graph.Texture] {
	return l.textures
}

func (l *loader) FetchCount() int64 {
	return l.fetches.Load()
}

func (l *loader) Close() {
	if !l.closed.CompareAndSwap(false, true) {
		return
	}
	l.cancel()
	l.pool.Stop()
}

func (l *loader) LoadModel(url string, cb func(ModelResult)) {
	if m, ok := l.models.Get(url); ok {
		cb(ModelResult{URL: url, Model: m, FromCache: true})
		return
	}
	if l.closed.Load() {
		l.deliver(func() { cb(ModelResult{URL: url, Err: ErrClosed}) })
		return
	}

	l.submit(func() {
		v, err, _ := l.flights.Do("model:"+url, func() (any, error) {
			if m, ok := l.models.Get(url); ok {
				return m, nil
			}
			data, err := l.fetch(url)
			if err != nil {
				return nil, err
			}
			m, err := decodeModel(url, data, func(ref string) ([]byte, error) {
				return l.fetch(resolveReference(url, ref))
			})
			if err != nil {
				return nil, err
			}
			l.models.Put(url, m)
			return m, nil
		})

		res := ModelResult{URL: url, Err: err}
		if err == nil {
			res.Model = v.(*graph.Node)
		} else {
			log.Printf("[Assets] model %s failed: %v", url, err)
		}
		l.deliver(func() { cb(res) })
	})
}

func (l *loader) LoadImage(url string, cb func(ImageResult)) {
	if t, ok := l.textures.Get(url); ok {
		cb(ImageResult{URL: url, Texture: t, FromCache: true})
		return
	}
	if l.closed.Load() {
		l.deliver(func() { cb(ImageResult{URL: url, Err: ErrClosed}) })
		return
	}

	l.submit(func() {
		v, err, _ := l.flights.Do("image:"+url, func() (any, error) {
			if t, ok := l.textures.Get(url); ok {
				return t, nil
			}
			data, err := l.fetch(url)
			if err != nil {
				return nil, err
			}
			t, err := decodeImage(url, data)
			if err != nil {
				return nil, err
			}
			l.textures.Put(url, t)
			return t, nil
		})

		res := ImageResult{URL: url, Err: err}
		if err == nil {
			res.Texture = v.(*graph.Texture)
		} else {
			log.Printf("[Assets] image %s failed: %v", url, err)
		}
		l.deliver(func() { cb(res) })
	})
}

// submit runs fn on the worker pool.
func (l *loader) submit(fn func()) {
	id := int(l.nextTaskID.Add(1))
	l.pool.SubmitTask(worker.Task{
		ID: id,
		Do: func() (any, error) {
			fn()
			return nil, nil
		},
	})
}

// fetch reads url with the loader's timeout applied.
func (l *loader) fetch(url string) ([]byte, error) {
	l.fetches.Add(1)
	ctx, cancel := context.WithTimeout(l.ctx, l.timeout)
	defer cancel()
	return l.fetcher.Fetch(ctx, url)
}

// deliver hands fn to the Poster, or runs it inline when none is configured.
func (l *loader) deliver(fn func()) {
	l.mu.Lock()
	p := l.poster
	l.mu.Unlock()
	if p == nil {
		fn()
		return
	}
	p.Post(fn)
}
