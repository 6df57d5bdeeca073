// Package cache holds decoded assets keyed by their source URL so scene sessions never fetch the same model or image twice.
package cache

import (
	"fmt"
	"log"
	"sync"

	"github.com/Carmen-Shannon/oxy-storefront/engine/graph"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Cache is a URL-keyed store of immutable decoded assets.
// Entries are shared between sessions; callers must clone before mutating anything they get back.
type Cache[T any] interface {
	// Get returns the asset cached for url.
	//
	// Parameters:
	//   - url: the source URL the asset was loaded from
	//
	// Returns:
	//   - T: the cached asset, or the zero value
	//   - bool: true if the URL was cached
	Get(url string) (T, bool)

	// Put stores asset under url, replacing any previous entry.
	//
	// Parameters:
	//   - url: the source URL
	//   - asset: the decoded asset
	Put(url string, asset T)

	// Len returns the number of cached entries.
	Len() int

	// Purge drops every entry.
	Purge()
}

// mapCache is the unbounded implementation of Cache.
type mapCache[T any] struct {
	mu      sync.RWMutex
	entries map[string]T
}

// boundedCache is the least-recently-used implementation of Cache.
type boundedCache[T any] struct {
	entries *lru.Cache[string, T]
}

var (
	_ Cache[*graph.Node] = &mapCache[*graph.Node]{}
	_ Cache[*graph.Node] = &boundedCache[*graph.Node]{}
)

// New creates an unbounded cache with no eviction and no expiry.
//
// Returns:
//   - Cache[T]: an empty cache
func New[T any]() Cache[T] {
	return &mapCache[T]{entries: make(map[string]T)}
}

// NewBounded creates a cache that evicts the least recently used URL once size entries are held.
//
// Parameters:
//   - size: maximum number of entries (must be > 0)
//
// Returns:
//   - Cache[T]: an empty bounded cache
//   - error: error if size is not positive
func NewBounded[T any](size int) (Cache[T], error) {
	c, err := lru.New[string, T](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create bounded cache of size %d: %w", size, err)
	}
	return &boundedCache[T]{entries: c}, nil
}

func (c *mapCache[T]) Get(url string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[url]
	return v, ok
}

func (c *mapCache[T]) Put(url string, asset T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[url] = asset
}

func (c *mapCache[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *mapCache[T]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]T)
}

func (c *boundedCache[T]) Get(url string) (T, bool) {
	return c.entries.Get(url)
}

func (c *boundedCache[T]) Put(url string, asset T) {
	c.entries.Add(url, asset)
}

func (c *boundedCache[T]) Len() int {
	return c.entries.Len()
}

func (c *boundedCache[T]) Purge() {
	c.entries.Purge()
}

// Process-wide defaults. Sessions use these unless a cache is injected.
var (
	defaultsMu sync.RWMutex
	models     = New[*graph.Node]()
	textures   = New[*graph.Texture]()
)

// Models returns the process-wide model cache.
func Models() Cache[*graph.Node] {
	defaultsMu.RLock()
	defer defaultsMu.RUnlock()
	return models
}

// Textures returns the process-wide texture cache.
func Textures() Cache[*graph.Texture] {
	defaultsMu.RLock()
	defer defaultsMu.RUnlock()
	return textures
}

// ConfigureDefaults replaces the process-wide caches. A size of 0 keeps them unbounded.
// Call it once at startup, before any session loads assets.
//
// Parameters:
//   - size: per-cache entry budget, or 0 for no eviction
//
// Returns:
//   - error: error if a bounded cache could not be created
func ConfigureDefaults(size int) error {
	if size <= 0 {
		return nil
	}
	m, err := NewBounded[*graph.Node](size)
	if err != nil {
		return err
	}
	t, err := NewBounded[*graph.Texture](size)
	if err != nil {
		return err
	}

	defaultsMu.Lock()
	models, textures = m, t
	defaultsMu.Unlock()

	log.Printf("[Assets] asset caches bounded to %d entries each", size)
	return nil
}
