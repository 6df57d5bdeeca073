package cache

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-storefront/engine/graph"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapCacheGetPut(t *testing.T) {
	c := New[*graph.Node]()

	_, ok := c.Get("a.glb")
	assert.False(t, ok)

	n := graph.NewNode("a")
	c.Put("a.glb", n)
	got, ok := c.Get("a.glb")
	require.True(t, ok)
	assert.Same(t, n, got)
	assert.Equal(t, 1, c.Len())

	c.Purge()
	assert.Zero(t, c.Len())
}

func TestIsolatedInstancesDoNotShare(t *testing.T) {
	a := New[*graph.Texture]()
	b := New[*graph.Texture]()
	a.Put("bg.png", &graph.Texture{Width: 1, Height: 1})

	_, ok := b.Get("bg.png")
	assert.False(t, ok)
}

func TestBoundedCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c, err := NewBounded[int](2)
	require.NoError(t, err)

	c.Put("a", 1)
	c.Put("b", 2)
	_, _ = c.Get("a")
	c.Put("c", 3)

	_, ok := c.Get("b")
	assert.False(t, ok, "b was least recently used")
	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)
	assert.Equal(t, 2, c.Len())
}

func TestNewBoundedRejectsNonPositiveSize(t *testing.T) {
	_, err := NewBounded[int](0)
	assert.Error(t, err)
}

func TestConfigureDefaultsZeroKeepsUnbounded(t *testing.T) {
	before := Models()
	require.NoError(t, ConfigureDefaults(0))
	assert.Same(t, before, Models())
}
