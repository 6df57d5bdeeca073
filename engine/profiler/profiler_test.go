package profiler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTickReportsOncePerInterval(t *testing.T) {
	p := NewProfiler(time.Second)
	calls := 0
	p.SetAnnotation(func() string {
		calls++
		return "objects: 2"
	})

	start := time.Unix(100, 0)
	assert.False(t, p.Tick(start))
	for i := 1; i < 30; i++ {
		assert.False(t, p.Tick(start.Add(time.Duration(i)*30*time.Millisecond)))
	}
	assert.True(t, p.Tick(start.Add(time.Second)))
	assert.InDelta(t, 31, p.FPS(), 0.01)
	assert.Equal(t, 1, calls)

	assert.False(t, p.Tick(start.Add(1500*time.Millisecond)))
}

func TestDefaultInterval(t *testing.T) {
	p := NewProfiler(0)
	assert.Equal(t, time.Second, p.updateInterval)
}
