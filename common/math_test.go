package common

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEaseOutCubic(t *testing.T) {
	tests := []struct {
		name string
		in   float32
		want float32
	}{
		{"start", 0, 0},
		{"end", 1, 1},
		{"half", 0.5, 0.875},
		{"clamped below", -2, 0},
		{"clamped above", 3, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, EaseOutCubic(tt.in), 1e-6)
		})
	}
}

func TestLerpVec3Endpoints(t *testing.T) {
	a := mgl32.Vec3{0, 0.5, 35}
	b := mgl32.Vec3{0, 0.5, 12}
	assert.Equal(t, a, LerpVec3(a, b, 0))
	assert.Equal(t, b, LerpVec3(a, b, 1))
	assert.InDelta(t, 23.5, LerpVec3(a, b, 0.5)[2], 1e-5)
}

func TestScreenToNDC(t *testing.T) {
	assert.Equal(t, mgl32.Vec2{-1, 1}, ScreenToNDC(0, 0, 800, 600))
	assert.Equal(t, mgl32.Vec2{1, -1}, ScreenToNDC(800, 600, 800, 600))
	assert.Equal(t, mgl32.Vec2{0, 0}, ScreenToNDC(400, 300, 800, 600))
	assert.Equal(t, mgl32.Vec2{}, ScreenToNDC(10, 10, 0, 0))
}

func TestHorizontalBasisIgnoresPitch(t *testing.T) {
	forward, right := HorizontalBasis(0)
	assert.InDelta(t, 0, forward[0], 1e-6)
	assert.InDelta(t, 1, forward[2], 1e-6)
	assert.InDelta(t, 1, right[0], 1e-6)
	assert.InDelta(t, 0, right[2], 1e-6)
	assert.Zero(t, forward[1])
	assert.Zero(t, right[1])
}

func TestPlaneIntersectRay(t *testing.T) {
	plane := Plane{Normal: mgl32.Vec3{0, 0, 1}}

	hit, ok := plane.IntersectRay(Ray{Origin: mgl32.Vec3{1, 2, 10}, Direction: mgl32.Vec3{0, 0, -1}})
	require.True(t, ok)
	assert.Equal(t, mgl32.Vec3{1, 2, 0}, hit)

	_, ok = plane.IntersectRay(Ray{Origin: mgl32.Vec3{0, 0, 10}, Direction: mgl32.Vec3{0, 0, 1}})
	assert.False(t, ok, "ray pointing away from the plane")

	_, ok = plane.IntersectRay(Ray{Origin: mgl32.Vec3{0, 0, 10}, Direction: mgl32.Vec3{1, 0, 0}})
	assert.False(t, ok, "parallel ray off the plane")
}

func TestBoxIntersectRay(t *testing.T) {
	box := EmptyBox().ExpandByPoint(mgl32.Vec3{-1, -1, -1}).ExpandByPoint(mgl32.Vec3{1, 1, 1})
	require.False(t, box.IsEmpty())

	dist, ok := box.IntersectRay(Ray{Origin: mgl32.Vec3{0, 0, 10}, Direction: mgl32.Vec3{0, 0, -1}})
	require.True(t, ok)
	assert.InDelta(t, 9, dist, 1e-5)

	_, ok = box.IntersectRay(Ray{Origin: mgl32.Vec3{5, 0, 10}, Direction: mgl32.Vec3{0, 0, -1}})
	assert.False(t, ok)

	dist, ok = box.IntersectRay(Ray{Origin: mgl32.Vec3{}, Direction: mgl32.Vec3{1, 0, 0}})
	require.True(t, ok)
	assert.Zero(t, dist)
}

func TestBoxTransform(t *testing.T) {
	box := EmptyBox().ExpandByPoint(mgl32.Vec3{-1, -1, -1}).ExpandByPoint(mgl32.Vec3{1, 1, 1})
	moved := box.Transform(BuildModelMatrix(mgl32.Vec3{3, 0, 0}, mgl32.Vec3{}, mgl32.Vec3{2, 2, 2}))
	assert.InDelta(t, 1, moved.Min[0], 1e-5)
	assert.InDelta(t, 5, moved.Max[0], 1e-5)
	assert.True(t, EmptyBox().Transform(mgl32.Ident4()).IsEmpty())
}

func TestIntersectTriangle(t *testing.T) {
	a := mgl32.Vec3{-1, -1, 0}
	b := mgl32.Vec3{1, -1, 0}
	c := mgl32.Vec3{0, 1, 0}

	dist, ok := IntersectTriangle(Ray{Origin: mgl32.Vec3{0, 0, 5}, Direction: mgl32.Vec3{0, 0, -1}}, a, b, c)
	require.True(t, ok)
	assert.InDelta(t, 5, dist, 1e-5)

	_, ok = IntersectTriangle(Ray{Origin: mgl32.Vec3{3, 3, 5}, Direction: mgl32.Vec3{0, 0, -1}}, a, b, c)
	assert.False(t, ok)
}

func TestNewKeys(t *testing.T) {
	seen := map[string]struct{}{"a.glb": {}}
	fresh := NewKeys(seen, "a.glb", "b.glb", "b.glb", "c.glb")
	assert.Equal(t, []string{"b.glb", "c.glb"}, fresh)
	assert.Len(t, seen, 3)
	assert.Empty(t, NewKeys(seen, "c.glb"))
}

func TestCoalesce(t *testing.T) {
	assert.Equal(t, "x", Coalesce("", "x", "y"))
	assert.Equal(t, 0, Coalesce(0, 0))
}
