package graph

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-storefront/common"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingResource struct {
	released int
}

func (r *countingResource) Release() {
	r.released++
}

func TestNodeAddRemoveReparents(t *testing.T) {
	a := NewNode("a")
	b := NewNode("b")
	child := NewNode("child")

	a.Add(child)
	require.Equal(t, a, child.Parent())

	b.Add(child)
	assert.Equal(t, b, child.Parent())
	assert.Empty(t, a.Children())
	assert.Len(t, b.Children(), 1)

	assert.True(t, b.Remove(child))
	assert.Nil(t, child.Parent())
	assert.False(t, b.Remove(child))
}

func TestWorldMatrixComposesParents(t *testing.T) {
	root := NewNode("root")
	root.Position = mgl32.Vec3{1, 0, 0}
	child := NewNode("child")
	child.Position = mgl32.Vec3{0, 2, 0}
	root.Add(child)

	p := child.WorldMatrix().Mul4x1(mgl32.Vec4{0, 0, 0, 1}).Vec3()
	assert.InDelta(t, 1, p[0], 1e-6)
	assert.InDelta(t, 2, p[1], 1e-6)
}

func TestTaggedWalksToObjectRoot(t *testing.T) {
	root := NewNode("placed")
	root.ObjectID = "m1"
	mid := NewNode("mid")
	leaf := NewNode("leaf")
	root.Add(mid)
	mid.Add(leaf)

	assert.Equal(t, root, leaf.Tagged())
	assert.Nil(t, NewNode("loose").Tagged())
}

func TestCloneSharesGeometryNotResources(t *testing.T) {
	geom := NewBox(1, 1, 1)
	src := NewNode("model")
	src.Mesh = NewMesh(geom, Material{Color: mgl32.Vec4{1, 0, 0, 1}})
	res := &countingResource{}
	src.Mesh.Attach(res)
	src.Add(NewNode("child"))

	clone := src.Clone()
	require.NotSame(t, src, clone)
	assert.Same(t, geom, clone.Mesh.Geometry)
	assert.Empty(t, clone.Mesh.Resources())
	assert.Len(t, clone.Children(), 1)

	clone.Mesh.Material.Color = mgl32.Vec4{0, 1, 0, 1}
	assert.Equal(t, mgl32.Vec4{1, 0, 0, 1}, src.Mesh.Material.Color)

	clone.Dispose()
	assert.Zero(t, res.released)
	assert.False(t, src.Mesh.Disposed())
}

func TestDisposeIsIdempotent(t *testing.T) {
	n := NewNode("n")
	n.Mesh = NewMesh(NewPlane(16, 9), Material{})
	res := &countingResource{}
	n.Mesh.Attach(res)

	n.Dispose()
	n.Dispose()
	assert.Equal(t, 1, res.released)
	assert.True(t, n.Mesh.Disposed())
}

func TestRaycastSortsByDistance(t *testing.T) {
	scene := NewNode("scene")

	near := NewNode("near")
	near.ObjectID = "near"
	near.Position = mgl32.Vec3{0, 0, 5}
	near.Mesh = NewMesh(NewBox(1, 1, 1), Material{})

	far := NewNode("far")
	far.ObjectID = "far"
	far.Mesh = NewMesh(NewBox(1, 1, 1), Material{})

	hidden := NewNode("hidden")
	hidden.Position = mgl32.Vec3{0, 0, 8}
	hidden.Visible = false
	hidden.Mesh = NewMesh(NewBox(1, 1, 1), Material{})

	scene.Add(far)
	scene.Add(near)
	scene.Add(hidden)

	ray := common.Ray{Origin: mgl32.Vec3{0, 0, 20}, Direction: mgl32.Vec3{0, 0, -1}}
	hits := Raycast(ray, scene.Children())
	require.Len(t, hits, 2)
	assert.Equal(t, "near", hits[0].Node.ObjectID)
	assert.InDelta(t, 14.5, hits[0].Distance, 1e-4)
	assert.Equal(t, "far", hits[1].Node.ObjectID)

	miss := common.Ray{Origin: mgl32.Vec3{10, 10, 20}, Direction: mgl32.Vec3{0, 0, -1}}
	assert.Empty(t, Raycast(miss, scene.Children()))
}

func TestBoundsFollowsScale(t *testing.T) {
	n := NewNode("n")
	n.Scale = mgl32.Vec3{2, 2, 2}
	n.Mesh = NewMesh(NewBox(1, 1, 1), Material{})
	b := n.Bounds()
	assert.InDelta(t, -1, b.Min[0], 1e-6)
	assert.InDelta(t, 1, b.Max[0], 1e-6)
}
