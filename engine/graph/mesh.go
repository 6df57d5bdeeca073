package graph

import (
	"github.com/Carmen-Shannon/oxy-storefront/common"

	"github.com/go-gl/mathgl/mgl32"
)

// Resource is a GPU-side handle a renderer attaches to a mesh or texture.
type Resource interface {
	Release()
}

// Geometry is immutable vertex data shared by every clone of a model.
type Geometry struct {
	// Positions are the vertex positions in mesh-local space.
	Positions []mgl32.Vec3
	// UVs are optional texture coordinates, one per position.
	UVs []mgl32.Vec2
	// Indices form triangles; when empty, Positions are consumed three at a time.
	Indices []uint32
	// Bounds is the local-space box around Positions.
	Bounds common.Box
}

// NewGeometry builds a geometry and computes its bounds.
func NewGeometry(positions []mgl32.Vec3, uvs []mgl32.Vec2, indices []uint32) *Geometry {
	g := &Geometry{
		Positions: positions,
		UVs:       uvs,
		Indices:   indices,
		Bounds:    common.EmptyBox(),
	}
	for _, p := range positions {
		g.Bounds = g.Bounds.ExpandByPoint(p)
	}
	return g
}

// TriangleCount returns the number of triangles the geometry describes.
func (g *Geometry) TriangleCount() int {
	if len(g.Indices) > 0 {
		return len(g.Indices) / 3
	}
	return len(g.Positions) / 3
}

// Triangle returns the vertices of triangle i.
func (g *Geometry) Triangle(i int) (a, b, c mgl32.Vec3) {
	if len(g.Indices) > 0 {
		return g.Positions[g.Indices[i*3]], g.Positions[g.Indices[i*3+1]], g.Positions[g.Indices[i*3+2]]
	}
	return g.Positions[i*3], g.Positions[i*3+1], g.Positions[i*3+2]
}

// Texture is decoded RGBA image data.
type Texture struct {
	// Source is the URL the texture was decoded from.
	Source string
	Width  int
	Height int
	// Pixels holds Width*Height*4 bytes in RGBA order.
	Pixels []byte
}

// Material describes how a mesh is shaded.
type Material struct {
	// Color is the base colour (RGBA, linear).
	Color mgl32.Vec4
	// Map is an optional base colour texture.
	Map *Texture
	// Unlit skips lighting; the backdrop uses it.
	Unlit bool
}

// Mesh pairs shared geometry with a per-instance material and the GPU resources a renderer created for it.
type Mesh struct {
	Geometry *Geometry
	Material Material

	resources []Resource
	disposed  bool
}

// NewMesh creates a mesh over g with material m.
func NewMesh(g *Geometry, m Material) *Mesh {
	return &Mesh{Geometry: g, Material: m}
}

// Clone returns a mesh sharing the geometry but owning a fresh material and no GPU resources.
func (m *Mesh) Clone() *Mesh {
	return &Mesh{Geometry: m.Geometry, Material: m.Material}
}

// Attach records a GPU resource that must be released with the mesh.
func (m *Mesh) Attach(r Resource) {
	m.resources = append(m.resources, r)
}

// Resources returns the attached GPU resources.
func (m *Mesh) Resources() []Resource {
	return m.resources
}

// Disposed reports whether Dispose has run.
func (m *Mesh) Disposed() bool {
	return m.disposed
}

// Dispose releases every attached GPU resource. Subsequent calls are no-ops.
func (m *Mesh) Dispose() {
	if m.disposed {
		return
	}
	for _, r := range m.resources {
		r.Release()
	}
	m.resources = nil
	m.disposed = true
}

// NewPlane builds a width×height quad in the XY plane facing +Z, centred on the origin.
//
// Parameters:
//   - width: extent along X
//   - height: extent along Y
//
// Returns:
//   - *Geometry: two triangles with UVs mapping the full texture
func NewPlane(width, height float32) *Geometry {
	hw, hh := width/2, height/2
	positions := []mgl32.Vec3{
		{-hw, -hh, 0},
		{hw, -hh, 0},
		{hw, hh, 0},
		{-hw, hh, 0},
	}
	uvs := []mgl32.Vec2{
		{0, 1},
		{1, 1},
		{1, 0},
		{0, 0},
	}
	return NewGeometry(positions, uvs, []uint32{0, 1, 2, 0, 2, 3})
}

// NewBox builds an axis-aligned cuboid centred on the origin. Used as a placeholder model.
func NewBox(width, height, depth float32) *Geometry {
	hx, hy, hz := width/2, height/2, depth/2
	positions := []mgl32.Vec3{
		{-hx, -hy, hz}, {hx, -hy, hz}, {hx, hy, hz}, {-hx, hy, hz},
		{-hx, -hy, -hz}, {hx, -hy, -hz}, {hx, hy, -hz}, {-hx, hy, -hz},
	}
	indices := []uint32{
		0, 1, 2, 0, 2, 3, // front
		5, 4, 7, 5, 7, 6, // back
		4, 0, 3, 4, 3, 7, // left
		1, 5, 6, 1, 6, 2, // right
		3, 2, 6, 3, 6, 7, // top
		4, 5, 1, 4, 1, 0, // bottom
	}
	return NewGeometry(positions, nil, indices)
}
