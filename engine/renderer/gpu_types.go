package renderer

import (
	"unsafe"

	"github.com/Carmen-Shannon/oxy-storefront/common"
	"github.com/Carmen-Shannon/oxy-storefront/engine/graph"

	"github.com/go-gl/mathgl/mgl32"
)

// GPUVertex is one interleaved vertex as laid out in the vertex buffer.
// Size: 20 bytes.
type GPUVertex struct {
	Position [3]float32 // offset  0
	UV       [2]float32 // offset 12
}

// GPUObjectUniformSource is the WGSL definition matching GPUObjectUniform.
const GPUObjectUniformSource = `struct ObjectUniform {
    model: mat4x4<f32>,
    color: vec4<f32>,
    flags: vec4<f32>,
};`

// GPUObjectUniform is the per-mesh uniform block.
// Size: 96 bytes.
type GPUObjectUniform struct {
	Model mgl32.Mat4 // offset  0: world matrix
	Color [4]float32 // offset 64: base colour
	Flags [4]float32 // offset 80: x = unlit, y = textured
}

// Size returns the size of the GPUObjectUniform struct in bytes.
func (g *GPUObjectUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the uniform into a byte buffer suitable for GPU upload.
func (g *GPUObjectUniform) Marshal() []byte {
	return common.SliceToBytes([]GPUObjectUniform{*g})
}

// newObjectUniform builds the uniform for mesh drawn with the given world matrix.
func newObjectUniform(world mgl32.Mat4, m *graph.Mesh) GPUObjectUniform {
	u := GPUObjectUniform{
		Model: world,
		Color: [4]float32(m.Material.Color),
	}
	if m.Material.Unlit {
		u.Flags[0] = 1
	}
	if m.Material.Map != nil {
		u.Flags[1] = 1
	}
	return u
}

// packGeometry interleaves positions and UVs and widens the index list.
// Geometry without indices is drawn with a generated 0..n-1 index list.
//
// Parameters:
//   - g: the geometry to pack
//
// Returns:
//   - []byte: vertex buffer contents
//   - []byte: index buffer contents
//   - int: index count
func packGeometry(g *graph.Geometry) ([]byte, []byte, int) {
	vertices := make([]GPUVertex, len(g.Positions))
	for i, p := range g.Positions {
		vertices[i].Position = [3]float32(p)
		if i < len(g.UVs) {
			vertices[i].UV = [2]float32(g.UVs[i])
		}
	}

	indices := g.Indices
	if len(indices) == 0 {
		indices = make([]uint32, len(g.Positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}
	return common.SliceToBytes(vertices), common.SliceToBytes(indices), len(indices)
}
