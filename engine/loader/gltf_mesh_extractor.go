package loader

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-storefront/engine/graph"

	"github.com/go-gl/mathgl/mgl32"
)

// gltfMeshExtractorImpl is the implementation of the gltfMeshExtractor interface.
type gltfMeshExtractorImpl struct {
	parser    gltfParser
	materials gltfMaterialExtractor

	// geometries memoizes per-mesh results so a mesh referenced by several nodes is decoded once.
	geometries map[int][]*graph.Mesh
}

// gltfMeshExtractor converts glTF meshes into graph meshes.
type gltfMeshExtractor interface {
	// ExtractMesh extracts a single mesh by index.
	// Returns one graph.Mesh per primitive (glTF meshes can have multiple primitives).
	//
	// Parameters:
	//   - meshIndex: the index of the mesh to extract
	//
	// Returns:
	//   - []*graph.Mesh: one mesh per primitive, sharing geometry across repeated calls
	//   - error: error if extraction fails
	ExtractMesh(meshIndex int) ([]*graph.Mesh, error)
}

var _ gltfMeshExtractor = &gltfMeshExtractorImpl{}

// newGLTFMeshExtractor creates a new mesh extractor for a parsed document.
//
// Parameters:
//   - parser: the parser containing a loaded document
//   - materials: resolves primitive materials
//
// Returns:
//   - gltfMeshExtractor: the mesh extractor
func newGLTFMeshExtractor(parser gltfParser, materials gltfMaterialExtractor) gltfMeshExtractor {
	return &gltfMeshExtractorImpl{
		parser:     parser,
		materials:  materials,
		geometries: make(map[int][]*graph.Mesh),
	}
}

func (e *gltfMeshExtractorImpl) ExtractMesh(meshIndex int) ([]*graph.Mesh, error) {
	doc := e.parser.Document()
	if doc == nil {
		return nil, errNoDocument
	}
	if meshIndex < 0 || meshIndex >= len(doc.Meshes) {
		return nil, fmt.Errorf("mesh index %d out of range", meshIndex)
	}

	if cached, ok := e.geometries[meshIndex]; ok {
		out := make([]*graph.Mesh, len(cached))
		for i, m := range cached {
			out[i] = m.Clone()
		}
		return out, nil
	}

	mesh := &doc.Meshes[meshIndex]
	result := make([]*graph.Mesh, 0, len(mesh.Primitives))
	for primIdx := range mesh.Primitives {
		m, err := e.extractPrimitive(&mesh.Primitives[primIdx])
		if err != nil {
			return nil, fmt.Errorf("mesh %d primitive %d: %w", meshIndex, primIdx, err)
		}
		result = append(result, m)
	}

	e.geometries[meshIndex] = result
	return result, nil
}

// extractPrimitive extracts a single primitive as a graph mesh.
func (e *gltfMeshExtractorImpl) extractPrimitive(prim *gltfPrimitive) (*graph.Mesh, error) {
	if prim.Mode != nil && *prim.Mode != gltfPrimitiveModeTriangles {
		return nil, fmt.Errorf("unsupported primitive mode: %d (only triangles supported)", *prim.Mode)
	}

	posAccessor, ok := prim.Attributes["POSITION"]
	if !ok {
		return nil, fmt.Errorf("primitive has no POSITION attribute")
	}
	raw, err := e.parser.ReadVec3Accessor(posAccessor)
	if err != nil {
		return nil, fmt.Errorf("failed to read positions: %w", err)
	}
	positions := make([]mgl32.Vec3, len(raw))
	for i, p := range raw {
		positions[i] = mgl32.Vec3(p)
	}

	var uvs []mgl32.Vec2
	if uvAccessor, ok := prim.Attributes["TEXCOORD_0"]; ok {
		rawUVs, err := e.parser.ReadVec2Accessor(uvAccessor)
		if err != nil {
			return nil, fmt.Errorf("failed to read texcoords: %w", err)
		}
		uvs = make([]mgl32.Vec2, len(positions))
		for i := range rawUVs {
			if i < len(uvs) {
				uvs[i] = mgl32.Vec2(rawUVs[i])
			}
		}
	}

	var indices []uint32
	if prim.Indices != nil {
		indices, err = e.parser.ReadIndicesAccessor(*prim.Indices)
		if err != nil {
			return nil, fmt.Errorf("failed to read indices: %w", err)
		}
		for _, idx := range indices {
			if int(idx) >= len(positions) {
				return nil, fmt.Errorf("index %d out of range for %d vertices", idx, len(positions))
			}
		}
	}

	mat := defaultMaterial()
	if prim.Material != nil {
		mat, err = e.materials.ExtractMaterial(*prim.Material)
		if err != nil {
			return nil, fmt.Errorf("material %d: %w", *prim.Material, err)
		}
	}

	return graph.NewMesh(graph.NewGeometry(positions, uvs, indices), mat), nil
}
