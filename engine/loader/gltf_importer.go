package loader

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-storefront/engine/graph"

	"github.com/go-gl/mathgl/mgl32"
)

// gltfImporterImpl is the implementation of the gltfImporter interface.
type gltfImporterImpl struct{}

// gltfImporter orchestrates a full glTF/GLB import: parse, extract meshes and materials, rebuild the node hierarchy.
type gltfImporter interface {
	// Import decodes model bytes into a scene-graph subtree.
	//
	// Parameters:
	//   - name: label for the returned root node, usually the source URL
	//   - data: the glTF JSON or GLB bytes
	//   - resolve: loads buffers and images referenced by relative URI
	//
	// Returns:
	//   - *graph.Node: a root node holding the default scene
	//   - error: error if import fails
	Import(name string, data []byte, resolve uriResolver) (*graph.Node, error)
}

var _ gltfImporter = &gltfImporterImpl{}

// newGLTFImporter creates a new glTF importer.
func newGLTFImporter() gltfImporter {
	return &gltfImporterImpl{}
}

func (imp *gltfImporterImpl) Import(name string, data []byte, resolve uriResolver) (*graph.Node, error) {
	parser := newGLTFParser(resolve)
	if err := parser.Parse(data); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", name, err)
	}
	doc := parser.Document()

	meshes := newGLTFMeshExtractor(parser, newGLTFMaterialExtractor(parser))

	root := graph.NewNode(name)
	visiting := make(map[int]bool)
	for _, idx := range sceneRoots(doc) {
		child, err := imp.buildNode(doc, meshes, idx, visiting)
		if err != nil {
			return nil, fmt.Errorf("failed to import %s: %w", name, err)
		}
		root.Add(child)
	}
	return root, nil
}

// sceneRoots returns the root nodes of the default scene. Documents without scenes use every parentless node.
func sceneRoots(doc *gltfDocument) []int {
	if len(doc.Scenes) > 0 {
		idx := 0
		if doc.Scene != nil && *doc.Scene >= 0 && *doc.Scene < len(doc.Scenes) {
			idx = *doc.Scene
		}
		return doc.Scenes[idx].Nodes
	}

	hasParent := make([]bool, len(doc.Nodes))
	for _, n := range doc.Nodes {
		for _, c := range n.Children {
			if c >= 0 && c < len(hasParent) {
				hasParent[c] = true
			}
		}
	}
	var roots []int
	for i, p := range hasParent {
		if !p {
			roots = append(roots, i)
		}
	}
	return roots
}

// buildNode converts one glTF node and its subtree. Primitives beyond the first become child nodes.
func (imp *gltfImporterImpl) buildNode(doc *gltfDocument, meshes gltfMeshExtractor, idx int, visiting map[int]bool) (*graph.Node, error) {
	if idx < 0 || idx >= len(doc.Nodes) {
		return nil, fmt.Errorf("node index %d out of range", idx)
	}
	if visiting[idx] {
		return nil, fmt.Errorf("node %d forms a cycle", idx)
	}
	visiting[idx] = true
	defer delete(visiting, idx)

	src := &doc.Nodes[idx]
	n := graph.NewNode(src.Name)
	applyTransform(n, src)

	if src.Mesh != nil {
		prims, err := meshes.ExtractMesh(*src.Mesh)
		if err != nil {
			return nil, err
		}
		for i, m := range prims {
			if i == 0 {
				n.Mesh = m
				continue
			}
			extra := graph.NewNode(fmt.Sprintf("%s#%d", src.Name, i))
			extra.Mesh = m
			n.Add(extra)
		}
	}

	for _, c := range src.Children {
		child, err := imp.buildNode(doc, meshes, c, visiting)
		if err != nil {
			return nil, err
		}
		n.Add(child)
	}
	return n, nil
}

// applyTransform copies the glTF local transform onto n. Quaternion rotations are baked into Matrix
// because graph nodes store Euler angles.
func applyTransform(n *graph.Node, src *gltfNode) {
	if src.Matrix != nil {
		m := mgl32.Mat4(*src.Matrix)
		n.Matrix = &m
		return
	}

	if src.Translation != nil {
		n.Position = mgl32.Vec3(*src.Translation)
	}
	if src.Scale != nil {
		n.Scale = mgl32.Vec3(*src.Scale)
	}
	if src.Rotation != nil {
		q := mgl32.Quat{W: src.Rotation[3], V: mgl32.Vec3{src.Rotation[0], src.Rotation[1], src.Rotation[2]}}
		m := mgl32.Translate3D(n.Position[0], n.Position[1], n.Position[2]).
			Mul4(q.Normalize().Mat4()).
			Mul4(mgl32.Scale3D(n.Scale[0], n.Scale[1], n.Scale[2]))
		n.Matrix = &m
	}
}
