// Package graph is the scene-graph capability the storefront draws and hit-tests against:
// transform nodes, meshes with disposable GPU resources, and a ray caster.
package graph

import (
	"github.com/Carmen-Shannon/oxy-storefront/common"

	"github.com/go-gl/mathgl/mgl32"
)

// Node is one transform in the scene graph. A node may carry a Mesh and any number of children.
// Nodes are owned by exactly one parent; adding a node elsewhere detaches it first.
type Node struct {
	// Name is a free-form label, taken from the source asset when available.
	Name string

	// ObjectID tags the root node of a placed object. Hit tests walk up to the nearest tagged ancestor.
	ObjectID string

	// Position is the translation relative to the parent.
	Position mgl32.Vec3

	// Rotation holds Euler angles in radians, applied X then Y then Z.
	Rotation mgl32.Vec3

	// Scale is the per-axis scale relative to the parent.
	Scale mgl32.Vec3

	// Matrix, when non-nil, replaces the TRS composition above. Imported assets use it for baked transforms.
	Matrix *mgl32.Mat4

	// Mesh is the drawable attached to this node, or nil for pure transform nodes.
	Mesh *Mesh

	// Visible gates drawing and hit testing of this node and its subtree.
	Visible bool

	parent   *Node
	children []*Node
}

// NewNode creates a visible node with identity transform.
//
// Parameters:
//   - name: the node label
//
// Returns:
//   - *Node: the new node
func NewNode(name string) *Node {
	return &Node{
		Name:    name,
		Scale:   mgl32.Vec3{1, 1, 1},
		Visible: true,
	}
}

// Parent returns the node's parent, or nil for a root.
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns the node's direct children. The slice must not be modified.
func (n *Node) Children() []*Node {
	return n.children
}

// Add attaches child under n, detaching it from any previous parent.
func (n *Node) Add(child *Node) {
	if child == nil || child == n {
		return
	}
	if child.parent != nil {
		child.parent.Remove(child)
	}
	child.parent = n
	n.children = append(n.children, child)
}

// Remove detaches child from n. It reports whether child was attached to n.
func (n *Node) Remove(child *Node) bool {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.parent = nil
			return true
		}
	}
	return false
}

// Traverse visits n and every descendant depth-first, parents before children.
func (n *Node) Traverse(fn func(*Node)) {
	fn(n)
	for _, c := range n.children {
		c.Traverse(fn)
	}
}

// LocalMatrix returns the node's transform relative to its parent.
func (n *Node) LocalMatrix() mgl32.Mat4 {
	if n.Matrix != nil {
		return *n.Matrix
	}
	return common.BuildModelMatrix(n.Position, n.Rotation, n.Scale)
}

// WorldMatrix returns the node's transform relative to the root of its graph.
func (n *Node) WorldMatrix() mgl32.Mat4 {
	m := n.LocalMatrix()
	for p := n.parent; p != nil; p = p.parent {
		m = p.LocalMatrix().Mul4(m)
	}
	return m
}

// Tagged walks from n up through its ancestors and returns the first node carrying an ObjectID.
//
// Returns:
//   - *Node: the placed-object root, or nil if no ancestor is tagged
func (n *Node) Tagged() *Node {
	for cur := n; cur != nil; cur = cur.parent {
		if cur.ObjectID != "" {
			return cur
		}
	}
	return nil
}

// Bounds returns the world-space box enclosing every mesh in the subtree.
func (n *Node) Bounds() common.Box {
	box := common.EmptyBox()
	n.Traverse(func(c *Node) {
		if c.Mesh == nil || c.Mesh.Geometry == nil {
			return
		}
		box = box.Union(c.Mesh.Geometry.Bounds.Transform(c.WorldMatrix()))
	})
	return box
}

// Clone returns a deep copy of the subtree rooted at n, detached from any parent.
// Geometry and textures are shared with the source; each cloned mesh gets its own material and GPU resources.
func (n *Node) Clone() *Node {
	c := &Node{
		Name:     n.Name,
		ObjectID: n.ObjectID,
		Position: n.Position,
		Rotation: n.Rotation,
		Scale:    n.Scale,
		Visible:  n.Visible,
	}
	if n.Matrix != nil {
		m := *n.Matrix
		c.Matrix = &m
	}
	if n.Mesh != nil {
		c.Mesh = n.Mesh.Clone()
	}
	for _, child := range n.children {
		c.Add(child.Clone())
	}
	return c
}

// Dispose releases the GPU resources of every mesh in the subtree. Safe to call more than once.
func (n *Node) Dispose() {
	n.Traverse(func(c *Node) {
		if c.Mesh != nil {
			c.Mesh.Dispose()
		}
	})
}
