package graph

import (
	"sort"

	"github.com/Carmen-Shannon/oxy-storefront/common"

	"github.com/go-gl/mathgl/mgl32"
)

// Hit is one ray intersection with a mesh node.
type Hit struct {
	// Node is the mesh node that was hit, not its placed-object root.
	Node *Node
	// Distance is measured along the ray in world units.
	Distance float32
	// Point is the world-space intersection.
	Point mgl32.Vec3
}

// Raycast intersects r with every visible mesh beneath roots and returns the hits nearest first.
// Meshes are tested against their world bounds first and then triangle by triangle.
//
// Parameters:
//   - r: the world-space ray
//   - roots: subtrees to test
//
// Returns:
//   - []Hit: hits sorted by ascending distance
func Raycast(r common.Ray, roots []*Node) []Hit {
	var hits []Hit
	for _, root := range roots {
		collectHits(r, root, &hits)
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})
	return hits
}

func collectHits(r common.Ray, n *Node, hits *[]Hit) {
	if !n.Visible {
		return
	}
	if n.Mesh != nil && n.Mesh.Geometry != nil {
		if hit, ok := intersectMesh(r, n); ok {
			*hits = append(*hits, hit)
		}
	}
	for _, c := range n.children {
		collectHits(r, c, hits)
	}
}

// intersectMesh transforms the ray into mesh space so the shared geometry is never rewritten.
func intersectMesh(r common.Ray, n *Node) (Hit, bool) {
	world := n.WorldMatrix()
	g := n.Mesh.Geometry
	if _, ok := g.Bounds.Transform(world).IntersectRay(r); !ok {
		return Hit{}, false
	}

	inv := world.Inv()
	localOrigin := inv.Mul4x1(r.Origin.Vec4(1)).Vec3()
	localDir := inv.Mul4x1(r.Direction.Vec4(0)).Vec3()
	local := common.Ray{Origin: localOrigin, Direction: localDir}

	best := float32(-1)
	for i := 0; i < g.TriangleCount(); i++ {
		a, b, c := g.Triangle(i)
		if t, ok := common.IntersectTriangle(local, a, b, c); ok && (best < 0 || t < best) {
			best = t
		}
	}
	if best < 0 {
		return Hit{}, false
	}

	point := world.Mul4x1(local.At(best).Vec4(1)).Vec3()
	return Hit{
		Node:     n,
		Distance: point.Sub(r.Origin).Len(),
		Point:    point,
	}, true
}
