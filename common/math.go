package common

import (
	"unsafe"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// SliceToBytes converts any slice to a byte slice for GPU buffer uploads.
// Uses unsafe pointer operations to create a view into the original data.
// WARNING: The returned slice shares memory with the input - do not modify.
//
// Parameters:
//   - data: source slice of any type
//
// Returns:
//   - []byte: byte slice view of the input data, or nil if input is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	size := unsafe.Sizeof(zero)
	totalBytes := int(size) * len(data)
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), totalBytes)
}

// EaseOutCubic maps linear progress p to cubic ease-out progress 1 - (1 - p)^3.
// p is clamped to [0, 1] first so callers can pass raw elapsed/duration ratios.
//
// Parameters:
//   - p: linear progress
//
// Returns:
//   - float32: eased progress in [0, 1]
func EaseOutCubic(p float32) float32 {
	p = mgl32.Clamp(p, 0, 1)
	inv := 1 - p
	return 1 - inv*inv*inv
}

// Lerp linearly interpolates between a and b by t.
func Lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}

// LerpVec3 linearly interpolates between two vectors by t.
// t = 0 returns a exactly and t = 1 returns b exactly.
//
// Parameters:
//   - a: start vector
//   - b: end vector
//   - t: interpolation factor
//
// Returns:
//   - mgl32.Vec3: the interpolated vector
func LerpVec3(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	if t >= 1 {
		return b
	}
	if t <= 0 {
		return a
	}
	return mgl32.Vec3{Lerp(a[0], b[0], t), Lerp(a[1], b[1], t), Lerp(a[2], b[2], t)}
}

// ClampVec3 clamps each component of v into [lo, hi] independently.
func ClampVec3(v, lo, hi mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{
		mgl32.Clamp(v[0], lo[0], hi[0]),
		mgl32.Clamp(v[1], lo[1], hi[1]),
		mgl32.Clamp(v[2], lo[2], hi[2]),
	}
}

// ScreenToNDC converts a pointer position in surface pixels to normalized device coordinates.
// The surface origin is the top-left corner; NDC y points up.
//
// Parameters:
//   - x, y: pointer position relative to the surface's top-left corner
//   - width, height: surface size in pixels
//
// Returns:
//   - mgl32.Vec2: the pointer in NDC, both axes in [-1, 1]
func ScreenToNDC(x, y float32, width, height int) mgl32.Vec2 {
	if width <= 0 || height <= 0 {
		return mgl32.Vec2{}
	}
	return mgl32.Vec2{
		(x/float32(width))*2 - 1,
		-(y/float32(height))*2 + 1,
	}
}

// BuildModelMatrix composes translation, Euler rotation (X then Y then Z) and scale into a model matrix.
//
// Parameters:
//   - position: translation in parent space
//   - rotation: Euler angles in radians around X, Y and Z
//   - scale: scale factors along each axis
//
// Returns:
//   - mgl32.Mat4: T * Rx * Ry * Rz * S
func BuildModelMatrix(position, rotation, scale mgl32.Vec3) mgl32.Mat4 {
	t := mgl32.Translate3D(position[0], position[1], position[2])
	r := mgl32.HomogRotate3DX(rotation[0]).
		Mul4(mgl32.HomogRotate3DY(rotation[1])).
		Mul4(mgl32.HomogRotate3DZ(rotation[2]))
	s := mgl32.Scale3D(scale[0], scale[1], scale[2])
	return t.Mul4(r).Mul4(s)
}

// YawPitchRotation returns the rotation matrix for a yaw around Y followed by a pitch around X, without roll.
func YawPitchRotation(yaw, pitch float32) mgl32.Mat4 {
	return mgl32.HomogRotate3DY(yaw).Mul4(mgl32.HomogRotate3DX(pitch))
}

// HorizontalBasis returns the forward and right unit vectors on the XZ plane for a given yaw.
// Pitch is intentionally absent so vertical look never changes horizontal travel.
//
// Parameters:
//   - yaw: rotation around Y in radians
//
// Returns:
//   - forward: (sin yaw, 0, cos yaw)
//   - right: (sin(yaw + π/2), 0, cos(yaw + π/2))
func HorizontalBasis(yaw float32) (forward, right mgl32.Vec3) {
	forward = mgl32.Vec3{math32.Sin(yaw), 0, math32.Cos(yaw)}
	right = mgl32.Vec3{math32.Sin(yaw + math32.Pi/2), 0, math32.Cos(yaw + math32.Pi/2)}
	return forward, right
}

// Ray is a half-line from Origin along the unit vector Direction.
type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// Plane is the set of points p where Normal·p + Constant = 0.
type Plane struct {
	Normal   mgl32.Vec3
	Constant float32
}

// IntersectRay returns the point where the ray crosses the plane.
// Rays parallel to the plane, or pointing away from it, do not intersect.
//
// Parameters:
//   - r: the ray to test
//
// Returns:
//   - mgl32.Vec3: the intersection point
//   - bool: false if the ray misses the plane
func (p Plane) IntersectRay(r Ray) (mgl32.Vec3, bool) {
	denom := p.Normal.Dot(r.Direction)
	if math32.Abs(denom) < 1e-6 {
		if math32.Abs(p.Normal.Dot(r.Origin)+p.Constant) < 1e-6 {
			return r.Origin, true
		}
		return mgl32.Vec3{}, false
	}
	t := -(r.Origin.Dot(p.Normal) + p.Constant) / denom
	if t < 0 {
		return mgl32.Vec3{}, false
	}
	return r.At(t), true
}

// Box is an axis-aligned bounding box. An empty box has Min > Max on every axis.
type Box struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// EmptyBox returns a box that contains nothing and grows to fit the first point expanded into it.
func EmptyBox() Box {
	inf := math32.Inf(1)
	return Box{
		Min: mgl32.Vec3{inf, inf, inf},
		Max: mgl32.Vec3{-inf, -inf, -inf},
	}
}

// IsEmpty reports whether the box contains no points.
func (b Box) IsEmpty() bool {
	return b.Max[0] < b.Min[0] || b.Max[1] < b.Min[1] || b.Max[2] < b.Min[2]
}

// ExpandByPoint returns the smallest box containing both b and p.
func (b Box) ExpandByPoint(p mgl32.Vec3) Box {
	for i := 0; i < 3; i++ {
		b.Min[i] = math32.Min(b.Min[i], p[i])
		b.Max[i] = math32.Max(b.Max[i], p[i])
	}
	return b
}

// Union returns the smallest box containing both b and o.
func (b Box) Union(o Box) Box {
	if o.IsEmpty() {
		return b
	}
	return b.ExpandByPoint(o.Min).ExpandByPoint(o.Max)
}

// Transform returns the axis-aligned box enclosing b after applying m to its eight corners.
func (b Box) Transform(m mgl32.Mat4) Box {
	if b.IsEmpty() {
		return b
	}
	out := EmptyBox()
	for i := 0; i < 8; i++ {
		corner := mgl32.Vec3{b.Min[0], b.Min[1], b.Min[2]}
		if i&1 != 0 {
			corner[0] = b.Max[0]
		}
		if i&2 != 0 {
			corner[1] = b.Max[1]
		}
		if i&4 != 0 {
			corner[2] = b.Max[2]
		}
		out = out.ExpandByPoint(m.Mul4x1(corner.Vec4(1)).Vec3())
	}
	return out
}

// IntersectRay returns the distance along r at which it enters the box (slab method).
// A ray starting inside the box reports distance 0.
//
// Parameters:
//   - r: the ray to test
//
// Returns:
//   - float32: distance to the entry point
//   - bool: false if the ray misses the box
func (b Box) IntersectRay(r Ray) (float32, bool) {
	if b.IsEmpty() {
		return 0, false
	}
	tMin := math32.Inf(-1)
	tMax := math32.Inf(1)
	for i := 0; i < 3; i++ {
		if math32.Abs(r.Direction[i]) < 1e-8 {
			if r.Origin[i] < b.Min[i] || r.Origin[i] > b.Max[i] {
				return 0, false
			}
			continue
		}
		inv := 1 / r.Direction[i]
		t1 := (b.Min[i] - r.Origin[i]) * inv
		t2 := (b.Max[i] - r.Origin[i]) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math32.Max(tMin, t1)
		tMax = math32.Min(tMax, t2)
		if tMin > tMax {
			return 0, false
		}
	}
	if tMax < 0 {
		return 0, false
	}
	return math32.Max(tMin, 0), true
}

// IntersectTriangle runs the Möller-Trumbore test and returns the hit distance along r.
// Both triangle faces are considered.
//
// Parameters:
//   - r: the ray to test
//   - a, b, c: triangle vertices
//
// Returns:
//   - float32: distance to the hit
//   - bool: false if the ray misses the triangle
func IntersectTriangle(r Ray, a, b, c mgl32.Vec3) (float32, bool) {
	edge1 := b.Sub(a)
	edge2 := c.Sub(a)
	h := r.Direction.Cross(edge2)
	det := edge1.Dot(h)
	if math32.Abs(det) < 1e-8 {
		return 0, false
	}
	inv := 1 / det
	s := r.Origin.Sub(a)
	u := inv * s.Dot(h)
	if u < 0 || u > 1 {
		return 0, false
	}
	q := s.Cross(edge1)
	v := inv * r.Direction.Dot(q)
	if v < 0 || u+v > 1 {
		return 0, false
	}
	t := inv * edge2.Dot(q)
	if t < 0 {
		return 0, false
	}
	return t, true
}
