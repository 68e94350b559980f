package render

import (
	"github.com/taigrr/softrast/pkg/math3d"
)

// Plane is the set of points p with Normal.Dot(p) + D == 0. Points on the
// side the normal faces have positive distance.
type Plane struct {
	Normal math3d.Vec3
	D      float64
}

func (p Plane) normalized() Plane {
	l := p.Normal.Len()
	if l == 0 {
		return p
	}
	return Plane{Normal: p.Normal.Scale(1 / l), D: p.D / l}
}

// Distance returns the signed distance from the plane to q.
func (p Plane) Distance(q math3d.Vec3) float64 {
	return p.Normal.Dot(q) + p.D
}

// Frustum planes, normals facing inward.
const (
	FrustumLeft = iota
	FrustumRight
	FrustumBottom
	FrustumTop
	FrustumNear
	FrustumFar
)

// Frustum is the six clip planes of a view-projection, indexed by the
// Frustum* constants.
type Frustum struct {
	Planes [6]Plane
}

// NewFrustumFromMatrix extracts the planes of a view-projection matrix
// (Gribb/Hartmann): each plane is the last row plus or minus one of the
// first three.
func NewFrustumFromMatrix(m math3d.Mat4) Frustum {
	row := func(i int) (math3d.Vec3, float64) {
		return math3d.V3(m.Get(i, 0), m.Get(i, 1), m.Get(i, 2)), m.Get(i, 3)
	}
	w, wd := row(3)

	var f Frustum
	for axis := range 3 {
		r, rd := row(axis)
		f.Planes[axis*2] = Plane{Normal: w.Add(r), D: wd + rd}.normalized()
		f.Planes[axis*2+1] = Plane{Normal: w.Sub(r), D: wd - rd}.normalized()
	}
	return f
}

// ContainsPoint reports whether q is inside or on every plane.
func (f Frustum) ContainsPoint(q math3d.Vec3) bool {
	for _, p := range f.Planes {
		if p.Distance(q) < 0 {
			return false
		}
	}
	return true
}

// IntersectAABB reports whether any part of box may be inside the frustum.
// For each plane only the corner furthest along the normal is tested; the
// test is conservative near frustum corners.
func (f Frustum) IntersectAABB(box AABB) bool {
	for _, p := range f.Planes {
		if p.Distance(box.corner(p.Normal)) < 0 {
			return false
		}
	}
	return true
}

// IntersectsSphere reports whether the sphere touches the frustum.
func (f Frustum) IntersectsSphere(center math3d.Vec3, radius float64) bool {
	for _, p := range f.Planes {
		if p.Distance(center) < -radius {
			return false
		}
	}
	return true
}

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min math3d.Vec3
	Max math3d.Vec3
}

// Center returns the middle of the box.
func (b AABB) Center() math3d.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Size returns the box dimensions.
func (b AABB) Size() math3d.Vec3 {
	return b.Max.Sub(b.Min)
}

// Union returns the smallest box containing b and o.
func (b AABB) Union(o AABB) AABB {
	return AABB{Min: b.Min.Min(o.Min), Max: b.Max.Max(o.Max)}
}

// corner returns the corner furthest in direction d.
func (b AABB) corner(d math3d.Vec3) math3d.Vec3 {
	c := b.Min
	if d.X >= 0 {
		c.X = b.Max.X
	}
	if d.Y >= 0 {
		c.Y = b.Max.Y
	}
	if d.Z >= 0 {
		c.Z = b.Max.Z
	}
	return c
}

// Transform returns the box bounding all eight corners of b under m.
func (b AABB) Transform(m math3d.Mat4) AABB {
	var out AABB
	for i := range 8 {
		c := b.Min
		if i&1 != 0 {
			c.X = b.Max.X
		}
		if i&2 != 0 {
			c.Y = b.Max.Y
		}
		if i&4 != 0 {
			c.Z = b.Max.Z
		}
		p := m.MulVec3(c)
		if i == 0 {
			out = AABB{Min: p, Max: p}
			continue
		}
		out.Min = out.Min.Min(p)
		out.Max = out.Max.Max(p)
	}
	return out
}
