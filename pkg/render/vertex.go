package render

import (
	"github.com/taigrr/softrast/pkg/math3d"
)

// Attr is a bitmask of the optional attributes a Vertex carries.
type Attr uint8

const (
	AttrNormal Attr = 1 << iota
	AttrColor
	AttrUV
)

// Vertex is a point of a triangle list with optional attributes.
//
// The position is homogeneous so clip-space W survives the pipeline; after
// the screen transform X and Y are pixel coordinates, Z is NDC depth and W
// is the linear view-space depth.
type Vertex struct {
	Position math3d.Vec4
	normal   math3d.Vec3
	color    Color
	uv       math3d.Vec2
	attrs    Attr
}

// NewVertex creates a vertex at p with no optional attributes.
func NewVertex(p math3d.Vec3) Vertex {
	return Vertex{Position: math3d.V4FromV3(p, 1)}
}

// V is shorthand for NewVertex(math3d.V3(x, y, z)).
func V(x, y, z float64) Vertex {
	return NewVertex(math3d.V3(x, y, z))
}

// WithNormal returns a copy of v carrying the normalized normal n.
func (v Vertex) WithNormal(n math3d.Vec3) Vertex {
	v.normal = n.Normalize()
	v.attrs |= AttrNormal
	return v
}

// WithColor returns a copy of v carrying color c.
func (v Vertex) WithColor(c Color) Vertex {
	v.color = c
	v.attrs |= AttrColor
	return v
}

// WithUV returns a copy of v carrying texture coordinate uv.
func (v Vertex) WithUV(uv math3d.Vec2) Vertex {
	v.uv = uv
	v.attrs |= AttrUV
	return v
}

// Normal returns the vertex normal and whether it is set.
func (v Vertex) Normal() (math3d.Vec3, bool) {
	return v.normal, v.attrs&AttrNormal != 0
}

// Color returns the vertex color and whether it is set.
func (v Vertex) Color() (Color, bool) {
	return v.color, v.attrs&AttrColor != 0
}

// UV returns the texture coordinate and whether it is set.
func (v Vertex) UV() (math3d.Vec2, bool) {
	return v.uv, v.attrs&AttrUV != 0
}

// Has reports whether all attributes in a are present.
func (v Vertex) Has(a Attr) bool {
	return v.attrs&a == a
}

// Triangle is three consecutive vertices of a triangle list.
type Triangle struct {
	V [3]Vertex
}

// Has reports whether every vertex carries all attributes in a.
func (t *Triangle) Has(a Attr) bool {
	return t.V[0].Has(a) && t.V[1].Has(a) && t.V[2].Has(a)
}
