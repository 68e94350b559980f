package models

import (
	"github.com/taigrr/softrast/pkg/math3d"
	"github.com/taigrr/softrast/pkg/render"
)

// Quad returns a size x size square in the XY plane centered on the
// origin, facing +Z, with UVs spanning [0,1].
func Quad(size float64) *Mesh {
	h := size / 2
	m := NewMesh("quad")
	n := math3d.V3(0, 0, 1)
	corners := [4]struct {
		p  math3d.Vec3
		uv math3d.Vec2
	}{
		{math3d.V3(-h, -h, 0), math3d.V2(0, 0)},
		{math3d.V3(h, -h, 0), math3d.V2(1, 0)},
		{math3d.V3(h, h, 0), math3d.V2(1, 1)},
		{math3d.V3(-h, h, 0), math3d.V2(0, 1)},
	}
	for _, c := range corners {
		m.Vertices = append(m.Vertices, MeshVertex{
			Position: c.p,
			Normal:   n,
			UV:       c.uv,
			Color:    render.White,
			Attrs:    render.AttrNormal | render.AttrUV | render.AttrColor,
		})
	}
	m.Faces = [][3]int{{0, 1, 2}, {0, 2, 3}}
	m.CalculateBounds()
	return m
}

// Cube returns an axis-aligned cube with edge length size centered on the
// origin. Each face has its own four vertices, an outward normal, full UVs
// and a distinct color. Faces wind counter-clockwise seen from outside.
func Cube(size float64) *Mesh {
	h := size / 2
	m := NewMesh("cube")

	sides := []struct {
		normal, u, v math3d.Vec3
		color        render.Color
	}{
		{math3d.V3(0, 0, 1), math3d.V3(1, 0, 0), math3d.V3(0, 1, 0), render.Red},
		{math3d.V3(0, 0, -1), math3d.V3(-1, 0, 0), math3d.V3(0, 1, 0), render.Green},
		{math3d.V3(1, 0, 0), math3d.V3(0, 0, -1), math3d.V3(0, 1, 0), render.Blue},
		{math3d.V3(-1, 0, 0), math3d.V3(0, 0, 1), math3d.V3(0, 1, 0), render.RGB(1, 1, 0)},
		{math3d.V3(0, 1, 0), math3d.V3(1, 0, 0), math3d.V3(0, 0, -1), render.RGB(0, 1, 1)},
		{math3d.V3(0, -1, 0), math3d.V3(1, 0, 0), math3d.V3(0, 0, 1), render.Magenta},
	}
	uvs := [4]math3d.Vec2{math3d.V2(0, 0), math3d.V2(1, 0), math3d.V2(1, 1), math3d.V2(0, 1)}

	for _, s := range sides {
		first := len(m.Vertices)
		center := s.normal.Scale(h)
		for _, uv := range uvs {
			p := center.
				Add(s.u.Scale((uv.X*2 - 1) * h)).
				Add(s.v.Scale((uv.Y*2 - 1) * h))
			m.Vertices = append(m.Vertices, MeshVertex{
				Position: p,
				Normal:   s.normal,
				UV:       uv,
				Color:    s.color,
				Attrs:    render.AttrNormal | render.AttrUV | render.AttrColor,
			})
		}
		m.Faces = append(m.Faces, [3]int{first, first + 1, first + 2}, [3]int{first, first + 2, first + 3})
	}
	m.CalculateBounds()
	return m
}
