// Package models loads and builds indexed meshes and converts them into
// render.Model triangle lists.
package models

import (
	"errors"
	"fmt"
	"image"
	"math/rand/v2"
	"path/filepath"
	"strings"

	"github.com/taigrr/softrast/pkg/math3d"
	"github.com/taigrr/softrast/pkg/render"
)

// ErrUnsupportedFormat is returned by Load for unknown file extensions.
var ErrUnsupportedFormat = errors.New("models: unsupported format")

// Mesh is an indexed triangle mesh.
type Mesh struct {
	Name     string
	Vertices []MeshVertex
	Faces    [][3]int // Indices into Vertices
	Texture  image.Image

	// Bounding box, updated by CalculateBounds.
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// MeshVertex holds a position and the optional attributes flagged in Attrs.
type MeshVertex struct {
	Position math3d.Vec3
	Normal   math3d.Vec3
	UV       math3d.Vec2
	Color    render.Color
	Attrs    render.Attr
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{Name: name}
}

// Load reads a model file, choosing the loader by extension (.obj, .glb,
// .gltf). The embedded or referenced texture, if any, is attached.
func Load(path string) (*Mesh, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".obj":
		return LoadOBJ(path)
	case ".glb", ".gltf":
		return LoadGLBWithTexture(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Validate checks that every face references an existing vertex.
func (m *Mesh) Validate() error {
	for i, f := range m.Faces {
		for _, idx := range f {
			if idx < 0 || idx >= len(m.Vertices) {
				return fmt.Errorf("face %d: vertex index %d out of range [0,%d)", i, idx, len(m.Vertices))
			}
		}
	}
	return nil
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Vertices) == 0 {
		m.BoundsMin, m.BoundsMax = math3d.Vec3{}, math3d.Vec3{}
		return
	}
	m.BoundsMin = m.Vertices[0].Position
	m.BoundsMax = m.Vertices[0].Position
	for _, v := range m.Vertices[1:] {
		m.BoundsMin = m.BoundsMin.Min(v.Position)
		m.BoundsMax = m.BoundsMax.Max(v.Position)
	}
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Faces)
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

func (m *Mesh) faceNormal(f [3]int) math3d.Vec3 {
	p0 := m.Vertices[f[0]].Position
	p1 := m.Vertices[f[1]].Position
	p2 := m.Vertices[f[2]].Position
	return p1.Sub(p0).Cross(p2.Sub(p0))
}

// CalculateNormals assigns each face's normal to its vertices. Vertices
// shared between faces end up with the normal of the last face.
func (m *Mesh) CalculateNormals() {
	for _, f := range m.Faces {
		n := m.faceNormal(f).Normalize()
		for _, idx := range f {
			m.Vertices[idx].Normal = n
			m.Vertices[idx].Attrs |= render.AttrNormal
		}
	}
}

// CalculateSmoothNormals sets each vertex normal to the area-weighted
// average of the faces that use it.
func (m *Mesh) CalculateSmoothNormals() {
	for i := range m.Vertices {
		m.Vertices[i].Normal = math3d.Vec3{}
	}
	for _, f := range m.Faces {
		n := m.faceNormal(f)
		for _, idx := range f {
			m.Vertices[idx].Normal = m.Vertices[idx].Normal.Add(n)
		}
	}
	for i := range m.Vertices {
		m.Vertices[i].Normal = m.Vertices[i].Normal.Normalize()
		m.Vertices[i].Attrs |= render.AttrNormal
	}
}

// HasNormals reports whether every vertex carries a normal.
func (m *Mesh) HasNormals() bool {
	for _, v := range m.Vertices {
		if v.Attrs&render.AttrNormal == 0 {
			return false
		}
	}
	return len(m.Vertices) > 0
}

// Transform applies mat to positions and its rotation part to normals.
func (m *Mesh) Transform(mat math3d.Mat4) {
	for i := range m.Vertices {
		v := &m.Vertices[i]
		v.Position = mat.MulVec3(v.Position)
		if v.Attrs&render.AttrNormal != 0 {
			v.Normal = mat.MulVec3Dir(v.Normal).Normalize()
		}
	}
	m.CalculateBounds()
}

// Normalize recenters the mesh on the origin and scales it so its largest
// dimension is size.
func (m *Mesh) Normalize(size float64) {
	m.CalculateBounds()
	extent := m.Size().MaxComponent()
	if extent == 0 {
		return
	}
	s := size / extent
	m.Transform(math3d.Scale(math3d.V3(s, s, s)).Mul(math3d.Translate(m.Center().Negate())))
}

// SetColor gives every vertex color c.
func (m *Mesh) SetColor(c render.Color) {
	for i := range m.Vertices {
		m.Vertices[i].Color = c
		m.Vertices[i].Attrs |= render.AttrColor
	}
}

// RandomizeColors gives every vertex an opaque random color.
func (m *Mesh) RandomizeColors(rng *rand.Rand) {
	for i := range m.Vertices {
		m.Vertices[i].Color = render.RGB(rng.Float64(), rng.Float64(), rng.Float64())
		m.Vertices[i].Attrs |= render.AttrColor
	}
}

// Clone creates a deep copy of the mesh. The texture image is shared.
func (m *Mesh) Clone() *Mesh {
	c := *m
	c.Vertices = append([]MeshVertex(nil), m.Vertices...)
	c.Faces = append([][3]int(nil), m.Faces...)
	return &c
}

func (v MeshVertex) vertex() render.Vertex {
	out := render.NewVertex(v.Position)
	if v.Attrs&render.AttrNormal != 0 {
		out = out.WithNormal(v.Normal)
	}
	if v.Attrs&render.AttrColor != 0 {
		out = out.WithColor(v.Color)
	}
	if v.Attrs&render.AttrUV != 0 {
		out = out.WithUV(v.UV)
	}
	return out
}

// Model expands the mesh into a render.Model triangle list. Faces with
// out-of-range indices are skipped. The texture, if any, is converted once.
func (m *Mesh) Model() *render.Model {
	verts := make([]render.Vertex, 0, len(m.Faces)*3)
	for _, f := range m.Faces {
		if f[0] < 0 || f[1] < 0 || f[2] < 0 ||
			f[0] >= len(m.Vertices) || f[1] >= len(m.Vertices) || f[2] >= len(m.Vertices) {
			continue
		}
		for _, idx := range f {
			verts = append(verts, m.Vertices[idx].vertex())
		}
	}

	var tex *render.Texture
	if m.Texture != nil {
		tex = render.TextureFromImage(m.Texture)
	}
	return render.NewModel(verts, tex)
}
