package render

import (
	"github.com/taigrr/softrast/pkg/math3d"
)

// Model is a triangle list: every three consecutive vertices form one
// triangle and trailing vertices are ignored. A Model is read-only while
// rendering and may be shared by many entities.
type Model struct {
	Vertices []Vertex
	Texture  *Texture

	bounds    AABB
	hasBounds bool
}

// NewModel creates a model and computes its local bounds.
func NewModel(vertices []Vertex, tex *Texture) *Model {
	if extra := len(vertices) % 3; extra != 0 {
		Logger().Warn("model has trailing vertices", "count", len(vertices), "ignored", extra)
	}
	m := &Model{Vertices: vertices, Texture: tex}
	m.bounds = BoundsOf(vertices)
	m.hasBounds = true
	return m
}

// TriangleCount returns the number of complete triangles.
func (m *Model) TriangleCount() int {
	return len(m.Vertices) / 3
}

// Bounds returns the local-space bounding box. Models built without
// NewModel have their bounds computed on every call.
func (m *Model) Bounds() AABB {
	if m.hasBounds {
		return m.bounds
	}
	return BoundsOf(m.Vertices)
}

// BoundsOf returns the bounding box of the vertex positions.
func BoundsOf(vertices []Vertex) AABB {
	if len(vertices) == 0 {
		return AABB{}
	}
	p := vertices[0].Position.Vec3()
	box := AABB{Min: p, Max: p}
	for _, v := range vertices[1:] {
		p = v.Position.Vec3()
		box.Min = box.Min.Min(p)
		box.Max = box.Max.Max(p)
	}
	return box
}

// Entity places a model in the world.
type Entity struct {
	Name        string
	Model       *Model
	Rotation    math3d.Quat
	Translation math3d.Vec3
	Scale       math3d.Vec3

	// Shader colors the entity. Nil means VertexColors.
	Shader Shader
}

// NewEntity creates an entity at the origin with identity rotation and
// unit scale.
func NewEntity(name string, m *Model, shader Shader) *Entity {
	return &Entity{
		Name:     name,
		Model:    m,
		Rotation: math3d.QuatIdent(),
		Scale:    math3d.One3(),
		Shader:   shader,
	}
}

// Transform returns the model matrix: translate * rotate * scale.
func (e *Entity) Transform() math3d.Mat4 {
	return math3d.TRS(e.Translation, e.Rotation, e.Scale)
}

// Rotate applies q after the entity's current rotation.
func (e *Entity) Rotate(q math3d.Quat) {
	e.Rotation = q.Mul(e.Rotation).Normalize()
}

func (e *Entity) shader() Shader {
	if e.Shader == nil {
		return VertexColors{}
	}
	return e.Shader
}

// Scene is the per-frame input to Renderer.Render.
type Scene struct {
	Camera   *Camera
	Entities []*Entity
}

// NewScene creates an empty scene viewed through cam. A nil cam gets
// NewCamera.
func NewScene(cam *Camera) *Scene {
	if cam == nil {
		cam = NewCamera()
	}
	return &Scene{Camera: cam}
}

// Add appends entities to the scene.
func (s *Scene) Add(entities ...*Entity) {
	s.Entities = append(s.Entities, entities...)
}

// Find returns the first entity with the given name.
func (s *Scene) Find(name string) (*Entity, bool) {
	for _, e := range s.Entities {
		if e.Name == name {
			return e, true
		}
	}
	return nil, false
}

// Resize creates a render target for a width x height surface and updates
// the camera aspect ratio. When the surface has no area it returns
// ErrZeroArea and the caller should hold no target until the next resize.
func (s *Scene) Resize(width, height int) (*RenderTarget, error) {
	t, err := NewRenderTarget(width, height)
	if err != nil {
		return nil, err
	}
	s.Camera.SetAspectRatio(float64(width) / float64(height))
	return t, nil
}
