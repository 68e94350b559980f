// Package scenefile reads YAML scene descriptions and builds render scenes
// from them.
//
// A minimal file:
//
//	width: 320
//	height: 180
//	mode: shaded+wireframe
//	background: "30,30,40"
//	camera:
//	  position: [0, 1, -4]
//	  look_at: [0, 0, 0]
//	  fov: 60
//	entities:
//	  - name: box
//	    primitive: cube
//	    rotation: [0, 30, 0]
//	    material:
//	      type: lit_solid
//	      color: "#ff8800"
package scenefile

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/taigrr/softrast/pkg/math3d"
	"github.com/taigrr/softrast/pkg/models"
	"github.com/taigrr/softrast/pkg/render"
)

const (
	DefaultWidth  = 320
	DefaultHeight = 180
)

// ErrNoGeometry is returned for an entity with neither a model nor a
// primitive.
var ErrNoGeometry = errors.New("scenefile: entity has no model or primitive")

// File is the on-disk scene description.
type File struct {
	Width      int          `yaml:"width,omitempty"`
	Height     int          `yaml:"height,omitempty"`
	Mode       string       `yaml:"mode,omitempty"`
	Background string       `yaml:"background,omitempty"`
	Camera     CameraSpec   `yaml:"camera"`
	Entities   []EntitySpec `yaml:"entities"`
}

// CameraSpec places the camera. Angles are in degrees. LookAt, when set,
// overrides Rotation.
type CameraSpec struct {
	Position []float64 `yaml:"position,omitempty"`
	LookAt   []float64 `yaml:"look_at,omitempty"`
	Rotation []float64 `yaml:"rotation,omitempty"` // pitch, yaw, roll
	FOV      float64   `yaml:"fov,omitempty"`
	Near     float64   `yaml:"near,omitempty"`
	Far      float64   `yaml:"far,omitempty"`
}

// EntitySpec describes one entity. Model paths are relative to the scene
// file.
type EntitySpec struct {
	Name      string  `yaml:"name,omitempty"`
	Model     string  `yaml:"model,omitempty"`
	Primitive string  `yaml:"primitive,omitempty"` // quad or cube
	Size      float64 `yaml:"size,omitempty"`

	// Normalize rescales a loaded model so its largest dimension is this.
	Normalize float64 `yaml:"normalize,omitempty"`

	Translation []float64 `yaml:"translation,omitempty"`
	Rotation    []float64 `yaml:"rotation,omitempty"` // pitch, yaw, roll in degrees
	Scale       []float64 `yaml:"scale,omitempty"`    // one value or three

	// RandomColors replaces vertex colors using Seed.
	RandomColors bool   `yaml:"random_colors,omitempty"`
	Seed         uint64 `yaml:"seed,omitempty"`

	Material MaterialSpec `yaml:"material"`
}

// MaterialSpec selects a shader: solid, vertex, textured, lit_texture or
// lit_solid. The default is vertex.
type MaterialSpec struct {
	Type     string    `yaml:"type,omitempty"`
	Color    string    `yaml:"color,omitempty"`
	Texture  string    `yaml:"texture,omitempty"`
	LightDir []float64 `yaml:"light_dir,omitempty"`
}

// Loaded is a built scene with the settings needed to render it.
type Loaded struct {
	Scene      *render.Scene
	Mode       render.DrawMode
	Background render.Color
	Width      int
	Height     int
}

// Load reads and builds the scene file at path.
func Load(path string) (*Loaded, error) {
	f, err := Read(path)
	if err != nil {
		return nil, err
	}
	return f.Build(filepath.Dir(path))
}

// Read parses the scene file at path without loading any assets.
func Read(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene: %w", err)
	}
	return Parse(data)
}

// Parse decodes a scene description.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse scene: %w", err)
	}
	f.normalize()
	return &f, nil
}

func (f *File) normalize() {
	if f.Width == 0 {
		f.Width = DefaultWidth
	}
	if f.Height == 0 {
		f.Height = DefaultHeight
	}
}

// Build loads every asset relative to dir and assembles the scene.
func (f *File) Build(dir string) (*Loaded, error) {
	mode := render.DefaultDrawMode
	if f.Mode != "" {
		m, err := ParseMode(f.Mode)
		if err != nil {
			return nil, err
		}
		mode = m
	}
	bg := render.Black
	if f.Background != "" {
		c, err := ParseColor(f.Background)
		if err != nil {
			return nil, fmt.Errorf("background: %w", err)
		}
		bg = c
	}

	cam, err := f.Camera.build(float64(f.Width) / float64(f.Height))
	if err != nil {
		return nil, err
	}
	scene := render.NewScene(cam)

	for i, spec := range f.Entities {
		e, err := spec.build(dir)
		if err != nil {
			name := spec.Name
			if name == "" {
				name = "#" + strconv.Itoa(i)
			}
			return nil, fmt.Errorf("entity %s: %w", name, err)
		}
		scene.Add(e)
	}

	return &Loaded{
		Scene:      scene,
		Mode:       mode,
		Background: bg,
		Width:      f.Width,
		Height:     f.Height,
	}, nil
}

func (c CameraSpec) build(aspect float64) (*render.Camera, error) {
	cam := render.NewCamera()
	cam.SetAspectRatio(aspect)

	pos, err := vec3(c.Position, math3d.Vec3{})
	if err != nil {
		return nil, fmt.Errorf("camera position: %w", err)
	}
	cam.Position = pos
	if c.FOV != 0 {
		cam.FOV = degrees(c.FOV)
	}
	if c.Near != 0 {
		cam.Near = c.Near
	}
	if c.Far != 0 {
		cam.Far = c.Far
	}

	switch {
	case len(c.LookAt) > 0:
		target, err := vec3(c.LookAt, math3d.Vec3{})
		if err != nil {
			return nil, fmt.Errorf("camera look_at: %w", err)
		}
		cam.LookAt(target)
	case len(c.Rotation) > 0:
		r, err := vec3(c.Rotation, math3d.Vec3{})
		if err != nil {
			return nil, fmt.Errorf("camera rotation: %w", err)
		}
		cam.Orientation = eulerDegrees(r)
	}

	if err := cam.Validate(); err != nil {
		return nil, err
	}
	return cam, nil
}

func (s EntitySpec) build(dir string) (*render.Entity, error) {
	mesh, err := s.mesh(dir)
	if err != nil {
		return nil, err
	}
	if s.RandomColors {
		mesh.RandomizeColors(rand.New(rand.NewPCG(s.Seed, s.Seed)))
	}

	shader, err := s.Material.shader(dir, mesh)
	if err != nil {
		return nil, err
	}

	name := s.Name
	if name == "" {
		name = mesh.Name
	}
	e := render.NewEntity(name, mesh.Model(), shader)

	if e.Translation, err = vec3(s.Translation, math3d.Vec3{}); err != nil {
		return nil, fmt.Errorf("translation: %w", err)
	}
	r, err := vec3(s.Rotation, math3d.Vec3{})
	if err != nil {
		return nil, fmt.Errorf("rotation: %w", err)
	}
	e.Rotation = eulerDegrees(r)

	switch len(s.Scale) {
	case 0:
	case 1:
		e.Scale = math3d.V3(s.Scale[0], s.Scale[0], s.Scale[0])
	default:
		if e.Scale, err = vec3(s.Scale, math3d.One3()); err != nil {
			return nil, fmt.Errorf("scale: %w", err)
		}
	}
	return e, nil
}

func (s EntitySpec) mesh(dir string) (*models.Mesh, error) {
	size := s.Size
	if size == 0 {
		size = 1
	}
	switch {
	case s.Model != "":
		m, err := models.Load(resolve(dir, s.Model))
		if err != nil {
			return nil, err
		}
		if s.Normalize > 0 {
			m.Normalize(s.Normalize)
		}
		return m, nil
	case s.Primitive == "quad":
		return models.Quad(size), nil
	case s.Primitive == "cube":
		return models.Cube(size), nil
	case s.Primitive != "":
		return nil, fmt.Errorf("unknown primitive %q", s.Primitive)
	default:
		return nil, ErrNoGeometry
	}
}

func (m MaterialSpec) shader(dir string, mesh *models.Mesh) (render.Shader, error) {
	col := render.White
	if m.Color != "" {
		c, err := ParseColor(m.Color)
		if err != nil {
			return nil, fmt.Errorf("material color: %w", err)
		}
		col = c
	}
	light, err := vec3(m.LightDir, render.DefaultLightDir)
	if err != nil {
		return nil, fmt.Errorf("material light_dir: %w", err)
	}
	light = light.Normalize()

	switch m.Type {
	case "", "vertex":
		return render.VertexColors{}, nil
	case "solid":
		return render.SolidColor{Color: col}, nil
	case "lit_solid":
		return render.LitSolid{Color: col, LightDir: light}, nil
	case "textured", "lit_texture":
		tex, err := m.texture(dir, mesh)
		if err != nil {
			return nil, err
		}
		if m.Type == "textured" {
			return render.Textured{Texture: tex}, nil
		}
		return render.LitTexture{Texture: tex, LightDir: light}, nil
	default:
		return nil, fmt.Errorf("unknown material type %q", m.Type)
	}
}

// texture loads the material's texture, falling back to the mesh's own
// image. A missing texture is not an error; shaders fall back to vertex
// colors.
func (m MaterialSpec) texture(dir string, mesh *models.Mesh) (*render.Texture, error) {
	if m.Texture != "" {
		tex, err := render.LoadTexture(resolve(dir, m.Texture))
		if err != nil {
			return nil, fmt.Errorf("material texture: %w", err)
		}
		return tex, nil
	}
	if mesh.Texture != nil {
		return render.TextureFromImage(mesh.Texture), nil
	}
	render.Logger().Warn("textured material without texture", "mesh", mesh.Name)
	return nil, nil
}

// ParseMode accepts a draw-mode bit value from 0 to 7, or pass names
// joined by "+" such as "shaded+wireframe". "none" draws nothing.
func ParseMode(s string) (render.DrawMode, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 || n > 7 {
			return render.DrawMode{}, fmt.Errorf("draw mode %d out of range [0,7]", n)
		}
		return render.DrawModeFromBits(n), nil
	}

	var m render.DrawMode
	if s == "none" {
		return m, nil
	}
	for part := range strings.SplitSeq(s, "+") {
		switch strings.TrimSpace(part) {
		case "shaded":
			m.Shaded = true
		case "wireframe", "wire":
			m.Wireframe = true
		case "points":
			m.Points = true
		default:
			return render.DrawMode{}, fmt.Errorf("unknown draw mode %q", part)
		}
	}
	return m, nil
}

// ParseColor accepts "#rrggbb" or "r,g,b" with 0-255 components.
func ParseColor(s string) (render.Color, error) {
	s = strings.TrimSpace(s)
	if hex, ok := strings.CutPrefix(s, "#"); ok {
		if len(hex) != 6 {
			return render.Color{}, fmt.Errorf("bad hex color %q", s)
		}
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return render.Color{}, fmt.Errorf("bad hex color %q", s)
		}
		return render.FromPacked(uint32(v)), nil
	}

	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return render.Color{}, fmt.Errorf("bad color %q", s)
	}
	var rgb [3]uint8
	for i, p := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
		if err != nil {
			return render.Color{}, fmt.Errorf("bad color %q", s)
		}
		rgb[i] = uint8(v)
	}
	return render.RGB8(rgb[0], rgb[1], rgb[2]), nil
}

func vec3(v []float64, def math3d.Vec3) (math3d.Vec3, error) {
	switch len(v) {
	case 0:
		return def, nil
	case 3:
		return math3d.V3(v[0], v[1], v[2]), nil
	default:
		return def, fmt.Errorf("want 3 values, got %d", len(v))
	}
}

func eulerDegrees(r math3d.Vec3) math3d.Quat {
	return math3d.QuatFromEuler(degrees(r.X), degrees(r.Y), degrees(r.Z))
}

func degrees(d float64) float64 {
	return d * math.Pi / 180
}

func resolve(dir, path string) string {
	if filepath.IsAbs(path) || dir == "" {
		return path
	}
	return filepath.Join(dir, path)
}
