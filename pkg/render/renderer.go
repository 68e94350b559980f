package render

import (
	"runtime"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/taigrr/softrast/pkg/math3d"
)

// DrawMode selects which passes run for each triangle. Passes draw in the
// order shaded, wireframe, points; overlays are not depth tested.
type DrawMode struct {
	Shaded    bool
	Wireframe bool
	Points    bool
}

// DefaultDrawMode draws shaded triangles only.
var DefaultDrawMode = DrawMode{Shaded: true}

// DrawModeFromBits maps 4 (shaded), 2 (wireframe) and 1 (points) bits to a
// DrawMode. Number keys 1 to 7 in the viewers select modes this way.
func DrawModeFromBits(bits int) DrawMode {
	return DrawMode{
		Shaded:    bits&4 != 0,
		Wireframe: bits&2 != 0,
		Points:    bits&1 != 0,
	}
}

// Bits is the inverse of DrawModeFromBits.
func (m DrawMode) Bits() int {
	b := 0
	if m.Shaded {
		b |= 4
	}
	if m.Wireframe {
		b |= 2
	}
	if m.Points {
		b |= 1
	}
	return b
}

func (m DrawMode) String() string {
	var parts []string
	if m.Shaded {
		parts = append(parts, "shaded")
	}
	if m.Wireframe {
		parts = append(parts, "wireframe")
	}
	if m.Points {
		parts = append(parts, "points")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "+")
}

// FrameStats describes the last rendered frame.
type FrameStats struct {
	Entities  int // Entities in the scene
	Culled    int // Entities rejected by the frustum test
	Triangles int // Triangles submitted by visible entities
	Rejected  int // Triangles dropped by the near or far plane or back-face test
	Pixels    int // Shaded pixels written, including overdraw
	Duration  time.Duration
}

// Renderer draws scenes into render targets.
type Renderer struct {
	Mode DrawMode

	// Workers bounds the goroutines used per phase. Zero means GOMAXPROCS.
	Workers int

	// FrustumCulling skips entities whose world bounds miss the view frustum.
	FrustumCulling bool

	// CullBackfaces drops triangles that are clockwise on screen.
	CullBackfaces bool

	WireColor  Color
	PointColor Color
	PointSize  int // Point radius in pixels

	Stats FrameStats
}

// NewRenderer creates a renderer with shaded drawing and frustum culling.
// Back faces are drawn.
func NewRenderer() *Renderer {
	return &Renderer{
		Mode:           DefaultDrawMode,
		FrustumCulling: true,
		WireColor:      White,
		PointColor:     Red,
		PointSize:      2,
	}
}

func (r *Renderer) workers() int {
	if r.Workers > 0 {
		return r.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// batch is one entity's screen-space triangles.
type batch struct {
	tris   []Triangle
	shader Shader
}

// Render clears target and draws scene into it.
//
// A nil target is a no-op, which lets callers keep rendering across a
// resize to zero area. An invalid camera returns an error wrapping
// ErrInvalidCamera before anything is drawn.
func (r *Renderer) Render(target *RenderTarget, scene *Scene) error {
	if target == nil {
		return nil
	}
	if err := scene.Camera.Validate(); err != nil {
		return err
	}
	start := time.Now()
	r.Stats = FrameStats{Entities: len(scene.Entities)}
	target.Clear()

	workers := r.workers()
	var frustum Frustum
	if r.FrustumCulling {
		frustum = scene.Camera.Frustum()
	}

	batches := make([]batch, 0, len(scene.Entities))
	for _, e := range scene.Entities {
		if e == nil || e.Model == nil || e.Model.TriangleCount() == 0 {
			continue
		}
		if r.FrustumCulling && !frustum.IntersectAABB(e.Model.Bounds().Transform(e.Transform())) {
			r.Stats.Culled++
			Logger().Debug("entity culled", "entity", e.Name)
			continue
		}

		st := newStage(scene.Camera, e, target.Width, target.Height, r.CullBackfaces)
		tris, rejected := transformTriangles(e.Model.Vertices, &st, workers)
		r.Stats.Triangles += e.Model.TriangleCount()
		r.Stats.Rejected += rejected
		if len(tris) > 0 {
			batches = append(batches, batch{tris: tris, shader: e.shader()})
		}
	}

	slices := target.Slices(workers)
	pixels := make([]int, len(slices))

	var g errgroup.Group
	g.SetLimit(workers)
	for i := range slices {
		g.Go(func() error {
			pixels[i] = r.drawSlice(&slices[i], batches, target.Height)
			return nil
		})
	}
	_ = g.Wait()

	for _, n := range pixels {
		r.Stats.Pixels += n
	}
	r.Stats.Duration = time.Since(start)

	Logger().Debug("frame rendered",
		"entities", r.Stats.Entities,
		"culled", r.Stats.Culled,
		"triangles", r.Stats.Triangles,
		"rejected", r.Stats.Rejected,
		"pixels", r.Stats.Pixels,
		"duration", r.Stats.Duration,
	)
	return nil
}

// drawSlice runs every enabled pass over one slice and returns the number
// of shaded pixels written.
func (r *Renderer) drawSlice(s *RenderSlice, batches []batch, height int) int {
	written := 0
	wire := r.WireColor.Packed()
	point := r.PointColor.Packed()

	for bi := range batches {
		b := &batches[bi]
		for ti := range b.tris {
			tri := &b.tris[ti]
			if r.Mode.Shaded {
				written += fillTriangle(s, tri, b.shader)
			}
			if r.Mode.Wireframe {
				for k := range 3 {
					drawEdge(s, tri.V[k].Position.XY(), tri.V[(k+1)%3].Position.XY(), height, wire)
				}
			}
			if r.Mode.Points {
				for k := range 3 {
					drawPoint(s, tri.V[k].Position.XY(), r.PointSize, point)
				}
			}
		}
	}
	return written
}

// Project runs a single world-space triangle through the same pipeline
// Render uses, for an identity entity. It reports false when the triangle
// is rejected by the near plane.
func Project(cam *Camera, tri Triangle, width, height int) (Triangle, bool) {
	e := Entity{Rotation: math3d.QuatIdent(), Scale: math3d.One3()}
	st := newStage(cam, &e, width, height, false)
	return st.triangle(tri.V[:])
}
