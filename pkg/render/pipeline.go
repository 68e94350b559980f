package render

import (
	"golang.org/x/sync/errgroup"

	"github.com/taigrr/softrast/pkg/math3d"
)

// minChunk is the smallest number of triangles worth a goroutine.
const minChunk = 256

// stage carries what the vertex pipeline needs for one entity.
type stage struct {
	modelView math3d.Mat4
	proj      math3d.Mat4
	rotation  math3d.Quat
	near      float64
	far       float64
	width     float64
	height    float64
	cullBack  bool
}

func newStage(cam *Camera, e *Entity, width, height int, cullBack bool) stage {
	return stage{
		modelView: cam.ViewMatrix().Mul(e.Transform()),
		proj:      cam.ProjectionMatrix(),
		rotation:  e.Rotation,
		near:      cam.Near,
		far:       cam.Far,
		width:     float64(width),
		height:    float64(height),
		cullBack:  cullBack,
	}
}

// triangle runs one triangle through model-view, near-plane rejection,
// projection, perspective divide and the viewport transform.
//
// On return each position holds screen X and Y, NDC Z, and the clip W
// (linear view depth) used for depth testing and interpolation. ok is false
// when any vertex is closer than the near plane, when every vertex lies past
// the far plane, or when the triangle is back facing and culling is enabled.
func (s *stage) triangle(in []Vertex) (out Triangle, ok bool) {
	beyond := 0
	for i := range 3 {
		v := in[i]
		view := s.modelView.MulVec4(math3d.V4FromV3(v.Position.Vec3(), 1))
		if -view.Z < s.near {
			return Triangle{}, false
		}
		if -view.Z > s.far {
			beyond++
		}

		clip := s.proj.MulVec4(view)
		ndc := clip
		if clip.W != 0 {
			ndc = clip.PerspectiveDivide()
		}
		v.Position = math3d.V4(
			(ndc.X+1)*0.5*s.width,
			(1-ndc.Y)*0.5*s.height,
			ndc.Z,
			clip.W,
		)

		if n, has := v.Normal(); has {
			v = v.WithNormal(s.rotation.Rotate(n))
		}
		out.V[i] = v
	}

	if beyond == 3 {
		return Triangle{}, false
	}
	if s.cullBack && screenArea(&out) >= 0 {
		return Triangle{}, false
	}
	return out, true
}

// screenArea is twice the signed screen-space area. Counter-clockwise
// triangles in NDC come out negative because screen Y points down.
func screenArea(t *Triangle) float64 {
	a, b, c := t.V[0].Position.XY(), t.V[1].Position.XY(), t.V[2].Position.XY()
	return b.Sub(a).Cross(c.Sub(a))
}

// transformTriangles runs every complete triangle of verts through s.
// Work is split into contiguous chunks transformed concurrently; the output
// keeps the input order. rejected counts triangles dropped by s.
func transformTriangles(verts []Vertex, s *stage, workers int) (tris []Triangle, rejected int) {
	count := len(verts) / 3
	if count == 0 {
		return nil, 0
	}

	chunks := max(min(workers, count/minChunk), 1)
	per := (count + chunks - 1) / chunks
	results := make([][]Triangle, chunks)

	var g errgroup.Group
	g.SetLimit(max(workers, 1))
	for c := range chunks {
		first, last := c*per, min((c+1)*per, count)
		g.Go(func() error {
			out := make([]Triangle, 0, last-first)
			for i := first; i < last; i++ {
				if tri, ok := s.triangle(verts[i*3 : i*3+3]); ok {
					out = append(out, tri)
				}
			}
			results[c] = out
			return nil
		})
	}
	_ = g.Wait()

	tris = make([]Triangle, 0, count)
	for _, r := range results {
		tris = append(tris, r...)
	}
	return tris, count - len(tris)
}
