package render

import (
	"math"

	"github.com/taigrr/softrast/pkg/math3d"
)

// farLine is the coordinate magnitude beyond which a line is clipped to
// the target before stepping.
func farLine(width, height int) float64 {
	return 4 * float64(width+height)
}

// fillTriangle rasterizes a screen-space triangle into the rows of s.
// Pixels are sampled at their centers. A pixel is written when its depth is
// not greater than the stored depth, so equal depths go to the later draw.
// It returns the number of pixels written.
func fillTriangle(s *RenderSlice, tri *Triangle, shader Shader) int {
	a := tri.V[0].Position.XY()
	b := tri.V[1].Position.XY()
	c := tri.V[2].Position.XY()

	x0, y0, x1, y1, ok := screenBounds(a, b, c, s.Width, s.Start, s.End)
	if !ok {
		return 0
	}
	depths := math3d.V3(tri.V[0].Position.W, tri.V[1].Position.W, tri.V[2].Position.W)

	written := 0
	for y := y0; y <= y1; y++ {
		entered := false
		row := (y - s.Start) * s.Width
		for x := x0; x <= x1; x++ {
			inside, bc := PointInTriangle(a, b, c, math3d.V2(float64(x)+0.5, float64(y)+0.5))
			if !inside {
				if entered {
					break
				}
				continue
			}
			entered = true

			z := InterpolateDepth(depths, bc)
			i := row + x
			if z > s.Depth[i] {
				continue
			}
			s.Color[i] = shader.Shade(tri, PerspectiveWeights(depths, bc)).Packed()
			s.Depth[i] = z
			written++
		}
	}
	return written
}

// drawLine draws the Bresenham line between two integer points, keeping
// only the pixels inside s.
func drawLine(s *RenderSlice, x0, y0, x1, y1 int, c uint32) {
	if (y0 < s.Start && y1 < s.Start) || (y0 >= s.End && y1 >= s.End) {
		return
	}
	if (x0 < 0 && x1 < 0) || (x0 >= s.Width && x1 >= s.Width) {
		return
	}

	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		s.plot(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			break
		}
		// Past the slice and moving away from it: nothing left to plot.
		if (sy > 0 && y0 >= s.End) || (sy < 0 && y0 < s.Start) {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// drawEdge draws the line between two screen-space points. Endpoints far
// outside the target are first clipped to it so the walk stays short.
func drawEdge(s *RenderSlice, a, b math3d.Vec2, height int, c uint32) {
	limit := farLine(s.Width, height)
	if math.Abs(a.X) > limit || math.Abs(a.Y) > limit || math.Abs(b.X) > limit || math.Abs(b.Y) > limit {
		var ok bool
		a, b, ok = clipSegment(a, b, -1, -1, float64(s.Width)+1, float64(height)+1)
		if !ok {
			return
		}
	}
	drawLine(s, floorInt(a.X), floorInt(a.Y), floorInt(b.X), floorInt(b.Y), c)
}

// drawPoint fills a disk of the given radius centered on p.
func drawPoint(s *RenderSlice, p math3d.Vec2, radius int, c uint32) {
	if math.IsNaN(p.X) || math.IsNaN(p.Y) {
		return
	}
	limit := farLine(s.Width, s.End)
	if math.Abs(p.X) > limit || math.Abs(p.Y) > limit {
		return
	}
	cx, cy := floorInt(p.X), floorInt(p.Y)
	r2 := radius * radius
	for dy := -radius; dy <= radius; dy++ {
		if !s.ContainsRow(cy + dy) {
			continue
		}
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy <= r2 {
				s.plot(cx+dx, cy+dy, c)
			}
		}
	}
}

// clipSegment clips ab to the rectangle using Liang-Barsky.
func clipSegment(a, b math3d.Vec2, xmin, ymin, xmax, ymax float64) (math3d.Vec2, math3d.Vec2, bool) {
	d := b.Sub(a)
	t0, t1 := 0.0, 1.0
	edges := [4][2]float64{
		{-d.X, a.X - xmin},
		{d.X, xmax - a.X},
		{-d.Y, a.Y - ymin},
		{d.Y, ymax - a.Y},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return a, b, false
			}
			continue
		}
		r := q / p
		if p < 0 {
			t0 = math.Max(t0, r)
		} else {
			t1 = math.Min(t1, r)
		}
		if t0 > t1 {
			return a, b, false
		}
	}
	return a.Add(d.Scale(t0)), a.Add(d.Scale(t1)), true
}

func floorInt(v float64) int {
	return int(math.Floor(v))
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
