package render

import (
	"math"

	"github.com/taigrr/softrast/pkg/math3d"
)

// depthEpsilon guards reciprocal depth computations.
const depthEpsilon = 1e-6

// PointInTriangle reports whether p lies inside triangle abc, edges
// included, and returns its barycentric weights (for a, b, c).
//
// Each weight is the signed area of the sub-triangle opposite a vertex
// divided by the signed area of abc, so the result is the same for either
// winding. Degenerate triangles contain no points.
func PointInTriangle(a, b, c, p math3d.Vec2) (bool, math3d.Vec3) {
	area := b.Sub(a).Cross(c.Sub(a))
	if area == 0 || math.IsNaN(area) {
		return false, math3d.Vec3{}
	}

	w0 := c.Sub(b).Cross(p.Sub(b)) / area
	w1 := a.Sub(c).Cross(p.Sub(c)) / area
	w2 := b.Sub(a).Cross(p.Sub(a)) / area

	return w0 >= 0 && w1 >= 0 && w2 >= 0, math3d.V3(w0, w1, w2)
}

func reciprocal(z float64) float64 {
	if math.Abs(z) <= depthEpsilon {
		return 0
	}
	return 1 / z
}

// InterpolateDepth interpolates per-vertex depths with screen-space weights
// in reciprocal space, which is linear across a projected triangle.
//
// A vertex depth within 1e-6 of zero contributes nothing. When the
// interpolated reciprocal is within 1e-6 of zero the result is 0, the
// nearest possible depth.
func InterpolateDepth(depths, w math3d.Vec3) float64 {
	sum := w.X*reciprocal(depths.X) + w.Y*reciprocal(depths.Y) + w.Z*reciprocal(depths.Z)
	if math.Abs(sum) <= depthEpsilon {
		return 0
	}
	return 1 / sum
}

// PerspectiveWeights turns screen-space weights into weights for
// interpolating vertex attributes in view space. If the depths make that
// impossible the screen weights are returned unchanged.
func PerspectiveWeights(depths, w math3d.Vec3) math3d.Vec3 {
	p := math3d.V3(
		w.X*reciprocal(depths.X),
		w.Y*reciprocal(depths.Y),
		w.Z*reciprocal(depths.Z),
	)
	sum := p.X + p.Y + p.Z
	if math.Abs(sum) <= depthEpsilon {
		return w
	}
	return p.Scale(1 / sum)
}

// screenBounds returns the pixel rectangle [x0,x1]x[y0,y1] covering the
// triangle, clamped to columns [0,width) and rows [rowStart,rowEnd).
// ok is false when nothing remains.
func screenBounds(a, b, c math3d.Vec2, width, rowStart, rowEnd int) (x0, y0, x1, y1 int, ok bool) {
	minX := math.Min(a.X, math.Min(b.X, c.X))
	maxX := math.Max(a.X, math.Max(b.X, c.X))
	minY := math.Min(a.Y, math.Min(b.Y, c.Y))
	maxY := math.Max(a.Y, math.Max(b.Y, c.Y))

	if math.IsNaN(minX) || math.IsNaN(minY) || math.IsNaN(maxX) || math.IsNaN(maxY) {
		return 0, 0, 0, 0, false
	}

	x0 = clampInt(minX, 0, width-1)
	x1 = clampInt(maxX, 0, width-1)
	y0 = clampInt(minY, rowStart, rowEnd-1)
	y1 = clampInt(maxY, rowStart, rowEnd-1)

	if maxX < 0 || minX >= float64(width) || maxY < float64(rowStart) || minY >= float64(rowEnd) {
		return 0, 0, 0, 0, false
	}
	return x0, y0, x1, y1, true
}

func clampInt(v float64, lo, hi int) int {
	if v <= float64(lo) {
		return lo
	}
	if v >= float64(hi) {
		return hi
	}
	return int(v)
}
