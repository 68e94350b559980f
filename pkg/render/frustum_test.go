package render

import (
	"math"
	"testing"

	"github.com/taigrr/softrast/pkg/math3d"
)

func TestPlaneDistance(t *testing.T) {
	plane := Plane{Normal: math3d.V3(0, 3, 4), D: 10}.normalized()

	if l := plane.Normal.Len(); math.Abs(l-1) > 1e-9 {
		t.Fatalf("normal length = %v, want 1", l)
	}
	if math.Abs(plane.D-2) > 1e-9 {
		t.Errorf("D = %v, want 2", plane.D)
	}

	tests := []struct {
		name  string
		point math3d.Vec3
		want  float64
	}{
		{"origin", math3d.V3(0, 0, 0), 2},
		{"along normal", math3d.V3(0, 0.6, 0.8), 3},
		{"behind", math3d.V3(0, -3, -4), -3},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := plane.Distance(tc.point); math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("Distance(%v) = %v, want %v", tc.point, got, tc.want)
			}
		})
	}
}

func TestFrustumContainsPoint(t *testing.T) {
	cam := NewCamera()
	cam.SetAspectRatio(1)
	cam.SetClipPlanes(0.1, 100)
	f := cam.Frustum()

	tests := []struct {
		name  string
		point math3d.Vec3
		want  bool
	}{
		{"straight ahead", math3d.V3(0, 0, 5), true},
		{"behind camera", math3d.V3(0, 0, -5), false},
		{"closer than near", math3d.V3(0, 0, 0.05), false},
		{"beyond far", math3d.V3(0, 0, 150), false},
		{"far off to the side", math3d.V3(50, 0, 5), false},
		{"high above", math3d.V3(0, 50, 5), false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := f.ContainsPoint(tc.point); got != tc.want {
				t.Errorf("ContainsPoint(%v) = %v, want %v", tc.point, got, tc.want)
			}
		})
	}
}

func TestFrustumIntersectAABB(t *testing.T) {
	cam := NewCamera()
	cam.SetAspectRatio(1)
	cam.SetClipPlanes(0.1, 100)
	f := cam.Frustum()

	unit := func(c math3d.Vec3) AABB {
		return AABB{Min: c.Sub(math3d.V3(1, 1, 1)), Max: c.Add(math3d.V3(1, 1, 1))}
	}

	tests := []struct {
		name string
		box  AABB
		want bool
	}{
		{"in view", unit(math3d.V3(0, 0, 10)), true},
		{"straddling near plane", unit(math3d.V3(0, 0, 0)), true},
		{"behind", unit(math3d.V3(0, 0, -10)), false},
		{"beyond far", unit(math3d.V3(0, 0, 200)), false},
		{"straddling far plane", unit(math3d.V3(0, 0, 100)), true},
		{"off to the side", unit(math3d.V3(-100, 0, 10)), false},
		{"huge box around camera", AABB{Min: math3d.V3(-1000, -1000, -1000), Max: math3d.V3(1000, 1000, 1000)}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := f.IntersectAABB(tc.box); got != tc.want {
				t.Errorf("IntersectAABB(%v) = %v, want %v", tc.box, got, tc.want)
			}
		})
	}
}

func TestFrustumIntersectsSphere(t *testing.T) {
	cam := NewCamera()
	cam.SetAspectRatio(1)
	f := cam.Frustum()

	if !f.IntersectsSphere(math3d.V3(0, 0, 10), 1) {
		t.Error("sphere ahead should intersect")
	}
	if f.IntersectsSphere(math3d.V3(0, 0, -10), 1) {
		t.Error("sphere behind should not intersect")
	}
	if !f.IntersectsSphere(math3d.V3(0, 0, -1), 2) {
		t.Error("sphere around the camera should intersect")
	}
}

func TestAABBTransform(t *testing.T) {
	box := AABB{Min: math3d.V3(-1, -2, -3), Max: math3d.V3(1, 2, 3)}

	if c := box.Center(); c != (math3d.Vec3{}) {
		t.Errorf("Center = %v, want origin", c)
	}
	if s := box.Size(); s != math3d.V3(2, 4, 6) {
		t.Errorf("Size = %v, want (2, 4, 6)", s)
	}

	// A quarter turn about Y swaps the X and Z extents.
	m := math3d.TRS(math3d.V3(10, 0, 0), math3d.QuatFromAxisAngle(math3d.Up(), math.Pi/2), math3d.One3())
	got := box.Transform(m)
	want := AABB{Min: math3d.V3(7, -2, -1), Max: math3d.V3(13, 2, 1)}
	if !vecNear(got.Min, want.Min, 1e-9) || !vecNear(got.Max, want.Max, 1e-9) {
		t.Errorf("Transform = %v, want %v", got, want)
	}

	u := box.Union(AABB{Min: math3d.V3(0, 0, 0), Max: math3d.V3(5, 5, 5)})
	if u.Min != box.Min || u.Max != math3d.V3(5, 5, 5) {
		t.Errorf("Union = %v", u)
	}
}

func BenchmarkFrustumIntersectAABB(b *testing.B) {
	f := NewCamera().Frustum()
	box := AABB{Min: math3d.V3(-1, -1, 9), Max: math3d.V3(1, 1, 11)}
	for b.Loop() {
		f.IntersectAABB(box)
	}
}

func vecNear(a, b math3d.Vec3, eps float64) bool {
	return math.Abs(a.X-b.X) <= eps && math.Abs(a.Y-b.Y) <= eps && math.Abs(a.Z-b.Z) <= eps
}
