package render

import (
	"math"
	"testing"

	"github.com/taigrr/softrast/pkg/math3d"
)

func TestStageRotatesNormals(t *testing.T) {
	e := NewEntity("slab", nil, nil)
	e.Rotation = math3d.QuatFromAxisAngle(math3d.Up(), math.Pi/2)
	e.Scale = math3d.V3(5, 1, 1)
	e.Translation = math3d.V3(0, 0, 5)

	n := math3d.V3(1, 0, 0)
	in := []Vertex{
		V(0, -0.1, 0).WithNormal(n),
		V(0, 0.1, 0).WithNormal(n),
		V(0.1, 0, 0).WithNormal(n),
	}

	st := newStage(NewCamera(), e, 64, 36, false)
	tri, ok := st.triangle(in)
	if !ok {
		t.Fatal("triangle rejected")
	}
	for i, v := range tri.V {
		got, has := v.Normal()
		if !has {
			t.Fatalf("vertex %d lost its normal", i)
		}
		// The scale along X must not leak into the normal.
		if !vecNear(got, math3d.V3(0, 0, -1), 1e-9) {
			t.Errorf("vertex %d normal = %v, want (0, 0, -1)", i, got)
		}
		if l := got.Len(); math.Abs(l-1) > 1e-9 {
			t.Errorf("vertex %d normal length = %v, want 1", i, l)
		}
	}
}

func TestStageDepthRejection(t *testing.T) {
	cam := NewCamera()
	cam.SetClipPlanes(1, 10)
	e := NewEntity("tri", nil, nil)
	st := newStage(cam, e, 8, 8, false)

	tri := func(z0, z1, z2 float64) []Vertex {
		return []Vertex{V(-1, -1, z0), V(1, -1, z1), V(0, 1, z2)}
	}

	tests := []struct {
		name string
		in   []Vertex
		want bool
	}{
		{"inside", tri(5, 5, 5), true},
		{"one vertex past near", tri(0.5, 5, 5), false},
		{"all past far", tri(11, 12, 20), false},
		{"straddles far", tri(5, 12, 20), true},
		{"just inside far", tri(9.99, 9.99, 9.99), true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out, ok := st.triangle(tc.in)
			if ok != tc.want {
				t.Fatalf("ok = %v, want %v", ok, tc.want)
			}
			if ok && math.Abs(out.V[0].Position.W-tc.in[0].Position.Z) > 1e-9 {
				t.Errorf("W = %v, want view depth %v", out.V[0].Position.W, tc.in[0].Position.Z)
			}
		})
	}
}
