package math3d

import (
	"math"
	"testing"
)

func TestMat4Transforms(t *testing.T) {
	m := Translate(V3(1, 2, 3)).Mul(Scale(V3(2, 2, 2)))

	tests := []struct {
		name string
		got  Vec3
		want Vec3
	}{
		{"point", m.MulVec3(V3(1, 1, 1)), V3(3, 4, 5)},
		{"direction ignores translation", m.MulVec3Dir(V3(1, 0, 0)), V3(2, 0, 0)},
		{"identity", Identity().MulVec3(V3(4, 5, 6)), V3(4, 5, 6)},
		{"vec4 w=1", m.MulVec4(V4(0, 0, 0, 1)).Vec3(), V3(1, 2, 3)},
		{"vec4 w=0", m.MulVec4(V4(0, 0, 1, 0)).Vec3(), V3(0, 0, 2)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if !vecNear(tc.got, tc.want, 1e-12) {
				t.Errorf("got %v, want %v", tc.got, tc.want)
			}
		})
	}
}

func TestMat4MulOrder(t *testing.T) {
	// Translate after scale differs from scale after translate.
	ts := Translate(V3(1, 0, 0)).Mul(Scale(V3(2, 2, 2)))
	st := Scale(V3(2, 2, 2)).Mul(Translate(V3(1, 0, 0)))
	p := V3(1, 0, 0)
	if got := ts.MulVec3(p); math.Abs(got.X-3) > 1e-12 {
		t.Errorf("T*S = %v, want x=3", got)
	}
	if got := st.MulVec3(p); math.Abs(got.X-4) > 1e-12 {
		t.Errorf("S*T = %v, want x=4", got)
	}
	if Translate(V3(7, 8, 9)).Get(1, 3) != 8 {
		t.Error("Get(row, col) does not address the translation column")
	}
}

func TestPerspectiveDepthRange(t *testing.T) {
	p := Perspective(math.Pi/2, 1, 1, 10)
	near := p.MulVec4(V4(0, 0, -1, 1)).PerspectiveDivide()
	far := p.MulVec4(V4(0, 0, -10, 1)).PerspectiveDivide()
	if math.Abs(near.Z+1) > 1e-12 || math.Abs(far.Z-1) > 1e-12 {
		t.Errorf("ndc z near=%v far=%v, want -1 and 1", near.Z, far.Z)
	}
	// 90 degrees: a point at 45 degrees lands on the edge.
	edge := p.MulVec4(V4(0, 2, -2, 1)).PerspectiveDivide()
	if math.Abs(edge.Y-1) > 1e-12 {
		t.Errorf("edge y = %v, want 1", edge.Y)
	}
}

func BenchmarkMat4MulVec3(b *testing.B) {
	m := TRS(V3(1, 2, 3), QuatFromAxisAngle(Up(), 0.5), One3())
	v := V3(1, 2, 3)

	for b.Loop() {
		_ = m.MulVec3(v)
	}
}
