package math3d

import (
	"math"
	"testing"
)

func vecNear(a, b Vec3, eps float64) bool {
	return math.Abs(a.X-b.X) <= eps && math.Abs(a.Y-b.Y) <= eps && math.Abs(a.Z-b.Z) <= eps
}

func TestQuatFromAxisAngle(t *testing.T) {
	tests := []struct {
		name  string
		axis  Vec3
		angle float64
		in    Vec3
		want  Vec3
	}{
		{"yaw quarter turn", Up(), math.Pi / 2, V3(1, 0, 0), V3(0, 0, -1)},
		{"pitch quarter turn", Right(), math.Pi / 2, V3(0, 1, 0), V3(0, 0, 1)},
		{"roll half turn", V3(0, 0, 1), math.Pi, V3(1, 0, 0), V3(-1, 0, 0)},
		{"zero axis is identity", Zero3(), 1.3, V3(1, 2, 3), V3(1, 2, 3)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := QuatFromAxisAngle(tc.axis, tc.angle).Rotate(tc.in)
			if !vecNear(got, tc.want, 1e-9) {
				t.Errorf("Rotate(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestQuatMulComposes(t *testing.T) {
	a := QuatFromAxisAngle(Up(), 0.7)
	b := QuatFromAxisAngle(Right(), -0.4)
	v := V3(0.3, -1.2, 2.5)

	got := a.Mul(b).Rotate(v)
	want := a.Rotate(b.Rotate(v))
	if !vecNear(got, want, 1e-9) {
		t.Errorf("(a*b)v = %v, want a(b(v)) = %v", got, want)
	}
}

func TestQuatConjugateInverts(t *testing.T) {
	q := QuatFromEuler(0.3, 1.1, -0.5)
	v := V3(4, -2, 7)

	got := q.Conjugate().Rotate(q.Rotate(v))
	if !vecNear(got, v, 1e-9) {
		t.Errorf("conj(q)(q(v)) = %v, want %v", got, v)
	}
}

func TestQuatMat4MatchesRotate(t *testing.T) {
	q := QuatFromEuler(-0.2, 2.4, 0.9)
	v := V3(1, 2, 3)

	got := q.Mat4().MulVec3(v)
	want := q.Rotate(v)
	if !vecNear(got, want, 1e-9) {
		t.Errorf("Mat4().MulVec3 = %v, want %v", got, want)
	}
}

func TestQuatLookRotation(t *testing.T) {
	tests := []struct {
		name    string
		forward Vec3
		up      Vec3
	}{
		{"down -Z", V3(0, 0, -1), Up()},
		{"down +Z", V3(0, 0, 1), Up()},
		{"diagonal", V3(1, -1, 2), Up()},
		{"straight up", V3(0, 1, 0), Up()},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			q := QuatLookRotation(tc.forward, tc.up)
			got := q.Rotate(Forward())
			want := tc.forward.Normalize()
			if !vecNear(got, want, 1e-9) {
				t.Errorf("q(-Z) = %v, want %v", got, want)
			}
			if math.Abs(q.Len()-1) > 1e-9 {
				t.Errorf("|q| = %v, want 1", q.Len())
			}
		})
	}
}

func TestTRS(t *testing.T) {
	m := TRS(V3(1, 2, 3), QuatFromAxisAngle(Up(), math.Pi/2), V3(2, 1, 1))
	got := m.MulVec3(V3(1, 0, 0))
	// scale to (2,0,0), yaw to (0,0,-2), translate to (1,2,1)
	want := V3(1, 2, 1)
	if !vecNear(got, want, 1e-9) {
		t.Errorf("TRS * (1,0,0) = %v, want %v", got, want)
	}
}

func TestPerspectiveClipW(t *testing.T) {
	p := Perspective(math.Pi/3, 1.5, 0.1, 100)
	clip := p.MulVec4(V4(0.5, -0.25, -7, 1))
	if math.Abs(clip.W-7) > 1e-12 {
		t.Errorf("clip W = %v, want view depth 7", clip.W)
	}
}

func TestVec4PerspectiveDivide(t *testing.T) {
	got := V4(2, 4, 6, 2).PerspectiveDivide()
	if got != V4(1, 2, 3, 2) {
		t.Errorf("PerspectiveDivide = %v, want (1,2,3,2)", got)
	}
	zero := V4(2, 4, 6, 0)
	if zero.PerspectiveDivide() != zero {
		t.Errorf("zero W should leave the point undivided")
	}
}

func BenchmarkMat4Mul(b *testing.B) {
	m1 := Translate(V3(1, 2, 3))
	m2 := QuatFromAxisAngle(Up(), 0.5).Mat4()

	for b.Loop() {
		_ = m1.Mul(m2)
	}
}

func BenchmarkMat4MulVec4(b *testing.B) {
	m := TRS(V3(1, 2, 3), QuatFromAxisAngle(Up(), 0.5), One3())
	v := V4(1, 2, 3, 1)

	for b.Loop() {
		_ = m.MulVec4(v)
	}
}

func BenchmarkQuatRotate(b *testing.B) {
	q := QuatFromEuler(0.1, 0.2, 0.3)
	v := V3(1, 2, 3)

	for b.Loop() {
		_ = q.Rotate(v)
	}
}
