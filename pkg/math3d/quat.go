package math3d

import "math"

// Quat is a rotation quaternion with vector part (X, Y, Z) and scalar part W.
// Rotation quaternions are expected to have unit length; operations that
// accumulate error (Mul) should be followed by Normalize.
type Quat struct {
	X, Y, Z, W float64
}

// QuatIdent returns the identity rotation.
func QuatIdent() Quat {
	return Quat{W: 1}
}

// QuatFromAxisAngle returns a rotation of angle radians about axis.
// A zero axis yields the identity.
func QuatFromAxisAngle(axis Vec3, angle float64) Quat {
	axis = axis.Normalize()
	if axis == (Vec3{}) {
		return QuatIdent()
	}
	s, c := math.Sincos(angle / 2)
	return Quat{axis.X * s, axis.Y * s, axis.Z * s, c}
}

// QuatFromEuler builds a rotation from pitch (X), yaw (Y) and roll (Z) in
// radians, applied roll first, then pitch, then yaw.
func QuatFromEuler(pitch, yaw, roll float64) Quat {
	qx := QuatFromAxisAngle(Right(), pitch)
	qy := QuatFromAxisAngle(Up(), yaw)
	qz := QuatFromAxisAngle(V3(0, 0, 1), roll)
	return qy.Mul(qx).Mul(qz)
}

// QuatLookRotation returns the rotation that maps local -Z onto forward
// with local +Y as close to up as possible. When forward is parallel to up
// another reference axis is used.
func QuatLookRotation(forward, up Vec3) Quat {
	f := forward.Normalize()
	if f == (Vec3{}) {
		return QuatIdent()
	}
	r := f.Cross(up).Normalize()
	if r == (Vec3{}) {
		r = f.Cross(Right()).Normalize()
		if r == (Vec3{}) {
			r = f.Cross(Forward()).Normalize()
		}
	}
	u := r.Cross(f)

	// Columns of the rotation matrix are r, u and -f.
	m00, m01, m02 := r.X, u.X, -f.X
	m10, m11, m12 := r.Y, u.Y, -f.Y
	m20, m21, m22 := r.Z, u.Z, -f.Z

	var q Quat
	switch trace := m00 + m11 + m22; {
	case trace > 0:
		s := 0.5 / math.Sqrt(trace+1)
		q = Quat{(m21 - m12) * s, (m02 - m20) * s, (m10 - m01) * s, 0.25 / s}
	case m00 > m11 && m00 > m22:
		s := 2 * math.Sqrt(1+m00-m11-m22)
		q = Quat{0.25 * s, (m01 + m10) / s, (m02 + m20) / s, (m21 - m12) / s}
	case m11 > m22:
		s := 2 * math.Sqrt(1+m11-m00-m22)
		q = Quat{(m01 + m10) / s, 0.25 * s, (m12 + m21) / s, (m02 - m20) / s}
	default:
		s := 2 * math.Sqrt(1+m22-m00-m11)
		q = Quat{(m02 + m20) / s, (m12 + m21) / s, 0.25 * s, (m10 - m01) / s}
	}
	return q.Normalize()
}

// Mul returns the Hamilton product a * b: the rotation b followed by a.
//
//nolint:st1016 // a*b naming convention is clearer for quaternion products
func (a Quat) Mul(b Quat) Quat {
	return Quat{
		X: a.W*b.X + a.X*b.W + a.Y*b.Z - a.Z*b.Y,
		Y: a.W*b.Y - a.X*b.Z + a.Y*b.W + a.Z*b.X,
		Z: a.W*b.Z + a.X*b.Y - a.Y*b.X + a.Z*b.W,
		W: a.W*b.W - a.X*b.X - a.Y*b.Y - a.Z*b.Z,
	}
}

// Conjugate returns the inverse rotation of a unit quaternion.
func (q Quat) Conjugate() Quat {
	return Quat{-q.X, -q.Y, -q.Z, q.W}
}

// Len returns the quaternion norm.
func (q Quat) Len() float64 {
	return math.Sqrt(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)
}

// Normalize returns q scaled to unit length, or the identity for a zero quaternion.
func (q Quat) Normalize() Quat {
	l := q.Len()
	if l == 0 {
		return QuatIdent()
	}
	return Quat{q.X / l, q.Y / l, q.Z / l, q.W / l}
}

// Rotate applies the rotation to v.
func (q Quat) Rotate(v Vec3) Vec3 {
	u := Vec3{q.X, q.Y, q.Z}
	t := u.Cross(v).Scale(2)
	return v.Add(t.Scale(q.W)).Add(u.Cross(t))
}

// Mat4 returns the rotation as a homogeneous matrix.
func (q Quat) Mat4() Mat4 {
	x := q.Rotate(Right())
	y := q.Rotate(Up())
	z := q.Rotate(V3(0, 0, 1))
	return Mat4{
		x.X, x.Y, x.Z, 0,
		y.X, y.Y, y.Z, 0,
		z.X, z.Y, z.Z, 0,
		0, 0, 0, 1,
	}
}
