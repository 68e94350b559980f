package math3d

// Vec4 represents a homogeneous 3D point. Vertices carry their position as a
// Vec4 through clip space so the pre-divide W survives the pipeline.
type Vec4 struct {
	X, Y, Z, W float64
}

func V4(x, y, z, w float64) Vec4 {
	return Vec4{x, y, z, w}
}

// V4FromV3 appends w to v: 1 for points, 0 for directions.
func V4FromV3(v Vec3, w float64) Vec4 {
	return Vec4{v.X, v.Y, v.Z, w}
}

// Vec3 drops W without dividing.
func (v Vec4) Vec3() Vec3 {
	return Vec3{v.X, v.Y, v.Z}
}

// XY is the screen position once a vertex has been through the viewport.
func (v Vec4) XY() Vec2 {
	return Vec2{v.X, v.Y}
}

// PerspectiveDivide divides X, Y and Z by W and keeps W as it was.
// A zero W leaves the point undivided.
func (v Vec4) PerspectiveDivide() Vec4 {
	if v.W == 0 {
		return v
	}
	inv := 1 / v.W
	return Vec4{v.X * inv, v.Y * inv, v.Z * inv, v.W}
}
