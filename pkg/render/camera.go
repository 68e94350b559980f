// Package render implements a CPU triangle rasterizer: the vertex transform
// pipeline, depth-tested shading into a tiled render target, and wireframe
// and point overlays.
package render

import (
	"fmt"
	"math"

	"github.com/taigrr/softrast/pkg/math3d"
)

// Camera is a perspective camera with a quaternion orientation.
//
// In camera space the camera looks down -Z with +Y up. Matrices are derived
// from the fields on every call so the struct can be mutated freely.
type Camera struct {
	Position    math3d.Vec3
	Orientation math3d.Quat

	FOV         float64 // Vertical field of view in radians
	AspectRatio float64 // Width / Height
	Near        float64
	Far         float64
}

// DefaultFOV is the vertical field of view used by NewCamera.
const DefaultFOV = 70 * math.Pi / 180

// NewCamera creates a camera at the origin facing world +Z.
func NewCamera() *Camera {
	return &Camera{
		Orientation: math3d.QuatFromAxisAngle(math3d.Up(), math.Pi),
		FOV:         DefaultFOV,
		AspectRatio: 16.0 / 9.0,
		Near:        0.1,
		Far:         1000,
	}
}

// Validate reports whether the projection parameters are usable.
func (c *Camera) Validate() error {
	switch {
	case !(c.Near > 0):
		return fmt.Errorf("%w: near plane %v must be positive", ErrInvalidCamera, c.Near)
	case !(c.Far > c.Near):
		return fmt.Errorf("%w: far plane %v must be beyond near plane %v", ErrInvalidCamera, c.Far, c.Near)
	case !(c.AspectRatio > 0):
		return fmt.Errorf("%w: aspect ratio %v must be positive", ErrInvalidCamera, c.AspectRatio)
	case !(c.FOV > 0 && c.FOV < math.Pi):
		return fmt.Errorf("%w: field of view %v out of range", ErrInvalidCamera, c.FOV)
	}
	return nil
}

// SetAspectRatio sets the aspect ratio.
func (c *Camera) SetAspectRatio(aspect float64) {
	c.AspectRatio = aspect
}

// SetClipPlanes sets the near and far clipping planes.
func (c *Camera) SetClipPlanes(near, far float64) {
	c.Near = near
	c.Far = far
}

// Forward returns the direction the camera faces.
func (c *Camera) Forward() math3d.Vec3 {
	return c.Orientation.Rotate(math3d.Forward())
}

// Right returns the camera's right direction.
func (c *Camera) Right() math3d.Vec3 {
	return c.Orientation.Rotate(math3d.Right())
}

// Up returns the camera's up direction.
func (c *Camera) Up() math3d.Vec3 {
	return c.Orientation.Rotate(math3d.Up())
}

// ViewMatrix returns the world-to-camera transform.
func (c *Camera) ViewMatrix() math3d.Mat4 {
	rot := c.Orientation.Conjugate().Mat4()
	return rot.Mul(math3d.Translate(c.Position.Negate()))
}

// ProjectionMatrix returns the perspective projection.
func (c *Camera) ProjectionMatrix() math3d.Mat4 {
	return math3d.Perspective(c.FOV, c.AspectRatio, c.Near, c.Far)
}

// ViewProjectionMatrix returns projection * view.
func (c *Camera) ViewProjectionMatrix() math3d.Mat4 {
	return c.ProjectionMatrix().Mul(c.ViewMatrix())
}

// Frustum returns the current view frustum.
func (c *Camera) Frustum() Frustum {
	return NewFrustumFromMatrix(c.ViewProjectionMatrix())
}

// MoveLocal moves the camera along its own forward, right and up axes.
func (c *Camera) MoveLocal(forward, right, up float64) {
	d := c.Forward().Scale(forward).
		Add(c.Right().Scale(right)).
		Add(c.Up().Scale(up))
	c.Position = c.Position.Add(d)
}

// MoveWorld translates the camera by d in world space.
func (c *Camera) MoveWorld(d math3d.Vec3) {
	c.Position = c.Position.Add(d)
}

// Look turns the camera by a pointer delta. Positive dx turns right about
// world up, positive dy pitches down about the camera's right axis.
// Pitch is not clamped.
func (c *Camera) Look(dx, dy, sensitivity float64) {
	yaw := math3d.QuatFromAxisAngle(math3d.Up(), -dx*sensitivity)
	pitch := math3d.QuatFromAxisAngle(math3d.Right(), -dy*sensitivity)
	c.Orientation = yaw.Mul(c.Orientation).Mul(pitch).Normalize()
}

// Roll rotates the camera about its forward axis. Positive angles roll
// clockwise as seen from the camera.
func (c *Camera) Roll(angle float64) {
	roll := math3d.QuatFromAxisAngle(math3d.Forward(), angle)
	c.Orientation = c.Orientation.Mul(roll).Normalize()
}

// LookAt orients the camera toward target, keeping world up as up.
// It does nothing if target is the camera position.
func (c *Camera) LookAt(target math3d.Vec3) {
	dir := target.Sub(c.Position)
	if dir.Len() == 0 {
		return
	}
	c.Orientation = math3d.QuatLookRotation(dir, math3d.Up())
}

// WorldToScreen projects a world point onto a width x height target.
// Returns (screenX, screenY, depth, visible).
func (c *Camera) WorldToScreen(worldPos math3d.Vec3, width, height int) (x, y, depth float64, visible bool) {
	clip := c.ViewProjectionMatrix().MulVec4(math3d.V4FromV3(worldPos, 1))
	if clip.W <= 0 {
		return 0, 0, 0, false
	}

	ndc := clip.PerspectiveDivide()
	if ndc.X < -1 || ndc.X > 1 || ndc.Y < -1 || ndc.Y > 1 || ndc.Z < -1 || ndc.Z > 1 {
		return 0, 0, 0, false
	}

	x = (ndc.X + 1) * 0.5 * float64(width)
	y = (1 - ndc.Y) * 0.5 * float64(height)
	return x, y, clip.W, true
}
