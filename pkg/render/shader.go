package render

import (
	"math"

	"github.com/taigrr/softrast/pkg/math3d"
)

// ambientFloor keeps unlit faces from going fully black.
const ambientFloor = 0.01

// Shader computes the color of a pixel covered by a triangle.
//
// bc holds the barycentric weights of the pixel for tri's three vertices.
// The renderer passes perspective-corrected weights. Shade is called
// concurrently from several goroutines and must not mutate shared state.
type Shader interface {
	Shade(tri *Triangle, bc math3d.Vec3) Color
}

// ShaderFunc adapts an ordinary function to the Shader interface.
type ShaderFunc func(tri *Triangle, bc math3d.Vec3) Color

// Shade calls f(tri, bc).
func (f ShaderFunc) Shade(tri *Triangle, bc math3d.Vec3) Color {
	return f(tri, bc)
}

// SolidColor fills every pixel with one color.
type SolidColor struct {
	Color Color
}

func (s SolidColor) Shade(*Triangle, math3d.Vec3) Color {
	return s.Color
}

// VertexColors interpolates per-vertex colors. Triangles with a vertex
// missing its color are drawn white.
type VertexColors struct{}

func (VertexColors) Shade(tri *Triangle, bc math3d.Vec3) Color {
	return vertexColor(tri, bc)
}

// Textured samples Texture at the interpolated UV. A nil texture falls back
// to vertex colors, missing UVs or failed samples to white.
type Textured struct {
	Texture *Texture
}

func (s Textured) Shade(tri *Triangle, bc math3d.Vec3) Color {
	return textureColor(s.Texture, tri, bc)
}

// LitTexture is Textured with a Lambertian term toward LightDir.
type LitTexture struct {
	Texture  *Texture
	LightDir math3d.Vec3
}

func (s LitTexture) Shade(tri *Triangle, bc math3d.Vec3) Color {
	return light(textureColor(s.Texture, tri, bc), tri, bc, s.LightDir)
}

// LitSolid is SolidColor with a Lambertian term toward LightDir.
type LitSolid struct {
	Color    Color
	LightDir math3d.Vec3
}

func (s LitSolid) Shade(tri *Triangle, bc math3d.Vec3) Color {
	return light(s.Color, tri, bc, s.LightDir)
}

// DefaultLightDir points up and toward the default camera.
var DefaultLightDir = math3d.V3(0.3, 1, -0.5).Normalize()

func vertexColor(tri *Triangle, bc math3d.Vec3) Color {
	c0, ok0 := tri.V[0].Color()
	c1, ok1 := tri.V[1].Color()
	c2, ok2 := tri.V[2].Color()
	if !ok0 || !ok1 || !ok2 {
		return White
	}
	return Interpolate(c0, c1, c2, bc.X, bc.Y, bc.Z)
}

func textureColor(tex *Texture, tri *Triangle, bc math3d.Vec3) Color {
	if tex == nil {
		return vertexColor(tri, bc)
	}
	uv0, ok0 := tri.V[0].UV()
	uv1, ok1 := tri.V[1].UV()
	uv2, ok2 := tri.V[2].UV()
	if !ok0 || !ok1 || !ok2 {
		return White
	}
	uv := uv0.Scale(bc.X).Add(uv1.Scale(bc.Y)).Add(uv2.Scale(bc.Z))
	c, ok := tex.Sample(uv)
	if !ok {
		return White
	}
	return c
}

// light scales c by max(n.l, ambientFloor). Without normals c is returned
// unchanged.
func light(c Color, tri *Triangle, bc math3d.Vec3, dir math3d.Vec3) Color {
	n0, ok0 := tri.V[0].Normal()
	n1, ok1 := tri.V[1].Normal()
	n2, ok2 := tri.V[2].Normal()
	if !ok0 || !ok1 || !ok2 {
		return c
	}
	n := n0.Scale(bc.X).Add(n1.Scale(bc.Y)).Add(n2.Scale(bc.Z)).Normalize()
	return c.Scale(math.Max(n.Dot(dir.Normalize()), ambientFloor))
}
