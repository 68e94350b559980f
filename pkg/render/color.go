package render

import (
	"image/color"
	"math"
)

// Color is a linear RGBA color with components nominally in [0, 1].
// Lighting may push components outside that range; they are clamped only
// when packed for output.
type Color struct {
	R, G, B, A float64
}

// Colors for convenience.
var (
	Black   = Color{0, 0, 0, 1}
	White   = Color{1, 1, 1, 1}
	Red     = Color{1, 0, 0, 1}
	Green   = Color{0, 1, 0, 1}
	Blue    = Color{0, 0, 1, 1}
	Gray    = Color{0.5, 0.5, 0.5, 1}
	Sky     = RGB8(135, 206, 235)
	Magenta = Color{1, 0, 1, 1}
)

// RGB creates an opaque color from float components.
func RGB(r, g, b float64) Color {
	return Color{r, g, b, 1}
}

// RGB8 creates an opaque color from 8-bit components.
func RGB8(r, g, b uint8) Color {
	return Color{float64(r) / 255, float64(g) / 255, float64(b) / 255, 1}
}

// FromRGBA converts an 8-bit color.RGBA.
func FromRGBA(c color.RGBA) Color {
	return Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
		A: float64(c.A) / 255,
	}
}

// FromPacked unpacks a 0x00RRGGBB value into an opaque color.
func FromPacked(p uint32) Color {
	return RGB8(uint8(p>>16), uint8(p>>8), uint8(p))
}

// Packed returns the color as 0x00RRGGBB, the render target pixel format.
// Alpha is dropped.
func (c Color) Packed() uint32 {
	return uint32(channel8(c.R))<<16 | uint32(channel8(c.G))<<8 | uint32(channel8(c.B))
}

// RGBA converts to an 8-bit color.RGBA.
func (c Color) RGBA() color.RGBA {
	return color.RGBA{channel8(c.R), channel8(c.G), channel8(c.B), channel8(c.A)}
}

// Mul returns the component-wise product of two colors.
func (c Color) Mul(o Color) Color {
	return Color{c.R * o.R, c.G * o.G, c.B * o.B, c.A * o.A}
}

// Scale multiplies RGB by s and leaves alpha untouched (for lighting).
func (c Color) Scale(s float64) Color {
	return Color{c.R * s, c.G * s, c.B * s, c.A}
}

// Interpolate blends three colors with barycentric weights. The result is opaque.
func Interpolate(c0, c1, c2 Color, w0, w1, w2 float64) Color {
	return Color{
		R: c0.R*w0 + c1.R*w1 + c2.R*w2,
		G: c0.G*w0 + c1.G*w1 + c2.G*w2,
		B: c0.B*w0 + c1.B*w1 + c2.B*w2,
		A: 1,
	}
}

func channel8(v float64) uint8 {
	if math.IsNaN(v) {
		return 0
	}
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}

// PackedRGBA converts a 0x00RRGGBB pixel into an opaque color.RGBA.
func PackedRGBA(p uint32) color.RGBA {
	return color.RGBA{uint8(p >> 16), uint8(p >> 8), uint8(p), 255}
}
