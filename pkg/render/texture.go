package render

import (
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"math"
	"os"

	"github.com/taigrr/softrast/pkg/math3d"
	_ "golang.org/x/image/bmp"  // Register BMP decoder
	_ "golang.org/x/image/tiff" // Register TIFF decoder
	_ "golang.org/x/image/webp" // Register WebP decoder
)

// WrapMode determines how texture coordinates outside [0,1] are handled.
type WrapMode int

const (
	WrapClamp  WrapMode = iota // Clamp to edge
	WrapRepeat                 // Tile the texture
)

// FilterMode determines how texture sampling is performed.
type FilterMode int

const (
	FilterNearest  FilterMode = iota // Nearest-neighbor (pixelated)
	FilterBilinear                   // Bilinear interpolation (smooth)
)

// Texture holds a 2D image for texture mapping. Row 0 is the top of the
// image; V=0 addresses the bottom row.
type Texture struct {
	Width      int
	Height     int
	Pixels     []Color // Row-major pixel data
	WrapU      WrapMode
	WrapV      WrapMode
	FilterMode FilterMode
}

// NewTexture creates a black texture with the given dimensions.
func NewTexture(width, height int) *Texture {
	width, height = max(width, 0), max(height, 0)
	return &Texture{
		Width:  width,
		Height: height,
		Pixels: make([]Color, width*height),
	}
}

// LoadTexture decodes an image file (PNG, JPEG, BMP, TIFF or WebP).
func LoadTexture(path string) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open texture: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode texture %s: %w", path, err)
	}
	return TextureFromImage(img), nil
}

// TextureFromImage copies an image.Image into a texture.
func TextureFromImage(img image.Image) *Texture {
	bounds := img.Bounds()
	tex := NewTexture(bounds.Dx(), bounds.Dy())

	for y := range tex.Height {
		for x := range tex.Width {
			r, g, b, a := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			tex.Pixels[y*tex.Width+x] = Color{
				R: float64(r) / 0xffff,
				G: float64(g) / 0xffff,
				B: float64(b) / 0xffff,
				A: float64(a) / 0xffff,
			}
		}
	}
	return tex
}

// NewCheckerTexture creates a procedural checkerboard texture.
func NewCheckerTexture(width, height, checkSize int, c1, c2 Color) *Texture {
	tex := NewTexture(width, height)
	checkSize = max(checkSize, 1)
	for y := range height {
		for x := range width {
			if (x/checkSize+y/checkSize)%2 == 0 {
				tex.SetPixel(x, y, c1)
			} else {
				tex.SetPixel(x, y, c2)
			}
		}
	}
	return tex
}

// SetPixel sets a pixel in the texture.
func (t *Texture) SetPixel(x, y int, c Color) {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return
	}
	t.Pixels[y*t.Width+x] = c
}

// GetPixel returns the pixel at (x, y), or the zero color out of bounds.
func (t *Texture) GetPixel(x, y int) Color {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return Color{}
	}
	return t.Pixels[y*t.Width+x]
}

// Sample returns the texel at uv. It reports false for an empty texture.
//
// With the default nearest filter the texel is found by wrapping uv into
// [0,1], scaling by (size-1), rounding and flipping V.
func (t *Texture) Sample(uv math3d.Vec2) (Color, bool) {
	if t == nil || t.Width <= 0 || t.Height <= 0 || len(t.Pixels) < t.Width*t.Height {
		return Color{}, false
	}
	u := wrapCoord(uv.X, t.WrapU)
	v := 1 - wrapCoord(uv.Y, t.WrapV)

	if t.FilterMode == FilterBilinear {
		return t.sampleBilinear(u, v), true
	}
	x := int(math.Round(u * float64(t.Width-1)))
	y := int(math.Round(v * float64(t.Height-1)))
	return t.Pixels[y*t.Width+x], true
}

func wrapCoord(c float64, mode WrapMode) float64 {
	if math.IsNaN(c) {
		return 0
	}
	if mode == WrapRepeat && !math.IsInf(c, 0) {
		c -= math.Floor(c)
	}
	return math.Max(0, math.Min(1, c))
}

func (t *Texture) sampleBilinear(u, v float64) Color {
	fx := u * float64(t.Width-1)
	fy := v * float64(t.Height-1)

	x0 := int(math.Floor(fx))
	y0 := int(math.Floor(fy))
	x1 := min(x0+1, t.Width-1)
	y1 := min(y0+1, t.Height-1)
	if t.WrapU == WrapRepeat && x0 == t.Width-1 {
		x1 = 0
	}
	if t.WrapV == WrapRepeat && y0 == t.Height-1 {
		y1 = 0
	}

	tx := fx - float64(x0)
	ty := fy - float64(y0)

	top := lerpColor(t.GetPixel(x0, y0), t.GetPixel(x1, y0), tx)
	bot := lerpColor(t.GetPixel(x0, y1), t.GetPixel(x1, y1), tx)
	return lerpColor(top, bot, ty)
}

func lerpColor(a, b Color, t float64) Color {
	return Color{
		R: a.R + (b.R-a.R)*t,
		G: a.G + (b.G-a.G)*t,
		B: a.B + (b.B-a.B)*t,
		A: a.A + (b.A-a.A)*t,
	}
}
