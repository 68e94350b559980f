package render

import (
	"image"
	"image/png"
	"math"
	"os"
)

// RenderTarget holds the color and depth buffers for one frame.
//
// Both buffers are row-major with the origin at the top left. Color pixels
// are packed 0x00RRGGBB. Depth stores linear view depth; smaller is nearer.
type RenderTarget struct {
	Width      int
	Height     int
	Color      []uint32
	Depth      []float64
	ClearColor Color
}

// NewRenderTarget allocates a cleared target. It returns ErrZeroArea if
// either dimension is not positive.
func NewRenderTarget(width, height int) (*RenderTarget, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrZeroArea
	}
	t := &RenderTarget{
		Width:      width,
		Height:     height,
		Color:      make([]uint32, width*height),
		Depth:      make([]float64, width*height),
		ClearColor: Black,
	}
	t.Clear()
	return t, nil
}

// Clear fills the color buffer with ClearColor and resets every depth to
// math.MaxFloat64.
func (t *RenderTarget) Clear() {
	fill(t.Color, t.ClearColor.Packed())
	fill(t.Depth, math.MaxFloat64)
}

// fill uses copy-doubling, which beats a plain loop on large buffers.
func fill[T any](s []T, v T) {
	if len(s) == 0 {
		return
	}
	s[0] = v
	for i := 1; i < len(s); i *= 2 {
		copy(s[i:], s[:i])
	}
}

// Pixel returns the packed color at (x, y), or 0 out of bounds.
func (t *RenderTarget) Pixel(x, y int) uint32 {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return 0
	}
	return t.Color[y*t.Width+x]
}

// DepthAt returns the stored depth at (x, y), or math.MaxFloat64 out of bounds.
func (t *RenderTarget) DepthAt(x, y int) float64 {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return math.MaxFloat64
	}
	return t.Depth[y*t.Width+x]
}

// RenderSlice is a band of whole rows [Start, End) of a RenderTarget.
// Color and Depth cover exactly those rows, so index 0 is (0, Start).
type RenderSlice struct {
	Start int
	End   int
	Width int
	Color []uint32
	Depth []float64
}

// Slices partitions the target into at most n horizontal bands of
// ceil(Height/n) rows each. Every row belongs to exactly one band; the last
// band may be shorter, and fewer than n bands are returned when the rows
// run out. n < 1 is treated as 1.
//
// The bands alias the target's buffers but cannot grow into each other, so
// they may be written concurrently.
func (t *RenderTarget) Slices(n int) []RenderSlice {
	n = max(n, 1)
	if t.Height == 0 {
		return nil
	}
	rows := (t.Height + n - 1) / n
	slices := make([]RenderSlice, 0, n)
	for start := 0; start < t.Height; start += rows {
		end := min(start+rows, t.Height)
		lo, hi := start*t.Width, end*t.Width
		slices = append(slices, RenderSlice{
			Start: start,
			End:   end,
			Width: t.Width,
			Color: t.Color[lo:hi:hi],
			Depth: t.Depth[lo:hi:hi],
		})
	}
	return slices
}

// Rows returns the number of rows in the slice.
func (s *RenderSlice) Rows() int {
	return s.End - s.Start
}

// ContainsRow reports whether absolute row y belongs to the slice.
func (s *RenderSlice) ContainsRow(y int) bool {
	return y >= s.Start && y < s.End
}

// index converts absolute target coordinates to a slice buffer index.
func (s *RenderSlice) index(x, y int) int {
	return (y-s.Start)*s.Width + x
}

// plot writes c at (x, y) if it lies inside the slice.
func (s *RenderSlice) plot(x, y int, c uint32) {
	if x < 0 || x >= s.Width || !s.ContainsRow(y) {
		return
	}
	s.Color[s.index(x, y)] = c
}

// ToImage converts the color buffer to an opaque image.RGBA.
func (t *RenderTarget) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, t.Width, t.Height))
	for y := range t.Height {
		for x := range t.Width {
			img.SetRGBA(x, y, PackedRGBA(t.Color[y*t.Width+x]))
		}
	}
	return img
}

// SavePNG saves the color buffer as a PNG file.
func (t *RenderTarget) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, t.ToImage())
}
