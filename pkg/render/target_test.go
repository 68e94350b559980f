package render

import (
	"errors"
	"math"
	"path/filepath"
	"testing"
)

func TestNewRenderTargetZeroArea(t *testing.T) {
	tests := []struct {
		name string
		w, h int
	}{
		{"zero width", 0, 10},
		{"zero height", 10, 0},
		{"negative", -3, 4},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			target, err := NewRenderTarget(tc.w, tc.h)
			if !errors.Is(err, ErrZeroArea) {
				t.Errorf("err = %v, want ErrZeroArea", err)
			}
			if target != nil {
				t.Error("expected nil target")
			}
		})
	}
}

func TestSlicesPartitionRows(t *testing.T) {
	const width = 3
	for height := 1; height <= 40; height++ {
		target, err := NewRenderTarget(width, height)
		if err != nil {
			t.Fatal(err)
		}
		for n := 1; n <= 12; n++ {
			slices := target.Slices(n)
			if len(slices) == 0 || len(slices) > n {
				t.Fatalf("H=%d n=%d: got %d slices", height, n, len(slices))
			}
			rows := (height + n - 1) / n

			next := 0
			for i, s := range slices {
				if s.Start != next {
					t.Fatalf("H=%d n=%d slice %d: starts at %d, want %d", height, n, i, s.Start, next)
				}
				if i < len(slices)-1 && s.Rows() != rows {
					t.Fatalf("H=%d n=%d slice %d: %d rows, want %d", height, n, i, s.Rows(), rows)
				}
				if s.Rows() <= 0 || s.Rows() > rows {
					t.Fatalf("H=%d n=%d slice %d: %d rows", height, n, i, s.Rows())
				}
				if len(s.Color) != s.Rows()*width || len(s.Depth) != s.Rows()*width {
					t.Fatalf("H=%d n=%d slice %d: buffer lengths %d/%d", height, n, i, len(s.Color), len(s.Depth))
				}
				if cap(s.Color) != len(s.Color) || cap(s.Depth) != len(s.Depth) {
					t.Fatalf("H=%d n=%d slice %d: capacity extends past the slice", height, n, i)
				}
				next = s.End
			}
			if next != height {
				t.Fatalf("H=%d n=%d: slices end at row %d", height, n, next)
			}
		}
	}
}

func TestSlicesAliasTarget(t *testing.T) {
	target, _ := NewRenderTarget(4, 5)
	for i, s := range target.Slices(2) {
		for j := range s.Color {
			s.Color[j] = uint32(i + 1)
		}
	}
	// ceil(5/2) = 3 rows in the first slice.
	for y := range 5 {
		want := uint32(1)
		if y >= 3 {
			want = 2
		}
		for x := range 4 {
			if got := target.Pixel(x, y); got != want {
				t.Fatalf("pixel (%d,%d) = %d, want %d", x, y, got, want)
			}
		}
	}
}

func TestSlicesNonPositiveCount(t *testing.T) {
	target, _ := NewRenderTarget(2, 7)
	slices := target.Slices(0)
	if len(slices) != 1 || slices[0].Start != 0 || slices[0].End != 7 {
		t.Errorf("Slices(0) = %+v, want one slice covering all rows", slices)
	}
}

func TestClearIdempotent(t *testing.T) {
	target, _ := NewRenderTarget(7, 5)
	target.ClearColor = RGB8(10, 20, 30)

	target.Clear()
	first := append([]uint32(nil), target.Color...)
	target.Color[3] = 0xffffff
	target.Depth[3] = 1.5
	target.Clear()
	target.Clear()

	for i := range target.Color {
		if target.Color[i] != first[i] {
			t.Fatalf("color[%d] = %#x after second clear, want %#x", i, target.Color[i], first[i])
		}
		if target.Color[i] != 0x0a141e {
			t.Fatalf("color[%d] = %#x, want 0x0a141e", i, target.Color[i])
		}
		if target.Depth[i] != math.MaxFloat64 {
			t.Fatalf("depth[%d] = %v, want MaxFloat64", i, target.Depth[i])
		}
	}
}

func TestRenderTargetImage(t *testing.T) {
	target, _ := NewRenderTarget(3, 2)
	target.Color[0] = 0xff0000
	target.Color[5] = 0x00ff00

	img := target.ToImage()
	if c := img.RGBAAt(0, 0); c.R != 255 || c.G != 0 || c.A != 255 {
		t.Errorf("pixel (0,0) = %v, want opaque red", c)
	}
	if c := img.RGBAAt(2, 1); c.G != 255 || c.R != 0 {
		t.Errorf("pixel (2,1) = %v, want green", c)
	}

	path := filepath.Join(t.TempDir(), "frame.png")
	if err := target.SavePNG(path); err != nil {
		t.Fatalf("SavePNG: %v", err)
	}
}

func TestPixelOutOfBounds(t *testing.T) {
	target, _ := NewRenderTarget(2, 2)
	target.Color[0] = 0x123456
	if got := target.Pixel(-1, 0); got != 0 {
		t.Errorf("Pixel(-1,0) = %#x, want 0", got)
	}
	if got := target.DepthAt(2, 0); got != math.MaxFloat64 {
		t.Errorf("DepthAt(2,0) = %v, want MaxFloat64", got)
	}
}

func BenchmarkClear(b *testing.B) {
	target, _ := NewRenderTarget(320, 240)
	for b.Loop() {
		target.Clear()
	}
}
