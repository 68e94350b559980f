package render

import (
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
)

// halfBlock draws the top pixel as foreground and the bottom as background.
const halfBlock = "▀"

// Draw presents the color buffer on a terminal screen using half-block
// cells, two target rows per terminal row. Size the target to
// area.Dx() x 2*area.Dy() for a 1:1 mapping; pixels outside the target are
// left unstyled.
func (t *RenderTarget) Draw(scr uv.Screen, area uv.Rectangle) {
	for row := area.Min.Y; row < area.Max.Y; row++ {
		top := (row - area.Min.Y) * 2
		for col := area.Min.X; col < area.Max.X; col++ {
			x := col - area.Min.X
			if x >= t.Width || top >= t.Height {
				break
			}
			scr.SetCell(col, row, &uv.Cell{
				Content: halfBlock,
				Width:   1,
				Style: uv.Style{
					Fg: t.cellColor(x, top),
					Bg: t.cellColor(x, top+1),
				},
			})
		}
	}
}

func (t *RenderTarget) cellColor(x, y int) color.Color {
	if y >= t.Height {
		return nil
	}
	return PackedRGBA(t.Color[y*t.Width+x])
}
