package main

import (
	"fmt"
	"image"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"golang.org/x/image/draw"

	"github.com/taigrr/softrast/pkg/math3d"
	"github.com/taigrr/softrast/pkg/render"
	"github.com/taigrr/softrast/pkg/scenefile"
)

func newRenderCmd() *cobra.Command {
	var (
		flags  sceneFlags
		out    string
		frames int
		scale  int
	)
	cmd := &cobra.Command{
		Use:   "render [scene.yaml|model.obj|model.glb]",
		Short: "Render a scene to PNG",
		Long: "Render a scene file or a single model to PNG. With --frames N the\n" +
			"scene turns once around the vertical axis over N numbered frames.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if frames < 1 {
				return fmt.Errorf("frames must be at least 1, got %d", frames)
			}
			if scale < 1 {
				return fmt.Errorf("scale must be at least 1, got %d", scale)
			}
			l, err := loadScene(cmd, args, &flags)
			if err != nil {
				return err
			}
			stats, err := renderFrames(l, flags.renderer(l.Mode), out, frames, scale)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), summary(l, stats))
			return nil
		},
	}
	flags.register(cmd, scenefile.DefaultWidth, scenefile.DefaultHeight)
	cmd.Flags().StringVarP(&out, "out", "o", "frame.png", "output PNG path")
	cmd.Flags().IntVarP(&frames, "frames", "n", 1, "number of turntable frames")
	cmd.Flags().IntVarP(&scale, "scale", "s", 1, "integer upscale factor for saved images")
	return cmd
}

// runStats accumulates FrameStats over a render run.
type runStats struct {
	frames    int
	last      render.FrameStats
	triangles int
	pixels    int
	elapsed   time.Duration
	files     []string
}

func renderFrames(l *scenefile.Loaded, r *render.Renderer, out string, frames, scale int) (runStats, error) {
	var rs runStats
	target, err := l.Scene.Resize(l.Width, l.Height)
	if err != nil {
		return rs, fmt.Errorf("render target %dx%d: %w", l.Width, l.Height, err)
	}
	target.ClearColor = l.Background

	base := make([]math3d.Quat, len(l.Scene.Entities))
	for i, e := range l.Scene.Entities {
		base[i] = e.Rotation
	}

	var bar *progressbar.ProgressBar
	if frames > 1 {
		bar = progressbar.Default(int64(frames), "rendering")
	}

	for i := range frames {
		angle := 2 * math.Pi * float64(i) / float64(frames)
		spin := math3d.QuatFromAxisAngle(math3d.Up(), angle)
		for j, e := range l.Scene.Entities {
			e.Rotation = spin.Mul(base[j]).Normalize()
		}

		if err := r.Render(target, l.Scene); err != nil {
			return rs, err
		}
		path := framePath(out, i, frames)
		if err := savePNG(path, target.ToImage(), scale); err != nil {
			return rs, err
		}

		rs.frames++
		rs.last = r.Stats
		rs.triangles += r.Stats.Triangles
		rs.pixels += r.Stats.Pixels
		rs.elapsed += r.Stats.Duration
		rs.files = append(rs.files, path)
		if bar != nil {
			bar.Add(1)
		}
	}
	if bar != nil {
		bar.Finish()
	}
	return rs, nil
}

// framePath numbers out for multi-frame runs: spin.png -> spin-007.png.
func framePath(out string, i, frames int) string {
	if frames == 1 {
		return out
	}
	ext := filepath.Ext(out)
	return fmt.Sprintf("%s-%03d%s", strings.TrimSuffix(out, ext), i, ext)
}

func savePNG(path string, img *image.RGBA, scale int) error {
	var dst image.Image = img
	if scale > 1 {
		b := img.Bounds()
		up := image.NewRGBA(image.Rect(0, 0, b.Dx()*scale, b.Dy()*scale))
		draw.NearestNeighbor.Scale(up, up.Bounds(), img, b, draw.Src, nil)
		dst = up
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, dst); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#87CEEB"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#808080")).Width(12)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF"))
)

func summary(l *scenefile.Loaded, rs runStats) string {
	row := func(label, value string) string {
		return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), valueStyle.Render(value))
	}
	output := rs.files[0]
	if len(rs.files) > 1 {
		output = fmt.Sprintf("%s .. %s", rs.files[0], rs.files[len(rs.files)-1])
	}
	perFrame := time.Duration(0)
	if rs.frames > 0 {
		perFrame = rs.elapsed / time.Duration(rs.frames)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("softrast"),
		row("output", output),
		row("size", fmt.Sprintf("%dx%d", l.Width, l.Height)),
		row("mode", l.Mode.String()),
		row("entities", fmt.Sprintf("%d (%d culled)", rs.last.Entities, rs.last.Culled)),
		row("triangles", fmt.Sprintf("%d (%d rejected)", rs.triangles, rs.last.Rejected)),
		row("pixels", fmt.Sprintf("%d", rs.pixels)),
		row("frame time", perFrame.Round(time.Microsecond).String()),
	)
}
