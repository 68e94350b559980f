package main

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/spf13/cobra"

	"github.com/taigrr/softrast/pkg/render"
)

const (
	moveSpeed       = 0.05
	rollSpeed       = 0.03
	lookSensitivity = 0.004
)

var modeKeys = [...]ebiten.Key{
	ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3, ebiten.KeyDigit4,
	ebiten.KeyDigit5, ebiten.KeyDigit6, ebiten.KeyDigit7,
}

func newWindowCmd() *cobra.Command {
	var (
		flags sceneFlags
		scale int
	)
	cmd := &cobra.Command{
		Use:   "window [scene.yaml|model.obj|model.glb]",
		Short: "View a scene in a desktop window",
		Long: `View a scene in a resizable desktop window.

Controls:
  W/A/S/D      move
  Space/Shift  up/down
  Mouse drag   look
  Q/E          roll
  1-7          draw mode (4 shaded, 2 wireframe, 1 points)
  Esc          quit`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if scale < 1 {
				return fmt.Errorf("scale must be at least 1, got %d", scale)
			}
			l, err := loadScene(cmd, args, &flags)
			if err != nil {
				return err
			}
			g := &windowGame{
				scene:    l.Scene,
				renderer: flags.renderer(l.Mode),
				bg:       l.Background,
				scale:    scale,
			}
			ebiten.SetWindowTitle("softrast")
			ebiten.SetWindowSize(l.Width*scale, l.Height*scale)
			ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
			ebiten.SetTPS(60)
			return ebiten.RunGame(g)
		},
	}
	flags.register(cmd, 640, 360)
	cmd.Flags().IntVarP(&scale, "scale", "s", 2, "window pixels per rendered pixel")
	return cmd
}

// windowGame presents the render target through an ebiten image scaled to
// the window.
type windowGame struct {
	scene    *render.Scene
	renderer *render.Renderer
	bg       render.Color
	scale    int

	target        *render.RenderTarget
	width, height int
	img           *ebiten.Image
	pix           []byte

	dragging     bool
	lastX, lastY int
}

func (g *windowGame) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	for i, k := range modeKeys {
		if inpututil.IsKeyJustPressed(k) {
			g.renderer.Mode = render.DrawModeFromBits(i + 1)
		}
	}

	cam := g.scene.Camera
	var fwd, right, up float64
	if ebiten.IsKeyPressed(ebiten.KeyW) {
		fwd += moveSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) {
		fwd -= moveSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) {
		right += moveSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyA) {
		right -= moveSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeySpace) {
		up += moveSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyShift) {
		up -= moveSpeed
	}
	cam.MoveLocal(fwd, right, up)

	if ebiten.IsKeyPressed(ebiten.KeyQ) {
		cam.Roll(-rollSpeed)
	}
	if ebiten.IsKeyPressed(ebiten.KeyE) {
		cam.Roll(rollSpeed)
	}

	x, y := ebiten.CursorPosition()
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		if g.dragging {
			cam.Look(float64(x-g.lastX), float64(y-g.lastY), lookSensitivity)
		}
		g.dragging = true
	} else {
		g.dragging = false
	}
	g.lastX, g.lastY = x, y
	return nil
}

func (g *windowGame) Draw(screen *ebiten.Image) {
	if g.target == nil {
		return
	}
	if err := g.renderer.Render(g.target, g.scene); err != nil {
		render.Logger().Error("render failed", "error", err)
		return
	}
	for i, p := range g.target.Color {
		j := i * 4
		g.pix[j] = byte(p >> 16)
		g.pix[j+1] = byte(p >> 8)
		g.pix[j+2] = byte(p)
		g.pix[j+3] = 0xFF
	}
	g.img.WritePixels(g.pix)
	screen.DrawImage(g.img, nil)
}

// Layout renders at 1/scale of the window size. A minimized window has no
// area; the target is dropped until the next non-empty layout.
func (g *windowGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	w, h := outsideWidth/g.scale, outsideHeight/g.scale
	if w == g.width && h == g.height && (g.target != nil || w <= 0 || h <= 0) {
		return max(w, 1), max(h, 1)
	}
	g.width, g.height = w, h

	if g.img != nil {
		g.img.Deallocate()
		g.img = nil
	}
	t, err := g.scene.Resize(w, h)
	if err != nil {
		render.Logger().Debug("window has no area", "width", w, "height", h)
		g.target = nil
		return 1, 1
	}
	t.ClearColor = g.bg
	g.target = t
	g.img = ebiten.NewImage(w, h)
	g.pix = make([]byte, w*h*4)
	return w, h
}
