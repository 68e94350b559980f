package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/taigrr/softrast/pkg/render"
	"github.com/taigrr/softrast/pkg/scenefile"
)

const (
	orbitStep = 0.15
	zoomStep  = 1.15
	dragScale = 0.03

	defaultSpin = 0.01
)

func newViewCmd() *cobra.Command {
	var (
		flags sceneFlags
		fps   int
		spin  bool
	)
	cmd := &cobra.Command{
		Use:   "view [scene.yaml|model.obj|model.glb]",
		Short: "View a scene in the terminal",
		Long: `View a scene in the terminal with half-block pixels.

Controls:
  Mouse drag, W/A/S/D, arrows  orbit
  Scroll, +/-                  zoom
  1-7                          draw mode (4 shaded, 2 wireframe, 1 points)
  Space                        toggle auto-spin
  R                            reset view
  Esc, Ctrl+C                  quit`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !term.IsTerminal(int(os.Stdout.Fd())) {
				return errors.New("view needs a terminal; use render to write PNG files")
			}
			if fps < 1 {
				return fmt.Errorf("fps must be at least 1, got %d", fps)
			}
			l, err := loadScene(cmd, args, &flags)
			if err != nil {
				return err
			}
			v := newViewer(l, flags.renderer(l.Mode), fps)
			if spin {
				v.orbit.Spin = defaultSpin
			}
			return v.run(cmd.Context())
		},
	}
	flags.register(cmd, scenefile.DefaultWidth, scenefile.DefaultHeight)
	cmd.Flags().IntVar(&fps, "fps", 30, "target frames per second")
	cmd.Flags().BoolVar(&spin, "spin", true, "turn the scene continuously")
	return cmd
}

// viewer owns the terminal session. All state is touched only by run's
// goroutine; the event reader forwards events over a channel.
type viewer struct {
	scene    *render.Scene
	renderer *render.Renderer
	bg       render.Color
	target   *render.RenderTarget
	orbit    *Orbit
	fps      int

	cols, rows int

	dragging  bool
	lastX     int
	lastY     int
	savedSpin float64
}

func newViewer(l *scenefile.Loaded, r *render.Renderer, fps int) *viewer {
	cam := l.Scene.Camera
	o := NewOrbit(fps, cam.Position.Len())
	o.Apply(cam)
	return &viewer{
		scene:    l.Scene,
		renderer: r,
		bg:       l.Background,
		orbit:    o,
		fps:      fps,
	}
}

// resize matches the render target to a cols x rows terminal. Each cell
// shows two pixels stacked vertically.
func (v *viewer) resize(cols, rows int) {
	v.cols, v.rows = cols, rows
	t, err := v.scene.Resize(cols, rows*2)
	if err != nil {
		render.Logger().Debug("terminal has no area", "cols", cols, "rows", rows)
		v.target = nil
		return
	}
	t.ClearColor = v.bg
	v.target = t
}

func (v *viewer) run(ctx context.Context) error {
	t := uv.DefaultTerminal()

	width, height, err := t.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	if err := t.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	t.EnterAltScreen()
	t.HideCursor()
	t.Resize(width, height)
	v.resize(width, height)

	// Any-event mouse tracking with SGR coordinates.
	fmt.Fprint(os.Stdout, "\x1b[?1003h\x1b[?1006h")
	defer func() {
		fmt.Fprint(os.Stdout, "\x1b[?1003l\x1b[?1006l")
		t.ExitAltScreen()
		t.ShowCursor()
		t.Shutdown(context.Background())
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	events := make(chan uv.Event, 64)
	go forwardEvents(ctx, t.Events(), events)

	ticker := time.NewTicker(time.Second / time.Duration(v.fps))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			if sz, ok := ev.(uv.WindowSizeEvent); ok {
				t.Erase()
				t.Resize(sz.Width, sz.Height)
				v.resize(sz.Width, sz.Height)
				continue
			}
			if v.handle(ev) {
				return nil
			}
		case <-ticker.C:
			if err := v.frame(t); err != nil {
				return err
			}
		}
	}
}

// forwardEvents copies terminal events to out until in closes or ctx ends.
func forwardEvents(ctx context.Context, in <-chan uv.Event, out chan<- uv.Event) {
	for ev := range in {
		select {
		case out <- ev:
		case <-ctx.Done():
			return
		}
	}
}

func (v *viewer) frame(t *uv.Terminal) error {
	v.orbit.Update()
	v.orbit.Apply(v.scene.Camera)
	if v.target == nil {
		return nil
	}
	if err := v.renderer.Render(v.target, v.scene); err != nil {
		return err
	}
	v.target.Draw(t, uv.Rect(0, 0, v.cols, v.rows))
	if err := t.Display(); err != nil {
		return fmt.Errorf("display: %w", err)
	}
	return nil
}

// handle applies one input event and reports whether to quit.
func (v *viewer) handle(ev uv.Event) bool {
	switch ev := ev.(type) {
	case uv.KeyPressEvent:
		switch {
		case ev.MatchString("esc", "ctrl+c", "q"):
			return true
		case ev.MatchString("a", "left"):
			v.orbit.Rotate(-orbitStep, 0)
		case ev.MatchString("d", "right"):
			v.orbit.Rotate(orbitStep, 0)
		case ev.MatchString("w", "up"):
			v.orbit.Rotate(0, orbitStep)
		case ev.MatchString("s", "down"):
			v.orbit.Rotate(0, -orbitStep)
		case ev.MatchString("+", "="):
			v.orbit.Zoom(1 / zoomStep)
		case ev.MatchString("-", "_"):
			v.orbit.Zoom(zoomStep)
		case ev.MatchString("space"):
			if v.orbit.Spin != 0 {
				v.savedSpin, v.orbit.Spin = v.orbit.Spin, 0
			} else {
				v.orbit.Spin = cmp.Or(v.savedSpin, defaultSpin)
			}
		case ev.MatchString("r"):
			v.orbit.Reset()
		case ev.MatchString("1", "2", "3", "4", "5", "6", "7"):
			v.renderer.Mode = render.DrawModeFromBits(int(ev.Code - '0'))
		}

	case uv.MouseClickEvent:
		v.dragging = true
		v.lastX, v.lastY = ev.X, ev.Y

	case uv.MouseReleaseEvent:
		v.dragging = false

	case uv.MouseMotionEvent:
		if v.dragging {
			v.orbit.Rotate(float64(ev.X-v.lastX)*dragScale, float64(v.lastY-ev.Y)*dragScale)
			v.lastX, v.lastY = ev.X, ev.Y
		}

	case uv.MouseWheelEvent:
		switch ev.Button {
		case uv.MouseWheelUp:
			v.orbit.Zoom(1 / zoomStep)
		case uv.MouseWheelDown:
			v.orbit.Zoom(zoomStep)
		}
	}
	return false
}
