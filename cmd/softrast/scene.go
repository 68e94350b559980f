package main

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/taigrr/softrast/pkg/render"
	"github.com/taigrr/softrast/pkg/scenefile"
)

// sceneFlags are shared by every command that loads a scene.
type sceneFlags struct {
	mode       string
	background string
	texture    string
	width      int
	height     int
	workers    int
	cullBack   bool
}

func (f *sceneFlags) register(cmd *cobra.Command, width, height int) {
	fl := cmd.Flags()
	fl.StringVarP(&f.mode, "mode", "m", "", "draw mode: 1-7 or names like shaded+wireframe")
	fl.StringVar(&f.background, "bg", "", `background color ("#rrggbb" or "r,g,b")`)
	fl.StringVarP(&f.texture, "texture", "t", "", "texture image for a model argument")
	fl.IntVar(&f.width, "width", width, "render width in pixels")
	fl.IntVar(&f.height, "height", height, "render height in pixels")
	fl.IntVarP(&f.workers, "workers", "j", 0, "render goroutines (0 = GOMAXPROCS)")
	fl.BoolVar(&f.cullBack, "cull-backfaces", false, "skip clockwise triangles")
}

// isSceneFile reports whether path names a YAML scene rather than a model.
func isSceneFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// sceneFor describes a one-model scene, or a spinning cube with no model.
func sceneFor(model string, f *sceneFlags) *scenefile.File {
	e := scenefile.EntitySpec{
		Primitive: "cube",
		Size:      1.5,
		Rotation:  []float64{25, 35, 0},
		Material:  scenefile.MaterialSpec{Type: "vertex"},
	}
	if model != "" {
		e = scenefile.EntitySpec{
			Model:     model,
			Normalize: 2,
			Material:  scenefile.MaterialSpec{Type: "lit_texture", Texture: f.texture},
		}
	}
	return &scenefile.File{
		Width:      f.width,
		Height:     f.height,
		Background: "30,30,40",
		Camera: scenefile.CameraSpec{
			Position: []float64{0, 0, -3.5},
			LookAt:   []float64{0, 0, 0},
			FOV:      60,
		},
		Entities: []scenefile.EntitySpec{e},
	}
}

// loadScene builds the scene named by args, applying flag overrides. Flags
// changed on the command line win over values from a scene file.
func loadScene(cmd *cobra.Command, args []string, f *sceneFlags) (*scenefile.Loaded, error) {
	var (
		file *scenefile.File
		dir  string
		err  error
	)
	switch {
	case len(args) > 0 && isSceneFile(args[0]):
		if file, err = scenefile.Read(args[0]); err != nil {
			return nil, err
		}
		dir = filepath.Dir(args[0])
		if cmd.Flags().Changed("width") {
			file.Width = f.width
		}
		if cmd.Flags().Changed("height") {
			file.Height = f.height
		}
	case len(args) > 0:
		file = sceneFor(args[0], f)
	default:
		file = sceneFor("", f)
	}

	if f.mode != "" {
		file.Mode = f.mode
	}
	if f.background != "" {
		file.Background = f.background
	}
	return file.Build(dir)
}

func (f *sceneFlags) renderer(mode render.DrawMode) *render.Renderer {
	r := render.NewRenderer()
	r.Mode = mode
	r.Workers = f.workers
	r.CullBackfaces = f.cullBack
	return r
}
