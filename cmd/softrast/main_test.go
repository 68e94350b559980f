package main

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/taigrr/softrast/pkg/render"
)

func runCmd(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		t.Fatalf("softrast %s: %v\n%s", strings.Join(args, " "), err, out.String())
	}
	t.Cleanup(func() { render.SetLogger(nil) })
	return out.String()
}

func TestRenderCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cube.png")
	out := runCmd(t, "render", "--width", "40", "--height", "30", "--scale", "2", "-o", path)

	if !strings.Contains(out, "40x30") || !strings.Contains(out, "shaded") {
		t.Errorf("summary missing fields:\n%s", out)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 80 || b.Dy() != 60 {
		t.Errorf("image size = %v, want 80x60", b)
	}
	// The default scene is a cube in front of the camera.
	r, g, b, _ := img.At(40, 30).RGBA()
	if r>>8 == 30 && g>>8 == 30 && b>>8 == 40 {
		t.Error("center pixel is background")
	}
}

func TestRenderTurntable(t *testing.T) {
	dir := t.TempDir()
	runCmd(t, "render", "--width", "16", "--height", "16", "--frames", "3", "--mode", "wireframe", "-o", filepath.Join(dir, "spin.png"))

	for _, name := range []string{"spin-000.png", "spin-001.png", "spin-002.png"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing frame: %v", err)
		}
	}
}

func TestRenderSceneFile(t *testing.T) {
	dir := t.TempDir()
	scene := `
width: 24
height: 24
background: "#000000"
camera: {position: [0, 0, -3], look_at: [0, 0, 0], fov: 60}
entities:
  - primitive: quad
    size: 4
    material: {type: solid, color: "#00ff00"}
`
	path := filepath.Join(dir, "scene.yaml")
	if err := os.WriteFile(path, []byte(scene), 0o644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "quad.png")
	runCmd(t, "render", path, "--log-level", "debug", "-o", out)

	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if r, g, _, _ := img.At(12, 12).RGBA(); r != 0 || g>>8 != 0xff {
		t.Errorf("center = %v, want green", img.At(12, 12))
	}
}

func TestRenderErrors(t *testing.T) {
	tests := [][]string{
		{"render", "--frames", "0"},
		{"render", "--scale", "0"},
		{"render", "--width", "0"},
		{"render", "--mode", "bogus"},
		{"render", "missing.yaml"},
		{"--log-level", "loud", "render"},
	}
	for _, args := range tests {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			root := newRootCmd()
			root.SetOut(&bytes.Buffer{})
			root.SetErr(&bytes.Buffer{})
			root.SetArgs(append(args, "-o", filepath.Join(t.TempDir(), "x.png")))
			if err := root.Execute(); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestIsSceneFile(t *testing.T) {
	for path, want := range map[string]bool{
		"a.yaml": true, "b.YML": true, "c.obj": false, "d.glb": false, "": false,
	} {
		if got := isSceneFile(path); got != want {
			t.Errorf("isSceneFile(%q) = %v", path, got)
		}
	}
}
