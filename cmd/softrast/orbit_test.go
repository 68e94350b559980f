package main

import (
	"math"
	"testing"

	"github.com/taigrr/softrast/pkg/math3d"
	"github.com/taigrr/softrast/pkg/render"
)

func TestOrbitStart(t *testing.T) {
	o := NewOrbit(60, 4)
	cam := render.NewCamera()
	o.Apply(cam)

	if p := cam.Position; math.Abs(p.Z+4) > 1e-9 || math.Abs(p.X) > 1e-9 {
		t.Errorf("position = %v, want (0,0,-4)", p)
	}
	if f := cam.Forward(); math.Abs(f.Z-1) > 1e-9 {
		t.Errorf("forward = %v, want +Z", f)
	}
}

func TestOrbitConverges(t *testing.T) {
	o := NewOrbit(60, 4)
	o.Target = math3d.V3(1, 0, 0)
	o.Rotate(math.Pi/2, 0)
	o.Zoom(0.5)

	for range 600 {
		o.Update()
	}
	if math.Abs(o.Yaw.Value-math.Pi/2) > 1e-3 {
		t.Errorf("yaw = %v, want pi/2", o.Yaw.Value)
	}
	if math.Abs(o.Distance.Value-2) > 1e-3 {
		t.Errorf("distance = %v, want 2", o.Distance.Value)
	}
	if p := o.Position(); math.Abs(p.X-3) > 1e-2 || math.Abs(p.Z) > 1e-2 {
		t.Errorf("position = %v, want (3,0,0)", p)
	}

	cam := render.NewCamera()
	o.Apply(cam)
	if f := cam.Forward(); math.Abs(f.X+1) > 1e-2 {
		t.Errorf("forward = %v, want -X", f)
	}
}

func TestOrbitLimits(t *testing.T) {
	o := NewOrbit(60, 4)
	o.Rotate(0, 10)
	if o.Pitch.Goal != maxPitch {
		t.Errorf("pitch goal = %v, want %v", o.Pitch.Goal, maxPitch)
	}
	o.Zoom(1000)
	if o.Distance.Goal != maxDistance {
		t.Errorf("distance goal = %v", o.Distance.Goal)
	}
	o.Zoom(0)
	if o.Distance.Goal != minDistance {
		t.Errorf("distance goal = %v", o.Distance.Goal)
	}

	o.Reset()
	if o.Pitch.Goal != 0 || o.Distance.Value != 4 {
		t.Errorf("reset = %+v", o)
	}
}

func TestFramePath(t *testing.T) {
	tests := []struct {
		out  string
		i, n int
		want string
	}{
		{"frame.png", 0, 1, "frame.png"},
		{"spin.png", 7, 36, "spin-007.png"},
		{"out/spin", 2, 3, "out/spin-002"},
	}
	for _, tc := range tests {
		if got := framePath(tc.out, tc.i, tc.n); got != tc.want {
			t.Errorf("framePath(%q, %d, %d) = %q, want %q", tc.out, tc.i, tc.n, got, tc.want)
		}
	}
}
