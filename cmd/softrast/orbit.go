package main

import (
	"math"

	"github.com/charmbracelet/harmonica"

	"github.com/taigrr/softrast/pkg/math3d"
	"github.com/taigrr/softrast/pkg/render"
)

const (
	maxPitch    = 1.5
	minDistance = 0.5
	maxDistance = 100
)

// springAxis eases a value toward its goal.
type springAxis struct {
	Value float64
	Goal  float64
	vel   float64
}

func (a *springAxis) update(s harmonica.Spring) {
	a.Value, a.vel = s.Update(a.Value, a.vel, a.Goal)
}

// Orbit keeps a camera on a sphere around Target. Input moves the goal
// angles and distance; Update springs the current values toward them.
type Orbit struct {
	Target   math3d.Vec3
	Yaw      springAxis
	Pitch    springAxis
	Distance springAxis

	// Spin is added to the yaw goal every update.
	Spin float64

	spring harmonica.Spring
	home   float64
}

// NewOrbit creates an orbit at distance from the origin, looking along +Z.
func NewOrbit(fps int, distance float64) *Orbit {
	o := &Orbit{
		// Critically damped: no overshoot.
		spring: harmonica.NewSpring(harmonica.FPS(fps), 6.0, 1.0),
		home:   math.Max(distance, minDistance),
	}
	o.Reset()
	return o
}

// Rotate moves the goal angles by the given radians. Pitch stays short of
// the poles.
func (o *Orbit) Rotate(yaw, pitch float64) {
	o.Yaw.Goal += yaw
	o.Pitch.Goal = math.Max(-maxPitch, math.Min(maxPitch, o.Pitch.Goal+pitch))
}

// Zoom scales the goal distance by factor.
func (o *Orbit) Zoom(factor float64) {
	o.Distance.Goal = math.Max(minDistance, math.Min(maxDistance, o.Distance.Goal*factor))
}

// Reset returns to the starting view at once.
func (o *Orbit) Reset() {
	o.Yaw = springAxis{}
	o.Pitch = springAxis{}
	o.Distance = springAxis{Value: o.home, Goal: o.home}
}

// Update advances the springs by one frame.
func (o *Orbit) Update() {
	o.Yaw.Goal += o.Spin
	o.Yaw.update(o.spring)
	o.Pitch.update(o.spring)
	o.Distance.update(o.spring)
}

// Position returns the camera position for the current values.
func (o *Orbit) Position() math3d.Vec3 {
	y, p, d := o.Yaw.Value, o.Pitch.Value, o.Distance.Value
	offset := math3d.V3(math.Sin(y)*math.Cos(p), math.Sin(p), -math.Cos(y)*math.Cos(p))
	return o.Target.Add(offset.Scale(d))
}

// Apply places cam at Position facing Target.
func (o *Orbit) Apply(cam *render.Camera) {
	cam.Position = o.Position()
	cam.LookAt(o.Target)
}
