package main

import (
	"github.com/charmbracelet/harmonica"

	"github.com/taigrr/warren/pkg/level"
	"github.com/taigrr/warren/pkg/math3d"
	"github.com/taigrr/warren/pkg/scene"
)

// Axis tracks the velocity of one degree of freedom. Each frame the
// velocity is applied and then eased towards zero by a critically damped
// spring, so motion coasts to a stop instead of halting.
type Axis struct {
	Velocity  float64
	velSpring harmonica.Spring
	velAccel  float64
}

// NewAxis creates an axis whose velocity settles at the given spring
// frequency.
func NewAxis(fps int, frequency float64) Axis {
	return Axis{velSpring: harmonica.NewSpring(harmonica.FPS(fps), frequency, 1.0)}
}

// Step returns this frame's displacement and decays the velocity.
func (a *Axis) Step() float64 {
	d := a.Velocity
	a.Velocity, a.velAccel = a.velSpring.Update(a.Velocity, a.velAccel, 0)
	return d
}

// Stop zeroes the axis.
func (a *Axis) Stop() {
	a.Velocity, a.velAccel = 0, 0
}

// Motion holds the viewer's turn, look, walk, strafe and lift axes.
type Motion struct {
	Yaw, Pitch   Axis
	Walk, Strafe Axis
	Lift         Axis
	Fly          bool
	unit         float64
}

// NewMotion creates resting axes for a world of the given cell size.
func NewMotion(fps int, unit float64) *Motion {
	return &Motion{
		Yaw:    NewAxis(fps, 6),
		Pitch:  NewAxis(fps, 6),
		Walk:   NewAxis(fps, 4),
		Strafe: NewAxis(fps, 4),
		Lift:   NewAxis(fps, 4),
		unit:   unit,
	}
}

// Impulse adds velocity. Linear amounts are in cells, angular in radians.
func (m *Motion) Impulse(yaw, pitch, walk, strafe, lift float64) {
	m.Yaw.Velocity += yaw
	m.Pitch.Velocity += pitch
	m.Walk.Velocity += walk * m.unit
	m.Strafe.Velocity += strafe * m.unit
	m.Lift.Velocity += lift * m.unit
}

// Reset stops every axis.
func (m *Motion) Reset() {
	for _, a := range []*Axis{&m.Yaw, &m.Pitch, &m.Walk, &m.Strafe, &m.Lift} {
		a.Stop()
	}
}

// Apply advances v by one frame. Walking keeps v out of solid bands of g
// and pins it to eye height; flying passes through everything but the
// floor.
func (m *Motion) Apply(v *scene.Viewer, g *level.Grid) {
	v.Rotate(m.Yaw.Step(), m.Pitch.Step())
	prev := math3d.Vec2{X: v.Position.X, Y: v.Position.Y}
	v.MoveForward(m.Walk.Step())
	v.MoveLeft(m.Strafe.Step())
	lift := m.Lift.Step()
	if m.Fly {
		v.MoveUp(lift)
	} else {
		v.Position.Z = m.unit / 2
	}
	if v.Position.Z > m.unit/2 {
		v.Position.Z = m.unit / 2
	}
	if !m.Fly && g != nil {
		next := g.ResolveMove(prev, math3d.Vec2{X: v.Position.X, Y: v.Position.Y}, v.Position.Z, m.unit)
		v.Position.X, v.Position.Y = next.X, next.Y
	}
}
