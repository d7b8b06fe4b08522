package scene

import (
	"math"

	"github.com/taigrr/warren/pkg/math3d"
)

// MaxPitch is the largest pitch magnitude Rotate allows.
const MaxPitch = math.Pi / 2

// Viewer is the camera pose. Yaw turns about the vertical z axis, pitch
// tilts about the viewer's x axis, positive looking down. In viewer space y
// points forward, x to the side and z down.
type Viewer struct {
	Position math3d.Vec3
	Yaw      float64
	Pitch    float64

	rotation math3d.Mat3
	dirty    bool
}

// NewViewer creates a level viewer at pos facing +y.
func NewViewer(pos math3d.Vec3) *Viewer {
	return &Viewer{Position: pos, dirty: true}
}

// SetPose replaces position and orientation.
func (v *Viewer) SetPose(pos math3d.Vec3, yaw, pitch float64) {
	v.Position = pos
	v.Yaw = yaw
	v.Pitch = clampPitch(pitch)
	v.dirty = true
}

// Rotate turns the viewer by the given angles in radians, keeping pitch
// within MaxPitch.
func (v *Viewer) Rotate(deltaYaw, deltaPitch float64) {
	v.Yaw += deltaYaw
	v.Pitch = clampPitch(v.Pitch + deltaPitch)
	v.dirty = true
}

func clampPitch(p float64) float64 {
	return math.Max(-MaxPitch, math.Min(MaxPitch, p))
}

// Rotation returns the world-to-viewer rotation: pitch about x applied
// after yaw about z.
func (v *Viewer) Rotation() math3d.Mat3 {
	if v.dirty {
		v.rotation = math3d.RotateX(-v.Pitch).Mul(math3d.RotateZ(v.Yaw))
		v.dirty = false
	}
	return v.rotation
}

// ToView transforms a world point into viewer space.
func (v *Viewer) ToView(p math3d.Vec3) math3d.Vec3 {
	return v.Rotation().Apply(p.Sub(v.Position))
}

// Forward returns the horizontal unit vector the viewer walks along.
func (v *Viewer) Forward() math3d.Vec2 {
	return math3d.V2(math.Sin(v.Yaw), math.Cos(v.Yaw))
}

// Left returns the horizontal unit vector the viewer strafes along; it is
// the screen's left because screen x grows against viewer x.
func (v *Viewer) Left() math3d.Vec2 {
	return math3d.V2(math.Cos(v.Yaw), -math.Sin(v.Yaw))
}

// MoveForward walks along Forward (backwards if negative).
func (v *Viewer) MoveForward(distance float64) {
	f := v.Forward().Scale(distance)
	v.Position = v.Position.Add(math3d.V3(f.X, f.Y, 0))
}

// MoveLeft strafes along Left (right if negative).
func (v *Viewer) MoveLeft(distance float64) {
	l := v.Left().Scale(distance)
	v.Position = v.Position.Add(math3d.V3(l.X, l.Y, 0))
}

// MoveUp rises by distance. Up is -z.
func (v *Viewer) MoveUp(distance float64) {
	v.Position.Z -= distance
}
