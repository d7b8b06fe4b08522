package scene

import (
	"math"
	"testing"

	"github.com/taigrr/warren/pkg/math3d"
)

func vecNear(a, b math3d.Vec3, eps float64) bool {
	return math.Abs(a.X-b.X) <= eps && math.Abs(a.Y-b.Y) <= eps && math.Abs(a.Z-b.Z) <= eps
}

func TestViewerIdentity(t *testing.T) {
	v := NewViewer(math3d.V3(10, 20, 30))
	got := v.ToView(math3d.V3(11, 25, 27))
	want := math3d.V3(1, 5, -3)
	if !vecNear(got, want, 1e-12) {
		t.Errorf("ToView = %v, want %v", got, want)
	}
}

func TestViewerAxes(t *testing.T) {
	for _, yaw := range []float64{0, 0.4, math.Pi / 2, 2.5, -1} {
		v := NewViewer(math3d.V3(5, -5, 50))
		v.SetPose(v.Position, yaw, 0)

		f := v.Forward().Scale(10)
		got := v.ToView(v.Position.Add(math3d.V3(f.X, f.Y, 0)))
		if !vecNear(got, math3d.V3(0, 10, 0), 1e-9) {
			t.Errorf("yaw %v: forward maps to %v, want +y", yaw, got)
		}

		l := v.Left().Scale(10)
		got = v.ToView(v.Position.Add(math3d.V3(l.X, l.Y, 0)))
		if !vecNear(got, math3d.V3(10, 0, 0), 1e-9) {
			t.Errorf("yaw %v: left maps to %v, want +x", yaw, got)
		}
	}
}

func TestViewerPitchKeepsLength(t *testing.T) {
	v := NewViewer(math3d.Vec3{})
	v.SetPose(math3d.Vec3{}, 0.3, 0.6)
	p := math3d.V3(3, 4, 12)
	if got := v.ToView(p).Len(); math.Abs(got-13) > 1e-9 {
		t.Errorf("|ToView(p)| = %v, want 13", got)
	}
}

func TestViewerPitchClamp(t *testing.T) {
	v := NewViewer(math3d.Vec3{})
	v.Rotate(0, 10)
	if v.Pitch != MaxPitch {
		t.Errorf("pitch = %v, want %v", v.Pitch, MaxPitch)
	}
	v.Rotate(0, -20)
	if v.Pitch != -MaxPitch {
		t.Errorf("pitch = %v, want %v", v.Pitch, -MaxPitch)
	}
}

func TestViewerMoves(t *testing.T) {
	v := NewViewer(math3d.V3(0, 0, 50))
	v.SetPose(v.Position, 0.8, 0)
	start := v.Position
	v.MoveForward(40)
	if got := v.ToView(start); !vecNear(got, math3d.V3(0, -40, 0), 1e-9) {
		t.Errorf("start after walking = %v, want 40 behind", got)
	}
	v.MoveLeft(-15)
	v.MoveUp(5)
	if v.Position.Z != 45 {
		t.Errorf("z = %v, want 45", v.Position.Z)
	}
	if got := v.ToView(start); !vecNear(got, math3d.V3(15, -40, 5), 1e-9) {
		t.Errorf("start after strafing = %v", got)
	}
}
