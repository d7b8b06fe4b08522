package math3d

import (
	"math"
	"testing"
)

func BenchmarkMat3Mul(b *testing.B) {
	m1 := RotateX(-0.3)
	m2 := RotateZ(0.5)

	for b.Loop() {
		_ = m1.Mul(m2)
	}
}

func BenchmarkMat3Apply(b *testing.B) {
	m := RotateX(-0.3).Mul(RotateZ(0.5))
	v := V3(1, 2, 3)

	for b.Loop() {
		_ = m.Apply(v)
	}
}

func BenchmarkVec3Cross(b *testing.B) {
	v1 := V3(1, 2, 3)
	v2 := V3(4, 5, 6)

	for b.Loop() {
		_ = v1.Cross(v2)
	}
}

func TestRotateZQuarterTurn(t *testing.T) {
	// a quarter yaw brings the east axis onto the forward axis
	got := RotateZ(math.Pi / 2).Apply(V3(1, 0, 0))
	want := V3(0, 1, 0)
	if got.Sub(want).Len() > 1e-9 {
		t.Errorf("RotateZ(pi/2) * x = %v, want %v", got, want)
	}
}

func TestRotationTransposeIsInverse(t *testing.T) {
	m := RotateX(-0.4).Mul(RotateZ(1.1))
	p := V3(3, -7, 2)
	back := m.Transpose().Apply(m.Apply(p))
	if back.Sub(p).Len() > 1e-9 {
		t.Errorf("round trip = %v, want %v", back, p)
	}
}

func TestRotateXPitchesDown(t *testing.T) {
	// pitching the viewer down by a quarter turn maps straight down onto depth
	got := RotateX(-math.Pi / 2).Apply(V3(0, 0, 1))
	if got.Sub(V3(0, 1, 0)).Len() > 1e-9 {
		t.Errorf("RotateX(-pi/2) * z = %v, want (0,1,0)", got)
	}
}

func TestMulAppliesRightFirst(t *testing.T) {
	a, b := RotateX(0.7), RotateZ(-0.2)
	p := V3(1, 2, 3)
	got := a.Mul(b).Apply(p)
	want := a.Apply(b.Apply(p))
	if got.Sub(want).Len() > 1e-9 {
		t.Errorf("Mul = %v, want %v", got, want)
	}
}

func TestMean(t *testing.T) {
	if got := Mean(V3(0, 0, 0), V3(2, 4, 6)); got != V3(1, 2, 3) {
		t.Errorf("Mean = %v", got)
	}
	if got := Mean(); got != (Vec3{}) {
		t.Errorf("Mean() = %v", got)
	}
}

func TestBounds(t *testing.T) {
	r := Bounds(V2(3, 1), V2(-1, 4), V2(2, 2))
	if r != (Rect{X: -1, Y: 1, W: 4, H: 3}) {
		t.Errorf("Bounds = %+v", r)
	}
	if !r.Contains(V2(0, 2)) || r.Contains(V2(4, 2)) {
		t.Error("Contains misreports")
	}
}
