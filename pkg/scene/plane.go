package scene

import "github.com/taigrr/warren/pkg/math3d"

// Plane represents a plane in 3D space using the equation: Ax + By + Cz + D = 0
// where (A, B, C) is the normal and D is the distance from origin.
type Plane struct {
	Normal math3d.Vec3
	D      float64
}

// NearPlane returns the viewer-space plane y = omega with its normal facing
// forward, so kept points have a non-negative distance.
func NearPlane(omega float64) Plane {
	return Plane{Normal: math3d.V3(0, 1, 0), D: -omega}
}

// DistanceToPoint returns the signed distance from the plane to a point.
// Positive = in front (same side as normal), negative = behind.
func (p Plane) DistanceToPoint(point math3d.Vec3) float64 {
	return p.Normal.Dot(point) + p.D
}
