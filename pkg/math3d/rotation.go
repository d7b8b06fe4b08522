package math3d

import "math"

// Mat3 is a row-major 3x3 rotation. Viewer space needs nothing more: the
// translation is a subtraction and the perspective divide happens after the
// near-plane clip, on plain vectors.
type Mat3 [9]float64

// RotateX turns by angle about the x axis, carrying y toward z.
func RotateX(angle float64) Mat3 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat3{
		1, 0, 0,
		0, c, -s,
		0, s, c,
	}
}

// RotateZ turns by angle about the vertical axis, carrying x toward y.
func RotateZ(angle float64) Mat3 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat3{
		c, -s, 0,
		s, c, 0,
		0, 0, 1,
	}
}

// Mul returns a*b, which applies b first.
func (a Mat3) Mul(b Mat3) Mat3 {
	var m Mat3
	for i := range 3 {
		for j := range 3 {
			m[i*3+j] = a[i*3]*b[j] + a[i*3+1]*b[3+j] + a[i*3+2]*b[6+j]
		}
	}
	return m
}

// Apply rotates v.
func (m Mat3) Apply(v Vec3) Vec3 {
	return Vec3{
		m[0]*v.X + m[1]*v.Y + m[2]*v.Z,
		m[3]*v.X + m[4]*v.Y + m[5]*v.Z,
		m[6]*v.X + m[7]*v.Y + m[8]*v.Z,
	}
}

// Transpose returns the inverse rotation.
func (m Mat3) Transpose() Mat3 {
	return Mat3{
		m[0], m[3], m[6],
		m[1], m[4], m[7],
		m[2], m[5], m[8],
	}
}
