package geom

import "github.com/chewxy/math32"

// Quat is a unit quaternion (x, y, z, w), glTF component order.
type Quat struct {
	X, Y, Z, W float32
}

// IdentityQuat is the no-rotation quaternion.
var IdentityQuat = Quat{0, 0, 0, 1}

// Mul returns q*o (apply o first, then q).
func (q Quat) Mul(o Quat) Quat {
	return Quat{
		X: q.W*o.X + q.X*o.W + q.Y*o.Z - q.Z*o.Y,
		Y: q.W*o.Y - q.X*o.Z + q.Y*o.W + q.Z*o.X,
		Z: q.W*o.Z + q.X*o.Y - q.Y*o.X + q.Z*o.W,
		W: q.W*o.W - q.X*o.X - q.Y*o.Y - q.Z*o.Z,
	}
}

// Rotate applies q to v.
func (q Quat) Rotate(v Vec3) Vec3 {
	u := Vec3{q.X, q.Y, q.Z}
	t := u.Cross(v).Scale(2)
	return v.Add(t.Scale(q.W)).Add(u.Cross(t))
}

// Mat3 is a row-major 3x3 rotation matrix.
type Mat3 [3][3]float32

// Mat3 returns the rotation matrix of q.
func (q Quat) Mat3() Mat3 {
	x, y, z, w := q.X, q.Y, q.Z, q.W
	return Mat3{
		{1 - 2*(y*y+z*z), 2 * (x*y - w*z), 2 * (x*z + w*y)},
		{2 * (x*y + w*z), 1 - 2*(x*x+z*z), 2 * (y*z - w*x)},
		{2 * (x*z - w*y), 2 * (y*z + w*x), 1 - 2*(x*x+y*y)},
	}
}

// Quat converts a pure rotation matrix to a quaternion.
func (m Mat3) Quat() Quat {
	m11, m12, m13 := m[0][0], m[0][1], m[0][2]
	m21, m22, m23 := m[1][0], m[1][1], m[1][2]
	m31, m32, m33 := m[2][0], m[2][1], m[2][2]
	trace := m11 + m22 + m33
	switch {
	case trace > 0:
		s := 0.5 / math32.Sqrt(trace+1)
		return Quat{(m32 - m23) * s, (m13 - m31) * s, (m21 - m12) * s, 0.25 / s}
	case m11 > m22 && m11 > m33:
		s := 2 * math32.Sqrt(1+m11-m22-m33)
		return Quat{0.25 * s, (m12 + m21) / s, (m13 + m31) / s, (m32 - m23) / s}
	case m22 > m33:
		s := 2 * math32.Sqrt(1+m22-m11-m33)
		return Quat{(m12 + m21) / s, 0.25 * s, (m23 + m32) / s, (m13 - m31) / s}
	default:
		s := 2 * math32.Sqrt(1+m33-m11-m22)
		return Quat{(m13 + m31) / s, (m23 + m32) / s, 0.25 * s, (m21 - m12) / s}
	}
}

// Euler is an intrinsic X-then-Y-then-Z rotation in radians, the default
// order used by glTF-authored cameras in most DCC exports.
type Euler struct {
	X, Y, Z float32
}

func (e Euler) Add(o Euler) Euler { return Euler{e.X + o.X, e.Y + o.Y, e.Z + o.Z} }

// Vec3 returns the angles as a vector (x, y, z).
func (e Euler) Vec3() Vec3 { return Vec3{e.X, e.Y, e.Z} }

// EulerFromVec3 is the inverse of Euler.Vec3.
func EulerFromVec3(v Vec3) Euler { return Euler{v.X, v.Y, v.Z} }

// Mat3 returns the rotation matrix Rx * Ry * Rz.
func (e Euler) Mat3() Mat3 {
	a, b := math32.Cos(e.X), math32.Sin(e.X)
	c, d := math32.Cos(e.Y), math32.Sin(e.Y)
	ce, f := math32.Cos(e.Z), math32.Sin(e.Z)
	ae, af, be, bf := a*ce, a*f, b*ce, b*f
	return Mat3{
		{c * ce, -c * f, d},
		{af + be*d, ae - bf*d, -b * c},
		{bf - ae*d, be + af*d, a * c},
	}
}

// EulerFromMat3 extracts XYZ angles from a rotation matrix.
func EulerFromMat3(m Mat3) Euler {
	m13 := Clamp(m[0][2], -1, 1)
	var e Euler
	e.Y = math32.Asin(m13)
	if math32.Abs(m13) < 0.9999999 {
		e.X = math32.Atan2(-m[1][2], m[2][2])
		e.Z = math32.Atan2(-m[0][1], m[0][0])
	} else {
		e.X = math32.Atan2(m[2][1], m[1][1])
		e.Z = 0
	}
	return e
}

// EulerFromQuat converts a quaternion to XYZ angles.
func EulerFromQuat(q Quat) Euler { return EulerFromMat3(q.Mat3()) }

// Basis returns the forward (-Z) and up (+Y) directions for rotation e.
// A camera with rotation e looks along forward.
func (e Euler) Basis() (forward, up Vec3) {
	m := e.Mat3()
	forward = Vec3{-m[0][2], -m[1][2], -m[2][2]}
	up = Vec3{m[0][1], m[1][1], m[2][1]}
	return forward, up
}

// LookAt returns the rotation that points forward (-Z) from eye to target
// with +Y kept as close to worldUp as possible.
func LookAt(eye, target, worldUp Vec3) Euler {
	z := eye.Sub(target).Normalize()
	if z.Len() == 0 {
		z = Vec3{0, 0, 1}
	}
	x := worldUp.Cross(z)
	if x.Len() == 0 {
		// target straight up or down; nudge the reference
		x = Vec3{0, 0, 1}.Cross(z)
	}
	x = x.Normalize()
	y := z.Cross(x)
	return EulerFromMat3(Mat3{
		{x.X, y.X, z.X},
		{x.Y, y.Y, z.Y},
		{x.Z, y.Z, z.Z},
	})
}
