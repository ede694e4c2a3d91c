package geom

import "github.com/chewxy/math32"

// Transform is a translation / rotation / scale triple.
type Transform struct {
	Translation Vec3
	Rotation    Quat
	Scale       Vec3
}

// Identity returns the identity transform.
func Identity() Transform {
	return Transform{Rotation: IdentityQuat, Scale: Vec3{1, 1, 1}}
}

// Then composes parent with child: the result maps child-local points into
// parent space. Non-uniform scale combined with rotation is approximated
// component-wise, which is exact for the uniform scales used by cameras.
func (parent Transform) Then(child Transform) Transform {
	return Transform{
		Translation: parent.Translation.Add(parent.Rotation.Rotate(child.Translation.Mul(parent.Scale))),
		Rotation:    parent.Rotation.Mul(child.Rotation),
		Scale:       parent.Scale.Mul(child.Scale),
	}
}

// Decompose splits a column-major 4x4 matrix (glTF layout) into TRS.
func Decompose(m [16]float32) Transform {
	col := func(i int) Vec3 { return Vec3{m[i*4], m[i*4+1], m[i*4+2]} }
	sx, sy, sz := col(0).Len(), col(1).Len(), col(2).Len()
	// a negative determinant means one axis is mirrored
	if col(0).Cross(col(1)).Dot(col(2)) < 0 {
		sx = -sx
	}
	t := Transform{
		Translation: Vec3{m[12], m[13], m[14]},
		Scale:       Vec3{sx, sy, sz},
		Rotation:    IdentityQuat,
	}
	if sx == 0 || sy == 0 || sz == 0 {
		return t
	}
	c0, c1, c2 := col(0).Scale(1/sx), col(1).Scale(1/sy), col(2).Scale(1/sz)
	t.Rotation = Mat3{
		{c0.X, c1.X, c2.X},
		{c0.Y, c1.Y, c2.Y},
		{c0.Z, c1.Z, c2.Z},
	}.Quat()
	return t
}

// ApproxEqual reports whether a and b differ by at most eps on every axis.
func ApproxEqual(a, b Vec3, eps float32) bool {
	return math32.Abs(a.X-b.X) <= eps && math32.Abs(a.Y-b.Y) <= eps && math32.Abs(a.Z-b.Z) <= eps
}
