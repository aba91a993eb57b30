// Copyright 2019 Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Initially copied from G3N: github.com/g3n/engine/math32
// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
// with modifications needed to suit viewer functionality.

package math32

// Matrix4 is 4x4 matrix organized internally as column matrix.
type Matrix4 [16]float32

// Identity4 returns a new identity [Matrix4] matrix.
func Identity4() Matrix4 {
	return Matrix4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// SetIdentity sets this matrix as the identity matrix.
func (m *Matrix4) SetIdentity() {
	*m = Identity4()
}

// At returns the element at the given row and column.
func (m *Matrix4) At(row, col int) float32 {
	return m[col*4+row]
}

// SetFromMatrix3 sets this matrix to a pure rotation
// with the given upper-left 3x3 matrix.
func (m *Matrix4) SetFromMatrix3(src *Matrix3) {
	*m = Matrix4{
		src[0], src[1], src[2], 0,
		src[3], src[4], src[5], 0,
		src[6], src[7], src[8], 0,
		0, 0, 0, 1,
	}
}

// Pos returns the translation part of this matrix.
func (m *Matrix4) Pos() Vector3 {
	return Vector3{m[12], m[13], m[14]}
}

// SetRotationFromQuat sets this matrix to a pure rotation matrix
// from the specified quaternion.
func (m *Matrix4) SetRotationFromQuat(q Quat) {
	m.SetTransform(Vector3{}, q, Vector3{1, 1, 1})
}

// SetTransform sets this matrix to a transformation matrix for the specified position,
// rotation specified by the quaternion and scale.
func (m *Matrix4) SetTransform(pos Vector3, quat Quat, scale Vector3) {
	x := quat.X
	y := quat.Y
	z := quat.Z
	w := quat.W

	x2 := x + x
	y2 := y + y
	z2 := z + z
	xx := x * x2
	xy := x * y2
	xz := x * z2
	yy := y * y2
	yz := y * z2
	zz := z * z2
	wx := w * x2
	wy := w * y2
	wz := w * z2

	m[0] = (1 - (yy + zz)) * scale.X
	m[1] = (xy + wz) * scale.X
	m[2] = (xz - wy) * scale.X
	m[3] = 0
	m[4] = (xy - wz) * scale.Y
	m[5] = (1 - (xx + zz)) * scale.Y
	m[6] = (yz + wx) * scale.Y
	m[7] = 0
	m[8] = (xz + wy) * scale.Z
	m[9] = (yz - wx) * scale.Z
	m[10] = (1 - (xx + yy)) * scale.Z
	m[11] = 0
	m[12] = pos.X
	m[13] = pos.Y
	m[14] = pos.Z
	m[15] = 1
}

// Decompose updates the position vector, quaternion and scale from this transformation matrix.
func (m *Matrix4) Decompose() (pos Vector3, quat Quat, scale Vector3) {
	sx := Vector3{m[0], m[1], m[2]}.Length()
	sy := Vector3{m[4], m[5], m[6]}.Length()
	sz := Vector3{m[8], m[9], m[10]}.Length()

	// If determinant is negative, we need to invert one scale
	if m.Determinant() < 0 {
		sx = -sx
	}

	pos = m.Pos()

	// Scale the rotation part
	rot := *m
	if sx != 0 {
		rot[0] /= sx
		rot[1] /= sx
		rot[2] /= sx
	}
	if sy != 0 {
		rot[4] /= sy
		rot[5] /= sy
		rot[6] /= sy
	}
	if sz != 0 {
		rot[8] /= sz
		rot[9] /= sz
		rot[10] /= sz
	}

	quat.SetFromRotationMatrix(&rot)
	scale = Vector3{sx, sy, sz}
	return
}

// Determinant calculates and returns the determinant of this matrix.
func (m *Matrix4) Determinant() float32 {
	n11 := m[0]
	n12 := m[4]
	n13 := m[8]
	n14 := m[12]
	n21 := m[1]
	n22 := m[5]
	n23 := m[9]
	n24 := m[13]
	n31 := m[2]
	n32 := m[6]
	n33 := m[10]
	n34 := m[14]
	n41 := m[3]
	n42 := m[7]
	n43 := m[11]
	n44 := m[15]

	return n41*(+n14*n23*n32-n13*n24*n32-n14*n22*n33+n12*n24*n33+n13*n22*n34-n12*n23*n34) +
		n42*(+n11*n23*n34-n11*n24*n33+n14*n21*n33-n13*n21*n34+n13*n24*n31-n14*n23*n31) +
		n43*(+n11*n24*n32-n11*n22*n34-n14*n21*n32+n12*n21*n34+n14*n22*n31-n12*n24*n31) +
		n44*(-n13*n22*n31-n11*n23*n32+n11*n22*n33+n13*n21*n32-n12*n21*n33+n12*n23*n31)
}

// SetInverse sets this matrix to the inverse of the src matrix.
// If the src matrix cannot be inverted, this matrix is set to the identity.
func (m *Matrix4) SetInverse(src *Matrix4) {
	n11 := src[0]
	n21 := src[1]
	n31 := src[2]
	n41 := src[3]
	n12 := src[4]
	n22 := src[5]
	n32 := src[6]
	n42 := src[7]
	n13 := src[8]
	n23 := src[9]
	n33 := src[10]
	n43 := src[11]
	n14 := src[12]
	n24 := src[13]
	n34 := src[14]
	n44 := src[15]

	t11 := n23*n34*n42 - n24*n33*n42 + n24*n32*n43 - n22*n34*n43 - n23*n32*n44 + n22*n33*n44
	t12 := n14*n33*n42 - n13*n34*n42 - n14*n32*n43 + n12*n34*n43 + n13*n32*n44 - n12*n33*n44
	t13 := n13*n24*n42 - n14*n23*n42 + n14*n22*n43 - n12*n24*n43 - n13*n22*n44 + n12*n23*n44
	t14 := n14*n23*n32 - n13*n24*n32 - n14*n22*n33 + n12*n24*n33 + n13*n22*n34 - n12*n23*n34

	det := n11*t11 + n21*t12 + n31*t13 + n41*t14
	if det == 0 {
		m.SetIdentity()
		return
	}
	detInv := 1 / det

	m[0] = t11 * detInv
	m[1] = (n24*n33*n41 - n23*n34*n41 - n24*n31*n43 + n21*n34*n43 + n23*n31*n44 - n21*n33*n44) * detInv
	m[2] = (n22*n34*n41 - n24*n32*n41 + n24*n31*n42 - n21*n34*n42 - n22*n31*n44 + n21*n32*n44) * detInv
	m[3] = (n23*n32*n41 - n22*n33*n41 - n23*n31*n42 + n21*n33*n42 + n22*n31*n43 - n21*n32*n43) * detInv

	m[4] = t12 * detInv
	m[5] = (n13*n34*n41 - n14*n33*n41 + n14*n31*n43 - n11*n34*n43 - n13*n31*n44 + n11*n33*n44) * detInv
	m[6] = (n14*n32*n41 - n12*n34*n41 - n14*n31*n42 + n11*n34*n42 + n12*n31*n44 - n11*n32*n44) * detInv
	m[7] = (n12*n33*n41 - n13*n32*n41 + n13*n31*n42 - n11*n33*n42 - n12*n31*n43 + n11*n32*n43) * detInv

	m[8] = t13 * detInv
	m[9] = (n14*n23*n41 - n13*n24*n41 - n14*n21*n43 + n11*n24*n43 + n13*n21*n44 - n11*n23*n44) * detInv
	m[10] = (n12*n24*n41 - n14*n22*n41 + n14*n21*n42 - n11*n24*n42 - n12*n21*n44 + n11*n22*n44) * detInv
	m[11] = (n13*n22*n41 - n12*n23*n41 - n13*n21*n42 + n11*n23*n42 + n12*n21*n43 - n11*n22*n43) * detInv

	m[12] = t14 * detInv
	m[13] = (n13*n24*n31 - n14*n23*n31 + n14*n21*n33 - n11*n24*n33 - n13*n21*n34 + n11*n23*n34) * detInv
	m[14] = (n14*n22*n31 - n12*n24*n31 - n14*n21*n32 + n11*n24*n32 + n12*n21*n34 - n11*n22*n34) * detInv
	m[15] = (n12*n23*n31 - n13*n22*n31 + n13*n21*n32 - n11*n23*n32 - n12*n21*n33 + n11*n22*n33) * detInv
}

// Inverse returns the inverse of this matrix.
func (m *Matrix4) Inverse() Matrix4 {
	nm := Matrix4{}
	nm.SetInverse(m)
	return nm
}

// MulMatrices sets this matrix as the multiplication of a by b (a * b).
func (m *Matrix4) MulMatrices(a, b *Matrix4) {
	r := Matrix4{}
	for c := range 4 {
		for rw := range 4 {
			var sum float32
			for k := range 4 {
				sum += a[k*4+rw] * b[c*4+k]
			}
			r[c*4+rw] = sum
		}
	}
	*m = r
}

// SetLookAt sets this matrix to a rotation matrix oriented from
// the eye position toward the target, with the given up direction.
// The resulting -Z axis points from eye to target.
func (m *Matrix4) SetLookAt(eye, target, up Vector3) {
	z := eye.Sub(target)
	if z.IsNil() {
		z.Z = 1
	}
	z = z.Normal()
	x := up.Cross(z)
	if x.Length() == 0 {
		// up and z are parallel
		if Abs(up.Z) == 1 {
			z.X += 0.0001
		} else {
			z.Z += 0.0001
		}
		z = z.Normal()
		x = up.Cross(z)
	}
	x = x.Normal()
	y := z.Cross(x)

	m.SetIdentity()
	m[0] = x.X
	m[4] = y.X
	m[8] = z.X
	m[1] = x.Y
	m[5] = y.Y
	m[9] = z.Y
	m[2] = x.Z
	m[6] = y.Z
	m[10] = z.Z
}

// EulerAngles returns the Euler angles (radians, XYZ order) of the
// rotation part of this matrix, which must be unscaled.
func (m *Matrix4) EulerAngles() Vector3 {
	m11 := m[0]
	m12 := m[4]
	m13 := m[8]
	m22 := m[5]
	m23 := m[9]
	m32 := m[6]
	m33 := m[10]

	rot := Vector3{}
	rot.Y = Asin(Clamp(m13, -1, 1))
	if Abs(m13) < 0.9999999 {
		rot.X = Atan2(-m23, m33)
		rot.Z = Atan2(-m12, m11)
	} else {
		rot.X = Atan2(m32, m22)
		rot.Z = 0
	}
	return rot
}
