// Copyright 2019 Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package math32

// Matrix3 is a 3x3 matrix, organized column-major.
type Matrix3 [9]float32

// Identity3 returns a new identity [Matrix3] matrix.
func Identity3() Matrix3 {
	return Matrix3{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}
}

// Matrix3FromRows returns a [Matrix3] from its three rows.
func Matrix3FromRows(rows [3][3]float32) Matrix3 {
	m := Matrix3{}
	for r := range 3 {
		for c := range 3 {
			m[c*3+r] = rows[r][c]
		}
	}
	return m
}

// At returns the element at the given row and column.
func (m *Matrix3) At(row, col int) float32 {
	return m[col*3+row]
}

// SetFromMatrix4 sets the matrix elements based on the upper-left 3x3 of the given [Matrix4].
func (m *Matrix3) SetFromMatrix4(src *Matrix4) {
	*m = Matrix3{
		src[0], src[1], src[2],
		src[4], src[5], src[6],
		src[8], src[9], src[10],
	}
}

// SetFromQuat sets this matrix to the rotation encoded in the given quaternion.
func (m *Matrix3) SetFromQuat(q Quat) {
	m4 := Matrix4{}
	m4.SetRotationFromQuat(q)
	m.SetFromMatrix4(&m4)
}

// Transpose returns the transpose of this matrix.
func (m Matrix3) Transpose() Matrix3 {
	return Matrix3{
		m[0], m[3], m[6],
		m[1], m[4], m[7],
		m[2], m[5], m[8],
	}
}

// RowMajor returns the elements flattened row by row:
// [m00, m01, m02, m10, m11, m12, m20, m21, m22].
func (m Matrix3) RowMajor() [9]float32 {
	return [9]float32(m.Transpose())
}
