// Copyright (c) 2019, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package camera

import "cogentcore.org/xrviewer/math32"

// Pose contains the full specification of position and orientation,
// in world space.
type Pose struct {

	// position of the camera
	Pos math32.Vector3

	// scale of the camera
	Scale math32.Vector3

	// rotation of the camera, relative to looking down the negative Z axis with +Y up
	Quat math32.Quat

	// Matrix is the world matrix, containing all position, rotation and scale information.
	Matrix math32.Matrix4
}

// Defaults sets defaults only if current values are nil
func (ps *Pose) Defaults() {
	if ps.Scale.IsNil() {
		ps.Scale.Set(1, 1, 1)
	}
	if ps.Quat.IsNil() {
		ps.Quat.SetIdentity()
	}
}

// UpdateMatrix updates the transform matrix based on its position, quaternion, and scale.
// Also checks for degenerate nil values
func (ps *Pose) UpdateMatrix() {
	ps.Defaults()
	ps.Matrix.SetTransform(ps.Pos, ps.Quat, ps.Scale)
}

// SetMatrix sets the transformation matrix and updates Pos, Scale, Quat.
func (ps *Pose) SetMatrix(m *math32.Matrix4) {
	ps.Matrix = *m
	ps.Pos, ps.Quat, ps.Scale = ps.Matrix.Decompose()
}

// LookAt points the element at given target location using given up direction.
func (ps *Pose) LookAt(target, upDir math32.Vector3) {
	m := math32.Matrix4{}
	m.SetLookAt(ps.Pos, target, upDir)
	ps.Quat.SetFromRotationMatrix(&m)
}

// EulerRotation returns the current rotation in Euler angles (degrees).
func (ps *Pose) EulerRotation() math32.Vector3 {
	return ps.Quat.ToEuler().MulScalar(math32.RadToDegFactor)
}
