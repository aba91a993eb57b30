// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package camera

import (
	"fmt"

	"cogentcore.org/xrviewer/math32"
)

// Source is a scene camera that can report its world and view matrices.
type Source interface {
	WorldMatrix() math32.Matrix4
	ViewMatrix() math32.Matrix4
}

// Extrinsics are the world-space position and orientation of a camera.
type Extrinsics struct {

	// Translation is the world position.
	Translation [3]float32

	// Rotation is the 3x3 rotation matrix of the view orientation,
	// flattened row by row.
	Rotation [9]float32
}

// Extract returns the extrinsics of the given camera: the translation
// of its world matrix and the rotation of its view matrix.
// The rotation is the matrix R that rotates column vectors (v' = R v),
// flattened row by row. Clients that flatten a row-vector matrix, as
// Babylon.js does with toRotationMatrix, send the transpose of this for
// any rotation other than the identity; backends shared with such
// clients must transpose one of the two.
func Extract(src Source) Extrinsics {
	wm := src.WorldMatrix()
	pos, _, _ := wm.Decompose()
	vm := src.ViewMatrix()
	_, quat, _ := vm.Decompose()
	rot := math32.Matrix3{}
	rot.SetFromQuat(quat)
	return Extrinsics{Translation: pos.ToArray(), Rotation: rot.RowMajor()}
}

// EulerDegrees returns the rotation as XYZ Euler angles in degrees.
func (ex Extrinsics) EulerDegrees() math32.Vector3 {
	var rows [3][3]float32
	for r := range 3 {
		copy(rows[r][:], ex.Rotation[r*3:r*3+3])
	}
	q := math32.NewQuatFromMatrix3(math32.Matrix3FromRows(rows))
	return q.ToEuler().MulScalar(math32.RadToDegFactor)
}

func (ex Extrinsics) String() string {
	e := ex.EulerDegrees()
	return fmt.Sprintf("T: (%.2f, %.2f, %.2f) R: (%.2f, %.2f, %.2f)",
		ex.Translation[0], ex.Translation[1], ex.Translation[2], e.X, e.Y, e.Z)
}
