// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package camera

import (
	"testing"

	"cogentcore.org/xrviewer/math32"
	"github.com/stretchr/testify/assert"
)

const tol = 1e-4

// fixed is a camera with a directly set pose.
type fixed struct {
	pose Pose
}

func newFixed(pos math32.Vector3, q math32.Quat) *fixed {
	f := &fixed{pose: Pose{Pos: pos, Quat: q}}
	f.pose.UpdateMatrix()
	return f
}

func (f *fixed) WorldMatrix() math32.Matrix4 { return f.pose.Matrix }

func (f *fixed) ViewMatrix() math32.Matrix4 {
	m := f.pose.Matrix
	return m.Inverse()
}

func assertArray(t *testing.T, want, got []float32) {
	t.Helper()
	assert.InDeltaSlice(t, want, got, tol)
}

func vec(v math32.Vector3) []float32 {
	a := v.ToArray()
	return a[:]
}

func TestExtractIdentity(t *testing.T) {
	ex := Extract(newFixed(math32.Vec3(0, 0, -10), math32.NewQuatIdentity()))
	assertArray(t, []float32{0, 0, -10}, ex.Translation[:])
	assertArray(t, []float32{1, 0, 0, 0, 1, 0, 0, 0, 1}, ex.Rotation[:])
}

func TestExtractKnownRotation(t *testing.T) {
	// the camera is turned -90 degrees about Z, so its view
	// orientation is +90 degrees about Z: x maps onto y
	q := math32.NewQuatAxisAngle(math32.Vector3Z, -math32.Pi/2)
	ex := Extract(newFixed(math32.Vec3(1, 2, 3), q))
	assertArray(t, []float32{1, 2, 3}, ex.Translation[:])
	assertArray(t, []float32{0, -1, 0, 1, 0, 0, 0, 0, 1}, ex.Rotation[:])
}

func TestExtrinsicsEuler(t *testing.T) {
	ex := Extrinsics{Rotation: [9]float32{0, -1, 0, 1, 0, 0, 0, 0, 1}}
	e := ex.EulerDegrees()
	assert.InDelta(t, 0, e.X, tol)
	assert.InDelta(t, 0, e.Y, tol)
	assert.InDelta(t, 90, e.Z, tol)
	assert.Equal(t, "T: (0.00, 0.00, 0.00) R: (0.00, 0.00, 90.00)", ex.String())
}

func TestDefaults(t *testing.T) {
	cm := New()
	assert.Equal(t, float32(60), cm.FOV)
	assert.InDelta(t, 10, cm.Pose.Pos.Length(), tol)

	// the camera looks at the origin: its forward axis (-Z) points there
	fwd := math32.Vec3(0, 0, -1).MulQuat(cm.Pose.Quat)
	toTarget := cm.Target.Sub(cm.Pose.Pos).Normal()
	assert.InDelta(t, 1, fwd.Dot(toTarget), tol)
}

func TestViewChanged(t *testing.T) {
	cm := New()
	n := 0
	cm.OnViewChanged(func() { n++ })
	cm.Orbit(10, 5)
	cm.Pan(1, 0)
	cm.Zoom(-0.5)
	assert.Equal(t, 3, n)
	cm.SetFOV(45)
	assert.Equal(t, 3, n)
	assert.Equal(t, float32(45), cm.FOV)
}

func TestZoomLimit(t *testing.T) {
	cm := New()
	cm.Zoom(-2)
	assert.InDelta(t, LowerRadius, cm.Radius, 1e-6)
	assert.InDelta(t, LowerRadius, cm.Pose.Pos.Sub(cm.Target).Length(), tol)
}

func TestPanMovesTarget(t *testing.T) {
	cm := New()
	before := cm.Pose.Pos.Sub(cm.Target)
	cm.Pan(2, 1)
	assert.InDelta(t, 2.23607, cm.Target.Length(), tol)
	after := cm.Pose.Pos.Sub(cm.Target)
	assert.InDelta(t, before.X, after.X, tol)
	assert.InDelta(t, before.Y, after.Y, tol)
	assert.InDelta(t, before.Z, after.Z, tol)
}

func TestSnapToAxis(t *testing.T) {
	cm := New()
	assert.True(t, cm.SnapToAxis("x"))
	assertArray(t, []float32{10, 0, 0}, vec(cm.Pose.Pos))
	assert.True(t, cm.SnapToAxis("z"))
	assertArray(t, []float32{0, 0, 10}, vec(cm.Pose.Pos))
	assert.True(t, cm.SnapToAxis("-z"))
	assertArray(t, []float32{0, 0, -10}, vec(cm.Pose.Pos))
	assert.True(t, cm.SnapToAxis("y"))
	assert.InDelta(t, 10, cm.Pose.Pos.Y, 1e-3)
	assert.False(t, cm.SnapToAxis("w"))
}

func TestLookAt(t *testing.T) {
	cm := New()
	cm.SnapToAxis("z")
	cm.LookAt(math32.Vec3(0, 0, 5))
	assert.InDelta(t, 5, cm.Radius, tol)
	assertArray(t, []float32{0, 0, 10}, vec(cm.Pose.Pos))
}
