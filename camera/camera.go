// Copyright (c) 2019, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package camera provides the viewer's interactive orbit camera and
// the extraction of camera extrinsics from it.
package camera

import (
	"cogentcore.org/xrviewer/math32"
)

const (
	// DefaultFOV is the default field of view in degrees.
	DefaultFOV = 60

	// LowerRadius is the closest the camera can get to its target.
	LowerRadius = 0.1

	// betaLimit keeps the camera off the poles, where the up
	// direction is undefined.
	betaLimit = 0.001
)

// Camera is an orbit camera looking at a target from a position on
// a sphere around it, given by the azimuth Alpha, the polar angle Beta
// (from +Y) and the Radius. It must only be used on the frame loop.
type Camera struct {

	// overall orientation and direction of the camera, relative to pointing at negative Z axis with up (positive Y) direction
	Pose Pose

	// target location for the camera: where it is pointing at. Defaults to the origin, but moves with panning movements.
	Target math32.Vector3

	// up direction for camera, which is positive Y
	UpDir math32.Vector3

	// field of view in degrees
	FOV float32

	// azimuth around the Y axis, in radians
	Alpha float32

	// polar angle from the Y axis, in radians
	Beta float32

	// distance from the target
	Radius float32

	viewChanged []func()
}

// New returns a new camera with [Camera.Defaults].
func New() *Camera {
	cm := &Camera{}
	cm.Defaults()
	return cm
}

// Defaults sets the default field of view and orbit.
func (cm *Camera) Defaults() {
	cm.FOV = DefaultFOV
	cm.UpDir = math32.Vector3Y
	cm.Target = math32.Vector3Zero
	cm.SetOrbit(-math32.Pi/3, math32.Pi/3, 10)
}

// OnViewChanged adds a function called whenever the view matrix changes.
func (cm *Camera) OnViewChanged(fn func()) {
	cm.viewChanged = append(cm.viewChanged, fn)
}

func (cm *Camera) sendViewChanged() {
	for _, fn := range cm.viewChanged {
		fn()
	}
}

// SetOrbit places the camera at the given orbit around the target.
func (cm *Camera) SetOrbit(alpha, beta, radius float32) {
	cm.Alpha = alpha
	cm.Beta = math32.Clamp(beta, betaLimit, math32.Pi-betaLimit)
	cm.Radius = max(radius, LowerRadius)
	cm.UpdatePose()
}

// UpdatePose recomputes the pose from the orbit, and reports the view change.
func (cm *Camera) UpdatePose() {
	sb := math32.Sin(cm.Beta)
	off := math32.Vec3(math32.Cos(cm.Alpha)*sb, math32.Cos(cm.Beta), math32.Sin(cm.Alpha)*sb)
	cm.Pose.Pos = cm.Target.Add(off.MulScalar(cm.Radius))
	cm.Pose.LookAt(cm.Target, cm.UpDir)
	cm.Pose.UpdateMatrix()
	cm.sendViewChanged()
}

// Orbit rotates the camera around the target by the given angles in
// degrees (delX = left/right, delY = up/down), keeping the same distance.
func (cm *Camera) Orbit(delX, delY float32) {
	cm.SetOrbit(cm.Alpha+math32.DegToRad(delX), cm.Beta+math32.DegToRad(delY), cm.Radius)
}

// Pan moves the camera along the given 2D axes (left/right, up/down),
// relative to the current view, and it moves the target by the same
// increment.
func (cm *Camera) Pan(delX, delY float32) {
	dx := math32.Vec3(-delX, 0, 0).MulQuat(cm.Pose.Quat)
	dy := math32.Vec3(0, -delY, 0).MulQuat(cm.Pose.Quat)
	cm.Target = cm.Target.Add(dx.Add(dy))
	cm.UpdatePose()
}

// Zoom moves the camera the given fraction of its distance further
// from (positive) or closer to (negative) the target, stopping at [LowerRadius].
func (cm *Camera) Zoom(zoomPct float32) {
	cm.SetOrbit(cm.Alpha, cm.Beta, cm.Radius*(1+zoomPct))
}

// LookAt moves the target to the given location, keeping the camera position.
func (cm *Camera) LookAt(target math32.Vector3) {
	cm.Target = target
	cm.SetPose(cm.Pose.Pos)
}

// SetPose moves the camera to the given position, still looking at the target.
func (cm *Camera) SetPose(pos math32.Vector3) {
	dir := pos.Sub(cm.Target)
	r := dir.Length()
	if r == 0 {
		cm.SetOrbit(cm.Alpha, cm.Beta, LowerRadius)
		return
	}
	cm.SetOrbit(math32.Atan2(dir.Z, dir.X), math32.Acos(math32.Clamp(dir.Y/r, -1, 1)), r)
}

// SnapToAxis looks at the target along the given world axis:
// "x", "-x", "y", "-y", "z" or "-z", as chosen on the axes gizmo.
// It returns false for any other id.
func (cm *Camera) SnapToAxis(id string) bool {
	var alpha, beta float32
	switch id {
	case "x":
		alpha, beta = 0, math32.Pi/2
	case "-x":
		alpha, beta = -math32.Pi, math32.Pi/2
	case "y":
		alpha, beta = -math32.Pi/2, 0
	case "-y":
		alpha, beta = -math32.Pi/2, math32.Pi
	case "z":
		alpha, beta = math32.Pi/2, math32.Pi/2
	case "-z":
		alpha, beta = -math32.Pi/2, math32.Pi/2
	default:
		return false
	}
	cm.SetOrbit(alpha, beta, cm.Radius)
	return true
}

// SetFOV sets the field of view in degrees. It changes only the
// projection, so it does not report a view change.
func (cm *Camera) SetFOV(fov float32) {
	cm.FOV = fov
}

// WorldMatrix returns the transform of the camera into world space.
func (cm *Camera) WorldMatrix() math32.Matrix4 {
	cm.Pose.UpdateMatrix()
	return cm.Pose.Matrix
}

// ViewMatrix returns the view matrix, the inverse of the world matrix.
func (cm *Camera) ViewMatrix() math32.Matrix4 {
	wm := cm.WorldMatrix()
	return wm.Inverse()
}
