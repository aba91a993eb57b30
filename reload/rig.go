// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package reload

import (
	"fmt"

	"cogentcore.org/xrviewer/calib"
	"cogentcore.org/xrviewer/math32"
	"cogentcore.org/xrviewer/scene"
	"cogentcore.org/xrviewer/state"
)

const (
	// ModelScale is the scale of the camera model within a rig.
	ModelScale = 0.2

	// AxesSize is the size of the local axes of a rig.
	AxesSize = 0.4
)

// Rig is the scene representation of one calibrated camera: a root
// node placed at the camera pose, holding the camera model and its
// local axes, and a label, marker and connector linked to the model.
type Rig struct {
	Name string

	Root   scene.Node
	Meshes scene.Node
	Axes   scene.Node

	Label     scene.Control
	Marker    scene.Control
	Connector scene.Control
}

// Spawn constructs the rig of the given camera using the given model
// asset. Nothing is left in the scene if it fails.
func Spawn(sc scene.Scene, model string, rec calib.Record) (*Rig, error) {
	rig := &Rig{Name: rec.Name}
	rig.Root = sc.NewGroup(rec.Name, nil)
	rig.Meshes = sc.NewGroup("meshes_root", rig.Root)
	mesh, err := sc.NewModel(model, rec.Name+"_model", rig.Meshes)
	if err != nil {
		rig.Root.Dispose()
		return nil, fmt.Errorf("reload: camera %q: %w", rec.Name, err)
	}
	mesh.SetScale(math32.Vec3(ModelScale, ModelScale, ModelScale))
	rig.Axes = sc.NewGroup("axes_root", rig.Root)
	sc.NewAxes(rec.Name+"_axes", AxesSize, rig.Axes)

	rig.Root.SetRotation(extrinsicQuat(rec.ExtrinsicR))
	rig.Root.SetPosition(math32.Vec3(float32(rec.ExtrinsicT[0]), float32(rec.ExtrinsicT[1]), float32(rec.ExtrinsicT[2])))
	if rec.Convention == calib.OpenCV {
		rig.Meshes.SetRotation(math32.NewQuatEuler(math32.Vec3(0, 0, math32.Pi)))
	}

	rig.Label = sc.NewLabel(rec.Name, LabelText(rec.Name, rig.Root), rig.Meshes)
	rig.Marker = sc.NewMarker(rec.Name, rig.Meshes)
	rig.Connector = sc.NewConnector(rec.Name, rig.Label, rig.Meshes)
	return rig, nil
}

// extrinsicQuat returns the rotation of a camera-to-world rotation
// matrix given row by row.
func extrinsicQuat(r [3][3]float64) math32.Quat {
	var rows [3][3]float32
	for i := range 3 {
		for j := range 3 {
			rows[i][j] = float32(r[i][j])
		}
	}
	q := math32.NewQuatFromMatrix3(math32.Matrix3FromRows(rows))
	q.Normalize()
	return q
}

// LabelText returns the label of a rig: its name, position and
// rotation in Euler degrees.
func LabelText(name string, root scene.Node) string {
	p := root.Position()
	e := root.Rotation().ToEuler().MulScalar(math32.RadToDegFactor)
	return fmt.Sprintf("%s\nT: (%.2f, %.2f, %.2f)\nR: (%.1f, %.1f, %.1f)", name, p.X, p.Y, p.Z, e.X, e.Y, e.Z)
}

// SetVisibility shows or hides the rig. It can be applied any number
// of times.
func (r *Rig) SetVisibility(v state.VisibilityEntry) {
	r.Root.SetEnabled(v.MeshVisible)
	r.Label.SetVisible(v.LabelVisible)
	r.Marker.SetVisible(v.LabelVisible)
	r.Connector.SetVisible(v.LabelVisible)
}

// Dispose removes the rig and all of its parts from the scene.
func (r *Rig) Dispose() {
	r.Connector.Dispose()
	r.Marker.Dispose()
	r.Label.Dispose()
	r.Root.Dispose()
}
