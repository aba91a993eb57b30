// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package reload

import (
	"testing"

	"cogentcore.org/xrviewer/calib"
	"cogentcore.org/xrviewer/loop"
	"cogentcore.org/xrviewer/math32"
	"cogentcore.org/xrviewer/scene"
	"cogentcore.org/xrviewer/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var identity = [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}

func record(name string) calib.Record {
	return calib.Record{Name: name, ExtrinsicR: identity}
}

func newCameraStager(t *testing.T) (*CameraStager, *scene.Headless, *state.Store) {
	sc := scene.NewHeadless()
	store := state.NewStore()
	return NewCameraStager(sc, store), sc, store
}

func rootNames(sc *scene.Headless) []string {
	var names []string
	for _, ob := range sc.Roots() {
		names = append(names, ob.Name())
	}
	return names
}

func TestReloadReplacesRigs(t *testing.T) {
	cs, sc, store := newCameraStager(t)
	require.NoError(t, store.LoadCameraParams([]calib.Record{record("a"), record("b"), record("c")}))
	cs.OnFrame(loop.Frame{})
	assert.Len(t, cs.Rigs(), 3)
	assert.Equal(t, []string{"a", "b", "c"}, rootNames(sc))
	assert.False(t, store.Get().CameraReloadFlag)

	require.NoError(t, store.LoadCameraParams([]calib.Record{record("d"), record("e")}))
	cs.OnFrame(loop.Frame{})
	assert.Len(t, cs.Rigs(), 2)
	assert.Equal(t, []string{"d", "e"}, rootNames(sc))
	// root, meshes_root, model, axes_root and axes per rig
	assert.Equal(t, 10, sc.NumObjects())
	assert.Len(t, sc.Controls(""), 6)
	assert.Nil(t, cs.Rig("a"))
	assert.False(t, store.Get().CameraReloadFlag)

	// no reload without the flag
	cs.OnFrame(loop.Frame{})
	assert.Equal(t, 10, sc.NumObjects())
}

func TestReloadLastUploadWins(t *testing.T) {
	cs, sc, store := newCameraStager(t)
	require.NoError(t, store.LoadCameraParams([]calib.Record{record("a"), record("b"), record("c")}))
	require.NoError(t, store.LoadCameraParams([]calib.Record{record("d"), record("e")}))
	cs.OnFrame(loop.Frame{})
	assert.Len(t, cs.Rigs(), 2)
	assert.Equal(t, []string{"d", "e"}, rootNames(sc))
	assert.Equal(t, 10, sc.NumObjects())
	assert.False(t, store.Get().CameraReloadFlag)
}

func TestReloadEmpty(t *testing.T) {
	cs, sc, store := newCameraStager(t)
	require.NoError(t, store.LoadCameraParams([]calib.Record{record("a")}))
	cs.OnFrame(loop.Frame{})
	require.NoError(t, store.LoadCameraParams(nil))
	cs.OnFrame(loop.Frame{})
	assert.Empty(t, cs.Rigs())
	assert.Zero(t, sc.NumObjects())
	assert.Empty(t, sc.Controls(""))
}

func TestRigStructure(t *testing.T) {
	cs, sc, store := newCameraStager(t)
	rec := calib.Record{Name: "cam", ExtrinsicR: identity, ExtrinsicT: [3]float64{1, 2, 3}}
	require.NoError(t, store.LoadCameraParams([]calib.Record{rec}))
	cs.OnFrame(loop.Frame{})

	root := sc.Root("cam")
	require.NotNil(t, root)
	meshes := root.Child("meshes_root")
	require.NotNil(t, meshes)
	model := meshes.Child("cam_model")
	require.NotNil(t, model)
	assert.Equal(t, scene.CameraModel, model.Asset)
	axesRoot := root.Child("axes_root")
	require.NotNil(t, axesRoot)
	axes := axesRoot.Child("cam_axes")
	require.NotNil(t, axes)
	assert.Equal(t, float32(AxesSize), axes.Size)
	assert.Equal(t, math32.Vec3(1, 2, 3), root.Position())
	assert.True(t, meshes.Rotation().IsIdentity())

	ws := sc.Controls("cam")
	require.Len(t, ws, 3)
	for _, w := range ws {
		assert.Same(t, meshes, w.Link)
	}
	rig := cs.Rig("cam")
	require.NotNil(t, rig)
	assert.Contains(t, rig.Label.Text(), "cam\nT: (1.00, 2.00, 3.00)\nR: (")
	assert.Same(t, rig.Label, sc.Controls("cam")[2].From)
}

func TestRigRotation(t *testing.T) {
	sc := scene.NewHeadless()
	rec := calib.Record{Name: "cam", ExtrinsicR: [3][3]float64{{0, -1, 0}, {1, 0, 0}, {0, 0, 1}}}
	rig, err := Spawn(sc, scene.CameraModel, rec)
	require.NoError(t, err)

	v := math32.Vec3(1, 0, 0).MulQuat(rig.Root.Rotation())
	assert.InDelta(t, 0, v.X, 1e-5)
	assert.InDelta(t, 1, v.Y, 1e-5)
	assert.InDelta(t, 0, v.Z, 1e-5)
	assert.Contains(t, rig.Label.Text(), "90.0)")
}

func TestRigOpenCV(t *testing.T) {
	sc := scene.NewHeadless()
	rec := record("cv")
	rec.Convention = calib.OpenCV
	rig, err := Spawn(sc, scene.CameraModel, rec)
	require.NoError(t, err)

	v := math32.Vec3(1, 0, 0).MulQuat(rig.Meshes.Rotation())
	assert.InDelta(t, -1, v.X, 1e-5)
	assert.InDelta(t, 0, v.Y, 1e-5)
	assert.True(t, rig.Axes.Rotation().IsIdentity())
}

func TestSpawnUnknownModel(t *testing.T) {
	sc := scene.NewHeadless()
	_, err := Spawn(sc, "Missing.glb", record("cam"))
	assert.Error(t, err)
	assert.Zero(t, sc.NumObjects())
}

func TestVisibility(t *testing.T) {
	cs, sc, store := newCameraStager(t)
	require.NoError(t, store.LoadCameraParams([]calib.Record{record("a"), record("b")}))
	cs.OnFrame(loop.Frame{})

	a := cs.Rig("a")
	assert.True(t, a.Root.IsEnabled())
	assert.False(t, a.Label.IsVisible())
	assert.False(t, a.Marker.IsVisible())

	require.NoError(t, store.SetCameraVisibility("a", state.VisibilityEntry{MeshVisible: false, LabelVisible: true}))
	cs.OnFrame(loop.Frame{})
	assert.False(t, a.Root.IsEnabled())
	assert.False(t, sc.Root("a").Child("meshes_root").IsShown())
	assert.True(t, a.Label.IsVisible())
	assert.True(t, a.Marker.IsVisible())
	assert.True(t, a.Connector.IsVisible())
	b := cs.Rig("b")
	assert.True(t, b.Root.IsEnabled())
	assert.False(t, b.Label.IsVisible())

	store.SetAllLabelVisible(true)
	cs.OnFrame(loop.Frame{})
	assert.True(t, b.Label.IsVisible())

	store.SetAllMeshVisible(true)
	cs.OnFrame(loop.Frame{})
	assert.True(t, a.Root.IsEnabled())
}

func TestVisibilityAfterReload(t *testing.T) {
	cs, _, store := newCameraStager(t)
	require.NoError(t, store.LoadCameraParams([]calib.Record{record("a")}))
	cs.OnFrame(loop.Frame{})
	store.SetAllLabelVisible(true)
	cs.OnFrame(loop.Frame{})

	// a new calibration starts from the default visibility
	require.NoError(t, store.LoadCameraParams([]calib.Record{record("a")}))
	cs.OnFrame(loop.Frame{})
	a := cs.Rig("a")
	assert.True(t, a.Root.IsEnabled())
	assert.False(t, a.Label.IsVisible())
}
