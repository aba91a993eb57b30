// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"testing"
	"time"

	"cogentcore.org/xrviewer/loop"
	"cogentcore.org/xrviewer/math32"
	"cogentcore.org/xrviewer/motion"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisposeRecursive(t *testing.T) {
	sc := NewHeadless()
	root := sc.NewGroup("cam", nil)
	meshes := sc.NewGroup("meshes_root", root)
	_, err := sc.NewModel(CameraModel, "model", meshes)
	require.NoError(t, err)
	sc.NewAxes("axes", 0.4, root)
	label := sc.NewLabel("cam", "cam", meshes)
	sc.NewMarker("cam", meshes)
	sc.NewConnector("cam", label, meshes)
	other := sc.NewGroup("other", nil)

	assert.Equal(t, 5, sc.NumObjects())
	assert.Len(t, sc.Controls("cam"), 3)

	root.Dispose()
	assert.True(t, root.IsDisposed())
	assert.True(t, label.IsDisposed())
	assert.Equal(t, 1, sc.NumObjects())
	assert.Empty(t, sc.Controls(""))
	assert.Equal(t, []*Object{other.(*Object)}, sc.Roots())

	root.Dispose() // no-op
	assert.Equal(t, 1, sc.NumObjects())
}

func TestUnknownModel(t *testing.T) {
	sc := NewHeadless()
	_, err := sc.NewModel("Missing.glb", "m", nil)
	assert.Error(t, err)
	assert.Zero(t, sc.NumObjects())
}

func TestWorldMatrix(t *testing.T) {
	sc := NewHeadless()
	root := sc.NewGroup("root", nil)
	root.SetPosition(math32.Vec3(1, 2, 3))
	root.SetRotation(math32.NewQuatAxisAngle(math32.Vector3Z, math32.Pi/2))
	child := sc.NewGroup("child", root)
	child.SetPosition(math32.Vec3(1, 0, 0))

	m := child.WorldMatrix()
	pos, _, _ := m.Decompose()
	assert.InDelta(t, 1, pos.X, 1e-5)
	assert.InDelta(t, 3, pos.Y, 1e-5)
	assert.InDelta(t, 3, pos.Z, 1e-5)
}

func TestVisibility(t *testing.T) {
	sc := NewHeadless()
	root := sc.NewGroup("root", nil).(*Object)
	child := sc.NewGroup("child", root).(*Object)
	assert.True(t, child.IsShown())
	root.SetEnabled(false)
	assert.True(t, child.IsEnabled())
	assert.False(t, child.IsShown())
}

func TestBodyAnimation(t *testing.T) {
	sc := NewHeadless()
	b, err := sc.NewBody(&motion.Clip{Name: "walk", Meshes: []string{"body"}, To: 100})
	require.NoError(t, err)
	anim := b.Animation()
	anim.Play()
	sc.OnFrame(loop.Frame{Delta: time.Second / 6})
	assert.InDelta(t, 10, anim.CurrentFrame(), 1e-9)
	assert.Len(t, sc.Bodies(), 1)

	b.Dispose()
	assert.Empty(t, sc.Bodies())
	assert.Nil(t, b.Animation())

	_, err = sc.NewBody(&motion.Clip{Name: "empty"})
	assert.Error(t, err)
}
