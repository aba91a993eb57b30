// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package motion

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/qmuntal/gltf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bodyGLTF is a minimal body asset: one mesh and a translation
// animation keyed from 0 to 2.5 seconds.
const bodyGLTF = `{
	"asset": {"version": "2.0"},
	"meshes": [{"name": "body", "primitives": [{"attributes": {"POSITION": 0}}]}],
	"nodes": [{"mesh": 0}],
	"accessors": [
		{"componentType": 5126, "count": 3, "type": "VEC3"},
		{"componentType": 5126, "count": 2, "type": "SCALAR", "min": [0], "max": [2.5]},
		{"componentType": 5126, "count": 2, "type": "VEC3"}
	],
	"animations": [{
		"name": "walk",
		"channels": [{"sampler": 0, "target": {"node": 0, "path": "translation"}}],
		"samplers": [{"input": 1, "output": 2}]
	}]
}`

func writeBody(t *testing.T, content string) string {
	p := filepath.Join(t.TempDir(), "body.gltf")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestLoad(t *testing.T) {
	clip, err := Load(writeBody(t, bodyGLTF))
	require.NoError(t, err)
	assert.Equal(t, "walk", clip.Name)
	assert.Equal(t, []string{"body"}, clip.Meshes)
	assert.Equal(t, 0.0, clip.From)
	assert.InDelta(t, 150, clip.To, 1e-9)
}

func TestLoadBinary(t *testing.T) {
	doc, err := gltf.Open(writeBody(t, bodyGLTF))
	require.NoError(t, err)
	glb := filepath.Join(t.TempDir(), "body.glb")
	require.NoError(t, gltf.SaveBinary(doc, glb))

	clip, err := Load(glb)
	require.NoError(t, err)
	assert.InDelta(t, 150, clip.To, 1e-9)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.glb"))
	var le *LoadError
	assert.ErrorAs(t, err, &le)

	_, err = Load(writeBody(t, `{"asset": {"version": "2.0"}}`))
	assert.ErrorContains(t, err, "no mesh")

	noMax := `{
		"asset": {"version": "2.0"},
		"meshes": [{"primitives": [{"attributes": {"POSITION": 0}}]}],
		"accessors": [
			{"componentType": 5126, "count": 3, "type": "VEC3"},
			{"componentType": 5126, "count": 2, "type": "SCALAR"}
		],
		"animations": [{"channels": [], "samplers": [{"input": 1, "output": 0}]}]
	}`
	_, err = Load(writeBody(t, noMax))
	assert.ErrorContains(t, err, "has no max")
}

func TestPlayer(t *testing.T) {
	p := NewPlayer(&Clip{From: 0, To: 100})
	assert.False(t, p.IsPlaying())
	p.Advance(time.Second)
	assert.Equal(t, 0.0, p.CurrentFrame())

	p.Play()
	p.Advance(500 * time.Millisecond)
	assert.InDelta(t, 30, p.CurrentFrame(), 1e-9)

	p.GoToFrame(40)
	assert.True(t, p.IsPlaying())
	p.Advance(time.Second / 60)
	assert.InDelta(t, 41, p.CurrentFrame(), 1e-9)

	p.GoToFrame(99)
	p.Advance(time.Second / 30)
	assert.InDelta(t, 1, p.CurrentFrame(), 1e-9)

	p.Pause()
	p.GoToFrame(500)
	assert.Equal(t, 100.0, p.CurrentFrame())
	p.GoToFrame(-5)
	assert.Equal(t, 0.0, p.CurrentFrame())
}
