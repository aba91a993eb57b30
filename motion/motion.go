// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package motion reads uploaded body-motion assets (glTF / GLB
// files holding a mesh and its animation) and models their playback.
package motion

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/qmuntal/gltf"
)

// FPS is the frame rate animation times are converted to frames with.
const FPS = 60

// Clip summarizes a loaded body-motion asset.
type Clip struct {

	// Path is the file the clip was loaded from.
	Path string

	// Name is the name of the animation, or the file name if it has none.
	Name string

	// Meshes are the names of the meshes in the asset.
	Meshes []string

	// From is the first frame of the animation.
	From float64

	// To is the last frame of the animation.
	To float64
}

// LoadError is a body-motion asset that could not be loaded.
type LoadError struct {
	Path   string
	Reason string
	Err    error
}

func (e *LoadError) Error() string {
	s := "motion: " + e.Path + ": " + e.Reason
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *LoadError) Unwrap() error { return e.Err }

// Load opens the given glTF or GLB file and returns its clip.
// The frame range comes from the first animation: its keyframe
// times, in seconds, are converted to frames at [FPS].
func Load(path string) (*Clip, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Reason: "open failed", Err: err}
	}
	return FromDocument(path, doc)
}

// FromDocument returns the clip of an already decoded document.
func FromDocument(path string, doc *gltf.Document) (*Clip, error) {
	if len(doc.Meshes) == 0 {
		return nil, &LoadError{Path: path, Reason: "no mesh"}
	}
	if len(doc.Animations) == 0 {
		return nil, &LoadError{Path: path, Reason: "no animation"}
	}
	clip := &Clip{Path: path, Name: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))}
	for i, m := range doc.Meshes {
		name := m.Name
		if name == "" {
			name = fmt.Sprintf("mesh%d", i)
		}
		clip.Meshes = append(clip.Meshes, name)
	}
	anim := doc.Animations[0]
	if anim.Name != "" {
		clip.Name = anim.Name
	}
	if len(anim.Samplers) == 0 {
		return nil, &LoadError{Path: path, Reason: "animation has no samplers"}
	}
	first := true
	for i, s := range anim.Samplers {
		in := int(s.Input)
		if in < 0 || in >= len(doc.Accessors) {
			return nil, &LoadError{Path: path, Reason: fmt.Sprintf("sampler %d: input accessor %d out of range", i, in)}
		}
		acc := doc.Accessors[in]
		if len(acc.Max) == 0 {
			return nil, &LoadError{Path: path, Reason: fmt.Sprintf("sampler %d: input accessor %d has no max", i, in)}
		}
		lo := 0.0
		if len(acc.Min) > 0 {
			lo = float64(acc.Min[0])
		}
		hi := float64(acc.Max[0])
		if first || lo < clip.From/FPS {
			clip.From = lo * FPS
		}
		if first || hi > clip.To/FPS {
			clip.To = hi * FPS
		}
		first = false
	}
	if clip.To < clip.From {
		return nil, &LoadError{Path: path, Reason: "animation ends before it starts"}
	}
	return clip, nil
}
