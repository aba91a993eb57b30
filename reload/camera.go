// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package reload stages changes of the client state into the scene
// on each rendered frame: the camera rigs of the loaded calibration
// and the animated body mesh with its playback.
package reload

import (
	"log/slog"
	"maps"

	"cogentcore.org/xrviewer/loop"
	"cogentcore.org/xrviewer/scene"
	"cogentcore.org/xrviewer/state"
)

// CameraStager rebuilds the camera rigs when the calibration changes
// and keeps their visibility in sync with the client state.
type CameraStager struct {
	Scene scene.Scene
	Store *state.Store

	// Model is the asset shown for each camera.
	Model string

	rigs []*Rig

	// applied is the visibility last applied to the rigs.
	applied map[string]state.VisibilityEntry
}

// NewCameraStager returns a new stager for the given scene and store.
func NewCameraStager(sc scene.Scene, store *state.Store) *CameraStager {
	return &CameraStager{Scene: sc, Store: store, Model: scene.CameraModel}
}

// Rigs returns the rigs currently in the scene.
func (cs *CameraStager) Rigs() []*Rig { return cs.rigs }

// Rig returns the rig of the given camera, or nil.
func (cs *CameraStager) Rig(name string) *Rig {
	for _, r := range cs.rigs {
		if r.Name == name {
			return r
		}
	}
	return nil
}

// OnFrame is called before each frame is rendered.
func (cs *CameraStager) OnFrame(f loop.Frame) {
	st := cs.Store.Get()
	if st.CameraReloadFlag {
		cs.reload(st)
		cs.Store.ClearCameraReload()
		return
	}
	if state.VisibilityChanged(cs.applied, st.CameraGroupVisibility) {
		cs.applyVisibility(st)
	}
}

// reload disposes all current rigs and spawns one per loaded camera.
func (cs *CameraStager) reload(st *state.ClientState) {
	cs.Dispose()
	for _, rec := range st.CameraParams {
		rig, err := Spawn(cs.Scene, cs.Model, rec)
		if err != nil {
			slog.Error("spawning camera rig", "camera", rec.Name, "err", err)
			continue
		}
		cs.rigs = append(cs.rigs, rig)
	}
	slog.Info("camera rigs reloaded", "cameras", len(cs.rigs))
	cs.applyVisibility(st)
}

func (cs *CameraStager) applyVisibility(st *state.ClientState) {
	for _, r := range cs.rigs {
		r.SetVisibility(st.Visibility(r.Name))
	}
	cs.applied = maps.Clone(st.CameraGroupVisibility)
}

// Dispose removes all rigs from the scene.
func (cs *CameraStager) Dispose() {
	for _, r := range cs.rigs {
		r.Dispose()
	}
	cs.rigs = nil
}
