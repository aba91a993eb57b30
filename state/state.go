// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package state provides the client state store: one versioned,
// copy-on-write snapshot of everything the viewer displays and
// sends, changed only through the transitions of [Store].
package state

import (
	"fmt"

	"cogentcore.org/xrviewer/calib"
	"cogentcore.org/xrviewer/render"
	"github.com/jinzhu/copier"
)

// RenderTypes are the kinds of image the backend can render.
type RenderTypes string

const (
	RGB     RenderTypes = "rgb"
	RGBMask RenderTypes = "rgb_mask"
	Depth   RenderTypes = "depth"
)

// RenderTypesValues returns all valid render types.
func RenderTypesValues() []RenderTypes { return []RenderTypes{RGB, RGBMask, Depth} }

// IsValid returns whether the render type is one of the known values.
func (r RenderTypes) IsValid() bool {
	switch r {
	case RGB, RGBMask, Depth:
		return true
	}
	return false
}

// Resolutions are the output height classes the backend renders at.
type Resolutions string

const (
	Res480  Resolutions = "480"
	Res720  Resolutions = "720"
	Res1080 Resolutions = "1080"
)

// ResolutionsValues returns all valid resolutions.
func ResolutionsValues() []Resolutions { return []Resolutions{Res480, Res720, Res1080} }

// IsValid returns whether the resolution is one of the known values.
func (r Resolutions) IsValid() bool {
	_, _, err := r.Size()
	return err == nil
}

// Size returns the pixel size of frames rendered at the resolution.
func (r Resolutions) Size() (width, height int, err error) {
	switch r {
	case Res480:
		return 720, 480, nil
	case Res720:
		return 1280, 720, nil
	case Res1080:
		return 1920, 1080, nil
	}
	return 0, 0, fmt.Errorf("%w: resolution %q", ErrInvalidValue, string(r))
}

// VisibilityEntry is the visibility of one camera rig.
type VisibilityEntry struct {

	// MeshVisible is whether the camera model and axes are shown.
	MeshVisible bool

	// LabelVisible is whether the label, marker and connector are shown.
	LabelVisible bool
}

// NewVisibilityEntry is the visibility of a newly loaded camera.
var NewVisibilityEntry = VisibilityEntry{MeshVisible: true, LabelVisible: false}

// ClientState is one snapshot of the client state. Snapshots returned
// by a [Store] are shared and must not be modified.
type ClientState struct {

	// Version increases by one with every transition.
	Version uint64

	// CameraTranslation is the world position of the interactive camera.
	CameraTranslation [3]float32

	// CameraRotation is the world orientation of the interactive camera,
	// as a 3x3 rotation matrix flattened row by row.
	CameraRotation [9]float32

	// CameraFOV is the field of view in degrees, in [MinFOV, MaxFOV].
	CameraFOV float32

	RenderType RenderTypes

	Resolution Resolutions

	// CanvasSize is the pixel width and height of the viewport.
	CanvasSize [2]int

	// WebSocketConnected reflects the transport state.
	WebSocketConnected bool

	// RenderResult is the last frame received from the backend, or nil.
	// Results are never modified once received.
	RenderResult *render.Result `copier:"-"`

	// CameraParams are the calibrated cameras of the last upload.
	CameraParams []calib.Record

	// CameraReloadFlag marks CameraParams as not yet applied to the scene.
	CameraReloadFlag bool

	// CameraGroupVisibility is the visibility of each camera in CameraParams.
	CameraGroupVisibility map[string]VisibilityEntry

	// DisplayCameraLabel is whether camera labels are shown as a group.
	DisplayCameraLabel bool

	// BodyMotionRef is the path of the last uploaded body-motion asset.
	BodyMotionRef string

	// BodyUploads counts body-motion uploads; it identifies the
	// generation a body load belongs to.
	BodyUploads uint64

	// BodyReloadFlag marks BodyMotionRef as not yet loaded into the scene.
	BodyReloadFlag bool

	IsPlaying bool

	// FrameIndex is the current, possibly fractional, animation frame.
	FrameIndex float64

	// FrameEnd is the last frame of the loaded animation.
	FrameEnd float64

	// InstantFrameFlag requests a seek to FrameIndex on the next frame.
	InstantFrameFlag bool
}

// Defaults returns the state at the start of a session.
func Defaults() *ClientState {
	return &ClientState{
		CameraRotation:        [9]float32{1, 0, 0, 0, 1, 0, 0, 0, 1},
		CameraFOV:             DefaultFOV,
		RenderType:            RGB,
		Resolution:            Res720,
		CanvasSize:            [2]int{1920, 1080},
		CameraGroupVisibility: map[string]VisibilityEntry{},
	}
}

// Clone returns a deep copy of the state. The render result is
// shared, since it is never modified.
func (st *ClientState) Clone() *ClientState {
	cp := &ClientState{}
	if err := copier.CopyWithOption(cp, st, copier.Option{DeepCopy: true}); err != nil {
		panic(fmt.Errorf("state: clone: %w", err))
	}
	cp.RenderResult = st.RenderResult
	if cp.CameraGroupVisibility == nil {
		cp.CameraGroupVisibility = map[string]VisibilityEntry{}
	}
	return cp
}

// HasCamera returns whether a camera with the given name is loaded.
func (st *ClientState) HasCamera(name string) bool {
	for _, r := range st.CameraParams {
		if r.Name == name {
			return true
		}
	}
	return false
}

// Visibility returns the visibility of the named camera.
func (st *ClientState) Visibility(name string) VisibilityEntry {
	if v, ok := st.CameraGroupVisibility[name]; ok {
		return v
	}
	return NewVisibilityEntry
}
