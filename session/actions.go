// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package session

import (
	"cogentcore.org/xrviewer/calib"
	"cogentcore.org/xrviewer/state"
	"cogentcore.org/xrviewer/wire"
)

// SetFOV sets the field of view in degrees, clamped to
// [state.MinFOV, state.MaxFOV], and sends it to the backend.
func (s *Session) SetFOV(fov float32) error {
	v, err := s.Store.SetCameraFOV(fov)
	if err != nil {
		return err
	}
	s.Send(wire.UpdateCameraFOV, v)
	return nil
}

// SetRenderType sets the kind of image requested from the backend.
func (s *Session) SetRenderType(rt state.RenderTypes) error {
	if err := s.Store.SetRenderType(rt); err != nil {
		return err
	}
	s.Send(wire.UpdateRenderType, string(rt))
	return nil
}

// SetResolution sets the output resolution class requested from the backend.
func (s *Session) SetResolution(res state.Resolutions) error {
	if err := s.Store.SetResolution(res); err != nil {
		return err
	}
	s.Send(wire.UpdateResolution, string(res))
	return nil
}

// Resize records a new canvas size.
func (s *Session) Resize(width, height int) error {
	return s.Store.SetCanvasSize(width, height)
}

// Orbit rotates the interactive camera around its target, in degrees.
func (s *Session) Orbit(delX, delY float32) { s.Camera.Orbit(delX, delY) }

// Pan moves the interactive camera and its target.
func (s *Session) Pan(delX, delY float32) { s.Camera.Pan(delX, delY) }

// Zoom moves the interactive camera toward or away from its target.
func (s *Session) Zoom(zoomPct float32) { s.Camera.Zoom(zoomPct) }

// SnapToAxis looks along the given world axis, as chosen on the axes gizmo.
func (s *Session) SnapToAxis(id string) bool { return s.Camera.SnapToAxis(id) }

// UploadCameraFiles reads the given calibration files in the
// background and stages them as the new set of cameras. A batch
// with any invalid file is rejected as a whole, leaving the current
// cameras in place. The result is reported to done, if non-nil, on
// the frame loop.
func (s *Session) UploadCameraFiles(paths []string, done func(err error)) {
	go func() {
		recs, err := calib.LoadFiles(paths...)
		s.Loop.Post(func() {
			if err == nil {
				err = s.Store.LoadCameraParams(recs)
			}
			if err != nil {
				s.log.Error("camera upload rejected", "files", len(paths), "err", err)
			} else {
				s.log.Info("camera upload", "cameras", calib.Names(recs))
			}
			if done != nil {
				done(err)
			}
		})
	}()
}

// UploadBodyMotion stages the given body-motion asset; it is loaded
// on the following frames, replacing the current body.
func (s *Session) UploadBodyMotion(path string) {
	gen := s.Store.LoadBodyMotion(path)
	s.log.Info("body upload", "path", path, "upload", gen)
}

// SetCameraVisibility sets the visibility of one loaded camera.
func (s *Session) SetCameraVisibility(name string, v state.VisibilityEntry) error {
	return s.Store.SetCameraVisibility(name, v)
}

// ShowCameraMeshes shows or hides the models of all loaded cameras.
func (s *Session) ShowCameraMeshes(on bool) { s.Store.SetAllMeshVisible(on) }

// ShowCameraLabels shows or hides the labels of all loaded cameras.
func (s *Session) ShowCameraLabels(on bool) { s.Store.SetAllLabelVisible(on) }

// Play starts or resumes the body animation.
func (s *Session) Play() { s.Store.SetPlaying(true) }

// Pause pauses the body animation.
func (s *Session) Pause() { s.Store.SetPlaying(false) }

// Seek moves the body animation to the given frame on the next frame.
func (s *Session) Seek(frame float64) { s.Store.Seek(frame) }
