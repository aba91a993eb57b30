// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package state

import (
	"fmt"
	"maps"
	"sync"

	"cogentcore.org/xrviewer/base/errors"
	"cogentcore.org/xrviewer/calib"
	"cogentcore.org/xrviewer/math32"
	"cogentcore.org/xrviewer/render"
)

const (
	// MinFOV is the smallest field of view, in degrees.
	MinFOV = 1

	// MaxFOV is the largest field of view, in degrees.
	MaxFOV = 179

	// DefaultFOV is the field of view at the start of a session.
	DefaultFOV = 60
)

var (
	// ErrInvalidValue is returned by transitions given a value
	// outside of its enumeration, or one that is not a number.
	ErrInvalidValue = errors.New("state: invalid value")

	// ErrUnknownCamera is returned for a camera name that is not loaded.
	ErrUnknownCamera = errors.New("state: unknown camera")
)

// Fields is a bit mask of the [ClientState] fields a transition writes.
type Fields uint32

const (
	FieldCameraTranslation Fields = 1 << iota
	FieldCameraRotation
	FieldCameraFOV
	FieldRenderType
	FieldResolution
	FieldCanvasSize
	FieldWebSocketConnected
	FieldRenderResult
	FieldCameraParams
	FieldCameraReload
	FieldCameraVisibility
	FieldDisplayCameraLabel
	FieldBodyMotion
	FieldBodyReload
	FieldIsPlaying
	FieldFrameIndex
	FieldFrameEnd
	FieldInstantFrame

	// FieldsAll matches every field.
	FieldsAll Fields = 1<<iota - 1
)

type listener struct {
	mask Fields
	fn   func(prev, next *ClientState)
}

// Store holds the current [ClientState]. Every transition replaces
// the current snapshot with a new one as a whole, and then calls the
// listeners for the fields it wrote. A transition that fails changes
// nothing. Listeners are called on the goroutine of the transition,
// after the new snapshot is in place.
type Store struct {
	mu        sync.RWMutex
	cur       *ClientState
	listeners []listener
}

// NewStore returns a new store holding [Defaults].
func NewStore() *Store {
	return &Store{cur: Defaults()}
}

// Get returns the current snapshot, which must not be modified.
func (s *Store) Get() *ClientState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur
}

// On adds a listener called after every transition that writes any
// of the given fields.
func (s *Store) On(mask Fields, fn func(prev, next *ClientState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, listener{mask: mask, fn: fn})
}

// update applies one transition. fn modifies a copy of the current
// snapshot and returns the fields it wrote, or an error to reject it.
func (s *Store) update(fn func(st *ClientState) (Fields, error)) error {
	s.mu.Lock()
	prev := s.cur
	next := prev.Clone()
	fields, err := fn(next)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	next.Version = prev.Version + 1
	s.cur = next
	ls := s.listeners
	s.mu.Unlock()
	for _, l := range ls {
		if l.mask&fields != 0 {
			l.fn(prev, next)
		}
	}
	return nil
}

// SetCameraExtrinsics sets the camera translation and row-major rotation.
func (s *Store) SetCameraExtrinsics(translation [3]float32, rotation [9]float32) {
	s.update(func(st *ClientState) (Fields, error) {
		st.CameraTranslation = translation
		st.CameraRotation = rotation
		return FieldCameraTranslation | FieldCameraRotation, nil
	})
}

// SetCameraFOV sets the field of view, clamped to [MinFOV, MaxFOV].
// It returns the stored value.
func (s *Store) SetCameraFOV(fov float32) (float32, error) {
	if math32.IsNaN(fov) {
		return 0, fmt.Errorf("%w: fov is NaN", ErrInvalidValue)
	}
	fov = math32.Clamp(fov, MinFOV, MaxFOV)
	return fov, s.update(func(st *ClientState) (Fields, error) {
		st.CameraFOV = fov
		return FieldCameraFOV, nil
	})
}

// SetRenderType sets the render type.
func (s *Store) SetRenderType(rt RenderTypes) error {
	if !rt.IsValid() {
		return fmt.Errorf("%w: render type %q", ErrInvalidValue, string(rt))
	}
	return s.update(func(st *ClientState) (Fields, error) {
		st.RenderType = rt
		return FieldRenderType, nil
	})
}

// SetResolution sets the resolution.
func (s *Store) SetResolution(res Resolutions) error {
	if !res.IsValid() {
		return fmt.Errorf("%w: resolution %q", ErrInvalidValue, string(res))
	}
	return s.update(func(st *ClientState) (Fields, error) {
		st.Resolution = res
		return FieldResolution, nil
	})
}

// SetCanvasSize sets the viewport size in pixels.
func (s *Store) SetCanvasSize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: canvas size %dx%d", ErrInvalidValue, width, height)
	}
	return s.update(func(st *ClientState) (Fields, error) {
		st.CanvasSize = [2]int{width, height}
		return FieldCanvasSize, nil
	})
}

// SetWebSocketConnected records the transport state.
func (s *Store) SetWebSocketConnected(connected bool) {
	s.update(func(st *ClientState) (Fields, error) {
		st.WebSocketConnected = connected
		return FieldWebSocketConnected, nil
	})
}

// SetRenderResult sets the last received frame.
func (s *Store) SetRenderResult(res *render.Result) {
	s.update(func(st *ClientState) (Fields, error) {
		st.RenderResult = res
		return FieldRenderResult, nil
	})
}

// LoadCameraParams stages a new set of calibrated cameras: it replaces
// the camera parameters, replaces the visibility map with a fresh entry
// per camera, and sets the camera reload flag. A set that was staged
// but not yet applied is superseded.
func (s *Store) LoadCameraParams(recs []calib.Record) error {
	vis := make(map[string]VisibilityEntry, len(recs))
	for _, r := range recs {
		if _, dup := vis[r.Name]; dup {
			return fmt.Errorf("%w: duplicate camera %q", ErrInvalidValue, r.Name)
		}
		vis[r.Name] = NewVisibilityEntry
	}
	return s.update(func(st *ClientState) (Fields, error) {
		st.CameraParams = append([]calib.Record(nil), recs...)
		st.CameraGroupVisibility = vis
		st.CameraReloadFlag = true
		return FieldCameraParams | FieldCameraVisibility | FieldCameraReload, nil
	})
}

// ClearCameraReload marks the camera parameters as applied.
func (s *Store) ClearCameraReload() {
	s.update(func(st *ClientState) (Fields, error) {
		st.CameraReloadFlag = false
		return FieldCameraReload, nil
	})
}

// SetCameraVisibility sets the visibility of one loaded camera.
func (s *Store) SetCameraVisibility(name string, v VisibilityEntry) error {
	return s.update(func(st *ClientState) (Fields, error) {
		if !st.HasCamera(name) {
			return 0, fmt.Errorf("%w: %q", ErrUnknownCamera, name)
		}
		st.CameraGroupVisibility[name] = v
		return FieldCameraVisibility, nil
	})
}

// SetAllMeshVisible shows or hides the model of every loaded camera.
func (s *Store) SetAllMeshVisible(on bool) {
	s.update(func(st *ClientState) (Fields, error) {
		for _, r := range st.CameraParams {
			v := st.Visibility(r.Name)
			v.MeshVisible = on
			st.CameraGroupVisibility[r.Name] = v
		}
		return FieldCameraVisibility, nil
	})
}

// SetAllLabelVisible shows or hides the label of every loaded camera,
// and records it as the group label setting.
func (s *Store) SetAllLabelVisible(on bool) {
	s.update(func(st *ClientState) (Fields, error) {
		for _, r := range st.CameraParams {
			v := st.Visibility(r.Name)
			v.LabelVisible = on
			st.CameraGroupVisibility[r.Name] = v
		}
		st.DisplayCameraLabel = on
		return FieldCameraVisibility | FieldDisplayCameraLabel, nil
	})
}

// SetDisplayCameraLabel sets the group label setting only.
func (s *Store) SetDisplayCameraLabel(on bool) {
	s.update(func(st *ClientState) (Fields, error) {
		st.DisplayCameraLabel = on
		return FieldDisplayCameraLabel, nil
	})
}

// LoadBodyMotion stages a new body-motion asset: it starts a new
// upload generation, sets the body reload flag and resets playback.
// It returns the new generation.
func (s *Store) LoadBodyMotion(ref string) uint64 {
	var gen uint64
	s.update(func(st *ClientState) (Fields, error) {
		st.BodyMotionRef = ref
		st.BodyUploads++
		gen = st.BodyUploads
		st.BodyReloadFlag = true
		st.IsPlaying = false
		st.FrameIndex = 0
		st.FrameEnd = 0
		st.InstantFrameFlag = false
		return FieldBodyMotion | FieldBodyReload | FieldIsPlaying | FieldFrameIndex | FieldFrameEnd | FieldInstantFrame, nil
	})
	return gen
}

// FinishBodyReload completes the load of the given upload generation:
// it clears the body reload flag and, if the load succeeded, records
// the last frame. It returns false, changing nothing, if a newer
// upload superseded the generation.
func (s *Store) FinishBodyReload(gen uint64, frameEnd float64, ok bool) bool {
	err := s.update(func(st *ClientState) (Fields, error) {
		if st.BodyUploads != gen {
			return 0, errSuperseded
		}
		st.BodyReloadFlag = false
		if !ok {
			return FieldBodyReload, nil
		}
		st.FrameEnd = frameEnd
		return FieldBodyReload | FieldFrameEnd, nil
	})
	return err == nil
}

var errSuperseded = errors.New("state: superseded")

// SetFrameEnd sets the last frame of the animation.
func (s *Store) SetFrameEnd(end float64) {
	s.update(func(st *ClientState) (Fields, error) {
		st.FrameEnd = max(end, 0)
		return FieldFrameEnd, nil
	})
}

// SetPlaying starts or pauses playback.
func (s *Store) SetPlaying(on bool) {
	s.update(func(st *ClientState) (Fields, error) {
		st.IsPlaying = on
		return FieldIsPlaying, nil
	})
}

// Seek requests that the animation jump to the given frame on the next
// frame. Once the last frame is known the target is clamped to it.
func (s *Store) Seek(frame float64) {
	s.update(func(st *ClientState) (Fields, error) {
		frame = max(frame, 0)
		if st.FrameEnd > 0 {
			frame = min(frame, st.FrameEnd)
		}
		st.FrameIndex = frame
		st.InstantFrameFlag = true
		return FieldFrameIndex | FieldInstantFrame, nil
	})
}

// ClearInstantFrame marks a seek as applied.
func (s *Store) ClearInstantFrame() {
	s.update(func(st *ClientState) (Fields, error) {
		st.InstantFrameFlag = false
		return FieldInstantFrame, nil
	})
}

// SyncFrameIndex records the frame the animation reached while playing.
// It does nothing and returns false when not playing, or while a seek
// is pending.
func (s *Store) SyncFrameIndex(frame float64) bool {
	err := s.update(func(st *ClientState) (Fields, error) {
		if !st.IsPlaying || st.InstantFrameFlag {
			return 0, errNotPlaying
		}
		st.FrameIndex = frame
		return FieldFrameIndex, nil
	})
	return err == nil
}

var errNotPlaying = errors.New("state: not playing")

// VisibilityChanged returns whether two visibility maps differ.
func VisibilityChanged(a, b map[string]VisibilityEntry) bool {
	return !maps.Equal(a, b)
}
