// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package reload

import (
	"log/slog"

	"cogentcore.org/xrviewer/loop"
	"cogentcore.org/xrviewer/motion"
	"cogentcore.org/xrviewer/scene"
	"cogentcore.org/xrviewer/state"
)

// Poster runs functions on the frame loop.
type Poster interface {
	Post(fn func())
}

// BodyStager loads the body-motion asset when a new one is staged
// and drives the playback of its animation from the client state.
type BodyStager struct {
	Scene scene.Scene
	Store *state.Store
	Loop  Poster

	// Load loads a body-motion asset. It is called off the frame loop.
	Load func(path string) (*motion.Clip, error)

	body scene.Body
	anim scene.Animation

	// loading is the upload generation being loaded, or 0.
	loading uint64
}

// NewBodyStager returns a new stager that loads assets with [motion.Load].
func NewBodyStager(sc scene.Scene, store *state.Store, lp Poster) *BodyStager {
	return &BodyStager{Scene: sc, Store: store, Loop: lp, Load: motion.Load}
}

// Body returns the current body, or nil.
func (bs *BodyStager) Body() scene.Body { return bs.body }

// Loading returns whether a load is in flight.
func (bs *BodyStager) Loading() bool { return bs.loading != 0 }

// OnFrame is called before each frame is rendered.
func (bs *BodyStager) OnFrame(f loop.Frame) {
	st := bs.Store.Get()
	if st.BodyReloadFlag && bs.loading != st.BodyUploads {
		bs.start(st.BodyUploads, st.BodyMotionRef)
	}
	bs.playback()
}

// start disposes the current body and loads the given asset in the
// background. The result is applied on the frame loop.
func (bs *BodyStager) start(gen uint64, path string) {
	bs.Dispose()
	bs.loading = gen
	slog.Info("loading body motion", "path", path, "upload", gen)
	go func() {
		clip, err := bs.Load(path)
		bs.Loop.Post(func() { bs.finish(gen, clip, err) })
	}()
}

func (bs *BodyStager) finish(gen uint64, clip *motion.Clip, err error) {
	if bs.loading == gen {
		bs.loading = 0
	}
	if bs.Store.Get().BodyUploads != gen {
		slog.Debug("discarding superseded body motion", "upload", gen)
		return
	}
	if err == nil {
		bs.body, err = bs.Scene.NewBody(clip)
	}
	if err != nil {
		slog.Error("loading body motion", "upload", gen, "err", err)
		bs.body = nil
		bs.Store.FinishBodyReload(gen, 0, false)
		return
	}
	bs.anim = bs.body.Animation()
	bs.Store.FinishBodyReload(gen, clip.To, true)
	slog.Info("body motion loaded", "name", clip.Name, "frames", clip.To)
}

// playback applies the play state and any pending seek to the
// animation, and records the frame reached while playing.
func (bs *BodyStager) playback() {
	if bs.anim == nil {
		return
	}
	st := bs.Store.Get()
	if st.IsPlaying {
		if !st.InstantFrameFlag {
			bs.Store.SyncFrameIndex(bs.anim.CurrentFrame())
		}
		if !bs.anim.IsPlaying() {
			bs.anim.Play()
		}
	} else if bs.anim.IsPlaying() {
		bs.anim.Pause()
	}
	if st.InstantFrameFlag {
		bs.anim.GoToFrame(st.FrameIndex)
		bs.Store.ClearInstantFrame()
	}
}

// Dispose removes the body from the scene.
func (bs *BodyStager) Dispose() {
	if bs.body != nil {
		bs.body.Dispose()
	}
	bs.body = nil
	bs.anim = nil
}
