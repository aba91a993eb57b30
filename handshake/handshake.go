// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package handshake sends the initial state burst to the backend
// exactly once, retrying on every frame until the channel is open.
package handshake

import (
	"fmt"
	"log/slog"

	"cogentcore.org/xrviewer/camera"
	"cogentcore.org/xrviewer/loop"
	"cogentcore.org/xrviewer/state"
	"cogentcore.org/xrviewer/wire"
)

// Sender sends one message, returning false if it could not be
// delivered yet.
type Sender interface {
	Send(typ string, data any) bool
}

// States are the states of a [Sequencer].
type States int32

const (
	// Pending means the burst has not been delivered.
	Pending States = iota

	// Sent is terminal: the burst was delivered.
	Sent
)

func (s States) String() string {
	switch s {
	case Pending:
		return "Pending"
	case Sent:
		return "Sent"
	}
	return fmt.Sprintf("States(%d)", int32(s))
}

// Sequencer delivers the initial state burst: camera translation,
// camera rotation, field of view, render type and resolution, in that
// order. Its [Sequencer.OnFrame] must be registered on the frame loop.
type Sequencer struct {
	store  *state.Store
	cam    camera.Source
	sender Sender

	state    States
	attempts int
	sentAt   int
}

// New returns a new pending sequencer.
func New(store *state.Store, cam camera.Source, sender Sender) *Sequencer {
	return &Sequencer{store: store, cam: cam, sender: sender}
}

// OnFrame attempts the burst while pending: it recomputes the camera
// extrinsics into the store and sends the whole burst. The result of
// the first send decides whether the burst was delivered.
func (sq *Sequencer) OnFrame(f loop.Frame) {
	if sq.state == Sent {
		return
	}
	sq.attempts++
	ex := camera.Extract(sq.cam)
	sq.store.SetCameraExtrinsics(ex.Translation, ex.Rotation)
	if !Burst(sq.store.Get(), sq.sender) {
		return
	}
	sq.state = Sent
	sq.sentAt = f.Index
	slog.Info("handshake sent", "frame", f.Index, "attempts", sq.attempts)
}

// Burst sends the state burst of the given snapshot, and returns
// whether the first message was delivered.
func Burst(st *state.ClientState, s Sender) bool {
	ok := s.Send(wire.UpdateCameraTranslation, st.CameraTranslation)
	s.Send(wire.UpdateCameraRotation, st.CameraRotation)
	s.Send(wire.UpdateCameraFOV, st.CameraFOV)
	s.Send(wire.UpdateRenderType, string(st.RenderType))
	s.Send(wire.UpdateResolution, string(st.Resolution))
	return ok
}

// State returns the state of the sequencer.
func (sq *Sequencer) State() States { return sq.state }

// Done returns whether the burst was delivered.
func (sq *Sequencer) Done() bool { return sq.state == Sent }

// Attempts returns the number of frames the burst was attempted on.
func (sq *Sequencer) Attempts() int { return sq.attempts }

// SentAt returns the index of the frame the burst was delivered on.
func (sq *Sequencer) SentAt() int { return sq.sentAt }
