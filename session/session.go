// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package session provides the root of one viewer session: it owns
// the client state store, the transport channel, the interactive
// camera, the scene and the frame loop, and wires them together.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"

	"cogentcore.org/xrviewer/base/errors"
	"cogentcore.org/xrviewer/base/iox/imagex"
	"cogentcore.org/xrviewer/base/websocket"
	"cogentcore.org/xrviewer/camera"
	"cogentcore.org/xrviewer/config"
	"cogentcore.org/xrviewer/handshake"
	"cogentcore.org/xrviewer/loop"
	"cogentcore.org/xrviewer/reload"
	"cogentcore.org/xrviewer/render"
	"cogentcore.org/xrviewer/scene"
	"cogentcore.org/xrviewer/state"
	"cogentcore.org/xrviewer/wire"
	"github.com/google/uuid"
	gws "github.com/gorilla/websocket"
)

// Session is one viewer session. Except for [Session.Close], its
// methods must be called on the goroutine that runs the frame loop,
// or be handed to it with [loop.Loop.Post]. Transport and file
// completions are posted to the loop by the session itself.
type Session struct {

	// ID identifies the session in log messages.
	ID uuid.UUID

	Config *config.Config
	Store  *state.Store
	Camera *camera.Camera
	Scene  *scene.Headless
	Loop   *loop.Loop

	// Channel is the connection to the backend, once started.
	Channel *websocket.Channel

	// Dialer is used by [Session.Start], or the default dialer if nil.
	Dialer *gws.Dialer

	Handshake *handshake.Sequencer
	Cameras   *reload.CameraStager
	Body      *reload.BodyStager

	log    *slog.Logger
	frames atomic.Int64
	saved  atomic.Int64
}

// New returns a new session with the given config, which is not
// connected until [Session.Start] is called.
func New(cfg *config.Config) (*Session, error) {
	if cfg == nil {
		cfg = config.New()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Session{
		ID:     uuid.New(),
		Config: cfg,
		Store:  state.NewStore(),
		Camera: camera.New(),
		Scene:  scene.NewHeadless(),
		Loop:   loop.New(),
	}
	s.log = slog.Default().With("session", s.ID.String())

	fov, err := s.Store.SetCameraFOV(cfg.FOV)
	if err != nil {
		return nil, err
	}
	s.Camera.SetFOV(fov)
	if err := s.Store.SetRenderType(cfg.RenderType); err != nil {
		return nil, err
	}
	if err := s.Store.SetResolution(cfg.Resolution); err != nil {
		return nil, err
	}
	if err := s.Store.SetCanvasSize(cfg.Width, cfg.Height); err != nil {
		return nil, err
	}

	s.Handshake = handshake.New(s.Store, s.Camera, s)
	s.Cameras = reload.NewCameraStager(s.Scene, s.Store)
	s.Cameras.Model = cfg.CameraModel
	s.Scene.Assets[cfg.CameraModel] = true
	s.Body = reload.NewBodyStager(s.Scene, s.Store, s.Loop)
	s.Camera.OnViewChanged(s.viewChanged)

	// the scene advances first, and the stagers run last on each frame
	s.Loop.OnFrame(s.Scene.OnFrame)
	s.Loop.OnFrame(s.syncFOV)
	s.Loop.OnFrame(s.Handshake.OnFrame)
	s.Loop.OnFrame(s.Cameras.OnFrame)
	s.Loop.OnFrame(s.Body.OnFrame)
	return s, nil
}

// Start connects to the backend at the configured address. It returns
// immediately; the connection state is reflected in the store.
func (s *Session) Start() {
	d := s.Dialer
	if d == nil {
		d = gws.DefaultDialer
	}
	s.Channel = websocket.ConnectDialer(d, s.Config.URL, websocket.Handlers{
		State:   s.channelState,
		Message: s.receive,
	})
	s.log.Info("connecting", "url", s.Channel.URL, "fallback", s.Channel.Fallback)
	if s.Config.BodyMotion != "" {
		s.UploadBodyMotion(s.Config.BodyMotion)
	}
}

// Run runs the frame loop at the configured frame rate until ctx is done.
func (s *Session) Run(ctx context.Context) error {
	return s.Loop.Run(ctx, s.Config.FPS)
}

// Send sends one message to the backend. It returns false if the
// channel is not open.
func (s *Session) Send(typ string, data any) bool {
	if s.Channel == nil {
		return false
	}
	return s.Channel.Send(typ, data)
}

// Close closes the connection to the backend and removes everything
// the session added to the scene. The removal runs on the loop while
// [Session.Run] is running, and right away otherwise.
func (s *Session) Close() {
	if s.Channel != nil {
		s.Channel.Close()
	}
	if s.Loop.Running() {
		s.Loop.Post(s.dispose)
		return
	}
	s.dispose()
}

func (s *Session) dispose() {
	s.Cameras.Dispose()
	s.Body.Dispose()
}

// channelState is called by the channel on every transition. The
// store records the channel state at the time the loop runs the
// update, so a late notification cannot leave it stale.
func (s *Session) channelState(st websocket.States) {
	s.log.Info("websocket", "state", st)
	s.Loop.Post(func() {
		s.Store.SetWebSocketConnected(s.Channel != nil && s.Channel.State() == websocket.Open)
	})
}

// receive is called by the channel with every message from the backend.
func (s *Session) receive(b []byte) {
	msg, err := wire.Decode(b)
	if err != nil {
		s.log.Warn("dropping message", "err", err)
		return
	}
	switch msg.Type {
	case wire.UpdateRenderResult:
		v, err := msg.Value()
		if err != nil {
			s.log.Warn("dropping message", "type", msg.Type, "err", err)
			return
		}
		res, err := render.Decode(v)
		if err != nil {
			s.log.Warn("render result", "err", err)
		}
		if res == nil {
			return
		}
		s.Loop.Post(func() { s.Store.SetRenderResult(res) })
		s.saveFrame(res)
	default:
		s.log.Debug("ignoring message", "type", msg.Type)
	}
}

// saveFrame writes a decoded render result to the save-frames
// directory, if one is configured.
func (s *Session) saveFrame(res *render.Result) {
	if s.Config.SaveFrames == "" || res.Image == nil {
		return
	}
	n := s.frames.Add(1)
	fn := filepath.Join(s.Config.SaveFrames, fmt.Sprintf("frame_%06d.png", n))
	if errors.Log(imagex.Save(res.Image, fn)) == nil {
		s.saved.Add(1)
		s.log.Debug("saved frame", "file", fn)
	}
}

// Saved returns the number of render results saved to disk.
func (s *Session) Saved() int { return int(s.saved.Load()) }

// syncFOV keeps the camera projection in sync with the stored field of view.
func (s *Session) syncFOV(f loop.Frame) {
	s.Camera.SetFOV(s.Store.Get().CameraFOV)
}

// viewChanged records and sends the camera extrinsics whenever the
// interactive camera moves.
func (s *Session) viewChanged() {
	ex := camera.Extract(s.Camera)
	s.Store.SetCameraExtrinsics(ex.Translation, ex.Rotation)
	s.Send(wire.UpdateCameraTranslation, ex.Translation)
	s.Send(wire.UpdateCameraRotation, ex.Rotation)
}
