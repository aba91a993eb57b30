// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package bridge provides a development backend for the viewer: a
// websocket peer that mirrors the state the viewer sends, last value
// wins, and pushes render results back to every connected viewer.
package bridge

import (
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"sync"

	"cogentcore.org/xrviewer/base/errors"
	"cogentcore.org/xrviewer/wire"
	"github.com/gorilla/websocket"
)

// State is the viewer state as last received by the bridge.
type State struct {
	CameraTranslation []float64 `json:"camera_translation"`

	// CameraRotation is a 3x3 rotation matrix flattened row by row.
	CameraRotation []float64 `json:"camera_rotation"`

	CameraFOV  float64 `json:"camera_fov"`
	RenderType string  `json:"render_type"`
	Resolution string  `json:"resolution"`
}

// Server is an [http.Handler] that accepts viewer connections.
type Server struct {

	// Upgrader upgrades viewer requests. It accepts any origin by default.
	Upgrader websocket.Upgrader

	// Renderer, if set, answers every state update with a render
	// result sent to all viewers.
	Renderer *Renderer

	// Updated, if set, is called after every applied update.
	Updated func(typ string, st State)

	mu      sync.Mutex
	state   State
	updates int
	clients []*client
}

// client is one connected viewer.
type client struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

// NewServer returns a new server with no state.
func NewServer() *Server {
	return &Server{Upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}}
}

// State returns a copy of the current state.
func (s *Server) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state
	st.CameraTranslation = slices.Clone(st.CameraTranslation)
	st.CameraRotation = slices.Clone(st.CameraRotation)
	return st
}

// Updates returns the number of updates applied so far.
func (s *Server) Updates() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updates
}

// Clients returns the number of connected viewers.
func (s *Server) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.Upgrader.Upgrade(w, r, nil)
	if errors.Log(err) != nil {
		return
	}
	c := &client{conn: conn}
	s.mu.Lock()
	s.clients = append(s.clients, c)
	s.mu.Unlock()
	slog.Info("bridge: viewer connected", "remote", r.RemoteAddr)

	defer func() {
		s.mu.Lock()
		s.clients = slices.DeleteFunc(s.clients, func(o *client) bool { return o == c })
		s.mu.Unlock()
		conn.Close()
		slog.Info("bridge: viewer disconnected", "remote", r.RemoteAddr)
	}()

	for {
		_, b, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Debug("bridge: read", "remote", r.RemoteAddr, "err", err)
			}
			return
		}
		typ, err := s.Apply(b)
		if err != nil {
			slog.Warn("bridge: dropping message", "type", typ, "err", err)
			continue
		}
		if s.Renderer == nil {
			continue
		}
		if url, err := s.Renderer.Render(s.State()); errors.Log(err) == nil {
			s.Broadcast(wire.UpdateRenderResult, url)
		}
	}
}

// Apply decodes one viewer message and applies it to the state. It
// returns the message type, which is "" if the envelope was malformed.
func (s *Server) Apply(b []byte) (string, error) {
	msg, err := wire.Decode(b)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	st := s.state
	s.mu.Unlock()

	switch msg.Type {
	case wire.UpdateCameraTranslation:
		var v []float64
		if err := msg.Bind(&v); err != nil {
			return msg.Type, err
		}
		if len(v) != 3 {
			return msg.Type, fmt.Errorf("bridge: translation has %d values", len(v))
		}
		st.CameraTranslation = v
	case wire.UpdateCameraRotation:
		var v []float64
		if err := msg.Bind(&v); err != nil {
			return msg.Type, err
		}
		if len(v) != 9 {
			return msg.Type, fmt.Errorf("bridge: rotation has %d values", len(v))
		}
		st.CameraRotation = v
	case wire.UpdateCameraFOV:
		if err := msg.Bind(&st.CameraFOV); err != nil {
			return msg.Type, err
		}
	case wire.UpdateRenderType:
		if err := msg.Bind(&st.RenderType); err != nil {
			return msg.Type, err
		}
	case wire.UpdateResolution:
		if err := msg.Bind(&st.Resolution); err != nil {
			return msg.Type, err
		}
	default:
		return msg.Type, fmt.Errorf("bridge: unknown message type %q", msg.Type)
	}

	s.mu.Lock()
	s.state = st
	s.updates++
	s.mu.Unlock()
	if s.Updated != nil {
		s.Updated(msg.Type, s.State())
	}
	return msg.Type, nil
}

// Broadcast sends one message to every connected viewer, and returns
// the number of viewers it was delivered to.
func (s *Server) Broadcast(typ string, data any) int {
	b, err := wire.Encode(typ, data)
	if errors.Log(err) != nil {
		return 0
	}
	s.mu.Lock()
	clients := slices.Clone(s.clients)
	s.mu.Unlock()
	n := 0
	for _, c := range clients {
		c.writeMu.Lock()
		err := c.conn.WriteMessage(websocket.BinaryMessage, b)
		c.writeMu.Unlock()
		if err != nil {
			slog.Warn("bridge: write", "remote", c.conn.RemoteAddr(), "err", err)
			continue
		}
		n++
	}
	return n
}

// Close disconnects all viewers.
func (s *Server) Close() {
	s.mu.Lock()
	clients := slices.Clone(s.clients)
	s.mu.Unlock()
	for _, c := range clients {
		c.writeMu.Lock()
		c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
		c.writeMu.Unlock()
		c.conn.Close()
	}
}
