// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package websocket

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"cogentcore.org/xrviewer/wire"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// peer is a test backend that records every message it receives.
type peer struct {
	srv  *httptest.Server
	mu   sync.Mutex
	msgs [][]byte
	hold chan struct{} // if non-nil, upgrades wait on it
}

func newPeer(t *testing.T, hold chan struct{}) *peer {
	p := &peer{hold: hold}
	upgrader := websocket.Upgrader{}
	p.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if p.hold != nil {
			<-p.hold
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			p.mu.Lock()
			p.msgs = append(p.msgs, msg)
			p.mu.Unlock()
		}
	}))
	t.Cleanup(p.srv.Close)
	return p
}

func (p *peer) url() string {
	return "ws" + strings.TrimPrefix(p.srv.URL, "http")
}

func (p *peer) received() [][]byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([][]byte(nil), p.msgs...)
}

func TestSendWhenOpen(t *testing.T) {
	p := newPeer(t, nil)
	ch := Connect(p.url(), Handlers{})
	defer ch.Close()
	require.Eventually(t, func() bool { return ch.State() == Open }, 2*time.Second, 5*time.Millisecond)

	assert.True(t, ch.Send(wire.UpdateCameraFOV, float32(45)))
	require.Eventually(t, func() bool { return len(p.received()) == 1 }, 2*time.Second, 5*time.Millisecond)

	m, err := wire.Decode(p.received()[0])
	require.NoError(t, err)
	assert.Equal(t, wire.UpdateCameraFOV, m.Type)
	var fov float32
	require.NoError(t, m.Bind(&fov))
	assert.Equal(t, float32(45), fov)
}

func TestSendWhileConnecting(t *testing.T) {
	hold := make(chan struct{})
	p := newPeer(t, hold)
	ch := Connect(p.url(), Handlers{})
	assert.Equal(t, Connecting, ch.State())
	assert.False(t, ch.Send(wire.UpdateCameraFOV, float32(45)))

	close(hold)
	require.Eventually(t, func() bool { return ch.State() == Open }, 2*time.Second, 5*time.Millisecond)
	ch.Close()
	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, p.received())
}

func TestSendWhenClosed(t *testing.T) {
	p := newPeer(t, nil)
	ch := Connect(p.url(), Handlers{})
	require.Eventually(t, func() bool { return ch.State() == Open }, 2*time.Second, 5*time.Millisecond)
	ch.Close()
	assert.Equal(t, Closed, ch.State())
	assert.False(t, ch.Send(wire.UpdateCameraFOV, float32(45)))
	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, p.received())
}

func TestCloseIdempotent(t *testing.T) {
	p := newPeer(t, nil)
	var mu sync.Mutex
	var states []States
	ch := Connect(p.url(), Handlers{State: func(st States) {
		mu.Lock()
		states = append(states, st)
		mu.Unlock()
	}})
	require.Eventually(t, func() bool { return ch.State() == Open }, 2*time.Second, 5*time.Millisecond)
	ch.Close()
	ch.Close()
	time.Sleep(50 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []States{Open, Closed}, states)
}

// closeOnConnect is a log handler that closes a channel as soon as
// the channel logs that it connected.
type closeOnConnect struct {
	slog.Handler
	ch atomic.Pointer[Channel]
}

func (h *closeOnConnect) Handle(ctx context.Context, r slog.Record) error {
	if r.Message == "websocket connected" {
		if ch := h.ch.Load(); ch != nil {
			ch.Close()
		}
	}
	return nil
}

func TestCloseWhileConnecting(t *testing.T) {
	hold := make(chan struct{})
	p := newPeer(t, hold)
	h := &closeOnConnect{Handler: slog.NewTextHandler(io.Discard, nil)}
	def := slog.Default()
	slog.SetDefault(slog.New(h))
	defer slog.SetDefault(def)

	var mu sync.Mutex
	var states []States
	ch := Connect(p.url(), Handlers{State: func(st States) {
		mu.Lock()
		states = append(states, st)
		mu.Unlock()
	}})
	h.ch.Store(ch)
	close(hold)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(states) == 2
	}, 2*time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, Closed, ch.State())
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []States{Open, Closed}, states)
}

func TestFallbackURL(t *testing.T) {
	for _, u := range []string{"", "not a url", "http://localhost:4567", "ws://"} {
		ch := Connect(u, Handlers{})
		assert.True(t, ch.Fallback, u)
		assert.Equal(t, DefaultURL, ch.URL, u)
		ch.Close()
	}
}

func TestDialFailure(t *testing.T) {
	p := newPeer(t, nil)
	u := p.url()
	p.srv.Close()
	closed := make(chan struct{})
	ch := Connect(u, Handlers{State: func(st States) {
		if st == Closed {
			close(closed)
		}
	}})
	select {
	case <-closed:
	case <-time.After(2 * time.Second):
		t.Fatal("dial failure did not close the channel")
	}
	var terr *TransportError
	assert.ErrorAs(t, ch.Err(), &terr)
	assert.Equal(t, "dial", terr.Op)
	assert.False(t, ch.Send(wire.UpdateCameraFOV, float32(1)))
}

func TestReceive(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		b, _ := wire.Encode(wire.UpdateRenderResult, []byte{1, 2, 3})
		conn.WriteMessage(websocket.BinaryMessage, b)
		conn.ReadMessage()
	}))
	defer srv.Close()

	got := make(chan []byte, 1)
	ch := Connect("ws"+strings.TrimPrefix(srv.URL, "http"), Handlers{Message: func(msg []byte) { got <- msg }})
	defer ch.Close()
	select {
	case msg := <-got:
		m, err := wire.Decode(msg)
		require.NoError(t, err)
		assert.Equal(t, wire.UpdateRenderResult, m.Type)
	case <-time.After(2 * time.Second):
		t.Fatal("no message received")
	}
}

func TestStatesString(t *testing.T) {
	assert.Equal(t, "Open", Open.String())
	assert.Equal(t, "States(7)", States(7).String())
}
