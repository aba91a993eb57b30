// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package websocket provides the viewer's single binary WebSocket
// channel to the rendering backend. A [Channel] makes exactly one
// connection attempt; reconnecting is left to the caller.
package websocket

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"cogentcore.org/xrviewer/base/errors"
	"cogentcore.org/xrviewer/wire"
	"github.com/gorilla/websocket"
)

// DefaultURL is the backend address used when the configured
// address cannot be used.
const DefaultURL = "ws://localhost:4567"

// States are the connection states of a [Channel].
type States int32

const (
	// Connecting is the state from construction until the dial completes.
	Connecting States = iota

	// Open means messages can be sent.
	Open

	// Closed is terminal, reached by a local [Channel.Close],
	// a remote close or any transport error.
	Closed
)

func (s States) String() string {
	switch s {
	case Connecting:
		return "Connecting"
	case Open:
		return "Open"
	case Closed:
		return "Closed"
	}
	return fmt.Sprintf("States(%d)", int32(s))
}

// Handlers are the callbacks of a [Channel]. They are called from the
// channel's own goroutines (or from [Channel.Close]), so a frame driven
// caller should hand the work over to its loop instead of touching
// shared state directly. State is called once per transition, in the
// order the transitions happened, and never concurrently with itself.
type Handlers struct {

	// State is called on every state transition with the new state.
	State func(st States)

	// Message is called with every binary or text message received.
	Message func(msg []byte)
}

// Channel is one bidirectional binary WebSocket connection.
// You can use [Connect] to create a new Channel.
type Channel struct {

	// URL is the address actually dialed, which is [DefaultURL]
	// if the requested address was invalid.
	URL string

	// Fallback is true if the requested address was replaced by [DefaultURL].
	Fallback bool

	handlers Handlers
	dialer   *websocket.Dialer
	cancel   context.CancelFunc

	// mu protects the fields below
	mu    sync.Mutex
	state States
	conn  *websocket.Conn
	err   error

	// transitions not yet passed to the State handler, and
	// whether a goroutine is currently passing them on
	pending  []States
	flushing bool

	// writeMu serializes data frames on conn
	writeMu   sync.Mutex
	closeOnce sync.Once
}

// Connect starts connecting to the given WebSocket address with the
// default dialer and returns immediately in the [Connecting] state.
// An address that is not a valid ws:// or wss:// URL is reported and
// replaced by [DefaultURL].
func Connect(rawURL string, h Handlers) *Channel {
	return ConnectDialer(websocket.DefaultDialer, rawURL, h)
}

// ConnectDialer is [Connect] with the given dialer.
func ConnectDialer(d *websocket.Dialer, rawURL string, h Handlers) *Channel {
	ch := &Channel{URL: rawURL, handlers: h, dialer: d, state: Connecting}
	if err := ValidateURL(rawURL); err != nil {
		slog.Warn("websocket: invalid address, using fallback", "url", rawURL, "fallback", DefaultURL, "err", err)
		ch.URL = DefaultURL
		ch.Fallback = true
	}
	ctx, cancel := context.WithCancel(context.Background())
	ch.cancel = cancel
	go ch.dial(ctx)
	return ch
}

// ValidateURL returns an error if the given address is not an
// absolute ws:// or wss:// URL with a host.
func ValidateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return err
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("missing host")
	}
	return nil
}

// State returns the current connection state.
func (ch *Channel) State() States {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	return ch.state
}

// Err returns the transport error that closed the channel, if any.
func (ch *Channel) Err() error {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	return ch.err
}

// Send encodes the given message and transmits it if the channel is
// [Open]. It returns false, without writing anything, in any other
// state; callers treat false as "not delivered yet". A write failure
// closes the channel and also returns false.
func (ch *Channel) Send(typ string, data any) bool {
	ch.mu.Lock()
	conn := ch.conn
	open := ch.state == Open
	ch.mu.Unlock()
	if !open {
		return false
	}
	b, err := wire.Encode(typ, data)
	if errors.Log(err) != nil {
		return false
	}
	ch.writeMu.Lock()
	err = conn.WriteMessage(websocket.BinaryMessage, b)
	ch.writeMu.Unlock()
	if err != nil {
		ch.shutdown(&TransportError{Op: "send", URL: ch.URL, Err: err})
		return false
	}
	return true
}

// Close cleanly closes the connection, or abandons a dial that is
// still in progress. It is safe to call more than once.
func (ch *Channel) Close() {
	ch.closeOnce.Do(func() {
		ch.cancel()
		ch.mu.Lock()
		conn := ch.conn
		was := ch.state
		ch.setState(Closed)
		ch.mu.Unlock()
		if conn != nil {
			msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
			conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
			conn.Close()
		}
		if was != Closed {
			slog.Info("websocket disconnected", "url", ch.URL)
		}
		ch.flush()
	})
}

func (ch *Channel) dial(ctx context.Context) {
	conn, _, err := ch.dialer.DialContext(ctx, ch.URL, nil)
	if err != nil {
		ch.shutdown(&TransportError{Op: "dial", URL: ch.URL, Err: err})
		return
	}
	ch.mu.Lock()
	if ch.state != Connecting { // closed while dialing
		ch.mu.Unlock()
		conn.Close()
		return
	}
	ch.conn = conn
	ch.setState(Open)
	ch.mu.Unlock()
	slog.Info("websocket connected", "url", ch.URL)
	ch.flush()
	ch.read(conn)
}

func (ch *Channel) read(conn *websocket.Conn) {
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				ch.shutdown(nil)
			} else {
				ch.shutdown(&TransportError{Op: "read", URL: ch.URL, Err: err})
			}
			return
		}
		if ch.handlers.Message != nil {
			ch.handlers.Message(msg)
		}
	}
}

// shutdown moves the channel to [Closed] after a remote close (err == nil)
// or a transport error. It is a no-op if the channel is already closed.
func (ch *Channel) shutdown(err error) {
	ch.mu.Lock()
	if ch.state == Closed {
		ch.mu.Unlock()
		return
	}
	ch.setState(Closed)
	ch.err = err
	conn := ch.conn
	ch.mu.Unlock()
	if err != nil {
		slog.Error("websocket error, closing", "url", ch.URL, "err", err)
	} else {
		slog.Info("websocket disconnected", "url", ch.URL)
	}
	if conn != nil {
		conn.Close()
	}
	ch.flush()
}

// setState records a transition for the State handler.
// It must be called with mu held.
func (ch *Channel) setState(st States) {
	if ch.state == st {
		return
	}
	ch.state = st
	ch.pending = append(ch.pending, st)
}

// flush passes the recorded transitions to the State handler in order.
// If another goroutine is already doing so, it passes these on too.
func (ch *Channel) flush() {
	ch.mu.Lock()
	if ch.flushing {
		ch.mu.Unlock()
		return
	}
	ch.flushing = true
	for len(ch.pending) > 0 {
		st := ch.pending[0]
		ch.pending = ch.pending[1:]
		ch.mu.Unlock()
		if ch.handlers.State != nil {
			ch.handlers.State(st)
		}
		ch.mu.Lock()
	}
	ch.flushing = false
	ch.mu.Unlock()
}

// TransportError is a dial, read or write failure of a [Channel].
type TransportError struct {
	Op  string
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return "websocket: " + e.Op + " " + e.URL + ": " + e.Err.Error()
}

func (e *TransportError) Unwrap() error { return e.Err }
