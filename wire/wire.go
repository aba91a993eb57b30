// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package wire implements the binary message envelope exchanged
// between the viewer and the rendering backend. Every message is a
// msgpack map {"type": string, "data": any}.
package wire

import (
	"bytes"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// Message types understood by the viewer and the backend.
const (
	UpdateCameraTranslation = "UPDATE_CAMERA_TRANSLATION"
	UpdateCameraRotation    = "UPDATE_CAMERA_ROTATION"
	UpdateCameraFOV         = "UPDATE_CAMERA_FOV"
	UpdateRenderType        = "UPDATE_RENDER_TYPE"
	UpdateResolution        = "UPDATE_RESOLUTION"
	UpdateRenderResult      = "UPDATE_RENDER_RESULT"

	// UpdateWebSocketConnected is internal to the viewer and never sent.
	UpdateWebSocketConnected = "UPDATE_WEBSOCKET_CONNECTED"
)

// envelope is the encoding side of a [Message].
type envelope struct {
	Type string `msgpack:"type"`
	Data any    `msgpack:"data"`
}

// Message is a decoded envelope. Data holds the still encoded payload,
// which is decoded into a concrete type with [Message.Bind].
type Message struct {
	Type string             `msgpack:"type"`
	Data msgpack.RawMessage `msgpack:"data"`
}

// Encode serializes the given type and payload into a binary envelope.
func Encode(typ string, data any) ([]byte, error) {
	if typ == "" {
		return nil, fmt.Errorf("wire: encode: empty message type")
	}
	b, err := msgpack.Marshal(&envelope{Type: typ, Data: data})
	if err != nil {
		return nil, fmt.Errorf("wire: encode %s: %w", typ, err)
	}
	return b, nil
}

// Decode parses a binary envelope. Malformed input, a missing type
// and trailing bytes all result in a [*DecodeError]; no partially
// decoded message is ever returned.
func Decode(b []byte) (*Message, error) {
	if len(b) == 0 {
		return nil, &DecodeError{Reason: "empty payload"}
	}
	rd := bytes.NewReader(b)
	dec := msgpack.NewDecoder(rd)
	msg := &Message{}
	if err := dec.Decode(msg); err != nil {
		return nil, &DecodeError{Reason: "malformed envelope", Err: err}
	}
	if rd.Len() > 0 {
		return nil, &DecodeError{Type: msg.Type, Reason: fmt.Sprintf("%d trailing bytes", rd.Len())}
	}
	if msg.Type == "" {
		return nil, &DecodeError{Reason: "missing message type"}
	}
	if len(msg.Data) == 0 {
		return nil, &DecodeError{Type: msg.Type, Reason: "missing data"}
	}
	return msg, nil
}

// Bind decodes the payload of the message into v, which must be a pointer.
func (m *Message) Bind(v any) error {
	if len(m.Data) == 0 {
		return &DecodeError{Type: m.Type, Reason: "missing data"}
	}
	if err := msgpack.Unmarshal(m.Data, v); err != nil {
		return &DecodeError{Type: m.Type, Reason: fmt.Sprintf("payload is not %T", v), Err: err}
	}
	return nil
}

// Value decodes the payload into a generic value, using int64, uint64,
// float64, string, []byte, []any and map[string]any for the
// corresponding msgpack types.
func (m *Message) Value() (any, error) {
	dec := msgpack.NewDecoder(bytes.NewReader(m.Data))
	dec.UseLooseInterfaceDecoding(true)
	v, err := dec.DecodeInterface()
	if err != nil {
		return nil, &DecodeError{Type: m.Type, Reason: "payload", Err: err}
	}
	return v, nil
}

// DecodeError is returned for a wire payload that cannot be decoded.
type DecodeError struct {
	// Type is the message type, if it could be read.
	Type string

	// Reason describes what was wrong with the payload.
	Reason string

	// Err is the underlying msgpack error, if any.
	Err error
}

func (e *DecodeError) Error() string {
	s := "wire: decode"
	if e.Type != "" {
		s += " " + e.Type
	}
	s += ": " + e.Reason
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *DecodeError) Unwrap() error { return e.Err }
