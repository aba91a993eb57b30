// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wire

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

// roundTrip encodes data, decodes the envelope and binds the payload
// into a fresh value of the same type.
func roundTrip[T any](t *testing.T, typ string, data T) T {
	t.Helper()
	b, err := Encode(typ, data)
	require.NoError(t, err)
	msg, err := Decode(b)
	require.NoError(t, err)
	assert.Equal(t, typ, msg.Type)
	var got T
	require.NoError(t, msg.Bind(&got))
	return got
}

func TestRoundTrip(t *testing.T) {
	assert.Equal(t, float32(60), roundTrip(t, UpdateCameraFOV, float32(60)))
	assert.Equal(t, 42.5, roundTrip(t, UpdateCameraFOV, 42.5))
	assert.Equal(t, int64(-7), roundTrip(t, "INT", int64(-7)))
	assert.Equal(t, "rgb_mask", roundTrip(t, UpdateRenderType, "rgb_mask"))
	assert.Equal(t, true, roundTrip(t, "BOOL", true))
	assert.Equal(t, [3]float32{0, 0, -10}, roundTrip(t, UpdateCameraTranslation, [3]float32{0, 0, -10}))
	rot := [9]float32{1, 0, 0, 0, 1, 0, 0, 0, 1}
	assert.Equal(t, rot, roundTrip(t, UpdateCameraRotation, rot))
	nested := [][]float64{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}}
	assert.Equal(t, nested, roundTrip(t, "NESTED", nested))
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, roundTrip(t, UpdateRenderResult, []byte{0x89, 'P', 'N', 'G'}))
}

func TestEnvelopeIsBinaryMap(t *testing.T) {
	b, err := Encode(UpdateResolution, "720")
	require.NoError(t, err)
	// fixmap with two entries, not a JSON object
	assert.Equal(t, byte(0x82), b[0])

	var m map[string]any
	require.NoError(t, msgpack.Unmarshal(b, &m))
	assert.Equal(t, UpdateResolution, m["type"])
	assert.Equal(t, "720", m["data"])
}

func TestDecodeForeignEnvelope(t *testing.T) {
	// the shape a dynamic encoder produces: a plain map with float64 numbers
	b, err := msgpack.Marshal(map[string]any{"type": UpdateCameraFOV, "data": 75.0})
	require.NoError(t, err)
	msg, err := Decode(b)
	require.NoError(t, err)
	v, err := msg.Value()
	require.NoError(t, err)
	assert.Equal(t, 75.0, v)
}

func TestDecodeErrors(t *testing.T) {
	good, err := Encode(UpdateRenderType, "rgb")
	require.NoError(t, err)
	noType, err := msgpack.Marshal(map[string]any{"data": 1})
	require.NoError(t, err)
	noData, err := msgpack.Marshal(map[string]any{"type": "X"})
	require.NoError(t, err)

	for name, b := range map[string][]byte{
		"empty":     nil,
		"garbage":   {0xc1, 0xff, 0x00},
		"truncated": good[:len(good)-2],
		"trailing":  append(append([]byte{}, good...), 0x01),
		"no type":   noType,
		"no data":   noData,
	} {
		msg, err := Decode(b)
		assert.Nil(t, msg, name)
		var de *DecodeError
		assert.True(t, errors.As(err, &de), name)
	}
}

func TestBindWrongType(t *testing.T) {
	b, err := Encode(UpdateRenderType, "rgb")
	require.NoError(t, err)
	msg, err := Decode(b)
	require.NoError(t, err)
	var v [3]float32
	err = msg.Bind(&v)
	var de *DecodeError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, UpdateRenderType, de.Type)
}

func TestEncodeEmptyType(t *testing.T) {
	_, err := Encode("", 1)
	assert.Error(t, err)
}
