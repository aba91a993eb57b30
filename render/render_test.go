// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package render

import (
	"bytes"
	"encoding/base64"
	"image"
	"testing"

	"cogentcore.org/xrviewer/base/iox/imagex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encoded(t *testing.T, f imagex.Formats) []byte {
	var buf bytes.Buffer
	require.NoError(t, imagex.Write(image.NewRGBA(image.Rect(0, 0, 8, 6)), &buf, f))
	return buf.Bytes()
}

func TestDecodeBytes(t *testing.T) {
	res, err := Decode(encoded(t, imagex.PNG))
	require.NoError(t, err)
	assert.Equal(t, "image/png", res.MIME)
	assert.Equal(t, imagex.PNG, res.Format)
	assert.Equal(t, image.Pt(8, 6), res.Size())
}

func TestDecodeDataURL(t *testing.T) {
	b := encoded(t, imagex.JPEG)
	res, err := Decode("data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(b))
	require.NoError(t, err)
	assert.Equal(t, imagex.JPEG, res.Format)
	assert.Equal(t, b, res.Data)
	assert.Equal(t, "data:image/jpeg;base64,"+base64.StdEncoding.EncodeToString(b), res.DataURL())
}

func TestDecodeURL(t *testing.T) {
	res, err := Decode("blob:http://localhost/1234")
	require.NoError(t, err)
	assert.Equal(t, "blob:http://localhost/1234", res.URL)
	assert.Nil(t, res.Image)
	assert.Equal(t, res.URL, res.DataURL())
}

func TestDecodeInvalid(t *testing.T) {
	res, err := Decode([]byte{1, 2, 3})
	assert.Error(t, err)
	require.NotNil(t, res)
	assert.Equal(t, OctetStream, res.MIME)
	assert.Equal(t, []byte{1, 2, 3}, res.Data)

	_, err = Decode("data:image/png,rawtext")
	assert.Error(t, err)
	_, err = Decode("data:image/png;base64,***")
	assert.Error(t, err)
	_, err = Decode(42)
	assert.Error(t, err)
	_, err = Decode(nil)
	assert.Error(t, err)
	_, err = Decode("")
	assert.Error(t, err)
}
