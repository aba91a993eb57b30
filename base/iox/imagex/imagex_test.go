// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package imagex

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testImage() *image.RGBA {
	im := image.NewRGBA(image.Rect(0, 0, 4, 3))
	im.Set(1, 1, color.RGBA{255, 0, 0, 255})
	return im
}

func TestExtToFormat(t *testing.T) {
	f, err := ExtToFormat(".JPG")
	assert.NoError(t, err)
	assert.Equal(t, JPEG, f)
	_, err = ExtToFormat("svg")
	assert.Error(t, err)
	_, err = ExtToFormat("")
	assert.Error(t, err)
}

func TestSniffDecode(t *testing.T) {
	for _, f := range []Formats{PNG, JPEG, GIF, BMP, TIFF} {
		var buf bytes.Buffer
		require.NoError(t, Write(testImage(), &buf, f))
		sf, mime, err := Sniff(buf.Bytes())
		require.NoError(t, err, f)
		assert.Equal(t, f, sf)
		assert.Equal(t, f.MIME(), mime)

		im, df, err := Decode(buf.Bytes())
		require.NoError(t, err, f)
		assert.Equal(t, f, df)
		assert.Equal(t, image.Pt(4, 3), im.Bounds().Size())
	}
}

func TestSniffUnknown(t *testing.T) {
	_, _, err := Sniff([]byte("definitely not an image"))
	assert.ErrorIs(t, err, ErrUnknownFormat)
	_, _, err = Decode(nil)
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestSave(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "frame.png")
	require.NoError(t, Save(testImage(), fn))
	b, err := os.ReadFile(fn)
	require.NoError(t, err)
	f, _, err := Sniff(b)
	assert.NoError(t, err)
	assert.Equal(t, PNG, f)
	assert.Error(t, Save(testImage(), filepath.Join(t.TempDir(), "frame.svg")))
}
