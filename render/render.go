// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package render interprets the render results a backend sends
// with UPDATE_RENDER_RESULT messages.
package render

import (
	"encoding/base64"
	"fmt"
	"image"
	"strings"

	"cogentcore.org/xrviewer/base/iox/imagex"
)

// OctetStream is the MIME type of payloads that are not a recognized image.
const OctetStream = "application/octet-stream"

// Result is one rendered frame received from the backend.
// Exactly one of Data and URL is set.
type Result struct {

	// MIME is the media type of Data, or of the data URL it came from.
	MIME string

	// Format is the recognized image format, or [imagex.None].
	Format imagex.Formats

	// Data is the encoded image.
	Data []byte

	// Image is the decoded image, or nil if Data could not be decoded.
	Image image.Image

	// URL is an opaque image address the backend sent instead of data.
	URL string
}

// Size returns the pixel size of the decoded image, or zero.
func (r *Result) Size() image.Point {
	if r == nil || r.Image == nil {
		return image.Point{}
	}
	return r.Image.Bounds().Size()
}

// Decode interprets a render result payload, which is either encoded
// image bytes or a string holding a base64 data URL or a plain URL.
// An undecodable payload still returns a non-nil Result holding the raw
// bytes, along with the error, so that the caller can keep and report it.
func Decode(payload any) (*Result, error) {
	switch v := payload.(type) {
	case []byte:
		return decodeBytes(v, "")
	case string:
		if strings.HasPrefix(v, "data:") {
			return decodeDataURL(v)
		}
		if v == "" {
			return nil, fmt.Errorf("render: empty result")
		}
		return &Result{URL: v}, nil
	case nil:
		return nil, fmt.Errorf("render: empty result")
	}
	return nil, fmt.Errorf("render: unsupported result payload %T", payload)
}

func decodeBytes(b []byte, mime string) (*Result, error) {
	res := &Result{MIME: OctetStream, Data: b}
	if mime != "" {
		res.MIME = mime
	}
	im, f, err := imagex.Decode(b)
	if err != nil {
		return res, fmt.Errorf("render: decoding %d byte result: %w", len(b), err)
	}
	_, sniffed, _ := imagex.Sniff(b)
	res.MIME = sniffed
	res.Format = f
	res.Image = im
	return res, nil
}

// decodeDataURL handles data:[<mime>][;base64],<data>.
func decodeDataURL(s string) (*Result, error) {
	meta, data, ok := strings.Cut(strings.TrimPrefix(s, "data:"), ",")
	if !ok {
		return nil, fmt.Errorf("render: malformed data URL")
	}
	mime, isBase64 := strings.CutSuffix(meta, ";base64")
	if !isBase64 {
		return nil, fmt.Errorf("render: data URL is not base64 encoded")
	}
	b, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, fmt.Errorf("render: data URL: %w", err)
	}
	return decodeBytes(b, mime)
}

// DataURL returns the result as a base64 data URL, or its URL.
func (r *Result) DataURL() string {
	if r.URL != "" {
		return r.URL
	}
	return "data:" + r.MIME + ";base64," + base64.StdEncoding.EncodeToString(r.Data)
}
