// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bridge

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"

	"cogentcore.org/xrviewer/base/iox/imagex"
	"cogentcore.org/xrviewer/render"
	"cogentcore.org/xrviewer/state"
)

// Renderer renders placeholder frames: a flat image per render type,
// sized by the requested resolution, sent as a JPEG data URL.
type Renderer struct {

	// Colors are the fill colors by render type.
	Colors map[string]color.Color
}

// NewRenderer returns a renderer with a distinct color per render type.
func NewRenderer() *Renderer {
	return &Renderer{Colors: map[string]color.Color{
		string(state.RGB):     color.RGBA{64, 96, 160, 255},
		string(state.RGBMask): color.RGBA{160, 64, 96, 255},
		string(state.Depth):   color.Gray{128},
	}}
}

// Render returns the frame for the given state as a data URL. The
// resolution defaults to [state.Res720] until the viewer has sent one.
func (r *Renderer) Render(st State) (string, error) {
	res := state.Resolutions(st.Resolution)
	if res == "" {
		res = state.Res720
	}
	w, h, err := res.Size()
	if err != nil {
		return "", err
	}
	c, ok := r.Colors[st.RenderType]
	if !ok {
		c = color.Black
	}
	im := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(im, im.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	var b bytes.Buffer
	if err := imagex.Write(im, &b, imagex.JPEG); err != nil {
		return "", err
	}
	rr := &render.Result{MIME: imagex.JPEG.MIME(), Format: imagex.JPEG, Data: b.Bytes()}
	return rr.DataURL(), nil
}
