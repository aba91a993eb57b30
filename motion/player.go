// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package motion

import (
	"math"
	"time"
)

// Player is the playback position of a clip. It loops between
// From and To while playing. The zero value is not usable; use
// [NewPlayer].
type Player struct {

	// From is the first frame.
	From float64

	// To is the last frame.
	To float64

	// Speed scales the playback rate; 1 is [FPS] frames per second.
	Speed float64

	frame   float64
	playing bool
}

// NewPlayer returns a paused player at the start of the given clip.
func NewPlayer(c *Clip) *Player {
	return &Player{From: c.From, To: c.To, Speed: 1, frame: c.From}
}

// Play starts or resumes playback from the current frame.
func (p *Player) Play() { p.playing = true }

// Pause stops playback, keeping the current frame.
func (p *Player) Pause() { p.playing = false }

// IsPlaying returns whether the player is playing.
func (p *Player) IsPlaying() bool { return p.playing }

// CurrentFrame returns the current, possibly fractional, frame.
func (p *Player) CurrentFrame() float64 { return p.frame }

// GoToFrame moves to the given frame, clamped to [From, To],
// without changing the play state.
func (p *Player) GoToFrame(frame float64) {
	p.frame = max(p.From, min(frame, p.To))
}

// Advance moves a playing player forward by dt, wrapping at To.
func (p *Player) Advance(dt time.Duration) {
	if !p.playing || dt <= 0 {
		return
	}
	p.frame += dt.Seconds() * FPS * p.Speed
	span := p.To - p.From
	if span <= 0 {
		p.frame = p.From
		return
	}
	if p.frame > p.To {
		p.frame = p.From + math.Mod(p.frame-p.From, span)
	}
}
