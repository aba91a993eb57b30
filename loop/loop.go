// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package loop provides the single-threaded frame loop that drives
// the viewer. All state reads and writes happen on the loop; other
// goroutines hand work to it with [Loop.Post].
package loop

import (
	"context"
	"sync/atomic"
	"time"
)

// Frame describes one tick of a [Loop].
type Frame struct {

	// Index is the number of frames ticked before this one.
	Index int

	// Time is the sum of all frame deltas so far, including this one.
	Time time.Duration

	// Delta is the time since the previous frame.
	Delta time.Duration
}

// Loop is a frame loop. Each [Loop.Tick] first runs all posted
// functions in the order they were posted, and then calls every
// frame callback in registration order.
// It must be created with [New].
type Loop struct {
	posted    queue
	callbacks []func(f Frame)
	frame     Frame
	ticks     int
	ticking   bool
	running   atomic.Bool
}

// New returns a new loop.
func New() *Loop {
	return &Loop{}
}

// Post schedules fn to run on the loop at the start of the next frame.
// It is safe to call from any goroutine.
func (l *Loop) Post(fn func()) {
	l.posted.send(fn)
}

// Pending returns the number of posted functions not yet run.
func (l *Loop) Pending() int {
	return l.posted.size()
}

// OnFrame adds a callback that is called once per frame.
// It must be called on the loop (or before the loop starts).
func (l *Loop) OnFrame(fn func(f Frame)) {
	l.callbacks = append(l.callbacks, fn)
}

// Tick runs one frame that took the given delta time, and returns it.
// Functions posted while the frame runs are deferred to the next frame.
func (l *Loop) Tick(delta time.Duration) Frame {
	if l.ticking {
		panic("loop: Tick called from within a frame")
	}
	l.ticking = true
	defer func() { l.ticking = false }()

	f := Frame{Index: l.ticks, Time: l.frame.Time + delta, Delta: delta}
	l.ticks++
	for _, fn := range l.posted.take() {
		fn()
	}
	for _, cb := range l.callbacks {
		cb(f)
	}
	l.frame = f
	return f
}

// Running returns whether [Loop.Run] is running.
func (l *Loop) Running() bool {
	return l.running.Load()
}

// Run ticks the loop at the given rate until ctx is done.
// It returns nil when stopped through ctx.
func (l *Loop) Run(ctx context.Context, fps int) error {
	if fps <= 0 {
		fps = 60
	}
	l.running.Store(true)
	defer l.running.Store(false)
	tick := time.NewTicker(time.Second / time.Duration(fps))
	defer tick.Stop()
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-tick.C:
			l.Tick(now.Sub(last))
			last = now
		}
	}
}
