// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package loop

import "sync"

// queue collects the functions posted to a [Loop] between frames.
// Posting appends to the current batch; a frame takes the whole batch
// at once, so that anything posted while it runs lands in the next one.
type queue struct {
	mu    sync.Mutex
	batch []func()
	spare []func()
}

// send appends fn to the current batch.
func (q *queue) send(fn func()) {
	q.mu.Lock()
	q.batch = append(q.batch, fn)
	q.mu.Unlock()
}

// take returns the current batch and starts a new one. The returned
// slice is only valid until the next call to take.
func (q *queue) take() []func() {
	q.mu.Lock()
	defer q.mu.Unlock()
	b := q.batch
	clear(q.spare)
	q.batch = q.spare[:0]
	q.spare = b
	return b
}

// size returns the number of functions in the current batch.
func (q *queue) size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.batch)
}
