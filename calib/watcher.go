// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package calib

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long a [Watcher] waits for an upload
// directory to settle before reporting it.
const DefaultDebounce = 250 * time.Millisecond

// Watcher watches an upload directory for calibration files and
// reports the full sorted list of *.json files in it whenever they
// change, once the directory has been quiet for Debounce.
type Watcher struct {

	// Dir is the watched directory.
	Dir string

	// Debounce is the settle time before a change is reported.
	Debounce time.Duration

	// Changed is called from the watcher goroutine with the current files.
	Changed func(paths []string)

	watcher *fsnotify.Watcher
}

// NewWatcher returns a new watcher on the given directory.
// [Watcher.Run] must be called to start reporting changes.
func NewWatcher(dir string, changed func(paths []string)) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, err
	}
	return &Watcher{Dir: dir, Debounce: DefaultDebounce, Changed: changed, watcher: w}, nil
}

// Files returns the sorted *.json files in the given directory.
func Files(dir string) ([]string, error) {
	ents, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, e := range ents {
		if e.IsDir() || !isCalibFile(e.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	slices.Sort(paths)
	return paths, nil
}

func isCalibFile(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".json") && !strings.HasPrefix(name, ".")
}

// Run reports the files already present, if any, and then reports
// every settled change until ctx is done. It closes the watcher
// when it returns.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()
	w.report()
	timer := time.NewTimer(w.Debounce)
	timer.Stop()
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !isCalibFile(filepath.Base(event.Name)) {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0 {
				timer.Reset(w.Debounce)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("calib: watching upload directory", "dir", w.Dir, "err", err)
		case <-timer.C:
			w.report()
		}
	}
}

func (w *Watcher) report() {
	paths, err := Files(w.Dir)
	if err != nil {
		slog.Error("calib: listing upload directory", "dir", w.Dir, "err", err)
		return
	}
	if len(paths) == 0 {
		return
	}
	w.Changed(paths)
}
