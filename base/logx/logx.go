// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package logx sets up the default [slog] logger used by the viewer
// binaries, with a user selected verbosity level.
package logx

import (
	"io"
	"log/slog"
	"os"

	"github.com/muesli/termenv"
)

// UserLevel is the verbosity level that the user has selected for
// what logging messages should be shown. Messages at levels at or
// above this level will be shown. The default is [slog.LevelInfo].
var UserLevel = slog.LevelInfo

// LevelFromFlags returns the [slog.Level] corresponding to the given
// user flag options. The flags correspond to the following values:
//   - vv: [slog.LevelDebug]
//   - v: [slog.LevelInfo]
//   - q: [slog.LevelError]
//   - (default: [slog.LevelWarn])
//
// The flags are evaluated in that order, so if both vv and q are
// specified, it still returns [slog.LevelDebug].
func LevelFromFlags(vv, v, q bool) slog.Level {
	switch {
	case vv:
		return slog.LevelDebug
	case v:
		return slog.LevelInfo
	case q:
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// SetDefaultLogger sets the default [slog] logger to a text handler
// writing to [os.Stderr] at [UserLevel].
func SetDefaultLogger() {
	slog.SetDefault(NewLogger(os.Stderr, UserLevel))
}

// NewLogger returns a text logger writing to w at the given level.
// Level names are colored when w is a terminal that supports it.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	out := termenv.NewOutput(w)
	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) > 0 || a.Key != slog.LevelKey || out.Profile == termenv.Ascii {
				return a
			}
			lvl, ok := a.Value.Any().(slog.Level)
			if !ok {
				return a
			}
			a.Value = slog.StringValue(out.String(lvl.String()).Foreground(out.Color(levelColor(lvl))).Bold().String())
			return a
		},
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// levelColor returns the ANSI color code used for the given level.
func levelColor(lvl slog.Level) string {
	switch {
	case lvl >= slog.LevelError:
		return "1"
	case lvl >= slog.LevelWarn:
		return "3"
	case lvl >= slog.LevelInfo:
		return "4"
	default:
		return "8"
	}
}
