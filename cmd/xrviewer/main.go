// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command xrviewer runs a headless viewer session: it connects to a
// rendering backend, keeps it in sync with the viewer state, stages
// camera calibrations dropped into an upload directory and plays a
// body-motion asset.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"cogentcore.org/xrviewer/base/logx"
	"cogentcore.org/xrviewer/calib"
	"cogentcore.org/xrviewer/config"
	"cogentcore.org/xrviewer/session"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "xrviewer:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := parseConfig(args)
	if err != nil {
		return err
	}
	logx.UserLevel = logx.LevelFromFlags(cfg.VeryVerbose, cfg.Verbose, cfg.Quiet)
	logx.SetDefaultLogger()

	if cfg.SaveFrames != "" {
		if err := os.MkdirAll(cfg.SaveFrames, 0o755); err != nil {
			return err
		}
	}
	s, err := session.New(cfg)
	if err != nil {
		return err
	}
	var w *calib.Watcher
	if cfg.UploadDir != "" {
		w, err = calib.NewWatcher(cfg.UploadDir, func(paths []string) {
			s.Loop.Post(func() { s.UploadCameraFiles(paths, nil) })
		})
		if err != nil {
			return err
		}
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s.Start()
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.Run(ctx) })
	if w != nil {
		g.Go(func() error { return w.Run(ctx) })
	}
	slog.Info("xrviewer running", "session", s.ID.String(), "fps", cfg.FPS)
	err = g.Wait()
	s.Close()
	return err
}

// parseConfig returns the config of the given config file, if any,
// overridden by the flags that were set.
func parseConfig(args []string) (*config.Config, error) {
	def := config.New()
	fs := flag.NewFlagSet("xrviewer", flag.ContinueOnError)
	file := fs.String("config", "", "config file (.toml, .yaml or .json)")
	url := fs.String("url", def.URL, "websocket address of the backend")
	uploadDir := fs.String("upload-dir", "", "directory watched for camera calibration files")
	body := fs.String("body", "", "body-motion asset (.glb) to load at startup")
	saveFrames := fs.String("save-frames", "", "directory to save received render results to")
	fps := fs.Int("fps", def.FPS, "frame rate")
	v := fs.Bool("v", false, "show info log messages")
	vv := fs.Bool("vv", false, "show debug log messages")
	q := fs.Bool("q", false, "only show error log messages")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg := def
	if *file != "" {
		if err := cfg.Open(*file); err != nil {
			return nil, err
		}
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "url":
			cfg.URL = *url
		case "upload-dir":
			cfg.UploadDir = *uploadDir
		case "body":
			cfg.BodyMotion = *body
		case "save-frames":
			cfg.SaveFrames = *saveFrames
		case "fps":
			cfg.FPS = *fps
		case "v":
			cfg.Verbose = *v
		case "vv":
			cfg.VeryVerbose = *vv
		case "q":
			cfg.Quiet = *q
		}
	})
	if err := cfg.ExpandPaths(); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}
