// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command xrbridge runs a development backend for xrviewer: it
// accepts viewer connections, mirrors the state they send and, unless
// disabled, answers every update with a placeholder render result.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cogentcore.org/xrviewer/base/logx"
	"cogentcore.org/xrviewer/bridge"
	"golang.org/x/sync/errgroup"
)

func main() {
	addr := flag.String("addr", ":4567", "address to listen on")
	render := flag.Bool("render", true, "answer every update with a placeholder render result")
	v := flag.Bool("v", false, "show info log messages")
	vv := flag.Bool("vv", false, "show debug log messages")
	q := flag.Bool("q", false, "only show error log messages")
	flag.Parse()

	logx.UserLevel = logx.LevelFromFlags(*vv, *v, *q)
	logx.SetDefaultLogger()
	if err := run(*addr, *render); err != nil {
		fmt.Fprintln(os.Stderr, "xrbridge:", err)
		os.Exit(1)
	}
}

func run(addr string, render bool) error {
	srv := bridge.NewServer()
	if render {
		srv.Renderer = bridge.NewRenderer()
	}
	srv.Updated = func(typ string, st bridge.State) {
		slog.Debug("update", "type", typ, "state", st)
	}
	hs := &http.Server{Addr: addr, Handler: srv}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("xrbridge listening", "addr", addr)
		if err := hs.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		srv.Close()
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return hs.Shutdown(sctx)
	})
	return g.Wait()
}
