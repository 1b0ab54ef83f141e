// Copyright 2025 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package signals makes it easier to catch interrupts.
package signals

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"go.chromium.org/build/gcred/o11y/clog"
)

// ErrInterrupted is the cause of the context canceled by interrupt.
var ErrInterrupted = errors.New("interrupted")

// WithInterrupt returns a context that is canceled with ErrInterrupted
// on interrupt (SIGTERM or Ctrl-C).
//
// When interrupt comes for a second time, logs and kills
// the process immediately via os.Exit(1).
//
// Returned func removes the installed signal handlers.
func WithInterrupt(ctx context.Context) (context.Context, func()) {
	ctx, cancel := context.WithCancelCause(ctx)
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)

	go func() {
		handled := false
		for sig := range ch {
			if handled {
				clog.Exitf(ctx, "Got second interrupt signal. Aborting.")
			}
			handled = true
			clog.Warningf(ctx, "got %v", sig)
			cancel(ErrInterrupted)
		}
	}()

	return ctx, func() {
		signal.Stop(ch)
		close(ch)
		cancel(nil)
	}
}
