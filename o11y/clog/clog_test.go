// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package clog

import (
	"testing"
)

func TestContext(t *testing.T) {
	ctx := t.Context()
	if got := FromContext(ctx); got != nil {
		t.Errorf("FromContext(empty)=%v; want nil", got)
	}
	logger := New()
	if logger.ID == "" {
		t.Errorf("New().ID is empty")
	}
	ctx = NewContext(ctx, logger)
	if got := FromContext(ctx); got != logger {
		t.Errorf("FromContext(ctx)=%p; want %p", got, logger)
	}
}

func TestFormat(t *testing.T) {
	var nilLogger *Logger
	if got, want := nilLogger.format("x=%d", 1), "x=1"; got != want {
		t.Errorf("nil.format=%q; want %q", got, want)
	}
	l := &Logger{ID: "abc"}
	if got, want := l.format("x=%d", 1), "abc x=1"; got != want {
		t.Errorf("format=%q; want %q", got, want)
	}
}
