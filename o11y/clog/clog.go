// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package clog provides context aware logging on top of glog.
package clog

import (
	"context"
	"fmt"

	log "github.com/golang/glog"
	"github.com/google/uuid"
)

// Logger holds per-invocation logging attributes.
type Logger struct {
	// ID identifies the invocation. Each log line is prefixed with it.
	ID string
}

// New creates a new logger with a fresh invocation ID.
func New() *Logger {
	return &Logger{ID: uuid.NewString()}
}

type contextKey struct{}

// NewContext returns a context that carries logger.
func NewContext(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, logger)
}

// FromContext returns the logger in ctx, or nil if there is none.
func FromContext(ctx context.Context) *Logger {
	logger, _ := ctx.Value(contextKey{}).(*Logger)
	return logger
}

func (l *Logger) format(format string, args ...any) string {
	msg := fmt.Sprintf(format, args...)
	if l == nil || l.ID == "" {
		return msg
	}
	return l.ID + " " + msg
}

// Infof logs at info level.
func Infof(ctx context.Context, format string, args ...any) {
	log.InfoDepth(1, FromContext(ctx).format(format, args...))
}

// Warningf logs at warning level.
func Warningf(ctx context.Context, format string, args ...any) {
	log.WarningDepth(1, FromContext(ctx).format(format, args...))
}

// Errorf logs at error level.
func Errorf(ctx context.Context, format string, args ...any) {
	log.ErrorDepth(1, FromContext(ctx).format(format, args...))
}

// Exitf logs at fatal level and exits with status 1, without stack traces.
func Exitf(ctx context.Context, format string, args ...any) {
	log.ExitDepth(1, FromContext(ctx).format(format, args...))
}
