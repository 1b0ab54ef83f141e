// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package retry provides retrying functionalities.
package retry

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"go.chromium.org/build/gcred/o11y/clog"
)

// ExponentialBackoff handles exponential backoff.
type ExponentialBackoff struct {
	started time.Time
	retries int
	delay   time.Duration

	// retried for auth failure.
	// we allow auth retry at most once, since next call should
	// succeed with credential refresh.
	authRetry bool
}

func (b *ExponentialBackoff) authRetriable() bool {
	retry := b.authRetry
	b.authRetry = true
	return !retry
}

func (b *ExponentialBackoff) retriableError(err error) bool {
	var rerr *oauth2.RetrieveError
	if errors.As(err, &rerr) {
		if rerr.Response == nil {
			return false
		}
		switch rerr.Response.StatusCode {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		case http.StatusUnauthorized:
			return b.authRetriable()
		}
		return false
	}
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return true
	}

	st, ok := status.FromError(err)
	if !ok {
		st = status.FromContextError(err)
	}
	switch st.Code() {
	case codes.ResourceExhausted,
		codes.Internal,
		codes.Unavailable,
		codes.Aborted:
		return true
	case codes.Unknown:
		// unknown grpc error should retry, but non grpc error should not.
		return ok
	case codes.Unauthenticated,
		codes.PermissionDenied:
		// access token may be expired. next call should
		// succeed after refresh, so allow at most once.
		return b.authRetriable()
	}
	return false
}

// Next returns next backoff delay.
// If delay is 0, no need to retry any more.
func (b *ExponentialBackoff) Next(ctx context.Context, err error) (time.Duration, error) {
	if err == nil {
		return 0, nil
	}
	const maxRetries = 5
	const multiplier = 2
	const baseDelay = 200 * time.Millisecond
	const maxDelay = float64(5 * time.Second)
	const backoffRange = 0.4
	if b.started.IsZero() {
		b.started = time.Now()
	}
	if b.delay == 0 {
		b.delay = baseDelay
	}

	if !b.retriableError(err) {
		return 0, err
	}

	if b.retries >= maxRetries {
		return 0, fmt.Errorf("too many retries %d %s: %w", b.retries, time.Since(b.started), err)
	}
	b.retries++
	backoff := float64(b.delay) * multiplier
	if backoff > maxDelay {
		backoff = maxDelay
	}
	backoff -= backoff * backoffRange * rand.Float64()
	b.delay = time.Duration(backoff)
	if b.delay < baseDelay {
		b.delay = baseDelay
	}
	return b.delay, err
}

// Do calls function `f` and retries with exponential backoff for errors that are known to be retriable.
func Do(ctx context.Context, f func() error) error {
	var backoff ExponentialBackoff
	for {
		err := f()
		delay, err := backoff.Next(ctx, err)
		if delay == 0 {
			return err
		}
		clog.Warningf(ctx, "retry backoff=%s: %v", delay, err)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return context.Cause(ctx)
		}
	}
}
