// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package retry_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"go.chromium.org/build/gcred/retry"
)

func retrieveError(code int) error {
	return &oauth2.RetrieveError{
		Response: &http.Response{StatusCode: code, Status: http.StatusText(code)},
	}
}

func TestDo_NoRetry(t *testing.T) {
	ctx := t.Context()
	called := 0
	err := retry.Do(ctx, func() error {
		called++
		return nil
	})
	if err != nil {
		t.Errorf("retry.Do=%v; want nil", err)
	}
	if called != 1 {
		t.Errorf("called=%d; want 1", called)
	}
}

func TestDo_NonRetriableError(t *testing.T) {
	ctx := t.Context()
	for _, testErr := range []error{
		fmt.Errorf("error"),
		retrieveError(http.StatusBadRequest),
	} {
		called := 0
		err := retry.Do(ctx, func() error {
			called++
			return testErr
		})
		if !errors.Is(err, testErr) {
			t.Errorf("retry.Do=%v; want %v", err, testErr)
		}
		if called != 1 {
			t.Errorf("called=%d; want 1 for %v", called, testErr)
		}
	}
}

func TestDo_RetriableError(t *testing.T) {
	ctx := t.Context()
	for _, testErr := range []error{
		status.Error(codes.Internal, "retriable error"),
		retrieveError(http.StatusServiceUnavailable),
	} {
		called := 0
		err := retry.Do(ctx, func() error {
			called++
			if called == 1 {
				return testErr
			}
			return nil
		})
		if err != nil {
			t.Errorf("retry.Do=%v; want nil", err)
		}
		if called != 2 {
			t.Errorf("called=%d; want 2 for %v", called, testErr)
		}
	}
}

func TestDo_AuthError(t *testing.T) {
	ctx, cancel := context.WithTimeout(t.Context(), 1*time.Second)
	defer cancel()
	for _, tc := range []struct {
		err   error
		check func(error) bool
	}{
		{
			err: status.Error(codes.PermissionDenied, "permission denied"),
			check: func(err error) bool {
				return status.Code(err) == codes.PermissionDenied
			},
		},
		{
			err: retrieveError(http.StatusUnauthorized),
			check: func(err error) bool {
				var rerr *oauth2.RetrieveError
				return errors.As(err, &rerr) && rerr.Response.StatusCode == http.StatusUnauthorized
			},
		},
	} {
		called := 0
		err := retry.Do(ctx, func() error {
			called++
			return tc.err
		})
		if !tc.check(err) {
			t.Errorf("retry.Do=%v; want %v", err, tc.err)
		}
		if called != 2 {
			t.Errorf("called=%d; want 2 for %v", called, tc.err)
		}
	}
}
