// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package cred provides gRPC / API credentials built from
// Google Application Default Credentials.
package cred

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/compute/metadata"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/oauth"

	"go.chromium.org/build/gcred/auth/adcfile"
	"go.chromium.org/build/gcred/o11y/clog"
	"go.chromium.org/build/gcred/o11y/monitoring"
)

// ErrNoCredentials is returned when no credential is configured.
var ErrNoCredentials = errors.New("could not find default credentials. see https://cloud.google.com/docs/authentication/external/set-up-adc")

// Cred holds credentials and derived values.
type Cred struct {
	// Type is credential type. e.g. "service_account", "authorized_user", "gce".
	Type string

	// Strategy is how the credential was found. e.g. "env", "well-known", "gce".
	Strategy string

	// Path is the credential file path. Empty for "gce".
	Path string

	// ProjectID is the project associated with the credential, if any.
	ProjectID string

	creds       *google.Credentials
	tokenSource oauth2.TokenSource
}

// Options is an options for default credentials.
type Options struct {
	Scope    adcfile.Scope
	Resolver adcfile.Resolver

	// OnGCE reports whether it runs on Google Compute Engine.
	// If nil, metadata.OnGCE is used.
	OnGCE func() bool
}

// New creates a Cred from the resolved credential file.
// It returns ErrNoCredentials for Absent source, and the
// ConfigurationError for Misconfigured source.
func New(ctx context.Context, src adcfile.Source) (Cred, error) {
	switch src.Kind {
	case adcfile.Absent:
		return Cred{}, ErrNoCredentials
	case adcfile.Misconfigured:
		return Cred{}, src.Err
	}
	buf := src.Bytes()
	var f struct {
		Type string `json:"type"`
	}
	err := json.Unmarshal(buf, &f)
	if err != nil {
		return Cred{}, fmt.Errorf("failed to parse credential file %s: %w", src.Path, err)
	}
	creds, err := google.CredentialsFromJSONWithParams(ctx, buf, google.CredentialsParams{
		Scopes: src.Scope,
	})
	if err != nil {
		return Cred{}, fmt.Errorf("failed to load credential file %s: %w", src.Path, err)
	}
	clog.Infof(ctx, "use auth %s from %s: %s", f.Type, src.Strategy, src.Path)
	return Cred{
		Type:        f.Type,
		Strategy:    src.Strategy.String(),
		Path:        src.Path,
		ProjectID:   creds.ProjectID,
		creds:       creds,
		tokenSource: creds.TokenSource,
	}, nil
}

// Default finds Application Default Credentials.
// It checks $GOOGLE_APPLICATION_CREDENTIALS, the well-known file, and
// the GCE metadata server in this order.
func Default(ctx context.Context, opts Options) (Cred, error) {
	started := time.Now()
	src, err := opts.Resolver.Resolve(ctx, opts.Scope)
	if err != nil {
		monitoring.ExportResolution(ctx, src.Strategy.String(), "error", time.Since(started))
		return Cred{}, err
	}
	if src.Kind != adcfile.Absent {
		monitoring.ExportResolution(ctx, src.Strategy.String(), src.Kind.String(), time.Since(started))
		return New(ctx, src)
	}
	onGCE := opts.OnGCE
	if onGCE == nil {
		onGCE = metadata.OnGCE
	}
	if !onGCE() {
		monitoring.ExportResolution(ctx, src.Strategy.String(), src.Kind.String(), time.Since(started))
		clog.Warningf(ctx, "no credential file, and not on GCE")
		return Cred{}, ErrNoCredentials
	}
	monitoring.ExportResolution(ctx, "gce", adcfile.Found.String(), time.Since(started))
	clog.Infof(ctx, "use auth gce metadata server")
	return Cred{
		Type:        "gce",
		Strategy:    "gce",
		tokenSource: google.ComputeTokenSource("", opts.Scope...),
	}, nil
}

// TokenSource returns token source of the credential.
func (c Cred) TokenSource() oauth2.TokenSource {
	return c.tokenSource
}

// DialOptions returns grpc's dial options to use the credential.
func (c Cred) DialOptions() []grpc.DialOption {
	if c.tokenSource == nil {
		return nil
	}
	return []grpc.DialOption{
		grpc.WithPerRPCCredentials(oauth.TokenSource{
			TokenSource: c.tokenSource,
		}),
		grpc.WithTransportCredentials(credentials.NewTLS(&tls.Config{})),
	}
}

// ClientOptions returns client options to use the credential.
func (c Cred) ClientOptions() []option.ClientOption {
	if c.creds != nil {
		return []option.ClientOption{
			option.WithCredentials(c.creds),
		}
	}
	if c.tokenSource == nil {
		return nil
	}
	return []option.ClientOption{
		option.WithTokenSource(c.tokenSource),
	}
}
