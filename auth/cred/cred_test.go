// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package cred_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.chromium.org/build/gcred/auth/adcfile"
	"go.chromium.org/build/gcred/auth/cred"
)

const authorizedUser = `{
  "type": "authorized_user",
  "client_id": "client-id.apps.googleusercontent.com",
  "client_secret": "client-secret",
  "refresh_token": "refresh-token",
  "project_id": "my-project"
}`

func resolver(t *testing.T, env map[string]string) adcfile.Resolver {
	t.Helper()
	return adcfile.Resolver{
		LookupEnv: func(key string) (string, bool) {
			v, ok := env[key]
			return v, ok
		},
		Sysname: func() string { return "Linux" },
	}
}

func writeFile(t *testing.T, fname, data string) {
	t.Helper()
	err := os.MkdirAll(filepath.Dir(fname), 0755)
	if err != nil {
		t.Fatal(err)
	}
	err = os.WriteFile(fname, []byte(data), 0600)
	if err != nil {
		t.Fatal(err)
	}
}

func TestNew(t *testing.T) {
	ctx := t.Context()
	fname := filepath.Join(t.TempDir(), "adc.json")
	writeFile(t, fname, authorizedUser)
	r := resolver(t, map[string]string{adcfile.EnvName: fname})
	src, err := r.FromEnv(ctx, adcfile.Scope{"https://www.googleapis.com/auth/cloud-platform"})
	if err != nil {
		t.Fatal(err)
	}
	c, err := cred.New(ctx, src)
	if err != nil {
		t.Fatalf("New()=_, %v; want nil err", err)
	}
	if c.Type != "authorized_user" || c.Strategy != "env" || c.Path != fname {
		t.Errorf("New()=%#v; want authorized_user from env %s", c, fname)
	}
	if c.ProjectID != "my-project" {
		t.Errorf("New().ProjectID=%q; want %q", c.ProjectID, "my-project")
	}
	if c.TokenSource() == nil {
		t.Errorf("New().TokenSource()=nil; want non-nil")
	}
	if got := len(c.ClientOptions()); got != 1 {
		t.Errorf("len(ClientOptions())=%d; want 1", got)
	}
	if got := len(c.DialOptions()); got != 2 {
		t.Errorf("len(DialOptions())=%d; want 2", got)
	}
}

func TestNew_InvalidJSON(t *testing.T) {
	ctx := t.Context()
	fname := filepath.Join(t.TempDir(), "adc.json")
	writeFile(t, fname, "not json")
	r := resolver(t, map[string]string{adcfile.EnvName: fname})
	src, err := r.FromEnv(ctx, nil)
	if err != nil {
		t.Fatal(err)
	}
	_, err = cred.New(ctx, src)
	if err == nil {
		t.Errorf("New()=_, nil; want error")
	}
}

func TestNew_NotFound(t *testing.T) {
	ctx := t.Context()
	missing := filepath.Join(t.TempDir(), "missing.json")
	r := resolver(t, map[string]string{adcfile.EnvName: missing})
	src, err := r.FromEnv(ctx, nil)
	if err != nil {
		t.Fatal(err)
	}
	_, err = cred.New(ctx, src)
	var cerr *adcfile.ConfigurationError
	if !errors.As(err, &cerr) {
		t.Fatalf("New()=_, %v; want ConfigurationError", err)
	}
	if cerr.Path != missing {
		t.Errorf("ConfigurationError.Path=%q; want %q", cerr.Path, missing)
	}

	_, err = cred.New(ctx, adcfile.Source{})
	if !errors.Is(err, cred.ErrNoCredentials) {
		t.Errorf("New(absent)=_, %v; want %v", err, cred.ErrNoCredentials)
	}
}

func TestDefault(t *testing.T) {
	ctx := t.Context()
	home := t.TempDir()
	writeFile(t, filepath.Join(home, "gcloud", "application_default_credentials.json"), authorizedUser)

	for _, tc := range []struct {
		name         string
		env          map[string]string
		onGCE        bool
		wantErr      error
		wantStrategy string
	}{
		{
			name:         "well-known",
			env:          map[string]string{"HOME": home},
			wantStrategy: "well-known",
		},
		{
			name:    "none",
			env:     map[string]string{"HOME": t.TempDir()},
			wantErr: cred.ErrNoCredentials,
		},
		{
			name:         "gce",
			env:          map[string]string{"HOME": t.TempDir()},
			onGCE:        true,
			wantStrategy: "gce",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			c, err := cred.Default(ctx, cred.Options{
				Resolver: resolver(t, tc.env),
				OnGCE:    func() bool { return tc.onGCE },
			})
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("Default()=_, %v; want %v", err, tc.wantErr)
			}
			if err != nil {
				return
			}
			if c.Strategy != tc.wantStrategy {
				t.Errorf("Default().Strategy=%q; want %q", c.Strategy, tc.wantStrategy)
			}
			if c.TokenSource() == nil {
				t.Errorf("Default().TokenSource()=nil; want non-nil")
			}
		})
	}
}
