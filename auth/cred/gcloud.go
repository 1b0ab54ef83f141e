// Copyright 2025 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package cred

import (
	"context"
	"io"
	"os/exec"
)

// Gcloud runs gcloud to manage the well-known credential file.
type Gcloud struct {
	// Path is gcloud's path. If empty, "gcloud" in $PATH is used.
	Path string

	Stdout, Stderr io.Writer
}

func (g Gcloud) run(ctx context.Context, args ...string) error {
	path := g.Path
	if path == "" {
		path = "gcloud"
	}
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdout = g.Stdout
	cmd.Stderr = g.Stderr
	return cmd.Run()
}

// Login creates the well-known credential file by
// `gcloud auth application-default login`.
func (g Gcloud) Login(ctx context.Context) error {
	return g.run(ctx, "auth", "application-default", "login")
}

// Logout revokes the well-known credential file by
// `gcloud auth application-default revoke`.
func (g Gcloud) Logout(ctx context.Context) error {
	return g.run(ctx, "auth", "application-default", "revoke")
}
