// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package adcfile locates Google Application Default Credentials files.
//
// There are two strategies:
//   - $GOOGLE_APPLICATION_CREDENTIALS: a path explicitly set by the user.
//     If it is set but the file doesn't exist, it is a configuration error.
//   - well-known file: gcloud/application_default_credentials.json under
//     %APPDATA% on Windows, $HOME on others.
//     If the file doesn't exist, the strategy is just not configured.
//
// The package only returns raw file contents, and doesn't parse them.
// See go.chromium.org/build/gcred/auth/cred for the consumer.
package adcfile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"

	log "github.com/golang/glog"

	"go.chromium.org/build/gcred/o11y/clog"
	"go.chromium.org/build/gcred/runtimex"
)

const (
	// EnvName is the environment variable for the credential file path.
	EnvName = "GOOGLE_APPLICATION_CREDENTIALS"

	// WellKnownPath is the path of the well-known credential file
	// relative to the root directory.
	WellKnownPath = "gcloud/application_default_credentials.json"
)

// FS is a filesystem to read credential files from.
type FS interface {
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
}

type osFS struct{}

func (osFS) Stat(name string) (fs.FileInfo, error) { return os.Stat(name) }
func (osFS) ReadFile(name string) ([]byte, error)  { return os.ReadFile(name) }

// Resolver resolves credential files.
// Zero value uses the process environment, the OS filesystem and
// runtimex.Sysname.
// It holds no state, so it is safe to use concurrently.
type Resolver struct {
	// LookupEnv looks up environment variables. e.g. os.LookupEnv.
	LookupEnv func(key string) (string, bool)

	// FS is used to check and read credential files.
	FS FS

	// Sysname returns operating system identifier.
	// It is used to choose the root directory of the well-known file.
	Sysname func() string
}

func (r Resolver) getenv(key string) string {
	lookup := r.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	v, _ := lookup(key)
	return v
}

func (r Resolver) filesystem() FS {
	if r.FS == nil {
		return osFS{}
	}
	return r.FS
}

func (r Resolver) isWindows() bool {
	if r.Sysname == nil {
		return runtimex.IsWindows()
	}
	return runtimex.IsWindowsName(r.Sysname())
}

// FromEnv resolves the credential file specified by $GOOGLE_APPLICATION_CREDENTIALS.
//
// It returns Absent source if the variable is unset or empty, and
// Misconfigured source if the file doesn't exist or is empty.
// error is returned only for unexpected I/O failures, e.g. permission denied.
func (r Resolver) FromEnv(ctx context.Context, scope Scope) (Source, error) {
	src := Source{
		Kind:     Absent,
		Strategy: EnvVar,
		Scope:    scope,
	}
	fname := r.getenv(EnvName)
	if fname == "" {
		if log.V(1) {
			clog.Infof(ctx, "$%s is not set", EnvName)
		}
		return src, nil
	}
	src.Path = fname
	return r.read(ctx, src, true)
}

// WellKnownPath returns the path of the well-known credential file.
// It returns false if the root directory ($APPDATA on Windows,
// $HOME on others) is not set.
func (r Resolver) WellKnownPath() (string, bool) {
	rootEnv := "HOME"
	if r.isWindows() {
		rootEnv = "APPDATA"
	}
	root := r.getenv(rootEnv)
	if root == "" {
		return "", false
	}
	return filepath.Join(root, filepath.FromSlash(WellKnownPath)), true
}

// FromWellKnownPath resolves the well-known credential file.
//
// It returns Absent source if the file doesn't exist or is empty.
// It never returns Misconfigured source.
// error is returned only for unexpected I/O failures, e.g. permission denied.
func (r Resolver) FromWellKnownPath(ctx context.Context, scope Scope) (Source, error) {
	src := Source{
		Kind:     Absent,
		Strategy: WellKnownFile,
		Scope:    scope,
	}
	fname, ok := r.WellKnownPath()
	if !ok {
		if log.V(1) {
			clog.Infof(ctx, "no root dir for %s", WellKnownPath)
		}
		return src, nil
	}
	src.Path = fname
	return r.read(ctx, src, false)
}

// Resolve tries FromEnv, and falls back to FromWellKnownPath if
// $GOOGLE_APPLICATION_CREDENTIALS is not set.
func (r Resolver) Resolve(ctx context.Context, scope Scope) (Source, error) {
	src, err := r.FromEnv(ctx, scope)
	if err != nil || src.Kind != Absent {
		return src, err
	}
	return r.FromWellKnownPath(ctx, scope)
}

// read reads src.Path into src.
// If missingIsError is true, non-existing or empty file is Misconfigured.
// Otherwise, it is Absent.
func (r Resolver) read(ctx context.Context, src Source, missingIsError bool) (Source, error) {
	fsys := r.filesystem()
	_, err := fsys.Stat(src.Path)
	if notExist(err) {
		if !missingIsError {
			if log.V(1) {
				clog.Infof(ctx, "%s: %s doesn't exist", src.Strategy, src.Path)
			}
			return src, nil
		}
		return misconfigured(ctx, src, fmt.Sprintf("file %s does not exist", src.Path)), nil
	}
	if err != nil {
		return src, fmt.Errorf("failed to stat credential file %s: %w", src.Path, err)
	}
	buf, err := fsys.ReadFile(src.Path)
	if err != nil {
		return src, fmt.Errorf("failed to read credential file %s: %w", src.Path, err)
	}
	if len(buf) == 0 {
		if !missingIsError {
			if log.V(1) {
				clog.Infof(ctx, "%s: %s is empty", src.Strategy, src.Path)
			}
			return src, nil
		}
		return misconfigured(ctx, src, fmt.Sprintf("file %s is empty", src.Path)), nil
	}
	src.Kind = Found
	src.buf = buf
	clog.Infof(ctx, "%s: use credential file %s", src.Strategy, src.Path)
	return src, nil
}

// notExist reports whether err means the path doesn't exist.
// ENOTDIR is returned when some parent of the path is not a directory.
func notExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR)
}

func misconfigured(ctx context.Context, src Source, cause string) Source {
	src.Kind = Misconfigured
	src.Err = &ConfigurationError{
		Strategy: src.Strategy,
		Path:     src.Path,
		Cause:    cause,
	}
	clog.Warningf(ctx, "%v", src.Err)
	return src
}
