// Copyright 2025 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package version provides version info of the executable.
package version

import (
	"errors"
	"runtime/debug"
	"strings"
	"sync"
)

// Version contains version info.
type Version struct {
	Build *debug.BuildInfo
}

var (
	once       sync.Once
	currentVer Version
	currentErr error
)

// Current returns current version info.
func Current() (Version, error) {
	once.Do(func() {
		buildInfo, ok := debug.ReadBuildInfo()
		if !ok {
			currentErr = errors.New("cannot read go build info")
			return
		}
		currentVer.Build = buildInfo
	})
	return currentVer, currentErr
}

// ToolName returns tool's name.
func (v Version) ToolName() string {
	if v.Build != nil && v.Build.Main.Path != "" {
		return "gcred " + v.Build.Main.Path
	}
	return "gcred"
}

// ToolVersion returns tool's version.
func (v Version) ToolVersion() string {
	if v.Build != nil && v.Build.Main.Version != "" {
		return v.Build.Main.Version
	}
	return "unknown"
}

// BuildSettings returns vcs settings and command line flags used for the build.
func (v Version) BuildSettings() map[string]string {
	bs := make(map[string]string)
	if v.Build == nil {
		return bs
	}
	for _, s := range v.Build.Settings {
		if strings.HasPrefix(s.Key, "vcs.") || strings.HasPrefix(s.Key, "-") {
			bs[s.Key] = s.Value
		}
	}
	return bs
}
