// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package runtimex provides runtime information about the host platform.
package runtimex

import "strings"

// IsWindowsName reports whether the operating system identifier name
// belongs to the Windows family, i.e. its first three characters are
// "WIN" in any case. e.g. "Windows_NT", "WIN32".
func IsWindowsName(name string) bool {
	if len(name) < 3 {
		return false
	}
	return strings.EqualFold(name[:3], "WIN")
}

// IsWindows reports whether the process runs on a Windows-family OS.
func IsWindows() bool {
	return IsWindowsName(Sysname())
}

// Sysname returns the operating system identifier of the host,
// as reported by uname(2) on unix. e.g. "Linux", "Darwin".
// It returns "" if it is unavailable.
func Sysname() string {
	return sysname()
}
