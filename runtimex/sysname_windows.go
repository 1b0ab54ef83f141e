// Copyright 2024 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

//go:build windows

package runtimex

// same as %OS% on Windows NT family.
func sysname() string {
	return "Windows_NT"
}
