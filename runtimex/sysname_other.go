// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

//go:build !(linux || darwin || freebsd || netbsd || openbsd || dragonfly || windows)

package runtimex

import "runtime"

func sysname() string {
	return runtime.GOOS
}
