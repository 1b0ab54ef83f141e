// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package runtimex

import (
	"golang.org/x/sys/unix"
)

func sysname() string {
	var u unix.Utsname
	err := unix.Uname(&u)
	if err != nil {
		return ""
	}
	return unix.ByteSliceToString(u.Sysname[:])
}
