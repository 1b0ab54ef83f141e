// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package ui provides user interface functionalities.
package ui

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"sync"

	"golang.org/x/term"
)

// UI is an interface to report messages to users.
type UI interface {
	// Infof reports to stdout.
	Infof(format string, args ...any)
	// Warningf reports to stderr.
	Warningf(format string, args ...any)
	// Errorf reports to stderr.
	Errorf(format string, args ...any)
}

// Default is the default UI.
var Default UI = New(os.Stdout, os.Stderr)

// SGR code for text formatting.
type SGRCode int

const (
	Bold SGRCode = iota
	Red
	Green
	Yellow
	Reset
)

var sgrCodes = map[SGRCode]string{
	Bold:   "\033[1m",
	Red:    "\033[31;1m",
	Green:  "\033[32m",
	Yellow: "\033[33m",
	Reset:  "\033[0m",
}

// SGR formats a string with the given SGR code.
func SGR(n SGRCode, s string) string {
	return sgrCodes[n] + s + sgrCodes[Reset]
}

var ansiEscapeCodes = regexp.MustCompile(`\x1b\[[0-9;]*[A-Za-z]`)

// StripANSIEscapeCodes strips ANSI escape codes.
func StripANSIEscapeCodes(s string) string {
	return ansiEscapeCodes.ReplaceAllString(s, "")
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// TermUI is a terminal-based UI.
// It strips colors when output is not a terminal, or $NO_COLOR is set.
type TermUI struct {
	mu      sync.Mutex
	stdout  io.Writer
	stderr  io.Writer
	noColor bool
}

// New creates a TermUI writing to stdout and stderr.
func New(stdout, stderr io.Writer) *TermUI {
	_, noColor := os.LookupEnv("NO_COLOR")
	return &TermUI{
		stdout:  stdout,
		stderr:  stderr,
		noColor: noColor || !IsTerminal(stderr),
	}
}

func (t *TermUI) print(w io.Writer, format string, args ...any) {
	s := fmt.Sprintf(format, args...)
	if t.noColor {
		s = StripANSIEscapeCodes(s)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprint(w, s)
}

// Infof reports to stdout.
func (t *TermUI) Infof(format string, args ...any) {
	t.print(t.stdout, format, args...)
}

// Warningf reports to stderr.
func (t *TermUI) Warningf(format string, args ...any) {
	t.print(t.stderr, format, args...)
}

// Errorf reports to stderr.
func (t *TermUI) Errorf(format string, args ...any) {
	t.print(t.stderr, format, args...)
}
