// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package adcfile

import (
	"bytes"
	"io"
	"strings"
)

// Scope is the scope of the access request.
// The resolver doesn't interpret it, and just forwards it to Source.
type Scope []string

// ParseScope parses space-delimited scopes.
func ParseScope(s string) Scope {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil
	}
	return Scope(fields)
}

func (s Scope) String() string {
	return strings.Join(s, " ")
}

// Kind is a kind of resolved source.
type Kind int

const (
	// Absent means the strategy is not configured.
	Absent Kind = iota
	// Found means a readable credential file was located.
	Found
	// Misconfigured means the strategy is configured but unusable.
	// Source.Err holds the ConfigurationError.
	Misconfigured
)

func (k Kind) String() string {
	switch k {
	case Absent:
		return "absent"
	case Found:
		return "found"
	case Misconfigured:
		return "misconfigured"
	}
	return "unknown"
}

// Strategy identifies how the credential file is located.
type Strategy int

const (
	// EnvVar uses the path in $GOOGLE_APPLICATION_CREDENTIALS.
	EnvVar Strategy = iota
	// WellKnownFile uses gcloud's application default credentials file.
	WellKnownFile
)

func (s Strategy) String() string {
	switch s {
	case EnvVar:
		return "env"
	case WellKnownFile:
		return "well-known"
	}
	return "unknown"
}

// ConfigurationError is reported when the credential file is explicitly
// configured but can't be used.
// Only $GOOGLE_APPLICATION_CREDENTIALS reports it.
type ConfigurationError struct {
	Strategy Strategy
	Path     string
	Cause    string
}

func (e *ConfigurationError) Error() string {
	return "Unable to read the credential file specified by " + EnvName + ": " + e.Cause
}

// Source is a result of a resolution.
type Source struct {
	Kind     Kind
	Strategy Strategy
	// Path is the checked path. Empty if the strategy was not configured.
	Path  string
	Scope Scope
	// Err is set iff Kind is Misconfigured.
	Err *ConfigurationError

	buf []byte
}

// Open returns a new stream of the credential file contents.
// It returns an empty stream unless Kind is Found.
func (s Source) Open() io.ReadCloser {
	return io.NopCloser(bytes.NewReader(s.buf))
}

// Bytes returns a copy of the credential file contents.
func (s Source) Bytes() []byte {
	return bytes.Clone(s.buf)
}

// Size returns size of the credential file contents.
func (s Source) Size() int {
	return len(s.buf)
}
