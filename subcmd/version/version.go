// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package version provides version subcommand.
package version

import (
	"context"
	"flag"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"

	"github.com/google/subcommands"

	"go.chromium.org/build/gcred/version"
)

// Cmd returns the Command for the `version` subcommand.
func Cmd(ver string) *Command {
	return &Command{
		version: ver,
		w:       os.Stdout,
	}
}

func (*Command) Name() string {
	return "version"
}

func (*Command) Synopsis() string {
	return "prints the executable version"
}

func (*Command) Usage() string {
	return "Prints the executable version and its build info.\n"
}

// Command implements version subcommand.
type Command struct {
	version string
	w       io.Writer
}

func (c *Command) SetFlags(flagSet *flag.FlagSet) {}

func (c *Command) Execute(ctx context.Context, flagSet *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if flagSet.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "position arguments not expected\n")
		return subcommands.ExitUsageError
	}
	fmt.Fprintln(c.w, c.version)
	ver, err := version.Current()
	if err != nil {
		// not built with module support. e.g. go test binary.
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return subcommands.ExitSuccess
	}
	fmt.Fprintf(c.w, "go\t%s\n", ver.Build.GoVersion)
	fmt.Fprintf(c.w, "mod\t%s\t%s\t%s\n", ver.Build.Main.Path, ver.Build.Main.Version, ver.Build.Main.Sum)
	bs := ver.BuildSettings()
	for _, k := range slices.Sorted(maps.Keys(bs)) {
		fmt.Fprintf(c.w, "build\t%s=%s\n", k, bs[k])
	}
	return subcommands.ExitSuccess
}
