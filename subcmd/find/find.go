// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package find provides find subcommand.
package find

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"
	"golang.org/x/sync/errgroup"

	"go.chromium.org/build/gcred/auth/adcfile"
	"go.chromium.org/build/gcred/ui"
)

// Cmd returns the Command for the `find` subcommand.
func Cmd(r adcfile.Resolver) *Command {
	return &Command{
		resolver: r,
		ui:       ui.Default,
	}
}

func (*Command) Name() string {
	return "find"
}

func (*Command) Synopsis() string {
	return "finds application default credentials file"
}

func (*Command) Usage() string {
	return `Finds application default credentials file.

It checks $GOOGLE_APPLICATION_CREDENTIALS, then
gcloud/application_default_credentials.json in %APPDATA% (Windows)
or $HOME (others).

 $ gcred find [-strategy chain|env|well-known] [-all]

`
}

// Command implements find subcommand.
type Command struct {
	resolver adcfile.Resolver
	ui       ui.UI

	strategy string
	all      bool
	scopes   string
}

func (c *Command) SetFlags(flagSet *flag.FlagSet) {
	flagSet.StringVar(&c.strategy, "strategy", "chain", `strategy to find credential file. "chain", "env" or "well-known"`)
	flagSet.BoolVar(&c.all, "all", false, "report all strategies")
	flagSet.StringVar(&c.scopes, "scopes", os.Getenv("GCRED_SCOPES"), "space-delimited scopes. can set by $GCRED_SCOPES")
}

type result struct {
	src adcfile.Source
	err error
}

func (c *Command) Execute(ctx context.Context, flagSet *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if flagSet.NArg() != 0 {
		c.ui.Errorf("position arguments not expected\n")
		return subcommands.ExitUsageError
	}
	scope := adcfile.ParseScope(c.scopes)
	if c.all {
		return c.findAll(ctx, scope)
	}
	var resolve func(context.Context, adcfile.Scope) (adcfile.Source, error)
	switch c.strategy {
	case "chain":
		resolve = c.resolver.Resolve
	case "env":
		resolve = c.resolver.FromEnv
	case "well-known":
		resolve = c.resolver.FromWellKnownPath
	default:
		c.ui.Errorf("unknown strategy %q\n", c.strategy)
		return subcommands.ExitUsageError
	}
	src, err := resolve(ctx, scope)
	if !c.report(result{src: src, err: err}) {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// findAll runs all strategies concurrently, and reports them in order.
func (c *Command) findAll(ctx context.Context, scope adcfile.Scope) subcommands.ExitStatus {
	resolvers := []func(context.Context, adcfile.Scope) (adcfile.Source, error){
		c.resolver.FromEnv,
		c.resolver.FromWellKnownPath,
	}
	results := make([]result, len(resolvers))
	eg, ctx := errgroup.WithContext(ctx)
	for i, resolve := range resolvers {
		eg.Go(func() error {
			src, err := resolve(ctx, scope)
			results[i] = result{src: src, err: err}
			return nil
		})
	}
	// each goroutine never returns error.
	_ = eg.Wait()
	found := false
	for _, r := range results {
		if c.report(r) {
			found = true
		}
	}
	if !found {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// report reports the result, and returns true if found.
func (c *Command) report(r result) bool {
	if r.err != nil {
		c.ui.Errorf("%s: %s %v\n", r.src.Strategy, ui.SGR(ui.Red, "error"), r.err)
		return false
	}
	src := r.src
	switch src.Kind {
	case adcfile.Found:
		c.ui.Infof("%s: %s %s (%d bytes)\n", src.Strategy, ui.SGR(ui.Green, src.Kind.String()), src.Path, src.Size())
		if len(src.Scope) > 0 {
			c.ui.Infof(" scopes: %s\n", src.Scope)
		}
		return true
	case adcfile.Misconfigured:
		c.ui.Errorf("%s: %s %v\n", src.Strategy, ui.SGR(ui.Red, src.Kind.String()), src.Err)
	default:
		if src.Path == "" {
			c.ui.Warningf("%s: %s\n", src.Strategy, ui.SGR(ui.Yellow, src.Kind.String()))
		} else {
			c.ui.Warningf("%s: %s %s\n", src.Strategy, ui.SGR(ui.Yellow, src.Kind.String()), src.Path)
		}
	}
	return false
}
