// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package auth provides auth related subcommands.
package auth

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"
	"golang.org/x/oauth2"

	"go.chromium.org/build/gcred/auth/adcfile"
	"go.chromium.org/build/gcred/auth/cred"
	"go.chromium.org/build/gcred/retry"
	"go.chromium.org/build/gcred/ui"
)

// CheckCmd creates new CheckCommand.
func CheckCmd(authOpts cred.Options) *CheckCommand {
	return &CheckCommand{
		authOpts: authOpts,
		ui:       ui.Default,
	}
}

func (*CheckCommand) Name() string {
	return "auth-check"
}

func (*CheckCommand) Synopsis() string {
	return "prints current auth status"
}

func (*CheckCommand) Usage() string {
	return "Prints current auth status of application default credentials.\n"
}

// CheckCommand implements auth-check subcommands.
type CheckCommand struct {
	authOpts cred.Options
	ui       ui.UI

	scopes string
	token  bool
}

func (c *CheckCommand) SetFlags(flagSet *flag.FlagSet) {
	flagSet.StringVar(&c.scopes, "scopes", os.Getenv("GCRED_SCOPES"), "space-delimited scopes. can set by $GCRED_SCOPES")
	flagSet.BoolVar(&c.token, "token", false, "fetch access token to check the credential works")
}

func (c *CheckCommand) Execute(ctx context.Context, flagSet *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if flagSet.NArg() != 0 {
		c.ui.Errorf("position arguments not expected\n")
		return subcommands.ExitUsageError
	}
	opts := c.authOpts
	if scope := adcfile.ParseScope(c.scopes); len(scope) > 0 {
		opts.Scope = scope
	}
	credential, err := cred.Default(ctx, opts)
	if err != nil {
		c.ui.Errorf("auth error: %v\n", err)
		c.ui.Errorf("run `gcred login` to create application default credentials?\n")
		return subcommands.ExitFailure
	}
	c.ui.Infof("Logged in by %s\n", credential.Type)
	if credential.Path != "" {
		c.ui.Infof(" from %s: %s\n", credential.Strategy, credential.Path)
	}
	if credential.ProjectID != "" {
		c.ui.Infof(" project: %s\n", credential.ProjectID)
	}
	if !c.token {
		return subcommands.ExitSuccess
	}
	var tok *oauth2.Token
	err = retry.Do(ctx, func() error {
		var err error
		tok, err = credential.TokenSource().Token()
		return err
	})
	if err != nil {
		c.ui.Errorf("access error: %v\n", err)
		return subcommands.ExitFailure
	}
	c.ui.Infof(" token type: %s, expires at %s\n", tok.Type(), tok.Expiry)
	return subcommands.ExitSuccess
}
