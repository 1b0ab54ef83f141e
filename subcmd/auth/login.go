// Copyright 2025 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package auth

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"

	"go.chromium.org/build/gcred/auth/cred"
	"go.chromium.org/build/gcred/ui"
)

// LoginCmd creates new LoginCommand.
func LoginCmd() *LoginCommand {
	return &LoginCommand{
		gcloud: cred.Gcloud{Stdout: os.Stdout, Stderr: os.Stderr},
		ui:     ui.Default,
	}
}

func (*LoginCommand) Name() string {
	return "login"
}

func (*LoginCommand) Synopsis() string {
	return "creates application default credentials by gcloud"
}

func (*LoginCommand) Usage() string {
	return "Creates the well-known application default credentials file by gcloud.\n"
}

// LoginCommand implements login subcommand.
type LoginCommand struct {
	gcloud cred.Gcloud
	ui     ui.UI
}

func (c *LoginCommand) SetFlags(flagSet *flag.FlagSet) {
	flagSet.StringVar(&c.gcloud.Path, "gcloud", "gcloud", "path to gcloud")
}

func (c *LoginCommand) Execute(ctx context.Context, flagSet *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	err := c.gcloud.Login(ctx)
	if err != nil {
		c.ui.Errorf("Error: %v\n", err)
		c.ui.Errorf("run `gcred auth-check` to check auth status?\n")
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
