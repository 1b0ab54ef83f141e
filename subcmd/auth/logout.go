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

// LogoutCmd creates new LogoutCommand.
func LogoutCmd() *LogoutCommand {
	return &LogoutCommand{
		gcloud: cred.Gcloud{Stdout: os.Stdout, Stderr: os.Stderr},
		ui:     ui.Default,
	}
}

func (*LogoutCommand) Name() string {
	return "logout"
}

func (*LogoutCommand) Synopsis() string {
	return "revokes application default credentials by gcloud"
}

func (*LogoutCommand) Usage() string {
	return "Revokes the well-known application default credentials file by gcloud.\n"
}

// LogoutCommand implements logout subcommand.
type LogoutCommand struct {
	gcloud cred.Gcloud
	ui     ui.UI
}

func (c *LogoutCommand) SetFlags(flagSet *flag.FlagSet) {
	flagSet.StringVar(&c.gcloud.Path, "gcloud", "gcloud", "path to gcloud")
}

func (c *LogoutCommand) Execute(ctx context.Context, flagSet *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	err := c.gcloud.Logout(ctx)
	if err != nil {
		c.ui.Errorf("Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
