// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Gcred finds Google Application Default Credentials files.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"

	log "github.com/golang/glog"
	"github.com/google/subcommands"
	"go.opentelemetry.io/otel"

	"go.chromium.org/build/gcred/auth/adcfile"
	"go.chromium.org/build/gcred/auth/cred"
	"go.chromium.org/build/gcred/o11y/clog"
	"go.chromium.org/build/gcred/o11y/monitoring"
	"go.chromium.org/build/gcred/signals"
	"go.chromium.org/build/gcred/subcmd/auth"
	"go.chromium.org/build/gcred/subcmd/find"
	"go.chromium.org/build/gcred/subcmd/version"
)

const versionID = "v0.1.0"

var versionStr = "gcred " + versionID

func main() {
	// Wraps gcredMain() because os.Exit() doesn't wait defers.
	os.Exit(gcredMain())
}

func gcredMain() int {
	flag.CommandLine.Usage = func() {
		w := flag.CommandLine.Output()
		fmt.Fprint(w, versionStr)
		fmt.Fprint(w, `

Usage: gcred [flags] [command] [arguments]

e.g.
 $ gcred find
 $ gcred auth-check -scopes https://www.googleapis.com/auth/cloud-platform

Use "gcred help" to display commands.
Use "gcred help [command]" for more information about a command.
Use "gcred flags" to display all flags.
`)
	}

	monitoringProject := os.Getenv("GCRED_MONITORING_PROJECT")
	flag.StringVar(&monitoringProject, "monitoring_project", monitoringProject, `cloud project ID to export metrics to.
    environment variable GCRED_MONITORING_PROJECT sets default value.`)
	var printVersion bool
	flag.BoolVar(&printVersion, "version", false, "print version")
	flag.Parse()

	ctx := clog.NewContext(context.Background(), clog.New())
	// Flush the log on exit to not lose any messages.
	defer log.Flush()

	// Print a stack trace when a panic occurs.
	defer func() {
		if r := recover(); r != nil {
			const size = 64 << 10
			buf := make([]byte, size)
			buf = buf[:runtime.Stack(buf, false)]
			log.Fatalf("panic: %v\n%s", r, buf)
		}
	}()

	if printVersion {
		return int(version.Cmd(versionStr).Execute(ctx, flag.CommandLine))
	}

	ctx, stop := signals.WithInterrupt(ctx)
	defer stop()

	if monitoringProject != "" {
		mp, err := monitoring.NewMetricProvider(ctx, monitoringProject)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to setup monitoring for %s: %v\n", monitoringProject, err)
			return 1
		}
		otel.SetMeterProvider(mp)
		defer func() {
			err := mp.Shutdown(context.WithoutCancel(ctx))
			if err != nil {
				clog.Warningf(ctx, "failed to shutdown meter provider: %v", err)
			}
		}()
	}
	err := monitoring.Setup(ctx, nil, versionID)
	if err != nil {
		clog.Warningf(ctx, "failed to setup monitoring: %v", err)
	}

	var resolver adcfile.Resolver
	authOpts := cred.Options{Resolver: resolver}

	subcommands.Register(find.Cmd(resolver), "")

	subcommands.Register(auth.CheckCmd(authOpts), "auth")
	subcommands.Register(auth.LoginCmd(), "auth")
	subcommands.Register(auth.LogoutCmd(), "auth")

	subcommands.Register(subcommands.FlagsCommand(), "command-help")
	subcommands.Register(subcommands.HelpCommand(), "command-help")
	subcommands.Register(subcommands.CommandsCommand(), "command-help")
	subcommands.Register(version.Cmd(versionStr), "command-help")

	return int(subcommands.Execute(ctx))
}
