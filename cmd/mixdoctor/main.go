package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/soundry/mixdoctor/version"
)

func main() {
	ctx := context.Background()

	appl := &cli.Command{
		Name:    version.Name(),
		Usage:   "Mix diagnostic tool for music producers",
		Version: version.Version() + " " + version.Commit(),
		Commands: []*cli.Command{
			processCommand(),
			historyCommand(),
			targetsCommand(),
		},
	}

	if err := appl.Run(ctx, os.Args); err != nil {
		slog.Error("failed to run", "error", err)
		os.Exit(1)
	}
}
