package main

import (
	"log/slog"
	"os"

	"github.com/scott-cotton/cli"

	"github.com/robert-malhotra/go-binout/binout"
)

const usageText = `binout - inspect LS-Dyna binout containers

Usage:
  binout tree [-lazy] <file>...                         Print the directory tree
  binout read [-yaml|-json] <file> [category [variable]] Query a container
  binout labels <file> [category]                       Deprecated, use read

Several files may be given to tree; the split outputs binout0000,
binout0001, ... are merged into one tree.

Examples:
  binout tree binout0000
  binout read binout0000
  binout read binout0000 nodout
  binout read -yaml binout0000 nodout x_displacement`

// Root returns the root command.
func Root() *cli.Command {
	return cli.NewCommand("binout").
		WithSynopsis("binout - inspect LS-Dyna binout containers").
		WithDescription(usageText).
		WithSubs(
			TreeCommand(),
			ReadCommand(),
			LabelsCommand(),
		)
}

// openOptions builds the options shared by every subcommand.
func openOptions(lazy, verbose bool) []binout.Option {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	return []binout.Option{
		binout.WithLazyDecode(lazy),
		binout.WithLogger(logger),
	}
}
