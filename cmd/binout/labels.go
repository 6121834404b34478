package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/scott-cotton/cli"

	"github.com/robert-malhotra/go-binout/binout"
)

type labelsConfig struct {
	*cli.Command
	Verbose bool `cli:"name=v desc='log debug output to stderr'"`
}

// LabelsCommand returns the labels subcommand, kept for old scripts.
func LabelsCommand() *cli.Command {
	cfg := &labelsConfig{}
	opts, _ := cli.StructOpts(cfg)
	return cli.NewCommandAt(&cfg.Command, "labels").
		WithSynopsis("labels <file> [category] - Deprecated, use read").
		WithOpts(opts...).
		WithRun(cfg.run)
}

func (cfg *labelsConfig) run(cc *cli.Context, args []string) error {
	args, err := cfg.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 || len(args) > 2 {
		return fmt.Errorf("%w: usage: binout labels <file> [category]", cli.ErrUsage)
	}

	b, err := binout.Open(args[0], openOptions(false, cfg.Verbose)...)
	if err != nil {
		return err
	}
	defer b.Close()

	folder := ""
	if len(args) == 2 {
		folder = args[1]
	}
	err = b.GetLabels(folder)
	if errors.Is(err, binout.ErrDeprecated) {
		return fmt.Errorf("%w; run: binout read %s", err, strings.Join(args, " "))
	}
	return err
}
