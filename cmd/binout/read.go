package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/goccy/go-yaml"
	"github.com/scott-cotton/cli"

	"github.com/robert-malhotra/go-binout/binout"
)

type readConfig struct {
	*cli.Command
	YAML    bool `cli:"name=yaml aliases=y desc='print the result as YAML'"`
	JSON    bool `cli:"name=json aliases=j desc='print the result as JSON'"`
	Lazy    bool `cli:"name=lazy desc='decode leaf values on demand'"`
	Verbose bool `cli:"name=v desc='log debug output to stderr'"`
}

// ReadCommand returns the read subcommand.
func ReadCommand() *cli.Command {
	cfg := &readConfig{}
	opts, _ := cli.StructOpts(cfg)
	return cli.NewCommandAt(&cfg.Command, "read").
		WithSynopsis("read [-yaml|-json] <file> [category [variable]] - Query a container").
		WithOpts(opts...).
		WithRun(cfg.run)
}

func (cfg *readConfig) run(cc *cli.Context, args []string) error {
	args, err := cfg.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: usage: binout read <file> [category [variable]]", cli.ErrUsage)
	}
	if cfg.YAML && cfg.JSON {
		return fmt.Errorf("%w: -yaml and -json are exclusive", cli.ErrUsage)
	}

	b, err := binout.Open(args[0], openOptions(cfg.Lazy, cfg.Verbose)...)
	if err != nil {
		return err
	}
	defer b.Close()

	res, err := b.Read(args[1:]...)
	if err != nil {
		return err
	}

	format := formatText
	switch {
	case cfg.YAML:
		format = formatYAML
	case cfg.JSON:
		format = formatJSON
	}
	return writeResult(cc.Out, res, format)
}

type outputFormat int

const (
	formatText outputFormat = iota
	formatYAML
	formatJSON
)

// seriesDoc is the encoded form of a series.
type seriesDoc struct {
	Category string        `json:"category" yaml:"category"`
	Variable string        `json:"variable" yaml:"variable"`
	Type     string        `json:"type" yaml:"type"`
	Metadata bool          `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	Time     []float64     `json:"time,omitempty" yaml:"time,omitempty"`
	Values   binout.Values `json:"values" yaml:"values"`
}

func writeResult(w io.Writer, res binout.Result, format outputFormat) error {
	var doc any = res.Names
	if s := res.Series; s != nil {
		doc = seriesDoc{
			Category: s.Category,
			Variable: s.Variable,
			Type:     s.Values.Tag().String(),
			Metadata: s.Metadata,
			Time:     s.Time,
			Values:   s.Values,
		}
	}

	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case formatYAML:
		out, err := yaml.Marshal(doc)
		if err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		_, err = w.Write(out)
		return err
	}

	if res.Series == nil {
		for _, name := range res.Names {
			if _, err := fmt.Fprintln(w, name); err != nil {
				return err
			}
		}
		return nil
	}
	return writeSeriesText(w, res.Series)
}

// writeSeriesText prints one element per line, preceded by its time for
// time series.
func writeSeriesText(w io.Writer, s *binout.Series) error {
	if s.Values.Tag() == binout.String {
		if s.Metadata {
			_, err := fmt.Fprintln(w, s.Values.String())
			return err
		}
		return writeTextRuns(w, s)
	}
	for i := range s.Len() {
		var err error
		if s.Metadata {
			_, err = fmt.Fprintln(w, s.Values.Index(i))
		} else {
			_, err = fmt.Fprintf(w, "%g\t%v\n", s.Time[i], s.Values.Index(i))
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// writeTextRuns prints a text series as one line per run of equal times.
// A partition's text shares one time, so each partition gets its own line.
func writeTextRuns(w io.Writer, s *binout.Series) error {
	text := s.Values.Raw().([]byte)
	for i := 0; i < len(text); {
		j := i + 1
		for j < len(text) && s.Time[j] == s.Time[i] {
			j++
		}
		if _, err := fmt.Fprintf(w, "%g\t%s\n", s.Time[i], text[i:j]); err != nil {
			return err
		}
		i = j
	}
	return nil
}
