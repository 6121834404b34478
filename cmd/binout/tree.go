package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"

	"github.com/robert-malhotra/go-binout/binout"
)

type treeConfig struct {
	*cli.Command
	Lazy    bool `cli:"name=lazy desc='decode leaf values on demand'"`
	Verbose bool `cli:"name=v desc='log debug output to stderr'"`
	NoColor bool `cli:"name=no-color desc='never colour the output'"`
}

// TreeCommand returns the tree subcommand.
func TreeCommand() *cli.Command {
	cfg := &treeConfig{}
	opts, _ := cli.StructOpts(cfg)
	return cli.NewCommandAt(&cfg.Command, "tree").
		WithSynopsis("tree [-lazy] <file>... - Print the directory tree").
		WithOpts(opts...).
		WithRun(cfg.run)
}

func (cfg *treeConfig) run(cc *cli.Context, args []string) error {
	args, err := cfg.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: usage: binout tree <file>...", cli.ErrUsage)
	}

	b, err := binout.OpenFiles(args, openOptions(cfg.Lazy, cfg.Verbose)...)
	if err != nil {
		return err
	}
	defer b.Close()

	for i, l := range b.Layouts() {
		fmt.Fprintf(cc.Out, "# %s: %s\n", b.Paths()[i], l.String())
	}
	return printTree(cc.Out, b, newPalette(cc.Out, !cfg.NoColor))
}

// palette colours tree output.
type palette struct {
	dir  *color.Color
	leaf *color.Color
	meta *color.Color
}

// newPalette enables colour only when w is a terminal.
func newPalette(w io.Writer, allow bool) *palette {
	p := &palette{
		dir:  color.New(color.FgBlue, color.Bold),
		leaf: color.New(color.FgCyan),
		meta: color.New(color.FgHiBlack),
	}
	on := false
	if f, ok := w.(*os.File); ok && allow {
		on = isatty.IsTerminal(f.Fd())
	}
	for _, c := range []*color.Color{p.dir, p.leaf, p.meta} {
		if on {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func printTree(w io.Writer, b *binout.Binout, p *palette) error {
	return b.Walk(func(path string, n binout.Node) error {
		if path == "/" {
			return nil
		}
		indent := strings.Repeat("  ", strings.Count(path, "/")-1)

		switch n := n.(type) {
		case *binout.Directory:
			_, err := fmt.Fprintf(w, "%s%s/\n", indent, p.dir.Sprint(n.Name()))
			return err
		case *binout.Leaf:
			_, err := fmt.Fprintf(w, "%s%s %s\n", indent, p.leaf.Sprint(n.Name()),
				p.meta.Sprintf("%s[%d]", n.Tag(), n.Count()))
			return err
		}
		return nil
	})
}
