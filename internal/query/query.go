// Package query resolves paths against a binout directory tree.
//
// A path has up to two segments:
//
//	()                    names of the top-level categories
//	(category)            variable names of a category
//	(category, variable)  the variable's values, merged across partitions
//
// Partitions are the child directories of a category other than its
// metadata directory. A variable that lives in the metadata directory is
// returned as stored; any other variable is collected from every partition
// and stably ordered by the partition's time values.
package query

import (
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"slices"

	"github.com/robert-malhotra/go-binout/internal/dtype"
	"github.com/robert-malhotra/go-binout/internal/tree"
)

// Errors
var (
	ErrUnknownCategory = errors.New("unknown category")
	ErrUnknownVariable = errors.New("unknown variable")
	ErrPathTooDeep     = errors.New("path has more than two segments")
	ErrMissingTime     = errors.New("partition has no time values")
	ErrLengthMismatch  = errors.New("time and value lengths differ")
	ErrTypeMismatch    = dtype.ErrTypeMismatch
)

// Default directory and leaf names.
const (
	DefaultMetadataName = "metadata"
	DefaultTimeName     = "time"
)

// Option configures an Engine.
type Option func(*Engine)

// WithMetadataName sets the name of the per-category metadata directory.
func WithMetadataName(name string) Option {
	return func(e *Engine) {
		e.metadata = name
	}
}

// WithTimeName sets the name of the per-partition time leaf.
func WithTimeName(name string) Option {
	return func(e *Engine) {
		e.time = name
	}
}

// WithConcurrency bounds the number of leaves decoded in parallel while
// assembling a series. Values below 1 decode sequentially.
func WithConcurrency(n int) Option {
	return func(e *Engine) {
		e.concurrency = n
	}
}

// WithLogger sets the logger for query diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// Engine answers queries over one tree. It holds no mutable state and is
// safe for concurrent use.
type Engine struct {
	root        *tree.Directory
	metadata    string
	time        string
	concurrency int
	logger      *slog.Logger
}

// New creates an engine over root.
func New(root *tree.Directory, opts ...Option) *Engine {
	e := &Engine{
		root:     root,
		metadata: DefaultMetadataName,
		time:     DefaultTimeName,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Root returns the tree the engine reads.
func (e *Engine) Root() *tree.Directory {
	return e.root
}

// Result is the answer to Read. Names is set for paths of zero or one
// segment, Series for two.
type Result struct {
	Path   []string
	Names  []string
	Series *Series
}

// Read resolves path. Paths of three or more segments fail with
// ErrPathTooDeep whatever their content.
func (e *Engine) Read(path ...string) (Result, error) {
	res := Result{Path: slices.Clone(path)}

	switch len(path) {
	case 0:
		res.Names = e.Categories()
	case 1:
		names, err := e.Variables(path[0])
		if err != nil {
			return Result{}, err
		}
		res.Names = names
	case 2:
		s, err := e.Series(path[0], path[1])
		if err != nil {
			return Result{}, err
		}
		res.Series = s
	default:
		return Result{}, fmt.Errorf("%w: %q", ErrPathTooDeep, path)
	}
	return res, nil
}

// Categories returns the names of the root's directories in stream order.
// Leaves stored directly under the root are not categories.
func (e *Engine) Categories() []string {
	names := make([]string, 0, e.root.Len())
	for name := range e.root.Dirs() {
		names = append(names, name)
	}
	return names
}

// Variables returns the distinct leaf names of a category: metadata leaves
// first, then the leaves of each partition, in first-seen order.
func (e *Engine) Variables(category string) ([]string, error) {
	dir, err := e.category(category)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var names []string
	add := func(d *tree.Directory) {
		for name := range d.Leaves() {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}

	if md, ok := dir.Dir(e.metadata); ok {
		add(md)
	}
	for _, part := range e.Partitions(dir) {
		add(part)
	}
	return names, nil
}

// Partitions yields the child directories of a category, skipping the
// metadata directory.
func (e *Engine) Partitions(category *tree.Directory) iter.Seq2[string, *tree.Directory] {
	return func(yield func(string, *tree.Directory) bool) {
		for name, d := range category.Dirs() {
			if name == e.metadata {
				continue
			}
			if !yield(name, d) {
				return
			}
		}
	}
}

func (e *Engine) category(name string) (*tree.Directory, error) {
	dir, ok := e.root.Dir(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, name)
	}
	return dir, nil
}
