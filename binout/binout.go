package binout

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/robert-malhotra/go-binout/internal/dtype"
	"github.com/robert-malhotra/go-binout/internal/header"
	"github.com/robert-malhotra/go-binout/internal/query"
	"github.com/robert-malhotra/go-binout/internal/record"
	"github.com/robert-malhotra/go-binout/internal/source"
	"github.com/robert-malhotra/go-binout/internal/tree"
)

// Types returned by queries.
type (
	Values    = dtype.Values
	Tag       = dtype.Tag
	Layout    = header.Layout
	Result    = query.Result
	Series    = query.Series
	Node      = tree.Node
	Directory = tree.Directory
	Leaf      = tree.Leaf
)

// Value types.
const (
	Int8    = dtype.Int8
	Int16   = dtype.Int16
	Int32   = dtype.Int32
	Int64   = dtype.Int64
	Uint8   = dtype.Uint8
	Uint16  = dtype.Uint16
	Uint32  = dtype.Uint32
	Uint64  = dtype.Uint64
	Float32 = dtype.Float32
	Float64 = dtype.Float64
	String  = dtype.String
)

// Binout is one or more opened containers sharing a single tree.
type Binout struct {
	paths   []string
	layouts []Layout
	sources []*source.Source // open in lazy mode only
	root    *tree.Directory
	engine  *query.Engine
	opts    *options

	mu     sync.RWMutex
	closed bool
}

// Open reads the container at path. The whole tree is built before Open
// returns; any structural error aborts the open.
func Open(path string, opts ...Option) (*Binout, error) {
	return OpenFiles([]string{path}, opts...)
}

// Glob opens every file matching pattern, in lexical order. LS-Dyna splits
// large results across binout0000, binout0001 and so on.
func Glob(pattern string, opts ...Option) (*Binout, error) {
	paths, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("matching %q: %w", pattern, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: no match for %q", ErrFileNotFound, pattern)
	}
	slices.Sort(paths)
	return OpenFiles(paths, opts...)
}

// OpenFiles reads several containers into one tree. Each file carries its
// own layout. Directories with equal names are merged; a leaf present in
// two files is ErrDuplicateLeaf.
func OpenFiles(paths []string, opts ...Option) (*Binout, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: no files given", ErrFileNotFound)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	b := &Binout{
		paths: slices.Clone(paths),
		root:  tree.NewDirectory(""),
		opts:  o,
	}
	for _, path := range paths {
		if err := b.load(path); err != nil {
			b.closeSources()
			return nil, err
		}
	}

	b.engine = query.New(b.root,
		query.WithMetadataName(o.metadata),
		query.WithTimeName(o.time),
		query.WithConcurrency(o.concurrency),
		query.WithLogger(o.logger))
	return b, nil
}

// load parses one container and merges it into the tree.
func (b *Binout) load(path string) error {
	log := b.opts.logger.With("path", path)

	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}
	if err != nil {
		return fmt.Errorf("opening file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %s is not a regular file", ErrFileNotFound, path)
	}

	src, err := source.Open(path, source.WithMaxSize(b.opts.maxSize))
	if err != nil {
		return fmt.Errorf("opening file: %w", err)
	}
	keep := false
	defer func() {
		if !keep {
			src.Close()
		}
	}()

	layout, err := header.Read(src)
	if err != nil {
		return fmt.Errorf("reading header of %s: %w", path, err)
	}
	log.Debug("parsed header",
		"layout", layout.String(),
		"compression", src.Compression().String(),
		"size", src.Size())

	start := time.Now()
	w := record.NewWalker(src, layout, src.Size(), record.WithLazy(b.opts.lazy))
	root, err := tree.Build(w)
	if err != nil {
		return fmt.Errorf("reading records of %s: %w", path, err)
	}
	dirs, leaves := root.Count()
	log.Debug("built tree",
		"directories", dirs,
		"leaves", leaves,
		"lazy", b.opts.lazy,
		"duration", time.Since(start))

	if err := b.root.Merge(root); err != nil {
		return fmt.Errorf("merging %s: %w", path, err)
	}

	b.layouts = append(b.layouts, *layout)
	if b.opts.lazy {
		b.sources = append(b.sources, src)
		keep = true
	}
	return nil
}

// Close releases the files held open in lazy mode. It is safe to call more
// than once; queries after Close fail with ErrClosed.
func (b *Binout) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	return b.closeSources()
}

func (b *Binout) closeSources() error {
	var errs []error
	for _, src := range b.sources {
		errs = append(errs, src.Close())
	}
	b.sources = nil
	return errors.Join(errs...)
}

// Paths returns the files the container was read from.
func (b *Binout) Paths() []string {
	return slices.Clone(b.paths)
}

// Layouts returns the header layout of each file, in the order of Paths.
func (b *Binout) Layouts() []Layout {
	return slices.Clone(b.layouts)
}

// Root returns the root directory of the tree.
func (b *Binout) Root() *Directory {
	return b.root
}

// acquire returns the engine, or ErrClosed. The read lock is held until
// release is called, so Close waits for running queries.
func (b *Binout) acquire() (*query.Engine, func(), error) {
	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return nil, nil, ErrClosed
	}
	return b.engine, b.mu.RUnlock, nil
}

// Read resolves a query path of up to two segments. Segments may also be
// given as one slash separated string, so Read("nodout/time") is the same
// as Read("nodout", "time"). An empty argument next to others counts as a
// segment: Read("nodout", "time", "") fails with ErrPathTooDeep.
//
//	b.Read()                       // category names
//	b.Read("nodout")               // variable names of nodout
//	b.Read("nodout", "time")       // the time series
func (b *Binout) Read(path ...string) (Result, error) {
	e, release, err := b.acquire()
	if err != nil {
		return Result{}, err
	}
	defer release()
	return e.Read(flatten(path)...)
}

// Categories returns the names of the top-level directories.
func (b *Binout) Categories() ([]string, error) {
	e, release, err := b.acquire()
	if err != nil {
		return nil, err
	}
	defer release()
	return e.Categories(), nil
}

// Variables returns the variable names of a category.
func (b *Binout) Variables(category string) ([]string, error) {
	e, release, err := b.acquire()
	if err != nil {
		return nil, err
	}
	defer release()
	return e.Variables(category)
}

// Series returns a variable's values and times.
func (b *Binout) Series(category, variable string) (*Series, error) {
	e, release, err := b.acquire()
	if err != nil {
		return nil, err
	}
	defer release()
	return e.Series(category, variable)
}

// ReadSeries returns only the values of a variable, in time order.
func (b *Binout) ReadSeries(category, variable string) (Values, error) {
	s, err := b.Series(category, variable)
	if err != nil {
		return Values{}, err
	}
	return s.Values, nil
}

// GetLabels used to list the labels of a folder.
//
// Deprecated: use Read with zero or one path segment. GetLabels always
// fails with ErrDeprecated.
func (b *Binout) GetLabels(folder string) error {
	return fmt.Errorf("%w: GetLabels(%q)", ErrDeprecated, folder)
}
