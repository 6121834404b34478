package tree

import (
	"fmt"
	"iter"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/robert-malhotra/go-binout/internal/dtype"
	"github.com/robert-malhotra/go-binout/internal/record"
)

// Node is either a *Directory or a *Leaf.
type Node interface {
	Name() string
	node()
}

// Directory is a named group of child nodes. Children keep the order in
// which they were first written.
type Directory struct {
	name     string
	names    []string
	children map[string]Node
}

// NewDirectory creates an empty directory.
func NewDirectory(name string) *Directory {
	return &Directory{name: name, children: make(map[string]Node)}
}

func (*Directory) node() {}

// Name returns the directory name. The root's name is empty.
func (d *Directory) Name() string {
	return d.name
}

// Len returns the number of direct children.
func (d *Directory) Len() int {
	return len(d.names)
}

// Names returns the child names in insertion order.
func (d *Directory) Names() []string {
	return slices.Clone(d.names)
}

// Child returns the child with the given name.
func (d *Directory) Child(name string) (Node, bool) {
	n, ok := d.children[name]
	return n, ok
}

// Dir returns the child directory with the given name.
func (d *Directory) Dir(name string) (*Directory, bool) {
	sub, ok := d.children[name].(*Directory)
	return sub, ok
}

// Leaf returns the child leaf with the given name.
func (d *Directory) Leaf(name string) (*Leaf, bool) {
	l, ok := d.children[name].(*Leaf)
	return l, ok
}

// Children yields every direct child in insertion order.
func (d *Directory) Children() iter.Seq2[string, Node] {
	return func(yield func(string, Node) bool) {
		for _, name := range d.names {
			if !yield(name, d.children[name]) {
				return
			}
		}
	}
}

// Dirs yields the child directories in insertion order.
func (d *Directory) Dirs() iter.Seq2[string, *Directory] {
	return func(yield func(string, *Directory) bool) {
		for name, n := range d.Children() {
			if sub, ok := n.(*Directory); ok && !yield(name, sub) {
				return
			}
		}
	}
}

// Leaves yields the child leaves in insertion order.
func (d *Directory) Leaves() iter.Seq2[string, *Leaf] {
	return func(yield func(string, *Leaf) bool) {
		for name, n := range d.Children() {
			if l, ok := n.(*Leaf); ok && !yield(name, l) {
				return
			}
		}
	}
}

// Count returns the number of directories and leaves below d, excluding d.
func (d *Directory) Count() (dirs, leaves int) {
	for _, n := range d.Children() {
		switch n := n.(type) {
		case *Directory:
			sd, sl := n.Count()
			dirs += sd + 1
			leaves += sl
		case *Leaf:
			leaves++
		}
	}
	return dirs, leaves
}

// subdir returns the child directory name, creating it if needed.
func (d *Directory) subdir(name string) (*Directory, error) {
	switch n := d.children[name].(type) {
	case nil:
		sub := NewDirectory(name)
		d.insert(sub)
		return sub, nil
	case *Directory:
		return n, nil
	default:
		return nil, fmt.Errorf("%w: directory %q is already a leaf", ErrNameConflict, name)
	}
}

// addLeaf attaches l, rejecting any existing child of the same name.
func (d *Directory) addLeaf(l *Leaf) error {
	switch d.children[l.name].(type) {
	case nil:
		d.insert(l)
		return nil
	case *Leaf:
		return fmt.Errorf("%w: %q", ErrDuplicateLeaf, l.name)
	default:
		return fmt.Errorf("%w: leaf %q is already a directory", ErrNameConflict, l.name)
	}
}

func (d *Directory) insert(n Node) {
	d.names = append(d.names, n.Name())
	d.children[n.Name()] = n
}

// Loader decodes the values of a lazily read leaf.
type Loader interface {
	Load(span record.Span, tag dtype.Tag) (dtype.Values, error)
}

// Leaf holds one typed value array. Lazy leaves decode on first use and
// keep the result; concurrent callers see a single decode.
type Leaf struct {
	name  string
	tag   dtype.Tag
	count uint64

	load   func() (dtype.Values, error)
	loaded atomic.Bool
}

// NewLeaf creates a leaf whose values are already decoded.
func NewLeaf(name string, v dtype.Values) *Leaf {
	l := &Leaf{name: name, tag: v.Tag(), count: uint64(v.Len())}
	l.load = func() (dtype.Values, error) { return v, nil }
	l.loaded.Store(true)
	return l
}

// NewLazyLeaf creates a leaf that reads span through loader on first use.
func NewLazyLeaf(name string, tag dtype.Tag, count uint64, span record.Span, loader Loader) *Leaf {
	l := &Leaf{name: name, tag: tag, count: count}
	l.load = sync.OnceValues(func() (dtype.Values, error) {
		defer l.loaded.Store(true)
		return loader.Load(span, tag)
	})
	return l
}

func (*Leaf) node() {}

// Name returns the leaf name.
func (l *Leaf) Name() string {
	return l.name
}

// Tag returns the element type.
func (l *Leaf) Tag() dtype.Tag {
	return l.tag
}

// Count returns the number of elements.
func (l *Leaf) Count() uint64 {
	return l.count
}

// Loaded reports whether the values have been decoded.
func (l *Leaf) Loaded() bool {
	return l.loaded.Load()
}

// Values returns the decoded values. Values never exposes its backing
// storage, so the result may be shared between callers.
func (l *Leaf) Values() (dtype.Values, error) {
	v, err := l.load()
	if err != nil {
		return dtype.Values{}, fmt.Errorf("decoding %q: %w", l.name, err)
	}
	return v, nil
}
