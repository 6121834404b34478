package tree

import (
	"errors"
	"fmt"

	"github.com/robert-malhotra/go-binout/internal/record"
)

// Errors
var (
	ErrUnbalanced    = errors.New("unbalanced directory structure")
	ErrDuplicateLeaf = errors.New("duplicate leaf")
	ErrNameConflict  = errors.New("leaf and directory share a name")
)

// Build reads the whole record stream of w into a new tree. The tree is
// returned only if the stream is complete and balanced.
func Build(w *record.Walker) (*Directory, error) {
	root := NewDirectory("")
	if err := BuildInto(root, w); err != nil {
		return nil, err
	}
	return root, nil
}

// BuildInto adds the records of w to root. Directories that already exist
// are reused, so several containers can share one tree. On error root may
// hold part of the stream and must be discarded.
func BuildInto(root *Directory, w *record.Walker) error {
	stack := []*Directory{root}

	err := w.Walk(func(ev record.Event) error {
		cur := stack[len(stack)-1]
		switch ev.Kind {
		case record.EnterDirectory:
			sub, err := cur.subdir(ev.Name)
			if err != nil {
				return err
			}
			stack = append(stack, sub)

		case record.ExitDirectory:
			if len(stack) == 1 {
				return fmt.Errorf("%w: end of directory at root", ErrUnbalanced)
			}
			stack = stack[:len(stack)-1]

		case record.Leaf:
			var leaf *Leaf
			if w.Lazy() {
				leaf = NewLazyLeaf(ev.Name, ev.Tag, ev.Count, ev.Span, w)
			} else {
				leaf = NewLeaf(ev.Name, ev.Values)
			}
			return cur.addLeaf(leaf)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if open := len(stack) - 1; open > 0 {
		return fmt.Errorf("%w: %d directories not closed at end of stream (innermost %q)",
			ErrUnbalanced, open, stack[open].Name())
	}
	return nil
}

// Merge moves the children of src into d. Directories with equal names
// are merged recursively; a leaf that already exists is ErrDuplicateLeaf.
func (d *Directory) Merge(src *Directory) error {
	for name, n := range src.Children() {
		switch n := n.(type) {
		case *Directory:
			sub, err := d.subdir(name)
			if err != nil {
				return err
			}
			if err := sub.Merge(n); err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
		case *Leaf:
			if err := d.addLeaf(n); err != nil {
				return err
			}
		}
	}
	return nil
}
