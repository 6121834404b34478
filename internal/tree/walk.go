package tree

import (
	"errors"
	"path"
)

// SkipDir can be returned from a WalkFunc to skip the directory it was
// called for.
var SkipDir = errors.New("skip this directory")

// WalkFunc is called for each node during traversal. p is the slash
// separated path of the node; the root is "/".
// Return nil to continue walking, SkipDir to skip a directory's children,
// or any other error to stop.
type WalkFunc func(p string, n Node) error

// Walk traverses d depth first, calling fn for d itself and then for each
// child in insertion order.
func Walk(d *Directory, fn WalkFunc) error {
	err := walkDir("/", d, fn)
	if err == SkipDir {
		return nil
	}
	return err
}

func walkDir(p string, d *Directory, fn WalkFunc) error {
	if err := fn(p, d); err != nil {
		return err
	}

	for name, n := range d.Children() {
		childPath := path.Join(p, name)

		switch n := n.(type) {
		case *Directory:
			if err := walkDir(childPath, n, fn); err != nil && err != SkipDir {
				return err
			}
		case *Leaf:
			if err := fn(childPath, n); err != nil {
				return err
			}
		}
	}
	return nil
}
