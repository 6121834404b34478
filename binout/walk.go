package binout

import "github.com/robert-malhotra/go-binout/internal/tree"

// WalkFunc is called for each node during traversal.
// p is the full path of the node, n is either *Directory or *Leaf.
// Return nil to continue walking, SkipDir to skip a directory, or any
// other error to stop.
type WalkFunc = tree.WalkFunc

// SkipDir can be returned from a WalkFunc to skip a directory's children.
var SkipDir = tree.SkipDir

// Walk traverses the tree depth first, starting at the root.
//
// Example:
//
//	b.Walk(func(p string, n binout.Node) error {
//	    switch n := n.(type) {
//	    case *binout.Directory:
//	        fmt.Println("dir:", p)
//	    case *binout.Leaf:
//	        fmt.Println("leaf:", p, n.Tag(), n.Count())
//	    }
//	    return nil
//	})
func (b *Binout) Walk(fn WalkFunc) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return ErrClosed
	}
	return tree.Walk(b.root, fn)
}
