// Package tree holds the in-memory directory tree of a binout container.
//
// A tree is built in one pass over the record stream by [Build]. Directories
// map names to child nodes and keep insertion order; leaves hold one typed
// array each. Once built, a tree is not modified and may be read from many
// goroutines.
//
// Leaves read in lazy mode decode on first access and memoise the result.
//
//	root, err := tree.Build(walker)
//	nodout, ok := root.Dir("nodout")
//	for name, part := range nodout.Dirs() {
//	    ...
//	}
package tree
