// Package header parses the fixed 8-byte prefix of a binout container.
//
// The prefix is the entry point for every container. It declares how wide
// every variable-width field in the record stream is and which byte order
// the file was written in, so no width is ever hardcoded by the reader.
//
// # Layout
//
//	Offset  Size  Description
//	0       1     Header length; the record stream starts here when > 8
//	1       1     Size of record lengths
//	2       1     Size of file offsets
//	3       1     Size of record commands
//	4       1     Size of type tags
//	5       1     Byte order (0 = big-endian, otherwise little-endian)
//	6       2     Reserved, ignored
//
// Every size must be 1, 2, 4 or 8.
//
// # Usage
//
//	l, err := header.Read(file)
//	if errors.Is(err, header.ErrMalformedHeader) {
//	    // not a container, or a corrupt one
//	}
//	reader := binary.NewReader(file, l.ReaderConfig()).At(l.DataOffset())
//
// # Writing
//
// [Write] emits a prefix for a [Layout]; it exists for synthesising test
// containers and is not part of the public API.
package header
