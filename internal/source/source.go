// Package source opens container files for random access. Files compressed
// with zstd or gzip are recognised by their magic bytes and decompressed
// into memory; other files are read in place.
package source

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// ErrDecompression is returned when a compressed container cannot be
// decompressed or exceeds the size limit.
var ErrDecompression = errors.New("decompression failed")

// DefaultMaxSize bounds the decompressed size of a container.
const DefaultMaxSize uint64 = 8 << 30

// Compression identifies how a container file is stored.
type Compression int

// Compression kinds.
const (
	None Compression = iota
	Zstd
	Gzip
)

func (c Compression) String() string {
	switch c {
	case None:
		return "none"
	case Zstd:
		return "zstd"
	case Gzip:
		return "gzip"
	default:
		return fmt.Sprintf("Compression(%d)", int(c))
	}
}

var (
	zstdMagic = []byte{0x28, 0xB5, 0x2F, 0xFD}
	gzipMagic = []byte{0x1F, 0x8B}
)

// Detect returns the compression indicated by the leading bytes of a file.
func Detect(prefix []byte) Compression {
	switch {
	case bytes.HasPrefix(prefix, zstdMagic):
		return Zstd
	case bytes.HasPrefix(prefix, gzipMagic):
		return Gzip
	default:
		return None
	}
}

// Option configures Open.
type Option func(*options)

type options struct {
	maxSize uint64
}

// WithMaxSize limits the decompressed size of a container. Zero means
// DefaultMaxSize.
func WithMaxSize(n uint64) Option {
	return func(o *options) {
		o.maxSize = n
	}
}

// Source is a container file opened for random access.
type Source struct {
	r           io.ReaderAt
	size        int64
	closer      io.Closer
	path        string
	compression Compression
}

// Open opens path. Compressed files are fully decompressed and the file
// handle is closed before Open returns.
func Open(path string, opts ...Option) (*Source, error) {
	o := options{maxSize: DefaultMaxSize}
	for _, opt := range opts {
		opt(&o)
	}
	if o.maxSize == 0 {
		o.maxSize = DefaultMaxSize
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}

	prefix := make([]byte, len(zstdMagic))
	n, err := f.ReadAt(prefix, 0)
	if err != nil && err != io.EOF {
		f.Close()
		return nil, err
	}

	c := Detect(prefix[:n])
	if c == None {
		return &Source{r: f, size: info.Size(), closer: f, path: path}, nil
	}
	defer f.Close()

	data, err := decompress(f, c, o.maxSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", ErrDecompression, c, path, err)
	}
	return &Source{r: bytes.NewReader(data), size: int64(len(data)), path: path, compression: c}, nil
}

// FromBytes wraps an in-memory container.
func FromBytes(name string, data []byte) *Source {
	return &Source{r: bytes.NewReader(data), size: int64(len(data)), path: name}
}

func decompress(r io.Reader, c Compression, limit uint64) ([]byte, error) {
	var (
		rc  io.Reader
		err error
	)
	switch c {
	case Zstd:
		dec, derr := zstd.NewReader(r,
			zstd.WithDecoderConcurrency(1),
			zstd.WithDecoderMaxMemory(limit))
		if derr != nil {
			return nil, derr
		}
		defer dec.Close()
		rc = dec
	case Gzip:
		zr, gerr := gzip.NewReader(r)
		if gerr != nil {
			return nil, gerr
		}
		defer zr.Close()
		rc = zr
	default:
		return nil, fmt.Errorf("unsupported compression %s", c)
	}

	data, err := io.ReadAll(io.LimitReader(rc, int64(limit)+1))
	if err != nil {
		return nil, err
	}
	if uint64(len(data)) > limit {
		return nil, fmt.Errorf("decompressed size exceeds %d bytes", limit)
	}
	return data, nil
}

// ReadAt implements io.ReaderAt.
func (s *Source) ReadAt(p []byte, off int64) (int, error) {
	return s.r.ReadAt(p, off)
}

// Size returns the size of the (decompressed) container in bytes.
func (s *Source) Size() int64 {
	return s.size
}

// Path returns the file path.
func (s *Source) Path() string {
	return s.path
}

// Compression reports how the file was stored.
func (s *Source) Compression() Compression {
	return s.compression
}

// Close releases the file handle, if one is still open. It is safe to call
// more than once.
func (s *Source) Close() error {
	if s.closer == nil {
		return nil
	}
	err := s.closer.Close()
	s.closer = nil
	return err
}
