package binout

import (
	"log/slog"
	"runtime"

	"github.com/robert-malhotra/go-binout/internal/query"
	"github.com/robert-malhotra/go-binout/internal/source"
)

// Option configures Open.
type Option func(*options)

type options struct {
	lazy        bool
	logger      *slog.Logger
	concurrency int
	maxSize     uint64
	metadata    string
	time        string
}

func defaultOptions() *options {
	return &options{
		logger:      slog.New(slog.DiscardHandler),
		concurrency: runtime.GOMAXPROCS(0),
		maxSize:     source.DefaultMaxSize,
		metadata:    query.DefaultMetadataName,
		time:        query.DefaultTimeName,
	}
}

// WithLazyDecode defers decoding leaf values until they are first read.
// The files stay open until Close.
func WithLazyDecode(lazy bool) Option {
	return func(o *options) {
		o.lazy = lazy
	}
}

// WithLogger sets the logger for open and query diagnostics. By default
// nothing is logged.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithDecodeConcurrency bounds how many leaves are decoded in parallel when
// a lazily opened series is assembled.
func WithDecodeConcurrency(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

// WithMaxDecompressedSize limits the in-memory size of a compressed
// container.
func WithMaxDecompressedSize(n uint64) Option {
	return func(o *options) {
		if n > 0 {
			o.maxSize = n
		}
	}
}

// WithMetadataName sets the name of the per-category metadata directory.
func WithMetadataName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.metadata = name
		}
	}
}

// WithTimeName sets the name of the per-partition time leaf.
func WithTimeName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.time = name
		}
	}
}
