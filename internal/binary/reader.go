// Package binary provides low-level binary I/O for binout containers, whose
// length, offset, command and type-tag fields each have a width declared by
// the container header.
package binary

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// ErrInvalidSize is returned when a configured field width is not 1, 2, 4 or 8.
var ErrInvalidSize = errors.New("invalid field size: must be 1, 2, 4, or 8")

// Reader reads variable-width fields from an io.ReaderAt. It carries its own
// position, so several readers may share one underlying source.
type Reader struct {
	r           io.ReaderAt
	order       binary.ByteOrder
	lengthSize  int
	offsetSize  int
	commandSize int
	typeSize    int
	pos         int64
}

// Config holds reader configuration, typically derived from the container header.
type Config struct {
	ByteOrder   binary.ByteOrder
	LengthSize  int // 1, 2, 4, or 8 bytes
	OffsetSize  int // 1, 2, 4, or 8 bytes
	CommandSize int // 1, 2, 4, or 8 bytes
	TypeSize    int // 1, 2, 4, or 8 bytes
}

// DefaultConfig returns the layout LS-Dyna writes by default: native
// little-endian, 8-byte lengths and offsets, 1-byte commands and type tags.
func DefaultConfig() Config {
	return Config{
		ByteOrder:   binary.LittleEndian,
		LengthSize:  8,
		OffsetSize:  8,
		CommandSize: 1,
		TypeSize:    1,
	}
}

// Validate checks that every width is supported. The error names the
// offending field and wraps ErrInvalidSize.
func (c Config) Validate() error {
	widths := []struct {
		name string
		n    int
	}{
		{"length", c.LengthSize},
		{"offset", c.OffsetSize},
		{"command", c.CommandSize},
		{"type", c.TypeSize},
	}
	for _, w := range widths {
		if !ValidSize(w.n) {
			return fmt.Errorf("%w: %s size %d", ErrInvalidSize, w.name, w.n)
		}
	}
	if c.ByteOrder == nil {
		return errors.New("byte order not set")
	}
	return nil
}

// ValidSize reports whether n is a supported field width.
func ValidSize(n int) bool {
	return n == 1 || n == 2 || n == 4 || n == 8
}

// NewReader creates a binary reader with the given configuration.
func NewReader(r io.ReaderAt, cfg Config) *Reader {
	return &Reader{
		r:           r,
		order:       cfg.ByteOrder,
		lengthSize:  cfg.LengthSize,
		offsetSize:  cfg.OffsetSize,
		commandSize: cfg.CommandSize,
		typeSize:    cfg.TypeSize,
	}
}

// At returns a new reader positioned at the given offset.
// The new reader shares the underlying io.ReaderAt but has independent position.
func (r *Reader) At(offset int64) *Reader {
	nr := *r
	nr.pos = offset
	return &nr
}

// Pos returns the current read position.
func (r *Reader) Pos() int64 {
	return r.pos
}

// ReadBytes reads exactly n bytes from the current position. A short read
// reports io.ErrUnexpectedEOF and leaves the position unchanged.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n <= 0 {
		return nil, nil
	}
	buf := make([]byte, n)
	if err := r.readFull(buf, r.pos); err != nil {
		return nil, err
	}
	r.pos += int64(n)
	return buf, nil
}

// readFull fills buf from off. io.ReaderAt may return io.EOF together with a
// full buffer; that is a successful read.
func (r *Reader) readFull(buf []byte, off int64) error {
	n, err := r.r.ReadAt(buf, off)
	if n == len(buf) {
		return nil
	}
	if err == nil || err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}

// ReadUint8 reads an unsigned 8-bit integer.
func (r *Reader) ReadUint8() (uint8, error) {
	buf, err := r.ReadBytes(1)
	if err != nil {
		return 0, err
	}
	return buf[0], nil
}

// ReadUintN reads an unsigned integer of n bytes (1, 2, 4, or 8).
func (r *Reader) ReadUintN(n int) (uint64, error) {
	if !ValidSize(n) {
		return 0, ErrInvalidSize
	}
	buf, err := r.ReadBytes(n)
	if err != nil {
		return 0, err
	}
	return r.decodeUint(buf), nil
}

// ReadLength reads a record length using the configured length size.
func (r *Reader) ReadLength() (uint64, error) {
	return r.ReadUintN(r.lengthSize)
}

// ReadOffset reads a file offset using the configured offset size.
func (r *Reader) ReadOffset() (uint64, error) {
	return r.ReadUintN(r.offsetSize)
}

// ReadCommand reads a command code using the configured command size.
func (r *Reader) ReadCommand() (uint64, error) {
	return r.ReadUintN(r.commandSize)
}

// ReadTypeTag reads a type tag using the configured type size.
func (r *Reader) ReadTypeTag() (uint64, error) {
	return r.ReadUintN(r.typeSize)
}

// decodeUint decodes an unsigned integer whose width is len(buf). len(buf)
// has already been checked by ValidSize.
func (r *Reader) decodeUint(buf []byte) uint64 {
	switch len(buf) {
	case 1:
		return uint64(buf[0])
	case 2:
		return uint64(r.order.Uint16(buf))
	case 4:
		return uint64(r.order.Uint32(buf))
	default:
		return r.order.Uint64(buf)
	}
}

// ReadAt reads exactly n bytes at an absolute offset without touching the
// reader's position.
func (r *Reader) ReadAt(off int64, n int) ([]byte, error) {
	if n <= 0 {
		return nil, nil
	}
	buf := make([]byte, n)
	if err := r.readFull(buf, off); err != nil {
		return nil, err
	}
	return buf, nil
}

// LengthSize returns the configured length size in bytes.
func (r *Reader) LengthSize() int {
	return r.lengthSize
}

// OffsetSize returns the configured offset size in bytes.
func (r *Reader) OffsetSize() int {
	return r.offsetSize
}

// CommandSize returns the configured command size in bytes.
func (r *Reader) CommandSize() int {
	return r.commandSize
}

// TypeSize returns the configured type tag size in bytes.
func (r *Reader) TypeSize() int {
	return r.typeSize
}

// ByteOrder returns the configured byte order.
func (r *Reader) ByteOrder() binary.ByteOrder {
	return r.order
}
