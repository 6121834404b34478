package header

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	binpkg "github.com/robert-malhotra/go-binout/internal/binary"
)

// Size is the length of the fixed prefix in bytes.
const Size = 8

// ErrMalformedHeader is returned when the prefix is short or declares an
// unsupported field width.
var ErrMalformedHeader = errors.New("malformed container header")

// Layout describes how the rest of the container is encoded. It is created
// once per container and never modified.
type Layout struct {
	// HeaderLength is the declared header length. Values above Size move
	// the start of the record stream.
	HeaderLength uint8

	// LengthSize is the number of bytes used for record lengths.
	LengthSize uint8

	// OffsetSize is the number of bytes used for file offsets.
	OffsetSize uint8

	// CommandSize is the number of bytes used for record commands.
	CommandSize uint8

	// TypeSize is the number of bytes used for type tags.
	TypeSize uint8

	// ByteOrder of every multi-byte field and value in the container.
	ByteOrder binary.ByteOrder
}

// Read parses the prefix at the start of r.
func Read(r io.ReaderAt) (*Layout, error) {
	buf := make([]byte, Size)
	n, err := r.ReadAt(buf, 0)
	if n < Size {
		if err == nil || err == io.EOF {
			return nil, fmt.Errorf("%w: %d of %d bytes", ErrMalformedHeader, n, Size)
		}
		return nil, err
	}
	return Parse(buf)
}

// Parse decodes a prefix from buf. buf[6:8] are reserved and not checked.
func Parse(buf []byte) (*Layout, error) {
	if len(buf) < Size {
		return nil, fmt.Errorf("%w: %d of %d bytes", ErrMalformedHeader, len(buf), Size)
	}

	l := &Layout{
		HeaderLength: buf[0],
		LengthSize:   buf[1],
		OffsetSize:   buf[2],
		CommandSize:  buf[3],
		TypeSize:     buf[4],
		ByteOrder:    binary.LittleEndian,
	}
	if buf[5] == 0 {
		l.ByteOrder = binary.BigEndian
	}

	if err := l.ReaderConfig().Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedHeader, err)
	}
	return l, nil
}

// DataOffset returns the position of the first record.
func (l *Layout) DataOffset() int64 {
	if l.HeaderLength > Size {
		return int64(l.HeaderLength)
	}
	return Size
}

// ReaderConfig returns a binary.Config for reading the record stream.
func (l *Layout) ReaderConfig() binpkg.Config {
	return binpkg.Config{
		ByteOrder:   l.ByteOrder,
		LengthSize:  int(l.LengthSize),
		OffsetSize:  int(l.OffsetSize),
		CommandSize: int(l.CommandSize),
		TypeSize:    int(l.TypeSize),
	}
}

// FromConfig builds a Layout for cfg with the default header length.
func FromConfig(cfg binpkg.Config) Layout {
	return Layout{
		HeaderLength: Size,
		LengthSize:   uint8(cfg.LengthSize),
		OffsetSize:   uint8(cfg.OffsetSize),
		CommandSize:  uint8(cfg.CommandSize),
		TypeSize:     uint8(cfg.TypeSize),
		ByteOrder:    cfg.ByteOrder,
	}
}

// BigEndian reports whether the container is big-endian.
func (l *Layout) BigEndian() bool {
	return l.ByteOrder == binary.BigEndian
}

func (l *Layout) String() string {
	order := "little"
	if l.BigEndian() {
		order = "big"
	}
	return fmt.Sprintf("length=%d offset=%d command=%d type=%d order=%s data=%d",
		l.LengthSize, l.OffsetSize, l.CommandSize, l.TypeSize, order, l.DataOffset())
}

// Write emits the prefix for l followed by zero padding up to DataOffset.
func Write(w io.Writer, l Layout) error {
	buf := make([]byte, l.DataOffset())
	buf[0] = l.HeaderLength
	buf[1] = l.LengthSize
	buf[2] = l.OffsetSize
	buf[3] = l.CommandSize
	buf[4] = l.TypeSize
	if !l.BigEndian() {
		buf[5] = 1
	}
	_, err := w.Write(buf)
	return err
}
