package binary

import (
	"encoding/binary"
	"io"
)

// Writer writes variable-width fields in the layout described by a Config.
// It is the mirror of Reader and is used to synthesise containers.
type Writer struct {
	w           io.Writer
	order       binary.ByteOrder
	lengthSize  int
	offsetSize  int
	commandSize int
	typeSize    int
}

// NewWriter creates a binary writer with the given configuration.
func NewWriter(w io.Writer, cfg Config) *Writer {
	return &Writer{
		w:           w,
		order:       cfg.ByteOrder,
		lengthSize:  cfg.LengthSize,
		offsetSize:  cfg.OffsetSize,
		commandSize: cfg.CommandSize,
		typeSize:    cfg.TypeSize,
	}
}

// WriteBytes writes data at the current position.
func (w *Writer) WriteBytes(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	_, err := w.w.Write(data)
	return err
}

// WriteUint8 writes an unsigned 8-bit integer.
func (w *Writer) WriteUint8(v uint8) error {
	return w.WriteBytes([]byte{v})
}

// WriteUintN writes an unsigned integer of n bytes (1, 2, 4, or 8).
func (w *Writer) WriteUintN(v uint64, n int) error {
	if !ValidSize(n) {
		return ErrInvalidSize
	}
	buf := make([]byte, n)
	w.encodeUint(buf, v)
	return w.WriteBytes(buf)
}

// WriteLength writes a record length using the configured length size.
func (w *Writer) WriteLength(v uint64) error {
	return w.WriteUintN(v, w.lengthSize)
}

// WriteOffset writes a file offset using the configured offset size.
func (w *Writer) WriteOffset(v uint64) error {
	return w.WriteUintN(v, w.offsetSize)
}

// WriteCommand writes a command code using the configured command size.
func (w *Writer) WriteCommand(v uint64) error {
	return w.WriteUintN(v, w.commandSize)
}

// WriteTypeTag writes a type tag using the configured type size.
func (w *Writer) WriteTypeTag(v uint64) error {
	return w.WriteUintN(v, w.typeSize)
}

// encodeUint encodes v into buf using len(buf) bytes in the writer's byte
// order. len(buf) has already been checked by ValidSize.
func (w *Writer) encodeUint(buf []byte, v uint64) {
	switch len(buf) {
	case 1:
		buf[0] = uint8(v)
	case 2:
		w.order.PutUint16(buf, uint16(v))
	case 4:
		w.order.PutUint32(buf, uint32(v))
	default:
		w.order.PutUint64(buf, v)
	}
}
