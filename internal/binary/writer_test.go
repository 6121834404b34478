package binary

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

func TestWriteUint8(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, DefaultConfig())

	if err := w.WriteUint8(0xAB); err != nil {
		t.Fatalf("WriteUint8 failed: %v", err)
	}
	if buf.Bytes()[0] != 0xAB {
		t.Errorf("expected 0xAB, got 0x%02X", buf.Bytes()[0])
	}
}

func TestWriteFields(t *testing.T) {
	tests := []struct {
		name     string
		size     int
		order    binary.ByteOrder
		value    uint64
		expected []byte
	}{
		{"1-byte", 1, binary.LittleEndian, 0x12, []byte{0x12}},
		{"2-byte LE", 2, binary.LittleEndian, 0x1234, []byte{0x34, 0x12}},
		{"2-byte BE", 2, binary.BigEndian, 0x1234, []byte{0x12, 0x34}},
		{"4-byte LE", 4, binary.LittleEndian, 0x12345678, []byte{0x78, 0x56, 0x34, 0x12}},
		{"8-byte BE", 8, binary.BigEndian, 0x123456789ABCDEF0, []byte{0x12, 0x34, 0x56, 0x78, 0x9A, 0xBC, 0xDE, 0xF0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			cfg := Config{
				ByteOrder:   tt.order,
				LengthSize:  tt.size,
				OffsetSize:  tt.size,
				CommandSize: tt.size,
				TypeSize:    tt.size,
			}
			w := NewWriter(&buf, cfg)

			writes := []func(uint64) error{w.WriteLength, w.WriteOffset, w.WriteCommand, w.WriteTypeTag}
			for _, write := range writes {
				if err := write(tt.value); err != nil {
					t.Fatalf("write failed: %v", err)
				}
			}

			want := bytes.Repeat(tt.expected, 4)
			if !bytes.Equal(buf.Bytes(), want) {
				t.Errorf("expected %x, got %x", want, buf.Bytes())
			}
		})
	}
}

func TestWriteInvalidWidth(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, DefaultConfig())

	if err := w.WriteUintN(1, 3); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("expected ErrInvalidSize, got %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("rejected write must not emit bytes, got %x", buf.Bytes())
	}
}

func TestWriterReaderRoundTrip(t *testing.T) {
	cfg := Config{
		ByteOrder:   binary.BigEndian,
		LengthSize:  4,
		OffsetSize:  2,
		CommandSize: 1,
		TypeSize:    2,
	}
	var buf bytes.Buffer
	w := NewWriter(&buf, cfg)
	w.WriteLength(0xCAFEBABE)
	w.WriteOffset(0xBEEF)
	w.WriteCommand(3)
	w.WriteTypeTag(10)

	r := NewReader(bytesReaderAt(buf.Bytes()), cfg)
	if v, _ := r.ReadLength(); v != 0xCAFEBABE {
		t.Errorf("length: got 0x%x", v)
	}
	if v, _ := r.ReadOffset(); v != 0xBEEF {
		t.Errorf("offset: got 0x%x", v)
	}
	if v, _ := r.ReadCommand(); v != 3 {
		t.Errorf("command: got %d", v)
	}
	if v, _ := r.ReadTypeTag(); v != 10 {
		t.Errorf("type: got %d", v)
	}
}
