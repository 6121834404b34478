// Package testutil synthesises binout containers for tests.
package testutil

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/robert-malhotra/go-binout/internal/binary"
	"github.com/robert-malhotra/go-binout/internal/dtype"
	"github.com/robert-malhotra/go-binout/internal/header"
)

// Record command codes, mirrored here so the builder can emit arbitrary
// and invalid streams without depending on the reader.
const (
	cmdBeginDirectory = 1
	cmdEndDirectory   = 2
	cmdWriteValue     = 3
	cmdDefineVariable = 4
	cmdBlob           = 5
)

// Builder writes a container record by record. Methods panic on misuse,
// such as a field that does not fit its declared width.
type Builder struct {
	cfg    binary.Config
	layout header.Layout
	buf    bytes.Buffer
	w      *binary.Writer
}

// NewBuilder starts a container with the given field layout.
func NewBuilder(cfg binary.Config) *Builder {
	return NewBuilderLayout(header.FromConfig(cfg))
}

// NewBuilderLayout starts a container with an explicit header, which allows
// a header length other than the default.
func NewBuilderLayout(l header.Layout) *Builder {
	b := &Builder{cfg: l.ReaderConfig(), layout: l}
	if err := header.Write(&b.buf, l); err != nil {
		panic(err)
	}
	b.w = binary.NewWriter(&b.buf, b.cfg)
	return b
}

// Default returns a builder using the layout LS-Dyna writes by default.
func Default() *Builder {
	return NewBuilder(binary.DefaultConfig())
}

// Layout returns the container layout.
func (b *Builder) Layout() header.Layout {
	return b.layout
}

// Offset returns the position at which the next record starts.
func (b *Builder) Offset() int64 {
	return int64(b.buf.Len())
}

// Begin opens a directory.
func (b *Builder) Begin(name string) *Builder {
	return b.Record(cmdBeginDirectory, []byte(name))
}

// End closes the current directory.
func (b *Builder) End() *Builder {
	return b.Record(cmdEndDirectory, nil)
}

// Dir writes a directory whose content is produced by fn.
func (b *Builder) Dir(name string, fn func(*Builder)) *Builder {
	b.Begin(name)
	if fn != nil {
		fn(b)
	}
	return b.End()
}

// Value writes an inline leaf.
func (b *Builder) Value(name string, v dtype.Values) *Builder {
	return b.RawValue(name, uint64(v.Tag()), dtype.Encode(v, b.cfg.ByteOrder))
}

// RawValue writes an inline leaf with an arbitrary tag code and value bytes.
func (b *Builder) RawValue(name string, tag uint64, raw []byte) *Builder {
	var p bytes.Buffer
	pw := binary.NewWriter(&p, b.cfg)
	b.check(b.cfg.TypeSize, tag, "type tag")
	mustWrite(pw.WriteTypeTag(tag))
	mustWrite(pw.WriteUint8(nameLen(name)))
	mustWrite(pw.WriteBytes([]byte(name)))
	mustWrite(pw.WriteBytes(raw))
	return b.Record(cmdWriteValue, p.Bytes())
}

// Define writes the values of v into a blob record followed by a leaf that
// refers to them by offset.
func (b *Builder) Define(name string, v dtype.Values) *Builder {
	raw := dtype.Encode(v, b.cfg.ByteOrder)
	at := b.Offset() + int64(b.cfg.LengthSize+b.cfg.CommandSize)
	b.Blob(raw)
	return b.DefineAt(name, uint64(v.Tag()), uint64(at), uint64(v.Len()))
}

// DefineAt writes a leaf that refers to count elements at an absolute offset.
func (b *Builder) DefineAt(name string, tag, offset, count uint64) *Builder {
	var p bytes.Buffer
	pw := binary.NewWriter(&p, b.cfg)
	b.check(b.cfg.TypeSize, tag, "type tag")
	b.check(b.cfg.OffsetSize, offset, "offset")
	b.check(b.cfg.LengthSize, count, "count")
	mustWrite(pw.WriteUint8(nameLen(name)))
	mustWrite(pw.WriteBytes([]byte(name)))
	mustWrite(pw.WriteTypeTag(tag))
	mustWrite(pw.WriteOffset(offset))
	mustWrite(pw.WriteLength(count))
	return b.Record(cmdDefineVariable, p.Bytes())
}

// Blob writes an opaque record.
func (b *Builder) Blob(data []byte) *Builder {
	return b.Record(cmdBlob, data)
}

// Record writes a record with any command code and payload.
func (b *Builder) Record(cmd uint64, payload []byte) *Builder {
	length := uint64(b.cfg.LengthSize + b.cfg.CommandSize + len(payload))
	return b.RecordLength(length, cmd, payload)
}

// RecordLength writes a record whose length field is set explicitly,
// which allows malformed framing.
func (b *Builder) RecordLength(length, cmd uint64, payload []byte) *Builder {
	b.check(b.cfg.LengthSize, length, "record length")
	b.check(b.cfg.CommandSize, cmd, "command")
	mustWrite(b.w.WriteLength(length))
	mustWrite(b.w.WriteCommand(cmd))
	mustWrite(b.w.WriteBytes(payload))
	return b
}

// Append writes raw bytes to the end of the container.
func (b *Builder) Append(data []byte) *Builder {
	mustWrite(b.w.WriteBytes(data))
	return b
}

// Bytes returns a copy of the container written so far.
func (b *Builder) Bytes() []byte {
	return bytes.Clone(b.buf.Bytes())
}

// Reader returns the container as an io.ReaderAt.
func (b *Builder) Reader() *bytes.Reader {
	return bytes.NewReader(b.Bytes())
}

// WriteFile writes the container to name inside a test temp directory and
// returns the full path.
func (b *Builder) WriteFile(t testing.TB, name string) string {
	t.Helper()
	return WriteFile(t, name, b.Bytes())
}

func (b *Builder) check(width int, v uint64, what string) {
	if width < 8 && v >= 1<<(8*width) {
		panic(fmt.Sprintf("testutil: %s %d does not fit in %d bytes", what, v, width))
	}
}

func nameLen(name string) uint8 {
	if len(name) > 255 {
		panic(fmt.Sprintf("testutil: name %q longer than 255 bytes", name))
	}
	return uint8(len(name))
}

func mustWrite(err error) {
	if err != nil {
		panic(err)
	}
}

// WriteFile writes data to name inside a test temp directory.
func WriteFile(t testing.TB, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// Zstd compresses data as a zstd frame.
func Zstd(t testing.TB, data []byte) []byte {
	t.Helper()
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		t.Fatalf("zstd writer: %v", err)
	}
	defer enc.Close()
	return enc.EncodeAll(data, nil)
}

// Gzip compresses data as a gzip stream.
func Gzip(t testing.TB, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		t.Fatalf("gzip write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}
	return buf.Bytes()
}
