package record

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/robert-malhotra/go-binout/internal/binary"
	"github.com/robert-malhotra/go-binout/internal/dtype"
	"github.com/robert-malhotra/go-binout/internal/header"
)

// Kind is the type of a walker event.
type Kind int

// Event kinds.
const (
	EnterDirectory Kind = iota
	ExitDirectory
	Leaf
)

func (k Kind) String() string {
	switch k {
	case EnterDirectory:
		return "enter"
	case ExitDirectory:
		return "exit"
	case Leaf:
		return "leaf"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Event is a structural step in the record stream.
type Event struct {
	Kind Kind

	// Offset is the position of the record that produced the event.
	Offset int64

	// Name of the directory or leaf. Empty for ExitDirectory.
	Name string

	// Leaf fields.
	Tag    dtype.Tag
	Count  uint64
	Span   Span
	Values dtype.Values // zero in lazy mode
}

// EventFunc is called for each event in stream order. Returning an error
// stops the walk; the error is reported with the record's offset.
type EventFunc func(Event) error

// Option configures a Walker.
type Option func(*Walker)

// WithLazy makes the walker skip value bytes and report only their span.
func WithLazy(lazy bool) Option {
	return func(w *Walker) {
		w.lazy = lazy
	}
}

// Walker reads the record stream of one container.
type Walker struct {
	r      *binary.Reader
	layout *header.Layout
	start  int64
	size   int64
	lazy   bool
}

// NewWalker creates a walker over src, which holds size bytes and whose
// prefix has already been parsed into l.
func NewWalker(src io.ReaderAt, l *header.Layout, size int64, opts ...Option) *Walker {
	w := &Walker{
		r:      binary.NewReader(src, l.ReaderConfig()),
		layout: l,
		start:  l.DataOffset(),
		size:   size,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Lazy reports whether the walker defers value decoding.
func (w *Walker) Lazy() bool {
	return w.lazy
}

// Walk reads every record from the data offset to the end of the container.
// The walk ends when the position reaches the container size exactly.
func (w *Walker) Walk(fn EventFunc) error {
	if w.start > w.size {
		return &Error{Offset: w.size, Err: fmt.Errorf("%w: data offset %d beyond end %d", ErrTruncatedRecord, w.start, w.size)}
	}

	pos := w.start
	for pos < w.size {
		rec, err := w.Next(pos)
		if err != nil {
			return err
		}
		if err := w.dispatch(rec, fn); err != nil {
			var recErr *Error
			if errors.As(err, &recErr) {
				return err
			}
			return &Error{Offset: rec.Offset, Command: rec.Command, Err: err}
		}
		pos = rec.End()
	}
	return nil
}

// Next reads the record framing at pos and checks that the whole record lies
// inside the container.
func (w *Walker) Next(pos int64) (Record, error) {
	fixed := int64(w.r.LengthSize() + w.r.CommandSize())
	if w.size-pos < fixed {
		return Record{}, &Error{Offset: pos, Err: fmt.Errorf("%w: %d of %d framing bytes", ErrTruncatedRecord, w.size-pos, fixed)}
	}

	rr := w.r.At(pos)
	length, err := rr.ReadLength()
	if err != nil {
		return Record{}, &Error{Offset: pos, Err: fmt.Errorf("%w: %v", ErrTruncatedRecord, err)}
	}
	cmd, err := rr.ReadCommand()
	if err != nil {
		return Record{}, &Error{Offset: pos, Err: fmt.Errorf("%w: %v", ErrTruncatedRecord, err)}
	}

	rec := Record{
		Offset:        pos,
		Length:        length,
		Command:       Command(cmd),
		PayloadOffset: rr.Pos(),
	}
	if cmd > math.MaxUint8 {
		return rec, &Error{Offset: pos, Err: fmt.Errorf("%w: %d", ErrUnknownCommand, cmd)}
	}
	if length < uint64(fixed) {
		return rec, &Error{Offset: pos, Command: rec.Command, Err: fmt.Errorf("%w: length %d shorter than framing", ErrMalformedRecord, length)}
	}
	if length > uint64(w.size-pos) {
		return rec, &Error{Offset: pos, Command: rec.Command, Err: fmt.Errorf("%w: length %d exceeds %d remaining bytes", ErrTruncatedRecord, length, w.size-pos)}
	}
	return rec, nil
}

func (w *Walker) dispatch(rec Record, fn EventFunc) error {
	switch rec.Command {
	case BeginDirectory:
		name, err := w.payload(rec, 0, rec.PayloadLength())
		if err != nil {
			return err
		}
		if len(name) == 0 {
			return fmt.Errorf("%w: empty directory name", ErrMalformedRecord)
		}
		return fn(Event{Kind: EnterDirectory, Offset: rec.Offset, Name: string(name)})

	case EndDirectory:
		return fn(Event{Kind: ExitDirectory, Offset: rec.Offset})

	case WriteValue:
		ev, err := w.writeValue(rec)
		if err != nil {
			return err
		}
		return fn(ev)

	case DefineVariable:
		ev, err := w.defineVariable(rec)
		if err != nil {
			return err
		}
		return fn(ev)

	case Blob:
		return nil

	default:
		return fmt.Errorf("%w: %d", ErrUnknownCommand, uint8(rec.Command))
	}
}

// writeValue parses [tag][name len][name][raw values].
func (w *Walker) writeValue(rec Record) (Event, error) {
	ts := int64(w.r.TypeSize())
	plen := rec.PayloadLength()
	if plen < ts+1 {
		return Event{}, fmt.Errorf("%w: payload of %d bytes", ErrMalformedRecord, plen)
	}

	pr := w.r.At(rec.PayloadOffset)
	code, err := pr.ReadTypeTag()
	if err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrTruncatedRecord, err)
	}
	tag, err := dtype.ParseTag(code)
	if err != nil {
		return Event{}, err
	}
	name, err := w.name(pr, rec, plen)
	if err != nil {
		return Event{}, err
	}

	span := Span{Offset: pr.Pos(), Length: rec.End() - pr.Pos()}
	if span.Length%int64(tag.Size()) != 0 {
		return Event{}, fmt.Errorf("%w: %d value bytes of %s", ErrMalformedRecord, span.Length, tag)
	}
	return w.leaf(rec, name, tag, span)
}

// defineVariable parses [name len][name][tag][offset][count].
func (w *Walker) defineVariable(rec Record) (Event, error) {
	plen := rec.PayloadLength()
	if plen < 1 {
		return Event{}, fmt.Errorf("%w: empty payload", ErrMalformedRecord)
	}

	fr := w.r.At(rec.PayloadOffset)
	name, err := w.name(fr, rec, plen)
	if err != nil {
		return Event{}, err
	}
	fields := int64(w.r.TypeSize() + w.r.OffsetSize() + w.r.LengthSize())
	if fr.Pos()+fields > rec.End() {
		return Event{}, fmt.Errorf("%w: payload of %d bytes too short", ErrMalformedRecord, plen)
	}

	code, err := fr.ReadTypeTag()
	if err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrTruncatedRecord, err)
	}
	tag, err := dtype.ParseTag(code)
	if err != nil {
		return Event{}, err
	}
	offset, err := fr.ReadOffset()
	if err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrTruncatedRecord, err)
	}
	count, err := fr.ReadLength()
	if err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrTruncatedRecord, err)
	}

	size := uint64(tag.Size())
	if count > math.MaxInt64/size || offset > math.MaxInt64 {
		return Event{}, fmt.Errorf("%w: %d elements at offset %d overflow", ErrTruncatedRecord, count, offset)
	}
	span := Span{Offset: int64(offset), Length: int64(count * size)}
	if span.Offset > w.size || span.Length > w.size-span.Offset {
		return Event{}, fmt.Errorf("%w: values [%d, %d) beyond end %d", ErrTruncatedRecord, span.Offset, span.End(), w.size)
	}
	return w.leaf(rec, name, tag, span)
}

// name reads a length-prefixed variable name at r's position and checks it
// against the end of rec.
func (w *Walker) name(r *binary.Reader, rec Record, plen int64) (string, error) {
	n, err := r.ReadUint8()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTruncatedRecord, err)
	}
	if r.Pos()+int64(n) > rec.End() {
		return "", fmt.Errorf("%w: name of %d bytes overruns %d byte payload", ErrMalformedRecord, n, plen)
	}
	if n == 0 {
		return "", fmt.Errorf("%w: empty variable name", ErrMalformedRecord)
	}
	buf, err := r.ReadBytes(int(n))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTruncatedRecord, err)
	}
	return string(buf), nil
}

func (w *Walker) leaf(rec Record, name string, tag dtype.Tag, span Span) (Event, error) {
	ev := Event{
		Kind:   Leaf,
		Offset: rec.Offset,
		Name:   name,
		Tag:    tag,
		Count:  uint64(span.Length) / uint64(tag.Size()),
		Span:   span,
	}
	if w.lazy {
		return ev, nil
	}
	v, err := w.Load(span, tag)
	if err != nil {
		return Event{}, err
	}
	ev.Values = v
	return ev, nil
}

// Load reads and decodes the values in span.
func (w *Walker) Load(span Span, tag dtype.Tag) (dtype.Values, error) {
	raw, err := w.r.ReadAt(span.Offset, int(span.Length))
	if err != nil {
		return dtype.Values{}, fmt.Errorf("%w: values at %d: %v", ErrTruncatedRecord, span.Offset, err)
	}
	return dtype.Decode(tag, w.r.ByteOrder(), raw)
}

// payload reads n payload bytes starting at off within the record.
func (w *Walker) payload(rec Record, off, n int64) ([]byte, error) {
	buf, err := w.r.ReadAt(rec.PayloadOffset+off, int(n))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTruncatedRecord, err)
	}
	return buf, nil
}
