package record

import (
	"errors"
	"fmt"
)

// Command identifies the kind of a record.
type Command uint8

// Record commands.
const (
	BeginDirectory Command = 1
	EndDirectory   Command = 2
	WriteValue     Command = 3
	DefineVariable Command = 4
	Blob           Command = 5
)

func (c Command) String() string {
	switch c {
	case BeginDirectory:
		return "BeginDirectory"
	case EndDirectory:
		return "EndDirectory"
	case WriteValue:
		return "WriteValue"
	case DefineVariable:
		return "DefineVariable"
	case Blob:
		return "Blob"
	default:
		return fmt.Sprintf("Command(%d)", uint8(c))
	}
}

// Errors
var (
	ErrTruncatedRecord = errors.New("truncated record")
	ErrMalformedRecord = errors.New("malformed record")
	ErrUnknownCommand  = errors.New("unknown record command")
)

// Error reports a failure at a specific record.
type Error struct {
	Offset  int64
	Command Command
	Err     error
}

func (e *Error) Error() string {
	if e.Command == 0 {
		return fmt.Sprintf("record at offset %d: %v", e.Offset, e.Err)
	}
	return fmt.Sprintf("%s record at offset %d: %v", e.Command, e.Offset, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Record is the fixed part of one record. Payload bytes are read on demand.
type Record struct {
	// Offset is the file position of the record's length field.
	Offset int64

	// Length is the total record length, including the length and
	// command fields.
	Length uint64

	Command Command

	// PayloadOffset is the file position of the first payload byte.
	PayloadOffset int64
}

// PayloadLength returns the number of payload bytes.
func (r Record) PayloadLength() int64 {
	return r.Offset + int64(r.Length) - r.PayloadOffset
}

// End returns the position of the next record.
func (r Record) End() int64 {
	return r.Offset + int64(r.Length)
}

// Span locates raw leaf values in the container.
type Span struct {
	Offset int64
	Length int64
}

// End returns the position just past the span.
func (s Span) End() int64 {
	return s.Offset + s.Length
}
