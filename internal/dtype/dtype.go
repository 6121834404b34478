// Package dtype maps binout type tags to Go types and decodes raw value
// bytes into homogeneous typed arrays.
package dtype

import (
	"errors"
	"fmt"
	"reflect"
)

// Errors
var (
	ErrUnknownTypeTag = errors.New("unknown type tag")
	ErrShortData      = errors.New("data length is not a multiple of the element size")
	ErrTypeMismatch   = errors.New("value types differ")
	ErrNotNumeric     = errors.New("values are not numeric")
)

// Tag identifies the scalar type of a leaf's values.
type Tag uint8

// Type tags, as written by LS-Dyna.
const (
	Int8    Tag = 1
	Int16   Tag = 2
	Int32   Tag = 3
	Int64   Tag = 4
	Uint8   Tag = 5
	Uint16  Tag = 6
	Uint32  Tag = 7
	Uint64  Tag = 8
	Float32 Tag = 9
	Float64 Tag = 10
	String  Tag = 11
)

var tagInfo = map[Tag]struct {
	name   string
	size   int
	goType reflect.Type
}{
	Int8:    {"int8", 1, reflect.TypeOf(int8(0))},
	Int16:   {"int16", 2, reflect.TypeOf(int16(0))},
	Int32:   {"int32", 4, reflect.TypeOf(int32(0))},
	Int64:   {"int64", 8, reflect.TypeOf(int64(0))},
	Uint8:   {"uint8", 1, reflect.TypeOf(uint8(0))},
	Uint16:  {"uint16", 2, reflect.TypeOf(uint16(0))},
	Uint32:  {"uint32", 4, reflect.TypeOf(uint32(0))},
	Uint64:  {"uint64", 8, reflect.TypeOf(uint64(0))},
	Float32: {"float32", 4, reflect.TypeOf(float32(0))},
	Float64: {"float64", 8, reflect.TypeOf(float64(0))},
	String:  {"string", 1, reflect.TypeOf("")},
}

// ParseTag converts a raw type-tag field into a Tag. Codes outside the
// closed set fail with ErrUnknownTypeTag.
func ParseTag(code uint64) (Tag, error) {
	if code > 0xFF || !Tag(code).Valid() {
		return 0, fmt.Errorf("%w: %d", ErrUnknownTypeTag, code)
	}
	return Tag(code), nil
}

// Valid reports whether t is a known tag.
func (t Tag) Valid() bool {
	_, ok := tagInfo[t]
	return ok
}

// Size returns the width of one element in bytes, or 0 for unknown tags.
func (t Tag) Size() int {
	return tagInfo[t].size
}

// Numeric reports whether values of t can be ordered numerically.
func (t Tag) Numeric() bool {
	return t.Valid() && t != String
}

func (t Tag) String() string {
	if info, ok := tagInfo[t]; ok {
		return info.name
	}
	return fmt.Sprintf("tag(%d)", uint8(t))
}
