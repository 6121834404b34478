// Package dtype provides binout type tags and typed value decoding.
//
// Every leaf in a container stores a homogeneous array of scalars whose type
// is named by a small integer tag. The set of tags is closed; an unknown tag
// is always an error and is never decoded by guessing a width.
//
// # Type Mapping
//
//	Tag | Name    | Go type  | Width
//	----|---------|----------|------
//	1   | int8    | int8     | 1
//	2   | int16   | int16    | 2
//	3   | int32   | int32    | 4
//	4   | int64   | int64    | 8
//	5   | uint8   | uint8    | 1
//	6   | uint16  | uint16   | 2
//	7   | uint32  | uint32   | 4
//	8   | uint64  | uint64   | 8
//	9   | float32 | float32  | 4
//	10  | float64 | float64  | 8
//	11  | string  | string   | 1 per character
//
// # Reading Data
//
// Use [Decode] to turn raw bytes into [Values]:
//
//	v, err := dtype.Decode(dtype.Float64, binary.LittleEndian, raw)
//	xs, err := v.Float64s()
//
// [Values] carries its tag and never exposes its backing slice, so trees
// holding decoded leaves stay immutable after they are built.
//
// # Writing Data
//
// [Encode] is the inverse of [Decode] and is used to synthesise containers.
//
// # Key Functions
//
//   - [ParseTag]: Validates a raw tag field
//   - [Decode]: Converts raw bytes to Values
//   - [Encode]: Converts Values to raw bytes
//   - [Concat], [Values.Permute]: Building blocks of the series merge
package dtype
