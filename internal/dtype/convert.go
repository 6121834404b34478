package dtype

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Decode converts raw container bytes into Values of the given tag. It
// consumes exactly len(data)/tag.Size() elements and rejects trailing bytes.
func Decode(tag Tag, order binary.ByteOrder, data []byte) (Values, error) {
	size := tag.Size()
	if size == 0 {
		return Values{}, fmt.Errorf("%w: %d", ErrUnknownTypeTag, uint8(tag))
	}
	if len(data)%size != 0 {
		return Values{}, fmt.Errorf("%w: %d bytes of %s", ErrShortData, len(data), tag)
	}

	var out any
	switch tag {
	case Int8:
		out = decodeEach(data, 1, func(b []byte) int8 { return int8(b[0]) })
	case Int16:
		out = decodeEach(data, 2, func(b []byte) int16 { return int16(order.Uint16(b)) })
	case Int32:
		out = decodeEach(data, 4, func(b []byte) int32 { return int32(order.Uint32(b)) })
	case Int64:
		out = decodeEach(data, 8, func(b []byte) int64 { return int64(order.Uint64(b)) })
	case Uint8, String:
		out = append([]byte(nil), data...)
	case Uint16:
		out = decodeEach(data, 2, order.Uint16)
	case Uint32:
		out = decodeEach(data, 4, order.Uint32)
	case Uint64:
		out = decodeEach(data, 8, order.Uint64)
	case Float32:
		out = decodeEach(data, 4, func(b []byte) float32 { return math.Float32frombits(order.Uint32(b)) })
	case Float64:
		out = decodeEach(data, 8, func(b []byte) float64 { return math.Float64frombits(order.Uint64(b)) })
	}
	return Values{tag: tag, data: out}, nil
}

func decodeEach[T any](data []byte, size int, conv func([]byte) T) []T {
	out := make([]T, len(data)/size)
	for i := range out {
		out[i] = conv(data[i*size : (i+1)*size])
	}
	return out
}

func toFloat64[T Scalar](s []T) []float64 {
	out := make([]float64, len(s))
	for i, v := range s {
		out[i] = float64(v)
	}
	return out
}
