package dtype

import (
	"encoding/binary"
	"math"
)

// Encode converts v to raw container bytes in the given byte order. It is
// the inverse of Decode.
func Encode(v Values, order binary.ByteOrder) []byte {
	size := v.tag.Size()
	data := make([]byte, v.Len()*size)

	switch s := v.data.(type) {
	case []byte:
		copy(data, s)
	case []int8:
		for i, x := range s {
			data[i] = byte(x)
		}
	case []int16:
		for i, x := range s {
			order.PutUint16(data[i*2:], uint16(x))
		}
	case []int32:
		for i, x := range s {
			order.PutUint32(data[i*4:], uint32(x))
		}
	case []int64:
		for i, x := range s {
			order.PutUint64(data[i*8:], uint64(x))
		}
	case []uint16:
		for i, x := range s {
			order.PutUint16(data[i*2:], x)
		}
	case []uint32:
		for i, x := range s {
			order.PutUint32(data[i*4:], x)
		}
	case []uint64:
		for i, x := range s {
			order.PutUint64(data[i*8:], x)
		}
	case []float32:
		for i, x := range s {
			order.PutUint32(data[i*4:], math.Float32bits(x))
		}
	case []float64:
		for i, x := range s {
			order.PutUint64(data[i*8:], math.Float64bits(x))
		}
	}
	return data
}
