package dtype

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// Scalar constrains the numeric conversion helpers.
type Scalar interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~float32 | ~float64
}

// Number is the set of exact element types accepted by Of.
type Number interface {
	int8 | int16 | int32 | int64 | uint8 | uint16 | uint32 | uint64 | float32 | float64
}

// Values is a homogeneous array of decoded scalars. The backing slice is one
// of []int8 ... []uint64, []float32, []float64, or []byte for Uint8 and
// String. Methods never hand out the backing slice; callers get copies.
type Values struct {
	tag  Tag
	data any
}

// Of wraps s as Values. The slice is copied.
func Of[T Number](s []T) (Values, error) {
	tag, err := tagOf(reflect.TypeOf(s).Elem())
	if err != nil {
		return Values{}, err
	}
	if s == nil {
		s = []T{}
	}
	return Values{tag: tag, data: s}.clone(), nil
}

// MustOf is like Of but panics on error. It is intended for fixtures.
func MustOf[T Number](s []T) Values {
	v, err := Of(s)
	if err != nil {
		panic(err)
	}
	return v
}

// OfString wraps s as a String leaf value, one element per byte.
func OfString(s string) Values {
	return Values{tag: String, data: []byte(s)}
}

func tagOf(t reflect.Type) (Tag, error) {
	for tag, info := range tagInfo {
		if tag != String && info.goType.Kind() == t.Kind() {
			return tag, nil
		}
	}
	return 0, fmt.Errorf("%w: %v", ErrUnknownTypeTag, t)
}

// Tag returns the element type.
func (v Values) Tag() Tag {
	return v.tag
}

// IsZero reports whether v was never assigned.
func (v Values) IsZero() bool {
	return v.data == nil
}

// Len returns the number of elements.
func (v Values) Len() int {
	if v.data == nil {
		return 0
	}
	return reflect.ValueOf(v.data).Len()
}

// Index returns element i as its Go scalar type.
func (v Values) Index(i int) any {
	return reflect.ValueOf(v.data).Index(i).Interface()
}

// Raw returns a copy of the backing slice.
func (v Values) Raw() any {
	if v.data == nil {
		return nil
	}
	return v.clone().data
}

// Interface returns the natural Go form of v: a string for String values and
// a copied slice otherwise.
func (v Values) Interface() any {
	if v.tag == String {
		return v.String()
	}
	return v.Raw()
}

// String returns the text of a String value, or a formatted slice otherwise.
func (v Values) String() string {
	if v.tag == String {
		return string(v.data.([]byte))
	}
	return fmt.Sprint(v.data)
}

// Float64s converts numeric values to float64.
func (v Values) Float64s() ([]float64, error) {
	switch s := v.data.(type) {
	case []int8:
		return toFloat64(s), nil
	case []int16:
		return toFloat64(s), nil
	case []int32:
		return toFloat64(s), nil
	case []int64:
		return toFloat64(s), nil
	case []uint16:
		return toFloat64(s), nil
	case []uint32:
		return toFloat64(s), nil
	case []uint64:
		return toFloat64(s), nil
	case []float32:
		return toFloat64(s), nil
	case []float64:
		return append([]float64(nil), s...), nil
	case []byte:
		if v.tag == Uint8 {
			return toFloat64(s), nil
		}
	case nil:
		return nil, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNotNumeric, v.tag)
}

// Concat joins vs in order into one Values. Every non-empty input must
// have the same tag. The result is allocated once.
func Concat(vs ...Values) (Values, error) {
	var (
		first Values
		total int
	)
	for _, v := range vs {
		if v.IsZero() {
			continue
		}
		if first.IsZero() {
			first = v
		} else if v.tag != first.tag {
			return Values{}, fmt.Errorf("%w: %s and %s", ErrTypeMismatch, first.tag, v.tag)
		}
		total += v.Len()
	}
	if first.IsZero() {
		return Values{}, nil
	}

	out := reflect.MakeSlice(reflect.TypeOf(first.data), total, total)
	n := 0
	for _, v := range vs {
		if v.IsZero() {
			continue
		}
		n += reflect.Copy(out.Slice(n, total), reflect.ValueOf(v.data))
	}
	return Values{tag: first.tag, data: out.Interface()}, nil
}

// Permute returns a new Values whose element i is v's element idx[i].
func (v Values) Permute(idx []int) Values {
	if v.data == nil {
		return v
	}
	src := reflect.ValueOf(v.data)
	out := reflect.MakeSlice(src.Type(), len(idx), len(idx))
	for i, j := range idx {
		out.Index(i).Set(src.Index(j))
	}
	return Values{tag: v.tag, data: out.Interface()}
}

// Equal reports whether v and o hold the same tag and elements.
func (v Values) Equal(o Values) bool {
	return v.tag == o.tag && reflect.DeepEqual(v.data, o.data)
}

func (v Values) clone() Values {
	if v.data == nil {
		return v
	}
	src := reflect.ValueOf(v.data)
	out := reflect.MakeSlice(src.Type(), src.Len(), src.Len())
	reflect.Copy(out, src)
	return Values{tag: v.tag, data: out.Interface()}
}

// plain returns a form that text encoders render as numbers or text;
// []byte would otherwise be emitted as base64.
func (v Values) plain() any {
	switch v.tag {
	case String:
		return v.String()
	case Uint8:
		s := v.data.([]byte)
		out := make([]uint16, len(s))
		for i, b := range s {
			out[i] = uint16(b)
		}
		return out
	}
	return v.data
}

// MarshalJSON implements json.Marshaler.
func (v Values) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.plain())
}

// MarshalYAML implements the YAML interface marshaler.
func (v Values) MarshalYAML() (any, error) {
	return v.plain(), nil
}
