package encoding

import (
	"fmt"
	"iter"
	"math"

	"github.com/arloliu/pqlog/endian"
	"github.com/arloliu/pqlog/errs"
	"github.com/arloliu/pqlog/format"
	"github.com/arloliu/pqlog/value"
)

// PlainDecoder reads back values written by PlainEncoder.
type PlainDecoder struct {
	engine endian.EndianEngine
	typ    format.PhysicalType
}

// NewPlainDecoder creates a decoder for typ.
func NewPlainDecoder(typ format.PhysicalType) (*PlainDecoder, error) {
	if !typ.IsSupported() {
		return nil, fmt.Errorf("%w: %s", errs.ErrUnsupportedType, typ)
	}

	return &PlainDecoder{engine: endian.GetLittleEndianEngine(), typ: typ}, nil
}

// All yields up to count values decoded from data.
//
// Decoded ByteArray values alias data. If data ends in the middle of a value,
// All yields a zero Value with errs.ErrInvalidPageData and stops.
func (d *PlainDecoder) All(data []byte, count int) iter.Seq2[value.Value, error] {
	return func(yield func(value.Value, error) bool) {
		offset := 0
		for i := 0; i < count; i++ {
			v, n, err := d.decode(data[offset:])
			if err != nil {
				yield(value.Value{}, fmt.Errorf("%w: value %d at offset %d: %w", errs.ErrInvalidPageData, i, offset, err))
				return
			}
			offset += n

			if !yield(v, nil) {
				return
			}
		}
	}
}

// Decode decodes exactly count values from data.
func (d *PlainDecoder) Decode(data []byte, count int) ([]value.Value, error) {
	values := make([]value.Value, 0, count)
	for v, err := range d.All(data, count) {
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}

	return values, nil
}

func (d *PlainDecoder) decode(data []byte) (value.Value, int, error) {
	size := d.typ.FixedSize()
	if d.typ == format.TypeByteArray {
		size = ByteArrayLengthSize
	}

	if len(data) < size {
		return value.Value{}, 0, fmt.Errorf("need %d bytes, have %d", size, len(data))
	}

	switch d.typ {
	case format.TypeInt32:
		return value.Int32(int32(d.engine.Uint32(data))), size, nil //nolint:gosec
	case format.TypeInt64:
		return value.Int64(int64(d.engine.Uint64(data))), size, nil //nolint:gosec
	case format.TypeFloat32:
		return value.Float32(math.Float32frombits(d.engine.Uint32(data))), size, nil
	case format.TypeFloat64:
		return value.Float64(math.Float64frombits(d.engine.Uint64(data))), size, nil
	default:
		n := int(d.engine.Uint32(data))
		end := ByteArrayLengthSize + n
		if n < 0 || len(data) < end {
			return value.Value{}, 0, fmt.Errorf("byte array of length %d exceeds remaining %d bytes", n, len(data)-ByteArrayLengthSize)
		}

		return value.ByteArray(data[ByteArrayLengthSize:end:end]), end, nil
	}
}
