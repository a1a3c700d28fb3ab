package encoding

import (
	"fmt"
	"math"

	"github.com/arloliu/pqlog/endian"
	"github.com/arloliu/pqlog/errs"
	"github.com/arloliu/pqlog/format"
	"github.com/arloliu/pqlog/internal/pool"
	"github.com/arloliu/pqlog/value"
)

// ByteArrayLengthSize is the size of the little-endian length prefix written
// before every ByteArray value.
const ByteArrayLengthSize = 4

// PlainSize returns the number of bytes v occupies once PLAIN encoded.
func PlainSize(v value.Value) int {
	if v.Type() == format.TypeByteArray {
		return ByteArrayLengthSize + v.DynSize()
	}

	return v.DynSize()
}

// PlainEncoder appends values of a single physical type to a pooled buffer
// using Parquet's PLAIN encoding.
//
// Numeric values are written as fixed-width little-endian words, floats
// through their IEEE 754 bit pattern. ByteArray values are written as a
// 4-byte little-endian length followed by the raw bytes.
type PlainEncoder struct {
	buf    *pool.ByteBuffer
	engine endian.EndianEngine
	typ    format.PhysicalType
	count  int
}

// NewPlainEncoder creates an encoder for typ whose buffer can hold at least
// capacity bytes before growing.
//
// Returns errs.ErrUnsupportedType if typ is not one of the five physical types.
func NewPlainEncoder(typ format.PhysicalType, capacity int) (*PlainEncoder, error) {
	if !typ.IsSupported() {
		return nil, fmt.Errorf("%w: %s", errs.ErrUnsupportedType, typ)
	}

	return &PlainEncoder{
		buf:    pool.GetPageBuffer(capacity),
		engine: endian.GetLittleEndianEngine(),
		typ:    typ,
	}, nil
}

// Type returns the physical type accepted by the encoder.
func (e *PlainEncoder) Type() format.PhysicalType {
	return e.typ
}

// Write appends v to the buffer.
//
// Returns errs.ErrTypeMismatch, leaving the encoder unchanged, if v is not of
// the encoder's type.
//
// Panics if Finish or Detach has been called.
func (e *PlainEncoder) Write(v value.Value) error {
	if e.buf == nil {
		panic("encoder already finished - cannot write after Finish()")
	}

	if v.Type() != e.typ {
		return fmt.Errorf("%w: cannot encode %s into %s page", errs.ErrTypeMismatch, v.Type(), e.typ)
	}

	e.buf.B = e.appendValue(e.buf.B, v)
	e.count++

	return nil
}

func (e *PlainEncoder) appendValue(dst []byte, v value.Value) []byte {
	switch e.typ {
	case format.TypeInt32:
		n, _ := v.AsInt32()
		return e.engine.AppendUint32(dst, uint32(n))
	case format.TypeInt64:
		n, _ := v.AsInt64()
		return e.engine.AppendUint64(dst, uint64(n))
	case format.TypeFloat32:
		f, _ := v.AsFloat32()
		return e.engine.AppendUint32(dst, math.Float32bits(f))
	case format.TypeFloat64:
		f, _ := v.AsFloat64()
		return e.engine.AppendUint64(dst, math.Float64bits(f))
	default:
		b, _ := v.AsBytes()
		dst = e.engine.AppendUint32(dst, uint32(len(b))) //nolint:gosec
		return append(dst, b...)
	}
}

// Bytes returns the encoded values. The slice is valid until the next Write.
func (e *PlainEncoder) Bytes() []byte {
	if e.buf == nil {
		panic("encoder already finished - cannot access bytes after Finish()")
	}

	return e.buf.Bytes()
}

// Len returns the number of values written.
func (e *PlainEncoder) Len() int {
	return e.count
}

// Size returns the number of encoded bytes.
func (e *PlainEncoder) Size() int {
	if e.buf == nil {
		return 0
	}

	return e.buf.Len()
}

// Detach hands the underlying buffer to the caller, who becomes responsible
// for returning it with pool.PutPageBuffer. The encoder is unusable afterwards.
func (e *PlainEncoder) Detach() *pool.ByteBuffer {
	buf := e.buf
	e.buf = nil

	return buf
}

// Finish returns the buffer to the pool. The encoder is unusable afterwards.
func (e *PlainEncoder) Finish() {
	if e.buf != nil {
		pool.PutPageBuffer(e.buf)
		e.buf = nil
	}
}
