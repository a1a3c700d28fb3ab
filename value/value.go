// Package value provides Value, the single scalar type pushed into pqlog
// columns.
//
// A Value is a closed tagged union over the five supported physical types.
// Type checking happens at runtime when a value is pushed into a column: the
// Table API takes a column index and a Value, so a statically typed column
// builder would be bypassed by the most common call path anyway.
package value

import (
	"bytes"
	"cmp"
	"fmt"
	"math"

	"github.com/arloliu/pqlog/errs"
	"github.com/arloliu/pqlog/format"
)

// A Value holds exactly one of an int32, int64, float32, float64 or byte
// array. Values are immutable once constructed. The zero Value is invalid and
// is rejected by every column.
type Value struct {
	_ [0]func() // Disallow equality checking of two Values

	// num holds the bits of numeric variants. Floats are stored through
	// math.Float32bits/Float64bits so their exact representation survives.
	num uint64
	buf []byte
	typ format.PhysicalType
}

// Int32 returns a Value for an int32.
func Int32(v int32) Value {
	return Value{num: uint64(uint32(v)), typ: format.TypeInt32}
}

// Int64 returns a Value for an int64.
func Int64(v int64) Value {
	return Value{num: uint64(v), typ: format.TypeInt64}
}

// Float32 returns a Value for a float32.
func Float32(v float32) Value {
	return Value{num: uint64(math.Float32bits(v)), typ: format.TypeFloat32}
}

// Float64 returns a Value for a float64.
func Float64(v float64) Value {
	return Value{num: math.Float64bits(v), typ: format.TypeFloat64}
}

// ByteArray returns a Value for a byte slice. The slice is referenced, not
// copied: callers must not modify it until the value has been pushed.
func ByteArray(v []byte) Value {
	return Value{buf: v, typ: format.TypeByteArray}
}

// String returns a ByteArray Value holding the bytes of s.
func String(s string) Value {
	return ByteArray([]byte(s))
}

// Type returns the active variant of v, or format.TypeInvalid for the zero Value.
func (v Value) Type() format.PhysicalType {
	return v.typ
}

// IsValid reports whether v holds one of the supported variants.
func (v Value) IsValid() bool {
	return v.typ.IsSupported()
}

// DynSize returns the exact serialized payload size of v in bytes: the fixed
// width for numeric variants or the byte length for ByteArray. The 4-byte
// length prefix written before byte arrays is not included.
func (v Value) DynSize() int {
	if v.typ == format.TypeByteArray {
		return len(v.buf)
	}

	return v.typ.FixedSize()
}

func (v Value) expect(typ format.PhysicalType) error {
	if v.typ != typ {
		return fmt.Errorf("%w: value is %s, not %s", errs.ErrTypeMismatch, v.typ, typ)
	}

	return nil
}

// AsInt32 returns v as an int32, or errs.ErrTypeMismatch.
func (v Value) AsInt32() (int32, error) {
	if err := v.expect(format.TypeInt32); err != nil {
		return 0, err
	}

	return int32(uint32(v.num)), nil
}

// AsInt64 returns v as an int64, or errs.ErrTypeMismatch.
func (v Value) AsInt64() (int64, error) {
	if err := v.expect(format.TypeInt64); err != nil {
		return 0, err
	}

	return int64(v.num), nil
}

// AsFloat32 returns v as a float32, or errs.ErrTypeMismatch.
func (v Value) AsFloat32() (float32, error) {
	if err := v.expect(format.TypeFloat32); err != nil {
		return 0, err
	}

	return math.Float32frombits(uint32(v.num)), nil
}

// AsFloat64 returns v as a float64, or errs.ErrTypeMismatch.
func (v Value) AsFloat64() (float64, error) {
	if err := v.expect(format.TypeFloat64); err != nil {
		return 0, err
	}

	return math.Float64frombits(v.num), nil
}

// AsBytes returns the byte slice held by v, or errs.ErrTypeMismatch. The
// returned slice aliases the one v was created from.
func (v Value) AsBytes() ([]byte, error) {
	if err := v.expect(format.TypeByteArray); err != nil {
		return nil, err
	}

	return v.buf, nil
}

// IsNaN reports whether v is a floating point NaN.
func (v Value) IsNaN() bool {
	switch v.typ {
	case format.TypeFloat32:
		return math.IsNaN(float64(math.Float32frombits(uint32(v.num))))
	case format.TypeFloat64:
		return math.IsNaN(math.Float64frombits(v.num))
	default:
		return false
	}
}

// Compare orders two values the way Parquet's type-defined column order does:
// signed comparison for integers and floats, unsigned byte-wise comparison
// for byte arrays. Values of different types are ordered by type.
func Compare(a, b Value) int {
	if a.typ != b.typ {
		return cmp.Compare(a.typ, b.typ)
	}

	switch a.typ {
	case format.TypeInt32:
		return cmp.Compare(int32(uint32(a.num)), int32(uint32(b.num)))
	case format.TypeInt64:
		return cmp.Compare(int64(a.num), int64(b.num))
	case format.TypeFloat32:
		return cmp.Compare(math.Float32frombits(uint32(a.num)), math.Float32frombits(uint32(b.num)))
	case format.TypeFloat64:
		return cmp.Compare(math.Float64frombits(a.num), math.Float64frombits(b.num))
	case format.TypeByteArray:
		return bytes.Compare(a.buf, b.buf)
	default:
		return 0
	}
}

// String formats v for debugging.
func (v Value) String() string {
	switch v.typ {
	case format.TypeInt32:
		return fmt.Sprintf("Int32(%d)", int32(uint32(v.num)))
	case format.TypeInt64:
		return fmt.Sprintf("Int64(%d)", int64(v.num))
	case format.TypeFloat32:
		return fmt.Sprintf("Float32(%g)", math.Float32frombits(uint32(v.num)))
	case format.TypeFloat64:
		return fmt.Sprintf("Float64(%g)", math.Float64frombits(v.num))
	case format.TypeByteArray:
		return fmt.Sprintf("ByteArray(%q)", v.buf)
	default:
		return "Invalid"
	}
}
