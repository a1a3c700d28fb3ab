package page

import (
	"math"

	pqformat "github.com/parquet-go/parquet-go/format"

	"github.com/arloliu/pqlog/endian"
	"github.com/arloliu/pqlog/format"
	"github.com/arloliu/pqlog/value"
)

// Statistics summarizes the values of a page or column chunk.
//
// Min and Max are invalid (the zero Value) when no bound is known: for byte
// array columns, and for floating point pages holding only NaN.
type Statistics struct {
	NullCount int64
	Min       value.Value
	Max       value.Value
}

// HasMinMax reports whether both bounds are set.
func (s Statistics) HasMinMax() bool {
	return s.Min.IsValid() && s.Max.IsValid()
}

// Observe widens the bounds to include v.
func (s *Statistics) Observe(v value.Value) {
	if v.Type() == format.TypeByteArray || v.IsNaN() || !v.IsValid() {
		return
	}

	if !s.Min.IsValid() || value.Compare(v, s.Min) < 0 {
		s.Min = v
	}
	if !s.Max.IsValid() || value.Compare(v, s.Max) > 0 {
		s.Max = v
	}

	// A zero min is written as -0.0 and a zero max as +0.0.
	s.Min = signedZero(s.Min, true)
	s.Max = signedZero(s.Max, false)
}

func signedZero(v value.Value, negative bool) value.Value {
	zero := 0.0
	if negative {
		zero = math.Copysign(0, -1)
	}

	switch v.Type() {
	case format.TypeFloat32:
		if f, _ := v.AsFloat32(); f == 0 {
			return value.Float32(float32(zero))
		}
	case format.TypeFloat64:
		if f, _ := v.AsFloat64(); f == 0 {
			return value.Float64(zero)
		}
	}

	return v
}

// Merge folds other into s.
func (s *Statistics) Merge(other Statistics) {
	s.NullCount += other.NullCount
	if other.Min.IsValid() {
		s.Observe(other.Min)
	}
	if other.Max.IsValid() {
		s.Observe(other.Max)
	}
}

// Thrift converts s to its file metadata form. Bounds are PLAIN encoded and
// written to both the legacy and the current min/max fields, which agree for
// the signed orderings pqlog uses.
func (s Statistics) Thrift() pqformat.Statistics {
	stats := pqformat.Statistics{NullCount: s.NullCount}
	if !s.HasMinMax() {
		return stats
	}

	stats.Min = EncodeBound(s.Min)
	stats.Max = EncodeBound(s.Max)
	stats.MinValue = stats.Min
	stats.MaxValue = stats.Max

	return stats
}

// EncodeBound returns v in the encoding Parquet uses for statistics: PLAIN,
// without a length prefix for byte arrays.
func EncodeBound(v value.Value) []byte {
	engine := endian.GetLittleEndianEngine()

	switch v.Type() {
	case format.TypeInt32:
		n, _ := v.AsInt32()
		return engine.AppendUint32(nil, uint32(n))
	case format.TypeInt64:
		n, _ := v.AsInt64()
		return engine.AppendUint64(nil, uint64(n))
	case format.TypeFloat32:
		f, _ := v.AsFloat32()
		return engine.AppendUint32(nil, math.Float32bits(f))
	case format.TypeFloat64:
		f, _ := v.AsFloat64()
		return engine.AppendUint64(nil, math.Float64bits(f))
	case format.TypeByteArray:
		b, _ := v.AsBytes()
		return append([]byte(nil), b...)
	default:
		return nil
	}
}
