// Package page builds single Parquet data pages.
//
// A Builder accumulates PLAIN encoded values of one physical type together
// with their min/max statistics. Finish turns it into an immutable Page that
// the column package compresses and hands to the writer.
package page

import (
	pqformat "github.com/parquet-go/parquet-go/format"

	"github.com/arloliu/pqlog/encoding"
	"github.com/arloliu/pqlog/format"
	"github.com/arloliu/pqlog/value"
)

// EncodedSize returns the number of bytes v adds to a page body.
func EncodedSize(v value.Value) int {
	return encoding.PlainSize(v)
}

// Builder accumulates the values of one page.
type Builder struct {
	enc   *encoding.PlainEncoder
	stats Statistics
}

// NewBuilder returns an empty builder for typ whose buffer is pre-sized to
// capacityHint bytes.
//
// Returns errs.ErrUnsupportedType for any type outside the five supported ones.
func NewBuilder(capacityHint int, typ format.PhysicalType) (*Builder, error) {
	enc, err := encoding.NewPlainEncoder(typ, capacityHint)
	if err != nil {
		return nil, err
	}

	return &Builder{enc: enc}, nil
}

// Type returns the physical type accepted by the builder.
func (b *Builder) Type() format.PhysicalType {
	return b.enc.Type()
}

// Push appends v and updates the statistics.
//
// Returns errs.ErrTypeMismatch, leaving the builder unchanged, if v does not
// match the builder's type. Panics after Finish.
func (b *Builder) Push(v value.Value) error {
	if err := b.enc.Write(v); err != nil {
		return err
	}
	b.stats.Observe(v)

	return nil
}

// Size returns the serialized length of the values pushed so far.
func (b *Builder) Size() int {
	return b.enc.Size()
}

// Count returns the number of values pushed so far.
func (b *Builder) Count() int {
	return b.enc.Len()
}

// Statistics returns the statistics of the values pushed so far.
func (b *Builder) Statistics() Statistics {
	return b.stats
}

// Finish consumes the builder and returns the finished page. The builder
// must not be used afterwards.
func (b *Builder) Finish() *Page {
	typ := b.enc.Type()
	count := b.enc.Len()
	buf := b.enc.Detach()
	if buf == nil {
		panic("page builder already finished")
	}

	return &Page{
		Header: Header{
			NumValues:               count,
			Encoding:                pqformat.Plain,
			DefinitionLevelEncoding: pqformat.RLE,
			RepetitionLevelEncoding: pqformat.RLE,
			Statistics:              b.stats,
		},
		typ: typ,
		buf: buf,
	}
}
