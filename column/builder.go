// Package column splits the values of one column into size-bounded pages.
//
// A Builder buffers the values pushed into a column since the last drain.
// Drain moves every buffered page into a Chunk that owns them outright, so
// the builder can take new values while the chunk is still being written.
package column

import (
	"fmt"

	"github.com/arloliu/pqlog/compress"
	"github.com/arloliu/pqlog/errs"
	"github.com/arloliu/pqlog/page"
	"github.com/arloliu/pqlog/schema"
	"github.com/arloliu/pqlog/value"
)

// Builder accumulates the pages of one column.
//
// Every page except the last is closed and none is empty: a page is only
// created to hold the value that did not fit into its predecessor.
type Builder struct {
	column   schema.Column
	pageSize int
	codec    compress.Codec
	pages    []*page.Builder

	noStatistics bool
}

// NewBuilder creates an empty builder for col. pageSize is the budget, in
// serialized bytes, of each page; codec compresses drained pages.
func NewBuilder(pageSize int, col schema.Column, codec compress.Codec) *Builder {
	return &Builder{
		column:   col,
		pageSize: pageSize,
		codec:    codec,
	}
}

// DisableStatistics marks chunks drained from b as carrying no statistics,
// so writers leave page and chunk bounds out of the file.
func (b *Builder) DisableStatistics() {
	b.noStatistics = true
}

// Column returns the column descriptor.
func (b *Builder) Column() schema.Column {
	return b.column
}

// Check returns errs.ErrTypeMismatch if v does not match the column type.
func (b *Builder) Check(v value.Value) error {
	if v.Type() != b.column.Type {
		return fmt.Errorf("%w: column %q is %s, got %s", errs.ErrTypeMismatch, b.column.Name, b.column.Type, v.Type())
	}

	return nil
}

// Push appends v to the column.
//
// Returns errs.ErrTypeMismatch if v does not match the column type. A failed
// push leaves the builder unchanged.
func (b *Builder) Push(v value.Value) error {
	if err := b.Check(v); err != nil {
		return err
	}

	pb, err := b.pageFor(page.EncodedSize(v))
	if err != nil {
		return err
	}

	return pb.Push(v)
}

// pageFor returns the page that should receive a value of sizeHint bytes,
// starting a new one when the last page cannot take it within the budget.
// A value larger than the budget gets a page of its own.
//
// sizeHint is the serialized size from page.EncodedSize, which includes the
// 4-byte length prefix of byte arrays, not value.DynSize. A page body
// therefore never exceeds pageSize unless it holds one oversized value.
func (b *Builder) pageFor(sizeHint int) (*page.Builder, error) {
	if n := len(b.pages); n > 0 {
		last := b.pages[n-1]
		if last.Size()+sizeHint <= b.pageSize {
			return last, nil
		}
	}

	pb, err := page.NewBuilder(max(b.pageSize, sizeHint), b.column.Type)
	if err != nil {
		return nil, err
	}
	b.pages = append(b.pages, pb)

	return pb, nil
}

// Size returns the serialized size of all buffered values.
func (b *Builder) Size() int {
	size := 0
	for _, pb := range b.pages {
		size += pb.Size()
	}

	return size
}

// Count returns the number of buffered values.
func (b *Builder) Count() int {
	count := 0
	for _, pb := range b.pages {
		count += pb.Count()
	}

	return count
}

// NumPages returns the number of buffered pages.
func (b *Builder) NumPages() int {
	return len(b.pages)
}

// Drain finishes every buffered page and moves them into a new Chunk,
// leaving the builder empty. The chunk is independent of the builder.
func (b *Builder) Drain() *Chunk {
	chunk := &Chunk{
		column:     b.column,
		codec:      b.codec,
		pages:      make([]*page.Page, 0, len(b.pages)),
		statistics: !b.noStatistics,
	}

	for _, pb := range b.pages {
		p := pb.Finish()
		chunk.numValues += p.Header.NumValues
		chunk.stats.Merge(p.Header.Statistics)
		chunk.pages = append(chunk.pages, p)
	}

	clear(b.pages)
	b.pages = b.pages[:0]

	return chunk
}

// Discard drops every buffered value and returns the page buffers to the pool.
func (b *Builder) Discard() {
	b.Drain().Release()
}
