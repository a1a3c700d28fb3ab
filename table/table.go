// Package table buffers rows of a schema and writes them as row groups.
//
// A Table keeps one column.Builder per schema column. Values can be pushed
// a row at a time or a column at a time; Flush checks that every column holds
// the same number of values, drains them into one row group and hands it to
// the sink. End flushes what is left and finalizes the file.
//
// A Table is not safe for concurrent use.
package table

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/arloliu/pqlog/column"
	"github.com/arloliu/pqlog/compress"
	"github.com/arloliu/pqlog/errs"
	"github.com/arloliu/pqlog/internal/options"
	"github.com/arloliu/pqlog/page"
	"github.com/arloliu/pqlog/schema"
	"github.com/arloliu/pqlog/value"
	"github.com/arloliu/pqlog/writer"
)

// Table buffers values and writes them through a writer.Sink.
type Table struct {
	schema  *schema.Schema
	sink    writer.Sink
	columns []*column.Builder
	cfg     *config
	logger  *zap.Logger

	buffered    int
	rowGroups   int
	flushedRows int64
	ended       bool
}

// New creates a table for s that writes to sink.
//
// Returns errs.ErrInvalidPageSize, errs.ErrInvalidRowGroupSize or
// errs.ErrInvalidCompression for bad options.
func New(s *schema.Schema, sink writer.Sink, opts ...Option) (*Table, error) {
	cfg := defaultConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	codec, err := compress.NewCodec(cfg.compression, cfg.compressionLevel)
	if err != nil {
		return nil, err
	}

	columns := make([]*column.Builder, s.NumColumns())
	for i, col := range s.Columns() {
		columns[i] = column.NewBuilder(cfg.pageSize, col, codec)
		if !cfg.statistics {
			columns[i].DisableStatistics()
		}
	}

	t := &Table{
		schema:  s,
		sink:    sink,
		columns: columns,
		cfg:     cfg,
		logger:  cfg.logger.With(zap.String("table", s.Name())),
	}

	t.logger.Debug("table created",
		zap.Int("columns", len(columns)),
		zap.Int("page_size", cfg.pageSize),
		zap.Stringer("compression", cfg.compression),
		zap.Uint64("schema_fingerprint", s.Fingerprint()),
	)

	return t, nil
}

// Schema returns the table schema.
func (t *Table) Schema() *schema.Schema {
	return t.schema
}

// NumColumns returns the number of columns.
func (t *Table) NumColumns() int {
	return len(t.columns)
}

// RowGroups returns the number of row groups written so far.
func (t *Table) RowGroups() int {
	return t.rowGroups
}

// FlushedRows returns the number of rows written so far.
func (t *Table) FlushedRows() int64 {
	return t.flushedRows
}

// Size returns the serialized size of the buffered values.
func (t *Table) Size() int {
	size := 0
	for _, c := range t.columns {
		size += c.Size()
	}

	return size
}

// Push appends v to column col.
//
// Returns errs.ErrIndexOutOfRange for a bad column index and
// errs.ErrTypeMismatch when v does not match the column type. A failed push
// never buffers v.
//
// With WithRowGroupSize, a pending automatic flush runs before v is
// buffered. If the sink rejects that row group, Push returns the error
// without buffering v; the rows of the rejected group are lost as with
// Flush.
func (t *Table) Push(col int, v value.Value) error {
	if t.ended {
		return errs.ErrTableEnded
	}
	if col < 0 || col >= len(t.columns) {
		return fmt.Errorf("%w: column %d not in [0, %d)", errs.ErrIndexOutOfRange, col, len(t.columns))
	}

	c := t.columns[col]
	if err := c.Check(v); err != nil {
		return err
	}
	if err := t.maybeFlush(); err != nil {
		return err
	}

	if err := c.Push(v); err != nil {
		return err
	}
	t.buffered += page.EncodedSize(v)

	return nil
}

// PushRow pushes values[i] into column i. It stops at the first error, so a
// failed call may leave part of the row buffered.
func (t *Table) PushRow(values ...value.Value) error {
	for i, v := range values {
		if err := t.Push(i, v); err != nil {
			return err
		}
	}

	return nil
}

// PushColumn pushes values into column col in order. It stops at the first
// error.
func (t *Table) PushColumn(col int, values ...value.Value) error {
	for _, v := range values {
		if err := t.Push(col, v); err != nil {
			return err
		}
	}

	return nil
}

func (t *Table) maybeFlush() error {
	if t.cfg.rowGroupSize == 0 || t.buffered < t.cfg.rowGroupSize {
		return nil
	}

	if _, err := t.Validate(); err != nil {
		// Columns are mid-row; wait until they agree again.
		return nil //nolint:nilerr
	}

	_, err := t.Flush()

	return err
}

// Validate returns the number of rows buffered in every column.
//
// Returns errs.ErrNoColumns for an empty schema and errs.ErrRowCountMismatch
// when the columns hold different numbers of values.
func (t *Table) Validate() (int, error) {
	if len(t.columns) == 0 {
		return 0, errs.ErrNoColumns
	}

	rows := t.columns[0].Count()
	for _, c := range t.columns[1:] {
		if c.Count() != rows {
			return 0, fmt.Errorf("%w: %v", errs.ErrRowCountMismatch, t.counts())
		}
	}

	return rows, nil
}

func (t *Table) counts() []int {
	counts := make([]int, len(t.columns))
	for i, c := range t.columns {
		counts[i] = c.Count()
	}

	return counts
}

// Flush writes the buffered rows as one row group and returns how many rows
// it wrote. With nothing buffered it does nothing and returns 0.
//
// A validation error leaves the buffers untouched. If the sink fails, the
// drained rows are lost: the error is returned and the table stays usable.
func (t *Table) Flush() (int, error) {
	if t.ended {
		return 0, errs.ErrTableEnded
	}

	rows, err := t.Validate()
	if err != nil {
		return 0, err
	}
	if rows == 0 {
		return 0, nil
	}

	bytes := t.buffered
	chunks := make([]*column.Chunk, len(t.columns))
	for i, c := range t.columns {
		chunks[i] = c.Drain()
	}
	t.buffered = 0
	defer func() {
		for _, c := range chunks {
			c.Release()
		}
	}()

	if err := t.sink.Write(chunks); err != nil {
		t.logger.Warn("row group write failed, rows dropped",
			zap.Int("row_group", t.rowGroups),
			zap.Int("rows", rows),
			zap.Error(err),
		)

		return 0, fmt.Errorf("write row group %d: %w", t.rowGroups, err)
	}

	t.logger.Debug("row group flushed",
		zap.Int("row_group", t.rowGroups),
		zap.Int("rows", rows),
		zap.Int("bytes", bytes),
	)
	t.rowGroups++
	t.flushedRows += int64(rows)

	return rows, nil
}

// End flushes the remaining rows, finalizes the file and returns its size in
// bytes. If the final flush fails, End returns its error and the table is not
// ended. Afterwards every call returns errs.ErrTableEnded.
func (t *Table) End() (int64, error) {
	if t.ended {
		return 0, errs.ErrTableEnded
	}

	if _, err := t.Flush(); err != nil {
		return 0, err
	}

	t.ended = true

	size, err := t.sink.End(t.cfg.keyValueMetadata)
	if err != nil {
		t.logger.Warn("table end failed", zap.Error(err))
		return 0, fmt.Errorf("end: %w", err)
	}

	t.logger.Info("table ended",
		zap.Int64("bytes", size),
		zap.Int("row_groups", t.rowGroups),
		zap.Int64("rows", t.flushedRows),
	)

	return size, nil
}
