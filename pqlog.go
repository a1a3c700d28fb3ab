// Package pqlog writes append-only Parquet files from rows pushed one value
// at a time.
//
// pqlog is meant for loggers and other producers that emit flat records of
// a fixed shape. Values are buffered per column in PLAIN encoded pages and
// written out as a row group whenever the caller flushes. Closing the table
// writes the footer and produces a file any Parquet reader can open.
//
// # Core Features
//
//   - Required columns of type INT32, INT64, FLOAT, DOUBLE and BYTE_ARRAY
//   - Size bounded data pages with per-page min/max statistics
//   - Page compression (None, Snappy, Gzip, Brotli, Zstd, LZ4)
//   - Row-at-a-time or column-at-a-time pushes
//   - Optional automatic flushing by buffered size
//   - Key/value metadata in the file footer
//
// # Basic Usage
//
//	args := pqlog.NewTableArgs("events", "/var/log/events.parquet")
//	_ = args.AddColumn("pid", pqlog.Int32)
//	_ = args.AddColumn("path", pqlog.ByteArray)
//	_ = args.AddColumn("ts", pqlog.Int64)
//
//	tbl, err := pqlog.NewTable(args)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	_ = tbl.PushInt32(0, 1337)
//	_ = tbl.PushString(1, "/usr/bin/true")
//	_ = tbl.PushInt64(2, time.Now().UnixMicro())
//
//	if _, err := tbl.Flush(); err != nil {
//	    log.Fatal(err)
//	}
//	size, err := tbl.End()
//
// # Package Structure
//
// This package wraps the table, schema and writer packages for the common
// case of one table per file. For in-memory output, custom sinks or direct
// control over row groups, use those packages directly.
package pqlog

import (
	"errors"
	"fmt"
	"os"

	"github.com/arloliu/pqlog/errs"
	"github.com/arloliu/pqlog/format"
	"github.com/arloliu/pqlog/schema"
	"github.com/arloliu/pqlog/table"
	"github.com/arloliu/pqlog/value"
	"github.com/arloliu/pqlog/writer"
)

// ColumnType is the type of a column declared with TableArgs.AddColumn.
type ColumnType uint8

const (
	Int32     ColumnType = iota + 1 // 32-bit signed integer
	Int64                           // 64-bit signed integer
	Float                           // 32-bit IEEE 754 float
	Double                          // 64-bit IEEE 754 float
	ByteArray                       // variable length bytes
)

// PhysicalType returns the storage type of c, or format.TypeInvalid if c is
// not one of the declared constants.
func (c ColumnType) PhysicalType() format.PhysicalType {
	switch c {
	case Int32:
		return format.TypeInt32
	case Int64:
		return format.TypeInt64
	case Float:
		return format.TypeFloat32
	case Double:
		return format.TypeFloat64
	case ByteArray:
		return format.TypeByteArray
	default:
		return format.TypeInvalid
	}
}

// String returns the name of the column type.
func (c ColumnType) String() string {
	switch c {
	case Int32:
		return "Int32"
	case Int64:
		return "Int64"
	case Float:
		return "Float"
	case Double:
		return "Double"
	case ByteArray:
		return "ByteArray"
	default:
		return fmt.Sprintf("ColumnType(%d)", uint8(c))
	}
}

var defaultTableOptions = []table.Option{
	table.WithPageSize(table.DefaultPageSize),
	table.WithCompression(format.CompressionBrotli),
	table.WithCompressionLevel(5),
	table.WithStatistics(true),
}

// TableArgs collects the name, output path and columns of a table before it
// is created.
type TableArgs struct {
	name   string
	path   string
	fields []schema.Field
	opts   []table.Option
}

// NewTableArgs returns arguments for a table called name that will be
// written to the file at path. Columns are added with AddColumn.
func NewTableArgs(name, path string) *TableArgs {
	return &TableArgs{name: name, path: path}
}

// Name returns the table name.
func (a *TableArgs) Name() string {
	return a.name
}

// Path returns the output path.
func (a *TableArgs) Path() string {
	return a.path
}

// AddColumn appends a required column. Columns are numbered in the order
// they are added, starting at 0.
//
// Returns errs.ErrUnsupportedType if typ is not a declared ColumnType.
// Duplicate or empty names are reported by NewTable.
func (a *TableArgs) AddColumn(name string, typ ColumnType) error {
	pt := typ.PhysicalType()
	if !pt.IsSupported() {
		return fmt.Errorf("%w: column %q has type %s", errs.ErrUnsupportedType, name, typ)
	}

	a.fields = append(a.fields, schema.Field{Name: name, Type: pt})

	return nil
}

// WithOptions appends table options applied after the defaults, so they
// override them.
func (a *TableArgs) WithOptions(opts ...table.Option) *TableArgs {
	a.opts = append(a.opts, opts...)
	return a
}

// Table is a table writing to a single file.
type Table struct {
	*table.Table
}

// NewTable creates the output file and returns an empty table for args.
//
// The table uses a page size of 1024 bytes, Brotli compression at quality 5
// and writes statistics, unless args carries options saying otherwise.
//
// Returns the schema error (errs.ErrEmptyName, errs.ErrDuplicateColumn) for
// bad columns, an option error for bad options, or the error from creating
// the file. No file is left behind on failure.
func NewTable(args *TableArgs) (*Table, error) {
	s, err := schema.New(args.name, args.fields...)
	if err != nil {
		return nil, err
	}

	w, err := writer.Create(s, args.path)
	if err != nil {
		return nil, err
	}

	opts := make([]table.Option, 0, len(defaultTableOptions)+len(args.opts))
	opts = append(opts, defaultTableOptions...)
	opts = append(opts, args.opts...)

	t, err := table.New(s, w, opts...)
	if err != nil {
		_, endErr := w.End(nil)
		return nil, errors.Join(err, endErr, os.Remove(args.path))
	}

	return &Table{Table: t}, nil
}

// PushInt32 appends v to column col.
func (t *Table) PushInt32(col int, v int32) error {
	return t.Push(col, value.Int32(v))
}

// PushInt64 appends v to column col.
func (t *Table) PushInt64(col int, v int64) error {
	return t.Push(col, value.Int64(v))
}

// PushFloat32 appends v to column col.
func (t *Table) PushFloat32(col int, v float32) error {
	return t.Push(col, value.Float32(v))
}

// PushFloat64 appends v to column col.
func (t *Table) PushFloat64(col int, v float64) error {
	return t.Push(col, value.Float64(v))
}

// PushBytes appends v to column col. The slice is copied once the value is
// encoded, so it may be reused after PushBytes returns.
func (t *Table) PushBytes(col int, v []byte) error {
	return t.Push(col, value.ByteArray(v))
}

// PushString appends the bytes of v to column col.
func (t *Table) PushString(col int, v string) error {
	return t.Push(col, value.String(v))
}
