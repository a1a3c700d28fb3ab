// Package writer assembles Parquet files from drained column chunks.
//
// A Writer is the sink a table hands its row groups to. It writes the file
// magic, then for every row group each column's pages as a thrift encoded
// page header followed by the compressed body, and finally the footer:
//
//	PAR1 | row group 0 | row group 1 | ... | FileMetaData | footer length | PAR1
//
// Only row groups that were written completely are referenced from the
// footer. A row group whose write failed leaves unreferenced bytes in the
// file, which readers never visit.
package writer

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"

	"github.com/parquet-go/parquet-go/encoding/thrift"
	pqformat "github.com/parquet-go/parquet-go/format"

	"github.com/arloliu/pqlog/column"
	"github.com/arloliu/pqlog/endian"
	"github.com/arloliu/pqlog/errs"
	"github.com/arloliu/pqlog/internal/options"
	"github.com/arloliu/pqlog/schema"
)

const magic = "PAR1"

// Sink receives row groups and finalizes the file.
type Sink interface {
	// Write writes one row group: one chunk per schema column, in schema
	// order, all holding the same number of values.
	Write(rowGroup []*column.Chunk) error
	// End writes the footer with the given key/value metadata and returns
	// the total number of bytes written.
	End(kv map[string]string) (int64, error)
}

var _ Sink = (*Writer)(nil)

// Writer writes a Parquet file to an io.Writer.
type Writer struct {
	schema    *schema.Schema
	out       offsetWriter
	buffered  *bufio.Writer
	closer    io.Closer
	memory    *bytes.Buffer
	createdBy string

	started   bool
	ended     bool
	rowGroups []pqformat.RowGroup
	numRows   int64
	protocol  thrift.CompactProtocol
}

func newWriter(s *schema.Schema, w io.Writer, opts ...Option) (*Writer, error) {
	wr := &Writer{
		schema:    s,
		createdBy: DefaultCreatedBy,
	}
	wr.out.writer = w

	if err := options.Apply(wr, opts...); err != nil {
		return nil, err
	}

	return wr, nil
}

// New returns a Writer that writes to w. If w is an io.Closer it is closed
// by End.
func New(s *schema.Schema, w io.Writer, opts ...Option) (*Writer, error) {
	wr, err := newWriter(s, w, opts...)
	if err != nil {
		return nil, err
	}
	if c, ok := w.(io.Closer); ok {
		wr.closer = c
	}

	return wr, nil
}

// NewMemory returns a Writer that keeps the file in memory. Use Bytes to
// retrieve it.
func NewMemory(s *schema.Schema, opts ...Option) (*Writer, error) {
	buf := new(bytes.Buffer)

	wr, err := newWriter(s, buf, opts...)
	if err != nil {
		return nil, err
	}
	wr.memory = buf

	return wr, nil
}

// NewFile returns a Writer that writes to f through a buffer and closes f
// in End.
func NewFile(s *schema.Schema, f *os.File, opts ...Option) (*Writer, error) {
	buffered := bufio.NewWriter(f)

	wr, err := newWriter(s, buffered, opts...)
	if err != nil {
		return nil, err
	}
	wr.buffered = buffered
	wr.closer = f

	return wr, nil
}

// Create creates or truncates the file at path and returns a Writer for it.
func Create(s *schema.Schema, path string, opts ...Option) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}

	wr, err := NewFile(s, f, opts...)
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	return wr, nil
}

// Schema returns the schema of the file.
func (w *Writer) Schema() *schema.Schema {
	return w.schema
}

// Bytes returns the file written so far by a memory Writer, or nil for
// other writers.
func (w *Writer) Bytes() []byte {
	if w.memory == nil {
		return nil
	}

	return w.memory.Bytes()
}

// Offset returns the number of bytes written so far.
func (w *Writer) Offset() int64 {
	return w.out.offset
}

// NumRowGroups returns the number of row groups recorded for the footer.
func (w *Writer) NumRowGroups() int {
	return len(w.rowGroups)
}

// NumRows returns the number of rows recorded for the footer.
func (w *Writer) NumRows() int64 {
	return w.numRows
}

func (w *Writer) writeMagic() error {
	if w.started {
		return nil
	}
	if _, err := w.out.WriteString(magic); err != nil {
		return fmt.Errorf("write file header: %w", err)
	}
	w.started = true

	return nil
}

func (w *Writer) flush() error {
	if w.buffered == nil {
		return nil
	}

	return w.buffered.Flush()
}

// Write writes rowGroup and records it for the footer.
//
// Returns errs.ErrColumnCountMismatch when the chunks do not line up with
// the schema columns, errs.ErrRowCountMismatch when they hold different
// numbers of values and errs.ErrWriterClosed after End. An empty row group
// is ignored. The chunks are not released.
func (w *Writer) Write(rowGroup []*column.Chunk) error {
	if w.ended {
		return errs.ErrWriterClosed
	}

	numRows, err := w.validate(rowGroup)
	if err != nil {
		return err
	}
	if numRows == 0 {
		return nil
	}

	if err := w.writeMagic(); err != nil {
		return err
	}

	fileOffset := w.out.offset
	columns := make([]pqformat.ColumnChunk, len(rowGroup))
	totalByteSize := int64(0)
	totalCompressedSize := int64(0)

	for i, chunk := range rowGroup {
		cc, err := w.writeChunk(chunk)
		if err != nil {
			return fmt.Errorf("row group %d column %q: %w", len(w.rowGroups), chunk.Column().Name, err)
		}
		columns[i] = cc
		totalByteSize += cc.MetaData.TotalUncompressedSize
		totalCompressedSize += cc.MetaData.TotalCompressedSize
	}

	if err := w.flush(); err != nil {
		return fmt.Errorf("row group %d: %w", len(w.rowGroups), err)
	}

	w.rowGroups = append(w.rowGroups, pqformat.RowGroup{
		Columns:             columns,
		TotalByteSize:       totalByteSize,
		NumRows:             numRows,
		FileOffset:          fileOffset,
		TotalCompressedSize: totalCompressedSize,
		Ordinal:             int16(len(w.rowGroups)), //nolint:gosec
	})
	w.numRows += numRows

	return nil
}

func (w *Writer) validate(rowGroup []*column.Chunk) (int64, error) {
	cols := w.schema.Columns()
	if len(rowGroup) != len(cols) {
		return 0, fmt.Errorf("%w: got %d chunks for %d columns", errs.ErrColumnCountMismatch, len(rowGroup), len(cols))
	}
	if len(rowGroup) == 0 {
		return 0, nil
	}

	for i, chunk := range rowGroup {
		if got := chunk.Column(); got.Name != cols[i].Name || got.Type != cols[i].Type {
			return 0, fmt.Errorf("%w: chunk %d belongs to column %q, want %q", errs.ErrColumnCountMismatch, i, got.Name, cols[i].Name)
		}
	}

	numRows := rowGroup[0].NumValues()
	for _, chunk := range rowGroup[1:] {
		if chunk.NumValues() != numRows {
			counts := make([]int, len(rowGroup))
			for i, c := range rowGroup {
				counts[i] = c.NumValues()
			}

			return 0, fmt.Errorf("%w: chunk value counts %v", errs.ErrRowCountMismatch, counts)
		}
	}

	return int64(numRows), nil
}

func (w *Writer) writeChunk(chunk *column.Chunk) (pqformat.ColumnChunk, error) {
	col := chunk.Column()
	md := pqformat.ColumnMetaData{
		Type:           col.Type.Parquet(),
		Encoding:       []pqformat.Encoding{pqformat.Plain, pqformat.RLE},
		PathInSchema:   col.Path(),
		Codec:          chunk.Codec().Type().Parquet(),
		NumValues:      int64(chunk.NumValues()),
		DataPageOffset: w.out.offset,
	}

	numPages := int32(0)
	for cp, err := range chunk.Pages() {
		if err != nil {
			return pqformat.ColumnChunk{}, err
		}

		dph := cp.Header.Thrift(chunk.HasStatistics())
		header, err := thrift.Marshal(&w.protocol, &pqformat.PageHeader{
			Type:                 pqformat.DataPage,
			UncompressedPageSize: int32(cp.UncompressedSize), //nolint:gosec
			CompressedPageSize:   int32(len(cp.Data)),        //nolint:gosec
			CRC:                  int32(cp.CRC),              //nolint:gosec
			DataPageHeader:       &dph,
		})
		if err != nil {
			return pqformat.ColumnChunk{}, fmt.Errorf("encode page header: %w", err)
		}

		if _, err := w.out.Write(header); err != nil {
			return pqformat.ColumnChunk{}, fmt.Errorf("write page header: %w", err)
		}
		if _, err := w.out.Write(cp.Data); err != nil {
			return pqformat.ColumnChunk{}, fmt.Errorf("write page: %w", err)
		}

		md.TotalUncompressedSize += int64(len(header) + cp.UncompressedSize)
		md.TotalCompressedSize += int64(len(header) + len(cp.Data))
		numPages++
	}

	md.EncodingStats = []pqformat.PageEncodingStats{{
		PageType: pqformat.DataPage,
		Encoding: pqformat.Plain,
		Count:    numPages,
	}}
	if chunk.HasStatistics() {
		md.Statistics = chunk.Statistics().Thrift()
	}

	return pqformat.ColumnChunk{
		FileOffset: md.DataPageOffset,
		MetaData:   md,
	}, nil
}

// End writes the footer and returns the size of the file. Keys of kv are
// written in sorted order. The underlying file, if any, is closed.
//
// End is terminal: the Writer rejects every later call with
// errs.ErrWriterClosed, including when End itself failed.
func (w *Writer) End(kv map[string]string) (int64, error) {
	if w.ended {
		return 0, errs.ErrWriterClosed
	}
	w.ended = true

	err := w.writeFooter(kv)
	if err == nil {
		err = w.flush()
	}

	if w.closer != nil {
		if cerr := w.closer.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close: %w", cerr)
		}
	}
	if err != nil {
		return 0, err
	}

	return w.out.offset, nil
}

func (w *Writer) writeFooter(kv map[string]string) error {
	if err := w.writeMagic(); err != nil {
		return err
	}

	metadata := make([]pqformat.KeyValue, 0, len(kv))
	for _, k := range slices.Sorted(maps.Keys(kv)) {
		metadata = append(metadata, pqformat.KeyValue{Key: k, Value: kv[k]})
	}

	columnOrders := make([]pqformat.ColumnOrder, w.schema.NumColumns())
	for i := range columnOrders {
		columnOrders[i] = pqformat.ColumnOrder{TypeOrder: new(pqformat.TypeDefinedOrder)}
	}

	footer, err := thrift.Marshal(&w.protocol, &pqformat.FileMetaData{
		Version:          1,
		Schema:           w.schema.Thrift(),
		NumRows:          w.numRows,
		RowGroups:        w.rowGroups,
		KeyValueMetadata: metadata,
		CreatedBy:        w.createdBy,
		ColumnOrders:     columnOrders,
	})
	if err != nil {
		return fmt.Errorf("encode footer: %w", err)
	}

	length := len(footer)
	footer = endian.GetLittleEndianEngine().AppendUint32(footer, uint32(length)) //nolint:gosec
	footer = append(footer, magic...)

	if _, err := w.out.Write(footer); err != nil {
		return fmt.Errorf("write footer: %w", err)
	}

	return nil
}
