package table

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/arloliu/pqlog/column"
	"github.com/arloliu/pqlog/errs"
	"github.com/arloliu/pqlog/format"
	"github.com/arloliu/pqlog/internal/pqtest"
	"github.com/arloliu/pqlog/schema"
	"github.com/arloliu/pqlog/value"
	"github.com/arloliu/pqlog/writer"
)

func threeColumnSchema(t *testing.T) *schema.Schema {
	t.Helper()

	s, err := schema.New("e2e",
		schema.Field{Name: "n", Type: format.TypeInt32},
		schema.Field{Name: "n2", Type: format.TypeInt64},
		schema.Field{Name: "s", Type: format.TypeByteArray},
	)
	require.NoError(t, err)

	return s
}

func newMemoryTable(t *testing.T, opts ...Option) (*Table, *writer.Writer) {
	t.Helper()

	s := threeColumnSchema(t)
	w, err := writer.NewMemory(s)
	require.NoError(t, err)

	opts = append([]Option{WithLogger(pqtest.Logger(t))}, opts...)
	tbl, err := New(s, w, opts...)
	require.NoError(t, err)

	return tbl, w
}

func pushRows(t *testing.T, tbl *Table, start, n int) {
	t.Helper()

	for i := start; i < start+n; i++ {
		require.NoError(t, tbl.PushRow(
			value.Int32(int32(i)),
			value.Int64(int64(i)*2),
			value.String(fmt.Sprintf("integer_%d", i)),
		))
	}
}

func requireRows(t *testing.T, data []byte, start, n int) {
	t.Helper()

	rows := pqtest.Rows(t, data)
	require.Len(t, rows, n)

	for j, row := range rows {
		i := start + j
		require.Equal(t, int32(i), row[0].Int32())
		require.Equal(t, int64(i)*2, row[1].Int64())
		require.Equal(t, fmt.Sprintf("integer_%d", i), string(row[2].ByteArray()))
	}
}

func TestEndToEnd(t *testing.T) {
	tbl, w := newMemoryTable(t)

	pushRows(t, tbl, 0, 1000)
	require.Positive(t, tbl.Size())

	rows, err := tbl.Flush()
	require.NoError(t, err)
	require.Equal(t, 1000, rows)

	count, err := tbl.Validate()
	require.NoError(t, err)
	require.Zero(t, count)
	require.Zero(t, tbl.Size())
	require.Equal(t, 1, tbl.RowGroups())
	require.Equal(t, int64(1000), tbl.FlushedRows())

	size, err := tbl.End()
	require.NoError(t, err)
	require.Positive(t, size)
	require.Equal(t, int64(len(w.Bytes())), size)

	f := pqtest.Open(t, w.Bytes())
	require.Equal(t, int64(1000), f.NumRows())
	requireRows(t, w.Bytes(), 0, 1000)
}

func TestValidate_RowCountParity(t *testing.T) {
	tbl, w := newMemoryTable(t)

	for i := range 5 {
		require.NoError(t, tbl.Push(0, value.Int32(int32(i))))
		require.NoError(t, tbl.Push(1, value.Int64(int64(i))))
		require.NoError(t, tbl.Push(2, value.String("x")))
	}

	rows, err := tbl.Validate()
	require.NoError(t, err)
	require.Equal(t, 5, rows)

	tbl2, w2 := newMemoryTable(t)
	for i := range 5 {
		require.NoError(t, tbl2.Push(0, value.Int32(int32(i))))
		require.NoError(t, tbl2.Push(2, value.String("x")))
		if i < 4 {
			require.NoError(t, tbl2.Push(1, value.Int64(int64(i))))
		}
	}

	_, err = tbl2.Validate()
	require.ErrorIs(t, err, errs.ErrRowCountMismatch)
	require.ErrorContains(t, err, "[5 4 5]")

	sizeBefore := tbl2.Size()
	_, err = tbl2.Flush()
	require.ErrorIs(t, err, errs.ErrRowCountMismatch)
	require.Equal(t, sizeBefore, tbl2.Size(), "a failed validation must not drain")
	require.Zero(t, w2.Offset())

	// Completing the short column makes the table flushable again.
	require.NoError(t, tbl2.Push(1, value.Int64(4)))
	rows, err = tbl2.Flush()
	require.NoError(t, err)
	require.Equal(t, 5, rows)

	require.Zero(t, w.Offset())
}

func TestValidate_NoColumns(t *testing.T) {
	s, err := schema.New("empty")
	require.NoError(t, err)

	w, err := writer.NewMemory(s)
	require.NoError(t, err)

	tbl, err := New(s, w)
	require.NoError(t, err)
	require.Zero(t, tbl.NumColumns())

	_, err = tbl.Validate()
	require.ErrorIs(t, err, errs.ErrNoColumns)

	_, err = tbl.Flush()
	require.ErrorIs(t, err, errs.ErrNoColumns)
}

func TestPush_IndexOutOfRange(t *testing.T) {
	tbl, _ := newMemoryTable(t)

	err := tbl.Push(3, value.Int32(1))
	require.ErrorIs(t, err, errs.ErrIndexOutOfRange)

	err = tbl.Push(-1, value.Int32(1))
	require.ErrorIs(t, err, errs.ErrIndexOutOfRange)

	// An over-long row fails on the extra value.
	err = tbl.PushRow(value.Int32(1), value.Int64(2), value.String("3"), value.Int32(4))
	require.ErrorIs(t, err, errs.ErrIndexOutOfRange)
}

func TestPush_TypeMismatch(t *testing.T) {
	tbl, _ := newMemoryTable(t)

	err := tbl.Push(0, value.String("not an int"))
	require.ErrorIs(t, err, errs.ErrTypeMismatch)
	require.Zero(t, tbl.Size())

	rows, err := tbl.Validate()
	require.NoError(t, err)
	require.Zero(t, rows)
}

func TestFlush_Empty(t *testing.T) {
	tbl, w := newMemoryTable(t)

	rows, err := tbl.Flush()
	require.NoError(t, err)
	require.Zero(t, rows)
	require.Zero(t, tbl.RowGroups())
	require.Zero(t, w.Offset())
}

func TestInterleavedPushes(t *testing.T) {
	tbl, w := newMemoryTable(t)

	require.NoError(t, tbl.PushColumn(0, value.Int32(0), value.Int32(1), value.Int32(2)))
	require.NoError(t, tbl.PushColumn(1, value.Int64(0), value.Int64(2)))
	require.NoError(t, tbl.PushColumn(2, value.String("integer_0"), value.String("integer_1"), value.String("integer_2")))
	require.NoError(t, tbl.Push(1, value.Int64(4)))
	pushRows(t, tbl, 3, 2)

	rows, err := tbl.Flush()
	require.NoError(t, err)
	require.Equal(t, 5, rows)

	_, err = tbl.End()
	require.NoError(t, err)

	requireRows(t, w.Bytes(), 0, 5)
}

func TestMultipleRowGroups(t *testing.T) {
	tbl, w := newMemoryTable(t, WithPageSize(64))

	for batch := range 4 {
		pushRows(t, tbl, batch*100, 100)
		rows, err := tbl.Flush()
		require.NoError(t, err)
		require.Equal(t, 100, rows)
	}

	_, err := tbl.End()
	require.NoError(t, err)

	f := pqtest.Open(t, w.Bytes())
	require.Len(t, f.RowGroups(), 4)
	requireRows(t, w.Bytes(), 0, 400)
}

func TestAutoFlush(t *testing.T) {
	tbl, w := newMemoryTable(t, WithRowGroupSize(4096))

	pushRows(t, tbl, 0, 1000)
	require.Greater(t, tbl.RowGroups(), 1)
	// At most one complete row past the threshold waits for the next push.
	require.Less(t, tbl.Size(), 4096+64)

	_, err := tbl.End()
	require.NoError(t, err)

	f := pqtest.Open(t, w.Bytes())
	require.Equal(t, tbl.RowGroups(), len(f.RowGroups()))
	requireRows(t, w.Bytes(), 0, 1000)
}

func TestAutoFlush_WaitsForCompleteRows(t *testing.T) {
	tbl, _ := newMemoryTable(t, WithRowGroupSize(16))

	// A single column passing the threshold does not trigger a flush.
	require.NoError(t, tbl.PushColumn(2, value.String("long enough to pass"), value.String("the threshold")))
	require.Zero(t, tbl.RowGroups())

	require.NoError(t, tbl.PushColumn(0, value.Int32(1), value.Int32(2)))
	require.Zero(t, tbl.RowGroups())

	require.NoError(t, tbl.PushColumn(1, value.Int64(1), value.Int64(2)))
	require.Zero(t, tbl.RowGroups())

	// The rows are complete now; the next push writes them first.
	require.NoError(t, tbl.Push(0, value.Int32(3)))
	require.Equal(t, 1, tbl.RowGroups())
	require.Equal(t, int64(2), tbl.FlushedRows())
	require.Equal(t, 4, tbl.Size())
}

func TestAutoFlush_TypeMismatchDoesNotFlush(t *testing.T) {
	tbl, _ := newMemoryTable(t, WithRowGroupSize(10))

	pushRows(t, tbl, 0, 1)
	size := tbl.Size()

	err := tbl.Push(0, value.Int64(1))
	require.ErrorIs(t, err, errs.ErrTypeMismatch)
	require.Zero(t, tbl.RowGroups())
	require.Equal(t, size, tbl.Size())
}

func TestAutoFlush_WriteFailureDoesNotBufferValue(t *testing.T) {
	s := threeColumnSchema(t)
	w, err := writer.NewMemory(s)
	require.NoError(t, err)

	tbl, err := New(s, &failingSink{Sink: w, fail: 1}, WithRowGroupSize(10))
	require.NoError(t, err)

	pushRows(t, tbl, 0, 1)

	// The pending row group is rejected before the value is buffered.
	err = tbl.Push(0, value.Int32(1))
	require.ErrorIs(t, err, errSink)
	count, err := tbl.Validate()
	require.NoError(t, err)
	require.Zero(t, count)
	require.Zero(t, tbl.Size())
	require.Zero(t, tbl.RowGroups())

	pushRows(t, tbl, 1, 3)
	_, err = tbl.End()
	require.NoError(t, err)

	requireRows(t, w.Bytes(), 1, 3)
}

func TestKeyValueMetadataAndStatistics(t *testing.T) {
	tbl, w := newMemoryTable(t,
		WithKeyValueMetadata(map[string]string{"host": "a"}),
		WithKeyValueMetadata(map[string]string{"version": "1"}),
		WithStatistics(false),
	)

	pushRows(t, tbl, 0, 10)
	_, err := tbl.End()
	require.NoError(t, err)

	f := pqtest.Open(t, w.Bytes())
	host, ok := f.Lookup("host")
	require.True(t, ok)
	require.Equal(t, "a", host)
	version, ok := f.Lookup("version")
	require.True(t, ok)
	require.Equal(t, "1", version)

	for _, cc := range f.Metadata().RowGroups[0].Columns {
		require.Nil(t, cc.MetaData.Statistics.MinValue)
	}
}

func TestCompressionOptions(t *testing.T) {
	for _, ct := range []format.CompressionType{
		format.CompressionNone,
		format.CompressionSnappy,
		format.CompressionGzip,
		format.CompressionZstd,
		format.CompressionLZ4,
	} {
		t.Run(ct.String(), func(t *testing.T) {
			tbl, w := newMemoryTable(t, WithCompression(ct))
			pushRows(t, tbl, 0, 200)

			_, err := tbl.End()
			require.NoError(t, err)

			md := pqtest.Open(t, w.Bytes()).Metadata()
			require.Equal(t, ct.Parquet(), md.RowGroups[0].Columns[0].MetaData.Codec)
			requireRows(t, w.Bytes(), 0, 200)
		})
	}
}

func TestInvalidOptions(t *testing.T) {
	s := threeColumnSchema(t)
	w, err := writer.NewMemory(s)
	require.NoError(t, err)

	tests := []struct {
		name string
		opts []Option
		err  error
	}{
		{"zero page size", []Option{WithPageSize(0)}, errs.ErrInvalidPageSize},
		{"negative page size", []Option{WithPageSize(-1)}, errs.ErrInvalidPageSize},
		{"negative row group size", []Option{WithRowGroupSize(-1)}, errs.ErrInvalidRowGroupSize},
		{"unknown compression", []Option{WithCompression(format.CompressionType(99))}, errs.ErrInvalidCompression},
		{
			"bad level",
			[]Option{WithCompression(format.CompressionGzip), WithCompressionLevel(20)},
			errs.ErrInvalidCompression,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(s, w, tt.opts...)
			require.ErrorIs(t, err, tt.err)
		})
	}
}

func TestEnd_Terminal(t *testing.T) {
	tbl, _ := newMemoryTable(t)
	pushRows(t, tbl, 0, 3)

	_, err := tbl.End()
	require.NoError(t, err)

	require.ErrorIs(t, tbl.Push(0, value.Int32(1)), errs.ErrTableEnded)

	_, err = tbl.Flush()
	require.ErrorIs(t, err, errs.ErrTableEnded)

	_, err = tbl.End()
	require.ErrorIs(t, err, errs.ErrTableEnded)
}

// failingSink fails the next fail calls to Write and forwards the rest.
type failingSink struct {
	writer.Sink
	fail int
}

var errSink = errors.New("sink unavailable")

func (s *failingSink) Write(rowGroup []*column.Chunk) error {
	if s.fail > 0 {
		s.fail--
		return errSink
	}

	return s.Sink.Write(rowGroup)
}

func TestFlush_WriteFailureLosesRowGroup(t *testing.T) {
	s := threeColumnSchema(t)
	w, err := writer.NewMemory(s)
	require.NoError(t, err)

	sink := &failingSink{Sink: w, fail: 1}
	tbl, err := New(s, sink)
	require.NoError(t, err)

	pushRows(t, tbl, 0, 50)

	rows, err := tbl.Flush()
	require.ErrorIs(t, err, errSink)
	require.Zero(t, rows)

	// The drained rows are gone; the table is empty and still usable.
	count, err := tbl.Validate()
	require.NoError(t, err)
	require.Zero(t, count)
	require.Zero(t, tbl.Size())
	require.Zero(t, tbl.RowGroups())

	pushRows(t, tbl, 50, 10)
	_, err = tbl.End()
	require.NoError(t, err)

	requireRows(t, w.Bytes(), 50, 10)
}

func TestEnd_FailedFlushKeepsTableOpen(t *testing.T) {
	s := threeColumnSchema(t)
	w, err := writer.NewMemory(s)
	require.NoError(t, err)

	tbl, err := New(s, &failingSink{Sink: w, fail: 1})
	require.NoError(t, err)

	pushRows(t, tbl, 0, 5)

	_, err = tbl.End()
	require.ErrorIs(t, err, errSink)

	size, err := tbl.End()
	require.NoError(t, err)
	require.Positive(t, size)
	require.Zero(t, pqtest.Open(t, w.Bytes()).NumRows())
}

func TestLogging(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)

	s := threeColumnSchema(t)
	w, err := writer.NewMemory(s)
	require.NoError(t, err)

	tbl, err := New(s, &failingSink{Sink: w, fail: 1}, WithLogger(zap.New(core)))
	require.NoError(t, err)
	require.Equal(t, 1, logs.FilterMessage("table created").Len())

	pushRows(t, tbl, 0, 7)
	_, err = tbl.Flush()
	require.Error(t, err)

	warnings := logs.FilterLevelExact(zapcore.WarnLevel).All()
	require.Len(t, warnings, 1)
	require.Equal(t, "row group write failed, rows dropped", warnings[0].Message)
	require.Equal(t, int64(7), warnings[0].ContextMap()["rows"])
	require.Equal(t, "e2e", warnings[0].ContextMap()["table"])

	pushRows(t, tbl, 0, 3)
	_, err = tbl.Flush()
	require.NoError(t, err)

	flushed := logs.FilterMessage("row group flushed").All()
	require.Len(t, flushed, 1)
	require.Equal(t, zapcore.DebugLevel, flushed[0].Level)
	require.Equal(t, int64(3), flushed[0].ContextMap()["rows"])
	require.Equal(t, int64(0), flushed[0].ContextMap()["row_group"])

	size, err := tbl.End()
	require.NoError(t, err)

	ended := logs.FilterMessage("table ended").All()
	require.Len(t, ended, 1)
	require.Equal(t, zapcore.InfoLevel, ended[0].Level)
	require.Equal(t, size, ended[0].ContextMap()["bytes"])
	require.Equal(t, int64(3), ended[0].ContextMap()["rows"])
}
