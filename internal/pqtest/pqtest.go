// Package pqtest reads files produced by pqlog back in tests.
package pqtest

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

// Logger returns a logger writing to the test output.
func Logger(t *testing.T) *zap.Logger {
	t.Helper()

	return zaptest.NewLogger(t)
}

// Open parses data with parquet-go, failing the test if it is not a valid
// Parquet file.
func Open(t *testing.T, data []byte) *parquet.File {
	t.Helper()

	f, err := parquet.OpenFile(bytes.NewReader(data), int64(len(data)),
		parquet.SkipPageIndex(true),
		parquet.SkipBloomFilters(true),
	)
	require.NoError(t, err)

	return f
}

// RowGroupRows returns every row of rg.
func RowGroupRows(t *testing.T, rg parquet.RowGroup) []parquet.Row {
	t.Helper()

	rows := rg.Rows()
	defer rows.Close()

	var out []parquet.Row
	buf := make([]parquet.Row, 64)
	for {
		n, err := rows.ReadRows(buf)
		for _, row := range buf[:n] {
			out = append(out, row.Clone())
		}
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
	}

	return out
}

// Rows returns every row of the file in data, across all row groups.
func Rows(t *testing.T, data []byte) []parquet.Row {
	t.Helper()

	f := Open(t, data)

	var out []parquet.Row
	for _, rg := range f.RowGroups() {
		out = append(out, RowGroupRows(t, rg)...)
	}
	require.Len(t, out, int(f.NumRows()))

	for _, row := range out {
		for _, v := range row {
			require.False(t, v.IsNull(), "column %d holds a null", v.Column())
		}
	}

	return out
}
