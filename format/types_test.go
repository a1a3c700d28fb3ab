package format

import (
	"testing"

	pqformat "github.com/parquet-go/parquet-go/format"
	"github.com/stretchr/testify/require"
)

func TestPhysicalType(t *testing.T) {
	tests := []struct {
		typ       PhysicalType
		supported bool
		size      int
		parquet   pqformat.Type
		name      string
	}{
		{TypeInt32, true, 4, pqformat.Int32, "Int32"},
		{TypeInt64, true, 8, pqformat.Int64, "Int64"},
		{TypeFloat32, true, 4, pqformat.Float, "Float32"},
		{TypeFloat64, true, 8, pqformat.Double, "Float64"},
		{TypeByteArray, true, 0, pqformat.ByteArray, "ByteArray"},
		{TypeInvalid, false, 0, pqformat.ByteArray, "Unknown"},
		{PhysicalType(0x42), false, 0, pqformat.ByteArray, "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.supported, tt.typ.IsSupported())
			require.Equal(t, tt.size, tt.typ.FixedSize())
			require.Equal(t, tt.name, tt.typ.String())
			if tt.supported {
				require.Equal(t, tt.parquet, tt.typ.Parquet())
			}
		})
	}
}

func TestCompressionType(t *testing.T) {
	require.Equal(t, pqformat.Uncompressed, CompressionNone.Parquet())
	require.Equal(t, pqformat.Snappy, CompressionSnappy.Parquet())
	require.Equal(t, pqformat.Gzip, CompressionGzip.Parquet())
	require.Equal(t, pqformat.Brotli, CompressionBrotli.Parquet())
	require.Equal(t, pqformat.Zstd, CompressionZstd.Parquet())
	require.Equal(t, pqformat.Lz4Raw, CompressionLZ4.Parquet())

	require.Equal(t, "Brotli", CompressionBrotli.String())
	require.Equal(t, "Unknown", CompressionType(0).String())
}
