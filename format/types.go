package format

import (
	pqformat "github.com/parquet-go/parquet-go/format"
)

type (
	// PhysicalType is the on-disk representation of a column's values.
	PhysicalType uint8
	// CompressionType selects the codec applied to every page of a file.
	CompressionType uint8
)

const (
	TypeInvalid   PhysicalType = 0x0 // TypeInvalid is the zero PhysicalType and never accepted.
	TypeInt32     PhysicalType = 0x1 // TypeInt32 represents 32-bit signed integers.
	TypeInt64     PhysicalType = 0x2 // TypeInt64 represents 64-bit signed integers.
	TypeFloat32   PhysicalType = 0x3 // TypeFloat32 represents IEEE 754 single precision floats.
	TypeFloat64   PhysicalType = 0x4 // TypeFloat64 represents IEEE 754 double precision floats.
	TypeByteArray PhysicalType = 0x5 // TypeByteArray represents variable-length byte strings.

	CompressionNone   CompressionType = 0x1 // CompressionNone stores pages uncompressed.
	CompressionSnappy CompressionType = 0x2 // CompressionSnappy represents Snappy block compression.
	CompressionGzip   CompressionType = 0x3 // CompressionGzip represents gzip compression.
	CompressionBrotli CompressionType = 0x4 // CompressionBrotli represents Brotli compression.
	CompressionZstd   CompressionType = 0x5 // CompressionZstd represents Zstandard compression.
	CompressionLZ4    CompressionType = 0x6 // CompressionLZ4 represents raw LZ4 block compression.
)

// IsSupported reports whether t is one of the five supported physical types.
func (t PhysicalType) IsSupported() bool {
	return t >= TypeInt32 && t <= TypeByteArray
}

// FixedSize returns the width in bytes of a fixed-width type, or 0 for
// TypeByteArray and unsupported types.
func (t PhysicalType) FixedSize() int {
	switch t {
	case TypeInt32, TypeFloat32:
		return 4
	case TypeInt64, TypeFloat64:
		return 8
	default:
		return 0
	}
}

// Parquet returns the thrift type used in file metadata for t.
func (t PhysicalType) Parquet() pqformat.Type {
	switch t {
	case TypeInt32:
		return pqformat.Int32
	case TypeInt64:
		return pqformat.Int64
	case TypeFloat32:
		return pqformat.Float
	case TypeFloat64:
		return pqformat.Double
	default:
		return pqformat.ByteArray
	}
}

func (t PhysicalType) String() string {
	switch t {
	case TypeInt32:
		return "Int32"
	case TypeInt64:
		return "Int64"
	case TypeFloat32:
		return "Float32"
	case TypeFloat64:
		return "Float64"
	case TypeByteArray:
		return "ByteArray"
	default:
		return "Unknown"
	}
}

// Parquet returns the thrift compression codec recorded in column metadata.
func (c CompressionType) Parquet() pqformat.CompressionCodec {
	switch c {
	case CompressionSnappy:
		return pqformat.Snappy
	case CompressionGzip:
		return pqformat.Gzip
	case CompressionBrotli:
		return pqformat.Brotli
	case CompressionZstd:
		return pqformat.Zstd
	case CompressionLZ4:
		return pqformat.Lz4Raw
	default:
		return pqformat.Uncompressed
	}
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionSnappy:
		return "Snappy"
	case CompressionGzip:
		return "Gzip"
	case CompressionBrotli:
		return "Brotli"
	case CompressionZstd:
		return "Zstd"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}
