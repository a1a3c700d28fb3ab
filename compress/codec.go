package compress

import (
	"fmt"

	"github.com/arloliu/pqlog/errs"
	"github.com/arloliu/pqlog/format"
)

// DefaultLevel selects the codec's default compression level.
const DefaultLevel = -1

// Compressor compresses a page body.
type Compressor interface {
	// Compress returns the compressed form of data.
	//
	// The result may alias data for codecs that do not transform their input,
	// so data must outlive the returned slice.
	Compress(data []byte) ([]byte, error)
}

// Decompressor reverses a Compressor.
type Decompressor interface {
	Decompress(data []byte) ([]byte, error)
}

// Codec is a compression algorithm usable for Parquet pages.
//
// Codecs are safe for concurrent use.
type Codec interface {
	Compressor
	Decompressor

	// Type returns the compression type written to column metadata.
	Type() format.CompressionType
}

// NewCodec returns the codec for compressionType at the given level.
//
// Pass DefaultLevel for the codec's default. Levels are only meaningful for
// gzip (-2 to 9), brotli (0 to 11) and zstd (1 to 22); other codecs ignore
// them.
//
// Returns errs.ErrInvalidCompression for an unknown type or a level outside
// the codec's range.
func NewCodec(compressionType format.CompressionType, level int) (Codec, error) {
	switch compressionType {
	case format.CompressionNone:
		return NewNoOpCompressor(), nil
	case format.CompressionSnappy:
		return NewSnappyCompressor(), nil
	case format.CompressionLZ4:
		return NewLZ4Compressor(), nil
	case format.CompressionGzip:
		return NewGzipCompressor(level)
	case format.CompressionBrotli:
		return NewBrotliCompressor(level)
	case format.CompressionZstd:
		return NewZstdCompressor(level)
	default:
		return nil, fmt.Errorf("%w: unknown compression type %s", errs.ErrInvalidCompression, compressionType)
	}
}

func invalidLevel(compressionType format.CompressionType, level, lo, hi int) error {
	return fmt.Errorf("%w: %s level %d outside [%d, %d]", errs.ErrInvalidCompression, compressionType, level, lo, hi)
}
