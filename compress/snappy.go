package compress

import (
	"github.com/klauspost/compress/s2"

	"github.com/arloliu/pqlog/format"
)

// SnappyCompressor produces Snappy block format through the s2 package, which
// writes Snappy-compatible output when asked to and decodes both formats.
type SnappyCompressor struct{}

var _ Codec = (*SnappyCompressor)(nil)

// NewSnappyCompressor creates a Snappy codec.
func NewSnappyCompressor() SnappyCompressor {
	return SnappyCompressor{}
}

// Type returns format.CompressionSnappy.
func (c SnappyCompressor) Type() format.CompressionType {
	return format.CompressionSnappy
}

// Compress encodes data as a Snappy block.
func (c SnappyCompressor) Compress(data []byte) ([]byte, error) {
	return s2.EncodeSnappy(nil, data), nil
}

// Decompress decodes a Snappy block.
func (c SnappyCompressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return s2.Decode(nil, data)
}
