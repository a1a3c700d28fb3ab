package compress

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/andybalholm/brotli"

	"github.com/arloliu/pqlog/format"
)

// DefaultBrotliLevel is the quality used when none is given.
const DefaultBrotliLevel = 5

// BrotliCompressor compresses pages with Brotli, the default pqlog codec.
type BrotliCompressor struct {
	level      int
	writerPool *sync.Pool
}

var _ Codec = (*BrotliCompressor)(nil)

// NewBrotliCompressor creates a brotli codec. level is the brotli quality,
// from brotli.BestSpeed (0) to brotli.BestCompression (11).
func NewBrotliCompressor(level int) (*BrotliCompressor, error) {
	if level == DefaultLevel {
		level = DefaultBrotliLevel
	}
	if level < brotli.BestSpeed || level > brotli.BestCompression {
		return nil, invalidLevel(format.CompressionBrotli, level, brotli.BestSpeed, brotli.BestCompression)
	}

	return &BrotliCompressor{
		level: level,
		writerPool: &sync.Pool{
			New: func() any {
				return brotli.NewWriterLevel(io.Discard, level)
			},
		},
	}, nil
}

// Type returns format.CompressionBrotli.
func (c *BrotliCompressor) Type() format.CompressionType {
	return format.CompressionBrotli
}

// Level returns the brotli quality in use.
func (c *BrotliCompressor) Level() int {
	return c.level
}

// Compress compresses data into a brotli stream.
func (c *BrotliCompressor) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(len(data)/2 + 16)

	w, _ := c.writerPool.Get().(*brotli.Writer)
	defer c.writerPool.Put(w)
	w.Reset(&buf)

	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("brotli compression failed: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("brotli compression failed: %w", err)
	}

	return buf.Bytes(), nil
}

// Decompress decompresses a brotli stream.
func (c *BrotliCompressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	out, err := io.ReadAll(brotli.NewReader(bytes.NewReader(data)))
	if err != nil {
		return nil, fmt.Errorf("brotli decompression failed: %w", err)
	}

	return out, nil
}
