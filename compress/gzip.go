package compress

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/gzip"

	"github.com/arloliu/pqlog/format"
)

// GzipCompressor compresses pages as gzip members.
type GzipCompressor struct {
	level      int
	writerPool *sync.Pool
}

var _ Codec = (*GzipCompressor)(nil)

// NewGzipCompressor creates a gzip codec. level ranges from gzip.HuffmanOnly
// (-2) to gzip.BestCompression (9).
func NewGzipCompressor(level int) (*GzipCompressor, error) {
	if level == DefaultLevel {
		level = gzip.DefaultCompression
	}
	if level < gzip.HuffmanOnly || level > gzip.BestCompression {
		return nil, invalidLevel(format.CompressionGzip, level, gzip.HuffmanOnly, gzip.BestCompression)
	}

	return &GzipCompressor{
		level: level,
		writerPool: &sync.Pool{
			New: func() any {
				w, _ := gzip.NewWriterLevel(io.Discard, level)
				return w
			},
		},
	}, nil
}

// Type returns format.CompressionGzip.
func (c *GzipCompressor) Type() format.CompressionType {
	return format.CompressionGzip
}

// Compress compresses data into one gzip member.
func (c *GzipCompressor) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(len(data)/2 + 64)

	w, _ := c.writerPool.Get().(*gzip.Writer)
	defer c.writerPool.Put(w)
	w.Reset(&buf)

	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("gzip compression failed: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("gzip compression failed: %w", err)
	}

	return buf.Bytes(), nil
}

// Decompress decompresses gzip data.
func (c *GzipCompressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("gzip decompression failed: %w", err)
	}
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("gzip decompression failed: %w", err)
	}

	return out, nil
}
