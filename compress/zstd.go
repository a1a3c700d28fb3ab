package compress

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"

	"github.com/arloliu/pqlog/format"
)

// zstdDecoderPool is shared by every ZstdCompressor; decoding does not depend
// on the level.
var zstdDecoderPool = sync.Pool{
	New: func() any {
		decoder, err := zstd.NewReader(nil,
			zstd.WithDecoderConcurrency(1),
			zstd.WithDecoderLowmem(false),
		)
		if err != nil {
			panic(fmt.Sprintf("failed to create zstd decoder for pool: %v", err))
		}

		return decoder
	},
}

// ZstdCompressor compresses pages with Zstandard.
type ZstdCompressor struct {
	level       zstd.EncoderLevel
	encoderPool *sync.Pool
}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a zstd codec. level follows the zstd command line
// scale (1 to 22) and is mapped to the nearest klauspost encoder level.
func NewZstdCompressor(level int) (*ZstdCompressor, error) {
	encLevel := zstd.SpeedDefault
	if level != DefaultLevel {
		if level < 1 || level > 22 {
			return nil, invalidLevel(format.CompressionZstd, level, 1, 22)
		}
		encLevel = zstd.EncoderLevelFromZstd(level)
	}

	c := &ZstdCompressor{level: encLevel}
	c.encoderPool = &sync.Pool{
		New: func() any {
			encoder, err := zstd.NewWriter(nil,
				zstd.WithEncoderLevel(encLevel),
				zstd.WithEncoderConcurrency(1),
				zstd.WithEncoderCRC(false),
			)
			if err != nil {
				panic(fmt.Sprintf("failed to create zstd encoder for pool: %v", err))
			}

			return encoder
		},
	}

	return c, nil
}

// Type returns format.CompressionZstd.
func (c *ZstdCompressor) Type() format.CompressionType {
	return format.CompressionZstd
}

// Level returns the encoder level in use.
func (c *ZstdCompressor) Level() zstd.EncoderLevel {
	return c.level
}

// Compress compresses data into a single zstd frame.
func (c *ZstdCompressor) Compress(data []byte) ([]byte, error) {
	encoder, _ := c.encoderPool.Get().(*zstd.Encoder)
	defer c.encoderPool.Put(encoder)

	return encoder.EncodeAll(data, nil), nil
}

// Decompress decompresses zstd frames.
func (c *ZstdCompressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	decoder, _ := zstdDecoderPool.Get().(*zstd.Decoder)
	defer zstdDecoderPool.Put(decoder)

	decompressed, err := decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("zstd decompression failed: %w", err)
	}

	return decompressed, nil
}
