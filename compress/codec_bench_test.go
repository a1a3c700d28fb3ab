package compress

import (
	"fmt"
	"testing"

	"github.com/arloliu/pqlog/format"
)

// generatePageData builds a PLAIN encoded int64 page body of size bytes.
func generatePageData(size int) []byte {
	data := make([]byte, size)
	for i := 0; i+8 <= size; i += 8 {
		v := uint64(i/8) * 2
		for j := range 8 {
			data[i+j] = byte(v >> (8 * j))
		}
	}

	return data
}

func BenchmarkAllCodecs_Compress(b *testing.B) {
	sizes := []int{1024, 8192, 65536}

	for _, ct := range []format.CompressionType{
		format.CompressionNone,
		format.CompressionSnappy,
		format.CompressionGzip,
		format.CompressionBrotli,
		format.CompressionZstd,
		format.CompressionLZ4,
	} {
		codec, err := NewCodec(ct, DefaultLevel)
		if err != nil {
			b.Fatal(err)
		}

		b.Run(ct.String(), func(b *testing.B) {
			for _, size := range sizes {
				data := generatePageData(size)
				b.Run(fmt.Sprintf("%dKB", size/1024), func(b *testing.B) {
					b.ReportAllocs()
					b.SetBytes(int64(len(data)))

					for b.Loop() {
						if _, err := codec.Compress(data); err != nil {
							b.Fatal(err)
						}
					}
				})
			}
		})
	}
}
