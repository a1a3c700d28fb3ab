// Package compress provides the page compression codecs supported by pqlog.
//
// Every page of a file is compressed with the same codec, chosen when the
// table is created. The codecs map one to one onto Parquet compression codecs:
//
//	format.CompressionNone    UNCOMPRESSED
//	format.CompressionSnappy  SNAPPY
//	format.CompressionGzip    GZIP
//	format.CompressionBrotli  BROTLI (default, quality 5)
//	format.CompressionZstd    ZSTD
//	format.CompressionLZ4     LZ4_RAW
//
// Use NewCodec to build a codec from a type and level:
//
//	codec, err := compress.NewCodec(format.CompressionZstd, 3)
//	if err != nil {
//	    return err
//	}
//	compressed, err := codec.Compress(pageBody)
//
// All codecs are safe for concurrent use. Encoders for gzip, brotli and zstd
// are pooled per codec instance; the stateless codecs are plain values.
package compress
