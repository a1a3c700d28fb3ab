// Package encoding implements Parquet's PLAIN encoding for the physical types
// supported by pqlog.
//
// PLAIN is the only value encoding pqlog writes. Every field is REQUIRED and
// flat, so pages carry no repetition or definition levels and the page body is
// the concatenation of the encoded values:
//
//	Int32, Float32     4 bytes little-endian
//	Int64, Float64     8 bytes little-endian
//	ByteArray          4 bytes little-endian length, then the raw bytes
//
// PlainEncoder writes into a pooled buffer that the page package takes over
// with Detach once the page is finished. PlainDecoder is the inverse and is
// used by tests and tooling to inspect page bodies.
package encoding
