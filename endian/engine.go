// Package endian provides the byte order used to encode page values.
//
// Parquet's PLAIN encoding is little-endian regardless of the host, so the
// rest of pqlog asks this package for an EndianEngine instead of reaching for
// binary.LittleEndian directly. This keeps the append-style helpers of
// encoding/binary available through a single interface:
//
//	engine := endian.GetLittleEndianEngine()
//	buf = engine.AppendUint32(buf, math.Float32bits(v))
package endian

import (
	"encoding/binary"
	"unsafe"
)

// EndianEngine combines ByteOrder and AppendByteOrder from encoding/binary.
//
// binary.LittleEndian and binary.BigEndian both satisfy it.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// GetLittleEndianEngine returns the little-endian engine used by PLAIN encoding.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// IsNativeLittleEndian reports whether the host stores integers little-endian.
func IsNativeLittleEndian() bool {
	var i uint16 = 0x0100
	b := (*[2]byte)(unsafe.Pointer(&i))

	return b[0] == 0x00
}
