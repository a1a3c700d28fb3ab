// Package errs defines the sentinel errors returned by pqlog packages.
//
// Errors are returned wrapped with context, so callers should match them with
// errors.Is:
//
//	if err := tbl.Push(3, value.Int32(7)); errors.Is(err, errs.ErrIndexOutOfRange) {
//	    ...
//	}
package errs

import "errors"

// Value and page errors.
var (
	// ErrUnsupportedType is returned when a schema declares a physical type
	// outside Int32, Int64, Float32, Float64 and ByteArray.
	ErrUnsupportedType = errors.New("unsupported physical type")

	// ErrTypeMismatch is returned when a value's variant does not match the
	// requested or declared physical type.
	ErrTypeMismatch = errors.New("value type mismatch")

	// ErrInvalidPageData is returned when PLAIN encoded bytes end in the
	// middle of a value.
	ErrInvalidPageData = errors.New("invalid page data")
)

// Table errors.
var (
	ErrIndexOutOfRange  = errors.New("column index out of range")
	ErrNoColumns        = errors.New("table has no columns")
	ErrRowCountMismatch = errors.New("column row counts do not match")
	ErrTableEnded       = errors.New("table already ended")
)

// Configuration and schema errors.
var (
	ErrInvalidPageSize     = errors.New("invalid page size")
	ErrInvalidCompression  = errors.New("invalid compression")
	ErrInvalidRowGroupSize = errors.New("invalid row group size")
	ErrEmptyName           = errors.New("name must not be empty")
	ErrDuplicateColumn     = errors.New("duplicate column name")
)

// Writer errors.
var (
	ErrColumnCountMismatch = errors.New("row group column count does not match schema")
	ErrWriterClosed        = errors.New("writer already ended")
)
