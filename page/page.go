package page

import (
	pqformat "github.com/parquet-go/parquet-go/format"

	"github.com/arloliu/pqlog/format"
	"github.com/arloliu/pqlog/internal/pool"
)

// Header describes a finished data page.
type Header struct {
	NumValues               int
	Encoding                pqformat.Encoding
	DefinitionLevelEncoding pqformat.Encoding
	RepetitionLevelEncoding pqformat.Encoding
	Statistics              Statistics
}

// Thrift returns the data page header written before the page body. Page
// statistics are left empty when withStatistics is false.
func (h Header) Thrift(withStatistics bool) pqformat.DataPageHeader {
	dph := pqformat.DataPageHeader{
		NumValues:               int32(h.NumValues), //nolint:gosec
		Encoding:                h.Encoding,
		DefinitionLevelEncoding: h.DefinitionLevelEncoding,
		RepetitionLevelEncoding: h.RepetitionLevelEncoding,
	}
	if withStatistics {
		dph.Statistics = h.Statistics.Thrift()
	}

	return dph
}

// Page is a finished, uncompressed data page.
//
// The page body lives in a pooled buffer. Call Release once the body has been
// compressed or written; Data returns nil afterwards.
type Page struct {
	Header Header

	typ format.PhysicalType
	buf *pool.ByteBuffer
}

// Type returns the physical type of the values in the page.
func (p *Page) Type() format.PhysicalType {
	return p.typ
}

// Data returns the PLAIN encoded page body.
func (p *Page) Data() []byte {
	if p.buf == nil {
		return nil
	}

	return p.buf.Bytes()
}

// Size returns the length of the page body in bytes.
func (p *Page) Size() int {
	if p.buf == nil {
		return 0
	}

	return p.buf.Len()
}

// Release returns the page body to the buffer pool.
func (p *Page) Release() {
	if p.buf != nil {
		pool.PutPageBuffer(p.buf)
		p.buf = nil
	}
}
