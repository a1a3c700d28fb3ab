package column

import (
	"fmt"
	"hash/crc32"
	"iter"

	"github.com/arloliu/pqlog/compress"
	"github.com/arloliu/pqlog/page"
	"github.com/arloliu/pqlog/schema"
)

// CompressedPage is a page ready to be written: its header, the size of the
// body before compression and the compressed body.
type CompressedPage struct {
	Header           page.Header
	UncompressedSize int
	Data             []byte
	CRC              uint32 // CRC-32 (IEEE) of Data
}

// Chunk holds the drained pages of one column for one row group.
type Chunk struct {
	column    schema.Column
	codec     compress.Codec
	pages     []*page.Page
	numValues int
	stats     page.Statistics

	statistics bool
}

// Column returns the column the chunk belongs to.
func (c *Chunk) Column() schema.Column {
	return c.column
}

// Codec returns the codec the pages are compressed with.
func (c *Chunk) Codec() compress.Codec {
	return c.codec
}

// NumValues returns the number of values across all pages.
func (c *Chunk) NumValues() int {
	return c.numValues
}

// Len returns the number of pages.
func (c *Chunk) Len() int {
	return len(c.pages)
}

// UncompressedSize returns the total size of the page bodies.
func (c *Chunk) UncompressedSize() int {
	size := 0
	for _, p := range c.pages {
		size += p.Size()
	}

	return size
}

// Statistics returns the statistics of all pages merged.
func (c *Chunk) Statistics() page.Statistics {
	return c.stats
}

// HasStatistics reports whether statistics should be written for the chunk.
func (c *Chunk) HasStatistics() bool {
	return c.statistics
}

// Pages compresses and yields the pages in creation order. Compression
// happens as the sequence is consumed; iteration stops at the first error.
//
// Data of a yielded page may alias the page buffer, so it stays valid only
// until Release.
func (c *Chunk) Pages() iter.Seq2[CompressedPage, error] {
	return func(yield func(CompressedPage, error) bool) {
		for i, p := range c.pages {
			body := p.Data()
			if body == nil && p.Header.NumValues > 0 {
				yield(CompressedPage{}, fmt.Errorf("column %q page %d: chunk already released", c.column.Name, i))
				return
			}

			compressed, err := c.codec.Compress(body)
			if err != nil {
				yield(CompressedPage{}, fmt.Errorf("column %q page %d: %w", c.column.Name, i, err))
				return
			}

			cp := CompressedPage{
				Header:           p.Header,
				UncompressedSize: len(body),
				Data:             compressed,
				CRC:              crc32.ChecksumIEEE(compressed),
			}
			if !yield(cp, nil) {
				return
			}
		}
	}
}

// Release returns the page buffers to the pool. The chunk must not be used
// afterwards.
func (c *Chunk) Release() {
	for _, p := range c.pages {
		p.Release()
	}
	c.pages = nil
}
