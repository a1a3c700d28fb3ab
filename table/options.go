package table

import (
	"fmt"
	"maps"

	"go.uber.org/zap"

	"github.com/arloliu/pqlog/compress"
	"github.com/arloliu/pqlog/errs"
	"github.com/arloliu/pqlog/format"
	"github.com/arloliu/pqlog/internal/options"
)

const (
	// DefaultPageSize is the default page budget in serialized bytes.
	DefaultPageSize = 1024
	// DefaultCompression is the default page codec.
	DefaultCompression = format.CompressionBrotli
)

type config struct {
	pageSize         int
	compression      format.CompressionType
	compressionLevel int
	statistics       bool
	rowGroupSize     int
	keyValueMetadata map[string]string
	logger           *zap.Logger
}

func defaultConfig() *config {
	return &config{
		pageSize:         DefaultPageSize,
		compression:      DefaultCompression,
		compressionLevel: compress.DefaultLevel,
		statistics:       true,
		logger:           zap.NewNop(),
	}
}

// Option configures a Table.
type Option = options.Option[*config]

// WithPageSize sets the page budget in serialized bytes. A single value
// larger than the budget still gets a page of its own.
func WithPageSize(size int) Option {
	return options.New(func(c *config) error {
		if size <= 0 {
			return fmt.Errorf("%w: %d", errs.ErrInvalidPageSize, size)
		}
		c.pageSize = size

		return nil
	})
}

// WithCompression sets the codec used for every page.
func WithCompression(compression format.CompressionType) Option {
	return options.NoError(func(c *config) {
		c.compression = compression
	})
}

// WithCompressionLevel sets the codec level; see compress.NewCodec for the
// accepted ranges.
func WithCompressionLevel(level int) Option {
	return options.NoError(func(c *config) {
		c.compressionLevel = level
	})
}

// WithStatistics enables or disables min/max statistics in the file.
// Statistics are enabled by default.
func WithStatistics(enabled bool) Option {
	return options.NoError(func(c *config) {
		c.statistics = enabled
	})
}

// WithRowGroupSize makes the table flush on its own once the buffered
// values reach size bytes and every column holds the same number of rows.
// The flush runs at the start of the next push, so the value that crosses
// the threshold is still buffered when Push returns. 0, the default,
// flushes only on request.
func WithRowGroupSize(size int) Option {
	return options.New(func(c *config) error {
		if size < 0 {
			return fmt.Errorf("%w: %d", errs.ErrInvalidRowGroupSize, size)
		}
		c.rowGroupSize = size

		return nil
	})
}

// WithKeyValueMetadata adds key/value pairs to the file footer. Later calls
// add to, and may overwrite, earlier ones.
func WithKeyValueMetadata(kv map[string]string) Option {
	return options.NoError(func(c *config) {
		if c.keyValueMetadata == nil {
			c.keyValueMetadata = make(map[string]string, len(kv))
		}
		maps.Copy(c.keyValueMetadata, kv)
	})
}

// WithLogger sets the logger. A nil logger disables logging.
func WithLogger(logger *zap.Logger) Option {
	return options.NoError(func(c *config) {
		if logger == nil {
			logger = zap.NewNop()
		}
		c.logger = logger
	})
}
