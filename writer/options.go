package writer

import "github.com/arloliu/pqlog/internal/options"

// DefaultCreatedBy is the application name recorded in file footers.
const DefaultCreatedBy = "pqlog version 1.0.0"

// Option configures a Writer.
type Option = options.Option[*Writer]

// WithCreatedBy sets the application string stored in the footer's
// created_by field.
func WithCreatedBy(createdBy string) Option {
	return options.NoError(func(w *Writer) {
		w.createdBy = createdBy
	})
}
