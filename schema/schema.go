// Package schema describes the flat, all-required tables pqlog writes.
package schema

import (
	"fmt"

	pqformat "github.com/parquet-go/parquet-go/format"

	"github.com/arloliu/pqlog/errs"
	"github.com/arloliu/pqlog/format"
	"github.com/arloliu/pqlog/internal/collision"
	"github.com/arloliu/pqlog/internal/hash"
)

// Field declares a column by name and physical type.
type Field struct {
	Name string
	Type format.PhysicalType
}

// Column is a field placed in a schema.
type Column struct {
	Name  string
	Type  format.PhysicalType
	Index int
	ID    uint64 // xxHash64 of Name
}

// Path returns the column's path in the schema tree, which for a flat schema
// is its name alone.
func (c Column) Path() []string {
	return []string{c.Name}
}

// Schema is an ordered list of required primitive columns under a named root.
type Schema struct {
	name        string
	columns     []Column
	fingerprint uint64
}

// New creates a schema from fields in column order.
//
// Returns errs.ErrEmptyName for an empty table or column name,
// errs.ErrUnsupportedType for a type outside the supported five and
// errs.ErrDuplicateColumn when two fields share a name. A schema without
// fields is valid; tables built from it refuse to flush.
func New(name string, fields ...Field) (*Schema, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: table name", errs.ErrEmptyName)
	}

	tracker := collision.NewTracker()
	columns := make([]Column, 0, len(fields))
	parts := make([]string, 0, 2*len(fields)+1)
	parts = append(parts, name)

	for i, f := range fields {
		id := hash.ID(f.Name)
		if err := tracker.Track(f.Name, id); err != nil {
			return nil, fmt.Errorf("column %d: %w", i, err)
		}
		if !f.Type.IsSupported() {
			return nil, fmt.Errorf("%w: column %q has type %s", errs.ErrUnsupportedType, f.Name, f.Type)
		}

		columns = append(columns, Column{Name: f.Name, Type: f.Type, Index: i, ID: id})
		parts = append(parts, f.Name, f.Type.String())
	}

	return &Schema{
		name:        name,
		columns:     columns,
		fingerprint: hash.Fingerprint(parts...),
	}, nil
}

// Name returns the name of the root element.
func (s *Schema) Name() string {
	return s.name
}

// NumColumns returns the number of columns.
func (s *Schema) NumColumns() int {
	return len(s.columns)
}

// Columns returns the columns in schema order. The slice must not be modified.
func (s *Schema) Columns() []Column {
	return s.columns
}

// Column returns the column at index i.
func (s *Schema) Column(i int) (Column, error) {
	if i < 0 || i >= len(s.columns) {
		return Column{}, fmt.Errorf("%w: %d not in [0, %d)", errs.ErrIndexOutOfRange, i, len(s.columns))
	}

	return s.columns[i], nil
}

// Lookup returns the column named name.
func (s *Schema) Lookup(name string) (Column, bool) {
	id := hash.ID(name)
	for _, c := range s.columns {
		if c.ID == id && c.Name == name {
			return c, true
		}
	}

	return Column{}, false
}

// Fingerprint identifies the schema's name, column names and types.
func (s *Schema) Fingerprint() uint64 {
	return s.fingerprint
}

// Thrift flattens the schema into the depth-first element list stored in the
// file footer: the root group followed by one required leaf per column.
func (s *Schema) Thrift() []pqformat.SchemaElement {
	elements := make([]pqformat.SchemaElement, 0, len(s.columns)+1)
	elements = append(elements, pqformat.SchemaElement{
		Name:        s.name,
		NumChildren: int32(len(s.columns)), //nolint:gosec
	})

	required := pqformat.Required
	for _, c := range s.columns {
		typ := c.Type.Parquet()
		elements = append(elements, pqformat.SchemaElement{
			Type:           &typ,
			RepetitionType: &required,
			Name:           c.Name,
		})
	}

	return elements
}
