package query

import (
	"maps"

	"github.com/jackc/pgx/v5"
)

// ColumnMapping translates API-facing field names into storage column names
// for one entity. Fields without an entry map to themselves.
//
// The zero value is a valid, empty mapping.
type ColumnMapping struct {
	columns map[string]string
}

// NewColumnMapping returns a mapping backed by a private copy of columns, so
// later changes to the argument do not leak into it.
func NewColumnMapping(columns map[string]string) ColumnMapping {
	return ColumnMapping{columns: maps.Clone(columns)}
}

// Resolve returns the storage column for field.
func (m ColumnMapping) Resolve(field string) string {
	if column, ok := m.columns[field]; ok {
		return column
	}
	return field
}

// identifier resolves field and quotes it for use in SQL text, optionally
// qualified by a table alias: `"num_employees"` or `"j"."salary"`.
func (m ColumnMapping) identifier(qualifier, field string) string {
	column := m.Resolve(field)
	if qualifier == "" {
		return pgx.Identifier{column}.Sanitize()
	}
	return pgx.Identifier{qualifier, column}.Sanitize()
}
