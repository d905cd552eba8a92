package query

import (
	"strings"
)

// FilterKind selects the predicate a Filter contributes.
type FilterKind int

const (
	// Pattern is a case-insensitive substring match: col ILIKE '%value%'.
	Pattern FilterKind = iota + 1
	// LowerBound is an inclusive numeric minimum: col >= value.
	LowerBound
	// UpperBound is an inclusive numeric maximum: col <= value.
	UpperBound
	// Gate adds a fixed predicate with no parameter when its value is true.
	Gate
)

func (k FilterKind) String() string {
	switch k {
	case Pattern:
		return "pattern"
	case LowerBound:
		return "lower-bound"
	case UpperBound:
		return "upper-bound"
	case Gate:
		return "gate"
	default:
		return "unknown"
	}
}

// Filter declares one optional, named filter of an entity's listing.
type Filter struct {
	// Name is the wire name callers use, e.g. "minEmployees".
	Name string

	// Field is the API-facing field the filter applies to, resolved to a
	// column through FilterSpec.Columns.
	Field string

	Kind FilterKind

	// Range pairs a LowerBound with an UpperBound; when both are supplied the
	// lower one must not exceed the upper one.
	Range string

	// Integer requires numeric values to be whole numbers.
	Integer bool

	// NonNegative rejects numeric values below zero.
	NonNegative bool

	// Max, when non-zero, rejects numeric values above it. Integer filters
	// are always limited to the int64 range.
	Max int64

	// Cast is appended to the placeholder as `$N::<Cast>` when set.
	Cast string

	// Predicate is the fixed condition a Gate appends after the column,
	// e.g. "> 0".
	Predicate string
}

// FilterSpec is the fixed filter schema of one entity.
//
// Filters are applied in declaration order, which makes the produced SQL and
// argument order independent of how the caller supplied the values.
type FilterSpec struct {
	Columns ColumnMapping

	// Qualifier is the table alias prefixed to every column, if any.
	Qualifier string

	Filters []Filter
}

// Lookup returns the filter declared under name.
func (s FilterSpec) Lookup(name string) (Filter, bool) {
	for _, f := range s.Filters {
		if f.Name == name {
			return f, true
		}
	}
	return Filter{}, false
}

// FilterValues is the sparse set of filter values a caller supplied, keyed by
// filter name. Values may be strings (as read from a URL query), numbers or
// booleans; ValidateFilters normalizes them.
type FilterValues map[string]any

// BuildWhere turns the supplied filter values into an AND-joined predicate
// for spec, without the WHERE keyword:
//
//	"name" ILIKE $1 AND "num_employees" >= $2
//
// When no filter is supplied the returned Statement is empty and the listing
// is unfiltered. Values are validated first; see ValidateFilters.
func BuildWhere(spec FilterSpec, values FilterValues) (Statement, error) {
	normalized, err := ValidateFilters(spec, values)
	if err != nil {
		return Statement{}, err
	}

	var c clause
	for _, f := range spec.Filters {
		value, ok := normalized[f.Name]
		if !ok {
			continue
		}

		column := spec.Columns.identifier(spec.Qualifier, f.Field)

		switch f.Kind {
		case Pattern:
			c.bind(column+" ILIKE ", "", "%"+escapeLike(value.(string))+"%")
		case LowerBound:
			c.bind(column+" >= ", f.castSuffix(), value)
		case UpperBound:
			c.bind(column+" <= ", f.castSuffix(), value)
		case Gate:
			if value.(bool) {
				c.add(column + " " + f.Predicate)
			}
		}
	}

	return c.render(" AND "), nil
}

func (f Filter) castSuffix() string {
	if f.Cast == "" {
		return ""
	}
	return "::" + f.Cast
}

// likeEscaper escapes the LIKE metacharacters using PostgreSQL's default
// escape character, so user text matches literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
