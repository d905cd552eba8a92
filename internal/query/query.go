// Package query builds the dynamic parts of parameterized PostgreSQL statements.
//
// It covers the two places where SQL text depends on caller input:
//   - partial updates, where an arbitrary ordered subset of fields becomes a
//     `"col1"=$1, "col2"=$2` SET clause (BuildUpdate)
//   - listing filters, where an optional combination of named filters becomes
//     an AND-joined WHERE predicate (BuildWhere)
//
// Both builders validate their input first (ValidateUpdate, ValidateFilters)
// and never issue anything to the database themselves. Only column identifiers
// taken from a fixed ColumnMapping are written into the SQL text; every value
// travels as a bound parameter whose $N index matches its position in
// Statement.Args.
//
// Everything in this package is a pure function over its arguments, so it is
// safe for concurrent use without coordination.
package query

import (
	"strconv"
	"strings"
)

// Statement is SQL text plus the values bound to its positional placeholders.
//
// The Nth `$N` placeholder in SQL corresponds to Args[N-1].
type Statement struct {
	SQL  string
	Args []any
}

// Empty reports whether the statement contributes no SQL at all
// (e.g. a WHERE predicate built from zero filters).
func (s Statement) Empty() bool {
	return s.SQL == ""
}

// Next returns the index of the next free placeholder.
//
// Callers that append their own parameters after a built clause, such as the
// trailing `WHERE handle = $N` of an UPDATE, use this so the numbering stays
// contiguous.
func (s Statement) Next() int {
	return len(s.Args) + 1
}

// fragment is one element of a clause: fixed text, optionally with a single
// bound value whose placeholder sits between head and tail.
type fragment struct {
	head  string
	tail  string
	bound bool
	value any
}

// clause accumulates fragments in order and numbers placeholders on render.
type clause struct {
	fragments []fragment
}

// add appends a fragment with no bound value.
func (c *clause) add(text string) {
	c.fragments = append(c.fragments, fragment{head: text})
}

// bind appends a fragment rendered as head + $N + tail, binding value as $N.
func (c *clause) bind(head, tail string, value any) {
	c.fragments = append(c.fragments, fragment{head: head, tail: tail, bound: true, value: value})
}

// render joins the fragments with sep, numbering placeholders from 1 in
// fragment order.
func (c *clause) render(sep string) Statement {
	if len(c.fragments) == 0 {
		return Statement{}
	}

	parts := make([]string, 0, len(c.fragments))
	args := make([]any, 0, len(c.fragments))

	for _, f := range c.fragments {
		if !f.bound {
			parts = append(parts, f.head)
			continue
		}

		args = append(args, f.value)
		parts = append(parts, f.head+placeholder(len(args))+f.tail)
	}

	return Statement{
		SQL:  strings.Join(parts, sep),
		Args: args,
	}
}

func placeholder(n int) string {
	return "$" + strconv.Itoa(n)
}
