package query

import (
	"bytes"
	"encoding/json"
)

// Assignment is one (field, value) pair of a partial update.
//
// A nil Value sets the column to NULL. Fields that should stay unchanged are
// simply left out of the UpdateRequest.
type Assignment struct {
	Field string
	Value any
}

// UpdateRequest is the ordered list of assignments of a partial update.
//
// Order is part of the contract: BuildUpdate emits columns and arguments in
// exactly this order.
type UpdateRequest []Assignment

// Set returns req with field assigned to value.
func (req UpdateRequest) Set(field string, value any) UpdateRequest {
	return append(req, Assignment{Field: field, Value: value})
}

// Fields lists the assigned field names in order.
func (req UpdateRequest) Fields() []string {
	fields := make([]string, len(req))
	for i, a := range req {
		fields[i] = a.Field
	}
	return fields
}

// Lookup returns the value assigned to field and whether it was assigned.
func (req UpdateRequest) Lookup(field string) (any, bool) {
	for _, a := range req {
		if a.Field == field {
			return a.Value, true
		}
	}
	return nil, false
}

// BuildUpdate turns req into a SET clause body and its argument list:
//
//	"name"=$1, "num_employees"=$2
//
// Each field is resolved through columns and quoted. Arguments follow the
// order of req, so callers can append their own key parameter at
// Statement.Next().
//
// It fails with *errs.ValidationError when req is empty or names a field twice.
func BuildUpdate(req UpdateRequest, columns ColumnMapping) (Statement, error) {
	if err := ValidateUpdate(req); err != nil {
		return Statement{}, err
	}

	var c clause
	for _, a := range req {
		c.bind(columns.identifier("", a.Field)+"=", "", a.Value)
	}

	return c.render(", "), nil
}

// Nullable carries a field of a partial-update payload that can be absent,
// explicitly null, or hold a value.
//
// Decoding JSON into a struct of Nullable fields leaves missing keys unset,
// while a literal null marks the field as set-to-null.
type Nullable[T any] struct {
	value T
	set   bool
	valid bool
}

// Value returns a Nullable holding v.
func Value[T any](v T) Nullable[T] {
	return Nullable[T]{value: v, set: true, valid: true}
}

// Null returns a Nullable explicitly set to null.
func Null[T any]() Nullable[T] {
	return Nullable[T]{set: true}
}

// IsSet reports whether the field was supplied at all.
func (n Nullable[T]) IsSet() bool {
	return n.set
}

// IsNull reports whether the field was supplied as null.
func (n Nullable[T]) IsNull() bool {
	return n.set && !n.valid
}

// Get returns the value and whether one is present (set and not null).
func (n Nullable[T]) Get() (T, bool) {
	return n.value, n.set && n.valid
}

// AppendTo adds the field to req when it was supplied: its value, or nil
// for an explicit null. Absent fields leave req untouched.
func (n Nullable[T]) AppendTo(req UpdateRequest, field string) UpdateRequest {
	if !n.set {
		return req
	}
	if !n.valid {
		return req.Set(field, nil)
	}
	return req.Set(field, n.value)
}

func (n *Nullable[T]) UnmarshalJSON(data []byte) error {
	n.set = true

	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		var zero T
		n.value = zero
		n.valid = false
		return nil
	}

	if err := json.Unmarshal(data, &n.value); err != nil {
		return err
	}
	n.valid = true

	return nil
}

func (n Nullable[T]) MarshalJSON() ([]byte, error) {
	if !n.valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.value)
}
