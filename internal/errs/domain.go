package errs

import (
	"errors"
	"fmt"
)

// Sentinel errors for the three failure kinds the data layer raises.
//
// The typed errors below match them through their Is method, so callers can
// branch with errors.Is(err, errs.ErrNotFound) without caring which entity
// or field was involved.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("already exists")
)

// ValidationError reports malformed or contradictory caller input.
//
// It is raised before any statement reaches the database: empty updates,
// non-numeric filter values, inverted ranges, business-rule violations.
type ValidationError struct {
	// Field is the API-facing field or filter name. Empty for request-wide problems.
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError builds a *ValidationError for the given field.
func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// NotFoundError reports that a keyed lookup, update or delete matched no row.
type NotFoundError struct {
	Entity string
	Key    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.Key)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFound builds a *NotFoundError. Key is formatted with %v.
func NewNotFound(entity string, key any) *NotFoundError {
	return &NotFoundError{Entity: entity, Key: fmt.Sprint(key)}
}

// ConflictError reports a uniqueness violation on a natural key.
type ConflictError struct {
	Entity string
	Key    string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %q already exists", e.Entity, e.Key)
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// NewConflict builds a *ConflictError. Key is formatted with %v.
func NewConflict(entity string, key any) *ConflictError {
	return &ConflictError{Entity: entity, Key: fmt.Sprint(key)}
}
