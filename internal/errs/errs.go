// Package errs defines the application's error types.
//
// Domain errors (ValidationError, NotFoundError, ConflictError) are raised
// by the query, repository and service layers and matched with errors.Is
// against ErrValidation, ErrNotFound and ErrConflict. HTTPError is the JSON
// envelope every failed request is answered with.
package errs
