package errs

import (
	"net/http"
)

func statusCode(status int, code *string) string {
	if code != nil {
		return *code
	}
	return MakeUpperCaseWithUnderscores(http.StatusText(status))
}

func NewUnauthorizedError(message string, override bool) *HTTPError {
	return &HTTPError{
		Code:     statusCode(http.StatusUnauthorized, nil),
		Message:  message,
		Status:   http.StatusUnauthorized,
		Override: override,
	}
}

// NewBadRequestError builds a 400. A nil code defaults to "BAD_REQUEST".
func NewBadRequestError(message string, override bool, code *string, errors []FieldError, action *Action) *HTTPError {
	return &HTTPError{
		Code:     statusCode(http.StatusBadRequest, code),
		Message:  message,
		Status:   http.StatusBadRequest,
		Override: override,
		Errors:   errors,
		Action:   action,
	}
}

func NewNotFoundError(message string, override bool, code *string) *HTTPError {
	return &HTTPError{
		Code:     statusCode(http.StatusNotFound, code),
		Message:  message,
		Status:   http.StatusNotFound,
		Override: override,
	}
}

// NewConflictError builds a 409, used when a write collides with an existing
// natural key such as a company handle or name.
func NewConflictError(message string, override bool, code *string) *HTTPError {
	return &HTTPError{
		Code:     statusCode(http.StatusConflict, code),
		Message:  message,
		Status:   http.StatusConflict,
		Override: override,
	}
}

func NewTooManyRequestsError(message string) *HTTPError {
	return &HTTPError{
		Code:     "RATE_LIMIT_EXCEEDED",
		Message:  message,
		Status:   http.StatusTooManyRequests,
		Override: true,
	}
}

// NewInternalServerError builds a generic 500 that carries none of the
// underlying error.
func NewInternalServerError() *HTTPError {
	return &HTTPError{
		Code:    statusCode(http.StatusInternalServerError, nil),
		Message: http.StatusText(http.StatusInternalServerError),
		Status:  http.StatusInternalServerError,
	}
}

// BadRequestFromValidation converts a *ValidationError into a 400. A
// field-scoped failure is also listed in Errors.
func BadRequestFromValidation(err *ValidationError) *HTTPError {
	var fieldErrors []FieldError
	if err.Field != "" {
		fieldErrors = []FieldError{{Field: err.Field, Error: err.Message}}
	}

	return NewBadRequestError(err.Error(), true, nil, fieldErrors, nil)
}
