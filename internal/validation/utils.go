package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/jobly/internal/errs"
)

// Validatable is implemented by every request type passed to the handler
// pipeline.
type Validatable interface {
	Validate() error
}

// Binder is implemented by requests that read themselves from the echo
// context instead of going through echo's default binder.
type Binder interface {
	Bind(c echo.Context) error
}

type CustomValidationError struct {
	Field   string
	Message string
}

type CustomValidationErrors []CustomValidationError

func (c CustomValidationErrors) Error() string {
	return "Validation failed"
}

var validate = newValidator()

// newValidator reports fields by their wire name: the json tag, or the
// query/param tag for fields that are not part of a body.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "query", "param"} {
			name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
			if name == "-" {
				continue
			}
			if name != "" {
				return name
			}
		}
		return f.Name
	})

	return v
}

// Struct runs the struct tag rules of v.
func Struct(v any) error {
	return validate.Struct(v)
}

// BindAndValidate fills payload from the request and runs its Validate
// method. Both failures are returned as 400 *errs.HTTPError.
func BindAndValidate(c echo.Context, payload Validatable) error {
	var err error
	if b, ok := payload.(Binder); ok {
		err = b.Bind(c)
	} else {
		err = c.Bind(payload)
	}

	if err != nil {
		var validationErr *errs.ValidationError
		if errors.As(err, &validationErr) {
			return errs.BadRequestFromValidation(validationErr)
		}
		return errs.NewBadRequestError(bindMessage(err), false, nil, nil, nil)
	}

	if msg, fieldErrors := validateStruct(payload); fieldErrors != nil {
		return errs.NewBadRequestError(msg, true, nil, fieldErrors, nil)
	}

	return nil
}

// bindMessage pulls the client-facing message out of an echo bind error.
func bindMessage(err error) string {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if msg, ok := he.Message.(string); ok && msg != "" {
			return msg
		}
	}
	return "Invalid request body"
}

func validateStruct(v Validatable) (string, []errs.FieldError) {
	if err := v.Validate(); err != nil {
		return extractValidationError(err)
	}
	return "", nil
}

func extractValidationError(err error) (string, []errs.FieldError) {
	var fieldErrors []errs.FieldError

	var (
		validationErrors validator.ValidationErrors
		customErrors     CustomValidationErrors
		domainErr        *errs.ValidationError
	)

	switch {
	case errors.As(err, &validationErrors):
		for _, fe := range validationErrors {
			fieldErrors = append(fieldErrors, errs.FieldError{
				Field: fe.Field(),
				Error: tagMessage(fe),
			})
		}

	case errors.As(err, &customErrors):
		for _, ce := range customErrors {
			fieldErrors = append(fieldErrors, errs.FieldError{
				Field: ce.Field,
				Error: ce.Message,
			})
		}

	case errors.As(err, &domainErr):
		fieldErrors = append(fieldErrors, errs.FieldError{
			Field: domainErr.Field,
			Error: domainErr.Message,
		})

	default:
		fieldErrors = append(fieldErrors, errs.FieldError{Error: err.Error()})
	}

	return "Validation failed", fieldErrors
}

func tagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"

	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())

	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must not exceed %s characters", fe.Param())
		}
		return fmt.Sprintf("must not exceed %s", fe.Param())

	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())

	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())

	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())

	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())

	case "url":
		return "must be a valid URL"

	case "email":
		return "must be a valid email address"

	default:
		if fe.Param() != "" {
			return fmt.Sprintf("%s: %s:%s", fe.Field(), fe.Tag(), fe.Param())
		}
		return fmt.Sprintf("%s: %s", fe.Field(), fe.Tag())
	}
}
