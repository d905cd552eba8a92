package sqlerr

import (
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/deppfellow/jobly/internal/errs"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrCode reports the Code of the first *sqlerr.Error in err's chain.
//
// Returns sqlerr.Other when err was never converted with ConvertPgError.
func ErrCode(err error) Code {
	var sqlErr *Error
	if errors.As(err, &sqlErr) {
		return sqlErr.Code
	}
	return Other
}

// ConvertPgError converts a raw *pgconn.PgError into a *sqlerr.Error.
//
// The SQLSTATE and severity are mapped to our enums; table, column and
// constraint metadata are kept so messages can name the offending entity.
func ConvertPgError(src *pgconn.PgError) *Error {
	return &Error{
		Code:           MapCode(src.Code),
		Severity:       MapSeverity(src.Severity),
		DatabaseCode:   src.Code,
		Message:        src.Message,
		SchemaName:     src.SchemaName,
		TableName:      src.TableName,
		ColumnName:     src.ColumnName,
		DataTypeName:   src.DataTypeName,
		ConstraintName: src.ConstraintName,
		driverErr:      src,
	}
}

// generateErrorCode builds a machine-readable error code of the form
// <DOMAIN>_<ACTION>, e.g.
//
//	companies + UniqueViolation     => COMPANY_ALREADY_EXISTS
//	jobs      + ForeignKeyViolation => JOB_NOT_FOUND
//
// DOMAIN is the singular, upper-cased table name; RECORD when unknown.
func generateErrorCode(tableName string, errType Code) string {
	domain := "RECORD"
	if tableName != "" {
		domain = strings.ToUpper(singular(tableName))
	}

	action := "ERROR"
	switch errType {
	case ForeignKeyViolation:
		action = "NOT_FOUND"
	case UniqueViolation:
		action = "ALREADY_EXISTS"
	case NotNullViolation:
		action = "REQUIRED"
	case CheckViolation:
		action = "INVALID"
	}

	return fmt.Sprintf("%s_%s", domain, action)
}

// singular is a small English singularizer good enough for table names:
// companies -> company, jobs -> job.
func singular(name string) string {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, "ies") && len(name) > 3:
		return name[:len(name)-3] + "y"
	case strings.HasSuffix(lower, "s") && len(name) > 1:
		return name[:len(name)-1]
	default:
		return name
	}
}

// formatUserFriendlyMessage phrases a constraint failure for API clients.
// It is never used for logs; those keep the original driver error.
func formatUserFriendlyMessage(sqlErr *Error) string {
	entityName := getEntityName(sqlErr.TableName, sqlErr.ColumnName)

	switch sqlErr.Code {
	case ForeignKeyViolation:
		// "The referenced Company does not exist"
		return fmt.Sprintf("The referenced %s does not exist", entityName)

	case UniqueViolation:
		// "identifier" is swapped for the column when the constraint name reveals it.
		return fmt.Sprintf("A %s with this identifier already exists", entityName)

	case NotNullViolation:
		fieldName := humanizeText(sqlErr.ColumnName)
		if fieldName == "" {
			fieldName = "field"
		}
		return fmt.Sprintf("The %s is required", fieldName)

	case CheckViolation:
		fieldName := humanizeText(sqlErr.ColumnName)
		if fieldName != "" {
			return fmt.Sprintf("The %s value does not meet required conditions", fieldName)
		}
		return "One or more values do not meet required conditions"

	default:
		return "An error occurred while processing your request"
	}
}

// getEntityName names the entity an error is about.
//
// A foreign key column such as company_handle or company_id names the
// referenced entity best; otherwise the singular table name is used.
func getEntityName(tableName, columnName string) string {
	column := strings.ToLower(columnName)
	for _, suffix := range []string{"_id", "_handle"} {
		if column != "" && strings.HasSuffix(column, suffix) {
			return humanizeText(strings.TrimSuffix(column, suffix))
		}
	}

	if tableName != "" {
		return humanizeText(singular(tableName))
	}

	return "record"
}

// humanizeText turns snake_case into Title Case: "num_employees" -> "Num Employees".
func humanizeText(text string) string {
	if text == "" {
		return ""
	}
	return cases.Title(language.English).String(strings.ReplaceAll(text, "_", " "))
}

var uniqueKeySuffix = regexp.MustCompile(`_([^_]+)_(?:key|ukey)$`)

// extractColumnForUniqueViolation infers the column from a unique constraint
// name. Two conventions are understood:
//
//	unique_<table>_<column>     unique_companies_handle -> handle
//	<table>_<column>_(u)key     companies_handle_key    -> handle
//
// Primary keys (<table>_pkey) yield "".
func extractColumnForUniqueViolation(constraintName string) string {
	if constraintName == "" {
		return ""
	}

	if strings.HasPrefix(constraintName, "unique_") {
		parts := strings.Split(constraintName, "_")
		if len(parts) >= 3 {
			return parts[len(parts)-1]
		}
	}

	if matches := uniqueKeySuffix.FindStringSubmatch(constraintName); len(matches) > 1 {
		return matches[1]
	}

	return ""
}

// HandleError converts any error reaching the HTTP layer into an *errs.HTTPError.
//
//   - *errs.HTTPError: returned unchanged
//   - *errs.ValidationError / NotFoundError / ConflictError: 400 / 404 / 409
//   - *pgconn.PgError: unique -> 409, foreign key -> 404, not null / check -> 400
//   - pgx.ErrNoRows / sql.ErrNoRows: 404
//   - anything else: a generic 500 that leaks no internals
func HandleError(err error) *errs.HTTPError {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	// Domain errors already say what went wrong; only the response shape is
	// decided here.
	var validationErr *errs.ValidationError
	if errors.As(err, &validationErr) {
		return errs.BadRequestFromValidation(validationErr)
	}

	var notFoundErr *errs.NotFoundError
	if errors.As(err, &notFoundErr) {
		return errs.NewNotFoundError(capitalize(notFoundErr.Error()), true, nil)
	}

	var conflictErr *errs.ConflictError
	if errors.As(err, &conflictErr) {
		code := generateErrorCode(conflictErr.Entity, UniqueViolation)
		return errs.NewConflictError(capitalize(conflictErr.Error()), true, &code)
	}

	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) {
		sqlErr := ConvertPgError(pgerr)

		errorCode := generateErrorCode(sqlErr.TableName, sqlErr.Code)
		userMessage := formatUserFriendlyMessage(sqlErr)

		switch sqlErr.Code {
		case ForeignKeyViolation:
			return errs.NewNotFoundError(userMessage, true, &errorCode)

		case UniqueViolation:
			if columnName := extractColumnForUniqueViolation(sqlErr.ConstraintName); columnName != "" {
				userMessage = strings.ReplaceAll(userMessage, "identifier", humanizeText(columnName))
			}
			return errs.NewConflictError(userMessage, true, &errorCode)

		case NotNullViolation:
			fieldErrors := []errs.FieldError{
				{
					Field: strings.ToLower(sqlErr.ColumnName),
					Error: "is required",
				},
			}
			return errs.NewBadRequestError(userMessage, true, &errorCode, fieldErrors, nil)

		case CheckViolation:
			return errs.NewBadRequestError(userMessage, true, &errorCode, nil, nil)

		default:
			return errs.NewInternalServerError()
		}
	}

	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
		return errs.NewNotFoundError("Resource not found", false, nil)
	}

	return errs.NewInternalServerError()
}

// capitalize upper-cases the first byte of an ASCII message.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
