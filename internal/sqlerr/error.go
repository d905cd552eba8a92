package sqlerr

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Code is our own, driver-independent category for a database error.
type Code string

const (
	Other               Code = "other"
	NotNullViolation    Code = "not_null_violation"
	ForeignKeyViolation Code = "foreign_key_violation"
	UniqueViolation     Code = "unique_violation"
	CheckViolation      Code = "check_violation"
	ExclusionViolation  Code = "exclusion_violation"
	InvalidTextValue    Code = "invalid_text_representation"
	NumericOutOfRange   Code = "numeric_value_out_of_range"
	UndefinedTable      Code = "undefined_table"
	UndefinedColumn     Code = "undefined_column"
	QueryCanceled       Code = "query_canceled"
)

// Severity mirrors the severity levels PostgreSQL reports.
type Severity string

const (
	SeverityError   Severity = "ERROR"
	SeverityFatal   Severity = "FATAL"
	SeverityPanic   Severity = "PANIC"
	SeverityWarning Severity = "WARNING"
	SeverityNotice  Severity = "NOTICE"
	SeverityDebug   Severity = "DEBUG"
	SeverityInfo    Severity = "INFO"
	SeverityLog     Severity = "LOG"
)

// Error is a normalized view of a *pgconn.PgError.
//
// It keeps the metadata (table, column, constraint) needed to build
// user-facing messages and unwraps to the original driver error.
type Error struct {
	Code           Code
	Severity       Severity
	DatabaseCode   string
	Message        string
	SchemaName     string
	TableName      string
	ColumnName     string
	DataTypeName   string
	ConstraintName string
	driverErr      error
}

func (e *Error) Error() string {
	return string(e.Severity) + ": " + e.Message + " (Code " + string(e.Code) + ": SQLSTATE " + e.DatabaseCode + ")"
}

func (e *Error) Unwrap() error {
	return e.driverErr
}

// MapCode maps a PostgreSQL SQLSTATE to a Code.
//
// See https://www.postgresql.org/docs/current/errcodes-appendix.html
func MapCode(sqlstate string) Code {
	switch sqlstate {
	case "23502":
		return NotNullViolation
	case "23503":
		return ForeignKeyViolation
	case "23505":
		return UniqueViolation
	case "23514":
		return CheckViolation
	case "23P01":
		return ExclusionViolation
	case "22P02":
		return InvalidTextValue
	case "22003":
		return NumericOutOfRange
	case "42P01":
		return UndefinedTable
	case "42703":
		return UndefinedColumn
	case "57014":
		return QueryCanceled
	default:
		return Other
	}
}

// MapSeverity maps the severity string of a PostgreSQL error.
// Unknown values are treated as ERROR.
func MapSeverity(severity string) Severity {
	switch Severity(severity) {
	case SeverityError, SeverityFatal, SeverityPanic, SeverityWarning,
		SeverityNotice, SeverityDebug, SeverityInfo, SeverityLog:
		return Severity(severity)
	default:
		return SeverityError
	}
}

// Classify returns the Code of the first *pgconn.PgError in err's chain, or
// Other when there is none.
func Classify(err error) Code {
	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) {
		return MapCode(pgerr.Code)
	}
	return ErrCode(err)
}

// IsUniqueViolation reports whether err is a unique constraint violation.
func IsUniqueViolation(err error) bool {
	return Classify(err) == UniqueViolation
}

// IsForeignKeyViolation reports whether err is a foreign key violation.
func IsForeignKeyViolation(err error) bool {
	return Classify(err) == ForeignKeyViolation
}
