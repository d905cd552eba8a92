package sqlerr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/jobly/internal/errs"
)

func requireHTTPError(t *testing.T, err error, status int, code string) *errs.HTTPError {
	t.Helper()

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	require.Equal(t, status, httpErr.Status)
	if code != "" {
		require.Equal(t, code, httpErr.Code)
	}
	return httpErr
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		name string
		err  error

		wantStatus  int
		wantCode    string
		wantMessage string
	}{
		{
			name:        "http error passes through",
			err:         errs.NewTooManyRequestsError("nope"),
			wantStatus:  http.StatusTooManyRequests,
			wantCode:    "RATE_LIMIT_EXCEEDED",
			wantMessage: "nope",
		},
		{
			name:        "validation error",
			err:         fmt.Errorf("update: %w", errs.NewValidationError("numEmployees", "must not be negative")),
			wantStatus:  http.StatusBadRequest,
			wantCode:    "BAD_REQUEST",
			wantMessage: "numEmployees: must not be negative",
		},
		{
			name:        "not found error",
			err:         errs.NewNotFound("company", "acme"),
			wantStatus:  http.StatusNotFound,
			wantCode:    "NOT_FOUND",
			wantMessage: `Company "acme" not found`,
		},
		{
			name:        "conflict error",
			err:         errs.NewConflict("company", "acme"),
			wantStatus:  http.StatusConflict,
			wantCode:    "COMPANY_ALREADY_EXISTS",
			wantMessage: `Company "acme" already exists`,
		},
		{
			name: "unique violation from driver",
			err: &pgconn.PgError{
				Code:           "23505",
				TableName:      "companies",
				ConstraintName: "companies_name_key",
			},
			wantStatus:  http.StatusConflict,
			wantCode:    "COMPANY_ALREADY_EXISTS",
			wantMessage: "A Company with this Name already exists",
		},
		{
			name: "foreign key violation from driver",
			err: &pgconn.PgError{
				Code:       "23503",
				TableName:  "jobs",
				ColumnName: "company_handle",
			},
			wantStatus:  http.StatusNotFound,
			wantCode:    "JOB_NOT_FOUND",
			wantMessage: "The referenced Company does not exist",
		},
		{
			name: "not null violation from driver",
			err: &pgconn.PgError{
				Code:       "23502",
				TableName:  "jobs",
				ColumnName: "title",
			},
			wantStatus:  http.StatusBadRequest,
			wantCode:    "JOB_REQUIRED",
			wantMessage: "The Title is required",
		},
		{
			name: "check violation from driver",
			err: &pgconn.PgError{
				Code:       "23514",
				TableName:  "jobs",
				ColumnName: "equity",
			},
			wantStatus:  http.StatusBadRequest,
			wantCode:    "JOB_INVALID",
			wantMessage: "The Equity value does not meet required conditions",
		},
		{
			name:        "no rows",
			err:         fmt.Errorf("get: %w", pgx.ErrNoRows),
			wantStatus:  http.StatusNotFound,
			wantMessage: "Resource not found",
		},
		{
			name:        "unknown error",
			err:         errors.New("boom"),
			wantStatus:  http.StatusInternalServerError,
			wantMessage: http.StatusText(http.StatusInternalServerError),
		},
		{
			name:        "unmapped driver error",
			err:         &pgconn.PgError{Code: "42P01"},
			wantStatus:  http.StatusInternalServerError,
			wantMessage: http.StatusText(http.StatusInternalServerError),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			httpErr := requireHTTPError(t, HandleError(tc.err), tc.wantStatus, tc.wantCode)
			require.Equal(t, tc.wantMessage, httpErr.Message)
		})
	}
}

func TestHandleError_validationFieldErrors(t *testing.T) {
	err := HandleError(errs.NewValidationError("minEmployees", "cannot be greater than maxEmployees"))

	httpErr := requireHTTPError(t, err, http.StatusBadRequest, "")
	require.Equal(t, []errs.FieldError{
		{Field: "minEmployees", Error: "cannot be greater than maxEmployees"},
	}, httpErr.Errors)
	require.True(t, httpErr.Override)

	err = HandleError(errs.NewValidationError("", "no fields to update"))
	httpErr = requireHTTPError(t, err, http.StatusBadRequest, "")
	require.Empty(t, httpErr.Errors)
}

func TestSingular(t *testing.T) {
	require.Equal(t, "company", singular("companies"))
	require.Equal(t, "job", singular("jobs"))
	require.Equal(t, "company", singular("company"))
	require.Equal(t, "s", singular("s"))
}

func TestExtractColumnForUniqueViolation(t *testing.T) {
	require.Equal(t, "handle", extractColumnForUniqueViolation("unique_companies_handle"))
	require.Equal(t, "name", extractColumnForUniqueViolation("companies_name_key"))
	require.Equal(t, "", extractColumnForUniqueViolation("companies_pkey"))
	require.Equal(t, "", extractColumnForUniqueViolation(""))
}

func TestClassify(t *testing.T) {
	unique := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})
	require.True(t, IsUniqueViolation(unique))
	require.False(t, IsForeignKeyViolation(unique))

	fk := ConvertPgError(&pgconn.PgError{Code: "23503", Severity: "ERROR", Message: "fk"})
	require.True(t, IsForeignKeyViolation(fk))
	require.Equal(t, ForeignKeyViolation, ErrCode(fk))
	require.Equal(t, "ERROR: fk (Code foreign_key_violation: SQLSTATE 23503)", fk.Error())

	require.Equal(t, Other, Classify(errors.New("plain")))
	require.Equal(t, SeverityError, MapSeverity("bogus"))
}
