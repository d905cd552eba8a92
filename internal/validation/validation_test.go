package validation

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/jobly/internal/errs"
)

type createRequest struct {
	Name  string `json:"name" validate:"required,max=5"`
	Count *int   `json:"count" validate:"omitempty,gte=0"`
}

func (r *createRequest) Validate() error { return Struct(r) }

type selfBound struct {
	Handle string
}

func (r *selfBound) Bind(c echo.Context) error {
	r.Handle = c.Param("handle")
	if r.Handle == "bad" {
		return errs.NewValidationError("handle", "is bad")
	}
	return nil
}

func (r *selfBound) Validate() error {
	if r.Handle == "custom" {
		return CustomValidationErrors{{Field: "handle", Message: "is reserved"}}
	}
	return nil
}

func newContext(body string) echo.Context {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return echo.New().NewContext(req, httptest.NewRecorder())
}

func requireHTTPError(t *testing.T, err error) *errs.HTTPError {
	t.Helper()

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	require.Equal(t, http.StatusBadRequest, httpErr.Status)
	return httpErr
}

func TestBindAndValidate_tags(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
		msg   string
	}{
		{name: "missing", body: `{}`, field: "name", msg: "is required"},
		{name: "too long", body: `{"name":"abcdefg"}`, field: "name", msg: "must not exceed 5 characters"},
		{name: "negative", body: `{"name":"a","count":-1}`, field: "count", msg: "must be greater than or equal to 0"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := BindAndValidate(newContext(tc.body), &createRequest{})

			httpErr := requireHTTPError(t, err)
			require.Len(t, httpErr.Errors, 1)
			require.Equal(t, tc.field, httpErr.Errors[0].Field)
			require.Equal(t, tc.msg, httpErr.Errors[0].Error)
		})
	}
}

func TestBindAndValidate_ok(t *testing.T) {
	req := &createRequest{}
	require.NoError(t, BindAndValidate(newContext(`{"name":"acme","count":3}`), req))
	require.Equal(t, "acme", req.Name)
	require.Equal(t, 3, *req.Count)
}

func TestBindAndValidate_malformedBody(t *testing.T) {
	err := BindAndValidate(newContext(`{"name":`), &createRequest{})

	httpErr := requireHTTPError(t, err)
	require.NotEmpty(t, httpErr.Message)
	require.Empty(t, httpErr.Errors)
}

func TestBindAndValidate_binder(t *testing.T) {
	c := newContext("")
	c.SetParamNames("handle")

	c.SetParamValues("bad")
	httpErr := requireHTTPError(t, BindAndValidate(c, &selfBound{}))
	require.Equal(t, "handle", httpErr.Errors[0].Field)

	c.SetParamValues("custom")
	httpErr = requireHTTPError(t, BindAndValidate(c, &selfBound{}))
	require.Equal(t, "is reserved", httpErr.Errors[0].Error)

	c.SetParamValues("acme")
	req := &selfBound{}
	require.NoError(t, BindAndValidate(c, req))
	require.Equal(t, "acme", req.Handle)
}

func TestExtractValidationError_domain(t *testing.T) {
	msg, fields := extractValidationError(errs.NewValidationError("minSalary", "must not be negative"))
	require.Equal(t, "Validation failed", msg)
	require.Equal(t, []errs.FieldError{{Field: "minSalary", Error: "must not be negative"}}, fields)
}
