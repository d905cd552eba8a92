package router_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/jobly/internal/config"
	"github.com/deppfellow/jobly/internal/handler"
	"github.com/deppfellow/jobly/internal/middleware"
	"github.com/deppfellow/jobly/internal/router"
	"github.com/deppfellow/jobly/internal/server"
	"github.com/deppfellow/jobly/internal/service"
)

// newRouter builds the full router without database or Redis. Only routes
// that never reach a service can be exercised.
func newRouter() http.Handler {
	logger := zerolog.Nop()
	s := &server.Server{
		Config: &config.Config{
			Primary:       config.Primary{Env: "local"},
			Observability: config.DefaultObservabilityConfig(),
		},
		Logger: &logger,
	}

	return router.NewRouter(s, handler.NewHandlers(s, &service.Services{}))
}

func TestStatus_withoutDependencies(t *testing.T) {
	rec := httptest.NewRecorder()
	newRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))

	var body handler.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "healthy", body.Status)
	require.Equal(t, "local", body.Environment)
	require.Empty(t, body.Checks)
}

func TestRequestID_propagated(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	req.Header.Set(middleware.RequestIDHeader, "req-123")

	rec := httptest.NewRecorder()
	newRouter().ServeHTTP(rec, req)

	require.Equal(t, "req-123", rec.Header().Get(middleware.RequestIDHeader))
}

func TestWrites_requireAuth(t *testing.T) {
	r := newRouter()

	for _, tc := range []struct{ method, target string }{
		{http.MethodPost, "/v1/companies"},
		{http.MethodPatch, "/v1/companies/acme"},
		{http.MethodDelete, "/v1/companies/acme"},
		{http.MethodPost, "/v1/jobs"},
		{http.MethodPatch, "/v1/jobs/1"},
		{http.MethodDelete, "/v1/jobs/1"},
	} {
		req := httptest.NewRequest(tc.method, tc.target, strings.NewReader(`{}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", tc.method, tc.target)
	}
}
