// Package router builds the echo instance: global middlewares, the error
// handler, system routes and the versioned API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/jobly/internal/handler"
	"github.com/deppfellow/jobly/internal/middleware"
	"github.com/deppfellow/jobly/internal/server"
)

func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true

	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	router.Use(
		middlewares.RateLimit.Limit(),
		middlewares.Global.CORS(),
		middlewares.Global.Secure(),
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Recover(),
	)

	registerSystemRoutes(router, h)

	v1 := router.Group("/v1")
	registerCompanyRoutes(v1, h.Companies, middlewares.Auth)
	registerJobRoutes(v1, h.Jobs, middlewares.Auth)

	return router
}
