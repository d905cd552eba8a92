package router

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/jobly/internal/handler"
	"github.com/deppfellow/jobly/internal/middleware"
)

// Reads are public; every write requires a Clerk session.

func registerCompanyRoutes(g *echo.Group, h *handler.CompanyHandler, auth *middleware.AuthMiddleware) {
	companies := g.Group("/companies")

	companies.GET("", h.ListCompanies)
	companies.GET("/:handle", h.GetCompany)

	companies.POST("", h.CreateCompany, auth.RequireAuth)
	companies.PATCH("/:handle", h.UpdateCompany, auth.RequireAuth)
	companies.DELETE("/:handle", h.DeleteCompany, auth.RequireAuth)
}

func registerJobRoutes(g *echo.Group, h *handler.JobHandler, auth *middleware.AuthMiddleware) {
	jobs := g.Group("/jobs")

	jobs.GET("", h.ListJobs)
	jobs.GET("/:id", h.GetJob)

	jobs.POST("", h.CreateJob, auth.RequireAuth)
	jobs.PATCH("/:id", h.UpdateJob, auth.RequireAuth)
	jobs.DELETE("/:id", h.DeleteJob, auth.RequireAuth)
}
