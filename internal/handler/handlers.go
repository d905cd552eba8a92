package handler

import (
	"github.com/deppfellow/jobly/internal/server"
	"github.com/deppfellow/jobly/internal/service"
)

type Handlers struct {
	Health    *HealthHandler
	OpenAPI   *OpenAPIHandler
	Companies *CompanyHandler
	Jobs      *JobHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:    NewHealthHandler(s),
		OpenAPI:   NewOpenAPIHandler(s),
		Companies: NewCompanyHandler(s, services.Companies),
		Jobs:      NewJobHandler(s, services.Jobs),
	}
}
