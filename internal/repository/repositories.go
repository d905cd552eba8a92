package repository

import (
	"github.com/deppfellow/jobly/internal/server"
)

// Repositories is the container of all repositories, sharing the server's pool.
type Repositories struct {
	Companies *CompanyRepository
	Jobs      *JobRepository
}

func NewRepositories(s *server.Server) *Repositories {
	return &Repositories{
		Companies: NewCompanyRepository(s.DB.Pool),
		Jobs:      NewJobRepository(s.DB.Pool),
	}
}
