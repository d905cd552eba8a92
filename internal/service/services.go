package service

import (
	"github.com/deppfellow/jobly/internal/lib/job"
	"github.com/deppfellow/jobly/internal/repository"
	"github.com/deppfellow/jobly/internal/server"
)

type Services struct {
	Auth      *AuthService
	Job       *job.JobService
	Companies *CompanyService
	Jobs      *JobService
}

func NewService(s *server.Server, repos *repository.Repositories) (*Services, error) {
	authService := NewAuthService(s)

	var notifier JobNotifier
	if s.Job != nil {
		notifier = s.Job
	}

	return &Services{
		Auth:      authService,
		Job:       s.Job,
		Companies: NewCompanyService(s.Logger, repos.Companies),
		Jobs:      NewJobService(s.Logger, repos.Jobs, repos.Companies, notifier),
	}, nil
}
