package service

import (
	"context"
	"slices"
	"strings"

	"github.com/rs/zerolog"

	"github.com/deppfellow/jobly/internal/errs"
	"github.com/deppfellow/jobly/internal/model"
	"github.com/deppfellow/jobly/internal/query"
	"github.com/deppfellow/jobly/internal/repository"
)

// JobStore is the storage JobService needs.
// *repository.JobRepository implements it.
type JobStore interface {
	Create(ctx context.Context, in model.NewJob) (*model.Job, error)
	Find(ctx context.Context, filters query.FilterValues) ([]model.JobListing, error)
	Get(ctx context.Context, id int) (*model.JobDetail, error)
	Update(ctx context.Context, id int, req query.UpdateRequest) (*model.Job, error)
	Remove(ctx context.Context, id int) error
}

// CompanyChecker answers whether a company exists.
type CompanyChecker interface {
	Exists(ctx context.Context, handle string) (bool, error)
}

// JobNotifier announces new job postings. *job.JobService implements it.
type JobNotifier interface {
	NotifyJobPosted(ctx context.Context, job model.Job) error
}

type JobService struct {
	logger    *zerolog.Logger
	store     JobStore
	companies CompanyChecker
	notifier  JobNotifier
}

// NewJobService builds the service; notifier may be nil.
func NewJobService(logger *zerolog.Logger, store JobStore, companies CompanyChecker, notifier JobNotifier) *JobService {
	return &JobService{
		logger:    logger,
		store:     store,
		companies: companies,
		notifier:  notifier,
	}
}

// Create validates in, checks the company exists and inserts the job. A
// failed notification is logged and does not fail the create.
func (s *JobService) Create(ctx context.Context, in model.NewJob) (*model.Job, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return nil, errs.NewValidationError("title", "is required")
	}
	if in.CompanyHandle == "" {
		return nil, errs.NewValidationError("companyHandle", "is required")
	}
	if in.Salary != nil {
		if err := validateCount("salary", *in.Salary); err != nil {
			return nil, err
		}
	}
	if in.Equity != nil {
		if err := validateEquity(*in.Equity); err != nil {
			return nil, err
		}
	}

	exists, err := s.companies.Exists(ctx, in.CompanyHandle)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, errs.NewNotFound("company", in.CompanyHandle)
	}

	job, err := s.store.Create(ctx, in)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int("job_id", job.ID).
		Str("company_handle", job.CompanyHandle).
		Msg("job created")

	if s.notifier != nil {
		if err := s.notifier.NotifyJobPosted(ctx, *job); err != nil {
			s.logger.Error().Err(err).Int("job_id", job.ID).Msg("failed to enqueue job posted notification")
		}
	}

	return job, nil
}

// Find lists jobs; see repository.JobFilters for the filter names.
func (s *JobService) Find(ctx context.Context, filters query.FilterValues) ([]model.JobListing, error) {
	return s.store.Find(ctx, filters)
}

func (s *JobService) Get(ctx context.Context, id int) (*model.JobDetail, error) {
	return s.store.Get(ctx, id)
}

// Update applies a partial update after checking every assigned field.
func (s *JobService) Update(ctx context.Context, id int, req query.UpdateRequest) (*model.Job, error) {
	if err := query.ValidateUpdate(req); err != nil {
		return nil, err
	}

	for _, a := range req {
		if err := validateJobField(a); err != nil {
			return nil, err
		}
	}

	job, err := s.store.Update(ctx, id, req)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int("job_id", id).
		Strs("fields", req.Fields()).
		Msg("job updated")

	return job, nil
}

func (s *JobService) Remove(ctx context.Context, id int) error {
	if err := s.store.Remove(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Int("job_id", id).Msg("job removed")

	return nil
}

func validateEquity(equity float64) error {
	if equity < 0 || equity > 1 {
		return errs.NewValidationError("equity", "must be between 0 and 1")
	}
	return nil
}

func validateJobField(a query.Assignment) error {
	if !slices.Contains(repository.JobUpdatableFields, a.Field) {
		return errs.NewValidationError(a.Field, "cannot be updated")
	}

	switch a.Field {
	case "title":
		s, ok := a.Value.(string)
		if !ok || strings.TrimSpace(s) == "" {
			return errs.NewValidationError(a.Field, "must be a non-empty string")
		}
	case "salary":
		if a.Value == nil {
			return nil
		}
		n, ok := a.Value.(int)
		if !ok {
			return errs.NewValidationError(a.Field, "must be an integer")
		}
		return validateCount(a.Field, n)
	case "equity":
		if a.Value == nil {
			return nil
		}
		f, ok := a.Value.(float64)
		if !ok {
			return errs.NewValidationError(a.Field, "must be a number")
		}
		return validateEquity(f)
	}

	return nil
}
