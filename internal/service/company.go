package service

import (
	"context"
	"math"
	"slices"
	"strings"

	"github.com/gosimple/slug"
	"github.com/rs/zerolog"

	"github.com/deppfellow/jobly/internal/errs"
	"github.com/deppfellow/jobly/internal/model"
	"github.com/deppfellow/jobly/internal/query"
	"github.com/deppfellow/jobly/internal/repository"
)

// MaxHandleLength matches the width of companies.handle.
const MaxHandleLength = 25

// MaxCount is the largest value the INTEGER columns num_employees and
// salary hold.
const MaxCount = math.MaxInt32

// CompanyStore is the storage CompanyService needs.
// *repository.CompanyRepository implements it.
type CompanyStore interface {
	Create(ctx context.Context, in model.NewCompany) (*model.Company, error)
	Exists(ctx context.Context, handle string) (bool, error)
	NameTaken(ctx context.Context, name, exceptHandle string) (bool, error)
	Find(ctx context.Context, filters query.FilterValues) ([]model.Company, error)
	Get(ctx context.Context, handle string) (*model.CompanyDetail, error)
	Update(ctx context.Context, handle string, req query.UpdateRequest) (*model.Company, error)
	Remove(ctx context.Context, handle string) error
}

type CompanyService struct {
	logger *zerolog.Logger
	store  CompanyStore
}

func NewCompanyService(logger *zerolog.Logger, store CompanyStore) *CompanyService {
	return &CompanyService{logger: logger, store: store}
}

// Create validates in and inserts it. An empty handle is derived from the
// name. A taken handle or name is a *errs.ConflictError.
func (s *CompanyService) Create(ctx context.Context, in model.NewCompany) (*model.Company, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, errs.NewValidationError("name", "is required")
	}
	if strings.TrimSpace(in.Description) == "" {
		return nil, errs.NewValidationError("description", "is required")
	}

	if in.Handle == "" {
		in.Handle = deriveHandle(in.Name)
	}
	if err := validateHandle(in.Handle); err != nil {
		return nil, err
	}

	if in.NumEmployees != nil {
		if err := validateCount("numEmployees", *in.NumEmployees); err != nil {
			return nil, err
		}
	}

	exists, err := s.store.Exists(ctx, in.Handle)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errs.NewConflict("company", in.Handle)
	}

	taken, err := s.store.NameTaken(ctx, in.Name, in.Handle)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, errs.NewConflict("company", in.Name)
	}

	company, err := s.store.Create(ctx, in)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("handle", company.Handle).Msg("company created")

	return company, nil
}

// Find lists companies; see repository.CompanyFilters for the filter names.
func (s *CompanyService) Find(ctx context.Context, filters query.FilterValues) ([]model.Company, error) {
	return s.store.Find(ctx, filters)
}

func (s *CompanyService) Get(ctx context.Context, handle string) (*model.CompanyDetail, error) {
	return s.store.Get(ctx, handle)
}

// Update applies a partial update after checking every assigned field.
func (s *CompanyService) Update(ctx context.Context, handle string, req query.UpdateRequest) (*model.Company, error) {
	if err := query.ValidateUpdate(req); err != nil {
		return nil, err
	}

	for _, a := range req {
		if err := validateCompanyField(a); err != nil {
			return nil, err
		}
	}

	if v, ok := req.Lookup("name"); ok {
		taken, err := s.store.NameTaken(ctx, v.(string), handle)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, errs.NewConflict("company", v)
		}
	}

	company, err := s.store.Update(ctx, handle, req)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("handle", handle).
		Strs("fields", req.Fields()).
		Msg("company updated")

	return company, nil
}

// Remove deletes the company and its jobs.
func (s *CompanyService) Remove(ctx context.Context, handle string) error {
	if err := s.store.Remove(ctx, handle); err != nil {
		return err
	}

	s.logger.Info().Str("handle", handle).Msg("company removed")

	return nil
}

// deriveHandle slugifies name and cuts it to MaxHandleLength on a word
// boundary when possible.
func deriveHandle(name string) string {
	handle := slug.Make(name)
	if len(handle) <= MaxHandleLength {
		return handle
	}

	handle = handle[:MaxHandleLength]
	if i := strings.LastIndexByte(handle, '-'); i > 0 {
		handle = handle[:i]
	}
	return strings.TrimRight(handle, "-")
}

func validateHandle(handle string) error {
	if len(handle) > MaxHandleLength {
		return errs.NewValidationError("handle", "must be at most %d characters", MaxHandleLength)
	}
	if !slug.IsSlug(handle) {
		return errs.NewValidationError("handle", "must be lowercase letters, digits and single dashes")
	}
	return nil
}

// validateCount checks n fits a non-negative INTEGER column.
func validateCount(field string, n int) error {
	if n < 0 {
		return errs.NewValidationError(field, "must not be negative")
	}
	if n > MaxCount {
		return errs.NewValidationError(field, "must not exceed %d", MaxCount)
	}
	return nil
}

func validateCompanyField(a query.Assignment) error {
	if !slices.Contains(repository.CompanyUpdatableFields, a.Field) {
		return errs.NewValidationError(a.Field, "cannot be updated")
	}

	switch a.Field {
	case "name", "description":
		s, ok := a.Value.(string)
		if !ok || strings.TrimSpace(s) == "" {
			return errs.NewValidationError(a.Field, "must be a non-empty string")
		}
	case "numEmployees":
		if a.Value == nil {
			return nil
		}
		n, ok := a.Value.(int)
		if !ok {
			return errs.NewValidationError(a.Field, "must be an integer")
		}
		return validateCount(a.Field, n)
	case "logoUrl":
		if a.Value == nil {
			return nil
		}
		if _, ok := a.Value.(string); !ok {
			return errs.NewValidationError(a.Field, "must be a string")
		}
	}

	return nil
}
