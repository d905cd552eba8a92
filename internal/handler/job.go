package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/jobly/internal/model"
	"github.com/deppfellow/jobly/internal/query"
	"github.com/deppfellow/jobly/internal/repository"
	"github.com/deppfellow/jobly/internal/server"
	"github.com/deppfellow/jobly/internal/validation"
)

type jobService interface {
	Create(ctx context.Context, in model.NewJob) (*model.Job, error)
	Find(ctx context.Context, filters query.FilterValues) ([]model.JobListing, error)
	Get(ctx context.Context, id int) (*model.JobDetail, error)
	Update(ctx context.Context, id int, req query.UpdateRequest) (*model.Job, error)
	Remove(ctx context.Context, id int) error
}

type JobHandler struct {
	Handler
	jobs jobService
}

func NewJobHandler(s *server.Server, jobs jobService) *JobHandler {
	return &JobHandler{
		Handler: NewHandler(s),
		jobs:    jobs,
	}
}

type JobResponse[T any] struct {
	Job T `json:"job"`
}

type JobsResponse struct {
	Jobs []model.JobListing `json:"jobs"`
}

type CreateJobRequest struct {
	Title         string   `json:"title" validate:"required"`
	Salary        *int     `json:"salary" validate:"omitempty,gte=0"`
	Equity        *float64 `json:"equity" validate:"omitempty,gte=0,lte=1"`
	CompanyHandle string   `json:"companyHandle" validate:"required,max=25"`
}

func (r *CreateJobRequest) Bind(c echo.Context) error {
	return decodeStrict(c, r)
}

func (r *CreateJobRequest) Validate() error {
	return validation.Struct(r)
}

type ListJobsRequest struct {
	Filters query.FilterValues
}

func (r *ListJobsRequest) Bind(c echo.Context) error {
	filters, err := filtersFromQuery(c)
	r.Filters = filters
	return err
}

func (r *ListJobsRequest) Validate() error {
	_, err := query.ValidateFilters(repository.JobFilters, r.Filters)
	return err
}

type JobIDRequest struct {
	ID int
}

func (r *JobIDRequest) Bind(c echo.Context) error {
	id, err := pathID(c)
	r.ID = id
	return err
}

func (r *JobIDRequest) Validate() error {
	return nil
}

// UpdateJobRequest is the PATCH /jobs/:id body. A job's id and company
// cannot change.
type UpdateJobRequest struct {
	ID     int                     `json:"-"`
	Title  query.Nullable[string]  `json:"title"`
	Salary query.Nullable[int]     `json:"salary"`
	Equity query.Nullable[float64] `json:"equity"`
}

func (r *UpdateJobRequest) Bind(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	r.ID = id
	return decodeStrict(c, r)
}

func (r *UpdateJobRequest) Validate() error {
	return query.ValidateUpdate(r.UpdateRequest())
}

func (r *UpdateJobRequest) UpdateRequest() query.UpdateRequest {
	var req query.UpdateRequest
	req = r.Title.AppendTo(req, "title")
	req = r.Salary.AppendTo(req, "salary")
	req = r.Equity.AppendTo(req, "equity")
	return req
}

func (h *JobHandler) CreateJob(c echo.Context) error {
	return Handle(h.Handler, func(c echo.Context, req *CreateJobRequest) (JobResponse[*model.Job], error) {
		job, err := h.jobs.Create(c.Request().Context(), model.NewJob{
			Title:         req.Title,
			Salary:        req.Salary,
			Equity:        req.Equity,
			CompanyHandle: req.CompanyHandle,
		})
		return JobResponse[*model.Job]{Job: job}, err
	}, http.StatusCreated)(c)
}

func (h *JobHandler) ListJobs(c echo.Context) error {
	return Handle(h.Handler, func(c echo.Context, req *ListJobsRequest) (JobsResponse, error) {
		jobs, err := h.jobs.Find(c.Request().Context(), req.Filters)
		return JobsResponse{Jobs: jobs}, err
	}, http.StatusOK)(c)
}

func (h *JobHandler) GetJob(c echo.Context) error {
	return Handle(h.Handler, func(c echo.Context, req *JobIDRequest) (JobResponse[*model.JobDetail], error) {
		job, err := h.jobs.Get(c.Request().Context(), req.ID)
		return JobResponse[*model.JobDetail]{Job: job}, err
	}, http.StatusOK)(c)
}

func (h *JobHandler) UpdateJob(c echo.Context) error {
	return Handle(h.Handler, func(c echo.Context, req *UpdateJobRequest) (JobResponse[*model.Job], error) {
		job, err := h.jobs.Update(c.Request().Context(), req.ID, req.UpdateRequest())
		return JobResponse[*model.Job]{Job: job}, err
	}, http.StatusOK)(c)
}

func (h *JobHandler) DeleteJob(c echo.Context) error {
	return Handle(h.Handler, func(c echo.Context, req *JobIDRequest) (DeletedResponse[int], error) {
		err := h.jobs.Remove(c.Request().Context(), req.ID)
		return DeletedResponse[int]{Deleted: req.ID}, err
	}, http.StatusOK)(c)
}
