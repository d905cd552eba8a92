package repository

import (
	"context"
	"fmt"
	"slices"

	"github.com/jackc/pgx/v5"

	"github.com/deppfellow/jobly/internal/database"
	"github.com/deppfellow/jobly/internal/errs"
	"github.com/deppfellow/jobly/internal/model"
	"github.com/deppfellow/jobly/internal/query"
	"github.com/deppfellow/jobly/internal/sqlerr"
)

const jobEntity = "job"

const jobColumnsSQL = `id, title, salary, equity, company_handle`

var jobColumns = query.NewColumnMapping(map[string]string{
	"companyHandle": "company_handle",
})

// JobFilters is the filter schema of the job listing. Columns are qualified
// with the "j" alias used by the listing query.
//
// minSalary is compared as numeric: salary is an integer column and the
// bound may be fractional.
var JobFilters = query.FilterSpec{
	Columns:   jobColumns,
	Qualifier: "j",
	Filters: []query.Filter{
		{Name: "titleLike", Field: "title", Kind: query.Pattern},
		{Name: "minSalary", Field: "salary", Kind: query.LowerBound, NonNegative: true, Cast: "numeric"},
		{Name: "hasEquity", Field: "equity", Kind: query.Gate, Predicate: "> 0"},
	},
}

// JobUpdatableFields lists the fields a job update may assign. The id and
// owning company are fixed at creation.
var JobUpdatableFields = []string{"title", "salary", "equity"}

type JobRepository struct {
	db database.Executor
}

func NewJobRepository(db database.Executor) *JobRepository {
	return &JobRepository{db: db}
}

// Create inserts a job. An unknown company is a *errs.NotFoundError.
func (r *JobRepository) Create(ctx context.Context, in model.NewJob) (*model.Job, error) {
	stmt := `
		INSERT INTO jobs (title, salary, equity, company_handle)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + jobColumnsSQL

	rows, err := r.db.Query(ctx, stmt, in.Title, in.Salary, in.Equity, in.CompanyHandle)
	if err != nil {
		return nil, jobWriteError(err, in.CompanyHandle)
	}

	job, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[model.Job])
	if err != nil {
		return nil, jobWriteError(err, in.CompanyHandle)
	}

	return &job, nil
}

// Find lists jobs matching filters with their company's name, ordered by
// title then id.
func (r *JobRepository) Find(ctx context.Context, filters query.FilterValues) ([]model.JobListing, error) {
	predicate, err := query.BuildWhere(JobFilters, filters)
	if err != nil {
		return nil, err
	}

	stmt := `
		SELECT j.id, j.title, j.salary, j.equity, j.company_handle, c.name AS company_name
		FROM jobs j
		JOIN companies c ON c.handle = j.company_handle` +
		where(predicate) + `
		ORDER BY j.title, j.id`

	rows, err := r.db.Query(ctx, stmt, predicate.Args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute find jobs query: %w", err)
	}

	jobs, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.JobListing])
	if err != nil {
		return nil, fmt.Errorf("failed to collect rows from table:jobs: %w", err)
	}

	return jobs, nil
}

// Get returns the job with its owning company.
func (r *JobRepository) Get(ctx context.Context, id int) (*model.JobDetail, error) {
	stmt := `
		SELECT j.id, j.title, j.salary, j.equity,
		       c.handle, c.name, c.description, c.num_employees, c.logo_url
		FROM jobs j
		JOIN companies c ON c.handle = j.company_handle
		WHERE j.id = $1`

	var job model.JobDetail
	err := r.db.QueryRow(ctx, stmt, id).Scan(
		&job.ID, &job.Title, &job.Salary, &job.Equity,
		&job.Company.Handle, &job.Company.Name, &job.Company.Description,
		&job.Company.NumEmployees, &job.Company.LogoURL,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, errs.NewNotFound(jobEntity, id)
		}
		return nil, fmt.Errorf("failed to get job id=%d: %w", id, err)
	}

	return &job, nil
}

// Update applies a partial update to the job.
func (r *JobRepository) Update(ctx context.Context, id int, req query.UpdateRequest) (*model.Job, error) {
	set, err := query.BuildUpdate(req, jobColumns)
	if err != nil {
		return nil, err
	}

	stmt := fmt.Sprintf(`UPDATE jobs SET %s WHERE id = $%d RETURNING %s`,
		set.SQL, set.Next(), jobColumnsSQL)
	args := slices.Concat(set.Args, []any{id})

	rows, err := r.db.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute update job query for id=%d: %w", id, err)
	}

	job, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[model.Job])
	if err != nil {
		if isNoRows(err) {
			return nil, errs.NewNotFound(jobEntity, id)
		}
		return nil, fmt.Errorf("failed to update job id=%d: %w", id, err)
	}

	return &job, nil
}

// Remove deletes the job.
func (r *JobRepository) Remove(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to execute remove job query for id=%d: %w", id, err)
	}

	if tag.RowsAffected() == 0 {
		return errs.NewNotFound(jobEntity, id)
	}

	return nil
}

// jobWriteError turns a foreign key violation into a missing company.
func jobWriteError(err error, companyHandle string) error {
	if sqlerr.IsForeignKeyViolation(err) {
		return errs.NewNotFound(companyEntity, companyHandle)
	}
	return fmt.Errorf("failed to write table:jobs for company_handle=%s: %w", companyHandle, err)
}
