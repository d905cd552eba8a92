package repository

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/deppfellow/jobly/internal/database"
	"github.com/deppfellow/jobly/internal/errs"
	"github.com/deppfellow/jobly/internal/model"
	"github.com/deppfellow/jobly/internal/query"
	"github.com/deppfellow/jobly/internal/sqlerr"
)

const companyEntity = "company"

// companyNameConstraint is the unique constraint on companies.name.
const companyNameConstraint = "companies_name_key"

const companyColumnsSQL = `handle, name, description, num_employees, logo_url`

var companyColumns = query.NewColumnMapping(map[string]string{
	"numEmployees": "num_employees",
	"logoUrl":      "logo_url",
})

// CompanyFilters is the filter schema of the company listing. Employee
// bounds are limited to the range of the INTEGER num_employees column.
var CompanyFilters = query.FilterSpec{
	Columns: companyColumns,
	Filters: []query.Filter{
		{Name: "nameLike", Field: "name", Kind: query.Pattern},
		{Name: "minEmployees", Field: "numEmployees", Kind: query.LowerBound, Range: "employees", Integer: true, NonNegative: true, Max: math.MaxInt32},
		{Name: "maxEmployees", Field: "numEmployees", Kind: query.UpperBound, Range: "employees", Integer: true, NonNegative: true, Max: math.MaxInt32},
	},
}

// CompanyUpdatableFields lists the fields a company update may assign.
var CompanyUpdatableFields = []string{"name", "description", "numEmployees", "logoUrl"}

type CompanyRepository struct {
	db database.Executor
}

func NewCompanyRepository(db database.Executor) *CompanyRepository {
	return &CompanyRepository{db: db}
}

// Create inserts a company. A taken handle or name is a *errs.ConflictError.
func (r *CompanyRepository) Create(ctx context.Context, in model.NewCompany) (*model.Company, error) {
	stmt := `
		INSERT INTO companies (handle, name, description, num_employees, logo_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + companyColumnsSQL

	rows, err := r.db.Query(ctx, stmt, in.Handle, in.Name, in.Description, in.NumEmployees, in.LogoURL)
	if err != nil {
		return nil, companyWriteError(err, in.Handle, in.Name)
	}

	company, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[model.Company])
	if err != nil {
		return nil, companyWriteError(err, in.Handle, in.Name)
	}

	return &company, nil
}

// Exists reports whether a company with handle exists.
func (r *CompanyRepository) Exists(ctx context.Context, handle string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM companies WHERE handle = $1)`, handle).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check company handle=%s: %w", handle, err)
	}
	return exists, nil
}

// NameTaken reports whether a company other than exceptHandle uses name.
func (r *CompanyRepository) NameTaken(ctx context.Context, name, exceptHandle string) (bool, error) {
	var taken bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM companies WHERE name = $1 AND handle <> $2)`,
		name, exceptHandle,
	).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("failed to check company name=%s: %w", name, err)
	}
	return taken, nil
}

// Find lists companies matching filters, ordered by name then handle.
func (r *CompanyRepository) Find(ctx context.Context, filters query.FilterValues) ([]model.Company, error) {
	predicate, err := query.BuildWhere(CompanyFilters, filters)
	if err != nil {
		return nil, err
	}

	stmt := `SELECT ` + companyColumnsSQL + ` FROM companies` + where(predicate) + ` ORDER BY name, handle`

	rows, err := r.db.Query(ctx, stmt, predicate.Args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute find companies query: %w", err)
	}

	companies, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Company])
	if err != nil {
		return nil, fmt.Errorf("failed to collect rows from table:companies: %w", err)
	}

	return companies, nil
}

// Get returns the company with its jobs ordered by id.
func (r *CompanyRepository) Get(ctx context.Context, handle string) (*model.CompanyDetail, error) {
	rows, err := r.db.Query(ctx, `SELECT `+companyColumnsSQL+` FROM companies WHERE handle = $1`, handle)
	if err != nil {
		return nil, fmt.Errorf("failed to execute get company query for handle=%s: %w", handle, err)
	}

	company, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[model.Company])
	if err != nil {
		if isNoRows(err) {
			return nil, errs.NewNotFound(companyEntity, handle)
		}
		return nil, fmt.Errorf("failed to collect row from table:companies for handle=%s: %w", handle, err)
	}

	rows, err = r.db.Query(ctx,
		`SELECT id, title, salary, equity FROM jobs WHERE company_handle = $1 ORDER BY id`,
		handle,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to execute company jobs query for handle=%s: %w", handle, err)
	}

	jobs, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.JobSummary])
	if err != nil {
		return nil, fmt.Errorf("failed to collect rows from table:jobs for handle=%s: %w", handle, err)
	}
	if jobs == nil {
		jobs = []model.JobSummary{}
	}

	return &model.CompanyDetail{Company: company, Jobs: jobs}, nil
}

// Update applies a partial update. The handle itself is not updatable.
func (r *CompanyRepository) Update(ctx context.Context, handle string, req query.UpdateRequest) (*model.Company, error) {
	set, err := query.BuildUpdate(req, companyColumns)
	if err != nil {
		return nil, err
	}

	stmt := fmt.Sprintf(`UPDATE companies SET %s WHERE handle = $%d RETURNING %s`,
		set.SQL, set.Next(), companyColumnsSQL)
	args := slices.Concat(set.Args, []any{handle})

	name, _ := req.Lookup("name")

	rows, err := r.db.Query(ctx, stmt, args...)
	if err != nil {
		return nil, companyWriteError(err, handle, fmt.Sprint(name))
	}

	company, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[model.Company])
	if err != nil {
		if isNoRows(err) {
			return nil, errs.NewNotFound(companyEntity, handle)
		}
		return nil, companyWriteError(err, handle, fmt.Sprint(name))
	}

	return &company, nil
}

// Remove deletes the company and, through the foreign key, its jobs.
func (r *CompanyRepository) Remove(ctx context.Context, handle string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM companies WHERE handle = $1`, handle)
	if err != nil {
		return fmt.Errorf("failed to execute remove company query for handle=%s: %w", handle, err)
	}

	if tag.RowsAffected() == 0 {
		return errs.NewNotFound(companyEntity, handle)
	}

	return nil
}

// companyWriteError turns a unique violation into a conflict on the
// column that collided.
func companyWriteError(err error, handle, name string) error {
	if !sqlerr.IsUniqueViolation(err) {
		return fmt.Errorf("failed to write table:companies for handle=%s: %w", handle, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.ConstraintName == companyNameConstraint {
		return errs.NewConflict(companyEntity, name)
	}

	return errs.NewConflict(companyEntity, handle)
}
