package service_test

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/jobly/internal/errs"
	"github.com/deppfellow/jobly/internal/model"
	"github.com/deppfellow/jobly/internal/query"
	"github.com/deppfellow/jobly/internal/repository"
	"github.com/deppfellow/jobly/internal/service"
)

func ptr[T any](v T) *T { return &v }

// memCompanies is an in-memory CompanyStore. It only supports the nameLike
// filter, enough to see that filters reach the store.
type memCompanies struct {
	rows    map[string]model.Company
	creates int
	updates int
}

func newMemCompanies(companies ...model.Company) *memCompanies {
	m := &memCompanies{rows: map[string]model.Company{}}
	for _, c := range companies {
		m.rows[c.Handle] = c
	}
	return m
}

func (m *memCompanies) Create(_ context.Context, in model.NewCompany) (*model.Company, error) {
	m.creates++
	c := model.Company{Handle: in.Handle, Name: in.Name, Description: in.Description, NumEmployees: in.NumEmployees, LogoURL: in.LogoURL}
	m.rows[c.Handle] = c
	return &c, nil
}

func (m *memCompanies) Exists(_ context.Context, handle string) (bool, error) {
	_, ok := m.rows[handle]
	return ok, nil
}

func (m *memCompanies) NameTaken(_ context.Context, name, exceptHandle string) (bool, error) {
	for _, c := range m.rows {
		if c.Name == name && c.Handle != exceptHandle {
			return true, nil
		}
	}
	return false, nil
}

func (m *memCompanies) Find(_ context.Context, filters query.FilterValues) ([]model.Company, error) {
	if _, err := query.ValidateFilters(repository.CompanyFilters, filters); err != nil {
		return nil, err
	}
	like, _ := filters["nameLike"].(string)

	out := []model.Company{}
	for _, c := range m.rows {
		if strings.Contains(strings.ToLower(c.Name), strings.ToLower(like)) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memCompanies) Get(_ context.Context, handle string) (*model.CompanyDetail, error) {
	c, ok := m.rows[handle]
	if !ok {
		return nil, errs.NewNotFound("company", handle)
	}
	return &model.CompanyDetail{Company: c, Jobs: []model.JobSummary{}}, nil
}

func (m *memCompanies) Update(_ context.Context, handle string, req query.UpdateRequest) (*model.Company, error) {
	m.updates++
	c, ok := m.rows[handle]
	if !ok {
		return nil, errs.NewNotFound("company", handle)
	}
	for _, a := range req {
		switch a.Field {
		case "name":
			c.Name = a.Value.(string)
		case "description":
			c.Description = a.Value.(string)
		case "numEmployees":
			c.NumEmployees = nil
			if a.Value != nil {
				c.NumEmployees = ptr(a.Value.(int))
			}
		case "logoUrl":
			c.LogoURL = nil
			if a.Value != nil {
				c.LogoURL = ptr(a.Value.(string))
			}
		}
	}
	m.rows[handle] = c
	return &c, nil
}

func (m *memCompanies) Remove(_ context.Context, handle string) error {
	if _, ok := m.rows[handle]; !ok {
		return errs.NewNotFound("company", handle)
	}
	delete(m.rows, handle)
	return nil
}

type memJobs struct {
	rows   map[int]model.Job
	nextID int
}

func newMemJobs() *memJobs {
	return &memJobs{rows: map[int]model.Job{}, nextID: 1}
}

func (m *memJobs) Create(_ context.Context, in model.NewJob) (*model.Job, error) {
	j := model.Job{ID: m.nextID, Title: in.Title, Salary: in.Salary, Equity: in.Equity, CompanyHandle: in.CompanyHandle}
	m.rows[j.ID] = j
	m.nextID++
	return &j, nil
}

func (m *memJobs) Find(_ context.Context, _ query.FilterValues) ([]model.JobListing, error) {
	out := []model.JobListing{}
	for _, j := range m.rows {
		out = append(out, model.JobListing{Job: j})
	}
	return out, nil
}

func (m *memJobs) Get(_ context.Context, id int) (*model.JobDetail, error) {
	j, ok := m.rows[id]
	if !ok {
		return nil, errs.NewNotFound("job", id)
	}
	return &model.JobDetail{ID: j.ID, Title: j.Title, Salary: j.Salary, Equity: j.Equity}, nil
}

func (m *memJobs) Update(_ context.Context, id int, req query.UpdateRequest) (*model.Job, error) {
	j, ok := m.rows[id]
	if !ok {
		return nil, errs.NewNotFound("job", id)
	}
	for _, a := range req {
		switch a.Field {
		case "title":
			j.Title = a.Value.(string)
		case "salary":
			j.Salary = nil
			if a.Value != nil {
				j.Salary = ptr(a.Value.(int))
			}
		case "equity":
			j.Equity = nil
			if a.Value != nil {
				j.Equity = ptr(a.Value.(float64))
			}
		}
	}
	m.rows[id] = j
	return &j, nil
}

func (m *memJobs) Remove(_ context.Context, id int) error {
	if _, ok := m.rows[id]; !ok {
		return errs.NewNotFound("job", id)
	}
	delete(m.rows, id)
	return nil
}

type recordingNotifier struct {
	jobs []model.Job
	err  error
}

func (n *recordingNotifier) NotifyJobPosted(_ context.Context, job model.Job) error {
	n.jobs = append(n.jobs, job)
	return n.err
}


var nop = zerolog.Nop()

func acme() model.Company {
	return model.Company{Handle: "acme", Name: "Acme", Description: "Rockets", NumEmployees: ptr(10)}
}

func TestCompanyService_Create(t *testing.T) {
	tests := []struct {
		name string
		in   model.NewCompany

		wantHandle string
		wantErr    error
	}{
		{
			name:       "explicit handle",
			in:         model.NewCompany{Handle: "new-co", Name: "New Co", Description: "d", NumEmployees: ptr(0)},
			wantHandle: "new-co",
		},
		{
			name:       "handle derived from name",
			in:         model.NewCompany{Name: "Bits & Bytes, Inc.", Description: "d"},
			wantHandle: "bits-and-bytes-inc",
		},
		{
			name:       "derived handle cut on a word boundary",
			in:         model.NewCompany{Name: "International Widget Manufacturing Group", Description: "d"},
			wantHandle: "international-widget",
		},
		{
			name:    "negative employees",
			in:      model.NewCompany{Handle: "neg", Name: "Neg", Description: "d", NumEmployees: ptr(-1)},
			wantErr: errs.ErrValidation,
		},
		{
			name:    "employees beyond the column range",
			in:      model.NewCompany{Handle: "big", Name: "Big", Description: "d", NumEmployees: ptr(service.MaxCount + 1)},
			wantErr: errs.ErrValidation,
		},
		{
			name:       "employees at the column maximum",
			in:         model.NewCompany{Handle: "max", Name: "Max", Description: "d", NumEmployees: ptr(service.MaxCount)},
			wantHandle: "max",
		},
		{
			name:    "blank name",
			in:      model.NewCompany{Handle: "blank", Name: "  ", Description: "d"},
			wantErr: errs.ErrValidation,
		},
		{
			name:    "missing description",
			in:      model.NewCompany{Handle: "nodesc", Name: "No Desc"},
			wantErr: errs.ErrValidation,
		},
		{
			name:    "invalid handle",
			in:      model.NewCompany{Handle: "Not A Slug", Name: "X", Description: "d"},
			wantErr: errs.ErrValidation,
		},
		{
			name:    "duplicate handle",
			in:      model.NewCompany{Handle: "acme", Name: "Other", Description: "d"},
			wantErr: errs.ErrConflict,
		},
		{
			name:    "duplicate name",
			in:      model.NewCompany{Handle: "acme-2", Name: "Acme", Description: "d"},
			wantErr: errs.ErrConflict,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := newMemCompanies(acme())
			svc := service.NewCompanyService(&nop, store)

			got, err := svc.Create(context.Background(), tc.in)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				require.Zero(t, store.creates)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tc.wantHandle, got.Handle)
			require.Equal(t, 1, store.creates)
		})
	}
}

func TestCompanyService_Update(t *testing.T) {
	tests := []struct {
		name    string
		handle  string
		req     query.UpdateRequest
		wantErr error
	}{
		{name: "empty request", handle: "acme", req: query.UpdateRequest{}, wantErr: errs.ErrValidation},
		{name: "handle not updatable", handle: "acme", req: query.UpdateRequest{}.Set("handle", "x"), wantErr: errs.ErrValidation},
		{name: "null name", handle: "acme", req: query.UpdateRequest{}.Set("name", nil), wantErr: errs.ErrValidation},
		{name: "negative employees", handle: "acme", req: query.UpdateRequest{}.Set("numEmployees", -5), wantErr: errs.ErrValidation},
		{name: "employees beyond the column range", handle: "acme", req: query.UpdateRequest{}.Set("numEmployees", service.MaxCount+1), wantErr: errs.ErrValidation},
		{name: "name taken", handle: "acme", req: query.UpdateRequest{}.Set("name", "Globex"), wantErr: errs.ErrConflict},
		{name: "unknown company", handle: "nope", req: query.UpdateRequest{}.Set("description", "x"), wantErr: errs.ErrNotFound},
		{name: "ok", handle: "acme", req: query.UpdateRequest{}.Set("numEmployees", nil).Set("name", "Acme Corp")},
		{name: "own name is not a conflict", handle: "acme", req: query.UpdateRequest{}.Set("name", "Acme")},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := newMemCompanies(acme(), model.Company{Handle: "globex", Name: "Globex", Description: "d"})
			svc := service.NewCompanyService(&nop, store)

			got, err := svc.Update(context.Background(), tc.handle, tc.req)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.handle, got.Handle)
		})
	}
}

func TestCompanyService_Update_invalidNeverReachesStore(t *testing.T) {
	store := newMemCompanies(acme())
	svc := service.NewCompanyService(&nop, store)

	_, err := svc.Update(context.Background(), "acme", query.UpdateRequest{}.Set("numEmployees", -1))
	require.ErrorIs(t, err, errs.ErrValidation)
	require.Zero(t, store.updates)
}

func TestCompanyService_FindGetRemove(t *testing.T) {
	store := newMemCompanies(acme(), model.Company{Handle: "globex", Name: "Globex", Description: "d"})
	svc := service.NewCompanyService(&nop, store)
	ctx := context.Background()

	got, err := svc.Find(ctx, query.FilterValues{"nameLike": "glob"})
	require.NoError(t, err)
	require.Len(t, got, 1)

	_, err = svc.Find(ctx, query.FilterValues{"minEmployees": 5, "maxEmployees": 1})
	require.ErrorIs(t, err, errs.ErrValidation)

	_, err = svc.Find(ctx, query.FilterValues{"minEmployees": "1e30", "maxEmployees": "5"})
	require.ErrorIs(t, err, errs.ErrValidation)

	detail, err := svc.Get(ctx, "acme")
	require.NoError(t, err)
	require.NotNil(t, detail.Jobs)

	require.NoError(t, svc.Remove(ctx, "acme"))
	require.ErrorIs(t, svc.Remove(ctx, "acme"), errs.ErrNotFound)
	_, err = svc.Get(ctx, "acme")
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestJobService_Create(t *testing.T) {
	tests := []struct {
		name    string
		in      model.NewJob
		wantErr error
	}{
		{name: "ok", in: model.NewJob{Title: "Dev", Salary: ptr(100), Equity: ptr(0.5), CompanyHandle: "acme"}},
		{name: "equity bounds inclusive", in: model.NewJob{Title: "Dev", Equity: ptr(1.0), CompanyHandle: "acme"}},
		{name: "negative salary", in: model.NewJob{Title: "Dev", Salary: ptr(-1), CompanyHandle: "acme"}, wantErr: errs.ErrValidation},
		{name: "salary beyond the column range", in: model.NewJob{Title: "Dev", Salary: ptr(service.MaxCount + 1), CompanyHandle: "acme"}, wantErr: errs.ErrValidation},
		{name: "equity above one", in: model.NewJob{Title: "Dev", Equity: ptr(1.5), CompanyHandle: "acme"}, wantErr: errs.ErrValidation},
		{name: "negative equity", in: model.NewJob{Title: "Dev", Equity: ptr(-0.1), CompanyHandle: "acme"}, wantErr: errs.ErrValidation},
		{name: "blank title", in: model.NewJob{Title: " ", CompanyHandle: "acme"}, wantErr: errs.ErrValidation},
		{name: "unknown company", in: model.NewJob{Title: "Dev", CompanyHandle: "nope"}, wantErr: errs.ErrNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			jobs := newMemJobs()
			notifier := &recordingNotifier{}
			svc := service.NewJobService(&nop, jobs, newMemCompanies(acme()), notifier)

			got, err := svc.Create(context.Background(), tc.in)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				require.Empty(t, jobs.rows)
				require.Empty(t, notifier.jobs)
				return
			}

			require.NoError(t, err)
			require.Equal(t, []model.Job{*got}, notifier.jobs)
		})
	}
}

func TestJobService_Create_notificationFailureIsNotFatal(t *testing.T) {
	notifier := &recordingNotifier{err: errors.New("redis down")}
	svc := service.NewJobService(&nop, newMemJobs(), newMemCompanies(acme()), notifier)

	got, err := svc.Create(context.Background(), model.NewJob{Title: "Dev", CompanyHandle: "acme"})
	require.NoError(t, err)
	require.Equal(t, 1, got.ID)
	require.Len(t, notifier.jobs, 1)
}

func TestJobService_Create_withoutNotifier(t *testing.T) {
	svc := service.NewJobService(&nop, newMemJobs(), newMemCompanies(acme()), nil)

	_, err := svc.Create(context.Background(), model.NewJob{Title: "Dev", CompanyHandle: "acme"})
	require.NoError(t, err)
}

func TestJobService_Update(t *testing.T) {
	tests := []struct {
		name    string
		req     query.UpdateRequest
		wantErr error
	}{
		{name: "ok", req: query.UpdateRequest{}.Set("title", "Lead").Set("equity", nil)},
		{name: "empty", req: nil, wantErr: errs.ErrValidation},
		{name: "company not updatable", req: query.UpdateRequest{}.Set("companyHandle", "other"), wantErr: errs.ErrValidation},
		{name: "id not updatable", req: query.UpdateRequest{}.Set("id", 3), wantErr: errs.ErrValidation},
		{name: "null title", req: query.UpdateRequest{}.Set("title", nil), wantErr: errs.ErrValidation},
		{name: "equity out of range", req: query.UpdateRequest{}.Set("equity", 2.0), wantErr: errs.ErrValidation},
		{name: "salary beyond the column range", req: query.UpdateRequest{}.Set("salary", service.MaxCount+1), wantErr: errs.ErrValidation},
		{name: "salary wrong type", req: query.UpdateRequest{}.Set("salary", "lots"), wantErr: errs.ErrValidation},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			jobs := newMemJobs()
			svc := service.NewJobService(&nop, jobs, newMemCompanies(acme()), nil)
			created, err := svc.Create(context.Background(), model.NewJob{Title: "Dev", Equity: ptr(0.1), CompanyHandle: "acme"})
			require.NoError(t, err)

			got, err := svc.Update(context.Background(), created.ID, tc.req)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				require.Equal(t, "Dev", jobs.rows[created.ID].Title)
				return
			}
			require.NoError(t, err)
			require.Equal(t, "Lead", got.Title)
			require.Nil(t, got.Equity)
		})
	}
}

func TestJobService_GetRemove(t *testing.T) {
	svc := service.NewJobService(&nop, newMemJobs(), newMemCompanies(acme()), nil)
	ctx := context.Background()

	_, err := svc.Get(ctx, 1)
	require.ErrorIs(t, err, errs.ErrNotFound)

	created, err := svc.Create(ctx, model.NewJob{Title: "Dev", CompanyHandle: "acme"})
	require.NoError(t, err)

	listing, err := svc.Find(ctx, nil)
	require.NoError(t, err)
	require.Len(t, listing, 1)

	require.NoError(t, svc.Remove(ctx, created.ID))
	require.ErrorIs(t, svc.Remove(ctx, created.ID), errs.ErrNotFound)
}
