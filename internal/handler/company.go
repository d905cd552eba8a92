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

type companyService interface {
	Create(ctx context.Context, in model.NewCompany) (*model.Company, error)
	Find(ctx context.Context, filters query.FilterValues) ([]model.Company, error)
	Get(ctx context.Context, handle string) (*model.CompanyDetail, error)
	Update(ctx context.Context, handle string, req query.UpdateRequest) (*model.Company, error)
	Remove(ctx context.Context, handle string) error
}

type CompanyHandler struct {
	Handler
	companies companyService
}

func NewCompanyHandler(s *server.Server, companies companyService) *CompanyHandler {
	return &CompanyHandler{
		Handler:   NewHandler(s),
		companies: companies,
	}
}

type CompanyResponse[T any] struct {
	Company T `json:"company"`
}

type CompaniesResponse struct {
	Companies []model.Company `json:"companies"`
}

// CreateCompanyRequest is the POST /companies body. Handle may be omitted,
// in which case it is derived from Name.
type CreateCompanyRequest struct {
	Handle       string  `json:"handle" validate:"omitempty,max=25"`
	Name         string  `json:"name" validate:"required,max=200"`
	Description  string  `json:"description" validate:"required"`
	NumEmployees *int    `json:"numEmployees" validate:"omitempty,gte=0"`
	LogoURL      *string `json:"logoUrl" validate:"omitempty,url"`
}

func (r *CreateCompanyRequest) Bind(c echo.Context) error {
	return decodeStrict(c, r)
}

func (r *CreateCompanyRequest) Validate() error {
	return validation.Struct(r)
}

type ListCompaniesRequest struct {
	Filters query.FilterValues
}

func (r *ListCompaniesRequest) Bind(c echo.Context) error {
	filters, err := filtersFromQuery(c)
	r.Filters = filters
	return err
}

func (r *ListCompaniesRequest) Validate() error {
	_, err := query.ValidateFilters(repository.CompanyFilters, r.Filters)
	return err
}

type CompanyHandleRequest struct {
	Handle string `param:"handle" validate:"required"`
}

func (r *CompanyHandleRequest) Validate() error {
	return validation.Struct(r)
}

// UpdateCompanyRequest is the PATCH /companies/:handle body. Only supplied
// fields are changed; null clears a nullable column.
type UpdateCompanyRequest struct {
	Handle       string                 `json:"-"`
	Name         query.Nullable[string] `json:"name"`
	Description  query.Nullable[string] `json:"description"`
	NumEmployees query.Nullable[int]    `json:"numEmployees"`
	LogoURL      query.Nullable[string] `json:"logoUrl"`
}

func (r *UpdateCompanyRequest) Bind(c echo.Context) error {
	r.Handle = c.Param("handle")
	return decodeStrict(c, r)
}

func (r *UpdateCompanyRequest) Validate() error {
	return query.ValidateUpdate(r.UpdateRequest())
}

// UpdateRequest lists the supplied fields in declaration order.
func (r *UpdateCompanyRequest) UpdateRequest() query.UpdateRequest {
	var req query.UpdateRequest
	req = r.Name.AppendTo(req, "name")
	req = r.Description.AppendTo(req, "description")
	req = r.NumEmployees.AppendTo(req, "numEmployees")
	req = r.LogoURL.AppendTo(req, "logoUrl")
	return req
}

func (h *CompanyHandler) CreateCompany(c echo.Context) error {
	return Handle(h.Handler, func(c echo.Context, req *CreateCompanyRequest) (CompanyResponse[*model.Company], error) {
		company, err := h.companies.Create(c.Request().Context(), model.NewCompany{
			Handle:       req.Handle,
			Name:         req.Name,
			Description:  req.Description,
			NumEmployees: req.NumEmployees,
			LogoURL:      req.LogoURL,
		})
		return CompanyResponse[*model.Company]{Company: company}, err
	}, http.StatusCreated)(c)
}

func (h *CompanyHandler) ListCompanies(c echo.Context) error {
	return Handle(h.Handler, func(c echo.Context, req *ListCompaniesRequest) (CompaniesResponse, error) {
		companies, err := h.companies.Find(c.Request().Context(), req.Filters)
		return CompaniesResponse{Companies: companies}, err
	}, http.StatusOK)(c)
}

func (h *CompanyHandler) GetCompany(c echo.Context) error {
	return Handle(h.Handler, func(c echo.Context, req *CompanyHandleRequest) (CompanyResponse[*model.CompanyDetail], error) {
		company, err := h.companies.Get(c.Request().Context(), req.Handle)
		return CompanyResponse[*model.CompanyDetail]{Company: company}, err
	}, http.StatusOK)(c)
}

func (h *CompanyHandler) UpdateCompany(c echo.Context) error {
	return Handle(h.Handler, func(c echo.Context, req *UpdateCompanyRequest) (CompanyResponse[*model.Company], error) {
		company, err := h.companies.Update(c.Request().Context(), req.Handle, req.UpdateRequest())
		return CompanyResponse[*model.Company]{Company: company}, err
	}, http.StatusOK)(c)
}

func (h *CompanyHandler) DeleteCompany(c echo.Context) error {
	return Handle(h.Handler, func(c echo.Context, req *CompanyHandleRequest) (DeletedResponse[string], error) {
		err := h.companies.Remove(c.Request().Context(), req.Handle)
		return DeletedResponse[string]{Deleted: req.Handle}, err
	}, http.StatusOK)(c)
}
