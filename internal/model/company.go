// Package model holds the entities returned by repositories and services and
// serialized by the HTTP layer.
package model

// Company is an organization that posts jobs. Handle is its natural key.
type Company struct {
	Handle       string  `json:"handle" db:"handle"`
	Name         string  `json:"name" db:"name"`
	Description  string  `json:"description" db:"description"`
	NumEmployees *int    `json:"numEmployees" db:"num_employees"`
	LogoURL      *string `json:"logoUrl" db:"logo_url"`
}

// CompanyDetail is a company with its job postings, ordered by id.
type CompanyDetail struct {
	Company
	Jobs []JobSummary `json:"jobs"`
}

// NewCompany is the input to a company create.
type NewCompany struct {
	Handle       string
	Name         string
	Description  string
	NumEmployees *int
	LogoURL      *string
}
