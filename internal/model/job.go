package model

// Job is a job posting owned by a company.
type Job struct {
	ID            int      `json:"id" db:"id"`
	Title         string   `json:"title" db:"title"`
	Salary        *int     `json:"salary" db:"salary"`
	Equity        *float64 `json:"equity" db:"equity"`
	CompanyHandle string   `json:"companyHandle" db:"company_handle"`
}

// JobListing is a row of a job search; it carries the owning company's name.
type JobListing struct {
	Job
	CompanyName string `json:"companyName" db:"company_name"`
}

// JobSummary is a job as embedded in a company detail.
type JobSummary struct {
	ID     int      `json:"id" db:"id"`
	Title  string   `json:"title" db:"title"`
	Salary *int     `json:"salary" db:"salary"`
	Equity *float64 `json:"equity" db:"equity"`
}

// JobDetail is a job with its owning company embedded.
type JobDetail struct {
	ID      int      `json:"id"`
	Title   string   `json:"title"`
	Salary  *int     `json:"salary"`
	Equity  *float64 `json:"equity"`
	Company Company  `json:"company"`
}

// NewJob is the input to a job create.
type NewJob struct {
	Title         string
	Salary        *int
	Equity        *float64
	CompanyHandle string
}
