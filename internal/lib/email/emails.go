package email

import (
	"context"
	"fmt"
	"strconv"
)

// JobPosted describes a new posting for the notification email.
type JobPosted struct {
	JobID         int
	Title         string
	CompanyHandle string
	Salary        *int
	Equity        *float64
}

// data flattens p into template variables. Absent values read "not listed".
func (p JobPosted) data() map[string]string {
	salary, equity := "not listed", "not listed"
	if p.Salary != nil {
		salary = strconv.Itoa(*p.Salary)
	}
	if p.Equity != nil {
		equity = strconv.FormatFloat(*p.Equity, 'f', -1, 64)
	}

	return map[string]string{
		"JobID":         strconv.Itoa(p.JobID),
		"JobTitle":      p.Title,
		"CompanyHandle": p.CompanyHandle,
		"Salary":        salary,
		"Equity":        equity,
	}
}

// SendJobPostedEmail tells to about a newly created job posting.
func (c *Client) SendJobPostedEmail(ctx context.Context, to string, p JobPosted) error {
	return c.SendEmail(
		ctx,
		to,
		fmt.Sprintf("New job posted: %s at %s", p.Title, p.CompanyHandle),
		TemplateJobPosted,
		p.data(),
	)
}
