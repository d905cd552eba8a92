package job

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"

	"github.com/deppfellow/jobly/internal/model"
)

const (
	// TaskJobPosted notifies the configured recipient about a new job posting.
	TaskJobPosted = "email:job_posted"
)

type JobPostedPayload struct {
	To            string   `json:"to"`
	JobID         int      `json:"job_id"`
	Title         string   `json:"title"`
	CompanyHandle string   `json:"company_handle"`
	Salary        *int     `json:"salary,omitempty"`
	Equity        *float64 `json:"equity,omitempty"`
}

// NewJobPostedTask builds the notification task for job, addressed to to.
func NewJobPostedTask(to string, job model.Job) (*asynq.Task, error) {
	payload, err := json.Marshal(JobPostedPayload{
		To:            to,
		JobID:         job.ID,
		Title:         job.Title,
		CompanyHandle: job.CompanyHandle,
		Salary:        job.Salary,
		Equity:        job.Equity,
	})
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskJobPosted,
		payload,
		asynq.MaxRetry(3),
		asynq.Queue("default"),
		asynq.Timeout(30*time.Second),
	), nil
}
