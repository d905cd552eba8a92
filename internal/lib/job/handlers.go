package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/deppfellow/jobly/internal/config"
	"github.com/deppfellow/jobly/internal/lib/email"
)

// Mailer sends the emails job handlers produce.
type Mailer interface {
	SendJobPostedEmail(ctx context.Context, to string, p email.JobPosted) error
}

// InitHandlers wires the Resend client used by task handlers.
func (j *JobService) InitHandlers(cfg *config.Config, logger *zerolog.Logger) {
	j.mailer = email.NewClient(cfg, logger)
}

func (j *JobService) handleJobPostedTask(ctx context.Context, t *asynq.Task) error {
	var p JobPostedPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		// Retrying cannot fix a malformed payload.
		return fmt.Errorf("failed to unmarshal job posted payload: %v: %w", err, asynq.SkipRetry)
	}

	log := j.logger.With().
		Str("type", TaskJobPosted).
		Int("job_id", p.JobID).
		Str("to", p.To).
		Logger()

	log.Info().Msg("Processing job posted email task")

	if j.mailer == nil {
		return fmt.Errorf("job posted email: mailer not initialized: %w", asynq.SkipRetry)
	}

	err := j.mailer.SendJobPostedEmail(ctx, p.To, email.JobPosted{
		JobID:         p.JobID,
		Title:         p.Title,
		CompanyHandle: p.CompanyHandle,
		Salary:        p.Salary,
		Equity:        p.Equity,
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to send job posted email")
		return err
	}

	log.Info().Msg("Successfully sent job posted email")

	return nil
}
