// Package job runs background tasks on Redis through asynq.
//
// The API process enqueues tasks with the client half of JobService and
// processes them with its server half.
package job

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/deppfellow/jobly/internal/config"
	"github.com/deppfellow/jobly/internal/model"
)

// enqueuer is the producer side of asynq.Client.
type enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
	Close() error
}

type JobService struct {
	client enqueuer
	server *asynq.Server
	logger *zerolog.Logger
	mailer Mailer

	// notifyTo receives job posted emails; empty disables them.
	notifyTo string
}

func NewJobService(logger *zerolog.Logger, cfg *config.Config) *JobService {
	redisOpt := asynq.RedisClientOpt{Addr: cfg.Redis.Address}

	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
			Logger:   &asynqLogger{logger: logger},
			LogLevel: asynq.WarnLevel,
		},
	)

	var notifyTo string
	if cfg.Integration.NotificationsEnabled() {
		notifyTo = cfg.Integration.NotifyEmail
	}

	return &JobService{
		client:   asynq.NewClient(redisOpt),
		server:   server,
		logger:   logger,
		notifyTo: notifyTo,
	}
}

// NotifyJobPosted enqueues the job posted email. It does nothing when no
// recipient is configured.
func (j *JobService) NotifyJobPosted(ctx context.Context, job model.Job) error {
	if j.notifyTo == "" {
		return nil
	}

	task, err := NewJobPostedTask(j.notifyTo, job)
	if err != nil {
		return fmt.Errorf("build %s task: %w", TaskJobPosted, err)
	}

	info, err := j.client.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("enqueue %s task: %w", TaskJobPosted, err)
	}

	j.logger.Debug().
		Str("task_id", info.ID).
		Str("queue", info.Queue).
		Int("job_id", job.ID).
		Msg("enqueued job posted email")

	return nil
}

// Start registers task handlers and starts the worker server.
func (j *JobService) Start() error {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskJobPosted, j.handleJobPostedTask)

	j.logger.Info().Msg("Starting background job server")

	if err := j.server.Start(mux); err != nil {
		return err
	}

	return nil
}

// Stop shuts the worker server down and closes the client.
func (j *JobService) Stop() {
	j.logger.Info().Msg("Stopping background job server")
	j.server.Shutdown()
	if err := j.client.Close(); err != nil {
		j.logger.Warn().Err(err).Msg("failed to close job client")
	}
}

// asynqLogger routes asynq's internal logs through zerolog.
type asynqLogger struct {
	logger *zerolog.Logger
}

func (l *asynqLogger) Debug(args ...any) { l.logger.Debug().Str("component", "asynq").Msg(fmt.Sprint(args...)) }
func (l *asynqLogger) Info(args ...any)  { l.logger.Info().Str("component", "asynq").Msg(fmt.Sprint(args...)) }
func (l *asynqLogger) Warn(args ...any)  { l.logger.Warn().Str("component", "asynq").Msg(fmt.Sprint(args...)) }
func (l *asynqLogger) Error(args ...any) { l.logger.Error().Str("component", "asynq").Msg(fmt.Sprint(args...)) }
func (l *asynqLogger) Fatal(args ...any) { l.logger.Fatal().Str("component", "asynq").Msg(fmt.Sprint(args...)) }
