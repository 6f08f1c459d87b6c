// Package job provides background job processing using Asynq.
//
// Asynq is a Redis-backed job queue:
//   - tasks are enqueued (producer) with asynq.Client
//   - a server runs workers that process them (consumer) with asynq.Server
package job

import (
	"context"

	"github.com/deppfellow/hangar/internal/config"
	"github.com/deppfellow/hangar/internal/model"
	"github.com/hibiken/asynq"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Enqueuer is the part of asynq.Client the service needs.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// JobService holds the Asynq client (enqueue) and server (worker execution).
type JobService struct {
	Client *asynq.Client

	enqueuer Enqueuer
	server   *asynq.Server
	logger   *zerolog.Logger
	nrApp    *newrelic.Application
}

// NewJobService creates a JobService using Redis from cfg.
//
// Queue weights give "critical" tasks six times the worker share of "low".
func NewJobService(logger *zerolog.Logger, cfg *config.Config, nrApp *newrelic.Application) *JobService {
	redisOpt := asynq.RedisClientOpt{Addr: cfg.Redis.Address}

	client := asynq.NewClient(redisOpt)

	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
			Logger: newAsynqLogger(logger),
		},
	)

	return &JobService{
		Client:   client,
		enqueuer: client,
		server:   server,
		logger:   logger,
		nrApp:    nrApp,
	}
}

// NewPublisher returns a JobService that can only enqueue. Used where no
// worker runs, e.g. tests or one-shot tooling.
func NewPublisher(enqueuer Enqueuer, logger *zerolog.Logger) *JobService {
	return &JobService{enqueuer: enqueuer, logger: logger}
}

// Mux registers the task handlers.
func (j *JobService) Mux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskPlaneRegistered, j.handlePlaneRegisteredTask)
	return mux
}

// Start starts the worker server. It does not block.
func (j *JobService) Start() error {
	j.logger.Info().Msg("Starting background job server")

	if err := j.server.Start(j.Mux()); err != nil {
		return errors.Wrap(err, "start job server")
	}
	return nil
}

// Stop waits for in-flight tasks and closes the client.
func (j *JobService) Stop() {
	j.logger.Info().Msg("Stopping background job server")
	if j.server != nil {
		j.server.Shutdown()
	}
	if j.Client != nil {
		if err := j.Client.Close(); err != nil {
			j.logger.Error().Err(err).Msg("failed to close job client")
		}
	}
}

// PublishPlaneRegistered enqueues a TaskPlaneRegistered task for plane.
func (j *JobService) PublishPlaneRegistered(ctx context.Context, plane *model.Plane) error {
	task, err := NewPlaneRegisteredTask(plane)
	if err != nil {
		return err
	}

	info, err := j.enqueuer.EnqueueContext(ctx, task)
	if err != nil {
		return errors.Wrapf(err, "enqueue %s for plane %d", TaskPlaneRegistered, plane.ID)
	}

	j.logger.Debug().
		Str("task_id", info.ID).
		Str("queue", info.Queue).
		Int64("plane_id", plane.ID).
		Msg("enqueued plane registered task")

	return nil
}
