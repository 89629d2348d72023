// Package job runs the Redis-backed asynq queue that announces new cats.
// Client enqueues; the embedded asynq.Server consumes.
package job

import (
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/deppfellow/go-cats/internal/config"
	"github.com/deppfellow/go-cats/internal/lib/email"
)

// Notifier delivers created-cat notifications. *email.Client implements it.
type Notifier interface {
	SendCatCreatedEmail(to string, cat email.CatCreated) error
}

type JobService struct {
	Client *asynq.Client

	server *asynq.Server
	logger *zerolog.Logger

	notifier    Notifier
	notifyEmail string
}

const workerConcurrency = 10

// queueWeights give "critical" the larger share of the workers; cat
// notifications go to "low".
var queueWeights = map[string]int{
	"critical": 6,
	"default":  3,
	"low":      1,
}

// NewJobService connects producer and worker to cfg.Redis.
func NewJobService(logger *zerolog.Logger, cfg *config.Config) (*JobService, error) {
	if cfg.Redis == nil {
		return nil, fmt.Errorf("job service requires the redis config block")
	}

	redisOpt := asynq.RedisClientOpt{Addr: cfg.Redis.Address}
	worker := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: workerConcurrency,
		Queues:      queueWeights,
		Logger:      asynqLogger{logger.With().Str("component", "asynq").Logger()},
	})

	return &JobService{
		Client:      asynq.NewClient(redisOpt),
		server:      worker,
		logger:      logger,
		notifier:    email.NewClient(cfg, logger),
		notifyEmail: cfg.Integration.NotifyEmail,
	}, nil
}

// Start registers task handlers and starts the workers.
//
// asynq.Server.Start does not block; workers run until Stop.
func (j *JobService) Start() error {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskCatCreated, j.handleCatCreatedTask)

	j.logger.Info().Msg("Starting background job server")

	if err := j.server.Start(mux); err != nil {
		return fmt.Errorf("failed to start job server: %w", err)
	}

	return nil
}

// Stop waits for running tasks, then closes the enqueue client.
func (j *JobService) Stop() {
	j.logger.Info().Msg("Stopping background job server")
	j.server.Shutdown()
	if err := j.Client.Close(); err != nil {
		j.logger.Error().Err(err).Msg("failed to close job client")
	}
}

// asynqLogger adapts zerolog to asynq.Logger.
type asynqLogger struct {
	log zerolog.Logger
}

func (l asynqLogger) Debug(args ...any) { l.log.Debug().Msg(fmt.Sprint(args...)) }
func (l asynqLogger) Info(args ...any)  { l.log.Info().Msg(fmt.Sprint(args...)) }
func (l asynqLogger) Warn(args ...any)  { l.log.Warn().Msg(fmt.Sprint(args...)) }
func (l asynqLogger) Error(args ...any) { l.log.Error().Msg(fmt.Sprint(args...)) }
func (l asynqLogger) Fatal(args ...any) { l.log.Fatal().Msg(fmt.Sprint(args...)) }
