// Package server holds the process-wide dependencies and the HTTP server
// lifecycle. Only the infrastructure the configuration asks for is built:
// a database pool for the postgres store, a Redis client when a redis block
// exists and the asynq worker when cats.notify_created is set.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/newrelic/go-agent/v3/integrations/nrredis-v9"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/deppfellow/go-cats/internal/config"
	"github.com/deppfellow/go-cats/internal/database"
	"github.com/deppfellow/go-cats/internal/lib/job"
	loggerPkg "github.com/deppfellow/go-cats/internal/logger"
)

const (
	redisPingTimeout   = 5 * time.Second
	newRelicFlushLimit = 10 * time.Second
)

// Server is shared by routers, handlers and services. DB, Redis and Job stay
// nil unless configured.
type Server struct {
	Config        *config.Config
	Logger        *zerolog.Logger
	LoggerService *loggerPkg.LoggerService

	DB    *database.Database
	Redis *redis.Client
	Job   *job.JobService

	httpServer *http.Server
}

// New connects what cfg enables. A failing database or job worker aborts
// startup and releases whatever was already opened; an unreachable Redis is
// only logged.
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService) (*Server, error) {
	s := &Server{Config: cfg, Logger: logger, LoggerService: loggerService}

	if cfg.Cats.Store == config.StorePostgres {
		db, err := database.New(cfg, logger, loggerService)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		s.DB = db
	}

	if cfg.Redis != nil {
		s.Redis = s.connectRedis()
	}

	if !cfg.Cats.NotifyCreated {
		return s, nil
	}

	jobs, err := job.NewJobService(logger, cfg)
	if err != nil {
		return nil, errors.Join(err, s.closeConnections())
	}
	if err := jobs.Start(); err != nil {
		return nil, errors.Join(err, jobs.Client.Close(), s.closeConnections())
	}
	s.Job = jobs

	return s, nil
}

// closeConnections releases Redis and the database pool.
func (s *Server) closeConnections() error {
	var failures []error
	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			failures = append(failures, fmt.Errorf("failed to close redis client: %w", err))
		}
	}
	if s.DB != nil {
		if err := s.DB.Close(); err != nil {
			failures = append(failures, fmt.Errorf("failed to close database pool: %w", err))
		}
	}
	return errors.Join(failures...)
}

func (s *Server) connectRedis() *redis.Client {
	client := redis.NewClient(&redis.Options{Addr: s.Config.Redis.Address})
	if s.LoggerService.GetApplication() != nil {
		client.AddHook(nrredis.NewHook(client.Options()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		s.Logger.Error().Err(err).Str("addr", s.Config.Redis.Address).Msg("redis unreachable, continuing")
	}
	return client
}

func (s *Server) SetupHTTPServer(handler http.Handler) {
	seconds := func(n int) time.Duration { return time.Duration(n) * time.Second }

	s.httpServer = &http.Server{
		Addr:         ":" + s.Config.Server.Port,
		Handler:      handler,
		ReadTimeout:  seconds(s.Config.Server.ReadTimeout),
		WriteTimeout: seconds(s.Config.Server.WriteTimeout),
		IdleTimeout:  seconds(s.Config.Server.IdleTimeout),
	}
}

// Start blocks while serving. A clean Shutdown makes it return nil.
func (s *Server) Start() error {
	if s.httpServer == nil {
		return errors.New("HTTP server not initialized")
	}

	s.Logger.Info().
		Str("port", s.Config.Server.Port).
		Str("env", s.Config.Primary.Env).
		Str("store", s.Config.Cats.Store).
		Msg("starting server")

	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests until ctx expires, then releases the
// job worker, Redis and the database pool before flushing New Relic. Every
// step runs; failures are joined.
func (s *Server) Shutdown(ctx context.Context) error {
	var drainErr error
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			drainErr = fmt.Errorf("failed to close http server: %w", err)
		}
	}
	if s.Job != nil {
		s.Job.Stop()
	}
	closeErr := s.closeConnections()

	s.LoggerService.Shutdown(newRelicFlushLimit)
	return errors.Join(drainErr, closeErr)
}
