// Package database owns the PostgreSQL pool behind the postgres cats store
// and the embedded tern migrations that create its schema.
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/deppfellow/go-cats/internal/config"
	loggerConfig "github.com/deppfellow/go-cats/internal/logger"
)

// DatabasePingTimeout bounds the connectivity check in New.
const DatabasePingTimeout = 10 * time.Second

type Database struct {
	Pool *pgxpool.Pool
	log  *zerolog.Logger
}

// poolConfig turns the database block into pgxpool settings.
func poolConfig(cfg *config.DatabaseConfig) (*pgxpool.Config, error) {
	pc, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse pgx pool config: %w", err)
	}

	pc.MaxConns = int32(cfg.MaxOpenConns)
	pc.MinConns = int32(cfg.MaxIdleConns)
	pc.MaxConnLifetime = time.Duration(cfg.ConnMaxLifetime) * time.Second
	pc.MaxConnIdleTime = time.Duration(cfg.ConnMaxIdleTime) * time.Second
	return pc, nil
}

// New opens the pool and refuses to return until one ping succeeds.
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerConfig.LoggerService) (*Database, error) {
	if cfg.Database == nil {
		return nil, fmt.Errorf("database config is missing")
	}

	pc, err := poolConfig(cfg.Database)
	if err != nil {
		return nil, err
	}
	pc.ConnConfig.Tracer = buildTracer(cfg, logger, loggerService.GetApplication() != nil)

	pool, err := pgxpool.NewWithConfig(context.Background(), pc)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), DatabasePingTimeout)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info().
		Str("host", cfg.Database.Host).
		Str("database", cfg.Database.Name).
		Int32("max_conns", pc.MaxConns).
		Msg("connected to the database")

	return &Database{Pool: pool, log: logger}, nil
}

func (db *Database) Ping(ctx context.Context) error {
	return db.Pool.Ping(ctx)
}

// Close always succeeds; it matches the closer signature Shutdown expects.
func (db *Database) Close() error {
	db.log.Info().Msg("closing database connection pool")
	db.Pool.Close()
	return nil
}
