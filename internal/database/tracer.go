package database

import (
	"context"
	"time"

	pgxzero "github.com/jackc/pgx-zerolog"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/newrelic/go-agent/v3/integrations/nrpgx5"
	"github.com/rs/zerolog"

	"github.com/deppfellow/go-cats/internal/config"
	loggerConfig "github.com/deppfellow/go-cats/internal/logger"
)

// queryTracer fans one pgx tracer slot out to several tracers.
type queryTracer []pgx.QueryTracer

func (qt queryTracer) TraceQueryStart(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	for _, t := range qt {
		ctx = t.TraceQueryStart(ctx, conn, data)
	}
	return ctx
}

func (qt queryTracer) TraceQueryEnd(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryEndData) {
	for _, t := range qt {
		t.TraceQueryEnd(ctx, conn, data)
	}
}

// buildTracer picks New Relic spans when an application is running, slow
// query warnings when a threshold is set, and per-statement logs in the local
// environment only. It returns nil when none apply.
func buildTracer(cfg *config.Config, logger *zerolog.Logger, nrEnabled bool) pgx.QueryTracer {
	var tracers queryTracer

	if nrEnabled {
		tracers = append(tracers, nrpgx5.NewTracer())
	}
	if limit := cfg.Observability.Logging.SlowQueryThreshold; limit > 0 {
		tracers = append(tracers, &slowQueryTracer{threshold: limit, log: logger, now: time.Now})
	}
	if cfg.IsLocal() {
		level := logger.GetLevel()
		tracers = append(tracers, &tracelog.TraceLog{
			Logger:   pgxzero.NewLogger(loggerConfig.NewPgxLogger(level)),
			LogLevel: tracelog.LogLevel(loggerConfig.GetPgxTraceLogLevel(level)),
		})
	}

	switch len(tracers) {
	case 0:
		return nil
	case 1:
		return tracers[0]
	}
	return tracers
}

type slowQueryStartKey struct{}

type slowQueryStart struct {
	sql string
	at  time.Time
}

// slowQueryTracer warns about statements that take longer than threshold.
type slowQueryTracer struct {
	threshold time.Duration
	log       *zerolog.Logger
	now       func() time.Time
}

func (t *slowQueryTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	return context.WithValue(ctx, slowQueryStartKey{}, slowQueryStart{sql: data.SQL, at: t.now()})
}

func (t *slowQueryTracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	started, ok := ctx.Value(slowQueryStartKey{}).(slowQueryStart)
	if !ok {
		return
	}
	took := t.now().Sub(started.at)
	if took <= t.threshold {
		return
	}
	t.log.Warn().
		Str("sql", started.sql).
		Dur("duration", took).
		Err(data.Err).
		Msg("slow query")
}
