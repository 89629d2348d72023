package database

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/go-cats/internal/config"
)

func TestSlowQueryTracer_WarnsAboveThreshold(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tracer := &slowQueryTracer{
		threshold: 100 * time.Millisecond,
		log:       &log,
		now:       func() time.Time { return clock },
	}

	ctx := tracer.TraceQueryStart(context.Background(), nil, pgx.TraceQueryStartData{SQL: "SELECT 1"})
	clock = clock.Add(50 * time.Millisecond)
	tracer.TraceQueryEnd(ctx, nil, pgx.TraceQueryEndData{})
	assert.Empty(t, buf.String())

	ctx = tracer.TraceQueryStart(context.Background(), nil, pgx.TraceQueryStartData{SQL: "SELECT pg_sleep(1)"})
	clock = clock.Add(time.Second)
	tracer.TraceQueryEnd(ctx, nil, pgx.TraceQueryEndData{Err: errors.New("canceled")})
	assert.Contains(t, buf.String(), "slow query")
	assert.Contains(t, buf.String(), "pg_sleep")
}

func TestSlowQueryTracer_IgnoresUnknownContext(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)
	tracer := &slowQueryTracer{log: &log, now: time.Now}

	tracer.TraceQueryEnd(context.Background(), nil, pgx.TraceQueryEndData{})
	assert.Empty(t, buf.String())
}

func TestBuildTracer(t *testing.T) {
	log := zerolog.Nop()
	cfg := config.DefaultConfig()
	cfg.Primary.Env = "production"

	cfg.Observability.Logging.SlowQueryThreshold = 0
	assert.Nil(t, buildTracer(cfg, &log, false))

	cfg.Observability.Logging.SlowQueryThreshold = time.Second
	_, single := buildTracer(cfg, &log, false).(*slowQueryTracer)
	assert.True(t, single)

	multi, ok := buildTracer(cfg, &log, true).(queryTracer)
	require.True(t, ok)
	assert.Len(t, multi, 2)
}

func TestPoolConfig(t *testing.T) {
	pc, err := poolConfig(&config.DatabaseConfig{
		Host:            "localhost",
		Port:            5432,
		User:            "cats",
		Password:        "secret",
		Name:            "cats",
		SSLMode:         "disable",
		MaxOpenConns:    8,
		MaxIdleConns:    2,
		ConnMaxLifetime: 300,
		ConnMaxIdleTime: 60,
	})
	require.NoError(t, err)

	assert.EqualValues(t, 8, pc.MaxConns)
	assert.EqualValues(t, 2, pc.MinConns)
	assert.Equal(t, 5*time.Minute, pc.MaxConnLifetime)
	assert.Equal(t, "cats", pc.ConnConfig.Database)
}
