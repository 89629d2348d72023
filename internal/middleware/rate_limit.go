package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/deppfellow/go-cats/internal/errs"
	"github.com/deppfellow/go-cats/internal/server"
)

// RateLimitMiddleware limits requests per client IP.
//
// Limits come from server.rate_limit (requests per second); a value of 0
// turns the limiter off.
type RateLimitMiddleware struct {
	server  *server.Server
	metrics *MetricsMiddleware
}

// NewRateLimitMiddleware builds the limiter; metrics may be nil.
func NewRateLimitMiddleware(s *server.Server, metrics *MetricsMiddleware) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		server:  s,
		metrics: metrics,
	}
}

// Limit returns Echo's rate limiter backed by an in-memory token bucket
// store (x/time/rate) keyed by the client IP.
//
// The burst is twice the rate, rounded up to at least 1. Visitors idle
// for 3 minutes are forgotten.
func (r *RateLimitMiddleware) Limit() echo.MiddlewareFunc {
	limit := r.server.Config.Server.RateLimit
	if limit <= 0 {
		return passThrough
	}

	burst := int(limit * 2)
	if burst < 1 {
		burst = 1
	}

	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(limit),
		Burst:     burst,
		ExpiresIn: 3 * time.Minute,
	})

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return errs.NewBadRequestError("Could not identify client", false, nil, nil, nil)
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			r.server.Logger.Warn().
				Str("ip", identifier).
				Str("path", c.Request().URL.Path).
				Msg("rate limit exceeded")

			r.RecordRateLimitHit(c.Request().URL.Path)
			r.metrics.RecordRateLimited(c.Request().URL.Path)

			return errs.NewTooManyRequestsError("Too many requests, slow down")
		},
	})
}

// RecordRateLimitHit sends a RateLimitHit custom event to New Relic.
// It is a no-op when New Relic is disabled.
func (r *RateLimitMiddleware) RecordRateLimitHit(endpoint string) {
	if r.server.LoggerService != nil && r.server.LoggerService.GetApplication() != nil {
		r.server.LoggerService.GetApplication().RecordCustomEvent("RateLimitHit", map[string]interface{}{
			"endpoint": endpoint,
		})
	}
}
