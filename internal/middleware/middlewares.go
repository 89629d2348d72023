package middleware

import (
	"github.com/newrelic/go-agent/v3/newrelic"

	"github.com/deppfellow/go-cats/internal/server"
)

// Middlewares groups all middleware components used by the HTTP server.
//
// Everything is built once here and reused during router setup.
type Middlewares struct {
	// Global holds CORS, request logging, recovery, secure headers
	// and the global error handler.
	Global *GlobalMiddlewares

	// ContextEnhancer attaches a request-scoped logger to every request.
	ContextEnhancer *ContextEnhancer

	// Tracing provides the New Relic middleware and custom attributes.
	Tracing *TracingMiddleware

	// RateLimit enforces the per-client request rate.
	RateLimit *RateLimitMiddleware

	// Metrics records Prometheus request metrics and serves /metrics.
	Metrics *MetricsMiddleware
}

// NewMiddlewares constructs all middleware components.
//
// When New Relic is not configured nrApp is nil and the tracing
// middleware degrades into a pass-through.
func NewMiddlewares(s *server.Server) *Middlewares {
	var nrApp *newrelic.Application
	if s.LoggerService != nil {
		nrApp = s.LoggerService.GetApplication()
	}

	metrics := NewMetricsMiddleware()

	return &Middlewares{
		Global:          NewGlobalMiddlewares(s),
		ContextEnhancer: NewContextEnhancer(s),
		Tracing:         NewTracingMiddleware(s, nrApp),
		RateLimit:       NewRateLimitMiddleware(s, metrics),
		Metrics:         metrics,
	}
}
