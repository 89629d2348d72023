package middleware

import (
	"unicode"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"

	"github.com/deppfellow/go-cats/internal/logger"
	"github.com/deppfellow/go-cats/internal/server"
)

const (
	// RequestIDHeader carries the correlation id in both directions.
	RequestIDHeader = echo.HeaderXRequestID

	// RequestIDKey and LoggerKey are Echo context keys.
	RequestIDKey = "request_id"
	LoggerKey    = "logger"

	maxRequestIDLength = 128
)

// RequestID assigns the correlation id. A usable incoming X-Request-ID is
// kept; anything empty, oversized or containing control characters is
// replaced by a fresh UUID.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Request().Header.Get(RequestIDHeader)
			if !acceptableRequestID(id) {
				id = uuid.NewString()
			}

			c.Set(RequestIDKey, id)
			c.Response().Header().Set(RequestIDHeader, id)
			return next(c)
		}
	}
}

func acceptableRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLength {
		return false
	}
	for _, r := range id {
		if !unicode.IsPrint(r) || unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

// GetRequestID returns the id set by RequestID, or "".
func GetRequestID(c echo.Context) string {
	id, _ := c.Get(RequestIDKey).(string)
	return id
}

// ContextEnhancer hangs a request-scoped logger off every request.
type ContextEnhancer struct {
	base *zerolog.Logger
}

func NewContextEnhancer(s *server.Server) *ContextEnhancer {
	return &ContextEnhancer{base: s.Logger}
}

// EnhanceContext must run after RequestID and the New Relic middleware. The
// logger ends up in the Echo context for handlers and in the request's
// context.Context for services, which read it back with zerolog.Ctx.
func (ce *ContextEnhancer) EnhanceContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			scoped := ce.requestLogger(c)

			if txn := newrelic.FromContext(req.Context()); txn != nil {
				scoped = logger.WithTraceContext(scoped, txn)
			}

			c.Set(LoggerKey, &scoped)
			c.SetRequest(req.WithContext(scoped.WithContext(req.Context())))
			return next(c)
		}
	}
}

func (ce *ContextEnhancer) requestLogger(c echo.Context) zerolog.Logger {
	return ce.base.With().
		Str("request_id", GetRequestID(c)).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Str("ip", c.RealIP()).
		Logger()
}

// GetLogger returns the request-scoped logger, or a disabled one when
// EnhanceContext has not run.
func GetLogger(c echo.Context) *zerolog.Logger {
	if l, ok := c.Get(LoggerKey).(*zerolog.Logger); ok {
		return l
	}
	nop := zerolog.Nop()
	return &nop
}
