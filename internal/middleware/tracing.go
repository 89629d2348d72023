package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/integrations/nrecho-v4"
	"github.com/newrelic/go-agent/v3/integrations/nrpkgerrors"
	"github.com/newrelic/go-agent/v3/newrelic"

	"github.com/deppfellow/go-cats/internal/server"
)

// TracingMiddleware ties requests to New Relic transactions. With no
// application configured both of its middlewares pass straight through.
type TracingMiddleware struct {
	store string
	nrApp *newrelic.Application
}

func NewTracingMiddleware(s *server.Server, nrApp *newrelic.Application) *TracingMiddleware {
	return &TracingMiddleware{store: s.Config.Cats.Store, nrApp: nrApp}
}

// NewRelicMiddleware starts one transaction per request.
func (tm *TracingMiddleware) NewRelicMiddleware() echo.MiddlewareFunc {
	if tm.nrApp == nil {
		return passThrough
	}
	return nrecho.Middleware(tm.nrApp)
}

// EnhanceTracing decorates the running transaction and notices handler
// errors with their pkg/errors stack. The error is returned unchanged.
func (tm *TracingMiddleware) EnhanceTracing() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			txn := newrelic.FromContext(c.Request().Context())
			if txn == nil {
				return next(c)
			}

			for key, value := range tm.requestAttributes(c) {
				txn.AddAttribute(key, value)
			}

			err := next(c)
			if err != nil {
				txn.NoticeError(nrpkgerrors.Wrap(err))
			}
			txn.AddAttribute("http.status_code", c.Response().Status)
			return err
		}
	}
}

func (tm *TracingMiddleware) requestAttributes(c echo.Context) map[string]any {
	attrs := map[string]any{
		"http.real_ip":    c.RealIP(),
		"http.user_agent": c.Request().UserAgent(),
		"http.route":      c.Path(),
		"service.store":   tm.store,
	}
	if id := GetRequestID(c); id != "" {
		attrs["request.id"] = id
	}
	return attrs
}

func passThrough(next echo.HandlerFunc) echo.HandlerFunc {
	return next
}
