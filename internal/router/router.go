// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares and defines the API route groups,
// mapping specific paths to their corresponding handlers
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/go-cats/internal/handler"
	"github.com/deppfellow/go-cats/internal/middleware"
	"github.com/deppfellow/go-cats/internal/server"
)

// NewRouter builds the Echo instance with every global middleware and route.
//
// Middleware order matters:
//   - RateLimit first, so rejected clients cost as little as possible
//   - CORS, Secure: response headers
//   - RequestID before anything that logs
//   - Metrics wraps everything below it, so it sees the final status
//   - NewRelic starts the transaction, EnhanceTracing decorates it
//   - ContextEnhancer needs both the request id and the transaction
//   - RequestLogger reads the enhanced logger
//   - Recover last, closest to the handlers
func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true

	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	router.Use(
		middlewares.RateLimit.Limit(),
		middlewares.Global.CORS(),
		middlewares.Global.Secure(),
		middleware.RequestID(),
		middlewares.Metrics.Instrument(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Recover(),
	)

	registerSystemRoutes(router, h, middlewares.Metrics.Handler())
	registerCatRoutes(router, h)

	return router
}
