package router

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/go-cats/internal/handler"
	"github.com/deppfellow/go-cats/static"
)

// registerSystemRoutes registers the endpoints that are not about cats:
//  1. health status
//  2. docs UI
//  3. embedded docs assets (openapi.json, openapi.html)
//  4. Prometheus metrics
func registerSystemRoutes(r *echo.Echo, h *handler.Handlers, metrics echo.HandlerFunc) {
	r.GET("/status", h.Health.CheckHealth)

	r.GET("/metrics", metrics)

	r.StaticFS("/static", static.FS)

	r.GET("/docs", h.OpenAPI.ServeOpenAPIUI)
}
