package handler

import (
	"io/fs"
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/deppfellow/go-cats/internal/server"
	"github.com/deppfellow/go-cats/static"
)

// OpenAPIHandler serves the docs page embedded in static.FS. The page itself
// fetches /static/openapi.json.
type OpenAPIHandler struct {
	Handler
	page func() ([]byte, error)
}

func NewOpenAPIHandler(s *server.Server) *OpenAPIHandler {
	return &OpenAPIHandler{
		Handler: NewHandler(s),
		page: sync.OnceValues(func() ([]byte, error) {
			return fs.ReadFile(static.FS, static.OpenAPIUIFile)
		}),
	}
}

// ServeOpenAPIUI writes the docs page uncached.
func (h *OpenAPIHandler) ServeOpenAPIUI(c echo.Context) error {
	page, err := h.page()
	if err != nil {
		return errors.Wrap(err, "failed to read docs page")
	}

	c.Response().Header().Set("Cache-Control", "no-cache")
	return c.HTMLBlob(http.StatusOK, page)
}
