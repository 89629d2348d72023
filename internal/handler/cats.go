package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/go-cats/internal/middleware"
	"github.com/deppfellow/go-cats/internal/model"
	"github.com/deppfellow/go-cats/internal/server"
	"github.com/deppfellow/go-cats/internal/service"
)

// FindAllRawBody is what GET /cats/express writes.
const FindAllRawBody = "this action returns all cats."

// CatHandler maps the /cats routes onto CatService.
type CatHandler struct {
	Handler
	cats *service.CatService
}

func NewCatHandler(s *server.Server, cats *service.CatService) *CatHandler {
	return &CatHandler{
		Handler: NewHandler(s),
		cats:    cats,
	}
}

// FindAll lists every cat (after the configured delay).
func (h *CatHandler) FindAll(c echo.Context, _ *model.EmptyRequest) ([]model.Cat, error) {
	return h.cats.FindAll(c.Request().Context())
}

// FindOne answers with a sentence naming the requested id.
func (h *CatHandler) FindOne(c echo.Context, req *model.GetCatRequest) (string, error) {
	return h.cats.FindOne(c.Request().Context(), req.ID)
}

// Create stores the cat from the request body.
func (h *CatHandler) Create(c echo.Context, req *model.CreateCatRequest) (model.Cat, error) {
	return h.cats.Create(c.Request().Context(), req)
}

// Fail always ends in a 403 through the global error handler.
func (h *CatHandler) Fail(c echo.Context, _ *model.EmptyRequest) error {
	return h.cats.Fail(c.Request().Context())
}

// FindAllRaw bypasses the typed pipeline and writes straight to the
// underlying http.ResponseWriter.
func (h *CatHandler) FindAllRaw(c echo.Context) error {
	res := c.Response()
	res.Header().Set(echo.HeaderContentType, echo.MIMETextPlainCharsetUTF8)
	res.WriteHeader(http.StatusOK)

	if _, err := res.Write([]byte(FindAllRawBody)); err != nil {
		middleware.GetLogger(c).Error().Err(err).Msg("failed to write raw response")
		return err
	}
	return nil
}
