package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/go-cats/internal/handler"
	"github.com/deppfellow/go-cats/internal/model"
)

// registerCatRoutes mounts the /cats group.
//
// Echo matches static segments before parameters, so /cats/express and
// /cats/error never reach /cats/:id.
func registerCatRoutes(r *echo.Echo, h *handler.Handlers) {
	cats := r.Group("/cats")
	ch := h.Cats

	cats.GET("", handler.Handle(ch.Handler, ch.FindAll, http.StatusOK, &model.EmptyRequest{}))

	cats.POST("", handler.HandleWithHeaders(
		ch.Handler,
		ch.Create,
		http.StatusCreated,
		&model.CreateCatRequest{},
		map[string]string{"Cache-Control": "none"},
	))

	cats.GET("/express", ch.FindAllRaw)

	cats.GET("/error", handler.HandleNoContent(ch.Handler, ch.Fail, http.StatusOK, &model.EmptyRequest{}))

	cats.GET("/:id", handler.HandleText(ch.Handler, ch.FindOne, http.StatusOK, &model.GetCatRequest{}))
}
