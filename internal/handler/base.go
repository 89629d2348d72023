package handler

import (
	"reflect"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/integrations/nrpkgerrors"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"

	"github.com/deppfellow/go-cats/internal/middleware"
	"github.com/deppfellow/go-cats/internal/server"
	"github.com/deppfellow/go-cats/internal/validation"
)

// Handler is embedded by every concrete handler.
type Handler struct {
	server *server.Server
}

func NewHandler(s *server.Server) Handler {
	return Handler{server: s}
}

// HandlerFunc receives a bound, validated Req. Req must be a struct pointer.
type HandlerFunc[Req validation.Validatable, Res any] func(c echo.Context, req Req) (Res, error)

// HandlerFuncNoContent is a HandlerFunc without a result.
type HandlerFuncNoContent[Req validation.Validatable] func(c echo.Context, req Req) error

// ResponseWriter renders a successful result.
type ResponseWriter interface {
	Write(c echo.Context, result any) error
	Operation() string
	Annotate(txn *newrelic.Transaction, result any)
}

type jsonWriter struct {
	status  int
	headers map[string]string
}

func (w jsonWriter) Write(c echo.Context, result any) error {
	header := c.Response().Header()
	for key, value := range w.headers {
		header.Set(key, value)
	}
	return c.JSON(w.status, result)
}

func (jsonWriter) Operation() string                   { return "json" }
func (jsonWriter) Annotate(*newrelic.Transaction, any) {}

type noContentWriter struct {
	status int
}

func (w noContentWriter) Write(c echo.Context, _ any) error { return c.NoContent(w.status) }
func (noContentWriter) Operation() string                   { return "no_content" }
func (noContentWriter) Annotate(*newrelic.Transaction, any) {}

// textWriter expects a string result.
type textWriter struct {
	status int
}

func (w textWriter) Write(c echo.Context, result any) error {
	return c.String(w.status, result.(string))
}

func (textWriter) Operation() string { return "text" }

func (textWriter) Annotate(txn *newrelic.Transaction, result any) {
	if text, ok := result.(string); ok {
		txn.AddAttribute("response.text_length", len(text))
	}
}

// newRequest gives each request its own payload; the registered value is
// only a type template shared by every concurrent call.
func newRequest[Req validation.Validatable](template Req) Req {
	t := reflect.TypeOf(template)
	if t == nil || t.Kind() != reflect.Pointer {
		return template
	}
	return reflect.New(t.Elem()).Interface().(Req)
}

// phase reports one stage of a request to New Relic. A nil txn is allowed.
type phase struct {
	txn   *newrelic.Transaction
	name  string
	start time.Time
}

func startPhase(txn *newrelic.Transaction, name string) phase {
	return phase{txn: txn, name: name, start: time.Now()}
}

func (p phase) end(status string) time.Duration {
	elapsed := time.Since(p.start)
	if p.txn != nil {
		p.txn.AddAttribute(p.name+".status", status)
		p.txn.AddAttribute(p.name+".duration_ms", elapsed.Milliseconds())
	}
	return elapsed
}

// run binds and validates req, calls fn, and hands the result to w. Both
// phases are timed and logged on the request logger.
func run[Req validation.Validatable](
	c echo.Context,
	req Req,
	fn func(c echo.Context, req Req) (any, error),
	w ResponseWriter,
) error {
	started := time.Now()
	route := c.Path()
	txn := newrelic.FromContext(c.Request().Context())
	if txn != nil {
		txn.AddAttribute("handler.name", route)
	}

	log := middleware.GetLogger(c).With().
		Str("operation", w.Operation()).
		Str("route", route).
		Logger()

	validating := startPhase(txn, "validation")
	if err := validation.BindAndValidate(c, req); err != nil {
		log.Warn().Err(err).Dur("validation_duration", validating.end("failed")).Msg("request rejected")
		if txn != nil {
			txn.NoticeError(nrpkgerrors.Wrap(err))
		}
		return err
	}
	validated := validating.end("success")

	executing := startPhase(txn, "handler")
	result, err := fn(c, req)
	if err != nil {
		logPhases(log.Warn().Err(err), validated, executing.end("error"), started).Msg("handler failed")
		return err
	}
	handled := executing.end("success")

	if txn != nil {
		txn.AddAttribute("total.duration_ms", time.Since(started).Milliseconds())
		w.Annotate(txn, result)
	}
	logPhases(log.Debug(), validated, handled, started).Msg("request handled")

	return w.Write(c, result)
}

func logPhases(e *zerolog.Event, validated, handled time.Duration, started time.Time) *zerolog.Event {
	return e.
		Dur("validation_duration", validated).
		Dur("handler_duration", handled).
		Dur("total_duration", time.Since(started))
}

// Handle adapts a typed JSON endpoint to Echo:
//
//	g.GET("", handler.Handle(h.Handler, h.FindAll, http.StatusOK, &model.EmptyRequest{}))
func Handle[Req validation.Validatable, Res any](h Handler, fn HandlerFunc[Req, Res], status int, req Req) echo.HandlerFunc {
	return HandleWithHeaders(h, fn, status, req, nil)
}

// HandleWithHeaders is Handle with headers added to successful responses.
func HandleWithHeaders[Req validation.Validatable, Res any](
	h Handler,
	fn HandlerFunc[Req, Res],
	status int,
	req Req,
	headers map[string]string,
) echo.HandlerFunc {
	w := jsonWriter{status: status, headers: headers}
	return func(c echo.Context) error {
		return run(c, newRequest(req), func(c echo.Context, r Req) (any, error) { return fn(c, r) }, w)
	}
}

// HandleText adapts an endpoint whose result is a text/plain body.
func HandleText[Req validation.Validatable](h Handler, fn HandlerFunc[Req, string], status int, req Req) echo.HandlerFunc {
	w := textWriter{status: status}
	return func(c echo.Context) error {
		return run(c, newRequest(req), func(c echo.Context, r Req) (any, error) { return fn(c, r) }, w)
	}
}

// HandleNoContent adapts an endpoint that only ever answers with a status.
func HandleNoContent[Req validation.Validatable](h Handler, fn HandlerFuncNoContent[Req], status int, req Req) echo.HandlerFunc {
	w := noContentWriter{status: status}
	return func(c echo.Context) error {
		return run(c, newRequest(req), func(c echo.Context, r Req) (any, error) { return nil, fn(c, r) }, w)
	}
}
