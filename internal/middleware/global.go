package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/deppfellow/go-cats/internal/errs"
	"github.com/deppfellow/go-cats/internal/server"
	"github.com/deppfellow/go-cats/internal/sqlerr"
)

// GlobalMiddlewares holds the middleware applied to every route and the
// error handler installed on Echo.
type GlobalMiddlewares struct {
	server *server.Server
	now    func() time.Time
}

func NewGlobalMiddlewares(s *server.Server) *GlobalMiddlewares {
	return &GlobalMiddlewares{server: s, now: time.Now}
}

func (global *GlobalMiddlewares) CORS() echo.MiddlewareFunc {
	return middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:  global.server.Config.Server.CORSAllowedOrigins,
		ExposeHeaders: []string{RequestIDHeader},
	})
}

func (global *GlobalMiddlewares) Recover() echo.MiddlewareFunc {
	return middleware.Recover()
}

func (global *GlobalMiddlewares) Secure() echo.MiddlewareFunc {
	return middleware.Secure()
}

// RequestLogger emits one "API" line per request on the request logger.
//
// A returned error has not been rendered yet when this runs, so the logged
// status comes from classifying the error rather than from the response.
func (global *GlobalMiddlewares) RequestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:     true,
		LogStatus:  true,
		LogError:   true,
		LogLatency: true,
		LogHost:    true,
		LogMethod:  true,

		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			status := v.Status
			if v.Error != nil {
				status = classify(v.Error).Status
			}

			eventFor(GetLogger(c), status, v.Error).
				Dur("latency", v.Latency).
				Int("status", status).
				Str("method", v.Method).
				Str("uri", v.URI).
				Str("host", v.Host).
				Str("ip", c.RealIP()).
				Str("user_agent", c.Request().UserAgent()).
				Msg("API")
			return nil
		},
	})
}

// GlobalErrorHandler renders every error that escapes a handler as an
// errs.ErrorResponse stamped with the request path and time. Nothing is
// written once the response is committed; HEAD gets the status only.
func (global *GlobalMiddlewares) GlobalErrorHandler(err error, c echo.Context) {
	body := classify(err)
	logger := GetLogger(c)

	event := logger.Warn()
	switch {
	case body.Status >= http.StatusInternalServerError:
		event = logger.Error().Stack()
	case body.Status == errs.StatusClientClosedRequest:
		event = logger.Debug()
	}
	event.
		Err(err).
		Int("status", body.Status).
		Str("error_code", body.Code).
		Msg(body.Message)

	if c.Response().Committed {
		return
	}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(body.Status)
	} else {
		writeErr = c.JSON(body.Status, errs.NewErrorResponse(body, c.Request().URL.Path, global.now()))
	}
	if writeErr != nil {
		logger.Error().Err(writeErr).Msg("failed to write error response")
	}
}

// classify maps any error onto the HTTPError sent to the client.
// Unknown routes read "Route not found"; other Echo errors take their code
// from the status text; a cancelled request context is a 499; everything
// else goes through sqlerr.
func classify(err error) errs.HTTPError {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return *httpErr
	}

	if errors.Is(err, context.Canceled) {
		return *errs.NewClientClosedRequestError()
	}

	var echoErr *echo.HTTPError
	if !errors.As(err, &echoErr) {
		if errors.As(sqlerr.HandleError(err), &httpErr) {
			return *httpErr
		}
		return *errs.NewInternalServerError()
	}

	if echoErr.Code == http.StatusNotFound {
		return *errs.NewNotFoundError("Route not found", false, nil)
	}

	text := http.StatusText(echoErr.Code)
	body := errs.HTTPError{
		Code:    errs.MakeUpperCaseWithUnderscores(text),
		Message: text,
		Status:  echoErr.Code,
	}
	if msg, ok := echoErr.Message.(string); ok {
		body.Message = msg
	}
	return body
}

func eventFor(logger *zerolog.Logger, status int, err error) *zerolog.Event {
	switch {
	case status >= http.StatusInternalServerError:
		return logger.Error().Err(err)
	case status >= http.StatusBadRequest:
		return logger.Warn()
	default:
		return logger.Info()
	}
}
