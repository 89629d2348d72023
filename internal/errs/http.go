package errs

import "net/http"

// newHTTPError builds an error whose code is derived from the status text,
// 403 becoming "FORBIDDEN".
func newHTTPError(status int, message string, override bool) *HTTPError {
	return &HTTPError{
		Code:     MakeUpperCaseWithUnderscores(http.StatusText(status)),
		Message:  message,
		Status:   status,
		Override: override,
	}
}

func NewForbiddenError(message string, override bool) *HTTPError {
	return newHTTPError(http.StatusForbidden, message, override)
}

// NewBadRequestError is a 400. A nil code keeps "BAD_REQUEST"; fields carry
// per-field validation failures.
func NewBadRequestError(message string, override bool, code *string, fields []FieldError, action *Action) *HTTPError {
	e := newHTTPError(http.StatusBadRequest, message, override)
	if code != nil {
		e.Code = *code
	}
	e.Errors = fields
	e.Action = action
	return e
}

func NewNotFoundError(message string, override bool, code *string) *HTTPError {
	e := newHTTPError(http.StatusNotFound, message, override)
	if code != nil {
		e.Code = *code
	}
	return e
}

// NewTooManyRequestsError is always safe to show to the client.
func NewTooManyRequestsError(message string) *HTTPError {
	return newHTTPError(http.StatusTooManyRequests, message, true)
}

func NewServiceUnavailableError(message string) *HTTPError {
	return newHTTPError(http.StatusServiceUnavailable, message, false)
}

// StatusClientClosedRequest is the non-standard status for requests the
// client abandoned before an answer was ready.
const StatusClientClosedRequest = 499

func NewClientClosedRequestError() *HTTPError {
	return &HTTPError{
		Code:    "CLIENT_CLOSED_REQUEST",
		Message: "Client closed request",
		Status:  StatusClientClosedRequest,
	}
}

// NewInternalServerError never carries the underlying cause.
func NewInternalServerError() *HTTPError {
	return newHTTPError(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError), false)
}
