package errs

import (
	"strings"
	"time"
)

// FieldError is one entry of HTTPError.Errors:
//
//	{ "field": "age", "error": "must not exceed 40" }
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// Action optionally tells the client what to do next, e.g. Type "redirect"
// with the target route in Value.
type Action struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Value   string `json:"value"`
}

// HTTPError is what every failed request is rendered from. Code is the
// machine-readable name, Override marks Message as safe to show end users.
type HTTPError struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Status   int    `json:"status"`
	Override bool   `json:"override"`

	Errors []FieldError `json:"errors"`
	Action *Action      `json:"action"`
}

// Error returns the Message, so logging the error shows what the client sees.
func (e *HTTPError) Error() string {
	return e.Message
}

// Is matches any *HTTPError regardless of code or status.
func (e *HTTPError) Is(target error) bool {
	_, ok := target.(*HTTPError)
	return ok
}

// ErrorResponse is the body the global error handler writes.
//
// It is the HTTPError plus the moment the error was rendered and the request
// path that produced it.
type ErrorResponse struct {
	HTTPError
	Timestamp string `json:"timestamp"`
	Path      string `json:"path"`
}

// NewErrorResponse stamps e with the render time (UTC, RFC3339) and path.
func NewErrorResponse(e HTTPError, path string, now time.Time) ErrorResponse {
	return ErrorResponse{
		HTTPError: e,
		Timestamp: now.UTC().Format(time.RFC3339),
		Path:      path,
	}
}

// MakeUpperCaseWithUnderscores: "Bad Request" -> "BAD_REQUEST".
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
