package validation

import (
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/deppfellow/go-cats/internal/errs"
)

const failedMessage = "Validation failed"

// Validatable is a request payload that checks itself, usually by calling
// Struct on its validator tags.
type Validatable interface {
	Validate() error
}

var validate = validator.New()

// Struct runs tag validation on v.
func Struct(v any) error {
	return validate.Struct(v)
}

// BindAndValidate fills payload from the path, query and body, then
// validates it. Binding failures are 400s without field detail; validation
// failures are 400s listing each offending field.
func BindAndValidate(c echo.Context, payload Validatable) error {
	if err := c.Bind(payload); err != nil {
		return errs.NewBadRequestError(bindFailure(err), false, nil, nil, nil)
	}

	err := payload.Validate()
	if err == nil {
		return nil
	}
	return errs.NewBadRequestError(failedMessage, true, nil, fieldErrors(err), nil)
}

// bindFailure keeps Echo's own description, e.g.
// "Syntax error: offset=9, error=unexpected end of JSON input".
func bindFailure(err error) string {
	var echoErr *echo.HTTPError
	if !errors.As(err, &echoErr) {
		return "Invalid request payload"
	}
	if msg, ok := echoErr.Message.(string); ok && msg != "" {
		return msg
	}
	return http.StatusText(echoErr.Code)
}

func fieldErrors(err error) []errs.FieldError {
	var tagged validator.ValidationErrors
	if !errors.As(err, &tagged) {
		return []errs.FieldError{{Error: err.Error()}}
	}

	out := make([]errs.FieldError, 0, len(tagged))
	for _, fe := range tagged {
		out = append(out, errs.FieldError{
			Field: strings.ToLower(fe.Field()),
			Error: describe(fe),
		})
	}
	return out
}

var fixedMessages = map[string]string{
	"required":        "is required",
	"numeric":         "must be numeric",
	"alphanumunicode": "must contain only letters and digits",
	"email":           "must be a valid email address",
	"dive":            "some items are invalid",
}

// describe renders a single tag failure. min and max count characters for
// strings and compare values for everything else.
func describe(fe validator.FieldError) string {
	if msg, ok := fixedMessages[fe.Tag()]; ok {
		return msg
	}

	unit := ""
	if fe.Kind() == reflect.String {
		unit = " characters"
	}

	switch fe.Tag() {
	case "min":
		return fmt.Sprintf("must be at least %s%s", fe.Param(), unit)
	case "max":
		return fmt.Sprintf("must not exceed %s%s", fe.Param(), unit)
	case "oneof":
		return "must be one of: " + fe.Param()
	}

	if fe.Param() == "" {
		return "failed " + fe.Tag()
	}
	return fmt.Sprintf("failed %s=%s", fe.Tag(), fe.Param())
}
