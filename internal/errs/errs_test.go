package errs

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewForbiddenError(t *testing.T) {
	err := NewForbiddenError("Forbidden", false)

	assert.Equal(t, "FORBIDDEN", err.Code)
	assert.Equal(t, http.StatusForbidden, err.Status)
	assert.Equal(t, "Forbidden", err.Error())
}

func TestNewBadRequestError_CustomCode(t *testing.T) {
	code := "CAT_INVALID"
	fields := []FieldError{{Field: "age", Error: "is required"}}

	err := NewBadRequestError("Validation failed", true, &code, fields, nil)

	assert.Equal(t, "CAT_INVALID", err.Code)
	assert.Equal(t, http.StatusBadRequest, err.Status)
	assert.True(t, err.Override)
	assert.Equal(t, fields, err.Errors)
}

func TestNewNotFoundError_DefaultCode(t *testing.T) {
	err := NewNotFoundError("Route not found", false, nil)

	assert.Equal(t, "NOT_FOUND", err.Code)
	assert.Equal(t, http.StatusNotFound, err.Status)
}

func TestNewTooManyRequestsError(t *testing.T) {
	err := NewTooManyRequestsError("Too many requests")

	assert.Equal(t, "TOO_MANY_REQUESTS", err.Code)
	assert.Equal(t, http.StatusTooManyRequests, err.Status)
	assert.True(t, err.Override)
}

func TestNewInternalServerError_HidesDetails(t *testing.T) {
	err := NewInternalServerError()

	assert.Equal(t, "INTERNAL_SERVER_ERROR", err.Code)
	assert.Equal(t, "Internal Server Error", err.Message)
}

func TestHTTPError_IsMatchesAnyHTTPError(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", NewForbiddenError("nope", false))

	assert.True(t, errors.Is(wrapped, &HTTPError{}))

	var target *HTTPError
	require.True(t, errors.As(wrapped, &target))
	assert.Equal(t, http.StatusForbidden, target.Status)
}

func TestNewErrorResponse_JSONShape(t *testing.T) {
	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.FixedZone("CEST", 2*60*60))
	resp := NewErrorResponse(*NewForbiddenError("Forbidden", false), "/cats/error", now)

	body, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(body, &decoded))

	assert.Equal(t, "FORBIDDEN", decoded["code"])
	assert.EqualValues(t, http.StatusForbidden, decoded["status"])
	assert.Equal(t, "2026-10-16T10:00:00Z", decoded["timestamp"])
	assert.Equal(t, "/cats/error", decoded["path"])
}

func TestMakeUpperCaseWithUnderscores(t *testing.T) {
	assert.Equal(t, "BAD_REQUEST", MakeUpperCaseWithUnderscores("Bad Request"))
	assert.Equal(t, "NOT_FOUND", MakeUpperCaseWithUnderscores("Not Found"))
}
