package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewMissingParameterError(t *testing.T) {
	err := NewMissingParameterError("plane")

	assert.Equal(t, http.StatusBadRequest, err.Status)
	assert.Equal(t, CodeParameterMissing, err.Code)
	assert.Contains(t, err.Error(), "plane")
	assert.Equal(t, []FieldError{{Field: "plane", Error: "is required"}}, err.Errors)
	assert.True(t, IsMissingParameter(fmt.Errorf("create: %w", err)))
	assert.False(t, IsNotFound(err))
}

func TestNewNotFoundError(t *testing.T) {
	err := NewNotFoundError("Plane not found", true, nil)

	assert.Equal(t, "NOT_FOUND", err.Code)
	assert.True(t, IsNotFound(err))
	assert.False(t, IsMissingParameter(err))

	code := "PLANE_NOT_FOUND"
	assert.Equal(t, code, NewNotFoundError("x", false, &code).Code)
}

func TestHTTPErrorIsAndWithMessage(t *testing.T) {
	base := NewInternalServerError()
	changed := base.WithMessage("boom")

	assert.Equal(t, "boom", changed.Message)
	assert.Equal(t, http.StatusText(http.StatusInternalServerError), base.Message)
	assert.True(t, errors.Is(changed, &HTTPError{}))
	assert.False(t, errors.Is(errors.New("plain"), &HTTPError{}))
}

func TestMakeUpperCaseWithUnderscores(t *testing.T) {
	assert.Equal(t, "BAD_REQUEST", MakeUpperCaseWithUnderscores("Bad Request"))
}

func TestNewTooManyRequestsError(t *testing.T) {
	err := NewTooManyRequestsError("Rate limit exceeded")

	assert.Equal(t, http.StatusTooManyRequests, err.Status)
	assert.Equal(t, "TOO_MANY_REQUESTS", err.Code)
	assert.False(t, IsNotFound(err))
}
