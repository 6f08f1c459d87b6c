package validation

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deppfellow/hangar/internal/errs"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tagRequest struct {
	Name string `json:"name" validate:"required,max=5"`
}

func (r *tagRequest) Validate() error { return Struct(r) }

type customRequest struct {
	Kind string `json:"kind"`
}

func (r *customRequest) Validate() error {
	if r.Kind == "" {
		return CustomValidationErrors{{Field: "kind", Message: "is required"}}
	}
	return nil
}

type binderRequest struct {
	bound bool
	err   error
}

func (r *binderRequest) Bind(echo.Context) error {
	r.bound = true
	return r.err
}

func (r *binderRequest) Validate() error {
	return errs.NewMissingParameterError("plane")
}

func jsonContext(body string) echo.Context {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return echo.New().NewContext(req, httptest.NewRecorder())
}

func requireHTTPError(t *testing.T, err error) *errs.HTTPError {
	t.Helper()
	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr), "expected *errs.HTTPError, got %T", err)
	return httpErr
}

func TestBindAndValidateTags(t *testing.T) {
	req := &tagRequest{}
	httpErr := requireHTTPError(t, BindAndValidate(jsonContext(`{}`), req))

	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, []errs.FieldError{{Field: "name", Error: "is required"}}, httpErr.Errors)

	req = &tagRequest{}
	httpErr = requireHTTPError(t, BindAndValidate(jsonContext(`{"name":"too long"}`), req))
	assert.Equal(t, "must not exceed 5 characters", httpErr.Errors[0].Error)

	req = &tagRequest{}
	require.NoError(t, BindAndValidate(jsonContext(`{"name":"ok"}`), req))
	assert.Equal(t, "ok", req.Name)
}

func TestBindAndValidateCustomErrors(t *testing.T) {
	httpErr := requireHTTPError(t, BindAndValidate(jsonContext(`{}`), &customRequest{}))
	assert.Equal(t, []errs.FieldError{{Field: "kind", Error: "is required"}}, httpErr.Errors)
}

func TestBindAndValidateMalformedJSON(t *testing.T) {
	httpErr := requireHTTPError(t, BindAndValidate(jsonContext(`{"name":`), &tagRequest{}))
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
}

func TestBindAndValidateUsesRequestBinder(t *testing.T) {
	req := &binderRequest{}
	err := BindAndValidate(jsonContext(`{}`), req)

	assert.True(t, req.bound)
	assert.True(t, errs.IsMissingParameter(err))

	req = &binderRequest{err: errors.New("bad form")}
	httpErr := requireHTTPError(t, BindAndValidate(jsonContext(`{}`), req))
	assert.Equal(t, "Invalid request body", httpErr.Message)
}
