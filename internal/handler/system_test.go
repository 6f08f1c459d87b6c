package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/deppfellow/hangar/internal/config"
	"github.com/deppfellow/hangar/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSystemServer(obs *config.ObservabilityConfig) *server.Server {
	logger := zerolog.Nop()
	return &server.Server{
		Config: &config.Config{
			Primary:       config.Primary{Env: "test"},
			Observability: obs,
		},
		Logger: &logger,
	}
}

func getContext(path string) (echo.Context, *httptest.ResponseRecorder) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	return echo.New().NewContext(req, rec), rec
}

func TestCheckHealthDatabaseUnavailable(t *testing.T) {
	h := NewHealthHandler(newSystemServer(config.DefaultObservabilityConfig()))

	c, rec := getContext("/status")
	require.NoError(t, h.CheckHealth(c))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "unhealthy", body["status"])
	assert.Equal(t, "test", body["environment"])

	checks := body["checks"].(map[string]interface{})
	database := checks["database"].(map[string]interface{})
	assert.Equal(t, "unhealthy", database["status"])
	assert.Equal(t, "database not initialized", database["error"])
}

func TestCheckHealthChecksDisabled(t *testing.T) {
	obs := config.DefaultObservabilityConfig()
	obs.HealthChecks.Enabled = false
	h := NewHealthHandler(newSystemServer(obs))

	c, rec := getContext("/status")
	require.NoError(t, h.CheckHealth(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Empty(t, body["checks"])
}

func TestServeOpenAPIUI(t *testing.T) {
	path := filepath.Join(t.TempDir(), "openapi.html")
	require.NoError(t, os.WriteFile(path, []byte("<html>docs</html>"), 0o600))

	h := NewOpenAPIHandler(newSystemServer(nil))
	h.uiPath = path

	c, rec := getContext("/docs")
	require.NoError(t, h.ServeOpenAPIUI(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "<html>docs</html>", rec.Body.String())
}

func TestServeOpenAPIUIMissingFile(t *testing.T) {
	h := NewOpenAPIHandler(newSystemServer(nil))
	h.uiPath = filepath.Join(t.TempDir(), "missing.html")

	c, _ := getContext("/docs")
	assert.Error(t, h.ServeOpenAPIUI(c))
}
