package handler

import (
	"fmt"
	"net/http"
	"os"

	"github.com/deppfellow/hangar/internal/server"
	"github.com/labstack/echo/v4"
)

// DefaultOpenAPIUIPath is the docs page served at /docs. It loads
// /static/openapi.json in the browser.
const DefaultOpenAPIUIPath = "static/openapi.html"

// OpenAPIHandler serves the OpenAPI UI for trying the API from a browser.
type OpenAPIHandler struct {
	Handler
	uiPath string
}

// NewOpenAPIHandler constructs an OpenAPIHandler reading DefaultOpenAPIUIPath.
func NewOpenAPIHandler(s *server.Server) *OpenAPIHandler {
	return &OpenAPIHandler{
		Handler: NewHandler(s),
		uiPath:  DefaultOpenAPIUIPath,
	}
}

// ServeOpenAPIUI reads the docs page from disk on every request so edits
// show up without a restart. Cache-Control is "no-cache" for the same reason.
func (h *OpenAPIHandler) ServeOpenAPIUI(c echo.Context) error {
	templateBytes, err := os.ReadFile(h.uiPath)

	c.Response().Header().Set("Cache-Control", "no-cache")

	if err != nil {
		return fmt.Errorf("failed to read OpenAPI UI template: %w", err)
	}

	if err := c.HTML(http.StatusOK, string(templateBytes)); err != nil {
		return fmt.Errorf("failed to write HTML response: %w", err)
	}

	return nil
}
