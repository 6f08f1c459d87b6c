// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares and maps paths to their handlers.
package router

import (
	"fmt"
	"net/http"

	"github.com/deppfellow/hangar/internal/handler"
	"github.com/deppfellow/hangar/internal/middleware"
	"github.com/deppfellow/hangar/internal/server"
	"github.com/deppfellow/hangar/internal/view"
	"github.com/labstack/echo/v4"
)

// NewRouter builds the echo instance with the global middleware stack, the
// HTML renderer and every route.
func NewRouter(s *server.Server, h *handler.Handlers) (*echo.Echo, error) {
	middlewares := middleware.NewMiddlewares(s)

	renderer, err := view.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true
	router.Renderer = renderer
	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	// Order matters: the request id must exist before tracing and the context
	// logger read it, the request logger needs the context logger, and every
	// response below it (429s included) is logged with both.
	router.Use(
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		middlewares.RateLimit.Limit(),
		middlewares.Global.CORS(),
		middlewares.Global.Secure(),
		middlewares.Global.Recover(),
	)

	registerSystemRoutes(router, h)
	registerPlaneRoutes(router, h)

	router.GET("/", func(c echo.Context) error {
		return c.Redirect(http.StatusFound, handler.PlanesPath)
	})

	return router, nil
}
