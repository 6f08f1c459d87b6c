package router

import (
	"github.com/deppfellow/hangar/internal/handler"
	"github.com/labstack/echo/v4"
)

// registerPlaneRoutes mounts the plane resource. /planes/new is a static
// route, so echo matches it before /planes/:id.
func registerPlaneRoutes(r *echo.Echo, h *handler.Handlers) {
	planes := r.Group(handler.PlanesPath)

	planes.GET("", h.Plane.List())
	planes.GET("/new", h.Plane.New())
	planes.POST("", h.Plane.Create())
	planes.GET("/:id", h.Plane.Show())
}
