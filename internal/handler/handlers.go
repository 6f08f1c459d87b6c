// Package handler is the first layer after the router.
//
// It binds and validates requests through the validation package, calls the
// service layer, and writes the response.
package handler

import (
	"github.com/deppfellow/hangar/internal/server"
	"github.com/deppfellow/hangar/internal/service"
)

// Handlers groups all HTTP handlers so router setup passes one value around.
type Handlers struct {
	Health  *HealthHandler  // Health serves /status.
	OpenAPI *OpenAPIHandler // OpenAPI serves the API docs UI.
	Plane   *PlaneHandler
}

// NewHandlers constructs the handler container.
func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:  NewHealthHandler(s),
		OpenAPI: NewOpenAPIHandler(s),
		Plane:   NewPlaneHandler(s, services.Plane),
	}
}
