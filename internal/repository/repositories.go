// Package repository handles all interactions with the database.
//
// It contains the SQL for each entity and hides it from the service layer.
package repository

import (
	"github.com/deppfellow/hangar/internal/server"
)

// Repositories is a container for all repository instances.
type Repositories struct {
	Plane *PlaneRepository
}

// NewRepositories builds every repository on top of the server's pool.
func NewRepositories(s *server.Server) *Repositories {
	return &Repositories{
		Plane: NewPlaneRepository(s.DB.Pool),
	}
}
