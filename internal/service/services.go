// Package service contains the business logic.
//
// It sits between the handler and repository layers: it receives bound
// request data from handlers and calls repository methods to persist it.
package service

import (
	"github.com/deppfellow/hangar/internal/lib/job"
	"github.com/deppfellow/hangar/internal/repository"
	"github.com/deppfellow/hangar/internal/server"
)

// Services groups every service so the router wiring passes one value around.
type Services struct {
	Plane *PlaneService
	Job   *job.JobService
}

// NewServices builds the services on top of the repositories.
func NewServices(s *server.Server, repos *repository.Repositories) (*Services, error) {
	var publisher PlaneEventPublisher
	if s.Job != nil {
		publisher = s.Job
	}

	return &Services{
		Plane: NewPlaneService(repos.Plane, publisher, s.Logger),
		Job:   s.Job,
	}, nil
}
