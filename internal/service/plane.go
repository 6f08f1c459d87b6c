package service

import (
	"context"
	"time"

	"github.com/deppfellow/hangar/internal/model"
	"github.com/rs/zerolog"
)

// publishTimeout bounds the enqueue of the plane registered event.
const publishTimeout = 2 * time.Second

// PlaneStore is the persistence contract the plane service depends on.
// *repository.PlaneRepository satisfies it.
type PlaneStore interface {
	List(ctx context.Context) ([]model.Plane, error)
	Create(ctx context.Context, params model.PlaneParams) (*model.Plane, error)
	FindByID(ctx context.Context, id int64) (*model.Plane, error)
}

// PlaneEventPublisher is notified after a plane has been stored.
type PlaneEventPublisher interface {
	PublishPlaneRegistered(ctx context.Context, plane *model.Plane) error
}

// PlaneService passes plane operations through to the store.
//
// It adds no validation: whatever the store rejects is returned
// to the caller unchanged.
type PlaneService struct {
	store     PlaneStore
	publisher PlaneEventPublisher
	logger    *zerolog.Logger
}

// NewPlaneService creates a PlaneService. publisher may be nil.
func NewPlaneService(store PlaneStore, publisher PlaneEventPublisher, logger *zerolog.Logger) *PlaneService {
	return &PlaneService{
		store:     store,
		publisher: publisher,
		logger:    logger,
	}
}

// List returns all planes. It never returns a nil slice on success.
func (s *PlaneService) List(ctx context.Context) ([]model.Plane, error) {
	planes, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	if planes == nil {
		planes = []model.Plane{}
	}
	return planes, nil
}

// New returns an empty, unsaved plane for the creation form.
func (s *PlaneService) New() *model.Plane {
	return &model.Plane{}
}

// Create stores a plane built only from the allow-listed params.
// Every call creates a new record.
func (s *PlaneService) Create(ctx context.Context, params model.PlaneParams) (*model.Plane, error) {
	plane, err := s.store.Create(ctx, params)
	if err != nil {
		return nil, err
	}

	logger := s.loggerFor(ctx)

	logger.Info().
		Int64("plane_id", plane.ID).
		Str("name", plane.Name).
		Msg("plane created")

	if s.publisher != nil {
		// The record is already stored; a lost event must not fail the request.
		pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
		defer cancel()

		if err := s.publisher.PublishPlaneRegistered(pubCtx, plane); err != nil {
			logger.Warn().
				Err(err).
				Int64("plane_id", plane.ID).
				Msg("failed to publish plane registered event")
		}
	}

	return plane, nil
}

// GetByID returns the plane with the given id. A missing plane surfaces as
// the store's not-found error.
func (s *PlaneService) GetByID(ctx context.Context, id int64) (*model.Plane, error) {
	return s.store.FindByID(ctx, id)
}

// loggerFor prefers the request-scoped logger carried by ctx.
func (s *PlaneService) loggerFor(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return s.logger
}
