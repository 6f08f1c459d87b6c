package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/deppfellow/hangar/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	planes  []model.Plane
	nextID  int64
	failErr error
}

func (m *memoryStore) List(context.Context) ([]model.Plane, error) {
	if m.failErr != nil {
		return nil, m.failErr
	}
	return append([]model.Plane(nil), m.planes...), nil
}

func (m *memoryStore) Create(_ context.Context, params model.PlaneParams) (*model.Plane, error) {
	if m.failErr != nil {
		return nil, m.failErr
	}
	m.nextID++
	p := model.Plane{ID: m.nextID, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	if params.Name != nil {
		p.Name = *params.Name
	}
	if params.Kind != nil {
		p.Kind = *params.Kind
	}
	if params.Description != nil {
		p.Description = *params.Description
	}
	m.planes = append(m.planes, p)
	return &p, nil
}

func (m *memoryStore) FindByID(_ context.Context, id int64) (*model.Plane, error) {
	for i := range m.planes {
		if m.planes[i].ID == id {
			p := m.planes[i]
			return &p, nil
		}
	}
	return nil, fmt.Errorf("table:planes: plane %d: %w", id, pgx.ErrNoRows)
}

type recordingPublisher struct {
	published []int64
	deadlines []time.Time
	err       error
}

func (r *recordingPublisher) PublishPlaneRegistered(ctx context.Context, plane *model.Plane) error {
	if deadline, ok := ctx.Deadline(); ok {
		r.deadlines = append(r.deadlines, deadline)
	}
	if r.err != nil {
		return r.err
	}
	r.published = append(r.published, plane.ID)
	return nil
}

func strPtr(s string) *string { return &s }

func newTestService(store PlaneStore, publisher PlaneEventPublisher) *PlaneService {
	logger := zerolog.Nop()
	return NewPlaneService(store, publisher, &logger)
}

func TestPlaneServiceListEmpty(t *testing.T) {
	svc := newTestService(&memoryStore{}, nil)

	planes, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, planes)
	assert.Empty(t, planes)
}

func TestPlaneServiceListAfterCreates(t *testing.T) {
	svc := newTestService(&memoryStore{}, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.Create(ctx, model.PlaneParams{Name: strPtr(fmt.Sprintf("plane-%d", i))})
		require.NoError(t, err)
	}

	planes, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, planes, 3)
}

func TestPlaneServiceCreateRoundTrip(t *testing.T) {
	publisher := &recordingPublisher{}
	svc := newTestService(&memoryStore{}, publisher)
	ctx := context.Background()

	created, err := svc.Create(ctx, model.PlaneParams{
		Name:        strPtr("Cessna 172"),
		Kind:        strPtr("single-engine"),
		Description: strPtr("trainer"),
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	found, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cessna 172", found.Name)
	assert.Equal(t, "single-engine", found.Kind)
	assert.Equal(t, "trainer", found.Description)

	assert.Equal(t, []int64{created.ID}, publisher.published)
}

func TestPlaneServiceCreateIsNotIdempotent(t *testing.T) {
	svc := newTestService(&memoryStore{}, nil)
	params := model.PlaneParams{Name: strPtr("X")}

	first, err := svc.Create(context.Background(), params)
	require.NoError(t, err)
	second, err := svc.Create(context.Background(), params)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
}

func TestPlaneServiceCreateIgnoresPublisherFailure(t *testing.T) {
	svc := newTestService(&memoryStore{}, &recordingPublisher{err: errors.New("redis down")})

	plane, err := svc.Create(context.Background(), model.PlaneParams{Name: strPtr("X")})
	require.NoError(t, err)
	assert.Equal(t, "X", plane.Name)
}

func TestPlaneServiceStoreErrorsPropagate(t *testing.T) {
	storeErr := errors.New("constraint violated")
	publisher := &recordingPublisher{}
	svc := newTestService(&memoryStore{failErr: storeErr}, publisher)

	_, err := svc.Create(context.Background(), model.PlaneParams{})
	assert.ErrorIs(t, err, storeErr)
	assert.Empty(t, publisher.published)

	_, err = svc.List(context.Background())
	assert.ErrorIs(t, err, storeErr)
}

func TestPlaneServiceGetByIDMissing(t *testing.T) {
	svc := newTestService(&memoryStore{}, nil)

	_, err := svc.GetByID(context.Background(), 42)
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestPlaneServiceNew(t *testing.T) {
	svc := newTestService(&memoryStore{}, nil)

	plane := svc.New()
	assert.False(t, plane.Persisted())
	assert.Empty(t, plane.Name)
}

func TestPlaneServiceCreateBoundsPublish(t *testing.T) {
	publisher := &recordingPublisher{}
	svc := newTestService(&memoryStore{}, publisher)

	start := time.Now()
	_, err := svc.Create(context.Background(), model.PlaneParams{Name: strPtr("Beaver")})
	require.NoError(t, err)

	require.Len(t, publisher.deadlines, 1)
	assert.WithinDuration(t, start.Add(publishTimeout), publisher.deadlines[0], time.Second)
}
