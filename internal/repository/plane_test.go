package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/deppfellow/hangar/internal/model"
	"github.com/deppfellow/hangar/internal/sqlerr"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var planeColumnNames = []string{"id", "name", "kind", "description", "created_at", "updated_at"}

func newMockRepo(t *testing.T) (*PlaneRepository, pgxmock.PgxPoolIface) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	return NewPlaneRepository(mock), mock
}

func strPtr(s string) *string { return &s }

func TestPlaneRepositoryListEmpty(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM planes ORDER BY id")).
		WillReturnRows(pgxmock.NewRows(planeColumnNames))

	planes, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, planes)
	assert.Empty(t, planes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlaneRepositoryList(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("FROM planes ORDER BY id")).
		WillReturnRows(pgxmock.NewRows(planeColumnNames).
			AddRow(int64(1), "Cessna 172", "single-engine", "trainer", now, now).
			AddRow(int64(2), "A320", "", "", now, now))

	planes, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, planes, 2)
	assert.Equal(t, int64(1), planes[0].ID)
	assert.Equal(t, "Cessna 172", planes[0].Name)
	assert.Equal(t, "A320", planes[1].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlaneRepositoryCreate(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()

	params := model.PlaneParams{
		Name:        strPtr("Cessna 172"),
		Kind:        strPtr("single-engine"),
		Description: strPtr("trainer"),
	}

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO planes (name, kind, description)")).
		WithArgs(params.Name, params.Kind, params.Description).
		WillReturnRows(pgxmock.NewRows(planeColumnNames).
			AddRow(int64(7), "Cessna 172", "single-engine", "trainer", now, now))

	plane, err := repo.Create(context.Background(), params)
	require.NoError(t, err)
	assert.Equal(t, int64(7), plane.ID)
	assert.Equal(t, "single-engine", plane.Kind)
	assert.Equal(t, "trainer", plane.Description)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlaneRepositoryCreateNullFields(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()

	params := model.PlaneParams{Name: strPtr("X")}

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO planes")).
		WithArgs(params.Name, (*string)(nil), (*string)(nil)).
		WillReturnRows(pgxmock.NewRows(planeColumnNames).
			AddRow(int64(1), "X", "", "", now, now))

	plane, err := repo.Create(context.Background(), params)
	require.NoError(t, err)
	assert.Equal(t, "X", plane.Name)
	assert.Empty(t, plane.Kind)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlaneRepositoryFindByID(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("FROM planes WHERE id = $1")).
		WithArgs(int64(3)).
		WillReturnRows(pgxmock.NewRows(planeColumnNames).
			AddRow(int64(3), "Piper Cub", "taildragger", "", now, now))

	plane, err := repo.FindByID(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "Piper Cub", plane.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlaneRepositoryFindByIDMissing(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM planes WHERE id = $1")).
		WithArgs(int64(99)).
		WillReturnError(pgx.ErrNoRows)

	plane, err := repo.FindByID(context.Background(), 99)
	assert.Nil(t, plane)
	require.Error(t, err)
	assert.True(t, errors.Is(err, pgx.ErrNoRows))
	assert.Contains(t, err.Error(), sqlerr.TableHint+"planes")
	assert.NoError(t, mock.ExpectationsWereMet())
}
