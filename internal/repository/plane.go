package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/deppfellow/hangar/internal/model"
	"github.com/deppfellow/hangar/internal/sqlerr"
	"github.com/jackc/pgx/v5"
)

// DBTX is the subset of *pgxpool.Pool (or pgx.Tx) the repositories use.
type DBTX interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const planesTable = "planes"

// Text columns are nullable; they are read back as empty strings.
const planeColumns = `id, COALESCE(name, ''), COALESCE(kind, ''), COALESCE(description, ''), created_at, updated_at`

// PlaneRepository handles database operations for planes.
type PlaneRepository struct {
	db DBTX
}

// NewPlaneRepository creates a new PlaneRepository.
func NewPlaneRepository(db DBTX) *PlaneRepository {
	return &PlaneRepository{db: db}
}

// List returns every plane in insertion order.
func (r *PlaneRepository) List(ctx context.Context) ([]model.Plane, error) {
	query := `SELECT ` + planeColumns + ` FROM planes ORDER BY id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query planes: %w", err)
	}
	defer rows.Close()

	planes := []model.Plane{}
	for rows.Next() {
		p, err := scanPlane(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan plane row: %w", err)
		}
		planes = append(planes, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate planes: %w", err)
	}

	return planes, nil
}

// Create inserts a plane with the allow-listed attributes and returns the
// stored record, including its new id.
func (r *PlaneRepository) Create(ctx context.Context, params model.PlaneParams) (*model.Plane, error) {
	query := `
		INSERT INTO planes (name, kind, description)
		VALUES ($1, $2, $3)
		RETURNING ` + planeColumns

	p, err := scanPlane(r.db.QueryRow(ctx, query, params.Name, params.Kind, params.Description))
	if err != nil {
		return nil, fmt.Errorf("failed to create plane: %w", err)
	}
	return &p, nil
}

// FindByID returns the plane with the given id. A missing row yields an
// error wrapping pgx.ErrNoRows tagged with the table name.
func (r *PlaneRepository) FindByID(ctx context.Context, id int64) (*model.Plane, error) {
	query := `SELECT ` + planeColumns + ` FROM planes WHERE id = $1`

	p, err := scanPlane(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s%s: plane %d: %w", sqlerr.TableHint, planesTable, id, err)
		}
		return nil, fmt.Errorf("failed to scan plane: %w", err)
	}
	return &p, nil
}

func scanPlane(row pgx.Row) (model.Plane, error) {
	var p model.Plane
	err := row.Scan(&p.ID, &p.Name, &p.Kind, &p.Description, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}
