// Package model holds the persisted entities.
package model

import "time"

// Plane is a single aircraft record. ID and the timestamps are owned by the
// store; only Name, Kind and Description ever come from client input.
type Plane struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Kind        string    `json:"kind"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Persisted reports whether the plane has been stored (has an id).
func (p *Plane) Persisted() bool {
	return p.ID != 0
}

// PlaneParams is the allow-list of client-writable plane attributes.
//
// Requests are decoded straight into this struct, so any other submitted key
// (id, admin, created_at, ...) has nowhere to land and is dropped. A nil
// field was not submitted and is stored as NULL.
type PlaneParams struct {
	Name        *string `json:"name"`
	Kind        *string `json:"kind"`
	Description *string `json:"description"`
}
