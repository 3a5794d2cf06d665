package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Shivanand-hulikatti/eventhub/internal/model"
	"github.com/jackc/pgx/v5"
)

// ListLocations returns all locations.
func (r *Repository) ListLocations(ctx context.Context) ([]model.Location, error) {
	rows, err := r.db().Query(ctx,
		`SELECT location_id, name, capacity, address, city, postal_code
		 FROM locations
		 ORDER BY location_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()

	var locations []model.Location
	for rows.Next() {
		var l model.Location
		if err := rows.Scan(&l.ID, &l.Name, &l.Capacity, &l.Address, &l.City, &l.PostalCode); err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		locations = append(locations, l)
	}
	return locations, rows.Err()
}

// LocationCapacity returns the capacity of a location or ErrNotFound.
//
// Inside a transaction the row is read with SELECT … FOR UPDATE, so every
// capacity-checked write against the same venue is serialised until the
// transaction commits or rolls back. Two concurrent registrations can then
// never both observe the last free seat.
func (r *Repository) LocationCapacity(ctx context.Context, locationID int64) (int, error) {
	sql := `SELECT capacity FROM locations WHERE location_id = $1`
	if r.tx != nil {
		sql += ` FOR UPDATE`
	}

	var capacity int
	if err := r.db().QueryRow(ctx, sql, locationID).Scan(&capacity); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("get location capacity: %w", err)
	}
	return capacity, nil
}

// CreateLocation inserts a location and returns its id.
func (r *Repository) CreateLocation(ctx context.Context, req model.CreateLocationRequest) (int64, error) {
	var id int64
	err := r.db().QueryRow(ctx,
		`INSERT INTO locations (name, capacity, address, city, postal_code)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING location_id`,
		req.Name, *req.Capacity, req.Address, req.City, req.PostalCode,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert location: %w", err)
	}
	return id, nil
}

// UpdateLocation applies the non-nil fields of req to the location.
func (r *Repository) UpdateLocation(ctx context.Context, id int64, req model.UpdateLocationRequest) error {
	b := newUpdate("locations")
	setIfPresent(b, "name", req.Name)
	setIfPresent(b, "capacity", req.Capacity)
	setIfPresent(b, "address", req.Address)
	setIfPresent(b, "city", req.City)
	setIfPresent(b, "postal_code", req.PostalCode)
	if b.empty() {
		return ErrNoChanges
	}

	sql, args := b.build("location_id", id)
	tag, err := r.db().Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update location: %w", err)
	}
	return affected(tag)
}

// DeleteLocation removes the location row.
func (r *Repository) DeleteLocation(ctx context.Context, id int64) error {
	tag, err := r.db().Exec(ctx, `DELETE FROM locations WHERE location_id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete location: %w", constraintError(err))
	}
	return affected(tag)
}
