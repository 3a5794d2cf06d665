package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Shivanand-hulikatti/eventhub/internal/model"
	"github.com/jackc/pgx/v5"
)

const eventColumns = `event_id, name, event_date::text, description, organizer_name, location_id`

func scanEvents(rows pgx.Rows) ([]model.Event, error) {
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		var e model.Event
		if err := rows.Scan(&e.ID, &e.Name, &e.EventDate, &e.Description, &e.OrganizerName, &e.LocationID); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// ListEvents returns all events ordered by date.
func (r *Repository) ListEvents(ctx context.Context) ([]model.Event, error) {
	rows, err := r.db().Query(ctx,
		`SELECT `+eventColumns+` FROM events ORDER BY event_date, event_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return scanEvents(rows)
}

// EventsByDate returns the events held on date (YYYY-MM-DD).
func (r *Repository) EventsByDate(ctx context.Context, date string) ([]model.Event, error) {
	rows, err := r.db().Query(ctx,
		`SELECT `+eventColumns+` FROM events WHERE event_date = $1::date ORDER BY event_id`,
		date,
	)
	if err != nil {
		return nil, fmt.Errorf("list events by date: %w", err)
	}
	return scanEvents(rows)
}

// EventLocation returns the location of an event or ErrNotFound.
func (r *Repository) EventLocation(ctx context.Context, eventID int64) (int64, error) {
	var locationID int64
	err := r.db().QueryRow(ctx,
		`SELECT location_id FROM events WHERE event_id = $1`,
		eventID,
	).Scan(&locationID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("get event location: %w", err)
	}
	return locationID, nil
}

// CreateEvent inserts an event and returns its id. When req.EventID is set
// the row takes that identity.
func (r *Repository) CreateEvent(ctx context.Context, req model.CreateEventRequest) (int64, error) {
	var id int64
	var err error
	if req.EventID != nil {
		err = r.db().QueryRow(ctx,
			`INSERT INTO events (event_id, name, event_date, description, organizer_name, location_id)
			 VALUES ($1, $2, $3::date, $4, $5, $6)
			 RETURNING event_id`,
			*req.EventID, req.Name, req.EventDate, req.Description, req.OrganizerName, *req.LocationID,
		).Scan(&id)
		if err == nil {
			err = r.syncEventSequence(ctx)
		}
	} else {
		err = r.db().QueryRow(ctx,
			`INSERT INTO events (name, event_date, description, organizer_name, location_id)
			 VALUES ($1, $2::date, $3, $4, $5)
			 RETURNING event_id`,
			req.Name, req.EventDate, req.Description, req.OrganizerName, *req.LocationID,
		).Scan(&id)
	}
	if err != nil {
		return 0, fmt.Errorf("insert event: %w", constraintError(err))
	}
	return id, nil
}

// syncEventSequence moves the event identity past the highest stored id.
// Explicit-id inserts leave the sequence untouched.
func (r *Repository) syncEventSequence(ctx context.Context) error {
	_, err := r.db().Exec(ctx,
		`SELECT setval(pg_get_serial_sequence('events', 'event_id')::regclass, GREATEST(
		     (SELECT MAX(event_id) FROM events),
		     pg_sequence_last_value(pg_get_serial_sequence('events', 'event_id')::regclass),
		     1))`)
	if err != nil {
		return fmt.Errorf("sync event sequence: %w", err)
	}
	return nil
}

// UpdateEvent applies the non-nil fields of req to the event.
func (r *Repository) UpdateEvent(ctx context.Context, id int64, req model.UpdateEventRequest) error {
	b := newUpdate("events")
	setIfPresent(b, "name", req.Name)
	if req.EventDate != nil {
		b.set("event_date", *req.EventDate, "::date")
	}
	setIfPresent(b, "description", req.Description)
	setIfPresent(b, "organizer_name", req.OrganizerName)
	setIfPresent(b, "location_id", req.LocationID)
	if b.empty() {
		return ErrNoChanges
	}

	sql, args := b.build("event_id", id)
	tag, err := r.db().Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	return affected(tag)
}

// DeleteEvent removes the event row. Associations must be removed first.
func (r *Repository) DeleteEvent(ctx context.Context, id int64) error {
	tag, err := r.db().Exec(ctx, `DELETE FROM events WHERE event_id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	return affected(tag)
}

// CountEventsAtLocation returns how many events reference the location.
func (r *Repository) CountEventsAtLocation(ctx context.Context, locationID int64) (int, error) {
	n, err := count(ctx, r.db(),
		`SELECT COUNT(*) FROM events WHERE location_id = $1`,
		locationID,
	)
	if err != nil {
		return 0, fmt.Errorf("count events at location: %w", err)
	}
	return n, nil
}
