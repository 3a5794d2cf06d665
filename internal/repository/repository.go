// Package repository implements all database queries for the event management system.
// It uses pgx directly (no ORM).
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Shivanand-hulikatti/eventhub/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// ErrNoChanges is returned by partial updates that carry no fields.
var ErrNoChanges = errors.New("no fields to update")

// ErrDuplicate is returned when an insert collides with an existing key.
var ErrDuplicate = errors.New("duplicate key")

// ErrReferenced is returned when a row cannot be removed or linked because of
// a foreign key.
var ErrReferenced = errors.New("foreign key violation")

// PostgreSQL SQLSTATE codes.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// Store is the persistence contract used by the service layer.
type Store interface {
	// WithTx runs fn against a Store bound to a single transaction. The
	// transaction commits when fn returns nil and rolls back otherwise.
	WithTx(ctx context.Context, fn func(ctx context.Context, s Store) error) error

	ListEvents(ctx context.Context) ([]model.Event, error)
	EventsByDate(ctx context.Context, date string) ([]model.Event, error)
	EventLocation(ctx context.Context, eventID int64) (int64, error)
	CreateEvent(ctx context.Context, req model.CreateEventRequest) (int64, error)
	UpdateEvent(ctx context.Context, id int64, req model.UpdateEventRequest) error
	DeleteEvent(ctx context.Context, id int64) error
	CountEventsAtLocation(ctx context.Context, locationID int64) (int, error)

	ListParticipants(ctx context.Context) ([]model.Participant, error)
	ParticipantsByStatus(ctx context.Context, status string) ([]model.Participant, error)
	CreateParticipant(ctx context.Context, req model.CreateParticipantRequest) (int64, error)
	UpdateParticipant(ctx context.Context, id int64, req model.UpdateParticipantRequest) error
	DeleteParticipant(ctx context.Context, id int64) error

	CountEventParticipants(ctx context.Context, eventID int64) (int, error)
	AddEventParticipant(ctx context.Context, eventID, participantID int64) error
	RemoveEventParticipants(ctx context.Context, eventID int64) error
	RemoveParticipantEvents(ctx context.Context, participantID int64) error
	ParticipantEventIDs(ctx context.Context, participantID int64) ([]int64, error)

	ListLocations(ctx context.Context) ([]model.Location, error)
	LocationCapacity(ctx context.Context, locationID int64) (int, error)
	CreateLocation(ctx context.Context, req model.CreateLocationRequest) (int64, error)
	UpdateLocation(ctx context.Context, id int64, req model.UpdateLocationRequest) error
	DeleteLocation(ctx context.Context, id int64) error

	FeedbackByEvent(ctx context.Context, eventID int64) ([]model.Row, error)
	SponsorsByEvent(ctx context.Context, eventID int64) ([]model.Row, error)

	HasAccessEntry(ctx context.Context, list model.AccessList, ip string) (bool, error)
	AddAccessEntry(ctx context.Context, list model.AccessList, ip string) error
	RemoveAccessEntry(ctx context.Context, list model.AccessList, ip string) error
}

// querier is the subset of pgx shared by *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository is the PostgreSQL implementation of Store.
type Repository struct {
	pool *pgxpool.Pool
	tx   pgx.Tx
}

var _ Store = (*Repository)(nil)

// NewRepository constructs a Repository over the pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) db() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.pool
}

// WithTx implements Store. Nested calls reuse the outer transaction.
func (r *Repository) WithTx(ctx context.Context, fn func(ctx context.Context, s Store) error) error {
	if r.tx != nil {
		return fn(ctx, r)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(ctx, &Repository{pool: r.pool, tx: tx}); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Ping checks database connectivity.
func (r *Repository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// affected maps a zero-row mutation to ErrNotFound.
func affected(tag pgconn.CommandTag) error {
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// constraintError maps integrity violations onto sentinel errors, wrapping the
// original so the detail stays available.
func constraintError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgUniqueViolation:
		return fmt.Errorf("%w: %s", ErrDuplicate, pgErr.ConstraintName)
	case pgForeignKeyViolation:
		return fmt.Errorf("%w: %s", ErrReferenced, pgErr.ConstraintName)
	}
	return err
}

func count(ctx context.Context, q querier, sql string, args ...any) (int, error) {
	var n int
	if err := q.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
