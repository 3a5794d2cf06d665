// Package capacity decides whether a venue can admit one more occupant.
package capacity

import (
	"context"
	"errors"
	"fmt"

	"github.com/Shivanand-hulikatti/eventhub/internal/repository"
)

var (
	// ErrLocationNotFound is returned when the venue does not exist.
	ErrLocationNotFound = errors.New("location not found")

	// ErrCapacityExceeded is returned when the venue has no free place left.
	ErrCapacityExceeded = errors.New("venue capacity exceeded")
)

// Reader reads the capacity of a venue; repository.Store satisfies it.
type Reader interface {
	LocationCapacity(ctx context.Context, locationID int64) (int, error)
}

// Admit reports whether a venue of the given capacity can take one more
// occupant when occupancy places are already taken. Reaching capacity counts
// as full.
func Admit(capacity, occupancy int) error {
	if occupancy >= capacity {
		return ErrCapacityExceeded
	}
	return nil
}

// OccupancyFunc returns the current occupancy of the event being checked.
type OccupancyFunc func(ctx context.Context) (int, error)

// Fixed is an OccupancyFunc for an occupancy that is already known.
func Fixed(n int) OccupancyFunc {
	return func(context.Context) (int, error) { return n, nil }
}

// Check reads the capacity of locationID and applies Admit. It has no side
// effects beyond the read.
func Check(ctx context.Context, r Reader, locationID int64, occupancy int) error {
	return Evaluate(ctx, r, locationID, Fixed(occupancy))
}

// Evaluate is Check with the occupancy counted after the capacity read. When
// r is bound to a transaction that locks the venue row, the count then
// reflects every write committed before the lock was granted.
func Evaluate(ctx context.Context, r Reader, locationID int64, occupancy OccupancyFunc) error {
	capacity, err := r.LocationCapacity(ctx, locationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrLocationNotFound
		}
		return fmt.Errorf("read capacity: %w", err)
	}

	n, err := occupancy(ctx)
	if err != nil {
		return fmt.Errorf("count occupancy: %w", err)
	}
	return Admit(capacity, n)
}
