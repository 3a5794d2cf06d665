package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Shivanand-hulikatti/eventhub/internal/model"
	"github.com/Shivanand-hulikatti/eventhub/internal/repository"
)

// EventService orchestrates event-related business operations.
type EventService struct {
	store repository.Store
}

// NewEventService constructs an EventService with its store.
func NewEventService(store repository.Store) *EventService {
	return &EventService{store: store}
}

// ListEvents returns all events.
func (s *EventService) ListEvents(ctx context.Context) ([]model.Event, error) {
	return s.store.ListEvents(ctx)
}

// CreateEvent validates the request, checks that the venue has room for the
// event's current participants, and inserts the event.
//
// A new event normally has no participants. When the caller supplies an
// event_id, associations already recorded under that id are counted.
func (s *EventService) CreateEvent(ctx context.Context, req model.CreateEventRequest) (int64, error) {
	req.Name = strings.TrimSpace(req.Name)
	trimPtr(req.Description)
	trimPtr(req.OrganizerName)
	if err := validateRequest(req); err != nil {
		return 0, err
	}

	var id int64
	err := s.store.WithTx(ctx, func(ctx context.Context, tx repository.Store) error {
		occupancy := func(ctx context.Context) (int, error) {
			if req.EventID == nil {
				return 0, nil
			}
			return tx.CountEventParticipants(ctx, *req.EventID)
		}
		if err := admit(ctx, tx, "create_event", *req.LocationID, occupancy); err != nil {
			return err
		}

		created, err := tx.CreateEvent(ctx, req)
		if err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return ErrEventExists
			}
			return err
		}
		id = created
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// UpdateEvent applies a partial update after re-checking capacity: against
// the new venue when location_id changes, otherwise against the event's
// current venue.
func (s *EventService) UpdateEvent(ctx context.Context, id int64, req model.UpdateEventRequest) error {
	if id <= 0 {
		return invalid("id", "id must be a positive integer.")
	}
	trimPtr(req.Name)
	if err := validateRequest(req); err != nil {
		return err
	}
	if err := requireChanges(req); err != nil {
		return err
	}

	return noChanges(s.store.WithTx(ctx, func(ctx context.Context, tx repository.Store) error {
		var locationID int64
		if req.LocationID != nil {
			locationID = *req.LocationID
		} else {
			current, err := tx.EventLocation(ctx, id)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return ErrEventNotFound
				}
				return fmt.Errorf("look up event location: %w", err)
			}
			locationID = current
		}

		occupancy := func(ctx context.Context) (int, error) {
			return tx.CountEventParticipants(ctx, id)
		}
		if err := admit(ctx, tx, "update_event", locationID, occupancy); err != nil {
			return err
		}

		if err := tx.UpdateEvent(ctx, id, req); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrEventNotFound
			}
			return err
		}
		return nil
	}))
}

// DeleteEvent removes the event's participant associations, then the event.
// The association cleanup stands even when the event turns out not to exist.
func (s *EventService) DeleteEvent(ctx context.Context, id int64) error {
	if id <= 0 {
		return invalid("id", "id must be a positive integer.")
	}
	if err := s.store.RemoveEventParticipants(ctx, id); err != nil {
		return err
	}
	if err := s.store.DeleteEvent(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrEventNotFound
		}
		return err
	}
	return nil
}
