package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Shivanand-hulikatti/eventhub/internal/model"
	"github.com/Shivanand-hulikatti/eventhub/internal/repository"
	"github.com/rs/zerolog"
)

// ParticipantService handles participant registration and maintenance.
type ParticipantService struct {
	store repository.Store
}

// NewParticipantService constructs a ParticipantService with its store.
func NewParticipantService(store repository.Store) *ParticipantService {
	return &ParticipantService{store: store}
}

// ListParticipants returns all participants.
func (s *ParticipantService) ListParticipants(ctx context.Context) ([]model.Participant, error) {
	return s.store.ListParticipants(ctx)
}

// CreateParticipant registers a participant for an event.
//
// The event must exist and its venue must have room for one more attendee.
// The participant row and its event association are written in the same
// transaction as the capacity check.
func (s *ParticipantService) CreateParticipant(ctx context.Context, req model.CreateParticipantRequest) (int64, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	trimPtr(req.PhoneNumber)
	if err := validateRequest(req); err != nil {
		return 0, err
	}
	eventID := *req.EventID

	var id int64
	err := s.store.WithTx(ctx, func(ctx context.Context, tx repository.Store) error {
		locationID, err := tx.EventLocation(ctx, eventID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrEventNotFound
			}
			return fmt.Errorf("look up event location: %w", err)
		}

		occupancy := func(ctx context.Context) (int, error) {
			return tx.CountEventParticipants(ctx, eventID)
		}
		if err := admit(ctx, tx, "create_participant", locationID, occupancy); err != nil {
			return err
		}

		created, err := tx.CreateParticipant(ctx, req)
		if err != nil {
			return err
		}
		if err := tx.AddEventParticipant(ctx, eventID, created); err != nil {
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

// UpdateParticipant applies a partial update. Capacity is not re-checked.
func (s *ParticipantService) UpdateParticipant(ctx context.Context, id int64, req model.UpdateParticipantRequest) error {
	if id <= 0 {
		return invalid("id", "id must be a positive integer.")
	}
	trimPtr(req.Name)
	trimPtr(req.Email)
	if err := validateRequest(req); err != nil {
		return err
	}
	if err := requireChanges(req); err != nil {
		return err
	}

	err := s.store.UpdateParticipant(ctx, id, req)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrParticipantNotFound
	}
	return noChanges(err)
}

// DeleteParticipant removes a participant and its associations and returns
// the remaining occupancy of the event it was registered for, or 0 when it
// had no association.
func (s *ParticipantService) DeleteParticipant(ctx context.Context, id int64) (int, error) {
	if id <= 0 {
		return 0, invalid("id", "id must be a positive integer.")
	}

	eventIDs, err := s.store.ParticipantEventIDs(ctx, id)
	if err != nil {
		return 0, err
	}

	if err := s.store.RemoveParticipantEvents(ctx, id); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Int64("participant_id", id).Msg("failed to remove participant associations")
	}

	if err := s.store.DeleteParticipant(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, ErrParticipantNotFound
		}
		return 0, err
	}

	if len(eventIDs) == 0 {
		return 0, nil
	}
	return s.store.CountEventParticipants(ctx, eventIDs[0])
}
