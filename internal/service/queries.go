package service

import (
	"context"
	"time"

	"github.com/Shivanand-hulikatti/eventhub/internal/model"
	"github.com/Shivanand-hulikatti/eventhub/internal/repository"
)

// QueryService answers the read-only filtered lookups. Every lookup that
// matches nothing returns ErrNoResults.
type QueryService struct {
	store repository.Store
}

// NewQueryService returns a QueryService backed by store.
func NewQueryService(store repository.Store) *QueryService {
	return &QueryService{store: store}
}

// EventsByDate returns the events held on date (YYYY-MM-DD).
func (s *QueryService) EventsByDate(ctx context.Context, date string) ([]model.Event, error) {
	if _, err := time.Parse(model.DateLayout, date); err != nil {
		return nil, invalid("date", "Valid date (YYYY-MM-DD) is required.")
	}
	return nonEmpty(s.store.EventsByDate(ctx, date))
}

// ParticipantsByStatus returns the participants with the given status.
func (s *QueryService) ParticipantsByStatus(ctx context.Context, status string) ([]model.Participant, error) {
	switch status {
	case model.StatusRegistered, model.StatusCanceled, model.StatusWaitlisted:
	default:
		return nil, invalid("status", "status must be one of: registered, canceled, waitlisted.")
	}
	return nonEmpty(s.store.ParticipantsByStatus(ctx, status))
}

// FeedbackByEvent returns the feedback rows recorded for eventID.
func (s *QueryService) FeedbackByEvent(ctx context.Context, eventID int64) ([]model.Row, error) {
	if eventID <= 0 {
		return nil, invalid("eventId", "eventId must be a positive integer.")
	}
	return nonEmpty(s.store.FeedbackByEvent(ctx, eventID))
}

// SponsorsByEvent returns the sponsors attached to eventID.
func (s *QueryService) SponsorsByEvent(ctx context.Context, eventID int64) ([]model.Row, error) {
	if eventID <= 0 {
		return nil, invalid("eventId", "eventId must be a positive integer.")
	}
	return nonEmpty(s.store.SponsorsByEvent(ctx, eventID))
}

func nonEmpty[T any](rows []T, err error) ([]T, error) {
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNoResults
	}
	return rows, nil
}
