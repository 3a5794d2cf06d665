package service

import (
	"context"
	"errors"
	"strings"

	"github.com/Shivanand-hulikatti/eventhub/internal/model"
	"github.com/Shivanand-hulikatti/eventhub/internal/repository"
)

// LocationService manages venues.
type LocationService struct {
	store repository.Store
}

// NewLocationService returns a LocationService backed by store.
func NewLocationService(store repository.Store) *LocationService {
	return &LocationService{store: store}
}

// ListLocations returns every location.
func (s *LocationService) ListLocations(ctx context.Context) ([]model.Location, error) {
	return s.store.ListLocations(ctx)
}

// CreateLocation validates req and stores a new location, returning its id.
func (s *LocationService) CreateLocation(ctx context.Context, req model.CreateLocationRequest) (int64, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Address = strings.TrimSpace(req.Address)
	req.City = strings.TrimSpace(req.City)
	trimPtr(req.PostalCode)
	if err := validateRequest(req); err != nil {
		return 0, err
	}
	return s.store.CreateLocation(ctx, req)
}

// UpdateLocation applies a partial update. Lowering the capacity below the
// occupancy of events already held there is allowed.
func (s *LocationService) UpdateLocation(ctx context.Context, id int64, req model.UpdateLocationRequest) error {
	if id <= 0 {
		return invalid("id", "id must be a positive integer.")
	}
	trimPtr(req.Name)
	trimPtr(req.Address)
	trimPtr(req.City)
	if err := validateRequest(req); err != nil {
		return err
	}
	if err := requireChanges(req); err != nil {
		return err
	}

	err := s.store.UpdateLocation(ctx, id, req)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrLocationNotFound
	}
	return noChanges(err)
}

// DeleteLocation removes a venue that no event references.
func (s *LocationService) DeleteLocation(ctx context.Context, id int64) error {
	if id <= 0 {
		return invalid("id", "id must be a positive integer.")
	}

	n, err := s.store.CountEventsAtLocation(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrLocationInUse
	}

	err = s.store.DeleteLocation(ctx, id)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrLocationNotFound
	case errors.Is(err, repository.ErrReferenced):
		// An event was created between the count and the delete.
		return ErrLocationInUse
	}
	return err
}
