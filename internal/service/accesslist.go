package service

import (
	"context"
	"fmt"

	"github.com/Shivanand-hulikatti/eventhub/internal/access"
	"github.com/Shivanand-hulikatti/eventhub/internal/model"
	"github.com/Shivanand-hulikatti/eventhub/internal/repository"
)

// AccessService maintains the blacklist and whitelist consulted by the
// access gate.
type AccessService struct {
	store repository.Store
}

// NewAccessService returns an AccessService backed by store.
func NewAccessService(store repository.Store) *AccessService {
	return &AccessService{store: store}
}

// Add puts the request's address on list and returns the address as stored.
// Adding an address that is already present succeeds.
func (s *AccessService) Add(ctx context.Context, list model.AccessList, req model.AccessListRequest) (string, error) {
	ip, err := s.address(req)
	if err != nil {
		return "", err
	}
	if err := s.store.AddAccessEntry(ctx, list, ip); err != nil {
		return "", fmt.Errorf("add to %s: %w", list, err)
	}
	return ip, nil
}

// Remove takes the request's address off list. Removing an absent address
// succeeds.
func (s *AccessService) Remove(ctx context.Context, list model.AccessList, req model.AccessListRequest) (string, error) {
	ip, err := s.address(req)
	if err != nil {
		return "", err
	}
	if err := s.store.RemoveAccessEntry(ctx, list, ip); err != nil {
		return "", fmt.Errorf("remove from %s: %w", list, err)
	}
	return ip, nil
}

func (s *AccessService) address(req model.AccessListRequest) (string, error) {
	req.IPAddress = access.Canonical(req.IPAddress)
	if err := validateRequest(req); err != nil {
		return "", err
	}
	return req.IPAddress, nil
}
