package handler

import (
	"context"
	"fmt"

	"github.com/woodhaven/storefront/internal/core/domain"
	"github.com/woodhaven/storefront/internal/port"
)

// StoreIdentity resolves session tokens against the profile and role
// tables. Authentication itself lives outside this application; the
// token is treated as an already-verified user id.
type StoreIdentity struct {
	store port.Store
}

func NewStoreIdentity(store port.Store) *StoreIdentity {
	return &StoreIdentity{store: store}
}

func (s *StoreIdentity) Resolve(ctx context.Context, token string) (*domain.Actor, error) {
	if token == "" {
		return nil, nil
	}
	profile, err := s.store.GetProfile(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("resolve profile: %w", err)
	}
	if profile == nil {
		return nil, nil
	}
	isAdmin, err := s.store.HasRole(ctx, profile.UserID, domain.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("resolve role: %w", err)
	}
	return &domain.Actor{ID: profile.UserID, Name: profile.Name, Admin: isAdmin}, nil
}
