package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/woodhaven/storefront/internal/core/domain"
	"github.com/woodhaven/storefront/internal/port"
)

var (
	ErrSelfTarget     = errors.New("cannot modify own account")
	ErrUserNotFound   = errors.New("user not found")
	ErrInvalidProduct = errors.New("invalid product")
)

// AdminService manages the catalog, user profiles and role assignments.
type AdminService struct {
	store  port.Store
	guard  Guard
	logger *slog.Logger
}

func NewAdminService(store port.Store, logger *slog.Logger) *AdminService {
	return &AdminService{store: store, logger: logger}
}

// UserAccount is a profile joined with its effective role, as shown on
// the admin user list.
type UserAccount struct {
	domain.Profile
	Role string
}

// ListUsers returns every profile with its effective role.
func (s *AdminService) ListUsers(ctx context.Context, actor *domain.Actor) ([]UserAccount, error) {
	if !s.guard.Allow(actor, ActionManageRoles) {
		return nil, ErrForbidden
	}
	profiles, err := s.store.ListProfiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	accounts := make([]UserAccount, 0, len(profiles))
	for _, p := range profiles {
		isAdmin, err := s.store.HasRole(ctx, p.UserID, domain.RoleAdmin)
		if err != nil {
			return nil, fmt.Errorf("check role: %w", err)
		}
		role := "user"
		if isAdmin {
			role = domain.RoleAdmin
		}
		accounts = append(accounts, UserAccount{Profile: p, Role: role})
	}
	return accounts, nil
}

// ToggleAdmin flips the target's admin role: revokes it if held, grants
// it otherwise. The self-check is unconditional and independent of the
// guard, so an admin can never lock themselves out through this surface.
func (s *AdminService) ToggleAdmin(ctx context.Context, actor *domain.Actor, targetUserID string) error {
	if actor != nil && actor.ID == targetUserID {
		return ErrSelfTarget
	}
	if !s.guard.Allow(actor, ActionManageRoles) {
		return ErrForbidden
	}
	target, err := s.store.GetProfile(ctx, targetUserID)
	if err != nil {
		return fmt.Errorf("get profile: %w", err)
	}
	if target == nil {
		return ErrUserNotFound
	}
	isAdmin, err := s.store.HasRole(ctx, targetUserID, domain.RoleAdmin)
	if err != nil {
		return fmt.Errorf("check role: %w", err)
	}
	if isAdmin {
		err = s.store.RevokeRole(ctx, targetUserID, domain.RoleAdmin)
	} else {
		err = s.store.GrantRole(ctx, targetUserID, domain.RoleAdmin)
	}
	if err != nil {
		return fmt.Errorf("toggle role: %w", err)
	}
	s.logger.Info("admin role toggled", "target", targetUserID, "granted", !isAdmin)
	return nil
}

// DeleteUser removes a profile and its role assignments. It carries the
// same unconditional self-protection as ToggleAdmin.
func (s *AdminService) DeleteUser(ctx context.Context, actor *domain.Actor, targetUserID string) error {
	if actor != nil && actor.ID == targetUserID {
		return ErrSelfTarget
	}
	if !s.guard.Allow(actor, ActionManageRoles) {
		return ErrForbidden
	}
	target, err := s.store.GetProfile(ctx, targetUserID)
	if err != nil {
		return fmt.Errorf("get profile: %w", err)
	}
	if target == nil {
		return ErrUserNotFound
	}
	if err := s.store.DeleteProfile(ctx, targetUserID); err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	s.logger.Info("user deleted", "target", targetUserID)
	return nil
}

// SaveProduct creates the product when p.ID is zero, otherwise updates
// it. Existing order items are frozen copies and stay untouched either
// way.
func (s *AdminService) SaveProduct(ctx context.Context, actor *domain.Actor, p domain.Product) (int64, error) {
	if !s.guard.Allow(actor, ActionManageCatalog) {
		return 0, ErrForbidden
	}
	if strings.TrimSpace(p.Name) == "" {
		return 0, fmt.Errorf("%w: name is required", ErrInvalidProduct)
	}
	if p.Price < 0 {
		return 0, fmt.Errorf("%w: price must not be negative", ErrInvalidProduct)
	}
	if !domain.ValidCategory(p.Category) {
		return 0, fmt.Errorf("%w: unknown category %q", ErrInvalidProduct, p.Category)
	}
	if p.ID == 0 {
		id, err := s.store.CreateProduct(ctx, p)
		if err != nil {
			return 0, fmt.Errorf("create product: %w", err)
		}
		return id, nil
	}
	if err := s.store.UpdateProduct(ctx, p); err != nil {
		return 0, fmt.Errorf("update product: %w", err)
	}
	return p.ID, nil
}

// DeleteProduct removes a catalog product.
func (s *AdminService) DeleteProduct(ctx context.Context, actor *domain.Actor, id int64) error {
	if !s.guard.Allow(actor, ActionManageCatalog) {
		return ErrForbidden
	}
	if err := s.store.DeleteProduct(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	s.logger.Info("product deleted", "product_id", id)
	return nil
}
