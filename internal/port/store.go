package port

import (
	"context"

	"github.com/woodhaven/storefront/internal/core/domain"
)

// Store is the persistence collaborator. Domain logic is written once
// against this interface and never branches on which backend is active.
type Store interface {
	// CreateProduct inserts a catalog product and returns its id
	CreateProduct(ctx context.Context, p domain.Product) (int64, error)

	// UpdateProduct replaces the stored product identified by p.ID
	UpdateProduct(ctx context.Context, p domain.Product) error

	// DeleteProduct removes a product; historical order items keep their copies
	DeleteProduct(ctx context.Context, id int64) error

	// GetProduct retrieves a product by id, nil if absent
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)

	// ListProducts returns the catalog ordered by id
	ListProducts(ctx context.Context) ([]domain.Product, error)

	// CreateOrder persists an order header and returns the assigned id
	CreateOrder(ctx context.Context, o domain.Order) (int64, error)

	// AddOrderItems persists the frozen line items for an order header
	AddOrderItems(ctx context.Context, orderID int64, items []domain.OrderItem) error

	// GetOrder retrieves an order header with its items, nil if absent
	GetOrder(ctx context.Context, id int64) (*domain.Order, error)

	// ListOrdersByOwner returns a user's orders with items, newest first
	ListOrdersByOwner(ctx context.Context, userID string) ([]domain.Order, error)

	// ListAllOrders returns every order with items, newest first
	ListAllOrders(ctx context.Context) ([]domain.Order, error)

	// UpdateOrderStatus sets the status field; total and items are untouched
	UpdateOrderStatus(ctx context.Context, id int64, status domain.OrderStatus) error

	// CreateProfile inserts a user profile
	CreateProfile(ctx context.Context, p domain.Profile) error

	// GetProfile retrieves a profile by user id, nil if absent
	GetProfile(ctx context.Context, userID string) (*domain.Profile, error)

	// ListProfiles returns all profiles
	ListProfiles(ctx context.Context) ([]domain.Profile, error)

	// DeleteProfile removes a profile and its role assignments
	DeleteProfile(ctx context.Context, userID string) error

	// HasRole reports whether the user carries the role assignment
	HasRole(ctx context.Context, userID, role string) (bool, error)

	// GrantRole adds a role assignment; granting an existing one is a no-op
	GrantRole(ctx context.Context, userID, role string) error

	// RevokeRole removes a role assignment; revoking an absent one is a no-op
	RevokeRole(ctx context.Context, userID, role string) error
}
