package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/woodhaven/storefront/internal/core/domain"
	"github.com/woodhaven/storefront/internal/port"
)

var (
	ErrOrderNotFound  = errors.New("order not found")
	ErrInvalidStatus  = errors.New("invalid order status")
	ErrNotCancellable = errors.New("order can no longer be cancelled")
)

// OrderService exposes order reads and status mutations, gated by the
// authorization guard.
type OrderService struct {
	store  port.Store
	guard  Guard
	logger *slog.Logger
}

func NewOrderService(store port.Store, logger *slog.Logger) *OrderService {
	return &OrderService{store: store, logger: logger}
}

// ListOrders returns the actor's own orders, newest first.
func (s *OrderService) ListOrders(ctx context.Context, actor *domain.Actor) ([]domain.Order, error) {
	if actor == nil {
		return nil, ErrNotAuthenticated
	}
	orders, err := s.store.ListOrdersByOwner(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// ListAllOrders returns every order in the store, newest first. A
// non-admin caller gets an empty list, not an error.
func (s *OrderService) ListAllOrders(ctx context.Context, actor *domain.Actor) ([]domain.Order, error) {
	if !s.guard.Allow(actor, ActionViewAllOrders) {
		return []domain.Order{}, nil
	}
	orders, err := s.store.ListAllOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("list all orders: %w", err)
	}
	return orders, nil
}

// UpdateStatus sets an order to any of the four statuses. This is the
// administrative override: no forward-only restriction applies here.
// Denied attempts are rejected and not applied.
func (s *OrderService) UpdateStatus(ctx context.Context, actor *domain.Actor, orderID int64, status domain.OrderStatus) error {
	if !s.guard.Allow(actor, ActionMutateAnyOrderStatus) {
		s.logger.Warn("order status change denied", "order_id", orderID)
		return ErrForbidden
	}
	if !status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	order, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return fmt.Errorf("get order: %w", err)
	}
	if order == nil {
		return ErrOrderNotFound
	}
	if err := s.store.UpdateOrderStatus(ctx, orderID, status); err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	s.logger.Info("order status changed", "order_id", orderID, "from", order.Status, "to", status)
	return nil
}

// CancelOrder cancels a pending order through the ordinary-user
// surface. The owner or an admin may cancel; once shipped or delivered
// this path is closed. Cancellation is a status, not a removal.
func (s *OrderService) CancelOrder(ctx context.Context, actor *domain.Actor, orderID int64) error {
	if actor == nil {
		return ErrNotAuthenticated
	}
	order, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return fmt.Errorf("get order: %w", err)
	}
	if order == nil {
		return ErrOrderNotFound
	}
	if !actor.Admin && order.UserID != actor.ID {
		return ErrForbidden
	}
	if !order.CancellableBy(actor) {
		return ErrNotCancellable
	}
	if err := s.store.UpdateOrderStatus(ctx, orderID, domain.StatusCancelled); err != nil {
		return fmt.Errorf("cancel order: %w", err)
	}
	s.logger.Info("order cancelled", "order_id", orderID, "user_id", actor.ID)
	return nil
}

// Summary is the admin dashboard aggregate: per-status counts and total
// revenue, with cancelled orders excluded from revenue.
type Summary struct {
	Total     int
	Pending   int
	Shipped   int
	Delivered int
	Cancelled int
	Revenue   domain.Amount
}

func (s *OrderService) Summarize(ctx context.Context, actor *domain.Actor) (*Summary, error) {
	if !s.guard.Allow(actor, ActionViewAllOrders) {
		return nil, ErrForbidden
	}
	orders, err := s.store.ListAllOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("list all orders: %w", err)
	}
	sum := &Summary{Total: len(orders)}
	for _, o := range orders {
		switch o.Status {
		case domain.StatusPending:
			sum.Pending++
		case domain.StatusShipped:
			sum.Shipped++
		case domain.StatusDelivered:
			sum.Delivered++
		case domain.StatusCancelled:
			sum.Cancelled++
		}
		if o.Status != domain.StatusCancelled {
			sum.Revenue += o.Total
		}
	}
	return sum, nil
}
