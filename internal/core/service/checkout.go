package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/woodhaven/storefront/internal/core/domain"
	"github.com/woodhaven/storefront/internal/port"
)

var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrEmptyAddress      = errors.New("delivery address is required")
	ErrInvalidPayment    = errors.New("payment details are invalid")
	ErrDuplicateCheckout = errors.New("duplicate checkout request")
)

// CheckoutRequest is the actor's checkout submission. IdempotencyToken
// is optional; when present, resubmissions with the same token are
// rejected before any write.
type CheckoutRequest struct {
	Address          string
	Method           domain.PaymentMethod
	Payment          *PaymentDetails
	IdempotencyToken string
}

// CheckoutService turns a cart into a persisted order.
type CheckoutService struct {
	store  port.Store
	cache  port.Cache // nil disables duplicate detection
	delay  time.Duration
	logger *slog.Logger
}

func NewCheckoutService(store port.Store, cache port.Cache, delay time.Duration, logger *slog.Logger) *CheckoutService {
	return &CheckoutService{store: store, cache: cache, delay: delay, logger: logger}
}

// PlaceOrder validates the submission, recomputes totals from the live
// cart, persists the order header and then its line items, and clears
// the cart. A precondition failure aborts with zero writes. A line-item
// failure after the header insert is surfaced as an error and leaves
// the header behind; nothing is retried.
func (s *CheckoutService) PlaceOrder(ctx context.Context, actor *domain.Actor, cart *domain.Cart, req CheckoutRequest) (int64, error) {
	if actor == nil {
		return 0, ErrNotAuthenticated
	}
	if cart == nil || cart.Empty() {
		return 0, ErrEmptyCart
	}
	address := strings.TrimSpace(req.Address)
	if address == "" {
		return 0, ErrEmptyAddress
	}
	if !req.Method.Valid() {
		return 0, fmt.Errorf("%w: unknown payment method %q", ErrInvalidPayment, req.Method)
	}
	if req.Method == domain.PaymentOnline && !validPayment(req.Payment) {
		return 0, ErrInvalidPayment
	}

	if s.cache != nil && req.IdempotencyToken != "" {
		key := fmt.Sprintf("checkout:%s:%s", actor.ID, req.IdempotencyToken)
		ok, err := s.cache.PutIdempotency(ctx, key)
		if err != nil {
			return 0, fmt.Errorf("idempotency check failed: %w", err)
		}
		if !ok {
			return 0, ErrDuplicateCheckout
		}
	}

	// Simulated payment processing. Not cancellable; always resolves.
	if s.delay > 0 {
		time.Sleep(s.delay)
	}

	order := domain.NewOrder(actor.ID, cart.Lines(), req.Method, address)

	id, err := s.store.CreateOrder(ctx, order)
	if err != nil {
		return 0, fmt.Errorf("create order: %w", err)
	}

	if err := s.store.AddOrderItems(ctx, id, order.Items); err != nil {
		// The header stays behind without items; reported once, no rollback.
		s.logger.Error("order items not written", "order_id", id, "error", err)
		return 0, fmt.Errorf("add order items: %w", err)
	}

	cart.Clear()
	s.logger.Info("order placed", "order_id", id, "user_id", actor.ID, "total", order.Total)
	return id, nil
}
