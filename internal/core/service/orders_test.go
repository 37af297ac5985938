package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/woodhaven/storefront/internal/adapter/storage"
	"github.com/woodhaven/storefront/internal/core/domain"
)

func seedOrder(t *testing.T, store *storage.MemoryStore, userID string, status domain.OrderStatus, total domain.Amount, at time.Time) int64 {
	t.Helper()
	id, err := store.CreateOrder(context.Background(), domain.Order{
		UserID:        userID,
		Total:         total,
		Status:        status,
		PaymentMethod: domain.PaymentCOD,
		Address:       "12 Elm Street",
		CreatedAt:     at,
	})
	if err != nil {
		t.Fatalf("seed order: %v", err)
	}
	err = store.AddOrderItems(context.Background(), id, []domain.OrderItem{
		{ProductID: 1, ProductName: "Sofa", Price: total, Quantity: 1},
	})
	if err != nil {
		t.Fatalf("seed items: %v", err)
	}
	return id
}

func TestListOrders_OwnerOnlyNewestFirst(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := NewOrderService(store, testLogger())
	base := time.Now()

	older := seedOrder(t, store, "user-1", domain.StatusPending, 100, base.Add(-time.Hour))
	newer := seedOrder(t, store, "user-1", domain.StatusPending, 200, base)
	seedOrder(t, store, "user-2", domain.StatusPending, 300, base)

	orders, err := svc.ListOrders(context.Background(), &domain.Actor{ID: "user-1"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(orders))
	}
	if orders[0].ID != newer || orders[1].ID != older {
		t.Errorf("expected newest first [%d %d], got [%d %d]", newer, older, orders[0].ID, orders[1].ID)
	}
	if len(orders[0].Items) != 1 {
		t.Errorf("expected items to be loaded, got %d", len(orders[0].Items))
	}
}

func TestListAllOrders_NonAdminGetsEmptyList(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := NewOrderService(store, testLogger())
	seedOrder(t, store, "user-1", domain.StatusPending, 100, time.Now())

	orders, err := svc.ListAllOrders(context.Background(), &domain.Actor{ID: "user-2"})
	if err != nil {
		t.Fatalf("expected no error for denied read, got %v", err)
	}
	if orders == nil || len(orders) != 0 {
		t.Errorf("expected empty list, got %v", orders)
	}
}

func TestListAllOrders_AdminSeesEverything(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := NewOrderService(store, testLogger())
	seedOrder(t, store, "user-1", domain.StatusPending, 100, time.Now().Add(-time.Minute))
	seedOrder(t, store, "user-2", domain.StatusShipped, 200, time.Now())

	orders, err := svc.ListAllOrders(context.Background(), &domain.Actor{ID: "admin-1", Admin: true})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(orders) != 2 {
		t.Errorf("expected 2 orders, got %d", len(orders))
	}
}

func TestUpdateStatus_NonAdminRejectedAndNotApplied(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := NewOrderService(store, testLogger())
	id := seedOrder(t, store, "user-1", domain.StatusPending, 100, time.Now())

	err := svc.UpdateStatus(context.Background(), &domain.Actor{ID: "user-1"}, id, domain.StatusShipped)
	if !errors.Is(err, ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}

	order, _ := store.GetOrder(context.Background(), id)
	if order.Status != domain.StatusPending {
		t.Errorf("status must not change on a denied attempt, got %s", order.Status)
	}
}

func TestUpdateStatus_AdminMayReachAnyStatus(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := NewOrderService(store, testLogger())
	admin := &domain.Actor{ID: "admin-1", Admin: true}
	id := seedOrder(t, store, "user-1", domain.StatusDelivered, 100, time.Now())

	// Backwards move: the admin override has no forward-only restriction.
	if err := svc.UpdateStatus(context.Background(), admin, id, domain.StatusPending); err != nil {
		t.Fatalf("expected admin override to succeed, got %v", err)
	}
	order, _ := store.GetOrder(context.Background(), id)
	if order.Status != domain.StatusPending {
		t.Errorf("expected Pending, got %s", order.Status)
	}
}

func TestUpdateStatus_InvalidStatus(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := NewOrderService(store, testLogger())
	id := seedOrder(t, store, "user-1", domain.StatusPending, 100, time.Now())

	err := svc.UpdateStatus(context.Background(), &domain.Actor{ID: "admin-1", Admin: true}, id, "Refunded")
	if !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestUpdateStatus_UnknownOrder(t *testing.T) {
	svc := NewOrderService(storage.NewMemoryStore(), testLogger())

	err := svc.UpdateStatus(context.Background(), &domain.Actor{ID: "admin-1", Admin: true}, 42, domain.StatusShipped)
	if !errors.Is(err, ErrOrderNotFound) {
		t.Errorf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestCancelOrder_OwnerWhilePending(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := NewOrderService(store, testLogger())
	id := seedOrder(t, store, "user-1", domain.StatusPending, 100, time.Now())

	if err := svc.CancelOrder(context.Background(), &domain.Actor{ID: "user-1"}, id); err != nil {
		t.Fatalf("expected cancel to succeed, got %v", err)
	}
	order, _ := store.GetOrder(context.Background(), id)
	if order.Status != domain.StatusCancelled {
		t.Errorf("expected Cancelled, got %s", order.Status)
	}
}

func TestCancelOrder_StrangerForbidden(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := NewOrderService(store, testLogger())
	id := seedOrder(t, store, "user-1", domain.StatusPending, 100, time.Now())

	err := svc.CancelOrder(context.Background(), &domain.Actor{ID: "user-2"}, id)
	if !errors.Is(err, ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
}

func TestCancelOrder_ShippedIsClosed(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := NewOrderService(store, testLogger())
	id := seedOrder(t, store, "user-1", domain.StatusShipped, 100, time.Now())

	err := svc.CancelOrder(context.Background(), &domain.Actor{ID: "user-1"}, id)
	if !errors.Is(err, ErrNotCancellable) {
		t.Errorf("expected ErrNotCancellable, got %v", err)
	}
}

func TestSummarize(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := NewOrderService(store, testLogger())
	now := time.Now()
	seedOrder(t, store, "user-1", domain.StatusPending, 100, now)
	seedOrder(t, store, "user-1", domain.StatusDelivered, 200, now)
	seedOrder(t, store, "user-2", domain.StatusCancelled, 400, now)

	if _, err := svc.Summarize(context.Background(), &domain.Actor{ID: "user-1"}); !errors.Is(err, ErrForbidden) {
		t.Errorf("expected ErrForbidden for non-admin, got %v", err)
	}

	sum, err := svc.Summarize(context.Background(), &domain.Actor{ID: "admin-1", Admin: true})
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if sum.Total != 3 || sum.Pending != 1 || sum.Delivered != 1 || sum.Cancelled != 1 {
		t.Errorf("unexpected counts: %+v", sum)
	}
	// Cancelled orders are excluded from revenue.
	if sum.Revenue != 300 {
		t.Errorf("expected revenue 300, got %d", sum.Revenue)
	}
}
