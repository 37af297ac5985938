package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/woodhaven/storefront/internal/adapter/storage"
	"github.com/woodhaven/storefront/internal/core/domain"
	"github.com/woodhaven/storefront/internal/core/service"
)

type testApp struct {
	store  *storage.MemoryStore
	server *httptest.Server
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	store := storage.NewMemoryStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	carts := service.NewSessionCarts()
	checkout := service.NewCheckoutService(store, nil, 0, logger)
	orders := service.NewOrderService(store, logger)
	admin := service.NewAdminService(store, logger)
	h := NewHTTPHandler(store, NewStoreIdentity(store), carts, checkout, orders, admin, logger)

	server := httptest.NewServer(h.Router())
	t.Cleanup(server.Close)

	ctx := context.Background()
	for _, p := range []domain.Profile{
		{UserID: "admin-1", Name: "Alice Admin", Email: "alice@example.com"},
		{UserID: "user-2", Name: "Bob Shopper", Email: "bob@example.com"},
	} {
		if err := store.CreateProfile(ctx, p); err != nil {
			t.Fatalf("seed profile: %v", err)
		}
	}
	if err := store.GrantRole(ctx, "admin-1", domain.RoleAdmin); err != nil {
		t.Fatalf("seed role: %v", err)
	}
	if _, err := store.CreateProduct(ctx, domain.Product{Name: "Sofa", Price: 10000, Category: "Living Room", InStock: true}); err != nil {
		t.Fatalf("seed product: %v", err)
	}

	return &testApp{store: store, server: server}
}

func (a *testApp) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, a.server.URL+path, &buf)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

func TestProducts_PublicListing(t *testing.T) {
	app := newTestApp(t)

	resp := app.do(t, http.MethodGet, "/api/products", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	products := decode[[]domain.Product](t, resp)
	if len(products) != 1 || products[0].Name != "Sofa" {
		t.Errorf("unexpected products: %+v", products)
	}
}

func TestCart_RequiresAuth(t *testing.T) {
	app := newTestApp(t)

	resp := app.do(t, http.MethodGet, "/api/cart", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", resp.StatusCode)
	}
}

func TestCheckoutFlow(t *testing.T) {
	app := newTestApp(t)

	resp := app.do(t, http.MethodPost, "/api/cart", "user-2", map[string]any{"product_id": 1, "quantity": 2})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("add to cart: expected 200, got %d", resp.StatusCode)
	}
	cart := decode[map[string]json.RawMessage](t, resp)
	var totals domain.Totals
	if err := json.Unmarshal(cart["totals"], &totals); err != nil {
		t.Fatalf("decode totals: %v", err)
	}
	if totals.Subtotal != 20000 {
		t.Errorf("expected subtotal 20000, got %d", totals.Subtotal)
	}

	resp = app.do(t, http.MethodPost, "/api/checkout", "user-2", map[string]any{
		"address":        "12 Elm Street",
		"payment_method": "COD",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("checkout: expected 201, got %d", resp.StatusCode)
	}
	created := decode[map[string]int64](t, resp)
	if created["order_id"] == 0 {
		t.Fatal("expected an order id")
	}

	// Cart was cleared on success.
	resp = app.do(t, http.MethodGet, "/api/cart", "user-2", nil)
	cleared := decode[map[string]json.RawMessage](t, resp)
	var lines []json.RawMessage
	if err := json.Unmarshal(cleared["lines"], &lines); err != nil {
		t.Fatalf("decode lines: %v", err)
	}
	if len(lines) != 0 {
		t.Errorf("expected empty cart after checkout, got %d lines", len(lines))
	}

	resp = app.do(t, http.MethodGet, "/api/orders", "user-2", nil)
	orders := decode[[]domain.Order](t, resp)
	if len(orders) != 1 || len(orders[0].Items) != 1 {
		t.Fatalf("unexpected orders: %+v", orders)
	}
	if orders[0].Total != totals.GrandTotal {
		t.Errorf("charged total %d differs from displayed total %d", orders[0].Total, totals.GrandTotal)
	}
}

func TestCheckout_BlankAddressRejected(t *testing.T) {
	app := newTestApp(t)
	app.do(t, http.MethodPost, "/api/cart", "user-2", map[string]any{"product_id": 1})

	resp := app.do(t, http.MethodPost, "/api/checkout", "user-2", map[string]any{
		"address":        "   ",
		"payment_method": "COD",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
}

func TestAdminOrders_NonAdminGetsEmptyList(t *testing.T) {
	app := newTestApp(t)

	resp := app.do(t, http.MethodGet, "/api/admin/orders", "user-2", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	orders := decode[[]domain.Order](t, resp)
	if len(orders) != 0 {
		t.Errorf("expected empty list for non-admin, got %d", len(orders))
	}
}

func TestAdminStatusOverride(t *testing.T) {
	app := newTestApp(t)
	app.do(t, http.MethodPost, "/api/cart", "user-2", map[string]any{"product_id": 1})
	resp := app.do(t, http.MethodPost, "/api/checkout", "user-2", map[string]any{
		"address":        "12 Elm Street",
		"payment_method": "COD",
	})
	created := decode[map[string]int64](t, resp)
	path := fmt.Sprintf("/api/admin/orders/%d/status", created["order_id"])

	resp = app.do(t, http.MethodPut, path, "user-2", map[string]string{"status": "Shipped"})
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403 for non-admin, got %d", resp.StatusCode)
	}

	resp = app.do(t, http.MethodPut, path, "admin-1", map[string]string{"status": "Delivered"})
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 for admin, got %d", resp.StatusCode)
	}
}

func TestToggleAdmin_SelfForbidden(t *testing.T) {
	app := newTestApp(t)

	resp := app.do(t, http.MethodPost, "/api/admin/users/admin-1/toggle-admin", "admin-1", nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403 for self-toggle, got %d", resp.StatusCode)
	}

	resp = app.do(t, http.MethodPost, "/api/admin/users/user-2/toggle-admin", "admin-1", nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 toggling another user, got %d", resp.StatusCode)
	}
}
