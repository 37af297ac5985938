package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/woodhaven/storefront/internal/core/domain"
	"github.com/woodhaven/storefront/internal/core/service"
	"github.com/woodhaven/storefront/internal/port"
)

type HTTPHandler struct {
	store    port.Store
	identity port.IdentityResolver
	carts    *service.SessionCarts
	checkout *service.CheckoutService
	orders   *service.OrderService
	admin    *service.AdminService
	logger   *slog.Logger
}

func NewHTTPHandler(
	store port.Store,
	identity port.IdentityResolver,
	carts *service.SessionCarts,
	checkout *service.CheckoutService,
	orders *service.OrderService,
	admin *service.AdminService,
	logger *slog.Logger,
) *HTTPHandler {
	return &HTTPHandler{
		store:    store,
		identity: identity,
		carts:    carts,
		checkout: checkout,
		orders:   orders,
		admin:    admin,
		logger:   logger,
	}
}

// Router wires every route of the storefront API.
func (h *HTTPHandler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(h.withActor)

	r.Get("/health", h.HealthCheck)
	r.Get("/api/products", h.ListProducts)
	r.Get("/api/products/{id}", h.GetProduct)

	r.Get("/api/cart", h.GetCart)
	r.Post("/api/cart", h.AddToCart)
	r.Put("/api/cart/{productID}", h.SetCartQuantity)
	r.Delete("/api/cart/{productID}", h.RemoveFromCart)
	r.Delete("/api/cart", h.ClearCart)

	r.Post("/api/checkout", h.Checkout)
	r.Get("/api/orders", h.ListOrders)
	r.Post("/api/orders/{id}/cancel", h.CancelOrder)

	r.Route("/api/admin", func(r chi.Router) {
		r.Get("/orders", h.ListAllOrders)
		r.Put("/orders/{id}/status", h.UpdateOrderStatus)
		r.Get("/summary", h.Summary)
		r.Get("/users", h.ListUsers)
		r.Post("/users/{id}/toggle-admin", h.ToggleAdmin)
		r.Delete("/users/{id}", h.DeleteUser)
		r.Post("/products", h.SaveProduct)
		r.Put("/products/{id}", h.SaveProduct)
		r.Delete("/products/{id}", h.DeleteProduct)
	})

	return r
}

type actorKey struct{}

// withActor resolves the bearer token into the acting identity and puts
// it on the request context. Missing or unknown tokens leave it nil.
func (h *HTTPHandler) withActor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		actor, err := h.identity.Resolve(r.Context(), token)
		if err != nil {
			h.logger.Error("identity resolution failed", "error", err)
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), actorKey{}, actor)))
	})
}

func actorFrom(r *http.Request) *domain.Actor {
	actor, _ := r.Context().Value(actorKey{}).(*domain.Actor)
	return actor
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HTTPHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.store.ListProducts(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *HTTPHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid product id"})
		return
	}
	p, err := h.store.GetProduct(r.Context(), id)
	if err != nil {
		h.fail(w, err)
		return
	}
	if p == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "product not found"})
		return
	}
	writeJSON(w, http.StatusOK, p)
}

type cartResponse struct {
	Lines  []cartLine    `json:"lines"`
	Totals domain.Totals `json:"totals"`
}

type cartLine struct {
	Product  domain.Product `json:"product"`
	Quantity int            `json:"quantity"`
}

func cartView(cart *domain.Cart) cartResponse {
	lines := make([]cartLine, 0)
	for _, l := range cart.Lines() {
		lines = append(lines, cartLine{Product: l.Product, Quantity: l.Quantity})
	}
	return cartResponse{Lines: lines, Totals: cart.Quote()}
}

func (h *HTTPHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r)
	if actor == nil {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "not authenticated"})
		return
	}
	writeJSON(w, http.StatusOK, cartView(h.carts.Get(actor.ID)))
}

type addToCartRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

func (h *HTTPHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r)
	if actor == nil {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "not authenticated"})
		return
	}
	var req addToCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	product, err := h.store.GetProduct(r.Context(), req.ProductID)
	if err != nil {
		h.fail(w, err)
		return
	}
	if product == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "product not found"})
		return
	}
	cart := h.carts.Get(actor.ID)
	if err := cart.AddItem(*product, req.Quantity); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cartView(cart))
}

type setQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func (h *HTTPHandler) SetCartQuantity(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r)
	if actor == nil {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "not authenticated"})
		return
	}
	productID, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid product id"})
		return
	}
	var req setQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	cart := h.carts.Get(actor.ID)
	cart.SetQuantity(productID, req.Quantity)
	writeJSON(w, http.StatusOK, cartView(cart))
}

func (h *HTTPHandler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r)
	if actor == nil {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "not authenticated"})
		return
	}
	productID, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid product id"})
		return
	}
	cart := h.carts.Get(actor.ID)
	cart.Remove(productID)
	writeJSON(w, http.StatusOK, cartView(cart))
}

func (h *HTTPHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r)
	if actor == nil {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "not authenticated"})
		return
	}
	cart := h.carts.Get(actor.ID)
	cart.Clear()
	writeJSON(w, http.StatusOK, cartView(cart))
}

type checkoutRequest struct {
	Address          string          `json:"address"`
	PaymentMethod    string          `json:"payment_method"`
	Payment          *paymentRequest `json:"payment,omitempty"`
	IdempotencyToken string          `json:"idempotency_token,omitempty"`
}

type paymentRequest struct {
	Kind       string `json:"kind"`
	CardNumber string `json:"card_number,omitempty"`
	CardName   string `json:"card_name,omitempty"`
	CardExpiry string `json:"card_expiry,omitempty"`
	CardCVV    string `json:"card_cvv,omitempty"`
	UPIID      string `json:"upi_id,omitempty"`
}

type checkoutResponse struct {
	OrderID int64 `json:"order_id"`
}

func (h *HTTPHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r)
	if actor == nil {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "not authenticated"})
		return
	}
	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	svcReq := service.CheckoutRequest{
		Address:          req.Address,
		Method:           domain.PaymentMethod(req.PaymentMethod),
		IdempotencyToken: req.IdempotencyToken,
	}
	if req.Payment != nil {
		svcReq.Payment = &service.PaymentDetails{
			Kind:       req.Payment.Kind,
			CardNumber: req.Payment.CardNumber,
			CardName:   req.Payment.CardName,
			CardExpiry: req.Payment.CardExpiry,
			CardCVV:    req.Payment.CardCVV,
			UPIID:      req.Payment.UPIID,
		}
	}
	id, err := h.checkout.PlaceOrder(r.Context(), actor, h.carts.Get(actor.ID), svcReq)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, checkoutResponse{OrderID: id})
}

func (h *HTTPHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListOrders(r.Context(), actorFrom(r))
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *HTTPHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid order id"})
		return
	}
	if err := h.orders.CancelOrder(r.Context(), actorFrom(r), id); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": string(domain.StatusCancelled)})
}

func (h *HTTPHandler) ListAllOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListAllOrders(r.Context(), actorFrom(r))
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

type statusUpdateRequest struct {
	Status string `json:"status"`
}

func (h *HTTPHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid order id"})
		return
	}
	var req statusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if err := h.orders.UpdateStatus(r.Context(), actorFrom(r), id, domain.OrderStatus(req.Status)); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": req.Status})
}

func (h *HTTPHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.orders.Summarize(r.Context(), actorFrom(r))
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *HTTPHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.admin.ListUsers(r.Context(), actorFrom(r))
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *HTTPHandler) ToggleAdmin(w http.ResponseWriter, r *http.Request) {
	if err := h.admin.ToggleAdmin(r.Context(), actorFrom(r), chi.URLParam(r, "id")); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "toggled"})
}

func (h *HTTPHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.admin.DeleteUser(r.Context(), actorFrom(r), chi.URLParam(r, "id")); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type productRequest struct {
	Name        string  `json:"name"`
	Price       int64   `json:"price"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	Featured    bool    `json:"featured"`
	Rating      float64 `json:"rating"`
	Reviews     int     `json:"reviews"`
	InStock     bool    `json:"in_stock"`
}

func (h *HTTPHandler) SaveProduct(w http.ResponseWriter, r *http.Request) {
	var id int64
	if raw := chi.URLParam(r, "id"); raw != "" {
		var err error
		id, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid product id"})
			return
		}
	}
	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	savedID, err := h.admin.SaveProduct(r.Context(), actorFrom(r), domain.Product{
		ID:          id,
		Name:        req.Name,
		Price:       domain.Amount(req.Price),
		Category:    req.Category,
		Description: req.Description,
		Image:       req.Image,
		Featured:    req.Featured,
		Rating:      req.Rating,
		Reviews:     req.Reviews,
		InStock:     req.InStock,
	})
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"id": savedID})
}

func (h *HTTPHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid product id"})
		return
	}
	if err := h.admin.DeleteProduct(r.Context(), actorFrom(r), id); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// fail maps domain and service errors onto HTTP statuses.
func (h *HTTPHandler) fail(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "internal error"

	switch {
	case errors.Is(err, service.ErrNotAuthenticated):
		status, message = http.StatusUnauthorized, "not authenticated"
	case errors.Is(err, service.ErrForbidden), errors.Is(err, service.ErrSelfTarget):
		status, message = http.StatusForbidden, err.Error()
	case errors.Is(err, service.ErrEmptyCart),
		errors.Is(err, service.ErrEmptyAddress),
		errors.Is(err, service.ErrInvalidPayment),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidProduct),
		errors.Is(err, domain.ErrInvalidQuantity):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrDuplicateCheckout), errors.Is(err, service.ErrNotCancellable):
		status, message = http.StatusConflict, err.Error()
	case errors.Is(err, service.ErrOrderNotFound), errors.Is(err, service.ErrUserNotFound):
		status, message = http.StatusNotFound, err.Error()
	default:
		h.logger.Error("request failed", "error", err)
	}

	writeJSON(w, status, errorResponse{Error: message})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
