package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/woodhaven/storefront/internal/core/domain"
)

// MemoryStore is a mutex-guarded in-process store. It backs the
// "memory" driver for local development and the service unit tests.
type MemoryStore struct {
	mu sync.Mutex

	products      map[int64]domain.Product
	nextProductID int64

	orders      map[int64]domain.Order
	items       map[int64][]domain.OrderItem
	nextOrderID int64

	profiles map[string]domain.Profile
	roles    map[string]map[string]bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		products: make(map[int64]domain.Product),
		orders:   make(map[int64]domain.Order),
		items:    make(map[int64][]domain.OrderItem),
		profiles: make(map[string]domain.Profile),
		roles:    make(map[string]map[string]bool),
	}
}

func (m *MemoryStore) CreateProduct(ctx context.Context, p domain.Product) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextProductID++
	p.ID = m.nextProductID
	m.products[p.ID] = p
	return p.ID, nil
}

func (m *MemoryStore) UpdateProduct(ctx context.Context, p domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[p.ID] = p
	return nil
}

func (m *MemoryStore) DeleteProduct(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.products, id)
	return nil
}

func (m *MemoryStore) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (m *MemoryStore) ListProducts(ctx context.Context) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Product, 0, len(m.products))
	for _, p := range m.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryStore) CreateOrder(ctx context.Context, o domain.Order) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextOrderID++
	o.ID = m.nextOrderID
	o.Items = nil
	m.orders[o.ID] = o
	return o.ID, nil
}

func (m *MemoryStore) AddOrderItems(ctx context.Context, orderID int64, items []domain.OrderItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, it := range items {
		it.OrderID = orderID
		m.items[orderID] = append(m.items[orderID], it)
	}
	return nil
}

func (m *MemoryStore) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, nil
	}
	o.Items = append([]domain.OrderItem(nil), m.items[id]...)
	return &o, nil
}

func (m *MemoryStore) ListOrdersByOwner(ctx context.Context, userID string) ([]domain.Order, error) {
	return m.list(func(o domain.Order) bool { return o.UserID == userID })
}

func (m *MemoryStore) ListAllOrders(ctx context.Context) ([]domain.Order, error) {
	return m.list(func(domain.Order) bool { return true })
}

func (m *MemoryStore) list(keep func(domain.Order) bool) ([]domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Order{}
	for id, o := range m.orders {
		if !keep(o) {
			continue
		}
		o.Items = append([]domain.OrderItem(nil), m.items[id]...)
		out = append(out, o)
	}
	// Newest first; id breaks ties since ids are assigned in order.
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (m *MemoryStore) UpdateOrderStatus(ctx context.Context, id int64, status domain.OrderStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil
	}
	o.Status = status
	m.orders[id] = o
	return nil
}

func (m *MemoryStore) CreateProfile(ctx context.Context, p domain.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[p.UserID] = p
	return nil
}

func (m *MemoryStore) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[userID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (m *MemoryStore) ListProfiles(ctx context.Context) ([]domain.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Profile, 0, len(m.profiles))
	for _, p := range m.profiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MemoryStore) DeleteProfile(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.profiles, userID)
	delete(m.roles, userID)
	return nil
}

func (m *MemoryStore) HasRole(ctx context.Context, userID, role string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.roles[userID][role], nil
}

func (m *MemoryStore) GrantRole(ctx context.Context, userID, role string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.roles[userID] == nil {
		m.roles[userID] = make(map[string]bool)
	}
	m.roles[userID][role] = true
	return nil
}

func (m *MemoryStore) RevokeRole(ctx context.Context, userID, role string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.roles[userID], role)
	return nil
}
