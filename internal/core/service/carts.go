package service

import (
	"sync"

	"github.com/woodhaven/storefront/internal/core/domain"
)

// SessionCarts holds the in-process cart for each acting identity.
// Carts are ephemeral session state, not durable entities.
type SessionCarts struct {
	mu    sync.Mutex
	carts map[string]*domain.Cart
}

func NewSessionCarts() *SessionCarts {
	return &SessionCarts{carts: make(map[string]*domain.Cart)}
}

// Get returns the cart for userID, creating an empty one on first use.
func (s *SessionCarts) Get(userID string) *domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	cart, ok := s.carts[userID]
	if !ok {
		cart = &domain.Cart{}
		s.carts[userID] = cart
	}
	return cart
}

// Drop discards a user's cart entirely.
func (s *SessionCarts) Drop(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, userID)
}
