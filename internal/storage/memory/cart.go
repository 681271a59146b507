package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/minimart/minimart/internal/domain/cart"
	"github.com/minimart/minimart/internal/domain/discount"
)

var _ cart.Repository = (*Carts)(nil)

// Carts stores one cart per user. Get and List hand out deep copies so the
// store stays the sole owner of cart state; callers persist changes through
// Save.
type Carts struct {
	mu     sync.RWMutex
	byUser map[int64]*cart.Cart
}

// NewCarts creates an empty cart store.
func NewCarts() *Carts {
	return &Carts{byUser: make(map[int64]*cart.Cart)}
}

// Get returns a copy of the user's cart, or cart.ErrNotFound.
func (s *Carts) Get(_ context.Context, userID int64) (*cart.Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.byUser[userID]
	if !ok {
		return nil, cart.ErrNotFound
	}
	cp := clone(c)
	return &cp, nil
}

// Save stores a copy of the cart, replacing any previous cart for the user.
func (s *Carts) Save(_ context.Context, c *cart.Cart) error {
	cp := clone(c)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.byUser[c.UserID] = &cp
	return nil
}

// List returns copies of all carts in ascending user-ID order.
func (s *Carts) List(_ context.Context) ([]cart.Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]cart.Cart, 0, len(s.byUser))
	for _, c := range s.byUser {
		out = append(out, clone(c))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func clone(c *cart.Cart) cart.Cart {
	cp := *c
	if c.Items != nil {
		cp.Items = append([]cart.Item(nil), c.Items...)
	}
	if c.AvailableDiscountCodes != nil {
		cp.AvailableDiscountCodes = append([]discount.Discount(nil), c.AvailableDiscountCodes...)
	}
	return cp
}
