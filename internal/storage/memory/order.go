package memory

import (
	"context"
	"sync"

	"github.com/minimart/minimart/internal/domain/cart"
	"github.com/minimart/minimart/internal/domain/order"
)

var _ order.Repository = (*Orders)(nil)

// Orders is the append-only order log. Entries are copied on the way in and
// out; a stored order is never mutated.
type Orders struct {
	mu     sync.RWMutex
	log    []order.Order
	byUser map[int64]int
}

// NewOrders creates an empty order log.
func NewOrders() *Orders {
	return &Orders{byUser: make(map[int64]int)}
}

// Create appends a copy of the order to the log.
func (s *Orders) Create(_ context.Context, o *order.Order) error {
	cp := *o
	cp.Items = append([]cart.Item(nil), o.Items...)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.log = append(s.log, cp)
	s.byUser[o.UserID]++
	return nil
}

// List returns the full log in placement order.
func (s *Orders) List(_ context.Context) ([]order.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]order.Order, len(s.log))
	for i, o := range s.log {
		out[i] = o
		out[i].Items = append([]cart.Item(nil), o.Items...)
	}
	return out, nil
}

// CountByUser returns how many orders the user has placed.
func (s *Orders) CountByUser(_ context.Context, userID int64) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.byUser[userID], nil
}
