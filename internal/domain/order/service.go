package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/minimart/minimart/internal/domain/cart"
	"github.com/minimart/minimart/pkg/kmutex"
)

// Service converts carts into orders. It shares the per-user keyed mutex
// with the cart service so placement cannot interleave with cart mutation
// for the same user.
type Service struct {
	carts  cart.Repository
	orders Repository
	locks  *kmutex.KMutex
	now    func() time.Time
}

// NewService creates an order Service.
func NewService(carts cart.Repository, orders Repository, locks *kmutex.KMutex) *Service {
	return &Service{
		carts:  carts,
		orders: orders,
		locks:  locks,
		now:    time.Now,
	}
}

// Place snapshots the user's cart into a new order, appends it to the log,
// and resets the cart to its empty state. The cart is emptied, not deleted:
// subsequent AddItem calls reuse the same cart identity.
func (s *Service) Place(ctx context.Context, userID int64) (*Order, error) {
	s.locks.Lock(userID)
	defer s.locks.Unlock(userID)

	c, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(c.Items) == 0 {
		return nil, ErrEmptyCart
	}

	o := &Order{
		OrderID:          uuid.New().String(),
		UserID:           userID,
		Items:            append([]cart.Item(nil), c.Items...),
		Total:            c.Total,
		DiscountCodeUsed: c.DiscountCodeUsed,
		DiscountAmount:   c.DiscountAmount,
		GrandTotal:       c.GrandTotal,
		CreatedAt:        s.now(),
	}
	if err := s.orders.Create(ctx, o); err != nil {
		return nil, errors.Wrap(err, "append order")
	}

	c.Items = nil
	c.Total = decimal.Zero
	c.DiscountCodeUsed = ""
	c.DiscountAmount = decimal.Zero
	c.GrandTotal = decimal.Zero
	if err := s.carts.Save(ctx, c); err != nil {
		return nil, errors.Wrap(err, "reset cart")
	}

	return o, nil
}
