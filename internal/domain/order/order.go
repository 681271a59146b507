package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/minimart/minimart/internal/domain/cart"
)

// ErrEmptyCart is returned when placing an order over a cart with no items.
var ErrEmptyCart = errors.New("cart is empty")

// Order is an immutable snapshot of a cart at placement time. Items are a
// value copy detached from the source cart; later cart mutations never
// affect a placed order.
type Order struct {
	OrderID          string
	UserID           int64
	Items            []cart.Item
	Total            decimal.Decimal
	DiscountCodeUsed string
	DiscountAmount   decimal.Decimal
	GrandTotal       decimal.Decimal
	CreatedAt        time.Time
}

// Repository is the append-only order log.
type Repository interface {
	Create(ctx context.Context, o *Order) error
	List(ctx context.Context) ([]Order, error)
	CountByUser(ctx context.Context, userID int64) (int, error)
}
