package cart

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/minimart/minimart/internal/domain/catalog"
	"github.com/minimart/minimart/internal/domain/discount"
)

// Sentinel errors for cart operations.
var (
	// ErrNotFound is returned when a user has no cart.
	ErrNotFound = errors.New("cart not found")
	// ErrItemNotInCart is returned when removing an item the cart does not hold.
	ErrItemNotInCart = errors.New("item not found in cart")
	// ErrInvalidQuantity is returned when a quantity is not strictly positive.
	ErrInvalidQuantity = errors.New("quantity must be greater than 0")
)

// InsufficientQuantityError indicates a removal request exceeding the held
// quantity. The removal is rejected outright, never partially applied.
type InsufficientQuantityError struct {
	ItemID    int64
	Held      int
	Requested int
}

func (e *InsufficientQuantityError) Error() string {
	return fmt.Sprintf("cannot remove %d of item %d: only %d in cart", e.Requested, e.ItemID, e.Held)
}

// Item is a catalog item held in a cart. TotalPrice is always
// Quantity * Price, recomputed on every mutation and never set directly.
type Item struct {
	catalog.Item
	Quantity   int
	TotalPrice decimal.Decimal
}

// Cart is the per-user shopping cart. Items keep insertion order (the order
// they were first added). Total is the sum of all item TotalPrices.
// DiscountCodeUsed is empty when no code is applied; DiscountAmount is only
// meaningful when a code is applied. GrandTotal is Total minus the applied
// discount, clamped to [0, Total].
type Cart struct {
	UserID                 int64
	Items                  []Item
	Total                  decimal.Decimal
	DiscountCodeUsed       string
	DiscountAmount         decimal.Decimal
	GrandTotal             decimal.Decimal
	AvailableDiscountCodes []discount.Discount
}

// Repository owns cart storage, one cart per user. Implementations return
// detached copies: mutating a returned cart has no effect until Save.
type Repository interface {
	Get(ctx context.Context, userID int64) (*Cart, error)
	Save(ctx context.Context, c *Cart) error
	List(ctx context.Context) ([]Cart, error)
}
