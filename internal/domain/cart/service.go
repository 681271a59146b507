package cart

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/minimart/minimart/internal/domain/catalog"
	"github.com/minimart/minimart/internal/domain/discount"
	"github.com/minimart/minimart/pkg/kmutex"
)

var hundred = decimal.NewFromInt(100)

// Service implements all cart mutations: item add/remove, discount
// apply/remove, and idempotent creation. Every mutating operation serializes
// per user via the shared keyed mutex, held across the full
// lookup -> compute -> store sequence.
type Service struct {
	carts  Repository
	items  catalog.Repository
	ledger discount.Ledger
	issuer *discount.Issuer
	locks  *kmutex.KMutex
}

// NewService creates a cart Service with the required collaborators.
func NewService(
	carts Repository,
	items catalog.Repository,
	ledger discount.Ledger,
	issuer *discount.Issuer,
	locks *kmutex.KMutex,
) *Service {
	return &Service{
		carts:  carts,
		items:  items,
		ledger: ledger,
		issuer: issuer,
		locks:  locks,
	}
}

// Create returns the user's existing cart, or creates an empty one. Either
// way auto-issuance is re-evaluated and the advisory code list refreshed.
func (s *Service) Create(ctx context.Context, userID int64) (*Cart, error) {
	s.locks.Lock(userID)
	defer s.locks.Unlock(userID)

	return s.getOrCreate(ctx, userID)
}

// Get returns the user's cart, or ErrNotFound.
func (s *Service) Get(ctx context.Context, userID int64) (*Cart, error) {
	return s.carts.Get(ctx, userID)
}

// AddItem adds quantity of the catalog item to the user's cart, creating the
// cart when necessary. An item already in the cart has its quantity
// incremented. The cart total is recomputed from scratch and the grand total
// reset to it: an applied discount is not re-percentaged against the new
// total. That is deliberate; the discount flow owns discount arithmetic.
func (s *Service) AddItem(ctx context.Context, userID, itemID int64, quantity int) (*Cart, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	s.locks.Lock(userID)
	defer s.locks.Unlock(userID)

	c, err := s.getOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			c.Items[i].Quantity += quantity
			found = true
			break
		}
	}
	if !found {
		c.Items = append(c.Items, Item{Item: *item, Quantity: quantity})
	}

	recompute(c)
	c.GrandTotal = c.Total

	if err := s.refreshAvailable(ctx, c); err != nil {
		return nil, err
	}
	if err := s.carts.Save(ctx, c); err != nil {
		return nil, errors.Wrap(err, "save cart")
	}
	return c, nil
}

// RemoveItem removes quantity of an item from the user's cart. Requesting
// more than the held quantity rejects the removal outright and leaves the
// cart unchanged. An already-applied discount keeps its absolute amount; the
// grand total is recomputed from the new total.
func (s *Service) RemoveItem(ctx context.Context, userID, itemID int64, quantity int) (*Cart, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	s.locks.Lock(userID)
	defer s.locks.Unlock(userID)

	c, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrItemNotInCart
	}

	held := c.Items[idx].Quantity
	switch {
	case held > quantity:
		c.Items[idx].Quantity -= quantity
	case held == quantity:
		c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
	default:
		return nil, &InsufficientQuantityError{ItemID: itemID, Held: held, Requested: quantity}
	}

	recompute(c)
	c.GrandTotal = grandTotal(c)

	if err := s.refreshAvailable(ctx, c); err != nil {
		return nil, err
	}
	if err := s.carts.Save(ctx, c); err != nil {
		return nil, errors.Wrap(err, "save cart")
	}
	return c, nil
}

// ApplyDiscount redeems an active code against the user's cart. The code
// moves to the used set exactly once. Applying a second code overwrites the
// prior discount bookkeeping without restoring the first code.
func (s *Service) ApplyDiscount(ctx context.Context, userID int64, code string) (*Cart, error) {
	s.locks.Lock(userID)
	defer s.locks.Unlock(userID)

	c, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	d, err := s.ledger.FindActive(ctx, code)
	if err != nil {
		return nil, err
	}

	amount := c.Total.Mul(d.Percentage).Div(hundred).Round(2)
	c.DiscountCodeUsed = code
	c.DiscountAmount = amount
	c.GrandTotal = grandTotal(c)

	if err := s.ledger.MarkUsed(ctx, code); err != nil {
		return nil, errors.Wrap(err, "mark code used")
	}
	if err := s.carts.Save(ctx, c); err != nil {
		return nil, errors.Wrap(err, "save cart")
	}
	return c, nil
}

// RemoveDiscount clears the cart's applied discount and restores the code to
// the active set with its original percentage. A code with no used-set entry
// is re-minted at the default percentage.
func (s *Service) RemoveDiscount(ctx context.Context, userID int64, code string) (*Cart, error) {
	s.locks.Lock(userID)
	defer s.locks.Unlock(userID)

	c, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	c.DiscountCodeUsed = ""
	c.DiscountAmount = decimal.Zero
	c.GrandTotal = c.Total

	restored, err := s.ledger.TakeUsed(ctx, code)
	if err != nil {
		if !errors.Is(err, discount.ErrInvalidCode) {
			return nil, errors.Wrap(err, "take used code")
		}
		restored = &discount.Discount{Code: code, Percentage: discount.DefaultPercentage}
	}
	if err := s.ledger.Add(ctx, *restored); err != nil {
		return nil, errors.Wrap(err, "restore code")
	}

	if err := s.refreshAvailable(ctx, c); err != nil {
		return nil, err
	}
	if restored.IssuedTo != userID {
		c.AvailableDiscountCodes = append(c.AvailableDiscountCodes, *restored)
	}

	if err := s.carts.Save(ctx, c); err != nil {
		return nil, errors.Wrap(err, "save cart")
	}
	return c, nil
}

// getOrCreate returns the user's cart, creating an empty one when absent.
// Caller must hold the user's lock.
func (s *Service) getOrCreate(ctx context.Context, userID int64) (*Cart, error) {
	c, err := s.carts.Get(ctx, userID)
	switch {
	case err == nil:
	case errors.Is(err, ErrNotFound):
		c = &Cart{
			UserID:     userID,
			Total:      decimal.Zero,
			GrandTotal: decimal.Zero,
		}
	default:
		return nil, err
	}

	if err := s.refreshAvailable(ctx, c); err != nil {
		return nil, err
	}
	if err := s.carts.Save(ctx, c); err != nil {
		return nil, errors.Wrap(err, "save cart")
	}
	return c, nil
}

// refreshAvailable re-evaluates auto-issuance for the cart's owner and
// recomputes the advisory list of their active codes.
func (s *Service) refreshAvailable(ctx context.Context, c *Cart) error {
	if _, err := s.issuer.AutoIssue(ctx, c.UserID); err != nil {
		return errors.Wrap(err, "auto-issue")
	}

	codes, err := s.ledger.ActiveFor(ctx, c.UserID)
	if err != nil {
		return errors.Wrap(err, "list user codes")
	}
	c.AvailableDiscountCodes = codes
	return nil
}

// recompute derives every item's TotalPrice and the cart Total from scratch.
// Recomputing instead of accumulating keeps the totals drift-free.
func recompute(c *Cart) {
	total := decimal.Zero
	for i := range c.Items {
		c.Items[i].TotalPrice = c.Items[i].Price.Mul(decimal.NewFromInt(int64(c.Items[i].Quantity)))
		total = total.Add(c.Items[i].TotalPrice)
	}
	c.Total = total
}

// grandTotal applies the cart's absolute discount amount to its total,
// clamped so the result never leaves [0, Total].
func grandTotal(c *Cart) decimal.Decimal {
	if c.DiscountCodeUsed == "" {
		return c.Total
	}
	g := c.Total.Sub(c.DiscountAmount)
	if g.IsNegative() {
		return decimal.Zero
	}
	if g.GreaterThan(c.Total) {
		return c.Total
	}
	return g
}
