package discount

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrInvalidCode is returned when a discount code is not present in the
// active set: unknown, already redeemed, or never minted.
var ErrInvalidCode = errors.New("invalid discount code")

// Discount is a single-use discount code. A code lives in exactly one of two
// disjoint ledger sets: active (redeemable) or used (redeemed, kept for
// history). IssuedTo records the user the code was auto-issued for; zero
// means the code was minted manually by an admin.
type Discount struct {
	Code       string
	Percentage decimal.Decimal
	IssuedTo   int64
}

// Ledger owns the active and used code sets. Implementations must keep the
// sets disjoint: Add and MarkUsed together move a code active -> used exactly
// once, TakeUsed moves it back out of history.
type Ledger interface {
	// Add inserts a code into the active set.
	Add(ctx context.Context, d Discount) error
	// Active returns a snapshot of the active set.
	Active(ctx context.Context) ([]Discount, error)
	// ActiveFor returns active codes auto-issued to the given user.
	ActiveFor(ctx context.Context, userID int64) ([]Discount, error)
	// FindActive looks up a code in the active set.
	// Returns ErrInvalidCode when absent.
	FindActive(ctx context.Context, code string) (*Discount, error)
	// MarkUsed moves a code from the active set to the used set.
	// Returns ErrInvalidCode when the code is not active.
	MarkUsed(ctx context.Context, code string) error
	// TakeUsed removes a code from the used set and returns it, so the
	// original percentage survives a restore. Returns ErrInvalidCode when
	// the code is not in the used set.
	TakeUsed(ctx context.Context, code string) (*Discount, error)
}
