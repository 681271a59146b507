package discount

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultFrequency is the order-count interval at which codes are auto-issued.
const DefaultFrequency = 5

// DefaultPercentage is the discount carried by every auto-issued code, and
// the fallback when restoring a code with no recorded history.
var DefaultPercentage = decimal.NewFromInt(10)

// OrderCounter reports how many orders a user has already placed. Satisfied
// by the order repository.
type OrderCounter interface {
	CountByUser(ctx context.Context, userID int64) (int, error)
}

// Issuer mints discount codes: automatically every Nth completed order for a
// user, or manually with an arbitrary percentage.
//
// Auto-issuance is evaluated opportunistically on cart creation and mutation,
// not on order placement, so eligibility is always judged against the user's
// already-placed orders.
type Issuer struct {
	ledger    Ledger
	orders    OrderCounter
	frequency int

	// mu guards issued, the order-count at which a code was last minted per
	// user. Re-running AutoIssue at the same count must not mint twice.
	mu     sync.Mutex
	issued map[int64]int
}

// NewIssuer creates an Issuer. A non-positive frequency falls back to
// DefaultFrequency.
func NewIssuer(ledger Ledger, orders OrderCounter, frequency int) *Issuer {
	if frequency <= 0 {
		frequency = DefaultFrequency
	}
	return &Issuer{
		ledger:    ledger,
		orders:    orders,
		frequency: frequency,
		issued:    make(map[int64]int),
	}
}

// AutoIssue mints a 10%-off code for userID when their placed-order count is
// nonzero and divisible by the configured frequency. It returns nil when the
// user is not eligible, or when a code was already minted at this count.
func (i *Issuer) AutoIssue(ctx context.Context, userID int64) (*Discount, error) {
	count, err := i.orders.CountByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "count orders")
	}
	if count == 0 || count%i.frequency != 0 {
		return nil, nil
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	if i.issued[userID] == count {
		return nil, nil
	}

	d := Discount{
		Code:       fmt.Sprintf("DISCOUNT-%d-%s", userID, uuid.New()),
		Percentage: DefaultPercentage,
		IssuedTo:   userID,
	}
	if err := i.ledger.Add(ctx, d); err != nil {
		return nil, errors.Wrap(err, "add auto-issued code")
	}
	i.issued[userID] = count

	return &d, nil
}

// Manual mints a code with the given percentage and adds it to the active set
// unconditionally. The percentage is caller-validated.
func (i *Issuer) Manual(ctx context.Context, percentage decimal.Decimal) (*Discount, error) {
	d := Discount{
		Code:       fmt.Sprintf("DISCOUNT-%s", uuid.New()),
		Percentage: percentage,
	}
	if err := i.ledger.Add(ctx, d); err != nil {
		return nil, errors.Wrap(err, "add manual code")
	}
	return &d, nil
}
