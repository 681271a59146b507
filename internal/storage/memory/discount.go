package memory

import (
	"context"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"

	"github.com/minimart/minimart/internal/domain/discount"
)

const (
	// ledgerBloomCapacity sizes the known-code filter; codes are minted one
	// per admin call or per five orders, so this is generous.
	ledgerBloomCapacity = 1 << 20
	ledgerBloomFPR      = 0.001
)

var _ discount.Ledger = (*Ledger)(nil)

// Ledger keeps the active and used discount code sets, both indexed by code
// string. A bloom filter over every code ever minted short-circuits lookups
// of codes that never existed without probing either set.
type Ledger struct {
	known *bloom.BloomFilter

	mu     sync.RWMutex
	active map[string]discount.Discount
	used   map[string]discount.Discount
	// order preserves active-set insertion order for stable listings.
	order []string
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		known:  bloom.NewWithEstimates(ledgerBloomCapacity, ledgerBloomFPR),
		active: make(map[string]discount.Discount),
		used:   make(map[string]discount.Discount),
	}
}

// Add inserts a code into the active set.
func (l *Ledger) Add(_ context.Context, d discount.Discount) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.active[d.Code]; !ok {
		l.order = append(l.order, d.Code)
	}
	l.active[d.Code] = d
	l.known.AddString(d.Code)
	return nil
}

// Active returns the active set in insertion order.
func (l *Ledger) Active(_ context.Context) ([]discount.Discount, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]discount.Discount, 0, len(l.active))
	for _, code := range l.order {
		if d, ok := l.active[code]; ok {
			out = append(out, d)
		}
	}
	return out, nil
}

// ActiveFor returns active codes auto-issued to userID, in insertion order.
func (l *Ledger) ActiveFor(_ context.Context, userID int64) ([]discount.Discount, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []discount.Discount
	for _, code := range l.order {
		if d, ok := l.active[code]; ok && d.IssuedTo == userID {
			out = append(out, d)
		}
	}
	return out, nil
}

// FindActive looks up an active code. The bloom filter rejects codes that
// were never minted without probing either set.
func (l *Ledger) FindActive(_ context.Context, code string) (*discount.Discount, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if !l.known.TestString(code) {
		return nil, discount.ErrInvalidCode
	}

	d, ok := l.active[code]
	if !ok {
		return nil, discount.ErrInvalidCode
	}
	return &d, nil
}

// MarkUsed moves a code from active to used.
func (l *Ledger) MarkUsed(_ context.Context, code string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	d, ok := l.active[code]
	if !ok {
		return discount.ErrInvalidCode
	}
	delete(l.active, code)
	l.used[code] = d
	return nil
}

// TakeUsed removes a code from the used set and returns it.
func (l *Ledger) TakeUsed(_ context.Context, code string) (*discount.Discount, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	d, ok := l.used[code]
	if !ok {
		return nil, discount.ErrInvalidCode
	}
	delete(l.used, code)
	return &d, nil
}
