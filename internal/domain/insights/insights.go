// Package insights derives read-only statistics over the cart store, order
// log, and discount ledger. It holds no state of its own and never mutates.
package insights

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/minimart/minimart/internal/domain/cart"
	"github.com/minimart/minimart/internal/domain/discount"
	"github.com/minimart/minimart/internal/domain/order"
)

// Insights is the aggregate report for the admin surface. Averages are zero
// when their denominator is zero.
type Insights struct {
	TotalOrders            int
	TotalRevenue           decimal.Decimal
	TotalCarts             int
	TotalItems             int
	AverageOrderValue      decimal.Decimal
	AverageItemsPerCart    decimal.Decimal
	TotalDiscountAmount    decimal.Decimal
	TotalDiscountCodesUsed int
	DiscountCodes          []discount.Discount
	TotalDiscountCodes     int
}

// Aggregator computes Insights by scanning the stores.
type Aggregator struct {
	orders order.Repository
	carts  cart.Repository
	ledger discount.Ledger
}

// NewAggregator creates an Aggregator over the given stores.
func NewAggregator(orders order.Repository, carts cart.Repository, ledger discount.Ledger) *Aggregator {
	return &Aggregator{orders: orders, carts: carts, ledger: ledger}
}

// Collect scans every store once and returns the aggregate view.
func (a *Aggregator) Collect(ctx context.Context) (*Insights, error) {
	orders, err := a.orders.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list orders")
	}
	carts, err := a.carts.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list carts")
	}
	codes, err := a.ledger.Active(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list active codes")
	}

	ins := &Insights{
		TotalOrders:         len(orders),
		TotalRevenue:        decimal.Zero,
		TotalCarts:          len(carts),
		AverageOrderValue:   decimal.Zero,
		AverageItemsPerCart: decimal.Zero,
		TotalDiscountAmount: decimal.Zero,
		DiscountCodes:       codes,
		TotalDiscountCodes:  len(codes),
	}

	for _, o := range orders {
		ins.TotalRevenue = ins.TotalRevenue.Add(o.GrandTotal)
		ins.TotalDiscountAmount = ins.TotalDiscountAmount.Add(o.DiscountAmount)
		if o.DiscountCodeUsed != "" {
			ins.TotalDiscountCodesUsed++
		}
	}
	// Line items per cart, not summed quantities.
	for _, c := range carts {
		ins.TotalItems += len(c.Items)
	}

	if ins.TotalOrders > 0 {
		ins.AverageOrderValue = ins.TotalRevenue.DivRound(decimal.NewFromInt(int64(ins.TotalOrders)), 2)
	}
	if ins.TotalCarts > 0 {
		ins.AverageItemsPerCart = decimal.NewFromInt(int64(ins.TotalItems)).
			DivRound(decimal.NewFromInt(int64(ins.TotalCarts)), 2)
	}

	return ins, nil
}
