package insights_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minimart/minimart/internal/domain/cart"
	"github.com/minimart/minimart/internal/domain/catalog"
	"github.com/minimart/minimart/internal/domain/discount"
	"github.com/minimart/minimart/internal/domain/insights"
	"github.com/minimart/minimart/internal/domain/order"
	"github.com/minimart/minimart/internal/storage/memory"
)

func cartItem(id int64, qty int, price string) cart.Item {
	p := decimal.RequireFromString(price)
	return cart.Item{
		Item:       catalog.Item{ID: id, Name: "item", Price: p},
		Quantity:   qty,
		TotalPrice: p.Mul(decimal.NewFromInt(int64(qty))),
	}
}

func TestCollect_EmptyStores(t *testing.T) {
	agg := insights.NewAggregator(memory.NewOrders(), memory.NewCarts(), memory.NewLedger())

	ins, err := agg.Collect(context.Background())
	require.NoError(t, err)

	assert.Zero(t, ins.TotalOrders)
	assert.Zero(t, ins.TotalCarts)
	assert.Zero(t, ins.TotalItems)
	assert.Equal(t, "0", ins.TotalRevenue.String())
	assert.Equal(t, "0", ins.AverageOrderValue.String())
	assert.Equal(t, "0", ins.AverageItemsPerCart.String())
	assert.Empty(t, ins.DiscountCodes)
}

func TestCollect(t *testing.T) {
	ctx := context.Background()
	orders := memory.NewOrders()
	carts := memory.NewCarts()
	ledger := memory.NewLedger()

	require.NoError(t, orders.Create(ctx, &order.Order{
		OrderID:    "a",
		UserID:     1,
		Total:      decimal.NewFromInt(100),
		GrandTotal: decimal.NewFromInt(100),
	}))
	require.NoError(t, orders.Create(ctx, &order.Order{
		OrderID:          "b",
		UserID:           2,
		Total:            decimal.NewFromInt(200),
		DiscountCodeUsed: "DISCOUNT-x",
		DiscountAmount:   decimal.NewFromInt(20),
		GrandTotal:       decimal.NewFromInt(180),
	}))

	// Cart one holds two distinct lines, cart two a single line with a
	// larger quantity. Line items are counted, quantities are not.
	require.NoError(t, carts.Save(ctx, &cart.Cart{
		UserID: 1,
		Items:  []cart.Item{cartItem(1, 1, "10"), cartItem(2, 1, "20")},
		Total:  decimal.NewFromInt(30), GrandTotal: decimal.NewFromInt(30),
	}))
	require.NoError(t, carts.Save(ctx, &cart.Cart{
		UserID: 2,
		Items:  []cart.Item{cartItem(3, 5, "10")},
		Total:  decimal.NewFromInt(50), GrandTotal: decimal.NewFromInt(50),
	}))

	require.NoError(t, ledger.Add(ctx, discount.Discount{Code: "ACTIVE-1", Percentage: decimal.NewFromInt(10)}))
	require.NoError(t, ledger.Add(ctx, discount.Discount{Code: "ACTIVE-2", Percentage: decimal.NewFromInt(15)}))

	ins, err := insights.NewAggregator(orders, carts, ledger).Collect(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, ins.TotalOrders)
	assert.Equal(t, "280", ins.TotalRevenue.String())
	assert.Equal(t, 2, ins.TotalCarts)
	assert.Equal(t, 3, ins.TotalItems)
	assert.Equal(t, "140", ins.AverageOrderValue.String())
	assert.Equal(t, "1.5", ins.AverageItemsPerCart.String())
	assert.Equal(t, "20", ins.TotalDiscountAmount.String())
	assert.Equal(t, 1, ins.TotalDiscountCodesUsed)
	assert.Equal(t, 2, ins.TotalDiscountCodes)
	require.Len(t, ins.DiscountCodes, 2)
	assert.Equal(t, "ACTIVE-1", ins.DiscountCodes[0].Code)
}
