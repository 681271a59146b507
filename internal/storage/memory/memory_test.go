package memory

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minimart/minimart/internal/domain/cart"
	"github.com/minimart/minimart/internal/domain/catalog"
	"github.com/minimart/minimart/internal/domain/discount"
	"github.com/minimart/minimart/internal/domain/order"
	"github.com/minimart/minimart/internal/domain/user"
)

func TestCatalog_Seed(t *testing.T) {
	c, err := NewCatalog([]byte(`[
		{"id": 2, "name": "Mouse", "price": 49.99},
		{"id": 1, "name": "Laptop", "price": 999.99}
	]`))
	require.NoError(t, err)
	ctx := context.Background()

	items, err := c.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	// Listed in ID order regardless of seed order.
	assert.Equal(t, int64(1), items[0].ID)
	assert.Equal(t, "999.99", items[0].Price.String())

	got, err := c.GetByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "Mouse", got.Name)

	_, err = c.GetByID(ctx, 99)
	require.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestCatalog_RejectsBadSeed(t *testing.T) {
	tests := []struct {
		name string
		seed string
	}{
		{name: "duplicate id", seed: `[{"id":1,"name":"a","price":1},{"id":1,"name":"b","price":2}]`},
		{name: "negative price", seed: `[{"id":1,"name":"a","price":-1}]`},
		{name: "malformed json", seed: `{"id":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCatalog([]byte(tt.seed))
			require.Error(t, err)
		})
	}
}

func TestCarts_CopiesOnReadAndWrite(t *testing.T) {
	s := NewCarts()
	ctx := context.Background()

	c := &cart.Cart{
		UserID: 1,
		Items: []cart.Item{{
			Item:     catalog.Item{ID: 1, Name: "Laptop", Price: decimal.NewFromInt(100)},
			Quantity: 1,
		}},
		Total:      decimal.NewFromInt(100),
		GrandTotal: decimal.NewFromInt(100),
	}
	require.NoError(t, s.Save(ctx, c))

	// Mutating the saved value must not leak into the store.
	c.Items[0].Quantity = 99
	got, err := s.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Items[0].Quantity)

	// Nor must mutating a read value.
	got.Items[0].Quantity = 50
	again, err := s.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, again.Items[0].Quantity)
}

func TestCarts_GetMissing(t *testing.T) {
	_, err := NewCarts().Get(context.Background(), 42)
	require.ErrorIs(t, err, cart.ErrNotFound)
}

func TestCarts_ListSortedByUser(t *testing.T) {
	s := NewCarts()
	ctx := context.Background()

	for _, id := range []int64{3, 1, 2} {
		require.NoError(t, s.Save(ctx, &cart.Cart{UserID: id, Total: decimal.Zero, GrandTotal: decimal.Zero}))
	}

	carts, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, carts, 3)
	assert.Equal(t, int64(1), carts[0].UserID)
	assert.Equal(t, int64(3), carts[2].UserID)
}

func TestLedger_Lifecycle(t *testing.T) {
	l := NewLedger()
	ctx := context.Background()

	d := discount.Discount{Code: "DISCOUNT-a", Percentage: decimal.NewFromInt(25)}
	require.NoError(t, l.Add(ctx, d))

	found, err := l.FindActive(ctx, "DISCOUNT-a")
	require.NoError(t, err)
	assert.Equal(t, "25", found.Percentage.String())

	require.NoError(t, l.MarkUsed(ctx, "DISCOUNT-a"))
	_, err = l.FindActive(ctx, "DISCOUNT-a")
	require.ErrorIs(t, err, discount.ErrInvalidCode)

	// TakeUsed hands the original back exactly once.
	taken, err := l.TakeUsed(ctx, "DISCOUNT-a")
	require.NoError(t, err)
	assert.Equal(t, "25", taken.Percentage.String())
	_, err = l.TakeUsed(ctx, "DISCOUNT-a")
	require.ErrorIs(t, err, discount.ErrInvalidCode)
}

func TestLedger_NeverMintedCode(t *testing.T) {
	l := NewLedger()

	_, err := l.FindActive(context.Background(), "NEVER")
	require.ErrorIs(t, err, discount.ErrInvalidCode)
	require.ErrorIs(t, l.MarkUsed(context.Background(), "NEVER"), discount.ErrInvalidCode)
}

func TestLedger_ActiveOrdering(t *testing.T) {
	l := NewLedger()
	ctx := context.Background()

	for _, code := range []string{"c1", "c2", "c3"} {
		require.NoError(t, l.Add(ctx, discount.Discount{Code: code, Percentage: decimal.NewFromInt(10)}))
	}
	require.NoError(t, l.MarkUsed(ctx, "c2"))

	active, err := l.Active(ctx)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "c1", active[0].Code)
	assert.Equal(t, "c3", active[1].Code)
}

func TestLedger_ActiveFor(t *testing.T) {
	l := NewLedger()
	ctx := context.Background()

	require.NoError(t, l.Add(ctx, discount.Discount{Code: "mine", Percentage: decimal.NewFromInt(10), IssuedTo: 7}))
	require.NoError(t, l.Add(ctx, discount.Discount{Code: "manual", Percentage: decimal.NewFromInt(10)}))

	codes, err := l.ActiveFor(ctx, 7)
	require.NoError(t, err)
	require.Len(t, codes, 1)
	assert.Equal(t, "mine", codes[0].Code)
}

func TestOrders_CountByUser(t *testing.T) {
	s := NewOrders()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, s.Create(ctx, &order.Order{OrderID: string(rune('a' + i)), UserID: 1, Total: decimal.Zero, GrandTotal: decimal.Zero}))
	}
	require.NoError(t, s.Create(ctx, &order.Order{OrderID: "z", UserID: 2, Total: decimal.Zero, GrandTotal: decimal.Zero}))

	n, err := s.CountByUser(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = s.CountByUser(ctx, 99)
	require.NoError(t, err)
	assert.Zero(t, n)

	all, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestUsers_SeedAndRegister(t *testing.T) {
	s := NewUsers(
		user.User{ID: 1, Username: "admin", IsAdmin: true},
		user.User{ID: 2, Username: "user1"},
	)
	ctx := context.Background()

	got, err := s.FindByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.True(t, got.IsAdmin)

	_, err = s.FindByUsername(ctx, "ghost")
	require.ErrorIs(t, err, user.ErrNotFound)

	created, err := s.Create(ctx, "fresh")
	require.NoError(t, err)
	assert.Equal(t, int64(3), created.ID)
	assert.False(t, created.IsAdmin)
}
