package catalog

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested item does not exist in the catalog.
var ErrNotFound = errors.New("item not found")

// Item represents a catalog entry available for purchase. The catalog is
// read-only; items are never mutated after startup.
type Item struct {
	ID    int64
	Name  string
	Price decimal.Decimal
}

// Repository defines read operations for the item catalog.
type Repository interface {
	List(ctx context.Context) ([]Item, error)
	GetByID(ctx context.Context, id int64) (*Item, error)
}
