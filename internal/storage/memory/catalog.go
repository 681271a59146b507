// Package memory provides the in-process store implementations behind every
// domain repository interface. All state is volatile: the process owns it
// exclusively and loses it on exit.
package memory

import (
	"context"
	"sort"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/minimart/minimart/internal/domain/catalog"
)

var _ catalog.Repository = (*Catalog)(nil)

// Catalog is the read-only item catalog. It is fully populated at
// construction and needs no locking afterwards.
type Catalog struct {
	byID  map[int64]catalog.Item
	items []catalog.Item
}

// NewCatalog parses a JSON seed (array of {id, name, price} objects) into a
// catalog. Items are listed in ascending ID order.
func NewCatalog(seed []byte) (*Catalog, error) {
	var items []catalog.Item

	d := jx.DecodeBytes(seed)
	if err := d.Arr(func(d *jx.Decoder) error {
		var it catalog.Item
		if err := d.Obj(func(d *jx.Decoder, key string) error {
			var err error
			switch key {
			case "id":
				it.ID, err = d.Int64()
			case "name":
				it.Name, err = d.Str()
			case "price":
				var n jx.Num
				if n, err = d.Num(); err == nil {
					it.Price, err = decimal.NewFromString(string(n))
				}
			default:
				err = d.Skip()
			}
			return err
		}); err != nil {
			return errors.Wrap(err, "decode item")
		}
		if it.Price.IsNegative() {
			return errors.Errorf("item %d: negative price", it.ID)
		}
		items = append(items, it)
		return nil
	}); err != nil {
		return nil, errors.Wrap(err, "parse catalog seed")
	}

	byID := make(map[int64]catalog.Item, len(items))
	for _, it := range items {
		if _, dup := byID[it.ID]; dup {
			return nil, errors.Errorf("duplicate item id %d", it.ID)
		}
		byID[it.ID] = it
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })

	return &Catalog{byID: byID, items: items}, nil
}

// List returns all items in ascending ID order.
func (c *Catalog) List(_ context.Context) ([]catalog.Item, error) {
	out := make([]catalog.Item, len(c.items))
	copy(out, c.items)
	return out, nil
}

// GetByID returns the item or catalog.ErrNotFound.
func (c *Catalog) GetByID(_ context.Context, id int64) (*catalog.Item, error) {
	it, ok := c.byID[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	return &it, nil
}
