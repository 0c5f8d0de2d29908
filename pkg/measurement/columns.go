package measurement

import (
	"errors"
	"fmt"
)

// ErrMisalignedColumns is returned when a product column has more entries
// than the id column.
var ErrMisalignedColumns = errors.New("measurement: product column longer than ids")

// ProductColumns is the parallel-array form of a purchase's products.
// Only IDs is required; shorter columns leave the remaining products null.
type ProductColumns struct {
	IDs        []string
	Names      []string
	Categories []string
	Brands     []string
	Variants   []string
	Positions  []int
}

// Products zips the columns into products, aligned by index.
func (c ProductColumns) Products() ([]Product, error) {
	n := len(c.IDs)
	for _, col := range []struct {
		name string
		len  int
	}{
		{"names", len(c.Names)},
		{"categories", len(c.Categories)},
		{"brands", len(c.Brands)},
		{"variants", len(c.Variants)},
		{"positions", len(c.Positions)},
	} {
		if col.len > n {
			return nil, fmt.Errorf("%w: %s has %d entries, ids has %d", ErrMisalignedColumns, col.name, col.len, n)
		}
	}

	out := make([]Product, n)
	for i, id := range c.IDs {
		out[i] = Product{
			ID:       id,
			Name:     at(c.Names, i),
			Category: at(c.Categories, i),
			Brand:    at(c.Brands, i),
			Variant:  at(c.Variants, i),
			Position: at(c.Positions, i),
		}
	}
	return out, nil
}

// RefundColumns is the parallel-array form of a refund's products.
type RefundColumns struct {
	IDs        []string
	Quantities []int
}

// Items zips the columns into refund items, aligned by index.
func (c RefundColumns) Items() ([]RefundItem, error) {
	if len(c.Quantities) > len(c.IDs) {
		return nil, fmt.Errorf("%w: quantities has %d entries, ids has %d",
			ErrMisalignedColumns, len(c.Quantities), len(c.IDs))
	}
	out := make([]RefundItem, len(c.IDs))
	for i, id := range c.IDs {
		out[i] = RefundItem{ID: id, Quantity: at(c.Quantities, i)}
	}
	return out, nil
}

func at[T any](s []T, i int) T {
	var zero T
	if i < len(s) {
		return s[i]
	}
	return zero
}
