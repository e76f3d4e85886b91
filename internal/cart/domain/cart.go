package domain

import (
	catalog "github.com/tair/storefront-state/internal/catalog/domain"
)

// Item is one cart line: an immutable product snapshot and its quantity.
// A cart never holds two items for the same product id, and a quantity
// never drops to zero or below — that transition removes the item instead.
type Item struct {
	Product  catalog.Product `json:"product"`
	Quantity int             `json:"quantity"`
}

// Snapshot is the cart's persisted projection: the item collection plus the
// aggregates derived from it. The aggregates are never set independently;
// they are recomputed from the items on every mutation.
type Snapshot struct {
	Items      []Item  `json:"items"`
	TotalItems int     `json:"totalItems"`
	TotalPrice float64 `json:"totalPrice"`
}

// Empty returns the snapshot of an empty cart.
func Empty() Snapshot {
	return Snapshot{Items: []Item{}}
}
