package domain

import (
	catalog "github.com/tair/storefront-state/internal/catalog/domain"
)

// Snapshot is the wishlist's persisted projection. Items have set semantics:
// a product id appears at most once, and TotalItems is derived from the
// collection on every mutation.
type Snapshot struct {
	Items      []catalog.Product `json:"items"`
	TotalItems int               `json:"totalItems"`
}

// Empty returns the snapshot of an empty wishlist.
func Empty() Snapshot {
	return Snapshot{Items: []catalog.Product{}}
}
