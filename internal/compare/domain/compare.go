package domain

import (
	catalog "github.com/tair/storefront-state/internal/catalog/domain"
)

// MaxItems is the comparison list's hard capacity. Adds beyond it are
// rejected rather than evicting an older entry. It is a constant of the
// code, not part of the persisted snapshot.
const MaxItems = 3

// Snapshot is the compare list's persisted projection: the product set
// only. Its aggregates are policy constants, not data.
type Snapshot struct {
	Items []catalog.Product `json:"items"`
}

// Empty returns the snapshot of an empty compare list.
func Empty() Snapshot {
	return Snapshot{Items: []catalog.Product{}}
}
