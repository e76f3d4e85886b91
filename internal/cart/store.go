package cart

import (
	"context"
	"math"

	"github.com/tair/storefront-state/internal/cart/domain"
	catalog "github.com/tair/storefront-state/internal/catalog/domain"
	"github.com/tair/storefront-state/pkg/state"
	"github.com/tair/storefront-state/pkg/storage"
)

// Namespace is the durable storage key for cart snapshots.
const Namespace = "cart"

// Store is the cart entity store. All mutations are atomic with aggregate
// recomputation, never fail, and are persisted write-through; reads are
// hydration-gated and report an empty cart until Rehydrate completes.
type Store struct {
	core *state.Core[domain.Snapshot]
}

// NewStore creates a cart store backed by snapshots. Construction has no
// side effects; call Rehydrate to restore persisted state.
func NewStore(snapshots storage.SnapshotStore) *Store {
	return &Store{core: state.NewCore(Namespace, domain.Empty(), snapshots)}
}

// Core exposes the underlying store core for selector subscriptions.
func (s *Store) Core() *state.Core[domain.Snapshot] {
	return s.core
}

// Hydrated reports whether persisted state has been restored.
func (s *Store) Hydrated() bool {
	return s.core.Hydrated()
}

// Rehydrate restores the cart from durable storage. Idempotent.
func (s *Store) Rehydrate(ctx context.Context) {
	s.core.Rehydrate(ctx)
}

// Close flushes pending persistence and releases the store.
func (s *Store) Close() {
	s.core.Close()
}

// AddItem adds quantity units of product to the cart, merging into the
// existing item when the product is already present. A quantity below 1 is
// treated as 1.
func (s *Store) AddItem(product catalog.Product, quantity int) {
	if quantity < 1 {
		quantity = 1
	}
	s.core.Update(func(cur domain.Snapshot) domain.Snapshot {
		items := make([]domain.Item, len(cur.Items))
		copy(items, cur.Items)

		for i, item := range items {
			if item.Product.ID == product.ID {
				items[i].Quantity = item.Quantity + quantity
				return withTotals(items)
			}
		}
		return withTotals(append(items, domain.Item{Product: product, Quantity: quantity}))
	})
}

// RemoveItem removes the item for productID. No-op when absent.
func (s *Store) RemoveItem(productID uint) {
	s.core.Commit(func(cur domain.Snapshot) (domain.Snapshot, bool) {
		return removeItem(cur, productID)
	})
}

// UpdateQuantity sets the item's quantity to exactly quantity. A quantity of
// zero or below removes the item. No-op when the item is absent.
func (s *Store) UpdateQuantity(productID uint, quantity int) {
	if quantity <= 0 {
		s.RemoveItem(productID)
		return
	}
	s.core.Commit(func(cur domain.Snapshot) (domain.Snapshot, bool) {
		for i, item := range cur.Items {
			if item.Product.ID == productID {
				items := make([]domain.Item, len(cur.Items))
				copy(items, cur.Items)
				items[i].Quantity = quantity
				return withTotals(items), true
			}
		}
		return cur, false
	})
}

// IncreaseQuantity increments the item's quantity by one. No-op when absent.
func (s *Store) IncreaseQuantity(productID uint) {
	s.core.Commit(func(cur domain.Snapshot) (domain.Snapshot, bool) {
		for i, item := range cur.Items {
			if item.Product.ID == productID {
				items := make([]domain.Item, len(cur.Items))
				copy(items, cur.Items)
				items[i].Quantity++
				return withTotals(items), true
			}
		}
		return cur, false
	})
}

// DecreaseQuantity decrements the item's quantity by one, removing the item
// when its quantity would drop below one. No-op when absent.
func (s *Store) DecreaseQuantity(productID uint) {
	s.core.Commit(func(cur domain.Snapshot) (domain.Snapshot, bool) {
		for i, item := range cur.Items {
			if item.Product.ID == productID {
				if item.Quantity <= 1 {
					return removeItem(cur, productID)
				}
				items := make([]domain.Item, len(cur.Items))
				copy(items, cur.Items)
				items[i].Quantity--
				return withTotals(items), true
			}
		}
		return cur, false
	})
}

// Clear empties the cart and zeroes the aggregates.
func (s *Store) Clear() {
	s.core.Update(func(domain.Snapshot) domain.Snapshot {
		return domain.Empty()
	})
}

// Snapshot returns the gated cart snapshot.
func (s *Store) Snapshot() domain.Snapshot {
	return s.core.View()
}

// Items returns the gated item collection in insertion order.
func (s *Store) Items() []domain.Item {
	return s.core.View().Items
}

// Item returns the item for productID, if present.
func (s *Store) Item(productID uint) (domain.Item, bool) {
	for _, item := range s.core.View().Items {
		if item.Product.ID == productID {
			return item, true
		}
	}
	return domain.Item{}, false
}

// Quantity returns the item's quantity, or 0 when absent.
func (s *Store) Quantity(productID uint) int {
	item, ok := s.Item(productID)
	if !ok {
		return 0
	}
	return item.Quantity
}

// TotalItems returns the summed quantity across all items.
func (s *Store) TotalItems() int {
	return s.core.View().TotalItems
}

// TotalPrice returns the summed price across all items.
func (s *Store) TotalPrice() float64 {
	return s.core.View().TotalPrice
}

func removeItem(cur domain.Snapshot, productID uint) (domain.Snapshot, bool) {
	for i, item := range cur.Items {
		if item.Product.ID == productID {
			items := make([]domain.Item, 0, len(cur.Items)-1)
			items = append(items, cur.Items[:i]...)
			items = append(items, cur.Items[i+1:]...)
			return withTotals(items), true
		}
	}
	return cur, false
}

// withTotals recomputes the aggregates for items, so a snapshot is never
// committed with totals out of step with its collection.
func withTotals(items []domain.Item) domain.Snapshot {
	totalItems := 0
	totalPrice := 0.0
	for _, item := range items {
		totalItems += item.Quantity
		totalPrice += item.Product.Price * float64(item.Quantity)
	}
	return domain.Snapshot{
		Items:      items,
		TotalItems: totalItems,
		TotalPrice: roundCents(totalPrice),
	}
}

// roundCents keeps repeated float additions from drifting the persisted
// total away from an exact cent value.
func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
