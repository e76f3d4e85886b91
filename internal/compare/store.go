package compare

import (
	"context"

	catalog "github.com/tair/storefront-state/internal/catalog/domain"
	"github.com/tair/storefront-state/internal/compare/domain"
	"github.com/tair/storefront-state/pkg/state"
	"github.com/tair/storefront-state/pkg/storage"
)

// Namespace is the durable storage key for compare snapshots.
const Namespace = "compare"

// Store is the comparison-list entity store: a persisted product set capped
// at domain.MaxItems entries. Membership and capacity are checked inside the
// same critical section as the mutation, so two near-simultaneous adds can
// never jointly exceed the ceiling. Rejections return false, never an error.
type Store struct {
	core *state.Core[domain.Snapshot]
}

// NewStore creates a compare store backed by snapshots. Construction has no
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

// Rehydrate restores the compare list from durable storage. Idempotent.
func (s *Store) Rehydrate(ctx context.Context) {
	s.core.Rehydrate(ctx)
}

// Close flushes pending persistence and releases the store.
func (s *Store) Close() {
	s.core.Close()
}

// AddItem adds product to the compare list. It reports false, without
// mutating, when the product is already present or the list is at capacity.
func (s *Store) AddItem(product catalog.Product) bool {
	return s.core.Commit(func(cur domain.Snapshot) (domain.Snapshot, bool) {
		if contains(cur.Items, product.ID) || len(cur.Items) >= domain.MaxItems {
			return cur, false
		}
		items := append(append([]catalog.Product{}, cur.Items...), product)
		return domain.Snapshot{Items: items}, true
	})
}

// RemoveItem removes the product from the compare list. No-op when absent.
func (s *Store) RemoveItem(productID uint) {
	s.core.Commit(func(cur domain.Snapshot) (domain.Snapshot, bool) {
		return remove(cur, productID)
	})
}

// Toggle removes the product when present, otherwise attempts an add. It
// returns the resulting membership: false both after a removal and when the
// add was rejected at capacity.
func (s *Store) Toggle(product catalog.Product) bool {
	added := false
	s.core.Commit(func(cur domain.Snapshot) (domain.Snapshot, bool) {
		if next, ok := remove(cur, product.ID); ok {
			return next, true
		}
		if len(cur.Items) >= domain.MaxItems {
			return cur, false
		}
		added = true
		items := append(append([]catalog.Product{}, cur.Items...), product)
		return domain.Snapshot{Items: items}, true
	})
	return added
}

// Clear empties the compare list.
func (s *Store) Clear() {
	s.core.Update(func(domain.Snapshot) domain.Snapshot {
		return domain.Empty()
	})
}

// Snapshot returns the gated compare snapshot.
func (s *Store) Snapshot() domain.Snapshot {
	return s.core.View()
}

// Items returns the gated product collection in insertion order.
func (s *Store) Items() []catalog.Product {
	return s.core.View().Items
}

// Contains reports whether the product is in the compare list.
func (s *Store) Contains(productID uint) bool {
	return contains(s.core.View().Items, productID)
}

// Count returns the number of compared products.
func (s *Store) Count() int {
	return len(s.core.View().Items)
}

// CanAddMore reports whether the list is below capacity.
func (s *Store) CanAddMore() bool {
	return s.Count() < domain.MaxItems
}

func contains(items []catalog.Product, productID uint) bool {
	for _, p := range items {
		if p.ID == productID {
			return true
		}
	}
	return false
}

func remove(cur domain.Snapshot, productID uint) (domain.Snapshot, bool) {
	for i, p := range cur.Items {
		if p.ID == productID {
			items := make([]catalog.Product, 0, len(cur.Items)-1)
			items = append(items, cur.Items[:i]...)
			items = append(items, cur.Items[i+1:]...)
			return domain.Snapshot{Items: items}, true
		}
	}
	return cur, false
}
