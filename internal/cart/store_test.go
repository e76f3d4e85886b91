package cart

import (
	"context"
	"testing"

	catalog "github.com/tair/storefront-state/internal/catalog/domain"
	"github.com/tair/storefront-state/pkg/storage"
)

var (
	productA = catalog.Product{ID: 1, Title: "Backpack", Price: 29.99, Category: "bags"}
	productB = catalog.Product{ID: 2, Title: "T-Shirt", Price: 39.99, Category: "clothing"}
)

func newHydratedStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore(nil)
	t.Cleanup(s.Close)
	s.Rehydrate(context.Background())
	return s
}

func TestStore_AddItemMergesSameProduct(t *testing.T) {
	s := newHydratedStore(t)

	s.AddItem(productA, 1)
	s.AddItem(productA, 2)

	if got := len(s.Items()); got != 1 {
		t.Fatalf("len(Items()) = %d, want 1", got)
	}
	if got := s.Quantity(productA.ID); got != 3 {
		t.Fatalf("Quantity(A) = %d, want 3", got)
	}
	if got := s.TotalItems(); got != 3 {
		t.Fatalf("TotalItems() = %d, want 3", got)
	}
	if got := s.TotalPrice(); got != 89.97 {
		t.Fatalf("TotalPrice() = %v, want 89.97", got)
	}
}

func TestStore_AggregatesAcrossProducts(t *testing.T) {
	s := newHydratedStore(t)

	s.AddItem(productA, 1)
	s.AddItem(productB, 2)

	if got := len(s.Items()); got != 2 {
		t.Fatalf("len(Items()) = %d, want 2", got)
	}
	if got := s.TotalItems(); got != 3 {
		t.Fatalf("TotalItems() = %d, want 3", got)
	}
	if got := s.TotalPrice(); got != 109.97 {
		t.Fatalf("TotalPrice() = %v, want 109.97", got)
	}
}

func TestStore_AddItemNormalizesQuantity(t *testing.T) {
	s := newHydratedStore(t)

	s.AddItem(productA, 0)

	if got := s.Quantity(productA.ID); got != 1 {
		t.Fatalf("Quantity(A) = %d, want 1", got)
	}
}

func TestStore_UpdateQuantity(t *testing.T) {
	s := newHydratedStore(t)
	s.AddItem(productA, 2)

	s.UpdateQuantity(productA.ID, 5)
	if got := s.Quantity(productA.ID); got != 5 {
		t.Fatalf("Quantity(A) = %d, want 5", got)
	}

	// Absolute, not relative.
	s.UpdateQuantity(productA.ID, 5)
	if got := s.Quantity(productA.ID); got != 5 {
		t.Fatalf("Quantity(A) = %d after repeat update, want 5", got)
	}

	// Non-positive quantity removes the item.
	s.UpdateQuantity(productA.ID, 0)
	if _, ok := s.Item(productA.ID); ok {
		t.Fatal("item still present after UpdateQuantity(0)")
	}
	if got := s.TotalItems(); got != 0 {
		t.Fatalf("TotalItems() = %d, want 0", got)
	}

	// Missing item is a no-op, not an error.
	s.UpdateQuantity(99, 4)
	if got := s.TotalItems(); got != 0 {
		t.Fatalf("TotalItems() = %d after no-op update, want 0", got)
	}
}

func TestStore_DecreaseQuantityFloorRemovesItem(t *testing.T) {
	s := newHydratedStore(t)
	s.AddItem(productA, 2)

	s.DecreaseQuantity(productA.ID)
	if got := s.Quantity(productA.ID); got != 1 {
		t.Fatalf("Quantity(A) = %d, want 1", got)
	}

	s.DecreaseQuantity(productA.ID)
	if _, ok := s.Item(productA.ID); ok {
		t.Fatal("item still present after decreasing from 1")
	}
	if got, want := s.TotalItems(), 0; got != want {
		t.Fatalf("TotalItems() = %d, want %d", got, want)
	}
	if got := s.TotalPrice(); got != 0 {
		t.Fatalf("TotalPrice() = %v, want 0", got)
	}
}

func TestStore_IncreaseQuantityAbsentIsNoOp(t *testing.T) {
	s := newHydratedStore(t)

	s.IncreaseQuantity(productA.ID)

	if got := s.TotalItems(); got != 0 {
		t.Fatalf("TotalItems() = %d, want 0", got)
	}
}

func TestStore_RemoveAbsentIsNoOp(t *testing.T) {
	s := newHydratedStore(t)
	s.AddItem(productA, 1)

	s.RemoveItem(productB.ID)

	if got := s.TotalItems(); got != 1 {
		t.Fatalf("TotalItems() = %d, want 1", got)
	}
}

func TestStore_Clear(t *testing.T) {
	s := newHydratedStore(t)
	s.AddItem(productA, 1)
	s.AddItem(productB, 2)

	s.Clear()

	if got := len(s.Items()); got != 0 {
		t.Fatalf("len(Items()) = %d, want 0", got)
	}
	if s.TotalItems() != 0 || s.TotalPrice() != 0 {
		t.Fatalf("aggregates = %d/%v after Clear, want 0/0", s.TotalItems(), s.TotalPrice())
	}
}

func TestStore_ReadsGatedBeforeHydration(t *testing.T) {
	snapshots := storage.NewMemoryStore()

	seed := NewStore(snapshots)
	seed.Rehydrate(context.Background())
	seed.AddItem(productA, 2)
	seed.Close()

	s := NewStore(snapshots)
	defer s.Close()

	if s.Hydrated() {
		t.Fatal("Hydrated() = true on a fresh store")
	}
	if got := s.TotalItems(); got != 0 {
		t.Fatalf("pre-hydration TotalItems() = %d, want 0", got)
	}
	if got := s.Quantity(productA.ID); got != 0 {
		t.Fatalf("pre-hydration Quantity(A) = %d, want 0", got)
	}

	s.Rehydrate(context.Background())

	if !s.Hydrated() {
		t.Fatal("Hydrated() = false after Rehydrate")
	}
	if got := s.TotalItems(); got != 2 {
		t.Fatalf("post-hydration TotalItems() = %d, want 2", got)
	}
	if got := s.TotalPrice(); got != 59.98 {
		t.Fatalf("post-hydration TotalPrice() = %v, want 59.98", got)
	}
}

func TestStore_AggregateConsistencyAcrossMutationSequence(t *testing.T) {
	s := newHydratedStore(t)

	check := func(step string) {
		t.Helper()
		items, price := 0, 0.0
		for _, item := range s.Items() {
			items += item.Quantity
			price += item.Product.Price * float64(item.Quantity)
		}
		if got := s.TotalItems(); got != items {
			t.Fatalf("%s: TotalItems() = %d, items sum to %d", step, got, items)
		}
		if got, want := s.TotalPrice(), roundCents(price); got != want {
			t.Fatalf("%s: TotalPrice() = %v, items sum to %v", step, got, want)
		}
	}

	s.AddItem(productA, 3)
	check("add A")
	s.AddItem(productB, 1)
	check("add B")
	s.DecreaseQuantity(productA.ID)
	check("decrease A")
	s.UpdateQuantity(productB.ID, 4)
	check("update B")
	s.RemoveItem(productA.ID)
	check("remove A")
	s.Clear()
	check("clear")
}
