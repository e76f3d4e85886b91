package compare

import (
	"context"
	"testing"

	catalog "github.com/tair/storefront-state/internal/catalog/domain"
	"github.com/tair/storefront-state/internal/compare/domain"
)

func product(id uint) catalog.Product {
	return catalog.Product{ID: id, Title: "Product", Price: 9.99}
}

func newHydratedStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore(nil)
	t.Cleanup(s.Close)
	s.Rehydrate(context.Background())
	return s
}

func TestStore_AddItemRejectsDuplicates(t *testing.T) {
	s := newHydratedStore(t)

	if !s.AddItem(product(1)) {
		t.Fatal("first AddItem = false, want true")
	}
	if s.AddItem(product(1)) {
		t.Fatal("duplicate AddItem = true, want false")
	}
	if got := s.Count(); got != 1 {
		t.Fatalf("Count() = %d, want 1", got)
	}
}

func TestStore_CapacityCeiling(t *testing.T) {
	s := newHydratedStore(t)

	for id := uint(1); id <= domain.MaxItems; id++ {
		if !s.AddItem(product(id)) {
			t.Fatalf("AddItem(%d) = false, want true", id)
		}
	}

	if s.CanAddMore() {
		t.Fatal("CanAddMore() = true at capacity, want false")
	}
	if s.AddItem(product(4)) {
		t.Fatal("AddItem beyond capacity = true, want false")
	}
	if got := s.Count(); got != domain.MaxItems {
		t.Fatalf("Count() = %d after rejected add, want %d", got, domain.MaxItems)
	}
	if s.Contains(4) {
		t.Fatal("rejected product is present")
	}
}

func TestStore_RemoveReopensCapacity(t *testing.T) {
	s := newHydratedStore(t)
	for id := uint(1); id <= domain.MaxItems; id++ {
		s.AddItem(product(id))
	}

	s.RemoveItem(2)

	if !s.CanAddMore() {
		t.Fatal("CanAddMore() = false after removal, want true")
	}
	if !s.AddItem(product(4)) {
		t.Fatal("AddItem after removal = false, want true")
	}
}

func TestStore_ToggleReturnsResultingMembership(t *testing.T) {
	s := newHydratedStore(t)

	if !s.Toggle(product(1)) {
		t.Fatal("Toggle into empty list = false, want true")
	}
	if s.Toggle(product(1)) {
		t.Fatal("Toggle out = true, want false")
	}
	if s.Contains(1) {
		t.Fatal("Contains(1) = true after toggle out")
	}

	// At capacity a toggle-in is a rejected add: membership stays false.
	for id := uint(1); id <= domain.MaxItems; id++ {
		s.AddItem(product(id))
	}
	if s.Toggle(product(9)) {
		t.Fatal("Toggle at capacity = true, want false")
	}
	if got := s.Count(); got != domain.MaxItems {
		t.Fatalf("Count() = %d after rejected toggle, want %d", got, domain.MaxItems)
	}
}

func TestStore_ReadsGatedBeforeHydration(t *testing.T) {
	s := NewStore(nil)
	defer s.Close()

	if s.Hydrated() {
		t.Fatal("Hydrated() = true on a fresh store")
	}
	if got := s.Count(); got != 0 {
		t.Fatalf("pre-hydration Count() = %d, want 0", got)
	}
	if !s.CanAddMore() {
		t.Fatal("pre-hydration CanAddMore() = false, want true")
	}
}
