package wishlist

import (
	"context"
	"testing"

	catalog "github.com/tair/storefront-state/internal/catalog/domain"
	"github.com/tair/storefront-state/pkg/storage"
)

var (
	productA = catalog.Product{ID: 1, Title: "Backpack", Price: 29.99}
	productB = catalog.Product{ID: 2, Title: "T-Shirt", Price: 39.99}
)

func newHydratedStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore(nil)
	t.Cleanup(s.Close)
	s.Rehydrate(context.Background())
	return s
}

func TestStore_AddItemRejectsDuplicates(t *testing.T) {
	s := newHydratedStore(t)

	if !s.AddItem(productA) {
		t.Fatal("first AddItem(A) = false, want true")
	}
	if s.AddItem(productA) {
		t.Fatal("second AddItem(A) = true, want false")
	}
	if got := s.TotalItems(); got != 1 {
		t.Fatalf("TotalItems() = %d, want 1", got)
	}
}

func TestStore_ToggleReturnsResultingMembership(t *testing.T) {
	s := newHydratedStore(t)

	if !s.Toggle(productA) {
		t.Fatal("Toggle into empty wishlist = false, want true")
	}
	if !s.Contains(productA.ID) {
		t.Fatal("Contains(A) = false after toggle in")
	}

	if s.Toggle(productA) {
		t.Fatal("Toggle out = true, want false")
	}
	if s.Contains(productA.ID) {
		t.Fatal("Contains(A) = true after toggle out")
	}
	if got := s.TotalItems(); got != 0 {
		t.Fatalf("TotalItems() = %d, want 0", got)
	}
}

func TestStore_RemoveAbsentIsNoOp(t *testing.T) {
	s := newHydratedStore(t)
	s.AddItem(productA)

	s.RemoveItem(productB.ID)

	if got := s.TotalItems(); got != 1 {
		t.Fatalf("TotalItems() = %d, want 1", got)
	}
}

func TestStore_Clear(t *testing.T) {
	s := newHydratedStore(t)
	s.AddItem(productA)
	s.AddItem(productB)

	s.Clear()

	if got := len(s.Items()); got != 0 {
		t.Fatalf("len(Items()) = %d, want 0", got)
	}
}

func TestStore_MembershipGatedBeforeHydration(t *testing.T) {
	snapshots := storage.NewMemoryStore()

	seed := NewStore(snapshots)
	seed.Rehydrate(context.Background())
	seed.AddItem(productA)
	seed.Close()

	s := NewStore(snapshots)
	defer s.Close()

	if s.Contains(productA.ID) {
		t.Fatal("pre-hydration Contains(A) = true, want false")
	}

	s.Rehydrate(context.Background())

	if !s.Contains(productA.ID) {
		t.Fatal("post-hydration Contains(A) = false, want true")
	}
}
