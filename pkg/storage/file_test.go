package storage

import (
	"context"
	"testing"
)

func TestFileStore_LoadMissingSnapshot(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	payload, ok, err := store.Load(context.Background(), "cart")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if ok || payload != nil {
		t.Fatalf("Load = %q ok=%v, want no snapshot", payload, ok)
	}
}

func TestFileStore_SaveOverwrites(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	ctx := context.Background()

	if err := store.Save(ctx, "cart", []byte(`{"totalItems":1}`)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Save(ctx, "cart", []byte(`{"totalItems":2}`)); err != nil {
		t.Fatalf("Save: %v", err)
	}

	payload, ok, err := store.Load(ctx, "cart")
	if err != nil || !ok {
		t.Fatalf("Load = ok=%v err=%v, want snapshot", ok, err)
	}
	if string(payload) != `{"totalItems":2}` {
		t.Fatalf("Load = %q, want latest snapshot", payload)
	}
}

func TestFileStore_NamespacesAreIsolated(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	ctx := context.Background()

	if err := store.Save(ctx, "cart", []byte(`cart`)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Save(ctx, "wishlist", []byte(`wishlist`)); err != nil {
		t.Fatalf("Save: %v", err)
	}

	payload, ok, err := store.Load(ctx, "wishlist")
	if err != nil || !ok {
		t.Fatalf("Load = ok=%v err=%v, want snapshot", ok, err)
	}
	if string(payload) != "wishlist" {
		t.Fatalf("Load(wishlist) = %q", payload)
	}
}
