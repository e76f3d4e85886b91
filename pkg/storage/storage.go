// Package storage bridges the in-memory stores to a durable key/value
// medium. Each store persists one full-state snapshot under its own
// namespace; every write overwrites the previous snapshot, so the medium
// never needs operation-level ordering.
package storage

import "context"

// SnapshotStore is the contract for a durable snapshot medium.
//
// Load reports ok=false when no snapshot exists for the namespace; that is
// not an error. Save overwrites any previous snapshot for the namespace.
type SnapshotStore interface {
	Load(ctx context.Context, namespace string) (payload []byte, ok bool, err error)
	Save(ctx context.Context, namespace string, payload []byte) error
}
