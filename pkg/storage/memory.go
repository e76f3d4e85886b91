package storage

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory SnapshotStore. It keeps the service fully
// functional when no durable medium is configured; snapshots are lost on
// restart.
type MemoryStore struct {
	mu        sync.RWMutex
	snapshots map[string][]byte
}

// NewMemoryStore creates an empty in-memory snapshot store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snapshots: map[string][]byte{}}
}

func (s *MemoryStore) Load(_ context.Context, namespace string) ([]byte, bool, error) {
	s.mu.RLock()
	payload, ok := s.snapshots[namespace]
	s.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(payload))
	copy(out, payload)
	return out, true, nil
}

func (s *MemoryStore) Save(_ context.Context, namespace string, payload []byte) error {
	stored := make([]byte, len(payload))
	copy(stored, payload)

	s.mu.Lock()
	s.snapshots[namespace] = stored
	s.mu.Unlock()
	return nil
}
