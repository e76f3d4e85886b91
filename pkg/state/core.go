// Package state implements the persisted store core shared by the cart,
// wishlist and compare stores: a mutex-guarded snapshot with atomic
// commit-or-reject mutations, a hydration gate, write-through persistence
// and selector-based change subscriptions.
package state

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/tair/storefront-state/pkg/logger"
	"github.com/tair/storefront-state/pkg/storage"
)

// Core holds one store's canonical snapshot of type S.
//
// Mutations run inside a single critical section that also recomputes the
// committed snapshot and schedules its persistence, so readers never observe
// a partially-updated state. Reads through View are gated: until Rehydrate
// completes, View reports the empty snapshot regardless of what is held in
// memory or in durable storage.
type Core[S any] struct {
	namespace string
	empty     S

	mu       sync.Mutex
	snapshot S
	hydrated bool

	// notifyMu guards subs and serializes subscriber notification in commit
	// order. Commits acquire it while still holding mu and release it after
	// mu, so callbacks may read the store but must not commit to it.
	notifyMu sync.Mutex
	subs     map[int]func(S)
	nextSub  int

	snapshots storage.SnapshotStore
	writer    *storage.Writer
}

// NewCore creates a store core with the given persisted namespace and empty
// snapshot. Construction is side-effect free: nothing is read from snapshots
// until Rehydrate is called. A nil snapshots disables persistence and the
// core runs in-memory only.
func NewCore[S any](namespace string, empty S, snapshots storage.SnapshotStore) *Core[S] {
	c := &Core[S]{
		namespace: namespace,
		empty:     empty,
		snapshot:  empty,
		subs:      map[int]func(S){},
		snapshots: snapshots,
	}
	if snapshots != nil {
		c.writer = storage.NewWriter(snapshots, namespace)
	}
	return c
}

// Namespace returns the durable storage namespace of this core.
func (c *Core[S]) Namespace() string {
	return c.namespace
}

// Hydrated reports whether the snapshot has been restored from durable
// storage. It starts false and flips true exactly once per process lifetime.
func (c *Core[S]) Hydrated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hydrated
}

// View returns the current snapshot, or the empty snapshot while the core is
// not yet hydrated. The returned value must be treated as read-only; commits
// replace the snapshot rather than mutating it in place.
func (c *Core[S]) View() S {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gated()
}

func (c *Core[S]) gated() S {
	if !c.hydrated {
		return c.empty
	}
	return c.snapshot
}

// Commit applies mutate to the current snapshot. When mutate reports false
// the commit is rejected: the snapshot is unchanged, nothing is persisted
// and no subscriber runs. When it reports true the returned snapshot
// replaces the current one atomically, its persistence is scheduled and
// subscribers are notified. Commit returns mutate's verdict.
//
// mutate must not modify the snapshot it receives; it returns a fresh value
// built from it.
func (c *Core[S]) Commit(mutate func(S) (S, bool)) bool {
	c.mu.Lock()

	next, ok := mutate(c.snapshot)
	if !ok {
		c.mu.Unlock()
		return false
	}

	c.snapshot = next
	c.persistLocked()
	view := c.gated()

	c.notifyMu.Lock()
	c.mu.Unlock()
	c.notify(view)
	c.notifyMu.Unlock()
	return true
}

// Update is Commit for mutations that always succeed.
func (c *Core[S]) Update(mutate func(S) S) {
	c.Commit(func(cur S) (S, bool) {
		return mutate(cur), true
	})
}

// Rehydrate restores the snapshot from durable storage and opens the
// hydration gate. It is idempotent: repeated calls re-read the same durable
// source and replace, never merge, the in-memory snapshot. A missing,
// unreadable or malformed snapshot leaves the in-memory state untouched and
// only opens the gate; failures are logged, never returned.
func (c *Core[S]) Rehydrate(ctx context.Context) {
	restored, ok := c.load(ctx)

	c.mu.Lock()
	if ok {
		c.snapshot = restored
	}
	c.hydrated = true
	view := c.gated()

	c.notifyMu.Lock()
	c.mu.Unlock()
	c.notify(view)
	c.notifyMu.Unlock()
}

func (c *Core[S]) load(ctx context.Context) (S, bool) {
	var zero S
	if c.snapshots == nil {
		return zero, false
	}

	payload, found, err := c.snapshots.Load(ctx, c.namespace)
	if err != nil {
		logger.WithContext(ctx).Warn().
			Err(err).
			Str("namespace", c.namespace).
			Msg("Failed to load snapshot, starting empty")
		return zero, false
	}
	if !found {
		return zero, false
	}

	restored := c.empty
	if err := json.Unmarshal(payload, &restored); err != nil {
		logger.WithContext(ctx).Warn().
			Err(err).
			Str("namespace", c.namespace).
			Msg("Malformed snapshot payload, starting empty")
		return zero, false
	}
	return restored, true
}

// persistLocked schedules a write of the current snapshot. Callers hold mu.
func (c *Core[S]) persistLocked() {
	if c.writer == nil {
		return
	}

	payload, err := json.Marshal(c.snapshot)
	if err != nil {
		logger.Logger.Error().
			Err(err).
			Str("namespace", c.namespace).
			Msg("Failed to marshal snapshot")
		return
	}
	c.writer.Enqueue(payload)
}

func (c *Core[S]) notify(view S) {
	for _, fn := range c.subs {
		fn(view)
	}
}

// Close flushes any pending snapshot write and stops the background writer.
func (c *Core[S]) Close() {
	if c.writer != nil {
		c.writer.Close()
	}
}
