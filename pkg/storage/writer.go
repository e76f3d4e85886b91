package storage

import (
	"context"
	"sync"
	"time"

	"github.com/tair/storefront-state/pkg/logger"
)

const writeTimeout = 5 * time.Second

// Writer persists snapshots asynchronously so mutations never block on the
// durable medium. It holds at most one pending snapshot per namespace: a
// newer snapshot enqueued before an older one is written simply replaces it.
// Because every snapshot is a full-state overwrite, dropping the stale one
// preserves last-snapshot-wins.
//
// Write failures are logged and dropped; the in-memory store stays
// authoritative for the rest of the session.
type Writer struct {
	store     SnapshotStore
	namespace string

	mu      sync.Mutex
	pending []byte

	kick chan struct{}
	quit chan struct{}
	done chan struct{}
}

// NewWriter creates a background writer for one store namespace and starts
// its goroutine.
func NewWriter(store SnapshotStore, namespace string) *Writer {
	w := &Writer{
		store:     store,
		namespace: namespace,
		kick:      make(chan struct{}, 1),
		quit:      make(chan struct{}),
		done:      make(chan struct{}),
	}
	go w.run()
	return w
}

// Enqueue schedules payload as the next snapshot to persist, replacing any
// snapshot still waiting to be written.
func (w *Writer) Enqueue(payload []byte) {
	w.mu.Lock()
	w.pending = payload
	w.mu.Unlock()

	select {
	case w.kick <- struct{}{}:
	default:
	}
}

// Close flushes the pending snapshot, if any, and stops the writer.
func (w *Writer) Close() {
	close(w.quit)
	<-w.done
}

func (w *Writer) run() {
	for {
		select {
		case <-w.kick:
			w.flush()
		case <-w.quit:
			w.flush()
			close(w.done)
			return
		}
	}
}

func (w *Writer) flush() {
	w.mu.Lock()
	payload := w.pending
	w.pending = nil
	w.mu.Unlock()

	if payload == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	if err := w.store.Save(ctx, w.namespace, payload); err != nil {
		logger.Logger.Warn().
			Err(err).
			Str("namespace", w.namespace).
			Msg("Failed to persist snapshot")
	}
}
