package storage

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("snapshot-storage")

// TracedStore wraps a SnapshotStore with tracing
type TracedStore struct {
	inner SnapshotStore
}

// NewTracedStore creates a snapshot store with tracing
func NewTracedStore(inner SnapshotStore) *TracedStore {
	return &TracedStore{inner: inner}
}

// Load with tracing
func (s *TracedStore) Load(ctx context.Context, namespace string) ([]byte, bool, error) {
	ctx, span := tracer.Start(ctx, "storage.Load")
	defer span.End()

	span.SetAttributes(attribute.String("snapshot.namespace", namespace))

	payload, ok, err := s.inner.Load(ctx, namespace)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, false, err
	}

	span.SetAttributes(
		attribute.Bool("snapshot.found", ok),
		attribute.Int("snapshot.size", len(payload)),
	)
	return payload, ok, nil
}

// Save with tracing
func (s *TracedStore) Save(ctx context.Context, namespace string, payload []byte) error {
	ctx, span := tracer.Start(ctx, "storage.Save")
	defer span.End()

	span.SetAttributes(
		attribute.String("snapshot.namespace", namespace),
		attribute.Int("snapshot.size", len(payload)),
	)

	if err := s.inner.Save(ctx, namespace, payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}
