package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore persists snapshots as redis string values, one key per
// namespace. Snapshots do not expire; every mutation overwrites the key.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a redis-backed snapshot store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) key(namespace string) string {
	return fmt.Sprintf("snapshot:%s", namespace)
}

func (s *RedisStore) Load(ctx context.Context, namespace string) ([]byte, bool, error) {
	payload, err := s.client.Get(ctx, s.key(namespace)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to load snapshot %s: %w", namespace, err)
	}
	return payload, true, nil
}

func (s *RedisStore) Save(ctx context.Context, namespace string, payload []byte) error {
	if err := s.client.Set(ctx, s.key(namespace), payload, 0).Err(); err != nil {
		return fmt.Errorf("failed to save snapshot %s: %w", namespace, err)
	}
	return nil
}
