package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "storefront:state:"

// Store keeps state records in redis. Intended for kiosk deployments where
// several client processes on one device share the queue and cache.
type Store struct {
	client *redis.Client
}

// NewStore wraps an existing redis client.
func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

// Get returns the stored value for key, or (nil, nil) when absent.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return value, nil
}

// Set stores or overwrites the value for a key. Records never expire; they
// are rewritten wholesale by the pipeline.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, keyPrefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// Remove deletes the value for a key. Removing an absent key is a no-op.
func (s *Store) Remove(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}
