package memory

import (
	"context"
	"sync"
)

// Store provides an in-memory state store useful for local development and tests.
type Store struct {
	mu    sync.RWMutex
	items map[string][]byte
}

// NewStore constructs a new in-memory store.
func NewStore() *Store {
	return &Store{items: make(map[string][]byte)}
}

// Get returns the stored value for key, or (nil, nil) when absent.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.items[key]
	if !ok {
		return nil, nil
	}
	copied := make([]byte, len(value))
	copy(copied, value)
	return copied, nil
}

// Set stores or overwrites the value for a key.
func (s *Store) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := make([]byte, len(value))
	copy(copied, value)
	s.items[key] = copied
	return nil
}

// Remove deletes the value for a key. Removing an absent key is a no-op.
func (s *Store) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
	return nil
}
