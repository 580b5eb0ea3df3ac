package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/marks/internal/store"
)

// Store handles Redis operations for the bookmark slot and the title cache
type Store struct {
	client *redis.Client
	key    string
}

// NewStore creates a new Redis store bound to one slot name.
// An empty name falls back to store.DefaultKey.
func NewStore(client *redis.Client, name string) *Store {
	if name == "" {
		name = store.DefaultKey
	}
	return &Store{
		client: client,
		key:    SlotKey(name),
	}
}

// Key returns the Redis key of the slot
func (s *Store) Key() string {
	return s.key
}

// Sibling returns a store on "<key>:<suffix>" sharing the same client
func (s *Store) Sibling(suffix string) *Store {
	return &Store{client: s.client, key: s.key + ":" + suffix}
}

// Read returns the raw slot value, or store.ErrSlotEmpty when the key is unset
func (s *Store) Read(ctx context.Context) ([]byte, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, store.ErrSlotEmpty
		}
		return nil, fmt.Errorf("failed to read slot %s: %w", s.key, err)
	}
	return data, nil
}

// Write replaces the slot value. The key never expires.
func (s *Store) Write(ctx context.Context, data []byte) error {
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to write slot %s: %w", s.key, err)
	}
	return nil
}

// Ping checks the connection, used by readiness probes
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
