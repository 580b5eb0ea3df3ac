package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultTitleTTL is how long a fetched page title stays cached (24 hours)
const DefaultTitleTTL = 24 * time.Hour

// CacheTitle stores a url -> title resolution
func (s *Store) CacheTitle(ctx context.Context, pageURL, title string, ttl time.Duration) error {
	if err := s.client.Set(ctx, TitleKey(pageURL), title, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache title: %w", err)
	}
	return nil
}

// CachedTitle retrieves a cached title. A miss returns ok=false and no error.
func (s *Store) CachedTitle(ctx context.Context, pageURL string) (string, bool, error) {
	title, err := s.client.Get(ctx, TitleKey(pageURL)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil // Cache miss
		}
		return "", false, fmt.Errorf("failed to get cached title: %w", err)
	}
	return title, true, nil
}

// FlushTitles removes all cached titles
func (s *Store) FlushTitles(ctx context.Context) error {
	iter := s.client.Scan(ctx, 0, KeyPrefixTitle+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to delete title key: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to flush titles: %w", err)
	}
	return nil
}
