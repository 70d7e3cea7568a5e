// Package cache wraps Redis access behind a small service used for
// advisory caching of aggregated statistics and probe results (spec §7:
// "statistics are advisory, not transactional"). When no Redis address is
// configured, the service degrades to an in-process map so the module
// still runs in local development without a Redis instance.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/scholarfed/engine/config/environment_variables"
)

// RedisCacheService is the shared cache handle, following the teacher's
// `NewRedisCacheService` wire-provided singleton convention.
type RedisCacheService struct {
	client *redis.Client

	mu       sync.RWMutex
	fallback map[string]fallbackEntry
}

type fallbackEntry struct {
	value     string
	expiresAt time.Time
}

// NewRedisCacheService builds the cache service from
// environment_variables.EnvironmentVariables.RedisAddr. An empty address
// runs the service in fallback (in-process) mode.
func NewRedisCacheService() *RedisCacheService {
	svc := &RedisCacheService{fallback: make(map[string]fallbackEntry)}
	if addr := environment_variables.EnvironmentVariables.RedisAddr; addr != "" {
		svc.client = redis.NewClient(&redis.Options{Addr: addr})
	}
	return svc
}

// Get returns the cached value for key, or an error (including
// redis.Nil-equivalent miss) if absent or expired.
func (s *RedisCacheService) Get(ctx context.Context, key string) (string, error) {
	if s.client != nil {
		return s.client.Get(ctx, key).Result()
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.fallback[key]
	if !ok || time.Now().After(entry.expiresAt) {
		return "", redis.Nil
	}
	return entry.value, nil
}

// Set stores value under key with the given TTL.
func (s *RedisCacheService) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if s.client != nil {
		return s.client.Set(ctx, key, value, ttl).Err()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fallback[key] = fallbackEntry{value: value, expiresAt: time.Now().Add(ttl)}
	return nil
}

// Unlink removes a single key.
func (s *RedisCacheService) Unlink(ctx context.Context, key string) error {
	if s.client != nil {
		return s.client.Unlink(ctx, key).Err()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.fallback, key)
	return nil
}

// DeletePattern removes every key matching a Redis glob pattern, scanning
// in batches to avoid blocking the server on large keyspaces.
func (s *RedisCacheService) DeletePattern(ctx context.Context, pattern string) error {
	if s.client == nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		for key := range s.fallback {
			if matched, _ := matchPattern(pattern, key); matched {
				delete(s.fallback, key)
			}
		}
		return nil
	}

	var cursor uint64
	for {
		keys, next, err := s.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := s.client.Unlink(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return nil
}

// matchPattern is a minimal glob matcher (`*` only) for the fallback path;
// Redis SCAN's MATCH glob is reimplemented only for prefix matching:
// everything from the first `*` on is treated as "any suffix".
func matchPattern(pattern, key string) (bool, error) {
	if idx := indexStar(pattern); idx >= 0 {
		prefix := pattern[:idx]
		return len(key) >= len(prefix) && key[:len(prefix)] == prefix, nil
	}
	return pattern == key, nil
}

func indexStar(s string) int {
	for i, r := range s {
		if r == '*' {
			return i
		}
	}
	return -1
}
