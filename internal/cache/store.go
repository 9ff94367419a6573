// Package cache provides the redis-backed second-level cache for entities.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/yukikurage/tree-api/internal/config"
)

// Store keeps JSON documents in redis under a common prefix.
type Store struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewClient creates a redis client for cfg and verifies the connection with Ping.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

// NewStore constructs a store backed by client. Keys are prefixed with prefix
// and expire after ttl; a zero ttl keeps entries until they are evicted.
func NewStore(client *redis.Client, prefix string, ttl time.Duration) *Store {
	return &Store{client: client, prefix: prefix, ttl: ttl}
}

// Key joins parts under the store prefix.
func (s *Store) Key(parts ...string) string {
	return s.prefix + ":" + strings.Join(parts, ":")
}

// Get decodes the entry at key into dest. It reports false when the key is absent.
func (s *Store) Get(ctx context.Context, key string, dest any) (bool, error) {
	if s == nil || s.client == nil {
		return false, nil
	}

	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("get cached %s: %w", key, err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("decode cached %s: %w", key, err)
	}

	return true, nil
}

// Set stores value at key for the configured TTL.
func (s *Store) Set(ctx context.Context, key string, value any) error {
	if s == nil || s.client == nil || value == nil {
		return nil
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s for cache: %w", key, err)
	}

	if err := s.client.Set(ctx, key, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("set cached %s: %w", key, err)
	}

	return nil
}

// Delete removes the given keys if they exist.
func (s *Store) Delete(ctx context.Context, keys ...string) error {
	if s == nil || s.client == nil || len(keys) == 0 {
		return nil
	}

	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("delete cached %s: %w", strings.Join(keys, ","), err)
	}

	return nil
}
