// Package kv implements the key-value adapter (C1): the single store behind
// conversation sessions, rate-limit counters, intent-classification cache,
// and short-TTL job-result mirrors. Everything in this package is a thin
// wrapper over one Redis logical connection.
package kv

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/smartcvnaija/jobbroker/internal/platform/redis"
)

// Store is the C1 contract: Get/Set/Del/Incr/Exists/TTL/KeysByPattern/Ping.
type Store struct {
	client *redis.Client
}

// New wraps an already-connected Redis client as a KV store.
func New(client *redis.Client) *Store {
	return &Store{client: client}
}

// Get returns the raw string value for key, or "" with ok=false if missing.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := s.client.Get(ctx, key).Result()
	if err == goredis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

// Set stores value under key with an optional TTL (ttl <= 0 means no expiry).
func (s *Store) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

// Del deletes one or more keys, ignoring keys that do not exist.
func (s *Store) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...).Err()
}

// Incr atomically increments key and returns the resulting value. Used by
// the rate limiter (C2).
func (s *Store) Incr(ctx context.Context, key string) (int64, error) {
	return s.client.Incr(ctx, key).Result()
}

// Expire sets a TTL on an existing key without touching its value.
func (s *Store) Expire(ctx context.Context, key string, ttl time.Duration) error {
	return s.client.Expire(ctx, key, ttl).Err()
}

// Exists reports whether key is currently set.
func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	n, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// TTL returns the remaining time-to-live for key. A negative duration means
// the key either has no expiry (-1) or does not exist (-2), per Redis
// semantics — callers should check Exists first if that distinction matters.
func (s *Store) TTL(ctx context.Context, key string) (time.Duration, error) {
	return s.client.TTL(ctx, key).Result()
}

// KeysByPattern lists keys matching a glob pattern via SCAN, never KEYS, to
// avoid blocking the server on a large keyspace.
func (s *Store) KeysByPattern(ctx context.Context, pattern string) ([]string, error) {
	var keys []string
	iter := s.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return keys, nil
}

// Ping reports whether the underlying Redis connection is healthy.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
