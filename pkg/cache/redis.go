package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is a Redis-backed cache. Values are JSON-encoded; keys are
// namespaced with a prefix so Clear only touches entries owned by this
// cache.
type Redis[V any] struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// RedisOption configures a Redis cache.
type RedisOption func(*redisConfig)

type redisConfig struct {
	prefix string
	ttl    time.Duration
}

// WithPrefix sets the key namespace. Defaults to "cache".
func WithPrefix(prefix string) RedisOption {
	return func(c *redisConfig) {
		if prefix != "" {
			c.prefix = prefix
		}
	}
}

// WithRedisDefaultTTL sets the TTL applied when Set is called with a zero
// TTL. Defaults to no expiration.
func WithRedisDefaultTTL(ttl time.Duration) RedisOption {
	return func(c *redisConfig) {
		c.ttl = ttl
	}
}

// NewRedis creates a Redis-backed cache on an existing client.
func NewRedis[V any](client redis.UniversalClient, opts ...RedisOption) *Redis[V] {
	cfg := redisConfig{prefix: "cache"}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Redis[V]{client: client, prefix: cfg.prefix, ttl: cfg.ttl}
}

func (r *Redis[V]) key(key string) string {
	return r.prefix + ":" + key
}

// Get retrieves a value by key.
func (r *Redis[V]) Get(ctx context.Context, key string) (V, error) {
	var zero V
	data, err := r.client.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return zero, ErrNotFound
	}
	if err != nil {
		return zero, err
	}
	return unmarshalValue[V](data)
}

// Set stores a value with the given TTL.
func (r *Redis[V]) Set(ctx context.Context, key string, value V, ttl time.Duration) error {
	data, err := marshalValue(value)
	if err != nil {
		return err
	}
	if ttl == 0 {
		ttl = r.ttl
	}
	if ttl < 0 {
		ttl = 0 // redis: zero expiration = keep forever
	}
	return r.client.Set(ctx, r.key(key), data, ttl).Err()
}

// Delete removes a key from the cache.
func (r *Redis[V]) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.key(key)).Err()
}

// Clear removes all entries under this cache's prefix using SCAN to avoid
// blocking the server.
func (r *Redis[V]) Clear(ctx context.Context) error {
	iter := r.client.Scan(ctx, 0, r.prefix+":*", 100).Iterator()
	for iter.Next(ctx) {
		if err := r.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

// Close is a no-op; the client lifecycle is owned by the caller.
func (r *Redis[V]) Close() error {
	return nil
}
