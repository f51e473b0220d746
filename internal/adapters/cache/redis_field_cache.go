package cache

import (
	"context"
	"errors"
	"fmt"
	"magnetic-field-service/internal/domain"
	"magnetic-field-service/internal/platform/codec"
	"magnetic-field-service/internal/platform/obs"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis-backed cache of computed field vectors.
// Keys are produced by services.CacheKey and already carry a version prefix;
// values are CBOR-encoded vector arrays.
type RedisFieldCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisFieldCache(client *redis.Client, ttl time.Duration) *RedisFieldCache {
	return &RedisFieldCache{Client: client, TTL: ttl}
}

// Fetch cached vectors for key.
func (c *RedisFieldCache) Get(ctx context.Context, key string) (_ []domain.Point, _ bool, err error) {
	defer obs.Time(ctx, "field.cache.Get")(&err)

	if c.Client == nil {
		return nil, false, errors.New("field cache: client is nil")
	}
	if key == "" {
		return nil, false, errors.New("get field cache: key must not be empty")
	}

	data, err := c.Client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get field cache: key=%q: %w", key, err)
	}

	vectors, err := codec.DecodePoints(data)
	if err != nil {
		return nil, false, fmt.Errorf("get field cache: key=%q: %w", key, err)
	}
	return vectors, true, nil
}

// Store vectors under key, expiring after TTL (0 keeps them indefinitely).
func (c *RedisFieldCache) Put(ctx context.Context, key string, vectors []domain.Point) (err error) {
	defer obs.Time(ctx, "field.cache.Put")(&err)

	if c.Client == nil {
		return errors.New("field cache: client is nil")
	}
	if key == "" {
		return errors.New("insert field cache: key must not be empty")
	}

	data, err := codec.EncodePoints(vectors)
	if err != nil {
		return fmt.Errorf("insert field cache: %w", err)
	}

	if err := c.Client.Set(ctx, key, data, c.TTL).Err(); err != nil {
		return fmt.Errorf("insert field cache: key=%q: %w", key, err)
	}
	return nil
}
