package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

//go:generate mockgen -source=catalog_cache.go -destination=../mock/catalog/catalog_cache_mock.go -package=mock
type Cache interface {
	// Get decodes the cached value into dst and reports whether it was found.
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any) error
}

const cacheKeyPrefix = "catalog:"

type RedisCache struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewRedisCache(rdb redis.Cmdable, ttl time.Duration) *RedisCache {
	return &RedisCache{rdb: rdb, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	raw, err := c.rdb.Get(ctx, cacheKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("catalog cache get %q: %w", key, err)
	}
	if err := decodeCached(raw, dst); err != nil {
		return false, fmt.Errorf("catalog cache decode %q: %w", key, err)
	}
	return true, nil
}

// decodeCached mirrors the upstream client's decoding so attribute numbers
// come back as json.Number on a hit, exactly as on a miss.
func decodeCached(raw []byte, dst any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	return dec.Decode(dst)
}

func (c *RedisCache) Set(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("catalog cache encode %q: %w", key, err)
	}
	if err := c.rdb.Set(ctx, cacheKeyPrefix+key, b, c.ttl).Err(); err != nil {
		return fmt.Errorf("catalog cache set %q: %w", key, err)
	}
	return nil
}

// NopCache never stores anything. Used when no redis is configured.
type NopCache struct{}

func (NopCache) Get(context.Context, string, any) (bool, error) { return false, nil }
func (NopCache) Set(context.Context, string, any) error         { return nil }
