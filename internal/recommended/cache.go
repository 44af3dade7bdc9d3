package recommended

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/wichananm65/eco-shop-backend/internal/eco"
)

const (
	DefaultCacheTTL    = 5 * time.Minute
	DefaultCachePrefix = "eco:alternatives:"
)

// Cache stores ranked alternative lists. Keys embed the catalog generation,
// so Invalidate makes every earlier key unreachable.
type Cache interface {
	Key(ctx context.Context, productID, limit int) (string, error)
	Get(ctx context.Context, key string) ([]eco.Alternative, bool)
	Set(ctx context.Context, key string, alts []eco.Alternative) error
	Invalidate(ctx context.Context) error
}

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

type CacheOption func(*RedisCache)

func WithTTL(ttl time.Duration) CacheOption {
	return func(c *RedisCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

func WithPrefix(prefix string) CacheOption {
	return func(c *RedisCache) {
		c.prefix = prefix
	}
}

func NewRedisCache(client *redis.Client, opts ...CacheOption) *RedisCache {
	c := &RedisCache{client: client, ttl: DefaultCacheTTL, prefix: DefaultCachePrefix}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *RedisCache) generationKey() string { return c.prefix + "gen" }

// Key reads the current catalog generation; a missing counter is generation 0.
func (c *RedisCache) Key(ctx context.Context, productID, limit int) (string, error) {
	gen, err := c.client.Get(ctx, c.generationKey()).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("read catalog generation: %w", err)
	}
	return fmt.Sprintf("%s%d:%d:%d", c.prefix, gen, productID, limit), nil
}

// Get treats Redis errors and corrupt entries as misses.
func (c *RedisCache) Get(ctx context.Context, key string) ([]eco.Alternative, bool) {
	val, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var alts []eco.Alternative
	if err := json.Unmarshal(val, &alts); err != nil || alts == nil {
		return nil, false
	}
	return alts, true
}

func (c *RedisCache) Set(ctx context.Context, key string, alts []eco.Alternative) error {
	data, err := json.Marshal(alts)
	if err != nil {
		return fmt.Errorf("marshal alternatives: %w", err)
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache alternatives: %w", err)
	}
	return nil
}

func (c *RedisCache) Invalidate(ctx context.Context) error {
	return c.client.Incr(ctx, c.generationKey()).Err()
}
