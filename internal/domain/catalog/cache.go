// internal/domain/catalog/cache.go
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/your-org/storefront-backend/internal/domain/ledger"
)

var ErrCacheMiss = errors.New("cache miss")

// Cache stores resolved catalog products
type Cache interface {
	Get(ctx context.Context, id string) (*ledger.CatalogProduct, error)
	Set(ctx context.Context, product ledger.CatalogProduct) error
	Delete(ctx context.Context, id string) error
}

// RedisCache caches catalog products as JSON with a jittered TTL
type RedisCache struct {
	client  *redis.Client
	baseTTL time.Duration
}

func NewRedisCache(client *redis.Client, baseTTL time.Duration) *RedisCache {
	return &RedisCache{client: client, baseTTL: baseTTL}
}

func (c *RedisCache) Get(ctx context.Context, id string) (*ledger.CatalogProduct, error) {
	data, err := c.client.Get(ctx, cacheKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var product ledger.CatalogProduct
	if err := json.Unmarshal(data, &product); err != nil {
		return nil, fmt.Errorf("unmarshal product failed: %w", err)
	}
	return &product, nil
}

func (c *RedisCache) Set(ctx context.Context, product ledger.CatalogProduct) error {
	data, err := json.Marshal(product)
	if err != nil {
		return fmt.Errorf("marshal product failed: %w", err)
	}

	ttl := c.baseTTL
	if ttl > time.Second {
		// up to 20% jitter
		ttl += time.Duration(rand.Int63n(int64(ttl / 5)))
	}
	if err := c.client.Set(ctx, cacheKey(product.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *RedisCache) Delete(ctx context.Context, id string) error {
	if err := c.client.Del(ctx, cacheKey(id)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func cacheKey(id string) string {
	return fmt.Sprintf("catalog:product:%s", id)
}
