package storage

import (
	"context"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"

	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/port"
)

const (
	catalogKey        = "catalog:products"
	DefaultCatalogTTL = 10 * time.Minute
)

type RedisAdapter struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisAdapter(client *redis.Client, ttl time.Duration) *RedisAdapter {
	if ttl < 0 {
		ttl = 0
	}
	return &RedisAdapter{client: client, ttl: ttl}
}

func (r *RedisAdapter) LoadProducts(ctx context.Context) ([]domain.Product, bool) {
	if r.client == nil {
		return nil, false
	}
	data, err := r.client.Get(ctx, catalogKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			// On redis errors fall back to the source without failing.
			_ = r.client.Del(ctx, catalogKey).Err()
		}
		return nil, false
	}

	var products []domain.Product
	if err := sonic.Unmarshal(data, &products); err != nil || products == nil {
		_ = r.client.Del(ctx, catalogKey).Err()
		return nil, false
	}
	return products, true
}

func (r *RedisAdapter) StoreProducts(ctx context.Context, products []domain.Product) {
	if r.client == nil {
		return
	}
	if products == nil {
		products = []domain.Product{}
	}
	data, err := sonic.Marshal(products)
	if err != nil {
		return
	}
	_ = r.client.Set(ctx, catalogKey, data, r.ttl).Err()
}

func (r *RedisAdapter) EvictProducts(ctx context.Context) {
	if r.client == nil {
		return
	}
	_ = r.client.Del(ctx, catalogKey).Err()
}

// CachedSource serves the product list from the cache when present and
// refreshes the cache after every successful fetch from the source. Only lists
// that pass domain.ValidateProducts are cached or served from the cache.
type CachedSource struct {
	source port.CatalogSource
	cache  port.CatalogCache
}

func NewCachedSource(source port.CatalogSource, cache port.CatalogCache) *CachedSource {
	if source == nil {
		panic("storage.NewCachedSource: source is nil")
	}
	return &CachedSource{source: source, cache: cache}
}

func (c *CachedSource) FetchProducts(ctx context.Context) ([]domain.Product, error) {
	if c.cache != nil {
		if products, ok := c.cache.LoadProducts(ctx); ok {
			if domain.ValidateProducts(products) == nil {
				return products, nil
			}
			c.cache.EvictProducts(ctx)
		}
	}

	products, err := c.source.FetchProducts(ctx)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateProducts(products); err != nil {
		return nil, err
	}

	if c.cache != nil {
		c.cache.StoreProducts(ctx, products)
	}
	return products, nil
}
