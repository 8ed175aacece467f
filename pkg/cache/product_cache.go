package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// ProductCacheTTL bounds how long a product detail page can be stale if an
	// invalidation event is lost.
	ProductCacheTTL = time.Hour

	productCacheKeyPrefix = "producto"
)

// CachedProduct is the product detail read model stored as a Redis hash.
// Price keeps the decimal string so no precision is lost.
type CachedProduct struct {
	ID          int64
	Name        string
	Description string
	Price       string
	Image       string
	Brand       string
	Active      bool
}

// ProductCache is the read-through cache behind GET /products/{id}.
// Key format: "producto:{id}"
type ProductCache struct {
	client *RedisClient
}

// NewProductCache creates a new ProductCache backed by the given RedisClient.
func NewProductCache(r *RedisClient) *ProductCache {
	return &ProductCache{client: r}
}

// Get returns redis.Nil when the product is not cached.
func (c *ProductCache) Get(ctx context.Context, id int64) (*CachedProduct, error) {
	vals, err := c.client.Client().HGetAll(ctx, c.key(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}
	if len(vals) == 0 {
		return nil, redis.Nil
	}

	pid, err := strconv.ParseInt(vals["id"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("cache parse id: %w", err)
	}
	return &CachedProduct{
		ID:          pid,
		Name:        vals["nombre"],
		Description: vals["descripcion"],
		Price:       vals["precio"],
		Image:       vals["imagen"],
		Brand:       vals["marca"],
		Active:      vals["activo"] == "1",
	}, nil
}

// Set writes the product hash and its TTL in one pipeline.
func (c *ProductCache) Set(ctx context.Context, p *CachedProduct) error {
	key := c.key(p.ID)
	active := "0"
	if p.Active {
		active = "1"
	}
	pipe := c.client.Client().Pipeline()
	pipe.HSet(ctx, key,
		"id", strconv.FormatInt(p.ID, 10),
		"nombre", p.Name,
		"descripcion", p.Description,
		"precio", p.Price,
		"imagen", p.Image,
		"marca", p.Brand,
		"activo", active,
	)
	pipe.Expire(ctx, key, ProductCacheTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Delete removes a cached product.
func (c *ProductCache) Delete(ctx context.Context, id int64) error {
	if err := c.client.Client().Del(ctx, c.key(id)).Err(); err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}

func (c *ProductCache) key(id int64) string {
	return fmt.Sprintf("%s:%d", productCacheKeyPrefix, id)
}
