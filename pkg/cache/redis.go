// Package cache holds the Redis-backed pieces of the storefront: the client,
// the product detail cache and the best-seller ranking. Sessions use the same
// client through pkg/auth.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ghuser/gamercart/pkg/config"
)

const connectTimeout = 2 * time.Second

// RedisClient is the shared Redis handle. Every consumer is optional: callers
// hold a nil *RedisClient when Redis was unavailable at startup.
type RedisClient struct {
	client *redis.Client
}

// NewRedisClientFrom wraps an existing client without pinging it.
func NewRedisClientFrom(client *redis.Client) *RedisClient {
	return &RedisClient{client: client}
}

// NewRedisClient connects to cfg.RedisURL and pings it. Callers decide whether
// a failure is fatal: the API degrades to cookie sessions, the worker exits.
func NewRedisClient(ctx context.Context, cfg *config.Config) (*RedisClient, error) {
	opts, err := redisOptions(cfg)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", opts.Addr, err)
	}
	return &RedisClient{client: rdb}, nil
}

// redisOptions parses the URL and sizes the pool like the MySQL one, so a
// single-connection deployment stays single-connection on both stores.
func redisOptions(cfg *config.Config) (*redis.Options, error) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	opts.PoolSize = max(cfg.DBPoolSize, 1)
	opts.MinIdleConns = min(2, opts.PoolSize)
	opts.MaxRetries = 3
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second
	opts.PoolTimeout = 4 * time.Second
	if cfg.ServiceName != "" {
		opts.ClientName = cfg.ServiceName
	}
	return opts, nil
}

// Ping checks the Redis connection health.
func (r *RedisClient) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

// Close shuts down the connection pool. Safe on a client built from nil.
func (r *RedisClient) Close() error {
	if r.client == nil {
		return nil
	}
	if err := r.client.Close(); err != nil {
		return fmt.Errorf("redis close: %w", err)
	}
	return nil
}

// Client returns the underlying redis.Client for the session store.
func (r *RedisClient) Client() *redis.Client {
	return r.client
}
