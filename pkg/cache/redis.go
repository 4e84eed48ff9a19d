package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ghuser/itemstore/pkg/config"
)

const redisPingTimeout = 2 * time.Second

// RedisClient wraps redis.Client. Only the stats aggregate lives in Redis, so
// the pool is kept small.
type RedisClient struct {
	client *redis.Client
	prefix string
}

// NewRedisClient parses cfg.RedisURL, applies pool and timeout settings and
// verifies connectivity with a bounded Ping. Keys written through this client
// are prefixed with the service name.
func NewRedisClient(ctx context.Context, cfg *config.Config) (*RedisClient, error) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	opts.PoolSize = 4
	opts.MinIdleConns = 1
	opts.MaxRetries = 3
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = time.Second
	opts.WriteTimeout = time.Second
	opts.PoolTimeout = 2 * time.Second
	if cfg.ServiceName != "" {
		opts.ClientName = cfg.ServiceName
	}

	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &RedisClient{client: rdb, prefix: cfg.ServiceName}, nil
}

// Ping checks the Redis connection health.
func (r *RedisClient) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

// Close shuts down the connection pool.
func (r *RedisClient) Close() error {
	if r.client == nil {
		return nil
	}
	if err := r.client.Close(); err != nil {
		return fmt.Errorf("redis close: %w", err)
	}
	return nil
}

// Client returns the underlying redis.Client for direct use.
func (r *RedisClient) Client() *redis.Client {
	return r.client
}

// Key namespaces k under the client's prefix ("itemstore:stats:items").
func (r *RedisClient) Key(k string) string {
	if r.prefix == "" {
		return k
	}
	return r.prefix + ":" + k
}
