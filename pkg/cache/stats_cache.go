package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const statsCacheKey = "stats:items"

// CachedStats is the aggregate stored by a StatsCache. Version is the store
// version token the aggregate was computed from; a lookup with any other
// token is a miss.
type CachedStats struct {
	Version      string
	Total        int
	AveragePrice float64
}

// StatsCache holds at most one stats aggregate.
type StatsCache interface {
	// Get returns the cached aggregate when it was computed from version.
	// A miss returns (nil, nil).
	Get(ctx context.Context, version string) (*CachedStats, error)
	Set(ctx context.Context, stats *CachedStats) error
	Invalidate(ctx context.Context) error
}

// MemoryStatsCache keeps the aggregate in process memory.
// A zero TTL keeps entries until they are replaced or invalidated.
type MemoryStatsCache struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entry   *CachedStats
	expires time.Time
}

// NewMemoryStatsCache returns an empty in-process cache.
func NewMemoryStatsCache(ttl time.Duration) *MemoryStatsCache {
	return &MemoryStatsCache{ttl: ttl, now: time.Now}
}

func (c *MemoryStatsCache) Get(_ context.Context, version string) (*CachedStats, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entry == nil || c.entry.Version != version {
		return nil, nil
	}
	if c.ttl > 0 && !c.now().Before(c.expires) {
		c.entry = nil
		return nil, nil
	}
	cp := *c.entry
	return &cp, nil
}

func (c *MemoryStatsCache) Set(_ context.Context, stats *CachedStats) error {
	if stats == nil {
		return errors.New("cache set: nil stats")
	}
	cp := *stats
	c.mu.Lock()
	c.entry = &cp
	c.expires = c.now().Add(c.ttl)
	c.mu.Unlock()
	return nil
}

func (c *MemoryStatsCache) Invalidate(_ context.Context) error {
	c.mu.Lock()
	c.entry = nil
	c.mu.Unlock()
	return nil
}

// RedisStatsCache stores the aggregate as a Redis hash so several API
// replicas sharing one data file also share the cached aggregate.
// Key: "<service>:stats:items"
type RedisStatsCache struct {
	client *RedisClient
	key    string
	ttl    time.Duration
}

// NewRedisStatsCache creates a RedisStatsCache backed by the given RedisClient.
func NewRedisStatsCache(r *RedisClient, ttl time.Duration) *RedisStatsCache {
	return &RedisStatsCache{client: r, key: r.Key(statsCacheKey), ttl: ttl}
}

func (c *RedisStatsCache) Get(ctx context.Context, version string) (*CachedStats, error) {
	vals, err := c.client.Client().HGetAll(ctx, c.key).Result()
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}
	if len(vals) == 0 || vals["version"] != version {
		return nil, nil
	}

	total, err := strconv.Atoi(vals["total"])
	if err != nil {
		return nil, fmt.Errorf("cache parse total: %w", err)
	}
	avg, err := strconv.ParseFloat(vals["average_price"], 64)
	if err != nil {
		return nil, fmt.Errorf("cache parse average_price: %w", err)
	}
	return &CachedStats{Version: version, Total: total, AveragePrice: avg}, nil
}

// Set writes all fields and the TTL in one pipeline.
func (c *RedisStatsCache) Set(ctx context.Context, stats *CachedStats) error {
	if stats == nil {
		return errors.New("cache set: nil stats")
	}
	pipe := c.client.Client().TxPipeline()
	pipe.Del(ctx, c.key)
	pipe.HSet(ctx, c.key,
		"version", stats.Version,
		"total", strconv.Itoa(stats.Total),
		"average_price", strconv.FormatFloat(stats.AveragePrice, 'g', -1, 64),
	)
	if c.ttl > 0 {
		pipe.Expire(ctx, c.key, c.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

func (c *RedisStatsCache) Invalidate(ctx context.Context) error {
	if err := c.client.Client().Del(ctx, c.key).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("cache invalidate: %w", err)
	}
	return nil
}
