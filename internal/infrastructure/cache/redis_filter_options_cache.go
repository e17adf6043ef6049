package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hongquyngo/inbound-logistic-dashboard/internal/domain/tracking"
)

const filterOptionsKey = "tracking:filter_options"

// RedisFilterOptionsCache caches derived filter options in Redis, suitable
// for deployments where multiple instances share one dataset.
type RedisFilterOptionsCache struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisFilterOptionsCache connects to Redis and returns the cache.
// Connection failure is an error so callers can decide whether to fall back.
func NewRedisFilterOptionsCache(cfg RedisConfig, ttl time.Duration) (*RedisFilterOptionsCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisFilterOptionsCacheWithClient(client, ttl), nil
}

// NewRedisFilterOptionsCacheWithClient wraps an existing Redis client,
// useful for testing or when sharing a client across components.
func NewRedisFilterOptionsCacheWithClient(client *redis.Client, ttl time.Duration) *RedisFilterOptionsCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &RedisFilterOptionsCache{
		client: client,
		key:    filterOptionsKey,
		ttl:    ttl,
	}
}

// Get returns the cached filter options, or (nil, nil) on a cache miss
func (c *RedisFilterOptionsCache) Get(ctx context.Context) (*tracking.FilterOptions, error) {
	payload, err := c.client.Get(ctx, c.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read filter options from cache: %w", err)
	}

	var opts tracking.FilterOptions
	if err := json.Unmarshal(payload, &opts); err != nil {
		return nil, fmt.Errorf("failed to decode cached filter options: %w", err)
	}
	return &opts, nil
}

// Set stores the filter options with the configured TTL
func (c *RedisFilterOptionsCache) Set(ctx context.Context, opts tracking.FilterOptions) error {
	payload, err := json.Marshal(opts)
	if err != nil {
		return fmt.Errorf("failed to encode filter options: %w", err)
	}
	if err := c.client.Set(ctx, c.key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write filter options to cache: %w", err)
	}
	return nil
}

// Invalidate removes the cached filter options
func (c *RedisFilterOptionsCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, c.key).Err(); err != nil {
		return fmt.Errorf("failed to invalidate filter options cache: %w", err)
	}
	return nil
}
