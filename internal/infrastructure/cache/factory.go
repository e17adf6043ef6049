package cache

import (
	"time"

	"go.uber.org/zap"

	apptracking "github.com/hongquyngo/inbound-logistic-dashboard/internal/application/tracking"
	"github.com/hongquyngo/inbound-logistic-dashboard/internal/infrastructure/config"
)

// NewFilterOptionsCache builds the filter options cache from configuration.
// When Redis is disabled or unreachable it falls back to the in-memory cache,
// so a cache outage never takes the dashboard down.
func NewFilterOptionsCache(cfg config.RedisConfig, ttl time.Duration, log *zap.Logger) apptracking.FilterOptionsCache {
	if !cfg.Enabled {
		return NewInMemoryFilterOptionsCache(ttl)
	}

	redisCache, err := NewRedisFilterOptionsCache(RedisConfig{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	}, ttl)
	if err != nil {
		log.Warn("Redis unavailable, using in-memory filter options cache", zap.Error(err))
		return NewInMemoryFilterOptionsCache(ttl)
	}

	log.Info("using Redis filter options cache", zap.String("addr", cfg.Addr()))
	return redisCache
}
