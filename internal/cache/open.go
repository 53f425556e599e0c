package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"inkwell/internal/config"
)

// KeyPrefix namespaces page cache keys in a shared Redis.
const KeyPrefix = "inkwell:page:"

// Open builds the backend selected by cfg. The returned close function
// releases the Redis connection pool; it is a no-op for the memory cache.
func Open(ctx context.Context, cfg *config.Config) (PageCache, func() error, error) {
	switch cfg.CacheBackend {
	case config.CacheBackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("connect redis %s: %w", cfg.RedisAddr, err)
		}
		return NewRedisCache(client, KeyPrefix), client.Close, nil
	default:
		mc, err := NewMemoryCache(cfg.CacheSize)
		if err != nil {
			return nil, nil, err
		}
		return mc, func() error { return nil }, nil
	}
}
