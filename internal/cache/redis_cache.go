package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aaravmahajanofficial/storefront-api/internal/config"
	"github.com/redis/go-redis/v9"
)

type redisCache struct {
	client     *redis.Client
	defaultTTL time.Duration
}

func NewRedisCache(client *redis.Client, cfg *config.CacheConfig) Cache {
	return &redisCache{client: client, defaultTTL: cfg.DefaultTTL}
}

func namespaced(key string) string {
	return Namespace + ":" + key
}

// Get drops entries it cannot decode so the next read repopulates them.
func (r *redisCache) Get(ctx context.Context, key string, value any) (bool, error) {

	fullKey := namespaced(key)

	data, err := r.client.Get(ctx, fullKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}

	if err != nil {
		return false, fmt.Errorf("cache get %s: %w", fullKey, err)
	}

	if err := json.Unmarshal(data, value); err != nil {
		if delErr := r.client.Del(ctx, fullKey).Err(); delErr != nil {
			slog.Warn("Failed to evict undecodable cache entry", slog.String("key", fullKey), slog.Any("error", delErr))
		}

		return false, fmt.Errorf("cache decode %s: %w", fullKey, err)
	}

	return true, nil
}

// Set falls back to the configured TTL when ttl is not positive.
func (r *redisCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {

	fullKey := namespaced(key)

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", fullKey, err)
	}

	if ttl <= 0 {
		ttl = r.defaultTTL
	}

	if err := r.client.Set(ctx, fullKey, data, ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", fullKey, err)
	}

	return nil
}

func (r *redisCache) Delete(ctx context.Context, key string) error {

	fullKey := namespaced(key)

	if err := r.client.Del(ctx, fullKey).Err(); err != nil {
		return fmt.Errorf("cache delete %s: %w", fullKey, err)
	}

	return nil
}

// Close is a no-op, main owns the client.
func (r *redisCache) Close() error {
	return nil
}
