// Package cache holds read-through catalog data. Carts, orders and stock are never cached.
package cache

import (
	"context"
	"time"
)

// Cache stores JSON encoded values. Get reports false on a miss.
type Cache interface {
	Get(ctx context.Context, key string, value any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

const (
	// Namespace is prepended to every key written by the redis cache.
	Namespace = "storefront"

	CategoryKeyPrefix = "category"
	// CategoryListKey holds the full category listing.
	CategoryListKey = "categories:all"
)

func Key(prefix string, id string) string {
	return prefix + ":" + id
}
