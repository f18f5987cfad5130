// Package health reports whether the stores behind checkout are reachable.
package health

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/aaravmahajanofficial/storefront-api/internal/config"
	"github.com/hellofresh/health-go/v5"
	"github.com/hellofresh/health-go/v5/checks/postgres"
	"github.com/redis/go-redis/v9"
)

const (
	componentName    = "storefront-api"
	componentVersion = "1.0.0"
)

type Endpoints struct {
	DB          *sql.DB
	RedisClient *redis.Client
}

// NewHealthHandler wires a fresh-connection postgres probe plus probes through the
// application's own pool and redis client. Redis only backs the catalog cache and
// the checkout limiter, so its failure degrades instead of failing the report.
func NewHealthHandler(cfg *config.Config, endpoints *Endpoints) (*health.Health, error) {

	h, err := health.New(
		health.WithComponent(health.Component{Name: componentName, Version: componentVersion}),
		health.WithSystemInfo(),
		health.WithChecks(
			health.Config{
				Name:    "postgres",
				Timeout: 3 * time.Second,
				Check:   postgres.New(postgres.Config{DSN: cfg.Database.GetDSN()}),
			},
			health.Config{
				Name:    "postgres-pool",
				Timeout: 2 * time.Second,
				Check:   poolCheck(endpoints.DB),
			},
			health.Config{
				Name:      "redis",
				Timeout:   2 * time.Second,
				SkipOnErr: true,
				Check:     redisCheck(endpoints.RedisClient),
			},
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create health instance: %w", err)
	}

	return h, nil
}

// poolCheck pings through the application's own pool, so an exhausted pool
// shows up even when a fresh connection would succeed.
func poolCheck(db *sql.DB) health.CheckFunc {
	return func(ctx context.Context) error {
		if db == nil {
			return errors.New("database pool is not initialized")
		}

		if err := db.PingContext(ctx); err != nil {
			return fmt.Errorf("database pool ping failed: %w", err)
		}

		return nil
	}
}

func redisCheck(client *redis.Client) health.CheckFunc {
	return func(ctx context.Context) error {
		if client == nil {
			return errors.New("redis client is not initialized")
		}

		if err := client.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis ping failed: %w", err)
		}

		return nil
	}
}
