package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/XSAM/otelsql"
	"github.com/aaravmahajanofficial/storefront-api/internal/config"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
)

// NewDB opens a traced connection pool with the configured driver ("postgres" for lib/pq, "pgx" for pgx stdlib).
func NewDB(ctx context.Context, cfg *config.Database) (*sql.DB, error) {
	db, err := otelsql.Open(cfg.Driver, cfg.GetDSN(), otelsql.WithAttributes(semconv.DBSystemPostgreSQL))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// Test the connection to make sure DB is reachable
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	slog.Info("✅ Successfully connected to Postgres", slog.String("driver", cfg.Driver))

	return db, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id          UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	email       VARCHAR(255) NOT NULL UNIQUE,
	name        VARCHAR(255) NOT NULL DEFAULT '',
	is_admin    BOOLEAN NOT NULL DEFAULT FALSE,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS categories (
	id          BIGSERIAL PRIMARY KEY,
	name        VARCHAR(255) NOT NULL,
	slug        VARCHAR(255) NOT NULL UNIQUE,
	description TEXT NOT NULL DEFAULT '',
	image_url   TEXT NOT NULL DEFAULT '',
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS products (
	id               BIGSERIAL PRIMARY KEY,
	category_id      BIGINT NOT NULL REFERENCES categories(id) ON DELETE CASCADE,
	name             VARCHAR(255) NOT NULL,
	slug             VARCHAR(255) NOT NULL UNIQUE,
	description      TEXT NOT NULL DEFAULT '',
	weight           VARCHAR(50) NOT NULL DEFAULT '',
	price            NUMERIC(10, 2) NOT NULL CHECK (price >= 0),
	discounted_price NUMERIC(10, 2) CHECK (discounted_price >= 0),
	stock            INTEGER NOT NULL DEFAULT 0,
	is_active        BOOLEAN NOT NULL DEFAULT TRUE,
	image_url        TEXT NOT NULL DEFAULT '',
	created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_products_category_active ON products (category_id) WHERE is_active;

CREATE TABLE IF NOT EXISTS carts (
	id          UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	user_id     UUID NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS cart_items (
	id          BIGSERIAL PRIMARY KEY,
	cart_id     UUID NOT NULL REFERENCES carts(id) ON DELETE CASCADE,
	product_id  BIGINT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
	quantity    INTEGER NOT NULL CHECK (quantity >= 1),
	UNIQUE (cart_id, product_id)
);

CREATE TABLE IF NOT EXISTS orders (
	id          UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	user_id     UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	total_price NUMERIC(18, 2) NOT NULL,
	status      VARCHAR(20) NOT NULL DEFAULT 'pending'
	            CHECK (status IN ('pending', 'shipped', 'delivered', 'cancelled')),
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_orders_user_created ON orders (user_id, created_at DESC);

CREATE TABLE IF NOT EXISTS order_items (
	id           UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	order_id     UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
	product_id   BIGINT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
	product_name VARCHAR(255) NOT NULL,
	quantity     INTEGER NOT NULL CHECK (quantity >= 1),
	price        NUMERIC(10, 2) NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items (order_id);

CREATE TABLE IF NOT EXISTS wishlists (
	id          UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	user_id     UUID NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS wishlist_products (
	wishlist_id UUID NOT NULL REFERENCES wishlists(id) ON DELETE CASCADE,
	product_id  BIGINT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
	PRIMARY KEY (wishlist_id, product_id)
);
`

// InitSchema creates the tables when they do not exist yet.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	return nil
}
