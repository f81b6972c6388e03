// Package db opens the Postgres connection and prepares the catalog schema.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"product-catalog/internal/logger"
)

const schema = `
CREATE SCHEMA IF NOT EXISTS catalog;

CREATE TABLE IF NOT EXISTS catalog.products (
	id          BIGSERIAL PRIMARY KEY,
	name        TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	price       NUMERIC(12,2) NOT NULL DEFAULT 0 CHECK (price >= 0),
	stock       INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
	category    TEXT NOT NULL,
	status      TEXT NOT NULL DEFAULT 'active' CHECK (status IN ('active', 'inactive')),
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS products_category_idx ON catalog.products (category);
`

type demoProduct struct {
	name, description, price string
	stock                    int
	category, status         string
}

var demoProducts = []demoProduct{
	{"iPhone 15 Pro", "Latest flagship phone, A17 Pro chip, titanium design", "8999.00", 50, "electronics", "active"},
	{"MacBook Air M3", "Thin and light laptop, M3 chip, all-day battery", "9499.00", 25, "electronics", "active"},
	{"Cotton T-shirt", "100% cotton, breathable, several colours", "129.00", 200, "apparel", "active"},
	{"Organic tea gift box", "Selected high-mountain organic tea", "388.00", 0, "food", "inactive"},
	{"Smart desk lamp", "Adjustable brightness, flicker free, touch control", "299.00", 8, "home", "active"},
}

// Init opens the database, waits for it to answer and applies the schema.
func Init(ctx context.Context, dsn string) (*sql.DB, error) {
	sqlDB, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := Migrate(ctx, sqlDB); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return sqlDB, nil
}

// Migrate creates the catalog schema if it does not exist.
func Migrate(ctx context.Context, sqlDB *sql.DB) error {
	if _, err := sqlDB.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// SeedDemo inserts the demo products when the table is empty.
func SeedDemo(ctx context.Context, sqlDB *sql.DB) error {
	tx, err := sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed begin: %w", err)
	}
	defer tx.Rollback()

	var n int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM catalog.products").Scan(&n); err != nil {
		return fmt.Errorf("seed count: %w", err)
	}
	if n > 0 {
		logger.Debugf("seed skipped, %d products present", n)
		return nil
	}

	for _, p := range demoProducts {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO catalog.products (name, description, price, stock, category, status)
			VALUES ($1, $2, $3::numeric, $4, $5, $6)`,
			p.name, p.description, p.price, p.stock, p.category, p.status)
		if err != nil {
			return fmt.Errorf("seed insert %q: %w", p.name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}
	logger.Infof("seeded %d demo products", len(demoProducts))
	return nil
}
