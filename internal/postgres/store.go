package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Connect opens and pings a Postgres connection pool.
func Connect(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return db, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS companies (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	is_enabled BOOLEAN NOT NULL DEFAULT TRUE,
	embedded   JSONB NOT NULL DEFAULT '{}'::jsonb
);

CREATE TABLE IF NOT EXISTS users (
	id         TEXT PRIMARY KEY,
	first_name TEXT NOT NULL DEFAULT '',
	last_name  TEXT NOT NULL DEFAULT '',
	email      TEXT NOT NULL UNIQUE,
	company_id TEXT REFERENCES companies (id) ON DELETE SET NULL,
	token      TEXT NOT NULL DEFAULT '',
	is_enabled BOOLEAN NOT NULL DEFAULT TRUE
);

CREATE INDEX IF NOT EXISTS users_token_idx ON users (token);

CREATE TABLE IF NOT EXISTS products (
	id            TEXT PRIMARY KEY,
	name          TEXT NOT NULL,
	sd_product_id TEXT NOT NULL DEFAULT '',
	product_type  TEXT NOT NULL DEFAULT 'wire',
	is_enabled    BOOLEAN NOT NULL DEFAULT TRUE,
	companies     TEXT[] NOT NULL DEFAULT '{}'
);

CREATE TABLE IF NOT EXISTS history (
	id             TEXT PRIMARY KEY,
	action         TEXT NOT NULL,
	user_id        TEXT NOT NULL,
	company_id     TEXT NOT NULL DEFAULT '',
	item_id        TEXT NOT NULL,
	version        INTEGER NOT NULL DEFAULT 0,
	section        TEXT NOT NULL DEFAULT '',
	versioncreated TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS history_item_idx ON history (item_id);
`

// Migrate creates the relational tables when they do not exist yet.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
