package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const schema = `
CREATE TABLE IF NOT EXISTS tickets (
	id          TEXT PRIMARY KEY,
	title       TEXT NOT NULL,
	description TEXT NOT NULL,
	branch      TEXT NOT NULL,
	status      TEXT NOT NULL,
	priority    TEXT NOT NULL,
	created_by  TEXT NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	comments    JSONB NOT NULL DEFAULT '[]',
	media       JSONB NOT NULL DEFAULT '[]'
);

CREATE TABLE IF NOT EXISTS accounts (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	role       TEXT NOT NULL,
	password   TEXT NOT NULL,
	branch     TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS branches (
	name_en TEXT PRIMARY KEY,
	name_ar TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS notifications (
	id        TEXT PRIMARY KEY,
	message   TEXT NOT NULL,
	type      TEXT NOT NULL,
	timestamp TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	read      BOOLEAN NOT NULL DEFAULT FALSE,
	ticket_id TEXT
);

CREATE INDEX IF NOT EXISTS idx_tickets_created_at ON tickets (created_at DESC);
CREATE INDEX IF NOT EXISTS idx_notifications_timestamp ON notifications (timestamp DESC);
`

// EnsureSchema creates the tables if they do not exist. This is an internal
// single-tenant tool, so bootstrap replaces migration tooling.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
