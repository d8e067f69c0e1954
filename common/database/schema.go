package database

import (
	"context"
	"database/sql"
	"fmt"
)

// Schema is the DDL the API expects. Applied by EnsureSchema on startup.
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		user_id       UUID PRIMARY KEY,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		business_name TEXT NOT NULL,
		niche         TEXT NOT NULL,
		website       TEXT NOT NULL DEFAULT '',
		language      TEXT NOT NULL DEFAULT 'en',
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS profile_configs (
		user_id    UUID PRIMARY KEY REFERENCES users(user_id) ON DELETE CASCADE,
		config     JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS profile_configs_slug_uniq
		ON profile_configs ((lower(config->'landingPage'->>'slug')))
		WHERE coalesce(config->'landingPage'->>'slug', '') <> ''`,
	`CREATE TABLE IF NOT EXISTS pages (
		user_id    UUID PRIMARY KEY REFERENCES users(user_id) ON DELETE CASCADE,
		document   JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS clients (
		client_id         UUID PRIMARY KEY,
		user_id           UUID NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
		name              TEXT NOT NULL,
		email             TEXT NOT NULL DEFAULT '',
		phone             TEXT NOT NULL DEFAULT '',
		notes             TEXT NOT NULL DEFAULT '',
		status            TEXT NOT NULL DEFAULT 'lead',
		last_contact_at   TIMESTAMPTZ,
		next_follow_up_at TIMESTAMPTZ,
		created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at        TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS tasks (
		task_id        UUID PRIMARY KEY,
		user_id        UUID NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
		client_id      UUID REFERENCES clients(client_id) ON DELETE SET NULL,
		title          TEXT NOT NULL,
		description    TEXT NOT NULL DEFAULT '',
		status         TEXT NOT NULL DEFAULT 'todo',
		priority       TEXT NOT NULL DEFAULT 'medium',
		due_date       TIMESTAMPTZ,
		assignee_name  TEXT NOT NULL DEFAULT '',
		assignee_email TEXT NOT NULL DEFAULT '',
		created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}

// EnsureSchema runs every statement in Schema.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for i, stmt := range Schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i, err)
		}
	}
	return nil
}
