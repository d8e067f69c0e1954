package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"pagecraft/internal/domain"
)

// PostgresProfileConfigsRepository ProfileConfigsRepository backed by Postgres
type PostgresProfileConfigsRepository struct {
	db *sql.DB
}

func NewPostgresProfileConfigsRepository(db *sql.DB) *PostgresProfileConfigsRepository {
	return &PostgresProfileConfigsRepository{db: db}
}

var _ ProfileConfigsRepository = (*PostgresProfileConfigsRepository)(nil)

func (r *PostgresProfileConfigsRepository) GetConfig(ctx context.Context, userID string) (json.RawMessage, error) {
	if userID == "" {
		return nil, fmt.Errorf("user_id is required")
	}
	var doc []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT config FROM profile_configs WHERE user_id = $1`, userID,
	).Scan(&doc)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("profile config not found: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get profile config: %w", err)
	}
	return json.RawMessage(doc), nil
}

// UpsertConfig last writer wins; there is no version column. A slug held
// by another user trips profile_configs_slug_uniq and maps to ErrSlugTaken.
func (r *PostgresProfileConfigsRepository) UpsertConfig(ctx context.Context, userID string, doc json.RawMessage) error {
	if userID == "" {
		return fmt.Errorf("user_id is required")
	}
	query := `
		INSERT INTO profile_configs (user_id, config, updated_at)
		VALUES ($1, $2::jsonb, now())
		ON CONFLICT (user_id) DO UPDATE
		SET config = EXCLUDED.config, updated_at = now()
	`
	if _, err := r.db.ExecContext(ctx, query, userID, string(doc)); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("landing page slug: %w", domain.ErrSlugTaken)
		}
		return fmt.Errorf("failed to upsert profile config: %w", err)
	}
	return nil
}

// FindBySlug prefers the published document when rows written before the
// unique index still share a slug.
func (r *PostgresProfileConfigsRepository) FindBySlug(ctx context.Context, slug string) (string, json.RawMessage, error) {
	if slug == "" {
		return "", nil, fmt.Errorf("profile config not found: %w", domain.ErrNotFound)
	}
	query := `
		SELECT user_id::text, config
		FROM profile_configs
		WHERE lower(config->'landingPage'->>'slug') = $1
		ORDER BY (config->'landingPage'->>'published')::boolean IS TRUE DESC, updated_at DESC
		LIMIT 1
	`
	var userID string
	var doc []byte
	err := r.db.QueryRowContext(ctx, query, slug).Scan(&userID, &doc)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", nil, fmt.Errorf("profile config not found: %w", domain.ErrNotFound)
		}
		return "", nil, fmt.Errorf("failed to find profile by slug: %w", err)
	}
	return userID, json.RawMessage(doc), nil
}
