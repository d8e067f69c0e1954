package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"pagecraft/internal/domain"
)

// PostgresPagesRepository PagesRepository backed by Postgres
type PostgresPagesRepository struct {
	db *sql.DB
}

func NewPostgresPagesRepository(db *sql.DB) *PostgresPagesRepository {
	return &PostgresPagesRepository{db: db}
}

var _ PagesRepository = (*PostgresPagesRepository)(nil)

func (r *PostgresPagesRepository) GetPage(ctx context.Context, userID string) (*domain.PageDocument, error) {
	if userID == "" {
		return nil, fmt.Errorf("user_id is required")
	}
	var raw []byte
	err := r.db.QueryRowContext(ctx, `SELECT document FROM pages WHERE user_id = $1`, userID).Scan(&raw)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("page not found: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get page: %w", err)
	}
	var doc domain.PageDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode page: %w", err)
	}
	return &doc, nil
}

func (r *PostgresPagesRepository) UpsertPage(ctx context.Context, userID string, doc domain.PageDocument) error {
	if userID == "" {
		return fmt.Errorf("user_id is required")
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode page: %w", err)
	}
	query := `
		INSERT INTO pages (user_id, document, updated_at)
		VALUES ($1, $2::jsonb, now())
		ON CONFLICT (user_id) DO UPDATE
		SET document = EXCLUDED.document, updated_at = now()
	`
	if _, err := r.db.ExecContext(ctx, query, userID, string(raw)); err != nil {
		return fmt.Errorf("failed to upsert page: %w", err)
	}
	return nil
}
