package repository

import (
	"context"

	"pagecraft/internal/domain"
)

// PagesRepository persists the composed page of each user (table pages).
type PagesRepository interface {
	// GetPage returns domain.ErrNotFound when nothing was saved yet.
	GetPage(ctx context.Context, userID string) (*domain.PageDocument, error)
	UpsertPage(ctx context.Context, userID string, doc domain.PageDocument) error
}
