package repository

import (
	"context"
	"encoding/json"
)

// ProfileConfigsRepository stores the profile document as one jsonb value
// per user (table profile_configs). Writes replace the whole document.
type ProfileConfigsRepository interface {
	// GetConfig returns the stored document; domain.ErrNotFound when the
	// user never saved.
	GetConfig(ctx context.Context, userID string) (json.RawMessage, error)
	UpsertConfig(ctx context.Context, userID string, doc json.RawMessage) error
	// FindBySlug looks up the document whose landingPage.slug equals slug
	// (already normalized). Publication is not checked here.
	FindBySlug(ctx context.Context, slug string) (userID string, doc json.RawMessage, err error)
}
