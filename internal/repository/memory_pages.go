package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"pagecraft/internal/domain"
)

// MemoryPagesRepo stores pages as encoded JSON so callers never share
// component slices with the store.
type MemoryPagesRepo struct {
	mu    sync.RWMutex
	pages map[string][]byte
}

func NewMemoryPagesRepo() *MemoryPagesRepo {
	return &MemoryPagesRepo{pages: map[string][]byte{}}
}

var _ PagesRepository = (*MemoryPagesRepo)(nil)

func (r *MemoryPagesRepo) GetPage(_ context.Context, userID string) (*domain.PageDocument, error) {
	r.mu.RLock()
	raw, ok := r.pages[userID]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("page not found: %w", domain.ErrNotFound)
	}
	var doc domain.PageDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode page: %w", err)
	}
	return &doc, nil
}

func (r *MemoryPagesRepo) UpsertPage(_ context.Context, userID string, doc domain.PageDocument) error {
	if userID == "" {
		return fmt.Errorf("user_id is required")
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode page: %w", err)
	}
	r.mu.Lock()
	r.pages[userID] = raw
	r.mu.Unlock()
	return nil
}
