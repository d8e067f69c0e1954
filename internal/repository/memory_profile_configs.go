package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"pagecraft/internal/domain"
)

// MemoryProfileConfigsRepo keeps raw documents in memory.
type MemoryProfileConfigsRepo struct {
	mu   sync.RWMutex
	docs map[string]json.RawMessage // userID -> document
}

func NewMemoryProfileConfigsRepo() *MemoryProfileConfigsRepo {
	return &MemoryProfileConfigsRepo{docs: map[string]json.RawMessage{}}
}

var _ ProfileConfigsRepository = (*MemoryProfileConfigsRepo)(nil)

func (r *MemoryProfileConfigsRepo) GetConfig(_ context.Context, userID string) (json.RawMessage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, ok := r.docs[userID]
	if !ok {
		return nil, fmt.Errorf("profile config not found: %w", domain.ErrNotFound)
	}
	return append(json.RawMessage(nil), doc...), nil
}

// UpsertConfig rejects a landing page slug held by another user, like the
// unique slug index does in Postgres.
func (r *MemoryProfileConfigsRepo) UpsertConfig(_ context.Context, userID string, doc json.RawMessage) error {
	if userID == "" {
		return fmt.Errorf("user_id is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if slug, _ := landingSlug(doc); slug != "" {
		for other, existing := range r.docs {
			if s, _ := landingSlug(existing); other != userID && s == slug {
				return fmt.Errorf("slug %q: %w", slug, domain.ErrSlugTaken)
			}
		}
	}
	r.docs[userID] = append(json.RawMessage(nil), doc...)
	return nil
}

// FindBySlug prefers a published document, then the lowest user id, so
// the answer does not depend on map order.
func (r *MemoryProfileConfigsRepo) FindBySlug(_ context.Context, slug string) (string, json.RawMessage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var (
		bestID        string
		bestPublished bool
	)
	for userID, doc := range r.docs {
		s, published := landingSlug(doc)
		if slug == "" || s != slug {
			continue
		}
		switch {
		case bestID == "",
			published && !bestPublished,
			published == bestPublished && userID < bestID:
			bestID, bestPublished = userID, published
		}
	}
	if bestID == "" {
		return "", nil, fmt.Errorf("profile config not found: %w", domain.ErrNotFound)
	}
	return bestID, append(json.RawMessage(nil), r.docs[bestID]...), nil
}

func landingSlug(doc json.RawMessage) (string, bool) {
	var head struct {
		LandingPage *struct {
			Slug      string `json:"slug"`
			Published bool   `json:"published"`
		} `json:"landingPage"`
	}
	if err := json.Unmarshal(doc, &head); err != nil || head.LandingPage == nil {
		return "", false
	}
	return strings.ToLower(strings.TrimSpace(head.LandingPage.Slug)), head.LandingPage.Published
}
