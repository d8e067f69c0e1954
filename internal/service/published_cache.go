package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"pagecraft/internal/domain"
	"pagecraft/internal/store"
)

// PublishedCache caches the merged config of published profiles by slug.
// A nil KV turns every call into a miss / no-op.
type PublishedCache struct {
	kv     store.KV
	ttl    time.Duration
	logger *zap.Logger
}

type publishedEntry struct {
	UserID string               `json:"userId"`
	Config domain.ProfileConfig `json:"config"`
}

func NewPublishedCache(kv store.KV, ttl time.Duration, logger *zap.Logger) *PublishedCache {
	return &PublishedCache{kv: kv, ttl: ttl, logger: logger}
}

func (c *PublishedCache) get(ctx context.Context, slug string) (*publishedEntry, bool) {
	if c == nil || c.kv == nil {
		return nil, false
	}
	raw, err := c.kv.Get(ctx, store.PublishedKey(slug))
	if err != nil {
		if !errors.Is(err, store.ErrMiss) {
			c.logger.Warn("Published cache read failed", zap.String("slug", slug), zap.Error(err))
		}
		return nil, false
	}
	var e publishedEntry
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		c.logger.Warn("Published cache entry corrupt", zap.String("slug", slug), zap.Error(err))
		return nil, false
	}
	return &e, true
}

func (c *PublishedCache) put(ctx context.Context, slug string, e publishedEntry) {
	if c == nil || c.kv == nil {
		return
	}
	raw, err := json.Marshal(e)
	if err == nil {
		err = c.kv.Set(ctx, store.PublishedKey(slug), string(raw), c.ttl)
	}
	if err != nil {
		c.logger.Warn("Published cache write failed", zap.String("slug", slug), zap.Error(err))
	}
}

// Invalidate drops the entries of the given slugs; blanks are skipped.
func (c *PublishedCache) Invalidate(ctx context.Context, slugs ...string) {
	if c == nil || c.kv == nil {
		return
	}
	keys := make([]string, 0, len(slugs))
	for _, s := range slugs {
		if s = domain.NormalizeSlug(s); s != "" {
			keys = append(keys, store.PublishedKey(s))
		}
	}
	if err := c.kv.Delete(ctx, keys...); err != nil {
		c.logger.Warn("Published cache invalidation failed", zap.Strings("keys", keys), zap.Error(err))
	}
}
