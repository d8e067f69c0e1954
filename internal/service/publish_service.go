package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"pagecraft/internal/domain"
	"pagecraft/internal/repository"
)

// PublishService resolves public slugs to renderable pages.
type PublishService interface {
	// Resolve returns domain.ErrNotFound for unknown, unpublished or
	// blank slugs.
	Resolve(ctx context.Context, slug string) (*domain.PublishedView, error)
}

type publishService struct {
	configs repository.ProfileConfigsRepository
	users   repository.UsersRepository
	pages   repository.PagesRepository
	cache   *PublishedCache
	logger  *zap.Logger
}

func NewPublishService(
	configs repository.ProfileConfigsRepository,
	users repository.UsersRepository,
	pages repository.PagesRepository,
	cache *PublishedCache,
	logger *zap.Logger,
) PublishService {
	return &publishService{configs: configs, users: users, pages: pages, cache: cache, logger: logger}
}

func (s *publishService) Resolve(ctx context.Context, rawSlug string) (*domain.PublishedView, error) {
	slug := domain.NormalizeSlug(rawSlug)
	if slug == "" {
		return nil, fmt.Errorf("published page %q: %w", rawSlug, domain.ErrNotFound)
	}

	entry, hit := s.cache.get(ctx, slug)
	if !hit {
		var err error
		entry, err = s.lookup(ctx, slug)
		if err != nil {
			return nil, err
		}
	}

	if !domain.IsServable(entry.Config, slug) {
		return nil, fmt.Errorf("published page %q: %w", slug, domain.ErrNotFound)
	}
	if !hit {
		s.cache.put(ctx, slug, *entry)
	}

	// sections are resolved per render, never cached
	view := domain.NewPublishedView(entry.Config)
	view.Components = s.publishedComponents(ctx, entry.UserID)
	return &view, nil
}

func (s *publishService) lookup(ctx context.Context, slug string) (*publishedEntry, error) {
	userID, raw, err := s.configs.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("published page %q: %w", slug, domain.ErrNotFound)
		}
		s.logger.Warn("Slug lookup failed", zap.String("slug", slug), zap.Error(err))
		return nil, backendErr("resolve slug", err)
	}
	stored, err := domain.ParseStoredProfile(raw)
	if err != nil {
		return nil, backendErr("resolve slug", err)
	}
	cfg := domain.MergeStored(domain.InitialConfig(s.ownerLanguage(ctx, userID)), stored)
	return &publishedEntry{UserID: userID, Config: cfg}, nil
}

func (s *publishService) ownerLanguage(ctx context.Context, userID string) domain.Language {
	if s.users == nil {
		return domain.LanguageEN
	}
	u, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return domain.LanguageEN
	}
	return u.Language
}

// publishedComponents returns the visible blocks of the owner's saved
// page; a missing or unreadable page renders without them.
func (s *publishService) publishedComponents(ctx context.Context, userID string) []domain.Component {
	if s.pages == nil {
		return nil
	}
	doc, err := s.pages.GetPage(ctx, userID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("Failed to load page for published view", zap.String("user_id", userID), zap.Error(err))
		}
		return nil
	}
	editor := domain.NewPageEditor()
	editor.LoadDocument(*doc)
	return editor.Visible(domain.RenderPublished)
}
