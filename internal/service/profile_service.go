package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"pagecraft/internal/domain"
	"pagecraft/internal/repository"
)

// ProfileService loads, edits and persists the single-page profile.
// Every write replaces the whole document (last writer wins).
type ProfileService interface {
	Load(ctx context.Context, userID string, lang domain.Language) (*domain.ProfileConfig, error)
	Save(ctx context.Context, userID string, cfg domain.ProfileConfig) (*domain.ProfileConfig, error)

	ApplyTemplate(ctx context.Context, userID string, lang domain.Language, key string) (*domain.ProfileConfig, error)
	SetField(ctx context.Context, userID string, lang domain.Language, key string, value json.RawMessage) (*domain.ProfileConfig, error)
	SetStyle(ctx context.Context, userID string, lang domain.Language, key, value string) (*domain.ProfileConfig, error)
	SetSectionVisibility(ctx context.Context, userID string, lang domain.Language, id domain.SectionID, visible bool) (*domain.ProfileConfig, error)
	SetSectionsOrder(ctx context.Context, userID string, lang domain.Language, order []domain.SectionID) (*domain.ProfileConfig, error)

	Publish(ctx context.Context, userID string, lang domain.Language, slug string) (*domain.ProfileConfig, error)
	Unpublish(ctx context.Context, userID string, lang domain.Language) (*domain.ProfileConfig, error)

	// Status is the persistence indicator of the user's editing session.
	Status(userID string) StatusSnapshot
}

type profileService struct {
	configs  repository.ProfileConfigsRepository
	cache    *PublishedCache
	notifier ChangeNotifier
	status   *StatusBoard
	now      func() time.Time
	logger   *zap.Logger

	locks sync.Map // userID -> *sync.Mutex
}

func NewProfileService(
	configs repository.ProfileConfigsRepository,
	cache *PublishedCache,
	notifier ChangeNotifier,
	status *StatusBoard,
	logger *zap.Logger,
) ProfileService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	if status == nil {
		status = NewStatusBoard(0)
	}
	return &profileService{
		configs:  configs,
		cache:    cache,
		notifier: notifier,
		status:   status,
		now:      func() time.Time { return time.Now().UTC() },
		logger:   logger,
	}
}

// lock serializes read-modify-write cycles of one user's document.
func (s *profileService) lock(userID string) func() {
	m, _ := s.locks.LoadOrStore(userID, &sync.Mutex{})
	mu := m.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func (s *profileService) Status(userID string) StatusSnapshot {
	return s.status.For(userID).Snapshot()
}

// Load returns the stored document merged over fresh defaults, or the
// defaults when the user never saved.
func (s *profileService) Load(ctx context.Context, userID string, lang domain.Language) (*domain.ProfileConfig, error) {
	tr := s.status.For(userID)
	tr.BeginLoad()
	cfg, err := s.load(ctx, userID, lang)
	tr.EndLoad(err)
	return cfg, err
}

func (s *profileService) load(ctx context.Context, userID string, lang domain.Language) (*domain.ProfileConfig, error) {
	defaults := domain.InitialConfig(lang)
	raw, err := s.configs.GetConfig(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return &defaults, nil
		}
		s.logger.Warn("Failed to load profile", zap.String("user_id", userID), zap.Error(err))
		return nil, backendErr("load profile", err)
	}
	stored, err := domain.ParseStoredProfile(raw)
	if err != nil {
		s.logger.Warn("Stored profile is not valid JSON", zap.String("user_id", userID), zap.Error(err))
		return nil, backendErr("load profile", err)
	}
	merged := domain.MergeStored(defaults, stored)
	return &merged, nil
}

func (s *profileService) Save(ctx context.Context, userID string, cfg domain.ProfileConfig) (*domain.ProfileConfig, error) {
	defer s.lock(userID)()
	return s.save(ctx, userID, cfg, ChangeProfileSaved)
}

func (s *profileService) save(ctx context.Context, userID string, cfg domain.ProfileConfig, kind string) (*domain.ProfileConfig, error) {
	tr := s.status.For(userID)
	tr.BeginSave()
	out, err := s.persist(ctx, userID, cfg)
	tr.EndSave(err)
	if err != nil {
		return nil, err
	}
	s.notifier.Notify(ctx, ChangeEvent{UserID: userID, Kind: kind})
	return out, nil
}

func (s *profileService) persist(ctx context.Context, userID string, cfg domain.ProfileConfig) (*domain.ProfileConfig, error) {
	cfg, err := domain.ValidateLayout(cfg)
	if err != nil {
		return nil, err
	}
	prevSlug := s.storedSlug(ctx, userID)

	if lp := cfg.LandingPage; lp != nil {
		if lp.Published {
			if lp.Slug, err = domain.ValidateSlug(lp.Slug); err != nil {
				return nil, err
			}
		} else {
			lp.Slug = domain.NormalizeSlug(lp.Slug)
		}
		// an unpublished slug is still a reservation
		if lp.Slug != "" {
			if err := s.ensureSlugFree(ctx, userID, lp.Slug); err != nil {
				return nil, err
			}
		}
		now := s.now()
		lp.LastUpdatedAt = &now
	}

	raw, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encode profile: %w", err)
	}
	if err := s.configs.UpsertConfig(ctx, userID, raw); err != nil {
		if errors.Is(err, domain.ErrSlugTaken) {
			return nil, err
		}
		s.logger.Warn("Failed to save profile", zap.String("user_id", userID), zap.Error(err))
		return nil, backendErr("save profile", err)
	}

	newSlug := ""
	if cfg.LandingPage != nil {
		newSlug = cfg.LandingPage.Slug
	}
	s.cache.Invalidate(ctx, prevSlug, newSlug)
	return &cfg, nil
}

// storedSlug is best-effort; it only feeds cache invalidation.
func (s *profileService) storedSlug(ctx context.Context, userID string) string {
	raw, err := s.configs.GetConfig(ctx, userID)
	if err != nil {
		return ""
	}
	stored, err := domain.ParseStoredProfile(raw)
	if err != nil || stored.LandingPage == nil {
		return ""
	}
	return stored.LandingPage.Slug
}

func (s *profileService) ensureSlugFree(ctx context.Context, userID, slug string) error {
	owner, _, err := s.configs.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return backendErr("check slug", err)
	}
	if owner != userID {
		return fmt.Errorf("%w: %s", domain.ErrSlugTaken, slug)
	}
	return nil
}

// mutate is load, apply, save under the user's lock.
func (s *profileService) mutate(ctx context.Context, userID string, lang domain.Language, kind string,
	fn func(domain.ProfileConfig) (domain.ProfileConfig, error)) (*domain.ProfileConfig, error) {
	defer s.lock(userID)()
	cfg, err := s.Load(ctx, userID, lang)
	if err != nil {
		return nil, err
	}
	next, err := fn(*cfg)
	if err != nil {
		return nil, err
	}
	return s.save(ctx, userID, next, kind)
}

func (s *profileService) ApplyTemplate(ctx context.Context, userID string, lang domain.Language, key string) (*domain.ProfileConfig, error) {
	return s.mutate(ctx, userID, lang, ChangeProfileSaved, func(cfg domain.ProfileConfig) (domain.ProfileConfig, error) {
		out, ok := domain.ApplyTemplate(cfg, key, lang)
		if !ok {
			return cfg, fmt.Errorf("%w: %q", domain.ErrUnknownTemplate, key)
		}
		return out, nil
	})
}

func (s *profileService) SetField(ctx context.Context, userID string, lang domain.Language, key string, value json.RawMessage) (*domain.ProfileConfig, error) {
	return s.mutate(ctx, userID, lang, ChangeProfileSaved, func(cfg domain.ProfileConfig) (domain.ProfileConfig, error) {
		return domain.SetField(cfg, key, value)
	})
}

func (s *profileService) SetStyle(ctx context.Context, userID string, lang domain.Language, key, value string) (*domain.ProfileConfig, error) {
	return s.mutate(ctx, userID, lang, ChangeProfileSaved, func(cfg domain.ProfileConfig) (domain.ProfileConfig, error) {
		return domain.SetStyle(cfg, key, value)
	})
}

func (s *profileService) SetSectionVisibility(ctx context.Context, userID string, lang domain.Language, id domain.SectionID, visible bool) (*domain.ProfileConfig, error) {
	return s.mutate(ctx, userID, lang, ChangeProfileSaved, func(cfg domain.ProfileConfig) (domain.ProfileConfig, error) {
		return domain.SetSectionVisibility(cfg, id, visible)
	})
}

func (s *profileService) SetSectionsOrder(ctx context.Context, userID string, lang domain.Language, order []domain.SectionID) (*domain.ProfileConfig, error) {
	return s.mutate(ctx, userID, lang, ChangeProfileSaved, func(cfg domain.ProfileConfig) (domain.ProfileConfig, error) {
		return domain.SetSectionsOrder(cfg, order)
	})
}

// Publish validates and claims slug, then marks the page published.
func (s *profileService) Publish(ctx context.Context, userID string, lang domain.Language, slug string) (*domain.ProfileConfig, error) {
	clean, err := domain.ValidateSlug(slug)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, userID, lang, ChangeProfilePublished, func(cfg domain.ProfileConfig) (domain.ProfileConfig, error) {
		lp := domain.LandingPage{}
		if cfg.LandingPage != nil {
			lp = *cfg.LandingPage
		}
		if !lp.Published || lp.PublishedAt == nil || lp.Slug != clean {
			now := s.now()
			lp.PublishedAt = &now
		}
		lp.Slug = clean
		lp.Published = true
		cfg.LandingPage = &lp
		return cfg, nil
	})
}

// Unpublish keeps the slug reserved but stops serving it.
func (s *profileService) Unpublish(ctx context.Context, userID string, lang domain.Language) (*domain.ProfileConfig, error) {
	defer s.lock(userID)()
	cfg, err := s.Load(ctx, userID, lang)
	if err != nil {
		return nil, err
	}
	if cfg.LandingPage == nil || !cfg.LandingPage.Published {
		return cfg, nil
	}
	next := cfg.Clone()
	next.LandingPage.Published = false
	return s.save(ctx, userID, next, ChangeProfileUnpublished)
}
