package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pagecraft/internal/domain"
	"pagecraft/internal/repository"
	"pagecraft/internal/store"
)

type publishFixture struct {
	profiles ProfileService
	publish  PublishService
	pages    *repository.MemoryPagesRepo
	users    *repository.MemoryUsersRepo
	kv       *fakeKV
}

func newPublishFixture() *publishFixture {
	configs := repository.NewMemoryProfileConfigsRepo()
	users := repository.NewMemoryUsersRepo()
	pages := repository.NewMemoryPagesRepo()
	kv := newFakeKV()
	cache := NewPublishedCache(kv, time.Minute, zap.NewNop())
	return &publishFixture{
		profiles: NewProfileService(configs, cache, nil, nil, zap.NewNop()),
		publish:  NewPublishService(configs, users, pages, cache, zap.NewNop()),
		pages:    pages,
		users:    users,
		kv:       kv,
	}
}

func TestPublishService_ResolvePublished(t *testing.T) {
	f := newPublishFixture()
	ctx := context.Background()
	_, err := f.profiles.Publish(ctx, "u-1", domain.LanguageEN, "dana")
	require.NoError(t, err)

	view, err := f.publish.Resolve(ctx, " /DANA/ ")
	require.NoError(t, err)
	assert.Equal(t, "dana", view.Slug)
	assert.Equal(t, domain.AllSections, view.Sections)
	assert.Empty(t, view.Components)
	assert.True(t, f.kv.has(store.PublishedKey("dana")))
}

func TestPublishService_NotServable(t *testing.T) {
	f := newPublishFixture()
	ctx := context.Background()

	_, err := f.publish.Resolve(ctx, "   ")
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	_, err = f.publish.Resolve(ctx, "nobody")
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	_, err = f.profiles.Publish(ctx, "u-1", domain.LanguageEN, "dana")
	require.NoError(t, err)
	_, err = f.profiles.Unpublish(ctx, "u-1", domain.LanguageEN)
	require.NoError(t, err)

	_, err = f.publish.Resolve(ctx, "dana")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.False(t, f.kv.has(store.PublishedKey("dana")))
}

func TestPublishService_SectionsResolvedPerRender(t *testing.T) {
	f := newPublishFixture()
	ctx := context.Background()
	_, err := f.profiles.Publish(ctx, "u-1", domain.LanguageEN, "dana")
	require.NoError(t, err)
	_, err = f.publish.Resolve(ctx, "dana")
	require.NoError(t, err)

	// the write drops the cache entry, the next read sees the change
	_, err = f.profiles.SetSectionVisibility(ctx, "u-1", domain.LanguageEN, domain.SectionLounge, false)
	require.NoError(t, err)
	assert.False(t, f.kv.has(store.PublishedKey("dana")))

	view, err := f.publish.Resolve(ctx, "dana")
	require.NoError(t, err)
	assert.Equal(t, []domain.SectionID{domain.SectionAbout, domain.SectionServices}, view.Sections)
}

func TestPublishService_UsesOwnerLanguageForDefaults(t *testing.T) {
	f := newPublishFixture()
	ctx := context.Background()
	u := &domain.User{Email: "he@example.com", Language: domain.LanguageHE}
	id, err := f.users.CreateUser(ctx, u)
	require.NoError(t, err)
	_, err = f.profiles.Publish(ctx, id, domain.LanguageHE, "shira")
	require.NoError(t, err)

	view, err := f.publish.Resolve(ctx, "shira")
	require.NoError(t, err)
	assert.Equal(t, domain.InitialConfig(domain.LanguageHE).Name, view.Config.Name)
}

func TestPublishService_IncludesVisibleComponents(t *testing.T) {
	f := newPublishFixture()
	ctx := context.Background()
	_, err := f.profiles.Publish(ctx, "u-1", domain.LanguageEN, "dana")
	require.NoError(t, err)

	hero, err := domain.NewComponent(domain.ComponentHero, 0)
	require.NoError(t, err)
	hidden, err := domain.NewComponent(domain.ComponentText, 1)
	require.NoError(t, err)
	hidden.IsVisible = false
	require.NoError(t, f.pages.UpsertPage(ctx, "u-1", domain.PageDocument{Components: []domain.Component{hero, hidden}}))

	view, err := f.publish.Resolve(ctx, "dana")
	require.NoError(t, err)
	require.Len(t, view.Components, 1)
	assert.Equal(t, hero.ID, view.Components[0].ID)
}

func TestPublishService_ServesFromCache(t *testing.T) {
	f := newPublishFixture()
	ctx := context.Background()

	cfg := domain.InitialConfig(domain.LanguageEN)
	cfg.Name = "Cached"
	cfg.LandingPage = &domain.LandingPage{Slug: "cached", Published: true}
	f.publish.(*publishService).cache.put(ctx, "cached", publishedEntry{UserID: "u-9", Config: cfg})

	view, err := f.publish.Resolve(ctx, "cached")
	require.NoError(t, err)
	assert.Equal(t, "Cached", view.Config.Name)
}
