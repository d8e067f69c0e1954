package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pagecraft/internal/domain"
	"pagecraft/internal/repository"
	"pagecraft/internal/store"
)

type profileFixture struct {
	svc      ProfileService
	configs  *failingConfigs
	kv       *fakeKV
	notifier *recordingNotifier
}

func newProfileFixture() *profileFixture {
	configs := &failingConfigs{MemoryProfileConfigsRepo: repository.NewMemoryProfileConfigsRepo()}
	kv := newFakeKV()
	notifier := &recordingNotifier{}
	cache := NewPublishedCache(kv, time.Minute, zap.NewNop())
	svc := NewProfileService(configs, cache, notifier, NewStatusBoard(time.Hour), zap.NewNop())
	return &profileFixture{svc: svc, configs: configs, kv: kv, notifier: notifier}
}

func TestProfileService_LoadMissingReturnsDefaults(t *testing.T) {
	f := newProfileFixture()
	cfg, err := f.svc.Load(context.Background(), "u-1", domain.LanguageHE)
	require.NoError(t, err)
	assert.Equal(t, domain.InitialConfig(domain.LanguageHE), *cfg)
	assert.Equal(t, StatusIdle, f.svc.Status("u-1").Status)
}

func TestProfileService_LoadMergesOlderDocument(t *testing.T) {
	f := newProfileFixture()
	ctx := context.Background()
	require.NoError(t, f.configs.UpsertConfig(ctx, "u-1", json.RawMessage(`{"name":"Dana","styles":{"primaryColor":"#000000"}}`)))

	cfg, err := f.svc.Load(ctx, "u-1", domain.LanguageEN)
	require.NoError(t, err)
	defaults := domain.InitialConfig(domain.LanguageEN)
	assert.Equal(t, "Dana", cfg.Name)
	assert.Equal(t, "#000000", cfg.Styles.PrimaryColor)
	assert.Equal(t, defaults.Styles.FontTheme, cfg.Styles.FontTheme)
	assert.Equal(t, defaults.Lounge, cfg.Lounge)
}

func TestProfileService_LoadFailureSetsErrorStatus(t *testing.T) {
	f := newProfileFixture()
	f.configs.failGet = true

	_, err := f.svc.Load(context.Background(), "u-1", domain.LanguageEN)
	var be *BackendError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, "load profile", be.Op)
	assert.Equal(t, StatusError, f.svc.Status("u-1").Status)
}

func TestProfileService_SaveAndReload(t *testing.T) {
	f := newProfileFixture()
	ctx := context.Background()

	cfg := domain.InitialConfig(domain.LanguageEN)
	cfg.Name = "Dana"
	_, err := f.svc.Save(ctx, "u-1", cfg)
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, f.svc.Status("u-1").Status)
	assert.Equal(t, []string{ChangeProfileSaved}, f.notifier.kinds())

	got, err := f.svc.Load(ctx, "u-1", domain.LanguageEN)
	require.NoError(t, err)
	assert.Equal(t, cfg, *got)
}

func TestProfileService_SaveFailureKeepsStoredDocument(t *testing.T) {
	f := newProfileFixture()
	ctx := context.Background()
	first := domain.InitialConfig(domain.LanguageEN)
	first.Name = "First"
	_, err := f.svc.Save(ctx, "u-1", first)
	require.NoError(t, err)

	f.configs.failUpsert = true
	second := first.Clone()
	second.Name = "Second"
	_, err = f.svc.Save(ctx, "u-1", second)
	var be *BackendError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, StatusError, f.svc.Status("u-1").Status)

	f.configs.failUpsert = false
	got, err := f.svc.Load(ctx, "u-1", domain.LanguageEN)
	require.NoError(t, err)
	assert.Equal(t, "First", got.Name)
}

func TestProfileService_ApplyTemplate(t *testing.T) {
	f := newProfileFixture()
	ctx := context.Background()

	cfg, err := f.svc.ApplyTemplate(ctx, "u-1", domain.LanguageEN, "minimal")
	require.NoError(t, err)
	assert.Equal(t, "minimal", cfg.TemplateID)
	assert.False(t, cfg.SectionVisibility[domain.SectionLounge])

	_, err = f.svc.ApplyTemplate(ctx, "u-1", domain.LanguageEN, "neon")
	assert.True(t, errors.Is(err, domain.ErrUnknownTemplate))

	got, err := f.svc.Load(ctx, "u-1", domain.LanguageEN)
	require.NoError(t, err)
	assert.Equal(t, "minimal", got.TemplateID)
}

func TestProfileService_ScratchResetsToInitialConfig(t *testing.T) {
	f := newProfileFixture()
	ctx := context.Background()
	_, err := f.svc.Publish(ctx, "u-1", domain.LanguageHE, "dana")
	require.NoError(t, err)
	_, err = f.svc.SetField(ctx, "u-1", domain.LanguageHE, domain.FieldBio, json.RawMessage(`"custom"`))
	require.NoError(t, err)

	cfg, err := f.svc.ApplyTemplate(ctx, "u-1", domain.LanguageHE, domain.TemplateScratch)
	require.NoError(t, err)
	assert.Equal(t, domain.InitialConfig(domain.LanguageHE), *cfg)

	got, err := f.svc.Load(ctx, "u-1", domain.LanguageHE)
	require.NoError(t, err)
	assert.Equal(t, domain.InitialConfig(domain.LanguageHE), *got)

	// the reset released the slug
	_, err = f.svc.Publish(ctx, "u-2", domain.LanguageEN, "dana")
	assert.NoError(t, err)
}

func TestProfileService_PatchOperations(t *testing.T) {
	f := newProfileFixture()
	ctx := context.Background()

	cfg, err := f.svc.SetField(ctx, "u-1", domain.LanguageEN, domain.FieldBio, json.RawMessage(`"Hi there"`))
	require.NoError(t, err)
	assert.Equal(t, "Hi there", cfg.Bio)

	cfg, err = f.svc.SetStyle(ctx, "u-1", domain.LanguageEN, domain.StyleFontTheme, "elegant")
	require.NoError(t, err)
	assert.Equal(t, domain.FontThemes["elegant"].BodyFont, cfg.Styles.BodyFont)

	cfg, err = f.svc.SetSectionVisibility(ctx, "u-1", domain.LanguageEN, domain.SectionServices, false)
	require.NoError(t, err)
	assert.Contains(t, cfg.Sections, domain.SectionServices)
	assert.NotContains(t, domain.VisibleSections(*cfg), domain.SectionServices)

	cfg, err = f.svc.SetSectionsOrder(ctx, "u-1", domain.LanguageEN, []domain.SectionID{domain.SectionLounge, domain.SectionAbout})
	require.NoError(t, err)
	assert.Equal(t, []domain.SectionID{domain.SectionLounge, domain.SectionAbout}, cfg.Sections)

	_, err = f.svc.SetField(ctx, "u-1", domain.LanguageEN, "nope", json.RawMessage(`1`))
	assert.True(t, errors.Is(err, domain.ErrUnknownField))

	got, err := f.svc.Load(ctx, "u-1", domain.LanguageEN)
	require.NoError(t, err)
	assert.Equal(t, "Hi there", got.Bio)
	assert.Equal(t, "elegant", got.Styles.FontTheme)
}

func TestProfileService_PublishAndUnpublish(t *testing.T) {
	f := newProfileFixture()
	ctx := context.Background()

	cfg, err := f.svc.Publish(ctx, "u-1", domain.LanguageEN, "/Dana-Studio/")
	require.NoError(t, err)
	require.NotNil(t, cfg.LandingPage)
	assert.Equal(t, "dana-studio", cfg.LandingPage.Slug)
	assert.True(t, cfg.LandingPage.Published)
	assert.NotNil(t, cfg.LandingPage.PublishedAt)
	assert.NotNil(t, cfg.LandingPage.LastUpdatedAt)

	cfg, err = f.svc.Unpublish(ctx, "u-1", domain.LanguageEN)
	require.NoError(t, err)
	assert.False(t, cfg.LandingPage.Published)
	assert.Equal(t, "dana-studio", cfg.LandingPage.Slug)

	assert.Equal(t, []string{ChangeProfilePublished, ChangeProfileUnpublished}, f.notifier.kinds())
}

func TestProfileService_PublishRejectsBadOrTakenSlug(t *testing.T) {
	f := newProfileFixture()
	ctx := context.Background()

	_, err := f.svc.Publish(ctx, "u-1", domain.LanguageEN, "not a slug")
	assert.True(t, errors.Is(err, domain.ErrInvalidSlug))

	_, err = f.svc.Publish(ctx, "u-1", domain.LanguageEN, "dana")
	require.NoError(t, err)
	_, err = f.svc.Publish(ctx, "u-2", domain.LanguageEN, "DANA")
	assert.True(t, errors.Is(err, domain.ErrSlugTaken))

	// republishing your own slug is fine
	_, err = f.svc.Publish(ctx, "u-1", domain.LanguageEN, "dana")
	assert.NoError(t, err)
}

func TestProfileService_UnpublishedSlugCannotTakeOverPublishedPage(t *testing.T) {
	f := newProfileFixture()
	ctx := context.Background()
	_, err := f.svc.Publish(ctx, "u-1", domain.LanguageEN, "dana")
	require.NoError(t, err)

	_, err = f.svc.SetField(ctx, "u-2", domain.LanguageEN, domain.FieldLandingPage,
		json.RawMessage(`{"slug":"dana","published":false}`))
	assert.True(t, errors.Is(err, domain.ErrSlugTaken))

	cfg := domain.InitialConfig(domain.LanguageEN)
	cfg.LandingPage = &domain.LandingPage{Slug: " /Dana/ "}
	_, err = f.svc.Save(ctx, "u-2", cfg)
	assert.True(t, errors.Is(err, domain.ErrSlugTaken))

	for i := 0; i < 20; i++ {
		owner, _, err := f.configs.FindBySlug(ctx, "dana")
		require.NoError(t, err)
		assert.Equal(t, "u-1", owner)
	}
}

func TestProfileService_UnpublishedSlugStaysReserved(t *testing.T) {
	f := newProfileFixture()
	ctx := context.Background()
	_, err := f.svc.Publish(ctx, "u-1", domain.LanguageEN, "dana")
	require.NoError(t, err)
	_, err = f.svc.Unpublish(ctx, "u-1", domain.LanguageEN)
	require.NoError(t, err)

	_, err = f.svc.Publish(ctx, "u-2", domain.LanguageEN, "dana")
	assert.True(t, errors.Is(err, domain.ErrSlugTaken))
}

func TestProfileService_SaveValidatesSectionLayout(t *testing.T) {
	f := newProfileFixture()
	ctx := context.Background()

	cfg := domain.InitialConfig(domain.LanguageEN)
	cfg.Sections = []domain.SectionID{domain.SectionAbout, "blog"}
	_, err := f.svc.Save(ctx, "u-1", cfg)
	assert.True(t, errors.Is(err, domain.ErrUnknownSection))

	cfg = domain.InitialConfig(domain.LanguageEN)
	cfg.SectionVisibility["blog"] = true
	_, err = f.svc.Save(ctx, "u-1", cfg)
	assert.True(t, errors.Is(err, domain.ErrUnknownSection))

	_, err = f.configs.GetConfig(ctx, "u-1")
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	cfg = domain.InitialConfig(domain.LanguageEN)
	cfg.Sections = []domain.SectionID{domain.SectionLounge, domain.SectionLounge}
	out, err := f.svc.Save(ctx, "u-1", cfg)
	require.NoError(t, err)
	assert.Equal(t, []domain.SectionID{domain.SectionLounge}, out.Sections)
}

func TestProfileService_ConcurrentSettersKeepEveryChange(t *testing.T) {
	f := newProfileFixture()
	f.configs.readDelay = 5 * time.Millisecond
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 3)
	for _, op := range []func() error{
		func() error {
			_, err := f.svc.SetStyle(ctx, "u-1", domain.LanguageEN, domain.StylePrimaryColor, "#111111")
			return err
		},
		func() error {
			_, err := f.svc.SetSectionVisibility(ctx, "u-1", domain.LanguageEN, domain.SectionLounge, false)
			return err
		},
		func() error {
			_, err := f.svc.SetField(ctx, "u-1", domain.LanguageEN, domain.FieldBio, json.RawMessage(`"Concurrent"`))
			return err
		},
	} {
		wg.Add(1)
		go func(op func() error) {
			defer wg.Done()
			errs <- op()
		}(op)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	got, err := f.svc.Load(ctx, "u-1", domain.LanguageEN)
	require.NoError(t, err)
	assert.Equal(t, "#111111", got.Styles.PrimaryColor)
	assert.False(t, got.SectionVisibility[domain.SectionLounge])
	assert.Equal(t, "Concurrent", got.Bio)
}

func TestProfileService_SaveInvalidatesPublishedCache(t *testing.T) {
	f := newProfileFixture()
	ctx := context.Background()

	_, err := f.svc.Publish(ctx, "u-1", domain.LanguageEN, "old-slug")
	require.NoError(t, err)
	require.NoError(t, f.kv.Set(ctx, store.PublishedKey("old-slug"), "{}", 0))

	_, err = f.svc.Publish(ctx, "u-1", domain.LanguageEN, "new-slug")
	require.NoError(t, err)
	assert.False(t, f.kv.has(store.PublishedKey("old-slug")))
}
