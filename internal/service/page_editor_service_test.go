package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pagecraft/internal/domain"
	"pagecraft/internal/repository"
	"pagecraft/internal/store"
)

func newEditorFixture() (PageEditorService, *failingPages, *fakeKV, *recordingNotifier) {
	pages := &failingPages{MemoryPagesRepo: repository.NewMemoryPagesRepo()}
	kv := newFakeKV()
	n := &recordingNotifier{}
	return NewPageEditorService(pages, kv, n, zap.NewNop()), pages, kv, n
}

func TestPageEditorService_EmptyState(t *testing.T) {
	svc, _, _, _ := newEditorFixture()
	st, err := svc.State(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Empty(t, st.Components)
	assert.False(t, st.HasUnsavedChanges)
	assert.Nil(t, st.SelectedComponentID)
}

func TestPageEditorService_DraftSurvivesBetweenCalls(t *testing.T) {
	svc, _, kv, _ := newEditorFixture()
	ctx := context.Background()

	res, err := svc.Insert(ctx, "u-1", domain.ComponentHero)
	require.NoError(t, err)
	require.NotNil(t, res.Component)
	assert.True(t, res.Changed)
	assert.True(t, kv.has(store.PageDraftKey("u-1")))

	_, err = svc.Insert(ctx, "u-1", domain.ComponentText)
	require.NoError(t, err)

	st, err := svc.State(ctx, "u-1")
	require.NoError(t, err)
	require.Len(t, st.Components, 2)
	assert.Equal(t, domain.ComponentHero, st.Components[0].Type)
	assert.Equal(t, 1, st.Components[1].Order)
	assert.True(t, st.HasUnsavedChanges)
}

func TestPageEditorService_InsertUnknownType(t *testing.T) {
	svc, _, _, _ := newEditorFixture()
	_, err := svc.Insert(context.Background(), "u-1", "carousel")
	assert.True(t, errors.Is(err, domain.ErrUnknownComponentType))
}

func TestPageEditorService_ReorderAndDelete(t *testing.T) {
	svc, _, _, _ := newEditorFixture()
	ctx := context.Background()
	a, _ := svc.Insert(ctx, "u-1", domain.ComponentHero)
	b, _ := svc.Insert(ctx, "u-1", domain.ComponentAbout)
	c, _ := svc.Insert(ctx, "u-1", domain.ComponentContact)

	res, err := svc.Reorder(ctx, "u-1", c.Component.ID, a.Component.ID)
	require.NoError(t, err)
	assert.True(t, res.Changed)
	ids := []string{}
	for _, comp := range res.State.Components {
		ids = append(ids, comp.ID)
	}
	assert.Equal(t, []string{c.Component.ID, a.Component.ID, b.Component.ID}, ids)

	res, err = svc.Reorder(ctx, "u-1", b.Component.ID, b.Component.ID)
	require.NoError(t, err)
	assert.False(t, res.Changed)

	_, err = svc.Select(ctx, "u-1", a.Component.ID)
	require.NoError(t, err)
	res, err = svc.Delete(ctx, "u-1", a.Component.ID)
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Nil(t, res.State.SelectedComponentID)
	require.Len(t, res.State.Components, 2)
	assert.Equal(t, 0, res.State.Components[0].Order)
	assert.Equal(t, 1, res.State.Components[1].Order)

	res, err = svc.Delete(ctx, "u-1", "missing")
	require.NoError(t, err)
	assert.False(t, res.Changed)
}

func TestPageEditorService_Update(t *testing.T) {
	svc, _, _, _ := newEditorFixture()
	ctx := context.Background()
	ins, err := svc.Insert(ctx, "u-1", domain.ComponentText)
	require.NoError(t, err)

	res, err := svc.Update(ctx, "u-1", ins.Component.ID, json.RawMessage(`{"content":{"body":"Hello","alignment":"center"}}`))
	require.NoError(t, err)
	require.NotNil(t, res.Component)
	assert.Equal(t, domain.TextContent{Body: "Hello", Alignment: "center"}, res.Component.Content)

	_, err = svc.Update(ctx, "u-1", ins.Component.ID, json.RawMessage(`{"content":{"body":1}}`))
	assert.Error(t, err)

	res, err = svc.Update(ctx, "u-1", "missing", json.RawMessage(`{"isVisible":false}`))
	require.NoError(t, err)
	assert.False(t, res.Changed)
}

func TestPageEditorService_FailedSaveKeepsUnsavedFlag(t *testing.T) {
	svc, pages, _, n := newEditorFixture()
	ctx := context.Background()
	_, err := svc.Insert(ctx, "u-1", domain.ComponentHero)
	require.NoError(t, err)

	pages.failUpsert = true
	_, err = svc.Save(ctx, "u-1")
	var be *BackendError
	require.True(t, errors.As(err, &be))

	st, err := svc.State(ctx, "u-1")
	require.NoError(t, err)
	assert.True(t, st.HasUnsavedChanges)
	assert.Empty(t, n.kinds())

	pages.failUpsert = false
	st, err = svc.Save(ctx, "u-1")
	require.NoError(t, err)
	assert.False(t, st.HasUnsavedChanges)
	assert.Equal(t, []string{ChangePageSaved}, n.kinds())

	doc, err := pages.GetPage(ctx, "u-1")
	require.NoError(t, err)
	assert.Len(t, doc.Components, 1)
}

func TestPageEditorService_DiscardRestoresSavedPage(t *testing.T) {
	svc, _, kv, _ := newEditorFixture()
	ctx := context.Background()
	_, err := svc.Insert(ctx, "u-1", domain.ComponentHero)
	require.NoError(t, err)
	_, err = svc.Save(ctx, "u-1")
	require.NoError(t, err)
	_, err = svc.Insert(ctx, "u-1", domain.ComponentSpacer)
	require.NoError(t, err)

	st, err := svc.Discard(ctx, "u-1")
	require.NoError(t, err)
	assert.Len(t, st.Components, 1)
	assert.False(t, st.HasUnsavedChanges)
	assert.False(t, kv.has(store.PageDraftKey("u-1")))
}

func TestPageEditorService_CorruptDraftFallsBackToSavedPage(t *testing.T) {
	svc, pages, kv, _ := newEditorFixture()
	ctx := context.Background()
	hero, err := domain.NewComponent(domain.ComponentHero, 0)
	require.NoError(t, err)
	require.NoError(t, pages.UpsertPage(ctx, "u-1", domain.PageDocument{Components: []domain.Component{hero}}))
	require.NoError(t, kv.Set(ctx, store.PageDraftKey("u-1"), "{not json", 0))

	st, err := svc.State(ctx, "u-1")
	require.NoError(t, err)
	require.Len(t, st.Components, 1)
	assert.Equal(t, hero.ID, st.Components[0].ID)
}

func TestPageEditorService_PreviewAndSettings(t *testing.T) {
	svc, _, _, _ := newEditorFixture()
	ctx := context.Background()

	res, err := svc.TogglePreview(ctx, "u-1")
	require.NoError(t, err)
	assert.True(t, res.State.PreviewMode)
	assert.False(t, res.State.HasUnsavedChanges)

	res, err = svc.UpdateSettings(ctx, "u-1", domain.PageSettings{Title: "My page"})
	require.NoError(t, err)
	assert.Equal(t, "My page", res.State.Settings.Title)
	assert.True(t, res.State.HasUnsavedChanges)
}
