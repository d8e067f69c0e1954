package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func orders(cs []Component) []int {
	out := make([]int, len(cs))
	for i, c := range cs {
		out[i] = c.Order
	}
	return out
}

func types(cs []Component) []ComponentType {
	out := make([]ComponentType, len(cs))
	for i, c := range cs {
		out[i] = c.Type
	}
	return out
}

func assertDense(t *testing.T, e *PageEditor) {
	t.Helper()
	sorted := e.Sorted()
	for i, c := range sorted {
		assert.Equal(t, i, c.Order)
	}
}

func TestPageEditor_InsertAppendsWithNextOrder(t *testing.T) {
	e := NewPageEditor()
	assert.False(t, e.HasUnsavedChanges())

	hero, err := e.Insert(ComponentHero)
	require.NoError(t, err)
	about, err := e.Insert(ComponentAbout)
	require.NoError(t, err)

	assert.Equal(t, 0, hero.Order)
	assert.Equal(t, 1, about.Order)
	assert.True(t, e.HasUnsavedChanges())
}

func TestPageEditor_ReorderAboutBeforeHero(t *testing.T) {
	e := NewPageEditor()
	hero, _ := e.Insert(ComponentHero)
	about, _ := e.Insert(ComponentAbout)

	require.True(t, e.Reorder(about.ID, hero.ID))

	sorted := e.Sorted()
	assert.Equal(t, []ComponentType{ComponentAbout, ComponentHero}, types(sorted))
	assert.Equal(t, []int{0, 1}, orders(sorted))
}

func TestPageEditor_ReorderMoveAndShift(t *testing.T) {
	e := NewPageEditor()
	a, _ := e.Insert(ComponentHero)
	_, _ = e.Insert(ComponentAbout)
	_, _ = e.Insert(ComponentServices)
	d, _ := e.Insert(ComponentContact)

	// move first to last
	require.True(t, e.Reorder(a.ID, d.ID))
	assert.Equal(t, []ComponentType{ComponentAbout, ComponentServices, ComponentContact, ComponentHero}, types(e.Sorted()))
	assertDense(t, e)

	// and back
	require.True(t, e.Reorder(a.ID, e.Sorted()[0].ID))
	assert.Equal(t, []ComponentType{ComponentHero, ComponentAbout, ComponentServices, ComponentContact}, types(e.Sorted()))
	assertDense(t, e)
}

func TestPageEditor_ReorderSameIDIsNoOp(t *testing.T) {
	e := NewPageEditor()
	a, _ := e.Insert(ComponentHero)
	_, _ = e.Insert(ComponentAbout)
	e.MarkSaved()
	before := e.State()

	assert.False(t, e.Reorder(a.ID, a.ID))
	assert.Equal(t, before, e.State())
	assert.False(t, e.HasUnsavedChanges())
}

func TestPageEditor_ReorderMissingIDIsNoOp(t *testing.T) {
	e := NewPageEditor()
	a, _ := e.Insert(ComponentHero)
	e.MarkSaved()
	before := e.State()

	assert.False(t, e.Reorder(a.ID, "nope"))
	assert.False(t, e.Reorder("nope", a.ID))
	assert.Equal(t, before, e.State())
}

func TestPageEditor_OrderStaysDenseAcrossMutations(t *testing.T) {
	e := NewPageEditor()
	ids := []string{}
	for _, typ := range []ComponentType{ComponentHero, ComponentText, ComponentGallery, ComponentSpacer, ComponentSocial} {
		c, err := e.Insert(typ)
		require.NoError(t, err)
		ids = append(ids, c.ID)
	}
	require.True(t, e.Delete(ids[1]))
	assertDense(t, e)

	c, err := e.Insert(ComponentBooking)
	require.NoError(t, err)
	assert.Equal(t, 4, c.Order)
	assertDense(t, e)

	require.True(t, e.Reorder(c.ID, ids[0]))
	assertDense(t, e)
	require.True(t, e.Reorder(ids[4], c.ID))
	assertDense(t, e)
	assert.Len(t, e.Components(), 5)
}

func TestPageEditor_DeleteSelectedClearsSelection(t *testing.T) {
	e := NewPageEditor()
	a, _ := e.Insert(ComponentHero)
	b, _ := e.Insert(ComponentAbout)

	require.True(t, e.Select(a.ID))
	require.True(t, e.Delete(a.ID))
	assert.Equal(t, "", e.SelectedID())
	assert.Nil(t, e.State().SelectedComponentID)

	require.True(t, e.Select(b.ID))
	assert.False(t, e.Delete("missing"))
	assert.Equal(t, b.ID, e.SelectedID())
}

func TestPageEditor_UpdateUnknownIDLeavesStateUntouched(t *testing.T) {
	e := NewPageEditor()
	_, _ = e.Insert(ComponentHero)
	e.MarkSaved()
	before := e.State()

	visible := false
	ok, err := e.Update("missing", ComponentUpdate{IsVisible: &visible})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, before, e.State())
}

func TestPageEditor_UpdateIsShallow(t *testing.T) {
	e := NewPageEditor()
	hero, _ := e.Insert(ComponentHero)
	other, _ := e.Insert(ComponentText)

	ok, err := e.Update(hero.ID, ComponentUpdate{Content: HeroContent{Title: "New"}})
	require.NoError(t, err)
	require.True(t, ok)

	got, _ := e.Get(hero.ID)
	content := got.Content.(HeroContent)
	assert.Equal(t, "New", content.Title)
	// nested objects are replaced, not merged
	assert.Equal(t, "", content.ButtonText)
	assert.Equal(t, hero.Styles, got.Styles)

	untouched, _ := e.Get(other.ID)
	assert.Equal(t, other, untouched)
}

func TestPageEditor_UpdateRejectsForeignContent(t *testing.T) {
	e := NewPageEditor()
	hero, _ := e.Insert(ComponentHero)
	e.MarkSaved()

	ok, err := e.Update(hero.ID, ComponentUpdate{Content: SpacerContent{Height: 10}})
	assert.False(t, ok)
	assert.True(t, errors.Is(err, ErrContentMismatch))
	assert.False(t, e.HasUnsavedChanges())
}

func TestPageEditor_ToggleFlags(t *testing.T) {
	e := NewPageEditor()
	c, _ := e.Insert(ComponentGallery)
	e.MarkSaved()

	assert.True(t, e.TogglePreview())
	assert.False(t, e.HasUnsavedChanges())
	assert.Len(t, e.Components(), 1)

	require.True(t, e.ToggleVisibility(c.ID))
	got, _ := e.Get(c.ID)
	assert.False(t, got.IsVisible)
	assert.True(t, e.HasUnsavedChanges())

	assert.Len(t, e.Visible(RenderPreview), 0)
	assert.Len(t, e.Visible(RenderEdit), 1)
}

func TestPageEditor_SelectUnknown(t *testing.T) {
	e := NewPageEditor()
	assert.False(t, e.Select("x"))
	assert.True(t, e.Select(""))
}

func TestRestoreEditor_RenumbersAndDropsDanglingSelection(t *testing.T) {
	a, _ := NewComponent(ComponentHero, 7)
	b, _ := NewComponent(ComponentAbout, 3)
	dangling := "gone"

	e := RestoreEditor(EditorState{
		Components:          []Component{a, b},
		SelectedComponentID: &dangling,
		HasUnsavedChanges:   true,
	})

	sorted := e.Sorted()
	assert.Equal(t, []ComponentType{ComponentAbout, ComponentHero}, types(sorted))
	assert.Equal(t, []int{0, 1}, orders(sorted))
	assert.Equal(t, "", e.SelectedID())
	assert.True(t, e.HasUnsavedChanges())
}

func TestPageEditor_DocumentAndLoad(t *testing.T) {
	e := NewPageEditor()
	_, _ = e.Insert(ComponentHero)
	_, _ = e.Insert(ComponentContact)
	e.UpdateSettings(PageSettings{Title: "My page"})

	doc := e.Document()
	assert.Len(t, doc.Components, 2)
	assert.Equal(t, "My page", doc.Settings.Title)

	loaded := NewPageEditor()
	loaded.LoadDocument(doc)
	assert.False(t, loaded.HasUnsavedChanges())
	assert.Equal(t, doc.Components, loaded.Sorted())
}

func TestDecodeComponentUpdate(t *testing.T) {
	upd, err := DecodeComponentUpdate(ComponentSpacer, []byte(`{"isVisible":false,"content":{"height":12}}`))
	require.NoError(t, err)
	require.NotNil(t, upd.IsVisible)
	assert.False(t, *upd.IsVisible)
	assert.Equal(t, SpacerContent{Height: 12}, upd.Content)
	assert.Nil(t, upd.Styles)

	_, err = DecodeComponentUpdate(ComponentSpacer, []byte(`{"content":{"title":"x"}}`))
	assert.True(t, errors.Is(err, ErrContentMismatch))
}
