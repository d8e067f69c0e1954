package domain

import (
	"encoding/json"
	"fmt"
	"sort"
)

// PageSettings page-level metadata persisted with the components.
type PageSettings struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Favicon      string `json:"favicon,omitempty"`
	PrimaryColor string `json:"primaryColor,omitempty"`
}

// PageDocument is the persisted form of a page.
type PageDocument struct {
	Components []Component  `json:"components"`
	Settings   PageSettings `json:"settings"`
}

// ComponentUpdate is a shallow patch. Nil fields are left alone; non-nil
// Styles and Content replace the whole nested object.
// Order is deliberately absent: only Reorder moves components.
type ComponentUpdate struct {
	IsVisible *bool
	Styles    *ComponentStyles
	Content   Content
}

type componentUpdateWire struct {
	IsVisible *bool            `json:"isVisible"`
	Styles    *ComponentStyles `json:"styles"`
	Content   json.RawMessage  `json:"content"`
}

// DecodeComponentUpdate parses a JSON patch for a component of type t.
func DecodeComponentUpdate(t ComponentType, data []byte) (ComponentUpdate, error) {
	var w componentUpdateWire
	if err := json.Unmarshal(data, &w); err != nil {
		return ComponentUpdate{}, err
	}
	upd := ComponentUpdate{IsVisible: w.IsVisible, Styles: w.Styles}
	if len(w.Content) > 0 && string(w.Content) != "null" {
		content, err := DecodeContent(t, w.Content)
		if err != nil {
			return ComponentUpdate{}, err
		}
		upd.Content = content
	}
	return upd, nil
}

// EditorState is the serializable snapshot of a PageEditor.
type EditorState struct {
	Components          []Component  `json:"components"`
	Settings            PageSettings `json:"settings"`
	SelectedComponentID *string      `json:"selectedComponentId"`
	PreviewMode         bool         `json:"previewMode"`
	HasUnsavedChanges   bool         `json:"hasUnsavedChanges"`
}

// PageEditor owns the ordered component collection of one page.
// Order values are kept dense (0..N-1) by every mutation.
// Not safe for concurrent use.
type PageEditor struct {
	components  []Component
	settings    PageSettings
	selectedID  string
	previewMode bool
	unsaved     bool
}

// NewPageEditor returns an empty editor.
func NewPageEditor() *PageEditor {
	return &PageEditor{components: []Component{}}
}

// RestoreEditor rebuilds an editor from a snapshot. Stored order values are
// only used to sort; they are renumbered afterwards.
func RestoreEditor(s EditorState) *PageEditor {
	e := &PageEditor{
		components:  cloneComponents(s.Components),
		settings:    s.Settings,
		previewMode: s.PreviewMode,
		unsaved:     s.HasUnsavedChanges,
	}
	e.normalize()
	if s.SelectedComponentID != nil && e.indexOf(*s.SelectedComponentID) >= 0 {
		e.selectedID = *s.SelectedComponentID
	}
	return e
}

// LoadDocument replaces the collection with a persisted document and
// resets the editor flags.
func (e *PageEditor) LoadDocument(doc PageDocument) {
	e.components = cloneComponents(doc.Components)
	e.settings = doc.Settings
	e.selectedID = ""
	e.unsaved = false
	e.normalize()
}

// State snapshots the editor.
func (e *PageEditor) State() EditorState {
	s := EditorState{
		Components:        cloneComponents(e.components),
		Settings:          e.settings,
		PreviewMode:       e.previewMode,
		HasUnsavedChanges: e.unsaved,
	}
	if e.selectedID != "" {
		id := e.selectedID
		s.SelectedComponentID = &id
	}
	return s
}

// Document is what gets persisted: all components plus settings.
func (e *PageEditor) Document() PageDocument {
	return PageDocument{Components: e.Sorted(), Settings: e.settings}
}

func (e *PageEditor) Components() []Component { return cloneComponents(e.components) }
func (e *PageEditor) Settings() PageSettings  { return e.settings }
func (e *PageEditor) PreviewMode() bool       { return e.previewMode }
func (e *PageEditor) HasUnsavedChanges() bool { return e.unsaved }

// SelectedID returns the selected component id, "" when none.
func (e *PageEditor) SelectedID() string { return e.selectedID }

// Get returns a copy of the component with id.
func (e *PageEditor) Get(id string) (Component, bool) {
	i := e.indexOf(id)
	if i < 0 {
		return Component{}, false
	}
	return e.components[i].Clone(), true
}

// Sorted returns components by ascending order, ties by position.
func (e *PageEditor) Sorted() []Component {
	out := cloneComponents(e.components)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// Insert appends a fresh component of type t at the end.
func (e *PageEditor) Insert(t ComponentType) (Component, error) {
	c, err := NewComponent(t, len(e.components))
	if err != nil {
		return Component{}, err
	}
	e.components = append(e.components, c)
	e.unsaved = true
	return c.Clone(), nil
}

// Reorder moves movedID to the position currently held by targetID in the
// sorted view, shifting the rest. Returns false when either id is missing
// or both are the same; nothing changes in that case.
func (e *PageEditor) Reorder(movedID, targetID string) bool {
	sorted := e.Sorted()
	from, to := -1, -1
	for i, c := range sorted {
		if c.ID == movedID {
			from = i
		}
		if c.ID == targetID {
			to = i
		}
	}
	if from < 0 || to < 0 || from == to {
		return false
	}

	moved := sorted[from]
	sorted = append(sorted[:from], sorted[from+1:]...)
	sorted = append(sorted[:to], append([]Component{moved}, sorted[to:]...)...)
	for i := range sorted {
		sorted[i].Order = i
	}
	e.components = sorted
	e.unsaved = true
	return true
}

// Update shallow-merges upd onto the component with id. Unknown id is a
// no-op returning false. Content of another variant is rejected.
func (e *PageEditor) Update(id string, upd ComponentUpdate) (bool, error) {
	i := e.indexOf(id)
	if i < 0 {
		return false, nil
	}
	c := e.components[i]
	if upd.Content != nil && upd.Content.ComponentType() != c.Type {
		return false, fmt.Errorf("%w: %s component got %s content", ErrContentMismatch, c.Type, upd.Content.ComponentType())
	}
	if upd.IsVisible != nil {
		c.IsVisible = *upd.IsVisible
	}
	if upd.Styles != nil {
		c.Styles = *upd.Styles
	}
	if upd.Content != nil {
		c.Content = upd.Content.clone()
	}
	e.components[i] = c
	e.unsaved = true
	return true, nil
}

// Delete removes the component with id and clears the selection if it
// pointed at it. Remaining components are renumbered.
func (e *PageEditor) Delete(id string) bool {
	i := e.indexOf(id)
	if i < 0 {
		return false
	}
	e.components = append(e.components[:i], e.components[i+1:]...)
	if e.selectedID == id {
		e.selectedID = ""
	}
	e.normalize()
	e.unsaved = true
	return true
}

// Select marks id as the component being edited; "" clears the selection.
func (e *PageEditor) Select(id string) bool {
	if id == "" {
		e.selectedID = ""
		return true
	}
	if e.indexOf(id) < 0 {
		return false
	}
	e.selectedID = id
	return true
}

// ToggleVisibility flips isVisible of id.
func (e *PageEditor) ToggleVisibility(id string) bool {
	i := e.indexOf(id)
	if i < 0 {
		return false
	}
	e.components[i].IsVisible = !e.components[i].IsVisible
	e.unsaved = true
	return true
}

// TogglePreview flips the rendering mode. Components are not touched.
func (e *PageEditor) TogglePreview() bool {
	e.previewMode = !e.previewMode
	return e.previewMode
}

// UpdateSettings replaces page settings.
func (e *PageEditor) UpdateSettings(s PageSettings) {
	e.settings = s
	e.unsaved = true
}

// MarkSaved clears the unsaved flag after a successful persist.
func (e *PageEditor) MarkSaved() { e.unsaved = false }

// Visible returns the sorted components a renderer should draw in the
// given mode. Edit mode shows hidden components so they can be re-enabled.
func (e *PageEditor) Visible(mode RenderMode) []Component {
	sorted := e.Sorted()
	if mode == RenderEdit {
		return sorted
	}
	out := make([]Component, 0, len(sorted))
	for _, c := range sorted {
		if c.IsVisible {
			out = append(out, c)
		}
	}
	return out
}

func (e *PageEditor) indexOf(id string) int {
	for i, c := range e.components {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// normalize sorts by order (stable) and renumbers densely.
func (e *PageEditor) normalize() {
	if e.components == nil {
		e.components = []Component{}
	}
	sort.SliceStable(e.components, func(i, j int) bool { return e.components[i].Order < e.components[j].Order })
	for i := range e.components {
		e.components[i].Order = i
	}
}

func cloneComponents(in []Component) []Component {
	out := make([]Component, len(in))
	for i, c := range in {
		out[i] = c.Clone()
	}
	return out
}

// RenderMode selects how components are presented.
type RenderMode string

const (
	RenderEdit      RenderMode = "edit"
	RenderPreview   RenderMode = "preview"
	RenderPublished RenderMode = "published"
)
