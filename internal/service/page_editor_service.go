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
	"pagecraft/internal/store"
)

const pageDraftTTL = 30 * 24 * time.Hour

// EditResult outcome of one editor operation. Changed is false when the
// operation was a no-op (unknown id, reorder onto itself).
type EditResult struct {
	State     domain.EditorState `json:"state"`
	Changed   bool               `json:"changed"`
	Component *domain.Component  `json:"component,omitempty"`
}

// PageEditorService keeps each user's editor session as a draft in the KV
// store and persists the page document on Save.
type PageEditorService interface {
	State(ctx context.Context, userID string) (*domain.EditorState, error)
	Insert(ctx context.Context, userID string, t domain.ComponentType) (*EditResult, error)
	Reorder(ctx context.Context, userID, movedID, targetID string) (*EditResult, error)
	// Update applies a JSON patch {isVisible?, styles?, content?}.
	Update(ctx context.Context, userID, componentID string, patch json.RawMessage) (*EditResult, error)
	Delete(ctx context.Context, userID, componentID string) (*EditResult, error)
	Select(ctx context.Context, userID, componentID string) (*EditResult, error)
	ToggleVisibility(ctx context.Context, userID, componentID string) (*EditResult, error)
	TogglePreview(ctx context.Context, userID string) (*EditResult, error)
	UpdateSettings(ctx context.Context, userID string, settings domain.PageSettings) (*EditResult, error)
	// Save persists the page; the unsaved flag is cleared only on success.
	Save(ctx context.Context, userID string) (*domain.EditorState, error)
	// Discard drops the draft and reloads the last saved page.
	Discard(ctx context.Context, userID string) (*domain.EditorState, error)
}

type pageEditorService struct {
	pages    repository.PagesRepository
	kv       store.KV
	notifier ChangeNotifier
	logger   *zap.Logger

	locks sync.Map // userID -> *sync.Mutex
}

func NewPageEditorService(pages repository.PagesRepository, kv store.KV, notifier ChangeNotifier, logger *zap.Logger) PageEditorService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &pageEditorService{pages: pages, kv: kv, notifier: notifier, logger: logger}
}

func (s *pageEditorService) lock(userID string) func() {
	m, _ := s.locks.LoadOrStore(userID, &sync.Mutex{})
	mu := m.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// open restores the draft, falling back to the saved page, then to an
// empty editor.
func (s *pageEditorService) open(ctx context.Context, userID string) (*domain.PageEditor, error) {
	raw, err := s.kv.Get(ctx, store.PageDraftKey(userID))
	switch {
	case err == nil:
		var st domain.EditorState
		jerr := json.Unmarshal([]byte(raw), &st)
		if jerr == nil {
			return domain.RestoreEditor(st), nil
		}
		s.logger.Warn("Discarding unreadable page draft", zap.String("user_id", userID), zap.Error(jerr))
	case !errors.Is(err, store.ErrMiss):
		return nil, backendErr("load page draft", err)
	}
	return s.openSaved(ctx, userID)
}

func (s *pageEditorService) openSaved(ctx context.Context, userID string) (*domain.PageEditor, error) {
	editor := domain.NewPageEditor()
	doc, err := s.pages.GetPage(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return editor, nil
		}
		s.logger.Warn("Failed to load page", zap.String("user_id", userID), zap.Error(err))
		return nil, backendErr("load page", err)
	}
	editor.LoadDocument(*doc)
	return editor, nil
}

func (s *pageEditorService) storeDraft(ctx context.Context, userID string, editor *domain.PageEditor) error {
	raw, err := json.Marshal(editor.State())
	if err != nil {
		return fmt.Errorf("encode page draft: %w", err)
	}
	if err := s.kv.Set(ctx, store.PageDraftKey(userID), string(raw), pageDraftTTL); err != nil {
		return backendErr("store page draft", err)
	}
	return nil
}

// edit runs fn against the user's editor and stores the draft when fn
// reports a change.
func (s *pageEditorService) edit(ctx context.Context, userID string, fn func(*domain.PageEditor) (*EditResult, error)) (*EditResult, error) {
	unlock := s.lock(userID)
	defer unlock()

	editor, err := s.open(ctx, userID)
	if err != nil {
		return nil, err
	}
	res, err := fn(editor)
	if err != nil {
		return nil, err
	}
	if res.Changed {
		if err := s.storeDraft(ctx, userID, editor); err != nil {
			return nil, err
		}
	}
	res.State = editor.State()
	return res, nil
}

func (s *pageEditorService) State(ctx context.Context, userID string) (*domain.EditorState, error) {
	editor, err := s.open(ctx, userID)
	if err != nil {
		return nil, err
	}
	st := editor.State()
	return &st, nil
}

func (s *pageEditorService) Insert(ctx context.Context, userID string, t domain.ComponentType) (*EditResult, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownComponentType, t)
	}
	return s.edit(ctx, userID, func(e *domain.PageEditor) (*EditResult, error) {
		c, err := e.Insert(t)
		if err != nil {
			return nil, err
		}
		return &EditResult{Changed: true, Component: &c}, nil
	})
}

func (s *pageEditorService) Reorder(ctx context.Context, userID, movedID, targetID string) (*EditResult, error) {
	return s.edit(ctx, userID, func(e *domain.PageEditor) (*EditResult, error) {
		return &EditResult{Changed: e.Reorder(movedID, targetID)}, nil
	})
}

func (s *pageEditorService) Update(ctx context.Context, userID, componentID string, patch json.RawMessage) (*EditResult, error) {
	return s.edit(ctx, userID, func(e *domain.PageEditor) (*EditResult, error) {
		c, ok := e.Get(componentID)
		if !ok {
			return &EditResult{}, nil
		}
		upd, err := domain.DecodeComponentUpdate(c.Type, patch)
		if err != nil {
			return nil, err
		}
		changed, err := e.Update(componentID, upd)
		if err != nil {
			return nil, err
		}
		res := &EditResult{Changed: changed}
		if updated, ok := e.Get(componentID); ok {
			res.Component = &updated
		}
		return res, nil
	})
}

func (s *pageEditorService) Delete(ctx context.Context, userID, componentID string) (*EditResult, error) {
	return s.edit(ctx, userID, func(e *domain.PageEditor) (*EditResult, error) {
		return &EditResult{Changed: e.Delete(componentID)}, nil
	})
}

func (s *pageEditorService) Select(ctx context.Context, userID, componentID string) (*EditResult, error) {
	return s.edit(ctx, userID, func(e *domain.PageEditor) (*EditResult, error) {
		return &EditResult{Changed: e.Select(componentID)}, nil
	})
}

func (s *pageEditorService) ToggleVisibility(ctx context.Context, userID, componentID string) (*EditResult, error) {
	return s.edit(ctx, userID, func(e *domain.PageEditor) (*EditResult, error) {
		return &EditResult{Changed: e.ToggleVisibility(componentID)}, nil
	})
}

func (s *pageEditorService) TogglePreview(ctx context.Context, userID string) (*EditResult, error) {
	return s.edit(ctx, userID, func(e *domain.PageEditor) (*EditResult, error) {
		e.TogglePreview()
		return &EditResult{Changed: true}, nil
	})
}

func (s *pageEditorService) UpdateSettings(ctx context.Context, userID string, settings domain.PageSettings) (*EditResult, error) {
	return s.edit(ctx, userID, func(e *domain.PageEditor) (*EditResult, error) {
		e.UpdateSettings(settings)
		return &EditResult{Changed: true}, nil
	})
}

func (s *pageEditorService) Save(ctx context.Context, userID string) (*domain.EditorState, error) {
	unlock := s.lock(userID)
	defer unlock()

	editor, err := s.open(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.pages.UpsertPage(ctx, userID, editor.Document()); err != nil {
		s.logger.Warn("Failed to save page", zap.String("user_id", userID), zap.Error(err))
		return nil, backendErr("save page", err)
	}
	editor.MarkSaved()
	if err := s.storeDraft(ctx, userID, editor); err != nil {
		// the page is saved; a stale draft only shows a spurious unsaved flag
		s.logger.Warn("Failed to refresh page draft after save", zap.String("user_id", userID), zap.Error(err))
	}
	s.notifier.Notify(ctx, ChangeEvent{UserID: userID, Kind: ChangePageSaved})
	st := editor.State()
	return &st, nil
}

func (s *pageEditorService) Discard(ctx context.Context, userID string) (*domain.EditorState, error) {
	unlock := s.lock(userID)
	defer unlock()

	if err := s.kv.Delete(ctx, store.PageDraftKey(userID)); err != nil {
		return nil, backendErr("discard page draft", err)
	}
	editor, err := s.openSaved(ctx, userID)
	if err != nil {
		return nil, err
	}
	st := editor.State()
	return &st, nil
}
