package service

import (
	"sync"
	"time"
)

// SaveStatus persistence indicator of one editing session
type SaveStatus string

const (
	StatusIdle    SaveStatus = "idle"
	StatusLoading SaveStatus = "loading"
	StatusSaving  SaveStatus = "saving"
	StatusSuccess SaveStatus = "success"
	StatusError   SaveStatus = "error"
)

// StatusSnapshot is what clients poll.
type StatusSnapshot struct {
	Status SaveStatus `json:"status"`
	Error  string     `json:"error,omitempty"`
}

// StatusTracker walks idle -> loading -> idle|error and
// idle -> saving -> success|error; success falls back to idle after
// resetAfter. It is never persisted.
type StatusTracker struct {
	mu         sync.Mutex
	status     SaveStatus
	lastErr    string
	resetAfter time.Duration
	timer      *time.Timer
	gen        uint64
}

func NewStatusTracker(resetAfter time.Duration) *StatusTracker {
	return &StatusTracker{status: StatusIdle, resetAfter: resetAfter}
}

func (t *StatusTracker) Snapshot() StatusSnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return StatusSnapshot{Status: t.status, Error: t.lastErr}
}

func (t *StatusTracker) BeginLoad() { t.set(StatusLoading, "") }
func (t *StatusTracker) BeginSave() { t.set(StatusSaving, "") }

// EndLoad settles a load: idle on success, error otherwise.
func (t *StatusTracker) EndLoad(err error) {
	if err != nil {
		t.set(StatusError, err.Error())
		return
	}
	t.set(StatusIdle, "")
}

// EndSave settles a save and arms the success reset.
func (t *StatusTracker) EndSave(err error) {
	if err != nil {
		t.set(StatusError, err.Error())
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.transition(StatusSuccess, "")
	gen := t.gen
	t.timer = time.AfterFunc(t.resetAfter, func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		// a newer transition owns the status now
		if t.gen == gen && t.status == StatusSuccess {
			t.transition(StatusIdle, "")
		}
	})
}

func (t *StatusTracker) set(s SaveStatus, errMsg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.transition(s, errMsg)
}

// transition requires t.mu held.
func (t *StatusTracker) transition(s SaveStatus, errMsg string) {
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.gen++
	t.status = s
	t.lastErr = errMsg
}

// StatusBoard one tracker per user session.
type StatusBoard struct {
	mu         sync.Mutex
	trackers   map[string]*StatusTracker
	resetAfter time.Duration
}

func NewStatusBoard(resetAfter time.Duration) *StatusBoard {
	if resetAfter <= 0 {
		resetAfter = 2 * time.Second
	}
	return &StatusBoard{trackers: map[string]*StatusTracker{}, resetAfter: resetAfter}
}

// For returns the tracker of key, creating it idle.
func (b *StatusBoard) For(key string) *StatusTracker {
	b.mu.Lock()
	defer b.mu.Unlock()
	t, ok := b.trackers[key]
	if !ok {
		t = NewStatusTracker(b.resetAfter)
		b.trackers[key] = t
	}
	return t
}
