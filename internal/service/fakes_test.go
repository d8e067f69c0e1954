package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"pagecraft/internal/domain"
	"pagecraft/internal/repository"
	"pagecraft/internal/store"
)

type fakeKV struct {
	mu     sync.Mutex
	data   map[string]string
	setErr error
}

func newFakeKV() *fakeKV { return &fakeKV{data: map[string]string{}} }

func (f *fakeKV) Get(ctx context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	if !ok {
		return "", store.ErrMiss
	}
	return v, nil
}

func (f *fakeKV) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setErr != nil {
		return f.setErr
	}
	f.data[key] = value
	return nil
}

func (f *fakeKV) Delete(ctx context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, k := range keys {
		delete(f.data, k)
	}
	return nil
}

func (f *fakeKV) has(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.data[key]
	return ok
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []ChangeEvent
}

func (n *recordingNotifier) Notify(_ context.Context, ev ChangeEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, ev)
}

func (n *recordingNotifier) kinds() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, 0, len(n.events))
	for _, ev := range n.events {
		out = append(out, ev.Kind)
	}
	return out
}

type fakeEmail struct {
	sent []TaskEmail
	err  error
}

func (f *fakeEmail) SendTaskEmail(_ context.Context, msg TaskEmail) error {
	f.sent = append(f.sent, msg)
	return f.err
}

var errBackendDown = errors.New("backend down")

// failingConfigs fails or slows down calls; the rest goes to the
// embedded memory repo.
type failingConfigs struct {
	*repository.MemoryProfileConfigsRepo
	failUpsert bool
	failGet    bool
	readDelay  time.Duration
}

func (f *failingConfigs) GetConfig(ctx context.Context, userID string) (json.RawMessage, error) {
	if f.failGet {
		return nil, errBackendDown
	}
	if f.readDelay > 0 {
		time.Sleep(f.readDelay)
	}
	return f.MemoryProfileConfigsRepo.GetConfig(ctx, userID)
}

func (f *failingConfigs) UpsertConfig(ctx context.Context, userID string, doc json.RawMessage) error {
	if f.failUpsert {
		return errBackendDown
	}
	return f.MemoryProfileConfigsRepo.UpsertConfig(ctx, userID, doc)
}

type failingPages struct {
	*repository.MemoryPagesRepo
	failUpsert bool
}

func (f *failingPages) UpsertPage(ctx context.Context, userID string, doc domain.PageDocument) error {
	if f.failUpsert {
		return errBackendDown
	}
	return f.MemoryPagesRepo.UpsertPage(ctx, userID, doc)
}
