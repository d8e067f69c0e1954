package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"pagecraft/internal/domain"
)

// MemoryClientsRepo supports the CRM when DB is disabled.
type MemoryClientsRepo struct {
	mu      sync.RWMutex
	clients map[string]domain.Client // clientID -> client
}

func NewMemoryClientsRepo() *MemoryClientsRepo {
	return &MemoryClientsRepo{clients: map[string]domain.Client{}}
}

var _ ClientsRepository = (*MemoryClientsRepo)(nil)

func (r *MemoryClientsRepo) ListClients(_ context.Context, userID string, filter ClientsFilter) ([]*domain.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	search := strings.ToLower(filter.Search)
	out := []*domain.Client{}
	for _, c := range r.clients {
		if c.UserID != userID {
			continue
		}
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(c.Name), search) &&
			!strings.Contains(strings.ToLower(c.Email), search) {
			continue
		}
		c := c
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryClientsRepo) GetClient(_ context.Context, userID, clientID string) (*domain.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.clients[clientID]
	if !ok || c.UserID != userID {
		return nil, fmt.Errorf("client not found: %w", domain.ErrNotFound)
	}
	return &c, nil
}

func (r *MemoryClientsRepo) CreateClient(_ context.Context, c *domain.Client) (string, error) {
	if c == nil || c.UserID == "" {
		return "", fmt.Errorf("user_id is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ClientID == "" {
		c.ClientID = uuid.NewString()
	}
	now := time.Now().UTC()
	c.CreatedAt, c.UpdatedAt = now, now
	r.clients[c.ClientID] = *c
	return c.ClientID, nil
}

func (r *MemoryClientsRepo) UpdateClient(_ context.Context, c *domain.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	old, ok := r.clients[c.ClientID]
	if !ok || old.UserID != c.UserID {
		return fmt.Errorf("client not found: %w", domain.ErrNotFound)
	}
	c.CreatedAt = old.CreatedAt
	c.UpdatedAt = time.Now().UTC()
	r.clients[c.ClientID] = *c
	return nil
}

func (r *MemoryClientsRepo) DeleteClient(_ context.Context, userID, clientID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.clients[clientID]
	if !ok || c.UserID != userID {
		return fmt.Errorf("client not found: %w", domain.ErrNotFound)
	}
	delete(r.clients, clientID)
	return nil
}

// MemoryTasksRepo supports the CRM when DB is disabled.
type MemoryTasksRepo struct {
	mu    sync.RWMutex
	tasks map[string]domain.Task // taskID -> task
}

func NewMemoryTasksRepo() *MemoryTasksRepo {
	return &MemoryTasksRepo{tasks: map[string]domain.Task{}}
}

var _ TasksRepository = (*MemoryTasksRepo)(nil)

func (r *MemoryTasksRepo) ListTasks(_ context.Context, userID string, filter TasksFilter) ([]*domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []*domain.Task{}
	for _, t := range r.tasks {
		if t.UserID != userID {
			continue
		}
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		if filter.ClientID != "" && (t.ClientID == nil || *t.ClientID != filter.ClientID) {
			continue
		}
		out = append(out, copyTask(t))
	}
	sortTasksByDue(out)
	return out, nil
}

func (r *MemoryTasksRepo) ListDue(_ context.Context, userID string, before time.Time) ([]*domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []*domain.Task{}
	for _, t := range r.tasks {
		if t.UserID != userID || !t.IsOpen() || t.DueDate == nil || !t.DueDate.Before(before) {
			continue
		}
		out = append(out, copyTask(t))
	}
	sortTasksByDue(out)
	return out, nil
}

func (r *MemoryTasksRepo) GetTask(_ context.Context, userID, taskID string) (*domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tasks[taskID]
	if !ok || t.UserID != userID {
		return nil, fmt.Errorf("task not found: %w", domain.ErrNotFound)
	}
	return copyTask(t), nil
}

func (r *MemoryTasksRepo) CreateTask(_ context.Context, t *domain.Task) (string, error) {
	if t == nil || t.UserID == "" {
		return "", fmt.Errorf("user_id is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if t.TaskID == "" {
		t.TaskID = uuid.NewString()
	}
	now := time.Now().UTC()
	t.CreatedAt, t.UpdatedAt = now, now
	r.tasks[t.TaskID] = *copyTask(*t)
	return t.TaskID, nil
}

func (r *MemoryTasksRepo) UpdateTask(_ context.Context, t *domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	old, ok := r.tasks[t.TaskID]
	if !ok || old.UserID != t.UserID {
		return fmt.Errorf("task not found: %w", domain.ErrNotFound)
	}
	t.CreatedAt = old.CreatedAt
	t.UpdatedAt = time.Now().UTC()
	r.tasks[t.TaskID] = *copyTask(*t)
	return nil
}

func (r *MemoryTasksRepo) DeleteTask(_ context.Context, userID, taskID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[taskID]
	if !ok || t.UserID != userID {
		return fmt.Errorf("task not found: %w", domain.ErrNotFound)
	}
	delete(r.tasks, taskID)
	return nil
}

func copyTask(t domain.Task) *domain.Task {
	if t.ClientID != nil {
		id := *t.ClientID
		t.ClientID = &id
	}
	if t.DueDate != nil {
		d := *t.DueDate
		t.DueDate = &d
	}
	return &t
}

// sortTasksByDue orders by due date, undated last.
func sortTasksByDue(tasks []*domain.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i].DueDate, tasks[j].DueDate
		switch {
		case a == nil && b == nil:
			return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
		case a == nil:
			return false
		case b == nil:
			return true
		}
		return a.Before(*b)
	})
}
