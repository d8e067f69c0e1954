package repository

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"pagecraft/internal/domain"
)

// MemoryUsersRepo backs accounts when DB is disabled.
type MemoryUsersRepo struct {
	mu      sync.RWMutex
	users   map[string]domain.User // userID -> user
	byEmail map[string]string      // lower(email) -> userID
}

func NewMemoryUsersRepo() *MemoryUsersRepo {
	return &MemoryUsersRepo{
		users:   map[string]domain.User{},
		byEmail: map[string]string{},
	}
}

var _ UsersRepository = (*MemoryUsersRepo)(nil)

func (r *MemoryUsersRepo) CreateUser(_ context.Context, u *domain.User) (string, error) {
	if u == nil || u.Email == "" {
		return "", fmt.Errorf("email is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	email := strings.ToLower(strings.TrimSpace(u.Email))
	if _, ok := r.byEmail[email]; ok {
		return "", domain.ErrEmailTaken
	}
	if u.UserID == "" {
		u.UserID = uuid.NewString()
	}
	u.Email = email
	u.CreatedAt = time.Now().UTC()
	r.users[u.UserID] = *u
	r.byEmail[email] = u.UserID
	return u.UserID, nil
}

func (r *MemoryUsersRepo) GetUser(_ context.Context, userID string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[userID]
	if !ok {
		return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	return &u, nil
}

func (r *MemoryUsersRepo) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	u := r.users[id]
	return &u, nil
}
