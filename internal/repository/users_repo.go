package repository

import (
	"context"

	"pagecraft/internal/domain"
)

// UsersRepository account storage (table users)
type UsersRepository interface {
	// CreateUser inserts u and returns its id. A duplicate email yields
	// domain.ErrEmailTaken.
	CreateUser(ctx context.Context, u *domain.User) (string, error)
	GetUser(ctx context.Context, userID string) (*domain.User, error)
	// GetUserByEmail matches case-insensitively.
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
}
