package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"pagecraft/internal/domain"
)

// PostgresUsersRepository UsersRepository backed by Postgres
type PostgresUsersRepository struct {
	db *sql.DB
}

func NewPostgresUsersRepository(db *sql.DB) *PostgresUsersRepository {
	return &PostgresUsersRepository{db: db}
}

var _ UsersRepository = (*PostgresUsersRepository)(nil)

func (r *PostgresUsersRepository) CreateUser(ctx context.Context, u *domain.User) (string, error) {
	if u == nil || u.Email == "" {
		return "", fmt.Errorf("email is required")
	}
	if u.UserID == "" {
		u.UserID = uuid.NewString()
	}
	email := strings.ToLower(strings.TrimSpace(u.Email))

	query := `
		INSERT INTO users (user_id, email, password_hash, business_name, niche, website, language)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`
	var createdAt time.Time
	err := r.db.QueryRowContext(ctx, query,
		u.UserID, email, u.PasswordHash, u.BusinessName, u.Niche, u.Website, string(u.Language),
	).Scan(&createdAt)
	if err != nil {
		if isUniqueViolation(err) {
			return "", domain.ErrEmailTaken
		}
		return "", fmt.Errorf("failed to create user: %w", err)
	}
	u.Email = email
	u.CreatedAt = createdAt
	return u.UserID, nil
}

func (r *PostgresUsersRepository) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	if userID == "" {
		return nil, fmt.Errorf("user_id is required")
	}
	return r.getOne(ctx, `WHERE user_id = $1`, userID)
}

func (r *PostgresUsersRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}
	return r.getOne(ctx, `WHERE email = $1`, email)
}

func (r *PostgresUsersRepository) getOne(ctx context.Context, where string, arg any) (*domain.User, error) {
	query := `
		SELECT
			user_id::text,
			email,
			password_hash,
			business_name,
			niche,
			website,
			language,
			created_at
		FROM users
		` + where

	var u domain.User
	var lang string
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&u.UserID,
		&u.Email,
		&u.PasswordHash,
		&u.BusinessName,
		&u.Niche,
		&u.Website,
		&lang,
		&u.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	u.Language = domain.ParseLanguage(lang)
	return &u, nil
}
