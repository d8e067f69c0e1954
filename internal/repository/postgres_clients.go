package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"pagecraft/internal/domain"
)

// PostgresClientsRepository ClientsRepository backed by Postgres
type PostgresClientsRepository struct {
	db *sql.DB
}

func NewPostgresClientsRepository(db *sql.DB) *PostgresClientsRepository {
	return &PostgresClientsRepository{db: db}
}

var _ ClientsRepository = (*PostgresClientsRepository)(nil)

const clientColumns = `
	client_id::text,
	user_id::text,
	name,
	email,
	phone,
	notes,
	status,
	last_contact_at,
	next_follow_up_at,
	created_at,
	updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanClient(row rowScanner) (*domain.Client, error) {
	var c domain.Client
	var status string
	var lastContact, nextFollowUp sql.NullTime
	if err := row.Scan(
		&c.ClientID,
		&c.UserID,
		&c.Name,
		&c.Email,
		&c.Phone,
		&c.Notes,
		&status,
		&lastContact,
		&nextFollowUp,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	c.Status = domain.ClientStatus(status)
	if lastContact.Valid {
		t := lastContact.Time
		c.LastContactAt = &t
	}
	if nextFollowUp.Valid {
		t := nextFollowUp.Time
		c.NextFollowUpAt = &t
	}
	return &c, nil
}

func (r *PostgresClientsRepository) ListClients(ctx context.Context, userID string, filter ClientsFilter) ([]*domain.Client, error) {
	if userID == "" {
		return nil, fmt.Errorf("user_id is required")
	}

	where := []string{"user_id = $1"}
	args := []any{userID}
	argIdx := 2
	if filter.Status != "" {
		where = append(where, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, string(filter.Status))
		argIdx++
	}
	if filter.Search != "" {
		where = append(where, fmt.Sprintf("(name ILIKE $%d OR email ILIKE $%d)", argIdx, argIdx))
		args = append(args, "%"+filter.Search+"%")
	}

	query := fmt.Sprintf(`SELECT %s FROM clients WHERE %s ORDER BY name, created_at`,
		clientColumns, strings.Join(where, " AND "))
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	out := []*domain.Client{}
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate clients: %w", err)
	}
	return out, nil
}

func (r *PostgresClientsRepository) GetClient(ctx context.Context, userID, clientID string) (*domain.Client, error) {
	if userID == "" || clientID == "" {
		return nil, fmt.Errorf("client not found: %w", domain.ErrNotFound)
	}
	query := fmt.Sprintf(`SELECT %s FROM clients WHERE user_id = $1 AND client_id = $2`, clientColumns)
	c, err := scanClient(r.db.QueryRowContext(ctx, query, userID, clientID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("client not found: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	return c, nil
}

func (r *PostgresClientsRepository) CreateClient(ctx context.Context, c *domain.Client) (string, error) {
	if c == nil || c.UserID == "" {
		return "", fmt.Errorf("user_id is required")
	}
	if c.ClientID == "" {
		c.ClientID = uuid.NewString()
	}
	query := `
		INSERT INTO clients (client_id, user_id, name, email, phone, notes, status, last_contact_at, next_follow_up_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		c.ClientID, c.UserID, c.Name, c.Email, c.Phone, c.Notes, string(c.Status),
		c.LastContactAt, c.NextFollowUpAt,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return "", fmt.Errorf("failed to create client: %w", err)
	}
	return c.ClientID, nil
}

func (r *PostgresClientsRepository) UpdateClient(ctx context.Context, c *domain.Client) error {
	if c == nil || c.UserID == "" || c.ClientID == "" {
		return fmt.Errorf("user_id and client_id are required")
	}
	query := `
		UPDATE clients
		SET name = $3, email = $4, phone = $5, notes = $6, status = $7,
			last_contact_at = $8, next_follow_up_at = $9, updated_at = now()
		WHERE user_id = $1 AND client_id = $2
		RETURNING updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		c.UserID, c.ClientID, c.Name, c.Email, c.Phone, c.Notes, string(c.Status),
		c.LastContactAt, c.NextFollowUpAt,
	).Scan(&c.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return fmt.Errorf("client not found: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("failed to update client: %w", err)
	}
	return nil
}

func (r *PostgresClientsRepository) DeleteClient(ctx context.Context, userID, clientID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM clients WHERE user_id = $1 AND client_id = $2`, userID, clientID)
	if err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("client not found: %w", domain.ErrNotFound)
	}
	return nil
}
