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

// PostgresTasksRepository TasksRepository backed by Postgres
type PostgresTasksRepository struct {
	db *sql.DB
}

func NewPostgresTasksRepository(db *sql.DB) *PostgresTasksRepository {
	return &PostgresTasksRepository{db: db}
}

var _ TasksRepository = (*PostgresTasksRepository)(nil)

const taskColumns = `
	task_id::text,
	user_id::text,
	client_id::text,
	title,
	description,
	status,
	priority,
	due_date,
	assignee_name,
	assignee_email,
	created_at,
	updated_at`

func scanTask(row rowScanner) (*domain.Task, error) {
	var t domain.Task
	var clientID sql.NullString
	var status, priority string
	var due sql.NullTime
	if err := row.Scan(
		&t.TaskID,
		&t.UserID,
		&clientID,
		&t.Title,
		&t.Description,
		&status,
		&priority,
		&due,
		&t.AssigneeName,
		&t.AssigneeEmail,
		&t.CreatedAt,
		&t.UpdatedAt,
	); err != nil {
		return nil, err
	}
	t.Status = domain.TaskStatus(status)
	t.Priority = domain.TaskPriority(priority)
	if clientID.Valid {
		id := clientID.String
		t.ClientID = &id
	}
	if due.Valid {
		d := due.Time
		t.DueDate = &d
	}
	return &t, nil
}

func (r *PostgresTasksRepository) queryTasks(ctx context.Context, query string, args ...any) ([]*domain.Task, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	out := []*domain.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tasks: %w", err)
	}
	return out, nil
}

func (r *PostgresTasksRepository) ListTasks(ctx context.Context, userID string, filter TasksFilter) ([]*domain.Task, error) {
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
	if filter.ClientID != "" {
		where = append(where, fmt.Sprintf("client_id = $%d", argIdx))
		args = append(args, filter.ClientID)
	}
	query := fmt.Sprintf(`SELECT %s FROM tasks WHERE %s ORDER BY due_date NULLS LAST, created_at`,
		taskColumns, strings.Join(where, " AND "))
	return r.queryTasks(ctx, query, args...)
}

func (r *PostgresTasksRepository) ListDue(ctx context.Context, userID string, before time.Time) ([]*domain.Task, error) {
	if userID == "" {
		return nil, fmt.Errorf("user_id is required")
	}
	query := fmt.Sprintf(`
		SELECT %s FROM tasks
		WHERE user_id = $1 AND status <> $2 AND due_date IS NOT NULL AND due_date < $3
		ORDER BY due_date`, taskColumns)
	return r.queryTasks(ctx, query, userID, string(domain.TaskDone), before)
}

func (r *PostgresTasksRepository) GetTask(ctx context.Context, userID, taskID string) (*domain.Task, error) {
	if userID == "" || taskID == "" {
		return nil, fmt.Errorf("task not found: %w", domain.ErrNotFound)
	}
	query := fmt.Sprintf(`SELECT %s FROM tasks WHERE user_id = $1 AND task_id = $2`, taskColumns)
	t, err := scanTask(r.db.QueryRowContext(ctx, query, userID, taskID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("task not found: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return t, nil
}

func (r *PostgresTasksRepository) CreateTask(ctx context.Context, t *domain.Task) (string, error) {
	if t == nil || t.UserID == "" {
		return "", fmt.Errorf("user_id is required")
	}
	if t.TaskID == "" {
		t.TaskID = uuid.NewString()
	}
	query := `
		INSERT INTO tasks (task_id, user_id, client_id, title, description, status, priority,
			due_date, assignee_name, assignee_email)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		t.TaskID, t.UserID, nullableString(t.ClientID), t.Title, t.Description,
		string(t.Status), string(t.Priority), t.DueDate, t.AssigneeName, t.AssigneeEmail,
	).Scan(&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return "", fmt.Errorf("failed to create task: %w", err)
	}
	return t.TaskID, nil
}

func (r *PostgresTasksRepository) UpdateTask(ctx context.Context, t *domain.Task) error {
	if t == nil || t.UserID == "" || t.TaskID == "" {
		return fmt.Errorf("user_id and task_id are required")
	}
	query := `
		UPDATE tasks
		SET client_id = $3, title = $4, description = $5, status = $6, priority = $7,
			due_date = $8, assignee_name = $9, assignee_email = $10, updated_at = now()
		WHERE user_id = $1 AND task_id = $2
		RETURNING updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		t.UserID, t.TaskID, nullableString(t.ClientID), t.Title, t.Description,
		string(t.Status), string(t.Priority), t.DueDate, t.AssigneeName, t.AssigneeEmail,
	).Scan(&t.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return fmt.Errorf("task not found: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("failed to update task: %w", err)
	}
	return nil
}

func (r *PostgresTasksRepository) DeleteTask(ctx context.Context, userID, taskID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE user_id = $1 AND task_id = $2`, userID, taskID)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("task not found: %w", domain.ErrNotFound)
	}
	return nil
}
