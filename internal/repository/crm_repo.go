package repository

import (
	"context"
	"time"

	"pagecraft/internal/domain"
)

// ClientsFilter list filter; zero value means everything.
type ClientsFilter struct {
	Status domain.ClientStatus
	Search string // name or email, case-insensitive substring
}

// ClientsRepository CRM contacts scoped per user (table clients)
type ClientsRepository interface {
	ListClients(ctx context.Context, userID string, filter ClientsFilter) ([]*domain.Client, error)
	GetClient(ctx context.Context, userID, clientID string) (*domain.Client, error)
	CreateClient(ctx context.Context, c *domain.Client) (string, error)
	UpdateClient(ctx context.Context, c *domain.Client) error
	DeleteClient(ctx context.Context, userID, clientID string) error
}

// TasksFilter list filter; zero value means everything.
type TasksFilter struct {
	Status   domain.TaskStatus
	ClientID string
}

// TasksRepository follow-up tasks scoped per user (table tasks)
type TasksRepository interface {
	ListTasks(ctx context.Context, userID string, filter TasksFilter) ([]*domain.Task, error)
	// ListDue returns open tasks with a due date before the given time,
	// earliest first.
	ListDue(ctx context.Context, userID string, before time.Time) ([]*domain.Task, error)
	GetTask(ctx context.Context, userID, taskID string) (*domain.Task, error)
	CreateTask(ctx context.Context, t *domain.Task) (string, error)
	UpdateTask(ctx context.Context, t *domain.Task) error
	DeleteTask(ctx context.Context, userID, taskID string) error
}
