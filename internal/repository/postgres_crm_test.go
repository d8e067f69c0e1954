package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pagecraft/internal/domain"
)

var clientCols = []string{"client_id", "user_id", "name", "email", "phone", "notes", "status",
	"last_contact_at", "next_follow_up_at", "created_at", "updated_at"}

var taskCols = []string{"task_id", "user_id", "client_id", "title", "description", "status", "priority",
	"due_date", "assignee_name", "assignee_email", "created_at", "updated_at"}

func TestPostgresClients_ListClients_WithFilter(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostgresClientsRepository(db)
	now := time.Now()

	mock.ExpectQuery(`FROM clients WHERE user_id = \$1 AND status = \$2 AND \(name ILIKE \$3 OR email ILIKE \$3\)`).
		WithArgs("u-1", "active", "%dan%").
		WillReturnRows(sqlmock.NewRows(clientCols).
			AddRow("c-1", "u-1", "Dana", "dana@example.com", "", "", "active", now, nil, now, now))

	list, err := repo.ListClients(context.Background(), "u-1", ClientsFilter{Status: domain.ClientActive, Search: "dan"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Dana", list[0].Name)
	require.NotNil(t, list[0].LastContactAt)
	assert.Nil(t, list[0].NextFollowUpAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresClients_CreateClient(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostgresClientsRepository(db)
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO clients`).
		WithArgs(sqlmock.AnyArg(), "u-1", "Dana", "", "", "", "lead", nil, nil).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	c := &domain.Client{UserID: "u-1", Name: "Dana", Status: domain.ClientLead}
	id, err := repo.CreateClient(context.Background(), c)
	require.NoError(t, err)
	assert.Equal(t, c.ClientID, id)
	assert.Equal(t, now, c.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresClients_DeleteClient_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostgresClientsRepository(db)

	mock.ExpectExec(`DELETE FROM clients`).
		WithArgs("u-1", "c-9").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.DeleteClient(context.Background(), "u-1", "c-9")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresTasks_ListDue(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostgresTasksRepository(db)
	now := time.Now()
	due := now.Add(-time.Hour)

	mock.ExpectQuery(`due_date < \$3`).
		WithArgs("u-1", "done", now).
		WillReturnRows(sqlmock.NewRows(taskCols).
			AddRow("t-1", "u-1", "c-1", "Call Dana", "", "todo", "high", due, "", "", now, now).
			AddRow("t-2", "u-1", nil, "Send invoice", "", "in_progress", "low", due, "", "", now, now))

	tasks, err := repo.ListDue(context.Background(), "u-1", now)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	require.NotNil(t, tasks[0].ClientID)
	assert.Equal(t, "c-1", *tasks[0].ClientID)
	assert.Nil(t, tasks[1].ClientID)
	assert.Equal(t, domain.PriorityHigh, tasks[0].Priority)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresTasks_UpdateTask(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostgresTasksRepository(db)
	now := time.Now()

	mock.ExpectQuery(`UPDATE tasks`).
		WithArgs("u-1", "t-1", nil, "Call Dana", "", "todo", "medium", nil, "Noa", "noa@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(now))

	task := &domain.Task{UserID: "u-1", TaskID: "t-1", Title: "Call Dana", Status: domain.TaskTodo,
		Priority: domain.PriorityMedium, AssigneeName: "Noa", AssigneeEmail: "noa@example.com"}
	require.NoError(t, repo.UpdateTask(context.Background(), task))
	assert.Equal(t, now, task.UpdatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresTasks_GetTask_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostgresTasksRepository(db)

	_, err := repo.GetTask(context.Background(), "u-1", "")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	require.NoError(t, mock.ExpectationsWereMet())
}
