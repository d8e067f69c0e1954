package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"pagecraft/internal/domain"
	"pagecraft/internal/repository"
)

// CRMService follow-up clients and tasks of the signed-in user
type CRMService interface {
	ListClients(ctx context.Context, userID string, filter repository.ClientsFilter) ([]*domain.Client, error)
	GetClient(ctx context.Context, userID, clientID string) (*domain.Client, error)
	CreateClient(ctx context.Context, userID string, c domain.Client) (*domain.Client, error)
	UpdateClient(ctx context.Context, userID, clientID string, c domain.Client) (*domain.Client, error)
	DeleteClient(ctx context.Context, userID, clientID string) error

	ListTasks(ctx context.Context, userID string, filter repository.TasksFilter) ([]*domain.Task, error)
	ListDueTasks(ctx context.Context, userID string, before time.Time) ([]*domain.Task, error)
	GetTask(ctx context.Context, userID, taskID string) (*domain.Task, error)
	CreateTask(ctx context.Context, userID string, t domain.Task) (*domain.Task, error)
	UpdateTask(ctx context.Context, userID, taskID string, t domain.Task) (*domain.Task, error)
	DeleteTask(ctx context.Context, userID, taskID string) error
	// AssignTask stores the assignee and then emails them. An email
	// failure returns the updated task together with *EmailDeliveryError.
	AssignTask(ctx context.Context, userID, taskID string, req AssignTaskRequest) (*domain.Task, error)

	// ExportClients builds an XLSX workbook of clients and open tasks.
	ExportClients(ctx context.Context, userID string) ([]byte, error)
}

// AssignTaskRequest assignee of a task
type AssignTaskRequest struct {
	Name  string `json:"name" validate:"required,max=120"`
	Email string `json:"email" validate:"required,email"`
}

type crmService struct {
	clients  repository.ClientsRepository
	tasks    repository.TasksRepository
	email    EmailSender
	notifier ChangeNotifier
	validate *validator.Validate
	logger   *zap.Logger
}

func NewCRMService(
	clients repository.ClientsRepository,
	tasks repository.TasksRepository,
	email EmailSender,
	notifier ChangeNotifier,
	logger *zap.Logger,
) CRMService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &crmService{
		clients:  clients,
		tasks:    tasks,
		email:    email,
		notifier: notifier,
		validate: newValidator(),
		logger:   logger,
	}
}

// repoErr passes not-found through and wraps everything else.
func repoErr(op string, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return err
	}
	return backendErr(op, err)
}

func (s *crmService) ListClients(ctx context.Context, userID string, filter repository.ClientsFilter) ([]*domain.Client, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		v := &domain.ValidationError{}
		v.Add("status", "must be one of lead, active, inactive")
		return nil, v
	}
	list, err := s.clients.ListClients(ctx, userID, filter)
	if err != nil {
		return nil, repoErr("list clients", err)
	}
	return list, nil
}

func (s *crmService) GetClient(ctx context.Context, userID, clientID string) (*domain.Client, error) {
	c, err := s.clients.GetClient(ctx, userID, clientID)
	if err != nil {
		return nil, repoErr("get client", err)
	}
	return c, nil
}

func (s *crmService) CreateClient(ctx context.Context, userID string, c domain.Client) (*domain.Client, error) {
	c.ClientID = ""
	c.UserID = userID
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.clients.CreateClient(ctx, &c); err != nil {
		return nil, repoErr("create client", err)
	}
	s.notifier.Notify(ctx, ChangeEvent{UserID: userID, Kind: ChangeClientChanged, EntityID: c.ClientID})
	return &c, nil
}

func (s *crmService) UpdateClient(ctx context.Context, userID, clientID string, c domain.Client) (*domain.Client, error) {
	c.UserID = userID
	c.ClientID = clientID
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := s.clients.UpdateClient(ctx, &c); err != nil {
		return nil, repoErr("update client", err)
	}
	s.notifier.Notify(ctx, ChangeEvent{UserID: userID, Kind: ChangeClientChanged, EntityID: clientID})
	return &c, nil
}

func (s *crmService) DeleteClient(ctx context.Context, userID, clientID string) error {
	if err := s.clients.DeleteClient(ctx, userID, clientID); err != nil {
		return repoErr("delete client", err)
	}
	s.notifier.Notify(ctx, ChangeEvent{UserID: userID, Kind: ChangeClientChanged, EntityID: clientID})
	return nil
}

func (s *crmService) ListTasks(ctx context.Context, userID string, filter repository.TasksFilter) ([]*domain.Task, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		v := &domain.ValidationError{}
		v.Add("status", "must be one of todo, in_progress, done")
		return nil, v
	}
	list, err := s.tasks.ListTasks(ctx, userID, filter)
	if err != nil {
		return nil, repoErr("list tasks", err)
	}
	return list, nil
}

func (s *crmService) ListDueTasks(ctx context.Context, userID string, before time.Time) ([]*domain.Task, error) {
	if before.IsZero() {
		before = time.Now()
	}
	list, err := s.tasks.ListDue(ctx, userID, before)
	if err != nil {
		return nil, repoErr("list due tasks", err)
	}
	return list, nil
}

func (s *crmService) GetTask(ctx context.Context, userID, taskID string) (*domain.Task, error) {
	t, err := s.tasks.GetTask(ctx, userID, taskID)
	if err != nil {
		return nil, repoErr("get task", err)
	}
	return t, nil
}

// checkClientLink makes sure a linked client belongs to the user.
func (s *crmService) checkClientLink(ctx context.Context, userID string, t *domain.Task) error {
	if t.ClientID == nil || *t.ClientID == "" {
		t.ClientID = nil
		return nil
	}
	if _, err := s.clients.GetClient(ctx, userID, *t.ClientID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			v := &domain.ValidationError{}
			v.Add("clientId", "unknown client")
			return v
		}
		return backendErr("get client", err)
	}
	return nil
}

func (s *crmService) CreateTask(ctx context.Context, userID string, t domain.Task) (*domain.Task, error) {
	t.TaskID = ""
	t.UserID = userID
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkClientLink(ctx, userID, &t); err != nil {
		return nil, err
	}
	if _, err := s.tasks.CreateTask(ctx, &t); err != nil {
		return nil, repoErr("create task", err)
	}
	s.notifier.Notify(ctx, ChangeEvent{UserID: userID, Kind: ChangeTaskChanged, EntityID: t.TaskID})
	return &t, nil
}

func (s *crmService) UpdateTask(ctx context.Context, userID, taskID string, t domain.Task) (*domain.Task, error) {
	t.UserID = userID
	t.TaskID = taskID
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkClientLink(ctx, userID, &t); err != nil {
		return nil, err
	}
	if err := s.tasks.UpdateTask(ctx, &t); err != nil {
		return nil, repoErr("update task", err)
	}
	s.notifier.Notify(ctx, ChangeEvent{UserID: userID, Kind: ChangeTaskChanged, EntityID: taskID})
	return &t, nil
}

func (s *crmService) DeleteTask(ctx context.Context, userID, taskID string) error {
	if err := s.tasks.DeleteTask(ctx, userID, taskID); err != nil {
		return repoErr("delete task", err)
	}
	s.notifier.Notify(ctx, ChangeEvent{UserID: userID, Kind: ChangeTaskChanged, EntityID: taskID})
	return nil
}

func (s *crmService) AssignTask(ctx context.Context, userID, taskID string, req AssignTaskRequest) (*domain.Task, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if err := s.validate.Struct(req); err != nil {
		return nil, validationError(err)
	}

	t, err := s.tasks.GetTask(ctx, userID, taskID)
	if err != nil {
		return nil, repoErr("get task", err)
	}
	t.AssigneeName = req.Name
	t.AssigneeEmail = req.Email
	if err := s.tasks.UpdateTask(ctx, t); err != nil {
		return nil, repoErr("assign task", err)
	}
	s.notifier.Notify(ctx, ChangeEvent{UserID: userID, Kind: ChangeTaskAssigned, EntityID: taskID})

	if s.email == nil {
		return t, nil
	}
	if err := s.email.SendTaskEmail(ctx, taskEmail(t)); err != nil {
		s.logger.Warn("Task assigned but email not delivered",
			zap.String("user_id", userID),
			zap.String("task_id", taskID),
			zap.Error(err),
		)
		return t, &EmailDeliveryError{TaskID: taskID, Err: err}
	}
	return t, nil
}

func taskEmail(t *domain.Task) TaskEmail {
	fields := map[string]string{
		"title":        t.Title,
		"description":  t.Description,
		"priority":     string(t.Priority),
		"status":       string(t.Status),
		"assigneeName": t.AssigneeName,
	}
	if t.DueDate != nil {
		fields["dueDate"] = t.DueDate.Format(time.RFC3339)
	}
	return TaskEmail{TaskID: t.TaskID, To: t.AssigneeEmail, Fields: fields}
}

func (s *crmService) ExportClients(ctx context.Context, userID string) ([]byte, error) {
	clients, err := s.clients.ListClients(ctx, userID, repository.ClientsFilter{})
	if err != nil {
		return nil, repoErr("list clients", err)
	}
	tasks, err := s.tasks.ListTasks(ctx, userID, repository.TasksFilter{})
	if err != nil {
		return nil, repoErr("list tasks", err)
	}
	open := make([]*domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.IsOpen() {
			open = append(open, t)
		}
	}
	data, err := GenerateClientsExport(clients, open)
	if err != nil {
		return nil, fmt.Errorf("export clients: %w", err)
	}
	return data, nil
}
