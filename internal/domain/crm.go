package domain

import (
	"strings"
	"time"
)

// ClientStatus stage of a client relationship
type ClientStatus string

const (
	ClientLead     ClientStatus = "lead"
	ClientActive   ClientStatus = "active"
	ClientInactive ClientStatus = "inactive"
)

func (s ClientStatus) Valid() bool {
	switch s {
	case ClientLead, ClientActive, ClientInactive:
		return true
	}
	return false
}

// Client a CRM contact (table clients).
type Client struct {
	ClientID       string       `db:"client_id" json:"id"`
	UserID         string       `db:"user_id" json:"userId"`
	Name           string       `db:"name" json:"name"`
	Email          string       `db:"email" json:"email"`
	Phone          string       `db:"phone" json:"phone"`
	Notes          string       `db:"notes" json:"notes"`
	Status         ClientStatus `db:"status" json:"status"`
	LastContactAt  *time.Time   `db:"last_contact_at" json:"lastContactAt,omitempty"`
	NextFollowUpAt *time.Time   `db:"next_follow_up_at" json:"nextFollowUpAt,omitempty"`
	CreatedAt      time.Time    `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time    `db:"updated_at" json:"updatedAt"`
}

// TaskStatus progress of a task
type TaskStatus string

const (
	TaskTodo       TaskStatus = "todo"
	TaskInProgress TaskStatus = "in_progress"
	TaskDone       TaskStatus = "done"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskTodo, TaskInProgress, TaskDone:
		return true
	}
	return false
}

// TaskPriority urgency of a task
type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task a follow-up item, optionally linked to a client (table tasks).
type Task struct {
	TaskID        string       `db:"task_id" json:"id"`
	UserID        string       `db:"user_id" json:"userId"`
	ClientID      *string      `db:"client_id" json:"clientId,omitempty"`
	Title         string       `db:"title" json:"title"`
	Description   string       `db:"description" json:"description"`
	Status        TaskStatus   `db:"status" json:"status"`
	Priority      TaskPriority `db:"priority" json:"priority"`
	DueDate       *time.Time   `db:"due_date" json:"dueDate,omitempty"`
	AssigneeName  string       `db:"assignee_name" json:"assigneeName"`
	AssigneeEmail string       `db:"assignee_email" json:"assigneeEmail"`
	CreatedAt     time.Time    `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time    `db:"updated_at" json:"updatedAt"`
}

// IsOpen reports whether the task still needs work.
func (t Task) IsOpen() bool { return t.Status != TaskDone }

// Validate checks required fields and enums, filling defaults.
func (c *Client) Validate() error {
	v := &ValidationError{}
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.TrimSpace(c.Email)
	if c.Name == "" {
		v.Add("name", "required")
	}
	if c.Status == "" {
		c.Status = ClientLead
	}
	if !c.Status.Valid() {
		v.Add("status", "must be one of lead, active, inactive")
	}
	if c.Email != "" && !strings.Contains(c.Email, "@") {
		v.Add("email", "invalid email")
	}
	return v.OrNil()
}

// Validate checks required fields and enums, filling defaults.
func (t *Task) Validate() error {
	v := &ValidationError{}
	t.Title = strings.TrimSpace(t.Title)
	if t.Title == "" {
		v.Add("title", "required")
	}
	if t.Status == "" {
		t.Status = TaskTodo
	}
	if !t.Status.Valid() {
		v.Add("status", "must be one of todo, in_progress, done")
	}
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
	if !t.Priority.Valid() {
		v.Add("priority", "must be one of low, medium, high")
	}
	if t.AssigneeEmail != "" && !strings.Contains(t.AssigneeEmail, "@") {
		v.Add("assigneeEmail", "invalid email")
	}
	return v.OrNil()
}
