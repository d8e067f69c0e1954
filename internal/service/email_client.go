package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// TaskEmail body of POST /send-task-email
type TaskEmail struct {
	TaskID string            `json:"taskId"`
	To     string            `json:"to"`
	Fields map[string]string `json:"fields"`
}

// EmailAck acknowledgment from the email API
type EmailAck struct {
	Accepted bool   `json:"accepted"`
	Message  string `json:"message,omitempty"`
}

// EmailSender sends task assignment emails.
type EmailSender interface {
	SendTaskEmail(ctx context.Context, msg TaskEmail) error
}

// EmailClient outbound email API client
type EmailClient struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

// NewEmailClient retries transport errors and 5xx up to retries times.
func NewEmailClient(baseURL, apiKey string, timeout time.Duration, retries int, logger *zap.Logger) *EmailClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(retries).
		SetRetryWaitTime(200 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || (r != nil && r.StatusCode() >= 500)
		}).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if apiKey != "" {
		client.SetHeader("X-API-Key", apiKey)
	}
	return &EmailClient{httpClient: client, logger: logger}
}

var _ EmailSender = (*EmailClient)(nil)

func (c *EmailClient) SendTaskEmail(ctx context.Context, msg TaskEmail) error {
	var ack EmailAck
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(msg).
		SetResult(&ack).
		Post("/send-task-email")
	if err != nil {
		c.logger.Warn("Email API call failed",
			zap.String("task_id", msg.TaskID),
			zap.Error(err),
		)
		return fmt.Errorf("failed to call email API: %w", err)
	}
	if resp.IsError() {
		c.logger.Warn("Email API returned error status",
			zap.String("task_id", msg.TaskID),
			zap.Int("status_code", resp.StatusCode()),
		)
		return fmt.Errorf("email API status %d", resp.StatusCode())
	}
	if !ack.Accepted {
		return fmt.Errorf("email rejected: %s", ack.Message)
	}

	c.logger.Info("Task email accepted",
		zap.String("task_id", msg.TaskID),
		zap.String("to", msg.To),
	)
	return nil
}
