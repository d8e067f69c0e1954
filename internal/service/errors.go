package service

import (
	"errors"
	"fmt"
)

// ErrFileTooLarge upload exceeded the configured limit
var ErrFileTooLarge = errors.New("file too large")

// ErrUnsupportedMediaType upload is not an accepted image type
var ErrUnsupportedMediaType = errors.New("unsupported media type")

// BackendError wraps a persistence or cache failure with the operation
// that hit it.
type BackendError struct {
	Op  string
	Err error
}

func (e *BackendError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }
func (e *BackendError) Unwrap() error { return e.Err }

func backendErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &BackendError{Op: op, Err: err}
}

// EmailDeliveryError the email collaborator rejected or could not be
// reached. Whatever was written before the send stays written.
type EmailDeliveryError struct {
	TaskID string
	Err    error
}

func (e *EmailDeliveryError) Error() string {
	return fmt.Sprintf("email for task %s not delivered: %v", e.TaskID, e.Err)
}
func (e *EmailDeliveryError) Unwrap() error { return e.Err }
