package domain

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrNotFound             = errors.New("not found")
	ErrNotAuthenticated     = errors.New("not authenticated")
	ErrUnknownComponentType = errors.New("unknown component type")
	ErrContentMismatch      = errors.New("content does not match component type")
	ErrUnknownSection       = errors.New("unknown section")
	ErrUnknownField         = errors.New("unknown profile field")
	ErrUnknownStyleKey      = errors.New("unknown style key")
	ErrUnknownFontTheme     = errors.New("unknown font theme")
	ErrUnknownTemplate      = errors.New("unknown template")
	ErrInvalidSlug          = errors.New("invalid slug")
	ErrSlugTaken            = errors.New("slug already taken")
	ErrEmailTaken           = errors.New("email already registered")
	ErrInvalidCredentials   = errors.New("invalid email or password")
)

// ValidationError carries per-field messages for form input.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add records msg for field, keeping the first message per field.
func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = map[string]string{}
	}
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = msg
	}
}

// OrNil returns nil when no field failed.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}
