package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrChatFailed          = errors.New("chat request failed")
	ErrFeedbackFailed      = errors.New("feedback request failed")
	ErrNothingToSave       = errors.New("no configuration values supplied")
	ErrInvalidFeedbackData = errors.New("invalid feedback action value")
	ErrMessageUnavailable  = errors.New("message not available")
)

type ChatErrorKind string

const (
	ChatErrorTimeout    ChatErrorKind = "timeout"
	ChatErrorConnection ChatErrorKind = "connection"
	ChatErrorHTTPStatus ChatErrorKind = "http_status"
	ChatErrorDecode     ChatErrorKind = "decode"
)

// ChatError describes a failed round trip to the chat API. Callers only need
// errors.Is(err, ErrChatFailed); the kind exists for logs.
type ChatError struct {
	Kind       ChatErrorKind
	StatusCode int
	Err        error
}

func (e *ChatError) Error() string {
	if e.Kind == ChatErrorHTTPStatus {
		return fmt.Sprintf("chat api: http status %d", e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("chat api: %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("chat api: %s", e.Kind)
}

func (e *ChatError) Unwrap() error { return e.Err }

func (e *ChatError) Is(target error) bool { return target == ErrChatFailed }

// ValidationError maps a field (or modal block id) to a human-readable
// problem.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + e.Fields[k]
	}
	return "invalid room config: " + strings.Join(parts, "; ")
}
