package domain

import (
	"errors"
	"fmt"
	"strings"
)

// PlatformMessage is a raw message read from channel history or a thread.
type PlatformMessage struct {
	Text      string
	UserID    string
	BotID     string
	SubType   string
	Timestamp string
	ThreadTS  string
}

// IsHuman reports whether the message was written by a person rather than a
// bot or a system event.
func (m PlatformMessage) IsHuman() bool {
	return m.BotID == "" && m.SubType == ""
}

// ContextMessage is one attributed line of conversation passed as a chunk.
type ContextMessage struct {
	Text       string
	AuthorID   string
	AuthorName string
	Timestamp  string
}

func (m ContextMessage) String() string {
	name := m.AuthorName
	if name == "" {
		name = m.AuthorID
	}
	return fmt.Sprintf("%s: %s", name, m.Text)
}

type UserInfo struct {
	RealName    string
	DisplayName string
	Username    string
}

// PreferredName returns the first non-blank of real name, display name and
// username.
func (u UserInfo) PreferredName() string {
	for _, n := range []string{u.RealName, u.DisplayName, u.Username} {
		if n = strings.TrimSpace(n); n != "" {
			return n
		}
	}
	return ""
}

// MentionEvent is an app mention after boundary validation.
type MentionEvent struct {
	Text      string
	UserID    string
	Channel   string
	Timestamp string
	ThreadTS  string // equals Timestamp for top-level mentions
}

var ErrInvalidEvent = errors.New("invalid event")

// NewMentionEvent validates the required fields of a raw mention.
func NewMentionEvent(text, user, channel, ts, threadTS string) (MentionEvent, error) {
	var missing []string
	if user == "" {
		missing = append(missing, "user")
	}
	if channel == "" {
		missing = append(missing, "channel")
	}
	if ts == "" {
		missing = append(missing, "ts")
	}
	if len(missing) > 0 {
		return MentionEvent{}, fmt.Errorf("%w: missing %s", ErrInvalidEvent, strings.Join(missing, ", "))
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return MentionEvent{}, fmt.Errorf("%w: empty text", ErrInvalidEvent)
	}
	if threadTS == "" {
		threadTS = ts
	}
	return MentionEvent{
		Text:      text,
		UserID:    user,
		Channel:   channel,
		Timestamp: ts,
		ThreadTS:  threadTS,
	}, nil
}

// AskCommand is a question about the surrounding conversation.
type AskCommand struct {
	Question string
	UserID   string
	Channel  string
	ThreadTS string // empty for channel-level questions
}
