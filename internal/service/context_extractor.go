package service

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/clementine-bot/clementine/internal/domain"
)

// HistorySource is the part of the Slack API the extractor reads from.
// ChannelHistory returns newest first, ThreadReplies oldest first.
type HistorySource interface {
	UserLookup
	ThreadReplies(ctx context.Context, channel, threadTS string, limit int) ([]domain.PlatformMessage, error)
	ChannelHistory(ctx context.Context, channel string, limit int) ([]domain.PlatformMessage, error)
}

type ContextExtractor struct {
	source HistorySource
	names  *UserNameCache
}

func NewContextExtractor(source HistorySource, names *UserNameCache) *ContextExtractor {
	return &ContextExtractor{source: source, names: names}
}

// ThreadMessages returns the attributed human messages of a thread, oldest
// first. Any API error yields an empty result.
func (e *ContextExtractor) ThreadMessages(ctx context.Context, channel, threadTS string, limit int) []domain.ContextMessage {
	raw, err := e.source.ThreadReplies(ctx, channel, threadTS, limit)
	if err != nil {
		slog.Error("failed to fetch thread replies", "channel", channel, "thread_ts", threadTS, "error", err)
		return nil
	}
	slog.Debug("fetched thread replies", "channel", channel, "thread_ts", threadTS, "count", len(raw))
	return e.toContext(ctx, raw)
}

// ChannelMessages returns the attributed human messages of recent channel
// history, oldest first. Any API error yields an empty result.
func (e *ContextExtractor) ChannelMessages(ctx context.Context, channel string, limit int) []domain.ContextMessage {
	raw, err := e.source.ChannelHistory(ctx, channel, limit)
	if err != nil {
		slog.Error("failed to fetch channel history", "channel", channel, "error", err)
		return nil
	}
	slog.Debug("fetched channel history", "channel", channel, "count", len(raw))

	chronological := slices.Clone(raw)
	slices.Reverse(chronological)
	return e.toContext(ctx, chronological)
}

func (e *ContextExtractor) ExtractThread(ctx context.Context, channel, threadTS string, limit int) []string {
	return render(e.ThreadMessages(ctx, channel, threadTS, limit))
}

func (e *ContextExtractor) ExtractChannel(ctx context.Context, channel string, limit int) []string {
	return render(e.ChannelMessages(ctx, channel, limit))
}

func (e *ContextExtractor) toContext(ctx context.Context, raw []domain.PlatformMessage) []domain.ContextMessage {
	out := make([]domain.ContextMessage, 0, len(raw))
	for _, m := range raw {
		if !m.IsHuman() {
			continue
		}
		text := strings.TrimSpace(m.Text)
		if text == "" {
			continue
		}
		author := m.UserID
		if author == "" {
			author = "unknown"
		}
		out = append(out, domain.ContextMessage{
			Text:       text,
			AuthorID:   author,
			AuthorName: e.names.Name(ctx, e.source, author),
			Timestamp:  m.Timestamp,
		})
	}
	return out
}

func render(msgs []domain.ContextMessage) []string {
	out := make([]string, len(msgs))
	for i, m := range msgs {
		out[i] = m.String()
	}
	return out
}
