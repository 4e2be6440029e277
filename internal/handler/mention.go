package handler

import (
	"context"
	"log/slog"

	"github.com/clementine-bot/clementine/internal/domain"
	"github.com/clementine-bot/clementine/internal/service"
	"github.com/clementine-bot/clementine/internal/slackio"
)

// HandleMention answers an @-mention in its thread. The conversation
// continues across mentions in the same thread through a stable session id.
func (h *Handler) HandleMention(ctx context.Context, m domain.MentionEvent) {
	placeholderTS, err := h.slack.PostMessage(ctx, m.Channel, m.ThreadTS, h.loading.Random())
	if err != nil {
		slog.Error("failed to post placeholder, dropping mention", "channel", m.Channel, "error", err)
		return
	}

	room := h.rooms.Resolve(ctx, m.Channel)

	resp, err := h.chat.Chat(ctx, domain.ChatRequest{
		Query:        m.Text,
		SessionID:    service.DeterministicSessionID(m.Channel, m.ThreadTS),
		ClientName:   h.cfg.BotName,
		Assistants:   room.AssistantList,
		SystemPrompt: room.SystemPrompt,
	})
	if err != nil {
		h.replyChatFailure(ctx, m.Channel, placeholderTS, "mention", err)
		return
	}

	h.deliver(ctx, m.Channel, placeholderTS, h.formatter.Format(resp))
}

// deliver replaces the placeholder with the final message. A failed edit is
// only logged.
func (h *Handler) deliver(ctx context.Context, channel, ts string, msg slackio.Message) {
	if err := h.slack.UpdateMessage(ctx, channel, ts, msg); err != nil {
		slog.Error("failed to deliver answer", "channel", channel, "ts", ts, "error", err)
	}
}

func (h *Handler) replyChatFailure(ctx context.Context, channel, ts, flow string, err error) {
	slog.Error("chat request failed", "flow", flow, "channel", channel, "error", err)
	h.ops.LogError(err, flow+" in <#"+channel+">")
	h.deliver(ctx, channel, ts, slackio.Message{Text: service.SnagMessage(h.cfg.BotName)})
}
