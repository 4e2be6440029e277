package handler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/clementine-bot/clementine/internal/domain"
	"github.com/clementine-bot/clementine/internal/service"
	"github.com/clementine-bot/clementine/internal/slackio"
)

// HandleAsk answers a question about the recent conversation in a channel or
// thread. Each invocation is a one-shot session.
func (h *Handler) HandleAsk(ctx context.Context, q domain.AskCommand) {
	if q.Question == "" {
		usage := fmt.Sprintf("Usage: `%s <question about this conversation>`", h.cfg.AskCommand)
		if _, err := h.slack.PostMessage(ctx, q.Channel, q.ThreadTS, usage); err != nil {
			slog.Error("failed to post usage", "channel", q.Channel, "error", err)
		}
		return
	}

	placeholderTS, err := h.slack.PostMessage(ctx, q.Channel, q.ThreadTS, h.loading.Random())
	if err != nil {
		slog.Error("failed to post placeholder, dropping question", "channel", q.Channel, "error", err)
		return
	}

	room := h.rooms.Resolve(ctx, q.Channel)

	var chunks []string
	if q.ThreadTS != "" {
		chunks = h.extractor.ExtractThread(ctx, q.Channel, q.ThreadTS, room.ContextWindowSize)
	} else {
		chunks = h.extractor.ExtractChannel(ctx, q.Channel, room.ContextWindowSize)
	}
	if len(chunks) == 0 {
		slog.Info("no context for question", "channel", q.Channel, "thread_ts", q.ThreadTS)
		h.deliver(ctx, q.Channel, placeholderTS, slackio.Message{Text: service.NoContextMessage})
		return
	}

	resp, err := h.chat.Chat(ctx, domain.ChatRequest{
		Query:        q.Question,
		Chunks:       chunks,
		SessionID:    service.FreshSessionID(),
		ClientName:   h.cfg.BotName,
		SystemPrompt: h.prompts.AnalysisSystem,
		UserPrompt:   h.prompts.AnalysisUser,
		Model:        h.cfg.ModelOverride,
	})
	if err != nil {
		h.replyChatFailure(ctx, q.Channel, placeholderTS, "ask", err)
		return
	}

	slog.Info("answered context question", "channel", q.Channel, "user", q.UserID, "chunks", len(chunks))
	h.deliver(ctx, q.Channel, placeholderTS, h.formatter.Format(resp))
}
