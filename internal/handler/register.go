package handler

import (
	"context"
	"log/slog"
	"strings"

	"github.com/clementine-bot/clementine/internal/domain"
	"github.com/clementine-bot/clementine/internal/slackio"
)

// Register wires all event routes on the listener.
func (h *Handler) Register(l *slackio.Listener) {
	l.OnMention(h.onMention)

	l.OnCommand(h.cfg.AskCommand, h.onAskCommand)
	l.OnCommand(h.cfg.ConfigCommand, h.onConfigCommand)

	l.OnAction(slackio.ActionFeedbackLike, h.onFeedback)
	l.OnAction(slackio.ActionFeedbackDislike, h.onFeedback)

	l.OnViewSubmission(ConfigModalCallbackID, h.onConfigSubmit)
}

func (h *Handler) onMention(ctx context.Context, evt *slackio.Event) any {
	m := evt.Mention
	if m.BotID != "" {
		return nil
	}
	mention, err := domain.NewMentionEvent(m.Text, m.User, m.Channel, m.TimeStamp, m.ThreadTimeStamp)
	if err != nil {
		slog.Warn("dropping mention", "channel", m.Channel, "error", err)
		return nil
	}
	h.HandleMention(ctx, mention)
	return nil
}

func (h *Handler) onAskCommand(ctx context.Context, evt *slackio.Event) any {
	cmd := evt.Command
	h.HandleAsk(ctx, domain.AskCommand{
		Question: strings.TrimSpace(cmd.Text),
		UserID:   cmd.UserID,
		Channel:  cmd.ChannelID,
	})
	return nil
}

func (h *Handler) onConfigCommand(ctx context.Context, evt *slackio.Event) any {
	cmd := evt.Command
	if err := h.OpenConfig(ctx, cmd.TriggerID, cmd.ChannelID); err != nil {
		slog.Error("failed to open config modal", "room_id", cmd.ChannelID, "error", err)
	}
	return nil
}

func (h *Handler) onFeedback(ctx context.Context, evt *slackio.Event) any {
	h.HandleFeedback(ctx, evt.Callback, evt.Action)
	return nil
}

func (h *Handler) onConfigSubmit(ctx context.Context, evt *slackio.Event) any {
	return h.SubmitConfig(ctx, evt.Callback)
}
