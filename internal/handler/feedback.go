package handler

import (
	"context"
	"log/slog"

	"github.com/slack-go/slack"

	"github.com/clementine-bot/clementine/internal/domain"
	"github.com/clementine-bot/clementine/internal/slackio"
)

func feedbackTarget(cb *slack.InteractionCallback) domain.FeedbackTarget {
	t := domain.FeedbackTarget{
		Channel:   cb.Container.ChannelID,
		MessageTS: cb.Container.MessageTs,
		UserID:    cb.User.ID,
	}
	if t.Channel == "" {
		t.Channel = cb.Channel.ID
	}
	if t.MessageTS == "" {
		t.MessageTS = cb.Message.Timestamp
	}
	return t
}

// HandleFeedback swaps the buttons for a sending indicator, forwards the vote
// and then shows thanks or an error on the same message.
func (h *Handler) HandleFeedback(ctx context.Context, cb *slack.InteractionCallback, action *slack.BlockAction) {
	target := feedbackTarget(cb)

	positive, interactionID, err := slackio.ParseFeedbackValue(action.Value)
	if err != nil {
		slog.Warn("unparseable feedback value", "value", action.Value, "error", err)
		if target.Complete() {
			h.finishFeedback(ctx, target, false)
		}
		return
	}

	if target.Complete() && len(cb.Message.Blocks.BlockSet) > 0 {
		sending := slackio.Message{
			Text:   cb.Message.Text,
			Blocks: slackio.WithFeedbackStatus(cb.Message.Blocks.BlockSet, slackio.FeedbackSending),
		}
		if err := h.slack.UpdateMessage(ctx, target.Channel, target.MessageTS, sending); err != nil {
			slog.Warn("failed to show feedback indicator", "channel", target.Channel, "error", err)
		}
	}

	err = h.feedback.Send(ctx, domain.FeedbackVote{InteractionID: interactionID, IsPositive: positive})
	if err != nil {
		slog.Error("failed to send feedback", "interaction_id", interactionID, "error", err)
		h.ops.LogFeedbackFailure(interactionID, err)
	} else {
		slog.Info("feedback sent", "interaction_id", interactionID, "positive", positive, "user", target.UserID)
	}

	if !target.Complete() {
		return
	}
	h.finishFeedback(ctx, target, err == nil)
}

// finishFeedback re-reads the message so edits made since the click survive,
// then replaces the indicator. When the message cannot be read or edited the
// outcome goes to a threaded reply instead.
func (h *Handler) finishFeedback(ctx context.Context, t domain.FeedbackTarget, ok bool) {
	status := slackio.FeedbackError
	if ok {
		status = slackio.FeedbackThanks
	}

	current, err := h.slack.FetchMessage(ctx, t.Channel, t.MessageTS)
	if err == nil {
		updated := slackio.Message{Text: current.Text, Blocks: slackio.WithFeedbackStatus(current.Blocks, status)}
		if err = h.slack.UpdateMessage(ctx, t.Channel, t.MessageTS, updated); err == nil {
			return
		}
	}
	slog.Warn("could not update feedback status in place, replying in thread", "channel", t.Channel, "error", err)

	if _, err := h.slack.PostReply(ctx, t.Channel, t.MessageTS, slackio.FeedbackReply(ok)); err != nil {
		slog.Error("failed to post feedback reply", "channel", t.Channel, "error", err)
	}
}
