package slackio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/slack-go/slack"

	"github.com/clementine-bot/clementine/internal/config"
	"github.com/clementine-bot/clementine/internal/domain"
)

// Messenger performs every Slack call the handlers need, each bounded by
// config.SlackCallTimeout. It also serves as the extractor's history source.
type Messenger struct {
	api SlackAPI
}

func NewMessenger(api SlackAPI) *Messenger {
	return &Messenger{api: api}
}

// PostMessage posts text to a channel, in a thread when threadTS is set, and
// returns the new message's timestamp.
func (m *Messenger) PostMessage(ctx context.Context, channel, threadTS, text string) (string, error) {
	return m.PostReply(ctx, channel, threadTS, Message{Text: text})
}

func (m *Messenger) PostReply(ctx context.Context, channel, threadTS string, msg Message) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, config.SlackCallTimeout)
	defer cancel()

	opts := msg.options()
	if threadTS != "" {
		opts = append(opts, slack.MsgOptionTS(threadTS))
	}
	_, ts, err := m.api.PostMessageContext(ctx, channel, opts...)
	if err != nil {
		return "", fmt.Errorf("post message: %w", err)
	}
	return ts, nil
}

// UpdateMessage replaces a message in place. When Slack rejects the blocks
// it retries with the fallback text alone.
func (m *Messenger) UpdateMessage(ctx context.Context, channel, ts string, msg Message) error {
	ctx, cancel := context.WithTimeout(ctx, config.SlackCallTimeout)
	defer cancel()

	_, _, _, err := m.api.UpdateMessageContext(ctx, channel, ts, msg.options()...)
	if err == nil {
		return nil
	}
	if len(msg.Blocks) == 0 || !isBlocksError(err) {
		return fmt.Errorf("update message: %w", err)
	}

	slog.Warn("block update rejected, falling back to plain text", "channel", channel, "ts", ts, "error", err)
	_, _, _, err = m.api.UpdateMessageContext(ctx, channel, ts, slack.MsgOptionText(msg.Text, false))
	if err != nil {
		return fmt.Errorf("update message: %w", err)
	}
	return nil
}

func isBlocksError(err error) bool {
	var slackErr slack.SlackErrorResponse
	if errors.As(err, &slackErr) {
		return slackErr.Err == "invalid_blocks" || slackErr.Err == "invalid_blocks_format"
	}
	return false
}

// FetchMessage re-reads a message's current blocks and text. Top-level
// messages come from channel history, thread replies from conversations.replies.
// Returns domain.ErrMessageUnavailable when the message cannot be read.
func (m *Messenger) FetchMessage(ctx context.Context, channel, ts string) (Message, error) {
	ctx, cancel := context.WithTimeout(ctx, config.SlackCallTimeout)
	defer cancel()

	hist, err := m.api.GetConversationHistoryContext(ctx, &slack.GetConversationHistoryParameters{
		ChannelID: channel,
		Latest:    ts,
		Inclusive: true,
		Limit:     1,
	})
	if err == nil {
		for _, msg := range hist.Messages {
			if msg.Timestamp == ts {
				return Message{Text: msg.Text, Blocks: msg.Blocks.BlockSet}, nil
			}
		}
	} else {
		slog.Debug("history lookup failed, trying replies", "channel", channel, "ts", ts, "error", err)
	}

	replies, _, _, err := m.api.GetConversationRepliesContext(ctx, &slack.GetConversationRepliesParameters{
		ChannelID: channel,
		Timestamp: ts,
		Latest:    ts,
		Inclusive: true,
		Limit:     1,
	})
	if err != nil {
		return Message{}, fmt.Errorf("%w: %v", domain.ErrMessageUnavailable, err)
	}
	for _, msg := range replies {
		if msg.Timestamp == ts {
			return Message{Text: msg.Text, Blocks: msg.Blocks.BlockSet}, nil
		}
	}
	return Message{}, domain.ErrMessageUnavailable
}

func (m *Messenger) ThreadReplies(ctx context.Context, channel, threadTS string, limit int) ([]domain.PlatformMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, config.SlackCallTimeout)
	defer cancel()

	msgs, _, _, err := m.api.GetConversationRepliesContext(ctx, &slack.GetConversationRepliesParameters{
		ChannelID: channel,
		Timestamp: threadTS,
		Limit:     limit,
	})
	if err != nil {
		return nil, fmt.Errorf("conversations.replies: %w", err)
	}
	return toPlatform(msgs), nil
}

func (m *Messenger) ChannelHistory(ctx context.Context, channel string, limit int) ([]domain.PlatformMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, config.SlackCallTimeout)
	defer cancel()

	resp, err := m.api.GetConversationHistoryContext(ctx, &slack.GetConversationHistoryParameters{
		ChannelID: channel,
		Limit:     limit,
	})
	if err != nil {
		return nil, fmt.Errorf("conversations.history: %w", err)
	}
	return toPlatform(resp.Messages), nil
}

func (m *Messenger) LookupUser(ctx context.Context, userID string) (domain.UserInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, config.SlackCallTimeout)
	defer cancel()

	u, err := m.api.GetUserInfoContext(ctx, userID)
	if err != nil {
		return domain.UserInfo{}, fmt.Errorf("users.info: %w", err)
	}
	return domain.UserInfo{
		RealName:    u.RealName,
		DisplayName: u.Profile.DisplayName,
		Username:    u.Name,
	}, nil
}

func (m *Messenger) OpenView(ctx context.Context, triggerID string, view slack.ModalViewRequest) error {
	ctx, cancel := context.WithTimeout(ctx, config.SlackCallTimeout)
	defer cancel()

	if _, err := m.api.OpenViewContext(ctx, triggerID, view); err != nil {
		return fmt.Errorf("views.open: %w", err)
	}
	return nil
}

// BotUserID asks Slack who the bot is.
func (m *Messenger) BotUserID(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, config.SlackCallTimeout)
	defer cancel()

	resp, err := m.api.AuthTestContext(ctx)
	if err != nil {
		return "", fmt.Errorf("auth.test: %w", err)
	}
	return resp.UserID, nil
}

func toPlatform(msgs []slack.Message) []domain.PlatformMessage {
	out := make([]domain.PlatformMessage, len(msgs))
	for i, msg := range msgs {
		out[i] = domain.PlatformMessage{
			Text:      msg.Text,
			UserID:    msg.User,
			BotID:     msg.BotID,
			SubType:   msg.SubType,
			Timestamp: msg.Timestamp,
			ThreadTS:  msg.ThreadTimestamp,
		}
	}
	return out
}
