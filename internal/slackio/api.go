// Package slackio is the Slack side of the bot: Web API calls, Block Kit
// rendering and the Socket Mode event loop.
package slackio

import (
	"context"

	"github.com/slack-go/slack"
)

// SlackAPI is the subset of *slack.Client the bot calls. Tests substitute a
// fake.
type SlackAPI interface {
	AuthTestContext(ctx context.Context) (*slack.AuthTestResponse, error)

	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
	UpdateMessageContext(ctx context.Context, channelID, timestamp string, options ...slack.MsgOption) (string, string, string, error)

	GetConversationHistoryContext(ctx context.Context, params *slack.GetConversationHistoryParameters) (*slack.GetConversationHistoryResponse, error)
	GetConversationRepliesContext(ctx context.Context, params *slack.GetConversationRepliesParameters) ([]slack.Message, bool, string, error)

	GetUserInfoContext(ctx context.Context, user string) (*slack.User, error)

	OpenViewContext(ctx context.Context, triggerID string, view slack.ModalViewRequest) (*slack.ViewResponse, error)
}

// Message is a renderable reply: fallback text plus optional blocks.
type Message struct {
	Text   string
	Blocks []slack.Block
}

func (m Message) options() []slack.MsgOption {
	opts := []slack.MsgOption{slack.MsgOptionText(m.Text, false)}
	if len(m.Blocks) > 0 {
		opts = append(opts, slack.MsgOptionBlocks(m.Blocks...))
	}
	return opts
}

// NewClient builds the Web API client used by both the Messenger and the
// Socket Mode listener.
func NewClient(botToken, appToken string, debug bool) *slack.Client {
	return slack.New(
		botToken,
		slack.OptionDebug(debug),
		slack.OptionAppLevelToken(appToken),
	)
}
