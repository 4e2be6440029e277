package handler

import (
	"context"

	"github.com/slack-go/slack"

	"github.com/clementine-bot/clementine/internal/config"
	"github.com/clementine-bot/clementine/internal/domain"
	"github.com/clementine-bot/clementine/internal/slackio"
)

// Slack is the messaging surface the flows write to. *slackio.Messenger
// implements it.
type Slack interface {
	PostMessage(ctx context.Context, channel, threadTS, text string) (string, error)
	PostReply(ctx context.Context, channel, threadTS string, msg slackio.Message) (string, error)
	UpdateMessage(ctx context.Context, channel, ts string, msg slackio.Message) error
	FetchMessage(ctx context.Context, channel, ts string) (slackio.Message, error)
	OpenView(ctx context.Context, triggerID string, view slack.ModalViewRequest) error
}

type ChatClient interface {
	Chat(ctx context.Context, r domain.ChatRequest) (*domain.ChatResponse, error)
	ListAssistants(ctx context.Context) ([]domain.Assistant, error)
}

type FeedbackSender interface {
	Send(ctx context.Context, vote domain.FeedbackVote) error
}

type RoomConfigs interface {
	Resolve(ctx context.Context, roomID string) domain.ResolvedRoomConfig
	Save(ctx context.Context, roomID string, in domain.RoomConfigInput) error
	Reset(ctx context.Context, roomID string) error
	View(ctx context.Context, roomID string) domain.RoomConfigView
}

type ContextExtractor interface {
	ExtractThread(ctx context.Context, channel, threadTS string, limit int) []string
	ExtractChannel(ctx context.Context, channel string, limit int) []string
}

type LoadingMessages interface {
	Random() string
}

// OpsLogger receives operator-facing summaries. *slackio.OpsLogger
// implements it.
type OpsLogger interface {
	LogError(err error, where string)
	LogConfigChange(roomID, userID, action string)
	LogFeedbackFailure(interactionID string, err error)
}

// Handler holds all dependencies needed by the event flows.
type Handler struct {
	cfg       *config.Config
	prompts   config.Prompts
	slack     Slack
	chat      ChatClient
	feedback  FeedbackSender
	rooms     RoomConfigs
	extractor ContextExtractor
	loading   LoadingMessages
	formatter slackio.Formatter
	ops       OpsLogger
}

// Deps contains all dependencies required to construct a Handler.
type Deps struct {
	Cfg       *config.Config
	Prompts   config.Prompts
	Slack     Slack
	Chat      ChatClient
	Feedback  FeedbackSender
	Rooms     RoomConfigs
	Extractor ContextExtractor
	Loading   LoadingMessages
	Formatter slackio.Formatter
	Ops       OpsLogger
}

// New creates a new Handler from the provided dependencies.
func New(deps Deps) *Handler {
	return &Handler{
		cfg:       deps.Cfg,
		prompts:   deps.Prompts,
		slack:     deps.Slack,
		chat:      deps.Chat,
		feedback:  deps.Feedback,
		rooms:     deps.Rooms,
		extractor: deps.Extractor,
		loading:   deps.Loading,
		formatter: deps.Formatter,
		ops:       deps.Ops,
	}
}
