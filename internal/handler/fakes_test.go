package handler

import (
	"context"
	"errors"
	"sync"

	"github.com/slack-go/slack"

	"github.com/clementine-bot/clementine/internal/config"
	"github.com/clementine-bot/clementine/internal/domain"
	"github.com/clementine-bot/clementine/internal/slackio"
)

type post struct {
	Channel  string
	ThreadTS string
	Msg      slackio.Message
}

type update struct {
	Channel string
	TS      string
	Msg     slackio.Message
}

type fakeSlack struct {
	mu sync.Mutex

	posts   []post
	updates []update
	views   []slack.ModalViewRequest

	postErr   error
	updateErr error
	fetched   *slackio.Message
	fetchErr  error
}

func (f *fakeSlack) PostMessage(ctx context.Context, channel, threadTS, text string) (string, error) {
	return f.PostReply(ctx, channel, threadTS, slackio.Message{Text: text})
}

func (f *fakeSlack) PostReply(ctx context.Context, channel, threadTS string, msg slackio.Message) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.postErr != nil {
		return "", f.postErr
	}
	f.posts = append(f.posts, post{Channel: channel, ThreadTS: threadTS, Msg: msg})
	return "9.9", nil
}

func (f *fakeSlack) UpdateMessage(ctx context.Context, channel, ts string, msg slackio.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, update{Channel: channel, TS: ts, Msg: msg})
	return f.updateErr
}

func (f *fakeSlack) FetchMessage(ctx context.Context, channel, ts string) (slackio.Message, error) {
	if f.fetchErr != nil {
		return slackio.Message{}, f.fetchErr
	}
	if f.fetched != nil {
		return *f.fetched, nil
	}
	return slackio.Message{}, domain.ErrMessageUnavailable
}

func (f *fakeSlack) OpenView(ctx context.Context, triggerID string, view slack.ModalViewRequest) error {
	f.views = append(f.views, view)
	return nil
}

type fakeChat struct {
	requests   []domain.ChatRequest
	resp       *domain.ChatResponse
	err        error
	assistants []domain.Assistant
	listErr    error
}

func (f *fakeChat) Chat(ctx context.Context, r domain.ChatRequest) (*domain.ChatResponse, error) {
	f.requests = append(f.requests, r)
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func (f *fakeChat) ListAssistants(ctx context.Context) ([]domain.Assistant, error) {
	return f.assistants, f.listErr
}

type fakeFeedback struct {
	votes []domain.FeedbackVote
	err   error
}

func (f *fakeFeedback) Send(ctx context.Context, vote domain.FeedbackVote) error {
	f.votes = append(f.votes, vote)
	return f.err
}

type fakeRooms struct {
	resolved domain.ResolvedRoomConfig
	view     domain.RoomConfigView
	saved    []domain.RoomConfigInput
	saveErr  error
	resets   []string
	resetErr error
}

func (f *fakeRooms) Resolve(ctx context.Context, roomID string) domain.ResolvedRoomConfig {
	r := f.resolved
	r.RoomID = roomID
	return r
}

func (f *fakeRooms) Save(ctx context.Context, roomID string, in domain.RoomConfigInput) error {
	f.saved = append(f.saved, in)
	return f.saveErr
}

func (f *fakeRooms) Reset(ctx context.Context, roomID string) error {
	f.resets = append(f.resets, roomID)
	return f.resetErr
}

func (f *fakeRooms) View(ctx context.Context, roomID string) domain.RoomConfigView {
	return f.view
}

type fakeExtractor struct {
	chunks      []string
	threadCalls int
	limit       int
}

func (f *fakeExtractor) ExtractThread(ctx context.Context, channel, threadTS string, limit int) []string {
	f.threadCalls++
	f.limit = limit
	return f.chunks
}

func (f *fakeExtractor) ExtractChannel(ctx context.Context, channel string, limit int) []string {
	f.limit = limit
	return f.chunks
}

type staticLoading string

func (s staticLoading) Random() string { return string(s) }

type fakeOps struct {
	errors  []string
	changes []string
	failed  []string
}

func (f *fakeOps) LogError(err error, where string) { f.errors = append(f.errors, where) }

func (f *fakeOps) LogConfigChange(roomID, userID, action string) {
	f.changes = append(f.changes, roomID+":"+action)
}

func (f *fakeOps) LogFeedbackFailure(interactionID string, err error) {
	f.failed = append(f.failed, interactionID)
}

var errBoom = errors.New("boom")

type harness struct {
	h         *Handler
	slack     *fakeSlack
	chat      *fakeChat
	feedback  *fakeFeedback
	rooms     *fakeRooms
	extractor *fakeExtractor
	ops       *fakeOps
}

func newHarness() *harness {
	hs := &harness{
		slack:    &fakeSlack{},
		chat:     &fakeChat{resp: &domain.ChatResponse{Text: "Answer", InteractionID: "int-1"}},
		feedback: &fakeFeedback{},
		rooms: &fakeRooms{resolved: domain.ResolvedRoomConfig{
			AssistantList:     []string{"konflux"},
			SystemPrompt:      "Be helpful",
			ContextWindowSize: 50,
		}},
		extractor: &fakeExtractor{},
		ops:       &fakeOps{},
	}
	cfg := &config.Config{
		BotName:       "Clementine",
		AskCommand:    "/clementine",
		ConfigCommand: "/clementine-config",
		AssistantList: []string{"konflux"},
		ModelOverride: "gpt-x",
	}
	hs.h = New(Deps{
		Cfg: cfg,
		Prompts: config.Prompts{
			System:         "system",
			User:           "user",
			AnalysisSystem: "analysis system",
			AnalysisUser:   "analysis user",
		},
		Slack:     hs.slack,
		Chat:      hs.chat,
		Feedback:  hs.feedback,
		Rooms:     hs.rooms,
		Extractor: hs.extractor,
		Loading:   staticLoading("Thinking..."),
		Formatter: slackio.NewFormatter(slackio.FormatterOptions{}),
		Ops:       hs.ops,
	})
	return hs
}
