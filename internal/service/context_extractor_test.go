package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/clementine-bot/clementine/internal/domain"
)

type fakeHistory struct {
	thread     []domain.PlatformMessage
	channel    []domain.PlatformMessage
	users      map[string]domain.UserInfo
	historyErr error
	lookups    map[string]int
	lastLimit  int
}

func (f *fakeHistory) ThreadReplies(_ context.Context, _, _ string, limit int) ([]domain.PlatformMessage, error) {
	f.lastLimit = limit
	return f.thread, f.historyErr
}

func (f *fakeHistory) ChannelHistory(_ context.Context, _ string, limit int) ([]domain.PlatformMessage, error) {
	f.lastLimit = limit
	return f.channel, f.historyErr
}

func (f *fakeHistory) LookupUser(_ context.Context, userID string) (domain.UserInfo, error) {
	if f.lookups == nil {
		f.lookups = map[string]int{}
	}
	f.lookups[userID]++
	info, ok := f.users[userID]
	if !ok {
		return domain.UserInfo{}, errors.New("user_not_found")
	}
	return info, nil
}

func TestExtractChannelReversesHistory(t *testing.T) {
	src := &fakeHistory{
		channel: []domain.PlatformMessage{
			{Text: "third", UserID: "U1", Timestamp: "3"},
			{Text: "second", UserID: "U2", Timestamp: "2"},
			{Text: "first", UserID: "U1", Timestamp: "1"},
		},
		users: map[string]domain.UserInfo{
			"U1": {RealName: "Alice"},
			"U2": {DisplayName: "bob"},
		},
	}
	e := NewContextExtractor(src, NewUserNameCache())

	got := e.ExtractChannel(context.Background(), "C1", 50)
	assert.Equal(t, []string{"Alice: first", "bob: second", "Alice: third"}, got)
	assert.Equal(t, 50, src.lastLimit)
	assert.Equal(t, 1, src.lookups["U1"], "author looked up once")
	assert.Equal(t, "second", src.channel[1].Text, "source slice is not mutated")
}

func TestExtractThreadPreservesOrder(t *testing.T) {
	src := &fakeHistory{
		thread: []domain.PlatformMessage{
			{Text: "root", UserID: "U1", Timestamp: "1"},
			{Text: "reply", UserID: "U2", Timestamp: "2"},
		},
		users: map[string]domain.UserInfo{"U1": {Username: "alice"}, "U2": {RealName: "Bob B"}},
	}
	e := NewContextExtractor(src, NewUserNameCache())

	got := e.ExtractThread(context.Background(), "C1", "1", 20)
	assert.Equal(t, []string{"alice: root", "Bob B: reply"}, got)
	assert.Equal(t, 20, src.lastLimit)
}

func TestExtractFiltersNonHuman(t *testing.T) {
	src := &fakeHistory{
		thread: []domain.PlatformMessage{
			{Text: "from bot", BotID: "B1"},
			{Text: "joined", UserID: "U1", SubType: "channel_join"},
			{Text: "   ", UserID: "U1"},
			{Text: "  kept  ", UserID: "U1"},
		},
		users: map[string]domain.UserInfo{"U1": {RealName: "Alice"}},
	}
	e := NewContextExtractor(src, NewUserNameCache())

	got := e.ExtractThread(context.Background(), "C1", "1", 10)
	assert.Equal(t, []string{"Alice: kept"}, got)
}

func TestExtractNameFallbacks(t *testing.T) {
	src := &fakeHistory{
		thread: []domain.PlatformMessage{
			{Text: "a", UserID: "U404"},
			{Text: "b", UserID: "U404"},
			{Text: "c"},
			{Text: "d", UserID: "U5"},
		},
		users: map[string]domain.UserInfo{"U5": {RealName: " ", DisplayName: ""}},
	}
	names := NewUserNameCache()
	e := NewContextExtractor(src, names)

	got := e.ExtractThread(context.Background(), "C1", "1", 10)
	assert.Equal(t, []string{"U404: a", "U404: b", "unknown: c", "U5: d"}, got)
	assert.Equal(t, 1, src.lookups["U404"], "failed lookup is cached")
	assert.Zero(t, src.lookups["unknown"])
}

func TestExtractErrorsYieldEmpty(t *testing.T) {
	src := &fakeHistory{historyErr: errors.New("not_in_channel")}
	e := NewContextExtractor(src, NewUserNameCache())

	assert.Empty(t, e.ExtractThread(context.Background(), "C1", "1", 10))
	assert.Empty(t, e.ExtractChannel(context.Background(), "C1", 10))
}

func TestThreadMessagesCarryMetadata(t *testing.T) {
	src := &fakeHistory{
		thread: []domain.PlatformMessage{{Text: "hi", UserID: "U1", Timestamp: "100.1"}},
		users:  map[string]domain.UserInfo{"U1": {RealName: "Alice"}},
	}
	e := NewContextExtractor(src, NewUserNameCache())

	msgs := e.ThreadMessages(context.Background(), "C1", "100.1", 5)
	assert.Equal(t, []domain.ContextMessage{{Text: "hi", AuthorID: "U1", AuthorName: "Alice", Timestamp: "100.1"}}, msgs)
}
