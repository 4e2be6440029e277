package slackio

import (
	"context"
	"net/url"
	"sync"

	"github.com/slack-go/slack"
)

type postedMessage struct {
	Channel string
	TS      string
	Values  url.Values
}

// fakeAPI records calls and serves canned responses.
type fakeAPI struct {
	mu sync.Mutex

	posts   []postedMessage
	updates []postedMessage
	views   []slack.ModalViewRequest

	postErr    error
	updateErrs []error

	history    []slack.Message
	historyErr error
	replies    []slack.Message
	repliesErr error
	users      map[string]*slack.User
	botUserID  string
}

func applyOptions(channel string, options ...slack.MsgOption) url.Values {
	_, values, _ := slack.UnsafeApplyMsgOptions("token", channel, "https://slack.com/api/", options...)
	return values
}

func (f *fakeAPI) AuthTestContext(ctx context.Context) (*slack.AuthTestResponse, error) {
	return &slack.AuthTestResponse{UserID: f.botUserID}, nil
}

func (f *fakeAPI) PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.postErr != nil {
		return "", "", f.postErr
	}
	f.posts = append(f.posts, postedMessage{Channel: channelID, Values: applyOptions(channelID, options...)})
	return channelID, "1700000000.000100", nil
}

func (f *fakeAPI) UpdateMessageContext(ctx context.Context, channelID, timestamp string, options ...slack.MsgOption) (string, string, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, postedMessage{Channel: channelID, TS: timestamp, Values: applyOptions(channelID, options...)})
	if len(f.updateErrs) > 0 {
		err := f.updateErrs[0]
		f.updateErrs = f.updateErrs[1:]
		if err != nil {
			return "", "", "", err
		}
	}
	return channelID, timestamp, "", nil
}

func (f *fakeAPI) GetConversationHistoryContext(ctx context.Context, params *slack.GetConversationHistoryParameters) (*slack.GetConversationHistoryResponse, error) {
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	return &slack.GetConversationHistoryResponse{Messages: f.history}, nil
}

func (f *fakeAPI) GetConversationRepliesContext(ctx context.Context, params *slack.GetConversationRepliesParameters) ([]slack.Message, bool, string, error) {
	if f.repliesErr != nil {
		return nil, false, "", f.repliesErr
	}
	return f.replies, false, "", nil
}

func (f *fakeAPI) GetUserInfoContext(ctx context.Context, user string) (*slack.User, error) {
	if u, ok := f.users[user]; ok {
		return u, nil
	}
	return nil, slack.SlackErrorResponse{Err: "user_not_found"}
}

func (f *fakeAPI) OpenViewContext(ctx context.Context, triggerID string, view slack.ModalViewRequest) (*slack.ViewResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.views = append(f.views, view)
	return &slack.ViewResponse{}, nil
}

func slackMessage(ts, text string, blocks ...slack.Block) slack.Message {
	msg := slack.Message{}
	msg.Timestamp = ts
	msg.Text = text
	msg.Blocks = slack.Blocks{BlockSet: blocks}
	return msg
}
