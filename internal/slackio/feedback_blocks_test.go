package slackio

import (
	"testing"

	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clementine-bot/clementine/internal/domain"
)

func TestParseFeedbackValue(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		positive bool
		id       string
		wantErr  bool
	}{
		{name: "like", value: "feedback_like_abc-123", positive: true, id: "abc-123"},
		{name: "dislike", value: "feedback_dislike_abc-123", positive: false, id: "abc-123"},
		{name: "id with underscores", value: "feedback_like_a_b_c", positive: true, id: "a_b_c"},
		{name: "garbage", value: "garbage", wantErr: true},
		{name: "empty id", value: "feedback_like_", wantErr: true},
		{name: "unknown verb", value: "feedback_meh_abc", wantErr: true},
		{name: "wrong prefix", value: "vote_like_abc", wantErr: true},
		{name: "empty", value: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			positive, id, err := ParseFeedbackValue(tt.value)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidFeedbackData)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.positive, positive)
			assert.Equal(t, tt.id, id)
		})
	}
}

func TestWithFeedbackStatus(t *testing.T) {
	original := []slack.Block{
		Section(BlockAnswer, "answer"),
		ContextLine(BlockSources, "sources"),
		FeedbackButtons("abc"),
	}

	sending := WithFeedbackStatus(original, FeedbackSending)
	assert.Equal(t, []string{BlockAnswer, BlockSources, BlockFeedbackSending}, blockIDs(sending))
	assert.Len(t, original, 3, "input is not modified")

	thanks := WithFeedbackStatus(sending, FeedbackThanks)
	assert.Equal(t, []string{BlockAnswer, BlockSources, BlockFeedbackThanks}, blockIDs(thanks))

	failed := WithFeedbackStatus(thanks, FeedbackError)
	assert.Equal(t, []string{BlockAnswer, BlockSources, BlockFeedbackError}, blockIDs(failed))
}

func TestWithFeedbackStatus_SingleLifecycleBlock(t *testing.T) {
	messy := []slack.Block{
		Section(BlockAnswer, "answer"),
		ContextLine(BlockFeedbackSending, "x"),
		ContextLine(BlockFeedbackError, "y"),
		FeedbackButtons("abc"),
	}
	got := WithFeedbackStatus(messy, FeedbackThanks)
	assert.Equal(t, []string{BlockAnswer, BlockFeedbackThanks}, blockIDs(got))
}

func TestFeedbackReply(t *testing.T) {
	ok := FeedbackReply(true)
	assert.Equal(t, "Thank you for your feedback!", ok.Text)
	require.Len(t, ok.Blocks, 1)

	failed := FeedbackReply(false)
	assert.Equal(t, "Oops, something went wrong sending feedback!", failed.Text)
}
