package handler

import (
	"context"
	"testing"

	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clementine-bot/clementine/internal/slackio"
)

func blockIDs(blocks []slack.Block) []string {
	ids := make([]string, len(blocks))
	for i, b := range blocks {
		ids[i] = slackio.BlockID(b)
	}
	return ids
}

func answerBlocks() []slack.Block {
	return []slack.Block{
		slackio.Section(slackio.BlockAnswer, "Answer"),
		slackio.FeedbackButtons("abc-123"),
	}
}

func feedbackCallback(value string) (*slack.InteractionCallback, *slack.BlockAction) {
	cb := &slack.InteractionCallback{Type: slack.InteractionTypeBlockActions}
	cb.Container.ChannelID = "C1"
	cb.Container.MessageTs = "9.9"
	cb.User.ID = "U1"
	cb.Message.Text = "Answer"
	cb.Message.Blocks = slack.Blocks{BlockSet: answerBlocks()}
	return cb, &slack.BlockAction{ActionID: slackio.ActionFeedbackLike, Value: value}
}

func TestHandleFeedback_Success(t *testing.T) {
	hs := newHarness()
	hs.slack.fetched = &slackio.Message{Text: "Answer", Blocks: slackio.WithFeedbackStatus(answerBlocks(), slackio.FeedbackSending)}
	cb, action := feedbackCallback("feedback_like_abc-123")

	hs.h.HandleFeedback(context.Background(), cb, action)

	require.Len(t, hs.feedback.votes, 1)
	assert.Equal(t, "abc-123", hs.feedback.votes[0].InteractionID)
	assert.True(t, hs.feedback.votes[0].IsPositive)
	assert.Empty(t, hs.feedback.votes[0].FreeText)

	require.Len(t, hs.slack.updates, 2)
	assert.Equal(t, []string{slackio.BlockAnswer, slackio.BlockFeedbackSending}, blockIDs(hs.slack.updates[0].Msg.Blocks))
	assert.Equal(t, []string{slackio.BlockAnswer, slackio.BlockFeedbackThanks}, blockIDs(hs.slack.updates[1].Msg.Blocks))
	assert.Equal(t, "Answer", hs.slack.updates[1].Msg.Text)
	assert.Empty(t, hs.slack.posts)
}

func TestHandleFeedback_SendFailureShowsError(t *testing.T) {
	hs := newHarness()
	hs.feedback.err = errBoom
	hs.slack.fetched = &slackio.Message{Text: "Answer", Blocks: answerBlocks()}
	cb, action := feedbackCallback("feedback_dislike_abc-123")

	hs.h.HandleFeedback(context.Background(), cb, action)

	require.Len(t, hs.feedback.votes, 1)
	assert.False(t, hs.feedback.votes[0].IsPositive)
	require.Len(t, hs.slack.updates, 2)
	assert.Equal(t, []string{slackio.BlockAnswer, slackio.BlockFeedbackError}, blockIDs(hs.slack.updates[1].Msg.Blocks))
	assert.Equal(t, []string{"abc-123"}, hs.ops.failed)
}

func TestHandleFeedback_UnreadableMessageRepliesInThread(t *testing.T) {
	hs := newHarness()
	hs.slack.fetchErr = errBoom
	cb, action := feedbackCallback("feedback_like_abc-123")

	hs.h.HandleFeedback(context.Background(), cb, action)

	require.Len(t, hs.slack.posts, 1)
	assert.Equal(t, "9.9", hs.slack.posts[0].ThreadTS)
	assert.Equal(t, slackio.FeedbackReply(true).Text, hs.slack.posts[0].Msg.Text)
}

func TestHandleFeedback_GarbageWithContextShowsError(t *testing.T) {
	hs := newHarness()
	hs.slack.fetched = &slackio.Message{Text: "Answer", Blocks: answerBlocks()}
	cb, action := feedbackCallback("garbage")

	hs.h.HandleFeedback(context.Background(), cb, action)

	assert.Empty(t, hs.feedback.votes)
	require.Len(t, hs.slack.updates, 1)
	assert.Equal(t, []string{slackio.BlockAnswer, slackio.BlockFeedbackError}, blockIDs(hs.slack.updates[0].Msg.Blocks))
}

func TestHandleFeedback_GarbageWithoutContextDoesNothing(t *testing.T) {
	hs := newHarness()
	cb, action := feedbackCallback("garbage")
	cb.Container.ChannelID = ""

	hs.h.HandleFeedback(context.Background(), cb, action)

	assert.Empty(t, hs.feedback.votes)
	assert.Empty(t, hs.slack.updates)
	assert.Empty(t, hs.slack.posts)
}
