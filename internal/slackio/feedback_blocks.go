package slackio

import (
	"fmt"
	"strings"

	"github.com/slack-go/slack"

	"github.com/clementine-bot/clementine/internal/domain"
)

// Feedback lifecycle block ids. At most one of them is on a message.
const (
	BlockFeedbackActions = "feedback_actions"
	BlockFeedbackSending = "feedback_sending"
	BlockFeedbackThanks  = "feedback_thanks"
	BlockFeedbackError   = "feedback_error"
)

const (
	ActionFeedbackLike    = "feedback_like"
	ActionFeedbackDislike = "feedback_dislike"
)

type FeedbackStatus int

const (
	FeedbackSending FeedbackStatus = iota
	FeedbackThanks
	FeedbackError
)

const (
	feedbackSendingText = "⏳ Sending feedback..."
	feedbackThanksText  = "✅ Thank you for your feedback!"
	feedbackErrorText   = "⚠️ Oops, something went wrong sending feedback!"
)

func FeedbackButtons(interactionID string) *slack.ActionBlock {
	like := Button(ActionFeedbackLike, ActionFeedbackLike+"_"+interactionID, "👍 Helpful")
	dislike := Button(ActionFeedbackDislike, ActionFeedbackDislike+"_"+interactionID, "👎 Not helpful")
	return slack.NewActionBlock(BlockFeedbackActions, like, dislike)
}

// ParseFeedbackValue splits "feedback_{like|dislike}_{interaction id}". The
// id is everything after the second underscore and may contain underscores.
func ParseFeedbackValue(value string) (isPositive bool, interactionID string, err error) {
	parts := strings.SplitN(value, "_", 3)
	if len(parts) != 3 || parts[0] != "feedback" || parts[2] == "" {
		return false, "", fmt.Errorf("%w: %q", domain.ErrInvalidFeedbackData, value)
	}
	switch parts[1] {
	case "like":
		return true, parts[2], nil
	case "dislike":
		return false, parts[2], nil
	}
	return false, "", fmt.Errorf("%w: %q", domain.ErrInvalidFeedbackData, value)
}

// IsFeedbackBlock reports whether id belongs to the feedback lifecycle.
func IsFeedbackBlock(id string) bool {
	switch id {
	case BlockFeedbackActions, BlockFeedbackSending, BlockFeedbackThanks, BlockFeedbackError:
		return true
	}
	return false
}

// WithFeedbackStatus drops every feedback lifecycle block and appends the
// block for status. blocks is not modified.
func WithFeedbackStatus(blocks []slack.Block, status FeedbackStatus) []slack.Block {
	out := make([]slack.Block, 0, len(blocks)+1)
	for _, b := range blocks {
		if IsFeedbackBlock(BlockID(b)) {
			continue
		}
		out = append(out, b)
	}
	return append(out, FeedbackStatusBlock(status))
}

func FeedbackStatusBlock(status FeedbackStatus) *slack.ContextBlock {
	switch status {
	case FeedbackThanks:
		return ContextLine(BlockFeedbackThanks, feedbackThanksText)
	case FeedbackError:
		return ContextLine(BlockFeedbackError, feedbackErrorText)
	default:
		return ContextLine(BlockFeedbackSending, feedbackSendingText)
	}
}

// FeedbackReply is the threaded message posted when the original answer can
// no longer be edited.
func FeedbackReply(ok bool) Message {
	if ok {
		return Message{
			Text:   "Thank you for your feedback!",
			Blocks: []slack.Block{slack.NewContextBlock("", Mrkdwn(feedbackThanksText))},
		}
	}
	return Message{
		Text:   "Oops, something went wrong sending feedback!",
		Blocks: []slack.Block{slack.NewContextBlock("", Mrkdwn(feedbackErrorText))},
	}
}
