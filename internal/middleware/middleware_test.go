package middleware

import (
	"context"
	"testing"

	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"

	"github.com/clementine-bot/clementine/internal/slackio"
)

func TestRecover_SwallowsPanic(t *testing.T) {
	h := Recover()(func(ctx context.Context, evt *slackio.Event) any {
		panic("boom")
	})

	var resp any
	assert.NotPanics(t, func() {
		resp = h(context.Background(), &slackio.Event{Kind: slackio.KindMention})
	})
	assert.Nil(t, resp)
}

func TestRecover_PassesResponse(t *testing.T) {
	want := slack.NewClearViewSubmissionResponse()
	h := Recover()(func(ctx context.Context, evt *slackio.Event) any { return want })

	assert.Same(t, want, h(context.Background(), &slackio.Event{Kind: slackio.KindViewSubmission}))
}

func TestLogging_PassesThrough(t *testing.T) {
	called := false
	h := Logging()(func(ctx context.Context, evt *slackio.Event) any {
		called = true
		return "ok"
	})

	evt := &slackio.Event{Kind: slackio.KindCommand, Command: &slack.SlashCommand{Command: "/ask", ChannelID: "C1"}}
	assert.Equal(t, "ok", h(context.Background(), evt))
	assert.True(t, called)
}
