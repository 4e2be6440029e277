package slackio

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePoster struct {
	channel string
	texts   []string
}

func (p *fakePoster) PostMessage(ctx context.Context, channel, threadTS, text string) (string, error) {
	p.channel = channel
	p.texts = append(p.texts, text)
	return "1.1", nil
}

func TestOpsLogger_Disabled(t *testing.T) {
	p := &fakePoster{}
	NewOpsLogger(p, "").LogError(errors.New("boom"), "mention")
	assert.Empty(t, p.texts)

	var nilLogger *OpsLogger
	nilLogger.LogError(errors.New("boom"), "mention")
}

func TestOpsLogger_LogError(t *testing.T) {
	p := &fakePoster{}
	l := NewOpsLogger(p, "C-OPS")
	l.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

	l.LogError(errors.New("boom"), "mention")

	require.Len(t, p.texts, 1)
	assert.Equal(t, "C-OPS", p.channel)
	assert.Contains(t, p.texts[0], "*Context:* mention")
	assert.Contains(t, p.texts[0], "`boom`")
	assert.Contains(t, p.texts[0], "2026-01-02 03:04:05")
}

func TestOpsLogger_LogConfigChange(t *testing.T) {
	p := &fakePoster{}
	NewOpsLogger(p, "C-OPS").LogConfigChange("C1", "U1", "reset")

	require.Len(t, p.texts, 1)
	assert.Contains(t, p.texts[0], "Room config reset")
	assert.Contains(t, p.texts[0], "<#C1>")
	assert.Contains(t, p.texts[0], "<@U1>")
}
