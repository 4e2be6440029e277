package slackio

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/clementine-bot/clementine/internal/config"
)

// Poster posts plain text to a channel.
type Poster interface {
	PostMessage(ctx context.Context, channel, threadTS, text string) (string, error)
}

// OpsLogger mirrors noteworthy events into an operations channel. A zero
// channel turns every call into a no-op.
type OpsLogger struct {
	poster  Poster
	channel string
	now     func() time.Time
}

func NewOpsLogger(poster Poster, channel string) *OpsLogger {
	return &OpsLogger{poster: poster, channel: channel, now: time.Now}
}

type LogType string

const (
	LogTypeError        LogType = "error"
	LogTypeConfigChange LogType = "configChange"
	LogTypeFeedback     LogType = "feedback"
)

func (l *OpsLogger) enabled() bool {
	return l != nil && l.channel != ""
}

func (l *OpsLogger) Log(logType LogType, message string) {
	if !l.enabled() {
		return
	}

	message = Truncate(message, config.MaxSectionTextLen)

	ctx, cancel := context.WithTimeout(context.Background(), config.OpsLogTimeout)
	defer cancel()

	if _, err := l.poster.PostMessage(ctx, l.channel, "", message); err != nil {
		slog.Error("failed to send ops log", "type", logType, "error", err)
	}
}

func (l *OpsLogger) LogError(err error, where string) {
	if !l.enabled() {
		return
	}
	msg := fmt.Sprintf("❌ *Error*\n\n*Context:* %s\n*Error:* `%s`\n*Time:* %s",
		where, err.Error(), l.stamp())
	l.Log(LogTypeError, msg)
}

// LogConfigChange records a room override being saved or reset.
func (l *OpsLogger) LogConfigChange(roomID, userID, action string) {
	if !l.enabled() {
		return
	}
	msg := fmt.Sprintf("⚙️ *Room config %s*\n\n*Room:* <#%s>\n*By:* <@%s>\n*Time:* %s",
		action, roomID, userID, l.stamp())
	l.Log(LogTypeConfigChange, msg)
}

func (l *OpsLogger) LogFeedbackFailure(interactionID string, err error) {
	if !l.enabled() {
		return
	}
	msg := fmt.Sprintf("👎 *Feedback not delivered*\n\n*Interaction:* `%s`\n*Error:* `%s`",
		interactionID, err.Error())
	l.Log(LogTypeFeedback, msg)
}

func (l *OpsLogger) stamp() string {
	return l.now().UTC().Format("2006-01-02 15:04:05")
}
