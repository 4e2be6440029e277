package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/clementine-bot/clementine/internal/slackio"
)

// Logging returns middleware that logs event processing time.
func Logging() slackio.Middleware {
	return func(next slackio.HandlerFunc) slackio.HandlerFunc {
		return func(ctx context.Context, evt *slackio.Event) any {
			start := time.Now()

			attrs := []any{
				"kind", evt.Kind,
				"channel", evt.ChannelID(),
				"user", evt.UserID(),
			}
			switch {
			case evt.Command != nil:
				attrs = append(attrs, "command", evt.Command.Command)
			case evt.Action != nil:
				attrs = append(attrs, "action", evt.Action.ActionID)
			case evt.Callback != nil:
				attrs = append(attrs, "callback_id", evt.Callback.View.CallbackID)
			}

			resp := next(ctx, evt)

			slog.Debug("event processed", append(attrs, "duration", time.Since(start))...)
			return resp
		}
	}
}
