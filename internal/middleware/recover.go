package middleware

import (
	"context"
	"log/slog"
	"runtime/debug"

	"github.com/clementine-bot/clementine/internal/slackio"
)

// Recover returns middleware that recovers from panics. A panicking view
// submission is acked with an empty response.
func Recover() slackio.Middleware {
	return func(next slackio.HandlerFunc) slackio.HandlerFunc {
		return func(ctx context.Context, evt *slackio.Event) (resp any) {
			defer func() {
				if r := recover(); r != nil {
					slog.Error("panic recovered in handler",
						"kind", evt.Kind,
						"panic", r,
						"stack", string(debug.Stack()),
					)
					resp = nil
				}
			}()
			return next(ctx, evt)
		}
	}
}
