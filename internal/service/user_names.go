package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/clementine-bot/clementine/internal/domain"
)

type UserLookup interface {
	LookupUser(ctx context.Context, userID string) (domain.UserInfo, error)
}

// UserNameCache resolves author ids to display names for the life of the
// process. Failed lookups are cached as "no name".
type UserNameCache struct {
	mu    sync.Mutex
	names map[string]string
}

func NewUserNameCache() *UserNameCache {
	return &UserNameCache{names: make(map[string]string)}
}

// Name returns "" when no name could be resolved.
func (c *UserNameCache) Name(ctx context.Context, lookup UserLookup, userID string) string {
	if userID == "" || userID == "unknown" {
		return ""
	}

	c.mu.Lock()
	name, ok := c.names[userID]
	c.mu.Unlock()
	if ok {
		return name
	}

	info, err := lookup.LookupUser(ctx, userID)
	if err != nil {
		slog.Warn("failed to look up user", "user_id", userID, "error", err)
		name = ""
	} else {
		name = info.PreferredName()
	}

	c.mu.Lock()
	c.names[userID] = name
	c.mu.Unlock()
	return name
}

