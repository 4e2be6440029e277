package service

import (
	"sync"
	"time"

	"github.com/clementine-bot/clementine/internal/domain"
)

type AssistantsCache struct {
	mu         sync.RWMutex
	assistants []domain.Assistant
	cachedAt   time.Time
	ttl        time.Duration
	now        func() time.Time
}

func NewAssistantsCache(ttl time.Duration) *AssistantsCache {
	return &AssistantsCache{ttl: ttl, now: time.Now}
}

// Get returns nil when nothing is cached or the entry has expired.
func (c *AssistantsCache) Get() []domain.Assistant {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.assistants == nil || c.now().Sub(c.cachedAt) > c.ttl {
		return nil
	}
	return c.assistants
}

func (c *AssistantsCache) Set(assistants []domain.Assistant) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.assistants = assistants
	c.cachedAt = c.now()
}
