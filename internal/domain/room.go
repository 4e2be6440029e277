package domain

import "time"

// RoomOverride is the stored per-room configuration. A nil field inherits the
// process default.
type RoomOverride struct {
	RoomID            string
	AssistantList     *string // JSON-encoded list of assistant names
	SystemPrompt      *string
	ContextWindowSize *int
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// RoomOverridePatch is a partial update. Nil fields keep the stored value.
type RoomOverridePatch struct {
	AssistantList     *string
	SystemPrompt      *string
	ContextWindowSize *int
}

func (p RoomOverridePatch) IsEmpty() bool {
	return p.AssistantList == nil && p.SystemPrompt == nil && p.ContextWindowSize == nil
}

// RoomConfigInput is a save request coming from the config modal or the CLI.
type RoomConfigInput struct {
	AssistantList     []string // nil means not supplied
	SystemPrompt      *string
	ContextWindowSize *int
}

// ResolvedRoomConfig is always fully populated.
type ResolvedRoomConfig struct {
	RoomID            string
	AssistantList     []string
	SystemPrompt      string
	ContextWindowSize int
}

// ContextBounds are the process-wide limits for a room's context window size.
type ContextBounds struct {
	Min int
	Max int
}

func (b ContextBounds) Clamp(n int) int {
	if n < b.Min {
		return b.Min
	}
	if n > b.Max {
		return b.Max
	}
	return n
}

func (b ContextBounds) Contains(n int) bool {
	return n >= b.Min && n <= b.Max
}

// RoomConfigView is what the config modal and the CLI display.
type RoomConfigView struct {
	Config          ResolvedRoomConfig
	Bounds          ContextBounds
	HasCustomConfig bool
}
