package config

import "time"

const (
	// Context window bounds
	DefaultMinContext = 50
	DefaultMaxContext = 250
	MinContextCeiling = 1000
	MaxContextCeiling = 10000

	// Chat API timeouts (seconds)
	DefaultAPITimeoutSeconds      = 500
	MaxAPITimeoutSeconds          = 3600
	DefaultFeedbackTimeoutSeconds = 30

	// Room config limits
	MaxAssistants        = 10
	MaxAssistantNameLen  = 100
	MaxSystemPromptChars = 5000

	// Default assistant when nothing else is configured
	DefaultAssistant = "konflux"

	// Assistant list cache duration
	AssistantCacheDuration = 10 * time.Minute

	// Slack limits
	MaxSectionTextLen = 3000
	MaxCitations      = 3

	// User lookups and message edits
	SlackCallTimeout = 15 * time.Second

	// Ops channel log timeout
	OpsLogTimeout = 10 * time.Second
)
