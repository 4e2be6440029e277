package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/clementine-bot/clementine/internal/domain"
)

type Config struct {
	// Slack
	BotToken   string `env:"SLACK_BOT_TOKEN,required,notEmpty"`
	AppToken   string `env:"SLACK_APP_TOKEN,required,notEmpty"`
	SlackDebug bool   `env:"SLACK_DEBUG" envDefault:"false"`

	// Tangerine
	APIURL        string `env:"TANGERINE_API_URL,required,notEmpty"`
	APIToken      string `env:"TANGERINE_API_TOKEN,required,notEmpty"`
	RawAPITimeout string `env:"TANGERINE_API_TIMEOUT" envDefault:"500"`
	RawFeedbackTO string `env:"FEEDBACK_API_TIMEOUT" envDefault:"30"`
	ModelOverride string `env:"MODEL_OVERRIDE"`

	// Bot behavior
	BotName       string   `env:"BOT_NAME" envDefault:"Clementine"`
	AssistantList []string `env:"ASSISTANT_LIST" envSeparator:"," envDefault:"konflux"`
	DefaultPrompt string   `env:"DEFAULT_PROMPT"`
	PromptsDir    string   `env:"PROMPTS_DIR"`
	AskCommand    string   `env:"ASK_COMMAND" envDefault:"/clementine"`
	ConfigCommand string   `env:"CONFIG_COMMAND" envDefault:"/clementine-config"`

	// Context window
	DefaultContextSize int    `env:"DEFAULT_CONTEXT_SIZE" envDefault:"50"`
	RawMinContext      string `env:"SLACK_MIN_CONTEXT" envDefault:"50"`
	RawMaxContext      string `env:"SLACK_MAX_CONTEXT" envDefault:"250"`

	// Rendering
	RichFormatting   bool   `env:"RICH_FORMATTING" envDefault:"true"`
	EnableFeedback   bool   `env:"ENABLE_FEEDBACK" envDefault:"true"`
	ShowAIDisclosure bool   `env:"SHOW_AI_DISCLOSURE" envDefault:"true"`
	AIDisclosureText string `env:"AI_DISCLOSURE_TEXT" envDefault:"ⓘ This response was generated by AI. Always verify important information."`
	DocsBaseURL      string `env:"DOCS_BASE_URL"`

	// Storage
	DatabaseURL string `env:"DATABASE_URL" envDefault:"room_configs.db"`

	// Server
	Port int `env:"PORT" envDefault:"3000"`

	// Logging
	LogLevel        string `env:"LOG_LEVEL" envDefault:"info"`
	LogSlackChannel string `env:"LOG_SLACK_CHANNEL"`

	// Derived in Load
	ContextBounds   domain.ContextBounds
	APITimeout      time.Duration
	FeedbackTimeout time.Duration
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to read .env file", "error", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.finish(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) finish() error {
	if !strings.HasPrefix(c.AppToken, "xapp-") {
		return fmt.Errorf("parse config: SLACK_APP_TOKEN must start with xapp-")
	}

	c.ContextBounds = ParseContextBounds(c.RawMinContext, c.RawMaxContext)
	c.APITimeout = ParseTimeout("TANGERINE_API_TIMEOUT", c.RawAPITimeout, DefaultAPITimeoutSeconds)
	c.FeedbackTimeout = ParseTimeout("FEEDBACK_API_TIMEOUT", c.RawFeedbackTO, DefaultFeedbackTimeoutSeconds)
	c.ModelOverride = strings.TrimSpace(c.ModelOverride)

	c.AssistantList = cleanList(c.AssistantList)
	if len(c.AssistantList) == 0 {
		slog.Warn("ASSISTANT_LIST is empty, using default", "default", DefaultAssistant)
		c.AssistantList = []string{DefaultAssistant}
	}

	if c.DefaultContextSize <= 0 {
		slog.Warn("invalid default context size, using minimum bound", "value", c.DefaultContextSize)
		c.DefaultContextSize = c.ContextBounds.Min
	}
	if clamped := c.ContextBounds.Clamp(c.DefaultContextSize); clamped != c.DefaultContextSize {
		slog.Warn("default context size outside bounds, clamping",
			"value", c.DefaultContextSize, "min", c.ContextBounds.Min, "max", c.ContextBounds.Max)
		c.DefaultContextSize = clamped
	}
	return nil
}

// SlogLevel maps LOG_LEVEL onto a slog level, falling back to info.
func (c *Config) SlogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			out = append(out, it)
		}
	}
	return out
}

// DefaultSystemPrompt returns DEFAULT_PROMPT when set, otherwise the loaded
// system prompt file.
func (c *Config) DefaultSystemPrompt(p Prompts) string {
	if s := strings.TrimSpace(c.DefaultPrompt); s != "" {
		return s
	}
	return p.System
}
