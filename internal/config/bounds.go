package config

import (
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/clementine-bot/clementine/internal/domain"
)

// ParseContextBounds computes the global context window bounds from the raw
// SLACK_MIN_CONTEXT / SLACK_MAX_CONTEXT values.
func ParseContextBounds(minRaw, maxRaw string) domain.ContextBounds {
	minCtx, errMin := strconv.Atoi(strings.TrimSpace(minRaw))
	maxCtx, errMax := strconv.Atoi(strings.TrimSpace(maxRaw))
	if errMin != nil || errMax != nil {
		slog.Error("invalid context bounds, must be numbers; using defaults",
			"min", minRaw, "max", maxRaw,
			"default_min", DefaultMinContext, "default_max", DefaultMaxContext)
		return domain.ContextBounds{Min: DefaultMinContext, Max: DefaultMaxContext}
	}

	if c := clampInt(minCtx, 1, MinContextCeiling); c != minCtx {
		slog.Warn("min context out of range, clamping", "value", minCtx, "clamped", c)
		minCtx = c
	}
	if c := clampInt(maxCtx, 1, MaxContextCeiling); c != maxCtx {
		slog.Warn("max context out of range, clamping", "value", maxCtx, "clamped", c)
		maxCtx = c
	}
	if maxCtx < minCtx {
		slog.Warn("max context below min context, raising max", "min", minCtx, "max", maxCtx)
		maxCtx = minCtx
	}
	return domain.ContextBounds{Min: minCtx, Max: maxCtx}
}

// ParseTimeout reads a whole number of seconds. Non-numeric and non-positive
// values use def; values over an hour are capped.
func ParseTimeout(name, raw string, def int) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(raw))
	switch {
	case err != nil:
		slog.Error("invalid timeout, must be a number", "name", name, "value", raw, "default", def)
		secs = def
	case secs <= 0:
		slog.Warn("invalid timeout, must be positive", "name", name, "value", secs, "default", def)
		secs = def
	case secs > MaxAPITimeoutSeconds:
		slog.Warn("timeout too large, capping", "name", name, "value", secs, "cap", MaxAPITimeoutSeconds)
		secs = MaxAPITimeoutSeconds
	}
	return time.Duration(secs) * time.Second
}

func clampInt(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
