package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/clementine-bot/clementine/internal/config"
	"github.com/clementine-bot/clementine/internal/domain"
	"github.com/clementine-bot/clementine/internal/repository"
)

// Validation field keys reported in domain.ValidationError.
const (
	FieldAssistantList     = "assistant_list"
	FieldSystemPrompt      = "system_prompt"
	FieldContextWindowSize = "context_window_size"
)

// RoomDefaults are the process-wide values a room inherits.
type RoomDefaults struct {
	Assistants        []string
	SystemPrompt      string
	ContextWindowSize int
	Bounds            domain.ContextBounds
}

type RoomConfigService struct {
	store    repository.RoomConfigStore
	defaults RoomDefaults
}

func NewRoomConfigService(store repository.RoomConfigStore, defaults RoomDefaults) *RoomConfigService {
	return &RoomConfigService{store: store, defaults: defaults}
}

func (s *RoomConfigService) defaultConfig(roomID string) domain.ResolvedRoomConfig {
	assistants := make([]string, len(s.defaults.Assistants))
	copy(assistants, s.defaults.Assistants)
	return domain.ResolvedRoomConfig{
		RoomID:            roomID,
		AssistantList:     assistants,
		SystemPrompt:      s.defaults.SystemPrompt,
		ContextWindowSize: s.defaults.ContextWindowSize,
	}
}

// Resolve never fails. Storage errors and malformed stored values fall back
// to the defaults with a logged warning.
func (s *RoomConfigService) Resolve(ctx context.Context, roomID string) domain.ResolvedRoomConfig {
	override, err := s.store.Get(ctx, roomID)
	if err != nil {
		slog.Error("failed to load room config, using defaults", "room_id", roomID, "error", err)
		return s.defaultConfig(roomID)
	}
	if override == nil {
		slog.Debug("using default room config", "room_id", roomID)
		return s.defaultConfig(roomID)
	}
	return s.merge(*override)
}

func (s *RoomConfigService) merge(o domain.RoomOverride) domain.ResolvedRoomConfig {
	cfg := s.defaultConfig(o.RoomID)

	if o.AssistantList != nil {
		if list, ok := parseAssistantList(*o.AssistantList); ok {
			cfg.AssistantList = list
		} else {
			slog.Warn("invalid stored assistant list, using defaults", "room_id", o.RoomID, "value", *o.AssistantList)
		}
	}

	if o.SystemPrompt != nil {
		if p := strings.TrimSpace(*o.SystemPrompt); p != "" {
			cfg.SystemPrompt = p
		}
	}

	if o.ContextWindowSize != nil {
		n := *o.ContextWindowSize
		if n > 0 {
			clamped := s.defaults.Bounds.Clamp(n)
			if clamped != n {
				slog.Warn("stored context size out of bounds, clamping",
					"room_id", o.RoomID, "value", n,
					"min", s.defaults.Bounds.Min, "max", s.defaults.Bounds.Max, "clamped", clamped)
			}
			cfg.ContextWindowSize = clamped
		} else {
			slog.Warn("invalid stored context size, using default", "room_id", o.RoomID, "value", n)
		}
	}
	return cfg
}

// parseAssistantList accepts only a JSON array of strings with at least one
// non-blank entry.
func parseAssistantList(raw string) ([]string, bool) {
	var items []any
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, false
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		name, ok := it.(string)
		if !ok {
			return nil, false
		}
		if name = strings.TrimSpace(name); name != "" {
			out = append(out, name)
		}
	}
	if len(out) == 0 {
		return nil, false
	}
	return out, true
}

// Save validates every supplied field and stores them as one merge. Returns
// a *domain.ValidationError if any field is rejected, domain.ErrNothingToSave
// if nothing was supplied.
func (s *RoomConfigService) Save(ctx context.Context, roomID string, in domain.RoomConfigInput) error {
	patch, err := s.validate(in)
	if err != nil {
		slog.Warn("rejected room config", "room_id", roomID, "error", err)
		return err
	}
	if patch.IsEmpty() {
		return domain.ErrNothingToSave
	}

	if err := s.store.Save(ctx, roomID, patch); err != nil {
		slog.Error("failed to save room config", "room_id", roomID, "error", err)
		return fmt.Errorf("save room config: %w", err)
	}
	slog.Info("room config saved",
		"room_id", roomID,
		"assistants", patch.AssistantList != nil,
		"system_prompt", patch.SystemPrompt != nil,
		"context_window_size", patch.ContextWindowSize != nil,
	)
	return nil
}

func (s *RoomConfigService) validate(in domain.RoomConfigInput) (domain.RoomOverridePatch, error) {
	var patch domain.RoomOverridePatch
	fields := map[string]string{}

	if in.AssistantList != nil {
		names := make([]string, 0, len(in.AssistantList))
		tooLong := false
		for _, n := range in.AssistantList {
			n = strings.TrimSpace(n)
			if n == "" {
				continue
			}
			if utf8.RuneCountInString(n) > config.MaxAssistantNameLen {
				tooLong = true
			}
			names = append(names, n)
		}
		switch {
		case len(names) == 0:
			fields[FieldAssistantList] = "Assistant list cannot be empty"
		case len(names) > config.MaxAssistants:
			fields[FieldAssistantList] = fmt.Sprintf("Too many assistants (max %d)", config.MaxAssistants)
		case tooLong:
			fields[FieldAssistantList] = fmt.Sprintf("Assistant names must be under %d characters", config.MaxAssistantNameLen)
		default:
			data, err := json.Marshal(names)
			if err != nil {
				return patch, fmt.Errorf("encode assistant list: %w", err)
			}
			encoded := string(data)
			patch.AssistantList = &encoded
		}
	}

	if in.SystemPrompt != nil {
		p := strings.TrimSpace(*in.SystemPrompt)
		switch {
		case p == "":
			fields[FieldSystemPrompt] = "System prompt cannot be empty"
		case utf8.RuneCountInString(p) > config.MaxSystemPromptChars:
			fields[FieldSystemPrompt] = fmt.Sprintf("System prompt is too long (max %d characters)", config.MaxSystemPromptChars)
		default:
			patch.SystemPrompt = &p
		}
	}

	if in.ContextWindowSize != nil {
		n := *in.ContextWindowSize
		b := s.defaults.Bounds
		switch {
		case n < b.Min:
			fields[FieldContextWindowSize] = fmt.Sprintf("Context size must be at least %d", b.Min)
		case n > b.Max:
			fields[FieldContextWindowSize] = fmt.Sprintf("Context size must be at most %d", b.Max)
		default:
			patch.ContextWindowSize = &n
		}
	}

	if len(fields) > 0 {
		return domain.RoomOverridePatch{}, &domain.ValidationError{Fields: fields}
	}
	return patch, nil
}

// Reset removes the room's override so it inherits the defaults again.
// Resetting a room without an override is not an error.
func (s *RoomConfigService) Reset(ctx context.Context, roomID string) error {
	existed, err := s.store.Delete(ctx, roomID)
	if err != nil {
		slog.Error("failed to reset room config", "room_id", roomID, "error", err)
		return fmt.Errorf("reset room config: %w", err)
	}
	slog.Info("room config reset", "room_id", roomID, "existed", existed)
	return nil
}

// View is used by the config modal and the rooms CLI.
func (s *RoomConfigService) View(ctx context.Context, roomID string) domain.RoomConfigView {
	view := domain.RoomConfigView{
		Config: s.defaultConfig(roomID),
		Bounds: s.defaults.Bounds,
	}
	override, err := s.store.Get(ctx, roomID)
	if err != nil {
		slog.Error("failed to load room config for display", "room_id", roomID, "error", err)
		return view
	}
	if override != nil {
		view.Config = s.merge(*override)
		view.HasCustomConfig = true
	}
	return view
}

func (s *RoomConfigService) List(ctx context.Context) (map[string]domain.RoomOverride, error) {
	rooms, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list room configs: %w", err)
	}
	return rooms, nil
}

