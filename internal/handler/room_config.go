package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/slack-go/slack"

	"github.com/clementine-bot/clementine/internal/domain"
	"github.com/clementine-bot/clementine/internal/service"
	"github.com/clementine-bot/clementine/internal/slackio"
)

const ConfigModalCallbackID = "room_config_modal"

// Config modal block and action ids.
const (
	blockAssistants   = "assistant_list_block"
	actionAssistants  = "assistant_list_select"
	blockPrompt       = "system_prompt_block"
	actionPrompt      = "system_prompt_input"
	blockContextSize  = "slack_context_size_block"
	actionContextSize = "slack_context_size_input"
	blockReset        = "reset_to_defaults_block"
	actionReset       = "reset_to_defaults"
	resetValue        = "reset"
)

// Slack renders errors only under input blocks; form-level problems are shown
// on the first one.
const blockGeneral = blockAssistants

// Slack caps static select menus at 100 options.
const maxSelectOptions = 100

var fieldBlocks = map[string]string{
	service.FieldAssistantList:     blockAssistants,
	service.FieldSystemPrompt:      blockPrompt,
	service.FieldContextWindowSize: blockContextSize,
}

type modalMetadata struct {
	RoomID string `json:"room_id"`
}

// OpenConfig opens the room configuration modal for roomID.
func (h *Handler) OpenConfig(ctx context.Context, triggerID, roomID string) error {
	view := h.rooms.View(ctx, roomID)
	modal, err := buildConfigModal(roomID, view, h.assistantNames(ctx))
	if err != nil {
		return err
	}
	return h.slack.OpenView(ctx, triggerID, modal)
}

// assistantNames lists selectable assistants, falling back to the configured
// defaults when the remote list is unavailable.
func (h *Handler) assistantNames(ctx context.Context) []string {
	assistants, err := h.chat.ListAssistants(ctx)
	if err != nil {
		slog.Warn("failed to list assistants, using defaults", "error", err)
	}
	names := make([]string, 0, len(assistants))
	seen := make(map[string]bool)
	for _, a := range assistants {
		name := strings.TrimSpace(a.Name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	if len(names) == 0 {
		names = append(names, h.cfg.AssistantList...)
	}
	if len(names) > maxSelectOptions {
		names = names[:maxSelectOptions]
	}
	return names
}

func buildConfigModal(roomID string, view domain.RoomConfigView, available []string) (slack.ModalViewRequest, error) {
	meta, err := json.Marshal(modalMetadata{RoomID: roomID})
	if err != nil {
		return slack.ModalViewRequest{}, fmt.Errorf("encode modal metadata: %w", err)
	}

	info := "🏠 This room is using default configuration. Set custom values below."
	if view.HasCustomConfig {
		info = "📝 This room has custom configuration. You can modify it below or reset to defaults."
	}

	options := make([]*slack.OptionBlockObject, len(available))
	byName := make(map[string]*slack.OptionBlockObject, len(available))
	for i, name := range available {
		options[i] = slackio.Option(name)
		byName[name] = options[i]
	}
	assistants := slack.NewOptionsMultiSelectBlockElement(slack.MultiOptTypeStatic,
		slackio.PlainText("Select assistants..."), actionAssistants, options...)
	for _, name := range view.Config.AssistantList {
		if opt, ok := byName[name]; ok {
			assistants.InitialOptions = append(assistants.InitialOptions, opt)
		} else {
			slog.Debug("assistant not selectable, leaving unselected", "room_id", roomID, "assistant", name)
		}
	}

	prompt := slack.NewPlainTextInputBlockElement(slackio.PlainText("You are a helpful assistant..."), actionPrompt)
	prompt.Multiline = true
	if utf8.RuneCountInString(view.Config.SystemPrompt) <= maxPromptInput {
		prompt.InitialValue = view.Config.SystemPrompt
	} else {
		slog.Debug("system prompt too long to prefill", "room_id", roomID)
	}

	size := slack.NewNumberInputBlockElement(nil, actionContextSize, false)
	size.MinValue = strconv.Itoa(view.Bounds.Min)
	size.MaxValue = strconv.Itoa(view.Bounds.Max)
	size.InitialValue = strconv.Itoa(view.Config.ContextWindowSize)

	blocks := []slack.Block{
		slackio.Section("", info),
		slack.NewDividerBlock(),
		slackio.Section("", "*Assistant List*\nSelect one or more assistants to use in this room"),
		optionalInput(blockAssistants, "Assistants", assistants),
		slackio.Section("", "*System Prompt*\nCustomize the AI's behavior and personality for this room"),
		optionalInput(blockPrompt, "System Prompt", prompt),
		slackio.Section("", fmt.Sprintf("*Slack Context Size*\nNumber of messages to analyze (range: %d-%d)",
			view.Bounds.Min, view.Bounds.Max)),
		optionalInput(blockContextSize, "Context Size", size),
	}

	if view.HasCustomConfig {
		reset := slack.NewCheckboxGroupsBlockElement(actionReset,
			slack.NewOptionBlockObject(resetValue, slackio.PlainText("Reset to defaults"), nil))
		blocks = append(blocks,
			slack.NewDividerBlock(),
			slackio.Section("", "*Reset to Defaults*\nCheck this box to remove custom configuration and use system defaults"),
			optionalInput(blockReset, "Reset", reset),
		)
	}

	return slack.ModalViewRequest{
		Type:            slack.VTModal,
		CallbackID:      ConfigModalCallbackID,
		Title:           slackio.PlainText("Room Configuration"),
		Submit:          slackio.PlainText("Save"),
		Close:           slackio.PlainText("Cancel"),
		PrivateMetadata: string(meta),
		Blocks:          slack.Blocks{BlockSet: blocks},
	}, nil
}

// Slack's limit for a plain-text input value.
const maxPromptInput = 3000

func optionalInput(blockID, label string, element slack.BlockElement) *slack.InputBlock {
	input := slack.NewInputBlock(blockID, slackio.PlainText(label), nil, element)
	input.Optional = true
	return input
}

// configForm is the parsed modal state.
type configForm struct {
	reset bool
	input domain.RoomConfigInput
}

func parseConfigForm(values map[string]map[string]slack.BlockAction) (configForm, map[string]string) {
	var form configForm

	for _, opt := range values[blockReset][actionReset].SelectedOptions {
		if opt.Value == resetValue {
			form.reset = true
		}
	}

	if selected := values[blockAssistants][actionAssistants].SelectedOptions; len(selected) > 0 {
		names := make([]string, len(selected))
		for i, opt := range selected {
			names[i] = opt.Value
		}
		form.input.AssistantList = names
	}

	if prompt := strings.TrimSpace(values[blockPrompt][actionPrompt].Value); prompt != "" {
		form.input.SystemPrompt = &prompt
	}

	if raw := strings.TrimSpace(values[blockContextSize][actionContextSize].Value); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return form, map[string]string{blockContextSize: "Context size must be a valid number"}
		}
		form.input.ContextWindowSize = &n
	}

	return form, nil
}

// SubmitConfig saves or resets a room's configuration from the modal. The
// returned response either clears the modal or lists per-block errors.
func (h *Handler) SubmitConfig(ctx context.Context, cb *slack.InteractionCallback) *slack.ViewSubmissionResponse {
	var meta modalMetadata
	if err := json.Unmarshal([]byte(cb.View.PrivateMetadata), &meta); err != nil || meta.RoomID == "" {
		slog.Error("config modal without room id", "metadata", cb.View.PrivateMetadata, "error", err)
		return generalError("An unexpected error occurred. Please try again.")
	}
	roomID := meta.RoomID

	var values map[string]map[string]slack.BlockAction
	if cb.View.State != nil {
		values = cb.View.State.Values
	}
	form, formErrs := parseConfigForm(values)

	if form.reset {
		if err := h.rooms.Reset(ctx, roomID); err != nil {
			slog.Error("failed to reset room config", "room_id", roomID, "error", err)
			return generalError("Failed to reset configuration")
		}
		slog.Info("room config reset", "room_id", roomID, "user", cb.User.ID)
		h.ops.LogConfigChange(roomID, cb.User.ID, "reset")
		return slack.NewClearViewSubmissionResponse()
	}

	if formErrs != nil {
		return slack.NewErrorsViewSubmissionResponse(formErrs)
	}

	err := h.rooms.Save(ctx, roomID, form.input)

	var validationErr *domain.ValidationError
	switch {
	case err == nil:
		slog.Info("room config saved", "room_id", roomID, "user", cb.User.ID)
		h.ops.LogConfigChange(roomID, cb.User.ID, "saved")
		return slack.NewClearViewSubmissionResponse()
	case errors.As(err, &validationErr):
		errs := make(map[string]string, len(validationErr.Fields))
		for field, msg := range validationErr.Fields {
			block, ok := fieldBlocks[field]
			if !ok {
				block = blockGeneral
			}
			errs[block] = msg
		}
		return slack.NewErrorsViewSubmissionResponse(errs)
	case errors.Is(err, domain.ErrNothingToSave):
		return generalError("Please provide at least one configuration value")
	default:
		slog.Error("failed to save room config", "room_id", roomID, "error", err)
		return generalError("Failed to save configuration. Please try again.")
	}
}

func generalError(msg string) *slack.ViewSubmissionResponse {
	return slack.NewErrorsViewSubmissionResponse(map[string]string{blockGeneral: msg})
}
