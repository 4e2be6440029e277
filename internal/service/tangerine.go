package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/clementine-bot/clementine/internal/config"
	"github.com/clementine-bot/clementine/internal/domain"
)

type TangerineClient struct {
	token      string
	baseURL    string
	httpClient *http.Client
	cache      *AssistantsCache
}

// NewTangerineClient strips one trailing slash from baseURL.
func NewTangerineClient(baseURL, token string, timeout time.Duration) *TangerineClient {
	return &TangerineClient{
		token:      token,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		cache:      NewAssistantsCache(config.AssistantCacheDuration),
	}
}

type chatPayload struct {
	Assistants     []string `json:"assistants"`
	Query          string   `json:"query"`
	SessionID      string   `json:"sessionId"`
	InteractionID  string   `json:"interactionId"`
	Client         string   `json:"client"`
	Stream         bool     `json:"stream"`
	Prompt         string   `json:"prompt"`
	Chunks         []string `json:"chunks,omitempty"`
	UserPrompt     string   `json:"userPrompt,omitempty"`
	DisableAgentic bool     `json:"disable_agentic,omitempty"`
	Model          string   `json:"model,omitempty"`
}

type chatResult struct {
	TextContent    *string         `json:"text_content"`
	SearchMetadata json.RawMessage `json:"search_metadata"`
}

type searchEntry struct {
	Metadata *struct {
		CitationURL string `json:"citation_url"`
		Title       string `json:"title"`
	} `json:"metadata"`
}

func buildChatPayload(r domain.ChatRequest) chatPayload {
	p := chatPayload{
		Assistants:    r.Assistants,
		Query:         r.Query,
		SessionID:     r.SessionID,
		InteractionID: r.InteractionID,
		Client:        r.ClientName,
		Stream:        false,
		Prompt:        r.SystemPrompt,
	}
	if !r.UsesChunks() {
		if p.Assistants == nil {
			p.Assistants = []string{}
		}
		return p
	}

	if len(p.Assistants) == 0 {
		p.Assistants = []string{domain.DefaultChunksAssistant}
	}
	p.Chunks = r.Chunks
	p.UserPrompt = r.UserPrompt
	p.DisableAgentic = true
	p.Model = r.Model
	return p
}

// Chat sends one exchange to /api/assistants/chat. Every failure is a
// *domain.ChatError.
func (c *TangerineClient) Chat(ctx context.Context, r domain.ChatRequest) (*domain.ChatResponse, error) {
	if r.InteractionID == "" {
		r.InteractionID = uuid.NewString()
	}
	payload := buildChatPayload(r)

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &domain.ChatError{Kind: domain.ChatErrorDecode, Err: fmt.Errorf("marshal request: %w", err)}
	}

	slog.Debug("sending chat request",
		"session_id", r.SessionID,
		"interaction_id", r.InteractionID,
		"assistants", payload.Assistants,
		"chunks", len(payload.Chunks),
		"model", payload.Model,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/assistants/chat", bytes.NewReader(body))
	if err != nil {
		return nil, &domain.ChatError{Kind: domain.ChatErrorConnection, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		cerr := classifyTransportError(err)
		slog.Error("chat request failed", "kind", cerr.Kind, "timeout", c.httpClient.Timeout, "error", err)
		return nil, cerr
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))
		slog.Error("chat api returned error status", "status", resp.StatusCode)
		return nil, &domain.ChatError{Kind: domain.ChatErrorHTTPStatus, StatusCode: resp.StatusCode}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		cerr := classifyTransportError(err)
		slog.Error("read chat response", "kind", cerr.Kind, "error", err)
		return nil, cerr
	}

	out, err := parseChatResult(raw)
	if err != nil {
		slog.Error("chat api returned invalid json", "error", err)
		return nil, &domain.ChatError{Kind: domain.ChatErrorDecode, Err: err}
	}
	out.InteractionID = r.InteractionID

	slog.Debug("chat response received",
		"interaction_id", r.InteractionID,
		"citations", len(out.Citations),
		"duration", time.Since(start),
	)
	return out, nil
}

func parseChatResult(raw []byte) (*domain.ChatResponse, error) {
	var result chatResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	text := domain.NoResponseText
	if result.TextContent != nil {
		text = *result.TextContent
	}
	return &domain.ChatResponse{
		Text:      strings.TrimSpace(text),
		Citations: parseCitations(result.SearchMetadata),
	}, nil
}

// parseCitations keeps every entry with a citation URL. A malformed entry is
// skipped without affecting its siblings.
func parseCitations(raw json.RawMessage) []domain.Citation {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		slog.Warn("search_metadata is not a list, ignoring", "error", err)
		return nil
	}

	citations := make([]domain.Citation, 0, len(entries))
	for i, e := range entries {
		var entry searchEntry
		if err := json.Unmarshal(e, &entry); err != nil {
			slog.Debug("skipping malformed search metadata entry", "index", i, "error", err)
			continue
		}
		if entry.Metadata == nil || strings.TrimSpace(entry.Metadata.CitationURL) == "" {
			continue
		}
		title := strings.TrimSpace(entry.Metadata.Title)
		if title == "" {
			title = "Source"
		}
		citations = append(citations, domain.Citation{
			URL:   strings.TrimSpace(entry.Metadata.CitationURL),
			Title: title,
		})
	}
	return citations
}

func classifyTransportError(err error) *domain.ChatError {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &domain.ChatError{Kind: domain.ChatErrorTimeout, Err: err}
	}
	return &domain.ChatError{Kind: domain.ChatErrorConnection, Err: err}
}

// ListAssistants returns the assistants offered by the API, cached for
// config.AssistantCacheDuration.
func (c *TangerineClient) ListAssistants(ctx context.Context) ([]domain.Assistant, error) {
	if cached := c.cache.Get(); cached != nil {
		return cached, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/assistants", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch assistants: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch assistants: http status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var result struct {
		Data []struct {
			Name        string `json:"name"`
			Description string `json:"description"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("parse assistants: %w", err)
	}

	assistants := make([]domain.Assistant, 0, len(result.Data))
	for _, a := range result.Data {
		name := strings.TrimSpace(a.Name)
		if name == "" {
			continue
		}
		assistants = append(assistants, domain.Assistant{Name: name, Description: a.Description})
	}

	c.cache.Set(assistants)
	return assistants, nil
}
