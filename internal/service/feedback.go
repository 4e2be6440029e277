package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/clementine-bot/clementine/internal/domain"
)

// FeedbackClient forwards votes to /api/feedback. It has its own timeout,
// shorter than the chat client's.
type FeedbackClient struct {
	token      string
	baseURL    string
	httpClient *http.Client
}

func NewFeedbackClient(baseURL, token string, timeout time.Duration) *FeedbackClient {
	return &FeedbackClient{
		token:      token,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type feedbackPayload struct {
	Like          bool   `json:"like"`
	Dislike       bool   `json:"dislike"`
	Feedback      string `json:"feedback"`
	InteractionID string `json:"interactionId"`
}

// Send reports any transport error or non-2xx status as an error wrapping
// domain.ErrFeedbackFailed.
func (c *FeedbackClient) Send(ctx context.Context, vote domain.FeedbackVote) error {
	body, err := json.Marshal(feedbackPayload{
		Like:          vote.IsPositive,
		Dislike:       !vote.IsPositive,
		Feedback:      vote.FreeText,
		InteractionID: vote.InteractionID,
	})
	if err != nil {
		return fmt.Errorf("%w: marshal: %v", domain.ErrFeedbackFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/feedback", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: create request: %v", domain.ErrFeedbackFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Error("feedback request failed", "interaction_id", vote.InteractionID, "error", err)
		return fmt.Errorf("%w: %v", domain.ErrFeedbackFailed, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		slog.Error("feedback api returned error status", "interaction_id", vote.InteractionID, "status", resp.StatusCode)
		return fmt.Errorf("%w: http status %d", domain.ErrFeedbackFailed, resp.StatusCode)
	}

	slog.Info("feedback sent", "interaction_id", vote.InteractionID, "positive", vote.IsPositive)
	return nil
}
