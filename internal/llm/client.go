// Package llm is the HTTP client for the external chat-completion and
// realtime-session APIs. All failures are normalized into the apperr
// taxonomy so callers can tell a timeout from a provider error from a
// contract change.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"voiceform/internal/apperr"
	"voiceform/internal/config"
)

// Client calls the upstream AI provider
type Client struct {
	cfg    *config.AIConfig
	client *http.Client
	logger *zap.Logger
}

// NewClient creates an upstream AI client
func NewClient(cfg *config.AIConfig, logger *zap.Logger) *Client {
	return &Client{
		cfg:    cfg,
		client: &http.Client{},
		logger: logger,
	}
}

// ChatRequest is one chat-completion call
type ChatRequest struct {
	Model          string
	Temperature    float64
	Messages       []map[string]string
	ResponseFormat map[string]interface{} // optional json_schema constraint
}

// Complete performs a chat completion and returns the message content.
func (c *Client) Complete(ctx context.Context, req ChatRequest) (string, error) {
	payload := map[string]interface{}{
		"model":       req.Model,
		"temperature": req.Temperature,
		"messages":    req.Messages,
	}
	if req.ResponseFormat != nil {
		payload["response_format"] = req.ResponseFormat
	}

	timeout := time.Duration(c.cfg.ChatTimeoutMS) * time.Millisecond
	body, err := c.postJSON(ctx, c.cfg.BaseURL, payload, timeout)
	if err != nil {
		return "", err
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", apperr.UpstreamMalformed(truncate(string(body), 800))
	}
	if len(parsed.Choices) == 0 {
		return "", apperr.UpstreamMalformed("response has no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}

// CreateSession creates a realtime voice session and returns the provider's
// session object (id, model, client_secret, ...).
func (c *Client) CreateSession(ctx context.Context, payload map[string]interface{}) (map[string]interface{}, error) {
	timeout := time.Duration(c.cfg.SessionTimeoutMS) * time.Millisecond
	body, err := c.postJSON(ctx, c.cfg.RealtimeURL, payload, timeout)
	if err != nil {
		return nil, err
	}

	var session map[string]interface{}
	if err := json.Unmarshal(body, &session); err != nil {
		return nil, apperr.UpstreamMalformed(truncate(string(body), 800))
	}
	return session, nil
}

// postJSON posts a payload and returns the raw success body, mapping every
// failure mode onto the apperr taxonomy.
func (c *Client) postJSON(ctx context.Context, url string, payload interface{}, timeout time.Duration) ([]byte, error) {
	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return nil, apperr.Internal("failed to encode upstream payload", err.Error())
	}

	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, http.MethodPost, url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, apperr.Internal("failed to build upstream request", err.Error())
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			c.logger.Warn("upstream call timed out", zap.String("url", url))
			return nil, apperr.UpstreamTimeout()
		}
		c.logger.Error("upstream request failed", zap.String("url", url), zap.Error(err))
		return nil, apperr.UpstreamTransport(err.Error())
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperr.UpstreamTransport(err.Error())
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var details interface{}
		if err := json.Unmarshal(body, &details); err != nil {
			details = truncate(string(body), 800)
		}
		c.logger.Warn("upstream returned error status",
			zap.String("url", url), zap.Int("status", resp.StatusCode))
		return nil, apperr.UpstreamStatus(resp.StatusCode, details)
	}
	return body, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// StripCodeFences unwraps model output wrapped in markdown code fences.
func StripCodeFences(content string) string {
	content = strings.TrimSpace(content)
	if strings.Contains(content, "```json") {
		content = strings.SplitN(content, "```json", 2)[1]
	} else if strings.Contains(content, "```") {
		content = strings.SplitN(content, "```", 2)[1]
	} else {
		return content
	}
	if idx := strings.Index(content, "```"); idx >= 0 {
		content = content[:idx]
	}
	return strings.TrimSpace(content)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
