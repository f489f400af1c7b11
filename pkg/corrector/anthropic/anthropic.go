// Package anthropic provides a corrector backed by the Anthropic Messages
// API. Unlike the chat-completions family, this protocol takes the system
// prompt as a top-level request field rather than as a message entry, and
// authenticates with a dedicated x-api-key header plus a fixed protocol
// version header.
package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tkoeppen/clarivox/pkg/corrector"
)

const (
	defaultBaseURL = "https://api.anthropic.com"
	messagesPath   = "/v1/messages"
	apiVersion     = "2023-06-01"
	defaultTimeout = 90 * time.Second
)

// Compile-time assertion that Corrector implements corrector.Corrector.
var _ corrector.Corrector = (*Corrector)(nil)

// message is a single conversation entry. The correction call only ever
// sends one user message; the system prompt travels in the top-level field.
type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// messageRequest is the subset of the Messages API request this adapter uses.
type messageRequest struct {
	Model       string    `json:"model"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
	System      string    `json:"system"`
	Messages    []message `json:"messages"`
}

// contentBlock is a partial view of a response content entry. Only text
// blocks are consumed; anything else is skipped.
type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// messageResponse is the subset of the Messages API response this adapter
// reads. Missing or empty content yields corrector.ErrNoContent rather than
// a panic or a silent empty result.
type messageResponse struct {
	Content []contentBlock `json:"content"`
}

// Option is a functional option for Corrector.
type Option func(*Corrector)

// WithBaseURL overrides the default Anthropic API base URL. Primarily for
// tests and API-compatible proxies.
func WithBaseURL(url string) Option {
	return func(c *Corrector) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithHTTPClient replaces the default HTTP client (90 s timeout).
func WithHTTPClient(client *http.Client) Option {
	return func(c *Corrector) {
		c.httpClient = client
	}
}

// Corrector is an Anthropic Messages backed corrector. Safe for concurrent
// use; each Correct call issues exactly one request and keeps no state.
type Corrector struct {
	httpClient   *http.Client
	baseURL      string
	apiKey       string
	model        string
	systemPrompt string
}

// New constructs an Anthropic corrector. apiKey and model must be non-empty.
func New(apiKey, model, systemPrompt string, opts ...Option) (*Corrector, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic: apiKey must not be empty")
	}
	if model == "" {
		return nil, fmt.Errorf("anthropic: model must not be empty")
	}

	c := &Corrector{
		httpClient:   &http.Client{Timeout: defaultTimeout},
		baseURL:      defaultBaseURL,
		apiKey:       apiKey,
		model:        model,
		systemPrompt: systemPrompt,
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// Correct implements corrector.Corrector.
func (c *Corrector) Correct(ctx context.Context, rawText string) (string, error) {
	payload, err := json.Marshal(messageRequest{
		Model:       c.model,
		MaxTokens:   corrector.MaxTokens,
		Temperature: corrector.Temperature,
		System:      c.systemPrompt,
		Messages:    []message{{Role: "user", Content: rawText}},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+messagesPath, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("anthropic: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("anthropic: send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("anthropic: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &corrector.HTTPError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(body),
		}
	}

	var mr messageResponse
	if err := json.Unmarshal(body, &mr); err != nil {
		return "", fmt.Errorf("anthropic: decode response: %w", err)
	}

	for _, block := range mr.Content {
		if block.Type != "text" {
			continue
		}
		if text := strings.TrimSpace(block.Text); text != "" {
			return text, nil
		}
	}
	return "", fmt.Errorf("anthropic: %w", corrector.ErrNoContent)
}
