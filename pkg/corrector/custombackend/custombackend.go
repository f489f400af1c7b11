// Package custombackend provides the bring-your-own-endpoint corrector for
// self-hosted or otherwise unlisted LLM backends.
//
// The adapter posts a chat-style JSON body to a single configured URL and
// supports three mutually exclusive credential placements: a named HTTP
// header, a named field merged into the JSON body, or a URL query parameter.
// When no token or no attribute name is configured, no credential is
// attached at all — a half-configured credential is never sent.
package custombackend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tkoeppen/clarivox/pkg/corrector"
)

const defaultTimeout = 90 * time.Second

// Compile-time assertion that Corrector implements corrector.Corrector.
var _ corrector.Corrector = (*Corrector)(nil)

// TokenPlacement selects where the credential travels.
type TokenPlacement string

const (
	TokenInHeader TokenPlacement = "header"
	TokenInBody   TokenPlacement = "body"
	TokenInQuery  TokenPlacement = "query"
)

// Config carries the adapter's settings. Endpoint is required; everything
// else is optional.
type Config struct {
	// Endpoint is the URL to POST to. Trailing slashes are stripped.
	Endpoint string

	// Token and TokenAttr together describe the credential. Both must be
	// set for a credential to be attached.
	Token     string
	TokenAttr string

	// TokenSendAs selects the placement. Empty defaults to header.
	TokenSendAs TokenPlacement

	// Model is copied into the request body. When empty the model field is
	// omitted entirely; some backends reject an empty model string.
	Model string

	// HTTPClient replaces the default client (90 s timeout) when non-nil.
	HTTPClient *http.Client
}

// message mirrors the chat-style entries most self-hosted backends accept.
type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// customResponse is a partial view over the handful of response shapes seen
// in the wild. Fields are probed in a fixed order; no usable text in any of
// them yields corrector.ErrNoContent.
type customResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Content  json.RawMessage `json:"content"`
	Text     string          `json:"text"`
	Response string          `json:"response"`
}

// contentBlock supports Anthropic-style content arrays in the top-level
// content field.
type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Corrector posts corrections to an arbitrary configured endpoint. Safe for
// concurrent use; each Correct call issues exactly one request.
type Corrector struct {
	httpClient   *http.Client
	endpoint     string
	token        string
	tokenAttr    string
	placement    TokenPlacement
	model        string
	systemPrompt string
}

// New constructs a custom-endpoint corrector from cfg. cfg.Endpoint must be
// non-empty; an unknown TokenSendAs value is rejected.
func New(cfg Config, systemPrompt string) (*Corrector, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("custombackend: endpoint must not be empty")
	}

	placement := cfg.TokenSendAs
	if placement == "" {
		placement = TokenInHeader
	}
	switch placement {
	case TokenInHeader, TokenInBody, TokenInQuery:
	default:
		return nil, fmt.Errorf("custombackend: unknown token placement %q", cfg.TokenSendAs)
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}

	return &Corrector{
		httpClient:   client,
		endpoint:     strings.TrimRight(cfg.Endpoint, "/"),
		token:        cfg.Token,
		tokenAttr:    cfg.TokenAttr,
		placement:    placement,
		model:        cfg.Model,
		systemPrompt: systemPrompt,
	}, nil
}

// Correct implements corrector.Corrector.
func (c *Corrector) Correct(ctx context.Context, rawText string) (string, error) {
	body := map[string]any{
		"messages": []message{
			{Role: "system", Content: c.systemPrompt},
			{Role: "user", Content: rawText},
		},
		"temperature": corrector.Temperature,
		"max_tokens":  corrector.MaxTokens,
	}
	if c.model != "" {
		body["model"] = c.model
	}

	hasCredential := c.token != "" && c.tokenAttr != ""
	if hasCredential && c.placement == TokenInBody {
		body[c.tokenAttr] = c.token
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("custombackend: marshal request: %w", err)
	}

	endpoint := c.endpoint
	if hasCredential && c.placement == TokenInQuery {
		sep := "?"
		if strings.Contains(endpoint, "?") {
			sep = "&"
		}
		endpoint += sep + queryEscape(c.tokenAttr) + "=" + queryEscape(c.token)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("custombackend: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if hasCredential && c.placement == TokenInHeader {
		req.Header.Set(c.tokenAttr, c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("custombackend: send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("custombackend: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &corrector.HTTPError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(respBody),
		}
	}

	var cr customResponse
	if err := json.Unmarshal(respBody, &cr); err != nil {
		return "", fmt.Errorf("custombackend: decode response: %w", err)
	}

	if text := extractText(cr); text != "" {
		return text, nil
	}
	return "", fmt.Errorf("custombackend: %w", corrector.ErrNoContent)
}

// extractText probes the known response shapes in order: chat-completions
// choices, a top-level content string or block array, then bare text and
// response fields. Returns "" when nothing usable is found.
func extractText(cr customResponse) string {
	if len(cr.Choices) > 0 {
		if text := strings.TrimSpace(cr.Choices[0].Message.Content); text != "" {
			return text
		}
	}

	if len(cr.Content) > 0 {
		var s string
		if err := json.Unmarshal(cr.Content, &s); err == nil {
			if text := strings.TrimSpace(s); text != "" {
				return text
			}
		}
		var blocks []contentBlock
		if err := json.Unmarshal(cr.Content, &blocks); err == nil {
			for _, b := range blocks {
				if b.Type != "" && b.Type != "text" {
					continue
				}
				if text := strings.TrimSpace(b.Text); text != "" {
					return text
				}
			}
		}
	}

	if text := strings.TrimSpace(cr.Text); text != "" {
		return text
	}
	return strings.TrimSpace(cr.Response)
}

// queryEscape percent-encodes s for use in a query component, using %20 for
// spaces rather than the form-encoding plus sign.
func queryEscape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
