// Package openaichat provides a corrector backed by any chat-completions
// compatible API: OpenAI itself, DeepSeek, GLM, LiteLLM gateways, and local
// servers speaking the same protocol.
//
// The adapter authenticates with a bearer Authorization header and posts to
// {endpoint}/v1/chat/completions; the endpoint is stripped of trailing
// slashes before the suffix is applied.
package openaichat

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/shared"

	"github.com/tkoeppen/clarivox/pkg/corrector"
)

// Compile-time assertion that Corrector implements corrector.Corrector.
var _ corrector.Corrector = (*Corrector)(nil)

// config holds optional configuration for the corrector.
type config struct {
	endpoint string
	timeout  time.Duration
}

// Option is a functional option for Corrector.
type Option func(*config)

// WithEndpoint overrides the default OpenAI API base endpoint. Use this for
// DeepSeek, GLM, LiteLLM, or any local compatible server. Trailing slashes
// are stripped; the /v1/chat/completions suffix is appended by the adapter.
func WithEndpoint(url string) Option {
	return func(c *config) {
		c.endpoint = url
	}
}

// WithTimeout sets a per-request HTTP timeout. Zero leaves the SDK default.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		c.timeout = d
	}
}

// Corrector is a chat-completions backed corrector. Safe for concurrent use;
// each Correct call issues exactly one request and keeps no state.
type Corrector struct {
	client       oai.Client
	model        string
	systemPrompt string
}

// New constructs a chat-completions corrector. apiKey and model must be
// non-empty; systemPrompt is fixed for the lifetime of the corrector.
func New(apiKey, model, systemPrompt string, opts ...Option) (*Corrector, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openaichat: apiKey must not be empty")
	}
	if model == "" {
		return nil, fmt.Errorf("openaichat: model must not be empty")
	}

	cfg := &config{}
	for _, o := range opts {
		o(cfg)
	}

	reqOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
	}
	if cfg.endpoint != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(strings.TrimRight(cfg.endpoint, "/")+"/v1"))
	}
	if cfg.timeout > 0 {
		reqOpts = append(reqOpts, option.WithHTTPClient(&http.Client{
			Timeout: cfg.timeout,
		}))
	}

	return &Corrector{
		client:       oai.NewClient(reqOpts...),
		model:        model,
		systemPrompt: systemPrompt,
	}, nil
}

// Correct implements corrector.Corrector.
func (c *Corrector) Correct(ctx context.Context, rawText string) (string, error) {
	params := oai.ChatCompletionNewParams{
		Model: shared.ChatModel(c.model),
		Messages: []oai.ChatCompletionMessageParamUnion{
			oai.SystemMessage(c.systemPrompt),
			oai.UserMessage(rawText),
		},
		Temperature:         param.NewOpt(float64(corrector.Temperature)),
		MaxCompletionTokens: param.NewOpt(int64(corrector.MaxTokens)),
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		var apiErr *oai.Error
		if errors.As(err, &apiErr) {
			status := http.StatusText(apiErr.StatusCode)
			if apiErr.Response != nil {
				status = apiErr.Response.Status
			}
			return "", &corrector.HTTPError{
				StatusCode: apiErr.StatusCode,
				Status:     status,
				Body:       apiErr.RawJSON(),
			}
		}
		return "", fmt.Errorf("openaichat: chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openaichat: %w", corrector.ErrNoContent)
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("openaichat: %w", corrector.ErrNoContent)
	}
	return text, nil
}
