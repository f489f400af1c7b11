// Package anyllm provides a corrector backed by github.com/mozilla-ai/
// any-llm-go, covering local and alternative backends (Ollama, llama.cpp,
// llamafile, Mistral, Groq) through one adapter.
//
// Usage:
//
//	c, err := anyllm.New("ollama", "llama3.1", systemPrompt)
//	c, err := anyllm.New("groq", "llama-3.3-70b-versatile", systemPrompt,
//	    anyllmlib.WithAPIKey("gsk_..."))
package anyllm

import (
	"context"
	"fmt"
	"strings"

	anyllmlib "github.com/mozilla-ai/any-llm-go"
	"github.com/mozilla-ai/any-llm-go/providers/groq"
	"github.com/mozilla-ai/any-llm-go/providers/llamacpp"
	"github.com/mozilla-ai/any-llm-go/providers/llamafile"
	"github.com/mozilla-ai/any-llm-go/providers/mistral"
	"github.com/mozilla-ai/any-llm-go/providers/ollama"

	"github.com/tkoeppen/clarivox/pkg/corrector"
)

// Compile-time assertion that Corrector implements corrector.Corrector.
var _ corrector.Corrector = (*Corrector)(nil)

// Corrector wraps an any-llm-go provider as a correction backend. Safe for
// concurrent use; each Correct call issues exactly one request.
type Corrector struct {
	backend      anyllmlib.Provider
	model        string
	systemPrompt string
}

// New creates a Corrector for the given backend family.
//
// providerName is one of: "ollama", "llamacpp", "llamafile", "mistral",
// "groq". Without an API key option, each backend falls back to its
// conventional environment variable or local default endpoint.
func New(providerName, model, systemPrompt string, opts ...anyllmlib.Option) (*Corrector, error) {
	if providerName == "" {
		return nil, fmt.Errorf("anyllm: providerName must not be empty")
	}
	if model == "" {
		return nil, fmt.Errorf("anyllm: model must not be empty")
	}

	backend, err := createBackend(providerName, opts...)
	if err != nil {
		return nil, fmt.Errorf("anyllm: create %q backend: %w", providerName, err)
	}

	return &Corrector{
		backend:      backend,
		model:        model,
		systemPrompt: systemPrompt,
	}, nil
}

// createBackend creates the underlying any-llm-go provider for the given name.
func createBackend(providerName string, opts ...anyllmlib.Option) (anyllmlib.Provider, error) {
	switch strings.ToLower(providerName) {
	case "ollama":
		return ollama.New(opts...)
	case "llamacpp":
		return llamacpp.New(opts...)
	case "llamafile":
		return llamafile.New(opts...)
	case "mistral":
		return mistral.New(opts...)
	case "groq":
		return groq.New(opts...)
	default:
		return nil, fmt.Errorf("unsupported provider %q; supported: ollama, llamacpp, llamafile, mistral, groq", providerName)
	}
}

// Correct implements corrector.Corrector.
func (c *Corrector) Correct(ctx context.Context, rawText string) (string, error) {
	temperature := float64(corrector.Temperature)
	maxTokens := corrector.MaxTokens

	params := anyllmlib.CompletionParams{
		Model: c.model,
		Messages: []anyllmlib.Message{
			{Role: anyllmlib.RoleSystem, Content: c.systemPrompt},
			{Role: "user", Content: rawText},
		},
		Temperature: &temperature,
		MaxTokens:   &maxTokens,
	}

	resp, err := c.backend.Completion(ctx, params)
	if err != nil {
		return "", fmt.Errorf("anyllm: completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("anyllm: %w", corrector.ErrNoContent)
	}

	text := strings.TrimSpace(resp.Choices[0].Message.ContentString())
	if text == "" {
		return "", fmt.Errorf("anyllm: %w", corrector.ErrNoContent)
	}
	return text, nil
}
