package enhance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tkoeppen/clarivox/internal/config"
	"github.com/tkoeppen/clarivox/internal/prompt"
	"github.com/tkoeppen/clarivox/pkg/corrector"
)

// ErrNotConfigured is returned by [New] when the selected provider is
// missing required fields. Callers should treat this as "feature disabled",
// not as a fault.
var ErrNotConfigured = errors.New("enhance: llm provider is not configured")

// connectionProbe is the fixed utterance sent by TestConnection. Short and
// unambiguous so any working backend answers cheaply.
const connectionProbe = "this is a connection test"

// SystemPrompt assembles the correction system prompt from the persisted
// configuration: custom prompt, dictionary, and language context.
func SystemPrompt(cfg *config.Config) string {
	return prompt.BuildSystemPrompt(cfg.CustomPrompt, cfg.Dictionary, cfg.Languages...)
}

// Enhancer runs the LLM correction pass over raw recognizer output. It is
// safe for concurrent use.
//
// Correction failures propagate unmodified: the caller decides whether to
// fall back to pasting the raw transcript. The Enhancer never substitutes
// text of its own.
type Enhancer struct {
	corr corrector.Corrector
	tag  config.Provider
}

// New constructs an Enhancer from the persisted configuration. It returns
// [ErrNotConfigured] when the selected provider is incomplete. decorate, when
// non-nil, wraps the constructed corrector (used for instrumentation).
func New(ctx context.Context, cfg *config.Config, decorate func(corrector.Corrector) corrector.Corrector) (*Enhancer, error) {
	if !IsConfigured(cfg.LLM) {
		return nil, ErrNotConfigured
	}

	corr, err := NewCorrector(ctx, cfg.LLM, SystemPrompt(cfg))
	if err != nil {
		return nil, err
	}
	if decorate != nil {
		corr = decorate(corr)
	}

	return &Enhancer{corr: corr, tag: cfg.LLM.Provider}, nil
}

// Enhance sends rawText through the correction pass and returns the cleaned
// text. rawText must be non-empty.
func (e *Enhancer) Enhance(ctx context.Context, rawText string) (string, error) {
	if rawText == "" {
		return "", errors.New("enhance: raw text must not be empty")
	}

	start := time.Now()
	cleaned, err := e.corr.Correct(ctx, rawText)
	if err != nil {
		return "", err
	}

	slog.Debug("correction pass completed",
		"provider", e.tag,
		"raw_chars", len(rawText),
		"cleaned_chars", len(cleaned),
		"duration", time.Since(start),
	)
	return cleaned, nil
}

// TestConnection issues one real correction round trip with a fixed probe
// utterance. A nil return means the backend is reachable, authenticated, and
// producing text.
func (e *Enhancer) TestConnection(ctx context.Context) error {
	if _, err := e.corr.Correct(ctx, connectionProbe); err != nil {
		return fmt.Errorf("enhance: connection test against %q: %w", e.tag, err)
	}
	return nil
}
