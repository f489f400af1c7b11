// Package corrector defines the Corrector interface for LLM-backed dictation
// cleanup backends.
//
// A corrector wraps exactly one remote or local model API (e.g., an
// OpenAI-compatible server, Anthropic, AWS Bedrock, or a self-hosted
// endpoint) and exposes a single operation: turn the raw output of a speech
// recognizer into cleaned-up prose. The system prompt that steers the model
// is fixed at construction time; each Correct call is independent, issues at
// most one outbound request, and keeps no state across calls — retrying with
// the same input is always safe on the client side.
//
// Implementors must be safe for concurrent use and must propagate context
// cancellation promptly.
package corrector

import "context"

const (
	// Temperature is the sampling temperature every corrector requests.
	// Correction is not open generation; a low temperature minimises
	// invented content.
	Temperature = 0.1

	// MaxTokens caps the completion length every corrector requests.
	MaxTokens = 4096
)

// Corrector is the abstraction over any correction backend.
//
// Correct sends rawText to the model and returns the cleaned text with
// surrounding whitespace trimmed. rawText must be non-empty. The result is
// whole-response: there is no streaming and no partial output.
//
// Failures are surfaced unmodified to the caller: an [*HTTPError] for a
// non-2xx upstream response, an error wrapping [ErrNoContent] when the
// upstream accepted the request but produced no usable text, or a transport/
// context error otherwise. Correctors never substitute fallback text — the
// caller decides whether to fall back to the raw transcript.
type Corrector interface {
	Correct(ctx context.Context, rawText string) (string, error)
}
