// Package whispercpp implements recognizer.Recognizer on top of the
// whisper.cpp CGO bindings. The whisper.cpp static library (libwhisper.a)
// and headers (whisper.h) must be available at link time via LIBRARY_PATH
// and C_INCLUDE_PATH respectively.
package whispercpp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	whisperlib "github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"

	"github.com/tkoeppen/clarivox/pkg/recognizer"
)

const defaultLanguage = "en"

// Recognizer transcribes audio using a whisper.cpp model loaded once and
// shared across calls. Each Transcribe call creates its own whisper.cpp
// context, since a context is not safe for concurrent use but the model is.
type Recognizer struct {
	mu       sync.Mutex
	model    whisperlib.Model
	language string
}

// Option configures a Recognizer.
type Option func(*Recognizer)

// WithLanguage sets the transcription language code (e.g. "en", "de").
// Defaults to "en".
func WithLanguage(lang string) Option {
	return func(r *Recognizer) { r.language = lang }
}

// New loads the whisper.cpp model from the given file path. The caller must
// call Close when the recognizer is no longer needed.
func New(modelPath string, opts ...Option) (*Recognizer, error) {
	if modelPath == "" {
		return nil, errors.New("whispercpp: modelPath must not be empty")
	}
	model, err := whisperlib.New(modelPath)
	if err != nil {
		return nil, fmt.Errorf("whispercpp: load model %q: %w", modelPath, err)
	}

	r := &Recognizer{model: model, language: defaultLanguage}
	for _, o := range opts {
		o(r)
	}
	return r, nil
}

// Close releases the whisper model.
func (r *Recognizer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.model != nil {
		err := r.model.Close()
		r.model = nil
		return err
	}
	return nil
}

// Transcribe runs whisper.cpp inference over the full sample buffer and
// returns the concatenated segment text. Samples must be 16 kHz mono.
func (r *Recognizer) Transcribe(ctx context.Context, samples []float32, hint string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("whispercpp: context already cancelled: %w", err)
	}
	if len(samples) == 0 {
		return "", errors.New("whispercpp: no samples")
	}

	r.mu.Lock()
	model := r.model
	r.mu.Unlock()
	if model == nil {
		return "", errors.New("whispercpp: recognizer is closed")
	}

	wctx, err := model.NewContext()
	if err != nil {
		return "", fmt.Errorf("whispercpp: create context: %w", err)
	}

	if err := wctx.SetLanguage(r.language); err != nil {
		slog.Warn("whispercpp: failed to set language, using default", "language", r.language, "error", err)
	}
	if hint != "" {
		wctx.SetInitialPrompt(hint)
	}

	if err := wctx.Process(samples, nil, nil, nil); err != nil {
		return "", fmt.Errorf("whispercpp: process audio: %w", err)
	}

	var parts []string
	for {
		segment, err := wctx.NextSegment()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("whispercpp: read segment: %w", err)
		}
		text := strings.TrimSpace(segment.Text)
		if text != "" {
			parts = append(parts, text)
		}
	}

	return strings.Join(parts, " "), nil
}

var _ recognizer.Recognizer = (*Recognizer)(nil)
