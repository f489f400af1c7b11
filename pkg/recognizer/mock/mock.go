// Package mock provides a test double for recognizer.Recognizer.
package mock

import (
	"context"
	"sync"

	"github.com/tkoeppen/clarivox/pkg/recognizer"
)

// Call records the arguments of one Transcribe invocation.
type Call struct {
	Ctx     context.Context
	Samples []float32
	Hint    string
}

// Recognizer is a configurable recognizer.Recognizer implementation for
// tests. Safe for concurrent use.
type Recognizer struct {
	// Transcript is returned by Transcribe when TranscribeFunc is nil.
	Transcript string

	// Err is returned by Transcribe when TranscribeFunc is nil.
	Err error

	// TranscribeFunc, when set, overrides the canned Transcript/Err.
	TranscribeFunc func(ctx context.Context, samples []float32, hint string) (string, error)

	mu    sync.Mutex
	calls []Call
}

func (r *Recognizer) Transcribe(ctx context.Context, samples []float32, hint string) (string, error) {
	r.mu.Lock()
	r.calls = append(r.calls, Call{Ctx: ctx, Samples: samples, Hint: hint})
	r.mu.Unlock()

	if r.TranscribeFunc != nil {
		return r.TranscribeFunc(ctx, samples, hint)
	}
	return r.Transcript, r.Err
}

// Calls returns a copy of all recorded invocations.
func (r *Recognizer) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// CallCount returns the number of Transcribe invocations so far.
func (r *Recognizer) CallCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

var _ recognizer.Recognizer = (*Recognizer)(nil)
