// Package mock provides a test double for the corrector.Corrector interface.
//
// Use Corrector in unit tests to feed controlled corrections without a live
// backend, and in LLM-only harness runs against scripted outputs. All fields
// are safe to set before calling any method; mutating them during a
// concurrent call is the caller's responsibility.
//
// Example:
//
//	c := &mock.Corrector{Response: "I wanted to talk about the new feature."}
//	got, err := c.Correct(ctx, "so um I wanted to talk about the uh new feature")
package mock

import (
	"context"
	"sync"

	"github.com/tkoeppen/clarivox/pkg/corrector"
)

// Compile-time assertion that Corrector implements corrector.Corrector.
var _ corrector.Corrector = (*Corrector)(nil)

// Call records a single invocation of Correct.
type Call struct {
	// Ctx is the context passed to Correct.
	Ctx context.Context
	// RawText is the raw text passed to Correct.
	RawText string
}

// Corrector is a mock implementation of corrector.Corrector.
type Corrector struct {
	mu sync.Mutex

	// Response is returned by Correct when CorrectFunc and Err are unset.
	Response string

	// Err, if non-nil, is returned as the error from Correct.
	Err error

	// CorrectFunc, if non-nil, fully replaces the canned Response/Err
	// behaviour. Useful for per-input scripting.
	CorrectFunc func(ctx context.Context, rawText string) (string, error)

	// Calls records every Correct invocation in order.
	Calls []Call
}

// Correct implements corrector.Corrector.
func (c *Corrector) Correct(ctx context.Context, rawText string) (string, error) {
	c.mu.Lock()
	c.Calls = append(c.Calls, Call{Ctx: ctx, RawText: rawText})
	fn := c.CorrectFunc
	resp, err := c.Response, c.Err
	c.mu.Unlock()

	if fn != nil {
		return fn(ctx, rawText)
	}
	if err != nil {
		return "", err
	}
	return resp, nil
}

// CallCount returns the number of recorded Correct invocations.
func (c *Corrector) CallCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.Calls)
}
