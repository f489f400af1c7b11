package anthropic_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tkoeppen/clarivox/pkg/corrector"
	"github.com/tkoeppen/clarivox/pkg/corrector/anthropic"
)

func TestCorrect_RequestShape(t *testing.T) {
	t.Parallel()

	var gotPath, gotKey, gotVersion string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-api-key")
		gotVersion = r.Header.Get("anthropic-version")
		json.NewDecoder(r.Body).Decode(&gotBody)
		io.WriteString(w, `{"content":[{"type":"text","text":"cleaned"}]}`)
	}))
	defer srv.Close()

	c, err := anthropic.New("sk-ant-test", "claude-3-5-haiku-latest", "fix the text",
		anthropic.WithBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := c.Correct(context.Background(), "raw words"); err != nil {
		t.Fatalf("Correct: %v", err)
	}

	if gotPath != "/v1/messages" {
		t.Errorf("path = %q, want /v1/messages", gotPath)
	}
	if gotKey != "sk-ant-test" {
		t.Errorf("x-api-key = %q", gotKey)
	}
	if gotVersion != "2023-06-01" {
		t.Errorf("anthropic-version = %q", gotVersion)
	}

	// The system prompt is a top-level field, never a message entry.
	if gotBody["system"] != "fix the text" {
		t.Errorf("system = %v, want top-level system prompt", gotBody["system"])
	}
	msgs, ok := gotBody["messages"].([]any)
	if !ok || len(msgs) != 1 {
		t.Fatalf("messages = %v, want exactly one user message", gotBody["messages"])
	}
	user := msgs[0].(map[string]any)
	if user["role"] != "user" || user["content"] != "raw words" {
		t.Errorf("user message = %v", user)
	}
	if temp := gotBody["temperature"].(float64); temp != 0.1 {
		t.Errorf("temperature = %v, want 0.1", temp)
	}
	if mt := gotBody["max_tokens"].(float64); mt != 4096 {
		t.Errorf("max_tokens = %v, want 4096", mt)
	}
}

func TestCorrect_TrimsWhitespace(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"content":[{"type":"text","text":"  X  "}]}`)
	}))
	defer srv.Close()

	c, err := anthropic.New("k", "m", "sys", anthropic.WithBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got, err := c.Correct(context.Background(), "x")
	if err != nil {
		t.Fatalf("Correct: %v", err)
	}
	if got != "X" {
		t.Errorf("Correct = %q, want %q", got, "X")
	}
}

func TestCorrect_SkipsNonTextBlocks(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"content":[{"type":"thinking","text":"hmm"},{"type":"text","text":"done"}]}`)
	}))
	defer srv.Close()

	c, err := anthropic.New("k", "m", "sys", anthropic.WithBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got, err := c.Correct(context.Background(), "x")
	if err != nil {
		t.Fatalf("Correct: %v", err)
	}
	if got != "done" {
		t.Errorf("Correct = %q, want %q", got, "done")
	}
}

func TestCorrect_EmptyContentIsNoContent(t *testing.T) {
	t.Parallel()

	for name, body := range map[string]string{
		"empty array":    `{"content":[]}`,
		"missing field":  `{}`,
		"blank text":     `{"content":[{"type":"text","text":"   "}]}`,
		"no text blocks": `{"content":[{"type":"tool_use"}]}`,
	} {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, body)
			}))
			defer srv.Close()

			c, err := anthropic.New("k", "m", "sys", anthropic.WithBaseURL(srv.URL))
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			if _, err := c.Correct(context.Background(), "x"); !corrector.IsNoContent(err) {
				t.Errorf("error = %v, want ErrNoContent", err)
			}
		})
	}
}

func TestCorrect_HTTPErrorCarriesBody(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		io.WriteString(w, `{"error":{"type":"rate_limit_error","message":"slow down"}}`)
	}))
	defer srv.Close()

	c, err := anthropic.New("k", "m", "sys", anthropic.WithBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	_, err = c.Correct(context.Background(), "x")
	var httpErr *corrector.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("error = %v, want *corrector.HTTPError", err)
	}
	if httpErr.StatusCode != http.StatusTooManyRequests {
		t.Errorf("status code = %d, want 429", httpErr.StatusCode)
	}
	if !strings.Contains(httpErr.Body, "slow down") {
		t.Errorf("body not surfaced verbatim: %q", httpErr.Body)
	}
}

func TestNew_RequiresKeyAndModel(t *testing.T) {
	t.Parallel()

	if _, err := anthropic.New("", "m", "sys"); err == nil {
		t.Error("expected error for empty api key")
	}
	if _, err := anthropic.New("k", "", "sys"); err == nil {
		t.Error("expected error for empty model")
	}
}
