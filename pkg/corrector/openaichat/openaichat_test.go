package openaichat_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tkoeppen/clarivox/pkg/corrector"
	"github.com/tkoeppen/clarivox/pkg/corrector/openaichat"
)

// completionJSON renders a minimal chat-completions response body.
func completionJSON(content string) string {
	b, _ := json.Marshal(map[string]any{
		"id":     "chatcmpl-test",
		"object": "chat.completion",
		"choices": []map[string]any{
			{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			},
		},
	})
	return string(b)
}

func TestCorrect_TrimsWhitespace(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, completionJSON("  X  "))
	}))
	defer srv.Close()

	c, err := openaichat.New("test-key", "gpt-4o-mini", "sys", openaichat.WithEndpoint(srv.URL))
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

func TestCorrect_RemovesFillers(t *testing.T) {
	t.Parallel()

	const want = "I wanted to talk about the new feature."

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, completionJSON(want))
	}))
	defer srv.Close()

	c, err := openaichat.New("test-key", "gpt-4o-mini", "sys", openaichat.WithEndpoint(srv.URL))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	got, err := c.Correct(context.Background(), "so um I wanted to talk about the uh new feature")
	if err != nil {
		t.Fatalf("Correct: %v", err)
	}
	if got != want {
		t.Errorf("Correct = %q, want %q", got, want)
	}
}

func TestCorrect_RequestShape(t *testing.T) {
	t.Parallel()

	var gotPath, gotAuth string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, completionJSON("ok"))
	}))
	defer srv.Close()

	// Trailing slashes on the endpoint must not produce a malformed path.
	c, err := openaichat.New("test-key", "gpt-4o-mini", "fix the text", openaichat.WithEndpoint(srv.URL+"///"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := c.Correct(context.Background(), "raw words"); err != nil {
		t.Fatalf("Correct: %v", err)
	}

	if gotPath != "/v1/chat/completions" {
		t.Errorf("path = %q, want /v1/chat/completions", gotPath)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("Authorization = %q, want bearer token", gotAuth)
	}
	if gotBody["model"] != "gpt-4o-mini" {
		t.Errorf("model = %v", gotBody["model"])
	}
	if temp, ok := gotBody["temperature"].(float64); !ok || temp != 0.1 {
		t.Errorf("temperature = %v, want 0.1", gotBody["temperature"])
	}

	msgs, ok := gotBody["messages"].([]any)
	if !ok || len(msgs) != 2 {
		t.Fatalf("messages = %v, want system + user", gotBody["messages"])
	}
	first := msgs[0].(map[string]any)
	second := msgs[1].(map[string]any)
	if first["role"] != "system" || first["content"] != "fix the text" {
		t.Errorf("first message = %v", first)
	}
	if second["role"] != "user" || second["content"] != "raw words" {
		t.Errorf("second message = %v", second)
	}
}

func TestCorrect_HTTPErrorSurfacesStatusAndBody(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"error":{"message":"invalid api key"}}`)
	}))
	defer srv.Close()

	c, err := openaichat.New("bad-key", "gpt-4o-mini", "sys", openaichat.WithEndpoint(srv.URL))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	_, err = c.Correct(context.Background(), "x")
	var httpErr *corrector.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("error = %v, want *corrector.HTTPError", err)
	}
	if httpErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("status code = %d, want 401", httpErr.StatusCode)
	}
}

func TestCorrect_EmptyContentIsNoContent(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, completionJSON("   "))
	}))
	defer srv.Close()

	c, err := openaichat.New("test-key", "gpt-4o-mini", "sys", openaichat.WithEndpoint(srv.URL))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	_, err = c.Correct(context.Background(), "x")
	if !corrector.IsNoContent(err) {
		t.Errorf("error = %v, want ErrNoContent", err)
	}
}

func TestNew_RequiresKeyAndModel(t *testing.T) {
	t.Parallel()

	if _, err := openaichat.New("", "gpt-4o-mini", "sys"); err == nil {
		t.Error("expected error for empty api key")
	}
	if _, err := openaichat.New("key", "", "sys"); err == nil {
		t.Error("expected error for empty model")
	}
}
