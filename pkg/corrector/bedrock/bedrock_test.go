package bedrock_test

import (
	"context"
	"strings"
	"testing"

	"github.com/tkoeppen/clarivox/pkg/corrector/bedrock"
)

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name     string
		cfg      bedrock.Config
		wantPart string
	}{
		{
			"missing region",
			bedrock.Config{ModelID: "anthropic.claude-3-haiku", Profile: "default"},
			"region must not be empty",
		},
		{
			"missing model id",
			bedrock.Config{Region: "eu-central-1", Profile: "default"},
			"model id must not be empty",
		},
		{
			"no credentials at all",
			bedrock.Config{Region: "eu-central-1", ModelID: "anthropic.claude-3-haiku"},
			"missing credentials",
		},
		{
			"access key without secret",
			bedrock.Config{Region: "eu-central-1", ModelID: "anthropic.claude-3-haiku", AccessKeyID: "AKIA..."},
			"both access key id and secret access key",
		},
		{
			"secret without access key",
			bedrock.Config{Region: "eu-central-1", ModelID: "anthropic.claude-3-haiku", SecretAccessKey: "secret"},
			"both access key id and secret access key",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := bedrock.New(context.Background(), tc.cfg, "system prompt")
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tc.wantPart) {
				t.Errorf("error %q does not contain %q", err, tc.wantPart)
			}
		})
	}
}

func TestNew_StaticKeyPair(t *testing.T) {
	c, err := bedrock.New(context.Background(), bedrock.Config{
		Region:          "eu-central-1",
		ModelID:         "anthropic.claude-3-haiku",
		AccessKeyID:     "AKIATEST",
		SecretAccessKey: "secret",
		SessionToken:    "token",
	}, "system prompt")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c == nil {
		t.Fatal("New returned nil corrector")
	}
}
