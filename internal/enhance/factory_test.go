package enhance_test

import (
	"context"
	"testing"

	"github.com/tkoeppen/clarivox/internal/config"
	"github.com/tkoeppen/clarivox/internal/enhance"
)

func TestIsConfigured(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  config.LLMConfig
		want bool
	}{
		{
			name: "openai complete",
			cfg:  config.LLMConfig{Provider: config.ProviderOpenAI, APIKey: "k", Model: "gpt-4o-mini"},
			want: true,
		},
		{
			name: "openai missing key",
			cfg:  config.LLMConfig{Provider: config.ProviderOpenAI, Model: "gpt-4o-mini"},
			want: false,
		},
		{
			name: "litellm missing base url",
			cfg:  config.LLMConfig{Provider: config.ProviderLiteLLM, APIKey: "k", Model: "m"},
			want: false,
		},
		{
			name: "litellm complete",
			cfg:  config.LLMConfig{Provider: config.ProviderLiteLLM, APIKey: "k", Model: "m", BaseURL: "https://gw.test"},
			want: true,
		},
		{
			name: "bedrock with profile",
			cfg: config.LLMConfig{Provider: config.ProviderBedrock, Bedrock: config.BedrockConfig{
				Region: "eu-central-1", ModelID: "anthropic.claude-3-5-haiku-20241022-v1:0", Profile: "work",
			}},
			want: true,
		},
		{
			name: "bedrock with key pair",
			cfg: config.LLMConfig{Provider: config.ProviderBedrock, Bedrock: config.BedrockConfig{
				Region: "eu-central-1", ModelID: "m", AccessKeyID: "AKIA...", SecretAccessKey: "s3cr3t",
			}},
			want: true,
		},
		{
			name: "bedrock with half a key pair",
			cfg: config.LLMConfig{Provider: config.ProviderBedrock, Bedrock: config.BedrockConfig{
				Region: "eu-central-1", ModelID: "m", AccessKeyID: "AKIA...",
			}},
			want: false,
		},
		{
			name: "bedrock missing region",
			cfg: config.LLMConfig{Provider: config.ProviderBedrock, Bedrock: config.BedrockConfig{
				ModelID: "m", Profile: "work",
			}},
			want: false,
		},
		{
			name: "ollama needs only a model",
			cfg:  config.LLMConfig{Provider: config.ProviderOllama, Model: "llama3.1"},
			want: true,
		},
		{
			name: "custom complete",
			cfg: config.LLMConfig{Provider: config.ProviderCustom, Custom: config.CustomConfig{
				Endpoint: "https://llm.test", Token: "t", TokenAttr: "Authorization",
			}},
			want: true,
		},
		{
			name: "custom missing token attr",
			cfg: config.LLMConfig{Provider: config.ProviderCustom, Custom: config.CustomConfig{
				Endpoint: "https://llm.test", Token: "t",
			}},
			want: false,
		},
		{
			name: "empty provider",
			cfg:  config.LLMConfig{},
			want: false,
		},
		{
			name: "unknown provider",
			cfg:  config.LLMConfig{Provider: "frobnicator", APIKey: "k", Model: "m"},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := enhance.IsConfigured(tt.cfg); got != tt.want {
				t.Errorf("IsConfigured(%+v) = %v, want %v", tt.cfg, got, tt.want)
			}
		})
	}
}

func TestNewCorrector_FailsClosedOnUnknownTag(t *testing.T) {
	t.Parallel()

	for _, tag := range []config.Provider{"", "frobnicator"} {
		if _, err := enhance.NewCorrector(context.Background(), config.LLMConfig{Provider: tag}, "sys"); err == nil {
			t.Errorf("provider %q: expected fail-closed error, got nil", tag)
		}
	}
}

func TestNewCorrector_KnownTags(t *testing.T) {
	t.Parallel()

	cfgs := []config.LLMConfig{
		{Provider: config.ProviderOpenAI, APIKey: "k", Model: "gpt-4o-mini"},
		{Provider: config.ProviderDeepSeek, APIKey: "k", Model: "deepseek-chat"},
		{Provider: config.ProviderAnthropic, APIKey: "k", Model: "claude-3-5-haiku-latest"},
		{Provider: config.ProviderCustom, Custom: config.CustomConfig{Endpoint: "https://llm.test"}},
	}

	for _, cfg := range cfgs {
		if _, err := enhance.NewCorrector(context.Background(), cfg, "sys"); err != nil {
			t.Errorf("provider %q: %v", cfg.Provider, err)
		}
	}
}

func TestNewCorrector_LiteLLMRequiresBaseURL(t *testing.T) {
	t.Parallel()

	cfg := config.LLMConfig{Provider: config.ProviderLiteLLM, APIKey: "k", Model: "m"}
	if _, err := enhance.NewCorrector(context.Background(), cfg, "sys"); err == nil {
		t.Error("expected error when base_url is missing")
	}
}
