// Package enhance wires the configured correction backend into the dictation
// pipeline: it validates provider configuration, constructs the matching
// corrector from the config discriminator, and exposes the enhancement
// operation the paste/history layers call per utterance.
package enhance

import (
	"context"
	"fmt"

	anyllmlib "github.com/mozilla-ai/any-llm-go"

	"github.com/tkoeppen/clarivox/internal/config"
	"github.com/tkoeppen/clarivox/pkg/corrector"
	"github.com/tkoeppen/clarivox/pkg/corrector/anthropic"
	"github.com/tkoeppen/clarivox/pkg/corrector/anyllm"
	"github.com/tkoeppen/clarivox/pkg/corrector/bedrock"
	"github.com/tkoeppen/clarivox/pkg/corrector/custombackend"
	"github.com/tkoeppen/clarivox/pkg/corrector/openaichat"
)

// deepSeekEndpoint is the default DeepSeek API endpoint; DeepSeek speaks the
// chat-completions protocol. GLM and LiteLLM deployments vary per user, so
// those tags require an explicit base_url instead of a baked-in default.
const deepSeekEndpoint = "https://api.deepseek.com"

// IsConfigured reports whether cfg carries the minimum fields its selected
// provider needs. This is a pure precondition check — no network call — and
// gates both feature enablement and the connection test. Partial or missing
// fields make a provider "not configured"; they are never a runtime error.
func IsConfigured(cfg config.LLMConfig) bool {
	switch cfg.Provider {
	case config.ProviderOpenAI, config.ProviderDeepSeek,
		config.ProviderAnthropic,
		config.ProviderMistral, config.ProviderGroq:
		return cfg.APIKey != "" && cfg.Model != ""

	case config.ProviderGLM, config.ProviderLiteLLM:
		return cfg.APIKey != "" && cfg.Model != "" && cfg.BaseURL != ""

	case config.ProviderBedrock:
		b := cfg.Bedrock
		hasCreds := b.Profile != "" || (b.AccessKeyID != "" && b.SecretAccessKey != "")
		return b.Region != "" && b.ModelID != "" && hasCreds

	case config.ProviderOllama, config.ProviderLlamaCpp, config.ProviderLlamaFile:
		// Local backends need no credential, only a model.
		return cfg.Model != ""

	case config.ProviderCustom:
		c := cfg.Custom
		return c.Endpoint != "" && c.Token != "" && c.TokenAttr != ""
	}
	return false
}

// NewCorrector constructs the concrete corrector selected by cfg.Provider,
// with systemPrompt fixed for its lifetime. Unknown or empty provider tags
// fail closed — there is no silent no-op backend.
func NewCorrector(ctx context.Context, cfg config.LLMConfig, systemPrompt string) (corrector.Corrector, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		return newChat(cfg, systemPrompt, cfg.BaseURL)

	case config.ProviderDeepSeek:
		endpoint := cfg.BaseURL
		if endpoint == "" {
			endpoint = deepSeekEndpoint
		}
		return newChat(cfg, systemPrompt, endpoint)

	case config.ProviderGLM, config.ProviderLiteLLM:
		if cfg.BaseURL == "" {
			return nil, fmt.Errorf("enhance: provider %q requires llm.base_url", cfg.Provider)
		}
		return newChat(cfg, systemPrompt, cfg.BaseURL)

	case config.ProviderAnthropic:
		var opts []anthropic.Option
		if cfg.BaseURL != "" {
			opts = append(opts, anthropic.WithBaseURL(cfg.BaseURL))
		}
		return anthropic.New(cfg.APIKey, cfg.Model, systemPrompt, opts...)

	case config.ProviderBedrock:
		return bedrock.New(ctx, bedrock.Config{
			Region:          cfg.Bedrock.Region,
			ModelID:         cfg.Bedrock.ModelID,
			Profile:         cfg.Bedrock.Profile,
			AccessKeyID:     cfg.Bedrock.AccessKeyID,
			SecretAccessKey: cfg.Bedrock.SecretAccessKey,
			SessionToken:    cfg.Bedrock.SessionToken,
		}, systemPrompt)

	case config.ProviderOllama, config.ProviderLlamaCpp, config.ProviderLlamaFile,
		config.ProviderMistral, config.ProviderGroq:
		var opts []anyllmlib.Option
		if cfg.APIKey != "" {
			opts = append(opts, anyllmlib.WithAPIKey(cfg.APIKey))
		}
		if cfg.BaseURL != "" {
			opts = append(opts, anyllmlib.WithBaseURL(cfg.BaseURL))
		}
		return anyllm.New(string(cfg.Provider), cfg.Model, systemPrompt, opts...)

	case config.ProviderCustom:
		return custombackend.New(custombackend.Config{
			Endpoint:    cfg.Custom.Endpoint,
			Token:       cfg.Custom.Token,
			TokenAttr:   cfg.Custom.TokenAttr,
			TokenSendAs: custombackend.TokenPlacement(cfg.Custom.TokenSendAs),
			Model:       cfg.Custom.Model,
		}, systemPrompt)
	}

	return nil, fmt.Errorf("enhance: unsupported provider %q", cfg.Provider)
}

// newChat constructs the shared chat-completions corrector. An empty
// endpoint keeps the SDK's OpenAI default.
func newChat(cfg config.LLMConfig, systemPrompt, endpoint string) (corrector.Corrector, error) {
	var opts []openaichat.Option
	if endpoint != "" {
		opts = append(opts, openaichat.WithEndpoint(endpoint))
	}
	return openaichat.New(cfg.APIKey, cfg.Model, systemPrompt, opts...)
}
