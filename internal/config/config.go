// Package config provides the configuration schema and loader for clarivox.
package config

// LogLevel controls log verbosity.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a recognised log level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// Provider identifies which correction backend the LLM config selects.
// Exactly one backend is active at a time; fields belonging to other
// backends are ignored, and missing fields make the provider "not
// configured" rather than a runtime error.
type Provider string

const (
	// Chat-completions compatible backends, all served by the same adapter.
	ProviderOpenAI   Provider = "openai"
	ProviderDeepSeek Provider = "deepseek"
	ProviderGLM      Provider = "glm"
	ProviderLiteLLM  Provider = "litellm"

	// ProviderAnthropic uses the Anthropic Messages API.
	ProviderAnthropic Provider = "anthropic"

	// ProviderBedrock uses AWS Bedrock with AWS credential resolution.
	ProviderBedrock Provider = "bedrock"

	// Local or alternative vendors served through the universal adapter.
	ProviderOllama    Provider = "ollama"
	ProviderLlamaCpp  Provider = "llamacpp"
	ProviderLlamaFile Provider = "llamafile"
	ProviderMistral   Provider = "mistral"
	ProviderGroq      Provider = "groq"

	// ProviderCustom is the bring-your-own-endpoint adapter.
	ProviderCustom Provider = "custom"
)

// IsValid reports whether p is a recognised provider tag.
func (p Provider) IsValid() bool {
	switch p {
	case ProviderOpenAI, ProviderDeepSeek, ProviderGLM, ProviderLiteLLM,
		ProviderAnthropic, ProviderBedrock,
		ProviderOllama, ProviderLlamaCpp, ProviderLlamaFile,
		ProviderMistral, ProviderGroq,
		ProviderCustom:
		return true
	}
	return false
}

// TokenPlacement selects where the custom adapter attaches its credential.
type TokenPlacement string

const (
	TokenInHeader TokenPlacement = "header"
	TokenInBody   TokenPlacement = "body"
	TokenInQuery  TokenPlacement = "query"
)

// IsValid reports whether t is a recognised token placement.
func (t TokenPlacement) IsValid() bool {
	switch t {
	case TokenInHeader, TokenInBody, TokenInQuery:
		return true
	}
	return false
}

// Config is the root configuration structure for clarivox. It is typically
// loaded from a YAML file using [Load] or [LoadFromReader]; API keys may be
// left empty in the file and supplied via the environment instead.
type Config struct {
	// LogLevel controls verbosity. Empty means "info".
	LogLevel LogLevel `yaml:"log_level"`

	// LLM selects and configures the correction backend.
	LLM LLMConfig `yaml:"llm"`

	// CustomPrompt is appended verbatim after the base correction
	// instructions in the system prompt.
	CustomPrompt string `yaml:"custom_prompt"`

	// Dictionary lists the user's domain-specific terms, biased into both
	// the recognizer hint and the correction system prompt.
	Dictionary []string `yaml:"dictionary"`

	// Languages lists the languages the user dictates in (e.g., "German",
	// "English"). Injected as language context into the system prompt.
	Languages []string `yaml:"languages"`

	// Eval configures the offline evaluation harness.
	Eval EvalConfig `yaml:"eval"`
}

// LLMConfig carries the provider discriminator plus per-provider fields.
// The flat fields (APIKey, BaseURL, Model) apply to the chat-completions,
// Anthropic, and universal adapters; Bedrock and Custom carry their own
// blocks.
type LLMConfig struct {
	// Provider selects the backend.
	Provider Provider `yaml:"provider"`

	// APIKey authenticates against the selected backend. Falls back to the
	// backend's conventional environment variable when empty.
	APIKey string `yaml:"api_key"`

	// BaseURL overrides the backend's default API endpoint. Required for
	// the litellm and glm tags, optional elsewhere.
	BaseURL string `yaml:"base_url"`

	// Model is the model identifier (e.g., "gpt-4o-mini").
	Model string `yaml:"model"`

	// Bedrock holds AWS-specific settings, used only when Provider is "bedrock".
	Bedrock BedrockConfig `yaml:"bedrock"`

	// Custom holds the bring-your-own-endpoint settings, used only when
	// Provider is "custom".
	Custom CustomConfig `yaml:"custom"`
}

// BedrockConfig configures the AWS Bedrock backend. Credentials resolve to
// either the static key pair (both halves required) or the named profile.
type BedrockConfig struct {
	// Region is the AWS region hosting the model (e.g., "eu-central-1").
	Region string `yaml:"region"`

	// ModelID is the Bedrock model identifier
	// (e.g., "anthropic.claude-3-5-haiku-20241022-v1:0").
	ModelID string `yaml:"model_id"`

	// Profile names a shared-config AWS profile.
	Profile string `yaml:"profile"`

	// AccessKeyID and SecretAccessKey form a static credential pair.
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`

	// SessionToken is the optional STS session token for temporary keys.
	SessionToken string `yaml:"session_token"`
}

// CustomConfig configures the generic bring-your-own-endpoint backend.
type CustomConfig struct {
	// Endpoint is the full URL to POST correction requests to. Trailing
	// slashes are stripped before use.
	Endpoint string `yaml:"endpoint"`

	// Token is the credential value. When Token or TokenAttr is empty no
	// credential is attached at all.
	Token string `yaml:"token"`

	// TokenAttr names the header, body field, or query parameter that
	// carries the token.
	TokenAttr string `yaml:"token_attr"`

	// TokenSendAs selects the credential placement. Empty means "header".
	TokenSendAs TokenPlacement `yaml:"token_send_as"`

	// Model is optional; when empty the model field is omitted from the
	// request body entirely (some backends reject an empty model string).
	Model string `yaml:"model"`
}

// EvalConfig configures the offline evaluation harness.
type EvalConfig struct {
	// FixturesDir holds one {category}.json scenario file per category.
	FixturesDir string `yaml:"fixtures_dir"`

	// AudioDir holds the {category}/{NNN}.wav fixtures for full-pipeline runs.
	AudioDir string `yaml:"audio_dir"`

	// ResultsDir receives one {category}.json result file per category plus
	// the aggregate report.html and report.md.
	ResultsDir string `yaml:"results_dir"`

	// ModelPath points at a local whisper.cpp model file. When set (and
	// loadable) the harness runs the full audio pipeline; when empty it runs
	// LLM-only, feeding each scenario's spoken text directly to the corrector.
	ModelPath string `yaml:"model_path"`

	// Language is the recognition language hint for full-pipeline runs.
	Language string `yaml:"language"`

	// Parallelism bounds how many categories run concurrently. Zero or one
	// means sequential — the default, to respect provider rate limits.
	Parallelism int `yaml:"parallelism"`
}
