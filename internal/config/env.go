package config

import "os"

// apiKeyEnvVars maps provider tags to their conventional API-key environment
// variable. Local backends and Bedrock are absent: the former need no key and
// the latter resolves credentials through the AWS SDK chain.
var apiKeyEnvVars = map[Provider]string{
	ProviderOpenAI:    "OPENAI_API_KEY",
	ProviderDeepSeek:  "DEEPSEEK_API_KEY",
	ProviderGLM:       "GLM_API_KEY",
	ProviderLiteLLM:   "LITELLM_API_KEY",
	ProviderAnthropic: "ANTHROPIC_API_KEY",
	ProviderMistral:   "MISTRAL_API_KEY",
	ProviderGroq:      "GROQ_API_KEY",
}

// ApplyEnv fills credentials left empty in the file from the environment:
// the selected provider's conventional API-key variable, and
// CLARIVOX_CUSTOM_TOKEN for the custom adapter. File values always win, so a
// committed config never gets silently overridden.
func (c *Config) ApplyEnv() {
	if c.LLM.APIKey == "" {
		if name, ok := apiKeyEnvVars[c.LLM.Provider]; ok {
			c.LLM.APIKey = os.Getenv(name)
		}
	}
	if c.LLM.Provider == ProviderCustom && c.LLM.Custom.Token == "" {
		c.LLM.Custom.Token = os.Getenv("CLARIVOX_CUSTOM_TOKEN")
	}
}
