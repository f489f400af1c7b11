package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads the YAML configuration file at path and returns a validated
// [Config]. It is a convenience wrapper around [LoadFromReader].
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r and validates the result.
// Useful in tests where configs are constructed from string literals.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that cfg contains a coherent set of values. It returns a
// joined error listing all validation failures found.
//
// Validation is deliberately shallow about credentials: a missing API key is
// not an error here — it only makes the provider "not configured", which the
// enhancement layer checks separately before enabling the feature.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.LogLevel != "" && !cfg.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("log_level %q is invalid; valid values: debug, info, warn, error", cfg.LogLevel))
	}

	if cfg.LLM.Provider != "" && !cfg.LLM.Provider.IsValid() {
		errs = append(errs, fmt.Errorf("llm.provider %q is not a recognised provider", cfg.LLM.Provider))
	}

	if p := cfg.LLM.Custom.TokenSendAs; p != "" && !p.IsValid() {
		errs = append(errs, fmt.Errorf("llm.custom.token_send_as %q is invalid; valid values: header, body, query", p))
	}

	for i, term := range cfg.Dictionary {
		if term == "" {
			errs = append(errs, fmt.Errorf("dictionary[%d] is empty", i))
		}
	}

	if cfg.Eval.Parallelism < 0 {
		errs = append(errs, fmt.Errorf("eval.parallelism %d is negative", cfg.Eval.Parallelism))
	}

	return errors.Join(errs...)
}
