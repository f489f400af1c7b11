package eval

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Mode is the global execution mode of an evaluation run.
type Mode string

const (
	// ModeFullPipeline feeds recorded audio through recognition before
	// correction.
	ModeFullPipeline Mode = "full-pipeline"

	// ModeLLMOnly feeds the scenario's literal spoken text directly to
	// correction, skipping recognition.
	ModeLLMOnly Mode = "llm-only"
)

// ScenarioResult is the outcome of one executed scenario.
type ScenarioResult struct {
	ID     string `json:"id"`
	Passed bool   `json:"passed"`

	Expected string `json:"expected"`
	Actual   string `json:"actual"`

	// RawRecognized is the recognizer output before correction. Empty in
	// LLM-only mode.
	RawRecognized string `json:"rawRecognized,omitempty"`

	Similarity    float64 `json:"similarity"`
	MinSimilarity float64 `json:"minSimilarity"`

	// FailedAssertions holds the messages of assertions that did not hold.
	FailedAssertions []string `json:"failedAssertions,omitempty"`

	// DictionaryHints flags dictionary terms absent from the output together
	// with their likely misrecognized rendering. Diagnostic only; hints never
	// affect pass/fail.
	DictionaryHints []string `json:"dictionaryHints,omitempty"`

	// Error records a pipeline failure (recognition or correction) that
	// prevented scoring. A scenario with an error never passes.
	Error string `json:"error,omitempty"`
}

// CategoryResult aggregates one category's run. One instance is written per
// category fixture file.
type CategoryResult struct {
	Category  string           `json:"category"`
	Mode      Mode             `json:"mode"`
	Timestamp time.Time        `json:"timestamp"`
	Scenarios []ScenarioResult `json:"scenarios"`
}

// Passed returns how many scenarios in the category passed.
func (c CategoryResult) Passed() int {
	n := 0
	for _, s := range c.Scenarios {
		if s.Passed {
			n++
		}
	}
	return n
}

// Store persists category results as JSON files in a results directory.
// Each category owns a distinct file, so concurrent category writers do not
// contend.
type Store struct {
	Dir string
}

// WriteCategory writes one category result to {category}.json in the results
// directory, creating the directory if needed.
func (s *Store) WriteCategory(res CategoryResult) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("create results dir: %w", err)
	}
	raw, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal category result: %w", err)
	}
	path := filepath.Join(s.Dir, res.Category+".json")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write category result: %w", err)
	}
	return nil
}

// ReadAll loads every category result file from the results directory, in
// category order.
func (s *Store) ReadAll() ([]CategoryResult, error) {
	var results []CategoryResult
	for _, cat := range Categories {
		path := filepath.Join(s.Dir, cat+".json")
		raw, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read category result %s: %w", path, err)
		}
		var res CategoryResult
		if err := json.Unmarshal(raw, &res); err != nil {
			return nil, fmt.Errorf("parse category result %s: %w", path, err)
		}
		results = append(results, res)
	}
	return results, nil
}
