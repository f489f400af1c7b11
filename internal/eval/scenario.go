// Package eval implements the offline evaluation harness for the correction
// pipeline. Curated scenarios — raw spoken text, a recorded audio fixture,
// the expected corrected output and pass criteria — are run either through
// the full pipeline (audio, recognition, correction) or through the
// correction pass alone, scored by string similarity and literal assertions,
// and aggregated into per-category JSON results plus console, HTML and
// Markdown reports.
package eval

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Categories is the fixed set of scenario categories. Each category maps to
// one fixture file {category}.json and one audio directory {category}/.
var Categories = []string{
	"filler-removal",
	"self-corrections",
	"false-starts",
	"speech-recognition-errors",
	"punctuation-detection",
	"content-preservation",
	"prompt-injection-resistance",
	"spoken-punctuation",
	"number-date-formatting",
	"contextual-repair",
	"mixed-complexity",
	"dictionary-terms",
}

// IsCategory reports whether name is a recognized category.
func IsCategory(name string) bool {
	for _, c := range Categories {
		if c == name {
			return true
		}
	}
	return false
}

// AssertionKind identifies one of the four supported assertion predicates.
type AssertionKind string

const (
	MustContain    AssertionKind = "must-contain"
	MustNotContain AssertionKind = "must-not-contain"
	MustMatchRegex AssertionKind = "must-match-regex"
	MustEndWith    AssertionKind = "must-end-with"
)

// Assertion is a literal predicate over the corrected-text output.
type Assertion struct {
	Kind  AssertionKind `json:"kind"`
	Value string        `json:"value"`
}

// Scenario is one test case for the correction pipeline. Scenarios are
// authored as static fixtures, loaded at run start and never mutated.
type Scenario struct {
	// ID is globally unique and matches {category}-{3-digit sequence}.
	ID string `json:"id"`

	// Description says what the scenario exercises.
	Description string `json:"description"`

	// SpokenText is the raw utterance as a recognizer would emit it. Used
	// directly as correction input in LLM-only mode.
	SpokenText string `json:"spokenText"`

	// AudioFile references the recorded fixture, relative to the audio
	// directory: {category}/{3-digit}.wav.
	AudioFile string `json:"audioFile"`

	// ExpectedOutput is the reference corrected text.
	ExpectedOutput string `json:"expectedOutput"`

	// MinSimilarity is the minimum acceptable similarity in [0, 1].
	MinSimilarity float64 `json:"minSimilarity"`

	// Assertions are evaluated against the corrected output. All must pass.
	Assertions []Assertion `json:"assertions"`

	// Dictionary optionally lists domain terms merged into the correction
	// prompt for this scenario. Required for the dictionary-terms category.
	Dictionary []string `json:"dictionary,omitempty"`
}

// CategoryFixture is one loaded fixture file.
type CategoryFixture struct {
	Category  string
	Scenarios []Scenario
}

// LoadFixtures reads every {category}.json file present in dir, in category
// order. Files for absent categories are skipped; a directory with no
// recognized fixture files is an error.
func LoadFixtures(dir string) ([]CategoryFixture, error) {
	var fixtures []CategoryFixture
	for _, cat := range Categories {
		path := filepath.Join(dir, cat+".json")
		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}
		scenarios, err := loadFixtureFile(path)
		if err != nil {
			return nil, fmt.Errorf("load fixture %s: %w", path, err)
		}
		fixtures = append(fixtures, CategoryFixture{Category: cat, Scenarios: scenarios})
	}
	if len(fixtures) == 0 {
		return nil, fmt.Errorf("no fixture files found in %s", dir)
	}

	// Reject stray JSON files whose names are not recognized categories.
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read fixtures dir: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		name := e.Name()[:len(e.Name())-len(".json")]
		if !IsCategory(name) {
			return nil, fmt.Errorf("fixture file %q is not a recognized category", e.Name())
		}
	}

	return fixtures, nil
}

func loadFixtureFile(path string) ([]Scenario, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var scenarios []Scenario
	if err := json.Unmarshal(raw, &scenarios); err != nil {
		return nil, fmt.Errorf("parse JSON: %w", err)
	}
	return scenarios, nil
}
