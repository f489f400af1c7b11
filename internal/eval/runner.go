package eval

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tkoeppen/clarivox/internal/observe"
	"github.com/tkoeppen/clarivox/internal/prompt"
	"github.com/tkoeppen/clarivox/pkg/audio/wav"
	"github.com/tkoeppen/clarivox/pkg/corrector"
	"github.com/tkoeppen/clarivox/pkg/recognizer"
)

// CorrectorFactory builds a corrector for one scenario. The scenario's
// dictionary (possibly nil) is merged into the correction prompt, so two
// scenarios with different dictionaries get different correctors.
type CorrectorFactory func(ctx context.Context, dictionary []string) (corrector.Corrector, error)

// Runner executes a fixture set and persists per-category results.
//
// The execution mode is a single global decision for the whole run: when a
// Recognizer is set, every scenario runs the full pipeline (audio fixture,
// recognition, correction); when it is nil, every scenario feeds its literal
// spoken text directly to correction.
type Runner struct {
	// Fixtures is the validated fixture set to execute.
	Fixtures []CategoryFixture

	// AudioDir is the root directory holding {category}/{NNN}.wav fixtures.
	// Only used in full-pipeline mode.
	AudioDir string

	// Recognizer transcribes audio fixtures. Nil selects LLM-only mode.
	Recognizer recognizer.Recognizer

	// Language optionally biases recognition via the initial-prompt hint.
	Language string

	// NewCorrector builds the corrector for each scenario.
	NewCorrector CorrectorFactory

	// Store receives one result object per category.
	Store *Store

	// Parallelism bounds concurrent category execution. Scenarios within a
	// category always run sequentially, and each category owns a distinct
	// results file. Values below 1 mean sequential execution.
	Parallelism int

	// Metrics defaults to observe.DefaultMetrics when nil.
	Metrics *observe.Metrics
}

// Mode returns the execution mode this runner will use.
func (r *Runner) Mode() Mode {
	if r.Recognizer != nil {
		return ModeFullPipeline
	}
	return ModeLLMOnly
}

// Run validates the fixture set, executes every category and writes results
// to the store. Scenario-level failures (low similarity, failed assertions,
// pipeline errors) are collected into results rather than aborting the run;
// only infrastructure failures (fixture schema violations, corrector
// construction, result persistence) return an error.
func (r *Runner) Run(ctx context.Context) ([]CategoryResult, error) {
	if r.NewCorrector == nil {
		return nil, fmt.Errorf("eval: NewCorrector must be set")
	}
	if err := ValidateFixtures(r.Fixtures); err != nil {
		return nil, fmt.Errorf("eval: fixture schema: %w", err)
	}

	metrics := r.Metrics
	if metrics == nil {
		metrics = observe.DefaultMetrics()
	}

	limit := r.Parallelism
	if limit < 1 {
		limit = 1
	}

	results := make([]CategoryResult, len(r.Fixtures))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(limit)

	for i, fixture := range r.Fixtures {
		eg.Go(func() error {
			res, err := r.runCategory(egCtx, fixture, metrics)
			if err != nil {
				return err
			}
			if r.Store != nil {
				if err := r.Store.WriteCategory(res); err != nil {
					return fmt.Errorf("eval: persist category %s: %w", fixture.Category, err)
				}
			}
			results[i] = res
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *Runner) runCategory(ctx context.Context, fixture CategoryFixture, metrics *observe.Metrics) (CategoryResult, error) {
	ctx, span := observe.StartSpan(ctx, "eval.category")
	defer span.End()

	log := observe.Logger(ctx).With("category", fixture.Category)
	res := CategoryResult{
		Category:  fixture.Category,
		Mode:      r.Mode(),
		Timestamp: time.Now().UTC(),
	}

	for _, scenario := range fixture.Scenarios {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		sr, err := r.runScenario(ctx, scenario)
		if err != nil {
			return res, err
		}
		res.Scenarios = append(res.Scenarios, sr)

		outcome := "fail"
		if sr.Passed {
			outcome = "pass"
		}
		metrics.RecordEvalScenario(ctx, fixture.Category, outcome)
		log.Debug("scenario finished",
			"id", sr.ID,
			"passed", sr.Passed,
			"similarity", sr.Similarity,
		)
	}

	log.Info("category finished",
		"mode", res.Mode,
		"passed", res.Passed(),
		"total", len(res.Scenarios),
	)
	return res, nil
}

// runScenario executes one scenario. Pipeline failures are recorded in the
// result; only corrector construction failures return an error, because they
// indicate a broken run configuration rather than a bad answer.
func (r *Runner) runScenario(ctx context.Context, s Scenario) (ScenarioResult, error) {
	res := ScenarioResult{
		ID:            s.ID,
		Expected:      s.ExpectedOutput,
		MinSimilarity: s.MinSimilarity,
	}

	input := s.SpokenText
	if r.Recognizer != nil {
		recognized, err := r.recognize(ctx, s)
		if err != nil {
			res.Error = err.Error()
			return res, nil
		}
		res.RawRecognized = recognized
		input = recognized
	}

	c, err := r.NewCorrector(ctx, s.Dictionary)
	if err != nil {
		return res, fmt.Errorf("eval: build corrector for %s: %w", s.ID, err)
	}

	actual, err := c.Correct(ctx, input)
	if err != nil {
		res.Error = err.Error()
		return res, nil
	}
	res.Actual = actual
	res.Similarity = Similarity(actual, s.ExpectedOutput)
	res.FailedAssertions = FailedAssertions(s.Assertions, actual)
	res.Passed = res.Similarity >= s.MinSimilarity && len(res.FailedAssertions) == 0
	if !res.Passed {
		res.DictionaryHints = dictionaryHints(s.Dictionary, actual)
	}
	return res, nil
}

var phoneticMatcher = NewMatcher()

// dictionaryHints scans a failed output for dictionary terms that are absent
// but present in a phonetically similar rendering.
func dictionaryHints(dictionary []string, output string) []string {
	var hints []string
	outputLower := strings.ToLower(output)
	for _, term := range dictionary {
		if strings.Contains(outputLower, strings.ToLower(term)) {
			continue
		}
		if span, confidence, found := phoneticMatcher.FindMisrecognition(term, output); found {
			hints = append(hints, fmt.Sprintf("%q may have been rendered as %q (confidence %.2f)", term, span, confidence))
		}
	}
	return hints
}

func (r *Runner) recognize(ctx context.Context, s Scenario) (string, error) {
	start := time.Now()
	audio, err := wav.DecodeFile(filepath.Join(r.AudioDir, filepath.FromSlash(s.AudioFile)))
	if err != nil {
		return "", fmt.Errorf("decode audio fixture: %w", err)
	}

	hint := prompt.BuildWhisperPrompt(s.Dictionary, r.Language)
	text, err := r.Recognizer.Transcribe(ctx, audio.Samples, hint)
	if err != nil {
		return "", fmt.Errorf("recognize: %w", err)
	}

	metrics := r.Metrics
	if metrics == nil {
		metrics = observe.DefaultMetrics()
	}
	metrics.RecognitionDuration.Record(ctx, time.Since(start).Seconds())
	return text, nil
}
