// Command clarivox-eval runs the offline correction-quality evaluation:
// scenario fixtures are executed against the configured LLM backend — either
// end to end from recorded audio through whisper.cpp, or LLM-only when no
// recognition model is configured — scored, and aggregated into console,
// HTML and Markdown reports.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/tkoeppen/clarivox/internal/config"
	"github.com/tkoeppen/clarivox/internal/enhance"
	"github.com/tkoeppen/clarivox/internal/eval"
	"github.com/tkoeppen/clarivox/internal/observe"
	"github.com/tkoeppen/clarivox/internal/prompt"
	"github.com/tkoeppen/clarivox/pkg/corrector"
	"github.com/tkoeppen/clarivox/pkg/recognizer/whispercpp"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	fixturesDir := flag.String("fixtures", "", "override eval.fixtures_dir from the config")
	resultsDir := flag.String("results", "", "override eval.results_dir from the config")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "clarivox-eval: %v\n", err)
		return 1
	}
	cfg.ApplyEnv()
	if *fixturesDir != "" {
		cfg.Eval.FixturesDir = *fixturesDir
	}
	if *resultsDir != "" {
		cfg.Eval.ResultsDir = *resultsDir
	}
	if cfg.Eval.FixturesDir == "" {
		fmt.Fprintln(os.Stderr, "clarivox-eval: eval.fixtures_dir is not set")
		return 2
	}
	if cfg.Eval.ResultsDir == "" {
		cfg.Eval.ResultsDir = "eval-results"
	}

	slog.SetDefault(newLogger(cfg.LogLevel))

	if !enhance.IsConfigured(cfg.LLM) {
		fmt.Fprintf(os.Stderr, "clarivox-eval: llm provider %q is not fully configured\n", cfg.LLM.Provider)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdown, err := observe.InitProvider(ctx, observe.ProviderConfig{ServiceName: "clarivox-eval"})
	if err != nil {
		slog.Error("failed to initialise telemetry", "err", err)
		return 1
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(sctx); err != nil {
			slog.Warn("telemetry shutdown failed", "err", err)
		}
	}()

	fixtures, err := eval.LoadFixtures(cfg.Eval.FixturesDir)
	if err != nil {
		slog.Error("failed to load fixtures", "err", err)
		return 1
	}

	runner := &eval.Runner{
		Fixtures:     fixtures,
		AudioDir:     cfg.Eval.AudioDir,
		Language:     cfg.Eval.Language,
		NewCorrector: newCorrectorFactory(cfg),
		Store:        &eval.Store{Dir: cfg.Eval.ResultsDir},
		Parallelism:  cfg.Eval.Parallelism,
	}

	// Execution mode is one global decision: a loadable recognition model
	// selects the full pipeline, otherwise every scenario runs LLM-only.
	if cfg.Eval.ModelPath != "" {
		rec, err := whispercpp.New(cfg.Eval.ModelPath, whispercpp.WithLanguage(cfg.Eval.Language))
		if err != nil {
			slog.Error("failed to load recognition model", "path", cfg.Eval.ModelPath, "err", err)
			return 1
		}
		defer rec.Close()
		runner.Recognizer = rec
	}

	slog.Info("evaluation starting",
		"mode", runner.Mode(),
		"categories", len(fixtures),
		"provider", cfg.LLM.Provider,
	)

	results, err := runner.Run(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			slog.Warn("evaluation interrupted")
			return 1
		}
		slog.Error("evaluation failed", "err", err)
		return 1
	}

	report := eval.NewReport(results)
	if err := report.WriteConsole(os.Stdout); err != nil {
		slog.Error("failed to render console report", "err", err)
		return 1
	}
	if err := report.WriteFiles(cfg.Eval.ResultsDir); err != nil {
		slog.Error("failed to write report files", "err", err)
		return 1
	}
	slog.Info("reports written", "dir", cfg.Eval.ResultsDir)

	if report.TotalPassed() < report.TotalScenarios() {
		return 1
	}
	return 0
}

// newCorrectorFactory builds per-scenario correctors. A scenario's dictionary
// is merged after the globally configured terms, so scenario-specific
// vocabulary extends rather than replaces the user's dictionary.
func newCorrectorFactory(cfg *config.Config) eval.CorrectorFactory {
	return func(ctx context.Context, dictionary []string) (corrector.Corrector, error) {
		merged := append(append([]string(nil), cfg.Dictionary...), dictionary...)
		systemPrompt := prompt.BuildSystemPrompt(cfg.CustomPrompt, merged, cfg.Languages...)

		c, err := enhance.NewCorrector(ctx, cfg.LLM, systemPrompt)
		if err != nil {
			return nil, err
		}
		return observe.InstrumentCorrector(c, nil, string(cfg.LLM.Provider)), nil
	}
}

func newLogger(level config.LogLevel) *slog.Logger {
	var lvl slog.Level
	switch level {
	case config.LogDebug:
		lvl = slog.LevelDebug
	case config.LogWarn:
		lvl = slog.LevelWarn
	case config.LogError:
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
