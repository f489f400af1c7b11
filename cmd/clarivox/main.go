// Command clarivox runs one dictation correction pass: it reads raw
// transcript text from stdin, sends it through the configured LLM backend,
// and writes the corrected text to stdout. With -test it instead probes the
// backend and reports whether it is reachable.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/tkoeppen/clarivox/internal/config"
	"github.com/tkoeppen/clarivox/internal/enhance"
	"github.com/tkoeppen/clarivox/internal/observe"
	"github.com/tkoeppen/clarivox/pkg/corrector"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	testConn := flag.String("test", "", `set to "connection" to probe the configured backend and exit`)
	flag.Parse()

	// Secrets may live in a .env next to the binary; absence is fine.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "clarivox: config file %q not found — copy configs/example.yaml to get started\n", *configPath)
		} else {
			fmt.Fprintf(os.Stderr, "clarivox: %v\n", err)
		}
		return 1
	}
	cfg.ApplyEnv()

	slog.SetDefault(newLogger(cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	enhancer, err := enhance.New(ctx, cfg, func(c corrector.Corrector) corrector.Corrector {
		return observe.InstrumentCorrector(c, nil, string(cfg.LLM.Provider))
	})
	if err != nil {
		if errors.Is(err, enhance.ErrNotConfigured) {
			fmt.Fprintf(os.Stderr, "clarivox: llm provider %q is not fully configured; check api key and model\n", cfg.LLM.Provider)
		} else {
			slog.Error("failed to build corrector", "err", err)
		}
		return 1
	}

	if *testConn != "" {
		if *testConn != "connection" {
			fmt.Fprintf(os.Stderr, "clarivox: unknown -test mode %q\n", *testConn)
			return 2
		}
		if err := enhancer.TestConnection(ctx); err != nil {
			slog.Error("connection test failed", "provider", cfg.LLM.Provider, "err", err)
			return 1
		}
		fmt.Printf("connection to %s ok\n", cfg.LLM.Provider)
		return 0
	}

	raw, err := io.ReadAll(os.Stdin)
	if err != nil {
		slog.Error("failed to read stdin", "err", err)
		return 1
	}
	text := strings.TrimSpace(string(raw))
	if text == "" {
		fmt.Fprintln(os.Stderr, "clarivox: no input on stdin")
		return 2
	}

	cleaned, err := enhancer.Enhance(ctx, text)
	if err != nil {
		slog.Error("correction failed", "provider", cfg.LLM.Provider, "err", err)
		return 1
	}
	fmt.Println(cleaned)
	return 0
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
