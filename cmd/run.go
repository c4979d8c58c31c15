package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/abhisek/cermat/internal/app"
	"github.com/abhisek/cermat/internal/auth"
	"github.com/abhisek/cermat/internal/llm"
	"github.com/abhisek/cermat/internal/questions"
)

// runApp opens the stores, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()

	b, err := openBackends(cfg)
	if err != nil {
		return err
	}
	defer b.Close()

	// The TUI owns the terminal, so logs go next to the database.
	dbPath, err := cfg.ResolveDBPath()
	if err != nil {
		return err
	}
	logFile, err := os.OpenFile(filepath.Join(filepath.Dir(dbPath), "cermat.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()
	tuiLogger := cfg.Logger(logFile)

	eventRepo := b.events()
	opts := app.Options{
		Events:        eventRepo,
		RegenInterval: cfg.RegenInterval,
		SummaryDelay:  cfg.SummaryDelay,
		Logger:        tuiLogger,
	}

	provider, err := llm.NewProviderFromEnv(ctx, eventRepo, tuiLogger)
	switch {
	case err == nil:
		opts.Source = questions.WithFallback(questions.NewLLMSource(provider, questions.DefaultConfig()), tuiLogger)
	case errors.Is(err, llm.ErrNotConfigured):
		fmt.Fprintln(os.Stderr, "LLM provider not configured, using the offline question set.")
		opts.Source = questions.WithFallback(nil, tuiLogger)
		opts.Offline = true
	default:
		fmt.Fprintln(os.Stderr, "LLM provider unavailable:", err)
		opts.Source = questions.WithFallback(nil, tuiLogger)
		opts.Offline = true
	}

	svc := auth.NewService(b.accounts, auth.WithLogger(tuiLogger))
	saver := auth.NewSaver(svc, tuiLogger)
	defer saver.Close()

	opts.Auth = svc
	opts.Saver = saver
	return app.Run(opts)
}
