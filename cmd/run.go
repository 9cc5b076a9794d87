package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/abhisek/aiquiz/internal/app"
	"github.com/abhisek/aiquiz/internal/llm"
	"github.com/abhisek/aiquiz/internal/logging"
	"github.com/abhisek/aiquiz/internal/quizgen"
	"github.com/abhisek/aiquiz/internal/session"
	"github.com/abhisek/aiquiz/internal/store"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// logFileName sits next to the database; the TUI owns the terminal.
const logFileName = "aiquiz.log"

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()
	st, dbPath, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	logFile, err := os.OpenFile(filepath.Join(filepath.Dir(dbPath), logFileName),
		os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()
	if err := logging.Setup(os.Getenv("LOG_LEVEL"), logFile, false); err != nil {
		return fmt.Errorf("configure logging: %w", err)
	}

	svc, status := newQuizService(ctx, st.EventRepo())
	state := session.Restore(ctx, session.NewKVPersister(st.KVRepo()))
	skipSplash, _ := cmd.Flags().GetBool("no-splash")

	return app.Run(app.Options{
		Generator:  svc,
		Session:    state,
		Results:    st.ResultRepo(),
		Status:     status,
		SkipSplash: skipSplash,
	})
}

// newQuizService builds the generation service from the environment. A
// provider that fails to configure is replaced by llm.Unconfigured, so the
// error surfaces on the first generation rather than at startup. The
// returned status names the model for display.
func newQuizService(ctx context.Context, events store.EventRepo) (*quizgen.Service, string) {
	cfg := quizgen.ConfigFromEnv()
	if cfg.UseMock {
		return quizgen.NewService(nil, cfg), "mock"
	}

	llmCfg := llm.ConfigFromEnv()
	provider, err := llm.NewProvider(ctx, llmCfg, events)
	if err != nil {
		logrus.WithError(err).WithField("provider", llmCfg.Provider).Warn("AI provider not configured")
		var cfgErr *llm.ErrConfiguration
		if !errors.As(err, &cfgErr) {
			err = &llm.ErrConfiguration{Msg: err.Error()}
		}
		provider = llm.Unconfigured{Err: err}
	}

	// The relay forwards whatever the model writes; only direct SDK
	// providers enforce a response schema.
	cfg.StructuredOutput = llmCfg.Provider != "relay"
	return quizgen.NewService(provider, cfg), provider.ModelID()
}
