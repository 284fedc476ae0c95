package wire

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/wire"

	"github.com/sevigo/codewise/internal/app"
	"github.com/sevigo/codewise/internal/config"
	"github.com/sevigo/codewise/internal/core"
	"github.com/sevigo/codewise/internal/db"
	"github.com/sevigo/codewise/internal/discovery"
	"github.com/sevigo/codewise/internal/github"
	"github.com/sevigo/codewise/internal/gitutil"
	"github.com/sevigo/codewise/internal/llm"
	"github.com/sevigo/codewise/internal/logger"
	"github.com/sevigo/codewise/internal/output"
	"github.com/sevigo/codewise/internal/storage"
)

var AppSet = wire.NewSet(
	app.NewApp,
	gitutil.NewLocator,
	llm.NewPromptManager,
	llm.NewGenerator,
	provideSlogLogger,
	provideFinder,
	provideAnalyzer,
	provideOutputStore,
	providePublisher,
	provideJournal,
)

func provideSlogLogger(cfg *config.Config) (*slog.Logger, func(), error) {
	writer, closeWriter, err := logger.NewWriter(cfg.Logging)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log output: %w", err)
	}
	return logger.NewLogger(cfg.Logging, writer), closeWriter, nil
}

func provideFinder(cfg *config.Config, logger *slog.Logger) *discovery.Finder {
	return discovery.NewFinder(logger, discovery.WithMaxFileSize(cfg.Review.MaxFileSize))
}

func provideAnalyzer(gen llm.Generator, prompts *llm.PromptManager, cfg *config.Config, logger *slog.Logger) core.Analyzer {
	return llm.NewAnalyzer(gen, prompts, cfg.AI.Timeout, logger)
}

func provideOutputStore(cfg *config.Config, logger *slog.Logger) *output.Store {
	return output.NewStore(cfg.Review.OutputDir, logger)
}

// providePublisher never fails for a missing credential: the publisher is
// returned disabled so discovery, analysis and persistence still run.
func providePublisher(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*github.Publisher, error) {
	client, err := github.NewClientFromConfig(ctx, cfg.GitHub, logger)
	if errors.Is(err, core.ErrAuthUnavailable) {
		logger.Warn("GITHUB_TOKEN is not set, reviews will only be written locally")
		return github.NewPublisher(nil, logger), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub client: %w", err)
	}
	return github.NewPublisher(client, logger), nil
}

// provideJournal returns nil when no database is configured or reachable.
func provideJournal(cfg *config.Config, logger *slog.Logger) (storage.Store, func(), error) {
	if !cfg.Database.Enabled() {
		return nil, func() {}, nil
	}
	conn, cleanup, err := db.NewDatabase(&cfg.Database, logger)
	if err != nil {
		logger.Warn("review journal unavailable, continuing without it", "error", err)
		return nil, func() {}, nil
	}
	return storage.NewStore(conn.DB, logger), cleanup, nil
}
