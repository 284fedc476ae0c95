// Code generated manually. DO NOT EDIT.

//go:generate go run -mod=mod github.com/google/wire/cmd/wire
//go:build !wireinject
// +build !wireinject

package wire

import (
	"context"
	"fmt"

	"github.com/sevigo/codewise/internal/app"
	"github.com/sevigo/codewise/internal/config"
	"github.com/sevigo/codewise/internal/gitutil"
	"github.com/sevigo/codewise/internal/llm"
)

// InitializeApp creates and wires all application dependencies.
func InitializeApp(ctx context.Context, cfg *config.Config) (*app.App, func(), error) {
	slogLogger, loggerCleanup, err := provideSlogLogger(cfg)
	if err != nil {
		return nil, nil, err
	}

	locator := gitutil.NewLocator(slogLogger)
	finder := provideFinder(cfg, slogLogger)

	promptMgr, err := llm.NewPromptManager()
	if err != nil {
		loggerCleanup()
		return nil, nil, fmt.Errorf("failed to create prompt manager: %w", err)
	}

	generator, err := llm.NewGenerator(ctx, cfg, slogLogger)
	if err != nil {
		loggerCleanup()
		return nil, nil, fmt.Errorf("failed to create generator LLM: %w", err)
	}
	analyzer := provideAnalyzer(generator, promptMgr, cfg, slogLogger)

	store := provideOutputStore(cfg, slogLogger)

	publisher, err := providePublisher(ctx, cfg, slogLogger)
	if err != nil {
		loggerCleanup()
		return nil, nil, err
	}

	journal, journalCleanup, err := provideJournal(cfg, slogLogger)
	if err != nil {
		loggerCleanup()
		return nil, nil, err
	}

	application := app.NewApp(cfg, slogLogger, locator, finder, analyzer, store, publisher, journal)

	cleanup := func() {
		journalCleanup()
		loggerCleanup()
	}
	return application, cleanup, nil
}
