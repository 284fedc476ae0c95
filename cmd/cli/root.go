package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sevigo/codewise/internal/app"
	"github.com/sevigo/codewise/internal/config"
	"github.com/sevigo/codewise/internal/wire"
)

var (
	githubToken string
)

var rootCmd = &cobra.Command{
	Use:   "codewise",
	Short: "codewise reviews source files with an AI model and posts the reviews to GitHub.",
	Long: `codewise walks a local working copy, sends every file matching the selected
extensions to an AI analysis service, writes each review to ./output and posts it
as a comment on the first open pull request of the repository's origin remote.`,
	SilenceUsage: true,
}

func init() { //nolint:gochecknoinits // Cobra's init function for command registration
	rootCmd.PersistentFlags().StringVarP(&githubToken, "github-token", "t", "", "GitHub token (overrides key.env and GITHUB_TOKEN)")
}

// initApp loads configuration and builds the application graph.
func initApp(ctx context.Context) (*app.App, func(), error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, func() {}, fmt.Errorf("failed to load config: %w", err)
	}
	if githubToken != "" {
		cfg.GitHub.Token = githubToken
	}

	a, cleanup, err := wire.InitializeApp(ctx, cfg)
	if err != nil {
		return nil, func() {}, fmt.Errorf("failed to initialize app: %w", err)
	}
	return a, cleanup, nil
}
