package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sevigo/codewise/internal/app"
)

var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Prompt for the repository, extensions and language, then review",
	Args:  cobra.NoArgs,
	RunE:  runInteractive,
}

func init() { //nolint:gochecknoinits // Cobra command registration
	interactiveCmd.Flags().BoolVar(&renderReview, "render", false, "Print every review rendered as markdown")
	rootCmd.AddCommand(interactiveCmd)
}

func runInteractive(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, cleanup, err := initApp(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	st := newStyles(defaultPalette)
	fmt.Println(renderBanner(st))

	answers, err := askReviewQuestions(st, a.Config().Review.DefaultExtension)
	if errors.Is(err, errPromptCancelled) {
		return nil
	}
	if err != nil {
		return err
	}

	opts := app.ReviewOptions{
		Root:       answers.Root,
		Extensions: answers.Extensions,
		Language:   answers.Language,
	}
	if err := executeReview(ctx, a, opts, renderReview); err != nil {
		return err
	}
	return reviewLoop(ctx, a, app.ReviewOptions{}, renderReview)
}
