package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/sevigo/codewise/internal/app"
	"github.com/sevigo/codewise/internal/config"
	"github.com/sevigo/codewise/internal/core"
	"github.com/sevigo/codewise/internal/discovery"
	"github.com/sevigo/codewise/internal/gitutil"
	"github.com/sevigo/codewise/internal/jobs"
)

var (
	reviewRoot   string
	reviewExts   string
	reviewLang   string
	reviewPR     string
	reviewPolicy string
	renderReview bool
	loopReview   bool
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Review every matching file of a working copy",
	Long: `Review every file under --root whose name ends with one of --ext.

Each review is written to <OUTPUT_DIR>/<file>_<en|es>_review.md and posted as a
comment on the first open pull request of the origin remote (or on --pr).
Files are processed one at a time with a pause before every analysis call.

Examples:
  codewise review --ext .py,.js
  codewise review --root ./service --lang es --policy skip
  codewise review --pr https://github.com/owner/repo/pull/12 --render`,
	Args: cobra.NoArgs,
	RunE: runReview,
}

func init() { //nolint:gochecknoinits // Cobra command registration
	reviewCmd.Flags().StringVarP(&reviewRoot, "root", "r", ".", "Path to the working copy")
	reviewCmd.Flags().StringVarP(&reviewExts, "ext", "e", "", "Comma-separated file extensions (default DEFAULT_EXTENSION)")
	reviewCmd.Flags().StringVarP(&reviewLang, "lang", "l", "en", "Review language: en|es (or 1|2)")
	reviewCmd.Flags().StringVar(&reviewPR, "pr", "", "Pull request number or URL to comment on instead of the first open one")
	reviewCmd.Flags().StringVar(&reviewPolicy, "policy", "", "Analysis failure policy: abort|skip (default FAILURE_POLICY)")
	reviewCmd.Flags().BoolVar(&renderReview, "render", false, "Print every review rendered as markdown")
	reviewCmd.Flags().BoolVar(&loopReview, "loop", false, "Ask for another run after each review")
	rootCmd.AddCommand(reviewCmd)
}

func runReview(cmd *cobra.Command, _ []string) error {
	targetPR, targetRepo, err := parseTargetPR(reviewPR)
	if err != nil {
		return err
	}
	policy, err := parsePolicy(reviewPolicy)
	if err != nil {
		return err
	}
	lang, ok := core.ParseLanguage(reviewLang)
	if !ok {
		warnColor.Printf("Unknown language %q. Defaulting to English.\n", reviewLang)
	}

	ctx := cmd.Context()
	a, cleanup, err := initApp(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	opts := app.ReviewOptions{
		Root:       reviewRoot,
		Extensions: discovery.ParseExtensions(reviewExts, a.Config().Review.DefaultExtension),
		Language:   lang,
		TargetPR:   targetPR,
		TargetRepo: targetRepo,
		Policy:     policy,
	}
	if err := executeReview(ctx, a, opts, renderReview); err != nil {
		return err
	}
	if !loopReview {
		return nil
	}
	return reviewLoop(ctx, a, opts, renderReview)
}

// reviewLoop asks whether to exit after every run and collects the inputs of
// the next run interactively.
func reviewLoop(ctx context.Context, a *app.App, base app.ReviewOptions, render bool) error {
	st := newStyles(defaultPalette)
	for {
		exit, err := askToExit(st)
		if err != nil {
			return err
		}
		if exit {
			return nil
		}

		fmt.Println(renderBanner(st))
		answers, err := askReviewQuestions(st, a.Config().Review.DefaultExtension)
		if errors.Is(err, errPromptCancelled) {
			return nil
		}
		if err != nil {
			return err
		}

		opts := base
		opts.Root = answers.Root
		opts.Extensions = answers.Extensions
		opts.Language = answers.Language
		if err := executeReview(ctx, a, opts, render); err != nil {
			return err
		}
	}
}

// executeReview runs one review and prints progress. A fatal error is
// reported with a diagnostic and returned.
func executeReview(ctx context.Context, a *app.App, opts app.ReviewOptions, render bool) error {
	start := time.Now()
	titleColor.Println("🚀 codewise review")
	dimColor.Printf("   Root: %s  Extensions: %s  Language: %s\n\n",
		opts.Root, strings.Join(opts.Extensions, ","), opts.Language)

	opts.OnResult = func(result core.ReviewResult, artifact core.Artifact) {
		successColor.Printf("✓ Review for %s has been saved to %s\n", result.FilePath, artifact.Path)
		if render {
			fmt.Println(renderMarkdown(result.Body))
		}
		dimColor.Println("--------------------------------------------------")
	}

	summary, err := a.Review(ctx, opts)
	if summary != nil {
		printSummary(summary, time.Since(start))
	}
	if err != nil {
		printFatal(err)
		return err
	}
	return nil
}

func printSummary(summary *jobs.Summary, elapsed time.Duration) {
	for _, s := range summary.Skipped {
		warnColor.Printf("Skipping large file: %s (%d bytes)\n", s.Path, s.Size)
	}
	if len(summary.Files) == 0 {
		warnColor.Println("No matching files found.")
		return
	}

	boldColor.Printf("\nReviewed %d file(s) in %s\n", len(summary.Files), elapsed.Round(time.Second))
	fmt.Printf("   persisted: %d  published: %d  failed: %d\n", summary.Persisted, summary.Published, summary.Failed)
	for _, f := range summary.Files {
		switch f.State {
		case core.StatePublished:
			successColor.Printf("   ✓ %s → PR #%d\n", f.Path, f.PRNumber)
		case core.StatePersisted:
			dimColor.Printf("   • %s (not published)\n", f.Path)
		case core.StateAborted:
			errorColor.Printf("   ✗ %s: %v\n", f.Path, f.Err)
		}
	}
}

func printFatal(err error) {
	var analysisErr *core.AnalysisError
	if errors.As(err, &analysisErr) {
		errorColor.Fprintf(os.Stderr, "ERROR (%s): %v\n", analysisErr.Kind, err)
		return
	}
	errorColor.Fprintf(os.Stderr, "ERROR: %v\n", err)
}

// parseTargetPR accepts a pull request number or URL. Empty means none.
// A URL also yields the repository it belongs to.
func parseTargetPR(raw string) (int, *core.RepositoryIdentity, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil, nil
	}
	if n, err := strconv.Atoi(raw); err == nil {
		if n <= 0 {
			return 0, nil, fmt.Errorf("invalid pull request number: %d", n)
		}
		return n, nil, nil
	}
	owner, name, n, err := gitutil.ParsePullRequestURL(raw)
	if err != nil {
		return 0, nil, fmt.Errorf("invalid --pr value %q: %w", raw, err)
	}
	return n, &core.RepositoryIdentity{Owner: owner, Name: name}, nil
}

func parsePolicy(raw string) (config.FailurePolicy, error) {
	switch p := config.FailurePolicy(strings.ToLower(strings.TrimSpace(raw))); p {
	case "":
		return "", nil
	case config.PolicyAbort, config.PolicySkip:
		return p, nil
	default:
		return "", fmt.Errorf("invalid --policy %q (expected %q or %q)", raw, config.PolicyAbort, config.PolicySkip)
	}
}
