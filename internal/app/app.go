// Package app wires the review components together and exposes the
// operations the CLI runs.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/sevigo/codewise/internal/config"
	"github.com/sevigo/codewise/internal/core"
	"github.com/sevigo/codewise/internal/discovery"
	"github.com/sevigo/codewise/internal/github"
	"github.com/sevigo/codewise/internal/gitutil"
	"github.com/sevigo/codewise/internal/jobs"
	"github.com/sevigo/codewise/internal/output"
	"github.com/sevigo/codewise/internal/storage"
)

var (
	// ErrJournalDisabled is returned by History when no database is configured.
	ErrJournalDisabled = errors.New("review journal is disabled (DB_HOST is not set)")
	// ErrTargetMismatch means the requested pull request is not in the reviewed repository.
	ErrTargetMismatch = errors.New("pull request does not belong to the reviewed repository")
)

// App holds the main application components.
type App struct {
	cfg       *config.Config
	logger    *slog.Logger
	locator   *gitutil.Locator
	finder    *discovery.Finder
	analyzer  core.Analyzer
	store     core.ArtifactStore
	publisher *github.Publisher
	journal   storage.Store
}

// NewApp assembles the application. journal may be nil.
func NewApp(
	cfg *config.Config,
	logger *slog.Logger,
	locator *gitutil.Locator,
	finder *discovery.Finder,
	analyzer core.Analyzer,
	store *output.Store,
	publisher *github.Publisher,
	journal storage.Store,
) *App {
	logger.Info("codewise initialized",
		"provider", cfg.AI.LLMProvider,
		"model", cfg.AI.GeneratorModel,
		"publishing", publisher.Enabled(),
		"journal", journal != nil,
	)
	return &App{
		cfg:       cfg,
		logger:    logger,
		locator:   locator,
		finder:    finder,
		analyzer:  analyzer,
		store:     store,
		publisher: publisher,
		journal:   journal,
	}
}

// Config returns the loaded configuration.
func (a *App) Config() *config.Config { return a.cfg }

// ReviewOptions describes one review run.
type ReviewOptions struct {
	Root       string
	Extensions []string
	Language   core.Language
	// TargetPR pins the pull request; 0 means the first open one, looked up per file.
	TargetPR int
	// TargetRepo is the repository TargetPR belongs to, when it came from a URL.
	// It must match the working copy's remote.
	TargetRepo *core.RepositoryIdentity
	// Policy overrides the configured failure policy when set.
	Policy   config.FailurePolicy
	OnResult jobs.ResultHook
}

// Review discovers matching files under the root and reviews them in order.
func (a *App) Review(ctx context.Context, opts ReviewOptions) (*jobs.Summary, error) {
	root := opts.Root
	if root == "" {
		root = "."
	}
	if len(opts.Extensions) == 0 {
		opts.Extensions = []string{a.cfg.Review.DefaultExtension}
	}
	policy := opts.Policy
	if policy == "" {
		policy = a.cfg.Review.FailurePolicy
	}

	var identity *core.RepositoryIdentity
	if id, err := a.locator.Resolve(ctx, root); err != nil {
		a.logger.Warn("could not identify repository, reviews will not be published", "root", root, "error", err)
	} else {
		identity = &id
	}

	if opts.TargetRepo != nil {
		if identity == nil {
			return nil, fmt.Errorf("%w: cannot verify %s", ErrTargetMismatch, opts.TargetRepo.FullName())
		}
		if !sameRepository(*identity, *opts.TargetRepo) {
			return nil, fmt.Errorf("%w: pull request belongs to %s, working copy is %s",
				ErrTargetMismatch, opts.TargetRepo.FullName(), identity.FullName())
		}
	}

	repoCfg := a.loadRepoConfig(root)

	result, err := a.finder.Discover(root, opts.Extensions, discovery.WithExcludeDirs(repoCfg.ExcludeDirs...))
	if err != nil {
		return nil, fmt.Errorf("failed to discover files: %w", err)
	}
	if len(result.Candidates) == 0 {
		a.logger.Info("no matching files found", "root", root, "extensions", opts.Extensions)
		return &jobs.Summary{Skipped: result.Skipped}, nil
	}

	jobOpts := []jobs.Option{
		jobs.WithPacing(a.cfg.Review.Pacing),
		jobs.WithFailurePolicy(policy),
		jobs.WithTargetPR(opts.TargetPR),
		jobs.WithResultHook(opts.OnResult),
	}
	if a.journal != nil {
		jobOpts = append(jobOpts, jobs.WithJournal(a.journal))
	}

	job := jobs.NewReviewJob(a.analyzer, a.store, a.publisher, a.logger, jobOpts...)
	summary, err := job.Run(ctx, &jobs.Batch{
		Identity:     identity,
		Candidates:   result.Candidates,
		Language:     opts.Language,
		Instructions: repoCfg.CustomInstructions,
	})
	if summary != nil {
		summary.Skipped = result.Skipped
	}
	return summary, err
}

// GitHub owner and repository names are case-insensitive.
func sameRepository(a, b core.RepositoryIdentity) bool {
	return strings.EqualFold(a.Owner, b.Owner) && strings.EqualFold(a.Name, b.Name)
}

func (a *App) loadRepoConfig(root string) *core.RepoConfig {
	repoCfg, err := config.LoadRepoConfig(root)
	switch {
	case err == nil:
		a.logger.Info("loaded repository config", "file", filepath.Join(root, config.RepoConfigFile))
	case errors.Is(err, config.ErrConfigNotFound):
	default:
		a.logger.Warn("ignoring invalid repository config", "root", root, "error", err)
		repoCfg = core.DefaultRepoConfig()
	}
	return repoCfg
}

// History lists journaled reviews for the repository at root, newest first.
func (a *App) History(ctx context.Context, root string, limit int) (core.RepositoryIdentity, []*core.ReviewRecord, error) {
	if a.journal == nil {
		return core.RepositoryIdentity{}, nil, ErrJournalDisabled
	}
	id, err := a.locator.Resolve(ctx, root)
	if err != nil {
		return core.RepositoryIdentity{}, nil, err
	}
	records, err := a.journal.ListReviews(ctx, id.FullName(), limit)
	if err != nil {
		return id, nil, err
	}
	return id, records, nil
}
