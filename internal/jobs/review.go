// Package jobs defines the review job that drives files through analysis,
// persistence and publication.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/sevigo/codewise/internal/config"
	"github.com/sevigo/codewise/internal/core"
)

// DefaultPacing is the pause before every analysis call.
const DefaultPacing = 3 * time.Second

// ResultHook observes every persisted review.
type ResultHook func(result core.ReviewResult, artifact core.Artifact)

// Option configures a ReviewJob.
type Option func(*ReviewJob)

// WithPacing sets the pause before each analysis call.
func WithPacing(d time.Duration) Option {
	return func(j *ReviewJob) { j.pacing = d }
}

// WithFailurePolicy sets what happens when analysis of one file fails.
func WithFailurePolicy(p config.FailurePolicy) Option {
	return func(j *ReviewJob) { j.policy = p }
}

// WithTargetPR pins publication to one pull request instead of the first open one.
func WithTargetPR(number int) Option {
	return func(j *ReviewJob) { j.targetPR = number }
}

// WithResultHook registers a callback invoked after each artifact is written.
func WithResultHook(h ResultHook) Option {
	return func(j *ReviewJob) { j.onResult = h }
}

// WithJournal records every persisted review.
func WithJournal(journal core.Journal) Option {
	return func(j *ReviewJob) { j.journal = journal }
}

func withSleep(fn func(context.Context, time.Duration) error) Option {
	return func(j *ReviewJob) { j.sleep = fn }
}

// ReviewJob reviews a batch of files one at a time.
type ReviewJob struct {
	analyzer  core.Analyzer
	store     core.ArtifactStore
	publisher core.Publisher
	journal   core.Journal
	logger    *slog.Logger

	pacing   time.Duration
	policy   config.FailurePolicy
	targetPR int
	onResult ResultHook
	sleep    func(context.Context, time.Duration) error
	readFile func(string) ([]byte, error)
}

// NewReviewJob creates a ReviewJob. publisher may be nil, in which case
// nothing is published.
func NewReviewJob(analyzer core.Analyzer, store core.ArtifactStore, publisher core.Publisher, logger *slog.Logger, opts ...Option) *ReviewJob {
	if analyzer == nil {
		panic("analyzer cannot be nil")
	}
	if store == nil {
		panic("artifact store cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	j := &ReviewJob{
		analyzer:  analyzer,
		store:     store,
		publisher: publisher,
		logger:    logger,
		pacing:    DefaultPacing,
		policy:    config.PolicyAbort,
		sleep:     sleepContext,
		readFile:  os.ReadFile,
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Batch is the input of one run.
type Batch struct {
	// Identity is nil when the repository could not be identified; publication is skipped.
	Identity     *core.RepositoryIdentity
	Candidates   []core.FileCandidate
	Language     core.Language
	Instructions []string
}

// FileReport is the outcome for one candidate.
type FileReport struct {
	Path         string
	State        core.FileState
	ArtifactPath string
	PRNumber     int
	Err          error
}

// Summary aggregates the outcome of a run.
type Summary struct {
	Files []FileReport
	// Skipped lists matches excluded before the run, such as oversized files.
	Skipped   []core.FileCandidate
	Persisted int
	Published int
	Failed    int
}

// Run processes the batch in order. It stops at the first read or persist
// failure, and at the first analysis failure unless the policy is skip.
// Artifacts and comments produced before the failure are kept.
func (j *ReviewJob) Run(ctx context.Context, batch *Batch) (*Summary, error) {
	if batch == nil {
		return nil, errors.New("batch cannot be nil")
	}
	summary := &Summary{}
	j.logger.Info("starting review run", "files", len(batch.Candidates), "language", batch.Language, "policy", j.policy)

	for _, candidate := range batch.Candidates {
		report, err := j.processFile(ctx, batch, candidate)
		summary.Files = append(summary.Files, report)

		switch report.State {
		case core.StatePublished:
			summary.Persisted++
			summary.Published++
		case core.StatePersisted:
			summary.Persisted++
		case core.StateAborted:
			summary.Failed++
		}

		if err == nil {
			continue
		}
		if core.IsAnalysisError(err) && j.policy == config.PolicySkip {
			j.logger.Warn("analysis failed, continuing with next file", "path", candidate.Path, "error", err)
			continue
		}
		j.logger.Error("review run aborted", "path", candidate.Path, "error", err)
		return summary, err
	}

	j.logger.Info("review run finished",
		"persisted", summary.Persisted,
		"published", summary.Published,
		"failed", summary.Failed,
	)
	return summary, nil
}

func (j *ReviewJob) processFile(ctx context.Context, batch *Batch, candidate core.FileCandidate) (FileReport, error) {
	report := FileReport{Path: candidate.Path, State: core.StatePending}
	abort := func(err error) (FileReport, error) {
		report.State = core.StateAborted
		report.Err = err
		return report, err
	}

	if err := ctx.Err(); err != nil {
		return abort(err)
	}

	report.State = core.StateReading
	code, err := j.readFile(candidate.Path)
	if err != nil {
		return abort(fmt.Errorf("failed to read %s: %w", candidate.Path, err))
	}

	report.State = core.StateAnalyzing
	if err := j.sleep(ctx, j.pacing); err != nil {
		return abort(err)
	}
	j.logger.Info("analyzing file", "path", candidate.Path)
	body, err := j.analyzer.Analyze(ctx, core.ReviewRequest{
		Code:         string(code),
		FilePath:     candidate.Path,
		Language:     batch.Language,
		Instructions: batch.Instructions,
	})
	if err != nil {
		return abort(err)
	}

	result := core.ReviewResult{FilePath: candidate.Path, Language: batch.Language, Body: body}
	artifact, err := j.store.Save(result)
	if err != nil {
		return abort(fmt.Errorf("failed to persist review for %s: %w", candidate.Path, err))
	}
	report.State = core.StatePersisted
	report.ArtifactPath = artifact.Path
	if j.onResult != nil {
		j.onResult(result, artifact)
	}

	if number, ok := j.publish(ctx, batch.Identity, body); ok {
		report.State = core.StatePublished
		report.PRNumber = number
	}

	j.record(ctx, batch, result, artifact, report.PRNumber)
	return report, nil
}

// publish posts body to the target pull request. Failures are logged only.
func (j *ReviewJob) publish(ctx context.Context, id *core.RepositoryIdentity, body string) (int, bool) {
	if j.publisher == nil {
		j.logger.Warn("no publisher configured, skipping publication")
		return 0, false
	}
	if id == nil {
		j.logger.Warn("repository identity unavailable, skipping publication")
		return 0, false
	}

	number := j.targetPR
	if number == 0 {
		n, ok := j.publisher.NextOpenChangeRequest(ctx, *id)
		if !ok {
			j.logger.Warn("no pull request to comment on", "repo", id.FullName(), "error", core.ErrNoTarget)
			return 0, false
		}
		number = n
	}

	if err := j.publisher.PostComment(ctx, *id, number, body); err != nil {
		j.logger.Warn("review not published", "repo", id.FullName(), "pr", number, "error", err)
		return 0, false
	}
	return number, true
}

func (j *ReviewJob) record(ctx context.Context, batch *Batch, result core.ReviewResult, artifact core.Artifact, prNumber int) {
	if j.journal == nil {
		return
	}
	rec := &core.ReviewRecord{
		FilePath:      result.FilePath,
		Language:      result.Language,
		ArtifactPath:  artifact.Path,
		PRNumber:      prNumber,
		ReviewContent: result.Body,
	}
	if batch.Identity != nil {
		rec.RepoFullName = batch.Identity.FullName()
	}
	if err := j.journal.Record(ctx, rec); err != nil {
		j.logger.Warn("failed to record review in journal", "path", result.FilePath, "error", err)
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
