package github

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sevigo/codewise/internal/core"
)

// Publisher implements core.Publisher. A Publisher without a client is
// disabled: every operation fails closed without touching the network.
type Publisher struct {
	client Client
	logger *slog.Logger
}

// NewPublisher creates a Publisher. client may be nil when no credential is available.
func NewPublisher(client Client, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{client: client, logger: logger}
}

// Enabled reports whether a credential is available.
func (p *Publisher) Enabled() bool {
	return p.client != nil
}

// NextOpenChangeRequest returns the first open pull request as ordered by
// the API, not necessarily the lowest or newest number. It queries the API on
// every call.
func (p *Publisher) NextOpenChangeRequest(ctx context.Context, id core.RepositoryIdentity) (int, bool) {
	if !p.Enabled() {
		p.logger.WarnContext(ctx, "GITHUB_TOKEN is not set, skipping pull request lookup", "repo", id.FullName())
		return 0, false
	}

	numbers, err := p.client.ListOpenPullRequests(ctx, id.Owner, id.Name)
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to fetch pull requests", "repo", id.FullName(), "error", err)
		return 0, false
	}
	if len(numbers) == 0 {
		p.logger.InfoContext(ctx, "no open pull requests found", "repo", id.FullName())
		return 0, false
	}
	return numbers[0], true
}

// PostComment posts body on the pull request discussion. It logs the
// outcome; callers must not retry blindly since each call adds a comment.
func (p *Publisher) PostComment(ctx context.Context, id core.RepositoryIdentity, number int, body string) error {
	if !p.Enabled() {
		p.logger.WarnContext(ctx, "GITHUB_TOKEN is not set, skipping comment", "repo", id.FullName(), "pr", number)
		return core.ErrAuthUnavailable
	}

	if err := p.client.CreateComment(ctx, id.Owner, id.Name, number, body); err != nil {
		p.logger.ErrorContext(ctx, "failed to post comment", "repo", id.FullName(), "pr", number, "error", err)
		return fmt.Errorf("%w on %s#%d: %w", core.ErrPublish, id.FullName(), number, err)
	}
	p.logger.InfoContext(ctx, "comment posted", "repo", id.FullName(), "pr", number)
	return nil
}
