// Package gitutil resolves repository information from a local working copy.
package gitutil

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-git/go-git/v5"

	"github.com/sevigo/codewise/internal/core"
)

// DefaultRemote is the remote whose URL identifies the hosting project.
const DefaultRemote = "origin"

// Locator resolves the remote repository identity of a working copy.
type Locator struct {
	logger *slog.Logger
	remote string
}

// NewLocator returns a Locator reading the default remote.
func NewLocator(logger *slog.Logger) *Locator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Locator{logger: logger, remote: DefaultRemote}
}

// Resolve opens the repository containing path and parses the URL of the
// default remote. Every failure wraps core.ErrIdentityUnavailable.
func (l *Locator) Resolve(ctx context.Context, path string) (core.RepositoryIdentity, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			l.logger.WarnContext(ctx, "no git repository found", "path", path)
		}
		return core.RepositoryIdentity{}, fmt.Errorf("%w: open %s: %w", core.ErrIdentityUnavailable, path, err)
	}

	remote, err := repo.Remote(l.remote)
	if err != nil {
		l.logger.WarnContext(ctx, "no remote URL configured", "remote", l.remote, "path", path)
		return core.RepositoryIdentity{}, fmt.Errorf("%w: remote %q: %w", core.ErrIdentityUnavailable, l.remote, err)
	}

	urls := remote.Config().URLs
	if len(urls) == 0 {
		return core.RepositoryIdentity{}, fmt.Errorf("%w: remote %q has no URL", core.ErrIdentityUnavailable, l.remote)
	}

	id, err := ParseRemoteURL(urls[0])
	if err != nil {
		return core.RepositoryIdentity{}, err
	}
	l.logger.DebugContext(ctx, "resolved repository identity", "repo", id.FullName(), "remote", l.remote)
	return id, nil
}
