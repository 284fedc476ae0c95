package gitutil

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/sevigo/codewise/internal/core"
)

var prURLRegex = regexp.MustCompile(`github\.com/([^/]+)/([^/]+)/pull/(\d+)$`)

// ParsePullRequestURL parses a GitHub Pull Request URL and extracts the owner, repo, and PR number.
// Supported format: https://github.com/{owner}/{repo}/pull/{number}
func ParsePullRequestURL(rawURL string) (owner, repo string, prNumber int, err error) {
	rawURL = strings.TrimSuffix(rawURL, "/")

	matches := prURLRegex.FindStringSubmatch(rawURL)
	if len(matches) != 4 {
		return "", "", 0, fmt.Errorf("invalid pull request URL format: %s", rawURL)
	}

	owner = matches[1]
	repo = matches[2]
	prNumberStr := matches[3]

	prNumber, err = strconv.Atoi(prNumberStr)
	if err != nil {
		return "", "", 0, fmt.Errorf("invalid PR number '%s': %w", prNumberStr, err)
	}

	return owner, repo, prNumber, nil
}

// ParseRemoteURL extracts owner/name from a remote URL. HTTPS, ssh:// and
// scp-style (git@host:owner/name.git) forms are accepted; the ".git" suffix is stripped.
func ParseRemoteURL(raw string) (core.RepositoryIdentity, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return core.RepositoryIdentity{}, fmt.Errorf("%w: empty remote URL", core.ErrIdentityUnavailable)
	}

	var path string
	switch {
	case strings.Contains(raw, "://"):
		u, err := url.Parse(raw)
		if err != nil || u.Host == "" {
			return core.RepositoryIdentity{}, fmt.Errorf("%w: cannot parse remote URL %q", core.ErrIdentityUnavailable, raw)
		}
		path = u.Path
	case strings.Contains(raw, ":"):
		// scp-like syntax: [user@]host:owner/name.git
		path = raw[strings.Index(raw, ":")+1:]
	default:
		return core.RepositoryIdentity{}, fmt.Errorf("%w: unsupported remote URL %q", core.ErrIdentityUnavailable, raw)
	}

	path = strings.Trim(path, "/")
	path = strings.TrimSuffix(path, ".git")

	parts := strings.Split(path, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return core.RepositoryIdentity{}, fmt.Errorf("%w: remote URL %q does not end in owner/name", core.ErrIdentityUnavailable, raw)
	}
	return core.RepositoryIdentity{Owner: parts[0], Name: parts[1]}, nil
}
