// Package github provides functionality for interacting with the GitHub API.
package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v73/github"
	"golang.org/x/oauth2"
)

// Client defines the GitHub operations needed to publish reviews.
type Client interface {
	// ListOpenPullRequests returns the numbers of the open pull requests in
	// the order the API returned them (first page only).
	ListOpenPullRequests(ctx context.Context, owner, repo string) ([]int, error)
	CreateComment(ctx context.Context, owner, repo string, number int, body string) error
}

type gitHubClient struct {
	client *github.Client
	logger *slog.Logger
}

// NewGitHubClient wraps the official go-github client to provide a focused,
// testable interface for application-specific GitHub operations.
func NewGitHubClient(client *github.Client, logger *slog.Logger) Client {
	return &gitHubClient{client: client, logger: logger}
}

// NewPATClient creates a new GitHub client authenticated with a Personal Access Token (PAT).
// apiURL overrides the REST endpoint (GitHub Enterprise); empty means api.github.com.
func NewPATClient(ctx context.Context, token, apiURL string, logger *slog.Logger) (Client, error) {
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	client := github.NewClient(oauth2.NewClient(ctx, ts))
	if err := setBaseURL(client, apiURL); err != nil {
		return nil, err
	}
	return NewGitHubClient(client, logger), nil
}

func setBaseURL(client *github.Client, apiURL string) error {
	if apiURL == "" {
		return nil
	}
	if !strings.HasSuffix(apiURL, "/") {
		apiURL += "/"
	}
	u, err := url.Parse(apiURL)
	if err != nil {
		return fmt.Errorf("invalid GitHub API URL %q: %w", apiURL, err)
	}
	client.BaseURL = u
	return nil
}

// ListOpenPullRequests lists open pull requests with the API's default ordering.
func (g *gitHubClient) ListOpenPullRequests(ctx context.Context, owner, repo string) ([]int, error) {
	prs, resp, err := g.client.PullRequests.List(ctx, owner, repo, &github.PullRequestListOptions{State: "open"})
	if err != nil {
		g.logger.Error("failed to list pull requests", "owner", owner, "repo", repo, "error", err)
		return nil, err
	}
	if resp != nil && resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status listing pull requests: %d", resp.StatusCode)
	}

	numbers := make([]int, 0, len(prs))
	for _, pr := range prs {
		numbers = append(numbers, pr.GetNumber())
	}
	return numbers, nil
}

// CreateComment creates a new comment on a pull request. Only 201 Created
// counts as success.
func (g *gitHubClient) CreateComment(ctx context.Context, owner, repo string, number int, body string) error {
	comment := &github.IssueComment{Body: &body}
	_, resp, err := g.client.Issues.CreateComment(ctx, owner, repo, number, comment)
	if err != nil {
		g.logger.Error("failed to create comment", "owner", owner, "repo", repo, "pr", number, "error", err)
		return err
	}
	if resp != nil && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("unexpected status creating comment: %d", resp.StatusCode)
	}
	return nil
}
