package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/google/go-github/v73/github"
	"golang.org/x/oauth2"

	"github.com/sevigo/codewise/internal/config"
	"github.com/sevigo/codewise/internal/core"
)

// NewClientFromConfig picks the credential to use: a personal token when one
// is set, otherwise a GitHub App installation. Without either it returns
// core.ErrAuthUnavailable.
func NewClientFromConfig(ctx context.Context, cfg config.GitHubConfig, logger *slog.Logger) (Client, error) {
	switch {
	case cfg.Token != "":
		return NewPATClient(ctx, cfg.Token, cfg.APIURL, logger)
	case cfg.HasAppCredentials():
		return CreateInstallationClient(ctx, cfg, logger)
	default:
		return nil, core.ErrAuthUnavailable
	}
}

// CreateInstallationClient creates a GitHub client that is authenticated as a specific application installation.
func CreateInstallationClient(ctx context.Context, cfg config.GitHubConfig, logger *slog.Logger) (Client, error) {
	logger.Info("Creating GitHub installation client", "installation_id", cfg.InstallationID)

	privateKey, err := os.ReadFile(cfg.PrivateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read private key from %s: %w", cfg.PrivateKeyPath, err)
	}

	// The apps transport signs JWTs for the App API (installation tokens).
	appTransport, err := ghinstallation.NewAppsTransport(http.DefaultTransport, cfg.AppID, privateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub App transport: %w", err)
	}
	appClient := github.NewClient(&http.Client{Transport: appTransport})
	if err := setBaseURL(appClient, cfg.APIURL); err != nil {
		return nil, err
	}

	token, _, err := appClient.Apps.CreateInstallationToken(ctx, cfg.InstallationID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create installation token for installation ID %d: %w", cfg.InstallationID, err)
	}
	if token.GetToken() == "" {
		return nil, fmt.Errorf("received an empty installation token")
	}
	logger.Info("Successfully created installation token", "installation_id", cfg.InstallationID, "expires_at", token.GetExpiresAt())

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token.GetToken()})
	installationClient := github.NewClient(oauth2.NewClient(ctx, ts))
	if err := setBaseURL(installationClient, cfg.APIURL); err != nil {
		return nil, err
	}
	return NewGitHubClient(installationClient, logger), nil
}
