// Package core defines the essential interfaces and data structures that form the
// backbone of the review pipeline.
package core

import (
	"context"
)

// Analyzer turns the content of a single file into review prose.
//
//go:generate mockgen -destination=../../mocks/mock_core.go -package=mocks . Analyzer,Publisher,ArtifactStore,Journal
type Analyzer interface {
	// Analyze submits the request to the analysis service. Any failure is
	// returned as an *AnalysisError; the returned text is never inspected.
	Analyze(ctx context.Context, req ReviewRequest) (string, error)
}

// Publisher posts review text to the hosting platform.
type Publisher interface {
	// NextOpenChangeRequest returns the number of the first open pull request as
	// ordered by the platform. It reports false when there is none or the lookup failed.
	NextOpenChangeRequest(ctx context.Context, id RepositoryIdentity) (int, bool)
	// PostComment adds body as a new comment on the pull request discussion.
	// It is not idempotent: every call creates a new comment.
	PostComment(ctx context.Context, id RepositoryIdentity, number int, body string) error
}

// ArtifactStore persists one review per source file.
type ArtifactStore interface {
	Save(result ReviewResult) (Artifact, error)
}

// Journal keeps a history of produced reviews.
type Journal interface {
	Record(ctx context.Context, rec *ReviewRecord) error
}
