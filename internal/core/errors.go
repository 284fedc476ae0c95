package core

import (
	"errors"
	"fmt"
)

var (
	// ErrIdentityUnavailable means no usable remote is configured for the working copy.
	ErrIdentityUnavailable = errors.New("repository identity unavailable")
	// ErrAuthUnavailable means no credential for the hosting platform was provided.
	ErrAuthUnavailable = errors.New("hosting platform credential unavailable")
	// ErrNoTarget means there is no open pull request to comment on.
	ErrNoTarget = errors.New("no open pull request")
	// ErrPublish is returned when the platform rejects a comment.
	ErrPublish = errors.New("failed to publish comment")
)

// AnalysisErrorKind classifies analysis failures.
type AnalysisErrorKind string

const (
	AnalysisUnreachable AnalysisErrorKind = "unreachable"
	AnalysisStatus      AnalysisErrorKind = "status"
	AnalysisEmpty       AnalysisErrorKind = "empty"
	AnalysisMalformed   AnalysisErrorKind = "malformed"
	AnalysisPrompt      AnalysisErrorKind = "prompt"
)

// AnalysisError is returned by an Analyzer when no review could be produced.
type AnalysisError struct {
	Kind AnalysisErrorKind
	Path string
	Err  error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("analysis of %s failed (%s): %v", e.Path, e.Kind, e.Err)
}

func (e *AnalysisError) Unwrap() error { return e.Err }

// IsAnalysisError reports whether err carries an *AnalysisError.
func IsAnalysisError(err error) bool {
	var ae *AnalysisError
	return errors.As(err, &ae)
}
