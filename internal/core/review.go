package core

import (
	"fmt"
	"strings"
	"time"
)

// Language selects the wording of the generated review.
type Language string

const (
	English Language = "en"
	Spanish Language = "es"
)

// ParseLanguage accepts the menu choices ("1", "2") as well as language codes
// and names. Unknown input falls back to English and reports false.
func ParseLanguage(s string) (Language, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "en", "english":
		return English, true
	case "2", "es", "spanish", "español", "espanol":
		return Spanish, true
	default:
		return English, false
	}
}

// Code returns the short code used in artifact names.
func (l Language) Code() string {
	if l == Spanish {
		return string(Spanish)
	}
	return string(English)
}

// RepositoryIdentity is the owner/name pair of the remote project.
type RepositoryIdentity struct {
	Owner string
	Name  string
}

// FullName returns "owner/name".
func (r RepositoryIdentity) FullName() string {
	return fmt.Sprintf("%s/%s", r.Owner, r.Name)
}

func (r RepositoryIdentity) String() string { return r.FullName() }

// FileCandidate is a file selected by discovery.
type FileCandidate struct {
	Path string
	Size int64
}

// ReviewRequest is one submission to the analysis service.
type ReviewRequest struct {
	Code     string
	FilePath string
	Language Language
	// Instructions are extra reviewer notes from the repository config.
	Instructions []string
}

// ReviewResult is the text produced for one file.
type ReviewResult struct {
	FilePath string
	Language Language
	Body     string
}

// Artifact is a review persisted on local storage.
type Artifact struct {
	Path    string
	Content string
}

// ReviewRecord is a journal entry for a persisted review.
type ReviewRecord struct {
	ID            int64
	RepoFullName  string
	FilePath      string
	Language      Language
	ArtifactPath  string
	PRNumber      int
	ReviewContent string
	CreatedAt     time.Time
}

// FileState tracks a candidate through the review pipeline.
type FileState string

const (
	StatePending   FileState = "pending"
	StateReading   FileState = "reading"
	StateAnalyzing FileState = "analyzing"
	StatePersisted FileState = "persisted"
	StatePublished FileState = "published"
	StateAborted   FileState = "aborted"
)
