// Package output persists reviews as markdown artifacts on local storage.
package output

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sevigo/codewise/internal/core"
)

// DefaultDir is the artifact directory relative to the working directory.
const DefaultDir = "./output"

// Store writes one markdown file per reviewed source file.
type Store struct {
	dir    string
	logger *slog.Logger
}

// NewStore returns a Store writing below dir.
func NewStore(dir string, logger *slog.Logger) *Store {
	if dir == "" {
		dir = DefaultDir
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{dir: dir, logger: logger}
}

// ArtifactPath returns the deterministic artifact location for a source file.
func (s *Store) ArtifactPath(sourcePath string, lang core.Language) string {
	name := fmt.Sprintf("%s_%s_review.md", filepath.Base(sourcePath), lang.Code())
	return filepath.Join(s.dir, name)
}

// Save writes the review, creating the directory when needed and replacing
// any artifact already stored for the same file and language.
func (s *Store) Save(result core.ReviewResult) (core.Artifact, error) {
	if err := os.MkdirAll(s.dir, 0750); err != nil {
		return core.Artifact{}, fmt.Errorf("failed to create output directory %s: %w", s.dir, err)
	}

	art := core.Artifact{
		Path:    s.ArtifactPath(result.FilePath, result.Language),
		Content: Render(result),
	}
	if err := os.WriteFile(art.Path, []byte(art.Content), 0600); err != nil {
		return core.Artifact{}, fmt.Errorf("failed to write review %s: %w", art.Path, err)
	}

	s.logger.Info("review saved", "path", result.FilePath, "artifact", art.Path)
	return art, nil
}

// Render builds the artifact document: a heading naming the source file
// followed by the review text verbatim.
func Render(result core.ReviewResult) string {
	return fmt.Sprintf("# Code Review for %s\n\n%s", result.FilePath, result.Body)
}
