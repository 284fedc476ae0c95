// Package discovery selects the files of a working copy that are sent for review.
package discovery

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/sevigo/codewise/internal/core"
)

const (
	// DefaultMaxFileSize is the size ceiling above which files are skipped.
	DefaultMaxFileSize int64 = 10 * 1024 * 1024
	// DefaultExtension is used when no extension is requested.
	DefaultExtension = ".py"
)

// Result lists the selected candidates and the matches that were skipped.
type Result struct {
	Candidates []core.FileCandidate
	Skipped    []core.FileCandidate
}

// Finder walks a directory tree looking for review candidates.
type Finder struct {
	logger      *slog.Logger
	maxSize     int64
	excludeDirs []string
}

// Option configures a Finder.
type Option func(*Finder)

// WithMaxFileSize overrides the size ceiling.
func WithMaxFileSize(n int64) Option {
	return func(f *Finder) {
		if n > 0 {
			f.maxSize = n
		}
	}
}

// WithExcludeDirs skips directories with the given names.
func WithExcludeDirs(names ...string) Option {
	return func(f *Finder) {
		f.excludeDirs = append(f.excludeDirs, names...)
	}
}

// NewFinder returns a Finder with the default size ceiling.
func NewFinder(logger *slog.Logger, opts ...Option) *Finder {
	if logger == nil {
		logger = slog.Default()
	}
	f := &Finder{logger: logger, maxSize: DefaultMaxFileSize}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Discover walks root and returns every regular file whose name ends with one
// of the extensions. Symlinks to regular files are included. Unreadable
// entries below root are logged and skipped. Matches larger than the ceiling
// are logged and reported in Result.Skipped. An empty extension list means
// DefaultExtension.
func (f *Finder) Discover(root string, extensions []string, opts ...Option) (*Result, error) {
	finder := f
	if len(opts) > 0 {
		clone := *f
		clone.excludeDirs = slices.Clone(f.excludeDirs)
		for _, opt := range opts {
			opt(&clone)
		}
		finder = &clone
	}
	if len(extensions) == 0 {
		extensions = []string{DefaultExtension}
	}

	res := &Result{}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			finder.logger.Warn("skipping unreadable path", "path", path, "error", err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path != root && finder.isExcluded(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !hasExtension(d.Name(), extensions) {
			return nil
		}

		info, err := fileInfo(path, d)
		if err != nil {
			finder.logger.Warn("skipping unreadable file", "path", path, "error", err)
			return nil
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		candidate := core.FileCandidate{Path: path, Size: info.Size()}
		if info.Size() > finder.maxSize {
			finder.logger.Warn("skipping large file", "path", path, "size", info.Size(), "limit", finder.maxSize)
			res.Skipped = append(res.Skipped, candidate)
			return nil
		}
		res.Candidates = append(res.Candidates, candidate)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	finder.logger.Info("discovered review candidates",
		"root", root,
		"extensions", extensions,
		"candidates", len(res.Candidates),
		"skipped", len(res.Skipped),
	)
	return res, nil
}

// fileInfo resolves symlinks so a link to a regular file counts as one.
func fileInfo(path string, d fs.DirEntry) (fs.FileInfo, error) {
	if d.Type()&fs.ModeSymlink != 0 {
		return os.Stat(path)
	}
	return d.Info()
}

func (f *Finder) isExcluded(name string) bool {
	if name == ".git" {
		return true
	}
	return slices.Contains(f.excludeDirs, name)
}

func hasExtension(name string, extensions []string) bool {
	for _, ext := range extensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// ParseExtensions splits a comma-separated list, trimming whitespace and
// dropping empty entries. Empty input yields fallback, or DefaultExtension
// when fallback is empty.
func ParseExtensions(raw, fallback string) []string {
	if fallback == "" {
		fallback = DefaultExtension
	}
	var exts []string
	for _, part := range strings.Split(raw, ",") {
		if ext := strings.TrimSpace(part); ext != "" {
			exts = append(exts, ext)
		}
	}
	if len(exts) == 0 {
		return []string{fallback}
	}
	return exts
}
