package discovery

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/codewise/internal/core"
)

func writeFile(t *testing.T, path string, size int) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte("x"), size), 0644))
}

func paths(cands []core.FileCandidate) []string {
	out := make([]string, 0, len(cands))
	for _, c := range cands {
		out = append(out, c.Path)
	}
	return out
}

func TestFinder_Discover(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "main.py"), 10)
	writeFile(t, filepath.Join(root, "app.js"), 10)
	writeFile(t, filepath.Join(root, "README.md"), 10)
	writeFile(t, filepath.Join(root, "pkg", "util.py"), 10)
	writeFile(t, filepath.Join(root, "pkg", "UPPER.PY"), 10)
	writeFile(t, filepath.Join(root, "vendor", "lib.py"), 10)
	writeFile(t, filepath.Join(root, ".git", "hooks", "hook.py"), 10)

	f := NewFinder(slog.Default())

	t.Run("single extension, case-sensitive", func(t *testing.T) {
		res, err := f.Discover(root, []string{".py"})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{
			filepath.Join(root, "main.py"),
			filepath.Join(root, "pkg", "util.py"),
			filepath.Join(root, "vendor", "lib.py"),
		}, paths(res.Candidates))
		assert.Empty(t, res.Skipped)
	})

	t.Run("multiple extensions", func(t *testing.T) {
		res, err := f.Discover(root, []string{".py", ".js"})
		require.NoError(t, err)
		assert.Len(t, res.Candidates, 4)
		assert.Contains(t, paths(res.Candidates), filepath.Join(root, "app.js"))
	})

	t.Run("empty extensions use default", func(t *testing.T) {
		res, err := f.Discover(root, nil)
		require.NoError(t, err)
		for _, c := range res.Candidates {
			assert.Equal(t, ".py", filepath.Ext(c.Path))
		}
	})

	t.Run("excluded directories", func(t *testing.T) {
		res, err := f.Discover(root, []string{".py"}, WithExcludeDirs("vendor"))
		require.NoError(t, err)
		assert.NotContains(t, paths(res.Candidates), filepath.Join(root, "vendor", "lib.py"))
		assert.Len(t, res.Candidates, 2)
	})

	t.Run("missing root", func(t *testing.T) {
		_, err := f.Discover(filepath.Join(root, "nope"), []string{".py"})
		assert.Error(t, err)
	})
}

func TestFinder_SkipsOversizedFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "small.py"), 100)
	writeFile(t, filepath.Join(root, "limit.py"), 128)
	writeFile(t, filepath.Join(root, "big.py"), 129)

	var logs bytes.Buffer
	f := NewFinder(slog.New(slog.NewTextHandler(&logs, nil)), WithMaxFileSize(128))

	res, err := f.Discover(root, []string{".py"})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{
		filepath.Join(root, "small.py"),
		filepath.Join(root, "limit.py"),
	}, paths(res.Candidates))
	require.Len(t, res.Skipped, 1)
	assert.Equal(t, filepath.Join(root, "big.py"), res.Skipped[0].Path)
	assert.Equal(t, int64(129), res.Skipped[0].Size)
	assert.Contains(t, logs.String(), "skipping large file")

	for _, c := range res.Candidates {
		assert.LessOrEqual(t, c.Size, int64(128))
	}
}

func TestParseExtensions(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		fallback string
		want     []string
	}{
		{name: "trimmed list", raw: " .py, .js ", want: []string{".py", ".js"}},
		{name: "no spaces", raw: ".py,.js,.html", want: []string{".py", ".js", ".html"}},
		{name: "empty uses default", raw: "", want: []string{".py"}},
		{name: "blank entries dropped", raw: " , .go ,", want: []string{".go"}},
		{name: "custom fallback", raw: "  ", fallback: ".go", want: []string{".go"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseExtensions(tt.raw, tt.fallback))
		})
	}
}

func TestFinder_SkipsUnreadableDirectories(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for root")
	}
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.py"), 10)
	locked := filepath.Join(root, "zz")
	writeFile(t, filepath.Join(locked, "hidden.py"), 10)
	require.NoError(t, os.Chmod(locked, 0))
	t.Cleanup(func() { _ = os.Chmod(locked, 0755) })

	var logs bytes.Buffer
	f := NewFinder(slog.New(slog.NewTextHandler(&logs, nil)))

	res, err := f.Discover(root, []string{".py"})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "a.py")}, paths(res.Candidates))
	assert.Contains(t, logs.String(), "skipping unreadable path")
}

func TestFinder_FollowsFileSymlinks(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(t.TempDir(), "real.py")
	writeFile(t, target, 42)
	link := filepath.Join(root, "linked.py")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
	require.NoError(t, os.Symlink(filepath.Join(root, "gone.py"), filepath.Join(root, "dangling.py")))

	f := NewFinder(slog.New(slog.NewTextHandler(io.Discard, nil)))
	res, err := f.Discover(root, []string{".py"})
	require.NoError(t, err)
	require.Len(t, res.Candidates, 1)
	assert.Equal(t, link, res.Candidates[0].Path)
	assert.Equal(t, int64(42), res.Candidates[0].Size)
}
