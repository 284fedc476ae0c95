package app

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/sevigo/codewise/internal/config"
	"github.com/sevigo/codewise/internal/core"
	"github.com/sevigo/codewise/internal/discovery"
	"github.com/sevigo/codewise/internal/github"
	"github.com/sevigo/codewise/internal/gitutil"
	"github.com/sevigo/codewise/internal/output"
	"github.com/sevigo/codewise/mocks"
)

func newTestApp(t *testing.T, analyzer core.Analyzer, outDir string) *App {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{
		Review: config.ReviewConfig{
			OutputDir:        outDir,
			MaxFileSize:      discovery.DefaultMaxFileSize,
			DefaultExtension: ".py",
			FailurePolicy:    config.PolicyAbort,
		},
	}
	return NewApp(cfg, logger,
		gitutil.NewLocator(logger),
		discovery.NewFinder(logger),
		analyzer,
		output.NewStore(outDir, logger),
		github.NewPublisher(nil, logger),
		nil,
	)
}

func initRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	_, err = repo.CreateRemote(&gitconfig.RemoteConfig{
		Name: "origin",
		URLs: []string{"https://github.com/acme/widgets.git"},
	})
	require.NoError(t, err)
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestApp_Review(t *testing.T) {
	root := initRepo(t)
	writeFile(t, filepath.Join(root, "main.py"), "print('main')\n")
	writeFile(t, filepath.Join(root, "lib", "util.py"), "def f(): pass\n")
	writeFile(t, filepath.Join(root, "vendor", "skip.py"), "x = 1\n")
	writeFile(t, filepath.Join(root, "README.md"), "# readme\n")
	writeFile(t, filepath.Join(root, config.RepoConfigFile),
		"custom_instructions:\n  - prefer f-strings\nexclude_dirs:\n  - vendor\n")

	ctrl := gomock.NewController(t)
	analyzer := mocks.NewMockAnalyzer(ctrl)

	var reviewed []string
	analyzer.EXPECT().Analyze(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req core.ReviewRequest) (string, error) {
			reviewed = append(reviewed, filepath.Base(req.FilePath))
			assert.Equal(t, []string{"prefer f-strings"}, req.Instructions)
			assert.Equal(t, core.Spanish, req.Language)
			return "revisado", nil
		},
	).Times(2)

	outDir := t.TempDir()
	a := newTestApp(t, analyzer, outDir)

	var hooked int
	summary, err := a.Review(context.Background(), ReviewOptions{
		Root:     root,
		Language: core.Spanish,
		OnResult: func(core.ReviewResult, core.Artifact) { hooked++ },
	})

	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"main.py", "util.py"}, reviewed)
	assert.Equal(t, 2, summary.Persisted)
	assert.Equal(t, 0, summary.Published)
	assert.Equal(t, 2, hooked)
	assert.FileExists(t, filepath.Join(outDir, "main.py_es_review.md"))
	assert.FileExists(t, filepath.Join(outDir, "util.py_es_review.md"))
	assert.NoFileExists(t, filepath.Join(outDir, "skip.py_es_review.md"))
}

func TestApp_ReviewWithoutRepository(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "app.js"), "console.log(1)\n")

	ctrl := gomock.NewController(t)
	analyzer := mocks.NewMockAnalyzer(ctrl)
	analyzer.EXPECT().Analyze(gomock.Any(), gomock.Any()).Return("ok", nil)

	a := newTestApp(t, analyzer, t.TempDir())
	summary, err := a.Review(context.Background(), ReviewOptions{
		Root:       root,
		Extensions: []string{".js"},
		Language:   core.English,
	})

	require.NoError(t, err)
	assert.Equal(t, 1, summary.Persisted)
}

func TestApp_ReviewRejectsPullRequestFromOtherRepository(t *testing.T) {
	root := initRepo(t)
	writeFile(t, filepath.Join(root, "main.py"), "print('main')\n")
	outDir := t.TempDir()

	ctrl := gomock.NewController(t)
	a := newTestApp(t, mocks.NewMockAnalyzer(ctrl), outDir) // no analysis expected

	summary, err := a.Review(context.Background(), ReviewOptions{
		Root:       root,
		Language:   core.English,
		TargetPR:   7,
		TargetRepo: &core.RepositoryIdentity{Owner: "someone-else", Name: "other-repo"},
	})

	require.ErrorIs(t, err, ErrTargetMismatch)
	assert.Nil(t, summary)
	assert.NoFileExists(t, filepath.Join(outDir, "main.py_en_review.md"))
}

func TestApp_ReviewAcceptsPullRequestFromSameRepository(t *testing.T) {
	root := initRepo(t)
	writeFile(t, filepath.Join(root, "main.py"), "print('main')\n")

	ctrl := gomock.NewController(t)
	analyzer := mocks.NewMockAnalyzer(ctrl)
	analyzer.EXPECT().Analyze(gomock.Any(), gomock.Any()).Return("ok", nil)

	a := newTestApp(t, analyzer, t.TempDir())
	summary, err := a.Review(context.Background(), ReviewOptions{
		Root:       root,
		Language:   core.English,
		TargetPR:   7,
		TargetRepo: &core.RepositoryIdentity{Owner: "ACME", Name: "widgets"},
	})

	require.NoError(t, err)
	assert.Equal(t, 1, summary.Persisted)
}

func TestApp_ReviewPullRequestURLWithoutRemote(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "main.py"), "print('main')\n")

	ctrl := gomock.NewController(t)
	a := newTestApp(t, mocks.NewMockAnalyzer(ctrl), t.TempDir())

	_, err := a.Review(context.Background(), ReviewOptions{
		Root:       root,
		Language:   core.English,
		TargetPR:   7,
		TargetRepo: &core.RepositoryIdentity{Owner: "acme", Name: "widgets"},
	})
	assert.ErrorIs(t, err, ErrTargetMismatch)
}

func TestApp_ReviewNoMatches(t *testing.T) {
	ctrl := gomock.NewController(t)
	a := newTestApp(t, mocks.NewMockAnalyzer(ctrl), t.TempDir())

	summary, err := a.Review(context.Background(), ReviewOptions{Root: t.TempDir(), Language: core.English})
	require.NoError(t, err)
	assert.Empty(t, summary.Files)
}

func TestApp_HistoryWithoutJournal(t *testing.T) {
	ctrl := gomock.NewController(t)
	a := newTestApp(t, mocks.NewMockAnalyzer(ctrl), t.TempDir())

	_, _, err := a.History(context.Background(), ".", 10)
	assert.ErrorIs(t, err, ErrJournalDisabled)
}
