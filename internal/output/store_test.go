package output

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/codewise/internal/core"
)

func TestStore_Save(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "output")
	s := NewStore(dir, nil)

	result := core.ReviewResult{
		FilePath: filepath.Join("src", "app", "main.py"),
		Language: core.English,
		Body:     "Looks fine.\n\n- rename `x`",
	}

	art, err := s.Save(result)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "main.py_en_review.md"), art.Path)

	data, err := os.ReadFile(art.Path)
	require.NoError(t, err)
	content := string(data)
	assert.True(t, strings.HasPrefix(content, "# Code Review for "+result.FilePath+"\n\n"))
	assert.True(t, strings.HasSuffix(content, result.Body))
	assert.Equal(t, art.Content, content)
}

func TestStore_SaveOverwrites(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir, nil)

	first := core.ReviewResult{FilePath: "a/util.js", Language: core.Spanish, Body: "primera revisión"}
	second := core.ReviewResult{FilePath: "b/util.js", Language: core.Spanish, Body: "segunda"}

	art1, err := s.Save(first)
	require.NoError(t, err)
	art2, err := s.Save(second)
	require.NoError(t, err)

	assert.Equal(t, art1.Path, art2.Path)
	assert.Equal(t, filepath.Join(dir, "util.js_es_review.md"), art2.Path)

	data, err := os.ReadFile(art2.Path)
	require.NoError(t, err)
	assert.Equal(t, "# Code Review for b/util.js\n\nsegunda", string(data))
}

func TestStore_LanguageSelectsFileName(t *testing.T) {
	s := NewStore("out", nil)
	assert.Equal(t, filepath.Join("out", "x.go_en_review.md"), s.ArtifactPath("x.go", core.English))
	assert.Equal(t, filepath.Join("out", "x.go_es_review.md"), s.ArtifactPath("x.go", core.Spanish))
}

func TestStore_SaveFailsWhenDirectoryIsAFile(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "output")
	require.NoError(t, os.WriteFile(blocker, []byte("not a dir"), 0600))

	_, err := NewStore(blocker, nil).Save(core.ReviewResult{FilePath: "a.py", Body: "x"})
	assert.Error(t, err)
}
