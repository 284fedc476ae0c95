package gitutil

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/codewise/internal/core"
)

func TestLocator_Resolve(t *testing.T) {
	ctx := context.Background()
	l := NewLocator(slog.Default())

	t.Run("origin remote", func(t *testing.T) {
		dir := t.TempDir()
		repo, err := git.PlainInit(dir, false)
		require.NoError(t, err)
		_, err = repo.CreateRemote(&gitconfig.RemoteConfig{
			Name: "origin",
			URLs: []string{"git@github.com:acme/widgets.git"},
		})
		require.NoError(t, err)

		sub := filepath.Join(dir, "src", "pkg")
		require.NoError(t, os.MkdirAll(sub, 0755))

		id, err := l.Resolve(ctx, sub)
		require.NoError(t, err)
		assert.Equal(t, core.RepositoryIdentity{Owner: "acme", Name: "widgets"}, id)
	})

	t.Run("no remote configured", func(t *testing.T) {
		dir := t.TempDir()
		_, err := git.PlainInit(dir, false)
		require.NoError(t, err)

		_, err = l.Resolve(ctx, dir)
		assert.ErrorIs(t, err, core.ErrIdentityUnavailable)
	})

	t.Run("not a repository", func(t *testing.T) {
		_, err := l.Resolve(ctx, t.TempDir())
		assert.ErrorIs(t, err, core.ErrIdentityUnavailable)
	})
}
