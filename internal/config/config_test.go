package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SECRETS_FILE", filepath.Join(t.TempDir(), "missing.env"))

	cfg, err := load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "groq", cfg.AI.LLMProvider)
	assert.Equal(t, "llama-3.3-70b-versatile", cfg.AI.GeneratorModel)
	assert.Equal(t, "./output", cfg.Review.OutputDir)
	assert.Equal(t, 3*time.Second, cfg.Review.Pacing)
	assert.Equal(t, int64(10*1024*1024), cfg.Review.MaxFileSize)
	assert.Equal(t, ".py", cfg.Review.DefaultExtension)
	assert.Equal(t, PolicyAbort, cfg.Review.FailurePolicy)
	assert.False(t, cfg.Database.Enabled())
	assert.False(t, cfg.GitHub.HasAppCredentials())
}

func TestLoad_SecretsFileWinsOverEnvironment(t *testing.T) {
	secrets := filepath.Join(t.TempDir(), "key.env")
	require.NoError(t, os.WriteFile(secrets, []byte("GITHUB_TOKEN=from-file\nGROQ_API_KEY=gsk_test\n"), 0600))

	t.Setenv("SECRETS_FILE", secrets)
	t.Setenv("GITHUB_TOKEN", "from-env")

	cfg, err := load(viper.New())
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.GitHub.Token)
	assert.Equal(t, "gsk_test", cfg.AI.GroqAPIKey)
}

func TestLoad_MissingCredentialIsNotAnError(t *testing.T) {
	t.Setenv("SECRETS_FILE", filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv("GITHUB_TOKEN", "")

	cfg, err := load(viper.New())
	require.NoError(t, err)
	assert.Empty(t, cfg.GitHub.Token)
}

func TestLoad_ProviderDefaultModel(t *testing.T) {
	t.Setenv("SECRETS_FILE", "")
	t.Setenv("LLM_PROVIDER", "gemini")

	cfg, err := load(viper.New())
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.5-flash", cfg.AI.GeneratorModel)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() Config {
		return Config{
			AI: AIConfig{LLMProvider: "groq", GeneratorModel: "m"},
			Review: ReviewConfig{
				OutputDir:        "./output",
				Pacing:           time.Second,
				MaxFileSize:      1,
				DefaultExtension: ".py",
				FailurePolicy:    PolicyAbort,
			},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "Valid config", mutate: func(_ *Config) {}},
		{name: "Skip policy", mutate: func(c *Config) { c.Review.FailurePolicy = PolicySkip }},
		{name: "Unknown provider", mutate: func(c *Config) { c.AI.LLMProvider = "openai" }, wantErr: true},
		{name: "Unknown policy", mutate: func(c *Config) { c.Review.FailurePolicy = "retry" }, wantErr: true},
		{name: "Negative pacing", mutate: func(c *Config) { c.Review.Pacing = -time.Second }, wantErr: true},
		{name: "Zero pacing", mutate: func(c *Config) { c.Review.Pacing = 0 }, wantErr: true},
		{name: "Zero size ceiling", mutate: func(c *Config) { c.Review.MaxFileSize = 0 }, wantErr: true},
		{name: "Extension without dot", mutate: func(c *Config) { c.Review.DefaultExtension = "py" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadRepoConfig(t *testing.T) {
	t.Run("missing file returns defaults", func(t *testing.T) {
		cfg, err := LoadRepoConfig(t.TempDir())
		assert.ErrorIs(t, err, ErrConfigNotFound)
		require.NotNil(t, cfg)
		assert.Empty(t, cfg.ExcludeDirs)
	})

	t.Run("parses instructions and exclusions", func(t *testing.T) {
		dir := t.TempDir()
		content := "custom_instructions:\n  - Prefer early returns\nexclude_dirs:\n  - vendor\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, RepoConfigFile), []byte(content), 0600))

		cfg, err := LoadRepoConfig(dir)
		require.NoError(t, err)
		assert.Equal(t, []string{"Prefer early returns"}, cfg.CustomInstructions)
		assert.Equal(t, []string{"vendor"}, cfg.ExcludeDirs)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, RepoConfigFile), []byte("exclude_dirs: [unterminated"), 0600))

		_, err := LoadRepoConfig(dir)
		assert.ErrorIs(t, err, ErrConfigParsing)
	})
}
