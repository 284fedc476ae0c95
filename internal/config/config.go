package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/sevigo/codewise/internal/logger"
)

// FailurePolicy decides what happens to the batch when analysis of one file fails.
type FailurePolicy string

const (
	// PolicyAbort stops the whole run on the first analysis failure.
	PolicyAbort FailurePolicy = "abort"
	// PolicySkip logs the failure and moves on to the next file.
	PolicySkip FailurePolicy = "skip"
)

// Config holds the application's configuration values.
type Config struct {
	Logging  logger.Config
	AI       AIConfig
	GitHub   GitHubConfig
	Review   ReviewConfig
	Database DBConfig
}

// AIConfig configures the analysis service.
type AIConfig struct {
	LLMProvider    string
	GeneratorModel string
	OllamaHost     string
	GeminiAPIKey   string
	GroqAPIKey     string
	GroqBaseURL    string
	Timeout        time.Duration
}

// GitHubConfig holds the hosting platform credentials.
type GitHubConfig struct {
	Token          string
	APIURL         string
	AppID          int64
	InstallationID int64
	PrivateKeyPath string
}

// HasAppCredentials reports whether GitHub App authentication is configured.
func (g GitHubConfig) HasAppCredentials() bool {
	return g.AppID != 0 && g.InstallationID != 0 && g.PrivateKeyPath != ""
}

// ReviewConfig controls discovery, pacing and output.
type ReviewConfig struct {
	OutputDir        string
	Pacing           time.Duration
	MaxFileSize      int64
	DefaultExtension string
	FailurePolicy    FailurePolicy
}

// DBConfig holds the connection settings of the review journal.
type DBConfig struct {
	Host            string
	Port            int
	Username        string
	Password        string
	Database        string
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// Enabled reports whether a journal database is configured.
func (d DBConfig) Enabled() bool {
	return d.Host != ""
}

var defaultModels = map[string]string{
	"groq":   "llama-3.3-70b-versatile",
	"ollama": "gemma3:latest",
	"gemini": "gemini-2.5-flash",
}

// Keys read from the secret file before falling back to the environment.
var secretKeys = []string{"GITHUB_TOKEN", "GROQ_API_KEY", "GEMINI_API_KEY"}

// LoadConfig reads configuration from environment variables and a .env file,
// loads credentials from the secret file, sets defaults, and validates the result.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	setDefaults(v)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			slog.Error("failed to read config file", "error", err)
		}
	}

	secrets, err := readSecrets(v.GetString("SECRETS_FILE"))
	if err != nil {
		return nil, err
	}
	for _, key := range secretKeys {
		if val := secrets[key]; val != "" {
			v.Set(key, val)
		}
	}

	cfg := &Config{
		Logging: logger.Config{
			Level:  strings.ToLower(v.GetString("LOG_LEVEL")),
			Format: v.GetString("LOG_FORMAT"),
			Output: v.GetString("LOG_OUTPUT"),
			File:   v.GetString("LOG_FILE"),
		},
		AI: AIConfig{
			LLMProvider:    strings.ToLower(v.GetString("LLM_PROVIDER")),
			GeneratorModel: v.GetString("GENERATOR_MODEL_NAME"),
			OllamaHost:     v.GetString("OLLAMA_HOST"),
			GeminiAPIKey:   v.GetString("GEMINI_API_KEY"),
			GroqAPIKey:     v.GetString("GROQ_API_KEY"),
			GroqBaseURL:    v.GetString("GROQ_BASE_URL"),
			Timeout:        v.GetDuration("LLM_TIMEOUT"),
		},
		GitHub: GitHubConfig{
			Token:          v.GetString("GITHUB_TOKEN"),
			APIURL:         v.GetString("GITHUB_API_URL"),
			AppID:          v.GetInt64("GITHUB_APP_ID"),
			InstallationID: v.GetInt64("GITHUB_INSTALLATION_ID"),
			PrivateKeyPath: v.GetString("GITHUB_PRIVATE_KEY_PATH"),
		},
		Review: ReviewConfig{
			OutputDir:        v.GetString("OUTPUT_DIR"),
			Pacing:           v.GetDuration("REVIEW_PACING"),
			MaxFileSize:      v.GetInt64("MAX_FILE_SIZE"),
			DefaultExtension: v.GetString("DEFAULT_EXTENSION"),
			FailurePolicy:    FailurePolicy(strings.ToLower(v.GetString("FAILURE_POLICY"))),
		},
		Database: DBConfig{
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			Username:        v.GetString("DB_USERNAME"),
			Password:        v.GetString("DB_PASSWORD"),
			Database:        v.GetString("DB_NAME"),
			ConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
			ConnMaxIdleTime: v.GetDuration("DB_CONN_MAX_IDLE_TIME"),
		},
	}

	if cfg.AI.GeneratorModel == "" {
		cfg.AI.GeneratorModel = defaultModels[cfg.AI.LLMProvider]
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("LOG_OUTPUT", "stderr")
	v.SetDefault("SECRETS_FILE", "key.env")
	v.SetDefault("LLM_PROVIDER", "groq")
	v.SetDefault("OLLAMA_HOST", "http://localhost:11434")
	v.SetDefault("GROQ_BASE_URL", "https://api.groq.com/openai/v1")
	v.SetDefault("LLM_TIMEOUT", "2m")
	v.SetDefault("GITHUB_PRIVATE_KEY_PATH", "keys/codewise.private-key.pem")
	v.SetDefault("OUTPUT_DIR", "./output")
	v.SetDefault("REVIEW_PACING", "3s")
	v.SetDefault("MAX_FILE_SIZE", 10*1024*1024)
	v.SetDefault("DEFAULT_EXTENSION", ".py")
	v.SetDefault("FAILURE_POLICY", string(PolicyAbort))
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_NAME", "codewise")
	v.SetDefault("DB_CONN_MAX_LIFETIME", "30m")
	v.SetDefault("DB_CONN_MAX_IDLE_TIME", "5m")
}

// readSecrets loads the secret file. A missing file is not an error: the
// credentials then come from the environment or stay empty.
func readSecrets(path string) (map[string]string, error) {
	if path == "" {
		return map[string]string{}, nil
	}
	secrets, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("failed to read secrets file %s: %w", path, err)
	}
	return secrets, nil
}

// Validate checks the values that would otherwise fail deep inside a run.
func (c *Config) Validate() error {
	switch c.AI.LLMProvider {
	case "groq", "ollama", "gemini":
	default:
		return fmt.Errorf("unsupported LLM provider: %s", c.AI.LLMProvider)
	}
	if c.AI.GeneratorModel == "" {
		return fmt.Errorf("GENERATOR_MODEL_NAME must be set")
	}
	switch c.Review.FailurePolicy {
	case PolicyAbort, PolicySkip:
	default:
		return fmt.Errorf("invalid FAILURE_POLICY %q (expected %q or %q)", c.Review.FailurePolicy, PolicyAbort, PolicySkip)
	}
	if c.Review.Pacing <= 0 {
		return fmt.Errorf("REVIEW_PACING must be positive")
	}
	if c.Review.MaxFileSize <= 0 {
		return fmt.Errorf("MAX_FILE_SIZE must be positive")
	}
	if c.Review.OutputDir == "" {
		return fmt.Errorf("OUTPUT_DIR must be set")
	}
	if !strings.HasPrefix(c.Review.DefaultExtension, ".") {
		return fmt.Errorf("DEFAULT_EXTENSION must start with a dot, got %q", c.Review.DefaultExtension)
	}
	return nil
}
