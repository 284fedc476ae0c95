package llm

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/sevigo/goframe/llms"
	"github.com/sevigo/goframe/llms/gemini"
	"github.com/sevigo/goframe/llms/ollama"

	"github.com/sevigo/codewise/internal/config"
)

// modelGenerator adapts a goframe model to Generator.
type modelGenerator struct {
	model llms.Model
	name  string
}

func (g *modelGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return g.model.Call(ctx, prompt)
}

func (g *modelGenerator) Name() string { return g.name }

// NewGenerator creates the generator for the configured provider.
func NewGenerator(ctx context.Context, cfg *config.Config, logger *slog.Logger) (Generator, error) {
	ai := cfg.AI
	switch ai.LLMProvider {
	case "groq":
		logger.Info("Using Groq LLM provider", "model", ai.GeneratorModel)
		if ai.GroqAPIKey == "" {
			return nil, fmt.Errorf("GROQ_API_KEY is not set for groq provider")
		}
		return NewGroq(ai.GroqAPIKey, ai.GeneratorModel, ai.GroqBaseURL, newLLMHTTPClient(ai.Timeout)), nil

	case "gemini":
		logger.Info("Using Gemini LLM provider", "model", ai.GeneratorModel)
		if ai.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is not set for gemini provider")
		}
		model, err := gemini.New(ctx,
			gemini.WithModel(ai.GeneratorModel),
			gemini.WithAPIKey(ai.GeminiAPIKey),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create gemini model: %w", err)
		}
		return &modelGenerator{model: model, name: "gemini/" + ai.GeneratorModel}, nil

	case "ollama":
		logger.Info("Using Ollama LLM provider", "model", ai.GeneratorModel, "host", ai.OllamaHost)
		model, err := ollama.New(
			ollama.WithServerURL(ai.OllamaHost),
			ollama.WithHTTPClient(newLLMHTTPClient(ai.Timeout)),
			ollama.WithModel(ai.GeneratorModel),
			ollama.WithLogger(logger),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create ollama model: %w", err)
		}
		return &modelGenerator{model: model, name: "ollama/" + ai.GeneratorModel}, nil

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", ai.LLMProvider)
	}
}

// newLLMHTTPClient creates an HTTP client with generous timeouts; model calls
// can take minutes on local hardware.
func newLLMHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &http.Client{
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   30 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:        10,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
		},
		Timeout: timeout,
	}
}
