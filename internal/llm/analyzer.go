// Package llm turns source files into review prose using a text generation model.
package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sevigo/codewise/internal/core"
)

// Generator produces a completion for a single prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Name() string
}

// reviewPromptData is the data passed to the code_review templates.
type reviewPromptData struct {
	FilePath     string
	Language     string
	Code         string
	Instructions []string
}

// Analyzer implements core.Analyzer on top of a Generator.
type Analyzer struct {
	generator Generator
	prompts   *PromptManager
	timeout   time.Duration
	logger    *slog.Logger
}

// NewAnalyzer creates an Analyzer. A zero timeout disables the per-call deadline.
func NewAnalyzer(gen Generator, prompts *PromptManager, timeout time.Duration, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{generator: gen, prompts: prompts, timeout: timeout, logger: logger}
}

// Analyze renders the review prompt for the request language and sends it to
// the generator once. There is no retry.
func (a *Analyzer) Analyze(ctx context.Context, req core.ReviewRequest) (string, error) {
	prompt, err := a.prompts.Render(CodeReviewPrompt, req.Language, reviewPromptData{
		FilePath:     req.FilePath,
		Language:     fenceLanguage(req.FilePath),
		Code:         req.Code,
		Instructions: req.Instructions,
	})
	if err != nil {
		return "", &core.AnalysisError{Kind: core.AnalysisPrompt, Path: req.FilePath, Err: err}
	}

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	a.logger.InfoContext(ctx, "calling LLM for review",
		"path", req.FilePath,
		"generator", a.generator.Name(),
		"language", req.Language,
		"prompt_chars", len(prompt),
	)
	start := time.Now()

	review, err := a.generator.Generate(ctx, prompt)
	if err != nil {
		var ae *core.AnalysisError
		if errors.As(err, &ae) {
			if ae.Path == "" {
				ae.Path = req.FilePath
			}
			return "", ae
		}
		return "", &core.AnalysisError{Kind: core.AnalysisUnreachable, Path: req.FilePath, Err: err}
	}
	if strings.TrimSpace(review) == "" {
		return "", &core.AnalysisError{Kind: core.AnalysisEmpty, Path: req.FilePath, Err: fmt.Errorf("%s returned an empty review", a.generator.Name())}
	}

	a.logger.InfoContext(ctx, "LLM review generated", "path", req.FilePath, "chars", len(review), "elapsed", time.Since(start).Round(time.Millisecond))
	return review, nil
}
