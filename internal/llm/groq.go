package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sevigo/codewise/internal/core"
)

const defaultGroqURL = "https://api.groq.com/openai/v1"

// Groq talks to Groq's OpenAI-compatible chat completions endpoint.
type Groq struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// NewGroq creates a Groq generator. An empty baseURL uses the public endpoint.
func NewGroq(apiKey, model, baseURL string, client *http.Client) *Groq {
	if baseURL == "" {
		baseURL = defaultGroqURL
	}
	if client == nil {
		client = newLLMHTTPClient(0)
	}
	return &Groq{
		apiKey:  apiKey,
		model:   model,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

func (g *Groq) Name() string { return "groq/" + g.model }

// Generate sends prompt as a single user message and returns the first choice.
func (g *Groq) Generate(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model:    g.model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", &core.AnalysisError{Kind: core.AnalysisPrompt, Err: fmt.Errorf("marshaling request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", &core.AnalysisError{Kind: core.AnalysisUnreachable, Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", &core.AnalysisError{Kind: core.AnalysisUnreachable, Err: fmt.Errorf("sending request: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &core.AnalysisError{Kind: core.AnalysisUnreachable, Err: fmt.Errorf("reading response: %w", err)}
	}
	if resp.StatusCode != http.StatusOK {
		return "", &core.AnalysisError{Kind: core.AnalysisStatus, Err: fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))}
	}

	var result chatResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", &core.AnalysisError{Kind: core.AnalysisMalformed, Err: fmt.Errorf("parsing response: %w", err)}
	}
	if len(result.Choices) == 0 || result.Choices[0].Message.Content == "" {
		return "", &core.AnalysisError{Kind: core.AnalysisEmpty, Err: fmt.Errorf("no content in response")}
	}
	return result.Choices[0].Message.Content, nil
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}
