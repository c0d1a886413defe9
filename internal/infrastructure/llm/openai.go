package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"FilingScanner/internal/config"
	"FilingScanner/internal/domain"
	"FilingScanner/internal/ports"
)

const (
	defaultOpenAIEndpoint = "https://api.openai.com/v1/chat/completions"
	defaultOpenAIModel    = "gpt-4o-mini"
)

// OpenAIClassifier implements ports.Classifier backed by OpenAI-compatible chat APIs.
type OpenAIClassifier struct {
	endpoint   string
	model      string
	apiKey     string
	prompt     string
	maxChars   int
	httpClient *http.Client
}

var _ ports.Classifier = (*OpenAIClassifier)(nil)

// NewOpenAIClassifier builds a client from configuration.
func NewOpenAIClassifier(cfg config.ClassifierConfig, prompt string) *OpenAIClassifier {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = defaultOpenAIEndpoint
	}
	model := cfg.Model
	if model == "" {
		model = defaultOpenAIModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	if prompt == "" {
		prompt = defaultPrompt
	}
	return &OpenAIClassifier{
		endpoint: endpoint,
		model:    model,
		apiKey:   cfg.APIKey,
		prompt:   prompt,
		maxChars: cfg.MaxInputChars,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int64 `json:"prompt_tokens"`
		CompletionTokens int64 `json:"completion_tokens"`
	} `json:"usage"`
}

// Classify posts the rendered prompt as a single user message and decodes the JSON answer.
func (c *OpenAIClassifier) Classify(ctx context.Context, text string) (*domain.Verdict, error) {
	if c == nil {
		return nil, fmt.Errorf("openai classifier is nil")
	}
	if c.apiKey == "" {
		return nil, ErrNotConfigured
	}

	body, err := json.Marshal(map[string]any{
		"model":           c.model,
		"temperature":     0,
		"response_format": map[string]string{"type": "json_object"},
		"messages": []map[string]string{
			{"role": "user", "content": renderPrompt(c.prompt, text, c.maxChars)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal chat payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send classification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("chat completion error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var decoded chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("%w: decode completion: %v", ErrMalformedVerdict, err)
	}
	if len(decoded.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices", ErrMalformedVerdict)
	}

	verdict, err := parseVerdict(decoded.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}
	verdict.TokensIn = decoded.Usage.PromptTokens
	verdict.TokensOut = decoded.Usage.CompletionTokens
	return verdict, nil
}
