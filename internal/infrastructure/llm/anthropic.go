package llm

import (
	"context"
	"fmt"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"FilingScanner/internal/config"
	"FilingScanner/internal/domain"
	"FilingScanner/internal/ports"
)

const (
	defaultAnthropicModel = "claude-sonnet-4-20250514"
	anthropicMaxTokens    = 1024
	anthropicSystemPrompt = "You classify SEC filings for an investment research desk. Return strict JSON only."
)

// AnthropicMessager is the slice of the Messages API the classifier uses.
type AnthropicMessager interface {
	New(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

type AnthropicClientCreator func(cfg config.ClassifierConfig) AnthropicMessager

func defaultAnthropicCreator(cfg config.ClassifierConfig) AnthropicMessager {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithBaseURL(cfg.Endpoint))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}
	c := anthropic.NewClient(opts...)
	return &c.Messages
}

var newAnthropicClient AnthropicClientCreator = defaultAnthropicCreator

// AnthropicClassifier implements ports.Classifier on the Anthropic Messages API.
type AnthropicClassifier struct {
	messages AnthropicMessager
	model    string
	prompt   string
	maxChars int
}

var _ ports.Classifier = (*AnthropicClassifier)(nil)

func NewAnthropicClassifier(cfg config.ClassifierConfig, prompt string) *AnthropicClassifier {
	model := cfg.Model
	if model == "" {
		model = defaultAnthropicModel
	}
	if prompt == "" {
		prompt = defaultPrompt
	}
	return &AnthropicClassifier{
		messages: newAnthropicClient(cfg),
		model:    model,
		prompt:   prompt,
		maxChars: cfg.MaxInputChars,
	}
}

func (a *AnthropicClassifier) Classify(ctx context.Context, text string) (*domain.Verdict, error) {
	resp, err := a.messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(a.model),
		MaxTokens:   anthropicMaxTokens,
		System:      []anthropic.TextBlockParam{{Text: anthropicSystemPrompt}},
		Messages:    []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock(renderPrompt(a.prompt, text, a.maxChars)))},
		Temperature: anthropic.Float(0),
	})
	if err != nil {
		return nil, fmt.Errorf("anthropic messages: %w", err)
	}
	if resp == nil {
		return nil, fmt.Errorf("%w: empty response", ErrMalformedVerdict)
	}

	var sb strings.Builder
	for _, b := range resp.Content {
		if b.Type == "text" {
			sb.WriteString(b.Text)
		}
	}

	verdict, err := parseVerdict(sb.String())
	if err != nil {
		return nil, err
	}
	verdict.TokensIn = resp.Usage.InputTokens
	verdict.TokensOut = resp.Usage.OutputTokens
	return verdict, nil
}
