// Package llm holds the stage-3 classifier collaborators. Each one renders the
// prompt template with the filing text, asks a language model for a JSON
// verdict at zero temperature and decodes it into a domain.Verdict.
package llm

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"FilingScanner/internal/config"
	"FilingScanner/internal/domain"
	"FilingScanner/internal/ports"
)

const textPlaceholder = "{filing_text}"

//go:embed prompts/classify.txt
var defaultPrompt string

var (
	// ErrMalformedVerdict reports a model answer that is not the expected JSON object.
	ErrMalformedVerdict = errors.New("llm: malformed verdict")
	// ErrNotConfigured is returned by New when no API key is available.
	ErrNotConfigured = errors.New("llm: classifier not configured")
)

// New builds the classifier selected by cfg.Provider.
func New(cfg config.ClassifierConfig) (ports.Classifier, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrNotConfigured
	}
	prompt, err := LoadPrompt(cfg.PromptFile)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(cfg.Provider) {
	case config.ProviderAnthropic:
		return NewAnthropicClassifier(cfg, prompt), nil
	case config.ProviderOpenAI, "":
		return NewOpenAIClassifier(cfg, prompt), nil
	default:
		return nil, fmt.Errorf("unknown classifier provider %q", cfg.Provider)
	}
}

// LoadPrompt reads a prompt template from path, or returns the built-in one when path is empty.
func LoadPrompt(path string) (string, error) {
	if path == "" {
		return defaultPrompt, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read prompt %s: %w", path, err)
	}
	prompt := string(raw)
	if !strings.Contains(prompt, textPlaceholder) {
		return "", fmt.Errorf("prompt %s lacks the %s placeholder", path, textPlaceholder)
	}
	return prompt, nil
}

func renderPrompt(template, text string, maxChars int) string {
	if maxChars > 0 {
		if runes := []rune(text); len(runes) > maxChars {
			text = string(runes[:maxChars])
		}
	}
	return strings.ReplaceAll(template, textPlaceholder, text)
}

type verdictPayload struct {
	Relevant    *bool  `json:"relevant"`
	Category    string `json:"category"`
	Subcategory string `json:"subcategory"`
	Summary     string `json:"summary"`
}

func parseVerdict(raw string) (*domain.Verdict, error) {
	clean := stripCodeFences(raw)
	if clean == "" {
		return nil, fmt.Errorf("%w: empty answer", ErrMalformedVerdict)
	}

	var payload verdictPayload
	if err := json.Unmarshal([]byte(clean), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedVerdict, err)
	}
	if payload.Relevant == nil {
		return nil, fmt.Errorf("%w: missing relevant flag", ErrMalformedVerdict)
	}

	return &domain.Verdict{
		Relevant:    *payload.Relevant,
		Category:    strings.TrimSpace(payload.Category),
		Subcategory: strings.TrimSpace(payload.Subcategory),
		Summary:     strings.TrimSpace(payload.Summary),
	}, nil
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		parts := strings.SplitN(s, "\n", 2)
		if len(parts) == 2 {
			s = parts[1]
		} else {
			s = strings.TrimPrefix(s, "```")
		}
		s = strings.TrimPrefix(s, "json")
		s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))
	}
	return s
}
