// Package edgar talks to the SEC EDGAR registry: full-text search for 8-K
// filings, primary-document retrieval and the CIK-to-ticker mapping.
package edgar

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"FilingScanner/internal/config"
)

const maxBodyBytes = 32 << 20

var defaultForms = []string{"8-K", "8-K/A"}

// acceptedForms returns the configured form types, or 8-K and 8-K/A.
func acceptedForms(cfg config.RegistryConfig) []string {
	if len(cfg.Forms) == 0 {
		return defaultForms
	}
	return cfg.Forms
}

// Transport is the HTTP client shared by all registry adapters. Every request
// goes through one limiter so search pages and document downloads together
// respect the registry's request budget.
type Transport struct {
	client    *http.Client
	limiter   *rate.Limiter
	userAgent string
}

// NewTransport builds a rate-limited transport; a nil client gets the configured timeout.
func NewTransport(cfg config.RegistryConfig, client *http.Client) *Transport {
	if client == nil {
		timeout := cfg.RequestTimeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}

	limit := rate.Inf
	if cfg.RequestDelay > 0 {
		limit = rate.Every(cfg.RequestDelay)
	}

	return &Transport{
		client:    client,
		limiter:   rate.NewLimiter(limit, 1),
		userAgent: cfg.UserAgent,
	}
}

func (t *Transport) get(ctx context.Context, url, accept string) ([]byte, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if t.userAgent != "" {
		req.Header.Set("User-Agent", t.userAgent)
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("registry returned %s for %s", resp.Status, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}
