package edgar

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"FilingScanner/internal/config"
	"FilingScanner/internal/ports"
)

// TickerLookup maps zero-padded CIKs to exchange tickers using the registry's
// company_tickers.json. The mapping loads once per process and is cached on disk.
type TickerLookup struct {
	transport *Transport
	sourceURL string
	cachePath string
	cacheTTL  time.Duration
	logger    *slog.Logger

	once    sync.Once
	tickers map[string]string
}

var _ ports.TickerResolver = (*TickerLookup)(nil)

type tickerEntry struct {
	CIK    int64  `json:"cik_str"`
	Ticker string `json:"ticker"`
	Title  string `json:"title"`
}

func NewTickerLookup(transport *Transport, cfg config.RegistryConfig, logger *slog.Logger) *TickerLookup {
	if logger == nil {
		logger = slog.Default()
	}
	return &TickerLookup{
		transport: transport,
		sourceURL: cfg.TickersURL,
		cachePath: cfg.TickerCachePath,
		cacheTTL:  cfg.TickerCacheTTL,
		logger:    logger,
	}
}

// Ticker returns the ticker for entityID, or "" when unknown.
func (l *TickerLookup) Ticker(ctx context.Context, entityID string) string {
	// The map is loaded once per process; a cancelled first caller must not leave it empty.
	l.once.Do(func() { l.tickers = l.load(context.WithoutCancel(ctx)) })

	key, ok := normalizeCIK(entityID)
	if !ok {
		return ""
	}
	return l.tickers[key]
}

func (l *TickerLookup) load(ctx context.Context) map[string]string {
	if raw, ok := l.readCache(); ok {
		if tickers, err := parseTickers(raw); err == nil {
			l.logger.Debug("ticker map loaded from cache", "entries", len(tickers))
			return tickers
		}
	}

	raw, err := l.transport.get(ctx, l.sourceURL, "application/json")
	if err != nil {
		l.logger.Warn("ticker map download failed", "error", err)
		return map[string]string{}
	}
	tickers, err := parseTickers(raw)
	if err != nil {
		l.logger.Warn("ticker map undecodable", "error", err)
		return map[string]string{}
	}

	if l.cachePath != "" {
		if err := os.WriteFile(l.cachePath, raw, 0o644); err != nil {
			l.logger.Warn("ticker cache write failed", "path", l.cachePath, "error", err)
		}
	}
	l.logger.Info("ticker map downloaded", "entries", len(tickers))
	return tickers
}

func (l *TickerLookup) readCache() ([]byte, bool) {
	if l.cachePath == "" {
		return nil, false
	}
	info, err := os.Stat(l.cachePath)
	if err != nil {
		return nil, false
	}
	if l.cacheTTL > 0 && time.Since(info.ModTime()) > l.cacheTTL {
		return nil, false
	}
	raw, err := os.ReadFile(l.cachePath)
	if err != nil {
		return nil, false
	}
	return raw, true
}

// parseTickers keeps one ticker per CIK, preferring common stock over
// warrants ("W" suffix) and share classes ("-" in the symbol).
func parseTickers(raw []byte) (map[string]string, error) {
	var entries map[string]tickerEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("decode ticker map: %w", err)
	}

	// iterate in file order so the first listed symbol wins among equals
	keys := make([]int, 0, len(entries))
	for k := range entries {
		if n, err := strconv.Atoi(k); err == nil {
			keys = append(keys, n)
		}
	}
	sort.Ints(keys)

	out := make(map[string]string, len(entries))
	for _, k := range keys {
		e := entries[strconv.Itoa(k)]
		if e.Ticker == "" {
			continue
		}
		cik := fmt.Sprintf("%010d", e.CIK)
		current, exists := out[cik]
		if !exists || (!isCommonStock(current) && isCommonStock(e.Ticker)) {
			out[cik] = e.Ticker
		}
	}
	return out, nil
}

func isCommonStock(ticker string) bool {
	return !strings.Contains(ticker, "-") && !strings.HasSuffix(ticker, "W")
}

func normalizeCIK(id string) (string, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
	if err != nil || n <= 0 {
		return "", false
	}
	return fmt.Sprintf("%010d", n), true
}
