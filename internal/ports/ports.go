package ports

import (
	"context"
	"time"

	"FilingScanner/internal/domain"
)

// FilingSource lists unique filings for an inclusive date range; max <= 0 means no cap.
type FilingSource interface {
	Fetch(ctx context.Context, start, end time.Time, max int) ([]domain.FilingMetadata, error)
}

// TextFetcher downloads the plain text of a filing's primary document.
// Failures yield an empty string.
type TextFetcher interface {
	FetchText(ctx context.Context, filing domain.FilingMetadata) string
}

// Classifier asks a language model for a relevance verdict on filing text.
type Classifier interface {
	Classify(ctx context.Context, text string) (*domain.Verdict, error)
}

// Summarizer produces an extractive summary without external calls.
type Summarizer interface {
	Summarize(text string, keywords []string) string
}

// FilingRepository persists promoted filings keyed by accession id.
type FilingRepository interface {
	AlreadyStored(ctx context.Context, accessionIDs []string) (map[string]bool, error)
	// Insert ignores duplicates and reports whether a new row was written.
	Insert(ctx context.Context, filing domain.EnrichedFiling) (bool, error)
}

// TickerResolver maps a registry entity id to a trading symbol.
type TickerResolver interface {
	Ticker(ctx context.Context, entityID string) string
}

// Notifier streams run digests to chat channels.
type Notifier interface {
	PublishDigest(ctx context.Context, digest string) error
}

// Scheduler controls when pipelines execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
