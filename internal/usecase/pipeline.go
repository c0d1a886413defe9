package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"FilingScanner/internal/domain"
	"FilingScanner/internal/filter"
	"FilingScanner/internal/ports"
	"FilingScanner/internal/summarizer"
	"FilingScanner/internal/telemetry"
)

var (
	// ErrRunInProgress is returned when Run is called while another run holds the lock.
	ErrRunInProgress = errors.New("usecase: pipeline run already in progress")

	errNoClassifier = errors.New("usecase: no classifier configured")
)

// PipelineDeps wires all driven adapters into the orchestration pipeline.
type PipelineDeps struct {
	Source     ports.FilingSource
	Texts      ports.TextFetcher
	Classifier ports.Classifier
	Repository ports.FilingRepository
	Tickers    ports.TickerResolver
	Notifier   ports.Notifier
	Summarizer ports.Summarizer
	Taxonomy   *filter.Taxonomy
	Logger     *slog.Logger
}

// Pipeline implements the filing triage workflow.
type Pipeline struct {
	source     ports.FilingSource
	texts      ports.TextFetcher
	classifier ports.Classifier
	repository ports.FilingRepository
	tickers    ports.TickerResolver
	notifier   ports.Notifier
	summarizer ports.Summarizer
	taxonomy   *filter.Taxonomy
	logger     *slog.Logger
	tracer     trace.Tracer

	running sync.Mutex
}

// NewPipeline constructs the orchestration component. A missing taxonomy or
// summarizer gets the built-in default.
func NewPipeline(deps PipelineDeps) *Pipeline {
	p := &Pipeline{
		source:     deps.Source,
		texts:      deps.Texts,
		classifier: deps.Classifier,
		repository: deps.Repository,
		tickers:    deps.Tickers,
		notifier:   deps.Notifier,
		summarizer: deps.Summarizer,
		taxonomy:   deps.Taxonomy,
		logger:     deps.Logger,
		tracer:     telemetry.Tracer(),
	}
	if p.taxonomy == nil {
		p.taxonomy = filter.MustDefaultTaxonomy()
	}
	if p.summarizer == nil {
		p.summarizer = summarizer.New(0, 0)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// RunReport describes one pipeline run.
type RunReport struct {
	RunID string
	Start time.Time
	End   time.Time

	Fetched        int
	Stage1Passed   int
	AlreadyStored  int
	KeywordMatched int
	NearMisses     int
	AutoPassed     int
	Classified     int
	Vetoed         int
	Fallbacks      int

	// Promoted lists keyword matches first, then rescued near-misses.
	Promoted    []domain.EnrichedFiling
	Stored      int
	StoreErrors int

	TokensIn  int64
	TokensOut int64
	Duration  time.Duration
}

// Run fetches filings for [start, end], triages them and stores the survivors.
// An empty fetch ends the run early with an empty report and no error.
func (p *Pipeline) Run(ctx context.Context, start, end time.Time, max int) (RunReport, error) {
	if p.source == nil || p.texts == nil {
		return RunReport{}, errors.New("pipeline misconfigured: source and text fetcher are required")
	}
	if !p.running.TryLock() {
		return RunReport{}, ErrRunInProgress
	}
	defer p.running.Unlock()

	report := RunReport{RunID: uuid.NewString(), Start: start, End: end}
	began := time.Now()
	logger := p.logger.With("run_id", report.RunID)

	ctx, span := p.tracer.Start(ctx, "pipeline.run", trace.WithAttributes(
		attribute.String("run.id", report.RunID),
		attribute.String("range.start", start.Format(time.DateOnly)),
		attribute.String("range.end", end.Format(time.DateOnly)),
		attribute.Int("range.max", max),
	))
	defer span.End()

	logger.Info("run started", "from", start.Format(time.DateOnly), "to", end.Format(time.DateOnly), "max", max)

	filings, err := p.source.Fetch(ctx, start, end, max)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		return report, fmt.Errorf("fetch filings: %w", err)
	}
	report.Fetched = len(filings)
	if len(filings) == 0 {
		logger.Warn("no filings fetched, aborting run")
		report.Duration = time.Since(began)
		return report, nil
	}

	candidates := p.screen(ctx, filings, &report)
	candidates = p.skipStored(ctx, candidates, &report, logger)
	matched, nearMisses := p.scan(ctx, candidates, &report, logger)
	kept := p.review(ctx, append(matched, nearMisses...), &report, logger)
	fresh := p.promote(ctx, kept, &report, logger)
	p.publish(ctx, report, fresh, logger)

	report.Duration = time.Since(began)
	span.SetAttributes(
		attribute.Int("filings.fetched", report.Fetched),
		attribute.Int("filings.promoted", len(report.Promoted)),
		attribute.Int("filings.stored", report.Stored),
		attribute.Int64("tokens.in", report.TokensIn),
		attribute.Int64("tokens.out", report.TokensOut),
	)
	logger.Info("run finished",
		"fetched", report.Fetched,
		"stage1", report.Stage1Passed,
		"already_stored", report.AlreadyStored,
		"keyword_matched", report.KeywordMatched,
		"near_misses", report.NearMisses,
		"auto_passed", report.AutoPassed,
		"classified", report.Classified,
		"vetoed", report.Vetoed,
		"fallbacks", report.Fallbacks,
		"promoted", len(report.Promoted),
		"stored", report.Stored,
		"store_errors", report.StoreErrors,
		"tokens_in", report.TokensIn,
		"tokens_out", report.TokensOut,
		"duration", report.Duration,
	)
	return report, nil
}

// RunDaily covers the calendar day before trigger through trigger's day.
func (p *Pipeline) RunDaily(ctx context.Context, trigger time.Time) (RunReport, error) {
	end := time.Date(trigger.Year(), trigger.Month(), trigger.Day(), 0, 0, 0, 0, trigger.Location())
	return p.Run(ctx, end.AddDate(0, 0, -1), end, 0)
}

func (p *Pipeline) skipStored(ctx context.Context, filings []domain.EnrichedFiling, report *RunReport, logger *slog.Logger) []domain.EnrichedFiling {
	if p.repository == nil || len(filings) == 0 {
		return filings
	}

	ids := make([]string, len(filings))
	for i, f := range filings {
		ids[i] = f.AccessionID
	}
	stored, err := p.repository.AlreadyStored(ctx, ids)
	if err != nil {
		logger.Warn("existence check failed, triaging every filing", "error", err)
		return filings
	}

	out := filings[:0]
	for _, f := range filings {
		if stored[f.AccessionID] {
			report.AlreadyStored++
			continue
		}
		out = append(out, f)
	}
	return out
}

func (p *Pipeline) promote(ctx context.Context, filings []domain.EnrichedFiling, report *RunReport, logger *slog.Logger) []domain.EnrichedFiling {
	_, span := p.tracer.Start(ctx, "pipeline.promote")
	defer span.End()

	var fresh []domain.EnrichedFiling
	for i := range filings {
		f := &filings[i]
		if f.Ticker == "" && f.EntityID != "" && p.tickers != nil {
			f.Ticker = p.tickers.Ticker(ctx, f.EntityID)
		}
		if f.Summary == "" && f.RawText != "" {
			f.Summary = p.summarizer.Summarize(f.RawText, f.MatchedKeywords)
			f.SummaryOrigin = domain.OriginExtractive
		}
		f.Status = domain.StatusPromoted

		if p.repository == nil {
			fresh = append(fresh, *f)
			continue
		}
		inserted, err := p.repository.Insert(ctx, *f)
		if err != nil {
			report.StoreErrors++
			logger.Error("store filing", "accession", f.AccessionID, "company", f.CompanyName, "error", err)
			continue
		}
		if inserted {
			report.Stored++
			fresh = append(fresh, *f)
		}
	}

	report.Promoted = filings
	return fresh
}

func (p *Pipeline) publish(ctx context.Context, report RunReport, fresh []domain.EnrichedFiling, logger *slog.Logger) {
	if p.notifier == nil || len(fresh) == 0 {
		return
	}
	if err := p.notifier.PublishDigest(ctx, BuildDigest(report, fresh)); err != nil {
		logger.Warn("publish digest", "error", err)
	}
}
