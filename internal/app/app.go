package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"FilingScanner/internal/config"
	"FilingScanner/internal/filter"
	"FilingScanner/internal/infrastructure/edgar"
	"FilingScanner/internal/infrastructure/llm"
	"FilingScanner/internal/infrastructure/scheduler"
	"FilingScanner/internal/infrastructure/storage"
	"FilingScanner/internal/infrastructure/telegram"
	"FilingScanner/internal/logging"
	"FilingScanner/internal/ports"
	"FilingScanner/internal/summarizer"
	"FilingScanner/internal/telemetry"
	"FilingScanner/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg       config.Config
	logger    *slog.Logger
	pipeline  *usecase.Pipeline
	scheduler *usecase.Scheduler

	store         io.Closer
	shutdownTrace telemetry.ShutdownFunc
}

// New connects storage, tracing and the registry adapters and builds the pipeline.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	taxonomy, err := filter.NewTaxonomy(cfg.Taxonomy)
	if err != nil {
		return nil, fmt.Errorf("load taxonomy: %w", err)
	}

	shutdownTrace, err := telemetry.Setup(ctx, cfg.Telemetry, logging.Component(baseLogger, "telemetry"))
	if err != nil {
		return nil, err
	}

	repo, store, err := storage.Open(ctx, cfg.Database)
	if err != nil {
		_ = shutdownTrace(ctx)
		return nil, fmt.Errorf("open storage: %w", err)
	}

	transport := edgar.NewTransport(cfg.Registry, nil)
	texts, err := edgar.NewDocumentFetcher(transport, cfg.Registry, logging.Component(baseLogger, "edgar.document"))
	if err != nil {
		_ = store.Close()
		_ = shutdownTrace(ctx)
		return nil, err
	}

	var classifier ports.Classifier
	switch c, cErr := llm.New(cfg.Classifier); {
	case errors.Is(cErr, llm.ErrNotConfigured):
		baseLogger.Warn("no classifier api key, every candidate gets the extractive summary", "provider", cfg.Classifier.Provider)
	case cErr != nil:
		_ = store.Close()
		_ = shutdownTrace(ctx)
		return nil, fmt.Errorf("build classifier: %w", cErr)
	default:
		classifier = c
	}

	var notifier ports.Notifier
	if n := telegram.NewNotifier(cfg.Notifications.Telegram); n != nil {
		notifier = n
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Source:     edgar.NewSearcher(transport, cfg.Registry, logging.Component(baseLogger, "edgar.search")),
		Texts:      texts,
		Classifier: classifier,
		Repository: repo,
		Tickers:    edgar.NewTickerLookup(transport, cfg.Registry, logging.Component(baseLogger, "edgar.tickers")),
		Notifier:   notifier,
		Summarizer: summarizer.New(cfg.Summarizer.MaxSentences, cfg.Summarizer.MaxSentenceLength),
		Taxonomy:   taxonomy,
		Logger:     logging.Component(baseLogger, "pipeline"),
	})

	driver, err := scheduler.NewDailyScheduler(cfg.Scheduler.RunAt, cfg.Scheduler.Location())
	if err != nil {
		_ = store.Close()
		_ = shutdownTrace(ctx)
		return nil, err
	}

	return &Application{
		cfg:           cfg,
		logger:        baseLogger,
		pipeline:      pipeline,
		scheduler:     usecase.NewScheduler(driver, pipeline, logging.Component(baseLogger, "scheduler")),
		store:         store,
		shutdownTrace: shutdownTrace,
	}, nil
}

// RunOnce performs a single pipeline execution over an explicit range.
func (a *Application) RunOnce(ctx context.Context, start, end time.Time, max int) (usecase.RunReport, error) {
	return a.pipeline.Run(ctx, start, end, max)
}

// RunToday covers yesterday through today in the scheduler's timezone.
func (a *Application) RunToday(ctx context.Context) (usecase.RunReport, error) {
	return a.pipeline.RunDaily(ctx, time.Now().In(a.cfg.Scheduler.Location()))
}

// Serve runs the daily job until ctx is cancelled.
func (a *Application) Serve(ctx context.Context) error {
	if err := a.scheduler.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	a.logger.Info("scheduler started", "run_at", a.cfg.Scheduler.RunAt, "timezone", a.cfg.Scheduler.Location().String())

	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return a.scheduler.Stop(stopCtx)
}

// Close releases storage and flushes pending spans.
func (a *Application) Close(ctx context.Context) error {
	var errs []error
	if a.store != nil {
		errs = append(errs, a.store.Close())
	}
	if a.shutdownTrace != nil {
		errs = append(errs, a.shutdownTrace(ctx))
	}
	return errors.Join(errs...)
}
