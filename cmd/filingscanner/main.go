package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"FilingScanner/internal/app"
	"FilingScanner/internal/config"
	"FilingScanner/internal/logging"
	"FilingScanner/internal/usecase"
)

func main() {
	now := flag.Bool("now", false, "run once for yesterday through today and exit")
	from := flag.String("from", "", "run once starting at this date (YYYY-MM-DD)")
	to := flag.String("to", "", "end date for -from (YYYY-MM-DD, default today)")
	maxFilings := flag.Int("max", 0, "cap on fetched filings for a one-shot run (0 = no cap)")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level)

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("application failed to start", "error", err)
		os.Exit(1)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := application.Close(closeCtx); err != nil {
			logger.Warn("shutdown", "error", err)
		}
	}()

	var report usecase.RunReport
	switch {
	case *from != "":
		start, end, rangeErr := parseRange(*from, *to, cfg.Scheduler.Location())
		if rangeErr != nil {
			logger.Error("invalid date range", "error", rangeErr)
			os.Exit(2)
		}
		report, err = application.RunOnce(ctx, start, end, *maxFilings)
	case *now:
		report, err = application.RunToday(ctx)
	default:
		if err := application.Serve(ctx); err != nil {
			logger.Error("application stopped", "error", err)
			os.Exit(1)
		}
		return
	}

	if err != nil {
		logger.Error("run failed", "error", err)
		os.Exit(1)
	}
	fmt.Printf("run %s: fetched %d, promoted %d, stored %d, tokens %d/%d\n",
		report.RunID, report.Fetched, len(report.Promoted), report.Stored, report.TokensIn, report.TokensOut)
}

func parseRange(from, to string, loc *time.Location) (time.Time, time.Time, error) {
	start, err := time.ParseInLocation(time.DateOnly, from, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parse -from: %w", err)
	}
	end := time.Now().In(loc)
	if to != "" {
		if end, err = time.ParseInLocation(time.DateOnly, to, loc); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("parse -to: %w", err)
		}
	}
	if start.After(end) {
		return time.Time{}, time.Time{}, fmt.Errorf("-from %s is after -to %s", from, end.Format(time.DateOnly))
	}
	return start, end, nil
}
