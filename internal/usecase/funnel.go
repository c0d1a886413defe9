package usecase

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"FilingScanner/internal/domain"
)

// screen is stage 1: keep filings whose item codes intersect the target set.
func (p *Pipeline) screen(ctx context.Context, filings []domain.FilingMetadata, report *RunReport) []domain.EnrichedFiling {
	_, span := p.tracer.Start(ctx, "pipeline.stage1")
	defer span.End()

	var out []domain.EnrichedFiling
	for _, meta := range filings {
		if !p.taxonomy.AdmitItemCodes(meta.ItemCodes) {
			continue
		}
		out = append(out, domain.EnrichedFiling{FilingMetadata: meta, Status: domain.StatusScreened})
	}
	report.Stage1Passed = len(out)
	span.SetAttributes(attribute.Int("filings.in", len(filings)), attribute.Int("filings.out", len(out)))
	return out
}

// scan is stage 2: download text and run the keyword engine. Filings carrying
// a rescue code are kept even without a keyword hit: as near-misses when text
// exists, auto-passed when it does not.
func (p *Pipeline) scan(ctx context.Context, filings []domain.EnrichedFiling, report *RunReport, logger *slog.Logger) (matched, nearMisses []domain.EnrichedFiling) {
	ctx, span := p.tracer.Start(ctx, "pipeline.stage2")
	defer span.End()

	for i, f := range filings {
		if ctx.Err() != nil {
			logger.Warn("stage 2 interrupted", "remaining", len(filings)-i)
			break
		}
		log := logger.With("accession", f.AccessionID, "company", f.CompanyName)
		code, rescuable := p.taxonomy.RescueCode(f.ItemCodes)

		text := p.texts.FetchText(ctx, f.FilingMetadata)
		if text == "" {
			if !rescuable {
				log.Debug("no text, dropped")
				continue
			}
			p.rescue(&f, code)
			f.Status = domain.StatusAutoPassed
			report.AutoPassed++
			matched = append(matched, f)
			log.Info("auto-passed without text", "item", code)
			continue
		}
		f.RawText = text

		m := p.taxonomy.ScanText(text)
		switch {
		case m.Matched:
			f.Category = m.Category
			f.Subcategory = m.Subcategory
			f.MatchedKeywords = m.Keywords
			f.CategoryOrigin = domain.OriginKeywords
			f.Status = domain.StatusMatched
			report.KeywordMatched++
			matched = append(matched, f)
			log.Debug("keyword match", "category", f.Category, "subcategory", f.Subcategory)
		case rescuable:
			p.rescue(&f, code)
			f.NearMiss = true
			f.Status = domain.StatusNearMiss
			report.NearMisses++
			nearMisses = append(nearMisses, f)
			log.Debug("near-miss", "item", code)
		default:
			log.Debug("no keyword match, dropped")
		}
	}

	span.SetAttributes(attribute.Int("filings.matched", len(matched)), attribute.Int("filings.near_miss", len(nearMisses)))
	return matched, nearMisses
}

func (p *Pipeline) rescue(f *domain.EnrichedFiling, code string) {
	f.Category = p.taxonomy.RescueCategory()
	f.Subcategory = ""
	f.MatchedKeywords = []string{"item " + code}
	f.CategoryOrigin = domain.OriginRescue
}

// review is stage 3. A failed call keeps the filing with an extractive
// summary; only an explicit relevant=false verdict drops it.
func (p *Pipeline) review(ctx context.Context, filings []domain.EnrichedFiling, report *RunReport, logger *slog.Logger) []domain.EnrichedFiling {
	ctx, span := p.tracer.Start(ctx, "pipeline.stage3", trace.WithAttributes(attribute.Int("filings.in", len(filings))))
	defer span.End()

	var kept []domain.EnrichedFiling
	for _, f := range filings {
		log := logger.With("accession", f.AccessionID, "company", f.CompanyName)
		if f.RawText == "" {
			kept = append(kept, f)
			continue
		}

		verdict, err := p.classify(ctx, f.RawText)
		if err != nil || verdict == nil {
			f.Summary = p.summarizer.Summarize(f.RawText, f.MatchedKeywords)
			f.SummaryOrigin = domain.OriginExtractive
			f.Status = domain.StatusFallback
			report.Fallbacks++
			kept = append(kept, f)
			log.Warn("classifier unavailable, using extractive summary", "error", err)
			continue
		}

		report.TokensIn += verdict.TokensIn
		report.TokensOut += verdict.TokensOut
		relevant := verdict.Relevant
		f.Relevant = &relevant
		if !f.IsRelevant() {
			report.Vetoed++
			log.Info("classifier veto", "near_miss", f.NearMiss)
			continue
		}

		if verdict.Category != "" {
			f.Category = verdict.Category
			f.CategoryOrigin = domain.OriginClassifier
		}
		if verdict.Subcategory != "" {
			f.Subcategory = verdict.Subcategory
			f.CategoryOrigin = domain.OriginClassifier
		}
		f.Summary = verdict.Summary
		f.SummaryOrigin = domain.OriginNone
		if f.Summary != "" {
			f.SummaryOrigin = domain.OriginClassifier
		}
		f.Status = domain.StatusClassified
		report.Classified++
		kept = append(kept, f)
		log.Info("classifier relevant", "category", f.Category, "subcategory", f.Subcategory,
			"tokens", verdict.TokensIn+verdict.TokensOut)
	}

	span.SetAttributes(attribute.Int("filings.out", len(kept)))
	return kept
}

func (p *Pipeline) classify(ctx context.Context, text string) (*domain.Verdict, error) {
	if p.classifier == nil {
		return nil, errNoClassifier
	}
	return p.classifier.Classify(ctx, text)
}
