package edgar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"FilingScanner/internal/config"
	"FilingScanner/internal/domain"
	"FilingScanner/internal/ports"
)

const dateLayout = "2006-01-02"

// ErrInvalidRange is returned when the start date falls after the end date.
var ErrInvalidRange = errors.New("edgar: start date after end date")

var (
	tickerExpr      = regexp.MustCompile(`\(([A-Z]{1,5})\)`)
	parenthesesExpr = regexp.MustCompile(`\s*\([^)]*\)\s*`)
)

// Searcher pages through EDGAR full-text search and deduplicates by accession number.
type Searcher struct {
	transport   *Transport
	searchURL   string
	archiveBase string
	pageSize    int
	forms       []string
	logger      *slog.Logger
}

var _ ports.FilingSource = (*Searcher)(nil)

// NewSearcher wires the search endpoint; pageSize defaults to 100.
func NewSearcher(transport *Transport, cfg config.RegistryConfig, logger *slog.Logger) *Searcher {
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = 100
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Searcher{
		transport:   transport,
		searchURL:   cfg.SearchURL,
		archiveBase: strings.TrimSuffix(cfg.ArchiveBaseURL, "/"),
		pageSize:    pageSize,
		forms:       acceptedForms(cfg),
		logger:      logger,
	}
}

type searchResponse struct {
	Hits struct {
		Total struct {
			Value int `json:"value"`
		} `json:"total"`
		Hits []json.RawMessage `json:"hits"`
	} `json:"hits"`
}

type searchHit struct {
	ID     string `json:"_id"`
	Source struct {
		Adsh         string   `json:"adsh"`
		CIKs         []string `json:"ciks"`
		DisplayNames []string `json:"display_names"`
		FileDate     string   `json:"file_date"`
		Items        []string `json:"items"`
		RootForms    []string `json:"root_forms"`
	} `json:"_source"`
}

// Fetch returns unique filings for [start, end] in registry order.
// A failing page ends the walk; what was collected so far is returned.
func (s *Searcher) Fetch(ctx context.Context, start, end time.Time, max int) ([]domain.FilingMetadata, error) {
	if start.After(end) {
		return nil, ErrInvalidRange
	}

	seen := map[string]struct{}{}
	var filings []domain.FilingMetadata

	for page := 0; ; page++ {
		if err := ctx.Err(); err != nil {
			return filings, err
		}

		total, hits := s.searchPage(ctx, start, end, page)
		if page == 0 {
			s.logger.Info("search results", "total", total, "from", start.Format(dateLayout), "to", end.Format(dateLayout))
		}
		if len(hits) == 0 {
			break
		}

		for _, raw := range hits {
			meta, ok := s.parseHit(raw)
			if !ok {
				continue
			}
			if _, dup := seen[meta.AccessionID]; dup {
				continue
			}
			seen[meta.AccessionID] = struct{}{}
			filings = append(filings, meta)
		}
		s.logger.Debug("processed page", "page", page+1, "unique", len(filings))

		if (page+1)*s.pageSize >= total {
			break
		}
		if max > 0 && len(filings) >= max {
			break
		}
	}

	if max > 0 && len(filings) > max {
		filings = filings[:max]
	}
	return filings, nil
}

func (s *Searcher) searchPage(ctx context.Context, start, end time.Time, page int) (int, []json.RawMessage) {
	pageURL, err := buildSearchURL(s.searchURL, s.forms, start, end, page*s.pageSize)
	if err != nil {
		s.logger.Error("build search url", "error", err)
		return 0, nil
	}

	body, err := s.transport.get(ctx, pageURL, "application/json")
	if err != nil {
		s.logger.Warn("search page failed", "page", page, "error", err)
		return 0, nil
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		s.logger.Warn("search page undecodable", "page", page, "error", err)
		return 0, nil
	}
	return resp.Hits.Total.Value, resp.Hits.Hits
}

func (s *Searcher) parseHit(raw json.RawMessage) (domain.FilingMetadata, bool) {
	var hit searchHit
	if err := json.Unmarshal(raw, &hit); err != nil {
		s.logger.Debug("skip malformed hit", "error", err)
		return domain.FilingMetadata{}, false
	}
	src := hit.Source

	accession := strings.TrimSpace(src.Adsh)
	if accession == "" {
		if prefix, _, found := strings.Cut(hit.ID, ":"); found {
			accession = strings.TrimSpace(prefix)
		}
	}
	if accession == "" {
		return domain.FilingMetadata{}, false
	}

	if len(src.RootForms) > 0 && !s.acceptedForm(src.RootForms[0]) {
		return domain.FilingMetadata{}, false
	}

	var cik string
	if len(src.CIKs) > 0 {
		cik = strings.TrimSpace(src.CIKs[0])
	}

	var company, ticker string
	if len(src.DisplayNames) > 0 {
		company, ticker = splitDisplayName(src.DisplayNames[0])
	}

	var filed time.Time
	if parsed, err := time.Parse(dateLayout, src.FileDate); err == nil {
		filed = parsed
	}

	return domain.FilingMetadata{
		AccessionID: accession,
		CompanyName: company,
		Ticker:      ticker,
		EntityID:    cik,
		FiledDate:   filed,
		ItemCodes:   append([]string(nil), src.Items...),
		DocumentURL: IndexURL(s.archiveBase, cik, accession),
	}, true
}

func (s *Searcher) acceptedForm(form string) bool {
	return slices.Contains(s.forms, form)
}

// splitDisplayName parses "Acme Corp  (ACME)  (CIK 0001234567)".
func splitDisplayName(display string) (company, ticker string) {
	if m := tickerExpr.FindStringSubmatch(display); m != nil {
		ticker = m[1]
	}
	company = strings.TrimSpace(parenthesesExpr.ReplaceAllString(display, " "))
	return company, ticker
}

// IndexURL builds the filing index page URL: the CIK loses its zero padding
// and the accession number its dashes in the directory path.
func IndexURL(archiveBase, cik, accession string) string {
	stripped := strings.TrimLeft(cik, "0")
	if stripped == "" {
		stripped = "0"
	}
	folder := strings.ReplaceAll(accession, "-", "")
	return fmt.Sprintf("%s/Archives/edgar/data/%s/%s/%s-index.htm", archiveBase, stripped, folder, accession)
}

func buildSearchURL(base string, forms []string, start, end time.Time, from int) (string, error) {
	parsed, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid search url %s: %w", base, err)
	}

	query := parsed.Query()
	query.Set("forms", strings.Join(forms, ","))
	query.Set("dateRange", "custom")
	query.Set("startdt", start.Format(dateLayout))
	query.Set("enddt", end.Format(dateLayout))
	query.Set("from", strconv.Itoa(from))
	parsed.RawQuery = query.Encode()
	return parsed.String(), nil
}
