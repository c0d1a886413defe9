package edgar

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"slices"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"FilingScanner/internal/config"
	"FilingScanner/internal/domain"
	"FilingScanner/internal/ports"
)

// DocumentFetcher downloads the primary 8-K document behind a filing index
// page and flattens it to plain text.
type DocumentFetcher struct {
	transport   *Transport
	archiveBase *url.URL
	forms       []string
	logger      *slog.Logger
}

var _ ports.TextFetcher = (*DocumentFetcher)(nil)

func NewDocumentFetcher(transport *Transport, cfg config.RegistryConfig, logger *slog.Logger) (*DocumentFetcher, error) {
	base, err := url.Parse(cfg.ArchiveBaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid archive base url %q: %w", cfg.ArchiveBaseURL, err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &DocumentFetcher{transport: transport, archiveBase: base, forms: acceptedForms(cfg), logger: logger}, nil
}

// FetchText returns the document text, or "" when it cannot be located or downloaded.
func (d *DocumentFetcher) FetchText(ctx context.Context, filing domain.FilingMetadata) string {
	if filing.DocumentURL == "" {
		return ""
	}
	logger := d.logger.With("accession", filing.AccessionID)

	docURL, err := d.primaryDocumentURL(ctx, filing)
	if err != nil {
		logger.Warn("locate primary document", "error", err)
		return ""
	}

	body, err := d.transport.get(ctx, docURL, "text/html")
	if err != nil {
		logger.Warn("download primary document", "url", docURL, "error", err)
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		logger.Warn("parse primary document", "url", docURL, "error", err)
		return ""
	}
	return flattenText(doc)
}

func (d *DocumentFetcher) primaryDocumentURL(ctx context.Context, filing domain.FilingMetadata) (string, error) {
	body, err := d.transport.get(ctx, filing.DocumentURL, "text/html")
	if err != nil {
		return "", err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("parse index page: %w", err)
	}

	var href string
	doc.Find("table.tableFile tr").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		cells := row.Find("td")
		if cells.Length() < 4 {
			return true
		}
		docType := strings.TrimSpace(cells.Eq(3).Text())
		if !slices.Contains(d.forms, docType) {
			return true
		}
		if link, ok := cells.Eq(2).Find("a[href]").Attr("href"); ok {
			href = link
			return false
		}
		return true
	})

	if href == "" {
		folder := strings.ReplaceAll(filing.AccessionID, "-", "")
		doc.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
			link, _ := a.Attr("href")
			lower := strings.ToLower(link)
			if strings.Contains(link, folder) && (strings.HasSuffix(lower, ".htm") || strings.HasSuffix(lower, ".html")) {
				href = link
				return false
			}
			return true
		})
	}

	if href == "" {
		return "", fmt.Errorf("no primary document on %s", filing.DocumentURL)
	}
	return d.resolve(href)
}

// resolve strips the inline XBRL viewer prefix and makes the link absolute.
func (d *DocumentFetcher) resolve(href string) (string, error) {
	if _, doc, found := strings.Cut(href, "/ix?doc="); found {
		href = doc
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", fmt.Errorf("invalid document link %q: %w", href, err)
	}
	return d.archiveBase.ResolveReference(ref).String(), nil
}

// flattenText drops scripts and styles, joins the remaining text nodes with
// spaces and collapses whitespace.
func flattenText(doc *goquery.Document) string {
	doc.Find("script, style").Remove()

	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if s := strings.TrimSpace(n.Data); s != "" {
				parts = append(parts, s)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range doc.Nodes {
		walk(n)
	}

	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}
