package edgar

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"FilingScanner/internal/domain"
)

const indexPage = `<html><body>
<table class="tableFile" summary="Document Format Files">
  <tr><th>Seq</th><th>Description</th><th>Document</th><th>Type</th><th>Size</th></tr>
  <tr><td>1</td><td>8-K</td><td><a href="/ix?doc=/Archives/edgar/data/42/000123/acme-8k.htm">acme-8k.htm</a></td><td>8-K</td><td>30000</td></tr>
  <tr><td>2</td><td>PRESS RELEASE</td><td><a href="/Archives/edgar/data/42/000123/ex99.htm">ex99.htm</a></td><td>EX-99.1</td><td>9000</td></tr>
</table>
</body></html>`

const primaryDoc = `<html><head><style>p { color: red; }</style><script>var x = 1;</script></head>
<body><p>Item 5.02</p><p>Mr. Smith&nbsp;resigned
  as Chief Financial Officer.</p><div><span>Effective</span> immediately.</div></body></html>`

func newDocumentServer(t *testing.T, index string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/Archives/edgar/data/42/000123/0001-23-index.htm":
			_, _ = w.Write([]byte(index))
		case "/Archives/edgar/data/42/000123/acme-8k.htm":
			_, _ = w.Write([]byte(primaryDoc))
		default:
			http.NotFound(w, r)
		}
	}))
}

func newTestFetcher(t *testing.T, server *httptest.Server) *DocumentFetcher {
	t.Helper()
	cfg := testRegistry(server.URL)
	fetcher, err := NewDocumentFetcher(NewTransport(cfg, server.Client()), cfg, nil)
	if err != nil {
		t.Fatalf("NewDocumentFetcher: %v", err)
	}
	return fetcher
}

func testFiling(base string) domain.FilingMetadata {
	return domain.FilingMetadata{
		AccessionID: "0001-23",
		EntityID:    "42",
		DocumentURL: IndexURL(base, "42", "0001-23"),
	}
}

func TestFetchTextFollowsInlineViewerLink(t *testing.T) {
	t.Parallel()

	server := newDocumentServer(t, indexPage)
	defer server.Close()

	got := newTestFetcher(t, server).FetchText(context.Background(), testFiling(server.URL))
	want := "Item 5.02 Mr. Smith resigned as Chief Financial Officer. Effective immediately."
	if got != want {
		t.Fatalf("unexpected text:\n got %q\nwant %q", got, want)
	}
}

func TestFetchTextFallsBackToAccessionLink(t *testing.T) {
	t.Parallel()

	index := `<html><body><ul>
	  <li><a href="/cgi-bin/browse-edgar?CIK=42">Company</a></li>
	  <li><a href="/Archives/edgar/data/42/000123/acme-8k.htm">Primary</a></li>
	</ul></body></html>`
	server := newDocumentServer(t, index)
	defer server.Close()

	got := newTestFetcher(t, server).FetchText(context.Background(), testFiling(server.URL))
	if !strings.Contains(got, "resigned as Chief Financial Officer") {
		t.Fatalf("fallback link not followed: %q", got)
	}
}

func TestFetchTextFailuresYieldEmpty(t *testing.T) {
	t.Parallel()

	server := newDocumentServer(t, `<html><body><p>No documents.</p></body></html>`)
	defer server.Close()
	fetcher := newTestFetcher(t, server)

	if got := fetcher.FetchText(context.Background(), testFiling(server.URL)); got != "" {
		t.Fatalf("index without links should yield empty text, got %q", got)
	}

	missing := testFiling(server.URL)
	missing.DocumentURL = server.URL + "/Archives/edgar/data/1/2/3-index.htm"
	if got := fetcher.FetchText(context.Background(), missing); got != "" {
		t.Fatalf("404 index should yield empty text, got %q", got)
	}

	if got := fetcher.FetchText(context.Background(), domain.FilingMetadata{AccessionID: "x"}); got != "" {
		t.Fatalf("filing without url should yield empty text, got %q", got)
	}
}

func TestResolveStripsViewerPrefix(t *testing.T) {
	t.Parallel()

	cfg := testRegistry("https://www.sec.gov")
	fetcher, err := NewDocumentFetcher(NewTransport(cfg, nil), cfg, nil)
	if err != nil {
		t.Fatalf("NewDocumentFetcher: %v", err)
	}

	got, err := fetcher.resolve("/ix?doc=/Archives/edgar/data/1/2/doc.htm")
	if err != nil {
		t.Fatalf("resolve error: %v", err)
	}
	if got != "https://www.sec.gov/Archives/edgar/data/1/2/doc.htm" {
		t.Fatalf("unexpected url: %s", got)
	}
}

func TestFetchTextUsesConfiguredForms(t *testing.T) {
	t.Parallel()

	index := `<html><body><table class="tableFile">
	  <tr><td>1</td><td>8-K</td><td><a href="/Archives/edgar/data/42/000123/missing.htm">missing.htm</a></td><td>8-K</td></tr>
	  <tr><td>2</td><td>8-K12B</td><td><a href="/Archives/edgar/data/42/000123/acme-8k.htm">acme-8k.htm</a></td><td>8-K12B</td></tr>
	</table></body></html>`
	server := newDocumentServer(t, index)
	defer server.Close()

	if got := newTestFetcher(t, server).FetchText(context.Background(), testFiling(server.URL)); got != "" {
		t.Fatalf("default forms should pick the 8-K row, got %q", got)
	}

	cfg := testRegistry(server.URL)
	cfg.Forms = []string{"8-K12B"}
	fetcher, err := NewDocumentFetcher(NewTransport(cfg, server.Client()), cfg, nil)
	if err != nil {
		t.Fatalf("NewDocumentFetcher: %v", err)
	}
	if got := fetcher.FetchText(context.Background(), testFiling(server.URL)); !strings.Contains(got, "Chief Financial Officer") {
		t.Fatalf("configured form row not followed: %q", got)
	}
}
