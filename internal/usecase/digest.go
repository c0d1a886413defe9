package usecase

import (
	"fmt"
	"strings"
	"time"

	"FilingScanner/internal/domain"
)

var markdownEscaper = strings.NewReplacer("_", `\_`, "*", `\*`, "`", "\\`", "[", `\[`)

// BuildDigest renders newly stored filings as a Telegram Markdown message.
func BuildDigest(report RunReport, filings []domain.EnrichedFiling) string {
	if len(filings) == 0 {
		return ""
	}

	var b strings.Builder
	noun := "filings"
	if len(filings) == 1 {
		noun = "filing"
	}
	fmt.Fprintf(&b, "*%d new %s* (%s to %s)\n", len(filings), noun,
		report.Start.Format(time.DateOnly), report.End.Format(time.DateOnly))

	for _, f := range filings {
		b.WriteString("\n")
		name := f.CompanyName
		if name == "" {
			name = f.AccessionID
		}
		b.WriteString("- ")
		b.WriteString(markdownEscaper.Replace(name))
		if f.Ticker != "" {
			fmt.Fprintf(&b, " (%s)", markdownEscaper.Replace(f.Ticker))
		}

		label := f.Category
		if f.Subcategory != "" {
			label += " / " + f.Subcategory
		}
		if label != "" {
			b.WriteString(": ")
			b.WriteString(markdownEscaper.Replace(label))
		}
		b.WriteString("\n")

		if f.Summary != "" {
			b.WriteString(markdownEscaper.Replace(f.Summary))
			b.WriteString("\n")
		}
		if f.DocumentURL != "" {
			b.WriteString(f.DocumentURL)
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
