// Package storage persists promoted filings. Rows are keyed by accession
// number and inserts never overwrite an existing row.
package storage

import (
	"strings"

	"FilingScanner/internal/domain"
)

const (
	filingsTable = "filings"
	dateLayout   = "2006-01-02"
)

var filingColumns = []string{
	"accession_no",
	"company",
	"ticker",
	"cik",
	"filed_date",
	"item_codes",
	"summary",
	"auto_category",
	"auto_subcategory",
	"filing_url",
	"raw_text",
	"matched_keywords",
	"near_miss",
	"category_origin",
	"summary_origin",
	"status",
}

type filingRow struct {
	AccessionNo     string `db:"accession_no"`
	Company         string `db:"company"`
	Ticker          string `db:"ticker"`
	CIK             string `db:"cik"`
	FiledDate       string `db:"filed_date"`
	ItemCodes       string `db:"item_codes"`
	Summary         string `db:"summary"`
	AutoCategory    string `db:"auto_category"`
	AutoSubcategory string `db:"auto_subcategory"`
	FilingURL       string `db:"filing_url"`
	RawText         string `db:"raw_text"`
	MatchedKeywords string `db:"matched_keywords"`
	NearMiss        bool   `db:"near_miss"`
	CategoryOrigin  string `db:"category_origin"`
	SummaryOrigin   string `db:"summary_origin"`
	Status          string `db:"status"`
}

func newFilingRow(f domain.EnrichedFiling) filingRow {
	var filed string
	if !f.FiledDate.IsZero() {
		filed = f.FiledDate.Format(dateLayout)
	}
	return filingRow{
		AccessionNo:     f.AccessionID,
		Company:         f.CompanyName,
		Ticker:          f.Ticker,
		CIK:             f.EntityID,
		FiledDate:       filed,
		ItemCodes:       strings.Join(f.ItemCodes, ", "),
		Summary:         f.Summary,
		AutoCategory:    f.Category,
		AutoSubcategory: f.Subcategory,
		FilingURL:       f.DocumentURL,
		RawText:         f.RawText,
		MatchedKeywords: strings.Join(f.MatchedKeywords, ", "),
		NearMiss:        f.NearMiss,
		CategoryOrigin:  string(f.CategoryOrigin),
		SummaryOrigin:   string(f.SummaryOrigin),
		Status:          string(f.Status),
	}
}

func (r filingRow) values() []any {
	return []any{
		r.AccessionNo, r.Company, r.Ticker, r.CIK, r.FiledDate, r.ItemCodes,
		r.Summary, r.AutoCategory, r.AutoSubcategory, r.FilingURL, r.RawText,
		r.MatchedKeywords, r.NearMiss, r.CategoryOrigin, r.SummaryOrigin, r.Status,
	}
}
