package domain

import "time"

// FilingMetadata is one disclosure document as reported by the filings registry.
type FilingMetadata struct {
	AccessionID string
	CompanyName string
	Ticker      string
	EntityID    string
	FiledDate   time.Time
	ItemCodes   []string
	DocumentURL string
}

// Origin names the stage that last set a derived field.
type Origin string

const (
	OriginNone       Origin = ""
	OriginKeywords   Origin = "keywords"
	OriginRescue     Origin = "rescue"
	OriginClassifier Origin = "classifier"
	OriginExtractive Origin = "extractive"
)

// EnrichedFiling carries a filing through the triage funnel.
type EnrichedFiling struct {
	FilingMetadata

	RawText         string
	MatchedKeywords []string
	Category        string
	Subcategory     string
	NearMiss        bool
	Summary         string

	// Relevant is nil until the classifier has returned a verdict.
	Relevant *bool

	CategoryOrigin Origin
	SummaryOrigin  Origin
	Status         ProcessingStatus
}

// IsRelevant treats an unreviewed filing as relevant.
func (f EnrichedFiling) IsRelevant() bool {
	return f.Relevant == nil || *f.Relevant
}

// Verdict is the structured answer of the stage-3 classifier.
type Verdict struct {
	Relevant    bool   `json:"relevant"`
	Category    string `json:"category"`
	Subcategory string `json:"subcategory"`
	Summary     string `json:"summary"`

	TokensIn  int64 `json:"-"`
	TokensOut int64 `json:"-"`
}

// ProcessingStatus enumerates funnel milestones.
type ProcessingStatus string

const (
	StatusScreened   ProcessingStatus = "screened"
	StatusMatched    ProcessingStatus = "matched"
	StatusNearMiss   ProcessingStatus = "near_miss"
	StatusAutoPassed ProcessingStatus = "auto_passed"
	StatusClassified ProcessingStatus = "classified"
	StatusFallback   ProcessingStatus = "fallback"
	StatusPromoted   ProcessingStatus = "promoted"
)
