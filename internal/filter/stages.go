package filter

import (
	"regexp"
	"strings"
)

// BothCategories is the synthetic label for filings matching two or more categories.
const BothCategories = "Both"

// Match is the stage-2 verdict for one document.
type Match struct {
	Matched     bool
	Categories  []string
	Keywords    []string
	Category    string
	Subcategory string
}

// AdmitItemCodes is the stage-1 gate: true iff any code is a target code.
func (t *Taxonomy) AdmitItemCodes(itemCodes []string) bool {
	for _, code := range itemCodes {
		if _, ok := t.targetCodes[code]; ok {
			return true
		}
	}
	return false
}

// ScanText is the stage-2 keyword pass over a document's plain text.
func (t *Taxonomy) ScanText(text string) Match {
	if text == "" {
		return Match{}
	}

	lower := strings.ToLower(text)
	cleaned := lower
	for _, phrase := range t.boilerplate {
		cleaned = strings.ReplaceAll(cleaned, phrase, "")
	}

	var m Match
	for _, cat := range t.categories {
		hit := false
		for _, kw := range cat.Keywords {
			if !strings.Contains(cleaned, kw) {
				continue
			}
			if !hit {
				m.Categories = append(m.Categories, cat.Name)
				hit = true
			}
			m.Keywords = append(m.Keywords, kw)
		}
	}

	switch len(m.Categories) {
	case 0:
		return Match{}
	case 1:
		m.Category = m.Categories[0]
	default:
		m.Category = BothCategories
	}
	m.Matched = true
	m.Subcategory = t.subcategory(lower, m.Keywords)
	return m
}

func (t *Taxonomy) subcategory(lower string, matched []string) string {
	seen := make(map[string]struct{}, len(matched))
	for _, kw := range matched {
		seen[kw] = struct{}{}
	}

	best, bestScore := "", 0
	for _, sub := range t.subcategories {
		score := 0
		for _, kw := range sub.Keywords {
			if _, ok := seen[kw]; ok || strings.Contains(lower, kw) {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = sub.Name, score
		}
	}

	if best != "" && best == t.departureLabel {
		if role := t.DepartureRole(lower); role != "" {
			return role + " Departure"
		}
	}
	return best
}

var sentenceBreaks = regexp.MustCompile(`[.!?\n]`)

// DepartureRole finds the first sentence naming both a departure and a role and
// returns that role's label, checking roles in declaration order.
func (t *Taxonomy) DepartureRole(text string) string {
	lower := strings.ToLower(text)
	for _, sentence := range sentenceBreaks.Split(lower, -1) {
		if !containsAny(sentence, t.departureTerms) {
			continue
		}
		for _, role := range t.roles {
			for _, term := range role.Keywords {
				if containsWord(sentence, term) {
					return role.Name
				}
			}
		}
	}
	return ""
}

func containsAny(s string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}

// containsWord is a substring match anchored on non-alphanumeric boundaries,
// so "cto" does not fire inside "director".
func containsWord(s, term string) bool {
	for from := 0; from <= len(s)-len(term); {
		i := strings.Index(s[from:], term)
		if i < 0 {
			return false
		}
		start := from + i
		end := start + len(term)
		if (start == 0 || !isWordByte(s[start-1])) && (end == len(s) || !isWordByte(s[end])) {
			return true
		}
		from = start + 1
	}
	return false
}

func isWordByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= '0' && b <= '9' || b >= 'A' && b <= 'Z'
}
