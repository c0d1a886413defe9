// Package summarizer builds a short extractive summary of a filing without any
// external call. It is the fallback when the classifier is unavailable.
package summarizer

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	minSentenceLen = 20
	maxSentenceLen = 500
	rawPreviewLen  = 300
)

var roleTerms = []string{
	"ceo", "cfo", "coo", "president", "director", "officer",
	"chairman", "board", "chief executive", "chief financial",
}

var boilerplateSignals = []string{
	"pursuant to", "incorporated herein by reference", "item 5.02",
	"item 1.01", "item 8.01", "item 1.02", "form 8-k", "current report",
	"check the appropriate box", "registrant's telephone", "commission file",
	"date of report", "securities and exchange", "hereby incorporated",
	"filed herewith", "exhibit", "signature page", "forward-looking statements",
	"safe harbor", "private securities litigation",
}

var namePrefix = regexp.MustCompile(`\b(?:Mr|Ms|Mrs|Dr|Miss)\.\s+[A-Z]`)

// Extractive scores sentences by keyword, role, name and position signals.
type Extractive struct {
	MaxSentences int
	MaxLength    int
}

// New returns a summarizer; non-positive values take the defaults (2 sentences, 150 chars).
func New(maxSentences, maxLength int) *Extractive {
	if maxSentences <= 0 {
		maxSentences = 2
	}
	if maxLength <= 0 {
		maxLength = 150
	}
	return &Extractive{MaxSentences: maxSentences, MaxLength: maxLength}
}

type scored struct {
	score int
	index int
	text  string
}

// Summarize returns up to MaxSentences sentences in document order.
func (e *Extractive) Summarize(text string, keywords []string) string {
	if text == "" {
		return ""
	}

	sentences := candidates(text)
	if len(sentences) == 0 {
		if utf8.RuneCountInString(text) > rawPreviewLen {
			return string([]rune(text)[:rawPreviewLen]) + "..."
		}
		return text
	}

	kws := distinctKeywords(keywords)
	if len(kws) == 0 {
		return e.join(sentences[:min(e.MaxSentences, len(sentences))])
	}

	var picked []scored
	for i, s := range sentences {
		if score := scoreSentence(s, i, len(sentences), kws); score > 0 {
			picked = append(picked, scored{score: score, index: i, text: s})
		}
	}
	if len(picked) == 0 {
		return e.join(sentences[:min(e.MaxSentences, len(sentences))])
	}

	sort.SliceStable(picked, func(a, b int) bool {
		if picked[a].score != picked[b].score {
			return picked[a].score > picked[b].score
		}
		return picked[a].index < picked[b].index
	})
	picked = picked[:min(e.MaxSentences, len(picked))]
	sort.Slice(picked, func(a, b int) bool { return picked[a].index < picked[b].index })

	out := make([]string, len(picked))
	for i, p := range picked {
		out[i] = p.text
	}
	return e.join(out)
}

func scoreSentence(sentence string, index, total int, keywords []string) int {
	lower := strings.ToLower(sentence)
	score := 0

	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			score += 2
		}
	}
	if float64(index)/float64(total) < 0.2 {
		score++
	}
	for _, term := range roleTerms {
		if strings.Contains(lower, term) {
			score++
			break
		}
	}
	if namePrefix.MatchString(sentence) {
		score += 2
	}
	for _, bp := range boilerplateSignals {
		if strings.Contains(lower, bp) {
			score--
		}
	}
	return score
}

func (e *Extractive) join(sentences []string) string {
	trimmed := make([]string, len(sentences))
	for i, s := range sentences {
		trimmed[i] = Trim(s, e.MaxLength)
	}
	return strings.Join(trimmed, " ")
}

// Trim shortens a sentence to maxLen runes, cutting at the last clause break
// past the midpoint, else at the last space.
func Trim(sentence string, maxLen int) string {
	runes := []rune(sentence)
	if len(runes) <= maxLen {
		return sentence
	}
	truncated := string(runes[:maxLen])
	for _, sep := range []string{", ", "; ", " — ", " - "} {
		pos := strings.LastIndex(truncated, sep)
		if pos >= 0 && utf8.RuneCountInString(truncated[:pos]) > maxLen/2 {
			return truncated[:pos] + "."
		}
	}
	if pos := strings.LastIndex(truncated, " "); pos > 0 {
		return truncated[:pos] + "..."
	}
	return truncated + "..."
}

// candidates splits on ., ? or ! followed by whitespace and an uppercase
// letter, keeping sentences of plausible length.
func candidates(text string) []string {
	var out []string
	keep := func(s string) {
		s = strings.TrimSpace(s)
		if n := utf8.RuneCountInString(s); n > minSentenceLen && n < maxSentenceLen {
			out = append(out, s)
		}
	}

	start := 0
	for i := 0; i < len(text); i++ {
		if c := text[i]; c != '.' && c != '!' && c != '?' {
			continue
		}
		j := i + 1
		for j < len(text) {
			r, size := utf8.DecodeRuneInString(text[j:])
			if !unicode.IsSpace(r) {
				break
			}
			j += size
		}
		if j == i+1 || j >= len(text) {
			continue
		}
		if r, _ := utf8.DecodeRuneInString(text[j:]); !unicode.IsUpper(r) {
			continue
		}
		if c := text[i]; c == '.' && isHonorific(text[start:i]) {
			continue
		}
		keep(text[start : i+1])
		start = j
		i = j - 1
	}
	keep(text[start:])
	return out
}

// isHonorific reports whether s ends with a capitalised title such as "Mr"
// so that "Mr. Smith" stays in one sentence. Lowercase "miss" is a verb.
func isHonorific(s string) bool {
	k := len(s)
	for k > 0 && (s[k-1] >= 'a' && s[k-1] <= 'z' || s[k-1] >= 'A' && s[k-1] <= 'Z') {
		k--
	}
	switch s[k:] {
	case "Mr", "Ms", "Mrs", "Dr", "Miss":
		return true
	}
	return false
}

func distinctKeywords(keywords []string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, kw := range keywords {
		kw = strings.ToLower(kw)
		if strings.TrimSpace(kw) == "" {
			continue
		}
		if _, ok := seen[kw]; ok {
			continue
		}
		seen[kw] = struct{}{}
		out = append(out, kw)
	}
	return out
}
