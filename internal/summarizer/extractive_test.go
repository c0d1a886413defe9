package summarizer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const filingText = "UNITED STATES SECURITIES AND EXCHANGE COMMISSION Washington, D.C. " +
	"This Current Report on Form 8-K is filed pursuant to Item 5.02 of the form. " +
	"The Company reported revenue growth in its third quarter operations. " +
	"On January 5, Mr. Smith notified the Board of his resignation as Chief Financial Officer. " +
	"The Company thanks its employees for their continued hard work. " +
	"Ms. Jones will serve as interim chief financial officer until a successor is named. " +
	"The Company will hold its annual meeting in May at its headquarters. " +
	"A copy of the press release is filed herewith as Exhibit 99.1 to this report."

func TestSummarizeRanksKeywordSentences(t *testing.T) {
	t.Parallel()
	s := New(2, 150)

	got := s.Summarize(filingText, []string{"resignation", "successor", "interim chief"})
	assert.Equal(t,
		"On January 5, Mr. Smith notified the Board of his resignation as Chief Financial Officer. "+
			"Ms. Jones will serve as interim chief financial officer until a successor is named.",
		got)
}

func TestSummarizeIsDeterministic(t *testing.T) {
	t.Parallel()
	s := New(2, 150)
	kws := []string{"resignation", "successor"}

	first := s.Summarize(filingText, kws)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, s.Summarize(filingText, kws))
	}
}

func TestSummarizeWithoutKeywordsTakesLeadingSentences(t *testing.T) {
	t.Parallel()
	s := New(2, 150)

	got := s.Summarize(filingText, nil)
	assert.True(t, strings.HasPrefix(got, "UNITED STATES SECURITIES AND EXCHANGE COMMISSION Washington, D.C."), got)
	assert.Equal(t, got, s.Summarize(filingText, []string{"", "  "}), "blank keywords count as none")
}

func TestSummarizeLeadSentenceWinsOnPosition(t *testing.T) {
	t.Parallel()
	s := New(1, 150)

	text := "Something happened at the company today. Another thing happened at the company later. " +
		"A third filler sentence appears here for balance. A fourth filler sentence is added. " +
		"A fifth filler sentence closes the document."
	got := s.Summarize(text, []string{"golden parachute"})
	assert.Equal(t, "Something happened at the company today.", got)
}

func TestSummarizeShortText(t *testing.T) {
	t.Parallel()
	s := New(2, 150)

	assert.Equal(t, "", s.Summarize("", []string{"x"}))
	assert.Equal(t, "Too short.", s.Summarize("Too short.", nil))

	long := strings.Repeat("x", 600)
	assert.Equal(t, strings.Repeat("x", 300)+"...", s.Summarize(long, nil))
}

func TestSummarizeSkipsFragmentsAndTables(t *testing.T) {
	t.Parallel()

	sentences := candidates("Tiny. " + strings.Repeat("Data ", 120) + ". A normal sentence of reasonable length here.")
	assert.Equal(t, []string{"A normal sentence of reasonable length here."}, sentences)
}

func TestCandidatesRequireCapitalAfterBreak(t *testing.T) {
	t.Parallel()

	got := candidates("Shares were priced at $4.50 per share today. the lowercase start stays joined. Next sentence begins here.")
	assert.Equal(t, []string{
		"Shares were priced at $4.50 per share today. the lowercase start stays joined.",
		"Next sentence begins here.",
	}, got)
}

func TestCandidatesKeepHonorifics(t *testing.T) {
	t.Parallel()

	got := candidates("The Board accepted the resignation of Dr. Alvarez today. Mrs. Chen was named as successor.")
	assert.Equal(t, []string{
		"The Board accepted the resignation of Dr. Alvarez today.",
		"Mrs. Chen was named as successor.",
	}, got)
}

func TestTrim(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "short", Trim("short", 150))

	clause := "The Board approved the amended employment agreement for the Chief Executive Officer, " +
		"which increases base salary and extends the term by two additional years of service."
	got := Trim(clause, 100)
	assert.Equal(t, "The Board approved the amended employment agreement for the Chief Executive Officer.", got)

	words := strings.Repeat("word ", 40)
	got = Trim(words, 22)
	assert.Equal(t, "word word word word...", got)
}

func TestScoreSentenceTerms(t *testing.T) {
	t.Parallel()
	kws := []string{"resignation"}

	tests := []struct {
		name     string
		sentence string
		index    int
		want     int
	}{
		{name: "plain", sentence: "The company opened a new warehouse in Ohio.", index: 5, want: 0},
		{name: "lead position", sentence: "The company opened a new warehouse in Ohio.", index: 0, want: 1},
		{name: "keyword", sentence: "The resignation took effect on Friday afternoon.", index: 5, want: 2},
		{name: "role once", sentence: "The board asked the director to chair the board review.", index: 5, want: 1},
		{name: "name prefix", sentence: "Ms. Rivera joined the company in a new capacity.", index: 5, want: 2},
		{name: "name and role", sentence: "Mr. Patel was appointed chief financial officer.", index: 5, want: 3},
		{name: "lowercase title is no name", sentence: "We could not miss. Nothing else happened today.", index: 5, want: 0},
		{name: "boilerplate per signal", sentence: "The resignation is filed herewith pursuant to Item 5.02 of Form 8-K.", index: 5, want: -2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, scoreSentence(tt.sentence, tt.index, 10, kws))
		})
	}
}

func TestSummarizeSingleTermDecidesWinner(t *testing.T) {
	t.Parallel()

	const (
		lead        = "This current report is furnished for the quarter."
		plain       = "The company opened a new warehouse in Ohio."
		plain2      = "Sales in the western region grew modestly."
		plain3      = "The warehouse lease runs through next spring."
		roleOnly    = "The board met to review the warehouse plans."
		named       = "Ms. Rivera joined the company in a new capacity."
		boilerplate = "The resignation is filed herewith pursuant to Item 5.02 of Form 8-K."
	)

	tests := []struct {
		name     string
		text     []string
		keywords []string
		want     string
	}{
		{
			name:     "role beats plain",
			text:     []string{lead, plain, roleOnly, plain2, plain3},
			keywords: []string{"golden parachute"},
			want:     roleOnly,
		},
		{
			name:     "name prefix beats role",
			text:     []string{lead, roleOnly, named, plain2, plain3},
			keywords: []string{"golden parachute"},
			want:     named,
		},
		{
			name:     "boilerplate keyword sentence is excluded",
			text:     []string{lead, boilerplate, roleOnly, plain2, plain3},
			keywords: []string{"resignation"},
			want:     roleOnly,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := New(1, 150).Summarize(strings.Join(tt.text, " "), tt.keywords)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCandidatesSplitAfterLowercaseMiss(t *testing.T) {
	t.Parallel()

	got := candidates("The company said it would not miss. The Board accepted the resignation of the CFO today.")
	assert.Equal(t, []string{
		"The company said it would not miss.",
		"The Board accepted the resignation of the CFO today.",
	}, got)
}
