package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FilingScanner/internal/config"
)

func TestAdmitItemCodes(t *testing.T) {
	t.Parallel()
	tax := MustDefaultTaxonomy()

	cases := []struct {
		name  string
		codes []string
		want  bool
	}{
		{name: "departure item", codes: []string{"5.02"}, want: true},
		{name: "mixed", codes: []string{"7.01", "9.01", "1.01"}, want: true},
		{name: "regulation fd only", codes: []string{"7.01"}, want: false},
		{name: "exhibits only", codes: []string{"9.01"}, want: false},
		{name: "no codes", codes: nil, want: false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tax.AdmitItemCodes(tc.codes), tc.name)
	}
}

func TestScanTextNoMatch(t *testing.T) {
	t.Parallel()
	tax := MustDefaultTaxonomy()

	m := tax.ScanText("The company announced quarterly results and a new product line.")
	assert.False(t, m.Matched)
	assert.Empty(t, m.Category)
	assert.Empty(t, m.Subcategory)
	assert.Empty(t, m.Keywords)

	assert.False(t, tax.ScanText("").Matched)
}

func TestScanTextStripsBoilerplate(t *testing.T) {
	t.Parallel()
	tax := MustDefaultTaxonomy()

	text := "Indicate by check mark whether the registrant is an emerging growth company. " +
		"The bank was appointed as agent under the credit facility."
	m := tax.ScanText(text)
	assert.False(t, m.Matched, "keywords only inside boilerplate must not match: %v", m.Keywords)
}

func TestScanTextDepartureRole(t *testing.T) {
	t.Parallel()
	tax := MustDefaultTaxonomy()

	m := tax.ScanText("On March 3, John Smith resigned as Chief Financial Officer of the Company.")
	require.True(t, m.Matched)
	assert.Equal(t, "Management Change", m.Category)
	assert.Equal(t, "CFO Departure", m.Subcategory)
	assert.Contains(t, m.Keywords, "resigned")
}

func TestScanTextBothCategories(t *testing.T) {
	t.Parallel()
	tax := MustDefaultTaxonomy()

	text := "Jane Doe was appointed as Chief Executive Officer. " +
		"Her employment agreement provides a base salary of $700,000 and an inducement award."
	m := tax.ScanText(text)
	require.True(t, m.Matched)
	assert.Equal(t, BothCategories, m.Category)
	assert.Equal(t, []string{"Management Change", "Compensation"}, m.Categories)
	assert.Equal(t, "New Hire", m.Subcategory)
}

func TestScanTextKeywordOrderAndDuplicates(t *testing.T) {
	t.Parallel()
	tax, err := NewTaxonomy(config.TaxonomyConfig{
		TargetItemCodes: []string{"5.02"},
		Categories: []config.KeywordGroup{
			{Name: "A", Keywords: []string{"bonus", "salary"}},
			{Name: "B", Keywords: []string{"salary"}},
		},
	})
	require.NoError(t, err)

	m := tax.ScanText("Salary and bonus were increased.")
	require.True(t, m.Matched)
	assert.Equal(t, []string{"bonus", "salary", "salary"}, m.Keywords)
	assert.Equal(t, BothCategories, m.Category)
	assert.Empty(t, m.Subcategory)
}

func TestSubcategoryTieGoesToFirstDeclared(t *testing.T) {
	t.Parallel()
	tax, err := NewTaxonomy(config.TaxonomyConfig{
		TargetItemCodes: []string{"5.02"},
		Categories:      []config.KeywordGroup{{Name: "Comp", Keywords: []string{"severance", "clawback"}}},
		Subcategories: []config.KeywordGroup{
			{Name: "First", Keywords: []string{"clawback"}},
			{Name: "Second", Keywords: []string{"severance"}},
		},
	})
	require.NoError(t, err)

	m := tax.ScanText("A clawback policy and severance terms were adopted.")
	assert.Equal(t, "First", m.Subcategory)
}

func TestGenericDepartureWithoutRole(t *testing.T) {
	t.Parallel()
	tax := MustDefaultTaxonomy()

	m := tax.ScanText("Mr. Lee informed the Company of his resignation, effective immediately.")
	require.True(t, m.Matched)
	assert.Equal(t, "Executive Departure", m.Subcategory)
}

func TestDepartureRoleUsesWordBoundaries(t *testing.T) {
	t.Parallel()
	tax := MustDefaultTaxonomy()

	assert.Equal(t, "Director", tax.DepartureRole("Ms. Park will retire from her position as a director."))
	assert.Equal(t, "CEO", tax.DepartureRole("The CEO announced he will resign.\nThe director stays."))
	assert.Equal(t, "", tax.DepartureRole("The chief financial officer presented results. Mr. Wu will retire."))
}

func TestRescueCode(t *testing.T) {
	t.Parallel()
	tax := MustDefaultTaxonomy()

	code, ok := tax.RescueCode([]string{"9.01", "5.02"})
	assert.True(t, ok)
	assert.Equal(t, "5.02", code)

	_, ok = tax.RescueCode([]string{"8.01"})
	assert.False(t, ok, "catch-all code is not rescue eligible")
	assert.Equal(t, "Management Change", tax.RescueCategory())
}

func TestNewTaxonomyValidation(t *testing.T) {
	t.Parallel()

	_, err := NewTaxonomy(config.TaxonomyConfig{})
	assert.Error(t, err)

	_, err = NewTaxonomy(config.TaxonomyConfig{
		TargetItemCodes: []string{"1.01"},
		RescueItemCodes: []string{"5.02"},
		RescueCategory:  "X",
		Categories:      []config.KeywordGroup{{Name: "A", Keywords: []string{"a"}}},
	})
	assert.Error(t, err, "rescue code outside targets")

	_, err = NewTaxonomy(config.TaxonomyConfig{
		TargetItemCodes: []string{"1.01"},
		Categories: []config.KeywordGroup{
			{Name: "A", Keywords: []string{"a"}},
			{Name: "A", Keywords: []string{"b"}},
		},
	})
	assert.Error(t, err, "duplicate category")
}
