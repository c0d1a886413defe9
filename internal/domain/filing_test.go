package domain

import "testing"

func TestEnrichedFilingIsRelevant(t *testing.T) {
	t.Parallel()

	yes, no := true, false
	if !(EnrichedFiling{}).IsRelevant() {
		t.Fatalf("unreviewed filing should count as relevant")
	}
	if !(EnrichedFiling{Relevant: &yes}).IsRelevant() {
		t.Fatalf("relevant verdict should count as relevant")
	}
	if (EnrichedFiling{Relevant: &no}).IsRelevant() {
		t.Fatalf("veto should count as not relevant")
	}
}
