package config

// DefaultTaxonomy targets executive changes and compensation events in 8-K filings.
//
// Item codes: 5.02 departures/appointments/compensation arrangements, 1.01 and
// 1.02 entry into or termination of material agreements, 8.01 other events.
func DefaultTaxonomy() TaxonomyConfig {
	return TaxonomyConfig{
		TargetItemCodes: []string{"5.02", "1.01", "1.02", "8.01"},
		// 8.01 is a catch-all and too broad to rescue.
		RescueItemCodes: []string{"5.02"},
		RescueCategory:  "Management Change",
		Categories: []KeywordGroup{
			{
				Name: "Management Change",
				Keywords: []string{
					"resignation", "resigned", "departure", "departed",
					"termination of employment", "appointed as", "appointment of",
					"appointed to serve", "was appointed", "been appointed",
					"was elected", "has been elected", "new chief executive",
					"new ceo", "new cfo", "new coo", "new president", "named as",
					"successor", "interim chief", "interim ceo", "interim cfo",
					"stepping down", "will retire", "retirement",
					"separated from the company", "separation agreement",
					"no longer serving", "cease to serve", "will depart",
					"effective immediately",
				},
			},
			{
				Name: "Compensation",
				Keywords: []string{
					"inducement award", "inducement grant", "accelerated vesting",
					"acceleration of vesting", "compensation plan",
					"compensation arrangement", "equity award", "stock option",
					"restricted stock", "restricted stock unit", " rsu ", " rsus ",
					"severance", "golden parachute", "employment agreement",
					"offer letter", "sign-on bonus", "signing bonus", "base salary",
					"annual bonus", "performance shares", "change in control",
					"clawback", "incentive plan", "long-term incentive",
				},
			},
		},
		Subcategories: []KeywordGroup{
			{Name: "Executive Departure", Keywords: []string{
				"resign", "departure", "stepping down", "retire", "separated from",
				"no longer serving", "cease to serve", "will depart",
			}},
			{Name: "New Hire", Keywords: []string{
				"appointed as", "appointment of", "named as", "new ceo", "new cfo",
				"new coo", "new president", "was elected", "has been elected",
			}},
			{Name: "Inducement Award", Keywords: []string{"inducement award", "inducement grant"}},
			{Name: "Accelerated Vesting", Keywords: []string{"accelerated vesting", "acceleration of vesting"}},
			{Name: "Comp Plan Change", Keywords: []string{"compensation plan", "incentive plan", "long-term incentive", "clawback"}},
			{Name: "Severance / Separation", Keywords: []string{"severance", "golden parachute", "separation agreement"}},
		},
		BoilerplatePhrases: []string{
			"elected not to use the extended transition period",
			"emerging growth company",
			"check mark if the registrant has elected",
			"transition period for complying",
			"election with respect to",
			"terminated in accordance with its terms",
			"terminated upon completion",
			"appointed as agent",
		},
		DepartureSubcategory: "Executive Departure",
		DepartureTerms: []string{
			"resign", "departure", "stepping down", "retire", "separated from",
			"no longer serving", "cease to serve", "will depart", "terminated",
		},
		Roles: []KeywordGroup{
			{Name: "CEO", Keywords: []string{"ceo", "chief executive officer", "chief executive"}},
			{Name: "CFO", Keywords: []string{"cfo", "chief financial officer", "chief financial"}},
			{Name: "COO", Keywords: []string{"coo", "chief operating officer", "chief operating"}},
			{Name: "CTO", Keywords: []string{"cto", "chief technology officer", "chief technology"}},
			{Name: "CLO", Keywords: []string{"clo", "chief legal officer", "general counsel"}},
			{Name: "CHRO", Keywords: []string{"chro", "chief human resources", "chief people officer"}},
			{Name: "President", Keywords: []string{"president"}},
			{Name: "Chairman", Keywords: []string{"chairman", "chair of the board"}},
			{Name: "Director", Keywords: []string{"director"}},
		},
	}
}
