// Package filter implements the cheap stages of the triage funnel: the
// item-code admission gate and the keyword/phrase scan. Nothing here performs
// I/O; all behaviour is driven by an immutable Taxonomy.
package filter

import (
	"errors"
	"fmt"
	"strings"

	"FilingScanner/internal/config"
)

// Group is an ordered label with its lowercase phrases.
type Group struct {
	Name     string
	Keywords []string
}

// Taxonomy is the frozen keyword configuration. Build it with NewTaxonomy.
type Taxonomy struct {
	targetCodes    map[string]struct{}
	rescueCodes    []string
	rescueCategory string
	categories     []Group
	subcategories  []Group
	boilerplate    []string
	departureLabel string
	departureTerms []string
	roles          []Group
}

// NewTaxonomy validates cfg and copies it into an immutable Taxonomy.
func NewTaxonomy(cfg config.TaxonomyConfig) (*Taxonomy, error) {
	if len(cfg.TargetItemCodes) == 0 {
		return nil, errors.New("taxonomy: no target item codes")
	}
	if len(cfg.Categories) == 0 {
		return nil, errors.New("taxonomy: no keyword categories")
	}

	t := &Taxonomy{
		targetCodes:    make(map[string]struct{}, len(cfg.TargetItemCodes)),
		rescueCategory: strings.TrimSpace(cfg.RescueCategory),
		departureLabel: strings.TrimSpace(cfg.DepartureSubcategory),
		boilerplate:    lowerAll(cfg.BoilerplatePhrases),
		departureTerms: lowerAll(cfg.DepartureTerms),
	}
	for _, code := range cfg.TargetItemCodes {
		t.targetCodes[strings.TrimSpace(code)] = struct{}{}
	}
	for _, code := range cfg.RescueItemCodes {
		code = strings.TrimSpace(code)
		if _, ok := t.targetCodes[code]; !ok {
			return nil, fmt.Errorf("taxonomy: rescue code %s is not a target code", code)
		}
		t.rescueCodes = append(t.rescueCodes, code)
	}
	if len(t.rescueCodes) > 0 && t.rescueCategory == "" {
		return nil, errors.New("taxonomy: rescue codes need a rescue category")
	}

	var err error
	if t.categories, err = groups("category", cfg.Categories); err != nil {
		return nil, err
	}
	if t.subcategories, err = groups("subcategory", cfg.Subcategories); err != nil {
		return nil, err
	}
	if t.roles, err = groups("role", cfg.Roles); err != nil {
		return nil, err
	}

	return t, nil
}

// MustDefaultTaxonomy builds the taxonomy shipped in config.DefaultTaxonomy.
func MustDefaultTaxonomy() *Taxonomy {
	t, err := NewTaxonomy(config.DefaultTaxonomy())
	if err != nil {
		panic(err)
	}
	return t
}

// RescueCategory is the fixed category given to near-miss and auto-passed filings.
func (t *Taxonomy) RescueCategory() string { return t.rescueCategory }

// RescueCode returns the first rescue-eligible code declared by the filing.
func (t *Taxonomy) RescueCode(itemCodes []string) (string, bool) {
	for _, rescue := range t.rescueCodes {
		for _, code := range itemCodes {
			if code == rescue {
				return code, true
			}
		}
	}
	return "", false
}

func groups(kind string, in []config.KeywordGroup) ([]Group, error) {
	out := make([]Group, 0, len(in))
	seen := map[string]struct{}{}
	for _, g := range in {
		name := strings.TrimSpace(g.Name)
		if name == "" {
			return nil, fmt.Errorf("taxonomy: %s without a name", kind)
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("taxonomy: duplicate %s %q", kind, name)
		}
		seen[name] = struct{}{}
		out = append(out, Group{Name: name, Keywords: lowerAll(g.Keywords)})
	}
	return out, nil
}

// lowerAll keeps inner spacing intact: phrases such as " rsu " rely on it.
func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if strings.TrimSpace(s) == "" {
			continue
		}
		out = append(out, strings.ToLower(s))
	}
	return out
}
