package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// BedroomRule selects how the bedroom sub-score is computed.
type BedroomRule string

const (
	// BedroomRuleRelative grades bedroom count against the configured
	// minimum (at least min, min+1, min+2).
	BedroomRuleRelative BedroomRule = "relative"
	// BedroomRuleAbsolute grades the raw bedroom count on a fixed table.
	BedroomRuleAbsolute BedroomRule = "absolute"
)

// CategoryWeights are the maximum points each scoring category can
// contribute. The defaults sum to 100.
type CategoryWeights struct {
	Price        float64 `json:"price"`
	Commute      float64 `json:"commute"`
	PropertyType float64 `json:"property_type"`
	Bedrooms     float64 `json:"bedrooms"`
	OutdoorSpace float64 `json:"outdoor_space"`
	Schools      float64 `json:"schools"`
	GrammarBonus float64 `json:"grammar_bonus"`
}

// Total returns the sum of all category weights.
func (w CategoryWeights) Total() float64 {
	return w.Price + w.Commute + w.PropertyType + w.Bedrooms +
		w.OutdoorSpace + w.Schools + w.GrammarBonus
}

// ScoringCriteria is the buyer's search profile. Every knob of the scorer
// and enricher lives here so a criteria change never needs a code change.
type ScoringCriteria struct {
	// ReferencePostcode is the commute destination, e.g. the office.
	ReferencePostcode string `json:"reference_postcode"`

	// BudgetMin..BudgetMax is the comfortable price band in whole GBP.
	BudgetMin int64 `json:"budget_min"`
	BudgetMax int64 `json:"budget_max"`
	// PerfectPriceMargin widens the top price tier above BudgetMin.
	PerfectPriceMargin int64 `json:"perfect_price_margin"`
	// GoodPriceMargin widens the second tier above BudgetMin.
	GoodPriceMargin int64 `json:"good_price_margin"`
	// OverBudgetMargin is how far above BudgetMax still earns a few points.
	OverBudgetMargin int64 `json:"over_budget_margin"`
	// PlausiblePriceCeiling triggers a validation warning, not an error.
	PlausiblePriceCeiling int64 `json:"plausible_price_ceiling"`

	MinBedrooms       int         `json:"min_bedrooms"`
	BedroomRule       BedroomRule `json:"bedroom_rule"`
	MaxCommuteMinutes float64     `json:"max_commute_minutes"`

	Weights CategoryWeights `json:"weights"`
}

// postcodeRe accepts the UK postcode shapes that appear in listings:
// outward code of 2-4 characters, one space or none, inward code of 3.
var postcodeRe = regexp.MustCompile(`^[A-Z]{1,2}\d[A-Z\d]?\s?\d[A-Z]{2}$`)

// ValidPostcode reports whether s looks like a full UK postcode.
// The input is expected to be upper-cased and trimmed already.
func ValidPostcode(s string) bool {
	return postcodeRe.MatchString(s)
}

// DefaultCriteria returns the search profile the tool ships with:
// a family move to south-east London within commuting range of London
// Bridge.
func DefaultCriteria() ScoringCriteria {
	return ScoringCriteria{
		ReferencePostcode:     "SE1 9SP",
		BudgetMin:             300_000,
		BudgetMax:             420_000,
		PerfectPriceMargin:    50_000,
		GoodPriceMargin:       80_000,
		OverBudgetMargin:      30_000,
		PlausiblePriceCeiling: 2_000_000,
		MinBedrooms:           3,
		BedroomRule:           BedroomRuleRelative,
		MaxCommuteMinutes:     60,
		Weights: CategoryWeights{
			Price:        20,
			Commute:      20,
			PropertyType: 15,
			Bedrooms:     15,
			OutdoorSpace: 10,
			Schools:      10,
			GrammarBonus: 10,
		},
	}
}

// Validate rejects a criteria set that would make scoring meaningless.
// It fails fast so a bad profile never reaches the pipeline.
func (c ScoringCriteria) Validate() error {
	ref := strings.ToUpper(strings.TrimSpace(c.ReferencePostcode))
	if ref == "" {
		return &ConfigurationError{Field: "reference_postcode", Reason: "is required"}
	}
	if !ValidPostcode(ref) {
		return &ConfigurationError{Field: "reference_postcode", Reason: fmt.Sprintf("%q is not a valid UK postcode", c.ReferencePostcode)}
	}
	if c.BudgetMin <= 0 {
		return &ConfigurationError{Field: "budget_min", Reason: "must be positive"}
	}
	if c.BudgetMax <= c.BudgetMin {
		return &ConfigurationError{Field: "budget_max", Reason: "must be greater than budget_min"}
	}
	if c.PerfectPriceMargin < 0 || c.GoodPriceMargin < c.PerfectPriceMargin {
		return &ConfigurationError{Field: "good_price_margin", Reason: "price margins must satisfy 0 <= perfect <= good"}
	}
	if c.OverBudgetMargin < 0 {
		return &ConfigurationError{Field: "over_budget_margin", Reason: "must not be negative"}
	}
	if c.PlausiblePriceCeiling <= c.BudgetMax {
		return &ConfigurationError{Field: "plausible_price_ceiling", Reason: "must exceed budget_max"}
	}
	if c.MinBedrooms < 0 || c.MinBedrooms > 10 {
		return &ConfigurationError{Field: "min_bedrooms", Reason: "must be within [0, 10]"}
	}
	switch c.BedroomRule {
	case BedroomRuleRelative, BedroomRuleAbsolute:
	default:
		return &ConfigurationError{Field: "bedroom_rule", Reason: fmt.Sprintf("unknown rule %q", c.BedroomRule)}
	}
	if c.MaxCommuteMinutes <= 0 {
		return &ConfigurationError{Field: "max_commute_minutes", Reason: "must be positive"}
	}

	for _, w := range []struct {
		name  string
		value float64
	}{
		{"weights.price", c.Weights.Price},
		{"weights.commute", c.Weights.Commute},
		{"weights.property_type", c.Weights.PropertyType},
		{"weights.bedrooms", c.Weights.Bedrooms},
		{"weights.outdoor_space", c.Weights.OutdoorSpace},
		{"weights.schools", c.Weights.Schools},
		{"weights.grammar_bonus", c.Weights.GrammarBonus},
	} {
		if w.value < 0 || w.value > 100 {
			return &ConfigurationError{Field: w.name, Reason: "must be within [0, 100]"}
		}
	}
	if c.Weights.Total() <= 0 {
		return &ConfigurationError{Field: "weights", Reason: "at least one weight must be positive"}
	}

	return nil
}
