package service

import (
	"testing"

	"github.com/bchiyangwa9/london-property-analyzer/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScorer(t *testing.T) *Scorer {
	t.Helper()

	s, err := NewScorer(domain.DefaultCriteria())
	require.NoError(t, err)
	return s
}

func float64Ptr(v float64) *float64 { return &v }

// scoredRecord is a record that hits every top tier under the defaults.
func scoredRecord() domain.PropertyRecord {
	return domain.PropertyRecord{
		PropertyID:          "prop-001",
		Price:               340_000,
		PropertyType:        "Detached House",
		Bedrooms:            5,
		Postcode:            "SE9 4QX",
		OutdoorSpace:        "Large Garden",
		CommuteMinutes:      float64Ptr(25),
		NearestSchoolOfsted: domain.OfstedOutstanding,
		GrammarProximity:    domain.GrammarYes,
	}
}

func TestScorerRejectsInvalidCriteria(t *testing.T) {
	t.Parallel()

	criteria := domain.DefaultCriteria()
	criteria.MaxCommuteMinutes = 0

	_, err := NewScorer(criteria)
	require.Error(t, err)

	var confErr *domain.ConfigurationError
	assert.ErrorAs(t, err, &confErr)
}

func TestScorerPerfectRecordMaxesOut(t *testing.T) {
	t.Parallel()

	s := newTestScorer(t)
	breakdown := s.Score(scoredRecord())

	assert.Equal(t, 20.0, breakdown.PriceScore)
	assert.Equal(t, 20.0, breakdown.CommuteScore)
	assert.Equal(t, 15.0, breakdown.TypeScore)
	assert.Equal(t, 15.0, breakdown.BedroomScore)
	assert.Equal(t, 10.0, breakdown.OutdoorScore)
	assert.Equal(t, 10.0, breakdown.SchoolScore)
	assert.Equal(t, 10.0, breakdown.GrammarBonus)
	assert.Equal(t, 100.0, breakdown.TotalScore)
}

func TestScorerPriceTiers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		price int64
		want  float64
	}{
		{name: "zero scores nothing", price: 0, want: 0},
		{name: "below budget nearly perfect", price: 280_000, want: 18},
		{name: "budget floor", price: 300_000, want: 20},
		{name: "top tier edge", price: 350_000, want: 20},
		{name: "second tier", price: 380_000, want: 15},
		{name: "budget ceiling", price: 420_000, want: 10},
		{name: "small overshoot", price: 450_000, want: 5},
		{name: "far over budget", price: 451_000, want: 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := newTestScorer(t)
			rec := scoredRecord()
			rec.Price = tt.price

			assert.Equal(t, tt.want, s.Score(rec).PriceScore)
		})
	}
}

func TestScorerCommuteTiers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		minutes *float64
		want    float64
	}{
		{name: "unknown", minutes: nil, want: 0},
		{name: "half an hour", minutes: float64Ptr(30), want: 20},
		{name: "forty minutes", minutes: float64Ptr(40), want: 15},
		{name: "fifty minutes", minutes: float64Ptr(50), want: 10},
		{name: "at the limit", minutes: float64Ptr(60), want: 5},
		{name: "over the limit", minutes: float64Ptr(61), want: 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := newTestScorer(t)
			rec := scoredRecord()
			rec.CommuteMinutes = tt.minutes

			assert.Equal(t, tt.want, s.Score(rec).CommuteScore)
		})
	}
}

func TestScorerPropertyTypeTable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		propertyType string
		want         float64
	}{
		{"Detached House", 15},
		{"Semi-Detached House", 12},
		{"End Of Terrace House", 11},
		{"Terraced House", 10},
		{"Bungalow", 13},
		{"Townhouse", 12},
		{"Maisonette", 8},
		{"Flat", 5},
		{"Studio", 2},
		{"Houseboat", 7},
		{"", 7},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.propertyType, func(t *testing.T) {
			t.Parallel()

			s := newTestScorer(t)
			rec := scoredRecord()
			rec.PropertyType = tt.propertyType

			assert.Equal(t, tt.want, s.Score(rec).TypeScore)
		})
	}
}

func TestScorerSemiDetachedNeverMatchesDetached(t *testing.T) {
	t.Parallel()

	s := newTestScorer(t)
	rec := scoredRecord()
	rec.PropertyType = "Semi-Detached House"

	// "semi-detached" must win over the "detached" substring
	assert.Equal(t, 12.0, s.Score(rec).TypeScore)
}

func TestScorerBedroomRules(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		rule     domain.BedroomRule
		bedrooms int
		want     float64
	}{
		{name: "relative two above minimum", rule: domain.BedroomRuleRelative, bedrooms: 5, want: 15},
		{name: "relative one above minimum", rule: domain.BedroomRuleRelative, bedrooms: 4, want: 12},
		{name: "relative at minimum", rule: domain.BedroomRuleRelative, bedrooms: 3, want: 8},
		{name: "relative below minimum", rule: domain.BedroomRuleRelative, bedrooms: 2, want: 6},
		{name: "relative far below minimum", rule: domain.BedroomRuleRelative, bedrooms: 1, want: 3},
		{name: "relative zero", rule: domain.BedroomRuleRelative, bedrooms: 0, want: 0},
		{name: "absolute four plus", rule: domain.BedroomRuleAbsolute, bedrooms: 4, want: 15},
		{name: "absolute three", rule: domain.BedroomRuleAbsolute, bedrooms: 3, want: 12},
		{name: "absolute two", rule: domain.BedroomRuleAbsolute, bedrooms: 2, want: 5},
		{name: "absolute one", rule: domain.BedroomRuleAbsolute, bedrooms: 1, want: 2},
		{name: "absolute zero", rule: domain.BedroomRuleAbsolute, bedrooms: 0, want: 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			criteria := domain.DefaultCriteria()
			criteria.BedroomRule = tt.rule

			s, err := NewScorer(criteria)
			require.NoError(t, err)

			rec := scoredRecord()
			rec.Bedrooms = tt.bedrooms

			assert.Equal(t, tt.want, s.Score(rec).BedroomScore)
		})
	}
}

func TestScorerOutdoorSpaceTable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		outdoor string
		want    float64
	}{
		{"Large Garden", 10},
		{"Small Garden", 6},
		{"Garden", 8},
		{"Patio", 8},
		{"Courtyard", 6},
		{"Roof Terrace", 4},
		{"Balcony", 4},
		{"None", 0},
		{"Shared driveway", 3},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.outdoor, func(t *testing.T) {
			t.Parallel()

			s := newTestScorer(t)
			rec := scoredRecord()
			rec.OutdoorSpace = tt.outdoor

			assert.Equal(t, tt.want, s.Score(rec).OutdoorScore)
		})
	}
}

func TestScorerSchoolAndGrammar(t *testing.T) {
	t.Parallel()

	s := newTestScorer(t)

	schoolTests := []struct {
		rating domain.OfstedRating
		want   float64
	}{
		{domain.OfstedOutstanding, 10},
		{domain.OfstedGood, 8},
		{domain.OfstedRequiresImprovement, 5},
		{domain.OfstedInadequate, 2},
		{domain.OfstedUnknown, 6},
		{"", 6},
	}
	for _, tt := range schoolTests {
		tt := tt
		rec := scoredRecord()
		rec.NearestSchoolOfsted = tt.rating
		assert.Equal(t, tt.want, s.Score(rec).SchoolScore, "rating %q", tt.rating)
	}

	grammarTests := []struct {
		proximity domain.GrammarProximity
		want      float64
	}{
		{domain.GrammarYes, 10},
		{domain.GrammarPossible, 5},
		{domain.GrammarNo, 0},
		{"", 0},
	}
	for _, tt := range grammarTests {
		tt := tt
		rec := scoredRecord()
		rec.GrammarProximity = tt.proximity
		assert.Equal(t, tt.want, s.Score(rec).GrammarBonus, "proximity %q", tt.proximity)
	}
}

func TestScorerTotalIsSumOfParts(t *testing.T) {
	t.Parallel()

	s := newTestScorer(t)
	rec := domain.PropertyRecord{
		Price:               395_000,
		PropertyType:        "Terraced House",
		Bedrooms:            3,
		OutdoorSpace:        "Balcony",
		CommuteMinutes:      float64Ptr(45),
		NearestSchoolOfsted: domain.OfstedGood,
		GrammarProximity:    domain.GrammarPossible,
	}

	b := s.Score(rec)
	sum := b.PriceScore + b.CommuteScore + b.TypeScore + b.BedroomScore +
		b.OutdoorScore + b.SchoolScore + b.GrammarBonus

	assert.InDelta(t, sum, b.TotalScore, 0.001)
}

func TestScorerCustomWeightsRescaleAndClamp(t *testing.T) {
	t.Parallel()

	criteria := domain.DefaultCriteria()
	criteria.Weights = domain.CategoryWeights{
		Price:        40, // doubled
		Commute:      10, // halved
		PropertyType: 15,
		Bedrooms:     15,
		OutdoorSpace: 10,
		Schools:      10,
		GrammarBonus: 0, // switched off
	}

	s, err := NewScorer(criteria)
	require.NoError(t, err)

	b := s.Score(scoredRecord())

	assert.Equal(t, 40.0, b.PriceScore)
	assert.Equal(t, 10.0, b.CommuteScore)
	assert.Equal(t, 0.0, b.GrammarBonus)

	// every sub-score stays within its weight
	assert.LessOrEqual(t, b.PriceScore, criteria.Weights.Price)
	assert.LessOrEqual(t, b.CommuteScore, criteria.Weights.Commute)
}

func TestScorerIsDeterministic(t *testing.T) {
	t.Parallel()

	s := newTestScorer(t)
	rec := scoredRecord()

	first := s.Score(rec)
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, s.Score(rec))
	}
}
