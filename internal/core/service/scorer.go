package service

import (
	"math"
	"strings"

	"github.com/bchiyangwa9/london-property-analyzer/internal/core/domain"
)

// Reference maxima the tier tables are written against. A custom weight
// rescales the table proportionally.
const (
	basePriceMax    = 20.0
	baseCommuteMax  = 20.0
	baseTypeMax     = 15.0
	baseBedroomsMax = 15.0
	baseOutdoorMax  = 10.0
	baseSchoolsMax  = 10.0
	baseGrammarMax  = 10.0
)

// keywordTier is one row of an ordered substring lookup table. The first
// matching row wins, so specific keywords must come before generic ones
// ("semi-detached" before "detached", "roof terrace" before "terrace").
type keywordTier struct {
	keyword string
	points  float64
}

var propertyTypeTable = []keywordTier{
	{"semi-detached", 12},
	{"end of terrace", 11},
	{"detached", 15},
	{"bungalow", 13},
	{"townhouse", 12},
	{"maisonette", 8},
	{"terrace", 10},
	{"apartment", 5},
	{"flat", 5},
	{"studio", 2},
}

const propertyTypeDefault = 7

var outdoorSpaceTable = []keywordTier{
	{"large garden", 10},
	{"big garden", 10},
	{"spacious garden", 10},
	{"small garden", 6},
	{"courtyard", 6},
	{"garden", 8},
	{"yard", 8},
	{"patio", 8},
	{"roof terrace", 4},
	{"terrace", 6},
	{"balcony", 4},
	{"no outdoor", 0},
	{"none", 0},
	{"n/a", 0},
}

const outdoorSpaceDefault = 3

var ofstedPoints = map[domain.OfstedRating]float64{
	domain.OfstedOutstanding:         10,
	domain.OfstedGood:                8,
	domain.OfstedRequiresImprovement: 5,
	domain.OfstedInadequate:          2,
}

const ofstedUnknownPoints = 6

// Scorer turns a property record into a score breakdown. Scoring is a
// total function: any record, however incomplete, gets a number.
type Scorer struct {
	criteria domain.ScoringCriteria
}

// NewScorer builds a scorer, failing fast on an invalid criteria profile.
func NewScorer(criteria domain.ScoringCriteria) (*Scorer, error) {
	if err := criteria.Validate(); err != nil {
		return nil, err
	}

	return &Scorer{criteria: criteria}, nil
}

// Score computes all seven sub-scores and their sum. Each sub-score is
// clamped to its category weight, so the total never exceeds the sum of
// the weights. The same record always produces the same breakdown.
func (s *Scorer) Score(rec domain.PropertyRecord) domain.ScoreBreakdown {
	w := s.criteria.Weights

	breakdown := domain.ScoreBreakdown{
		PriceScore:   scale(s.priceScore(rec.Price), basePriceMax, w.Price),
		CommuteScore: scale(s.commuteScore(rec.CommuteMinutes), baseCommuteMax, w.Commute),
		TypeScore:    scale(s.typeScore(rec.PropertyType), baseTypeMax, w.PropertyType),
		BedroomScore: scale(s.bedroomScore(rec.Bedrooms), baseBedroomsMax, w.Bedrooms),
		OutdoorScore: scale(s.outdoorScore(rec.OutdoorSpace), baseOutdoorMax, w.OutdoorSpace),
		SchoolScore:  scale(s.schoolScore(rec.NearestSchoolOfsted), baseSchoolsMax, w.Schools),
		GrammarBonus: scale(s.grammarScore(rec.GrammarProximity), baseGrammarMax, w.GrammarBonus),
	}

	breakdown.TotalScore = round2(breakdown.PriceScore +
		breakdown.CommuteScore +
		breakdown.TypeScore +
		breakdown.BedroomScore +
		breakdown.OutdoorScore +
		breakdown.SchoolScore +
		breakdown.GrammarBonus)

	return breakdown
}

// priceScore grades against the budget band. Slightly under budget is
// nearly perfect; within the band degrades in steps; a small overshoot
// keeps a token score.
func (s *Scorer) priceScore(price int64) float64 {
	c := s.criteria
	switch {
	case price <= 0:
		return 0
	case price < c.BudgetMin:
		return 18
	case price <= c.BudgetMin+c.PerfectPriceMargin:
		return 20
	case price <= c.BudgetMin+c.GoodPriceMargin:
		return 15
	case price <= c.BudgetMax:
		return 10
	case price <= c.BudgetMax+c.OverBudgetMargin:
		return 5
	default:
		return 0
	}
}

// commuteScore grades the door-to-door time. The breakpoints sit at 1/2,
// 2/3 and 5/6 of the configured maximum, which reproduces the classic
// 30/40/50/60 minute bands for a 60-minute limit.
func (s *Scorer) commuteScore(minutes *float64) float64 {
	if minutes == nil {
		return 0
	}

	m := *minutes
	max := s.criteria.MaxCommuteMinutes
	switch {
	case m <= 0:
		return 0
	case m <= max/2:
		return 20
	case m <= max*2/3:
		return 15
	case m <= max*5/6:
		return 10
	case m <= max:
		return 5
	default:
		return 0
	}
}

func (s *Scorer) typeScore(propertyType string) float64 {
	return keywordLookup(propertyType, propertyTypeTable, propertyTypeDefault)
}

func (s *Scorer) outdoorScore(outdoorSpace string) float64 {
	return keywordLookup(outdoorSpace, outdoorSpaceTable, outdoorSpaceDefault)
}

func (s *Scorer) bedroomScore(bedrooms int) float64 {
	if s.criteria.BedroomRule == domain.BedroomRuleAbsolute {
		switch {
		case bedrooms >= 4:
			return 15
		case bedrooms == 3:
			return 12
		case bedrooms == 2:
			return 5
		case bedrooms == 1:
			return 2
		default:
			return 0
		}
	}

	min := s.criteria.MinBedrooms
	switch {
	case bedrooms >= min+2:
		return 15
	case bedrooms >= min+1:
		return 12
	case bedrooms >= min:
		return 8
	default:
		// below requirement stays a consolation score
		return math.Min(6, float64(3*bedrooms))
	}
}

func (s *Scorer) schoolScore(rating domain.OfstedRating) float64 {
	if points, ok := ofstedPoints[rating]; ok {
		return points
	}
	return ofstedUnknownPoints
}

func (s *Scorer) grammarScore(proximity domain.GrammarProximity) float64 {
	switch proximity {
	case domain.GrammarYes:
		return 10
	case domain.GrammarPossible:
		return 5
	default:
		return 0
	}
}

// keywordLookup walks the ordered table and returns the points of the
// first keyword contained in value, or def when nothing matches.
func keywordLookup(value string, table []keywordTier, def float64) float64 {
	lowered := strings.ToLower(strings.TrimSpace(value))
	if lowered == "" {
		return def
	}

	for _, tier := range table {
		if strings.Contains(lowered, tier.keyword) {
			return tier.points
		}
	}

	return def
}

// scale maps table points onto the configured weight and clamps the
// result to [0, weight].
func scale(points, baseMax, weight float64) float64 {
	if baseMax <= 0 || weight <= 0 {
		return 0
	}

	scaled := points * weight / baseMax
	if scaled < 0 {
		return 0
	}
	if scaled > weight {
		return weight
	}
	return round2(scaled)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
