package domain

import (
	"time"
)

// OfstedRating is the inspection grade of the nearest school.
type OfstedRating string

const (
	OfstedOutstanding         OfstedRating = "Outstanding"
	OfstedGood                OfstedRating = "Good"
	OfstedRequiresImprovement OfstedRating = "Requires Improvement"
	OfstedInadequate          OfstedRating = "Inadequate"
	OfstedUnknown             OfstedRating = "Unknown"
)

// GrammarProximity is the grammar-school catchment status of a postcode.
type GrammarProximity string

const (
	GrammarYes      GrammarProximity = "Yes"
	GrammarPossible GrammarProximity = "Possible"
	GrammarNo       GrammarProximity = "No"
)

// RawProperty is a property exactly as it arrived from the outside world:
// manual entry, an import row or a scraped listing. Numeric fields stay
// strings because sources ship them as "£350,000" or "3 bedrooms".
type RawProperty struct {
	PropertyID   string `json:"property_id"`
	Price        string `json:"price"`
	Bedrooms     string `json:"bedrooms"`
	Postcode     string `json:"postcode"`
	PropertyType string `json:"property_type"`
	OutdoorSpace string `json:"outdoor_space"`
	Tenure       string `json:"tenure"`
	AgentName    string `json:"agent_name"`
	AgentPhone   string `json:"agent_phone"`
	Description  string `json:"description"`
	SourceURL    string `json:"source_url"`

	// Listing pages usually embed map coordinates.
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`

	// Derived fields a caller may already have. When present the enricher
	// leaves them alone.
	CommuteMinutes      *float64 `json:"commute_minutes,omitempty"`
	DistanceToStationKM *float64 `json:"distance_to_station_km,omitempty"`
	NearestSchoolOfsted string   `json:"nearest_school_ofsted,omitempty"`
	GrammarProximity    string   `json:"grammar_school_proximity,omitempty"`
}

// PropertyRecord is a cleaned property. Enrichment fields are pointers
// (or empty strings) until the enricher fills them, so "absent" and
// "zero" stay distinguishable.
type PropertyRecord struct {
	PropertyID   string `json:"property_id"`
	Price        int64  `json:"price"` // whole GBP
	PropertyType string `json:"property_type"`
	Bedrooms     int    `json:"bedrooms"`
	Postcode     string `json:"postcode"`
	OutdoorSpace string `json:"outdoor_space"`
	Tenure       string `json:"tenure,omitempty"`
	AgentName    string `json:"agent_name,omitempty"`
	AgentPhone   string `json:"agent_phone,omitempty"`
	Description  string `json:"description,omitempty"`
	SourceURL    string `json:"source_url,omitempty"`

	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`

	CommuteMinutes      *float64         `json:"commute_minutes,omitempty"`
	DistanceToStationKM *float64         `json:"distance_to_station_km,omitempty"`
	NearestStation      string           `json:"nearest_station,omitempty"`
	NearestSchoolOfsted OfstedRating     `json:"nearest_school_ofsted,omitempty"`
	NearestSchoolName   string           `json:"nearest_school_name,omitempty"`
	GrammarProximity    GrammarProximity `json:"grammar_school_proximity,omitempty"`
	GrammarSchools      []string         `json:"grammar_schools_nearby,omitempty"`

	AddedAt time.Time `json:"added_at"`
}

// Enriched reports whether every derived field has been populated.
func (r PropertyRecord) Enriched() bool {
	return r.CommuteMinutes != nil &&
		r.DistanceToStationKM != nil &&
		r.NearestSchoolOfsted != "" &&
		r.GrammarProximity != ""
}

// ScoreBreakdown holds the seven sub-scores and their sum. Each sub-score
// is clamped to its category maximum, so TotalScore stays within [0,100]
// under the default weights.
type ScoreBreakdown struct {
	PriceScore   float64 `json:"price_score"`
	CommuteScore float64 `json:"commute_score"`
	TypeScore    float64 `json:"property_type_score"`
	BedroomScore float64 `json:"bedrooms_score"`
	OutdoorScore float64 `json:"outdoor_space_score"`
	SchoolScore  float64 `json:"schools_score"`
	GrammarBonus float64 `json:"grammar_bonus_score"`
	TotalScore   float64 `json:"total_score"`
}

// ProcessedProperty is the outcome of one pipeline run. Scores is nil when
// validation failed, so callers can tell "not scored" from "scored zero".
type ProcessedProperty struct {
	Record           PropertyRecord  `json:"record"`
	Scores           *ScoreBreakdown `json:"scores,omitempty"`
	ValidationErrors []FieldIssue    `json:"validation_errors,omitempty"`
	Warnings         []FieldIssue    `json:"warnings,omitempty"`
	ProcessedAt      time.Time       `json:"processed_at"`
}

// Valid reports whether the record passed validation and was scored.
func (p ProcessedProperty) Valid() bool {
	return len(p.ValidationErrors) == 0
}

// TotalScore returns the total score, or 0 for unscored records.
func (p ProcessedProperty) TotalScore() float64 {
	if p.Scores == nil {
		return 0
	}
	return p.Scores.TotalScore
}

// BatchSaveStats summarizes a batch write to storage.
type BatchSaveStats struct {
	Created    int `json:"created"`
	Updated    int `json:"updated"`
	Duplicates int `json:"duplicates"`
}

// ImportReport summarizes a scrape-and-ingest run.
type ImportReport struct {
	LinksFound int              `json:"links_found"`
	Fetched    int              `json:"fetched"`
	Failed     int              `json:"failed"`
	Outcomes   []ProcessedProperty `json:"outcomes"`
}
