package service

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bchiyangwa9/london-property-analyzer/internal/core/domain"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ValidationResult is the outcome of validating one raw property.
// Errors block scoring; warnings only annotate the record.
type ValidationResult struct {
	Record   domain.PropertyRecord
	Errors   []domain.FieldIssue
	Warnings []domain.FieldIssue
}

// Valid reports whether the record can continue through the pipeline.
func (r ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// canonicalTypes is the set of property types the scorer has a table
// entry for. Synonyms below collapse portal spellings onto these.
var canonicalTypes = map[string]struct{}{
	"Detached House":       {},
	"Semi-Detached House":  {},
	"Terraced House":       {},
	"End Of Terrace House": {},
	"Townhouse":            {},
	"Maisonette":           {},
	"Flat":                 {},
	"Studio":               {},
	"Bungalow":             {},
}

// typeSynonyms maps lower-cased portal spellings onto canonical types.
var typeSynonyms = map[string]string{
	"detached":             "Detached House",
	"semi-detached":        "Semi-Detached House",
	"semi detached":        "Semi-Detached House",
	"semi detached house":  "Semi-Detached House",
	"semi-detached house":  "Semi-Detached House",
	"terraced":             "Terraced House",
	"terrace":              "Terraced House",
	"terraced house":       "Terraced House",
	"mid terrace":          "Terraced House",
	"end of terrace":       "End Of Terrace House",
	"end terrace":          "End Of Terrace House",
	"town house":           "Townhouse",
	"apartment":            "Flat",
	"flat / apartment":     "Flat",
	"penthouse":            "Flat",
	"studio flat":            "Studio",
	"studio apartment":       "Studio",
	"detached bungalow":      "Bungalow",
	"semi-detached bungalow": "Bungalow",
}

// Validator checks and cleans raw properties. It holds no mutable state,
// so one instance serves all goroutines.
type Validator struct {
	criteria domain.ScoringCriteria
}

// NewValidator builds a validator for the given criteria. An invalid
// criteria profile fails here, before any record is touched.
func NewValidator(criteria domain.ScoringCriteria) (*Validator, error) {
	if err := criteria.Validate(); err != nil {
		return nil, err
	}

	return &Validator{criteria: criteria}, nil
}

// Validate checks required fields, coerces numeric text and normalizes
// postcode and property type. It never mutates its input and returns the
// same result for the same input every time.
func (v *Validator) Validate(raw domain.RawProperty) ValidationResult {
	var res ValidationResult

	res.Record.PropertyID = strings.TrimSpace(raw.PropertyID)
	res.Record.Tenure = strings.TrimSpace(raw.Tenure)
	res.Record.AgentName = strings.TrimSpace(raw.AgentName)
	res.Record.AgentPhone = strings.TrimSpace(raw.AgentPhone)
	res.Record.Description = strings.TrimSpace(raw.Description)
	res.Record.SourceURL = strings.TrimSpace(raw.SourceURL)

	v.requireField(&res, "property_id", raw.PropertyID)
	v.requireField(&res, "price", raw.Price)
	v.requireField(&res, "bedrooms", raw.Bedrooms)
	v.requireField(&res, "postcode", raw.Postcode)
	v.requireField(&res, "property_type", raw.PropertyType)

	res.Record.Price = v.validatePrice(&res, raw.Price)
	res.Record.Bedrooms = v.validateBedrooms(&res, raw.Bedrooms)
	res.Record.Postcode = v.validatePostcode(&res, raw.Postcode)
	res.Record.PropertyType = v.validatePropertyType(&res, raw.PropertyType)
	res.Record.OutdoorSpace = normalizeOutdoorSpace(raw.OutdoorSpace)

	carryDerivedFields(&res.Record, raw)

	return res
}

func (v *Validator) requireField(res *ValidationResult, field, value string) {
	if strings.TrimSpace(value) == "" {
		res.Errors = append(res.Errors, domain.FieldIssue{
			Field:   field,
			Code:    domain.CodeMissingRequiredField,
			Message: "required field is missing or empty",
		})
	}
}

// validatePrice strips currency formatting ("£350,000" -> 350000) and
// rejects non-numeric or non-positive values.
func (v *Validator) validatePrice(res *ValidationResult, rawPrice string) int64 {
	cleaned := strings.TrimSpace(rawPrice)
	if cleaned == "" {
		return 0 // already reported as missing
	}

	cleaned = strings.NewReplacer("£", "", ",", "", " ", "").Replace(cleaned)

	parsed, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		res.Errors = append(res.Errors, domain.FieldIssue{
			Field:   "price",
			Code:    domain.CodeInvalidPrice,
			Message: fmt.Sprintf("%q is not a numeric price", rawPrice),
		})
		return 0
	}

	price := int64(parsed)
	if price <= 0 {
		res.Errors = append(res.Errors, domain.FieldIssue{
			Field:   "price",
			Code:    domain.CodeInvalidPrice,
			Message: "price must be positive",
		})
		return 0
	}

	if price > v.criteria.PlausiblePriceCeiling {
		res.Warnings = append(res.Warnings, domain.FieldIssue{
			Field:   "price",
			Code:    domain.CodeImplausiblePrice,
			Message: fmt.Sprintf("price £%d exceeds the plausibility ceiling of £%d", price, v.criteria.PlausiblePriceCeiling),
		})
	}

	return price
}

func (v *Validator) validateBedrooms(res *ValidationResult, rawBedrooms string) int {
	cleaned := strings.TrimSpace(rawBedrooms)
	if cleaned == "" {
		return 0
	}

	// Listings sometimes say "3 bedrooms"; keep the leading number.
	if i := strings.IndexByte(cleaned, ' '); i > 0 {
		cleaned = cleaned[:i]
	}

	bedrooms, err := strconv.Atoi(cleaned)
	if err != nil {
		res.Errors = append(res.Errors, domain.FieldIssue{
			Field:   "bedrooms",
			Code:    domain.CodeInvalidBedroomCount,
			Message: fmt.Sprintf("%q is not a whole number", rawBedrooms),
		})
		return 0
	}

	if bedrooms < 0 {
		res.Errors = append(res.Errors, domain.FieldIssue{
			Field:   "bedrooms",
			Code:    domain.CodeInvalidBedroomCount,
			Message: "bedroom count must not be negative",
		})
		return 0
	}

	if bedrooms > 10 {
		res.Warnings = append(res.Warnings, domain.FieldIssue{
			Field:   "bedrooms",
			Code:    domain.CodeUnusualBedroomCount,
			Message: fmt.Sprintf("%d bedrooms is outside the expected range", bedrooms),
		})
	}

	return bedrooms
}

func (v *Validator) validatePostcode(res *ValidationResult, rawPostcode string) string {
	postcode := strings.ToUpper(strings.Join(strings.Fields(rawPostcode), " "))
	if postcode == "" {
		return ""
	}

	if !domain.ValidPostcode(postcode) {
		res.Errors = append(res.Errors, domain.FieldIssue{
			Field:   "postcode",
			Code:    domain.CodeInvalidPostcodeFormat,
			Message: fmt.Sprintf("%q is not a valid UK postcode", rawPostcode),
		})
		return postcode
	}

	return postcode
}

func (v *Validator) validatePropertyType(res *ValidationResult, rawType string) string {
	trimmed := strings.TrimSpace(rawType)
	if trimmed == "" {
		return ""
	}

	if canonical, ok := typeSynonyms[strings.ToLower(trimmed)]; ok {
		return canonical
	}

	// A cases.Caser may carry state, so build one per call instead of
	// sharing an instance across concurrent validations.
	titler := cases.Title(language.BritishEnglish)
	titled := titler.String(strings.ToLower(trimmed))
	if _, ok := canonicalTypes[titled]; ok {
		return titled
	}

	res.Warnings = append(res.Warnings, domain.FieldIssue{
		Field:   "property_type",
		Code:    domain.CodeUnknownPropertyType,
		Message: fmt.Sprintf("%q is not a recognized property type", rawType),
	})

	return titled
}

func normalizeOutdoorSpace(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "None"
	}
	return trimmed
}

// carryDerivedFields copies caller-supplied enrichment values into the
// record so the enricher can skip the corresponding lookups.
func carryDerivedFields(rec *domain.PropertyRecord, raw domain.RawProperty) {
	rec.Latitude = raw.Latitude
	rec.Longitude = raw.Longitude
	rec.CommuteMinutes = raw.CommuteMinutes
	rec.DistanceToStationKM = raw.DistanceToStationKM

	switch domain.OfstedRating(strings.TrimSpace(raw.NearestSchoolOfsted)) {
	case domain.OfstedOutstanding:
		rec.NearestSchoolOfsted = domain.OfstedOutstanding
	case domain.OfstedGood:
		rec.NearestSchoolOfsted = domain.OfstedGood
	case domain.OfstedRequiresImprovement:
		rec.NearestSchoolOfsted = domain.OfstedRequiresImprovement
	case domain.OfstedInadequate:
		rec.NearestSchoolOfsted = domain.OfstedInadequate
	case domain.OfstedUnknown:
		rec.NearestSchoolOfsted = domain.OfstedUnknown
	}

	switch domain.GrammarProximity(strings.TrimSpace(raw.GrammarProximity)) {
	case domain.GrammarYes:
		rec.GrammarProximity = domain.GrammarYes
	case domain.GrammarPossible:
		rec.GrammarProximity = domain.GrammarPossible
	case domain.GrammarNo:
		rec.GrammarProximity = domain.GrammarNo
	}
}
