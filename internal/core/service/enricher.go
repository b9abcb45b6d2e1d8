package service

import (
	"context"
	"time"

	"github.com/bchiyangwa9/london-property-analyzer/internal/contextkeys"
	"github.com/bchiyangwa9/london-property-analyzer/internal/core/domain"
	"github.com/bchiyangwa9/london-property-analyzer/internal/core/port"
)

const defaultLookupTimeout = 5 * time.Second

// Enricher fills the derived fields of a record through location lookups.
// A failed lookup degrades to a sentinel value and a warning in the log;
// it never fails the record.
type Enricher struct {
	lookup        port.LocationLookupPort
	criteria      domain.ScoringCriteria
	lookupTimeout time.Duration
}

// NewEnricher builds an enricher. lookupTimeout bounds each individual
// lookup; zero selects the default.
func NewEnricher(lookup port.LocationLookupPort, criteria domain.ScoringCriteria, lookupTimeout time.Duration) (*Enricher, error) {
	if err := criteria.Validate(); err != nil {
		return nil, err
	}

	if lookupTimeout <= 0 {
		lookupTimeout = defaultLookupTimeout
	}

	return &Enricher{
		lookup:        lookup,
		criteria:      criteria,
		lookupTimeout: lookupTimeout,
	}, nil
}

// Enrich returns a copy of rec with derived fields populated. Fields that
// already hold a value are left untouched, so enrichment is idempotent.
// Without a usable postcode there is nothing to look up and the record
// comes back unchanged.
func (e *Enricher) Enrich(ctx context.Context, rec domain.PropertyRecord) domain.PropertyRecord {
	if !domain.ValidPostcode(rec.Postcode) {
		return rec
	}

	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"property_id": rec.PropertyID,
		"postcode":    rec.Postcode,
	})

	if rec.CommuteMinutes == nil {
		rec = e.enrichCommute(ctx, rec, logger)
	}
	if rec.DistanceToStationKM == nil {
		rec = e.enrichStation(ctx, rec, logger)
	}
	if rec.NearestSchoolOfsted == "" {
		rec = e.enrichSchool(ctx, rec, logger)
	}
	if rec.GrammarProximity == "" {
		rec = e.enrichGrammar(ctx, rec, logger)
	}

	return rec
}

func (e *Enricher) enrichCommute(ctx context.Context, rec domain.PropertyRecord, logger port.LoggerPort) domain.PropertyRecord {
	lookupCtx, cancel := context.WithTimeout(ctx, e.lookupTimeout)
	defer cancel()

	info, err := e.lookup.CommuteTime(lookupCtx, rec.Postcode, e.criteria.ReferencePostcode)
	if err != nil {
		failure := &domain.EnrichmentFailure{Field: "commute_minutes", Cause: err}
		logger.Warn("Commute lookup failed, falling back to the worst acceptable commute", port.Fields{
			"error": failure.Error(),
		})

		// pessimistic sentinel: assume the commute is right at the limit
		sentinel := e.criteria.MaxCommuteMinutes
		rec.CommuteMinutes = &sentinel
		return rec
	}

	minutes := info.DurationMinutes
	rec.CommuteMinutes = &minutes
	return rec
}

func (e *Enricher) enrichStation(ctx context.Context, rec domain.PropertyRecord, logger port.LoggerPort) domain.PropertyRecord {
	lookupCtx, cancel := context.WithTimeout(ctx, e.lookupTimeout)
	defer cancel()

	info, err := e.lookup.NearestStation(lookupCtx, rec.Postcode)
	if err != nil {
		failure := &domain.EnrichmentFailure{Field: "distance_to_station_km", Cause: err}
		logger.Warn("Station lookup failed, leaving distance unknown", port.Fields{
			"error": failure.Error(),
		})
		return rec
	}

	distance := info.DistanceKM
	rec.DistanceToStationKM = &distance
	rec.NearestStation = info.Name
	return rec
}

func (e *Enricher) enrichSchool(ctx context.Context, rec domain.PropertyRecord, logger port.LoggerPort) domain.PropertyRecord {
	lookupCtx, cancel := context.WithTimeout(ctx, e.lookupTimeout)
	defer cancel()

	info, err := e.lookup.NearestSchool(lookupCtx, rec.Postcode)
	if err != nil {
		failure := &domain.EnrichmentFailure{Field: "nearest_school_ofsted", Cause: err}
		logger.Warn("School lookup failed, rating set to Unknown", port.Fields{
			"error": failure.Error(),
		})

		rec.NearestSchoolOfsted = domain.OfstedUnknown
		return rec
	}

	rec.NearestSchoolOfsted = info.OfstedRating
	rec.NearestSchoolName = info.Name
	return rec
}

func (e *Enricher) enrichGrammar(ctx context.Context, rec domain.PropertyRecord, logger port.LoggerPort) domain.PropertyRecord {
	lookupCtx, cancel := context.WithTimeout(ctx, e.lookupTimeout)
	defer cancel()

	info, err := e.lookup.GrammarSchools(lookupCtx, rec.Postcode)
	if err != nil {
		failure := &domain.EnrichmentFailure{Field: "grammar_school_proximity", Cause: err}
		logger.Warn("Grammar school lookup failed, proximity set to No", port.Fields{
			"error": failure.Error(),
		})

		rec.GrammarProximity = domain.GrammarNo
		return rec
	}

	rec.GrammarProximity = info.Proximity
	rec.GrammarSchools = info.Schools
	return rec
}
