package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bchiyangwa9/london-property-analyzer/internal/core/domain"
	"github.com/bchiyangwa9/london-property-analyzer/internal/core/port"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errLookupDown = errors.New("lookup service unavailable")

// stubLookup answers with canned values and counts calls per method.
type stubLookup struct {
	commute *port.CommuteInfo
	station *port.StationInfo
	school  *port.SchoolInfo
	grammar *port.GrammarInfo

	failCommute bool
	failStation bool
	failSchool  bool
	failGrammar bool

	commuteCalls int
	stationCalls int
	schoolCalls  int
	grammarCalls int
}

func (s *stubLookup) CommuteTime(ctx context.Context, from, to string) (*port.CommuteInfo, error) {
	s.commuteCalls++
	if s.failCommute {
		return nil, errLookupDown
	}
	return s.commute, nil
}

func (s *stubLookup) NearestStation(ctx context.Context, postcode string) (*port.StationInfo, error) {
	s.stationCalls++
	if s.failStation {
		return nil, errLookupDown
	}
	return s.station, nil
}

func (s *stubLookup) NearestSchool(ctx context.Context, postcode string) (*port.SchoolInfo, error) {
	s.schoolCalls++
	if s.failSchool {
		return nil, errLookupDown
	}
	return s.school, nil
}

func (s *stubLookup) GrammarSchools(ctx context.Context, postcode string) (*port.GrammarInfo, error) {
	s.grammarCalls++
	if s.failGrammar {
		return nil, errLookupDown
	}
	return s.grammar, nil
}

func healthyLookup() *stubLookup {
	return &stubLookup{
		commute: &port.CommuteInfo{DurationMinutes: 38, DistanceKM: 14.2},
		station: &port.StationInfo{Name: "Eltham", DistanceKM: 0.9},
		school:  &port.SchoolInfo{Name: "Harris Academy", OfstedRating: domain.OfstedGood},
		grammar: &port.GrammarInfo{Proximity: domain.GrammarPossible, Schools: []string{"St Olave's"}},
	}
}

func newTestEnricher(t *testing.T, lookup port.LocationLookupPort) *Enricher {
	t.Helper()

	e, err := NewEnricher(lookup, domain.DefaultCriteria(), 100*time.Millisecond)
	require.NoError(t, err)
	return e
}

func bareRecord() domain.PropertyRecord {
	return domain.PropertyRecord{
		PropertyID:   "prop-001",
		Price:        350_000,
		Bedrooms:     3,
		Postcode:     "SE9 4QX",
		PropertyType: "Terraced House",
	}
}

func TestEnricherFillsAllDerivedFields(t *testing.T) {
	t.Parallel()

	lookup := healthyLookup()
	e := newTestEnricher(t, lookup)

	rec := e.Enrich(context.Background(), bareRecord())

	require.NotNil(t, rec.CommuteMinutes)
	assert.Equal(t, 38.0, *rec.CommuteMinutes)
	require.NotNil(t, rec.DistanceToStationKM)
	assert.Equal(t, 0.9, *rec.DistanceToStationKM)
	assert.Equal(t, "Eltham", rec.NearestStation)
	assert.Equal(t, domain.OfstedGood, rec.NearestSchoolOfsted)
	assert.Equal(t, "Harris Academy", rec.NearestSchoolName)
	assert.Equal(t, domain.GrammarPossible, rec.GrammarProximity)
	assert.True(t, rec.Enriched())
}

func TestEnricherSkipsWithoutPostcode(t *testing.T) {
	t.Parallel()

	lookup := healthyLookup()
	e := newTestEnricher(t, lookup)

	rec := bareRecord()
	rec.Postcode = ""

	out := e.Enrich(context.Background(), rec)

	assert.Equal(t, rec, out)
	assert.Zero(t, lookup.commuteCalls)
	assert.Zero(t, lookup.stationCalls)
	assert.Zero(t, lookup.schoolCalls)
	assert.Zero(t, lookup.grammarCalls)
}

func TestEnricherIsIdempotent(t *testing.T) {
	t.Parallel()

	lookup := healthyLookup()
	e := newTestEnricher(t, lookup)

	once := e.Enrich(context.Background(), bareRecord())
	twice := e.Enrich(context.Background(), once)

	assert.Equal(t, once, twice)
	// the second pass must not touch the lookup at all
	assert.Equal(t, 1, lookup.commuteCalls)
	assert.Equal(t, 1, lookup.stationCalls)
	assert.Equal(t, 1, lookup.schoolCalls)
	assert.Equal(t, 1, lookup.grammarCalls)
}

func TestEnricherLeavesPresetFieldsAlone(t *testing.T) {
	t.Parallel()

	lookup := healthyLookup()
	e := newTestEnricher(t, lookup)

	preset := 22.5
	rec := bareRecord()
	rec.CommuteMinutes = &preset

	out := e.Enrich(context.Background(), rec)

	assert.Equal(t, 22.5, *out.CommuteMinutes)
	assert.Zero(t, lookup.commuteCalls)
	assert.Equal(t, 1, lookup.schoolCalls)
}

func TestEnricherDegradesToSentinelsOnFailure(t *testing.T) {
	t.Parallel()

	lookup := healthyLookup()
	lookup.failCommute = true
	lookup.failStation = true
	lookup.failSchool = true
	lookup.failGrammar = true

	e := newTestEnricher(t, lookup)
	rec := e.Enrich(context.Background(), bareRecord())

	// commute assumes the worst acceptable journey
	require.NotNil(t, rec.CommuteMinutes)
	assert.Equal(t, 60.0, *rec.CommuteMinutes)

	// unknown distance stays unknown
	assert.Nil(t, rec.DistanceToStationKM)

	assert.Equal(t, domain.OfstedUnknown, rec.NearestSchoolOfsted)
	assert.Equal(t, domain.GrammarNo, rec.GrammarProximity)
}

func TestEnricherPartialFailureKeepsOtherFields(t *testing.T) {
	t.Parallel()

	lookup := healthyLookup()
	lookup.failSchool = true

	e := newTestEnricher(t, lookup)
	rec := e.Enrich(context.Background(), bareRecord())

	require.NotNil(t, rec.CommuteMinutes)
	assert.Equal(t, 38.0, *rec.CommuteMinutes)
	assert.Equal(t, domain.OfstedUnknown, rec.NearestSchoolOfsted)
	assert.Equal(t, domain.GrammarPossible, rec.GrammarProximity)
}
