package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bchiyangwa9/london-property-analyzer/internal/core/domain"
	"github.com/bchiyangwa9/london-property-analyzer/internal/core/port"
	"github.com/bchiyangwa9/london-property-analyzer/internal/core/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLookup returns fixed values and tracks concurrent callers.
type fakeLookup struct {
	delay time.Duration
	fail  bool

	inFlight    int64
	maxInFlight int64
	mu          sync.Mutex
}

func (f *fakeLookup) enter() {
	current := atomic.AddInt64(&f.inFlight, 1)
	f.mu.Lock()
	if current > f.maxInFlight {
		f.maxInFlight = current
	}
	f.mu.Unlock()

	if f.delay > 0 {
		time.Sleep(f.delay)
	}
}

func (f *fakeLookup) leave() {
	atomic.AddInt64(&f.inFlight, -1)
}

func (f *fakeLookup) CommuteTime(ctx context.Context, from, to string) (*port.CommuteInfo, error) {
	f.enter()
	defer f.leave()
	if f.fail {
		return nil, errors.New("maps api down")
	}
	return &port.CommuteInfo{DurationMinutes: 35}, nil
}

func (f *fakeLookup) NearestStation(ctx context.Context, postcode string) (*port.StationInfo, error) {
	if f.fail {
		return nil, errors.New("maps api down")
	}
	return &port.StationInfo{Name: "Eltham", DistanceKM: 1.1}, nil
}

func (f *fakeLookup) NearestSchool(ctx context.Context, postcode string) (*port.SchoolInfo, error) {
	if f.fail {
		return nil, errors.New("ofsted api down")
	}
	return &port.SchoolInfo{Name: "Eltham Primary", OfstedRating: domain.OfstedGood}, nil
}

func (f *fakeLookup) GrammarSchools(ctx context.Context, postcode string) (*port.GrammarInfo, error) {
	if f.fail {
		return nil, errors.New("grammar api down")
	}
	return &port.GrammarInfo{Proximity: domain.GrammarYes}, nil
}

func newPipeline(t *testing.T, lookup port.LocationLookupPort, maxWorkers int) *ProcessPropertyUseCase {
	t.Helper()

	criteria := domain.DefaultCriteria()

	validator, err := service.NewValidator(criteria)
	require.NoError(t, err)
	enricher, err := service.NewEnricher(lookup, criteria, time.Second)
	require.NoError(t, err)
	scorer, err := service.NewScorer(criteria)
	require.NoError(t, err)

	return NewProcessPropertyUseCase(validator, enricher, scorer, maxWorkers)
}

func rawFixture(id string) domain.RawProperty {
	return domain.RawProperty{
		PropertyID:   id,
		Price:        "£340,000",
		Bedrooms:     "3",
		Postcode:     "SE9 4QX",
		PropertyType: "Terraced House",
		OutdoorSpace: "Garden",
	}
}

func TestProcessPropertyHappyPath(t *testing.T) {
	t.Parallel()

	uc := newPipeline(t, &fakeLookup{}, 0)

	out, err := uc.Execute(context.Background(), rawFixture("prop-001"))
	require.NoError(t, err)

	require.True(t, out.Valid())
	require.NotNil(t, out.Scores)
	assert.False(t, out.ProcessedAt.IsZero())
	assert.False(t, out.Record.AddedAt.IsZero())
	assert.True(t, out.Record.Enriched())

	// price 340k -> 20, commute 35 -> 15, terraced -> 10, 3 beds -> 8,
	// garden -> 8, Good -> 8, grammar Yes -> 10
	assert.Equal(t, 79.0, out.Scores.TotalScore)
}

func TestProcessPropertyInvalidRecordGetsNoScores(t *testing.T) {
	t.Parallel()

	uc := newPipeline(t, &fakeLookup{}, 0)

	raw := rawFixture("prop-002")
	raw.Price = "POA"

	out, err := uc.Execute(context.Background(), raw)
	require.NoError(t, err)

	assert.False(t, out.Valid())
	assert.Nil(t, out.Scores)
	require.Len(t, out.ValidationErrors, 1)
	assert.Equal(t, domain.CodeInvalidPrice, out.ValidationErrors[0].Code)
	assert.False(t, out.ProcessedAt.IsZero())
}

func TestProcessPropertyLookupFailureStillScores(t *testing.T) {
	t.Parallel()

	uc := newPipeline(t, &fakeLookup{fail: true}, 0)

	out, err := uc.Execute(context.Background(), rawFixture("prop-003"))
	require.NoError(t, err)

	require.True(t, out.Valid())
	require.NotNil(t, out.Scores)

	// sentinel commute of 60 minutes lands in the worst paying band
	assert.Equal(t, 5.0, out.Scores.CommuteScore)
	assert.Equal(t, domain.OfstedUnknown, out.Record.NearestSchoolOfsted)
	assert.Equal(t, domain.GrammarNo, out.Record.GrammarProximity)
}

func TestProcessPropertyCancelledContext(t *testing.T) {
	t.Parallel()

	uc := newPipeline(t, &fakeLookup{}, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := uc.Execute(ctx, rawFixture("prop-004"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExecuteBatchPreservesInputOrder(t *testing.T) {
	t.Parallel()

	uc := newPipeline(t, &fakeLookup{delay: 5 * time.Millisecond}, 3)

	raws := make([]domain.RawProperty, 20)
	for i := range raws {
		raws[i] = rawFixture(fmt.Sprintf("prop-%03d", i))
	}
	// one invalid record in the middle
	raws[7].Postcode = "not a postcode"

	results, err := uc.ExecuteBatch(context.Background(), raws)
	require.NoError(t, err)
	require.Len(t, results, len(raws))

	for i, res := range results {
		assert.Equal(t, fmt.Sprintf("prop-%03d", i), res.Record.PropertyID)
	}

	assert.False(t, results[7].Valid())
	assert.True(t, results[6].Valid())
	assert.True(t, results[8].Valid())
}

func TestExecuteBatchRespectsWorkerLimit(t *testing.T) {
	t.Parallel()

	lookup := &fakeLookup{delay: 10 * time.Millisecond}
	uc := newPipeline(t, lookup, 2)

	raws := make([]domain.RawProperty, 12)
	for i := range raws {
		raws[i] = rawFixture(fmt.Sprintf("prop-%03d", i))
	}

	_, err := uc.ExecuteBatch(context.Background(), raws)
	require.NoError(t, err)

	assert.LessOrEqual(t, lookup.maxInFlight, int64(2))
}

func TestExecuteBatchEmptyInput(t *testing.T) {
	t.Parallel()

	uc := newPipeline(t, &fakeLookup{}, 0)

	results, err := uc.ExecuteBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}
