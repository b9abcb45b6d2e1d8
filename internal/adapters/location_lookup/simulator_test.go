package location_lookup

import (
	"context"
	"testing"

	"github.com/bchiyangwa9/london-property-analyzer/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulatorCommuteKnownPostcode(t *testing.T) {
	t.Parallel()

	sim := NewSimulator()

	info, err := sim.CommuteTime(context.Background(), "SE9 3JD", "SE1 9SP")
	require.NoError(t, err)

	// Sidcup base journey of 35 plus an 8 minute walk
	assert.Equal(t, 43.0, info.DurationMinutes)
	assert.Greater(t, info.DistanceKM, 0.0)
	assert.Contains(t, info.RouteSummary, "Sidcup")
}

func TestSimulatorCommuteUnknownPostcodeUsesEstimate(t *testing.T) {
	t.Parallel()

	sim := NewSimulator()

	info, err := sim.CommuteTime(context.Background(), "N1 9GU", "SE1 9SP")
	require.NoError(t, err)

	assert.Equal(t, 45.0, info.DurationMinutes)
	assert.Equal(t, 20.0, info.DistanceKM)
}

func TestSimulatorCommuteIsDeterministic(t *testing.T) {
	t.Parallel()

	sim := NewSimulator()

	first, err := sim.CommuteTime(context.Background(), "DA15 7HD", "SE1 9SP")
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		again, err := sim.CommuteTime(context.Background(), "DA15 7HD", "SE1 9SP")
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestSimulatorNearestStation(t *testing.T) {
	t.Parallel()

	sim := NewSimulator()

	known, err := sim.NearestStation(context.Background(), "DA14 4DX")
	require.NoError(t, err)
	assert.Equal(t, "Sidcup", known.Name)

	unknown1, err := sim.NearestStation(context.Background(), "SW2 1AA")
	require.NoError(t, err)
	unknown2, err := sim.NearestStation(context.Background(), "SW2 9ZZ")
	require.NoError(t, err)
	// fallback depends only on the outward code
	assert.Equal(t, unknown1.Name, unknown2.Name)
}

func TestSimulatorNearestSchoolPicksClosest(t *testing.T) {
	t.Parallel()

	sim := NewSimulator()

	info, err := sim.NearestSchool(context.Background(), "SE9 4QX")
	require.NoError(t, err)

	assert.Equal(t, "Sidcup Primary School", info.Name)
	assert.Equal(t, domain.OfstedGood, info.OfstedRating)
}

func TestSimulatorNearestSchoolUnknownDistrict(t *testing.T) {
	t.Parallel()

	sim := NewSimulator()

	info, err := sim.NearestSchool(context.Background(), "N1 9GU")
	require.NoError(t, err)

	assert.Equal(t, "N1 Primary School", info.Name)
	assert.Equal(t, domain.OfstedGood, info.OfstedRating)
}

func TestSimulatorGrammarCatchments(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		postcode string
		want     domain.GrammarProximity
	}{
		{name: "inside catchment", postcode: "SE9 4QX", want: domain.GrammarYes},
		{name: "neighbouring district", postcode: "DA13 0AB", want: domain.GrammarPossible},
		{name: "outside the area", postcode: "N1 9GU", want: domain.GrammarNo},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			sim := NewSimulator()
			info, err := sim.GrammarSchools(context.Background(), tt.postcode)
			require.NoError(t, err)

			assert.Equal(t, tt.want, info.Proximity)
			if tt.want == domain.GrammarYes {
				assert.NotEmpty(t, info.Schools)
			}
		})
	}
}

func TestSimulatorGrammarSchoolsAreSorted(t *testing.T) {
	t.Parallel()

	sim := NewSimulator()

	first, err := sim.GrammarSchools(context.Background(), "DA14 4DX")
	require.NoError(t, err)
	require.Greater(t, len(first.Schools), 1)

	for i := 0; i < 20; i++ {
		again, err := sim.GrammarSchools(context.Background(), "DA14 4DX")
		require.NoError(t, err)
		assert.Equal(t, first.Schools, again.Schools)
	}
}

func TestSimulatorHonoursCancelledContext(t *testing.T) {
	t.Parallel()

	sim := NewSimulator()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := sim.CommuteTime(ctx, "SE9 3JD", "SE1 9SP")
	assert.ErrorIs(t, err, context.Canceled)
}
