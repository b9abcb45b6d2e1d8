package port

import (
	"context"

	"github.com/bchiyangwa9/london-property-analyzer/internal/core/domain"
)

// CommuteInfo is a journey estimate between two postcodes.
type CommuteInfo struct {
	DurationMinutes float64
	DistanceKM      float64
	RouteSummary    string
}

// StationInfo describes the rail station nearest to a postcode.
type StationInfo struct {
	Name       string
	DistanceKM float64
	Lines      []string
}

// SchoolInfo describes the nearest rated school.
type SchoolInfo struct {
	Name         string
	OfstedRating domain.OfstedRating
	DistanceKM   float64
}

// GrammarInfo describes grammar-school catchment for a postcode.
type GrammarInfo struct {
	Proximity domain.GrammarProximity
	Schools   []string
}

// LocationLookupPort answers location questions about a postcode. Every
// call honours ctx cancellation and deadlines; the enricher bounds each
// lookup with a per-call timeout.
type LocationLookupPort interface {
	CommuteTime(ctx context.Context, fromPostcode, toPostcode string) (*CommuteInfo, error)
	NearestStation(ctx context.Context, postcode string) (*StationInfo, error)
	NearestSchool(ctx context.Context, postcode string) (*SchoolInfo, error)
	GrammarSchools(ctx context.Context, postcode string) (*GrammarInfo, error)
}
