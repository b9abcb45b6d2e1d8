package location_lookup

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/bchiyangwa9/london-property-analyzer/internal/core/domain"
	"github.com/bchiyangwa9/london-property-analyzer/internal/core/port"
)

// Simulator is an in-process LocationLookupPort double with curated data
// for the south-east London target area. It is fully deterministic: the
// same postcode always produces the same answer, which keeps pipeline
// runs and tests reproducible.
type Simulator struct{}

func NewSimulator() *Simulator {
	return &Simulator{}
}

type coord struct {
	lat, lon float64
}

// Approximate coordinates for key London postcodes.
var postcodeCoords = map[string]coord{
	// Central London
	"SE1 9SP":  {51.5074, -0.0886}, // London Bridge (reference)
	"SW1Y 5HX": {51.5074, -0.1372},
	"EC2V 7AN": {51.5155, -0.0922},
	"WC2N 5DU": {51.5098, -0.1241},

	// South East London
	"SE9 3JD":  {51.4394, 0.0755}, // Sidcup
	"SE9 1SZ":  {51.4269, 0.0745}, // New Eltham
	"BR6 0NZ":  {51.3562, 0.0956}, // Orpington
	"BR7 5EA":  {51.4053, 0.0364}, // Chislehurst
	"SE18 1JJ": {51.4934, 0.0670}, // Woolwich
	"DA14 4DX": {51.4500, 0.1167}, // Sidcup
	"DA15 7HD": {51.4333, 0.1500}, // Bexley
	"BR1 2TW":  {51.3706, 0.0106}, // Bromley

	// Transport hubs
	"SE10 9HT": {51.4826, -0.0077}, // Greenwich
	"SE13 7SD": {51.4615, -0.0157}, // Lewisham
	"SE6 4RU":  {51.4406, -0.0208}, // Catford
	"SE12 8RZ": {51.4298, 0.0188},  // Lee
	"SE3 9DS":  {51.4639, 0.0105},  // Blackheath
}

type stationEntry struct {
	station  string
	line     string
	walkMins float64
}

// Station connections for postcodes with curated data.
var stationByPostcode = map[string]stationEntry{
	"SE9 3JD":  {"Sidcup", "Bexleyheath Line", 8},
	"BR6 0NZ":  {"Orpington", "Main Line", 12},
	"BR7 5EA":  {"Elmstead Woods", "Main Line", 15},
	"SE18 1JJ": {"Woolwich Arsenal", "DLR/Elizabeth Line", 10},
	"DA14 4DX": {"Sidcup", "Bexleyheath Line", 6},
	"DA15 7HD": {"Bexley", "Bexleyheath Line", 9},
}

// Typical off-peak journey times into central London, in minutes.
var baseJourneyTimes = map[string]float64{
	"Sidcup":           35,
	"Orpington":        28,
	"Elmstead Woods":   32,
	"Woolwich Arsenal": 25,
	"Bexley":           40,
	"New Eltham":       30,
	"Chislehurst":      25,
}

type schoolEntry struct {
	name       string
	rating     domain.OfstedRating
	distanceKM float64
}

// Nearest rated schools keyed by outward code.
var schoolsByDistrict = map[string][]schoolEntry{
	"SE9": {
		{"Sidcup Primary School", domain.OfstedGood, 0.3},
		{"Longlands Primary School", domain.OfstedOutstanding, 0.8},
		{"Chislehurst & Sidcup Grammar School", domain.OfstedOutstanding, 1.2},
	},
	"BR6": {
		{"Orpington Primary School", domain.OfstedGood, 0.4},
		{"Newstead Wood School", domain.OfstedOutstanding, 0.6},
		{"St Olave's Grammar School", domain.OfstedOutstanding, 2.1},
	},
	"BR7": {
		{"Elmstead Primary School", domain.OfstedGood, 0.5},
		{"Bromley High School", domain.OfstedGood, 1.8},
	},
	"SE18": {
		{"Woolwich Polytechnic School", domain.OfstedGood, 0.7},
		{"St Peter's Catholic Primary School", domain.OfstedOutstanding, 0.9},
	},
	"DA14": {
		{"Sidcup Community Primary School", domain.OfstedGood, 0.4},
		{"Hurstmere School", domain.OfstedRequiresImprovement, 1.1},
	},
	"DA15": {
		{"Bexley Primary School", domain.OfstedGood, 0.6},
		{"Bexleyheath Academy", domain.OfstedGood, 1.5},
	},
}

// Grammar schools of the Bexley/Bromley selective area and the outward
// codes of their catchments.
var grammarCatchments = map[string][]string{
	"Bexley Grammar School":               {"DA5", "DA6", "DA7", "DA14", "DA15"},
	"Chislehurst & Sidcup Grammar School": {"SE9", "DA14", "DA15", "BR7"},
	"Newstead Wood School":                {"BR6", "BR2", "SE9", "DA14"},
	"St Olave's Grammar School":           {"BR6", "SE9", "BR7", "DA16"},
	"Townley Grammar School":              {"DA6", "DA7", "SE18", "DA14"},
}

// outwardCode returns the district part of a postcode ("SE9 4QX" -> "SE9").
func outwardCode(postcode string) string {
	normalized := strings.ToUpper(strings.TrimSpace(postcode))
	if i := strings.IndexByte(normalized, ' '); i > 0 {
		return normalized[:i]
	}
	// without the space the inward code is always the last 3 characters
	if len(normalized) > 3 {
		return normalized[:len(normalized)-3]
	}
	return normalized
}

// splitDistrict breaks an outward code into its area letters and
// district number ("SE9" -> "SE", 9).
func splitDistrict(outward string) (string, int) {
	i := 0
	for i < len(outward) && outward[i] >= 'A' && outward[i] <= 'Z' {
		i++
	}
	num, err := strconv.Atoi(outward[i:])
	if err != nil {
		return outward[:i], -1
	}
	return outward[:i], num
}

// haversineKM returns the great-circle distance between two coordinates.
func haversineKM(a, b coord) float64 {
	const earthRadiusKM = 6371

	dLat := (b.lat - a.lat) * math.Pi / 180
	dLon := (b.lon - a.lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(a.lat*math.Pi/180)*math.Cos(b.lat*math.Pi/180)*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	return earthRadiusKM * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

func (s *Simulator) CommuteTime(ctx context.Context, fromPostcode, toPostcode string) (*port.CommuteInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	from := strings.ToUpper(strings.TrimSpace(fromPostcode))
	to := strings.ToUpper(strings.TrimSpace(toPostcode))

	fromCoords, fromKnown := postcodeCoords[from]
	toCoords, toKnown := postcodeCoords[to]
	if !toKnown {
		toCoords = postcodeCoords["SE1 9SP"]
	}

	var durationMinutes, distanceKM float64
	summary := fmt.Sprintf("%s to %s via public transport", from, to)

	switch {
	case !fromKnown:
		// unknown postcode: flat estimate for the outer boroughs
		durationMinutes = 45
		distanceKM = 20
	default:
		distanceKM = haversineKM(fromCoords, toCoords)

		if entry, ok := stationByPostcode[from]; ok {
			base, ok := baseJourneyTimes[entry.station]
			if !ok {
				base = 40
			}
			durationMinutes = base + entry.walkMins
			summary = fmt.Sprintf("Walk to %s, then %s to London Bridge", entry.station, entry.station)
		} else {
			durationMinutes = distanceKM*2.5 + 10
		}
	}

	durationMinutes = math.Max(15, math.Min(75, durationMinutes))

	return &port.CommuteInfo{
		DurationMinutes: math.Round(durationMinutes),
		DistanceKM:      math.Round(distanceKM*10) / 10,
		RouteSummary:    summary,
	}, nil
}

func (s *Simulator) NearestStation(ctx context.Context, postcode string) (*port.StationInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	normalized := strings.ToUpper(strings.TrimSpace(postcode))
	if entry, ok := stationByPostcode[normalized]; ok {
		return &port.StationInfo{
			Name:       entry.station,
			DistanceKM: math.Round(entry.walkMins*0.08*10) / 10, // ~0.08 km per walking minute
			Lines:      []string{entry.line},
		}, nil
	}

	// deterministic fallback: pick a station from the target area keyed
	// on the outward code
	fallback := []string{"Sidcup", "Orpington", "New Eltham", "Woolwich Arsenal", "Bexley"}
	outward := outwardCode(normalized)
	var sum int
	for _, ch := range outward {
		sum += int(ch)
	}

	return &port.StationInfo{
		Name:       fallback[sum%len(fallback)],
		DistanceKM: 1.2,
		Lines:      []string{"National Rail"},
	}, nil
}

func (s *Simulator) NearestSchool(ctx context.Context, postcode string) (*port.SchoolInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	outward := outwardCode(postcode)

	schools, ok := schoolsByDistrict[outward]
	if !ok || len(schools) == 0 {
		return &port.SchoolInfo{
			Name:         fmt.Sprintf("%s Primary School", outward),
			OfstedRating: domain.OfstedGood,
			DistanceKM:   0.8,
		}, nil
	}

	nearest := schools[0]
	for _, school := range schools[1:] {
		if school.distanceKM < nearest.distanceKM {
			nearest = school
		}
	}

	return &port.SchoolInfo{
		Name:         nearest.name,
		OfstedRating: nearest.rating,
		DistanceKM:   nearest.distanceKM,
	}, nil
}

func (s *Simulator) GrammarSchools(ctx context.Context, postcode string) (*port.GrammarInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	outward := outwardCode(postcode)
	area, districtNum := splitDistrict(outward)

	var inCatchment, borderline []string
	for school, districts := range grammarCatchments {
		for _, district := range districts {
			if district == outward {
				inCatchment = append(inCatchment, school)
				break
			}

			// a neighbouring district of the same area counts as borderline
			catchArea, catchNum := splitDistrict(district)
			if districtNum >= 0 && catchNum >= 0 && catchArea == area &&
				(catchNum == districtNum-1 || catchNum == districtNum+1) {
				borderline = append(borderline, school)
				break
			}
		}
	}

	// map iteration order is random; sort so the answer is stable
	sort.Strings(inCatchment)
	sort.Strings(borderline)

	switch {
	case len(inCatchment) > 0:
		return &port.GrammarInfo{Proximity: domain.GrammarYes, Schools: inCatchment}, nil
	case len(borderline) > 0:
		return &port.GrammarInfo{Proximity: domain.GrammarPossible, Schools: borderline}, nil
	default:
		return &port.GrammarInfo{Proximity: domain.GrammarNo}, nil
	}
}
