package location_lookup

// Response DTOs of the location API. Kept separate from the domain so a
// wire change never leaks into the core.

type commuteResponse struct {
	DurationMinutes float64 `json:"duration_minutes"`
	DistanceKM      float64 `json:"distance_km"`
	RouteSummary    string  `json:"route_summary"`
}

type stationResponse struct {
	Name       string   `json:"name"`
	DistanceKM float64  `json:"distance_km"`
	Lines      []string `json:"lines"`
}

type schoolResponse struct {
	Name         string  `json:"name"`
	OfstedRating string  `json:"ofsted_rating"`
	DistanceKM   float64 `json:"distance_km"`
}

type grammarResponse struct {
	InCatchment string   `json:"in_catchment"`
	Schools     []string `json:"schools"`
}
