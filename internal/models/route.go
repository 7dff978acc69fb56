package models

// RouteLeg is a raw, directed non-stop flight candidate as ingested from routes.dat
type RouteLeg struct {
	Airline     string      `json:"airline" db:"airline"`
	AirlineID   string      `json:"airline_id" db:"airline_id"`
	Origin      string      `json:"origin" db:"origin"`
	Destination string      `json:"destination" db:"destination"`
	Codeshare   string      `json:"codeshare" db:"codeshare"`
	Stops       int         `json:"stops" db:"stops"`
	Equipment   StringArray `json:"equipment" db:"equipment"`
}

// Eligible reports whether the leg may enter the flight graph.
// Only non-stop legs are eligible.
func (r *RouteLeg) Eligible() bool {
	return r.Stops == 0
}

// LegAttributes holds the synthetic values derived for a directed leg
type LegAttributes struct {
	DistanceKm  float64 `json:"distance_km" db:"distance_km"`
	DurationMin int     `json:"duration_min" db:"duration_min"`
	PriceUSD    int     `json:"price_usd" db:"price_usd"`
}

// EnrichedRoute is a raw leg plus its derived distance, duration and price.
// It is the primary record handed to the graph builder.
type EnrichedRoute struct {
	RouteLeg
	LegAttributes
}

// Reversed returns a copy of the route travelling destination→origin.
// The flight network is searched as undirected even though the source data
// is directed, so every leg is also offered in the opposite direction with
// the same attributes.
func (r EnrichedRoute) Reversed() EnrichedRoute {
	rev := r
	rev.Origin, rev.Destination = r.Destination, r.Origin
	if r.Equipment != nil {
		rev.Equipment = append(StringArray(nil), r.Equipment...)
	}
	return rev
}
