package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/smarttransit/flight-route-backend/pkg/validator"
)

// Objective is the scalar quantity minimised by the route search
type Objective string

const (
	ObjectivePrice    Objective = "price"
	ObjectiveDuration Objective = "duration"
	ObjectiveHops     Objective = "hops"
)

// ParseObjective converts user input into an Objective.
// An empty value selects price, the default of the search form.
func ParseObjective(value string) (Objective, error) {
	switch Objective(strings.ToLower(strings.TrimSpace(value))) {
	case "", ObjectivePrice:
		return ObjectivePrice, nil
	case ObjectiveDuration:
		return ObjectiveDuration, nil
	case ObjectiveHops:
		return ObjectiveHops, nil
	}
	return "", ErrInvalidInput(fmt.Sprintf("unknown objective %q (must be price, duration or hops)", value))
}

// SearchRequest represents a passenger's itinerary search
type SearchRequest struct {
	Origin         string    `json:"origin" binding:"required"`      // IATA code, e.g. "LIM"
	Destination    string    `json:"destination" binding:"required"` // IATA code, e.g. "MAD"
	Objective      Objective `json:"objective,omitempty"`            // price (default), duration or hops
	MaxStops       *int      `json:"max_stops,omitempty"`            // Maximum number of legs; nil uses the configured default
	MaxPrice       *int      `json:"max_price,omitempty"`            // Optional: reject itineraries above this total price
	MaxDurationMin *int      `json:"max_duration_min,omitempty"`     // Optional: reject itineraries above this total duration
}

// Validate normalises the request and rejects malformed input before any
// search work starts
func (r *SearchRequest) Validate(defaultMaxStops int) error {
	codes := validator.NewCodeValidator()

	origin, err := codes.ValidateAirport(r.Origin)
	if err != nil {
		return ErrInvalidInput(fmt.Sprintf("origin: %v", err))
	}
	destination, err := codes.ValidateAirport(r.Destination)
	if err != nil {
		return ErrInvalidInput(fmt.Sprintf("destination: %v", err))
	}
	if origin == destination {
		return ErrInvalidInput("origin and destination cannot be the same")
	}
	r.Origin, r.Destination = origin, destination

	objective, err := ParseObjective(string(r.Objective))
	if err != nil {
		return err
	}
	r.Objective = objective

	if r.MaxStops == nil {
		stops := defaultMaxStops
		r.MaxStops = &stops
	}
	if *r.MaxStops < 0 {
		return ErrInvalidInput("max_stops cannot be negative")
	}
	if r.MaxPrice != nil && *r.MaxPrice < 0 {
		return ErrInvalidInput("max_price cannot be negative")
	}
	if r.MaxDurationMin != nil && *r.MaxDurationMin < 0 {
		return ErrInvalidInput("max_duration_min cannot be negative")
	}

	return nil
}

// Itinerary is the result of a successful route search
type Itinerary struct {
	Path       []string        `json:"path"`        // Airport codes from origin to destination
	Legs       []EnrichedRoute `json:"legs"`        // One leg per consecutive pair in Path
	TotalCost  float64         `json:"total_cost"`  // Sum of traversed edge weights
	TotalStops int             `json:"total_stops"` // len(Path) - 1
}

// SearchResponse represents the search result returned to the client
type SearchResponse struct {
	Status       string            `json:"status"` // "success", "not_found"
	Message      string            `json:"message"`
	Found        bool              `json:"found"`
	Criteria     SearchCriteria    `json:"criteria"`
	Itinerary    *Itinerary        `json:"itinerary,omitempty"`
	Summary      *ItinerarySummary `json:"summary,omitempty"`
	Segments     []LegDetail       `json:"segments,omitempty"`
	SearchTimeMs int64             `json:"search_time_ms"`
}

// SearchCriteria echoes the normalised request
type SearchCriteria struct {
	Origin      string    `json:"origin"`
	Destination string    `json:"destination"`
	Objective   Objective `json:"objective"`
	MaxStops    int       `json:"max_stops"`
}

// ItinerarySummary aggregates the legs of an itinerary
type ItinerarySummary struct {
	TotalPriceUSD    int     `json:"total_price_usd"`
	TotalDurationMin int     `json:"total_duration_min"`
	TotalDuration    string  `json:"total_duration"` // e.g. "7h 45min"
	TotalDistanceKm  float64 `json:"total_distance_km"`
	Stops            int     `json:"stops"`
	Route            string  `json:"route"` // e.g. "LIM (Lima) → BOG (Bogota)"
}

// LegDetail describes one leg of an itinerary for presentation layers
type LegDetail struct {
	Sequence    int        `json:"sequence"`
	Airline     string     `json:"airline"`
	From        AirportRef `json:"from"`
	To          AirportRef `json:"to"`
	DistanceKm  float64    `json:"distance_km"`
	DurationMin int        `json:"duration_min"`
	Duration    string     `json:"duration"`
	PriceUSD    int        `json:"price_usd"`
}

// DirectFlightsRequest lists non-stop legs between two airports
type DirectFlightsRequest struct {
	Origin         string `form:"origin" binding:"required"`
	Destination    string `form:"destination" binding:"required"`
	Objective      string `form:"objective"`
	MaxPrice       *int   `form:"max_price"`
	MaxDurationMin *int   `form:"max_duration"`
	Limit          int    `form:"limit"`
}

// Validate normalises the codes and limit of a direct flights query
func (r *DirectFlightsRequest) Validate(maxLimit int) (Objective, error) {
	codes := validator.NewCodeValidator()

	origin, err := codes.ValidateAirport(r.Origin)
	if err != nil {
		return "", ErrInvalidInput(fmt.Sprintf("origin: %v", err))
	}
	destination, err := codes.ValidateAirport(r.Destination)
	if err != nil {
		return "", ErrInvalidInput(fmt.Sprintf("destination: %v", err))
	}
	if origin == destination {
		return "", ErrInvalidInput("origin and destination cannot be the same")
	}
	r.Origin, r.Destination = origin, destination

	objective, err := ParseObjective(r.Objective)
	if err != nil {
		return "", err
	}
	r.Objective = string(objective)

	if r.Limit <= 0 || r.Limit > maxLimit {
		r.Limit = maxLimit
	}
	if r.MaxPrice != nil && *r.MaxPrice < 0 {
		return "", ErrInvalidInput("max_price cannot be negative")
	}
	if r.MaxDurationMin != nil && *r.MaxDurationMin < 0 {
		return "", ErrInvalidInput("max_duration cannot be negative")
	}

	return objective, nil
}

// DirectFlightsResponse holds the filtered direct legs
type DirectFlightsResponse struct {
	Status         string          `json:"status"`
	Message        string          `json:"message"`
	FiltersApplied bool            `json:"filters_applied"`
	TotalDirect    int             `json:"total_direct"` // Direct legs before filtering
	Flights        []EnrichedRoute `json:"flights"`
}

// AirportSuggestion represents an airport suggestion for autocomplete
type AirportSuggestion struct {
	Code       string `json:"code"`
	Label      string `json:"label"`
	Name       string `json:"name"`
	City       string `json:"city"`
	Country    string `json:"country"`
	RouteCount int    `json:"route_count"` // Legs touching this airport
}

// DatasetStats summarises the loaded dataset
type DatasetStats struct {
	TotalAirports int          `json:"total_airports"`
	TotalRoutes   int          `json:"total_routes"`
	TotalAirlines int          `json:"total_airlines"`
	TopCountries  []NamedCount `json:"top_countries"`
	TopAirlines   []NamedCount `json:"top_airlines"`
	LoadedAt      time.Time    `json:"loaded_at"`
}

// NamedCount is a (name, count) pair used in rankings
type NamedCount struct {
	Code  string `json:"code,omitempty"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// SearchLog represents a search analytics record
type SearchLog struct {
	ID             uuid.UUID `json:"id" db:"id"`
	Origin         string    `json:"origin" db:"origin"`
	Destination    string    `json:"destination" db:"destination"`
	Objective      string    `json:"objective" db:"objective"`
	MaxStops       int       `json:"max_stops" db:"max_stops"`
	Found          bool      `json:"found" db:"found"`
	TotalStops     *int      `json:"total_stops,omitempty" db:"total_stops"`
	TotalCost      *float64  `json:"total_cost,omitempty" db:"total_cost"`
	ResponseTimeMs int64     `json:"response_time_ms" db:"response_time_ms"`
	IPAddress      *string   `json:"ip_address,omitempty" db:"ip_address"`
	DeviceType     *string   `json:"device_type,omitempty" db:"device_type"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// SearchAnalytics aggregates search logs for the admin dashboard
type SearchAnalytics struct {
	Days           int          `json:"days"`
	TotalSearches  int          `json:"total_searches"`
	FoundSearches  int          `json:"found_searches"`
	AvgResponseMs  float64      `json:"avg_response_ms"`
	TopRoutes      []NamedCount `json:"top_routes"`
	ObjectiveUsage []NamedCount `json:"objective_usage"`
}

// ClientInfo carries request metadata recorded alongside a search
type ClientInfo struct {
	IPAddress  string
	DeviceType string
}
