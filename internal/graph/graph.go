// Package graph holds the adjacency structure searched by the route engine.
package graph

import (
	"sort"

	"github.com/smarttransit/flight-route-backend/internal/models"
)

// WeightField selects which leg attribute becomes the edge weight
type WeightField string

const (
	WeightPrice    WeightField = "price"
	WeightDuration WeightField = "duration"
	WeightHops     WeightField = "hops" // constant 1 per leg
)

// WeightFieldFor maps a search objective to its edge weight
func WeightFieldFor(objective models.Objective) WeightField {
	switch objective {
	case models.ObjectiveDuration:
		return WeightDuration
	case models.ObjectiveHops:
		return WeightHops
	default:
		return WeightPrice
	}
}

// Weight projects a leg onto the scalar used by the search
func (f WeightField) Weight(leg *models.EnrichedRoute) float64 {
	switch f {
	case WeightDuration:
		return float64(leg.DurationMin)
	case WeightHops:
		return 1
	default:
		return float64(leg.PriceUSD)
	}
}

// Edge is a directed connection to another airport
type Edge struct {
	To     string
	Weight float64
	Leg    *models.EnrichedRoute
}

// FlightGraph maps airport codes to their outgoing edges.
// It is not safe for concurrent mutation; once built it is only read.
type FlightGraph struct {
	airports  map[string]models.Airport
	adjacency map[string][]Edge
	edges     int
}

func NewFlightGraph() *FlightGraph {
	return &FlightGraph{
		airports:  make(map[string]models.Airport),
		adjacency: make(map[string][]Edge),
	}
}

// InsertAirport adds or replaces the airport stored under code
func (g *FlightGraph) InsertAirport(code string, airport models.Airport) {
	g.airports[code] = airport
}

// InsertLeg appends a directed edge. Parallel edges are kept.
func (g *FlightGraph) InsertLeg(origin, destination string, weight float64, leg *models.EnrichedRoute) {
	g.adjacency[origin] = append(g.adjacency[origin], Edge{
		To:     destination,
		Weight: weight,
		Leg:    leg,
	})
	g.edges++
}

// Neighbors returns the outgoing edges of code in insertion order.
// Unknown and isolated airports have none.
func (g *FlightGraph) Neighbors(code string) []Edge {
	return g.adjacency[code]
}

func (g *FlightGraph) Exists(code string) bool {
	_, ok := g.airports[code]
	return ok
}

// Airport returns the airport stored under code
func (g *FlightGraph) Airport(code string) (models.Airport, bool) {
	airport, ok := g.airports[code]
	return airport, ok
}

// Codes returns all airport codes in lexical order
func (g *FlightGraph) Codes() []string {
	codes := make([]string, 0, len(g.airports))
	for code := range g.airports {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

func (g *FlightGraph) AirportCount() int { return len(g.airports) }

func (g *FlightGraph) EdgeCount() int { return g.edges }

// SourceCount returns the number of airports with at least one outgoing edge
func (g *FlightGraph) SourceCount() int { return len(g.adjacency) }

// Build creates a graph from airports and enriched legs weighted by field.
//
// The route dataset is directed but the network is searched as undirected:
// every leg is inserted as a forward edge and as a reverse edge whose payload
// is a copy with origin and destination swapped. Both edges carry the same
// weight.
func Build(airports map[string]models.Airport, legs []models.EnrichedRoute, field WeightField) *FlightGraph {
	g := NewFlightGraph()
	for code, airport := range airports {
		g.InsertAirport(code, airport)
	}

	for i := range legs {
		leg := &legs[i]
		weight := field.Weight(leg)

		g.InsertLeg(leg.Origin, leg.Destination, weight, leg)

		reverse := leg.Reversed()
		g.InsertLeg(reverse.Origin, reverse.Destination, weight, &reverse)
	}

	return g
}
