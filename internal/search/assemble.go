package search

import (
	"fmt"
	"slices"

	"github.com/smarttransit/flight-route-backend/internal/models"
)

// assemble walks the parent chain of the destination label back to the
// origin and returns the itinerary in travel order. A chain that does not
// form a contiguous path from origin is a bug in the search and panics.
func assemble(destination *label, origin string) *models.Itinerary {
	var path []string
	var legs []models.EnrichedRoute

	for l := destination; l != nil; l = l.parent {
		path = append(path, l.node)
		if l.leg != nil {
			legs = append(legs, *l.leg)
		}
	}

	slices.Reverse(path)
	slices.Reverse(legs)

	if path[0] != origin {
		panic(fmt.Sprintf("search: path starts at %s, want %s", path[0], origin))
	}
	if len(legs) != len(path)-1 {
		panic(fmt.Sprintf("search: %d legs for a path of %d airports", len(legs), len(path)))
	}
	if len(legs) != destination.hops {
		panic(fmt.Sprintf("search: %d legs recorded but label counts %d", len(legs), destination.hops))
	}
	for i, leg := range legs {
		if leg.Origin != path[i] || leg.Destination != path[i+1] {
			panic(fmt.Sprintf("search: leg %d is %s-%s, path has %s-%s",
				i, leg.Origin, leg.Destination, path[i], path[i+1]))
		}
	}

	return &models.Itinerary{
		Path:       path,
		Legs:       legs,
		TotalCost:  destination.cost,
		TotalStops: len(path) - 1,
	}
}
