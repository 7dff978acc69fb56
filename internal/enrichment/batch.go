package enrichment

import (
	"context"
	"fmt"

	"github.com/smarttransit/flight-route-backend/internal/models"
	"golang.org/x/sync/errgroup"
)

// BatchStats reports the outcome of a batch enrichment
type BatchStats struct {
	Processed int `json:"processed"`
	Skipped   int `json:"skipped"` // Legs whose endpoints are missing or not eligible
}

// EnrichAll enriches every eligible leg whose endpoints are known airports.
// The work is split into contiguous partitions processed concurrently; the
// output keeps the input order. Enrichment is pure, so partitions share no
// mutable state.
func EnrichAll(
	ctx context.Context,
	airports map[string]models.Airport,
	routes []models.RouteLeg,
	workers int,
) ([]models.EnrichedRoute, BatchStats, error) {
	if workers < 1 {
		workers = 1
	}
	if workers > len(routes) && len(routes) > 0 {
		workers = len(routes)
	}

	chunkSize := (len(routes) + workers - 1) / workers
	results := make([][]models.EnrichedRoute, workers)
	skipped := make([]int, workers)

	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		start := w * chunkSize
		if start >= len(routes) {
			break
		}
		end := start + chunkSize
		if end > len(routes) {
			end = len(routes)
		}

		w := w
		g.Go(func() error {
			out := make([]models.EnrichedRoute, 0, end-start)
			for i, route := range routes[start:end] {
				if i%1000 == 0 {
					if err := ctx.Err(); err != nil {
						return fmt.Errorf("enrichment cancelled: %w", err)
					}
				}

				origin, okOrigin := airports[route.Origin]
				destination, okDestination := airports[route.Destination]
				if !okOrigin || !okDestination || !route.Eligible() {
					skipped[w]++
					continue
				}

				out = append(out, models.EnrichedRoute{
					RouteLeg:      route,
					LegAttributes: Enrich(&origin, &destination, route.Airline),
				})
			}
			results[w] = out
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, BatchStats{}, err
	}

	stats := BatchStats{}
	enriched := make([]models.EnrichedRoute, 0, len(routes))
	for w := range results {
		enriched = append(enriched, results[w]...)
		stats.Skipped += skipped[w]
	}
	stats.Processed = len(enriched)

	return enriched, stats, nil
}
