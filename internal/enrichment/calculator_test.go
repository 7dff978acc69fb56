package enrichment

import (
	"context"
	"testing"

	"github.com/smarttransit/flight-route-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAirports() map[string]models.Airport {
	return map[string]models.Airport{
		"LIM": {ID: "2789", Name: "Jorge Chávez International Airport", City: "Lima", Country: "Peru", IATA: "LIM", Latitude: -12.0219, Longitude: -77.114305},
		"CUZ": {ID: "2812", Name: "Alejandro Velasco Astete International Airport", City: "Cusco", Country: "Peru", IATA: "CUZ", Latitude: -13.535723, Longitude: -71.938767},
		"MAD": {ID: "1229", Name: "Adolfo Suárez Madrid–Barajas Airport", City: "Madrid", Country: "Spain", IATA: "MAD", Latitude: 40.471926, Longitude: -3.56264},
	}
}

func TestEnrich_KnownLegs(t *testing.T) {
	airports := testAirports()

	tests := []struct {
		name        string
		origin      string
		destination string
		airline     string
		expected    models.LegAttributes
	}{
		{"Long haul", "LIM", "MAD", "IB", models.LegAttributes{DistanceKm: 9526.19, DurationMin: 744, PriceUSD: 1207}},
		{"Domestic", "LIM", "CUZ", "LA", models.LegAttributes{DistanceKm: 585.91, DurationMin: 74, PriceUSD: 78}},
		{"No airline", "LIM", "MAD", "", models.LegAttributes{DistanceKm: 9526.19, DurationMin: 744, PriceUSD: 961}},
		{"Opposite direction", "MAD", "LIM", "IB", models.LegAttributes{DistanceKm: 9526.19, DurationMin: 744, PriceUSD: 995}},
		{"Other airline", "LIM", "MAD", "LA", models.LegAttributes{DistanceKm: 9526.19, DurationMin: 744, PriceUSD: 1488}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			origin := airports[tc.origin]
			destination := airports[tc.destination]
			assert.Equal(t, tc.expected, Enrich(&origin, &destination, tc.airline))
		})
	}
}

func TestEnrich_Deterministic(t *testing.T) {
	airports := testAirports()
	origin, destination := airports["LIM"], airports["CUZ"]

	first := Enrich(&origin, &destination, "LA")
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, Enrich(&origin, &destination, "LA"))
	}
}

func TestEnrich_SameCoordinates(t *testing.T) {
	airport := testAirports()["LIM"]
	other := airport
	other.IATA = "XXX"

	attrs := Enrich(&airport, &other, "LA")
	assert.Equal(t, 0.0, attrs.DistanceKm)
	assert.Equal(t, GroundOverheadMin, attrs.DurationMin)
	assert.Equal(t, MinPriceUSD, attrs.PriceUSD)
}

func TestDistance(t *testing.T) {
	assert.Equal(t, 0.0, Distance(10, 20, 10, 20))
	assert.Equal(t, Distance(-12.0219, -77.114305, 40.471926, -3.56264), Distance(40.471926, -3.56264, -12.0219, -77.114305))
	// Half the equator
	assert.InDelta(t, 20015.09, Distance(0, 0, 0, 180), 0.01)
}

func TestDuration(t *testing.T) {
	assert.Equal(t, 30, Duration(0))
	assert.Equal(t, 90, Duration(800))
	assert.Equal(t, 31, Duration(10))
	assert.Equal(t, 744, Duration(9526.19))
}

func TestRouteKeyAndSeed(t *testing.T) {
	assert.Equal(t, "LIM-MAD-IB", RouteKey("LIM", "MAD", "IB"))
	assert.Equal(t, "LIM-MAD", RouteKey("LIM", "MAD", ""))

	assert.Equal(t, uint32(226400262), RouteSeed("LIM-MAD-IB"))
	assert.Equal(t, uint32(1197102762), RouteSeed("LIM-CUZ-LA"))
	assert.Equal(t, uint32(1896798526), RouteSeed("LIM-MAD"))
	// FNV-1a offset basis with the sign bit cleared
	assert.Equal(t, uint32(0x811c9dc5&0x7fffffff), RouteSeed(""))
}

func TestPrice(t *testing.T) {
	t.Run("Floor applies to short legs", func(t *testing.T) {
		for seed := uint32(0); seed < 50; seed++ {
			assert.GreaterOrEqual(t, Price(10, seed), MinPriceUSD)
		}
	})

	t.Run("Factor stays within bounds", func(t *testing.T) {
		for seed := uint32(0); seed < 200; seed++ {
			price := Price(10000, seed)
			assert.GreaterOrEqual(t, price, 720)
			assert.LessOrEqual(t, price, 1680)
		}
	})
}

func TestSplitMix64_ReferenceOutput(t *testing.T) {
	assert.Equal(t, uint64(0xe220a8397b1dcdaf), newSplitMix64(0).Uint64())
	assert.Equal(t, uint64(0x910a2dec89025cc1), newSplitMix64(1).Uint64())

	rng := newSplitMix64(42)
	for i := 0; i < 1000; i++ {
		f := rng.Float64()
		require.GreaterOrEqual(t, f, 0.0)
		require.Less(t, f, 1.0)
	}
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "2h 5min", FormatDuration(125))
	assert.Equal(t, "3h", FormatDuration(180))
	assert.Equal(t, "45min", FormatDuration(45))
	assert.Equal(t, "0min", FormatDuration(0))
}

func TestEnrichAll(t *testing.T) {
	airports := testAirports()
	routes := []models.RouteLeg{
		{Airline: "IB", Origin: "LIM", Destination: "MAD"},
		{Airline: "LA", Origin: "LIM", Destination: "CUZ"},
		{Airline: "LA", Origin: "LIM", Destination: "ZZZ"}, // unknown airport
		{Airline: "LA", Origin: "CUZ", Destination: "MAD", Stops: 1},
		{Airline: "IB", Origin: "MAD", Destination: "LIM"},
	}

	for _, workers := range []int{0, 1, 2, 4, 16} {
		enriched, stats, err := EnrichAll(context.Background(), airports, routes, workers)
		require.NoError(t, err)

		assert.Equal(t, 3, stats.Processed)
		assert.Equal(t, 2, stats.Skipped)
		require.Len(t, enriched, 3)

		assert.Equal(t, "MAD", enriched[0].Destination)
		assert.Equal(t, 1207, enriched[0].PriceUSD)
		assert.Equal(t, "CUZ", enriched[1].Destination)
		assert.Equal(t, 78, enriched[1].PriceUSD)
		assert.Equal(t, "LIM", enriched[2].Destination)
		assert.Equal(t, 995, enriched[2].PriceUSD)
	}
}

func TestEnrichAll_Empty(t *testing.T) {
	enriched, stats, err := EnrichAll(context.Background(), testAirports(), nil, 4)
	require.NoError(t, err)
	assert.Empty(t, enriched)
	assert.Equal(t, BatchStats{}, stats)
}

func TestEnrichAll_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	routes := []models.RouteLeg{{Airline: "IB", Origin: "LIM", Destination: "MAD"}}
	_, _, err := EnrichAll(ctx, testAirports(), routes, 1)
	assert.ErrorIs(t, err, context.Canceled)
}
