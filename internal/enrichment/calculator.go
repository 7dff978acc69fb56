// Package enrichment derives the synthetic distance, duration and price of
// a directed flight leg from airport coordinates.
//
// The price variation factor comes from a SplitMix64 generator seeded with
// the FNV-1a hash of the route key, so the same leg always gets the same price.
package enrichment

import (
	"hash/fnv"
	"math"

	"github.com/smarttransit/flight-route-backend/internal/models"
)

const (
	EarthRadiusKm = 6371.0

	// CruiseSpeedKmh is the effective cruise speed used for durations
	CruiseSpeedKmh = 800.0
	// GroundOverheadMin covers taxi, climb and descent
	GroundOverheadMin = 30

	PricePerKm     = 0.12
	MinPriceUSD    = 50
	MinPriceFactor = 0.6
	MaxPriceFactor = 1.4
)

const seedMask uint32 = 0x7fffffff

// Enrich computes distance, duration and price of the leg origin→destination
// operated by airline (which may be empty)
func Enrich(origin, destination *models.Airport, airline string) models.LegAttributes {
	distance := DistanceBetween(origin, destination)
	return models.LegAttributes{
		DistanceKm:  distance,
		DurationMin: Duration(distance),
		PriceUSD:    Price(distance, RouteSeed(RouteKey(origin.IATA, destination.IATA, airline))),
	}
}

// DistanceBetween returns the great-circle distance between two airports in km
func DistanceBetween(origin, destination *models.Airport) float64 {
	return Distance(origin.Latitude, origin.Longitude, destination.Latitude, destination.Longitude)
}

// Distance returns the haversine distance in kilometers, rounded to 2 decimals
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := toRadians(lat1)
	phi2 := toRadians(lat2)
	deltaPhi := toRadians(lat2 - lat1)
	deltaLambda := toRadians(lon2 - lon1)

	a := math.Sin(deltaPhi/2)*math.Sin(deltaPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*
			math.Sin(deltaLambda/2)*math.Sin(deltaLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return math.Round(EarthRadiusKm*c*100) / 100
}

// Duration returns the block time in minutes for a leg of distanceKm
func Duration(distanceKm float64) int {
	cruiseMin := distanceKm / CruiseSpeedKmh * 60
	return int(math.Round(cruiseMin)) + GroundOverheadMin
}

// RouteKey builds the string hashed into the price seed
func RouteKey(origin, destination, airline string) string {
	key := origin + "-" + destination
	if airline != "" {
		key += "-" + airline
	}
	return key
}

// RouteSeed hashes a route key into a non-negative 31-bit seed (FNV-1a, 32 bit)
func RouteSeed(key string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(key))
	return h.Sum32() & seedMask
}

// Price returns the synthetic fare for a leg of distanceKm.
// The same (distance, seed) pair always yields the same price.
func Price(distanceKm float64, seed uint32) int {
	base := distanceKm * PricePerKm
	rng := newSplitMix64(uint64(seed))
	factor := MinPriceFactor + (MaxPriceFactor-MinPriceFactor)*rng.Float64()

	price := math.Max(base*factor, MinPriceUSD)
	return int(math.Round(price))
}

func toRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
