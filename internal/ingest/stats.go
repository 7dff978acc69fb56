package ingest

import (
	"sort"
	"time"

	"github.com/smarttransit/flight-route-backend/internal/models"
)

// Summarize counts the dataset and ranks the top countries by airports and
// the top airlines by routes. Ties are ordered by name.
func Summarize(airports map[string]models.Airport, routeAirlines []string, airlines []models.Airline, top int) models.DatasetStats {
	countries := make(map[string]int)
	for _, airport := range airports {
		countries[airport.Country]++
	}

	names := make(map[string]string, len(airlines))
	for _, airline := range airlines {
		names[airline.IATA] = airline.Name
	}

	routesByAirline := make(map[string]int)
	for _, code := range routeAirlines {
		routesByAirline[code]++
	}

	topCountries := make([]models.NamedCount, 0, len(countries))
	for country, count := range countries {
		topCountries = append(topCountries, models.NamedCount{Name: country, Count: count})
	}

	topAirlines := make([]models.NamedCount, 0, len(routesByAirline))
	for code, count := range routesByAirline {
		name, ok := names[code]
		if !ok {
			name = code
		}
		topAirlines = append(topAirlines, models.NamedCount{Code: code, Name: name, Count: count})
	}

	return models.DatasetStats{
		TotalAirports: len(airports),
		TotalRoutes:   len(routeAirlines),
		TotalAirlines: len(airlines),
		TopCountries:  rank(topCountries, top),
		TopAirlines:   rank(topAirlines, top),
		LoadedAt:      time.Now(),
	}
}

func rank(counts []models.NamedCount, top int) []models.NamedCount {
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		if counts[i].Name != counts[j].Name {
			return counts[i].Name < counts[j].Name
		}
		return counts[i].Code < counts[j].Code
	})
	if top > 0 && len(counts) > top {
		counts = counts[:top]
	}
	return counts
}
