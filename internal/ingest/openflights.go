// Package ingest converts the OpenFlights airports.dat, routes.dat and
// airlines.dat files into typed records.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/smarttransit/flight-route-backend/internal/models"
)

// nullField is how OpenFlights encodes a missing value
const nullField = `\N`

// Stats reports how many rows a parser kept and skipped
type Stats struct {
	Kept    int `json:"kept"`
	Skipped int `json:"skipped"`
}

// ParseAirports reads airports.dat. Rows without a three-letter IATA code or
// with unusable coordinates are skipped. When limit is positive, parsing
// stops after limit airports have been kept.
//
// Columns: id, name, city, country, IATA, ICAO, latitude, longitude,
// altitude, timezone offset, DST, tz name, type, source.
func ParseAirports(r io.Reader, limit int) (map[string]models.Airport, Stats, error) {
	airports := make(map[string]models.Airport)
	var stats Stats

	err := eachRecord(r, func(row []string) {
		if limit > 0 && stats.Kept >= limit {
			return
		}

		airport, ok := parseAirport(row)
		if !ok {
			stats.Skipped++
			return
		}
		airports[airport.IATA] = airport
		stats.Kept++
	}, &stats)
	if err != nil {
		return nil, stats, fmt.Errorf("failed to read airports: %w", err)
	}

	return airports, stats, nil
}

func parseAirport(row []string) (models.Airport, bool) {
	if len(row) < 10 {
		return models.Airport{}, false
	}

	iata := row[4]
	if iata == nullField || len(iata) != 3 {
		return models.Airport{}, false
	}

	lat, err := strconv.ParseFloat(row[6], 64)
	if err != nil {
		return models.Airport{}, false
	}
	lon, err := strconv.ParseFloat(row[7], 64)
	if err != nil {
		return models.Airport{}, false
	}

	airport := models.Airport{
		ID:        row[0],
		Name:      row[1],
		City:      row[2],
		Country:   row[3],
		IATA:      iata,
		ICAO:      optional(row[5]),
		Latitude:  lat,
		Longitude: lon,
		Timezone:  optional(row[9]),
	}
	if row[8] != nullField {
		altitude, err := strconv.Atoi(row[8])
		if err != nil {
			return models.Airport{}, false
		}
		airport.Altitude = altitude
	}

	if err := airport.Validate(); err != nil {
		return models.Airport{}, false
	}
	return airport, true
}

// ParseRoutes reads routes.dat, keeping non-stop routes whose endpoints are
// both in validAirports.
//
// Columns: airline, airline id, source, source id, destination,
// destination id, codeshare, stops, equipment.
func ParseRoutes(r io.Reader, validAirports map[string]models.Airport) ([]models.RouteLeg, Stats, error) {
	var routes []models.RouteLeg
	var stats Stats

	err := eachRecord(r, func(row []string) {
		if len(row) < 9 {
			stats.Skipped++
			return
		}

		origin, destination := row[2], row[4]
		_, okOrigin := validAirports[origin]
		_, okDestination := validAirports[destination]
		if !okOrigin || !okDestination || row[7] != "0" {
			stats.Skipped++
			return
		}

		var equipment models.StringArray
		if fields := strings.Fields(row[8]); len(fields) > 0 {
			equipment = fields
		}

		routes = append(routes, models.RouteLeg{
			Airline:     row[0],
			AirlineID:   row[1],
			Origin:      origin,
			Destination: destination,
			Codeshare:   row[6],
			Stops:       0,
			Equipment:   equipment,
		})
		stats.Kept++
	}, &stats)
	if err != nil {
		return nil, stats, fmt.Errorf("failed to read routes: %w", err)
	}

	return routes, stats, nil
}

// ParseAirlines reads airlines.dat, keeping active airlines with a two-letter
// IATA code. Later rows win on duplicate codes; the result is sorted by code.
//
// Columns: id, name, alias, IATA, ICAO, callsign, country, active.
func ParseAirlines(r io.Reader) ([]models.Airline, Stats, error) {
	byCode := make(map[string]models.Airline)
	var stats Stats

	err := eachRecord(r, func(row []string) {
		if len(row) < 8 {
			stats.Skipped++
			return
		}

		iata := row[3]
		if iata == nullField || len(iata) != 2 || row[7] != "Y" {
			stats.Skipped++
			return
		}

		byCode[iata] = models.Airline{
			ID:       row[0],
			Name:     row[1],
			Alias:    optional(row[2]),
			IATA:     iata,
			ICAO:     optional(row[4]),
			Callsign: optional(row[5]),
			Country:  row[6],
			Active:   true,
		}
		stats.Kept++
	}, &stats)
	if err != nil {
		return nil, stats, fmt.Errorf("failed to read airlines: %w", err)
	}

	airlines := make([]models.Airline, 0, len(byCode))
	for _, airline := range byCode {
		airlines = append(airlines, airline)
	}
	sort.Slice(airlines, func(i, j int) bool { return airlines[i].IATA < airlines[j].IATA })

	return airlines, stats, nil
}

// eachRecord calls fn for every CSV record of r. Malformed records are
// counted as skipped; I/O errors abort.
func eachRecord(r io.Reader, fn func(row []string), stats *Stats) error {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.ReuseRecord = true

	for {
		row, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			stats.Skipped++
			continue
		}
		if err != nil {
			return err
		}
		fn(row)
	}
}

func optional(value string) *string {
	if value == nullField || value == "" {
		return nil
	}
	return &value
}
