package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/smarttransit/flight-route-backend/internal/models"
)

// FlightRepository reads and writes the airport, airline and route tables
type FlightRepository struct {
	db *sqlx.DB
}

// NewFlightRepository creates a new flight repository
func NewFlightRepository(db DB) *FlightRepository {
	return &FlightRepository{db: unwrap(db, "FlightRepository")}
}

// LoadAirports returns all airports keyed by IATA code
func (r *FlightRepository) LoadAirports(ctx context.Context) (map[string]models.Airport, error) {
	query := `
		SELECT id, name, city, country, iata, icao, latitude, longitude, altitude, timezone
		FROM airports
		ORDER BY iata
	`

	var rows []models.Airport
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to load airports: %w", err)
	}

	airports := make(map[string]models.Airport, len(rows))
	for _, airport := range rows {
		airports[airport.IATA] = airport
	}
	return airports, nil
}

// LoadRoutes returns all enriched routes in insertion order
func (r *FlightRepository) LoadRoutes(ctx context.Context) ([]models.EnrichedRoute, error) {
	query := `
		SELECT airline, airline_id, origin, destination, codeshare, stops, equipment,
		       distance_km, duration_min, price_usd
		FROM routes
		ORDER BY id
	`

	var routes []models.EnrichedRoute
	if err := r.db.SelectContext(ctx, &routes, query); err != nil {
		return nil, fmt.Errorf("failed to load routes: %w", err)
	}
	return routes, nil
}

// LoadAirlines returns all stored airlines
func (r *FlightRepository) LoadAirlines(ctx context.Context) ([]models.Airline, error) {
	query := `
		SELECT id, name, alias, iata, icao, callsign, country, active
		FROM airlines
		ORDER BY iata
	`

	var airlines []models.Airline
	if err := r.db.SelectContext(ctx, &airlines, query); err != nil {
		return nil, fmt.Errorf("failed to load airlines: %w", err)
	}
	return airlines, nil
}

// SaveAirports inserts or updates airports by IATA code
func (r *FlightRepository) SaveAirports(ctx context.Context, airports map[string]models.Airport) error {
	query := `
		INSERT INTO airports (iata, id, name, city, country, icao, latitude, longitude, altitude, timezone)
		VALUES (:iata, :id, :name, :city, :country, :icao, :latitude, :longitude, :altitude, :timezone)
		ON CONFLICT (iata) DO UPDATE SET
			id = EXCLUDED.id,
			name = EXCLUDED.name,
			city = EXCLUDED.city,
			country = EXCLUDED.country,
			icao = EXCLUDED.icao,
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			altitude = EXCLUDED.altitude,
			timezone = EXCLUDED.timezone
	`

	return inTx(ctx, r.db, func(tx *sqlx.Tx) error {
		stmt, err := tx.PrepareNamedContext(ctx, query)
		if err != nil {
			return fmt.Errorf("failed to prepare airport upsert: %w", err)
		}
		defer stmt.Close()

		for code, airport := range airports {
			if _, err := stmt.ExecContext(ctx, airport); err != nil {
				return fmt.Errorf("failed to save airport %s: %w", code, err)
			}
		}
		return nil
	})
}

// SaveAirlines inserts or updates airlines by IATA code
func (r *FlightRepository) SaveAirlines(ctx context.Context, airlines []models.Airline) error {
	query := `
		INSERT INTO airlines (iata, id, name, alias, icao, callsign, country, active)
		VALUES (:iata, :id, :name, :alias, :icao, :callsign, :country, :active)
		ON CONFLICT (iata) DO UPDATE SET
			id = EXCLUDED.id,
			name = EXCLUDED.name,
			alias = EXCLUDED.alias,
			icao = EXCLUDED.icao,
			callsign = EXCLUDED.callsign,
			country = EXCLUDED.country,
			active = EXCLUDED.active
	`

	return inTx(ctx, r.db, func(tx *sqlx.Tx) error {
		stmt, err := tx.PrepareNamedContext(ctx, query)
		if err != nil {
			return fmt.Errorf("failed to prepare airline upsert: %w", err)
		}
		defer stmt.Close()

		for _, airline := range airlines {
			if _, err := stmt.ExecContext(ctx, airline); err != nil {
				return fmt.Errorf("failed to save airline %s: %w", airline.IATA, err)
			}
		}
		return nil
	})
}

// SaveRoutes replaces the stored routes with routes in one transaction
func (r *FlightRepository) SaveRoutes(ctx context.Context, routes []models.EnrichedRoute) error {
	query := `
		INSERT INTO routes (
			airline, airline_id, origin, destination, codeshare, stops, equipment,
			distance_km, duration_min, price_usd
		) VALUES (
			:airline, :airline_id, :origin, :destination, :codeshare, :stops, :equipment,
			:distance_km, :duration_min, :price_usd
		)
	`

	return inTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM routes`); err != nil {
			return fmt.Errorf("failed to clear routes: %w", err)
		}

		stmt, err := tx.PrepareNamedContext(ctx, query)
		if err != nil {
			return fmt.Errorf("failed to prepare route insert: %w", err)
		}
		defer stmt.Close()

		for i := range routes {
			if _, err := stmt.ExecContext(ctx, routes[i]); err != nil {
				return fmt.Errorf("failed to save route %s-%s: %w", routes[i].Origin, routes[i].Destination, err)
			}
		}
		return nil
	})
}
