package models

import (
	"fmt"
	"math"

	"github.com/smarttransit/flight-route-backend/pkg/validator"
)

// Airport represents an airport of the flight network, keyed by IATA code.
// Records are created once at ingestion and read-only afterwards.
type Airport struct {
	ID        string  `json:"id" db:"id"`
	Name      string  `json:"name" db:"name"`
	City      string  `json:"city" db:"city"`
	Country   string  `json:"country" db:"country"`
	IATA      string  `json:"iata" db:"iata"`
	ICAO      *string `json:"icao,omitempty" db:"icao"`
	Latitude  float64 `json:"latitude" db:"latitude"`
	Longitude float64 `json:"longitude" db:"longitude"`
	Altitude  int     `json:"altitude" db:"altitude"`
	Timezone  *string `json:"timezone,omitempty" db:"timezone"`
}

// Validate checks the IATA code and the coordinates of the airport
func (a *Airport) Validate() error {
	if _, err := validator.NewCodeValidator().ValidateAirport(a.IATA); err != nil {
		return ErrInvalidInput(fmt.Sprintf("airport %q: %v", a.IATA, err))
	}
	if !ValidCoordinates(a.Latitude, a.Longitude) {
		return ErrInvalidInput(fmt.Sprintf("airport %s: invalid coordinates (%v, %v)", a.IATA, a.Latitude, a.Longitude))
	}
	return nil
}

// Label returns the display form used by airport pickers, e.g. "Lima, Peru (LIM)"
func (a *Airport) Label() string {
	return fmt.Sprintf("%s, %s (%s)", a.City, a.Country, a.IATA)
}

// Ref returns the compact airport reference embedded in search responses
func (a *Airport) Ref() AirportRef {
	return AirportRef{Code: a.IATA, City: a.City, Country: a.Country}
}

// ValidCoordinates reports whether lat/lon are finite degrees within range
func ValidCoordinates(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lon) || math.IsInf(lat, 0) || math.IsInf(lon, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// AirportRef is the short airport description attached to itinerary legs
type AirportRef struct {
	Code    string `json:"code"`
	City    string `json:"city,omitempty"`
	Country string `json:"country,omitempty"`
}

// Airline represents an active airline from the OpenFlights dataset
type Airline struct {
	ID       string  `json:"id" db:"id"`
	Name     string  `json:"name" db:"name"`
	Alias    *string `json:"alias,omitempty" db:"alias"`
	IATA     string  `json:"iata" db:"iata"`
	ICAO     *string `json:"icao,omitempty" db:"icao"`
	Callsign *string `json:"callsign,omitempty" db:"callsign"`
	Country  string  `json:"country" db:"country"`
	Active   bool    `json:"active" db:"active"`
}
