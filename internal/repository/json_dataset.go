package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/smarttransit/flight-route-backend/internal/models"
)

// DatasetSource loads the airport network from persistent storage
type DatasetSource interface {
	LoadAirports(ctx context.Context) (map[string]models.Airport, error)
	LoadRoutes(ctx context.Context) ([]models.EnrichedRoute, error)
	LoadAirlines(ctx context.Context) ([]models.Airline, error)
}

// DatasetSink persists an ingested or enriched dataset
type DatasetSink interface {
	SaveAirports(ctx context.Context, airports map[string]models.Airport) error
	SaveRoutes(ctx context.Context, routes []models.EnrichedRoute) error
	SaveAirlines(ctx context.Context, airlines []models.Airline) error
}

// JSONDataset stores the processed dataset as JSON files
type JSONDataset struct {
	AirportsPath string
	RoutesPath   string // enriched routes
	AirlinesPath string
}

// NewJSONDataset creates a JSON-file dataset
func NewJSONDataset(airportsPath, routesPath, airlinesPath string) *JSONDataset {
	return &JSONDataset{
		AirportsPath: airportsPath,
		RoutesPath:   routesPath,
		AirlinesPath: airlinesPath,
	}
}

// LoadAirports reads the airport map keyed by IATA code
func (d *JSONDataset) LoadAirports(ctx context.Context) (map[string]models.Airport, error) {
	airports := make(map[string]models.Airport)
	if err := ReadJSONFile(d.AirportsPath, &airports); err != nil {
		return nil, fmt.Errorf("failed to load airports: %w", err)
	}
	return airports, nil
}

// LoadRoutes reads the enriched routes
func (d *JSONDataset) LoadRoutes(ctx context.Context) ([]models.EnrichedRoute, error) {
	var routes []models.EnrichedRoute
	if err := ReadJSONFile(d.RoutesPath, &routes); err != nil {
		return nil, fmt.Errorf("failed to load routes: %w", err)
	}
	return routes, nil
}

// LoadAirlines reads the airline list. The file is optional; a missing file
// yields no airlines.
func (d *JSONDataset) LoadAirlines(ctx context.Context) ([]models.Airline, error) {
	if d.AirlinesPath == "" {
		return nil, nil
	}

	var airlines []models.Airline
	err := ReadJSONFile(d.AirlinesPath, &airlines)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load airlines: %w", err)
	}
	return airlines, nil
}

func (d *JSONDataset) SaveAirports(ctx context.Context, airports map[string]models.Airport) error {
	return WriteJSONFile(d.AirportsPath, airports)
}

func (d *JSONDataset) SaveRoutes(ctx context.Context, routes []models.EnrichedRoute) error {
	return WriteJSONFile(d.RoutesPath, routes)
}

func (d *JSONDataset) SaveAirlines(ctx context.Context, airlines []models.Airline) error {
	return WriteJSONFile(d.AirlinesPath, airlines)
}

// ReadJSONFile decodes the JSON document at path into v
func ReadJSONFile(path string, v interface{}) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(v); err != nil {
		return fmt.Errorf("invalid JSON in %s: %w", path, err)
	}
	return nil
}

// WriteJSONFile writes v as indented JSON to path. The file is written to a
// temporary sibling first and renamed, so readers never see a partial file.
func WriteJSONFile(path string, v interface{}) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	encoder := json.NewEncoder(tmp)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(v); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
