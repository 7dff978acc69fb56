package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/smarttransit/flight-route-backend/internal/graph"
	"github.com/smarttransit/flight-route-backend/internal/ingest"
	"github.com/smarttransit/flight-route-backend/internal/models"
	"github.com/smarttransit/flight-route-backend/internal/repository"
)

// ErrDatasetNotLoaded is returned before the first successful reload
var ErrDatasetNotLoaded = errors.New("dataset not loaded")

const statsTopN = 5

// Dataset is an immutable snapshot of the flight network.
// Graphs are built lazily, once per weight field, and shared by all searches.
type Dataset struct {
	Airports map[string]models.Airport
	Routes   []models.EnrichedRoute
	Airlines []models.Airline
	Stats    models.DatasetStats

	routeCounts map[string]int

	mu     sync.Mutex
	graphs map[graph.WeightField]*graph.FlightGraph
}

// NewDataset drops invalid airports and routes whose endpoints are unknown
// or that are not non-stop, then computes the dataset statistics
func NewDataset(airports map[string]models.Airport, routes []models.EnrichedRoute, airlines []models.Airline, logger *logrus.Logger) *Dataset {
	valid := make(map[string]models.Airport, len(airports))
	for code, airport := range airports {
		if err := airport.Validate(); err != nil || code != airport.IATA {
			logger.WithField("code", code).Debug("Skipping invalid airport")
			continue
		}
		valid[code] = airport
	}

	kept := make([]models.EnrichedRoute, 0, len(routes))
	routeAirlines := make([]string, 0, len(routes))
	routeCounts := make(map[string]int)
	for _, route := range routes {
		_, okOrigin := valid[route.Origin]
		_, okDestination := valid[route.Destination]
		if !okOrigin || !okDestination || !route.Eligible() {
			continue
		}
		kept = append(kept, route)
		routeAirlines = append(routeAirlines, route.Airline)
		routeCounts[route.Origin]++
		routeCounts[route.Destination]++
	}

	if skipped := len(airports) - len(valid); skipped > 0 {
		logger.WithField("skipped", skipped).Warn("Dropped invalid airports from dataset")
	}
	if skipped := len(routes) - len(kept); skipped > 0 {
		logger.WithField("skipped", skipped).Warn("Dropped routes with unknown endpoints")
	}

	return &Dataset{
		Airports:    valid,
		Routes:      kept,
		Airlines:    airlines,
		Stats:       ingest.Summarize(valid, routeAirlines, airlines, statsTopN),
		routeCounts: routeCounts,
		graphs:      make(map[graph.WeightField]*graph.FlightGraph),
	}
}

// Graph returns the flight graph weighted by field, building it on first use
func (d *Dataset) Graph(field graph.WeightField) *graph.FlightGraph {
	d.mu.Lock()
	defer d.mu.Unlock()

	g, ok := d.graphs[field]
	if !ok {
		g = graph.Build(d.Airports, d.Routes, field)
		d.graphs[field] = g
	}
	return g
}

// RouteCount returns the number of legs touching code
func (d *Dataset) RouteCount(code string) int {
	return d.routeCounts[code]
}

// DatasetService owns the current dataset snapshot
type DatasetService struct {
	source repository.DatasetSource
	logger *logrus.Logger

	mu      sync.RWMutex
	current *Dataset
}

// NewDatasetService creates a new dataset service
func NewDatasetService(source repository.DatasetSource, logger *logrus.Logger) *DatasetService {
	return &DatasetService{
		source: source,
		logger: logger,
	}
}

// Reload reads the dataset from its source and swaps it in.
// The previous snapshot stays active if loading fails.
func (s *DatasetService) Reload(ctx context.Context) (*models.DatasetStats, error) {
	start := time.Now()

	airports, err := s.source.LoadAirports(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to reload dataset: %w", err)
	}
	routes, err := s.source.LoadRoutes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to reload dataset: %w", err)
	}
	airlines, err := s.source.LoadAirlines(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to reload dataset: %w", err)
	}

	dataset := NewDataset(airports, routes, airlines, s.logger)
	s.Swap(dataset)

	s.logger.WithFields(logrus.Fields{
		"airports":    dataset.Stats.TotalAirports,
		"routes":      dataset.Stats.TotalRoutes,
		"airlines":    dataset.Stats.TotalAirlines,
		"duration_ms": time.Since(start).Milliseconds(),
	}).Info("Dataset loaded")

	stats := dataset.Stats
	return &stats, nil
}

// Swap replaces the current snapshot
func (s *DatasetService) Swap(dataset *Dataset) {
	s.mu.Lock()
	s.current = dataset
	s.mu.Unlock()
}

// Current returns the active snapshot
func (s *DatasetService) Current() (*Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return nil, ErrDatasetNotLoaded
	}
	return s.current, nil
}
