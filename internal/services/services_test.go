package services

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/smarttransit/flight-route-backend/internal/config"
	"github.com/smarttransit/flight-route-backend/internal/models"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func airport(code, name, city, country string, lat, lon float64) models.Airport {
	return models.Airport{IATA: code, Name: name, City: city, Country: country, Latitude: lat, Longitude: lon}
}

func testAirports() map[string]models.Airport {
	return map[string]models.Airport{
		"LIM": airport("LIM", "Jorge Chávez International Airport", "Lima", "Peru", -12.0219, -77.114305),
		"CUZ": airport("CUZ", "Alejandro Velasco Astete International Airport", "Cusco", "Peru", -13.535723, -71.938767),
		"MAD": airport("MAD", "Adolfo Suárez Madrid–Barajas Airport", "Madrid", "Spain", 40.471926, -3.56264),
		"BOG": airport("BOG", "El Dorado International Airport", "Bogota", "Colombia", 4.70159, -74.1469),
		"MIA": airport("MIA", "Miami International Airport", "Miami", "United States", 25.79319953918457, -80.29060363769531),
	}
}

func route(airline, origin, destination string, distance float64, duration, price int) models.EnrichedRoute {
	return models.EnrichedRoute{
		RouteLeg:      models.RouteLeg{Airline: airline, Origin: origin, Destination: destination},
		LegAttributes: models.LegAttributes{DistanceKm: distance, DurationMin: duration, PriceUSD: price},
	}
}

func testRoutes() []models.EnrichedRoute {
	return []models.EnrichedRoute{
		route("IB", "LIM", "MAD", 9526.19, 744, 1207),
		route("LA", "LIM", "MAD", 9526.19, 744, 1488),
		route("LA", "LIM", "CUZ", 585.91, 74, 78),
		route("AV", "LIM", "BOG", 1888.29, 172, 168),
		route("AV", "BOG", "MAD", 8030.54, 632, 1275),
		route("AA", "LIM", "MIA", 4218.88, 346, 388),
		route("IB", "MIA", "MAD", 7107.25, 563, 715),
	}
}

func testAirlines() []models.Airline {
	return []models.Airline{
		{IATA: "AA", Name: "American Airlines", Active: true},
		{IATA: "AV", Name: "Avianca", Active: true},
		{IATA: "IB", Name: "Iberia Airlines", Active: true},
		{IATA: "LA", Name: "LATAM Airlines", Active: true},
	}
}

// memorySource serves a fixed dataset, or err when set
type memorySource struct {
	airports map[string]models.Airport
	routes   []models.EnrichedRoute
	airlines []models.Airline
	err      error
}

func newMemorySource() *memorySource {
	return &memorySource{airports: testAirports(), routes: testRoutes(), airlines: testAirlines()}
}

func (m *memorySource) LoadAirports(ctx context.Context) (map[string]models.Airport, error) {
	return m.airports, m.err
}

func (m *memorySource) LoadRoutes(ctx context.Context) ([]models.EnrichedRoute, error) {
	return m.routes, m.err
}

func (m *memorySource) LoadAirlines(ctx context.Context) ([]models.Airline, error) {
	return m.airlines, m.err
}

// recordingLogStore keeps logged searches in memory
type recordingLogStore struct {
	mu       sync.Mutex
	logs     []*models.SearchLog
	days     []int
	logErr   error
	queryErr error
}

func (r *recordingLogStore) LogSearch(ctx context.Context, log *models.SearchLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs = append(r.logs, log)
	return r.logErr
}

func (r *recordingLogStore) GetSearchAnalytics(ctx context.Context, days int) (*models.SearchAnalytics, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.days = append(r.days, days)
	if r.queryErr != nil {
		return nil, r.queryErr
	}
	return &models.SearchAnalytics{Days: days, TotalSearches: 3}, nil
}

func (r *recordingLogStore) recorded() []*models.SearchLog {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*models.SearchLog(nil), r.logs...)
}

func testSearchConfig() config.SearchConfig {
	return config.SearchConfig{DefaultMaxStops: 999, DirectResultsLimit: 10, LogEnabled: true}
}

func loadedDatasets(t *testing.T) *DatasetService {
	t.Helper()
	datasets := NewDatasetService(newMemorySource(), testLogger())
	if _, err := datasets.Reload(context.Background()); err != nil {
		t.Fatalf("reload: %v", err)
	}
	return datasets
}

func newTestSearchService(t *testing.T, logs SearchLogStore) *SearchService {
	t.Helper()
	return NewSearchService(loadedDatasets(t), logs, testSearchConfig(), testLogger())
}

var errBoom = errors.New("boom")

func intPtr(v int) *int { return &v }
