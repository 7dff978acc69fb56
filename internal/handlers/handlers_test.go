package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/flight-route-backend/internal/config"
	"github.com/smarttransit/flight-route-backend/internal/middleware"
	"github.com/smarttransit/flight-route-backend/internal/models"
	"github.com/smarttransit/flight-route-backend/internal/repository"
	"github.com/smarttransit/flight-route-backend/internal/services"
	"github.com/smarttransit/flight-route-backend/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testAdminPassword = "correct-horse"

type testServer struct {
	router     *gin.Engine
	datasets   *services.DatasetService
	jwtService *jwt.Service
	dataset    *repository.JSONDataset
}

func enriched(airline, origin, destination string, distance float64, duration, price int) models.EnrichedRoute {
	return models.EnrichedRoute{
		RouteLeg:      models.RouteLeg{Airline: airline, Origin: origin, Destination: destination},
		LegAttributes: models.LegAttributes{DistanceKm: distance, DurationMin: duration, PriceUSD: price},
	}
}

func writeTestDataset(t *testing.T) *repository.JSONDataset {
	t.Helper()
	dir := t.TempDir()
	dataset := repository.NewJSONDataset(
		filepath.Join(dir, "airports.json"),
		filepath.Join(dir, "routes.json"),
		filepath.Join(dir, "airlines.json"),
	)

	airports := map[string]models.Airport{
		"LIM": {IATA: "LIM", Name: "Jorge Chávez International Airport", City: "Lima", Country: "Peru", Latitude: -12.0219, Longitude: -77.114305},
		"CUZ": {IATA: "CUZ", Name: "Alejandro Velasco Astete International Airport", City: "Cusco", Country: "Peru", Latitude: -13.535723, Longitude: -71.938767},
		"BOG": {IATA: "BOG", Name: "El Dorado International Airport", City: "Bogota", Country: "Colombia", Latitude: 4.70159, Longitude: -74.1469},
		"MAD": {IATA: "MAD", Name: "Adolfo Suárez Madrid–Barajas Airport", City: "Madrid", Country: "Spain", Latitude: 40.471926, Longitude: -3.56264},
	}
	routes := []models.EnrichedRoute{
		enriched("LA", "LIM", "CUZ", 585.91, 74, 78),
		enriched("AV", "LIM", "BOG", 1888.29, 172, 168),
		enriched("AV", "BOG", "MAD", 8030.54, 632, 1275),
		enriched("IB", "LIM", "MAD", 9526.19, 744, 1207),
	}
	airlines := []models.Airline{{IATA: "AV", Name: "Avianca", Active: true}}

	ctx := context.Background()
	require.NoError(t, dataset.SaveAirports(ctx, airports))
	require.NoError(t, dataset.SaveRoutes(ctx, routes))
	require.NoError(t, dataset.SaveAirlines(ctx, airlines))
	return dataset
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	dataset := writeTestDataset(t)
	datasets := services.NewDatasetService(dataset, logger)
	_, err := datasets.Reload(context.Background())
	require.NoError(t, err)

	hash, err := bcrypt.GenerateFromPassword([]byte(testAdminPassword), bcrypt.MinCost)
	require.NoError(t, err)

	jwtService := jwt.NewService("handler-test-secret", time.Hour)
	searchService := services.NewSearchService(datasets, nil, config.SearchConfig{DefaultMaxStops: 999, DirectResultsLimit: 10}, logger)
	authService := services.NewAdminAuthService(config.AdminConfig{Username: "ops", PasswordHash: string(hash)}, jwtService, logger)

	searchHandler := NewSearchHandler(searchService, logger)
	adminHandler := NewAdminHandler(authService, datasets, searchService, logger)

	router := gin.New()
	v1 := router.Group("/api/v1")
	v1.POST("/search", searchHandler.SearchRoutes)
	v1.GET("/flights/direct", searchHandler.DirectFlights)
	v1.GET("/airports/autocomplete", searchHandler.GetAirportAutocomplete)
	v1.GET("/airports/:code", searchHandler.GetAirport)
	v1.GET("/stats", searchHandler.GetStats)
	v1.POST("/admin/login", adminHandler.Login)

	admin := v1.Group("/admin")
	admin.Use(middleware.AuthMiddleware(jwtService, logger), middleware.RequireRole(services.AdminRole))
	admin.POST("/dataset/reload", adminHandler.ReloadDataset)
	admin.GET("/analytics", adminHandler.GetSearchAnalytics)

	return &testServer{router: router, datasets: datasets, jwtService: jwtService, dataset: dataset}
}

func (s *testServer) do(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v))
}

func TestSearchRoutesHandler(t *testing.T) {
	server := setupTestServer(t)

	t.Run("Found", func(t *testing.T) {
		w := server.do(http.MethodPost, "/api/v1/search", gin.H{"origin": "lim", "destination": "mad"}, "")
		require.Equal(t, http.StatusOK, w.Code)

		var resp models.SearchResponse
		decode(t, w, &resp)
		assert.True(t, resp.Found)
		assert.Equal(t, []string{"LIM", "MAD"}, resp.Itinerary.Path)
		assert.Equal(t, 1207, resp.Summary.TotalPriceUSD)
	})

	t.Run("Bounded search takes the cheaper connection", func(t *testing.T) {
		w := server.do(http.MethodPost, "/api/v1/search", gin.H{"origin": "CUZ", "destination": "BOG", "max_stops": 2}, "")
		require.Equal(t, http.StatusOK, w.Code)

		var resp models.SearchResponse
		decode(t, w, &resp)
		assert.True(t, resp.Found)
		assert.Equal(t, []string{"CUZ", "LIM", "BOG"}, resp.Itinerary.Path)
		assert.Equal(t, "CUZ", resp.Segments[0].From.Code)
	})

	t.Run("Not found is a normal response", func(t *testing.T) {
		w := server.do(http.MethodPost, "/api/v1/search", gin.H{"origin": "CUZ", "destination": "BOG", "max_stops": 1}, "")
		require.Equal(t, http.StatusOK, w.Code)

		var resp models.SearchResponse
		decode(t, w, &resp)
		assert.False(t, resp.Found)
		assert.Equal(t, "not_found", resp.Status)
		assert.Nil(t, resp.Itinerary)
	})

	t.Run("Invalid objective", func(t *testing.T) {
		w := server.do(http.MethodPost, "/api/v1/search", gin.H{"origin": "LIM", "destination": "MAD", "objective": "comfort"}, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "unknown objective")
	})

	t.Run("Missing destination", func(t *testing.T) {
		w := server.do(http.MethodPost, "/api/v1/search", gin.H{"origin": "LIM"}, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid request format")
	})
}

func TestSearchRoutesHandler_DatasetNotLoaded(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	datasets := services.NewDatasetService(writeTestDataset(t), logger)
	handler := NewSearchHandler(services.NewSearchService(datasets, nil, config.SearchConfig{DefaultMaxStops: 999, DirectResultsLimit: 10}, logger), logger)

	router := gin.New()
	router.POST("/search", handler.SearchRoutes)

	body, _ := json.Marshal(gin.H{"origin": "LIM", "destination": "MAD"})
	req := httptest.NewRequest(http.MethodPost, "/search", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestDirectFlightsHandler(t *testing.T) {
	server := setupTestServer(t)

	w := server.do(http.MethodGet, "/api/v1/flights/direct?origin=LIM&destination=BOG&max_price=500", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.DirectFlightsResponse
	decode(t, w, &resp)
	assert.True(t, resp.FiltersApplied)
	require.Len(t, resp.Flights, 1)
	assert.Equal(t, "AV", resp.Flights[0].Airline)

	w = server.do(http.MethodGet, "/api/v1/flights/direct?origin=LIM", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = server.do(http.MethodGet, "/api/v1/flights/direct?origin=LIM&destination=BOG&max_price=abc", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAirportHandlers(t *testing.T) {
	server := setupTestServer(t)

	t.Run("Autocomplete", func(t *testing.T) {
		w := server.do(http.MethodGet, "/api/v1/airports/autocomplete?q=cus", nil, "")
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Suggestions []models.AirportSuggestion `json:"suggestions"`
			Count       int                        `json:"count"`
		}
		decode(t, w, &resp)
		require.Equal(t, 1, resp.Count)
		assert.Equal(t, "Cusco, Peru (CUZ)", resp.Suggestions[0].Label)
	})

	t.Run("Autocomplete without term", func(t *testing.T) {
		w := server.do(http.MethodGet, "/api/v1/airports/autocomplete", nil, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Airport by code", func(t *testing.T) {
		w := server.do(http.MethodGet, "/api/v1/airports/bog", nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "El Dorado")
	})

	t.Run("Unknown airport", func(t *testing.T) {
		w := server.do(http.MethodGet, "/api/v1/airports/ZZZ", nil, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Malformed code", func(t *testing.T) {
		w := server.do(http.MethodGet, "/api/v1/airports/TOOLONG", nil, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Stats", func(t *testing.T) {
		w := server.do(http.MethodGet, "/api/v1/stats", nil, "")
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Stats models.DatasetStats `json:"stats"`
		}
		decode(t, w, &resp)
		assert.Equal(t, 4, resp.Stats.TotalAirports)
		assert.Equal(t, 4, resp.Stats.TotalRoutes)
	})
}

func TestAdminHandlers(t *testing.T) {
	server := setupTestServer(t)

	t.Run("Login rejects wrong password", func(t *testing.T) {
		w := server.do(http.MethodPost, "/api/v1/admin/login", gin.H{"username": "ops", "password": "nope"}, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Login requires body", func(t *testing.T) {
		w := server.do(http.MethodPost, "/api/v1/admin/login", gin.H{"username": "ops"}, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Reload requires token", func(t *testing.T) {
		w := server.do(http.MethodPost, "/api/v1/admin/dataset/reload", nil, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	w := server.do(http.MethodPost, "/api/v1/admin/login", gin.H{"username": "ops", "password": testAdminPassword}, "")
	require.Equal(t, http.StatusOK, w.Code)
	var login models.AdminLoginResponse
	decode(t, w, &login)
	require.NotEmpty(t, login.AccessToken)

	t.Run("Reload picks up new routes", func(t *testing.T) {
		routes, err := server.dataset.LoadRoutes(context.Background())
		require.NoError(t, err)
		routes = append(routes, enriched("AV", "CUZ", "BOG", 1700, 158, 150))
		require.NoError(t, server.dataset.SaveRoutes(context.Background(), routes))

		w := server.do(http.MethodPost, "/api/v1/admin/dataset/reload", nil, login.AccessToken)
		require.Equal(t, http.StatusOK, w.Code)

		var resp models.ReloadResponse
		decode(t, w, &resp)
		assert.Equal(t, "success", resp.Status)
		assert.Equal(t, 5, resp.Stats.TotalRoutes)

		current, err := server.datasets.Current()
		require.NoError(t, err)
		assert.Len(t, current.Routes, 5)
	})

	t.Run("Analytics disabled without search log", func(t *testing.T) {
		w := server.do(http.MethodGet, "/api/v1/admin/analytics?days=30", nil, login.AccessToken)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("Non-admin token is forbidden", func(t *testing.T) {
		token, err := server.jwtService.GenerateToken("viewer", []string{"viewer"})
		require.NoError(t, err)

		w := server.do(http.MethodGet, "/api/v1/admin/analytics", nil, token)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
