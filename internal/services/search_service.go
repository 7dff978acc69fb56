package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/flight-route-backend/internal/config"
	"github.com/smarttransit/flight-route-backend/internal/enrichment"
	"github.com/smarttransit/flight-route-backend/internal/graph"
	"github.com/smarttransit/flight-route-backend/internal/models"
	"github.com/smarttransit/flight-route-backend/internal/search"
	"github.com/smarttransit/flight-route-backend/pkg/validator"
)

var (
	// ErrAirportNotFound is returned when a code is not part of the dataset
	ErrAirportNotFound = errors.New("airport not found")

	// ErrAnalyticsDisabled is returned when search logging is not configured
	ErrAnalyticsDisabled = errors.New("search analytics are disabled")
)

const (
	autocompleteMinLength = 2
	autocompleteMaxLimit  = 50
	searchLogTimeout      = 5 * time.Second
)

// SearchLogStore records searches and aggregates them for the admin dashboard
type SearchLogStore interface {
	LogSearch(ctx context.Context, log *models.SearchLog) error
	GetSearchAnalytics(ctx context.Context, days int) (*models.SearchAnalytics, error)
}

// SearchService handles business logic for itinerary search
type SearchService struct {
	datasets *DatasetService
	logs     SearchLogStore // nil disables logging
	cfg      config.SearchConfig
	logger   *logrus.Logger
	pending  sync.WaitGroup
}

// NewSearchService creates a new search service
func NewSearchService(datasets *DatasetService, logs SearchLogStore, cfg config.SearchConfig, logger *logrus.Logger) *SearchService {
	return &SearchService{
		datasets: datasets,
		logs:     logs,
		cfg:      cfg,
		logger:   logger,
	}
}

// SearchRoutes finds the best itinerary between two airports
func (s *SearchService) SearchRoutes(ctx context.Context, req *models.SearchRequest, client models.ClientInfo) (*models.SearchResponse, error) {
	startTime := time.Now()

	if err := req.Validate(s.cfg.DefaultMaxStops); err != nil {
		return nil, err
	}

	dataset, err := s.datasets.Current()
	if err != nil {
		return nil, err
	}

	response := &models.SearchResponse{
		Status: "not_found",
		Criteria: models.SearchCriteria{
			Origin:      req.Origin,
			Destination: req.Destination,
			Objective:   req.Objective,
			MaxStops:    *req.MaxStops,
		},
	}

	var itinerary *models.Itinerary
	switch {
	case !s.knownAirport(dataset, req.Origin):
		response.Message = fmt.Sprintf("Airport %s is not in the dataset", req.Origin)
	case !s.knownAirport(dataset, req.Destination):
		response.Message = fmt.Sprintf("Airport %s is not in the dataset", req.Destination)
	default:
		g := dataset.Graph(graph.WeightFieldFor(req.Objective))

		var found bool
		itinerary, found = search.Search(g, req.Origin, req.Destination, *req.MaxStops)
		if !found {
			itinerary = nil
			response.Message = fmt.Sprintf("No route found from %s to %s within %d leg(s)", req.Origin, req.Destination, *req.MaxStops)
			break
		}

		summary := summarize(dataset, itinerary)
		if reason := exceedsFilters(req, summary); reason != "" {
			itinerary = nil
			response.Message = reason
			break
		}

		response.Status = "success"
		response.Found = true
		response.Itinerary = itinerary
		response.Summary = summary
		response.Segments = segments(dataset, itinerary)
		response.Message = fmt.Sprintf("Found route %s with %d leg(s)", strings.Join(itinerary.Path, "-"), itinerary.TotalStops)
	}

	responseTime := time.Since(startTime)
	response.SearchTimeMs = responseTime.Milliseconds()

	s.logger.WithFields(logrus.Fields{
		"origin":      req.Origin,
		"destination": req.Destination,
		"objective":   req.Objective,
		"max_stops":   *req.MaxStops,
		"found":       response.Found,
		"response_ms": response.SearchTimeMs,
	}).Info("Route search completed")

	s.logSearch(req, itinerary, client, responseTime)

	return response, nil
}

// DirectFlights lists the non-stop legs from origin to destination
func (s *SearchService) DirectFlights(ctx context.Context, req *models.DirectFlightsRequest) (*models.DirectFlightsResponse, error) {
	objective, err := req.Validate(s.cfg.DirectResultsLimit)
	if err != nil {
		return nil, err
	}

	dataset, err := s.datasets.Current()
	if err != nil {
		return nil, err
	}

	var direct []models.EnrichedRoute
	for _, route := range dataset.Routes {
		if route.Origin == req.Origin && route.Destination == req.Destination {
			direct = append(direct, route)
		}
	}

	filtered := make([]models.EnrichedRoute, 0, len(direct))
	for _, route := range direct {
		if req.MaxPrice != nil && route.PriceUSD > *req.MaxPrice {
			continue
		}
		if req.MaxDurationMin != nil && route.DurationMin > *req.MaxDurationMin {
			continue
		}
		filtered = append(filtered, route)
	}

	switch objective {
	case models.ObjectivePrice:
		sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].PriceUSD < filtered[j].PriceUSD })
	case models.ObjectiveDuration:
		sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].DurationMin < filtered[j].DurationMin })
	}
	if len(filtered) > req.Limit {
		filtered = filtered[:req.Limit]
	}

	response := &models.DirectFlightsResponse{
		Status:         "success",
		FiltersApplied: req.MaxPrice != nil || req.MaxDurationMin != nil,
		TotalDirect:    len(direct),
		Flights:        filtered,
	}
	switch {
	case len(filtered) > 0:
		response.Message = fmt.Sprintf("Found %d direct flight(s) from %s to %s", len(filtered), req.Origin, req.Destination)
	case response.FiltersApplied && len(direct) > 0:
		response.Status = "not_found"
		response.Message = "No direct flights match the current filters"
	default:
		response.Status = "not_found"
		response.Message = fmt.Sprintf("No direct flights from %s to %s", req.Origin, req.Destination)
	}

	return response, nil
}

// Autocomplete returns airports whose code, city or name match term
func (s *SearchService) Autocomplete(term string, limit int) ([]models.AirportSuggestion, error) {
	term = strings.ToLower(strings.TrimSpace(term))
	if len(term) < autocompleteMinLength {
		return []models.AirportSuggestion{}, nil
	}
	if limit <= 0 {
		limit = 10
	}
	if limit > autocompleteMaxLimit {
		limit = autocompleteMaxLimit
	}

	dataset, err := s.datasets.Current()
	if err != nil {
		return nil, err
	}

	type match struct {
		suggestion models.AirportSuggestion
		rank       int
	}
	var matches []match
	for code, airport := range dataset.Airports {
		rank := -1
		switch {
		case strings.ToLower(code) == term:
			rank = 0
		case strings.HasPrefix(strings.ToLower(airport.City), term):
			rank = 1
		case strings.Contains(strings.ToLower(airport.Name), term), strings.Contains(strings.ToLower(airport.City), term):
			rank = 2
		}
		if rank < 0 {
			continue
		}
		matches = append(matches, match{
			suggestion: models.AirportSuggestion{
				Code:       code,
				Label:      airport.Label(),
				Name:       airport.Name,
				City:       airport.City,
				Country:    airport.Country,
				RouteCount: dataset.RouteCount(code),
			},
			rank: rank,
		})
	}

	sort.Slice(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.rank != b.rank {
			return a.rank < b.rank
		}
		if a.suggestion.RouteCount != b.suggestion.RouteCount {
			return a.suggestion.RouteCount > b.suggestion.RouteCount
		}
		return a.suggestion.Code < b.suggestion.Code
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}
	suggestions := make([]models.AirportSuggestion, len(matches))
	for i, m := range matches {
		suggestions[i] = m.suggestion
	}
	return suggestions, nil
}

// Airport returns one airport by IATA code
func (s *SearchService) Airport(code string) (*models.Airport, error) {
	sanitized, err := validator.NewCodeValidator().ValidateAirport(code)
	if err != nil {
		return nil, models.ErrInvalidInput(fmt.Sprintf("code: %v", err))
	}

	dataset, err := s.datasets.Current()
	if err != nil {
		return nil, err
	}

	airport, ok := dataset.Airports[sanitized]
	if !ok {
		return nil, ErrAirportNotFound
	}
	return &airport, nil
}

// Stats returns the statistics of the loaded dataset
func (s *SearchService) Stats() (*models.DatasetStats, error) {
	dataset, err := s.datasets.Current()
	if err != nil {
		return nil, err
	}
	stats := dataset.Stats
	return &stats, nil
}

// GetSearchAnalytics returns search analytics for admin dashboard
func (s *SearchService) GetSearchAnalytics(ctx context.Context, days int) (*models.SearchAnalytics, error) {
	if s.logs == nil {
		return nil, ErrAnalyticsDisabled
	}
	if days <= 0 {
		days = 7
	}
	if days > 90 {
		days = 90
	}

	analytics, err := s.logs.GetSearchAnalytics(ctx, days)
	if err != nil {
		s.logger.WithError(err).Error("Error getting search analytics")
		return nil, fmt.Errorf("error retrieving analytics: %w", err)
	}
	return analytics, nil
}

// Wait blocks until pending search log writes have finished
func (s *SearchService) Wait() {
	s.pending.Wait()
}

func (s *SearchService) knownAirport(dataset *Dataset, code string) bool {
	_, ok := dataset.Airports[code]
	return ok
}

// logSearch records the search for analytics without blocking the response
func (s *SearchService) logSearch(req *models.SearchRequest, itinerary *models.Itinerary, client models.ClientInfo, responseTime time.Duration) {
	if s.logs == nil {
		return
	}

	log := &models.SearchLog{
		ID:             uuid.New(),
		Origin:         req.Origin,
		Destination:    req.Destination,
		Objective:      string(req.Objective),
		MaxStops:       *req.MaxStops,
		Found:          itinerary != nil,
		ResponseTimeMs: responseTime.Milliseconds(),
		CreatedAt:      time.Now(),
	}
	if itinerary != nil {
		stops, cost := itinerary.TotalStops, itinerary.TotalCost
		log.TotalStops = &stops
		log.TotalCost = &cost
	}
	if client.IPAddress != "" {
		log.IPAddress = &client.IPAddress
	}
	if client.DeviceType != "" {
		log.DeviceType = &client.DeviceType
	}

	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), searchLogTimeout)
		defer cancel()
		if err := s.logs.LogSearch(ctx, log); err != nil {
			s.logger.WithError(err).Warn("Failed to log search")
		}
	}()
}

func summarize(dataset *Dataset, itinerary *models.Itinerary) *models.ItinerarySummary {
	summary := &models.ItinerarySummary{Stops: itinerary.TotalStops}
	for _, leg := range itinerary.Legs {
		summary.TotalPriceUSD += leg.PriceUSD
		summary.TotalDurationMin += leg.DurationMin
		summary.TotalDistanceKm += leg.DistanceKm
	}
	summary.TotalDistanceKm = math.Round(summary.TotalDistanceKm*100) / 100
	summary.TotalDuration = enrichment.FormatDuration(summary.TotalDurationMin)

	parts := make([]string, len(itinerary.Path))
	for i, code := range itinerary.Path {
		parts[i] = fmt.Sprintf("%s (%s)", code, dataset.Airports[code].City)
	}
	summary.Route = strings.Join(parts, " → ")
	return summary
}

func segments(dataset *Dataset, itinerary *models.Itinerary) []models.LegDetail {
	details := make([]models.LegDetail, len(itinerary.Legs))
	for i, leg := range itinerary.Legs {
		from, to := dataset.Airports[leg.Origin], dataset.Airports[leg.Destination]
		details[i] = models.LegDetail{
			Sequence:    i + 1,
			Airline:     leg.Airline,
			From:        from.Ref(),
			To:          to.Ref(),
			DistanceKm:  leg.DistanceKm,
			DurationMin: leg.DurationMin,
			Duration:    enrichment.FormatDuration(leg.DurationMin),
			PriceUSD:    leg.PriceUSD,
		}
	}
	return details
}

// exceedsFilters explains why an itinerary is rejected by the optional
// price and duration caps, or returns ""
func exceedsFilters(req *models.SearchRequest, summary *models.ItinerarySummary) string {
	if req.MaxPrice != nil && summary.TotalPriceUSD > *req.MaxPrice {
		return fmt.Sprintf("Best route costs $%d, above the max_price of $%d", summary.TotalPriceUSD, *req.MaxPrice)
	}
	if req.MaxDurationMin != nil && summary.TotalDurationMin > *req.MaxDurationMin {
		return fmt.Sprintf("Best route takes %s, above the max_duration_min of %d", summary.TotalDuration, *req.MaxDurationMin)
	}
	return ""
}
