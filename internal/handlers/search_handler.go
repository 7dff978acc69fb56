package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/flight-route-backend/internal/models"
	"github.com/smarttransit/flight-route-backend/internal/services"
	"github.com/smarttransit/flight-route-backend/internal/utils"
)

// SearchHandler handles HTTP requests for route search and airport lookup
type SearchHandler struct {
	service *services.SearchService
	logger  *logrus.Logger
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(service *services.SearchService, logger *logrus.Logger) *SearchHandler {
	return &SearchHandler{
		service: service,
		logger:  logger,
	}
}

// SearchRoutes handles POST /api/v1/search
// @Summary Search for the best itinerary
// @Description Find the cheapest, fastest or shortest itinerary between two airports
// @Tags Search
// @Accept json
// @Produce json
// @Param search body models.SearchRequest true "Search parameters"
// @Success 200 {object} models.SearchResponse
// @Failure 400 {object} map[string]interface{} "Invalid request"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/v1/search [post]
func (h *SearchHandler) SearchRoutes(c *gin.Context) {
	var req models.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Warn("Invalid search request - JSON parsing failed")
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid request format",
			"error":   err.Error(),
		})
		return
	}

	client := models.ClientInfo{
		IPAddress:  utils.GetRealIP(c),
		DeviceType: utils.ClientDevice(c),
	}

	response, err := h.service.SearchRoutes(c.Request.Context(), &req, client)
	if err != nil {
		h.respondError(c, err, "Failed to search for routes. Please try again later.")
		return
	}

	c.JSON(http.StatusOK, response)
}

// DirectFlights handles GET /api/v1/flights/direct
// @Summary List direct flights
// @Tags Search
// @Produce json
// @Param origin query string true "Origin IATA code"
// @Param destination query string true "Destination IATA code"
// @Param objective query string false "price, duration or hops"
// @Param max_price query int false "Maximum price in USD"
// @Param max_duration query int false "Maximum duration in minutes"
// @Success 200 {object} models.DirectFlightsResponse
// @Router /api/v1/flights/direct [get]
func (h *SearchHandler) DirectFlights(c *gin.Context) {
	var req models.DirectFlightsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid query parameters",
			"error":   err.Error(),
		})
		return
	}

	response, err := h.service.DirectFlights(c.Request.Context(), &req)
	if err != nil {
		h.respondError(c, err, "Failed to list direct flights")
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetAirportAutocomplete handles GET /api/v1/airports/autocomplete
// @Summary Get airport autocomplete suggestions
// @Tags Airports
// @Produce json
// @Param q query string true "Search term"
// @Param limit query int false "Maximum number of suggestions" default(10)
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/airports/autocomplete [get]
func (h *SearchHandler) GetAirportAutocomplete(c *gin.Context) {
	searchTerm := c.Query("q")
	if searchTerm == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Search term 'q' is required",
		})
		return
	}

	limit := 10
	if limitStr := c.Query("limit"); limitStr != "" {
		if parsedLimit, err := strconv.Atoi(limitStr); err == nil && parsedLimit > 0 {
			limit = parsedLimit
		}
	}

	suggestions, err := h.service.Autocomplete(searchTerm, limit)
	if err != nil {
		h.respondError(c, err, "Failed to retrieve suggestions")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":      "success",
		"suggestions": suggestions,
		"count":       len(suggestions),
	})
}

// GetAirport handles GET /api/v1/airports/:code
func (h *SearchHandler) GetAirport(c *gin.Context) {
	airport, err := h.service.Airport(c.Param("code"))
	if err != nil {
		h.respondError(c, err, "Failed to retrieve airport")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"airport": airport,
	})
}

// GetStats handles GET /api/v1/stats
func (h *SearchHandler) GetStats(c *gin.Context) {
	stats, err := h.service.Stats()
	if err != nil {
		h.respondError(c, err, "Failed to retrieve statistics")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"stats":  stats,
	})
}

// respondError maps service errors onto HTTP responses
func (h *SearchHandler) respondError(c *gin.Context, err error, message string) {
	var validationErr *models.ValidationError
	switch {
	case errors.As(err, &validationErr):
		h.logger.WithError(err).Warn("Validation error in request")
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": err.Error(),
		})
	case errors.Is(err, services.ErrAirportNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"status":  "error",
			"message": err.Error(),
		})
	case errors.Is(err, services.ErrDatasetNotLoaded):
		h.logger.WithError(err).Error("Request received before dataset was loaded")
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "error",
			"message": "Dataset is not loaded yet",
		})
	default:
		h.logger.WithError(err).Error(message)
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": message,
		})
	}
}
