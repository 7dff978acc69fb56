package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/flight-route-backend/internal/middleware"
	"github.com/smarttransit/flight-route-backend/internal/models"
	"github.com/smarttransit/flight-route-backend/internal/services"
)

// AdminHandler handles admin HTTP requests
type AdminHandler struct {
	authService   *services.AdminAuthService
	datasets      *services.DatasetService
	searchService *services.SearchService
	logger        *logrus.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(
	authService *services.AdminAuthService,
	datasets *services.DatasetService,
	searchService *services.SearchService,
	logger *logrus.Logger,
) *AdminHandler {
	return &AdminHandler{
		authService:   authService,
		datasets:      datasets,
		searchService: searchService,
		logger:        logger,
	}
}

// Login handles POST /api/v1/admin/login
// @Summary Admin login
// @Tags Admin
// @Accept json
// @Produce json
// @Param loginRequest body models.AdminLoginRequest true "Login credentials"
// @Success 200 {object} models.AdminLoginResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /api/v1/admin/login [post]
func (h *AdminHandler) Login(c *gin.Context) {
	var req models.AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	response, err := h.authService.Login(&req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		h.logger.WithError(err).Error("Admin login failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log in"})
		return
	}

	c.JSON(http.StatusOK, response)
}

// ReloadDataset handles POST /api/v1/admin/dataset/reload
// @Security Bearer
func (h *AdminHandler) ReloadDataset(c *gin.Context) {
	adminCtx, _ := middleware.GetAdminContext(c)

	stats, err := h.datasets.Reload(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).WithField("admin", adminCtx.Username).Error("Dataset reload failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to reload dataset",
		})
		return
	}

	h.logger.WithFields(logrus.Fields{
		"admin":    adminCtx.Username,
		"airports": stats.TotalAirports,
		"routes":   stats.TotalRoutes,
	}).Info("Dataset reloaded by admin")

	c.JSON(http.StatusOK, models.ReloadResponse{
		Status: "success",
		Stats:  *stats,
	})
}

// GetSearchAnalytics handles GET /api/v1/admin/analytics
// @Param days query int false "Number of days to analyze" default(7)
// @Security Bearer
func (h *AdminHandler) GetSearchAnalytics(c *gin.Context) {
	days := 7
	if daysStr := c.Query("days"); daysStr != "" {
		if parsedDays, err := strconv.Atoi(daysStr); err == nil && parsedDays > 0 {
			days = parsedDays
		}
	}

	analytics, err := h.searchService.GetSearchAnalytics(c.Request.Context(), days)
	if err != nil {
		if errors.Is(err, services.ErrAnalyticsDisabled) {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "error",
				"message": "Search logging is disabled",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to retrieve analytics",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "success",
		"analytics": analytics,
	})
}
