package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/flight-route-backend/internal/config"
	"github.com/smarttransit/flight-route-backend/internal/database"
	"github.com/smarttransit/flight-route-backend/internal/handlers"
	"github.com/smarttransit/flight-route-backend/internal/middleware"
	"github.com/smarttransit/flight-route-backend/internal/services"
	"github.com/smarttransit/flight-route-backend/pkg/jwt"
)

// routerDeps holds everything the HTTP layer needs.
// adminHandler and jwtService are nil when the admin API is disabled; db is
// nil when no component uses Postgres.
type routerDeps struct {
	cfg           *config.Config
	logger        *logrus.Logger
	db            database.DB
	searchHandler *handlers.SearchHandler
	adminHandler  *handlers.AdminHandler
	jwtService    *jwt.Service
}

func newRouter(deps routerDeps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(requestLogger(deps.logger))

	// CORS configuration
	corsConfig := cors.Config{
		AllowOrigins:     deps.cfg.CORS.AllowedOrigins,
		AllowMethods:     deps.cfg.CORS.AllowedMethods,
		AllowHeaders:     deps.cfg.CORS.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(corsConfig.AllowOrigins) == 1 && corsConfig.AllowOrigins[0] == "*" {
		corsConfig.AllowOrigins = nil
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", healthCheckHandler(deps.db))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/search", deps.searchHandler.SearchRoutes)
		v1.GET("/flights/direct", deps.searchHandler.DirectFlights)
		v1.GET("/stats", deps.searchHandler.GetStats)

		airports := v1.Group("/airports")
		{
			airports.GET("/autocomplete", deps.searchHandler.GetAirportAutocomplete)
			airports.GET("/:code", deps.searchHandler.GetAirport)
		}

		if deps.adminHandler != nil {
			v1.POST("/admin/login", deps.adminHandler.Login)

			admin := v1.Group("/admin")
			admin.Use(middleware.AuthMiddleware(deps.jwtService, deps.logger))
			admin.Use(middleware.RequireRole(services.AdminRole))
			{
				admin.POST("/dataset/reload", deps.adminHandler.ReloadDataset)
				admin.GET("/analytics", deps.adminHandler.GetSearchAnalytics)
			}
		}
	}

	return router
}

// requestLogger middleware for logging HTTP requests
func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		fields := logrus.Fields{
			"status":     c.Writer.Status(),
			"method":     c.Request.Method,
			"path":       path,
			"query":      query,
			"ip":         c.ClientIP(),
			"latency_ms": time.Since(start).Milliseconds(),
			"user_agent": c.Request.UserAgent(),
			"has_auth":   c.GetHeader("Authorization") != "",
		}
		if adminCtx, ok := middleware.GetAdminContext(c); ok {
			fields["admin"] = adminCtx.Username
		}

		entry := logger.WithFields(fields)

		if len(c.Errors) > 0 {
			for i, err := range c.Errors {
				entry = entry.WithField(fmt.Sprintf("error_%d", i), err.Error())
			}
			entry.Error("Request failed with errors")
			return
		}

		status := c.Writer.Status()
		switch {
		case status >= 500:
			entry.Error("Request completed with server error")
		case status >= 400:
			entry.Warn("Request completed with client error")
		default:
			entry.Info("Request completed successfully")
		}
	}
}

// healthCheckHandler returns a health check endpoint
func healthCheckHandler(db database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		dbStatus := "disabled"
		if db != nil {
			dbStatus = "healthy"
			if err := db.Ping(); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status":   "unhealthy",
					"database": "unhealthy",
					"error":    err.Error(),
				})
				return
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"database":  dbStatus,
			"version":   version,
			"timestamp": time.Now().Unix(),
		})
	}
}
