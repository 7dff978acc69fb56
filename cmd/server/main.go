package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/flight-route-backend/internal/config"
	"github.com/smarttransit/flight-route-backend/internal/database"
	"github.com/smarttransit/flight-route-backend/internal/handlers"
	"github.com/smarttransit/flight-route-backend/internal/repository"
	"github.com/smarttransit/flight-route-backend/internal/services"
	"github.com/smarttransit/flight-route-backend/pkg/jwt"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting flight route backend")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Set log level
	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Set Gin mode
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Database is only needed for the postgres data source and search logging
	var db database.DB
	if cfg.NeedsDatabase() {
		logger.Info("Connecting to database...")
		db, err = database.NewConnection(cfg.Database, logger)
		if err != nil {
			logger.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()
		logger.Info("Database connection established")
	}

	var source repository.DatasetSource
	if cfg.Data.Source == config.DataSourcePostgres {
		source = database.NewFlightRepository(db)
	} else {
		source = repository.NewJSONDataset(cfg.Data.AirportsPath, cfg.Data.RoutesPath, cfg.Data.AirlinesPath)
	}

	// Initialize services
	logger.Info("Initializing services...")
	datasetService := services.NewDatasetService(source, logger)
	loadCtx, cancelLoad := context.WithTimeout(context.Background(), 2*time.Minute)
	_, err = datasetService.Reload(loadCtx)
	cancelLoad()
	if err != nil {
		logger.Fatalf("Failed to load dataset: %v", err)
	}

	var searchLogs services.SearchLogStore
	if cfg.Search.LogEnabled {
		searchLogs = database.NewSearchLogRepository(db)
	}
	searchService := services.NewSearchService(datasetService, searchLogs, cfg.Search, logger)

	deps := routerDeps{
		cfg:           cfg,
		logger:        logger,
		db:            db,
		searchHandler: handlers.NewSearchHandler(searchService, logger),
	}

	if cfg.AdminEnabled() {
		jwtService := jwt.NewService(cfg.Admin.JWTSecret, cfg.Admin.TokenExpiry)
		adminAuthService := services.NewAdminAuthService(cfg.Admin, jwtService, logger)
		deps.jwtService = jwtService
		deps.adminHandler = handlers.NewAdminHandler(adminAuthService, datasetService, searchService, logger)
	} else {
		logger.Info("ADMIN_JWT_SECRET not set, admin API disabled")
	}

	var cronService *services.CronService
	if cfg.Cron.RefreshSchedule != "" {
		cronService = services.NewCronService(datasetService, logger)
		if err := cronService.Start(cfg.Cron.RefreshSchedule); err != nil {
			logger.Fatalf("Failed to start cron service: %v", err)
		}
	}

	router := newRouter(deps)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	if cronService != nil {
		cronService.Stop()
	}

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	// Flush pending search logs before the database closes
	searchService.Wait()

	logger.Info("Server exited successfully")
}
