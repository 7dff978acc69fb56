package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/flight-route-backend/internal/config"
	"github.com/smarttransit/flight-route-backend/internal/database"
	"github.com/smarttransit/flight-route-backend/internal/enrichment"
	"github.com/smarttransit/flight-route-backend/internal/models"
	"github.com/smarttransit/flight-route-backend/internal/repository"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found, using environment variables")
	}
	cfg := config.FromEnv()

	airportsPath := flag.String("airports", cfg.Data.AirportsPath, "airports JSON (map keyed by IATA)")
	routesPath := flag.String("routes", "data/processed/routes.json", "raw routes JSON written by ingest")
	outPath := flag.String("out", cfg.Data.RoutesPath, "enriched routes JSON output")
	workers := flag.Int("workers", cfg.Enrichment.Workers, "number of concurrent enrichment workers")
	toPostgres := flag.Bool("postgres", false, "store enriched routes in DATABASE_URL instead of -out")
	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	airports := make(map[string]models.Airport)
	if err := repository.ReadJSONFile(*airportsPath, &airports); err != nil {
		logger.Fatalf("Failed to read airports: %v", err)
	}
	var routes []models.RouteLeg
	if err := repository.ReadJSONFile(*routesPath, &routes); err != nil {
		logger.Fatalf("Failed to read routes: %v", err)
	}

	start := time.Now()
	enriched, stats, err := enrichment.EnrichAll(ctx, airports, routes, *workers)
	if err != nil {
		logger.Fatalf("Enrichment failed: %v", err)
	}
	logger.WithFields(logrus.Fields{
		"processed":   stats.Processed,
		"skipped":     stats.Skipped,
		"workers":     *workers,
		"duration_ms": time.Since(start).Milliseconds(),
	}).Info("Routes enriched")

	var sink repository.DatasetSink
	if *toPostgres {
		db, err := database.NewConnection(cfg.Database, logger)
		if err != nil {
			logger.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		repo := database.NewFlightRepository(db)
		if err := repo.SaveAirports(ctx, airports); err != nil {
			logger.Fatalf("Failed to store airports: %v", err)
		}
		sink = repo
	} else {
		sink = &repository.JSONDataset{RoutesPath: *outPath}
	}

	if err := sink.SaveRoutes(ctx, enriched); err != nil {
		logger.Fatalf("Failed to store enriched routes: %v", err)
	}

	if len(enriched) > 0 {
		sample := enriched[0]
		logger.Infof("Sample: %s-%s (%s) %.2f km, %s, $%d",
			sample.Origin, sample.Destination, sample.Airline,
			sample.DistanceKm, enrichment.FormatDuration(sample.DurationMin), sample.PriceUSD)
	}
	logger.Info("Enrichment complete")
}
