package main

import (
	"context"
	"flag"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/flight-route-backend/internal/config"
	"github.com/smarttransit/flight-route-backend/internal/database"
	"github.com/smarttransit/flight-route-backend/internal/ingest"
	"github.com/smarttransit/flight-route-backend/internal/models"
	"github.com/smarttransit/flight-route-backend/internal/repository"
)

func main() {
	rawDir := flag.String("raw", "data/raw", "directory holding airports.dat, routes.dat and airlines.dat")
	outDir := flag.String("out", "data/processed", "output directory for the JSON dataset")
	limit := flag.Int("limit", 0, "keep at most this many airports (0 = all)")
	toPostgres := flag.Bool("postgres", false, "also store airports and airlines in DATABASE_URL")
	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file found, using environment variables")
	}
	cfg := config.FromEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	airports, stats, err := parseFile(filepath.Join(*rawDir, "airports.dat"), func(r io.Reader) (map[string]models.Airport, ingest.Stats, error) {
		return ingest.ParseAirports(r, *limit)
	})
	if err != nil {
		logger.Fatalf("Failed to parse airports: %v", err)
	}
	logger.WithFields(logrus.Fields{"kept": stats.Kept, "skipped": stats.Skipped}).Info("Airports parsed")

	routes, stats, err := parseFile(filepath.Join(*rawDir, "routes.dat"), func(r io.Reader) ([]models.RouteLeg, ingest.Stats, error) {
		return ingest.ParseRoutes(r, airports)
	})
	if err != nil {
		logger.Fatalf("Failed to parse routes: %v", err)
	}
	logger.WithFields(logrus.Fields{"kept": stats.Kept, "skipped": stats.Skipped}).Info("Routes parsed")

	airlines, stats, err := parseFile(filepath.Join(*rawDir, "airlines.dat"), ingest.ParseAirlines)
	if err != nil {
		logger.Fatalf("Failed to parse airlines: %v", err)
	}
	logger.WithFields(logrus.Fields{"kept": stats.Kept, "skipped": stats.Skipped}).Info("Airlines parsed")

	dataset := repository.NewJSONDataset(
		filepath.Join(*outDir, "airports.json"),
		filepath.Join(*outDir, "routes.json"),
		filepath.Join(*outDir, "airlines.json"),
	)
	if err := dataset.SaveAirports(ctx, airports); err != nil {
		logger.Fatalf("Failed to write airports: %v", err)
	}
	if err := repository.WriteJSONFile(dataset.RoutesPath, routes); err != nil {
		logger.Fatalf("Failed to write routes: %v", err)
	}
	if err := dataset.SaveAirlines(ctx, airlines); err != nil {
		logger.Fatalf("Failed to write airlines: %v", err)
	}
	logger.WithField("dir", *outDir).Info("JSON dataset written")

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
		if err := repo.SaveAirlines(ctx, airlines); err != nil {
			logger.Fatalf("Failed to store airlines: %v", err)
		}
		logger.Info("Airports and airlines stored in Postgres")
	}

	routeAirlines := make([]string, len(routes))
	for i, route := range routes {
		routeAirlines[i] = route.Airline
	}
	summary := ingest.Summarize(airports, routeAirlines, airlines, 5)

	logger.WithFields(logrus.Fields{
		"airports": summary.TotalAirports,
		"routes":   summary.TotalRoutes,
		"airlines": summary.TotalAirlines,
	}).Info("Dataset statistics")
	for i, country := range summary.TopCountries {
		logger.Infof("Top country %d: %s (%d airports)", i+1, country.Name, country.Count)
	}
	for i, airline := range summary.TopAirlines {
		logger.Infof("Top airline %d: %s [%s] (%d routes)", i+1, airline.Name, airline.Code, airline.Count)
	}
}

func parseFile[T any](path string, parse func(r io.Reader) (T, ingest.Stats, error)) (T, ingest.Stats, error) {
	var zero T
	f, err := os.Open(path)
	if err != nil {
		return zero, ingest.Stats{}, err
	}
	defer f.Close()
	return parse(f)
}
