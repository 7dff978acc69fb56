package main

import (
	"bufio"
	"context"
	"flag"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/flight-route-backend/internal/config"
	"github.com/smarttransit/flight-route-backend/internal/database"
	"github.com/smarttransit/flight-route-backend/internal/graph"
	"github.com/smarttransit/flight-route-backend/internal/repository"
)

func main() {
	country := flag.String("country", "Peru", "country whose domestic network is exported")
	outPath := flag.String("out", "", "output .dot file (default stdout)")
	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logger.SetOutput(os.Stderr)

	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file found, using environment variables")
	}
	cfg := config.FromEnv()
	ctx := context.Background()

	var source repository.DatasetSource
	if cfg.Data.Source == config.DataSourcePostgres {
		db, err := database.NewConnection(cfg.Database, logger)
		if err != nil {
			logger.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()
		source = database.NewFlightRepository(db)
	} else {
		source = repository.NewJSONDataset(cfg.Data.AirportsPath, cfg.Data.RoutesPath, "")
	}

	airports, err := source.LoadAirports(ctx)
	if err != nil {
		logger.Fatalf("Failed to load airports: %v", err)
	}
	routes, err := source.LoadRoutes(ctx)
	if err != nil {
		logger.Fatalf("Failed to load routes: %v", err)
	}

	var out io.Writer = os.Stdout
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			logger.Fatalf("Failed to create %s: %v", *outPath, err)
		}
		defer f.Close()
		out = f
	}

	w := bufio.NewWriter(out)
	edges, err := graph.WriteDOT(w, airports, routes, *country)
	if err == nil {
		err = w.Flush()
	}
	if err != nil {
		logger.Fatalf("Failed to write graph: %v", err)
	}

	logger.WithFields(logrus.Fields{"country": *country, "edges": edges}).Info("Graph exported")
}
