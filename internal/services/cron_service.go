package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/flight-route-backend/internal/models"
)

const reloadJobTimeout = 2 * time.Minute

// Reloader refreshes the in-memory dataset
type Reloader interface {
	Reload(ctx context.Context) (*models.DatasetStats, error)
}

// CronService manages scheduled background jobs
type CronService struct {
	cron     *cron.Cron
	reloader Reloader
	logger   *logrus.Logger
}

// NewCronService creates a new CronService.
// Schedules use the six-field format with seconds, e.g. "0 0 3 * * *".
func NewCronService(reloader Reloader, logger *logrus.Logger) *CronService {
	return &CronService{
		cron:     cron.New(cron.WithSeconds()),
		reloader: reloader,
		logger:   logger,
	}
}

// Start schedules the dataset reload and starts the scheduler
func (s *CronService) Start(schedule string) error {
	if _, err := s.cron.AddFunc(schedule, s.reloadDatasetJob); err != nil {
		return fmt.Errorf("failed to schedule dataset reload job: %w", err)
	}

	s.cron.Start()
	s.logger.WithField("schedule", schedule).Info("Cron service started")
	return nil
}

// Stop stops the scheduler and waits for running jobs
func (s *CronService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Cron service stopped")
}

// JobCount returns the number of scheduled jobs
func (s *CronService) JobCount() int {
	return len(s.cron.Entries())
}

func (s *CronService) reloadDatasetJob() {
	startTime := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), reloadJobTimeout)
	defer cancel()

	stats, err := s.reloader.Reload(ctx)
	if err != nil {
		s.logger.WithError(err).Error("[CRON] Dataset reload failed")
		return
	}

	s.logger.WithFields(logrus.Fields{
		"airports":    stats.TotalAirports,
		"routes":      stats.TotalRoutes,
		"duration_ms": time.Since(startTime).Milliseconds(),
	}).Info("[CRON] Dataset reloaded")
}
