package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/smarttransit/flight-route-backend/internal/models"
)

// SearchLogRepository records route searches for analytics
type SearchLogRepository struct {
	db *sqlx.DB
}

// NewSearchLogRepository creates a new search log repository
func NewSearchLogRepository(db DB) *SearchLogRepository {
	return &SearchLogRepository{db: unwrap(db, "SearchLogRepository")}
}

// LogSearch records a search query for analytics
func (r *SearchLogRepository) LogSearch(ctx context.Context, log *models.SearchLog) error {
	query := `
		INSERT INTO search_logs (
			id,
			origin,
			destination,
			objective,
			max_stops,
			found,
			total_stops,
			total_cost,
			response_time_ms,
			ip_address,
			device_type,
			created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now()
	}

	_, err := r.db.ExecContext(
		ctx,
		query,
		log.ID,
		log.Origin,
		log.Destination,
		log.Objective,
		log.MaxStops,
		log.Found,
		log.TotalStops,
		log.TotalCost,
		log.ResponseTimeMs,
		log.IPAddress,
		log.DeviceType,
		log.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("error logging search: %w", err)
	}

	return nil
}

// GetSearchAnalytics returns search analytics for the admin dashboard
func (r *SearchLogRepository) GetSearchAnalytics(ctx context.Context, days int) (*models.SearchAnalytics, error) {
	since := time.Now().AddDate(0, 0, -days)
	analytics := &models.SearchAnalytics{Days: days}

	var totals struct {
		Total       int     `db:"total"`
		Found       int     `db:"found"`
		AvgResponse float64 `db:"avg_response"`
	}
	err := r.db.GetContext(ctx, &totals, `
		SELECT
			COUNT(*) AS total,
			COUNT(CASE WHEN found THEN 1 END) AS found,
			COALESCE(AVG(response_time_ms), 0) AS avg_response
		FROM search_logs
		WHERE created_at > $1
	`, since)
	if err != nil {
		return nil, fmt.Errorf("error getting search totals: %w", err)
	}
	analytics.TotalSearches = totals.Total
	analytics.FoundSearches = totals.Found
	analytics.AvgResponseMs = totals.AvgResponse

	analytics.TopRoutes = []models.NamedCount{}
	err = r.db.SelectContext(ctx, &analytics.TopRoutes, `
		SELECT
			origin || '-' || destination AS name,
			COUNT(*) AS count
		FROM search_logs
		WHERE created_at > $1
		GROUP BY origin, destination
		ORDER BY count DESC, name
		LIMIT 10
	`, since)
	if err != nil {
		return nil, fmt.Errorf("error getting popular routes: %w", err)
	}

	analytics.ObjectiveUsage = []models.NamedCount{}
	err = r.db.SelectContext(ctx, &analytics.ObjectiveUsage, `
		SELECT
			objective AS name,
			COUNT(*) AS count
		FROM search_logs
		WHERE created_at > $1
		GROUP BY objective
		ORDER BY count DESC
	`, since)
	if err != nil {
		return nil, fmt.Errorf("error getting objective usage: %w", err)
	}

	return analytics, nil
}
