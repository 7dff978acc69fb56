package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Data sources for the airport and route dataset
const (
	DataSourceJSON     = "json"
	DataSourcePostgres = "postgres"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Server ServerConfig

	// Dataset location
	Data DataConfig

	// Database configuration
	Database DatabaseConfig

	// Route search configuration
	Search SearchConfig

	// Batch enrichment configuration
	Enrichment EnrichmentConfig

	// Admin API configuration
	Admin AdminConfig

	// Scheduled jobs
	Cron CronConfig

	// CORS configuration
	CORS CORSConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port        string
	Environment string // development, staging, production
	LogLevel    string // debug, info, warn, error
}

// DataConfig tells the server where the processed dataset lives
type DataConfig struct {
	Source       string // "json" or "postgres"
	AirportsPath string
	RoutesPath   string // enriched routes
	AirlinesPath string
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	URL                string
	MaxConnections     int
	MaxIdleConnections int
	ConnMaxLifetime    time.Duration
}

// SearchConfig holds route search defaults
type SearchConfig struct {
	DefaultMaxStops    int  // Used when a request omits max_stops; large enough to disable the bound
	DirectResultsLimit int  // Maximum direct flights returned
	LogEnabled         bool // Record searches in search_logs
}

// EnrichmentConfig holds batch enrichment settings
type EnrichmentConfig struct {
	Workers int
}

// AdminConfig holds admin authentication settings.
// Admin routes are disabled when JWTSecret is empty.
type AdminConfig struct {
	Username     string
	PasswordHash string // bcrypt
	JWTSecret    string
	TokenExpiry  time.Duration
}

// CronConfig holds scheduled job settings
type CronConfig struct {
	RefreshSchedule string // Cron expression for dataset reloads; empty disables
}

// CORSConfig holds CORS-related configuration
type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (for local development)
	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found, using environment variables")
	}

	config := FromEnv()

	// Validate required configuration
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// FromEnv builds the configuration from the current environment without
// reading .env files or validating
func FromEnv() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "8080"),
			Environment: getEnv("ENVIRONMENT", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
		},
		Data: DataConfig{
			Source:       strings.ToLower(getEnv("DATA_SOURCE", DataSourceJSON)),
			AirportsPath: getEnv("AIRPORTS_PATH", "data/processed/airports.json"),
			RoutesPath:   getEnv("ROUTES_PATH", "data/processed/routes_enriched.json"),
			AirlinesPath: getEnv("AIRLINES_PATH", "data/processed/airlines.json"),
		},
		Database: DatabaseConfig{
			URL:                getEnv("DATABASE_URL", ""),
			MaxConnections:     getEnvAsInt("DATABASE_MAX_CONNECTIONS", 10),
			MaxIdleConnections: getEnvAsInt("DATABASE_MAX_IDLE_CONNECTIONS", 5),
			ConnMaxLifetime:    time.Duration(getEnvAsInt("DATABASE_CONN_MAX_LIFETIME", 300)) * time.Second,
		},
		Search: SearchConfig{
			DefaultMaxStops:    getEnvAsInt("SEARCH_DEFAULT_MAX_STOPS", 999),
			DirectResultsLimit: getEnvAsInt("SEARCH_DIRECT_RESULTS_LIMIT", 10),
			LogEnabled:         getEnvAsBool("SEARCH_LOG_ENABLED", false),
		},
		Enrichment: EnrichmentConfig{
			Workers: getEnvAsInt("ENRICH_WORKERS", 4),
		},
		Admin: AdminConfig{
			Username:     getEnv("ADMIN_USERNAME", "admin"),
			PasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
			JWTSecret:    getEnv("ADMIN_JWT_SECRET", ""),
			TokenExpiry:  time.Duration(getEnvAsInt("ADMIN_TOKEN_EXPIRY", 3600)) * time.Second,
		},
		Cron: CronConfig{
			RefreshSchedule: getEnv("DATASET_REFRESH_CRON", ""),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
			AllowedMethods: getEnvAsSlice("CORS_ALLOWED_METHODS", []string{"GET", "POST", "OPTIONS"}),
			AllowedHeaders: getEnvAsSlice("CORS_ALLOWED_HEADERS", []string{"Content-Type", "Authorization"}),
		},
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Data.Source {
	case DataSourceJSON:
		if c.Data.AirportsPath == "" || c.Data.RoutesPath == "" {
			return fmt.Errorf("AIRPORTS_PATH and ROUTES_PATH are required for the json data source")
		}
	case DataSourcePostgres:
	default:
		return fmt.Errorf("invalid DATA_SOURCE: %s (must be 'json' or 'postgres')", c.Data.Source)
	}

	if c.NeedsDatabase() && c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required when DATA_SOURCE=postgres or SEARCH_LOG_ENABLED=true")
	}

	if c.Search.DefaultMaxStops < 0 {
		return fmt.Errorf("SEARCH_DEFAULT_MAX_STOPS cannot be negative")
	}

	if c.Search.DirectResultsLimit <= 0 {
		return fmt.Errorf("SEARCH_DIRECT_RESULTS_LIMIT must be positive")
	}

	if c.Enrichment.Workers <= 0 {
		return fmt.Errorf("ENRICH_WORKERS must be positive")
	}

	// Admin login needs credentials once the admin API is switched on
	if c.AdminEnabled() && c.Admin.PasswordHash == "" {
		return fmt.Errorf("ADMIN_PASSWORD_HASH is required when ADMIN_JWT_SECRET is set")
	}

	return nil
}

// NeedsDatabase reports whether any enabled component requires Postgres
func (c *Config) NeedsDatabase() bool {
	return c.Data.Source == DataSourcePostgres || c.Search.LogEnabled
}

// AdminEnabled reports whether the admin API should be mounted
func (c *Config) AdminEnabled() bool {
	return c.Admin.JWTSecret != ""
}

// Helper functions to get environment variables

func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		logrus.Warnf("Invalid integer value for %s, using default: %d", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		logrus.Warnf("Invalid boolean value for %s, using default: %t", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var result []string
	for _, v := range strings.Split(valueStr, ",") {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) == 0 {
		return defaultValue
	}
	return result
}
