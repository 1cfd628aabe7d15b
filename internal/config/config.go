// File: internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	// Server Configuration
	GinMode       string        `mapstructure:"GIN_MODE"`
	ServerHost    string        `mapstructure:"SERVER_HOST"`
	ServerPort    string        `mapstructure:"SERVER_PORT"`
	ServerTimeout time.Duration `mapstructure:"SERVER_TIMEOUT_SECONDS"`

	// Database Configuration
	DBHost            string        `mapstructure:"DB_HOST"`
	DBPort            string        `mapstructure:"DB_PORT"`
	DBUser            string        `mapstructure:"DB_USER"`
	DBPassword        string        `mapstructure:"DB_PASSWORD"`
	DBName            string        `mapstructure:"DB_NAME"`
	DBSSLMode         string        `mapstructure:"DB_SSL_MODE"`
	DBTimezone        string        `mapstructure:"DB_TIMEZONE"`
	DBMaxIdleConns    int           `mapstructure:"DB_MAX_IDLE_CONNS"`
	DBMaxOpenConns    int           `mapstructure:"DB_MAX_OPEN_CONNS"`
	DBConnMaxLifetime time.Duration `mapstructure:"DB_CONN_MAX_LIFETIME_MINUTES"`
	DBSource          string        `mapstructure:"DB_SOURCE"`

	// Logging Configuration
	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`

	// Application Specific Configuration
	FavoritesLookupChunkSize int    `mapstructure:"FAVORITES_LOOKUP_CHUNK_SIZE"`
	MaxListingImages         int    `mapstructure:"MAX_LISTING_IMAGES"`
	ImageStoragePath         string `mapstructure:"IMAGE_STORAGE_PATH"`
	ImagePublicBaseURL       string `mapstructure:"IMAGE_PUBLIC_BASE_URL"`

	// Cron Jobs
	RatingRefreshJobSchedule string `mapstructure:"RATING_REFRESH_JOB_SCHEDULE"`

	// Firebase Configuration
	FirebaseServiceAccountKeyPath string `mapstructure:"FIREBASE_SERVICE_ACCOUNT_KEY_PATH"`
	FirebaseProjectID             string `mapstructure:"FIREBASE_PROJECT_ID"`
}

// Load attempts to load configuration from a .env file (if present) and environment variables.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	v := viper.New()

	// Set default values
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_TIMEOUT_SECONDS", 30)

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "password")
	v.SetDefault("DB_NAME", "parking_share_db")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_TIMEZONE", "UTC")
	v.SetDefault("DB_MAX_IDLE_CONNS", 10)
	v.SetDefault("DB_MAX_OPEN_CONNS", 100)
	v.SetDefault("DB_CONN_MAX_LIFETIME_MINUTES", 60)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")

	// The backing store caps membership ("IN") queries at 10 IDs.
	v.SetDefault("FAVORITES_LOOKUP_CHUNK_SIZE", 10)
	v.SetDefault("MAX_LISTING_IMAGES", 5)
	v.SetDefault("IMAGE_STORAGE_PATH", "./uploads/parkings")
	v.SetDefault("IMAGE_PUBLIC_BASE_URL", "http://localhost:8080/uploads/parkings")

	v.SetDefault("RATING_REFRESH_JOB_SCHEDULE", "@daily")

	// Firebase
	v.SetDefault("FIREBASE_PROJECT_ID", "")
	v.SetDefault("FIREBASE_SERVICE_ACCOUNT_KEY_PATH", "")

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling configuration: %w", err)
	}

	// Convert duration fields
	cfg.ServerTimeout = time.Duration(v.GetInt("SERVER_TIMEOUT_SECONDS")) * time.Second
	cfg.DBConnMaxLifetime = time.Duration(v.GetInt("DB_CONN_MAX_LIFETIME_MINUTES")) * time.Minute

	// GORM DSN assembled from the individual DB_* params. A DB_SOURCE env
	// var, when present, is for migration tooling and is left untouched.
	cfg.DBSource = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSSLMode, cfg.DBTimezone)

	if cfg.FavoritesLookupChunkSize <= 0 {
		return nil, fmt.Errorf("FAVORITES_LOOKUP_CHUNK_SIZE must be positive, got %d", cfg.FavoritesLookupChunkSize)
	}

	// Basic validation for critical configs
	if strings.TrimSpace(cfg.FirebaseServiceAccountKeyPath) == "" {
		return nil, fmt.Errorf("FATAL: FIREBASE_SERVICE_ACCOUNT_KEY_PATH is not set. This is required for Firebase Admin SDK initialization")
	}
	if _, err := os.Stat(cfg.FirebaseServiceAccountKeyPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("FATAL: Firebase service account key file specified in FIREBASE_SERVICE_ACCOUNT_KEY_PATH (%s) not found", cfg.FirebaseServiceAccountKeyPath)
	}

	return &cfg, nil
}
