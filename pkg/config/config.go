package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	// Load environment variables from .env files when present.
	_ "github.com/joho/godotenv/autoload"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	Catalog  CatalogConfig
	Scan     ScanConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// CatalogConfig points at the price-list source the catalog is loaded from.
type CatalogConfig struct {
	Path       string // CSV or XLSX price list
	ReloadCron string // cron spec for periodic reloads
}

type ScanConfig struct {
	ShopID        string        // scope key for the ledger store
	DebounceQuiet time.Duration // quiet period before persisting live edits
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Database: DatabaseConfig{
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnvAsInt("POSTGRES_PORT", 5432),
			User:     getEnv("POSTGRES_USER", "postgres"),
			Password: getEnv("POSTGRES_PASSWORD", "postgres"),
			Database: getEnv("POSTGRES_DB", "wineshop-dev"),
			SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		},
		Catalog: CatalogConfig{
			Path:       getEnv("CATALOG_PATH", "./catalog.csv"),
			ReloadCron: getEnv("CATALOG_RELOAD_CRON", "0 3 * * *"),
		},
		Scan: ScanConfig{
			ShopID:        getEnv("SHOP_ID", ""),
			DebounceQuiet: getEnvAsDuration("EDIT_DEBOUNCE_QUIET", 2*time.Second),
		},
	}

	return cfg, nil
}

// DSN returns the database connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
