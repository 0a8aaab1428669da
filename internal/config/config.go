// Package config loads process configuration from the environment,
// with an optional .env file for local development.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

const (
	envSQLitePath   = "LINKVAULT_DB"
	envDatabaseDSN  = "LINKVAULT_DATABASE_DSN"
	envMetadataTTL  = "LINKVAULT_METADATA_TTL"
	envFetchTimeout = "LINKVAULT_FETCH_TIMEOUT"
	envLogLevel     = "LINKVAULT_LOG_LEVEL"
)

const (
	defaultMetadataTTL  = 5 * time.Minute
	defaultFetchTimeout = 10 * time.Second
	defaultLogLevel     = "info"
)

// Config holds everything the process needs to wire itself.
type Config struct {
	// SQLitePath is the database file used when no DSN is set.
	SQLitePath string
	// DatabaseDSN selects the Postgres backend when non-empty.
	DatabaseDSN string
	// MetadataTTL bounds how long resolved metadata stays cached.
	MetadataTTL time.Duration
	// FetchTimeout bounds a single metadata fetch.
	FetchTimeout time.Duration
	LogLevel     string
}

// Load reads configuration from the environment. A missing .env file is
// fine (e.g. prod).
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		SQLitePath:   defaultSQLitePath(),
		MetadataTTL:  defaultMetadataTTL,
		FetchTimeout: defaultFetchTimeout,
		LogLevel:     defaultLogLevel,
	}

	applyEnv(envSQLitePath, &cfg.SQLitePath)
	applyEnv(envDatabaseDSN, &cfg.DatabaseDSN)
	applyEnv(envLogLevel, &cfg.LogLevel)
	applyEnvDuration(envMetadataTTL, &cfg.MetadataTTL)
	applyEnvDuration(envFetchTimeout, &cfg.FetchTimeout)

	return cfg
}

func applyEnv(key string, dst *string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func applyEnvDuration(key string, dst *time.Duration) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		*dst = d
	}
}

// defaultSQLitePath returns ~/.config/linkvault/linkvault.db, or a
// relative file when the home directory cannot be determined.
func defaultSQLitePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "linkvault.db"
	}
	return filepath.Join(homeDir, ".config", "linkvault", "linkvault.db")
}
