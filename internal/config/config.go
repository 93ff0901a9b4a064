// GridWatch - Traffic Count Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gridwatch

package config

import (
	"time"
)

// Row store backends.
const (
	BackendDuckDB   = "duckdb"
	BackendPostgres = "postgres"
)

// Submitted-query state stores.
const (
	StateStoreMemory = "memory"
	StateStoreBadger = "badger"
)

// Config holds all application configuration.
type Config struct {
	Database  DatabaseConfig  `koanf:"database"`
	Server    ServerConfig    `koanf:"server"`
	Dashboard DashboardConfig `koanf:"dashboard"`
	State     StateConfig     `koanf:"state"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// DatabaseConfig selects and tunes the row store.
type DatabaseConfig struct {
	// Backend is "duckdb" (embedded, default) or "postgres".
	Backend string `koanf:"backend"`

	// Path is the DuckDB database file. ":memory:" is accepted.
	Path string `koanf:"path"`

	// DSN is the PostgreSQL connection string, required for the postgres backend.
	DSN string `koanf:"dsn"`

	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads"`

	// SeedMockData fills an empty observation table with generated counts.
	SeedMockData  bool    `koanf:"seed_mock_data"`
	SeedDays      int     `koanf:"seed_days"`
	SeedStreets   int     `koanf:"seed_streets"`
	SeedCenterLat float64 `koanf:"seed_center_lat"`
	SeedCenterLon float64 `koanf:"seed_center_lon"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host        string        `koanf:"host"`
	Port        int           `koanf:"port"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"`
}

// DashboardConfig holds view and accessor settings.
type DashboardConfig struct {
	// TopN is the number of streets in the ranked views.
	TopN int `koanf:"top_n"`

	// CacheTTL bounds how long derived detailed views are cached.
	CacheTTL time.Duration `koanf:"cache_ttl"`

	// PushdownFilters evaluates detailed-query filters in SQL instead of
	// filtering the memoized table in process.
	PushdownFilters bool `koanf:"pushdown_filters"`

	// Preload loads the full table at startup.
	Preload bool `koanf:"preload"`

	BreakerMaxRequests  uint32        `koanf:"breaker_max_requests"`
	BreakerInterval     time.Duration `koanf:"breaker_interval"`
	BreakerTimeout      time.Duration `koanf:"breaker_timeout"`
	BreakerMinRequests  uint32        `koanf:"breaker_min_requests"`
	BreakerFailureRatio float64       `koanf:"breaker_failure_ratio"`

	// QueryTimeout bounds a single row store query.
	QueryTimeout time.Duration `koanf:"query_timeout"`
}

// StateConfig selects where the last submitted detailed query is kept.
type StateConfig struct {
	Store string `koanf:"store"`
	Path  string `koanf:"path"`
}

// SecurityConfig holds CORS and rate limiting settings.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level: trace, debug, info, warn, error. Default: info
	Level string `koanf:"level"`

	// Format: json or console. Default: json
	Format string `koanf:"format"`

	Caller bool `koanf:"caller"`
}

// Load reads configuration from defaults, an optional YAML file, an optional
// .env file and the environment, then validates it.
func Load() (*Config, error) {
	return LoadWithKoanf()
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
