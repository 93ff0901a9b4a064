// GridWatch - Traffic Count Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gridwatch

package config

import (
	"fmt"
	"time"
)

// Validate checks that required configuration is present and valid.
// The first failing section is returned.
func (c *Config) Validate() error {
	if err := c.validateDatabase(); err != nil {
		return err
	}

	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateDashboard(); err != nil {
		return err
	}

	if err := c.validateState(); err != nil {
		return err
	}

	if err := c.validateSecurity(); err != nil {
		return err
	}

	return c.validateLogging()
}

// validateDatabase checks the row store backend and its settings.
func (c *Config) validateDatabase() error {
	switch c.Database.Backend {
	case BackendDuckDB:
		if c.Database.Path == "" {
			return fmt.Errorf("DUCKDB_PATH is required when DATABASE_BACKEND=duckdb")
		}
	case BackendPostgres:
		if c.Database.DSN == "" {
			return fmt.Errorf("POSTGRES_DSN is required when DATABASE_BACKEND=postgres")
		}
	default:
		return fmt.Errorf("DATABASE_BACKEND must be one of: duckdb, postgres")
	}

	if c.Database.Threads < 0 {
		return fmt.Errorf("DUCKDB_THREADS must not be negative")
	}

	if !c.Database.SeedMockData {
		return nil
	}
	if c.Database.SeedDays < 1 || c.Database.SeedDays > 366 {
		return fmt.Errorf("SEED_DAYS must be between 1 and 366")
	}
	if c.Database.SeedStreets < 1 || c.Database.SeedStreets > 1000 {
		return fmt.Errorf("SEED_STREETS must be between 1 and 1000")
	}
	if c.Database.SeedCenterLat < -90 || c.Database.SeedCenterLat > 90 {
		return fmt.Errorf("SEED_CENTER_LAT must be between -90 and 90")
	}
	if c.Database.SeedCenterLon < -180 || c.Database.SeedCenterLon > 180 {
		return fmt.Errorf("SEED_CENTER_LON must be between -180 and 180")
	}
	return nil
}

// validateServer validates server configuration
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	return nil
}

const maxTopN = 1000

// validateDashboard checks view sizes and accessor tuning.
func (c *Config) validateDashboard() error {
	d := c.Dashboard
	if d.TopN < 1 || d.TopN > maxTopN {
		return fmt.Errorf("TOP_N must be between 1 and %d", maxTopN)
	}
	if d.CacheTTL < 0 {
		return fmt.Errorf("DASHBOARD_CACHE_TTL must not be negative")
	}
	if d.QueryTimeout <= 0 {
		return fmt.Errorf("DASHBOARD_QUERY_TIMEOUT must be positive")
	}
	if d.BreakerMaxRequests == 0 {
		return fmt.Errorf("BREAKER_MAX_REQUESTS must be at least 1")
	}
	if d.BreakerTimeout <= 0 {
		return fmt.Errorf("BREAKER_TIMEOUT must be positive")
	}
	if d.BreakerFailureRatio <= 0 || d.BreakerFailureRatio > 1 {
		return fmt.Errorf("BREAKER_FAILURE_RATIO must be in (0, 1]")
	}
	return nil
}

// validateState checks the submitted-query store.
func (c *Config) validateState() error {
	switch c.State.Store {
	case StateStoreMemory:
		return nil
	case StateStoreBadger:
		if c.State.Path == "" {
			return fmt.Errorf("STATE_STORE_PATH is required when STATE_STORE=badger")
		}
		return nil
	default:
		return fmt.Errorf("STATE_STORE must be one of: memory, badger")
	}
}

// validateSecurity validates CORS and rate limiting.
func (c *Config) validateSecurity() error {
	if len(c.Security.CORSOrigins) == 0 {
		return fmt.Errorf("CORS_ORIGINS must list at least one origin")
	}
	return c.validateRateLimits()
}

// hasWildcardCORS reports whether any allowed origin is "*".
func (c *Config) hasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

// ShouldWarnAboutCORS returns true when a production deployment accepts any
// origin. Logged at startup; not fatal since the API is read-mostly.
func (c *Config) ShouldWarnAboutCORS() bool {
	return c.IsProduction() && c.hasWildcardCORS()
}

// Rate limit constants
const (
	minRateLimitRequests = 1           // Minimum 1 request allowed
	maxRateLimitRequests = 100000      // Maximum 100K requests per window
	minRateLimitWindow   = time.Second // Minimum 1 second window
	maxRateLimitWindow   = time.Hour   // Maximum 1 hour window
)

// validateRateLimits validates rate limiting configuration bounds.
func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}

	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}
