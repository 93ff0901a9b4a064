// GridWatch - Traffic Count Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gridwatch

package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/tomtom215/gridwatch/internal/config"
	"github.com/tomtom215/gridwatch/internal/database/query"
	"github.com/tomtom215/gridwatch/internal/logging"
	"github.com/tomtom215/gridwatch/internal/traffic"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// DB wraps the DuckDB connection holding vehicle_counts_with_streets.
// It implements store.Source.
type DB struct {
	conn     *sql.DB
	cfg      *config.DatabaseConfig
	readOnly bool
}

// New opens the DuckDB database described by cfg. The file is opened
// read-only unless mock data seeding is enabled or the database is in memory.
func New(cfg *config.DatabaseConfig) (*DB, error) {
	readOnly := !cfg.SeedMockData && cfg.Path != MemoryPath

	// Read-only mode needs an existing file; the directory only matters when
	// DuckDB may create one.
	if cfg.Path != MemoryPath && !readOnly {
		dbDir := filepath.Dir(cfg.Path)
		if dbDir != "" && dbDir != "." {
			if err := os.MkdirAll(dbDir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create database directory %s: %w", dbDir, err)
			}
		}
	}

	conn, err := sql.Open("duckdb", connString(cfg, readOnly))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db := &DB{
		conn:     conn,
		cfg:      cfg,
		readOnly: readOnly,
	}
	db.configureConnectionPool()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := db.Ping(ctx); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to connect to database %s: %w", cfg.Path, err)
	}

	logging.Info().
		Str("path", cfg.Path).
		Bool("read_only", readOnly).
		Msg("DuckDB row store opened")

	return db, nil
}

// connString builds the DuckDB DSN with tuning options.
func connString(cfg *config.DatabaseConfig, readOnly bool) string {
	numThreads := cfg.Threads
	if numThreads <= 0 {
		numThreads = runtime.NumCPU()
	}
	maxMemory := cfg.MaxMemory
	if maxMemory == "" {
		maxMemory = "1GB"
	}
	accessMode := "read_write"
	if readOnly {
		accessMode = "read_only"
	}

	// Disable auto-install/auto-load to prevent hangs in restricted network environments
	return fmt.Sprintf("%s?access_mode=%s&threads=%d&max_memory=%s&autoinstall_known_extensions=false&autoload_known_extensions=false",
		cfg.Path, accessMode, numThreads, maxMemory)
}

// configureConnectionPool sizes the pool for concurrent dashboard reads.
func (db *DB) configureConnectionPool() {
	db.conn.SetMaxOpenConns(runtime.NumCPU())
	db.conn.SetMaxIdleConns(2)
	db.conn.SetConnMaxLifetime(time.Hour)
	db.conn.SetConnMaxIdleTime(5 * time.Minute)
}

// Identity names this store for memoization.
func (db *DB) Identity() string {
	return "duckdb:" + db.cfg.Path
}

// Dialect returns query.DuckDB.
func (db *DB) Dialect() query.Dialect {
	return query.DuckDB
}

// Ping checks the connection.
func (db *DB) Ping(ctx context.Context) error {
	if db.conn == nil {
		return fmt.Errorf("database connection is nil")
	}
	return db.conn.PingContext(ctx)
}

// Close closes the connection.
func (db *DB) Close() error {
	if db.conn == nil {
		return nil
	}
	return db.conn.Close()
}

// QueryObservations runs q and scans the observation projection produced by
// query.Dialect.SelectObservations. NULL columns scan as zero values; a NULL
// timestamp becomes "" and later decomposes to null derived fields.
func (db *DB) QueryObservations(ctx context.Context, q string, args ...interface{}) ([]traffic.Observation, error) {
	rows, err := db.conn.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query observations: %w", err)
	}
	defer closeQuietly(rows)

	out := make([]traffic.Observation, 0, 256)
	for rows.Next() {
		var (
			ts, street sql.NullString
			lat, lon   sql.NullFloat64
			count      sql.NullInt64
		)
		if err := rows.Scan(&ts, &street, &lat, &lon, &count); err != nil {
			return nil, fmt.Errorf("failed to scan observation: %w", err)
		}
		out = append(out, traffic.Observation{
			Timestamp:  ts.String,
			StreetName: street.String,
			Latitude:   lat.Float64,
			Longitude:  lon.Float64,
			Count:      count.Int64,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating observations: %w", err)
	}
	return out, nil
}

// QueryStrings runs q and returns its single text column. NULLs are skipped.
func (db *DB) QueryStrings(ctx context.Context, q string, args ...interface{}) ([]string, error) {
	rows, err := db.conn.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query: %w", err)
	}
	defer closeQuietly(rows)

	var out []string
	for rows.Next() {
		var s sql.NullString
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("failed to scan value: %w", err)
		}
		if s.Valid {
			out = append(out, s.String)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return out, nil
}
