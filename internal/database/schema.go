// GridWatch - Traffic Count Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gridwatch

package database

import (
	"context"
	"fmt"

	"github.com/tomtom215/gridwatch/internal/database/query"
	"github.com/tomtom215/gridwatch/internal/traffic"
)

// createObservationsTable matches the production table. The dashboard only
// reads it; GridWatch creates it solely for seeded development databases.
const createObservationsTable = `CREATE TABLE IF NOT EXISTS ` + query.TableObservations + ` (
	"timestamp" TIMESTAMP,
	street_name VARCHAR,
	latitude DOUBLE,
	longitude DOUBLE,
	"count" INTEGER
)`

// CreateSchema creates vehicle_counts_with_streets if it does not exist.
func (db *DB) CreateSchema(ctx context.Context) error {
	if db.readOnly {
		return fmt.Errorf("cannot create schema on a read-only database")
	}
	if _, err := db.conn.ExecContext(ctx, createObservationsTable); err != nil {
		return fmt.Errorf("failed to create %s: %w", query.TableObservations, err)
	}
	return nil
}

// TableExists reports whether vehicle_counts_with_streets is present.
func (db *DB) TableExists(ctx context.Context) (bool, error) {
	var n int
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM information_schema.tables WHERE table_name = ?`,
		query.TableObservations,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check table %s: %w", query.TableObservations, err)
	}
	return n > 0, nil
}

// RowCount returns the number of observations.
func (db *DB) RowCount(ctx context.Context) (int64, error) {
	var n int64
	if err := db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+query.TableObservations).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count observations: %w", err)
	}
	return n, nil
}

// InsertObservations appends rows in one transaction. Timestamps are cast
// by DuckDB and must be parseable.
func (db *DB) InsertObservations(ctx context.Context, rows []traffic.Observation) error {
	if db.readOnly {
		return fmt.Errorf("cannot insert into a read-only database")
	}
	if len(rows) == 0 {
		return nil
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO `+query.TableObservations+
		` ("timestamp", street_name, latitude, longitude, "count") VALUES (CAST(? AS TIMESTAMP), ?, ?, ?, ?)`)
	if err != nil {
		rollbackQuietly(tx)
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer closeWithLog(stmt, "prepared statement")

	for i, o := range rows {
		if _, err := stmt.ExecContext(ctx, o.Timestamp, o.StreetName, o.Latitude, o.Longitude, o.Count); err != nil {
			rollbackQuietly(tx)
			return fmt.Errorf("failed to insert observation %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit observations: %w", err)
	}
	return nil
}
