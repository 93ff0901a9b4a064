// GridWatch - Traffic Count Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gridwatch

package query

import (
	"fmt"
	"strings"
)

// Table and column identifiers. These are fixed; user input never reaches
// identifier positions.
const (
	TableObservations = "vehicle_counts_with_streets"

	ColumnTimestamp = `"timestamp"`
	ColumnStreet    = "street_name"
	ColumnLatitude  = "latitude"
	ColumnLongitude = "longitude"
	ColumnCount     = `"count"`
)

// Dialect captures the few SQL differences between row store backends.
type Dialect int

const (
	// DuckDB is the embedded analytics database used by default.
	DuckDB Dialect = iota
	// Postgres is the server-backed alternative.
	Postgres
)

// String returns the dialect name.
func (d Dialect) String() string {
	switch d {
	case DuckDB:
		return "duckdb"
	case Postgres:
		return "postgres"
	default:
		return "unknown"
	}
}

// PostgresTimestampPattern is the shape a text timestamp must have before
// Postgres is asked to cast it. It avoids "?" so placeholder rebinding
// leaves it alone.
const PostgresTimestampPattern = `^\d{4}-(0[1-9]|1[0-2])-(0[1-9]|[12]\d|3[01])` +
	`([ T]([01]\d|2[0-3]):[0-5]\d(:[0-5]\d(\.\d+){0,1}){0,1}(Z|[+-]\d{2}(:{0,1}\d{2}){0,1}){0,1}){0,1}$`

// TimeOfDay returns an expression yielding the TIME part of col. Text
// timestamps are read leniently so unparseable values become NULL instead of
// failing the whole statement: DuckDB through TRY_CAST, Postgres through a
// pattern guard. Postgres still rejects calendar-invalid dates that match the
// pattern, such as Feb 30.
func (d Dialect) TimeOfDay(col string) string {
	if d == Postgres {
		return fmt.Sprintf("CASE WHEN CAST(%[1]s AS TEXT) ~ '%[2]s' THEN CAST(CAST(CAST(%[1]s AS TEXT) AS TIMESTAMP) AS TIME) END",
			col, PostgresTimestampPattern)
	}
	return fmt.Sprintf("CAST(TRY_CAST(%s AS TIMESTAMP) AS TIME)", col)
}

// TimestampText returns an expression rendering col as text.
func (d Dialect) TimestampText(col string) string {
	if d == Postgres {
		return fmt.Sprintf("CAST(%s AS TEXT)", col)
	}
	return fmt.Sprintf("CAST(%s AS VARCHAR)", col)
}

// SelectObservations returns the observation projection with an optional
// WHERE clause (without the keyword). Rows come back ordered by timestamp
// text then street, which is chronological for ISO timestamps.
func (d Dialect) SelectObservations(where string) string {
	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(d.TimestampText(ColumnTimestamp))
	sb.WriteString(` AS "timestamp", `)
	sb.WriteString(ColumnStreet + ", ")
	sb.WriteString("CAST(" + ColumnLatitude + " AS DOUBLE PRECISION) AS latitude, ")
	sb.WriteString("CAST(" + ColumnLongitude + " AS DOUBLE PRECISION) AS longitude, ")
	sb.WriteString("CAST(" + ColumnCount + ` AS BIGINT) AS "count"`)
	sb.WriteString(" FROM " + TableObservations)
	if where != "" {
		sb.WriteString(" WHERE " + where)
	}
	sb.WriteString(` ORDER BY "timestamp", ` + ColumnStreet)
	return sb.String()
}

// SelectAll is the canonical full-table query.
func (d Dialect) SelectAll() string {
	return d.SelectObservations("")
}

// SelectStreets lists the distinct street names, ascending.
func (d Dialect) SelectStreets() string {
	return "SELECT DISTINCT " + ColumnStreet + " FROM " + TableObservations + " ORDER BY " + ColumnStreet
}
