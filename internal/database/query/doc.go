// GridWatch - Traffic Count Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gridwatch

// Package query provides SQL query building utilities for the row store backends.
//
// # Overview
//
// The WhereBuilder turns a traffic.Filter into a parameterized WHERE clause
// so detailed-analysis filters can be pushed down to the store:
//
//	wb := query.NewWhereBuilder(query.DuckDB)
//	wb.AddFilter(traffic.Filter{Street: "Oak", Time: &tr})
//	whereClause, args := wb.Build()
//	sql := query.DuckDB.SelectObservations(whereClause)
//	rows, err := db.QueryContext(ctx, sql, args...)
//
// Dialect holds the expressions that differ between DuckDB and PostgreSQL
// (time-of-day extraction and timestamp-to-text casts).
//
// # SQL Injection Prevention
//
// Values only ever travel as bound parameters behind "?" placeholders. Table
// and column names are package constants. The PostgreSQL backend rebinds "?"
// to "$n" after the statement is built.
//
// # Thread Safety
//
// WhereBuilder instances are not thread-safe. Create a new instance per query.
package query
